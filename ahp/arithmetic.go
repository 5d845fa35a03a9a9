// Copyright 2020 ConsenSys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ahp

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonk/internal/utils"
)

// ArithmeticKey holds the seven arithmetic selector polynomials. The single
// gate identity
//
//	q_arith·(q_0·w_0 + q_1·w_1 + q_2·w_2 + q_3·w_3 + q_m·w_1·w_2 + q_c + pi)
//
// simultaneously expresses addition, multiplication and constant gates via
// the selector coefficients, active only where q_arith ≠ 0.
type ArithmeticKey struct {
	Q0, Q1, Q2, Q3, QM, QC, QArith IndexedPolynomial
}

// ComputeQuotient evaluates the gate identity on the big domain coset. Each
// point is independent: the loop is dispatched across a worker pool, every
// worker writing to disjoint output slots.
func (k *ArithmeticKey) ComputeQuotient(d *Domains, w4n [NbWires][]fr.Element, pi4n []fr.Element) []fr.Element {
	size := int(d.Big.Cardinality)
	res := make([]fr.Element, size)
	utils.Parallelize(size, func(start, end int) {
		for i := start; i < end; i++ {
			res[i] = k.evaluate(
				&w4n[0][i], &w4n[1][i], &w4n[2][i], &w4n[3][i],
				&pi4n[i], i,
			)
		}
	})
	return res
}

// evaluate computes the gate identity at one coset point. Zero where the
// gate is disabled, regardless of wire values.
func (k *ArithmeticKey) evaluate(w0, w1, w2, w3, pi *fr.Element, i int) fr.Element {
	qArith := &k.QArith.Coset4N[i]
	if qArith.IsZero() {
		return fr.Element{}
	}

	var acc, t fr.Element
	acc.Mul(&k.Q0.Coset4N[i], w0)
	t.Mul(&k.Q1.Coset4N[i], w1)
	acc.Add(&acc, &t)
	t.Mul(&k.Q2.Coset4N[i], w2)
	acc.Add(&acc, &t)
	t.Mul(&k.Q3.Coset4N[i], w3)
	acc.Add(&acc, &t)
	t.Mul(&k.QM.Coset4N[i], w1).Mul(&t, w2)
	acc.Add(&acc, &t)
	acc.Add(&acc, &k.QC.Coset4N[i]).Add(&acc, pi)
	acc.Mul(&acc, qArith)
	return acc
}

// Linearization returns the canonical form of the arithmetic part of the
// linearization polynomial: the selector combination
//
//	q_0·w_0(z) + q_1·w_1(z) + q_2·w_2(z) + q_3·w_3(z) + q_m·w_1(z)·w_2(z) + q_c
//
// with every term weighted by q_arith(z). Opening this combination spares the
// verifier an opening per selector.
func (k *ArithmeticKey) Linearization(wZeta [NbWires]fr.Element, qArithZeta fr.Element) []fr.Element {
	q0 := k.Q0.Poly.Coefficients()
	q1 := k.Q1.Poly.Coefficients()
	q2 := k.Q2.Poly.Coefficients()
	q3 := k.Q3.Poly.Coefficients()
	qm := k.QM.Poly.Coefficients()
	qc := k.QC.Poly.Coefficients()

	var w12 fr.Element
	w12.Mul(&wZeta[1], &wZeta[2])

	res := make([]fr.Element, len(q0))
	utils.Parallelize(len(res), func(start, end int) {
		var t fr.Element
		for i := start; i < end; i++ {
			res[i].Mul(&q0[i], &wZeta[0])
			t.Mul(&q1[i], &wZeta[1])
			res[i].Add(&res[i], &t)
			t.Mul(&q2[i], &wZeta[2])
			res[i].Add(&res[i], &t)
			t.Mul(&q3[i], &wZeta[3])
			res[i].Add(&res[i], &t)
			t.Mul(&qm[i], &w12)
			res[i].Add(&res[i], &t)
			res[i].Add(&res[i], &qc[i])
			res[i].Mul(&res[i], &qArithZeta)
		}
	})
	return res
}
