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
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonk/internal/utils"
)

// PermutationKey holds the four sigma polynomials encoding the copy
// constraints across wire columns.
type PermutationKey struct {
	Sigma [NbWires]IndexedPolynomial
}

// ComputeAccumulator builds the running product z over the small domain:
// z[0] = 1 and
//
//	z[i+1] = z[i] · Π_j (w_j[i] + β·k_j·gⁱ + γ) / (w_j[i] + β·σ_j(gⁱ) + γ)
//
// with the denominators batch inverted. The result is the Lagrange form of
// the grand product polynomial.
func (k *PermutationKey) ComputeAccumulator(d *Domains, wN [NbWires][]fr.Element, beta, gamma fr.Element, ks [NbWires]fr.Element) []fr.Element {
	n := int(d.Small.Cardinality)

	num := make([]fr.Element, n)
	den := make([]fr.Element, n)

	utils.Parallelize(n, func(start, end int) {
		var x, t, f, g fr.Element
		x.Exp(d.Small.Generator, big.NewInt(int64(start)))
		for i := start; i < end; i++ {
			num[i].SetOne()
			den[i].SetOne()
			for j := 0; j < NbWires; j++ {
				t.Mul(&beta, &ks[j]).Mul(&t, &x)
				f.Add(&wN[j][i], &t).Add(&f, &gamma)
				num[i].Mul(&num[i], &f)

				t.Mul(&beta, &k.Sigma[j].LagrangeN[i])
				g.Add(&wN[j][i], &t).Add(&g, &gamma)
				den[i].Mul(&den[i], &g)
			}
			x.Mul(&x, &d.Small.Generator)
		}
	})

	den = fr.BatchInvert(den)

	z := make([]fr.Element, n)
	z[0].SetOne()
	for i := 0; i < n-1; i++ {
		z[i+1].Mul(&z[i], &num[i]).Mul(&z[i+1], &den[i])
	}
	return z
}

// ComputeQuotient evaluates the permutation identity on the big domain
// coset:
//
//	z(x)·Π_j (w_j(x) + β·k_j·x + γ) − z(g·x)·Π_j (w_j(x) + β·σ_j(x) + γ)
//
// z4n must be in natural order so that z(g·x) at slot i is z4n[(i+r) mod 4n]
// where r is the domain size ratio.
func (k *PermutationKey) ComputeQuotient(d *Domains, w4n [NbWires][]fr.Element, z4n []fr.Element, beta, gamma fr.Element, ks [NbWires]fr.Element) []fr.Element {
	size := int(d.Big.Cardinality)
	ratio := int(d.Big.Cardinality / d.Small.Cardinality)
	res := make([]fr.Element, size)

	utils.Parallelize(size, func(start, end int) {
		var x, t, f, g, left, right fr.Element
		// x = u·wⁱ on the coset, w the big domain generator.
		x.Exp(d.Big.Generator, big.NewInt(int64(start)))
		x.Mul(&x, &d.Big.FrMultiplicativeGen)
		for i := start; i < end; i++ {
			left.Set(&z4n[i])
			right.Set(&z4n[(i+ratio)%size])
			for j := 0; j < NbWires; j++ {
				t.Mul(&beta, &ks[j]).Mul(&t, &x)
				f.Add(&w4n[j][i], &t).Add(&f, &gamma)
				left.Mul(&left, &f)

				t.Mul(&beta, &k.Sigma[j].Coset4N[i])
				g.Add(&w4n[j][i], &t).Add(&g, &gamma)
				right.Mul(&right, &g)
			}
			res[i].Sub(&left, &right)
			x.Mul(&x, &d.Big.Generator)
		}
	})
	return res
}

// Linearization returns the canonical form of the permutation part of the
// linearization polynomial, two terms kept as polynomials:
//
//	 α·Π_j (w_j(z) + β·k_j·z + γ) · z(X)
//	−α·β·z(g·z)·Π_{j<3} (w_j(z) + β·σ_j(z) + γ) · σ_3(X)
func (k *PermutationKey) Linearization(wZeta [NbWires]fr.Element, sigmaZeta [NbWires - 1]fr.Element, zShiftedZeta fr.Element, z []fr.Element, beta, gamma, zeta, alpha fr.Element, ks [NbWires]fr.Element) []fr.Element {
	var coefZ, coefS, t fr.Element

	coefZ.Set(&alpha)
	for j := 0; j < NbWires; j++ {
		t.Mul(&beta, &ks[j]).Mul(&t, &zeta).Add(&t, &wZeta[j]).Add(&t, &gamma)
		coefZ.Mul(&coefZ, &t)
	}

	coefS.Mul(&alpha, &beta).Mul(&coefS, &zShiftedZeta)
	for j := 0; j < NbWires-1; j++ {
		t.Mul(&beta, &sigmaZeta[j]).Add(&t, &wZeta[j]).Add(&t, &gamma)
		coefS.Mul(&coefS, &t)
	}
	coefS.Neg(&coefS)

	sLast := k.Sigma[NbWires-1].Poly.Coefficients()
	res := make([]fr.Element, len(z))
	utils.Parallelize(len(res), func(start, end int) {
		var u fr.Element
		for i := start; i < end; i++ {
			res[i].Mul(&coefZ, &z[i])
			u.Mul(&coefS, &sLast[i])
			res[i].Add(&res[i], &u)
		}
	})
	return res
}
