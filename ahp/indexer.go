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

// Package ahp implements the algebraic holographic proof at the heart of the
// PLONK argument: the indexer compiling a circuit into committed polynomials,
// the three round prover, and the verifier state machine with its terminal
// equality check. Commitments and openings are delegated to a pcs.Scheme.
package ahp

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonk/composer"
	"github.com/consensys/plonk/pcs"
)

// NbWires is the number of wire columns, mirrored from the composer.
const NbWires = composer.NbWires

// IndexInfo is the circuit size metadata shared by prover and verifier.
// Immutable once the index is built.
type IndexInfo struct {
	// SizeSystem is the number of gate rows before padding.
	SizeSystem uint64

	// Size is the domain size n, SizeSystem rounded up to a power of two.
	Size    uint64
	SizeInv fr.Element

	// Generator generates the size-n domain.
	Generator fr.Element

	NbPublicInputs int

	// Ks are the coset identifiers labeling the four wire columns in the
	// permutation argument. Ks[0] is one.
	Ks [NbWires]fr.Element
}

// IndexedPolynomial is one index polynomial materialized in the three
// representations the protocol needs.
type IndexedPolynomial struct {
	// Poly is the canonical (coefficient) form, labeled for commitment
	// bookkeeping.
	Poly pcs.LabeledPolynomial

	// LagrangeN are the evaluations over the size-n domain.
	LagrangeN []fr.Element

	// Coset4N are the evaluations over the size-4n domain coset.
	Coset4N []fr.Element
}

func newIndexedPolynomial(label string, lagrangeN []fr.Element, d *Domains) IndexedPolynomial {
	coeffs := d.interpolateSmall(lagrangeN)
	return IndexedPolynomial{
		Poly:      pcs.NewLabeledPolynomial(label, coeffs),
		LagrangeN: lagrangeN,
		Coset4N:   d.evaluateBigCoset(coeffs),
	}
}

// Index is the preprocessed form of a circuit. Read-only after construction,
// safely shared by concurrent proof sessions.
type Index struct {
	Info    IndexInfo
	Domains *Domains

	Arithmetic  ArithmeticKey
	Permutation PermutationKey

	// Wires maps (column, row) to the variable id feeding that position,
	// padded to the domain size with the zero wire.
	Wires [NbWires][]int
}

// openingMargin is the degree slack reserved for the commitment scheme's
// blinding when trimming the SRS.
const openingMargin = 3

// RequiredDegree is the degree the trimmed commitment key must support.
func (idx *Index) RequiredDegree() int {
	return int(idx.Info.Size) + openingMargin
}

// Polynomials returns the index polynomials, in commitment order:
// q_0..q_3, q_m, q_c, q_arith, sigma_0..sigma_3.
func (idx *Index) Polynomials() []pcs.LabeledPolynomial {
	res := []pcs.LabeledPolynomial{
		idx.Arithmetic.Q0.Poly,
		idx.Arithmetic.Q1.Poly,
		idx.Arithmetic.Q2.Poly,
		idx.Arithmetic.Q3.Poly,
		idx.Arithmetic.QM.Poly,
		idx.Arithmetic.QC.Poly,
		idx.Arithmetic.QArith.Poly,
	}
	for j := 0; j < NbWires; j++ {
		res = append(res, idx.Permutation.Sigma[j].Poly)
	}
	return res
}

// NewIndex compiles the composer's gate table into an index: selector
// vectors padded to the domain size and interpolated, the copy constraint
// permutation compiled into sigma polynomials, all of them evaluated on the
// two domains.
func NewIndex(cs *composer.Composer, ks [NbWires]fr.Element) (*Index, error) {
	rows := cs.Rows()
	m := uint64(len(rows))
	d := NewDomains(m)
	n := int(d.Small.Cardinality)

	idx := &Index{
		Domains: d,
		Info: IndexInfo{
			SizeSystem:     m,
			Size:           d.Small.Cardinality,
			SizeInv:        d.Small.CardinalityInv,
			Generator:      d.Small.Generator,
			NbPublicInputs: cs.NbPublicInputs(),
			Ks:             ks,
		},
	}

	// selector vectors in Lagrange basis, padded with disabled gates
	var q [7][]fr.Element
	for i := range q {
		q[i] = make([]fr.Element, n)
	}
	for j := 0; j < NbWires; j++ {
		idx.Wires[j] = make([]int, n)
	}
	for i, row := range rows {
		q[0][i] = row.Q0
		q[1][i] = row.Q1
		q[2][i] = row.Q2
		q[3][i] = row.Q3
		q[4][i] = row.QM
		q[5][i] = row.QC
		q[6][i] = row.QArith
		for j := 0; j < NbWires; j++ {
			idx.Wires[j][i] = int(row.Wires[j])
		}
	}

	idx.Arithmetic = ArithmeticKey{
		Q0:     newIndexedPolynomial("q_0", q[0], d),
		Q1:     newIndexedPolynomial("q_1", q[1], d),
		Q2:     newIndexedPolynomial("q_2", q[2], d),
		Q3:     newIndexedPolynomial("q_3", q[3], d),
		QM:     newIndexedPolynomial("q_m", q[4], d),
		QC:     newIndexedPolynomial("q_c", q[5], d),
		QArith: newIndexedPolynomial("q_arith", q[6], d),
	}

	buildPermutation(idx, cs.NbVariables())

	return idx, nil
}

// buildPermutation compiles the copy constraints into sigma polynomials.
//
// The permutation s is composed of cycles of maximum length such that
// s.(w_0||w_1||w_2||w_3) = (w_0||w_1||w_2||w_3), where w_j is the j-th wire
// column of variable ids. Position col*n+row is sent to permutation[col*n+row].
func buildPermutation(idx *Index, nbVariables int) {
	n := int(idx.Info.Size)

	permutation := make([]int64, NbWires*n)
	for i := range permutation {
		permutation[i] = -1
	}

	// wire position -> variable id
	lro := make([]int, NbWires*n)
	for j := 0; j < NbWires; j++ {
		for i := 0; i < n; i++ {
			lro[j*n+i] = idx.Wires[j][i]
		}
	}

	// map variable id -> last position it was seen at
	cycle := make([]int64, nbVariables)
	for i := range cycle {
		cycle[i] = -1
	}
	for i := 0; i < len(lro); i++ {
		if cycle[lro[i]] != -1 {
			permutation[i] = cycle[lro[i]]
		}
		cycle[lro[i]] = int64(i)
	}
	// close each cycle
	for i := 0; i < len(permutation); i++ {
		if permutation[i] == -1 {
			permutation[i] = cycle[lro[i]]
		}
	}

	// sID[col*n+row] = k_col·g^row labels each wire position
	sID := make([]fr.Element, NbWires*n)
	for j := 0; j < NbWires; j++ {
		sID[j*n].Set(&idx.Info.Ks[j])
		for i := 1; i < n; i++ {
			sID[j*n+i].Mul(&sID[j*n+i-1], &idx.Info.Generator)
		}
	}

	for j := 0; j < NbWires; j++ {
		lagrange := make([]fr.Element, n)
		for i := 0; i < n; i++ {
			lagrange[i].Set(&sID[permutation[j*n+i]])
		}
		idx.Permutation.Sigma[j] = newIndexedPolynomial(sigmaLabel(j), lagrange, idx.Domains)
	}
}

func sigmaLabel(j int) string {
	return "sigma_" + string(rune('0'+j))
}
