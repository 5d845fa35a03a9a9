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

	"github.com/consensys/plonk/composer"
	"github.com/consensys/plonk/internal/utils"
	"github.com/consensys/plonk/pcs"
)

// Point labels of the query set.
const (
	PointZeta        = "zeta"
	PointShiftedZeta = "shifted_zeta"
)

// Prover runs the prover side of the argument for one witness. It is a
// single-use state machine: rounds must be called in order, interleaved with
// the verifier messages feeding them. A Prover is not safe for concurrent
// use; run concurrent proof sessions on separate instances sharing the same
// Index.
type Prover struct {
	index *Index

	witness []fr.Element
	piN     []fr.Element // public input polynomial, Lagrange basis, length n

	round int

	wN      [NbWires][]fr.Element
	wPolys  [NbWires]pcs.LabeledPolynomial
	zCoeffs []fr.Element
	tPolys  []pcs.LabeledPolynomial

	beta, gamma, alpha, zeta fr.Element
}

// NewProver binds a full witness to the index. It fails if any variable
// referenced by a gate is unassigned.
func NewProver(idx *Index, cs *composer.Composer) (*Prover, error) {
	witness, err := cs.Witness()
	if err != nil {
		return nil, err
	}

	piN := make([]fr.Element, idx.Info.Size)
	copy(piN, cs.PublicInputs())

	return &Prover{
		index:   idx,
		witness: witness,
		piN:     piN,
	}, nil
}

// PublicInputs returns the public input values of the bound witness, in
// declaration order.
func (p *Prover) PublicInputs() []fr.Element {
	return p.piN[:p.index.Info.NbPublicInputs]
}

// FirstRound materializes the four wire polynomials w_0..w_3 from the
// witness.
func (p *Prover) FirstRound() ([]pcs.LabeledPolynomial, error) {
	if p.round != 0 {
		return nil, ErrInvalidRoundState
	}
	p.round = 1

	n := int(p.index.Info.Size)
	res := make([]pcs.LabeledPolynomial, NbWires)
	for j := 0; j < NbWires; j++ {
		p.wN[j] = make([]fr.Element, n)
		for i := 0; i < n; i++ {
			p.wN[j][i] = p.witness[p.index.Wires[j][i]]
		}
		p.wPolys[j] = pcs.NewLabeledPolynomial(wireLabel(j), p.index.Domains.interpolateSmall(p.wN[j]))
		res[j] = p.wPolys[j]
	}
	return res, nil
}

// SecondRound builds the permutation accumulator z from the first verifier
// message.
func (p *Prover) SecondRound(msg *FirstMessage) ([]pcs.LabeledPolynomial, error) {
	if p.round != 1 {
		return nil, ErrInvalidRoundState
	}
	p.round = 2
	p.beta = msg.Beta
	p.gamma = msg.Gamma

	d := p.index.Domains
	zLagrange := p.index.Permutation.ComputeAccumulator(d, p.wN, p.beta, p.gamma, p.index.Info.Ks)
	p.zCoeffs = d.interpolateSmall(zLagrange)
	return []pcs.LabeledPolynomial{pcs.NewLabeledPolynomial("z", p.zCoeffs)}, nil
}

// ThirdRound builds the quotient polynomial t and returns its four chunks
// t_0..t_3 of degree < n. The full identity
//
//	arith + α·perm + α²·L₁·(z-1)
//
// vanishes on H for a valid witness; it is evaluated on the big domain
// coset, divided pointwise by v_H, and interpolated back to get t.
func (p *Prover) ThirdRound(msg *SecondMessage) ([]pcs.LabeledPolynomial, error) {
	if p.round != 2 {
		return nil, ErrInvalidRoundState
	}
	p.round = 3
	p.alpha = msg.Alpha

	idx := p.index
	d := idx.Domains
	size := int(d.Big.Cardinality)
	ratio := int(d.Big.Cardinality / d.Small.Cardinality)

	var w4n [NbWires][]fr.Element
	for j := 0; j < NbWires; j++ {
		w4n[j] = d.evaluateBigCoset(p.wPolys[j].Coefficients())
	}
	pi4n := d.evaluateBigCoset(d.interpolateSmall(p.piN))
	z4n := d.evaluateBigCoset(p.zCoeffs)
	l14n := d.evaluateBigCoset(d.lagrangeOneCanonical())

	arith := idx.Arithmetic.ComputeQuotient(d, w4n, pi4n)
	perm := idx.Permutation.ComputeQuotient(d, w4n, z4n, p.beta, p.gamma, idx.Info.Ks)

	var alphaSq fr.Element
	alphaSq.Square(&p.alpha)
	one := fr.One()
	vInv := d.vanishingBigCosetInverse()

	t4n := make([]fr.Element, size)
	utils.Parallelize(size, func(start, end int) {
		var acc, u fr.Element
		for i := start; i < end; i++ {
			acc.Mul(&perm[i], &p.alpha)
			acc.Add(&acc, &arith[i])
			u.Sub(&z4n[i], &one).Mul(&u, &l14n[i]).Mul(&u, &alphaSq)
			acc.Add(&acc, &u)
			t4n[i].Mul(&acc, &vInv[i%ratio])
		}
	})

	tCoeffs := d.interpolateBigCoset(t4n)
	n := int(idx.Info.Size)
	p.tPolys = make([]pcs.LabeledPolynomial, ratio)
	for j := 0; j < ratio; j++ {
		chunk := make([]fr.Element, n)
		copy(chunk, tCoeffs[j*n:(j+1)*n])
		p.tPolys[j] = pcs.NewLabeledPolynomial(chunkLabel(j), chunk)
	}
	return p.tPolys, nil
}

// Evaluate finishes the argument at the evaluation point: it assembles the
// linearization polynomial r and returns it together with the evaluations of
// the query set.
func (p *Prover) Evaluate(msg *ThirdMessage) (*pcs.Evaluations, pcs.LabeledPolynomial, error) {
	if p.round != 3 {
		return nil, pcs.LabeledPolynomial{}, ErrInvalidRoundState
	}
	p.round = 4
	p.zeta = msg.Zeta

	idx := p.index
	var shifted fr.Element
	shifted.Mul(&p.zeta, &idx.Info.Generator)

	var wZeta [NbWires]fr.Element
	for j := 0; j < NbWires; j++ {
		wZeta[j] = p.wPolys[j].Evaluate(p.zeta)
	}
	qArithZeta := idx.Arithmetic.QArith.Poly.Evaluate(p.zeta)
	var sigmaZeta [NbWires - 1]fr.Element
	for j := 0; j < NbWires-1; j++ {
		sigmaZeta[j] = idx.Permutation.Sigma[j].Poly.Evaluate(p.zeta)
	}
	zPoly := pcs.NewLabeledPolynomial("z", p.zCoeffs)
	zShifted := zPoly.Evaluate(shifted)

	// r = arithmetic part + permutation part + α²·L₁(z)·z(X)
	rCoeffs := idx.Arithmetic.Linearization(wZeta, qArithZeta)
	permLin := idx.Permutation.Linearization(wZeta, sigmaZeta, zShifted, p.zCoeffs,
		p.beta, p.gamma, p.zeta, p.alpha, idx.Info.Ks)
	var coefZ fr.Element
	l1Zeta := evaluateLagrangeOne(idx.Info.Size, idx.Info.SizeInv, p.zeta)
	coefZ.Square(&p.alpha).Mul(&coefZ, &l1Zeta)
	var u fr.Element
	for i := range rCoeffs {
		rCoeffs[i].Add(&rCoeffs[i], &permLin[i])
		u.Mul(&coefZ, &p.zCoeffs[i])
		rCoeffs[i].Add(&rCoeffs[i], &u)
	}
	rPoly := pcs.NewLabeledPolynomial("r", rCoeffs)

	evals := &pcs.Evaluations{}
	for j := 0; j < NbWires; j++ {
		evals.Insert(wireLabel(j), PointZeta, wZeta[j])
	}
	evals.Insert("q_arith", PointZeta, qArithZeta)
	for j := 0; j < NbWires-1; j++ {
		evals.Insert(sigmaLabel(j), PointZeta, sigmaZeta[j])
	}
	// the chunks are evaluated separately, the verifier folds them with
	// powers of zⁿ
	for j := range p.tPolys {
		evals.Insert(p.tPolys[j].Label(), PointZeta, p.tPolys[j].Evaluate(p.zeta))
	}
	evals.Insert("r", PointZeta, rPoly.Evaluate(p.zeta))
	evals.Insert("z", PointShiftedZeta, zShifted)

	return evals, rPoly, nil
}

func wireLabel(j int) string {
	return "w_" + string(rune('0'+j))
}

func chunkLabel(j int) string {
	return "t_" + string(rune('0'+j))
}
