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
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonk/pcs"
)

// FirstMessage carries the challenges of the permutation argument.
type FirstMessage struct {
	Beta, Gamma fr.Element
}

// SecondMessage carries the challenge batching the quotient identities.
type SecondMessage struct {
	Alpha fr.Element
}

// ThirdMessage carries the evaluation point.
type ThirdMessage struct {
	Zeta fr.Element
}

// quotientChunks is the number of degree < n pieces the quotient is split
// into, fixed by the big domain being four times the small one.
const quotientChunks = 4

// Verifier runs the verifier side of the argument: it derives the challenge
// messages from the prover commitments, emits the query set, and decides the
// final algebraic check. Rounds must be called in order; a round called out
// of turn fails with ErrInvalidRoundState and leaves the state unchanged.
type Verifier struct {
	info       IndexInfo
	challenges Challenges

	round int

	beta, gamma, alpha, zeta fr.Element
}

// NewVerifier builds a verifier session for one proof. challenges decides
// where the randomness comes from: a Fiat-Shamir transcript in production,
// scripted values in tests.
func NewVerifier(info IndexInfo, challenges Challenges) *Verifier {
	return &Verifier{info: info, challenges: challenges}
}

// FirstRound absorbs the wire commitments and returns the permutation
// challenges beta and gamma.
func (v *Verifier) FirstRound(commitments ...[]byte) (*FirstMessage, error) {
	if v.round != 0 {
		return nil, ErrInvalidRoundState
	}
	var err error
	if v.beta, err = v.challenges.Derive("beta", commitments...); err != nil {
		return nil, err
	}
	if v.gamma, err = v.challenges.Derive("gamma"); err != nil {
		return nil, err
	}
	v.round = 1
	return &FirstMessage{Beta: v.beta, Gamma: v.gamma}, nil
}

// SecondRound absorbs the accumulator commitment and returns alpha.
func (v *Verifier) SecondRound(commitments ...[]byte) (*SecondMessage, error) {
	if v.round != 1 {
		return nil, ErrInvalidRoundState
	}
	var err error
	if v.alpha, err = v.challenges.Derive("alpha", commitments...); err != nil {
		return nil, err
	}
	v.round = 2
	return &SecondMessage{Alpha: v.alpha}, nil
}

// ThirdRound absorbs the quotient chunk commitments and returns the
// evaluation point zeta.
func (v *Verifier) ThirdRound(commitments ...[]byte) (*ThirdMessage, error) {
	if v.round != 2 {
		return nil, ErrInvalidRoundState
	}
	var err error
	if v.zeta, err = v.challenges.Derive("zeta", commitments...); err != nil {
		return nil, err
	}
	v.round = 3
	return &ThirdMessage{Zeta: v.zeta}, nil
}

// QuerySet returns the openings the proof must carry: everything at zeta
// except the accumulator, opened at the shifted point g·zeta.
func (v *Verifier) QuerySet() (pcs.QuerySet, error) {
	if v.round != 3 {
		return nil, ErrInvalidRoundState
	}
	v.round = 4

	var shifted fr.Element
	shifted.Mul(&v.zeta, &v.info.Generator)

	var qs pcs.QuerySet
	for j := 0; j < NbWires; j++ {
		qs = append(qs, pcs.Query{PolyLabel: wireLabel(j), PointLabel: PointZeta, Point: v.zeta})
	}
	qs = append(qs, pcs.Query{PolyLabel: "q_arith", PointLabel: PointZeta, Point: v.zeta})
	for j := 0; j < NbWires-1; j++ {
		qs = append(qs, pcs.Query{PolyLabel: sigmaLabel(j), PointLabel: PointZeta, Point: v.zeta})
	}
	for j := 0; j < quotientChunks; j++ {
		qs = append(qs, pcs.Query{PolyLabel: chunkLabel(j), PointLabel: PointZeta, Point: v.zeta})
	}
	qs = append(qs, pcs.Query{PolyLabel: "r", PointLabel: PointZeta, Point: v.zeta})
	qs = append(qs, pcs.Query{PolyLabel: "z", PointLabel: PointShiftedZeta, Point: shifted})
	return qs, nil
}

// CheckEquality decides the argument: it recombines the claimed evaluations
// into the quotient identity at zeta and accepts iff both sides agree. The
// claimed values must have been validated against the commitments
// beforehand; this check only covers the algebraic relation between them.
func (v *Verifier) CheckEquality(evals *pcs.Evaluations, publicInputs []fr.Element) (bool, error) {
	if v.round != 4 {
		return false, ErrInvalidRoundState
	}
	v.round = 5

	get := func(polyLabel, pointLabel string) (fr.Element, error) {
		val, ok := evals.Get(polyLabel, pointLabel)
		if !ok {
			return val, fmt.Errorf("%w: %s at %s", ErrMissingEvaluation, polyLabel, pointLabel)
		}
		return val, nil
	}

	var wZeta [NbWires]fr.Element
	var err error
	for j := 0; j < NbWires; j++ {
		if wZeta[j], err = get(wireLabel(j), PointZeta); err != nil {
			return false, err
		}
	}
	qArithZeta, err := get("q_arith", PointZeta)
	if err != nil {
		return false, err
	}
	var sigmaZeta [NbWires - 1]fr.Element
	for j := 0; j < NbWires-1; j++ {
		if sigmaZeta[j], err = get(sigmaLabel(j), PointZeta); err != nil {
			return false, err
		}
	}
	rZeta, err := get("r", PointZeta)
	if err != nil {
		return false, err
	}
	zShifted, err := get("z", PointShiftedZeta)
	if err != nil {
		return false, err
	}

	// t(z) = sum_j z^{j·n} t_j(z)
	var tZeta, zetaN, power fr.Element
	var expo big.Int
	expo.SetUint64(v.info.Size)
	zetaN.Exp(v.zeta, &expo)
	power.SetOne()
	for j := 0; j < quotientChunks; j++ {
		chunk, err := get(chunkLabel(j), PointZeta)
		if err != nil {
			return false, err
		}
		chunk.Mul(&chunk, &power)
		tZeta.Add(&tZeta, &chunk)
		power.Mul(&power, &zetaN)
	}

	var lhs fr.Element
	vH := evaluateVanishing(v.info.Size, v.zeta)
	lhs.Mul(&tZeta, &vH)

	// permutation term not absorbed by the linearization:
	// alpha·z(g·z)·(w_0+beta·sigma_0+gamma)(w_1+beta·sigma_1+gamma)(w_2+beta·sigma_2+gamma)(w_3+gamma)
	var permTerm, u fr.Element
	permTerm.Mul(&v.alpha, &zShifted)
	for j := 0; j < NbWires-1; j++ {
		u.Mul(&v.beta, &sigmaZeta[j]).Add(&u, &wZeta[j]).Add(&u, &v.gamma)
		permTerm.Mul(&permTerm, &u)
	}
	u.Add(&wZeta[NbWires-1], &v.gamma)
	permTerm.Mul(&permTerm, &u)

	var l1Term fr.Element
	l1Term.Square(&v.alpha)
	l1 := evaluateLagrangeOne(v.info.Size, v.info.SizeInv, v.zeta)
	l1Term.Mul(&l1Term, &l1)

	piZeta := v.publicInputEval(publicInputs)
	piZeta.Mul(&piZeta, &qArithZeta)

	var rhs fr.Element
	rhs.Add(&rZeta, &piZeta).Sub(&rhs, &permTerm).Sub(&rhs, &l1Term)

	return lhs.Equal(&rhs), nil
}

// publicInputEval evaluates the public input polynomial at zeta:
// sum_i pi_i·L_i(z) with L_i(z) = (z^n-1)·gⁱ / (n·(z-gⁱ)), the denominators
// batch inverted.
func (v *Verifier) publicInputEval(publicInputs []fr.Element) fr.Element {
	var res fr.Element
	if len(publicInputs) == 0 {
		return res
	}

	den := make([]fr.Element, len(publicInputs))
	gi := fr.One()
	for i := range den {
		den[i].Sub(&v.zeta, &gi)
		gi.Mul(&gi, &v.info.Generator)
	}
	den = fr.BatchInvert(den)

	vH := evaluateVanishing(v.info.Size, v.zeta)
	vH.Mul(&vH, &v.info.SizeInv)

	var li fr.Element
	gi.SetOne()
	for i := range publicInputs {
		li.Mul(&vH, &gi).Mul(&li, &den[i]).Mul(&li, &publicInputs[i])
		res.Add(&res, &li)
		gi.Mul(&gi, &v.info.Generator)
	}
	return res
}
