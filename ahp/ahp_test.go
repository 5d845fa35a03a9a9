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
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/consensys/plonk/composer"
	"github.com/consensys/plonk/pcs"
)

func testKs() [NbWires]fr.Element {
	var ks [NbWires]fr.Element
	for j, v := range []uint64{1, 7, 13, 17} {
		ks[j].SetUint64(v)
	}
	return ks
}

// testCircuit builds x·(y+2) = z with x and z public, x=3, y=4, z=18, plus
// filler gates to grow the domain.
func testCircuit(t *testing.T) *composer.Composer {
	t.Helper()

	var one, two, three, four, six, eighteen fr.Element
	one.SetOne()
	two.SetUint64(2)
	three.SetUint64(3)
	four.SetUint64(4)
	six.SetUint64(6)
	eighteen.SetUint64(18)

	cs := composer.New()
	x := cs.PublicInput(three)
	zPub := cs.PublicInput(eighteen)

	y := cs.AllocAndAssign(four)
	sum := cs.AllocAndAssign(six)
	cs.AddGate(y, composer.Variable(0), one, fr.Element{}, sum, two) // sum = y + 2
	z := cs.AllocAndAssign(eighteen)
	cs.MulGate(x, sum, one, z) // z = x·sum
	cs.AddGate(z, composer.Variable(0), one, fr.Element{}, zPub, fr.Element{})

	// filler: c_{i+1} = c_i + 1
	var val fr.Element
	val.SetOne()
	prev := cs.AllocAndAssign(val)
	for i := 0; i < 20; i++ {
		val.Add(&val, &one)
		next := cs.AllocAndAssign(val)
		cs.AddGate(prev, composer.Variable(0), one, fr.Element{}, next, one)
		prev = next
	}
	return cs
}

func testChallenges(t *testing.T) (beta, gamma, alpha, zeta fr.Element) {
	t.Helper()
	// fixed values standing in for transcript output; zeta must avoid the
	// evaluation domain
	_, err := beta.SetString("1984375892375923875632786423")
	require.NoError(t, err)
	_, err = gamma.SetString("8972358792359223575897987911")
	require.NoError(t, err)
	_, err = alpha.SetString("5683597235482735789273589237")
	require.NoError(t, err)
	_, err = zeta.SetString("9873489738957892375892375235")
	require.NoError(t, err)
	return
}

// runRounds drives a full prover/verifier session with scripted challenges
// and returns the claimed evaluations and the terminal session states.
func runRounds(t *testing.T, idx *Index, cs *composer.Composer) (*pcs.Evaluations, *Verifier) {
	t.Helper()
	assert := require.New(t)

	beta, gamma, alpha, zeta := testChallenges(t)

	prover, err := NewProver(idx, cs)
	assert.NoError(err)
	verifier := NewVerifier(idx.Info, NewScriptedChallenges(beta, gamma, alpha, zeta))

	_, err = prover.FirstRound()
	assert.NoError(err)
	msg1, err := verifier.FirstRound()
	assert.NoError(err)

	_, err = prover.SecondRound(msg1)
	assert.NoError(err)
	msg2, err := verifier.SecondRound()
	assert.NoError(err)

	_, err = prover.ThirdRound(msg2)
	assert.NoError(err)
	msg3, err := verifier.ThirdRound()
	assert.NoError(err)

	evals, _, err := prover.Evaluate(msg3)
	assert.NoError(err)
	_, err = verifier.QuerySet()
	assert.NoError(err)

	return evals, verifier
}

func TestCompleteness(t *testing.T) {
	assert := require.New(t)

	cs := testCircuit(t)
	idx, err := NewIndex(cs, testKs())
	assert.NoError(err)

	evals, verifier := runRounds(t, idx, cs)
	ok, err := verifier.CheckEquality(evals, cs.PublicInputs())
	assert.NoError(err)
	assert.True(ok, "valid witness rejected")
}

func TestInvalidWitnessRejected(t *testing.T) {
	assert := require.New(t)

	var one, three, four, six, seventeen fr.Element
	one.SetOne()
	three.SetUint64(3)
	four.SetUint64(4)
	six.SetUint64(6)
	seventeen.SetUint64(17)

	// z = x·sum broken: z assigned 17 instead of 18
	cs := composer.New()
	x := cs.PublicInput(three)
	y := cs.AllocAndAssign(four)
	var two fr.Element
	two.SetUint64(2)
	sum := cs.AllocAndAssign(six)
	cs.AddGate(y, composer.Variable(0), one, fr.Element{}, sum, two)
	z := cs.AllocAndAssign(seventeen)
	cs.MulGate(x, sum, one, z)

	idx, err := NewIndex(cs, testKs())
	assert.NoError(err)

	evals, verifier := runRounds(t, idx, cs)
	ok, err := verifier.CheckEquality(evals, cs.PublicInputs())
	assert.NoError(err)
	assert.False(ok, "invalid witness accepted")
}

func TestTamperedEvaluationRejected(t *testing.T) {
	assert := require.New(t)

	cs := testCircuit(t)
	idx, err := NewIndex(cs, testKs())
	assert.NoError(err)

	evals, verifier := runRounds(t, idx, cs)

	w0, ok := evals.Get(wireLabel(0), PointZeta)
	assert.True(ok)
	var one fr.Element
	one.SetOne()
	w0.Add(&w0, &one)
	evals.Insert(wireLabel(0), PointZeta, w0)

	accepted, err := verifier.CheckEquality(evals, cs.PublicInputs())
	assert.NoError(err)
	assert.False(accepted, "tampered evaluation accepted")
}

func TestWrongPublicInputRejected(t *testing.T) {
	assert := require.New(t)

	cs := testCircuit(t)
	idx, err := NewIndex(cs, testKs())
	assert.NoError(err)

	evals, verifier := runRounds(t, idx, cs)

	claimed := make([]fr.Element, len(cs.PublicInputs()))
	copy(claimed, cs.PublicInputs())
	claimed[1].SetUint64(11) // claim x·(y+2) = 11

	ok, err := verifier.CheckEquality(evals, claimed)
	assert.NoError(err)
	assert.False(ok, "wrong public input accepted")
}

func TestVerifierRoundOrder(t *testing.T) {
	assert := require.New(t)

	cs := testCircuit(t)
	idx, err := NewIndex(cs, testKs())
	assert.NoError(err)

	beta, gamma, alpha, zeta := testChallenges(t)
	v := NewVerifier(idx.Info, NewScriptedChallenges(beta, gamma, alpha, zeta))

	_, err = v.SecondRound()
	assert.ErrorIs(err, ErrInvalidRoundState)
	_, err = v.ThirdRound()
	assert.ErrorIs(err, ErrInvalidRoundState)
	_, err = v.QuerySet()
	assert.ErrorIs(err, ErrInvalidRoundState)
	_, err = v.CheckEquality(&pcs.Evaluations{}, nil)
	assert.ErrorIs(err, ErrInvalidRoundState)

	_, err = v.FirstRound()
	assert.NoError(err)
	_, err = v.FirstRound()
	assert.ErrorIs(err, ErrInvalidRoundState)
	_, err = v.SecondRound()
	assert.NoError(err)
	_, err = v.ThirdRound()
	assert.NoError(err)
	_, err = v.QuerySet()
	assert.NoError(err)
}

func TestProverRoundOrder(t *testing.T) {
	assert := require.New(t)

	cs := testCircuit(t)
	idx, err := NewIndex(cs, testKs())
	assert.NoError(err)

	prover, err := NewProver(idx, cs)
	assert.NoError(err)

	beta, gamma, alpha, zeta := testChallenges(t)
	_, err = prover.SecondRound(&FirstMessage{Beta: beta, Gamma: gamma})
	assert.ErrorIs(err, ErrInvalidRoundState)
	_, err = prover.ThirdRound(&SecondMessage{Alpha: alpha})
	assert.ErrorIs(err, ErrInvalidRoundState)
	_, _, err = prover.Evaluate(&ThirdMessage{Zeta: zeta})
	assert.ErrorIs(err, ErrInvalidRoundState)

	_, err = prover.FirstRound()
	assert.NoError(err)
	_, err = prover.FirstRound()
	assert.ErrorIs(err, ErrInvalidRoundState)
}

func TestGateIdentityOnDomain(t *testing.T) {
	assert := require.New(t)

	cs := testCircuit(t)
	idx, err := NewIndex(cs, testKs())
	assert.NoError(err)
	witness, err := cs.Witness()
	assert.NoError(err)

	n := int(idx.Info.Size)
	pi := make([]fr.Element, n)
	copy(pi, cs.PublicInputs())

	a := &idx.Arithmetic
	for i := 0; i < n; i++ {
		var res, u fr.Element
		w := func(j int) *fr.Element { return &witness[idx.Wires[j][i]] }
		res.Mul(&a.Q0.LagrangeN[i], w(0))
		u.Mul(&a.Q1.LagrangeN[i], w(1))
		res.Add(&res, &u)
		u.Mul(&a.Q2.LagrangeN[i], w(2))
		res.Add(&res, &u)
		u.Mul(&a.Q3.LagrangeN[i], w(3))
		res.Add(&res, &u)
		u.Mul(&a.QM.LagrangeN[i], w(1)).Mul(&u, w(2))
		res.Add(&res, &u)
		res.Add(&res, &a.QC.LagrangeN[i]).Add(&res, &pi[i])
		res.Mul(&res, &a.QArith.LagrangeN[i])
		assert.True(res.IsZero(), "gate identity broken at row %d", i)
	}

	// padding rows are disabled
	for i := int(idx.Info.SizeSystem); i < n; i++ {
		assert.True(a.QArith.LagrangeN[i].IsZero())
	}
}

func TestQuotientZeroOnDisabledGates(t *testing.T) {
	assert := require.New(t)

	d := NewDomains(8)
	n := int(d.Small.Cardinality)

	lagrange := func(seed uint64) []fr.Element {
		res := make([]fr.Element, n)
		for i := range res {
			res[i].SetUint64(seed + uint64(i)*3 + 1)
		}
		return res
	}

	// every selector nonzero except q_arith, identically zero
	key := ArithmeticKey{
		Q0:     newIndexedPolynomial("q_0", lagrange(5), d),
		Q1:     newIndexedPolynomial("q_1", lagrange(11), d),
		Q2:     newIndexedPolynomial("q_2", lagrange(17), d),
		Q3:     newIndexedPolynomial("q_3", lagrange(23), d),
		QM:     newIndexedPolynomial("q_m", lagrange(29), d),
		QC:     newIndexedPolynomial("q_c", lagrange(31), d),
		QArith: newIndexedPolynomial("q_arith", make([]fr.Element, n), d),
	}

	size := int(d.Big.Cardinality)
	var w4n [NbWires][]fr.Element
	for j := 0; j < NbWires; j++ {
		w4n[j] = make([]fr.Element, size)
		for i := range w4n[j] {
			w4n[j][i].SetUint64(uint64(j*size + i + 7))
		}
	}
	pi4n := make([]fr.Element, size)
	for i := range pi4n {
		pi4n[i].SetUint64(uint64(i + 13))
	}

	res := key.ComputeQuotient(d, w4n, pi4n)
	for i := range res {
		assert.True(res[i].IsZero(), "disabled gate contributes at %d", i)
	}
}

func TestAccumulatorBoundary(t *testing.T) {
	assert := require.New(t)

	cs := testCircuit(t)
	idx, err := NewIndex(cs, testKs())
	assert.NoError(err)
	witness, err := cs.Witness()
	assert.NoError(err)

	n := int(idx.Info.Size)
	var wN [NbWires][]fr.Element
	for j := 0; j < NbWires; j++ {
		wN[j] = make([]fr.Element, n)
		for i := 0; i < n; i++ {
			wN[j][i] = witness[idx.Wires[j][i]]
		}
	}

	beta, gamma, _, _ := testChallenges(t)
	z := idx.Permutation.ComputeAccumulator(idx.Domains, wN, beta, gamma, idx.Info.Ks)
	assert.True(z[0].IsOne(), "accumulator must start at one")

	// the product closes: extending by the last term returns to one
	var num, den, tmp, u fr.Element
	num.SetOne()
	den.SetOne()
	last := n - 1
	var xLast fr.Element
	xLast.SetOne()
	for i := 0; i < last; i++ {
		xLast.Mul(&xLast, &idx.Info.Generator)
	}
	for j := 0; j < NbWires; j++ {
		tmp.Mul(&beta, &idx.Info.Ks[j]).Mul(&tmp, &xLast)
		u.Add(&wN[j][last], &tmp).Add(&u, &gamma)
		num.Mul(&num, &u)

		tmp.Mul(&beta, &idx.Permutation.Sigma[j].LagrangeN[last])
		u.Add(&wN[j][last], &tmp).Add(&u, &gamma)
		den.Mul(&den, &u)
	}
	var closed fr.Element
	closed.Div(&num, &den).Mul(&closed, &z[last])
	assert.True(closed.IsOne(), "accumulator does not close")
}
