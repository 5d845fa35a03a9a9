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

package plonk

import (
	"crypto/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/consensys/plonk/composer"
	"github.com/consensys/plonk/pcs/kzg"
)

// buildCircuit returns x·(y+2) = z with x and z public, padded with filler
// gates so the domain is a realistic size.
func buildCircuit(x, y uint64) *composer.Composer {
	var one, two, eX, eY, sum, z fr.Element
	one.SetOne()
	two.SetUint64(2)
	eX.SetUint64(x)
	eY.SetUint64(y)
	sum.SetUint64(y + 2)
	z.SetUint64(x * (y + 2))

	cs := composer.New()
	vx := cs.PublicInput(eX)
	vzPub := cs.PublicInput(z)

	vy := cs.AllocAndAssign(eY)
	vsum := cs.AllocAndAssign(sum)
	cs.AddGate(vy, composer.Variable(0), one, fr.Element{}, vsum, two)
	vz := cs.AllocAndAssign(z)
	cs.MulGate(vx, vsum, one, vz)
	cs.AddGate(vz, composer.Variable(0), one, fr.Element{}, vzPub, fr.Element{})

	var val fr.Element
	val.SetOne()
	prev := cs.AllocAndAssign(val)
	for i := 0; i < 100; i++ {
		val.Add(&val, &one)
		next := cs.AllocAndAssign(val)
		cs.AddGate(prev, composer.Variable(0), one, fr.Element{}, next, one)
		prev = next
	}
	return cs
}

func setupKeys(t *testing.T, cs *composer.Composer) (*ProvingKey, *VerifyingKey) {
	t.Helper()
	assert := require.New(t)

	params, err := Setup(kzg.Scheme{}, 200, rand.Reader)
	assert.NoError(err)
	pk, vk, err := KeyGen(kzg.Scheme{}, params, cs)
	assert.NoError(err)
	return pk, vk
}

func TestProveVerify(t *testing.T) {
	assert := require.New(t)

	cs := buildCircuit(2, 3)
	pk, vk := setupKeys(t, cs)

	proof, err := Prove(pk, cs, rand.Reader)
	assert.NoError(err)

	err = Verify(proof, vk, cs.PublicInputs())
	assert.NoError(err)
}

func TestWrongPublicInput(t *testing.T) {
	assert := require.New(t)

	cs := buildCircuit(2, 3)
	pk, vk := setupKeys(t, cs)

	proof, err := Prove(pk, cs, rand.Reader)
	assert.NoError(err)

	claimed := make([]fr.Element, len(cs.PublicInputs()))
	copy(claimed, cs.PublicInputs())
	claimed[1].SetUint64(11) // x·(y+2) is 10, not 11

	err = Verify(proof, vk, claimed)
	assert.Error(err)
}

func TestWrongNbPublicInputs(t *testing.T) {
	assert := require.New(t)

	cs := buildCircuit(2, 3)
	pk, vk := setupKeys(t, cs)

	proof, err := Prove(pk, cs, rand.Reader)
	assert.NoError(err)

	err = Verify(proof, vk, cs.PublicInputs()[:1])
	assert.ErrorIs(err, ErrInvalidNbPublicInputs)
}

func TestTamperedProof(t *testing.T) {
	assert := require.New(t)

	cs := buildCircuit(2, 3)
	pk, vk := setupKeys(t, cs)

	t.Run("swapped wire commitments", func(t *testing.T) {
		proof, err := Prove(pk, cs, rand.Reader)
		require.NoError(t, err)
		proof.Wires[0].Commitment, proof.Wires[1].Commitment =
			proof.Wires[1].Commitment, proof.Wires[0].Commitment
		require.Error(t, Verify(proof, vk, cs.PublicInputs()))
	})

	t.Run("tampered evaluation", func(t *testing.T) {
		proof, err := Prove(pk, cs, rand.Reader)
		require.NoError(t, err)
		w0, ok := proof.Evaluations.Get("w_0", "zeta")
		require.True(t, ok)
		var one fr.Element
		one.SetOne()
		w0.Add(&w0, &one)
		proof.Evaluations.Insert("w_0", "zeta", w0)
		require.Error(t, Verify(proof, vk, cs.PublicInputs()))
	})

	// untampered control
	proof, err := Prove(pk, cs, rand.Reader)
	assert.NoError(err)
	assert.NoError(Verify(proof, vk, cs.PublicInputs()))
}

func TestProofDeterminism(t *testing.T) {
	assert := require.New(t)

	cs := buildCircuit(2, 3)
	pk, vk := setupKeys(t, cs)

	p1, err := Prove(pk, cs, nil)
	assert.NoError(err)
	p2, err := Prove(pk, cs, nil)
	assert.NoError(err)

	if diff := cmp.Diff(p1.Bytes(), p2.Bytes()); diff != "" {
		t.Fatalf("proofs differ:\n%s", diff)
	}

	assert.NoError(Verify(p1, vk, cs.PublicInputs()))
}

func TestCircuitTooLarge(t *testing.T) {
	assert := require.New(t)

	cs := buildCircuit(2, 3) // domain size 128, requires degree 131

	params, err := Setup(kzg.Scheme{}, 64, rand.Reader)
	assert.NoError(err)
	_, _, err = KeyGen(kzg.Scheme{}, params, cs)
	assert.ErrorIs(err, ErrCircuitTooLarge)
}
