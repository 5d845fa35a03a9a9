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
	"crypto/sha256"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestTranscriptDeterminism(t *testing.T) {
	assert := require.New(t)

	var pi fr.Element
	pi.SetUint64(42)
	commitment := []byte("commitment bytes")

	run := func(publicInputs []fr.Element) [4]fr.Element {
		ch, err := NewTranscriptChallenges(sha256.New(), []byte("PLONK"), publicInputs)
		assert.NoError(err)
		var res [4]fr.Element
		res[0], err = ch.Derive("beta", commitment)
		assert.NoError(err)
		res[1], err = ch.Derive("gamma")
		assert.NoError(err)
		res[2], err = ch.Derive("alpha", commitment)
		assert.NoError(err)
		res[3], err = ch.Derive("zeta", commitment)
		assert.NoError(err)
		return res
	}

	a := run([]fr.Element{pi})
	b := run([]fr.Element{pi})
	assert.Equal(a, b, "same transcript must give same challenges")

	var pi2 fr.Element
	pi2.SetUint64(43)
	c := run([]fr.Element{pi2})
	assert.False(a[0].Equal(&c[0]), "different public inputs must diverge")
}

func TestTranscriptOrderEnforced(t *testing.T) {
	assert := require.New(t)

	ch, err := NewTranscriptChallenges(sha256.New(), []byte("PLONK"), nil)
	assert.NoError(err)

	// gamma before beta
	_, err = ch.Derive("gamma")
	assert.Error(err)
}

func TestScriptedChallenges(t *testing.T) {
	assert := require.New(t)

	beta, gamma, alpha, zeta := testChallenges(t)
	ch := NewScriptedChallenges(beta, gamma, alpha, zeta)

	got, err := ch.Derive("beta")
	assert.NoError(err)
	assert.True(got.Equal(&beta))

	// replayed challenge
	_, err = ch.Derive("beta")
	assert.ErrorIs(err, ErrUnknownChallenge)

	// unknown name
	_, err = ch.Derive("delta")
	assert.ErrorIs(err, ErrUnknownChallenge)

	for name, want := range map[string]fr.Element{"gamma": gamma, "alpha": alpha, "zeta": zeta} {
		got, err := ch.Derive(name)
		assert.NoError(err)
		assert.True(got.Equal(&want))
	}
}
