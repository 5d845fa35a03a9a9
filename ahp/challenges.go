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
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"
)

// ChallengeNames are the protocol challenges, in derivation order.
var ChallengeNames = []string{"beta", "gamma", "alpha", "zeta"}

// Challenges supplies the verifier randomness for a proof session. The
// transcript variant derives each challenge from the messages bound so far;
// the scripted variant replays fixed values and is meant for tests.
type Challenges interface {
	// Derive returns the named challenge after absorbing data. Challenges
	// must be requested in protocol order, each exactly once.
	Derive(name string, data ...[]byte) (fr.Element, error)
}

type transcriptChallenges struct {
	fs *fiatshamir.Transcript
}

// NewTranscriptChallenges builds a Fiat-Shamir backed Challenges instance.
// The protocol name and the public inputs seed the transcript: they are
// bound to the first challenge so two sessions differing only in public
// inputs diverge from the first byte.
func NewTranscriptChallenges(h hash.Hash, protocolName []byte, publicInputs []fr.Element) (Challenges, error) {
	fs := fiatshamir.NewTranscript(h, ChallengeNames...)
	if err := fs.Bind(ChallengeNames[0], protocolName); err != nil {
		return nil, err
	}
	for i := range publicInputs {
		if err := fs.Bind(ChallengeNames[0], publicInputs[i].Marshal()); err != nil {
			return nil, err
		}
	}
	return &transcriptChallenges{fs: fs}, nil
}

func (t *transcriptChallenges) Derive(name string, data ...[]byte) (fr.Element, error) {
	var r fr.Element
	for _, d := range data {
		if err := t.fs.Bind(name, d); err != nil {
			return r, err
		}
	}
	b, err := t.fs.ComputeChallenge(name)
	if err != nil {
		return r, err
	}
	r.SetBytes(b)
	return r, nil
}

type scriptedChallenges struct {
	values map[string]fr.Element
	used   map[string]bool
}

// NewScriptedChallenges returns a Challenges instance replaying the given
// values. Each challenge can be requested once; unknown or repeated names
// fail.
func NewScriptedChallenges(beta, gamma, alpha, zeta fr.Element) Challenges {
	return &scriptedChallenges{
		values: map[string]fr.Element{
			"beta":  beta,
			"gamma": gamma,
			"alpha": alpha,
			"zeta":  zeta,
		},
		used: make(map[string]bool),
	}
}

func (s *scriptedChallenges) Derive(name string, _ ...[]byte) (fr.Element, error) {
	v, ok := s.values[name]
	if !ok || s.used[name] {
		return fr.Element{}, fmt.Errorf("%w: %s", ErrUnknownChallenge, name)
	}
	s.used[name] = true
	return v, nil
}
