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

import "errors"

var (
	// ErrInvalidRoundState is returned when a prover or verifier round is
	// invoked out of order, or twice.
	ErrInvalidRoundState = errors.New("ahp: round invoked out of order")

	// ErrMissingEvaluation is returned by the equality check when a required
	// opening is absent from the proof's evaluation set.
	ErrMissingEvaluation = errors.New("ahp: missing evaluation")

	// ErrUnknownChallenge is returned by a scripted challenge source when a
	// challenge is requested that was not scripted, or already consumed.
	ErrUnknownChallenge = errors.New("ahp: unknown or already consumed challenge")
)
