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

import "errors"

var (
	// ErrCircuitTooLarge is returned by KeyGen when the universal parameters
	// do not support the circuit's domain size.
	ErrCircuitTooLarge = errors.New("circuit size exceeds the universal parameters")

	// ErrInvalidNbPublicInputs is returned by Verify when the number of
	// public inputs does not match the verifying key.
	ErrInvalidNbPublicInputs = errors.New("wrong number of public inputs")

	errAlgebraicRelation = errors.New("algebraic relation does not hold")
)
