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
	"bytes"

	"github.com/consensys/plonk/pcs"
)

// Bytes returns a deterministic byte form of the proof: commitments in
// protocol order, then the evaluation entries, then the batched opening.
// Two proofs of the same witness produced with the same entropy source
// serialize identically.
func (proof *Proof) Bytes() []byte {
	var buf bytes.Buffer
	writeComms := func(comms []pcs.LabeledCommitment) {
		for i := range comms {
			buf.WriteString(comms[i].Label)
			buf.Write(comms[i].Commitment.Marshal())
		}
	}
	writeComms(proof.Wires)
	writeComms(proof.Z)
	writeComms(proof.T)
	writeComms(proof.R)
	for _, e := range proof.Evaluations.Entries() {
		buf.WriteString(e.PolyLabel)
		buf.WriteString(e.PointLabel)
		buf.Write(e.Value.Marshal())
	}
	buf.Write(proof.Opening.Marshal())
	return buf.Bytes()
}
