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

package composer

import (
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
)

// composerRaw is the serialized form of a Composer.
type composerRaw struct {
	Public      []publicInput
	Gates       []gate
	Assignments []fr.Element
	Assigned    []byte
}

// WriteTo serializes the composer in cbor.
func (c *Composer) WriteTo(w io.Writer) (int64, error) {
	assigned, err := c.assigned.MarshalBinary()
	if err != nil {
		return 0, err
	}
	raw := composerRaw{
		Public:      c.public,
		Gates:       c.gates,
		Assignments: c.assignments,
		Assigned:    assigned,
	}
	buf, err := cbor.Marshal(raw)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom deserializes the composer from cbor, replacing its content.
func (c *Composer) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return int64(len(buf)), err
	}
	var raw composerRaw
	if err := cbor.Unmarshal(buf, &raw); err != nil {
		return int64(len(buf)), err
	}
	c.public = raw.Public
	c.gates = raw.Gates
	c.assignments = raw.Assignments
	c.assigned = bitset.New(uint(len(raw.Assignments)))
	if err := c.assigned.UnmarshalBinary(raw.Assigned); err != nil {
		return int64(len(buf)), err
	}
	return int64(len(buf)), nil
}
