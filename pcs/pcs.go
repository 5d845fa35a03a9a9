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

// Package pcs defines the polynomial commitment interface consumed by the AHP
// core. The protocol is polymorphic over this interface: it works unmodified
// whether the scheme is pairing based (KZG style, trusted setup, constant size
// openings) or a discrete-log inner product argument.
package pcs

import (
	"errors"
	"hash"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var (
	// ErrMissingPolynomial is returned by Open when a query references a label
	// with no matching polynomial.
	ErrMissingPolynomial = errors.New("pcs: query references an unknown polynomial label")

	// ErrMissingCommitment is returned by Verify when a query references a
	// label with no matching commitment.
	ErrMissingCommitment = errors.New("pcs: query references an unknown commitment label")

	// ErrClaimedValuesMismatch is returned by Verify when the claimed values
	// carried by the opening proof do not match the evaluation set.
	ErrClaimedValuesMismatch = errors.New("pcs: opening proof claimed values do not match evaluations")
)

// LabeledPolynomial is a dense polynomial in canonical (coefficient) form
// tagged with an immutable label used for commitment and opening bookkeeping.
// The label must be unique within any set passed to the scheme in one call.
type LabeledPolynomial struct {
	label  string
	coeffs []fr.Element
}

// NewLabeledPolynomial wraps coeffs, interpreted as ∑ᵢ coeffs[i]·Xⁱ. The slice
// is owned by the result and must not be mutated afterwards.
func NewLabeledPolynomial(label string, coeffs []fr.Element) LabeledPolynomial {
	return LabeledPolynomial{label: label, coeffs: coeffs}
}

func (p LabeledPolynomial) Label() string {
	return p.label
}

// Coefficients returns the canonical form of p. Read only.
func (p LabeledPolynomial) Coefficients() []fr.Element {
	return p.coeffs
}

// Evaluate returns p(point).
func (p LabeledPolynomial) Evaluate(point fr.Element) fr.Element {
	var res fr.Element
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		res.Mul(&res, &point).Add(&res, &p.coeffs[i])
	}
	return res
}

// Commitment is an opaque commitment to one polynomial. Marshal is the byte
// form absorbed by the Fiat-Shamir transcript; it must be deterministic.
type Commitment interface {
	Marshal() []byte
}

// LabeledCommitment ties a commitment to the label of the committed
// polynomial.
type LabeledCommitment struct {
	Label      string
	Commitment Commitment
}

// Query asks for the opening of the polynomial labeled PolyLabel at Point.
// PointLabel names the point ("zeta", "shifted_zeta", ...) so that evaluation
// sets are keyed independently of the field value.
type Query struct {
	PolyLabel  string
	PointLabel string
	Point      fr.Element
}

// QuerySet is an ordered list of queries. Prover and verifier must build it
// in the same order for openings to be comparable.
type QuerySet []Query

// Evaluations is an ordered mapping from (label, point label) to a claimed
// field value, carrying the openings the verifier needs.
type Evaluations struct {
	entries []Evaluation
}

// Evaluation is one entry of an evaluation set.
type Evaluation struct {
	PolyLabel  string
	PointLabel string
	Value      fr.Element
}

// Insert records value for (polyLabel, pointLabel), overwriting any previous
// entry with the same key.
func (e *Evaluations) Insert(polyLabel, pointLabel string, value fr.Element) {
	for i := range e.entries {
		if e.entries[i].PolyLabel == polyLabel && e.entries[i].PointLabel == pointLabel {
			e.entries[i].Value = value
			return
		}
	}
	e.entries = append(e.entries, Evaluation{PolyLabel: polyLabel, PointLabel: pointLabel, Value: value})
}

// Get returns the value recorded for (polyLabel, pointLabel).
func (e *Evaluations) Get(polyLabel, pointLabel string) (fr.Element, bool) {
	for i := range e.entries {
		if e.entries[i].PolyLabel == polyLabel && e.entries[i].PointLabel == pointLabel {
			return e.entries[i].Value, true
		}
	}
	return fr.Element{}, false
}

// Entries returns the entries in insertion order. Read only.
func (e *Evaluations) Entries() []Evaluation {
	return e.entries
}

// BatchProof is an opaque batched opening proof for a full query set.
type BatchProof interface {
	Marshal() []byte
}

// UniversalParams are the scheme's universal (circuit independent) parameters.
type UniversalParams interface {
	// MaxDegree is the largest polynomial degree the parameters support.
	MaxDegree() int
}

// CommitterKey is the trimmed committer side key.
type CommitterKey interface {
	MaxDegree() int
}

// VerifierKey is the trimmed verifier side key.
type VerifierKey interface{}

// Scheme is the polynomial commitment collaborator of the AHP core.
//
// Commit takes an entropy source for hiding commitments; schemes without
// hiding ignore it. Open and Verify use hf to derive the proof folding
// challenge, which must be the same hash on both sides.
type Scheme interface {
	Setup(maxDegree int, rng io.Reader) (UniversalParams, error)
	Trim(params UniversalParams, degree int) (CommitterKey, VerifierKey, error)
	Commit(ck CommitterKey, polys []LabeledPolynomial, rng io.Reader) ([]LabeledCommitment, error)
	Open(ck CommitterKey, polys []LabeledPolynomial, comms []LabeledCommitment, queries QuerySet, hf hash.Hash) (BatchProof, error)
	Verify(vk VerifierKey, comms []LabeledCommitment, queries QuerySet, evals *Evaluations, proof BatchProof, hf hash.Hash) error
}
