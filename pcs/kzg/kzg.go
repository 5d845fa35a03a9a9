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

// Package kzg implements pcs.Scheme over the bn254 KZG commitment scheme of
// gnark-crypto. Commitments are not hiding: the rng passed to Commit is
// ignored, zero knowledge has to come from polynomial blinding upstream if it
// is needed.
package kzg

import (
	"bytes"
	"errors"
	"hash"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/plonk/pcs"
)

var errSRSTooSmall = errors.New("kzg: trim degree exceeds universal parameters")

// Scheme is the KZG instantiation of pcs.Scheme.
type Scheme struct{}

// UniversalParams wraps a bn254 KZG SRS.
type UniversalParams struct {
	srs *kzg.SRS
}

func (p *UniversalParams) MaxDegree() int {
	return len(p.srs.Pk.G1) - 1
}

// CommitterKey is a trimmed KZG proving key.
type CommitterKey struct {
	pk kzg.ProvingKey
}

func (ck *CommitterKey) MaxDegree() int {
	return len(ck.pk.G1) - 1
}

// VerifierKey is the KZG verifying key.
type VerifierKey struct {
	vk kzg.VerifyingKey
}

// Setup samples a fresh SRS supporting maxDegree from rng. rng must be
// cryptographically secure outside of tests.
func (Scheme) Setup(maxDegree int, rng io.Reader) (pcs.UniversalParams, error) {
	var tau fr.Element
	buf := make([]byte, fr.Bytes)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, err
	}
	tau.SetBytes(buf)

	var bTau big.Int
	tau.BigInt(&bTau)
	srs, err := kzg.NewSRS(uint64(maxDegree+1), &bTau)
	if err != nil {
		return nil, err
	}
	return &UniversalParams{srs: srs}, nil
}

// Trim restricts params to polynomials of degree at most degree.
func (Scheme) Trim(params pcs.UniversalParams, degree int) (pcs.CommitterKey, pcs.VerifierKey, error) {
	up := params.(*UniversalParams)
	if degree > up.MaxDegree() {
		return nil, nil, errSRSTooSmall
	}
	ck := &CommitterKey{pk: kzg.ProvingKey{G1: up.srs.Pk.G1[:degree+1]}}
	vk := &VerifierKey{vk: up.srs.Vk}
	return ck, vk, nil
}

// Commit commits to each polynomial. The commitments are computed in
// parallel, one task per polynomial.
func (Scheme) Commit(ck pcs.CommitterKey, polys []pcs.LabeledPolynomial, _ io.Reader) ([]pcs.LabeledCommitment, error) {
	_ck := ck.(*CommitterKey)

	digests := make([]kzg.Digest, len(polys))
	var g errgroup.Group
	for i := range polys {
		g.Go(func() error {
			var err error
			digests[i], err = kzg.Commit(polys[i].Coefficients(), _ck.pk)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make([]pcs.LabeledCommitment, len(polys))
	for i := range polys {
		res[i] = pcs.LabeledCommitment{Label: polys[i].Label(), Commitment: &digests[i]}
	}
	return res, nil
}

// pointOpening is the batched opening of every query sharing one point.
type pointOpening struct {
	PointLabel string
	Point      fr.Element
	PolyLabels []string
	Proof      kzg.BatchOpeningProof
}

// BatchProof groups one KZG batch opening per distinct query point.
type BatchProof struct {
	Openings []pointOpening
}

func (p *BatchProof) Marshal() []byte {
	var buf bytes.Buffer
	for i := range p.Openings {
		buf.Write(p.Openings[i].Proof.H.Marshal())
		for _, v := range p.Openings[i].Proof.ClaimedValues {
			buf.Write(v.Marshal())
		}
	}
	return buf.Bytes()
}

// groupQueries splits queries per point, preserving first-appearance order.
func groupQueries(queries pcs.QuerySet) []pointOpening {
	var groups []pointOpening
	for _, q := range queries {
		found := false
		for i := range groups {
			if groups[i].PointLabel == q.PointLabel {
				groups[i].PolyLabels = append(groups[i].PolyLabels, q.PolyLabel)
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, pointOpening{
				PointLabel: q.PointLabel,
				Point:      q.Point,
				PolyLabels: []string{q.PolyLabel},
			})
		}
	}
	return groups
}

// Open produces a batched opening proof for queries. Every queried label must
// appear in polys and comms.
func (Scheme) Open(ck pcs.CommitterKey, polys []pcs.LabeledPolynomial, comms []pcs.LabeledCommitment, queries pcs.QuerySet, hf hash.Hash) (pcs.BatchProof, error) {
	_ck := ck.(*CommitterKey)

	byLabel := make(map[string]int, len(polys))
	for i := range polys {
		byLabel[polys[i].Label()] = i
	}
	digestByLabel := make(map[string]*kzg.Digest, len(comms))
	for i := range comms {
		digestByLabel[comms[i].Label] = comms[i].Commitment.(*kzg.Digest)
	}

	groups := groupQueries(queries)
	for gi := range groups {
		g := &groups[gi]
		ps := make([][]fr.Element, len(g.PolyLabels))
		ds := make([]kzg.Digest, len(g.PolyLabels))
		for i, label := range g.PolyLabels {
			pi, ok := byLabel[label]
			if !ok {
				return nil, pcs.ErrMissingPolynomial
			}
			d, ok := digestByLabel[label]
			if !ok {
				return nil, pcs.ErrMissingCommitment
			}
			ps[i] = polys[pi].Coefficients()
			ds[i] = *d
		}
		var err error
		g.Proof, err = kzg.BatchOpenSinglePoint(ps, ds, g.Point, hf, _ck.pk)
		if err != nil {
			return nil, err
		}
	}

	return &BatchProof{Openings: groups}, nil
}

// Verify checks proof against the commitments and the evaluation set: for
// each query the proof's claimed value must match the evaluations entry, and
// each per-point batch opening must verify.
func (Scheme) Verify(vk pcs.VerifierKey, comms []pcs.LabeledCommitment, queries pcs.QuerySet, evals *pcs.Evaluations, proof pcs.BatchProof, hf hash.Hash) error {
	_vk := vk.(*VerifierKey)
	_proof := proof.(*BatchProof)

	digestByLabel := make(map[string]*kzg.Digest, len(comms))
	for i := range comms {
		digestByLabel[comms[i].Label] = comms[i].Commitment.(*kzg.Digest)
	}

	// the verifier recomputes the grouping from its own query set; the proof
	// must match it exactly.
	groups := groupQueries(queries)
	if len(groups) != len(_proof.Openings) {
		return pcs.ErrClaimedValuesMismatch
	}

	for gi := range groups {
		g := &groups[gi]
		op := &_proof.Openings[gi]
		if op.PointLabel != g.PointLabel || !op.Point.Equal(&g.Point) {
			return pcs.ErrClaimedValuesMismatch
		}
		if len(op.Proof.ClaimedValues) != len(g.PolyLabels) {
			return pcs.ErrClaimedValuesMismatch
		}

		ds := make([]kzg.Digest, len(g.PolyLabels))
		for i, label := range g.PolyLabels {
			d, ok := digestByLabel[label]
			if !ok {
				return pcs.ErrMissingCommitment
			}
			ds[i] = *d

			claimed, ok := evals.Get(label, g.PointLabel)
			if !ok || !claimed.Equal(&op.Proof.ClaimedValues[i]) {
				return pcs.ErrClaimedValuesMismatch
			}
		}

		if err := kzg.BatchVerifySinglePoint(ds, &op.Proof, g.Point, hf, _vk.vk); err != nil {
			return err
		}
	}

	return nil
}

// ensure Digest satisfies the Commitment interface
var _ pcs.Commitment = (*bn254.G1Affine)(nil)
