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
	"fmt"
	"io"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonk/ahp"
	"github.com/consensys/plonk/composer"
	"github.com/consensys/plonk/logger"
	"github.com/consensys/plonk/pcs"
)

// ProtocolName seeds the Fiat-Shamir transcript, domain separating this
// protocol from other users of the same hash.
const ProtocolName = "PLONK"

// defaultKs are the coset identifiers of the four wire columns. They must
// generate pairwise disjoint cosets of the evaluation domain; small odd
// integers do for the domain sizes of interest.
var defaultKs = [ahp.NbWires]uint64{1, 7, 13, 17}

// ProvingKey is the circuit-specific prover material.
type ProvingKey struct {
	Scheme pcs.Scheme
	Ck     pcs.CommitterKey
	Index  *ahp.Index

	// Vk carries the index commitments bound to the transcript.
	Vk *VerifyingKey
}

// VerifyingKey is the circuit-specific verifier material: the index metadata
// and the commitments to the index polynomials.
type VerifyingKey struct {
	Scheme pcs.Scheme
	Vk     pcs.VerifierKey

	Info       ahp.IndexInfo
	IndexComms []pcs.LabeledCommitment
}

// Proof is a proof of knowledge of a witness satisfying the circuit.
type Proof struct {
	// Wires are the commitments to w_0..w_3.
	Wires []pcs.LabeledCommitment

	// Z is the commitment to the permutation accumulator.
	Z []pcs.LabeledCommitment

	// T are the commitments to the quotient chunks t_0..t_3.
	T []pcs.LabeledCommitment

	// R is the commitment to the linearization polynomial.
	R []pcs.LabeledCommitment

	// Evaluations are the claimed openings of the query set.
	Evaluations *pcs.Evaluations

	// Opening proves the claimed openings against the commitments.
	Opening pcs.BatchProof
}

// Setup samples universal parameters supporting circuits of domain size up
// to roughly maxDegree. The parameters are circuit independent and reusable
// across KeyGen calls.
func Setup(scheme pcs.Scheme, maxDegree int, rng io.Reader) (pcs.UniversalParams, error) {
	return scheme.Setup(maxDegree, rng)
}

// KeyGen preprocesses a circuit into a proving and a verifying key with the
// default coset identifiers. The composer only needs its gates populated;
// witness assignments are ignored here.
func KeyGen(scheme pcs.Scheme, params pcs.UniversalParams, cs *composer.Composer) (*ProvingKey, *VerifyingKey, error) {
	var ks [ahp.NbWires]fr.Element
	for j := range ks {
		ks[j].SetUint64(defaultKs[j])
	}
	return KeyGenWithCosets(scheme, params, cs, ks)
}

// KeyGenWithCosets is KeyGen with caller-chosen coset identifiers. ks[0]
// must be one and the ks must generate pairwise disjoint cosets of the
// evaluation domain.
func KeyGenWithCosets(scheme pcs.Scheme, params pcs.UniversalParams, cs *composer.Composer, ks [ahp.NbWires]fr.Element) (*ProvingKey, *VerifyingKey, error) {
	idx, err := ahp.NewIndex(cs, ks)
	if err != nil {
		return nil, nil, err
	}
	if idx.RequiredDegree() > params.MaxDegree() {
		return nil, nil, ErrCircuitTooLarge
	}

	ck, vk, err := scheme.Trim(params, idx.RequiredDegree())
	if err != nil {
		return nil, nil, err
	}

	// index commitments carry no witness data, no hiding needed
	comms, err := scheme.Commit(ck, idx.Polynomials(), nil)
	if err != nil {
		return nil, nil, err
	}

	verifyingKey := &VerifyingKey{
		Scheme:     scheme,
		Vk:         vk,
		Info:       idx.Info,
		IndexComms: comms,
	}
	provingKey := &ProvingKey{
		Scheme: scheme,
		Ck:     ck,
		Index:  idx,
		Vk:     verifyingKey,
	}
	return provingKey, verifyingKey, nil
}

// Prove produces a proof that the composer's assignment satisfies its
// gates. rng feeds the commitment scheme's hiding; it may be nil for
// schemes without hiding.
func Prove(pk *ProvingKey, cs *composer.Composer, rng io.Reader, opts ...ProverOption) (*Proof, error) {
	log := logger.Logger().With().
		Str("curve", "bn254").
		Uint64("nbConstraints", pk.Index.Info.SizeSystem).
		Str("backend", "plonk").Logger()
	start := time.Now()

	cfg, err := NewProverConfig(opts...)
	if err != nil {
		return nil, err
	}

	prover, err := ahp.NewProver(pk.Index, cs)
	if err != nil {
		return nil, err
	}

	challenges, err := ahp.NewTranscriptChallenges(cfg.ChallengeHash, []byte(ProtocolName), prover.PublicInputs())
	if err != nil {
		return nil, err
	}
	verifier := ahp.NewVerifier(pk.Index.Info, challenges)

	// round 1: wire polynomials
	wPolys, err := prover.FirstRound()
	if err != nil {
		return nil, err
	}
	wComms, err := pk.Scheme.Commit(pk.Ck, wPolys, rng)
	if err != nil {
		return nil, fmt.Errorf("commit wires: %w", err)
	}
	msg1, err := verifier.FirstRound(commitmentBytes(pk.Vk.IndexComms, wComms)...)
	if err != nil {
		return nil, err
	}

	// round 2: permutation accumulator
	zPolys, err := prover.SecondRound(msg1)
	if err != nil {
		return nil, err
	}
	zComms, err := pk.Scheme.Commit(pk.Ck, zPolys, rng)
	if err != nil {
		return nil, fmt.Errorf("commit accumulator: %w", err)
	}
	msg2, err := verifier.SecondRound(commitmentBytes(zComms)...)
	if err != nil {
		return nil, err
	}

	// round 3: quotient chunks
	tPolys, err := prover.ThirdRound(msg2)
	if err != nil {
		return nil, err
	}
	tComms, err := pk.Scheme.Commit(pk.Ck, tPolys, rng)
	if err != nil {
		return nil, fmt.Errorf("commit quotient: %w", err)
	}
	msg3, err := verifier.ThirdRound(commitmentBytes(tComms)...)
	if err != nil {
		return nil, err
	}

	// evaluation phase: linearization polynomial and claimed openings
	evals, rPoly, err := prover.Evaluate(msg3)
	if err != nil {
		return nil, err
	}
	rComms, err := pk.Scheme.Commit(pk.Ck, []pcs.LabeledPolynomial{rPoly}, rng)
	if err != nil {
		return nil, fmt.Errorf("commit linearization: %w", err)
	}

	queries, err := verifier.QuerySet()
	if err != nil {
		return nil, err
	}

	polys := make([]pcs.LabeledPolynomial, 0, len(wPolys)+len(zPolys)+len(tPolys)+12)
	polys = append(polys, wPolys...)
	polys = append(polys, zPolys...)
	polys = append(polys, tPolys...)
	polys = append(polys, rPoly)
	polys = append(polys, pk.Index.Polynomials()...)

	comms := make([]pcs.LabeledCommitment, 0, len(polys))
	comms = append(comms, wComms...)
	comms = append(comms, zComms...)
	comms = append(comms, tComms...)
	comms = append(comms, rComms...)
	comms = append(comms, pk.Vk.IndexComms...)

	opening, err := pk.Scheme.Open(pk.Ck, polys, comms, queries, cfg.FoldingHash)
	if err != nil {
		return nil, fmt.Errorf("batch opening: %w", err)
	}

	log.Debug().Dur("took", time.Since(start)).Msg("prover done")

	return &Proof{
		Wires:       wComms,
		Z:           zComms,
		T:           tComms,
		R:           rComms,
		Evaluations: evals,
		Opening:     opening,
	}, nil
}

// Verify checks proof against vk and the claimed public inputs. A nil error
// means the proof is valid.
func Verify(proof *Proof, vk *VerifyingKey, publicInputs []fr.Element, opts ...VerifierOption) error {
	log := logger.Logger().With().
		Str("curve", "bn254").
		Str("backend", "plonk").Logger()
	start := time.Now()

	cfg, err := NewVerifierConfig(opts...)
	if err != nil {
		return err
	}

	if len(publicInputs) != vk.Info.NbPublicInputs {
		return ErrInvalidNbPublicInputs
	}

	challenges, err := ahp.NewTranscriptChallenges(cfg.ChallengeHash, []byte(ProtocolName), publicInputs)
	if err != nil {
		return err
	}
	verifier := ahp.NewVerifier(vk.Info, challenges)

	// replay the transcript
	if _, err := verifier.FirstRound(commitmentBytes(vk.IndexComms, proof.Wires)...); err != nil {
		return err
	}
	if _, err := verifier.SecondRound(commitmentBytes(proof.Z)...); err != nil {
		return err
	}
	if _, err := verifier.ThirdRound(commitmentBytes(proof.T)...); err != nil {
		return err
	}
	queries, err := verifier.QuerySet()
	if err != nil {
		return err
	}

	comms := make([]pcs.LabeledCommitment, 0, len(proof.Wires)+len(proof.Z)+len(proof.T)+len(proof.R)+len(vk.IndexComms))
	comms = append(comms, proof.Wires...)
	comms = append(comms, proof.Z...)
	comms = append(comms, proof.T...)
	comms = append(comms, proof.R...)
	comms = append(comms, vk.IndexComms...)

	if err := vk.Scheme.Verify(vk.Vk, comms, queries, proof.Evaluations, proof.Opening, cfg.FoldingHash); err != nil {
		return fmt.Errorf("batch opening: %w", err)
	}

	ok, err := verifier.CheckEquality(proof.Evaluations, publicInputs)
	if err != nil {
		return err
	}
	if !ok {
		return errAlgebraicRelation
	}

	log.Debug().Dur("took", time.Since(start)).Msg("verifier done")
	return nil
}

// commitmentBytes flattens groups of commitments into the byte slices bound
// to the transcript, in order.
func commitmentBytes(groups ...[]pcs.LabeledCommitment) [][]byte {
	var res [][]byte
	for _, g := range groups {
		for i := range g {
			res = append(res, g[i].Commitment.Marshal())
		}
	}
	return res
}
