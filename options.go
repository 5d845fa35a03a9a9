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
	"crypto/sha256"
	"hash"
)

// ProverOption defines option for altering the behavior of the prover in
// Prove. See the descriptions of functions returning instances of this type
// for implemented options.
type ProverOption func(*ProverConfig) error

// ProverConfig is the configuration for the prover with the options applied.
type ProverConfig struct {
	ChallengeHash hash.Hash
	FoldingHash   hash.Hash
}

// NewProverConfig returns a default ProverConfig with given prover options
// opts applied.
func NewProverConfig(opts ...ProverOption) (ProverConfig, error) {
	opt := ProverConfig{
		ChallengeHash: sha256.New(),
		FoldingHash:   sha256.New(),
	}
	for _, option := range opts {
		if err := option(&opt); err != nil {
			return ProverConfig{}, err
		}
	}
	return opt, nil
}

// WithProverChallengeHashFunction sets the hash function used for deriving
// the challenges from the transcript. It is changed from its default only
// when integrating with systems constraining the hash, for example when
// verifying proofs in-circuit.
func WithProverChallengeHashFunction(hFunc hash.Hash) ProverOption {
	return func(cfg *ProverConfig) error {
		cfg.ChallengeHash = hFunc
		return nil
	}
}

// WithProverFoldingHashFunction sets the hash function used by the
// commitment scheme for folding the batched opening proof.
func WithProverFoldingHashFunction(hFunc hash.Hash) ProverOption {
	return func(cfg *ProverConfig) error {
		cfg.FoldingHash = hFunc
		return nil
	}
}

// VerifierOption defines option for altering the behavior of the verifier.
// See the descriptions of functions returning instances of this type for
// implemented options.
type VerifierOption func(*VerifierConfig) error

// VerifierConfig is the configuration for the verifier with the options
// applied.
type VerifierConfig struct {
	ChallengeHash hash.Hash
	FoldingHash   hash.Hash
}

// NewVerifierConfig returns a default VerifierConfig with given verifier
// options opts applied.
func NewVerifierConfig(opts ...VerifierOption) (VerifierConfig, error) {
	opt := VerifierConfig{
		ChallengeHash: sha256.New(),
		FoldingHash:   sha256.New(),
	}
	for _, option := range opts {
		if err := option(&opt); err != nil {
			return VerifierConfig{}, err
		}
	}
	return opt, nil
}

// WithVerifierChallengeHashFunction sets the hash function used for deriving
// the challenges from the transcript. It must match the hash the prover was
// run with.
func WithVerifierChallengeHashFunction(hFunc hash.Hash) VerifierOption {
	return func(cfg *VerifierConfig) error {
		cfg.ChallengeHash = hFunc
		return nil
	}
}

// WithVerifierFoldingHashFunction sets the hash function used by the
// commitment scheme for folding the batched opening proof. It must match the
// hash the prover was run with.
func WithVerifierFoldingHashFunction(hFunc hash.Hash) VerifierOption {
	return func(cfg *VerifierConfig) error {
		cfg.FoldingHash = hFunc
		return nil
	}
}
