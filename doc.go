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

// Package plonk implements the PLONK argument system over a four wire
// arithmetization, with a pluggable polynomial commitment scheme.
//
// Circuits are described with the composer package, preprocessed into an
// index by the ahp package, and proved against universal parameters produced
// once per maximum circuit size. The default commitment scheme is KZG over
// BN254 (package pcs/kzg); the algebraic core never touches curve points and
// works with any pcs.Scheme.
//
// A typical flow:
//
//	cs := composer.New()
//	// ... declare public inputs and gates ...
//	params, _ := plonk.Setup(kzg.Scheme{}, 1<<10, rand.Reader)
//	pk, vk, _ := plonk.KeyGen(kzg.Scheme{}, params, cs)
//	proof, _ := plonk.Prove(pk, cs, rand.Reader)
//	err := plonk.Verify(proof, vk, publicInputs)
package plonk

import "github.com/blang/semver/v4"

// Version of the module.
var Version = semver.MustParse("0.1.0")
