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
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
)

// Domains holds the two evaluation domains of the protocol: H of size n
// (where the gate and copy constraints live) and a coset of size 4n used to
// evaluate the quotient without degree truncation.
type Domains struct {
	Small *fft.Domain // size n
	Big   *fft.Domain // size 4n, used through its coset
}

// NewDomains builds the domains for a circuit of m gates, n being the next
// power of two.
func NewDomains(m uint64) *Domains {
	n := ecc.NextPowerOfTwo(m)
	return &Domains{
		Small: fft.NewDomain(n),
		Big:   fft.NewDomain(4 * n),
	}
}

// interpolateSmall returns the canonical form of the polynomial whose
// evaluations over the small domain are evals. evals is not modified.
func (d *Domains) interpolateSmall(evals []fr.Element) []fr.Element {
	coeffs := make([]fr.Element, d.Small.Cardinality)
	copy(coeffs, evals)
	d.Small.FFTInverse(coeffs, fft.DIF)
	fft.BitReverse(coeffs)
	return coeffs
}

// evaluateBigCoset evaluates a canonical polynomial of degree < 4n on the
// coset of the big domain, in natural order.
func (d *Domains) evaluateBigCoset(coeffs []fr.Element) []fr.Element {
	res := make([]fr.Element, d.Big.Cardinality)
	copy(res, coeffs)
	d.Big.FFT(res, fft.DIF, fft.OnCoset())
	fft.BitReverse(res)
	return res
}

// interpolateBigCoset is the inverse of evaluateBigCoset.
func (d *Domains) interpolateBigCoset(evals []fr.Element) []fr.Element {
	coeffs := make([]fr.Element, d.Big.Cardinality)
	copy(coeffs, evals)
	d.Big.FFTInverse(coeffs, fft.DIF, fft.OnCoset())
	fft.BitReverse(coeffs)
	return coeffs
}

// vanishingBigCosetInverse returns the inverses of v_H(x) = xⁿ-1 on the big
// domain coset. v_H is periodic of period ratio = 4 there: entry i of the
// returned table is 1/v_H at the i-th coset point modulo ratio.
func (d *Domains) vanishingBigCosetInverse() []fr.Element {
	ratio := d.Big.Cardinality / d.Small.Cardinality

	var g, one fr.Element
	one.SetOne()
	expo := big.NewInt(int64(d.Small.Cardinality))
	g.Exp(d.Big.Generator, expo)

	res := make([]fr.Element, ratio)
	res[0].Exp(d.Big.FrMultiplicativeGen, expo)
	for i := 1; i < int(ratio); i++ {
		res[i].Mul(&res[i-1], &g)
	}
	for i := 0; i < int(ratio); i++ {
		res[i].Sub(&res[i], &one)
	}

	return fr.BatchInvert(res)
}

// lagrangeOneCanonical returns the canonical form of L₁, the Lagrange
// polynomial of the first domain point: every coefficient is 1/n.
func (d *Domains) lagrangeOneCanonical() []fr.Element {
	res := make([]fr.Element, d.Small.Cardinality)
	for i := range res {
		res[i].Set(&d.Small.CardinalityInv)
	}
	return res
}

// evaluateVanishing returns v_H(point) = pointⁿ - 1.
func evaluateVanishing(n uint64, point fr.Element) fr.Element {
	var res, one fr.Element
	one.SetOne()
	var expo big.Int
	expo.SetUint64(n)
	res.Exp(point, &expo)
	res.Sub(&res, &one)
	return res
}

// evaluateLagrangeOne returns L₁(point) = (pointⁿ-1) / (n·(point-1)).
func evaluateLagrangeOne(n uint64, sizeInv, point fr.Element) fr.Element {
	var num, den fr.Element
	one := fr.One()
	num = evaluateVanishing(n, point)
	den.Sub(&point, &one).Inverse(&den)
	num.Mul(&num, &den).Mul(&num, &sizeInv)
	return num
}
