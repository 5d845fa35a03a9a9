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

// Package composer builds the gate table consumed by the indexer: per gate
// selector coefficients (q_0,...,q_arith) over four wire columns, the wire to
// variable mapping from which copy constraints are derived, and the witness
// assignment.
//
// The gate identity is
//
//	q_arith·(q_0·w_0 + q_1·w_1 + q_2·w_2 + q_3·w_3 + q_m·w_1·w_2 + q_c + pi) = 0
//
// with w_0 the output wire and w_1, w_2 the multiplicand inputs. Public input
// gates always occupy the first rows of the table.
package composer

import (
	"errors"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ErrAssignmentMissing is returned when a variable referenced by a gate has
// no witness value. It indicates a malformed prover invocation and never
// occurs on the verifier path.
var ErrAssignmentMissing = errors.New("composer: variable assignment missing")

// Variable is a handle on a circuit variable.
type Variable int

// NbWires is the number of wire columns per gate.
const NbWires = 4

// gate is one row of the selector table.
type gate struct {
	Wires                  [NbWires]Variable
	Q0, Q1, Q2, Q3, QM, QC fr.Element
}

// Composer accumulates gates and assignments. It is not safe for concurrent
// use; once handed to KeyGen or Prove it is consumed read-only.
type Composer struct {
	public      []publicInput
	gates       []gate
	assignments []fr.Element
	assigned    *bitset.BitSet
}

type publicInput struct {
	Wire  Variable
	Value fr.Element
}

// New returns an empty composer. Variable 0 is the zero wire, used to fill
// unused wire slots and padding rows.
func New() *Composer {
	c := &Composer{
		assigned: bitset.New(64),
	}
	c.AllocAndAssign(fr.Element{}) // variable 0
	return c
}

// Alloc declares a variable without assigning it. Proving requires an
// assignment for every variable reachable from a gate; indexing does not.
func (c *Composer) Alloc() Variable {
	c.assignments = append(c.assignments, fr.Element{})
	return Variable(len(c.assignments) - 1)
}

// AllocAndAssign declares a variable carrying value.
func (c *Composer) AllocAndAssign(value fr.Element) Variable {
	v := c.Alloc()
	c.Assign(v, value)
	return v
}

// Assign sets the value of v, overwriting any previous assignment.
func (c *Composer) Assign(v Variable, value fr.Element) {
	c.assignments[v] = value
	c.assigned.Set(uint(v))
}

// PublicInput declares a public input with the given value and returns the
// variable carrying it. The associated gate is -w_0 + pi = 0.
func (c *Composer) PublicInput(value fr.Element) Variable {
	v := c.AllocAndAssign(value)
	c.public = append(c.public, publicInput{Wire: v, Value: value})
	return v
}

// AddGate constrains qa·a + qb·b + qc - o = 0.
func (c *Composer) AddGate(a, b Variable, qa, qb fr.Element, o Variable, qc fr.Element) {
	var minusOne fr.Element
	minusOne.SetOne().Neg(&minusOne)
	c.gates = append(c.gates, gate{
		Wires: [NbWires]Variable{o, a, b, 0},
		Q0:    minusOne,
		Q1:    qa,
		Q2:    qb,
		QC:    qc,
	})
}

// MulGate constrains qm·a·b - o = 0.
func (c *Composer) MulGate(a, b Variable, qm fr.Element, o Variable) {
	var minusOne fr.Element
	minusOne.SetOne().Neg(&minusOne)
	c.gates = append(c.gates, gate{
		Wires: [NbWires]Variable{o, a, b, 0},
		Q0:    minusOne,
		QM:    qm,
	})
}

// ConstrainToConstant constrains v = constant.
func (c *Composer) ConstrainToConstant(v Variable, constant fr.Element) {
	var one, qc fr.Element
	one.SetOne()
	qc.Neg(&constant)
	c.gates = append(c.gates, gate{
		Wires: [NbWires]Variable{v, 0, 0, 0},
		Q0:    one,
		QC:    qc,
	})
}

// ArithmeticGate appends a raw selector row over the given wires.
func (c *Composer) ArithmeticGate(wires [NbWires]Variable, q0, q1, q2, q3, qm, qc fr.Element) {
	c.gates = append(c.gates, gate{
		Wires: wires,
		Q0:    q0, Q1: q1, Q2: q2, Q3: q3, QM: qm, QC: qc,
	})
}

// Size is the number of gate rows, public input rows included.
func (c *Composer) Size() int {
	return len(c.public) + len(c.gates)
}

// NbPublicInputs returns the number of declared public inputs.
func (c *Composer) NbPublicInputs() int {
	return len(c.public)
}

// PublicInputs returns the public input values in declaration order.
func (c *Composer) PublicInputs() []fr.Element {
	res := make([]fr.Element, len(c.public))
	for i, p := range c.public {
		res[i] = p.Value
	}
	return res
}

// NbVariables returns the number of declared variables, zero wire included.
func (c *Composer) NbVariables() int {
	return len(c.assignments)
}

// SelectorRow holds the selector coefficients of one row of the gate table.
type SelectorRow struct {
	Wires                          [NbWires]Variable
	Q0, Q1, Q2, Q3, QM, QC, QArith fr.Element
}

// Rows materializes the full gate table: public input rows first, then
// gates. Every returned row is an enabled gate (q_arith = 1); padding to the
// domain size is the indexer's concern.
func (c *Composer) Rows() []SelectorRow {
	var one, minusOne fr.Element
	one.SetOne()
	minusOne.Neg(&one)

	rows := make([]SelectorRow, 0, c.Size())
	for _, p := range c.public {
		rows = append(rows, SelectorRow{
			Wires:  [NbWires]Variable{p.Wire, 0, 0, 0},
			Q0:     minusOne,
			QArith: one,
		})
	}
	for _, g := range c.gates {
		rows = append(rows, SelectorRow{
			Wires: g.Wires,
			Q0:    g.Q0, Q1: g.Q1, Q2: g.Q2, Q3: g.Q3, QM: g.QM, QC: g.QC,
			QArith: one,
		})
	}
	return rows
}

// Witness returns the full assignment vector, indexed by variable id.
// It fails with ErrAssignmentMissing if any variable referenced by a gate has
// not been assigned.
func (c *Composer) Witness() ([]fr.Element, error) {
	check := func(v Variable) error {
		if !c.assigned.Test(uint(v)) {
			return ErrAssignmentMissing
		}
		return nil
	}
	for _, g := range c.gates {
		for _, w := range g.Wires {
			if err := check(w); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range c.public {
		if err := check(p.Wire); err != nil {
			return nil, err
		}
	}
	res := make([]fr.Element, len(c.assignments))
	copy(res, c.assignments)
	return res, nil
}
