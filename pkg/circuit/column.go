// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package circuit

import (
	"cmp"
	"fmt"
)

// ColumnKind identifies the lane a column belongs to.
type ColumnKind uint8

const (
	// ADVICE columns hold witness values supplied by the prover.
	ADVICE ColumnKind = iota
	// FIXED columns hold values fixed at circuit construction time.
	FIXED
	// INSTANCE columns hold public inputs.
	INSTANCE
)

func (p ColumnKind) String() string {
	switch p {
	case ADVICE:
		return "advice"
	case FIXED:
		return "fixed"
	case INSTANCE:
		return "instance"
	}
	//
	return fmt.Sprintf("kind#%d", uint8(p))
}

// Column identifies a lane of cells by its kind and index.  Columns are plain
// values and can be compared and used as map keys.
type Column struct {
	Kind  ColumnKind
	Index uint
}

// AdviceColumn constructs the advice column with the given index.
func AdviceColumn(index uint) Column {
	return Column{ADVICE, index}
}

// FixedColumn constructs the fixed column with the given index.
func FixedColumn(index uint) Column {
	return Column{FIXED, index}
}

// InstanceColumn constructs the instance column with the given index.
func InstanceColumn(index uint) Column {
	return Column{INSTANCE, index}
}

// Cmp orders columns first by kind and then by index.
func (p Column) Cmp(other Column) int {
	if c := cmp.Compare(p.Kind, other.Kind); c != 0 {
		return c
	}
	//
	return cmp.Compare(p.Index, other.Index)
}

func (p Column) String() string {
	return fmt.Sprintf("%s:%d", p.Kind, p.Index)
}

// Selector identifies a selector column.  Selectors live in their own
// namespace, hence selector 0 and advice column 0 are unrelated.
type Selector struct {
	Index uint
	// Simple selectors may only be multiplied into gates, rather than being
	// used freely within expressions.  This has no bearing on layout.
	Simple bool
}

func (p Selector) String() string {
	return fmt.Sprintf("selector:%d", p.Index)
}

// TableColumn is a fixed column reserved for use by a lookup table.  Once a
// table using it has been laid out, it cannot be used by any other table.
type TableColumn struct {
	inner Column
}

// NewTableColumn wraps a fixed column for use within lookup tables.
func NewTableColumn(index uint) TableColumn {
	return TableColumn{FixedColumn(index)}
}

// Inner returns the fixed column underlying this table column.
func (p TableColumn) Inner() Column {
	return p.inner
}

// Cmp orders table columns by their underlying fixed column.
func (p TableColumn) Cmp(other TableColumn) int {
	return p.inner.Cmp(other.inner)
}

func (p TableColumn) String() string {
	return fmt.Sprintf("table(%s)", p.inner)
}

// RegionColumn is the key under which column occupancy is tracked during
// layout.  It is either an ordinary column or a selector, and selectors never
// collide with ordinary columns of the same index.
type RegionColumn struct {
	selector bool
	column   Column
}

// ColumnKey returns the occupancy key for an ordinary column.
func ColumnKey(column Column) RegionColumn {
	return RegionColumn{false, column}
}

// SelectorKey returns the occupancy key for a selector.
func SelectorKey(selector Selector) RegionColumn {
	return RegionColumn{true, Column{Index: selector.Index}}
}

// IsSelector determines whether this key identifies a selector.
func (p RegionColumn) IsSelector() bool {
	return p.selector
}

// Column returns the underlying column of this key, assuming it is not a
// selector.
func (p RegionColumn) Column() Column {
	if p.selector {
		panic("selector key has no column")
	}
	//
	return p.column
}

// Cmp orders ordinary columns before selectors.
func (p RegionColumn) Cmp(other RegionColumn) int {
	switch {
	case p.selector == other.selector:
		return p.column.Cmp(other.column)
	case p.selector:
		return 1
	default:
		return -1
	}
}

func (p RegionColumn) String() string {
	if p.selector {
		return Selector{Index: p.column.Index}.String()
	}
	//
	return p.column.String()
}

// Challenge identifies a verifier challenge.
type Challenge struct {
	Index uint
	// Phase after which the challenge becomes available.
	Phase uint8
}
