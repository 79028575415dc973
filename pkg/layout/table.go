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
package layout

import (
	"fmt"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/util/collection/bit"
	"github.com/consensys/go-floorplan/pkg/util/collection/set"
	"github.com/consensys/go-floorplan/pkg/util/field"
)

// State of a single column within a table being assigned.
type tableColumnState[F field.Element[F]] struct {
	// Value assigned at row 0, or nil if no such assignment has been made.
	// This is used to fill the column beyond the end of the table.
	defaultValue *circuit.Value[F]
	// Rows which have been assigned.
	assigned bit.Set
}

// tableLayouter assigns the cells of a lookup table directly, since tables
// always start at row 0 and need not be measured.  Columns used by previously
// completed tables are rejected.
type tableLayouter[F field.Element[F]] struct {
	cs   circuit.Assignment[F]
	used *set.AnySortedSet[circuit.TableColumn]
	// Columns touched by this table, and their state.
	columns map[circuit.TableColumn]*tableColumnState[F]
}

func newTableLayouter[F field.Element[F]](cs circuit.Assignment[F],
	used *set.AnySortedSet[circuit.TableColumn]) *tableLayouter[F] {
	return &tableLayouter[F]{cs, used, make(map[circuit.TableColumn]*tableColumnState[F])}
}

// AssignCell implementation for TableLayouter interface.
func (p *tableLayouter[F]) AssignCell(name string, column circuit.TableColumn, offset uint,
	to func() circuit.Value[F]) error {
	if p.used.Contains(column) {
		return fmt.Errorf("%w (%s)", ErrTableColumnReused, column)
	}
	//
	entry, ok := p.columns[column]
	if !ok {
		entry = &tableColumnState[F]{}
		p.columns[column] = entry
	}
	// Tables are always assigned starting at row 0
	value, err := p.cs.AssignFixed(name, column.Inner(), offset, to)
	if err != nil {
		return err
	}
	//
	if offset == 0 {
		if entry.defaultValue != nil {
			return fmt.Errorf("%w (%s)", ErrTableDefaultReassigned, column)
		}
		//
		entry.defaultValue = &value
	}
	//
	entry.assigned.Insert(offset)
	//
	return nil
}

// Columns returns the columns touched by this table, in sorted order.
func (p *tableLayouter[F]) Columns() []circuit.TableColumn {
	var columns set.AnySortedSet[circuit.TableColumn]
	//
	for c := range p.columns {
		columns.Insert(c)
	}
	//
	return columns.ToArray()
}

// Length determines the length of the table, which is the first unused row of
// every column.  All columns must have been assigned every row up to this
// length, otherwise the table is malformed.
func (p *tableLayouter[F]) Length() (uint, error) {
	var (
		length uint
		first  = true
	)
	//
	if len(p.columns) == 0 {
		return 0, ErrEmptyTable
	}
	//
	for _, column := range p.Columns() {
		state := p.columns[column]
		//
		if state.assigned.Bound() == 0 {
			// Possible only when an assignment to this column failed.
			return 0, fmt.Errorf("%w (%s has no assigned rows)", ErrTableColumnLength, column)
		} else if !state.assigned.Dense() {
			return 0, fmt.Errorf("%w (%s has unassigned rows below %d)", ErrTableColumnLength, column,
				state.assigned.Bound())
		} else if first {
			length, first = state.assigned.Bound(), false
		} else if length != state.assigned.Bound() {
			return 0, fmt.Errorf("%w (%s has length %d, expected %d)", ErrTableColumnLength, column,
				state.assigned.Bound(), length)
		}
	}
	//
	return length, nil
}
