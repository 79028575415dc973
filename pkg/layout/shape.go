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
	"math"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/util/collection/set"
	"github.com/consensys/go-floorplan/pkg/util/field"
)

// RegionShape measures a region.  It records which columns the region writes
// and how many rows it spans, without placing anything or touching an
// assignment.  Equality and constant constraints occupy no space, and are
// ignored.
type RegionShape[F field.Element[F]] struct {
	index    circuit.RegionIndex
	columns  set.AnySortedSet[circuit.RegionColumn]
	rowCount uint
}

// NewRegionShape constructs an empty shape for the given region.
func NewRegionShape[F field.Element[F]](index circuit.RegionIndex) *RegionShape[F] {
	return &RegionShape[F]{index: index}
}

// RegionIndex returns the index of the region being measured.
func (p *RegionShape[F]) RegionIndex() circuit.RegionIndex {
	return p.index
}

// Columns returns the columns (and selectors) written by the region, in
// sorted order.
func (p *RegionShape[F]) Columns() []circuit.RegionColumn {
	return p.columns.ToArray()
}

// RowCount returns one more than the largest offset written, or 0 when nothing
// was written.
func (p *RegionShape[F]) RowCount() uint {
	return p.rowCount
}

// Equals determines whether two shapes span the same columns and rows.
func (p *RegionShape[F]) Equals(other *RegionShape[F]) bool {
	return p.rowCount == other.rowCount && p.columns.Equals(&other.columns)
}

// EnableSelector implementation for RegionLayouter interface.
func (p *RegionShape[F]) EnableSelector(_ string, selector circuit.Selector, offset uint) error {
	return p.record(circuit.SelectorKey(selector), offset)
}

// NameColumn implementation for RegionLayouter interface.
func (p *RegionShape[F]) NameColumn(string, circuit.Column) {}

// AssignAdvice implementation for RegionLayouter interface.
func (p *RegionShape[F]) AssignAdvice(_ string, column circuit.Column, offset uint,
	_ func() circuit.Value[F]) (circuit.Cell, error) {
	return p.assign(column, offset)
}

// AssignAdviceFromConstant implementation for RegionLayouter interface.
func (p *RegionShape[F]) AssignAdviceFromConstant(_ string, column circuit.Column, offset uint,
	_ F) (circuit.Cell, error) {
	return p.assign(column, offset)
}

// AssignAdviceFromInstance implementation for RegionLayouter interface.  The
// value returned is always unknown.
func (p *RegionShape[F]) AssignAdviceFromInstance(_ string, _ circuit.Column, _ uint, advice circuit.Column,
	offset uint) (circuit.Cell, circuit.Value[F], error) {
	cell, err := p.assign(advice, offset)
	//
	return cell, circuit.Unknown[F](), err
}

// AssignFixed implementation for RegionLayouter interface.
func (p *RegionShape[F]) AssignFixed(_ string, column circuit.Column, offset uint,
	_ func() circuit.Value[F]) (circuit.Cell, error) {
	return p.assign(column, offset)
}

// ConstrainConstant implementation for RegionLayouter interface.
func (p *RegionShape[F]) ConstrainConstant(circuit.Cell, F) error {
	return nil
}

// ConstrainEqual implementation for RegionLayouter interface.
func (p *RegionShape[F]) ConstrainEqual(circuit.Cell, circuit.Cell) error {
	return nil
}

func (p *RegionShape[F]) assign(column circuit.Column, offset uint) (circuit.Cell, error) {
	cell := circuit.Cell{RegionIndex: p.index, RowOffset: offset, Column: column}
	//
	return cell, p.record(circuit.ColumnKey(column), offset)
}

func (p *RegionShape[F]) record(key circuit.RegionColumn, offset uint) error {
	// Row count must be representable.
	if offset == math.MaxUint {
		return fmt.Errorf("%w (%s at offset %d)", ErrRowOverflow, key, offset)
	}
	//
	p.columns.Insert(key)
	p.rowCount = max(p.rowCount, offset+1)
	//
	return nil
}
