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
	"github.com/consensys/go-floorplan/pkg/util/field"
)

// regionLayouter commits a region which has already been placed.  Offsets are
// translated into global rows and forwarded to an assignment, whilst requested
// constants are buffered until the region is complete.  The region starts are
// only ever read, hence a region layouter can safely run concurrently with
// others sharing the same starts.
type regionLayouter[F field.Element[F]] struct {
	cs      circuit.Assignment[F]
	regions []circuit.RegionStart
	index   circuit.RegionIndex
	// Constants to be assigned, and the cells to which they are copied.
	constants []pendingConstant[F]
}

func newRegionLayouter[F field.Element[F]](cs circuit.Assignment[F], regions []circuit.RegionStart,
	index circuit.RegionIndex) *regionLayouter[F] {
	return &regionLayouter[F]{cs, regions, index, nil}
}

// EnableSelector implementation for RegionLayouter interface.
func (p *regionLayouter[F]) EnableSelector(name string, selector circuit.Selector, offset uint) error {
	row, err := p.row(offset)
	if err != nil {
		return err
	}
	//
	return p.cs.EnableSelector(name, selector, row)
}

// NameColumn implementation for RegionLayouter interface.
func (p *regionLayouter[F]) NameColumn(name string, column circuit.Column) {
	p.cs.AnnotateColumn(name, column)
}

// AssignAdvice implementation for RegionLayouter interface.
func (p *regionLayouter[F]) AssignAdvice(name string, column circuit.Column, offset uint,
	to func() circuit.Value[F]) (circuit.Cell, error) {
	// Assignments are made at the global row
	row, err := p.row(offset)
	if err != nil {
		return circuit.Cell{}, err
	} else if _, err := p.cs.AssignAdvice(name, column, row, to); err != nil {
		return circuit.Cell{}, err
	}
	//
	return circuit.Cell{RegionIndex: p.index, RowOffset: offset, Column: column}, nil
}

// AssignAdviceFromConstant implementation for RegionLayouter interface.
func (p *regionLayouter[F]) AssignAdviceFromConstant(name string, column circuit.Column, offset uint,
	constant F) (circuit.Cell, error) {
	cell, err := p.AssignAdvice(name, column, offset, func() circuit.Value[F] {
		return circuit.Known(constant)
	})
	//
	if err != nil {
		return cell, err
	}
	//
	return cell, p.ConstrainConstant(cell, constant)
}

// AssignAdviceFromInstance implementation for RegionLayouter interface.
func (p *regionLayouter[F]) AssignAdviceFromInstance(name string, instance circuit.Column, row uint,
	advice circuit.Column, offset uint) (circuit.Cell, circuit.Value[F], error) {
	value, err := p.cs.QueryInstance(instance, row)
	if err != nil {
		return circuit.Cell{}, value, err
	}
	//
	cell, err := p.AssignAdvice(name, advice, offset, func() circuit.Value[F] {
		return value
	})
	if err != nil {
		return cell, value, err
	}
	// Cell belongs to this region, so resolves directly.
	err = p.cs.Copy(cell.Column, p.start()+cell.RowOffset, instance, row)
	//
	return cell, value, err
}

// AssignFixed implementation for RegionLayouter interface.
func (p *regionLayouter[F]) AssignFixed(name string, column circuit.Column, offset uint,
	to func() circuit.Value[F]) (circuit.Cell, error) {
	row, err := p.row(offset)
	if err != nil {
		return circuit.Cell{}, err
	} else if _, err := p.cs.AssignFixed(name, column, row, to); err != nil {
		return circuit.Cell{}, err
	}
	//
	return circuit.Cell{RegionIndex: p.index, RowOffset: offset, Column: column}, nil
}

// ConstrainConstant implementation for RegionLayouter interface.
func (p *regionLayouter[F]) ConstrainConstant(cell circuit.Cell, constant F) error {
	p.constants = append(p.constants, pendingConstant[F]{constant, cell})
	return nil
}

// ConstrainEqual implementation for RegionLayouter interface.
func (p *regionLayouter[F]) ConstrainEqual(left circuit.Cell, right circuit.Cell) error {
	leftRow, err := resolveRow(p.regions, left)
	if err != nil {
		return err
	}
	//
	rightRow, err := resolveRow(p.regions, right)
	if err != nil {
		return err
	}
	//
	return p.cs.Copy(left.Column, leftRow, right.Column, rightRow)
}

func (p *regionLayouter[F]) start() uint {
	return uint(p.regions[p.index])
}

// Translate an offset into a global row.
func (p *regionLayouter[F]) row(offset uint) (uint, error) {
	start := p.start()
	//
	if offset > math.MaxUint-start {
		return 0, fmt.Errorf("%w (offset %d from row %d)", ErrRowOverflow, offset, start)
	}
	//
	return start + offset, nil
}

// Resolve the global row of a cell from the start of its enclosing region.
func resolveRow(regions []circuit.RegionStart, cell circuit.Cell) (uint, error) {
	if uint(cell.RegionIndex) >= uint(len(regions)) {
		return 0, fmt.Errorf("%w (%s)", ErrUnknownRegion, cell)
	}
	//
	return uint(regions[cell.RegionIndex]) + cell.RowOffset, nil
}
