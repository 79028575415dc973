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

import "fmt"

// RegionLayouter is the operation surface of a region, as implemented by a
// layouter.  All offsets are relative to the start of the region.
type RegionLayouter[F any] interface {
	// EnableSelector enables a selector at a given offset.
	EnableSelector(name string, selector Selector, offset uint) error
	// NameColumn attaches a diagnostic name to a column.
	NameColumn(name string, column Column)
	// AssignAdvice assigns an advice cell.
	AssignAdvice(name string, column Column, offset uint, to func() Value[F]) (Cell, error)
	// AssignAdviceFromConstant assigns an advice cell the given constant, and
	// constrains it to equal that constant.
	AssignAdviceFromConstant(name string, column Column, offset uint, constant F) (Cell, error)
	// AssignAdviceFromInstance assigns an advice cell the value of an instance
	// cell, and constrains the two to be equal.
	AssignAdviceFromInstance(name string, instance Column, row uint, advice Column, offset uint) (Cell, Value[F],
		error)
	// AssignFixed assigns a fixed cell.
	AssignFixed(name string, column Column, offset uint, to func() Value[F]) (Cell, error)
	// ConstrainConstant constrains a cell to equal a constant.
	ConstrainConstant(cell Cell, constant F) error
	// ConstrainEqual constrains two cells to be equal.  The cells may belong
	// to any region laid out so far.
	ConstrainEqual(left Cell, right Cell) error
}

// Region is the handle through which circuit logic assigns the cells of a
// region.  Region logic is run more than once by a layouter (e.g. first to
// measure the region, then to place it), and must therefore behave identically
// on every run and hold no state outside of the region itself.
type Region[F any] struct {
	layouter RegionLayouter[F]
}

// NewRegion wraps a region layouter in a handle.
func NewRegion[F any](layouter RegionLayouter[F]) Region[F] {
	return Region[F]{layouter}
}

// EnableSelector enables a selector at a given offset.
func (p Region[F]) EnableSelector(name string, selector Selector, offset uint) error {
	return p.layouter.EnableSelector(name, selector, offset)
}

// NameColumn attaches a diagnostic name to a column.
func (p Region[F]) NameColumn(name string, column Column) {
	p.layouter.NameColumn(name, column)
}

// AssignAdvice assigns the value produced by a given function to an advice
// cell.  The function may not be called at all (e.g. when measuring the region).
func (p Region[F]) AssignAdvice(name string, column Column, offset uint, to func() Value[F]) (Cell, error) {
	checkKind(column, ADVICE)
	//
	return p.layouter.AssignAdvice(name, column, offset, to)
}

// AssignAdviceFromConstant assigns a constant to an advice cell, and constrains
// the cell to equal that constant.
func (p Region[F]) AssignAdviceFromConstant(name string, column Column, offset uint, constant F) (Cell, error) {
	checkKind(column, ADVICE)
	//
	return p.layouter.AssignAdviceFromConstant(name, column, offset, constant)
}

// AssignAdviceFromInstance assigns the value of a given instance cell to an
// advice cell, and constrains the two to be equal.
func (p Region[F]) AssignAdviceFromInstance(name string, instance Column, row uint, advice Column,
	offset uint) (Cell, Value[F], error) {
	checkKind(instance, INSTANCE)
	checkKind(advice, ADVICE)
	//
	return p.layouter.AssignAdviceFromInstance(name, instance, row, advice, offset)
}

// AssignFixed assigns the value produced by a given function to a fixed cell.
func (p Region[F]) AssignFixed(name string, column Column, offset uint, to func() Value[F]) (Cell, error) {
	checkKind(column, FIXED)
	//
	return p.layouter.AssignFixed(name, column, offset, to)
}

// ConstrainConstant constrains a cell to equal a constant.  The constant is
// materialised once the enclosing region is complete.
func (p Region[F]) ConstrainConstant(cell Cell, constant F) error {
	return p.layouter.ConstrainConstant(cell, constant)
}

// ConstrainEqual constrains two cells to be equal.
func (p Region[F]) ConstrainEqual(left Cell, right Cell) error {
	return p.layouter.ConstrainEqual(left, right)
}

// Sanity check a column has the expected kind.
func checkKind(column Column, kind ColumnKind) {
	if column.Kind != kind {
		panic(fmt.Sprintf("expected %s column, found %s", kind, column))
	}
}
