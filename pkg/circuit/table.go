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

// TableLayouter is the operation surface of a lookup table, as implemented by
// a layouter.  Tables always start at row 0.
type TableLayouter[F any] interface {
	// AssignCell assigns a cell of a table column.
	AssignCell(name string, column TableColumn, offset uint, to func() Value[F]) error
}

// Table is the handle through which circuit logic assigns the cells of a
// lookup table.
type Table[F any] struct {
	layouter TableLayouter[F]
}

// NewTable wraps a table layouter in a handle.
func NewTable[F any](layouter TableLayouter[F]) Table[F] {
	return Table[F]{layouter}
}

// AssignCell assigns the value produced by a given function to the cell at the
// given offset within a table column.  The value assigned at offset 0 is used
// to fill the column beyond the end of the table.
func (p Table[F]) AssignCell(name string, column TableColumn, offset uint, to func() Value[F]) error {
	return p.layouter.AssignCell(name, column, offset, to)
}
