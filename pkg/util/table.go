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
package util

import (
	"fmt"
	"io"
)

// TablePrinter is useful for printing tables to the terminal.
type TablePrinter struct {
	widths []uint
	rows   [][]string
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	widths := make([]uint, width)
	rows := make([][]string, height)
	// Construct the table
	for i := uint(0); i < height; i++ {
		rows[i] = make([]string, width)
	}

	return &TablePrinter{widths, rows}
}

// Height returns the number of rows in this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// Set the contents of a given cell in this table
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], uint(len(val)))
	p.rows[row][col] = val
}

// SetRow sets the contents of an entire row in this table
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = max(p.widths[i], uint(len(vals[i])))
	}
	// Done
	p.rows[row] = vals
}

// SetMaxWidth puts an upper bound on the width of any column.
func (p *TablePrinter) SetMaxWidth(m uint) {
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = min(p.widths[i], m)
	}
}

// Print the table to a given writer.  Cells are right-aligned and truncated to
// the width of their column.
func (p *TablePrinter) Print(out io.Writer) {
	for i := 0; i < len(p.rows); i++ {
		row := p.rows[i]
		for j, col := range row {
			jth := col
			jthWidth := p.widths[j]

			if uint(len(col)) > jthWidth {
				jth = col[0:jthWidth]
			}

			fmt.Fprintf(out, " %*s |", jthWidth, jth)
		}

		fmt.Fprintln(out)
	}
}
