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
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/trace"
	"github.com/consensys/go-floorplan/pkg/util"
	"github.com/consensys/go-floorplan/pkg/util/collection/set"
	"github.com/consensys/go-floorplan/pkg/util/field"
	"golang.org/x/term"
)

// Width used when not printing to a terminal.
const defaultWidth = 80

// Print a chart showing which region (or table) occupies each row of each
// column.  Regions are identified by their position in the order they were
// entered.  Columns which do not fit within the given width are omitted.
func printChart[F field.Element[F]](out io.Writer, cs *trace.ArrayAssignment[F], width uint) {
	var (
		regions = cs.Regions()
		keys    set.AnySortedSet[circuit.RegionColumn]
		height  uint
	)
	// Determine columns and rows to show
	for _, r := range regions {
		if r.Rows != nil {
			keys.InsertSorted(&r.Columns)
			height = max(height, r.Rows.End)
		}
	}
	//
	var (
		columns = fitColumns(keys.ToArray(), width)
		index   = make(map[circuit.RegionColumn]uint)
		chart   = util.NewTablePrinter(uint(len(columns))+1, height+1)
	)
	//
	chart.Set(0, 0, "row")
	//
	for i, column := range columns {
		index[column] = uint(i) + 1
		chart.Set(uint(i)+1, 0, column.String())
	}
	//
	for row := range height {
		chart.Set(0, row+1, fmt.Sprintf("%d", row))
		//
		for i := range columns {
			chart.Set(uint(i)+1, row+1, ".")
		}
	}
	// Mark the extent of each region
	for i, r := range regions {
		if r.Rows == nil {
			continue
		}
		//
		symbol := strconv.FormatInt(int64(i), 36)
		//
		for _, column := range r.Columns.ToArray() {
			if col, ok := index[column]; ok {
				for row := r.Rows.Start; row < r.Rows.End; row++ {
					chart.Set(col, row+1, symbol)
				}
			}
		}
	}
	//
	fmt.Fprintln(out, "occupancy by region:")
	chart.Print(out)
	//
	if omitted := keys.Len() - uint(len(columns)); omitted > 0 {
		fmt.Fprintf(out, "(%d column(s) not shown)\n", omitted)
	}
}

// Determine the leading columns which fit within a given width, given each is
// printed as " <name> |".
func fitColumns(columns []circuit.RegionColumn, width uint) []circuit.RegionColumn {
	// Allow for the row column
	used := uint(len(" row |"))
	//
	for i, column := range columns {
		used += uint(len(column.String())) + 3
		//
		if used > width {
			return columns[:i]
		}
	}
	//
	return columns
}

// Determine the width of the terminal, falling back to a default when not
// printing to a terminal.
func terminalWidth() uint {
	fd := int(os.Stdout.Fd())
	//
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return uint(w)
		}
	}
	//
	return defaultWidth
}
