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
	"strings"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/util"
	"github.com/consensys/go-floorplan/pkg/util/field"
)

// Print the placement of each region, followed by the occupancy of each column.
func printReport[F field.Element[F]](out io.Writer, p *Layout[F]) {
	var (
		layouter = p.Layouter
		n        = layouter.Regions()
		regions  = util.NewTablePrinter(4, n+1)
	)
	//
	fmt.Fprintf(out, "circuit \"%s\" over %s with %d rows\n", p.Blueprint.Name, p.Field, p.Blueprint.Rows)
	fmt.Fprintln(out)
	// Regions
	regions.SetRow(0, "#", "region", "start", "rows")
	//
	for i := range n {
		index := circuit.RegionIndex(i)
		//
		regions.SetRow(i+1, fmt.Sprintf("%d", i), layouter.RegionName(index),
			fmt.Sprintf("%d", layouter.RegionStart(index)), fmt.Sprintf("%d", layouter.RegionHeight(index)))
	}
	//
	regions.Print(out)
	fmt.Fprintln(out)
	// Columns
	var (
		occupied = layouter.OccupiedColumns()
		columns  = util.NewTablePrinter(3, uint(len(occupied))+1)
	)
	//
	columns.SetRow(0, "column", "name", "occupied")
	//
	for i, column := range occupied {
		var name string
		//
		if !column.IsSelector() {
			name = p.Assignment.Annotation(column.Column())
		}
		//
		columns.SetRow(uint(i+1), column.String(), name, fmt.Sprintf("%d", layouter.Occupancy(column)))
	}
	//
	columns.Print(out)
	fmt.Fprintln(out)
	// Constants & tables
	if constants := p.Blueprint.Constants; len(constants) > 0 {
		fmt.Fprintf(out, "constants: %s, next row %d\n", constants[0], layouter.NextConstantRow())
	} else {
		fmt.Fprintln(out, "constants: none")
	}
	//
	if tables := layouter.TableColumns(); len(tables) > 0 {
		names := make([]string, len(tables))
		//
		for i, t := range tables {
			names[i] = t.Inner().String()
		}
		//
		fmt.Fprintf(out, "tables: %s\n", strings.Join(names, ", "))
	} else {
		fmt.Fprintln(out, "tables: none")
	}
}
