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
	"github.com/consensys/go-floorplan/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// A constant requested by a region, along with the cell which must equal it.
type pendingConstant[F field.Element[F]] struct {
	value F
	cell  circuit.Cell
}

// Materialise constants in the first constants column, in the order given, and
// tie each to its cell with an equality constraint.  Constants occupy
// consecutive rows of that column, continuing from wherever the previous
// constant (or any region using the same column) finished.
func (p *Layouter[F]) assignConstants(constants []pendingConstant[F]) error {
	if len(constants) == 0 {
		return nil
	} else if len(p.constants) == 0 {
		return ErrNotEnoughColumnsForConstants
	}
	//
	var (
		column = p.constants[0]
		key    = circuit.ColumnKey(column)
		row    = p.NextConstantRow()
	)
	//
	for _, constant := range constants {
		var (
			value = constant.value
			name  = fmt.Sprintf("Constant(%s)", value)
		)
		//
		if _, err := p.cs.AssignFixed(name, column, row, func() circuit.Value[F] {
			return circuit.Known(value)
		}); err != nil {
			return err
		}
		//
		target, err := resolveRow(p.regions, constant.cell)
		if err != nil {
			return err
		} else if err = p.cs.Copy(column, row, constant.cell.Column, target); err != nil {
			return err
		}
		//
		row++
		// Constants share occupancy with regions using the same column.
		p.nextConstantRow = row
		p.columns[key] = row
	}
	//
	log.Debugf("assigned %d constant(s) in %s, next row %d", len(constants), column, row)
	//
	return nil
}
