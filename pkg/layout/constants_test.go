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
	"testing"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/trace"
	"github.com/consensys/go-floorplan/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Constants_00(t *testing.T) {
	p, cs := newLayouter(t, f2)
	//
	check_Region(t, p, "A", constants(a0, 5, 6), 0)
	assert.Equal(t, uint(2), p.NextConstantRow())
	check_Region(t, p, "B", constants(a1, 7), 0)
	// Constants occupy consecutive rows.
	check_Cell(t, cs, f2, 0, 5)
	check_Cell(t, cs, f2, 1, 6)
	check_Cell(t, cs, f2, 2, 7)
	check_Unknown(t, cs, f1, testRows)
	//
	assert.Equal(t, uint(3), p.NextConstantRow())
	assert.Equal(t, []trace.Copy{
		{Left: f2, LeftRow: 0, Right: a0, RightRow: 0},
		{Left: f2, LeftRow: 1, Right: a0, RightRow: 1},
		{Left: f2, LeftRow: 2, Right: a1, RightRow: 0},
	}, cs.Copies())
	require.NoError(t, cs.Verify())
}

func Test_Constants_01(t *testing.T) {
	p, cs := newLayouter(t)
	// No constants column available.
	_, err := AssignRegion(p, "A", constants(a0, 1, 2, 3))
	assert.ErrorIs(t, err, ErrNotEnoughColumnsForConstants)
	assert.ErrorIs(t, err, ErrConfiguration)
	// Nothing written to any fixed column.
	check_Unknown(t, cs, f0, testRows)
	check_Unknown(t, cs, f1, testRows)
	check_Unknown(t, cs, f2, testRows)
	assert.Empty(t, cs.Copies())
	// Regions without constants are fine.
	check_Region(t, p, "B", fill(1, a1), 0)
}

func Test_Constants_02(t *testing.T) {
	p, cs := newLayouter(t, f2, f1)
	// A region using the constants column pushes constants below it.
	check_Region(t, p, "A", fill(2, f2), 0)
	check_Region(t, p, "B", constants(a0, 9), 0)
	check_Cell(t, cs, f2, 2, 9)
	// And constants push regions using that column below them.
	check_Region(t, p, "C", fill(1, f2), 3)
	assert.Equal(t, uint(4), p.NextConstantRow())
	// Only the first constants column is used.
	check_Unknown(t, cs, f1, testRows)
}

func Test_Constants_03(t *testing.T) {
	p, cs := newLayouter(t, f2)
	// Constraining an existing cell to a constant.
	check_Region(t, p, "A", func(region circuit.Region[Element]) (circuit.Cell, error) {
		cell, err := region.AssignAdvice("x", a0, 1, func() circuit.Value[Element] { return known(4) })
		if err != nil {
			return cell, err
		}
		//
		return cell, region.ConstrainConstant(cell, field.Uint64[Element](4))
	}, 0)
	//
	check_Cell(t, cs, f2, 0, 4)
	assert.Equal(t, []trace.Copy{{Left: f2, LeftRow: 0, Right: a0, RightRow: 1}}, cs.Copies())
	require.NoError(t, cs.Verify())
}

// Construct region logic which assigns a sequence of constants to consecutive
// rows of an advice column.
func constants(column circuit.Column, values ...uint64) func(circuit.Region[Element]) (circuit.Cell, error) {
	return func(region circuit.Region[Element]) (circuit.Cell, error) {
		var last circuit.Cell
		//
		for i, v := range values {
			cell, err := region.AssignAdviceFromConstant("c", column, uint(i), field.Uint64[Element](v))
			if err != nil {
				return cell, err
			}
			//
			last = cell
		}
		//
		return last, nil
	}
}
