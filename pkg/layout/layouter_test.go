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
	"math"
	"testing"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/trace"
	"github.com/consensys/go-floorplan/pkg/util/field"
	"github.com/consensys/go-floorplan/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Element = bn254.Element

const testRows = 32

var (
	a0 = circuit.AdviceColumn(0)
	a1 = circuit.AdviceColumn(1)
	a2 = circuit.AdviceColumn(2)
	f0 = circuit.FixedColumn(0)
	f1 = circuit.FixedColumn(1)
	f2 = circuit.FixedColumn(2)
	i0 = circuit.InstanceColumn(0)
	s0 = circuit.Selector{Index: 0, Simple: true}
)

// ===================================================================
// Shapes
// ===================================================================

func Test_RegionShape_00(t *testing.T) {
	var (
		calls int
		shape = NewRegionShape[Element](3)
		fn    = func(region circuit.Region[Element]) (circuit.Cell, error) {
			if _, err := region.AssignAdvice("x", a1, 0, func() circuit.Value[Element] {
				calls++
				return known(1)
			}); err != nil {
				return circuit.Cell{}, err
			}
			//
			if err := region.EnableSelector("s", s0, 3); err != nil {
				return circuit.Cell{}, err
			}
			//
			return region.AssignAdvice("y", a0, 1, func() circuit.Value[Element] { return known(2) })
		}
	)
	//
	cell, err := fn(circuit.NewRegion[Element](shape))
	require.NoError(t, err)
	// Values are never computed when measuring.
	assert.Equal(t, 0, calls)
	assert.Equal(t, circuit.Cell{RegionIndex: 3, RowOffset: 1, Column: a0}, cell)
	assert.Equal(t, uint(4), shape.RowCount())
	assert.Equal(t, []circuit.RegionColumn{circuit.ColumnKey(a0), circuit.ColumnKey(a1), circuit.SelectorKey(s0)},
		shape.Columns())
	// Measuring is deterministic.
	other := NewRegionShape[Element](3)
	_, err = fn(circuit.NewRegion[Element](other))
	require.NoError(t, err)
	assert.True(t, shape.Equals(other))
}

func Test_RegionShape_01(t *testing.T) {
	shape := NewRegionShape[Element](0)
	region := circuit.NewRegion[Element](shape)
	//
	cell, value, err := region.AssignAdviceFromInstance("x", i0, 5, a2, 2)
	require.NoError(t, err)
	assert.False(t, value.IsKnown())
	assert.Equal(t, uint(2), cell.RowOffset)
	// Constraints occupy no space.
	require.NoError(t, region.ConstrainEqual(cell, cell))
	require.NoError(t, region.ConstrainConstant(cell, field.One[Element]()))
	region.NameColumn("x", a0)
	//
	assert.Equal(t, uint(3), shape.RowCount())
	assert.Equal(t, []circuit.RegionColumn{circuit.ColumnKey(a2)}, shape.Columns())
	// Nothing assigned, nothing measured.
	assert.Equal(t, uint(0), NewRegionShape[Element](1).RowCount())
}

// ===================================================================
// Placement
// ===================================================================

func Test_Layouter_00(t *testing.T) {
	p, _ := newLayouter(t, f2)
	// Region A uses X for 2 rows
	check_Region(t, p, "A", fill(2, a0), 0)
	// Region B also uses X, so must follow A
	check_Region(t, p, "B", fill(1, a0), 2)
	// Region C uses only Y, so can start at the top
	check_Region(t, p, "C", fill(4, a1), 0)
	// Region D uses X and Y, so must follow both
	check_Region(t, p, "D", fill(1, a0, a1), 4)
	//
	assert.Equal(t, uint(4), p.Regions())
	assert.Equal(t, []circuit.RegionStart{0, 2, 0, 4}, p.RegionStarts())
	assert.Equal(t, "C", p.RegionName(2))
	assert.Equal(t, uint(4), p.RegionHeight(2))
	assert.Equal(t, uint(5), p.Occupancy(circuit.ColumnKey(a0)))
	assert.Equal(t, uint(5), p.Occupancy(circuit.ColumnKey(a1)))
	assert.Equal(t, uint(0), p.Occupancy(circuit.ColumnKey(a2)))
	assert.Equal(t, []circuit.RegionColumn{circuit.ColumnKey(a0), circuit.ColumnKey(a1)}, p.OccupiedColumns())
}

func Test_Layouter_01(t *testing.T) {
	p, _ := newLayouter(t, f2)
	// Selectors are placed just like columns, but never clash with them.
	check_Region(t, p, "A", func(region circuit.Region[Element]) (circuit.Cell, error) {
		return circuit.Cell{}, region.EnableSelector("s", s0, 2)
	}, 0)
	check_Region(t, p, "B", fill(1, a0), 0)
	check_Region(t, p, "C", func(region circuit.Region[Element]) (circuit.Cell, error) {
		return circuit.Cell{}, region.EnableSelector("s", s0, 0)
	}, 3)
	//
	assert.Equal(t, uint(4), p.Occupancy(circuit.SelectorKey(s0)))
}

func Test_Layouter_02(t *testing.T) {
	p, cs := newLayouter(t, f2)
	// Region which writes nothing occupies nothing.
	check_Region(t, p, "A", func(circuit.Region[Element]) (circuit.Cell, error) {
		return circuit.Cell{}, nil
	}, 0)
	check_Region(t, p, "B", fill(3, a0, f0), 0)
	// Values are written at global rows.
	check_Region(t, p, "C", fill(2, a0), 3)
	check_Cell(t, cs, a0, 3, 0)
	check_Cell(t, cs, a0, 4, 1)
	check_Cell(t, cs, f0, 2, 2)
	//
	row, err := p.GlobalRow(circuit.Cell{RegionIndex: 2, RowOffset: 1, Column: a0})
	require.NoError(t, err)
	assert.Equal(t, uint(4), row)
	//
	_, err = p.GlobalRow(circuit.Cell{RegionIndex: 3, Column: a0})
	assert.ErrorIs(t, err, ErrUnknownRegion)
	assert.ErrorIs(t, err, ErrConsistency)
}

func Test_Layouter_03(t *testing.T) {
	p, cs := newLayouter(t, f2)
	//
	first, err := AssignRegion(p, "A", fill(2, a0))
	require.NoError(t, err)
	// Equality constraints between regions resolve to global rows.
	check_Region(t, p, "B", func(region circuit.Region[Element]) (circuit.Cell, error) {
		cell, err := region.AssignAdvice("x", a0, 0, func() circuit.Value[Element] { return known(1) })
		if err != nil {
			return cell, err
		}
		//
		return cell, region.ConstrainEqual(first, cell)
	}, 2)
	//
	assert.Equal(t, []trace.Copy{{Left: a0, LeftRow: 1, Right: a0, RightRow: 2}}, cs.Copies())
	require.NoError(t, cs.Verify())
	// Cells of regions not yet laid out cannot be constrained.
	_, err = AssignRegion(p, "C", func(region circuit.Region[Element]) (circuit.Cell, error) {
		cell, err := region.AssignAdvice("x", a1, 0, func() circuit.Value[Element] { return known(1) })
		if err != nil {
			return cell, err
		}
		//
		return cell, region.ConstrainEqual(cell, circuit.Cell{RegionIndex: 7, Column: a0})
	})
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func Test_Layouter_04(t *testing.T) {
	p, cs := newLayouter(t, f2)
	require.NoError(t, cs.SetInstance(0, []Element{field.Uint64[Element](7), field.Uint64[Element](9)}))
	//
	check_Region(t, p, "A", fill(1, a0), 0)
	//
	var value circuit.Value[Element]
	// Instance values are copied into advice cells.
	cell, err := AssignRegion(p, "B", func(region circuit.Region[Element]) (circuit.Cell, error) {
		cell, v, err := region.AssignAdviceFromInstance("x", i0, 1, a0, 0)
		value = v
		//
		return cell, err
	})
	require.NoError(t, err)
	check_Value(t, value, 9)
	check_Cell(t, cs, a0, 1, 9)
	// And cells can be constrained to instance cells after the fact.
	require.NoError(t, p.ConstrainInstance(cell, i0, 0))
	//
	assert.Equal(t, []trace.Copy{
		{Left: a0, LeftRow: 1, Right: i0, RightRow: 1},
		{Left: a0, LeftRow: 1, Right: i0, RightRow: 0},
	}, cs.Copies())
	// Second copy does not hold
	assert.Error(t, cs.Verify())
}

func Test_Layouter_05(t *testing.T) {
	cs := newAssignment()
	//
	_, err := NewLayouter[Element](cs, []circuit.Column{a0})
	assert.ErrorIs(t, err, ErrConfiguration)
	//
	p, err := NewLayouter[Element](cs, []circuit.Column{f2})
	require.NoError(t, err)
	// Namespaces qualify region names.
	p.PushNamespace("chip")
	check_Region(t, p, "A", fill(1, a0), 0)
	p.PopNamespace("chip")
	check_Region(t, p, "B", fill(1, a1), 0)
	//
	regions := cs.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, "chip/A", regions[0].Name)
	assert.Equal(t, "B", regions[1].Name)
	// Challenges pass through.
	cs.SetChallenge(circuit.Challenge{Index: 1}, field.Uint64[Element](3))
	check_Value(t, p.GetChallenge(circuit.Challenge{Index: 1}), 3)
}

func Test_Layouter_06(t *testing.T) {
	p, cs := newLayouter(t, f2)
	// Errors from region logic are returned unchanged.
	_, err := AssignRegion(p, "A", func(region circuit.Region[Element]) (circuit.Cell, error) {
		return region.AssignAdvice("x", a0, testRows, func() circuit.Value[Element] { return known(1) })
	})
	assert.ErrorIs(t, err, trace.ErrOutOfBounds)
	// Region was placed before failing
	assert.Equal(t, uint(1), p.Regions())
	assert.Len(t, cs.Regions(), 1)
}

func Test_Layouter_07(t *testing.T) {
	p, cs := newLayouter(t, f2)
	// Region A uses X for 2 rows
	check_Region(t, p, "A", fill(2, a0), 0)
	// Region B follows A on X, but its last offset has no next row.
	_, err := AssignRegion(p, "B", func(region circuit.Region[Element]) (circuit.Cell, error) {
		if _, err := region.AssignAdvice("x", a0, 0, func() circuit.Value[Element] { return known(99) }); err != nil {
			return circuit.Cell{}, err
		}
		//
		return region.AssignAdvice("x", a0, math.MaxUint, func() circuit.Value[Element] { return known(99) })
	})
	assert.ErrorIs(t, err, ErrRowOverflow)
	assert.ErrorIs(t, err, ErrConsistency)
	// Nothing placed, and region A untouched.
	assert.Equal(t, uint(1), p.Regions())
	check_Cell(t, cs, a0, 0, 0)
	check_Cell(t, cs, a0, 1, 1)
	// Likewise for selectors.
	_, err = AssignRegion(p, "C", func(region circuit.Region[Element]) (circuit.Cell, error) {
		return circuit.Cell{}, region.EnableSelector("s", s0, math.MaxUint)
	})
	assert.ErrorIs(t, err, ErrRowOverflow)
}

func Test_Layouter_08(t *testing.T) {
	p, cs := newLayouter(t)
	// Region A uses X for 2 rows
	check_Region(t, p, "A", fill(2, a0), 0)
	// A region measured to end beyond the last representable row is not placed.
	_, err := AssignRegion(p, "B", func(region circuit.Region[Element]) (circuit.Cell, error) {
		return region.AssignAdvice("x", a0, math.MaxUint-1, func() circuit.Value[Element] { return known(99) })
	})
	assert.ErrorIs(t, err, ErrRowOverflow)
	assert.Equal(t, uint(1), p.Regions())
	assert.Equal(t, uint(2), p.Occupancy(circuit.ColumnKey(a0)))
	// Nor within a batch.
	_, err = AssignRegions(p, "batch", []func(circuit.Region[Element]) (circuit.Cell, error){
		fill(1, a1),
		func(region circuit.Region[Element]) (circuit.Cell, error) {
			return region.AssignAdvice("x", a0, math.MaxUint-1, func() circuit.Value[Element] { return known(99) })
		},
	})
	assert.ErrorIs(t, err, ErrRowOverflow)
	// Offsets are also checked when committing.
	region := newRegionLayouter[Element](cs, []circuit.RegionStart{2}, 0)
	_, err = region.AssignAdvice("x", a0, math.MaxUint-1, func() circuit.Value[Element] { return known(99) })
	assert.ErrorIs(t, err, ErrRowOverflow)
	_, err = region.AssignFixed("x", f0, math.MaxUint-1, func() circuit.Value[Element] { return known(99) })
	assert.ErrorIs(t, err, ErrRowOverflow)
	assert.ErrorIs(t, region.EnableSelector("s", s0, math.MaxUint-1), ErrRowOverflow)
	check_Cell(t, cs, a0, 1, 1)
}

// ===================================================================
// Helpers
// ===================================================================

func newAssignment() *trace.ArrayAssignment[Element] {
	return trace.NewArrayAssignment[Element](trace.Config{
		Rows: testRows, Advice: 3, Fixed: 3, Instance: 1, Selectors: 2,
	})
}

func newLayouter(t *testing.T, constants ...circuit.Column) (*Layouter[Element], *trace.ArrayAssignment[Element]) {
	cs := newAssignment()
	p, err := NewLayouter[Element](cs, constants)
	//
	require.NoError(t, err)
	//
	return p, cs
}

func known(val uint64) circuit.Value[Element] {
	return circuit.Known(field.Uint64[Element](val))
}

// Construct region logic which assigns the given columns over a given number of
// rows, where each cell holds its offset.
func fill(rows uint, columns ...circuit.Column) func(circuit.Region[Element]) (circuit.Cell, error) {
	return func(region circuit.Region[Element]) (circuit.Cell, error) {
		var (
			last circuit.Cell
			err  error
		)
		//
		for _, column := range columns {
			for offset := range rows {
				to := func() circuit.Value[Element] { return known(uint64(offset)) }
				//
				if column.Kind == circuit.FIXED {
					last, err = region.AssignFixed("fill", column, offset, to)
				} else {
					last, err = region.AssignAdvice("fill", column, offset, to)
				}
				//
				if err != nil {
					return last, err
				}
			}
		}
		//
		return last, nil
	}
}

func check_Region(t *testing.T, p *Layouter[Element], name string,
	fn func(circuit.Region[Element]) (circuit.Cell, error), start circuit.RegionStart) {
	index := circuit.RegionIndex(p.Regions())
	//
	_, err := AssignRegion(p, name, fn)
	require.NoError(t, err)
	assert.Equal(t, start, p.RegionStart(index), "start of region \"%s\"", name)
}

func check_Cell(t *testing.T, cs *trace.ArrayAssignment[Element], column circuit.Column, row uint,
	expected uint64) {
	v, err := cs.Get(column, row)
	//
	require.NoError(t, err)
	check_Value(t, v, expected)
}

func check_Value(t *testing.T, v circuit.Value[Element], expected uint64) {
	actual, ok := v.Get()
	//
	require.True(t, ok, "value is unknown")
	assert.True(t, field.Equal(actual, field.Uint64[Element](expected)), "expected %d, got %s", expected, actual)
}

func check_Unknown(t *testing.T, cs *trace.ArrayAssignment[Element], column circuit.Column, rows uint) {
	for row := range rows {
		v, err := cs.Get(column, row)
		//
		require.NoError(t, err)
		assert.False(t, v.IsKnown(), "%s row %d is assigned", column, row)
	}
}
