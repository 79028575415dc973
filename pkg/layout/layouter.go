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
	"slices"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/util"
	"github.com/consensys/go-floorplan/pkg/util/collection/set"
	"github.com/consensys/go-floorplan/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// Layouter lays out the regions and tables of a circuit within a single chip.
// Regions are placed in the order they are given, each at the earliest row at
// which none of the columns it uses are occupied.  No attempt is made to
// reorder regions for a better packing, so the resulting layout closely
// reflects the structure of the circuit.
//
// A layouter is not safe for concurrent use.  Its only internal concurrency is
// within AssignRegions, which commits a batch of already placed regions in
// parallel.
type Layouter[F field.Element[F]] struct {
	cs circuit.Assignment[F]
	// Fixed columns available for constants.  Only the first is used.
	constants []circuit.Column
	// Starting row for each region, indexed by region.
	regions []circuit.RegionStart
	// Name of each region, indexed by region.
	names []string
	// Number of rows spanned by each region, indexed by region.
	heights []uint
	// First unused row of each column.
	columns map[circuit.RegionColumn]uint
	// Columns used by completed tables.
	tableColumns set.AnySortedSet[circuit.TableColumn]
	// Next row for a constant in the constants column.
	nextConstantRow uint
}

// NewLayouter constructs a layouter over a given assignment, using the given
// fixed columns (if any) to hold constants.
func NewLayouter[F field.Element[F]](cs circuit.Assignment[F], constants []circuit.Column) (*Layouter[F], error) {
	for _, c := range constants {
		if c.Kind != circuit.FIXED {
			return nil, fmt.Errorf("%w: constants column %s is not fixed", ErrConfiguration, c)
		}
	}
	//
	return &Layouter[F]{
		cs:        cs,
		constants: slices.Clone(constants),
		columns:   make(map[circuit.RegionColumn]uint),
	}, nil
}

// AssignRegion lays out a region.  The region logic is run twice: first to
// measure the region, and then to assign it at its chosen position.  Constants
// requested by the region are materialised once it is complete.  The result of
// the second run is returned.
func AssignRegion[F field.Element[F], R any](p *Layouter[F], name string,
	assignment func(circuit.Region[F]) (R, error)) (R, error) {
	var (
		result R
		err    error
		index  = circuit.RegionIndex(len(p.regions))
		shape  = NewRegionShape[F](index)
		stats  = util.NewPerfStats()
	)
	// Determine shape of the region
	if _, err = assignment(circuit.NewRegion[F](shape)); err != nil {
		return result, err
	}
	//
	stats.Log(fmt.Sprintf("region \"%s\" 1st pass", name))
	// Lay out this region
	if _, err = p.place(name, shape); err != nil {
		return result, err
	}
	// Assign region cells
	stats = util.NewPerfStats()
	region := newRegionLayouter(p.cs, p.regions, index)
	//
	p.cs.EnterRegion(name)
	//
	if result, err = assignment(circuit.NewRegion[F](region)); err != nil {
		return result, err
	}
	//
	p.cs.ExitRegion()
	stats.Log(fmt.Sprintf("region \"%s\" 2nd pass", name))
	// Assign constants.
	return result, p.assignConstants(region.constants)
}

// Position a measured region at the earliest row where none of its columns are
// in use, recording its start and marking its columns as occupied.  A region
// whose last row cannot be represented is not placed.
func (p *Layouter[F]) place(name string, shape *RegionShape[F]) (circuit.RegionStart, error) {
	var start uint
	//
	for _, column := range shape.Columns() {
		columnStart := p.columns[column]
		//
		if columnStart != 0 {
			log.Tracef("column %s reused between regions, start %d, region \"%s\"", column, columnStart, name)
		}
		//
		start = max(start, columnStart)
	}
	//
	if shape.RowCount() > math.MaxUint-start {
		return 0, fmt.Errorf("%w (region \"%s\" spans %d rows from row %d)", ErrRowOverflow, name,
			shape.RowCount(), start)
	}
	//
	log.Debugf("region \"%s\" (#%d) starts at row %d, spanning %d rows", name, len(p.regions), start,
		shape.RowCount())
	//
	p.regions = append(p.regions, circuit.RegionStart(start))
	p.names = append(p.names, name)
	p.heights = append(p.heights, shape.RowCount())
	// Update column usage information.
	for _, column := range shape.Columns() {
		p.columns[column] = start + shape.RowCount()
	}
	//
	return circuit.RegionStart(start), nil
}

// AssignTable lays out a lookup table.  Every column used by the table must be
// assigned the same number of rows, without gaps, starting from row 0.  The
// remainder of each column is then filled with the value at its row 0, right
// up to the last usable row of the assignment.  Hence, there is no separate
// minimum table length: every table is padded to the full height.  Columns
// used by a table cannot be used by any later table.
func (p *Layouter[F]) AssignTable(name string, assignment func(circuit.Table[F]) error) error {
	table := newTableLayouter(p.cs, &p.tableColumns)
	//
	p.cs.EnterRegion(name)
	//
	if err := assignment(circuit.NewTable[F](table)); err != nil {
		return err
	}
	//
	p.cs.ExitRegion()
	// Check that all table columns have the same length, and all cells up to
	// that length are assigned.
	length, err := table.Length()
	if err != nil {
		return fmt.Errorf("table \"%s\": %w", name, err)
	}
	//
	columns := table.Columns()
	// Record these columns so they cannot be used again.
	for _, column := range columns {
		p.tableColumns.Insert(column)
	}
	// Fill out the remainder of each column with its default.
	for _, column := range columns {
		if err := p.cs.FillFromRow(column.Inner(), length, *table.columns[column].defaultValue); err != nil {
			return err
		}
	}
	//
	log.Debugf("table \"%s\" spans %d rows over %d column(s)", name, length, len(columns))
	//
	return nil
}

// ConstrainInstance constrains a cell (from any region laid out so far) to
// equal a given instance cell.
func (p *Layouter[F]) ConstrainInstance(cell circuit.Cell, instance circuit.Column, row uint) error {
	target, err := resolveRow(p.regions, cell)
	if err != nil {
		return err
	}
	//
	return p.cs.Copy(cell.Column, target, instance, row)
}

// GetChallenge returns the value of a given challenge, if available.
func (p *Layouter[F]) GetChallenge(challenge circuit.Challenge) circuit.Value[F] {
	return p.cs.GetChallenge(challenge)
}

// PushNamespace enters a (diagnostic) namespace.
func (p *Layouter[F]) PushNamespace(name string) {
	p.cs.PushNamespace(name)
}

// PopNamespace exits the current (diagnostic) namespace.
func (p *Layouter[F]) PopNamespace(gadget string) {
	p.cs.PopNamespace(gadget)
}

// Regions returns the number of regions laid out so far.
func (p *Layouter[F]) Regions() uint {
	return uint(len(p.regions))
}

// RegionStart returns the starting row of a given region.
func (p *Layouter[F]) RegionStart(index circuit.RegionIndex) circuit.RegionStart {
	return p.regions[index]
}

// RegionStarts returns the starting row of every region laid out so far,
// indexed by region.
func (p *Layouter[F]) RegionStarts() []circuit.RegionStart {
	return slices.Clone(p.regions)
}

// RegionName returns the name of a given region.
func (p *Layouter[F]) RegionName(index circuit.RegionIndex) string {
	return p.names[index]
}

// RegionHeight returns the number of rows spanned by a given region.
func (p *Layouter[F]) RegionHeight(index circuit.RegionIndex) uint {
	return p.heights[index]
}

// GlobalRow resolves the global row of a cell.
func (p *Layouter[F]) GlobalRow(cell circuit.Cell) (uint, error) {
	return resolveRow(p.regions, cell)
}

// Occupancy returns the first unused row of a given column (or selector).
func (p *Layouter[F]) Occupancy(column circuit.RegionColumn) uint {
	return p.columns[column]
}

// OccupiedColumns returns every column (or selector) used so far, in sorted
// order.
func (p *Layouter[F]) OccupiedColumns() []circuit.RegionColumn {
	var columns set.AnySortedSet[circuit.RegionColumn]
	//
	for c := range p.columns {
		columns.Insert(c)
	}
	//
	return columns.ToArray()
}

// NextConstantRow returns the row of the constants column at which the next
// constant will be placed.
func (p *Layouter[F]) NextConstantRow() uint {
	if len(p.constants) == 0 {
		return p.nextConstantRow
	}
	//
	return max(p.nextConstantRow, p.columns[circuit.ColumnKey(p.constants[0])])
}

// TableColumns returns the columns used by completed tables, in sorted order.
func (p *Layouter[F]) TableColumns() []circuit.TableColumn {
	return slices.Clone(p.tableColumns.ToArray())
}
