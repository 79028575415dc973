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
package trace

import (
	"errors"
	"fmt"
	"maps"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/util/collection/set"
	"github.com/consensys/go-floorplan/pkg/util/field"
)

var (
	// ErrOutOfBounds signals an access to a row outside of the assignment (or
	// sub-assignment).
	ErrOutOfBounds = errors.New("row out of bounds")
	// ErrUnknownColumn signals an access to a column which does not exist, or
	// is of the wrong kind for the operation.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrForkRange signals an attempt to fork an invalid range of rows.
	ErrForkRange = errors.New("invalid fork range")
	// ErrForeignSubAssignment signals an attempt to merge a sub-assignment not
	// forked from the assignment in question.
	ErrForeignSubAssignment = errors.New("sub-assignment not forked from this assignment")
)

// Config determines the dimensions of an assignment.
type Config struct {
	// Number of usable rows in every column.
	Rows uint
	// Number of advice columns.
	Advice uint
	// Number of fixed columns.
	Fixed uint
	// Number of instance columns.
	Instance uint
	// Number of selectors.
	Selectors uint
}

// Copy records an equality constraint between two cells, identified by their
// global rows.
type Copy struct {
	Left     circuit.Column
	LeftRow  uint
	Right    circuit.Column
	RightRow uint
}

func (p Copy) String() string {
	return fmt.Sprintf("%s[%d] == %s[%d]", p.Left, p.LeftRow, p.Right, p.RightRow)
}

// Region records diagnostic information about a region entered on an
// assignment.
type Region struct {
	// Fully qualified name of the region.
	Name string
	// Rows touched by the region, or nil if none.
	Rows *circuit.RowRange
	// Columns (and selectors) touched by the region.
	Columns set.AnySortedSet[circuit.RegionColumn]
	// Number of cells assigned by the region.
	Cells uint
}

// ArrayAssignment is an in-memory assignment holding every column as an array
// of values.  An assignment can be forked into sub-assignments over disjoint
// ranges of rows.  These share the underlying column arrays with their parent,
// but each can only write within its own range.  Hence, sub-assignments over
// disjoint ranges can be written concurrently.
type ArrayAssignment[F field.Element[F]] struct {
	config Config
	// Range of rows writable through this assignment.
	rows circuit.RowRange
	// Column data, restricted to the writable range.
	advice    [][]circuit.Value[F]
	fixed     [][]circuit.Value[F]
	selectors [][]bool
	// Instance data and challenges are shared, and never written.
	instance   [][]circuit.Value[F]
	challenges map[circuit.Challenge]F
	// Copy constraints recorded so far.
	copies []Copy
	// Regions entered so far, along with the current region (if any).
	regions []Region
	current int
	// Enclosing namespace
	namespace   Namespace
	annotations map[circuit.Column]string
	// Assignment from which this was forked, or nil.
	parent *ArrayAssignment[F]
}

// NewArrayAssignment constructs an assignment with the given dimensions.
// Instance columns are initially zero throughout.
func NewArrayAssignment[F field.Element[F]](config Config) *ArrayAssignment[F] {
	p := &ArrayAssignment[F]{
		config:      config,
		rows:        circuit.RowRange{Start: 0, End: config.Rows},
		advice:      make([][]circuit.Value[F], config.Advice),
		fixed:       make([][]circuit.Value[F], config.Fixed),
		selectors:   make([][]bool, config.Selectors),
		instance:    make([][]circuit.Value[F], config.Instance),
		challenges:  make(map[circuit.Challenge]F),
		current:     -1,
		annotations: make(map[circuit.Column]string),
	}
	//
	for i := range p.advice {
		p.advice[i] = make([]circuit.Value[F], config.Rows)
	}
	//
	for i := range p.fixed {
		p.fixed[i] = make([]circuit.Value[F], config.Rows)
	}
	//
	for i := range p.selectors {
		p.selectors[i] = make([]bool, config.Rows)
	}
	//
	for i := range p.instance {
		p.instance[i] = make([]circuit.Value[F], config.Rows)
		//
		for j := range p.instance[i] {
			p.instance[i][j] = circuit.Known(field.Zero[F]())
		}
	}
	//
	return p
}

// Config returns the dimensions of this assignment.
func (p *ArrayAssignment[F]) Config() Config {
	return p.config
}

// SetInstance sets the values of an instance column, starting from row 0.
// This should be done before any sub-assignments are forked.
func (p *ArrayAssignment[F]) SetInstance(column uint, values []F) error {
	if column >= uint(len(p.instance)) {
		return fmt.Errorf("%w (%s)", ErrUnknownColumn, circuit.InstanceColumn(column))
	} else if uint(len(values)) > p.config.Rows {
		return fmt.Errorf("%w (%d instance values for %d rows)", ErrOutOfBounds, len(values), p.config.Rows)
	}
	//
	for i, v := range values {
		p.instance[column][i] = circuit.Known(v)
	}
	//
	return nil
}

// SetChallenge sets the value of a given challenge.  This should be done
// before any sub-assignments are forked.
func (p *ArrayAssignment[F]) SetChallenge(challenge circuit.Challenge, value F) {
	p.challenges[challenge] = value
}

// EnterRegion implementation for the circuit.Assignment interface.
func (p *ArrayAssignment[F]) EnterRegion(name string) {
	p.regions = append(p.regions, Region{Name: p.namespace.Qualify(name)})
	p.current = len(p.regions) - 1
}

// ExitRegion implementation for the circuit.Assignment interface.
func (p *ArrayAssignment[F]) ExitRegion() {
	p.current = -1
}

// AssignAdvice implementation for the circuit.Assignment interface.
func (p *ArrayAssignment[F]) AssignAdvice(_ string, column circuit.Column, row uint,
	to func() circuit.Value[F]) (circuit.Value[F], error) {
	return p.assign(p.advice, circuit.ADVICE, column, row, to)
}

// AssignFixed implementation for the circuit.Assignment interface.
func (p *ArrayAssignment[F]) AssignFixed(_ string, column circuit.Column, row uint,
	to func() circuit.Value[F]) (circuit.Value[F], error) {
	return p.assign(p.fixed, circuit.FIXED, column, row, to)
}

func (p *ArrayAssignment[F]) assign(data [][]circuit.Value[F], kind circuit.ColumnKind, column circuit.Column,
	row uint, to func() circuit.Value[F]) (circuit.Value[F], error) {
	//
	if column.Kind != kind || column.Index >= uint(len(data)) {
		return circuit.Unknown[F](), fmt.Errorf("%w (%s)", ErrUnknownColumn, column)
	} else if !p.rows.Contains(row) {
		return circuit.Unknown[F](), fmt.Errorf("%w (%s row %d not in %s)", ErrOutOfBounds, column, row, p.rows)
	}
	//
	value := to()
	data[column.Index][row-p.rows.Start] = value
	p.track(circuit.ColumnKey(column), row)
	//
	return value, nil
}

// EnableSelector implementation for the circuit.Assignment interface.
func (p *ArrayAssignment[F]) EnableSelector(_ string, selector circuit.Selector, row uint) error {
	if selector.Index >= uint(len(p.selectors)) {
		return fmt.Errorf("%w (%s)", ErrUnknownColumn, selector)
	} else if !p.rows.Contains(row) {
		return fmt.Errorf("%w (%s row %d not in %s)", ErrOutOfBounds, selector, row, p.rows)
	}
	//
	p.selectors[selector.Index][row-p.rows.Start] = true
	p.track(circuit.SelectorKey(selector), row)
	//
	return nil
}

// Copy implementation for the circuit.Assignment interface.  Either cell may
// lie outside of the writable range of a sub-assignment.
func (p *ArrayAssignment[F]) Copy(left circuit.Column, leftRow uint, right circuit.Column, rightRow uint) error {
	if err := p.checkCell(left, leftRow); err != nil {
		return err
	} else if err := p.checkCell(right, rightRow); err != nil {
		return err
	}
	//
	p.copies = append(p.copies, Copy{left, leftRow, right, rightRow})
	//
	return nil
}

// QueryInstance implementation for the circuit.Assignment interface.
func (p *ArrayAssignment[F]) QueryInstance(column circuit.Column, row uint) (circuit.Value[F], error) {
	if column.Kind != circuit.INSTANCE {
		return circuit.Unknown[F](), fmt.Errorf("%w (%s)", ErrUnknownColumn, column)
	} else if err := p.checkCell(column, row); err != nil {
		return circuit.Unknown[F](), err
	}
	//
	return p.instance[column.Index][row], nil
}

// GetChallenge implementation for the circuit.Assignment interface.
func (p *ArrayAssignment[F]) GetChallenge(challenge circuit.Challenge) circuit.Value[F] {
	if value, ok := p.challenges[challenge]; ok {
		return circuit.Known(value)
	}
	//
	return circuit.Unknown[F]()
}

// FillFromRow implementation for the circuit.Assignment interface.  The
// column is filled up to the last usable row.
func (p *ArrayAssignment[F]) FillFromRow(column circuit.Column, row uint, value circuit.Value[F]) error {
	if column.Kind != circuit.FIXED || column.Index >= uint(len(p.fixed)) {
		return fmt.Errorf("%w (%s)", ErrUnknownColumn, column)
	} else if !p.rows.Contains(row) {
		return fmt.Errorf("%w (cannot fill %s from row %d, not in %s)", ErrOutOfBounds, column, row, p.rows)
	}
	//
	for r := row; r < p.rows.End; r++ {
		p.fixed[column.Index][r-p.rows.Start] = value
	}
	//
	return nil
}

// Fork implementation for the circuit.Assignment interface.  Ranges must lie
// within this assignment, and a sub-assignment cannot itself be forked.
func (p *ArrayAssignment[F]) Fork(ranges []circuit.RowRange) ([]circuit.Assignment[F], error) {
	if p.parent != nil {
		return nil, fmt.Errorf("%w (cannot fork a sub-assignment)", ErrForkRange)
	}
	//
	subs := make([]circuit.Assignment[F], len(ranges))
	//
	for i, r := range ranges {
		if r.Start > r.End || r.End > p.rows.End {
			return nil, fmt.Errorf("%w (%s)", ErrForkRange, r)
		}
		//
		subs[i] = p.fork(r)
	}
	//
	return subs, nil
}

func (p *ArrayAssignment[F]) fork(rows circuit.RowRange) *ArrayAssignment[F] {
	sub := &ArrayAssignment[F]{
		config:      p.config,
		rows:        rows,
		advice:      make([][]circuit.Value[F], len(p.advice)),
		fixed:       make([][]circuit.Value[F], len(p.fixed)),
		selectors:   make([][]bool, len(p.selectors)),
		instance:    p.instance,
		challenges:  p.challenges,
		namespace:   p.namespace,
		current:     -1,
		annotations: make(map[circuit.Column]string),
		parent:      p,
	}
	// Capacity is limited to prevent writes escaping the range.
	for i, col := range p.advice {
		sub.advice[i] = col[rows.Start:rows.End:rows.End]
	}
	//
	for i, col := range p.fixed {
		sub.fixed[i] = col[rows.Start:rows.End:rows.End]
	}
	//
	for i, col := range p.selectors {
		sub.selectors[i] = col[rows.Start:rows.End:rows.End]
	}
	//
	return sub
}

// Merge implementation for the circuit.Assignment interface.  Since forked
// sub-assignments write directly into the columns of their parent, merging
// only concatenates the copies, regions and annotations they recorded.
func (p *ArrayAssignment[F]) Merge(subs []circuit.Assignment[F]) error {
	for _, s := range subs {
		sub, ok := s.(*ArrayAssignment[F])
		if !ok || sub.parent != p {
			return ErrForeignSubAssignment
		}
		//
		p.copies = append(p.copies, sub.copies...)
		p.regions = append(p.regions, sub.regions...)
		maps.Copy(p.annotations, sub.annotations)
		// Prevent any further merging
		sub.parent = nil
	}
	//
	return nil
}

// PushNamespace implementation for the circuit.Assignment interface.
func (p *ArrayAssignment[F]) PushNamespace(name string) {
	p.namespace = p.namespace.Extend(name)
}

// PopNamespace implementation for the circuit.Assignment interface.
func (p *ArrayAssignment[F]) PopNamespace(string) {
	p.namespace = p.namespace.Parent()
}

// Namespace returns the namespace currently entered.
func (p *ArrayAssignment[F]) Namespace() Namespace {
	return p.namespace
}

// AnnotateColumn implementation for the circuit.Assignment interface.
func (p *ArrayAssignment[F]) AnnotateColumn(name string, column circuit.Column) {
	p.annotations[column] = name
}

// Annotation returns the name given to a column, or "" if it has none.
func (p *ArrayAssignment[F]) Annotation(column circuit.Column) string {
	return p.annotations[column]
}

// Get returns the value of a given cell, which is unknown if the cell has not
// been assigned.
func (p *ArrayAssignment[F]) Get(column circuit.Column, row uint) (circuit.Value[F], error) {
	if err := p.checkCell(column, row); err != nil {
		return circuit.Unknown[F](), err
	} else if column.Kind != circuit.INSTANCE && !p.rows.Contains(row) {
		return circuit.Unknown[F](), fmt.Errorf("%w (%s row %d not in %s)", ErrOutOfBounds, column, row, p.rows)
	}
	//
	switch column.Kind {
	case circuit.ADVICE:
		return p.advice[column.Index][row-p.rows.Start], nil
	case circuit.FIXED:
		return p.fixed[column.Index][row-p.rows.Start], nil
	default:
		return p.instance[column.Index][row], nil
	}
}

// Selector determines whether a given selector is enabled on a given row.
func (p *ArrayAssignment[F]) Selector(selector circuit.Selector, row uint) bool {
	if selector.Index >= uint(len(p.selectors)) || !p.rows.Contains(row) {
		return false
	}
	//
	return p.selectors[selector.Index][row-p.rows.Start]
}

// Copies returns the copy constraints recorded so far.
func (p *ArrayAssignment[F]) Copies() []Copy {
	return p.copies
}

// Regions returns the regions entered so far.
func (p *ArrayAssignment[F]) Regions() []Region {
	return p.regions
}

// Check a cell exists.  Advice and fixed cells outside the writable range of a
// sub-assignment are considered to exist, though they cannot be read.
func (p *ArrayAssignment[F]) checkCell(column circuit.Column, row uint) error {
	var n uint
	//
	switch column.Kind {
	case circuit.ADVICE:
		n = uint(len(p.advice))
	case circuit.FIXED:
		n = uint(len(p.fixed))
	case circuit.INSTANCE:
		n = uint(len(p.instance))
	}
	//
	if column.Index >= n {
		return fmt.Errorf("%w (%s)", ErrUnknownColumn, column)
	} else if row >= p.config.Rows {
		return fmt.Errorf("%w (%s row %d)", ErrOutOfBounds, column, row)
	}
	//
	return nil
}

// Record a write within the current region (if any).
func (p *ArrayAssignment[F]) track(key circuit.RegionColumn, row uint) {
	if p.current < 0 {
		return
	}
	//
	region := &p.regions[p.current]
	//
	if region.Rows == nil {
		region.Rows = &circuit.RowRange{Start: row, End: row + 1}
	} else {
		region.Rows.Start = min(region.Rows.Start, row)
		region.Rows.End = max(region.Rows.End, row+1)
	}
	//
	region.Columns.Insert(key)
	region.Cells++
}
