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
package blueprint

import (
	"fmt"
	"maps"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/layout"
	"github.com/consensys/go-floorplan/pkg/trace"
	"github.com/consensys/go-floorplan/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// Labels maps the label of each cell to the cell itself.
type Labels = map[string]circuit.Cell

// Config returns the dimensions of an assignment suitable for this blueprint.
func (p *Blueprint) Config() trace.Config {
	return trace.Config{
		Rows:      p.Rows,
		Advice:    p.Columns.Advice,
		Fixed:     p.Columns.Fixed,
		Instance:  p.Columns.Instance,
		Selectors: p.Columns.Selectors,
	}
}

// ConstantColumns returns the columns available for constants.
func (p *Blueprint) ConstantColumns() ([]circuit.Column, error) {
	columns := make([]circuit.Column, len(p.Constants))
	//
	for i, c := range p.Constants {
		column, err := ParseColumn(c)
		if err != nil {
			return nil, err
		}
		//
		columns[i] = column
	}
	//
	return columns, nil
}

// NewAssignment constructs an empty assignment for this blueprint, with its
// instance columns populated.
func NewAssignment[F field.Element[F]](bp *Blueprint) (*trace.ArrayAssignment[F], error) {
	cs := trace.NewArrayAssignment[F](bp.Config())
	//
	for i, values := range bp.Instance {
		elements, err := parseValues[F](values)
		if err != nil {
			return nil, err
		} else if err = cs.SetInstance(uint(i), elements); err != nil {
			return nil, err
		}
	}
	//
	return cs, nil
}

// Synthesize lays out every step of a blueprint using a given layouter.  When
// parallel is set, batch steps are assigned concurrently, otherwise their
// regions are laid out one at a time (resulting in the same layout).  The
// labelled cells of every region are returned.
func Synthesize[F field.Element[F]](bp *Blueprint, p *layout.Layouter[F], parallel bool) (Labels, error) {
	steps, err := compile[F](bp)
	if err != nil {
		return nil, err
	}
	//
	labels := make(Labels)
	//
	for _, step := range steps {
		var err error
		//
		switch {
		case step.table != nil:
			err = p.AssignTable(step.table.name, step.table.assign)
		case step.batch == nil:
			err = synthesizeRegion(p, step.region, labels)
		case parallel:
			err = synthesizeBatch(p, step.name, step.batch, labels)
		default:
			for i, region := range step.batch {
				region.name = layout.BatchRegionName(step.name, i)
				//
				if err = synthesizeRegion(p, region, labels); err != nil {
					break
				}
			}
		}
		//
		if err != nil {
			return labels, err
		}
	}
	//
	log.Debugf("synthesized %d step(s) with %d labelled cell(s)", len(steps), len(labels))
	//
	return labels, nil
}

func synthesizeRegion[F field.Element[F]](p *layout.Layouter[F], region *regionLogic[F], labels Labels) error {
	if region.namespace != "" {
		p.PushNamespace(region.namespace)
		defer p.PopNamespace(region.namespace)
	}
	//
	local, err := layout.AssignRegion(p, region.name, region.assign(labels))
	if err != nil {
		return err
	}
	//
	maps.Copy(labels, local)
	//
	return nil
}

// Labels are only read whilst the batch is being assigned.
func synthesizeBatch[F field.Element[F]](p *layout.Layouter[F], name string, batch []*regionLogic[F],
	labels Labels) error {
	assignments := make([]func(circuit.Region[F]) (Labels, error), len(batch))
	//
	for i, region := range batch {
		assignments[i] = region.assign(labels)
	}
	//
	results, err := layout.AssignRegions(p, name, assignments)
	if err != nil {
		return err
	}
	//
	for _, local := range results {
		maps.Copy(labels, local)
	}
	//
	return nil
}

// ============================================================================
// Compiled logic
// ============================================================================

type stepLogic[F field.Element[F]] struct {
	// Name of the step (for batches)
	name   string
	region *regionLogic[F]
	batch  []*regionLogic[F]
	table  *tableLogic[F]
}

type cellKind uint8

const (
	adviceCell cellKind = iota
	fixedCell
	constantCell
	instanceCell
)

type cellLogic[F field.Element[F]] struct {
	kind   cellKind
	label  string
	column circuit.Column
	row    uint
	// Value of the cell, if known.
	value circuit.Value[F]
	// Instance cell being copied (for instance cells).
	instance    circuit.Column
	instanceRow uint
}

type regionLogic[F field.Element[F]] struct {
	name        string
	namespace   string
	annotations map[circuit.Column]string
	cells       []cellLogic[F]
	selectors   []SelectorUse
	equalities  []Equality
	constants   []constantLogic[F]
}

type constantLogic[F field.Element[F]] struct {
	label string
	value F
}

type tableLogic[F field.Element[F]] struct {
	name    string
	columns []circuit.TableColumn
	values  [][]F
}

// Construct the logic of a region.  The logic only reads the given labels, and
// returns those cells of the region which are labelled.
func (p *regionLogic[F]) assign(labels Labels) func(circuit.Region[F]) (Labels, error) {
	return func(region circuit.Region[F]) (Labels, error) {
		local := make(Labels)
		//
		for column, name := range p.annotations {
			region.NameColumn(name, column)
		}
		//
		for _, c := range p.cells {
			var (
				cell  circuit.Cell
				err   error
				value = c.value
			)
			//
			switch c.kind {
			case adviceCell:
				cell, err = region.AssignAdvice(c.label, c.column, c.row, func() circuit.Value[F] { return value })
			case fixedCell:
				cell, err = region.AssignFixed(c.label, c.column, c.row, func() circuit.Value[F] { return value })
			case constantCell:
				constant, _ := value.Get()
				cell, err = region.AssignAdviceFromConstant(c.label, c.column, c.row, constant)
			case instanceCell:
				cell, _, err = region.AssignAdviceFromInstance(c.label, c.instance, c.instanceRow, c.column, c.row)
			}
			//
			if err != nil {
				return nil, err
			} else if c.label != "" {
				local[c.label] = cell
			}
		}
		//
		for _, s := range p.selectors {
			if err := region.EnableSelector("selector", circuit.Selector{Index: s.Selector}, s.Row); err != nil {
				return nil, err
			}
		}
		//
		for _, eq := range p.equalities {
			left, err := lookup(eq.Left, local, labels)
			if err != nil {
				return nil, err
			}
			//
			right, err := lookup(eq.Right, local, labels)
			if err != nil {
				return nil, err
			} else if err = region.ConstrainEqual(left, right); err != nil {
				return nil, err
			}
		}
		//
		for _, c := range p.constants {
			cell, err := lookup(c.label, local, labels)
			if err != nil {
				return nil, err
			} else if err = region.ConstrainConstant(cell, c.value); err != nil {
				return nil, err
			}
		}
		//
		return local, nil
	}
}

func (p *tableLogic[F]) assign(table circuit.Table[F]) error {
	for i, column := range p.columns {
		for row, value := range p.values[i] {
			if err := table.AssignCell(p.name, column, uint(row), func() circuit.Value[F] {
				return circuit.Known(value)
			}); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

func lookup(label string, local Labels, global Labels) (circuit.Cell, error) {
	if cell, ok := local[label]; ok {
		return cell, nil
	} else if cell, ok := global[label]; ok {
		return cell, nil
	}
	//
	return circuit.Cell{}, fmt.Errorf("%w: unknown label \"%s\"", ErrInvalidBlueprint, label)
}

// ============================================================================
// Compilation
// ============================================================================

// Compile a blueprint, parsing all columns and values and checking every label
// is declared exactly once, before it is used.
func compile[F field.Element[F]](bp *Blueprint) ([]stepLogic[F], error) {
	var (
		steps    = make([]stepLogic[F], len(bp.Steps))
		declared = make(map[string]bool)
		err      error
	)
	//
	for i, step := range bp.Steps {
		switch {
		case step.Region != nil:
			steps[i].region, err = compileRegion[F](bp, step.Region, declared, declared)
		case step.Batch != nil:
			steps[i].name = step.Batch.Name
			steps[i].batch, err = compileBatch[F](bp, step.Batch, declared)
		default:
			steps[i].table, err = compileTable[F](bp, step.Table)
		}
		//
		if err != nil {
			return nil, err
		}
	}
	//
	return steps, nil
}

// Regions of a batch can only refer to cells of earlier steps, or their own.
func compileBatch[F field.Element[F]](bp *Blueprint, batch *Batch, declared map[string]bool) ([]*regionLogic[F],
	error) {
	var (
		regions = make([]*regionLogic[F], len(batch.Regions))
		earlier = maps.Clone(declared)
		err     error
	)
	//
	for i := range batch.Regions {
		visible := maps.Clone(earlier)
		//
		if regions[i], err = compileRegion[F](bp, &batch.Regions[i], visible, declared); err != nil {
			return nil, err
		}
	}
	//
	return regions, nil
}

// Compile a region, where visible holds the labels which the region can refer
// to, and declared holds all labels declared so far.  Labels of the region are
// added to both.
func compileRegion[F field.Element[F]](bp *Blueprint, region *Region, visible map[string]bool,
	declared map[string]bool) (*regionLogic[F], error) {
	logic := &regionLogic[F]{
		name:        region.Name,
		namespace:   region.Namespace,
		annotations: make(map[circuit.Column]string),
		selectors:   region.Selectors,
		equalities:  region.Equalities,
	}
	//
	for c, name := range region.Annotations {
		column, err := ParseColumn(c)
		if err != nil {
			return nil, err
		}
		//
		logic.annotations[column] = name
	}
	//
	for _, c := range region.Cells {
		cell, err := compileCell[F](bp, c)
		if err != nil {
			return nil, fmt.Errorf("region \"%s\": %w", region.Name, err)
		} else if c.Label != "" && declared[c.Label] {
			return nil, fmt.Errorf("%w: label \"%s\" declared twice", ErrInvalidBlueprint, c.Label)
		} else if c.Label != "" {
			declared[c.Label], visible[c.Label] = true, true
		}
		//
		logic.cells = append(logic.cells, cell)
	}
	//
	for _, s := range region.Selectors {
		if s.Selector >= bp.Columns.Selectors {
			return nil, fmt.Errorf("%w: unknown selector %d in region \"%s\"", ErrInvalidBlueprint, s.Selector,
				region.Name)
		}
	}
	//
	for _, eq := range region.Equalities {
		if !visible[eq.Left] || !visible[eq.Right] {
			return nil, fmt.Errorf("%w: equality %s == %s in region \"%s\" refers to unknown label",
				ErrInvalidBlueprint, eq.Left, eq.Right, region.Name)
		}
	}
	//
	for _, c := range region.Constants {
		value, err := field.Parse[F](c.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBlueprint, err)
		} else if !visible[c.Cell] {
			return nil, fmt.Errorf("%w: constant in region \"%s\" refers to unknown label \"%s\"",
				ErrInvalidBlueprint, region.Name, c.Cell)
		}
		//
		logic.constants = append(logic.constants, constantLogic[F]{c.Cell, value})
	}
	//
	return logic, nil
}

func compileCell[F field.Element[F]](bp *Blueprint, c Cell) (cellLogic[F], error) {
	var (
		cell = cellLogic[F]{label: c.Label, row: c.Row, value: circuit.Unknown[F]()}
		err  error
	)
	//
	if cell.column, err = ParseColumn(c.Column); err != nil {
		return cell, err
	} else if err = checkColumn(bp, cell.column); err != nil {
		return cell, err
	}
	//
	switch {
	case c.Value != nil && c.Constant == nil && c.Instance == nil:
		var value F
		//
		if value, err = field.Parse[F](*c.Value); err != nil {
			return cell, fmt.Errorf("%w: %w", ErrInvalidBlueprint, err)
		}
		//
		cell.value = circuit.Known(value)
	case c.Value == nil && c.Constant != nil && c.Instance == nil:
		var value F
		//
		if value, err = field.Parse[F](*c.Constant); err != nil {
			return cell, fmt.Errorf("%w: %w", ErrInvalidBlueprint, err)
		}
		//
		cell.kind, cell.value = constantCell, circuit.Known(value)
	case c.Value == nil && c.Constant == nil && c.Instance != nil:
		cell.kind = instanceCell
		cell.instance, cell.instanceRow = circuit.InstanceColumn(c.Instance.Column), c.Instance.Row
		//
		if err = checkColumn(bp, cell.instance); err != nil {
			return cell, err
		}
	case c.Value != nil || c.Constant != nil || c.Instance != nil:
		return cell, fmt.Errorf("%w: cell %s has more than one source", ErrInvalidBlueprint, c.Column)
	}
	// Check source is compatible with column
	switch {
	case cell.column.Kind == circuit.INSTANCE:
		return cell, fmt.Errorf("%w: cannot assign %s", ErrInvalidBlueprint, cell.column)
	case cell.column.Kind == circuit.FIXED && cell.kind != adviceCell:
		return cell, fmt.Errorf("%w: %s must be given a value", ErrInvalidBlueprint, cell.column)
	case cell.column.Kind == circuit.FIXED:
		cell.kind = fixedCell
	}
	//
	return cell, nil
}

func compileTable[F field.Element[F]](bp *Blueprint, table *Table) (*tableLogic[F], error) {
	logic := &tableLogic[F]{name: table.Name}
	//
	for _, c := range table.Columns {
		column := circuit.NewTableColumn(c.Column)
		//
		if err := checkColumn(bp, column.Inner()); err != nil {
			return nil, err
		}
		//
		values, err := parseValues[F](c.Values)
		if err != nil {
			return nil, err
		}
		//
		logic.columns = append(logic.columns, column)
		logic.values = append(logic.values, values)
	}
	//
	return logic, nil
}

func checkColumn(bp *Blueprint, column circuit.Column) error {
	var n uint
	//
	switch column.Kind {
	case circuit.ADVICE:
		n = bp.Columns.Advice
	case circuit.FIXED:
		n = bp.Columns.Fixed
	default:
		n = bp.Columns.Instance
	}
	//
	if column.Index >= n {
		return fmt.Errorf("%w: undeclared column %s", ErrInvalidBlueprint, column)
	}
	//
	return nil
}

func parseValues[F field.Element[F]](values []string) ([]F, error) {
	elements := make([]F, len(values))
	//
	for i, v := range values {
		element, err := field.Parse[F](v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBlueprint, err)
		}
		//
		elements[i] = element
	}
	//
	return elements, nil
}
