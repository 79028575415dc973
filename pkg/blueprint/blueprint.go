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
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"gopkg.in/yaml.v3"
)

// ErrInvalidBlueprint signals a blueprint which is malformed, or inconsistent
// with its own declarations.
var ErrInvalidBlueprint = errors.New("invalid blueprint")

// Blueprint is a declarative description of a circuit's regions and tables,
// which can be laid out without writing any circuit logic.  Steps are laid out
// in the order given.
type Blueprint struct {
	// Name of the circuit.
	Name string `yaml:"name"`
	// Number of usable rows.
	Rows uint `yaml:"rows"`
	// Number of columns of each kind.
	Columns Columns `yaml:"columns"`
	// Fixed columns available for constants (e.g. "fixed:2").
	Constants []string `yaml:"constants,omitempty"`
	// Values of each instance column, starting from row 0.
	Instance [][]string `yaml:"instance,omitempty"`
	// Steps to lay out.
	Steps []Step `yaml:"steps"`
}

// Columns gives the number of columns of each kind.
type Columns struct {
	Advice    uint `yaml:"advice"`
	Fixed     uint `yaml:"fixed"`
	Instance  uint `yaml:"instance"`
	Selectors uint `yaml:"selectors"`
}

// Step is exactly one of a region, a batch of regions, or a table.
type Step struct {
	Region *Region `yaml:"region,omitempty"`
	Batch  *Batch  `yaml:"batch,omitempty"`
	Table  *Table  `yaml:"table,omitempty"`
}

// Region describes the cells of a region, and the constraints between them.
type Region struct {
	Name string `yaml:"name"`
	// Optional namespace enclosing the region.
	Namespace string `yaml:"namespace,omitempty"`
	// Diagnostic column names, keyed by column (e.g. "advice:0").
	Annotations map[string]string `yaml:"annotations,omitempty"`
	Cells       []Cell            `yaml:"cells"`
	Selectors   []SelectorUse     `yaml:"selectors,omitempty"`
	// Equalities between labelled cells, which may belong to earlier steps.
	Equalities []Equality `yaml:"equalities,omitempty"`
	// Labelled cells constrained to equal constants.
	Constants []ConstantUse `yaml:"constants,omitempty"`
}

// Cell describes a single cell assigned by a region.  At most one of Value,
// Constant or Instance can be given.  An advice cell with none is assigned an
// unknown value.
type Cell struct {
	// Label by which other cells can refer to this one.  Labels are global to
	// the blueprint.
	Label  string `yaml:"label,omitempty"`
	Column string `yaml:"column"`
	// Offset within the region.
	Row      uint         `yaml:"row"`
	Value    *string      `yaml:"value,omitempty"`
	Constant *string      `yaml:"constant,omitempty"`
	Instance *InstanceRef `yaml:"instance,omitempty"`
}

// InstanceRef identifies an instance cell.
type InstanceRef struct {
	Column uint `yaml:"column"`
	Row    uint `yaml:"row"`
}

// SelectorUse enables a selector at a given offset.
type SelectorUse struct {
	Selector uint `yaml:"selector"`
	Row      uint `yaml:"row"`
}

// Equality between two labelled cells.
type Equality struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// ConstantUse constrains a labelled cell to equal a constant.
type ConstantUse struct {
	Cell  string `yaml:"cell"`
	Value string `yaml:"value"`
}

// Batch is a sequence of regions which can be assigned in parallel.  Regions
// within a batch cannot refer to each others' cells.
type Batch struct {
	Name    string   `yaml:"name"`
	Regions []Region `yaml:"regions"`
}

// Table describes a lookup table.
type Table struct {
	Name    string        `yaml:"name"`
	Columns []TableValues `yaml:"columns"`
}

// TableValues gives the values of a single table column, starting from row 0.
type TableValues struct {
	// Index of the fixed column.
	Column uint     `yaml:"column"`
	Values []string `yaml:"values"`
}

// Read parses a blueprint from a given file.
func Read(filename string) (*Blueprint, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	return Parse(data)
}

// Parse a blueprint from its YAML encoding.  Unknown fields are rejected.
func Parse(data []byte) (*Blueprint, error) {
	var bp Blueprint
	//
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	//
	if err := decoder.Decode(&bp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBlueprint, err)
	}
	//
	if err := bp.validate(); err != nil {
		return nil, err
	}
	//
	return &bp, nil
}

// ParseColumn parses a column written as "<kind>:<index>", where kind is one
// of "advice", "fixed" or "instance".
func ParseColumn(text string) (circuit.Column, error) {
	kind, index, ok := strings.Cut(text, ":")
	if !ok {
		return circuit.Column{}, fmt.Errorf("%w: malformed column \"%s\"", ErrInvalidBlueprint, text)
	}
	//
	n, err := strconv.ParseUint(index, 10, 0)
	if err != nil {
		return circuit.Column{}, fmt.Errorf("%w: malformed column index \"%s\"", ErrInvalidBlueprint, text)
	}
	//
	switch kind {
	case "advice":
		return circuit.AdviceColumn(uint(n)), nil
	case "fixed":
		return circuit.FixedColumn(uint(n)), nil
	case "instance":
		return circuit.InstanceColumn(uint(n)), nil
	}
	//
	return circuit.Column{}, fmt.Errorf("%w: unknown column kind \"%s\"", ErrInvalidBlueprint, kind)
}

// Check the structure of a blueprint.  Values and columns are checked when it
// is compiled.
func (p *Blueprint) validate() error {
	if p.Rows == 0 {
		return fmt.Errorf("%w: rows must be positive", ErrInvalidBlueprint)
	} else if uint(len(p.Instance)) > p.Columns.Instance {
		return fmt.Errorf("%w: values given for %d instance columns (declared %d)", ErrInvalidBlueprint,
			len(p.Instance), p.Columns.Instance)
	}
	//
	for i, step := range p.Steps {
		count := 0
		//
		if step.Region != nil {
			count++
		}
		//
		if step.Batch != nil {
			count++
		}
		//
		if step.Table != nil {
			count++
		}
		//
		if count != 1 {
			return fmt.Errorf("%w: step %d must be exactly one of region, batch or table", ErrInvalidBlueprint, i)
		}
	}
	//
	return nil
}
