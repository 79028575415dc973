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
package json

import (
	"fmt"
	"strings"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/trace"
	"github.com/consensys/go-floorplan/pkg/util/field"
)

// ToJsonString converts an assignment into a JSON string, mapping each column
// to its array of values.  Columns are named by their annotation, if they have
// one.  Unassigned cells are written as null, and selectors as 0 or 1.
func ToJsonString[F field.Element[F]](assignment *trace.ArrayAssignment[F]) string {
	var (
		builder strings.Builder
		config  = assignment.Config()
		first   = true
	)
	//
	builder.WriteString("{")
	//
	writeColumn := func(column circuit.Column) {
		if !first {
			builder.WriteString(", ")
		}
		//
		first = false
		//
		builder.WriteString("\"")
		builder.WriteString(columnName(assignment, column))
		builder.WriteString("\": [")
		//
		for row := uint(0); row < config.Rows; row++ {
			if row != 0 {
				builder.WriteString(", ")
			}
			// NOTE: cannot fail, since row and column are in bounds.
			value, _ := assignment.Get(column, row)
			//
			if v, ok := value.Get(); ok {
				builder.WriteString(v.String())
			} else {
				builder.WriteString("null")
			}
		}
		//
		builder.WriteString("]")
	}
	//
	for i := uint(0); i < config.Advice; i++ {
		writeColumn(circuit.AdviceColumn(i))
	}
	//
	for i := uint(0); i < config.Fixed; i++ {
		writeColumn(circuit.FixedColumn(i))
	}
	//
	for i := uint(0); i < config.Instance; i++ {
		writeColumn(circuit.InstanceColumn(i))
	}
	//
	for i := uint(0); i < config.Selectors; i++ {
		selector := circuit.Selector{Index: i}
		//
		if !first {
			builder.WriteString(", ")
		}
		//
		first = false
		//
		fmt.Fprintf(&builder, "\"%s\": [", selector)
		//
		for row := uint(0); row < config.Rows; row++ {
			if row != 0 {
				builder.WriteString(", ")
			}
			//
			if assignment.Selector(selector, row) {
				builder.WriteString("1")
			} else {
				builder.WriteString("0")
			}
		}
		//
		builder.WriteString("]")
	}
	//
	builder.WriteString("}")
	// Done
	return builder.String()
}

func columnName[F field.Element[F]](assignment *trace.ArrayAssignment[F], column circuit.Column) string {
	if name := assignment.Annotation(column); name != "" {
		return name
	}
	//
	return column.String()
}
