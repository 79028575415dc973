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
	"testing"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/trace"
	"github.com/consensys/go-floorplan/pkg/util/field"
	"github.com/consensys/go-floorplan/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_JsonWriter_00(t *testing.T) {
	cs := trace.NewArrayAssignment[bn254.Element](trace.Config{Rows: 3, Advice: 1, Fixed: 1, Selectors: 1})
	//
	_, err := cs.AssignAdvice("x", circuit.AdviceColumn(0), 1, func() circuit.Value[bn254.Element] {
		return circuit.Known(field.Uint64[bn254.Element](5))
	})
	require.NoError(t, err)
	require.NoError(t, cs.EnableSelector("s", circuit.Selector{Index: 0}, 2))
	cs.AnnotateColumn("q", circuit.FixedColumn(0))
	//
	expected := "{\"advice:0\": [null, 5, null], \"q\": [null, null, null], \"selector:0\": [0, 0, 1]}"
	assert.Equal(t, expected, ToJsonString(cs))
}
