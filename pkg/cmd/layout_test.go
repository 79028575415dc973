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
	"bytes"
	"testing"

	"github.com/consensys/go-floorplan/pkg/blueprint"
	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/trace"
	"github.com/consensys/go-floorplan/pkg/util/field/bls12_377"
	"github.com/consensys/go-floorplan/pkg/util/field/bn254"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Layout_00(t *testing.T) {
	check_Golden(t, "adder", "testdata/adder.yaml", true)
}

func Test_Layout_01(t *testing.T) {
	// Same report, whether or not batches are assigned in parallel.
	check_Golden(t, "adder", "testdata/adder.yaml", false)
}

func Test_Layout_02(t *testing.T) {
	bp, err := blueprint.Read("testdata/adder.yaml")
	require.NoError(t, err)
	//
	result, err := LayoutBlueprint[bls12_377.Element]("BLS12_377", bp, true)
	require.NoError(t, err)
	// Break a copy constraint
	_, err = result.Assignment.AssignAdvice("z", circuit.AdviceColumn(2), 2, func() circuit.Value[bls12_377.Element] {
		return circuit.Known(bls12_377.Element{})
	})
	require.NoError(t, err)
	//
	var buf bytes.Buffer
	//
	err = result.Print(&buf, false, true, defaultWidth)
	//
	var failure *trace.CopyError
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, buf.String(), "copy constraints: failed")
}

func Test_Config_00(t *testing.T) {
	config, err := ReadConfig("testdata/config.toml")
	require.NoError(t, err)
	//
	assert.Equal(t, Config{Rows: 32, Constants: []string{"fixed:1"}, Parallel: true, Check: true}, config)
	// Apply to a blueprint
	bp, err := blueprint.Read("testdata/adder.yaml")
	require.NoError(t, err)
	//
	config.Constants = []string{"fixed:0"}
	config.apply(bp)
	assert.Equal(t, uint(32), bp.Rows)
	assert.Equal(t, []string{"fixed:0"}, bp.Constants)
	//
	_, err = ReadConfig("testdata/missing.toml")
	assert.Error(t, err)
}

func Test_Config_01(t *testing.T) {
	var (
		cmd    = newLayoutCmd()
		config = Config{Rows: 8, Check: true}
	)
	// Only flags given explicitly take effect.
	require.NoError(t, cmd.Flags().Set("rows", "64"))
	require.NoError(t, cmd.Flags().Set("parallel", "true"))
	//
	config.applyFlags(cmd)
	//
	assert.Equal(t, Config{Rows: 64, Parallel: true, Check: true}, config)
}

func Test_Config_02(t *testing.T) {
	bp, err := blueprint.Read("testdata/adder.yaml")
	require.NoError(t, err)
	// An empty override clears the constants columns.
	var (
		cmd    = newLayoutCmd()
		config = Config{Constants: []string{"fixed:0"}}
	)
	//
	require.NoError(t, cmd.Flags().Set("constants", ""))
	config.applyFlags(cmd)
	config.apply(bp)
	//
	assert.Empty(t, config.Constants)
	assert.Empty(t, bp.Constants)
	// Without an override, the blueprint's columns are kept.
	bp, err = blueprint.Read("testdata/adder.yaml")
	require.NoError(t, err)
	//
	config = Config{}
	config.applyFlags(newLayoutCmd())
	config.apply(bp)
	assert.Equal(t, []string{"fixed:1"}, bp.Constants)
}

func Test_Chart_00(t *testing.T) {
	columns := []circuit.RegionColumn{
		circuit.ColumnKey(circuit.AdviceColumn(0)),
		circuit.ColumnKey(circuit.AdviceColumn(1)),
		circuit.ColumnKey(circuit.AdviceColumn(2)),
		circuit.ColumnKey(circuit.FixedColumn(0)),
	}
	//
	assert.Equal(t, columns, fitColumns(columns, 80))
	assert.Equal(t, columns[:3], fitColumns(columns, 40))
	assert.Empty(t, fitColumns(columns, 10))
}

func Test_Chart_01(t *testing.T) {
	bp, err := blueprint.Read("testdata/adder.yaml")
	require.NoError(t, err)
	//
	result, err := LayoutBlueprint[bn254.Element]("BN254", bp, false)
	require.NoError(t, err)
	//
	var buf bytes.Buffer
	//
	printChart(&buf, result.Assignment, 40)
	assert.Contains(t, buf.String(), " row | advice:0 | advice:1 | advice:2 |\n")
	assert.Contains(t, buf.String(), "(2 column(s) not shown)\n")
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "layout"}
	addLayoutFlags(cmd)
	//
	return cmd
}

func check_Golden(t *testing.T, name string, filename string, parallel bool) {
	bp, err := blueprint.Read(filename)
	require.NoError(t, err)
	//
	result, err := LayoutBlueprint[bn254.Element]("BN254", bp, parallel)
	require.NoError(t, err)
	//
	var buf bytes.Buffer
	//
	require.NoError(t, result.Print(&buf, true, true, defaultWidth))
	//
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
}
