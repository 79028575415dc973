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
	"fmt"
	"io"
	"os"

	"github.com/consensys/go-floorplan/pkg/blueprint"
	"github.com/consensys/go-floorplan/pkg/layout"
	"github.com/consensys/go-floorplan/pkg/trace"
	"github.com/consensys/go-floorplan/pkg/trace/json"
	"github.com/consensys/go-floorplan/pkg/util"
	"github.com/consensys/go-floorplan/pkg/util/field"
	"github.com/consensys/go-floorplan/pkg/util/field/bls12_377"
	"github.com/consensys/go-floorplan/pkg/util/field/bn254"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [flags] blueprint_file",
	Short: "lay out the regions and tables of a circuit blueprint.",
	Long: `Lay out the regions and tables of a circuit blueprint (given in YAML),
	reporting where each region was placed and how far each column is occupied.
	Settings can be given in a TOML configuration file, which are overridden by
	any flags given.`,
	Run: func(cmd *cobra.Command, args []string) {
		runFieldAgnosticCmd(cmd, args, layoutCmds)
	},
}

// Available instances
var layoutCmds = []FieldAgnosticCmd{
	{field.BN254, runLayoutCmd[bn254.Element]},
	{field.BLS12_377, runLayoutCmd[bls12_377.Element]},
}

// Layout encapsulates the outcome of laying out a blueprint.
type Layout[F field.Element[F]] struct {
	Field      string
	Blueprint  *blueprint.Blueprint
	Layouter   *layout.Layouter[F]
	Assignment *trace.ArrayAssignment[F]
	Labels     blueprint.Labels
}

func runLayoutCmd[F field.Element[F]](cmd *cobra.Command, args []string) {
	var config Config
	//
	if len(args) != 1 {
		fmt.Println(cmd.UsageString())
		os.Exit(1)
	}
	// Configure log level
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	// Read configuration file (if given)
	if filename := GetString(cmd, "config"); filename != "" {
		var err error
		//
		if config, err = ReadConfig(filename); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	//
	config.applyFlags(cmd)
	//
	bp, err := blueprint.Read(args[0])
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	config.apply(bp)
	//
	stats := util.NewPerfStats()
	result, err := LayoutBlueprint[F](GetString(cmd, "field"), bp, config.Parallel)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}
	//
	stats.Log(fmt.Sprintf("layout of \"%s\"", bp.Name))
	// Write out assignment (if requested)
	if output := GetString(cmd, "output"); output != "" {
		if err := os.WriteFile(output, []byte(json.ToJsonString(result.Assignment)), 0644); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	//
	width := GetUint(cmd, "width")
	if width == 0 {
		width = terminalWidth()
	}
	//
	if err := result.Print(os.Stdout, config.Chart, config.Check, width); err != nil {
		fmt.Println(err)
		os.Exit(5)
	}
}

// LayoutBlueprint lays out a given blueprint over a fresh assignment.
func LayoutBlueprint[F field.Element[F]](fieldName string, bp *blueprint.Blueprint, parallel bool) (*Layout[F],
	error) {
	cs, err := blueprint.NewAssignment[F](bp)
	if err != nil {
		return nil, err
	}
	//
	constants, err := bp.ConstantColumns()
	if err != nil {
		return nil, err
	}
	//
	p, err := layout.NewLayouter[F](cs, constants)
	if err != nil {
		return nil, err
	}
	//
	labels, err := blueprint.Synthesize(bp, p, parallel)
	if err != nil {
		return nil, err
	}
	//
	return &Layout[F]{fieldName, bp, p, cs, labels}, nil
}

// Print a report of this layout, optionally followed by an occupancy chart
// (fitted to the given width) and the outcome of checking all copy
// constraints.  An error is returned if the check fails.
func (p *Layout[F]) Print(out io.Writer, chart bool, check bool, width uint) error {
	printReport(out, p)
	//
	if chart {
		fmt.Fprintln(out)
		printChart(out, p.Assignment, width)
	}
	//
	if check {
		fmt.Fprintln(out)
		//
		if err := p.Assignment.Verify(); err != nil {
			fmt.Fprintln(out, "copy constraints: failed")
			return err
		}
		//
		fmt.Fprintf(out, "copy constraints: %d satisfied\n", len(p.Assignment.Copies()))
	}
	//
	return nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(layoutCmd)
	addLayoutFlags(layoutCmd)
}

func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "read settings from a TOML file")
	cmd.Flags().Uint("rows", 0, "override the number of rows of the blueprint")
	cmd.Flags().StringArray("constants", []string{}, "override the constants columns of the blueprint")
	cmd.Flags().Bool("parallel", false, "assign the regions of each batch in parallel")
	cmd.Flags().Bool("check", false, "check copy constraints once laid out")
	cmd.Flags().Bool("chart", false, "print an occupancy chart")
	cmd.Flags().Uint("width", 0, "width of the occupancy chart (defaults to the terminal width)")
	cmd.Flags().StringP("output", "o", "", "write the assignment to a JSON file")
}
