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
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/consensys/go-floorplan/pkg/blueprint"
	"github.com/spf13/cobra"
)

// Config holds the settings of the layout command, as read from a TOML file.
// Flags given on the command line take precedence.
type Config struct {
	// Overrides the number of rows of the blueprint (when non-zero).
	Rows uint `toml:"rows"`
	// Overrides the constants columns of the blueprint (when given, even if
	// empty).
	Constants []string `toml:"constants"`
	// Assign batches in parallel.
	Parallel bool `toml:"parallel"`
	// Check copy constraints once laid out.
	Check bool `toml:"check"`
	// Print an occupancy chart.
	Chart bool `toml:"chart"`
}

// ReadConfig reads a configuration from a given TOML file.
func ReadConfig(filename string) (Config, error) {
	var config Config
	//
	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	//
	if err := toml.Unmarshal(data, &config); err != nil {
		return config, err
	}
	//
	return config, nil
}

// Override any settings explicitly given as flags.
func (p *Config) applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	//
	if flags.Changed("rows") {
		p.Rows = GetUint(cmd, "rows")
	}
	//
	if flags.Changed("constants") {
		// Empty values clear the constants columns.
		p.Constants = slices.DeleteFunc(GetStringArray(cmd, "constants"), func(c string) bool {
			return c == ""
		})
	}
	//
	if flags.Changed("parallel") {
		p.Parallel = GetFlag(cmd, "parallel")
	}
	//
	if flags.Changed("check") {
		p.Check = GetFlag(cmd, "check")
	}
	//
	if flags.Changed("chart") {
		p.Chart = GetFlag(cmd, "chart")
	}
}

// Override dimensions of a blueprint.
func (p *Config) apply(bp *blueprint.Blueprint) {
	if p.Rows != 0 {
		bp.Rows = p.Rows
	}
	//
	if p.Constants != nil {
		bp.Constants = p.Constants
	}
}
