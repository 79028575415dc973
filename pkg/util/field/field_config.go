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
package field

// BN254 is the scalar field of the BN254 curve.
var BN254 = Config{"BN254", 254}

// BLS12_377 is the scalar field of the BLS12-377 curve.
var BLS12_377 = Config{"BLS12_377", 253}

// FIELD_CONFIGS determines the set of supported fields.
var FIELD_CONFIGS = []Config{
	BN254,
	BLS12_377,
}

// Config identifies one of the supported fields.
type Config struct {
	// Name suitable for identifying the config.  This is only really used for
	// improving error reporting, etc.
	Name string
	// Number of bits in the modulus.
	BitWidth uint
}

// GetConfig returns the field configuration corresponding with the given
// name, or nil no such config exists.
func GetConfig(name string) *Config {
	for i := range FIELD_CONFIGS {
		if FIELD_CONFIGS[i].Name == name {
			return &FIELD_CONFIGS[i]
		}
	}
	//
	return nil
}
