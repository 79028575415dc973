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
package circuit

import "fmt"

// Value is a possibly unknown value.  Values are unknown when a circuit is
// being synthesized without witnesses (e.g. during key generation).
type Value[F any] struct {
	value F
	known bool
}

// Known constructs a value which is known.
func Known[F any](value F) Value[F] {
	return Value[F]{value, true}
}

// Unknown constructs a value which is not known.
func Unknown[F any]() Value[F] {
	return Value[F]{}
}

// IsKnown determines whether or not this value is known.
func (p Value[F]) IsKnown() bool {
	return p.known
}

// Get returns the underlying value, and whether or not it is known.
func (p Value[F]) Get() (F, bool) {
	return p.value, p.known
}

func (p Value[F]) String() string {
	if !p.known {
		return "?"
	}
	//
	return fmt.Sprintf("%v", p.value)
}
