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

import (
	"fmt"
	"math/big"
)

// An Element of a prime-order field.  Cell values handled by the layouter are
// elements of some such field, though the layouter itself never performs any
// arithmetic on them beyond equality.
type Element[Operand any] interface {
	fmt.Stringer
	// Add x+y
	Add(y Operand) Operand
	// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
	Cmp(y Operand) int
	// Check whether this value is zero (or not).
	IsZero() bool
	// Check whether this value is one (or not).
	IsOne() bool
	// Return the modulus for the field in question.
	Modulus() *big.Int
	// Compute x * y
	Mul(y Operand) Operand
	// Compute x - y
	Sub(y Operand) Operand
	// SetUint64 returns the element representing the given value.
	SetUint64(val uint64) Operand
	// SetString returns the element representing the given decimal (or
	// 0x-prefixed hexadecimal) string.
	SetString(val string) (Operand, error)
	// Text returns the numerical value of x in the given base.
	Text(base int) string
}

// Zero constructs a field element representing 0
func Zero[F Element[F]]() F {
	var element F
	//
	return element
}

// One constructs a field element representing 1
func One[F Element[F]]() F {
	var element F
	//
	return element.SetUint64(1)
}

// Uint64 construct a field element from a given uint64
func Uint64[F Element[F]](val uint64) F {
	var element F
	//
	return element.SetUint64(val)
}

// Parse constructs a field element from a given string, reporting an error if
// the string is not a valid numeric literal.
func Parse[F Element[F]](val string) (F, error) {
	var element F
	//
	return element.SetString(val)
}

// Equal determines whether two field elements represent the same value.
func Equal[F Element[F]](lhs F, rhs F) bool {
	return lhs.Cmp(rhs) == 0
}
