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
package bit

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// Set provides a straightforward bitset implementation. That is, a set of
// (unsigned) integer values implemented as an array of bits.
type Set struct {
	words []uint64
}

// Clone creates a true copy of this bitset which ensures no aliasing between
// this set and the result.
func (p *Set) Clone() Set {
	return Set{slices.Clone(p.words)}
}

// Insert a given value into this set.
func (p *Set) Insert(val uint) {
	word := val / 64
	bit := val % 64
	//
	for uint(len(p.words)) <= word {
		p.words = append(p.words, 0)
	}
	// Set bit
	mask := uint64(1) << bit
	p.words[word] = p.words[word] | mask
}

// InsertAll inserts zero or more elements into this bitset.
func (p *Set) InsertAll(vals ...uint) {
	for _, v := range vals {
		p.Insert(v)
	}
}

// Contains checks whether a given value is contained, or not.
func (p *Set) Contains(val uint) bool {
	word := val / 64
	bit := val % 64
	//
	if uint(len(p.words)) <= word {
		return false
	}
	// Set mask
	mask := uint64(1) << bit
	//
	return (p.words[word] & mask) != 0
}

// Count returns the number of bits in the bitset which are set to one.
func (p *Set) Count() uint {
	count := uint(0)
	//
	for _, word := range p.words {
		count += uint(bits.OnesCount64(word))
	}
	//
	return count
}

// Bound returns one more than the largest value in this set, or 0 if the set
// is empty.
func (p *Set) Bound() uint {
	for word := len(p.words) - 1; word >= 0; word-- {
		if p.words[word] != 0 {
			return uint(word*64) + uint(64-bits.LeadingZeros64(p.words[word]))
		}
	}
	//
	return 0
}

// Dense checks whether this set contains every value below its bound.  That
// is, whether it holds exactly 0..n-1 for some n.  The empty set is dense.
func (p *Set) Dense() bool {
	return p.Count() == p.Bound()
}

func (p *Set) String() string {
	var (
		builder strings.Builder
		first   = true
	)
	//
	builder.WriteString("[")
	//
	for value := uint(0); value < p.Bound(); value++ {
		if p.Contains(value) {
			if !first {
				builder.WriteString(", ")
			}
			//
			first = false
			//
			builder.WriteString(fmt.Sprintf("%d", value))
		}
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
