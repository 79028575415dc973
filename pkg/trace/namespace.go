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
package trace

import (
	"slices"
	"strings"
)

// Namespace is a path of nested (diagnostic) namespaces, from the outermost
// inwards.  Namespaces are immutable, hence can be freely shared between
// sub-assignments.
type Namespace struct {
	segments []string
}

// NewNamespace constructs a namespace from the given segments.
func NewNamespace(segments ...string) Namespace {
	return Namespace{slices.Clone(segments)}
}

// Depth returns the number of segments in this namespace.
func (p Namespace) Depth() uint {
	return uint(len(p.segments))
}

// Tail returns the last (i.e. innermost) segment of this namespace.
func (p Namespace) Tail() string {
	return p.segments[len(p.segments)-1]
}

// Parent returns the enclosing namespace, or this namespace if it is empty.
func (p Namespace) Parent() Namespace {
	if len(p.segments) == 0 {
		return p
	}
	//
	return Namespace{p.segments[:len(p.segments)-1]}
}

// Extend returns this namespace extended with a new innermost segment.
func (p Namespace) Extend(segment string) Namespace {
	return Namespace{append(slices.Clip(p.segments), segment)}
}

// PrefixOf checks whether this namespace encloses (or is) the other.
func (p Namespace) PrefixOf(other Namespace) bool {
	if len(p.segments) > len(other.segments) {
		return false
	}
	//
	return slices.Equal(p.segments, other.segments[:len(p.segments)])
}

// Qualify a name with this namespace.
func (p Namespace) Qualify(name string) string {
	if len(p.segments) == 0 {
		return name
	}
	//
	return p.String() + "/" + name
}

func (p Namespace) String() string {
	return strings.Join(p.segments, "/")
}
