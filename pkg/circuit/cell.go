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

// RegionIndex identifies a region.  Indices are handed out in creation order,
// starting from zero.
type RegionIndex uint

// RegionStart is the global row at which a region begins.
type RegionStart uint

// Cell identifies a cell assigned within some region.  A cell carries no value,
// and records its row relative to the start of its region.  Resolving the
// global row requires the start of the region, which is held by the layouter.
type Cell struct {
	RegionIndex RegionIndex
	RowOffset   uint
	Column      Column
}

func (p Cell) String() string {
	return fmt.Sprintf("%s@region#%d+%d", p.Column, p.RegionIndex, p.RowOffset)
}

// RowRange is a half-open range [Start, End) of global rows.
type RowRange struct {
	Start uint
	End   uint
}

// Len returns the number of rows in this range.
func (p RowRange) Len() uint {
	return p.End - p.Start
}

// Contains checks whether a given row lies within this range.
func (p RowRange) Contains(row uint) bool {
	return p.Start <= row && row < p.End
}

func (p RowRange) String() string {
	return fmt.Sprintf("[%d..%d)", p.Start, p.End)
}
