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

// Assignment is the constraint system into which a layouter places cells.  All
// rows given to an assignment are global rows.  Errors returned by an
// assignment are opaque to the layouter and are propagated unchanged.
type Assignment[F any] interface {
	// EnterRegion marks the start of a region.  This is purely diagnostic.
	EnterRegion(name string)
	// ExitRegion marks the end of the most recently entered region.
	ExitRegion()
	// AssignAdvice assigns the value produced by a given function to an advice
	// cell, returning the value assigned.
	AssignAdvice(name string, column Column, row uint, to func() Value[F]) (Value[F], error)
	// AssignFixed assigns the value produced by a given function to a fixed
	// cell, returning the value assigned.
	AssignFixed(name string, column Column, row uint, to func() Value[F]) (Value[F], error)
	// EnableSelector enables a selector at a given row.
	EnableSelector(name string, selector Selector, row uint) error
	// Copy constrains two cells to be equal.
	Copy(left Column, leftRow uint, right Column, rightRow uint) error
	// QueryInstance returns the value of an instance cell.  This is unknown
	// when witnesses are not available.
	QueryInstance(column Column, row uint) (Value[F], error)
	// GetChallenge returns the value of a verifier challenge, if available.
	GetChallenge(challenge Challenge) Value[F]
	// FillFromRow assigns a given value to every row of a fixed column from a
	// given row onwards.
	FillFromRow(column Column, row uint, value Value[F]) error
	// Fork splits this assignment into one independent sub-assignment per
	// range, each of which accepts writes only within its own range.  Forked
	// sub-assignments may be used concurrently.
	Fork(ranges []RowRange) ([]Assignment[F], error)
	// Merge folds sub-assignments previously obtained from Fork back into
	// this assignment.  Sub-assignments are merged in the order given.
	Merge(subs []Assignment[F]) error
	// PushNamespace enters a new (diagnostic) namespace.
	PushNamespace(name string)
	// PopNamespace exits the current namespace, optionally naming the gadget
	// which occupied it.
	PopNamespace(gadget string)
	// AnnotateColumn attaches a (diagnostic) name to a column.
	AnnotateColumn(name string, column Column)
}
