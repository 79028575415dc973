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
package layout

import (
	"errors"
	"fmt"
)

// Any error returned by a layouter invalidates everything it has produced so
// far.  Writes already issued to the underlying assignment are not undone, and
// the layouter should be discarded.  Errors originating from the assignment
// itself are returned unchanged.
var (
	// ErrConfiguration signals the layouter was not configured to support the
	// circuit being laid out.
	ErrConfiguration = errors.New("configuration error")
	// ErrConsistency signals the circuit being laid out is malformed.
	ErrConsistency = errors.New("consistency error")
	// ErrBatch signals a region within a parallel batch failed.  The error of
	// the failing region is wrapped alongside.
	ErrBatch = errors.New("batch error")
)

var (
	// ErrNotEnoughColumnsForConstants signals constants were requested but no
	// constants column was configured.
	ErrNotEnoughColumnsForConstants = fmt.Errorf("%w: not enough columns for constants", ErrConfiguration)
	// ErrTableColumnReused signals a column of a completed table was used again
	// by another table.
	ErrTableColumnReused = fmt.Errorf("%w: table column already used by another table", ErrConsistency)
	// ErrTableDefaultReassigned signals row 0 of a table column was assigned
	// more than once.
	ErrTableDefaultReassigned = fmt.Errorf("%w: table column default assigned twice", ErrConsistency)
	// ErrTableColumnLength signals the columns of a table were not all fully
	// assigned up to the same length.
	ErrTableColumnLength = fmt.Errorf("%w: table columns not fully assigned to the same length", ErrConsistency)
	// ErrEmptyTable signals a table assigned no cells at all.
	ErrEmptyTable = fmt.Errorf("%w: table has no columns", ErrConsistency)
	// ErrUnknownRegion signals a cell refers to a region which has not been
	// laid out.
	ErrUnknownRegion = fmt.Errorf("%w: cell refers to unknown region", ErrConsistency)
	// ErrRowOverflow signals a region offset which, once the region is
	// placed, lies beyond the largest representable row.
	ErrRowOverflow = fmt.Errorf("%w: row offset overflows", ErrConsistency)
)
