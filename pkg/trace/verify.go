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
	"errors"
	"fmt"
)

// CopyError reports a copy constraint between two known cells holding
// different values.
type CopyError struct {
	Copy  Copy
	Left  string
	Right string
}

func (p *CopyError) Error() string {
	return fmt.Sprintf("copy %s failed (%s != %s)", p.Copy, p.Left, p.Right)
}

// Verify checks every copy constraint recorded so far.  Constraints involving
// an unknown cell are ignored.  All failing constraints are reported together.
func (p *ArrayAssignment[F]) Verify() error {
	var errs []error
	//
	for _, c := range p.copies {
		left, err := p.Get(c.Left, c.LeftRow)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		//
		right, err := p.Get(c.Right, c.RightRow)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		//
		lval, lok := left.Get()
		rval, rok := right.Get()
		//
		if lok && rok && lval.Cmp(rval) != 0 {
			errs = append(errs, &CopyError{c, left.String(), right.String()})
		}
	}
	//
	return errors.Join(errs...)
}
