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
	"fmt"

	"github.com/consensys/go-floorplan/pkg/circuit"
	"github.com/consensys/go-floorplan/pkg/util"
	"github.com/consensys/go-floorplan/pkg/util/field"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// AssignRegions lays out a batch of regions, assigning their cells in
// parallel.  All regions are first measured and placed sequentially, in the
// order given, exactly as AssignRegion would place them.  The assignment is
// then forked into one sub-assignment per region, covering only the rows of
// that region, and each region is assigned concurrently against its own
// sub-assignment.  Once all are complete, the sub-assignments are merged back
// and the constants of every region are materialised in the order the regions
// were given.
//
// If any region fails, the batch fails with the first error observed and any
// other errors are discarded.  The ith region of the batch is named
// BatchRegionName(name, i).
func AssignRegions[F field.Element[F], R any](p *Layouter[F], name string,
	assignments []func(circuit.Region[F]) (R, error)) ([]R, error) {
	var (
		n       = len(assignments)
		first   = len(p.regions)
		ranges  = make([]circuit.RowRange, n)
		results = make([]R, n)
		pending = make([][]pendingConstant[F], n)
		stats   = util.NewPerfStats()
	)
	//
	if n == 0 {
		return results, nil
	}
	// Measure and place every region, in order.
	for i, assignment := range assignments {
		shape := NewRegionShape[F](circuit.RegionIndex(first + i))
		//
		if _, err := assignment(circuit.NewRegion[F](shape)); err != nil {
			return nil, err
		}
		//
		start, err := p.place(BatchRegionName(name, i), shape)
		if err != nil {
			return nil, err
		}
		//
		ranges[i] = circuit.RowRange{Start: uint(start), End: uint(start) + shape.RowCount()}
	}
	//
	stats.Log(fmt.Sprintf("batch \"%s\" 1st pass (%d regions)", name, n))
	// Fork the assignment
	stats = util.NewPerfStats()
	subs, err := p.cs.Fork(ranges)
	//
	if err != nil {
		return nil, err
	} else if len(subs) != n {
		return nil, fmt.Errorf("%w: fork of %d ranges returned %d sub-assignments", ErrBatch, n, len(subs))
	}
	// Region starts are fixed for the remainder of the batch, and are only read
	// by the workers.
	var (
		regions = p.regions
		group   errgroup.Group
	)
	//
	for i, assignment := range assignments {
		group.Go(func() error {
			var (
				sub    = subs[i]
				region = newRegionLayouter(sub, regions, circuit.RegionIndex(first+i))
			)
			//
			sub.EnterRegion(BatchRegionName(name, i))
			//
			result, err := assignment(circuit.NewRegion[F](region))
			if err != nil {
				return fmt.Errorf("region \"%s\": %w", BatchRegionName(name, i), err)
			}
			//
			sub.ExitRegion()
			//
			results[i] = result
			pending[i] = region.constants
			//
			return nil
		})
	}
	// Join
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBatch, err)
	}
	//
	stats.Log(fmt.Sprintf("batch \"%s\" 2nd pass (%d regions)", name, n))
	// Merge
	if err := p.cs.Merge(subs); err != nil {
		return nil, err
	}
	//
	log.Debugf("merged %d sub-assignments of batch \"%s\"", n, name)
	// Constants are materialised in submission order, regardless of the order
	// in which regions completed.
	var constants []pendingConstant[F]
	//
	for _, ith := range pending {
		constants = append(constants, ith...)
	}
	//
	return results, p.assignConstants(constants)
}

// BatchRegionName returns the name given to the ith region of a batch.
func BatchRegionName(batch string, index int) string {
	return fmt.Sprintf("%s_%d", batch, index)
}
