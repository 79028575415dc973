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
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Namespace_00(t *testing.T) {
	var root Namespace
	//
	assert.Equal(t, uint(0), root.Depth())
	assert.Equal(t, "add", root.Qualify("add"))
	assert.Equal(t, root, root.Parent())
	//
	chip := root.Extend("chip")
	gadget := chip.Extend("gadget")
	//
	assert.Equal(t, "chip/gadget", gadget.String())
	assert.Equal(t, "chip/gadget/add", gadget.Qualify("add"))
	assert.Equal(t, "gadget", gadget.Tail())
	assert.Equal(t, chip, gadget.Parent())
	assert.True(t, chip.PrefixOf(gadget))
	assert.False(t, gadget.PrefixOf(chip))
	assert.True(t, NewNamespace("chip", "gadget").PrefixOf(gadget))
}

func Test_Namespace_01(t *testing.T) {
	chip := NewNamespace("chip")
	// Extending a namespace never affects another
	left := chip.Extend("left")
	right := chip.Extend("right")
	//
	assert.Equal(t, "chip/left", left.String())
	assert.Equal(t, "chip/right", right.String())
	// Even after popping
	other := left.Parent().Extend("other")
	assert.Equal(t, "chip/left", left.String())
	assert.Equal(t, "chip/other", other.String())
}
