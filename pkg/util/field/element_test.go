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
	"testing"

	"github.com/consensys/go-floorplan/pkg/util/field/bls12_377"
	"github.com/consensys/go-floorplan/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// make sure the interface is adhered to.
	_ = Element[bn254.Element](bn254.Element{})
	_ = Element[bls12_377.Element](bls12_377.Element{})
}

func Test_Element_00(t *testing.T) {
	check_Element_Constructors[bn254.Element](t)
}

func Test_Element_01(t *testing.T) {
	check_Element_Constructors[bls12_377.Element](t)
}

func Test_Element_02(t *testing.T) {
	check_Element_Parse[bn254.Element](t)
}

func Test_Element_03(t *testing.T) {
	check_Element_Parse[bls12_377.Element](t)
}

func Test_Element_04(t *testing.T) {
	// Wrap around the modulus.
	var (
		one = One[bn254.Element]()
		m1  = Zero[bn254.Element]().Sub(one)
	)
	//
	assert.True(t, m1.Add(one).IsZero())
	assert.Equal(t, -1, one.Cmp(m1))
}

func Test_Config_00(t *testing.T) {
	assert.Equal(t, &BN254, GetConfig("BN254"))
	assert.Equal(t, &BLS12_377, GetConfig("BLS12_377"))
	assert.Nil(t, GetConfig("GF_251"))
	// Bit widths match the moduli
	assert.Equal(t, BN254.BitWidth, uint(One[bn254.Element]().Modulus().BitLen()))
	assert.Equal(t, BLS12_377.BitWidth, uint(One[bls12_377.Element]().Modulus().BitLen()))
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Element_Constructors[F Element[F]](t *testing.T) {
	var (
		zero = Zero[F]()
		one  = One[F]()
	)
	//
	assert.True(t, zero.IsZero())
	assert.True(t, one.IsOne())
	assert.True(t, Equal(Uint64[F](1), one))
	assert.Equal(t, "0", zero.String())
	assert.Equal(t, "7", Uint64[F](3).Add(Uint64[F](4)).Text(10))
	assert.Equal(t, "12", Uint64[F](3).Mul(Uint64[F](4)).String())
	assert.Equal(t, 1, Uint64[F](5).Cmp(Uint64[F](2)))
}

func check_Element_Parse[F Element[F]](t *testing.T) {
	val, err := Parse[F]("1234")
	require.NoError(t, err)
	assert.True(t, Equal(Uint64[F](1234), val))
	//
	val, err = Parse[F]("0x10")
	require.NoError(t, err)
	assert.True(t, Equal(Uint64[F](16), val))
	//
	_, err = Parse[F]("twelve")
	assert.Error(t, err)
}
