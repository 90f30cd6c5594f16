// Copyright 2022 GalenaDB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galenadb/galena/pkg/common/gerr"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		want    Type
		wantErr uint16
	}{
		{
			name:    "plain",
			literal: "bigint",
			want:    Type{Name: "bigint"},
		},
		{
			name:    "precision",
			literal: "decimal(19)",
			want:    Type{Name: "decimal", Precision: 19},
		},
		{
			name:    "precision and scale",
			literal: "decimal(19,4)",
			want:    Type{Name: "decimal", Precision: 19, Scale: 4},
		},
		{
			name:    "upper case folded",
			literal: "BIGINT",
			want:    Type{Name: "bigint"},
		},
		{
			name:    "padded",
			literal: " decimal( 19 , 4 ) ",
			want:    Type{Name: "decimal", Precision: 19, Scale: 4},
		},
		{
			name:    "unknown root",
			literal: "quaternion",
			wantErr: gerr.ErrTypeNotFound,
		},
		{
			name:    "empty",
			literal: "",
			wantErr: gerr.ErrInvalidArg,
		},
		{
			name:    "unbalanced",
			literal: "decimal(19",
			wantErr: gerr.ErrInvalidArg,
		},
		{
			name:    "no root",
			literal: "(19)",
			wantErr: gerr.ErrInvalidArg,
		},
		{
			name:    "bad precision",
			literal: "decimal(x)",
			wantErr: gerr.ErrInvalidArg,
		},
		{
			name:    "too many parts",
			literal: "decimal(1,2,3)",
			wantErr: gerr.ErrInvalidArg,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TypeOf(tt.literal)
			if tt.wantErr != 0 {
				require.Error(t, err)
				require.True(t, gerr.IsErrCode(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.True(t, tt.want.Eq(got))
		})
	}
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "bigint", Type{Name: "bigint"}.String())
	require.Equal(t, "hllc(12)", Type{Name: "hllc", Precision: 12}.String())
	require.Equal(t, "decimal(19,4)", Type{Name: "decimal", Precision: 19, Scale: 4}.String())
}

func TestRegister(t *testing.T) {
	require.False(t, IsRegistered("widget"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Register("widget")
		}()
	}
	wg.Wait()
	require.True(t, IsRegistered("widget"))

	got, err := TypeOf("widget(3)")
	require.NoError(t, err)
	require.Equal(t, Type{Name: "widget", Precision: 3}, got)
}

func TestSerializerRegistry(t *testing.T) {
	s, err := GetSerializer("bigint")
	require.NoError(t, err)
	require.IsType(t, Int64Serializer{}, s)

	_, err = GetSerializer("nothing")
	require.True(t, gerr.IsErrCode(err, gerr.ErrSerializerNotFound))

	RegisterSerializer("gadget", Float64Serializer{})
	s, err = GetSerializer("gadget")
	require.NoError(t, err)
	require.IsType(t, Float64Serializer{}, s)
}

func TestBuiltinSerializers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Int64Serializer{}.Serialize(&buf, int64(-7)))
	require.NoError(t, Float64Serializer{}.Serialize(&buf, 2.5))

	v, left, err := Int64Serializer{}.Deserialize(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, int64(-7), v)

	v, left, err = Float64Serializer{}.Deserialize(left)
	require.NoError(t, err)
	require.Equal(t, 2.5, v)
	require.Empty(t, left)

	require.Error(t, Int64Serializer{}.Serialize(&buf, "nope"))
	_, _, err = Int64Serializer{}.Deserialize([]byte{1, 2})
	require.Error(t, err)
}

func TestEncodeDecodeSlice(t *testing.T) {
	vs := []uint64{1, 2, 3}
	require.Equal(t, vs, DecodeSlice[uint64](EncodeSlice(vs)))
	require.Nil(t, EncodeSlice([]uint64(nil)))

	require.Panics(t, func() {
		DecodeSlice[uint64]([]byte{1, 2, 3})
	})
}

func TestEncodeDecodeFixed(t *testing.T) {
	require.Equal(t, uint32(42), DecodeUint32(EncodeUint32(42)))
	require.Equal(t, uint64(1<<40), DecodeUint64(EncodeUint64(1<<40)))
	require.Equal(t, int64(-9), DecodeInt64(EncodeInt64(-9)))
	require.Equal(t, 3.25, DecodeFloat64(EncodeFloat64(3.25)))
}
