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

package bitmap

import (
	"bytes"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/require"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
)

func TestCapabilities(t *testing.T) {
	m, err := NewMeasureType(FuncName, types.Type{Name: TypeName})
	require.NoError(t, err)
	require.True(t, m.NeedRewrite())
	require.True(t, m.IsMemoryHungry())
	require.Equal(t, TypeName, m.DataType().Name)
}

func TestIngest(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    uint64
		wantErr uint16
	}{
		{
			name:   "distinct ints",
			values: []string{"1", "2", "2", "4294967295", ""},
			want:   3,
		},
		{
			name:    "not an integer",
			values:  []string{"x"},
			wantErr: gerr.ErrInvalidInput,
		},
		{
			name:    "negative",
			values:  []string{"-1"},
			wantErr: gerr.ErrOutOfRange,
		},
		{
			name:    "overflows uint32",
			values:  []string{"4294967296"},
			wantErr: gerr.ErrOutOfRange,
		},
	}
	in := &Ingester{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := in.Ingest(tt.values)
			if tt.wantErr != 0 {
				require.True(t, gerr.IsErrCode(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.(*roaring.Bitmap).GetCardinality())
		})
	}
}

func TestAggregate(t *testing.T) {
	m, _ := NewMeasureType(FuncName, types.Type{Name: TypeName})
	agg := m.NewAggregator().(*Aggregator)

	in := m.NewIngester()
	first, err := in.Ingest([]string{"1", "2"})
	require.NoError(t, err)
	second, err := in.Ingest([]string{"2", "3"})
	require.NoError(t, err)

	agg.Aggregate(first)
	agg.Aggregate(second)
	require.Equal(t, uint64(3), agg.Cardinality())
	require.Greater(t, agg.Size(), 0)

	agg.Reset()
	require.Equal(t, uint64(0), agg.Cardinality())

	require.Panics(t, func() {
		agg.Aggregate(uint32(7))
	})
}

func TestSerializer(t *testing.T) {
	bmp := roaring.New()
	bmp.Add(7)
	bmp.Add(9)

	var buf bytes.Buffer
	require.NoError(t, Serializer{}.Serialize(&buf, bmp))

	v, left, err := Serializer{}.Deserialize(buf.Bytes())
	require.NoError(t, err)
	require.Empty(t, left)
	require.True(t, bmp.Equals(v.(*roaring.Bitmap)))

	require.Error(t, Serializer{}.Serialize(&buf, "zzz"))
	_, _, err = Serializer{}.Deserialize([]byte{1, 2})
	require.Error(t, err)
}
