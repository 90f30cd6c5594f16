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

package basic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
)

func TestNeedRewrite(t *testing.T) {
	m, err := NewMeasureType(FuncCount, types.Type{Name: "bigint"})
	require.NoError(t, err)
	require.False(t, m.NeedRewrite())

	m, err = NewMeasureType(FuncSum, types.Type{Name: "bigint"})
	require.NoError(t, err)
	require.True(t, m.NeedRewrite())
	require.False(t, m.IsMemoryHungry())
}

func TestAggregators(t *testing.T) {
	tests := []struct {
		name     string
		funcName string
		typ      string
		rows     []string
		want     any
	}{
		{name: "sum bigint", funcName: FuncSum, typ: "bigint", rows: []string{"3", "4", ""}, want: int64(7)},
		{name: "max bigint", funcName: FuncMax, typ: "bigint", rows: []string{"-2", "9", "4"}, want: int64(9)},
		{name: "min bigint", funcName: FuncMin, typ: "bigint", rows: []string{"5", "-2", "4"}, want: int64(-2)},
		{name: "sum double", funcName: FuncSum, typ: "double", rows: []string{"1.5", "2.25"}, want: 3.75},
		{name: "max double", funcName: FuncMax, typ: "double", rows: []string{"1.5", "-4"}, want: 1.5},
		{name: "min decimal", funcName: FuncMin, typ: "decimal", rows: []string{"1.5", "-4"}, want: float64(-4)},
		{name: "count", funcName: FuncCount, typ: "bigint", rows: []string{"a", "", "b"}, want: int64(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMeasureType(tt.funcName, types.MustTypeOf(tt.typ))
			require.NoError(t, err)
			in := m.NewIngester()
			agg := m.NewAggregator()
			for _, row := range tt.rows {
				v, err := in.Ingest([]string{row})
				require.NoError(t, err)
				agg.Aggregate(v)
			}
			require.Equal(t, tt.want, agg.State())
			require.Equal(t, 8, agg.Size())

			agg.Reset()
			require.Zero(t, agg.State())
		})
	}
}

func TestUnsupportedAggregator(t *testing.T) {
	m, err := NewMeasureType("FOO", types.Type{Name: "varchar"})
	require.NoError(t, err)

	require.Panics(t, func() {
		m.NewAggregator()
	})

	_, err = newAggregator("FOO", types.Type{Name: "varchar"})
	require.True(t, gerr.IsErrCode(err, gerr.ErrNotSupported))

	_, err = newAggregator(FuncSum, types.Type{Name: "varchar"})
	require.True(t, gerr.IsErrCode(err, gerr.ErrNotSupported))
}

func TestIngestErrors(t *testing.T) {
	in := &Ingester{funcName: FuncSum, typ: types.Type{Name: "bigint"}}
	_, err := in.Ingest([]string{"x"})
	require.True(t, gerr.IsErrCode(err, gerr.ErrInvalidInput))

	_, err = in.Ingest([]string{"1", "2"})
	require.True(t, gerr.IsErrCode(err, gerr.ErrInvalidInput))

	v, err := in.Ingest([]string{""})
	require.NoError(t, err)
	require.Nil(t, v)

	in = &Ingester{funcName: FuncSum, typ: types.Type{Name: "varchar"}}
	_, err = in.Ingest([]string{"a"})
	require.True(t, gerr.IsErrCode(err, gerr.ErrNotSupported))

	// COUNT() with no parameter column counts the row itself
	in = &Ingester{funcName: FuncCount, typ: types.Type{Name: "bigint"}}
	v, err = in.Ingest(nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}
