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

package factory

import (
	"sync"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/config"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
	"github.com/galenadb/galena/pkg/measure/hllc"
	"github.com/galenadb/galena/pkg/measure/raw"
)

func TestNew(t *testing.T) {
	r, err := New(builtins)
	require.NoError(t, err)
	require.Len(t, r.factories, 4) // COUNT_DISTINCT claims two providers
	require.Len(t, r.factories["COUNT_DISTINCT"], 2)
	require.Len(t, r.defaults, 1)

	// data types and serializers are registered as side effects
	for _, d := range builtins {
		require.True(t, types.IsRegistered(d.DataTypeName))
		s, err := types.GetSerializer(d.DataTypeName)
		require.NoError(t, err)
		require.NotNil(t, s)
	}
}

func TestNewRejectsBadDescriptors(t *testing.T) {
	tests := []struct {
		name  string
		descs []measure.Descriptor
		want  string
	}{
		{
			name: "lower case function name",
			descs: []measure.Descriptor{
				{Kind: measure.KindHLLC, FunctionName: "count_distinct", DataTypeName: "hllc", Serializer: hllc.Serializer{}},
			},
			want: "count_distinct",
		},
		{
			name: "upper case data type name",
			descs: []measure.Descriptor{
				{Kind: measure.KindHLLC, FunctionName: "COUNT_DISTINCT", DataTypeName: "HLLC", Serializer: hllc.Serializer{}},
			},
			want: "HLLC",
		},
		{
			name: "missing serializer",
			descs: []measure.Descriptor{
				{Kind: measure.KindHLLC, FunctionName: "COUNT_DISTINCT", DataTypeName: "hllc"},
			},
			want: "COUNT_DISTINCT(hllc)",
		},
		{
			name: "duplicate provider",
			descs: []measure.Descriptor{
				{Kind: measure.KindHLLC, FunctionName: "COUNT_DISTINCT", DataTypeName: "hllc", Serializer: hllc.Serializer{}},
				{Kind: measure.KindHLLC, FunctionName: "COUNT_DISTINCT", DataTypeName: "hllc", Serializer: hllc.Serializer{}},
			},
			want: "COUNT_DISTINCT(hllc)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.descs)
			require.True(t, gerr.IsErrCode(err, gerr.ErrBadConfig))
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefault(t *testing.T) {
	defer leaktest.AfterTest(t)()

	first, err := Default()
	require.NoError(t, err)
	require.NotNil(t, first)

	again, err := Default()
	require.NoError(t, err)
	require.Same(t, first, again)

	var wg sync.WaitGroup
	got := make([]*Registry, 8)
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = Default()
		}(i)
	}
	wg.Wait()
	for i := range got {
		require.NoError(t, errs[i])
		require.Same(t, first, got[i])
	}
}

func TestFromParameters(t *testing.T) {
	params := &config.MeasureParameters{Disabled: []string{"topn", "RAW"}}
	r, err := FromParameters(params)
	require.NoError(t, err)
	require.Len(t, r.factories, 2)

	// a disabled function falls back to the basic provider
	m, err := r.CreateWithType("TOP_N", types.MustTypeOf("bigint"))
	require.NoError(t, err)
	require.True(t, m.NeedRewrite())
	require.False(t, m.IsMemoryHungry())

	// the surviving builtins still resolve to their own providers
	m, err = r.Create("COUNT_DISTINCT", "hllc")
	require.NoError(t, err)
	require.Equal(t, measure.AggFuncCountDistinct, m.RewriteAggFuncClass())
}

func TestFromParametersStubbedBuiltins(t *testing.T) {
	small := []measure.Descriptor{
		{Kind: measure.KindRaw, FunctionName: raw.FuncName, DataTypeName: raw.TypeName, Serializer: raw.Serializer{}},
	}
	stubs := gostub.Stub(&builtins, small)
	defer stubs.Reset()

	r, err := FromParameters(nil)
	require.NoError(t, err)
	require.Len(t, r.factories, 1)

	r, err = FromParameters(&config.MeasureParameters{Disabled: []string{"raw"}})
	require.NoError(t, err)
	require.Empty(t, r.factories)
}
