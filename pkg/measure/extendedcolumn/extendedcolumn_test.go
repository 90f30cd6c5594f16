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

package extendedcolumn

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
)

func TestCapabilities(t *testing.T) {
	m, err := NewMeasureType(FuncName, types.Type{Name: TypeName, Precision: 8})
	require.NoError(t, err)
	require.False(t, m.NeedRewrite())
	require.Equal(t, measure.AggFuncNone, m.RewriteAggFuncClass())
	require.False(t, m.IsMemoryHungry())
}

func TestIngest(t *testing.T) {
	m, _ := NewMeasureType(FuncName, types.Type{Name: TypeName, Precision: 4})
	in := m.NewIngester()

	v, err := in.Ingest([]string{"host"})
	require.NoError(t, err)
	require.Equal(t, []byte("host"), v)

	v, err = in.Ingest([]string{"truncated"})
	require.NoError(t, err)
	require.Equal(t, []byte("trun"), v)

	v, err = in.Ingest([]string{""})
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = in.Ingest([]string{"a", "b"})
	require.Error(t, err)
}

func TestAggregateConflictCollapses(t *testing.T) {
	agg := &Aggregator{}
	agg.Aggregate([]byte("x"))
	agg.Aggregate([]byte("x"))
	require.Equal(t, []byte("x"), agg.State())

	agg.Aggregate([]byte("y"))
	require.Nil(t, agg.State())

	// once null, the cell stays null
	agg.Aggregate([]byte("x"))
	require.Nil(t, agg.State())

	agg.Reset()
	agg.Aggregate([]byte(nil))
	agg.Aggregate([]byte("x"))
	require.Nil(t, agg.State())
}

func TestSerializer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Serializer{}.Serialize(&buf, []byte("v1")))
	require.NoError(t, Serializer{}.Serialize(&buf, []byte(nil)))

	v, left, err := Serializer{}.Deserialize(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)

	v, left, err = Serializer{}.Deserialize(left)
	require.NoError(t, err)
	require.Nil(t, v)
	require.Empty(t, left)

	_, _, err = Serializer{}.Deserialize([]byte{1})
	require.Error(t, err)
}
