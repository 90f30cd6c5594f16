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

// Package dim implements exact COUNT_DISTINCT over plain dimension
// columns. It backs queries that count a column no declared measure
// covers, so it lives outside the provider registry.
package dim

import (
	"io"
	"sort"

	"github.com/fagongzi/util/hack"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
)

const (
	FuncName = "COUNT_DISTINCT"
	TypeName = "dim_dc"
)

type MeasureType struct {
	typ types.Type
}

// NewMeasureType builds the dimension count-distinct handle. The data
// type is the counted column's own type; a zero value falls back to the
// canonical dim_dc marker.
func NewMeasureType(funcName string, dataType types.Type) (*MeasureType, error) {
	if dataType.IsZero() {
		dataType = types.Type{Name: TypeName}
	}
	return &MeasureType{typ: dataType}, nil
}

func (m *MeasureType) DataType() types.Type {
	return m.typ
}

func (m *MeasureType) NeedRewrite() bool {
	return true
}

func (m *MeasureType) RewriteAggFuncClass() measure.AggFuncClass {
	return measure.AggFuncDimCountDistinct
}

func (m *MeasureType) NewAggregator() measure.Aggregator {
	return &Aggregator{}
}

func (m *MeasureType) NewIngester() measure.Ingester {
	return &Ingester{}
}

func (m *MeasureType) IsMemoryHungry() bool {
	return false
}

// Aggregator unions sets of dimension values and reports the exact
// distinct count.
type Aggregator struct {
	set map[string]struct{}
}

func (a *Aggregator) Reset() {
	a.set = nil
}

func (a *Aggregator) Aggregate(v any) {
	if v == nil {
		return
	}
	vs, ok := v.(map[string]struct{})
	if !ok {
		panic(gerr.NewInternalErrorNoCtx("aggregate dim_dc: unexpected value %T", v))
	}
	if a.set == nil {
		a.set = make(map[string]struct{}, len(vs))
	}
	for s := range vs {
		a.set[s] = struct{}{}
	}
}

func (a *Aggregator) State() any {
	return a.set
}

// Count returns the number of distinct values seen since the last Reset.
func (a *Aggregator) Count() uint64 {
	return uint64(len(a.set))
}

func (a *Aggregator) Size() int {
	n := 0
	for s := range a.set {
		n += 16 + len(s)
	}
	return n
}

// Ingester collects one row's non-null values into a value set.
type Ingester struct{}

func (in *Ingester) Ingest(values []string) (any, error) {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	if len(set) == 0 {
		return nil, nil
	}
	return set, nil
}

func (in *Ingester) Reset() {}

// Serializer frames a value set as a count followed by length-prefixed
// values. Values are sorted so equal sets produce identical bytes.
type Serializer struct{}

func (Serializer) Serialize(w io.Writer, v any) error {
	set, ok := v.(map[string]struct{})
	if !ok {
		return gerr.NewInternalErrorNoCtx("serialize dim_dc: unexpected value %T", v)
	}
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)
	if _, err := w.Write(types.EncodeUint32(uint32(len(items)))); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := w.Write(types.EncodeUint32(uint32(len(item)))); err != nil {
			return err
		}
		if _, err := w.Write(hack.Slice(item)); err != nil {
			return err
		}
	}
	return nil
}

func (Serializer) Deserialize(data []byte) (any, []byte, error) {
	if len(data) < 4 {
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize dim_dc: short buffer")
	}
	n := types.DecodeUint32(data[:4])
	data = data[4:]
	set := make(map[string]struct{}, n)
	for i := uint32(0); i < n; i++ {
		if len(data) < 4 {
			return nil, nil, gerr.NewInternalErrorNoCtx("deserialize dim_dc: short buffer")
		}
		l := types.DecodeUint32(data[:4])
		data = data[4:]
		if uint32(len(data)) < l {
			return nil, nil, gerr.NewInternalErrorNoCtx("deserialize dim_dc: short buffer")
		}
		set[string(data[:l])] = struct{}{}
		data = data[l:]
	}
	return set, data, nil
}
