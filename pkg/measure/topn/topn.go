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

// Package topn implements the TOP_N measure: a capacity-bounded counter
// of the heaviest items per cube cell, queried without rewriting the
// aggregation call.
package topn

import (
	"io"
	"strconv"

	"github.com/google/btree"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
)

const (
	FuncName = "TOP_N"
	TypeName = "topn"

	// DefaultN is the result size used when the type leaves it unset.
	DefaultN = 100

	// spaceSavingRatio scales the counter capacity over the result size
	// so boundary counts stay usable after pruning.
	spaceSavingRatio = 50
)

type MeasureType struct {
	typ types.Type
}

func NewMeasureType(funcName string, dataType types.Type) (*MeasureType, error) {
	if !dataType.IsZero() && dataType.Precision < 0 {
		return nil, gerr.NewInvalidArgNoCtx("topn result size", dataType.Precision)
	}
	return &MeasureType{typ: dataType}, nil
}

func (m *MeasureType) DataType() types.Type {
	return m.typ
}

func (m *MeasureType) NeedRewrite() bool {
	return false
}

func (m *MeasureType) RewriteAggFuncClass() measure.AggFuncClass {
	return measure.AggFuncNone
}

func (m *MeasureType) NewAggregator() measure.Aggregator {
	return &Aggregator{capacity: m.capacity()}
}

func (m *MeasureType) NewIngester() measure.Ingester {
	return &Ingester{capacity: m.capacity()}
}

func (m *MeasureType) IsMemoryHungry() bool {
	return true
}

func (m *MeasureType) capacity() int {
	n := int(m.typ.Precision)
	if n == 0 {
		n = DefaultN
	}
	return n * spaceSavingRatio
}

// Aggregator merges counters.
type Aggregator struct {
	capacity int
	counter  *Counter
}

func (a *Aggregator) Reset() {
	a.counter = nil
}

func (a *Aggregator) Aggregate(v any) {
	c, ok := v.(*Counter)
	if !ok {
		panic(gerr.NewInternalErrorNoCtx("aggregate topn: unexpected value %T", v))
	}
	if a.counter == nil {
		a.counter = NewCounter(a.capacity)
	}
	a.counter.Merge(c)
}

func (a *Aggregator) State() any {
	if a.counter == nil {
		a.counter = NewCounter(a.capacity)
	}
	return a.counter
}

func (a *Aggregator) Size() int {
	if a.counter == nil {
		return 0
	}
	return a.counter.Bytes()
}

// Ingester turns one row into a single-entry counter. Rows carry either
// [item] with an implicit weight of 1 or [weight, item].
type Ingester struct {
	capacity int
}

func (in *Ingester) Ingest(values []string) (any, error) {
	c := NewCounter(in.capacity)
	switch len(values) {
	case 1:
		if values[0] != "" {
			c.Add(values[0], 1)
		}
	case 2:
		if values[1] == "" {
			break
		}
		weight, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			return nil, gerr.NewInvalidInputNoCtx("topn weight %q is not a number", values[0])
		}
		c.Add(values[1], weight)
	default:
		return nil, gerr.NewInvalidInputNoCtx("topn expects [item] or [weight, item], got %d values", len(values))
	}
	return c, nil
}

func (in *Ingester) Reset() {}

// Serializer writes a counter as capacity, entry count, then
// (item, count) pairs in ascending count order.
type Serializer struct{}

func (Serializer) Serialize(w io.Writer, v any) error {
	c, ok := v.(*Counter)
	if !ok {
		return gerr.NewInternalErrorNoCtx("serialize topn: unexpected value %T", v)
	}
	if _, err := w.Write(types.EncodeUint32(uint32(c.capacity))); err != nil {
		return err
	}
	if _, err := w.Write(types.EncodeUint32(uint32(c.Len()))); err != nil {
		return err
	}
	var werr error
	c.tree.Ascend(func(i btree.Item) bool {
		e := i.(*entry)
		if _, werr = w.Write(types.EncodeUint32(uint32(len(e.item)))); werr != nil {
			return false
		}
		if _, werr = io.WriteString(w, e.item); werr != nil {
			return false
		}
		_, werr = w.Write(types.EncodeFloat64(e.count))
		return werr == nil
	})
	return werr
}

func (Serializer) Deserialize(data []byte) (any, []byte, error) {
	if len(data) < 8 {
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize topn: short buffer")
	}
	capacity := types.DecodeUint32(data[:4])
	n := types.DecodeUint32(data[4:8])
	data = data[8:]
	c := NewCounter(int(capacity))
	for ; n > 0; n-- {
		if len(data) < 4 {
			return nil, nil, gerr.NewInternalErrorNoCtx("deserialize topn: short buffer")
		}
		sz := types.DecodeUint32(data[:4])
		data = data[4:]
		if uint64(len(data)) < uint64(sz)+8 {
			return nil, nil, gerr.NewInternalErrorNoCtx("deserialize topn: short buffer")
		}
		item := string(data[:sz])
		data = data[sz:]
		c.Add(item, types.DecodeFloat64(data[:8]))
		data = data[8:]
	}
	return c, data, nil
}
