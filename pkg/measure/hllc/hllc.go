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

// Package hllc implements the approximate COUNT_DISTINCT measure backed
// by HyperLogLog sketches.
package hllc

import (
	hll "github.com/axiomhq/hyperloglog"
	"github.com/fagongzi/util/hack"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
)

const (
	FuncName = "COUNT_DISTINCT"
	TypeName = "hllc"

	// DefaultPrecision is the sketch precision used when the type leaves
	// it unset.
	DefaultPrecision = 14

	minPrecision = 10
	maxPrecision = 16
)

type MeasureType struct {
	typ types.Type
}

// NewMeasureType builds the hllc handle. A zero dataType is legal and
// skips parameter validation; it marks a handle resolved before the cube
// definition fixed a column type.
func NewMeasureType(funcName string, dataType types.Type) (*MeasureType, error) {
	if !dataType.IsZero() && dataType.Precision != 0 {
		if dataType.Precision < minPrecision || dataType.Precision > maxPrecision {
			return nil, gerr.NewInvalidArgNoCtx("hllc precision", dataType.Precision)
		}
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
	return measure.AggFuncCountDistinct
}

func (m *MeasureType) NewAggregator() measure.Aggregator {
	return &Aggregator{precision: m.precision(), sk: hll.New()}
}

func (m *MeasureType) NewIngester() measure.Ingester {
	return &Ingester{}
}

func (m *MeasureType) IsMemoryHungry() bool {
	return true
}

func (m *MeasureType) precision() int32 {
	if m.typ.Precision != 0 {
		return m.typ.Precision
	}
	return DefaultPrecision
}

// Aggregator merges sketches produced by ingestion or read back from
// storage.
type Aggregator struct {
	precision int32
	sk        *hll.Sketch
}

func (a *Aggregator) Reset() {
	a.sk = hll.New()
}

func (a *Aggregator) Aggregate(v any) {
	sk, ok := v.(*hll.Sketch)
	if !ok {
		panic(gerr.NewInternalErrorNoCtx("aggregate hllc: unexpected value %T", v))
	}
	if err := a.sk.Merge(sk); err != nil {
		panic(gerr.NewInternalErrorNoCtx("aggregate hllc: %v", err))
	}
}

func (a *Aggregator) State() any {
	return a.sk
}

func (a *Aggregator) Size() int {
	// register array dominates the sketch footprint
	return 1 << a.precision
}

// Estimate returns the current approximate distinct count.
func (a *Aggregator) Estimate() uint64 {
	return a.sk.Estimate()
}

// Ingester hashes one row's values into a fresh sketch.
type Ingester struct{}

func (in *Ingester) Ingest(values []string) (any, error) {
	sk := hll.New()
	for _, v := range values {
		if v == "" {
			continue
		}
		sk.Insert(hack.Slice(v))
	}
	return sk, nil
}

func (in *Ingester) Reset() {}
