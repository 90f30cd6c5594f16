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

// Package raw implements the RAW measure: the undigested column values
// of a cube cell, kept so queries can drill back to source detail.
package raw

import (
	"github.com/fagongzi/util/hack"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
)

const (
	FuncName = "RAW"
	TypeName = "raw"
)

type MeasureType struct {
	typ types.Type
}

func NewMeasureType(funcName string, dataType types.Type) (*MeasureType, error) {
	return &MeasureType{typ: dataType}, nil
}

func (m *MeasureType) DataType() types.Type {
	return m.typ
}

func (m *MeasureType) NeedRewrite() bool {
	return true
}

func (m *MeasureType) RewriteAggFuncClass() measure.AggFuncClass {
	return measure.AggFuncRaw
}

func (m *MeasureType) NewAggregator() measure.Aggregator {
	return &Aggregator{}
}

func (m *MeasureType) NewIngester() measure.Ingester {
	return &Ingester{}
}

func (m *MeasureType) IsMemoryHungry() bool {
	return true
}

// Aggregator concatenates raw value lists.
type Aggregator struct {
	vs   [][]byte
	size int
}

func (a *Aggregator) Reset() {
	a.vs = nil
	a.size = 0
}

func (a *Aggregator) Aggregate(v any) {
	vs, ok := v.([][]byte)
	if !ok {
		panic(gerr.NewInternalErrorNoCtx("aggregate raw: unexpected value %T", v))
	}
	a.vs = append(a.vs, vs...)
	for _, b := range vs {
		a.size += len(b)
	}
}

func (a *Aggregator) State() any {
	return a.vs
}

func (a *Aggregator) Size() int {
	return a.size
}

// Ingester keeps one row's non-null values verbatim.
type Ingester struct{}

func (in *Ingester) Ingest(values []string) (any, error) {
	vs := make([][]byte, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		vs = append(vs, hack.Slice(v))
	}
	return vs, nil
}

func (in *Ingester) Reset() {}
