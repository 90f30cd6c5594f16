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

// Package basic implements the fallback measure type serving every
// aggregation function no dedicated provider claims. Plain SUM, COUNT,
// MAX and MIN over scalar types resolve here.
package basic

import (
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
)

const (
	FuncSum   = "SUM"
	FuncCount = "COUNT"
	FuncMax   = "MAX"
	FuncMin   = "MIN"
)

type MeasureType struct {
	funcName string
	typ      types.Type
}

// NewMeasureType accepts any function name; resolution through the
// fallback must not fail. Functions without an aggregator implementation
// fail later, when one is requested.
func NewMeasureType(funcName string, dataType types.Type) (*MeasureType, error) {
	return &MeasureType{funcName: funcName, typ: dataType}, nil
}

func (m *MeasureType) DataType() types.Type {
	return m.typ
}

// NeedRewrite reports true for everything but plain COUNT, which query
// engines already evaluate natively.
func (m *MeasureType) NeedRewrite() bool {
	return m.funcName != FuncCount
}

func (m *MeasureType) RewriteAggFuncClass() measure.AggFuncClass {
	return measure.AggFuncNone
}

func (m *MeasureType) NewAggregator() measure.Aggregator {
	agg, err := newAggregator(m.funcName, m.typ)
	if err != nil {
		panic(err)
	}
	return agg
}

func (m *MeasureType) NewIngester() measure.Ingester {
	return &Ingester{funcName: m.funcName, typ: m.typ}
}

func (m *MeasureType) IsMemoryHungry() bool {
	return false
}

func isIntegerFamily(name string) bool {
	switch name {
	case "tinyint", "smallint", "int", "integer", "bigint":
		return true
	}
	return false
}

func isFloatFamily(name string) bool {
	switch name {
	// decimal values aggregate as float64 here
	case "float", "double", "decimal":
		return true
	}
	return false
}
