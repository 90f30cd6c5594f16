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
	"strconv"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
)

func newAggregator(funcName string, typ types.Type) (measure.Aggregator, error) {
	if funcName == FuncCount {
		return &countAggregator{}, nil
	}
	if isIntegerFamily(typ.Name) {
		switch funcName {
		case FuncSum:
			return &int64Aggregator{fold: func(a, b int64) int64 { return a + b }}, nil
		case FuncMax:
			return &int64Aggregator{fold: maxInt64}, nil
		case FuncMin:
			return &int64Aggregator{fold: minInt64}, nil
		}
	}
	if isFloatFamily(typ.Name) {
		switch funcName {
		case FuncSum:
			return &float64Aggregator{fold: func(a, b float64) float64 { return a + b }}, nil
		case FuncMax:
			return &float64Aggregator{fold: maxFloat64}, nil
		case FuncMin:
			return &float64Aggregator{fold: minFloat64}, nil
		}
	}
	return nil, gerr.NewNotSupportedNoCtx("aggregator for %s over %s", funcName, typ.Name)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

type countAggregator struct {
	n int64
}

func (a *countAggregator) Reset() { a.n = 0 }

func (a *countAggregator) Aggregate(v any) {
	if v == nil {
		return
	}
	n, ok := v.(int64)
	if !ok {
		panic(gerr.NewInternalErrorNoCtx("aggregate count: unexpected value %T", v))
	}
	a.n += n
}

func (a *countAggregator) State() any { return a.n }

func (a *countAggregator) Size() int { return 8 }

type int64Aggregator struct {
	fold func(a, b int64) int64
	v    int64
	seen bool
}

func (a *int64Aggregator) Reset() {
	a.v = 0
	a.seen = false
}

func (a *int64Aggregator) Aggregate(v any) {
	if v == nil {
		return
	}
	n, ok := v.(int64)
	if !ok {
		panic(gerr.NewInternalErrorNoCtx("aggregate bigint: unexpected value %T", v))
	}
	if !a.seen {
		a.v = n
		a.seen = true
		return
	}
	a.v = a.fold(a.v, n)
}

func (a *int64Aggregator) State() any { return a.v }

func (a *int64Aggregator) Size() int { return 8 }

type float64Aggregator struct {
	fold func(a, b float64) float64
	v    float64
	seen bool
}

func (a *float64Aggregator) Reset() {
	a.v = 0
	a.seen = false
}

func (a *float64Aggregator) Aggregate(v any) {
	if v == nil {
		return
	}
	f, ok := v.(float64)
	if !ok {
		panic(gerr.NewInternalErrorNoCtx("aggregate double: unexpected value %T", v))
	}
	if !a.seen {
		a.v = f
		a.seen = true
		return
	}
	a.v = a.fold(a.v, f)
}

func (a *float64Aggregator) State() any { return a.v }

func (a *float64Aggregator) Size() int { return 8 }

// Ingester parses one row's value into the scalar the aggregators fold.
type Ingester struct {
	funcName string
	typ      types.Type
}

func (in *Ingester) Ingest(values []string) (any, error) {
	if in.funcName == FuncCount {
		// COUNT() counts rows, COUNT(col) counts non-null values
		if len(values) > 0 && values[0] == "" {
			return int64(0), nil
		}
		return int64(1), nil
	}
	if len(values) != 1 {
		return nil, gerr.NewInvalidInputNoCtx("%s expects one value, got %d", in.funcName, len(values))
	}
	if values[0] == "" {
		return nil, nil
	}
	if isIntegerFamily(in.typ.Name) {
		n, err := strconv.ParseInt(values[0], 10, 64)
		if err != nil {
			return nil, gerr.NewInvalidInputNoCtx("%s value %q is not an integer", in.typ.Name, values[0])
		}
		return n, nil
	}
	if isFloatFamily(in.typ.Name) {
		f, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			return nil, gerr.NewInvalidInputNoCtx("%s value %q is not a number", in.typ.Name, values[0])
		}
		return f, nil
	}
	return nil, gerr.NewNotSupportedNoCtx("ingest for %s over %s", in.funcName, in.typ.Name)
}

func (in *Ingester) Reset() {}
