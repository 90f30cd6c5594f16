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

// Package measure defines the contracts between the measure-type registry
// and the concrete aggregation behaviors it dispatches to.
package measure

import (
	"github.com/galenadb/galena/pkg/container/types"
)

// MeasureType is the handle the resolver hands back for one
// (aggregation function, return data type) pair. Handles are cheap,
// stateless and constructed per resolution call.
type MeasureType interface {
	// DataType is the type the handle was resolved for. It is the zero
	// type on handles built before the cube definition fixed a type.
	DataType() types.Type

	// NeedRewrite reports whether queries touching this measure must have
	// their aggregation call substituted before execution.
	NeedRewrite() bool

	// RewriteAggFuncClass names the substituted aggregate implementation.
	// It is AggFuncNone when NeedRewrite is false.
	RewriteAggFuncClass() AggFuncClass

	// NewAggregator returns a fresh accumulator for merge-time work.
	NewAggregator() Aggregator

	// NewIngester returns a fresh converter for build-time work.
	NewIngester() Ingester

	// IsMemoryHungry marks measures whose aggregation values are much
	// larger than plain scalars, so build planning can budget for them.
	IsMemoryHungry() bool
}

// Aggregator accumulates aggregation values of one measure across rows
// or segments. Not safe for concurrent use.
type Aggregator interface {
	Reset()
	// Aggregate merges one aggregation value into the accumulator.
	Aggregate(v any)
	// State returns the current accumulated value.
	State() any
	// Size estimates the bytes held by the accumulator.
	Size() int
}

// Ingester converts one row's raw parameter values into one aggregation
// value. Not safe for concurrent use.
type Ingester interface {
	Ingest(values []string) (any, error)
	Reset()
}

// AggFuncClass is an opaque token naming a rewritten aggregate
// implementation. The planner maps tokens to executable aggregates;
// measure providers never expose implementation identities directly.
type AggFuncClass uint8

const (
	AggFuncNone AggFuncClass = iota
	AggFuncCountDistinct
	AggFuncBitmapCountDistinct
	AggFuncRaw
	AggFuncDimCountDistinct
)

func (c AggFuncClass) String() string {
	switch c {
	case AggFuncNone:
		return "none"
	case AggFuncCountDistinct:
		return "count_distinct"
	case AggFuncBitmapCountDistinct:
		return "bitmap_count_distinct"
	case AggFuncRaw:
		return "raw"
	case AggFuncDimCountDistinct:
		return "dim_count_distinct"
	}
	return "unknown"
}
