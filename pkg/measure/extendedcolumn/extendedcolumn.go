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

// Package extendedcolumn implements the EXTENDED_COLUMN measure: a
// column value carried alongside a host dimension. Two different values
// meeting under one cell break the assumed functional dependency, and
// the cell collapses to null rather than erroring.
package extendedcolumn

import (
	"bytes"
	"io"
	"math"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
)

const (
	FuncName = "EXTENDED_COLUMN"
	TypeName = "extendedcolumn"

	// DefaultMaxLength bounds stored values when the type leaves it unset.
	DefaultMaxLength = 256
)

type MeasureType struct {
	typ types.Type
}

func NewMeasureType(funcName string, dataType types.Type) (*MeasureType, error) {
	if !dataType.IsZero() && dataType.Precision < 0 {
		return nil, gerr.NewInvalidArgNoCtx("extendedcolumn max length", dataType.Precision)
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
	return &Aggregator{}
}

func (m *MeasureType) NewIngester() measure.Ingester {
	return &Ingester{maxLength: m.maxLength()}
}

func (m *MeasureType) IsMemoryHungry() bool {
	return false
}

func (m *MeasureType) maxLength() int {
	if m.typ.Precision > 0 {
		return int(m.typ.Precision)
	}
	return DefaultMaxLength
}

// Aggregator keeps the single value of a cell, or nil once values
// conflict.
type Aggregator struct {
	v    []byte
	seen bool
}

func (a *Aggregator) Reset() {
	a.v = nil
	a.seen = false
}

func (a *Aggregator) Aggregate(v any) {
	b, ok := v.([]byte)
	if !ok && v != nil {
		panic(gerr.NewInternalErrorNoCtx("aggregate extendedcolumn: unexpected value %T", v))
	}
	if !a.seen {
		a.v = b
		a.seen = true
		return
	}
	if a.v == nil || b == nil || !bytes.Equal(a.v, b) {
		a.v = nil
	}
}

func (a *Aggregator) State() any {
	return a.v
}

func (a *Aggregator) Size() int {
	return len(a.v)
}

// Ingester truncates one row's host value to the configured length.
type Ingester struct {
	maxLength int
}

func (in *Ingester) Ingest(values []string) (any, error) {
	if len(values) != 1 {
		return nil, gerr.NewInvalidInputNoCtx("extendedcolumn expects one value, got %d", len(values))
	}
	if values[0] == "" {
		return []byte(nil), nil
	}
	b := []byte(values[0])
	if len(b) > in.maxLength {
		b = b[:in.maxLength]
	}
	return b, nil
}

func (in *Ingester) Reset() {}

// nullLength marks a null value on the wire.
const nullLength = math.MaxUint32

// Serializer writes the value as length-prefixed bytes with a reserved
// length marking null.
type Serializer struct{}

func (Serializer) Serialize(w io.Writer, v any) error {
	b, ok := v.([]byte)
	if !ok && v != nil {
		return gerr.NewInternalErrorNoCtx("serialize extendedcolumn: unexpected value %T", v)
	}
	if b == nil {
		_, err := w.Write(types.EncodeUint32(nullLength))
		return err
	}
	if _, err := w.Write(types.EncodeUint32(uint32(len(b)))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func (Serializer) Deserialize(data []byte) (any, []byte, error) {
	if len(data) < 4 {
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize extendedcolumn: short buffer")
	}
	n := types.DecodeUint32(data[:4])
	data = data[4:]
	if n == nullLength {
		return []byte(nil), data, nil
	}
	if uint32(len(data)) < n {
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize extendedcolumn: short buffer")
	}
	return data[:n], data[n:], nil
}
