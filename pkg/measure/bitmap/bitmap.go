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

// Package bitmap implements the exact COUNT_DISTINCT measure backed by
// roaring bitmaps. Ingested values must be integers representable in
// 32 bits.
package bitmap

import (
	"io"
	"math"
	"strconv"

	"github.com/RoaringBitmap/roaring"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
)

const (
	FuncName = "COUNT_DISTINCT"
	TypeName = "bitmap"
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
	return measure.AggFuncBitmapCountDistinct
}

func (m *MeasureType) NewAggregator() measure.Aggregator {
	return &Aggregator{bmp: roaring.New()}
}

func (m *MeasureType) NewIngester() measure.Ingester {
	return &Ingester{}
}

func (m *MeasureType) IsMemoryHungry() bool {
	return true
}

// Aggregator ors bitmaps together.
type Aggregator struct {
	bmp *roaring.Bitmap
}

func (a *Aggregator) Reset() {
	a.bmp = roaring.New()
}

func (a *Aggregator) Aggregate(v any) {
	bmp, ok := v.(*roaring.Bitmap)
	if !ok {
		panic(gerr.NewInternalErrorNoCtx("aggregate bitmap: unexpected value %T", v))
	}
	a.bmp.Or(bmp)
}

func (a *Aggregator) State() any {
	return a.bmp
}

func (a *Aggregator) Size() int {
	return int(a.bmp.GetSizeInBytes())
}

// Cardinality returns the exact distinct count accumulated so far.
func (a *Aggregator) Cardinality() uint64 {
	return a.bmp.GetCardinality()
}

// Ingester parses one row's values as 32 bit integers into a fresh
// bitmap.
type Ingester struct{}

func (in *Ingester) Ingest(values []string) (any, error) {
	bmp := roaring.New()
	for _, v := range values {
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, gerr.NewInvalidInputNoCtx("bitmap value %q is not an integer", v)
		}
		if n < 0 || n > math.MaxUint32 {
			return nil, gerr.NewOutOfRangeNoCtx(TypeName, "value %d", n)
		}
		bmp.Add(uint32(n))
	}
	return bmp, nil
}

func (in *Ingester) Reset() {}

// Serializer frames one bitmap as a length-prefixed binary blob.
type Serializer struct{}

func (Serializer) Serialize(w io.Writer, v any) error {
	bmp, ok := v.(*roaring.Bitmap)
	if !ok {
		return gerr.NewInternalErrorNoCtx("serialize bitmap: unexpected value %T", v)
	}
	buf, err := bmp.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(types.EncodeUint32(uint32(len(buf)))); err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func (Serializer) Deserialize(data []byte) (any, []byte, error) {
	if len(data) < 4 {
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize bitmap: short buffer")
	}
	n := types.DecodeUint32(data[:4])
	data = data[4:]
	if uint32(len(data)) < n {
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize bitmap: short buffer")
	}
	bmp := roaring.New()
	if err := bmp.UnmarshalBinary(data[:n]); err != nil {
		return nil, nil, err
	}
	return bmp, data[n:], nil
}
