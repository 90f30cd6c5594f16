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

package types

import (
	"io"
	"sync"

	"github.com/galenadb/galena/pkg/common/gerr"
)

// Serializer encodes one aggregation value of a data type. Implementations
// are stateless and safe for concurrent use.
//
// Deserialize consumes its value from the head of data and returns the
// remaining bytes; bytes in data are allowed to be referenced directly by
// the returned value.
type Serializer interface {
	Serialize(w io.Writer, v any) error
	Deserialize(data []byte) (v any, left []byte, err error)
}

var (
	serializerMu sync.RWMutex
	serializers  = map[string]Serializer{
		"bigint": Int64Serializer{},
		"double": Float64Serializer{},
	}
)

// RegisterSerializer binds s to the root type name. Re-registering a name
// replaces the previous binding.
func RegisterSerializer(name string, s Serializer) {
	serializerMu.Lock()
	defer serializerMu.Unlock()
	serializers[name] = s
}

func GetSerializer(name string) (Serializer, error) {
	serializerMu.RLock()
	defer serializerMu.RUnlock()
	s, ok := serializers[name]
	if !ok {
		return nil, gerr.NewSerializerNotFoundNoCtx(name)
	}
	return s, nil
}

// Int64Serializer serializes int64 aggregation values.
type Int64Serializer struct{}

func (Int64Serializer) Serialize(w io.Writer, v any) error {
	x, ok := v.(int64)
	if !ok {
		return gerr.NewInternalErrorNoCtx("serialize bigint: unexpected value %T", v)
	}
	_, err := w.Write(EncodeInt64(x))
	return err
}

func (Int64Serializer) Deserialize(data []byte) (any, []byte, error) {
	if len(data) < 8 {
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize bigint: short buffer")
	}
	return DecodeInt64(data[:8]), data[8:], nil
}

// Float64Serializer serializes float64 aggregation values.
type Float64Serializer struct{}

func (Float64Serializer) Serialize(w io.Writer, v any) error {
	x, ok := v.(float64)
	if !ok {
		return gerr.NewInternalErrorNoCtx("serialize double: unexpected value %T", v)
	}
	_, err := w.Write(EncodeFloat64(x))
	return err
}

func (Float64Serializer) Deserialize(data []byte) (any, []byte, error) {
	if len(data) < 8 {
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize double: short buffer")
	}
	return DecodeFloat64(data[:8]), data[8:], nil
}
