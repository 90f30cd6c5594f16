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

package hllc

import (
	"io"

	hll "github.com/axiomhq/hyperloglog"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
)

// Serializer frames one sketch as a length-prefixed binary blob.
type Serializer struct{}

func (Serializer) Serialize(w io.Writer, v any) error {
	sk, ok := v.(*hll.Sketch)
	if !ok {
		return gerr.NewInternalErrorNoCtx("serialize hllc: unexpected value %T", v)
	}
	buf, err := sk.MarshalBinary()
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
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize hllc: short buffer")
	}
	n := types.DecodeUint32(data[:4])
	data = data[4:]
	if uint32(len(data)) < n {
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize hllc: short buffer")
	}
	sk := hll.New()
	if err := sk.UnmarshalBinary(data[:n]); err != nil {
		return nil, nil, err
	}
	return sk, data[n:], nil
}
