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

package raw

import (
	"io"

	"github.com/pierrec/lz4"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
)

// Serializer packs the value list into one length-prefixed payload and
// lz4-compresses it. An incompressible payload is stored verbatim with a
// zero compressed length.
type Serializer struct{}

func (Serializer) Serialize(w io.Writer, v any) error {
	vs, ok := v.([][]byte)
	if !ok {
		return gerr.NewInternalErrorNoCtx("serialize raw: unexpected value %T", v)
	}

	sz := 0
	for _, b := range vs {
		sz += 4 + len(b)
	}
	payload := make([]byte, 0, sz)
	for _, b := range vs {
		payload = append(payload, types.EncodeUint32(uint32(len(b)))...)
		payload = append(payload, b...)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
	n, err := lz4.CompressBlock(payload, compressed, nil)
	if err != nil {
		return err
	}

	if _, err := w.Write(types.EncodeUint32(uint32(len(payload)))); err != nil {
		return err
	}
	if _, err := w.Write(types.EncodeUint32(uint32(n))); err != nil {
		return err
	}
	if n == 0 {
		// incompressible, stored verbatim
		_, err = w.Write(payload)
		return err
	}
	_, err = w.Write(compressed[:n])
	return err
}

func (Serializer) Deserialize(data []byte) (any, []byte, error) {
	if len(data) < 8 {
		return nil, nil, gerr.NewInternalErrorNoCtx("deserialize raw: short buffer")
	}
	origLen := types.DecodeUint32(data[:4])
	compLen := types.DecodeUint32(data[4:8])
	data = data[8:]

	var payload []byte
	if compLen == 0 {
		if uint32(len(data)) < origLen {
			return nil, nil, gerr.NewInternalErrorNoCtx("deserialize raw: short buffer")
		}
		payload = data[:origLen]
		data = data[origLen:]
	} else {
		if uint32(len(data)) < compLen {
			return nil, nil, gerr.NewInternalErrorNoCtx("deserialize raw: short buffer")
		}
		payload = make([]byte, origLen)
		if _, err := lz4.UncompressBlock(data[:compLen], payload); err != nil {
			return nil, nil, err
		}
		data = data[compLen:]
	}

	var vs [][]byte
	for len(payload) > 0 {
		if len(payload) < 4 {
			return nil, nil, gerr.NewInternalErrorNoCtx("deserialize raw: corrupt payload")
		}
		n := types.DecodeUint32(payload[:4])
		payload = payload[4:]
		if uint32(len(payload)) < n {
			return nil, nil, gerr.NewInternalErrorNoCtx("deserialize raw: corrupt payload")
		}
		vs = append(vs, payload[:n])
		payload = payload[n:]
	}
	return vs, data, nil
}
