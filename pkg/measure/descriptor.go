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

package measure

import (
	"fmt"

	"github.com/galenadb/galena/pkg/container/types"
)

// Kind tags the closed set of measure providers the resolver can build.
type Kind uint8

const (
	KindBasic Kind = iota
	KindHLLC
	KindBitmap
	KindTopN
	KindRaw
	KindExtendedColumn
	KindDimCountDistinct
)

func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindHLLC:
		return "hllc"
	case KindBitmap:
		return "bitmap"
	case KindTopN:
		return "topn"
	case KindRaw:
		return "raw"
	case KindExtendedColumn:
		return "extendedcolumn"
	case KindDimCountDistinct:
		return "dim_count_distinct"
	}
	return "unknown"
}

// Descriptor declares one provider to the registry: which kind backs it,
// the aggregation function it claims and the return data type it yields.
// FunctionName must be entirely upper case and DataTypeName entirely
// lower case. Descriptors are immutable once handed to a registry.
type Descriptor struct {
	Kind         Kind
	FunctionName string
	DataTypeName string
	Serializer   types.Serializer
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s(%s)", d.FunctionName, d.DataTypeName)
}
