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

package factory

import (
	"strings"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
	"github.com/galenadb/galena/pkg/measure/basic"
	"github.com/galenadb/galena/pkg/measure/bitmap"
	"github.com/galenadb/galena/pkg/measure/dim"
	"github.com/galenadb/galena/pkg/measure/extendedcolumn"
	"github.com/galenadb/galena/pkg/measure/hllc"
	"github.com/galenadb/galena/pkg/measure/raw"
	"github.com/galenadb/galena/pkg/measure/topn"
)

// Create resolves funcName over the data type named by its literal, such
// as "hllc(12)" or "bigint". The literal's root name must be registered.
func (r *Registry) Create(funcName, dataTypeName string) (measure.MeasureType, error) {
	t, err := types.TypeOf(dataTypeName)
	if err != nil {
		return nil, err
	}
	return r.CreateWithType(funcName, t)
}

// CreateWithType resolves funcName over dataType. Function matching is
// case-insensitive. A zero dataType marks resolution running before
// column types are known and yields a deferred handle that answers
// NeedRewrite only.
func (r *Registry) CreateWithType(funcName string, dataType types.Type) (measure.MeasureType, error) {
	funcName = strings.ToUpper(funcName)

	candidates := r.factories[funcName]
	if len(candidates) == 0 {
		candidates = r.defaults
	}

	if dataType.IsZero() {
		return newNeedRewriteOnly(funcName, candidates)
	}

	if len(candidates) == 1 {
		return build(candidates[0], funcName, dataType)
	}

	// multiple providers claim the function, the data type tells them apart
	for _, d := range candidates {
		if d.DataTypeName == dataType.Name {
			return build(d, funcName, dataType)
		}
	}
	return nil, gerr.NewInvalidStateNoCtx("no measure provider for %s over data type %s", funcName, dataType.Name)
}

// CreateNoRewriteFields resolves an aggregation applied to plain
// dimension fields, outside the provider registry. Only COUNT_DISTINCT
// has such a variant.
func (r *Registry) CreateNoRewriteFields(funcName string, dataType types.Type) (measure.MeasureType, error) {
	if strings.EqualFold(funcName, dim.FuncName) {
		return dim.NewMeasureType(funcName, dataType)
	}
	return nil, gerr.NewNotSupportedNoCtx("no measure type for %s over dimension fields", funcName)
}

// build constructs the concrete handle for one provider. Constructors
// validate their parameterized type only when dataType is non-zero, so
// probing may pass the zero type.
func build(d measure.Descriptor, funcName string, dataType types.Type) (measure.MeasureType, error) {
	switch d.Kind {
	case measure.KindBasic:
		return basic.NewMeasureType(funcName, dataType)
	case measure.KindHLLC:
		return hllc.NewMeasureType(funcName, dataType)
	case measure.KindBitmap:
		return bitmap.NewMeasureType(funcName, dataType)
	case measure.KindTopN:
		return topn.NewMeasureType(funcName, dataType)
	case measure.KindRaw:
		return raw.NewMeasureType(funcName, dataType)
	case measure.KindExtendedColumn:
		return extendedcolumn.NewMeasureType(funcName, dataType)
	case measure.KindDimCountDistinct:
		return dim.NewMeasureType(funcName, dataType)
	default:
		return nil, gerr.NewInternalErrorNoCtx("unknown measure kind %s", d.Kind)
	}
}
