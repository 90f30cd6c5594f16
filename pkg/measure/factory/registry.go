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

// Package factory resolves an aggregation function and its return data
// type to a measure type handle. A Registry is populated once from
// provider descriptors and never mutated afterwards, so resolution is
// safe for unbounded concurrent callers without locking.
package factory

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/config"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/logutil"
	"github.com/galenadb/galena/pkg/measure"
	"github.com/galenadb/galena/pkg/measure/bitmap"
	"github.com/galenadb/galena/pkg/measure/extendedcolumn"
	"github.com/galenadb/galena/pkg/measure/hllc"
	"github.com/galenadb/galena/pkg/measure/raw"
	"github.com/galenadb/galena/pkg/measure/topn"
)

// builtins is the fixed builtin provider set, in registration order.
var builtins = []measure.Descriptor{
	{Kind: measure.KindHLLC, FunctionName: hllc.FuncName, DataTypeName: hllc.TypeName, Serializer: hllc.Serializer{}},
	{Kind: measure.KindBitmap, FunctionName: bitmap.FuncName, DataTypeName: bitmap.TypeName, Serializer: bitmap.Serializer{}},
	{Kind: measure.KindTopN, FunctionName: topn.FuncName, DataTypeName: topn.TypeName, Serializer: topn.Serializer{}},
	{Kind: measure.KindRaw, FunctionName: raw.FuncName, DataTypeName: raw.TypeName, Serializer: raw.Serializer{}},
	{Kind: measure.KindExtendedColumn, FunctionName: extendedcolumn.FuncName, DataTypeName: extendedcolumn.TypeName, Serializer: extendedcolumn.Serializer{}},
}

// Registry maps upper-cased aggregation function names to the providers
// claiming them, in registration order. A function no provider claims is
// answered by defaults, which holds exactly the basic provider.
type Registry struct {
	factories map[string][]measure.Descriptor
	defaults  []measure.Descriptor
}

// New builds a registry from the given provider descriptors. Each
// provider's data type and serializer are registered as a side effect,
// before any resolution can happen.
func New(descs []measure.Descriptor) (*Registry, error) {
	r := &Registry{
		factories: make(map[string][]measure.Descriptor, len(descs)),
		defaults:  []measure.Descriptor{{Kind: measure.KindBasic}},
	}
	seen := make(map[string]struct{}, len(descs))
	for _, d := range descs {
		if d.FunctionName != strings.ToUpper(d.FunctionName) {
			return nil, gerr.NewBadConfigNoCtx("aggregation function name %q must be in upper case", d.FunctionName)
		}
		if d.DataTypeName != strings.ToLower(d.DataTypeName) {
			return nil, gerr.NewBadConfigNoCtx("aggregation data type name %q must be in lower case", d.DataTypeName)
		}
		if d.Serializer == nil {
			return nil, gerr.NewBadConfigNoCtx("measure provider %s has no serializer", d)
		}
		key := d.FunctionName + "/" + d.DataTypeName
		if _, ok := seen[key]; ok {
			return nil, gerr.NewBadConfigNoCtx("duplicate measure provider %s", d)
		}
		seen[key] = struct{}{}

		types.Register(d.DataTypeName)
		types.RegisterSerializer(d.DataTypeName, d.Serializer)
		r.factories[d.FunctionName] = append(r.factories[d.FunctionName], d)

		logutil.Debug("register measure provider",
			zap.String("function", d.FunctionName),
			zap.String("type", d.DataTypeName),
			zap.String("kind", d.Kind.String()))
	}
	logutil.Info("measure registry initialized", zap.Int("providers", len(descs)))
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the process-wide registry built from the builtin
// providers. The first caller builds it; later calls return the same
// instance.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = New(builtins)
	})
	return defaultRegistry, defaultErr
}

// FromParameters builds a registry of the builtin providers minus the
// kinds the configuration disables.
func FromParameters(params *config.MeasureParameters) (*Registry, error) {
	if params == nil {
		return New(builtins)
	}
	descs := make([]measure.Descriptor, 0, len(builtins))
	for _, d := range builtins {
		if params.IsDisabled(d.DataTypeName) {
			logutil.Info("measure provider disabled by configuration", zap.String("provider", d.String()))
			continue
		}
		descs = append(descs, d)
	}
	return New(descs)
}
