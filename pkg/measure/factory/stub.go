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
	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/measure"
)

// needRewriteOnly is the handle returned when resolution runs before the
// data type is known. The only question answerable at that stage is
// whether the function needs query rewriting, taken as the consensus of
// every candidate provider probed with the zero type. Everything else
// panics.
type needRewriteOnly struct {
	funcName    string
	needRewrite bool
	resolved    bool
}

func newNeedRewriteOnly(funcName string, candidates []measure.Descriptor) (measure.MeasureType, error) {
	stub := &needRewriteOnly{funcName: funcName}
	for _, d := range candidates {
		m, err := build(d, funcName, types.Type{})
		if err != nil {
			return nil, err
		}
		b := m.NeedRewrite()
		if !stub.resolved {
			stub.needRewrite = b
			stub.resolved = true
			continue
		}
		if stub.needRewrite != b {
			return nil, gerr.NewInvalidStateNoCtx("needRewrite of providers %v does not have consensus", candidates)
		}
	}
	return stub, nil
}

func (m *needRewriteOnly) DataType() types.Type {
	panic(gerr.NewNotSupportedNoCtx("DataType on needs-rewrite-only handle for %s", m.funcName))
}

func (m *needRewriteOnly) NeedRewrite() bool {
	if !m.resolved {
		panic(gerr.NewInvalidStateNoCtx("needRewrite of %s is undetermined, no provider was probed", m.funcName))
	}
	return m.needRewrite
}

func (m *needRewriteOnly) RewriteAggFuncClass() measure.AggFuncClass {
	panic(gerr.NewNotSupportedNoCtx("RewriteAggFuncClass on needs-rewrite-only handle for %s", m.funcName))
}

func (m *needRewriteOnly) NewAggregator() measure.Aggregator {
	panic(gerr.NewNotSupportedNoCtx("NewAggregator on needs-rewrite-only handle for %s", m.funcName))
}

func (m *needRewriteOnly) NewIngester() measure.Ingester {
	panic(gerr.NewNotSupportedNoCtx("NewIngester on needs-rewrite-only handle for %s", m.funcName))
}

func (m *needRewriteOnly) IsMemoryHungry() bool {
	panic(gerr.NewNotSupportedNoCtx("IsMemoryHungry on needs-rewrite-only handle for %s", m.funcName))
}
