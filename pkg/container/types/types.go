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
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/galenadb/galena/pkg/common/gerr"
)

// Type is a parsed data type. The zero value (empty Name) stands for a
// type that is not yet known, which column-independent callers use while
// a cube definition is still being assembled.
type Type struct {
	Name      string
	Precision int32
	Scale     int32
}

func (t Type) IsZero() bool {
	return t.Name == ""
}

func (t Type) String() string {
	if t.Scale > 0 {
		return fmt.Sprintf("%s(%d,%d)", t.Name, t.Precision, t.Scale)
	}
	if t.Precision > 0 {
		return fmt.Sprintf("%s(%d)", t.Name, t.Precision)
	}
	return t.Name
}

func (t Type) Eq(other Type) bool {
	return t.Name == other.Name && t.Precision == other.Precision && t.Scale == other.Scale
}

var (
	rootMu    sync.RWMutex
	rootNames = map[string]struct{}{
		"boolean":   {},
		"tinyint":   {},
		"smallint":  {},
		"int":       {},
		"integer":   {},
		"bigint":    {},
		"float":     {},
		"double":    {},
		"decimal":   {},
		"char":      {},
		"varchar":   {},
		"date":      {},
		"datetime":  {},
		"timestamp": {},
	}
)

// Register makes name a legal root type name. Registering an already
// known name is a no-op.
func Register(name string) {
	rootMu.Lock()
	defer rootMu.Unlock()
	rootNames[name] = struct{}{}
}

func IsRegistered(name string) bool {
	rootMu.RLock()
	defer rootMu.RUnlock()
	_, ok := rootNames[name]
	return ok
}

// TypeOf parses a type literal such as "bigint", "hllc(12)" or
// "decimal(19,4)". The root name must have been registered.
func TypeOf(literal string) (Type, error) {
	t, err := parse(literal)
	if err != nil {
		return Type{}, err
	}
	if !IsRegistered(t.Name) {
		return Type{}, gerr.NewTypeNotFoundNoCtx(t.Name)
	}
	return t, nil
}

// MustTypeOf is TypeOf for literals known to be valid.
func MustTypeOf(literal string) Type {
	t, err := TypeOf(literal)
	if err != nil {
		panic(err)
	}
	return t
}

func parse(literal string) (Type, error) {
	s := strings.ToLower(strings.TrimSpace(literal))
	if s == "" {
		return Type{}, gerr.NewInvalidArgNoCtx("data type literal", literal)
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return Type{Name: s}, nil
	}
	if open == 0 || !strings.HasSuffix(s, ")") {
		return Type{}, gerr.NewInvalidArgNoCtx("data type literal", literal)
	}
	t := Type{Name: s[:open]}
	for i, part := range strings.Split(s[open+1:len(s)-1], ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return Type{}, gerr.NewInvalidArgNoCtx("data type literal", literal)
		}
		switch i {
		case 0:
			t.Precision = int32(n)
		case 1:
			t.Scale = int32(n)
		default:
			return Type{}, gerr.NewInvalidArgNoCtx("data type literal", literal)
		}
	}
	return t, nil
}
