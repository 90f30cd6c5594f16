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

package config

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/galenadb/galena/pkg/common/gerr"
	"github.com/galenadb/galena/pkg/logutil"
)

// Config is the process configuration, decoded from a single toml file.
type Config struct {
	//log configuration
	Log logutil.LogConfig `toml:"log"`

	//measure subsystem parameters
	Measure MeasureParameters `toml:"measure"`
}

// MeasureParameters tunes the measure provider registry.
type MeasureParameters struct {
	//builtin measure kinds excluded from the registry, named by their
	//aggregation data type: hllc, bitmap, topn, raw, extendedcolumn.
	//default: empty, every builtin enabled
	Disabled []string `toml:"disabled"`
}

// IsDisabled reports whether the kind with the given aggregation
// data-type name is configured off.
func (mp *MeasureParameters) IsDisabled(dataTypeName string) bool {
	for _, name := range mp.Disabled {
		if strings.EqualFold(name, dataTypeName) {
			return true
		}
	}
	return false
}

func (c *Config) SetDefaultValues() {
	c.Log.SetDefaultValues()
}

// LoadConfig decodes the toml file at path and fills in defaults for
// everything the file leaves unset.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, gerr.NewBadConfigNoCtx("decode config file %s: %v", path, err)
	}
	cfg.SetDefaultValues()
	return cfg, nil
}
