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

// galena resolves an aggregation function and data type against the
// measure provider registry and reports the handle's capabilities. With
// only a function name it runs the early-planning path, where the data
// type is not yet known.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/galenadb/galena/pkg/config"
	"github.com/galenadb/galena/pkg/container/types"
	"github.com/galenadb/galena/pkg/logutil"
	"github.com/galenadb/galena/pkg/measure"
	"github.com/galenadb/galena/pkg/measure/factory"
)

var cfgFile = flag.String("cfg", "", "path of the toml configuration file")

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		usage()
		os.Exit(-1)
	}

	reg, err := newRegistry(*cfgFile)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 1 {
		m, err := reg.CreateWithType(args[0], types.Type{})
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("function:    %s\n", strings.ToUpper(args[0]))
		fmt.Printf("needRewrite: %v\n", m.NeedRewrite())
		return
	}

	m, err := reg.Create(args[0], args[1])
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	report(args[0], m)
}

func newRegistry(cfgFile string) (*factory.Registry, error) {
	if cfgFile == "" {
		cfg := &config.Config{}
		cfg.SetDefaultValues()
		logutil.SetupGalenaLogger(&cfg.Log)
		return factory.Default()
	}
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	logutil.SetupGalenaLogger(&cfg.Log)
	return factory.FromParameters(&cfg.Measure)
}

func report(funcName string, m measure.MeasureType) {
	fmt.Printf("function:      %s\n", strings.ToUpper(funcName))
	fmt.Printf("data type:     %s\n", m.DataType())
	fmt.Printf("needRewrite:   %v\n", m.NeedRewrite())
	fmt.Printf("rewrite class: %s\n", m.RewriteAggFuncClass())
	fmt.Printf("memory hungry: %v\n", m.IsMemoryHungry())
	if s, err := types.GetSerializer(m.DataType().Name); err == nil {
		fmt.Printf("serializer:    %T\n", s)
	}
}

func usage() {
	fmt.Printf("Usage: %s [-cfg configFile] function [datatype]\n", os.Args[0])
}
