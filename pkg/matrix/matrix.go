// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package matrix defines build configurations and their combinatorial
// generation.
//
// A Config is the (key, value, table) triple that uniquely identifies one
// buildable variant of the universal benchmark. All derived names (build
// directory, result file, CMake defines) are pure functions of the triple,
// so repeated campaigns reuse or correctly overwrite prior artifacts.
//
// The naming scheme is load-bearing: result files written under one naming
// convention must be re-discoverable by later gather runs, so the
// triple-underscore format must not change.
package matrix

import (
	"fmt"
	"iter"
)

// Delimiter separates the triple components in directory and file names.
// Type names may contain single or double underscores (e.g. "unsigned_long"),
// so three underscores keep the components splittable.
const Delimiter = "___"

// Config identifies one buildable variant of the universal benchmark.
//
// All three fields are type-name identifiers drawn from the axis catalog.
// Config is a value type: two Configs with equal fields are interchangeable,
// and it is never mutated after construction. The type performs no
// validation against the catalog; callers pass catalog members.
type Config struct {
	Key   string
	Value string
	Table string
}

// String returns a readable identification of the configuration.
func (c Config) String() string {
	return fmt.Sprintf("Config(%q, %q, %q)", c.Key, c.Value, c.Table)
}

// BuildDir returns the build directory name unique to this configuration.
//
// The name is relative; callers resolve it against their working root.
func (c Config) BuildDir() string {
	return "build" + Delimiter + c.Key + Delimiter + c.Value + Delimiter + c.Table
}

// ResultFile returns the result file name for this configuration and the
// named argument specification.
//
// Distinct triples or distinct spec names always yield distinct file names,
// which is what lets every result live in one flat results directory.
func (c Config) ResultFile(argSpec string) string {
	return "results" + Delimiter + c.Key + Delimiter + c.Value + Delimiter +
		c.Table + Delimiter + argSpec + ".json"
}

// CMakeArgs returns the defines passed to the configure step, in order:
// the universal-benchmark enable flag followed by the three axis values
// under their fixed define names.
func (c Config) CMakeArgs() []string {
	return []string{
		"-DBUILD_UNIVERSAL_BENCHMARK=1",
		"-DUNIVERSAL_KEY=" + c.Key,
		"-DUNIVERSAL_VALUE=" + c.Value,
		"-DUNIVERSAL_TABLE=" + c.Table,
	}
}

// Generate returns a lazy, restartable sequence over the Cartesian product
// keys x values x tables.
//
// Axis order is preserved and the rightmost axis (table) varies fastest.
// Every combination is yielded exactly once; there is no filtering. The
// sequence is a pure function of its inputs and can be ranged over multiple
// times.
func Generate(keys, values, tables []string) iter.Seq[Config] {
	return func(yield func(Config) bool) {
		for _, k := range keys {
			for _, v := range values {
				for _, t := range tables {
					if !yield(Config{Key: k, Value: v, Table: t}) {
						return
					}
				}
			}
		}
	}
}

// Count returns the number of configurations Generate will yield.
func Count(keys, values, tables []string) int {
	return len(keys) * len(values) * len(tables)
}
