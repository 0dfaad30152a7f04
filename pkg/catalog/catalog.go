// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package catalog loads the four axis catalogs that define the benchmark
// matrix: argument specifications, key types, value types, and table types.
//
// The catalogs are four JSON documents in a single directory:
//
//	arguments.json  {"spec-name": "--flag value ...", ...}
//	keys.json       ["uint64_t", ...]
//	values.json     ["uint64_t", ...]
//	tables.json     ["LIBCUCKOO", ...]
//
// A catalog is loaded once at startup and is immutable for the process
// lifetime. A missing or malformed file is fatal before any build or run
// work starts.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
)

// File names the catalogs are loaded from, fixed for compatibility with
// existing catalog directories.
const (
	ArgumentsFile = "arguments.json"
	KeysFile      = "keys.json"
	ValuesFile    = "values.json"
	TablesFile    = "tables.json"
)

// catalogValidate is the validator instance for loaded catalogs.
var catalogValidate = validator.New()

// Catalog holds the four independent axes of the benchmark matrix.
//
// Args maps an argument-spec name to the command-line string the benchmark
// binary is invoked with. Keys, Values, and Tables are sets of type-name
// strings with no structure beyond identity.
type Catalog struct {
	Args   map[string]string `validate:"required,min=1,dive,required"`
	Keys   []string          `validate:"required,min=1,dive,required"`
	Values []string          `validate:"required,min=1,dive,required"`
	Tables []string          `validate:"required,min=1,dive,required"`
}

// Load reads all four catalog files from dir and validates the result.
//
// Any missing or malformed file aborts the load with an error naming the
// offending file.
func Load(dir string) (*Catalog, error) {
	var c Catalog
	if err := loadJSON(filepath.Join(dir, ArgumentsFile), &c.Args); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, KeysFile), &c.Keys); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, ValuesFile), &c.Values); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, TablesFile), &c.Tables); err != nil {
		return nil, err
	}
	if err := catalogValidate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog in %s: %w", dir, err)
	}
	return &c, nil
}

// loadJSON reads one catalog file into out.
func loadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return nil
}

// ArgSpec resolves an argument-spec name to its command-line string.
func (c *Catalog) ArgSpec(name string) (string, error) {
	cmdline, ok := c.Args[name]
	if !ok {
		return "", fmt.Errorf("unknown argument spec %q", name)
	}
	return cmdline, nil
}

// SpecNames returns all argument-spec names in sorted order.
//
// Map iteration order is not stable, and campaign runs should visit specs
// in a reproducible order.
func (c *Catalog) SpecNames() []string {
	names := make([]string, 0, len(c.Args))
	for name := range c.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
