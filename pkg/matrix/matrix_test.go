// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerate_FullProduct verifies every (k, v, t) combination appears
// exactly once, in catalog order with the table axis varying fastest.
func TestGenerate_FullProduct(t *testing.T) {
	keys := []string{"uint64_t", "string"}
	values := []string{"uint64_t"}
	tables := []string{"LIBCUCKOO", "TBB", "STL"}

	var got []Config
	for c := range Generate(keys, values, tables) {
		got = append(got, c)
	}

	require.Len(t, got, Count(keys, values, tables))
	require.Len(t, got, 6)

	seen := make(map[Config]int)
	for _, c := range got {
		seen[c]++
	}
	for _, k := range keys {
		for _, v := range values {
			for _, tbl := range tables {
				assert.Equal(t, 1, seen[Config{Key: k, Value: v, Table: tbl}],
					"combination (%s,%s,%s)", k, v, tbl)
			}
		}
	}

	// Rightmost axis varies fastest.
	assert.Equal(t, Config{Key: "uint64_t", Value: "uint64_t", Table: "LIBCUCKOO"}, got[0])
	assert.Equal(t, Config{Key: "uint64_t", Value: "uint64_t", Table: "TBB"}, got[1])
	assert.Equal(t, Config{Key: "uint64_t", Value: "uint64_t", Table: "STL"}, got[2])
	assert.Equal(t, Config{Key: "string", Value: "uint64_t", Table: "LIBCUCKOO"}, got[3])
}

// TestGenerate_Restartable verifies the sequence can be ranged over twice
// with identical results.
func TestGenerate_Restartable(t *testing.T) {
	seq := Generate([]string{"int"}, []string{"int"}, []string{"flat", "btree"})

	var first, second []Config
	for c := range seq {
		first = append(first, c)
	}
	for c := range seq {
		second = append(second, c)
	}
	assert.Equal(t, first, second)
}

// TestGenerate_TwoTableScenario mirrors the smallest realistic catalog:
// one key, one value, two tables.
func TestGenerate_TwoTableScenario(t *testing.T) {
	var got []Config
	for c := range Generate([]string{"int"}, []string{"int"}, []string{"flat", "btree"}) {
		got = append(got, c)
	}

	require.Len(t, got, 2)
	assert.Equal(t, "build___int___int___flat", got[0].BuildDir())
	assert.Equal(t, "build___int___int___btree", got[1].BuildDir())
}

func TestConfig_DerivedNames(t *testing.T) {
	c := Config{Key: "uint64_t", Value: "string", Table: "LIBCUCKOO"}

	assert.Equal(t, "build___uint64_t___string___LIBCUCKOO", c.BuildDir())
	assert.Equal(t, "results___uint64_t___string___LIBCUCKOO___basic.json", c.ResultFile("basic"))

	// Pure functions: equal triples yield identical names.
	same := Config{Key: "uint64_t", Value: "string", Table: "LIBCUCKOO"}
	assert.Equal(t, c.BuildDir(), same.BuildDir())
	assert.Equal(t, c.ResultFile("basic"), same.ResultFile("basic"))

	// Distinct triples or spec names yield distinct result files.
	other := Config{Key: "uint64_t", Value: "string", Table: "TBB"}
	assert.NotEqual(t, c.ResultFile("basic"), other.ResultFile("basic"))
	assert.NotEqual(t, c.ResultFile("basic"), c.ResultFile("insert_heavy"))
}

func TestConfig_CMakeArgs(t *testing.T) {
	c := Config{Key: "int", Value: "int", Table: "LIBCUCKOO"}

	assert.Equal(t, []string{
		"-DBUILD_UNIVERSAL_BENCHMARK=1",
		"-DUNIVERSAL_KEY=int",
		"-DUNIVERSAL_VALUE=int",
		"-DUNIVERSAL_TABLE=LIBCUCKOO",
	}, c.CMakeArgs())
}
