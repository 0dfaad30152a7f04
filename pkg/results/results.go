// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package results gathers benchmark result files and matches them against
// analytical queries.
//
// Result files are produced by the driver, one per (configuration, argspec)
// pair, and are never mutated after creation. The filesystem is the source
// of truth; this package loads the whole pool transiently per query batch
// and answers "for argument-spec A, key K, value V, give me statistic S
// across all table types".
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Stat is one named statistic emitted by the benchmark binary.
type Stat struct {
	Name  string  `json:"name"`
	Units string  `json:"units"`
	Value float64 `json:"value"`
}

// Record is the JSON document one benchmark invocation writes to stdout.
//
// Args is the literal command-line string the benchmark process was invoked
// with; Key, Value, and Table echo the build configuration the binary was
// compiled for. Output maps statistic names to their measurements.
type Record struct {
	Args   string          `json:"args"`
	Key    string          `json:"key"`
	Value  string          `json:"value"`
	Table  string          `json:"table"`
	Output map[string]Stat `json:"output"`

	// SourceFile is the result file this record was loaded from, set by
	// Gather so error messages can name the offending file.
	SourceFile string `json:"-"`
}

// Series is the matched (x, y) series for one query.
//
// Xs[i] and Ys[i] come from the same matched record. The series is ordered
// by table name, not by filesystem enumeration order, so equal result pools
// always produce equal series.
type Series struct {
	XAxis string    `json:"x_axis"`
	Xs    []string  `json:"xs"`
	Ys    []float64 `json:"ys"`
	YAxis string    `json:"y_axis"`
}

// Gather reads every *.json file in resultsDir into memory.
//
// A file that fails to read or parse is fatal to the whole gather; a
// partially loaded pool would silently skew downstream comparisons.
func Gather(resultsDir string) ([]Record, error) {
	files, err := filepath.Glob(filepath.Join(resultsDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list results in %s: %w", resultsDir, err)
	}
	records := make([]Record, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read result file: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parse result file %s: %w", file, err)
		}
		rec.SourceFile = file
		records = append(records, rec)
	}
	return records, nil
}
