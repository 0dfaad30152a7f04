// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

// CampaignConfig holds the campaign settings read from benchmatrix.yaml.
//
// Paths are resolved relative to the working directory at process start,
// matching where build directories and the results directory land.
type CampaignConfig struct {
	// SourceRoot is the CMake source tree the configure step points at.
	SourceRoot string `yaml:"source_root" validate:"required"`

	// ResultsDir is the shared directory all result files are written to.
	ResultsDir string `yaml:"results_dir" validate:"required"`

	// CatalogDir contains the four axis catalog JSON files.
	CatalogDir string `yaml:"catalog_dir" validate:"required"`

	// CMakeBin and MakeBin name the build tool binaries, overridable for
	// toolchain wrappers (e.g. cmake3, gmake).
	CMakeBin string `yaml:"cmake_bin" validate:"required"`
	MakeBin  string `yaml:"make_bin" validate:"required"`

	// Parallelism bounds concurrent build/run tasks. 1 preserves the
	// fully sequential campaign order.
	Parallelism int `yaml:"parallelism" validate:"gte=1"`

	// KeepGoing continues the campaign past a failing configuration,
	// reporting failures at the end instead of stopping.
	KeepGoing bool `yaml:"keep_going"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() CampaignConfig {
	return CampaignConfig{
		SourceRoot:  "..",
		ResultsDir:  "results",
		CatalogDir:  ".",
		CMakeBin:    "cmake",
		MakeBin:     "make",
		Parallelism: 1,
		KeepGoing:   false,
	}
}
