// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// benchmatrix drives a parameterized benchmark campaign for the universal
// hash table benchmark: it enumerates build configurations from the axis
// catalogs, builds and runs each one, and gathers the JSON results into
// comparable series.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jinterlante1206/benchmatrix/cmd/benchmatrix/config"
	"github.com/jinterlante1206/benchmatrix/pkg/catalog"
	"github.com/jinterlante1206/benchmatrix/pkg/logging"
)

var (
	rootCmd = &cobra.Command{
		Use:   "benchmatrix",
		Short: "A CLI to run benchmark campaigns across a build-configuration matrix",
		Long: `Benchmatrix enumerates every (key, value, table) build configuration
from the axis catalogs, builds and runs the universal benchmark for each,
and gathers the per-run JSON results into series for comparison.`,
	}

	// catalogDir overrides the catalog directory from benchmatrix.yaml.
	catalogDir string

	appLog = logging.Default()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog", "",
		"directory holding the axis catalog JSON files (default from benchmatrix.yaml)")
}

func main() {
	defer appLog.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// fatal logs the error and exits non-zero. All campaign errors surface
// here; nothing is retried.
func fatal(msg string, err error) {
	appLog.Error(msg, "error", err.Error())
	os.Exit(1)
}

// loadCampaignConfig loads benchmatrix.yaml into config.Global.
func loadCampaignConfig() config.CampaignConfig {
	if err := config.Load(); err != nil {
		fatal("failed to load campaign config", err)
	}
	return config.Global
}

// loadCatalog loads the axis catalogs from the --catalog flag or the
// campaign config.
func loadCatalog(cfg config.CampaignConfig) *catalog.Catalog {
	dir := cfg.CatalogDir
	if catalogDir != "" {
		dir = catalogDir
	}
	cat, err := catalog.Load(dir)
	if err != nil {
		fatal("failed to load axis catalogs", err)
	}
	return cat
}

// absPath resolves a config-relative path against the working directory.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		fatal(fmt.Sprintf("failed to resolve path %q", path), err)
	}
	return abs
}
