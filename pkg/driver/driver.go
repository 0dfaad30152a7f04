// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package driver builds benchmark configurations and executes benchmark
// runs through external processes.
//
// The driver owns the external-process boundary of the campaign: the CMake
// configure step, the make compile step, and the benchmark invocations.
// Every invocation receives an explicit working directory; ambient
// working-directory state is never touched, so configurations can build
// concurrently without interfering.
//
// Results are not returned by the driver. They land as files in the shared
// results directory and are discovered later by the results package.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jinterlante1206/benchmatrix/pkg/catalog"
	"github.com/jinterlante1206/benchmatrix/pkg/logging"
	"github.com/jinterlante1206/benchmatrix/pkg/matrix"
)

const (
	// BenchmarkTarget is the fixed make target that builds the benchmark.
	BenchmarkTarget = "universal_benchmark"

	// cmakeCacheFile is removed before configuring so a stale cache from a
	// half-deleted build directory cannot poison the new configuration.
	cmakeCacheFile = "CMakeCache.txt"
)

// benchmarkRelPath is the benchmark executable's fixed location inside a
// build directory, part of the build-system contract.
var benchmarkRelPath = filepath.Join("tests", "universal-benchmark", BenchmarkTarget)

// Options configures a Driver. SourceRoot, WorkRoot, ResultsDir, and
// Catalog are required; the rest default to production values.
type Options struct {
	// SourceRoot is the absolute path to the CMake source tree.
	SourceRoot string

	// WorkRoot is the absolute path under which build directories are
	// created.
	WorkRoot string

	// ResultsDir is the absolute path of the shared results directory.
	ResultsDir string

	// Catalog resolves argument-spec names to benchmark command lines.
	Catalog *catalog.Catalog

	// CMakeBin and MakeBin name the build tool binaries.
	// Default: "cmake" and "make".
	CMakeBin string
	MakeBin  string

	// Runner executes external processes. Default: NewExecRunner().
	Runner Runner

	// Log receives driver progress. Default: logging.Default().
	Log *logging.Logger
}

// Driver builds configurations and runs benchmark argument specs.
type Driver struct {
	opts Options
}

// New creates a Driver, filling in defaults for unset optional fields.
func New(opts Options) *Driver {
	if opts.CMakeBin == "" {
		opts.CMakeBin = "cmake"
	}
	if opts.MakeBin == "" {
		opts.MakeBin = "make"
	}
	if opts.Runner == nil {
		opts.Runner = NewExecRunner()
	}
	if opts.Log == nil {
		opts.Log = logging.Default()
	}
	return &Driver{opts: opts}
}

// BuildDirPath returns the absolute build directory for a configuration.
func (d *Driver) BuildDirPath(cfg matrix.Config) string {
	return filepath.Join(d.opts.WorkRoot, cfg.BuildDir())
}

// EnsureBuilt makes sure the configuration's build directory exists and is
// configured.
//
// An existing build directory is treated as already configured and skipped
// unless forceRebuild is set, in which case it is deleted and recreated.
// This is a skip-if-present optimization, not a freshness check. A failing
// configure step is returned as an error; there is no retry.
func (d *Driver) EnsureBuilt(ctx context.Context, cfg matrix.Config, forceRebuild bool) error {
	buildDir := d.BuildDirPath(cfg)
	if _, err := os.Stat(buildDir); err == nil {
		if !forceRebuild {
			d.opts.Log.Info("build directory exists, skipping configure",
				"build_dir", buildDir)
			return nil
		}
		d.opts.Log.Info("force rebuild, removing build directory",
			"build_dir", buildDir)
		if err := os.RemoveAll(buildDir); err != nil {
			return fmt.Errorf("remove build directory: %w", err)
		}
	}
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return fmt.Errorf("create build directory: %w", err)
	}
	if err := os.Remove(filepath.Join(buildDir, cmakeCacheFile)); err == nil {
		d.opts.Log.Info("removed stale CMake cache", "build_dir", buildDir)
	}

	args := append(cfg.CMakeArgs(), d.opts.SourceRoot)
	d.opts.Log.Info("configuring build",
		"build_dir", buildDir,
		"command", commandLine(d.opts.CMakeBin, args),
	)
	if _, err := d.opts.Runner.Run(ctx, buildDir, d.opts.CMakeBin, args...); err != nil {
		return fmt.Errorf("configure %s: %w", cfg, err)
	}
	return nil
}

// Compile builds the benchmark target in the configuration's build
// directory.
func (d *Driver) Compile(ctx context.Context, cfg matrix.Config) error {
	buildDir := d.BuildDirPath(cfg)
	d.opts.Log.Info("compiling benchmark", "build_dir", buildDir)
	if _, err := d.opts.Runner.Run(ctx, buildDir, d.opts.MakeBin, BenchmarkTarget); err != nil {
		return fmt.Errorf("compile %s: %w", cfg, err)
	}
	return nil
}

// RunArgSpec runs the compiled benchmark once with the named argument
// spec's command line, capturing combined stdout and stderr verbatim into
// the configuration's result file.
func (d *Driver) RunArgSpec(ctx context.Context, cfg matrix.Config, specName string) error {
	cmdline, err := d.opts.Catalog.ArgSpec(specName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.opts.ResultsDir, 0755); err != nil {
		return fmt.Errorf("create results directory: %w", err)
	}
	buildDir := d.BuildDirPath(cfg)
	benchPath := filepath.Join(buildDir, benchmarkRelPath)
	outPath := filepath.Join(d.opts.ResultsDir, cfg.ResultFile(specName))
	args := strings.Fields(cmdline)

	d.opts.Log.Info("running benchmark",
		"command", commandLine(benchPath, args),
		"output_file", outPath,
	)
	if err := d.opts.Runner.RunToFile(ctx, buildDir, outPath, benchPath, args...); err != nil {
		return fmt.Errorf("run %s spec %q: %w", cfg, specName, err)
	}
	return nil
}

// RunArgSpecs compiles the benchmark target, then runs every requested
// argument spec strictly one after another. The first failure aborts the
// remainder of this configuration's runs.
func (d *Driver) RunArgSpecs(ctx context.Context, cfg matrix.Config, specNames []string) error {
	if err := d.Compile(ctx, cfg); err != nil {
		return err
	}
	for _, name := range specNames {
		if err := d.RunArgSpec(ctx, cfg, name); err != nil {
			return err
		}
	}
	return nil
}
