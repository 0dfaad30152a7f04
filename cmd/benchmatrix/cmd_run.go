// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jinterlante1206/benchmatrix/pkg/driver"
	"github.com/jinterlante1206/benchmatrix/pkg/matrix"
)

var (
	forceRebuild bool
	parallel     int
	keepGoing    bool

	runCmd = &cobra.Command{
		Use:   "run [argspec...]",
		Short: "Build every configuration and run the requested argument specs",
		Long: `Runs the full campaign: for each (key, value, table) configuration in
the matrix, configures and compiles the universal benchmark, then runs it
once per requested argument spec, piping combined output into the results
directory. With no arguments, every spec in arguments.json is run.`,
		Run: runCampaign,
	}
)

func init() {
	runCmd.Flags().BoolVar(&forceRebuild, "force-rebuild", false,
		"delete and reconfigure existing build directories")
	runCmd.Flags().IntVar(&parallel, "parallel", 0,
		"bound on concurrently building configurations (default from benchmatrix.yaml)")
	runCmd.Flags().BoolVar(&keepGoing, "keep-going", false,
		"continue past failing configurations and report failures at the end")
	rootCmd.AddCommand(runCmd)
}

func runCampaign(cmd *cobra.Command, args []string) {
	cfg := loadCampaignConfig()
	cat := loadCatalog(cfg)

	specs := args
	if len(specs) == 0 {
		specs = cat.SpecNames()
	}
	for _, name := range specs {
		if _, err := cat.ArgSpec(name); err != nil {
			fatal("unknown argument spec requested", err)
		}
	}

	workRoot, err := os.Getwd()
	if err != nil {
		fatal("failed to resolve working directory", err)
	}
	d := driver.New(driver.Options{
		SourceRoot: absPath(cfg.SourceRoot),
		WorkRoot:   workRoot,
		ResultsDir: absPath(cfg.ResultsDir),
		Catalog:    cat,
		CMakeBin:   cfg.CMakeBin,
		MakeBin:    cfg.MakeBin,
		Log:        appLog,
	})

	var tasks []driver.Task
	for c := range matrix.Generate(cat.Keys, cat.Values, cat.Tables) {
		tasks = append(tasks, driver.Task{Config: c, Specs: specs})
	}

	campaign := &driver.Campaign{
		Driver:       d,
		Parallelism:  cfg.Parallelism,
		KeepGoing:    cfg.KeepGoing,
		ForceRebuild: forceRebuild,
	}
	if cmd.Flags().Changed("parallel") {
		campaign.Parallelism = parallel
	}
	if cmd.Flags().Changed("keep-going") {
		campaign.KeepGoing = keepGoing
	}

	res := campaign.Run(cmd.Context(), tasks)

	failures := res.Failures()
	fmt.Printf("campaign %s: %d/%d tasks succeeded\n",
		res.RunID, len(res.Outcomes)-countFailed(res.Outcomes), len(tasks))
	if len(failures) > 0 {
		for _, o := range failures {
			fmt.Fprintf(os.Stderr, "  %s failed at %s: %v\n", o.Config, o.Stage, o.Err)
		}
		os.Exit(1)
	}
}

func countFailed(outcomes []driver.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}
