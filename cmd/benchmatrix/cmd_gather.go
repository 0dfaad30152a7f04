// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jinterlante1206/benchmatrix/pkg/results"
)

var (
	gatherArgSpec  string
	gatherKey      string
	gatherValue    string
	gatherStat     string
	gatherStrategy string

	gatherCmd = &cobra.Command{
		Use:   "gather",
		Short: "Match gathered results and print one statistic across all table types",
		Long: `Loads every result file from the results directory and answers one
query: for the given argument spec, key type, and value type, the value of
one statistic for each table type that has a matching result. The series
is printed to stdout as JSON.

By default a result matches when the spec's flag-value pairs are a subset
of the flags the benchmark was actually invoked with, so one broad run can
answer many narrower queries. Use --strategy exact for strict matching.`,
		Run: runGather,
	}
)

func init() {
	gatherCmd.Flags().StringVar(&gatherArgSpec, "argspec", "", "argument spec name to match")
	gatherCmd.Flags().StringVar(&gatherKey, "key", "", "key type to match")
	gatherCmd.Flags().StringVar(&gatherValue, "value", "", "value type to match")
	gatherCmd.Flags().StringVar(&gatherStat, "stat", "", "statistic name to extract")
	gatherCmd.Flags().StringVar(&gatherStrategy, "strategy", "subset", "match strategy: subset or exact")
	for _, flag := range []string{"argspec", "key", "value", "stat"} {
		_ = gatherCmd.MarkFlagRequired(flag)
	}
	rootCmd.AddCommand(gatherCmd)
}

func runGather(cmd *cobra.Command, args []string) {
	cfg := loadCampaignConfig()
	cat := loadCatalog(cfg)

	strategy, err := results.ParseStrategy(gatherStrategy)
	if err != nil {
		fatal("invalid match strategy", err)
	}

	records, err := results.Gather(absPath(cfg.ResultsDir))
	if err != nil {
		fatal("failed to gather results", err)
	}
	appLog.Info("gathered results", "records", len(records))

	series, err := results.MatchStat(records, cat, results.Query{
		ArgSpec:  gatherArgSpec,
		Key:      gatherKey,
		Value:    gatherValue,
		Stat:     gatherStat,
		Strategy: strategy,
	})
	if err != nil {
		fatal("failed to match results", err)
	}

	out, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		fatal("failed to encode series", err)
	}
	fmt.Println(string(out))
}
