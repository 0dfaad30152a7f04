// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jinterlante1206/benchmatrix/pkg/matrix"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "List every build configuration in the campaign matrix",
	Long: `Enumerates the Cartesian product of the key, value, and table catalogs
and prints one build directory name per configuration, without building
anything.`,
	Run: runMatrix,
}

func init() {
	rootCmd.AddCommand(matrixCmd)
}

func runMatrix(cmd *cobra.Command, args []string) {
	cfg := loadCampaignConfig()
	cat := loadCatalog(cfg)

	for c := range matrix.Generate(cat.Keys, cat.Values, cat.Tables) {
		fmt.Println(c.BuildDir())
	}
	fmt.Printf("%d configurations (%d keys x %d values x %d tables)\n",
		matrix.Count(cat.Keys, cat.Values, cat.Tables),
		len(cat.Keys), len(cat.Values), len(cat.Tables))
}
