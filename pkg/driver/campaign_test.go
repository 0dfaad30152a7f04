// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package driver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinterlante1206/benchmatrix/pkg/matrix"
)

func campaignTasks() []Task {
	return []Task{
		{Config: matrix.Config{Key: "int", Value: "int", Table: "flat"}, Specs: []string{"basic"}},
		{Config: matrix.Config{Key: "int", Value: "int", Table: "btree"}, Specs: []string{"basic"}},
	}
}

// failTableConfigure returns a RunFunc that fails the cmake step for one
// table type and succeeds everywhere else.
func failTableConfigure(table string) func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
		if name == "cmake" && strings.Contains(dir, table) {
			return nil, NewCommandError("cmake", 1, "broken", nil)
		}
		return nil, nil
	}
}

func TestCampaign_Sequential_AllSucceed(t *testing.T) {
	mock := &MockRunner{FileOutput: []byte("{}")}
	d, _ := newTestDriver(t, mock)
	c := &Campaign{Driver: d}

	res := c.Run(context.Background(), campaignTasks())

	require.NotEmpty(t, res.RunID)
	require.Len(t, res.Outcomes, 2)
	for _, o := range res.Outcomes {
		assert.False(t, o.Failed())
		assert.Empty(t, o.Stage)
	}
	assert.Empty(t, res.Failures())
}

// TestCampaign_Sequential_StopsOnFirstFailure preserves the original
// campaign behavior: nothing is scheduled after a failing configuration.
func TestCampaign_Sequential_StopsOnFirstFailure(t *testing.T) {
	mock := &MockRunner{RunFunc: failTableConfigure("flat")}
	d, _ := newTestDriver(t, mock)
	c := &Campaign{Driver: d}

	res := c.Run(context.Background(), campaignTasks())

	require.Len(t, res.Outcomes, 1, "second task must not start")
	assert.True(t, res.Outcomes[0].Failed())
	assert.Equal(t, StageConfigure, res.Outcomes[0].Stage)
}

func TestCampaign_KeepGoing_CollectsFailures(t *testing.T) {
	mock := &MockRunner{RunFunc: failTableConfigure("flat"), FileOutput: []byte("{}")}
	d, _ := newTestDriver(t, mock)
	c := &Campaign{Driver: d, KeepGoing: true}

	res := c.Run(context.Background(), campaignTasks())

	require.Len(t, res.Outcomes, 2)
	assert.True(t, res.Outcomes[0].Failed())
	assert.False(t, res.Outcomes[1].Failed())

	failures := res.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "flat", failures[0].Config.Table)
}

func TestCampaign_Parallel_AllSucceed(t *testing.T) {
	mock := &MockRunner{FileOutput: []byte("{}")}
	d, _ := newTestDriver(t, mock)
	c := &Campaign{Driver: d, Parallelism: 2}

	res := c.Run(context.Background(), campaignTasks())

	require.Len(t, res.Outcomes, 2)
	for _, o := range res.Outcomes {
		assert.False(t, o.Failed())
	}
	// Both configure calls went through despite running concurrently.
	configures := 0
	for _, call := range mock.CallsSnapshot() {
		if call.Name == "cmake" {
			configures++
		}
	}
	assert.Equal(t, 2, configures)
}

func TestCampaign_Parallel_KeepGoing(t *testing.T) {
	mock := &MockRunner{RunFunc: failTableConfigure("btree"), FileOutput: []byte("{}")}
	d, _ := newTestDriver(t, mock)
	c := &Campaign{Driver: d, Parallelism: 2, KeepGoing: true}

	res := c.Run(context.Background(), campaignTasks())

	require.Len(t, res.Outcomes, 2)
	failures := res.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "btree", failures[0].Config.Table)
}

func TestCampaign_StageAttribution_Compile(t *testing.T) {
	mock := &MockRunner{
		RunFunc: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
			if name == "make" {
				return nil, NewCommandError("make", 2, "", nil)
			}
			return nil, nil
		},
	}
	d, _ := newTestDriver(t, mock)
	c := &Campaign{Driver: d}

	res := c.Run(context.Background(), campaignTasks()[:1])

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, StageCompile, res.Outcomes[0].Stage)
}

func TestCampaign_StageAttribution_Run(t *testing.T) {
	mock := &MockRunner{
		RunToFileFunc: func(ctx context.Context, dir, outPath, name string, args ...string) error {
			return NewCommandError(name, 1, "", nil)
		},
	}
	d, _ := newTestDriver(t, mock)
	c := &Campaign{Driver: d}

	res := c.Run(context.Background(), campaignTasks()[:1])

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, StageRun, res.Outcomes[0].Stage)
}

func TestCampaign_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, _ := newTestDriver(t, &MockRunner{})
	c := &Campaign{Driver: d, Parallelism: 2}

	res := c.Run(ctx, campaignTasks())

	require.Len(t, res.Outcomes, 2)
	for _, o := range res.Outcomes {
		assert.Equal(t, StageSkipped, o.Stage)
	}
	assert.Empty(t, res.Failures(), "skipped tasks are not failures")
}
