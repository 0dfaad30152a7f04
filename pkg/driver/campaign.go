// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package driver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jinterlante1206/benchmatrix/pkg/matrix"
)

// Stage identifies which phase of a task failed.
type Stage string

const (
	// StageConfigure is the CMake configure step.
	StageConfigure Stage = "configure"

	// StageCompile is the make step.
	StageCompile Stage = "compile"

	// StageRun is a benchmark invocation.
	StageRun Stage = "run"

	// StageSkipped marks a task that never started because the campaign
	// was cancelled after an earlier failure.
	StageSkipped Stage = "skipped"
)

// Task is one unit of campaign work: build a configuration and run it
// against a set of argument specs. Tasks are mutually independent; they
// use disjoint build directories and write distinct result files.
type Task struct {
	Config matrix.Config
	Specs  []string
}

// Outcome is the structured result of one task.
type Outcome struct {
	Config   matrix.Config
	Stage    Stage // empty on success
	Err      error // nil on success
	Duration time.Duration
}

// Failed reports whether the task did not complete successfully.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Result aggregates one campaign run.
type Result struct {
	// RunID uniquely identifies this campaign run; it also appears on
	// every log line the run produced.
	RunID string

	// Outcomes has one entry per task, in task order.
	Outcomes []Outcome
}

// Failures returns the outcomes of tasks that failed, excluding tasks that
// were skipped due to cancellation.
func (r *Result) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() && o.Stage != StageSkipped {
			failed = append(failed, o)
		}
	}
	return failed
}

// Campaign executes a task list under a configurable strategy.
//
// The default is fully sequential execution that stops scheduling at the
// first failure, matching the original campaign behavior. Parallelism > 1
// enables bounded-parallel execution across configurations; KeepGoing runs
// every task to completion and reports failures in the outcomes instead of
// stopping.
type Campaign struct {
	Driver       *Driver
	Parallelism  int
	KeepGoing    bool
	ForceRebuild bool
}

// Run executes the tasks and returns one outcome per attempted task.
//
// With KeepGoing unset, tasks after the first failure are either absent
// from the outcomes (sequential) or marked StageSkipped (parallel, where
// in-flight siblings finish but nothing new starts).
func (c *Campaign) Run(ctx context.Context, tasks []Task) *Result {
	res := &Result{RunID: uuid.NewString()}
	log := c.Driver.opts.Log.With("run_id", res.RunID)
	log.Info("starting campaign",
		"tasks", len(tasks),
		"parallelism", max(c.Parallelism, 1),
		"keep_going", c.KeepGoing,
		"force_rebuild", c.ForceRebuild,
	)

	if c.Parallelism <= 1 {
		for _, task := range tasks {
			outcome := c.runTask(ctx, task)
			res.Outcomes = append(res.Outcomes, outcome)
			if outcome.Failed() {
				log.Error("task failed",
					"config", task.Config.String(),
					"stage", string(outcome.Stage),
					"error", outcome.Err.Error(),
				)
				if !c.KeepGoing {
					break
				}
			}
		}
		return res
	}

	res.Outcomes = make([]Outcome, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Parallelism)
	for i, task := range tasks {
		g.Go(func() error {
			res.Outcomes[i] = c.runTask(gctx, task)
			if res.Outcomes[i].Failed() && res.Outcomes[i].Stage != StageSkipped {
				log.Error("task failed",
					"config", task.Config.String(),
					"stage", string(res.Outcomes[i].Stage),
					"error", res.Outcomes[i].Err.Error(),
				)
				if !c.KeepGoing {
					// Cancels gctx so queued tasks skip themselves.
					return res.Outcomes[i].Err
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return res
}

// runTask drives one task through configure, compile, and its benchmark
// runs, attributing any failure to the stage it happened in.
func (c *Campaign) runTask(ctx context.Context, task Task) (out Outcome) {
	out = Outcome{Config: task.Config}
	if err := ctx.Err(); err != nil {
		out.Stage, out.Err = StageSkipped, err
		return out
	}
	start := time.Now()
	defer func() { out.Duration = time.Since(start) }()

	if err := c.Driver.EnsureBuilt(ctx, task.Config, c.ForceRebuild); err != nil {
		out.Stage, out.Err = StageConfigure, err
		return out
	}
	if err := c.Driver.Compile(ctx, task.Config); err != nil {
		out.Stage, out.Err = StageCompile, err
		return out
	}
	for _, spec := range task.Specs {
		if err := c.Driver.RunArgSpec(ctx, task.Config, spec); err != nil {
			out.Stage, out.Err = StageRun, err
			return out
		}
	}
	return out
}
