package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/utrpipe/utrpipe/checkpoint"
)

// Item identifies one unit of input (e.g. one sequencing accession). Items
// are opaque to the executor; their order in the caller's slice defines the
// 1-based indices used by argument derivation downstream.
type Item string

// Stage is one per-item unit of work: a named action guarded by a completion
// checkpoint keyed "<item>.<name>". Run must be idempotent: re-running after
// a prior partial failure must be safe (delete or deterministically
// overwrite stale outputs before writing).
type Stage struct {
	Name string
	Run  func(ctx context.Context, item Item) error
}

// Finalizer is a run-wide stage executed once after every item has completed
// every per-item stage. Its checkpoint key is the stage name alone.
type Finalizer struct {
	Name string
	Run  func(ctx context.Context) error
}

// Plan is the ordered work of one run: per-item stages first (for each item
// in caller order), then finalizers.
type Plan struct {
	Name       string
	Stages     []Stage
	Finalizers []Finalizer
}

// Observer provides pre/post hooks around a run and around each stage so
// callers can log or record execution. Hooks returning an error abort the
// run. StageSkipped is called instead of Before/AfterStage when a checkpoint
// short-circuits the stage. For finalizers, item is the empty Item.
type Observer interface {
	BeforeRun(runID, plan string, items []Item) error
	AfterRun(runID string, err error) error
	BeforeStage(runID string, item Item, stage string) error
	AfterStage(runID string, item Item, stage string, stageErr error, duration time.Duration) error
	StageSkipped(runID string, item Item, stage string) error
}

// Executor drives a Plan across items, strictly sequentially, skipping
// checkpointed stages and marking each stage completed immediately after it
// succeeds. The zero value is unusable; Store is required.
type Executor struct {
	Store    checkpoint.Store
	Observer Observer // optional
	RunID    string   // optional; a UUID is generated when empty
}

// Run executes the plan for the given items. It returns the first stage,
// store, or observer error; on stage failure no later stage or item is
// attempted and already-marked checkpoints remain valid for a future
// invocation. Finalizers run only after every (item, stage) pair is done.
func (e *Executor) Run(ctx context.Context, plan *Plan, items []Item) error {
	runID := e.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	if e.Observer != nil {
		if err := e.Observer.BeforeRun(runID, plan.Name, items); err != nil {
			return fmt.Errorf("before run: %w", err)
		}
	}
	err := e.run(ctx, plan, items, runID)
	if e.Observer != nil {
		if postErr := e.Observer.AfterRun(runID, err); postErr != nil && err == nil {
			err = fmt.Errorf("after run: %w", postErr)
		}
	}
	return err
}

func (e *Executor) run(ctx context.Context, plan *Plan, items []Item, runID string) error {
	for _, item := range items {
		for _, stage := range plan.Stages {
			key := checkpoint.Key(string(item), stage.Name)
			run := func(ctx context.Context) error { return stage.Run(ctx, item) }
			if err := e.step(ctx, runID, item, stage.Name, key, run); err != nil {
				return err
			}
		}
	}
	for _, fin := range plan.Finalizers {
		if err := e.step(ctx, runID, "", fin.Name, fin.Name, fin.Run); err != nil {
			return err
		}
	}
	return nil
}

// step runs one (item, stage) pair through the checkpoint gate:
// skip if completed, otherwise run and mark. A Mark failure is fatal: a
// success that is not durably recorded must not be trusted on resume.
func (e *Executor) step(ctx context.Context, runID string, item Item, stage, key string, run func(context.Context) error) error {
	done, err := e.Store.Completed(key)
	if err != nil {
		return err
	}
	if done {
		if e.Observer != nil {
			if err := e.Observer.StageSkipped(runID, item, stage); err != nil {
				return fmt.Errorf("stage %s skipped hook: %w", key, err)
			}
		}
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.Observer != nil {
		if err := e.Observer.BeforeStage(runID, item, stage); err != nil {
			return fmt.Errorf("before stage %s: %w", key, err)
		}
	}
	start := time.Now()
	stageErr := run(ctx)
	duration := time.Since(start)
	if e.Observer != nil {
		if postErr := e.Observer.AfterStage(runID, item, stage, stageErr, duration); postErr != nil && stageErr == nil {
			stageErr = fmt.Errorf("after stage: %w", postErr)
		}
	}
	if stageErr != nil {
		return fmt.Errorf("stage %s: %w", key, stageErr)
	}
	if err := e.Store.Mark(key); err != nil {
		return err
	}
	return nil
}
