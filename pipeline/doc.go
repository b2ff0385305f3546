// Package pipeline provides a checkpointed, strictly sequential stage
// executor for multi-item runs. A Plan lists per-item Stages and run-wide
// Finalizers; an Executor drives every item through the stages in order,
// skipping any (item, stage) pair whose checkpoint already exists, and runs
// the finalizers only after every item has completed every stage.
//
// Each stage runs its work at most once per checkpoint: on success the
// executor durably marks the pair completed before moving on, so a later
// invocation with the same checkpoint store resumes where the previous one
// stopped. The first stage failure aborts the whole run; already-marked
// checkpoints stay valid for the next invocation. There is no retry and no
// concurrency: exactly one stage runs at a time, in declared order, across
// items in caller order.
//
// Optional pre/post hooks (Observer) are called around the run and around
// each stage (including skips), e.g. for human-readable run logging. Each
// run gets a run ID (caller-supplied or a generated UUID) passed to every
// hook.
package pipeline
