package runlog

import (
	"time"

	"github.com/utrpipe/utrpipe/pipeline"
)

// Observer implements pipeline.Observer by logging run and stage progress.
type Observer struct {
	Log *Logger
}

func stageLabel(item pipeline.Item, stage string) string {
	if item == "" {
		return stage
	}
	return string(item) + "." + stage
}

// BeforeRun implements pipeline.Observer.
func (o *Observer) BeforeRun(runID, plan string, items []pipeline.Item) error {
	o.Log.Infof("run %s started (%s, %d items)", runID, plan, len(items))
	return nil
}

// AfterRun implements pipeline.Observer.
func (o *Observer) AfterRun(runID string, err error) error {
	if err != nil {
		o.Log.Errorf("run %s failed: %v", runID, err)
		return nil
	}
	o.Log.Infof("run %s finished", runID)
	return nil
}

// BeforeStage implements pipeline.Observer.
func (o *Observer) BeforeStage(runID string, item pipeline.Item, stage string) error {
	o.Log.Infof("%s: running", stageLabel(item, stage))
	return nil
}

// AfterStage implements pipeline.Observer.
func (o *Observer) AfterStage(runID string, item pipeline.Item, stage string, stageErr error, duration time.Duration) error {
	if stageErr != nil {
		o.Log.Errorf("%s: failed after %s: %v", stageLabel(item, stage), duration.Round(time.Millisecond), stageErr)
		return nil
	}
	o.Log.Infof("%s: done in %s", stageLabel(item, stage), duration.Round(time.Millisecond))
	return nil
}

// StageSkipped implements pipeline.Observer.
func (o *Observer) StageSkipped(runID string, item pipeline.Item, stage string) error {
	o.Log.Infof("%s: checkpoint found, skipping", stageLabel(item, stage))
	return nil
}

var _ pipeline.Observer = (*Observer)(nil)
