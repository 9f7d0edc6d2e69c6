// Package steps wraps scenario work in named, reported steps. Every step
// yields exactly one record carrying its evidence, whatever the outcome.
package steps

import (
	"context"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
	"checkout_automation/infrastructure/logging"

	"github.com/sirupsen/logrus"
)

// Screenshotter captures the page after a step
type Screenshotter interface {
	TakeScreenshot(ctx context.Context) ([]byte, error)
}

// FailureEvidence is the extra state captured when a step fails
type FailureEvidence interface {
	PageSource(ctx context.Context) (string, error)
	ConsoleLogs(ctx context.Context) ([]entities.ConsoleEntry, error)
	GetCurrentURL(ctx context.Context) (string, error)
}

// Step is the open record handed to step bodies
type Step struct {
	name        string
	attachments []entities.Attachment
}

// Name returns the step name
func (s *Step) Name() string {
	return s.name
}

// Attach adds evidence to the step
func (s *Step) Attach(a entities.Attachment) {
	s.attachments = append(s.attachments, a)
}

// Runner executes steps for one scenario execution
type Runner struct {
	ref      entities.ScenarioRef
	reporter interfaces.Reporter
	logger   *logrus.Entry
	capture  *logging.Capture
	shots    Screenshotter
	failures FailureEvidence
	records  []entities.StepRecord
	failed   error
}

// Option customises a Runner
type Option func(*Runner)

// WithScreenshots captures a screenshot after every step
func WithScreenshots(s Screenshotter) Option {
	return func(r *Runner) { r.shots = s }
}

// WithFailureEvidence captures page source, console and URL on failure
func WithFailureEvidence(f FailureEvidence) Option {
	return func(r *Runner) { r.failures = f }
}

// NewRunner - creates a runner reporting under ref
func NewRunner(ref entities.ScenarioRef, reporter interfaces.Reporter, logger *logrus.Entry, capture *logging.Capture, opts ...Option) *Runner {
	r := &Runner{
		ref:      ref,
		reporter: reporter,
		logger:   logger,
		capture:  capture,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes fn as the step name. Once a step has failed, Run records
// the step as skipped without executing it and returns nil.
func (r *Runner) Run(ctx context.Context, name string, fn func(ctx context.Context, step *Step) error) error {
	if r.failed != nil {
		r.skip(ctx, name)
		return nil
	}

	mark := r.capture.Mark()
	record := entities.StepRecord{Name: name, Start: time.Now()}
	step := &Step{name: name}

	r.logger.Infof("Step started: %s", name)
	err := fn(ctx, step)
	record.Stop = time.Now()
	record.Status = entities.StatusFor(err)

	if err != nil {
		record.Error = err.Error()
		r.failed = err
		r.logger.WithError(err).Errorf("Step %s: %s", record.Status, name)
	} else {
		r.logger.Infof("Step passed: %s (%s)", name, record.Duration().Round(time.Millisecond))
	}

	record.Attachments = append(record.Attachments, step.attachments...)
	record.Attachments = append(record.Attachments, r.evidence(ctx, name, err)...)
	record.Attachments = append(record.Attachments, entities.TextAttachment(name+" Logs", r.capture.Since(mark)))

	r.flush(ctx, record)
	return err
}

func (r *Runner) skip(ctx context.Context, name string) {
	now := time.Now()
	r.flush(ctx, entities.StepRecord{
		Name:   name,
		Status: entities.StepStatusSkipped,
		Start:  now,
		Stop:   now,
	})
}

// evidence collects screenshot and, for failures, diagnostics. Capture
// problems are logged and never replace the step error.
func (r *Runner) evidence(ctx context.Context, name string, stepErr error) []entities.Attachment {
	var out []entities.Attachment

	if r.shots != nil {
		png, err := r.shots.TakeScreenshot(ctx)
		if err != nil {
			r.logger.Warnf("Failed to capture screenshot for %s: %v", name, err)
		} else {
			out = append(out, entities.ScreenshotAttachment(name, png))
		}
	}

	if stepErr == nil || r.failures == nil {
		return out
	}

	if url, err := r.failures.GetCurrentURL(ctx); err == nil {
		out = append(out, entities.TextAttachment("Current URL", url))
	}
	if src, err := r.failures.PageSource(ctx); err != nil {
		r.logger.Warnf("Failed to capture page source for %s: %v", name, err)
	} else {
		out = append(out, entities.HTMLAttachment("Page Source", src))
	}
	if entries, err := r.failures.ConsoleLogs(ctx); err != nil {
		r.logger.Warnf("Failed to capture browser logs for %s: %v", name, err)
	} else {
		out = append(out, entities.TextAttachment("Browser Console Logs", entities.FormatConsole(entries)))
	}
	return out
}

func (r *Runner) flush(ctx context.Context, record entities.StepRecord) {
	r.records = append(r.records, record)
	if r.reporter == nil {
		return
	}
	if err := r.reporter.ReportStep(ctx, r.ref, record); err != nil {
		r.logger.Warnf("Failed to report step %s: %v", record.Name, err)
	}
}

// Records returns every record flushed so far, in execution order
func (r *Runner) Records() []entities.StepRecord {
	return append([]entities.StepRecord(nil), r.records...)
}

// Err returns the error of the failed step, if any
func (r *Runner) Err() error {
	return r.failed
}

// Result seals the scenario result from the records
func (r *Runner) Result(start time.Time, params []entities.Parameter) entities.ScenarioResult {
	result := entities.ScenarioResult{
		Ref:        r.ref,
		Status:     entities.StepStatusPassed,
		Start:      start,
		Stop:       time.Now(),
		Steps:      r.Records(),
		Parameters: params,
	}
	if r.failed != nil {
		result.Status = entities.StatusFor(r.failed)
		result.Error = r.failed.Error()
		for _, rec := range r.records {
			if rec.Status == entities.StepStatusFailed || rec.Status == entities.StepStatusBroken {
				result.FailedStep = rec.Name
				break
			}
		}
	}
	return result
}
