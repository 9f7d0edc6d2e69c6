package steps

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/infrastructure/logging"
	"checkout_automation/infrastructure/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrowser struct {
	shotErr error
	shots   int
}

func (f *fakeBrowser) TakeScreenshot(context.Context) ([]byte, error) {
	f.shots++
	return []byte("png"), f.shotErr
}

func (f *fakeBrowser) PageSource(context.Context) (string, error) {
	return "<html></html>", nil
}

func (f *fakeBrowser) ConsoleLogs(context.Context) ([]entities.ConsoleEntry, error) {
	return []entities.ConsoleEntry{{Time: time.Unix(0, 0).UTC(), Level: "severe", Message: "boom"}}, nil
}

func (f *fakeBrowser) GetCurrentURL(context.Context) (string, error) {
	return "https://shop.example/checkout", nil
}

func newRunner(t *testing.T, opts ...Option) (*Runner, *report.Recorder, entities.ScenarioRef) {
	t.Helper()
	ref := entities.ScenarioRef{ID: "row-1", Name: "Checkout #1"}
	logger, capture := logging.NewScoped(logging.New(io.Discard, "info", "text")).ForScenario(ref)
	rec := report.NewRecorder()
	return NewRunner(ref, rec, logger, capture, opts...), rec, ref
}

func names(records []entities.StepRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func attachmentNames(record entities.StepRecord) []string {
	out := make([]string, 0, len(record.Attachments))
	for _, a := range record.Attachments {
		out = append(out, a.Name)
	}
	return out
}

func TestRunRecordsEveryStep(t *testing.T) {
	browser := &fakeBrowser{}
	r, rec, ref := newRunner(t, WithScreenshots(browser), WithFailureEvidence(browser))
	ctx := context.Background()

	require.NoError(t, r.Run(ctx, "first", func(ctx context.Context, s *Step) error {
		s.Attach(entities.JSONAttachment("Request", []byte(`{}`)))
		return nil
	}))
	require.NoError(t, r.Run(ctx, "second", func(context.Context, *Step) error { return nil }))

	records := rec.Steps(ref.ID)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"first", "second"}, names(records))
	assert.Equal(t, []string{"Request", "first", "first Logs"}, attachmentNames(records[0]))
	assert.Equal(t, entities.StepStatusPassed, records[0].Status)
	assert.Equal(t, 2, browser.shots)

	logs := string(records[1].Attachments[1].Body)
	assert.Contains(t, logs, "Step started: second")
	assert.NotContains(t, logs, "Step started: first")
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	browser := &fakeBrowser{}
	r, rec, ref := newRunner(t, WithScreenshots(browser), WithFailureEvidence(browser))
	ctx := context.Background()

	mismatch := &entities.AssertionError{Subject: "payment message", Expected: "a", Actual: "b"}
	ran := 0
	step := func(err error) func(context.Context, *Step) error {
		return func(context.Context, *Step) error {
			ran++
			return err
		}
	}

	require.NoError(t, r.Run(ctx, "one", step(nil)))
	assert.ErrorIs(t, r.Run(ctx, "two", step(mismatch)), mismatch)
	assert.NoError(t, r.Run(ctx, "three", step(nil)))

	assert.Equal(t, 2, ran)
	records := rec.Steps(ref.ID)
	require.Len(t, records, 3)
	assert.Equal(t, entities.StepStatusFailed, records[1].Status)
	assert.Equal(t, entities.StepStatusSkipped, records[2].Status)
	assert.Empty(t, records[2].Attachments)
	assert.Equal(t,
		[]string{"two", "Current URL", "Page Source", "Browser Console Logs", "two Logs"},
		attachmentNames(records[1]))

	result := r.Result(time.Now(), nil)
	assert.Equal(t, entities.StepStatusFailed, result.Status)
	assert.Equal(t, "two", result.FailedStep)
	assert.Same(t, mismatch, r.Err())
}

func TestRunMarksOtherErrorsBroken(t *testing.T) {
	r, _, _ := newRunner(t)

	err := r.Run(context.Background(), "click", func(context.Context, *Step) error {
		return &entities.TimeoutError{Locator: entities.ByID("menu"), Condition: entities.ConditionVisible}
	})
	require.Error(t, err)

	records := r.Records()
	require.Len(t, records, 1)
	assert.Equal(t, entities.StepStatusBroken, records[0].Status)
	assert.Contains(t, records[0].Error, "timed out")
	assert.Equal(t, entities.StepStatusBroken, r.Result(time.Now(), nil).Status)
}

func TestScreenshotFailureDoesNotFailStep(t *testing.T) {
	browser := &fakeBrowser{shotErr: errors.New("session gone")}
	r, _, _ := newRunner(t, WithScreenshots(browser))

	require.NoError(t, r.Run(context.Background(), "navigate", func(context.Context, *Step) error { return nil }))

	record := r.Records()[0]
	assert.Equal(t, entities.StepStatusPassed, record.Status)
	assert.Equal(t, []string{"navigate Logs"}, attachmentNames(record))
	assert.Contains(t, string(record.Attachments[0].Body), "Failed to capture screenshot")
}

func TestFinishSuiteAttachesConsolidatedLog(t *testing.T) {
	ctx := context.Background()
	recorder := report.NewRecorder()
	logs := logging.NewScoped(logging.New(io.Discard, "info", "text"))

	first, _ := logs.ForScenario(entities.ScenarioRef{ID: "1", Name: "first"})
	second, _ := logs.ForScenario(entities.ScenarioRef{ID: "2", Name: "second"})
	first.Info("hello from first")
	second.Info("hello from second")

	suite := StartSuite("checkout")
	suite.Scenarios = []entities.ScenarioResult{{Status: entities.StepStatusPassed}, {Status: entities.StepStatusBroken}}
	suite = FinishSuite(ctx, recorder, logs, suite)

	assert.NotEmpty(t, suite.ID)
	assert.False(t, suite.Stop.Before(suite.Start))
	assert.Equal(t, SuiteLogName, suite.Log.Name)
	assert.Contains(t, string(suite.Log.Body), "hello from first")
	assert.Contains(t, string(suite.Log.Body), "hello from second")
	require.Len(t, recorder.Suites(), 1)
	assert.Equal(t, 1, recorder.Suites()[0].Failed())
}
