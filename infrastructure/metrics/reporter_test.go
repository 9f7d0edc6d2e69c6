package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/infrastructure/report"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterCountsAndForwards(t *testing.T) {
	ctx := context.Background()
	recorder := report.NewRecorder()
	textfile := filepath.Join(t.TempDir(), "checkout.prom")
	r := NewReporter(recorder, textfile)

	ref := entities.ScenarioRef{ID: "s1", Name: "row", Suite: "checkout"}
	start := time.Now()
	steps := []entities.StepRecord{
		{Name: "a", Status: entities.StepStatusPassed, Start: start, Stop: start.Add(300 * time.Millisecond)},
		{Name: "b", Status: entities.StepStatusFailed, Start: start, Stop: start.Add(time.Second)},
		{Name: "c", Status: entities.StepStatusSkipped, Start: start, Stop: start},
	}
	for _, s := range steps {
		require.NoError(t, r.ReportStep(ctx, ref, s))
	}
	result := entities.ScenarioResult{Ref: ref, Status: entities.StepStatusFailed, Steps: steps}
	require.NoError(t, r.ReportScenario(ctx, result))
	require.NoError(t, r.ReportSuite(ctx, entities.SuiteResult{ID: "x", Name: "checkout", Scenarios: []entities.ScenarioResult{result}}))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("checkout", "passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("checkout", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("checkout", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.scenarios.WithLabelValues("checkout", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.suiteRuns.WithLabelValues("checkout")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))

	assert.Len(t, recorder.Steps("s1"), 3)
	assert.Len(t, recorder.Scenarios(), 1)
	assert.Len(t, recorder.Suites(), 1)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `checkout_automation_scenarios_total{status="failed",suite="checkout"} 1`)
	assert.Contains(t, string(data), "checkout_automation_step_duration_seconds_count")
}

func TestReporterWithoutNext(t *testing.T) {
	r := NewReporter(nil, "")
	ctx := context.Background()

	assert.NoError(t, r.ReportStep(ctx, entities.ScenarioRef{Suite: "api"}, entities.StepRecord{Status: entities.StepStatusPassed}))
	assert.NoError(t, r.ReportScenario(ctx, entities.ScenarioResult{Ref: entities.ScenarioRef{Suite: "api"}, Status: entities.StepStatusPassed}))
	assert.NoError(t, r.ReportSuite(ctx, entities.SuiteResult{Name: "api"}))
}
