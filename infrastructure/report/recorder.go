package report

import (
	"context"
	"sync"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
)

// Recorder keeps everything reported in memory
type Recorder struct {
	mu        sync.Mutex
	steps     map[string][]entities.StepRecord
	scenarios []entities.ScenarioResult
	suites    []entities.SuiteResult
}

// NewRecorder - creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{steps: make(map[string][]entities.StepRecord)}
}

func (r *Recorder) ReportStep(_ context.Context, scenario entities.ScenarioRef, step entities.StepRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[scenario.ID] = append(r.steps[scenario.ID], step)
	return nil
}

func (r *Recorder) ReportScenario(_ context.Context, result entities.ScenarioResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios = append(r.scenarios, result)
	return nil
}

func (r *Recorder) ReportSuite(_ context.Context, suite entities.SuiteResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suites = append(r.suites, suite)
	return nil
}

// Steps returns the step records reported for a scenario id
func (r *Recorder) Steps(scenarioID string) []entities.StepRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.StepRecord(nil), r.steps[scenarioID]...)
}

// Scenarios returns the reported scenario results
func (r *Recorder) Scenarios() []entities.ScenarioResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.ScenarioResult(nil), r.scenarios...)
}

// Suites returns the reported suite results
func (r *Recorder) Suites() []entities.SuiteResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.SuiteResult(nil), r.suites...)
}

var _ interfaces.Reporter = (*Recorder)(nil)
