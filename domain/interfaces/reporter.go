package interfaces

import (
	"context"

	"checkout_automation/domain/entities"
)

// Reporter receives step records and results as a run progresses
type Reporter interface {
	// ReportStep is called once per sealed step record
	ReportStep(ctx context.Context, scenario entities.ScenarioRef, step entities.StepRecord) error

	// ReportScenario is called when a scenario execution ends
	ReportScenario(ctx context.Context, result entities.ScenarioResult) error

	// ReportSuite is called once at the end of a run
	ReportSuite(ctx context.Context, suite entities.SuiteResult) error
}
