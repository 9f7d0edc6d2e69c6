package checkout

import (
	"context"

	"checkout_automation/application/steps"
	"checkout_automation/domain/entities"
	"checkout_automation/infrastructure/security"
)

// Suite runs a Scenario over every row, one row at a time
type Suite struct {
	scenario *Scenario
}

// NewSuite - creates a suite around scenario
func NewSuite(scenario *Scenario) *Suite {
	return &Suite{scenario: scenario}
}

// Run executes rows in order. A failing row does not stop later rows.
// The consolidated log is reported once all rows are done, with every
// row's password masked.
func (s *Suite) Run(ctx context.Context, rows []entities.ScenarioRow) entities.SuiteResult {
	suite := steps.StartSuite(SuiteName)
	passwords := make([]string, 0, len(rows))
	for i, row := range rows {
		if ctx.Err() != nil {
			break
		}
		passwords = append(passwords, row.Password)
		suite.Scenarios = append(suite.Scenarios, s.scenario.Run(ctx, i, row))
	}
	reporter := security.NewReporter(s.scenario.reporter, passwords...)
	return steps.FinishSuite(ctx, reporter, s.scenario.logs, suite)
}
