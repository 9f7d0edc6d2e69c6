package report

import (
	"context"
	"errors"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
)

// Multi forwards to every reporter and joins their errors
type Multi []interfaces.Reporter

func (m Multi) ReportStep(ctx context.Context, scenario entities.ScenarioRef, step entities.StepRecord) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.ReportStep(ctx, scenario, step))
	}
	return errors.Join(errs...)
}

func (m Multi) ReportScenario(ctx context.Context, result entities.ScenarioResult) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.ReportScenario(ctx, result))
	}
	return errors.Join(errs...)
}

func (m Multi) ReportSuite(ctx context.Context, suite entities.SuiteResult) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.ReportSuite(ctx, suite))
	}
	return errors.Join(errs...)
}

var _ interfaces.Reporter = Multi(nil)
