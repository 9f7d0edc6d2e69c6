package steps

import (
	"context"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
	"checkout_automation/infrastructure/logging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SuiteLogName names the consolidated log attachment
const SuiteLogName = "Test Execution Logs"

// StartSuite - opens a suite result named name
func StartSuite(name string) entities.SuiteResult {
	return entities.SuiteResult{
		ID:    uuid.NewString(),
		Name:  name,
		Start: time.Now(),
	}
}

// FinishSuite seals suite with the consolidated log of logs and reports
// it. reporter may be nil.
func FinishSuite(ctx context.Context, reporter interfaces.Reporter, logs *logging.Scoped, suite entities.SuiteResult) entities.SuiteResult {
	suite.Stop = time.Now()
	suite.Log = entities.TextAttachment(SuiteLogName, logs.SuiteLog())

	logs.Base().WithFields(logrus.Fields{
		"suite":     suite.Name,
		"scenarios": len(suite.Scenarios),
		"failed":    suite.Failed(),
	}).Info("Suite finished")

	if reporter != nil {
		if err := reporter.ReportSuite(ctx, suite); err != nil {
			logs.Base().Warnf("Failed to report suite: %v", err)
		}
	}
	return suite
}
