// Package usercreate runs the user-creation API scenario
package usercreate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"checkout_automation/application/steps"
	"checkout_automation/application/verify"
	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
	"checkout_automation/infrastructure/api"
	"checkout_automation/infrastructure/logging"

	"github.com/google/uuid"
)

const (
	// SuiteName labels API results in reports
	SuiteName = "api"

	// UsersPath is the endpoint users are created on
	UsersPath = "/api/users"

	// MaxResponseTime is the slowest acceptable response
	MaxResponseTime = 1000 * time.Millisecond
)

// Sender is the part of api.Client the scenario needs
type Sender interface {
	PostJSON(ctx context.Context, path string, body []byte) (*api.Response, error)
}

// Scenario creates a user and checks the echoed fields
type Scenario struct {
	client   Sender
	reporter interfaces.Reporter
	logs     *logging.Scoped
}

// NewScenario - creates the scenario
func NewScenario(client Sender, reporter interfaces.Reporter, logs *logging.Scoped) *Scenario {
	return &Scenario{client: client, reporter: reporter, logs: logs}
}

// StepNames returns the scenario steps in execution order
func StepNames() []string {
	return []string{
		"Build request body",
		"Send POST " + UsersPath,
		"Verify status code",
		"Verify response time",
		"Verify response body",
	}
}

// Run executes the scenario for record and reports the result
func (s *Scenario) Run(ctx context.Context, record entities.UserRecord) entities.ScenarioResult {
	ref := entities.ScenarioRef{
		ID:    uuid.NewString(),
		Name:  "Create user " + record.Name,
		Suite: SuiteName,
	}
	logger, capture := s.logs.ForScenario(ref)
	runner := steps.NewRunner(ref, s.reporter, logger, capture)
	names := StepNames()
	start := time.Now()

	var (
		body []byte
		resp *api.Response
	)

	_ = runner.Run(ctx, names[0], func(_ context.Context, step *steps.Step) error {
		var err error
		body, err = api.Encode(record)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		logger.Infof("Request body: %s", body)
		step.Attach(entities.JSONAttachment("Request", api.Indent(body)))
		return nil
	})

	_ = runner.Run(ctx, names[1], func(ctx context.Context, step *steps.Step) error {
		var err error
		resp, err = s.client.PostJSON(ctx, UsersPath, body)
		if err != nil {
			return err
		}
		logger.Infof("Response %d in %s: %s", resp.StatusCode, resp.Elapsed.Round(time.Millisecond), resp.Body)
		step.Attach(entities.JSONAttachment("Response", resp.Pretty()))
		return nil
	})

	_ = runner.Run(ctx, names[2], func(context.Context, *steps.Step) error {
		return verify.EqualInt("status code", http.StatusCreated, resp.StatusCode)
	})

	_ = runner.Run(ctx, names[3], func(context.Context, *steps.Step) error {
		return verify.Less("response time (ms)", resp.Elapsed.Milliseconds(), MaxResponseTime.Milliseconds())
	})

	_ = runner.Run(ctx, names[4], func(context.Context, *steps.Step) error {
		name, _ := resp.Field("name")
		if err := verify.Equal("response name", record.Name, name); err != nil {
			return err
		}
		job, _ := resp.Field("job")
		return verify.Equal("response job", record.Job, job)
	})

	result := runner.Result(start, []entities.Parameter{
		{Name: "name", Value: record.Name},
		{Name: "job", Value: record.Job},
	})
	if result.Passed() {
		logger.Info("User created")
	} else {
		logger.Errorf("Scenario %s at step %q: %s", result.Status, result.FailedStep, result.Error)
	}

	if s.reporter != nil {
		if err := s.reporter.ReportScenario(ctx, result); err != nil {
			logger.Warnf("Failed to report scenario: %v", err)
		}
	}
	return result
}
