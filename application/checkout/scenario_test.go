package checkout_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"checkout_automation/application/checkout"
	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
	"checkout_automation/infrastructure/element"
	"checkout_automation/infrastructure/logging"
	"checkout_automation/infrastructure/report"
	"checkout_automation/infrastructure/wait"
	"checkout_automation/internal/toolshop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastWaits = element.Options{
	Bounded: wait.Options{Timeout: 200 * time.Millisecond, Interval: 5 * time.Millisecond},
	Fluent:  wait.Options{Timeout: 100 * time.Millisecond, Interval: 5 * time.Millisecond},
}

func row() entities.ScenarioRow {
	return entities.ScenarioRow{
		URL:                     "https://shop.example/",
		Username:                "alice@example.com",
		Password:                "secret123",
		Street:                  "1 Main St",
		City:                    "Springfield",
		State:                   "IL",
		Country:                 "USA",
		PostalCode:              "62704",
		ExpectedPaymentMessage:  "Payment was successful",
		ExpectedInvoiceFragment: "Order #",
	}
}

type fixture struct {
	shop     *toolshop.Shop
	recorder *report.Recorder
	logs     *logging.Scoped
	sessions int
	closed   int
}

func newFixture(opts toolshop.Options) *fixture {
	return &fixture{
		shop:     toolshop.New(opts),
		recorder: report.NewRecorder(),
		logs:     logging.NewScoped(logging.New(io.Discard, "debug", "text")),
	}
}

type countingDriver struct {
	interfaces.Driver
	f *fixture
}

func (d countingDriver) Close() error {
	d.f.closed++
	return d.Driver.Close()
}

func (f *fixture) newDriver(context.Context) (interfaces.Driver, error) {
	f.sessions++
	return countingDriver{Driver: f.shop.NewDriver(), f: f}, nil
}

func (f *fixture) scenario() *checkout.Scenario {
	return checkout.NewScenario(f.newDriver, f.recorder, f.logs, checkout.Options{Waits: fastWaits})
}

func TestScenarioPasses(t *testing.T) {
	f := newFixture(toolshop.Options{Email: "alice@example.com", Password: "secret123"})

	result := f.scenario().Run(context.Background(), 0, row())

	require.True(t, result.Passed(), "failed at %q: %s", result.FailedStep, result.Error)
	assert.Equal(t, entities.StepStatusPassed, result.Status)
	assert.Len(t, result.Steps, len(checkout.StepNames()))
	for i, step := range result.Steps {
		assert.Equal(t, checkout.StepNames()[i], step.Name)
		assert.Equal(t, entities.StepStatusPassed, step.Status, step.Name)
	}
	require.Len(t, result.Attachments, 1)
	assert.Equal(t, "Scenario passed", result.Attachments[0].Name)

	orders := f.shop.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, []string{"Pliers"}, orders[0].Products)
	assert.Equal(t, entities.PaymentCashOnDelivery, orders[0].PaymentMethod)
	assert.Equal(t, row().Address(), orders[0].Billing)

	assert.Equal(t, 1, f.sessions)
	assert.Equal(t, 1, f.closed)

	reported := f.recorder.Scenarios()
	require.Len(t, reported, 1)
	assert.Equal(t, result.Ref.ID, reported[0].Ref.ID)
	assert.Len(t, f.recorder.Steps(result.Ref.ID), len(checkout.StepNames()))
}

func TestScenarioMasksPassword(t *testing.T) {
	f := newFixture(toolshop.Options{})

	result := f.scenario().Run(context.Background(), 0, row())

	for _, p := range result.Parameters {
		if p.Name == "password" {
			assert.True(t, p.Masked)
			return
		}
	}
	t.Fatal("password parameter missing")
}

func TestScenarioPaymentMismatchSkipsRest(t *testing.T) {
	f := newFixture(toolshop.Options{PaymentMessage: "Payment declined"})

	result := f.scenario().Run(context.Background(), 0, row())

	assert.Equal(t, entities.StepStatusFailed, result.Status)
	assert.Equal(t, "Verify payment confirmation", result.FailedStep)
	assert.Contains(t, result.Error, "Payment declined")

	seenFailure := false
	for _, step := range result.Steps {
		switch {
		case step.Name == result.FailedStep:
			seenFailure = true
			assert.Equal(t, entities.StepStatusFailed, step.Status)
			names := make([]string, 0, len(step.Attachments))
			for _, a := range step.Attachments {
				names = append(names, a.Name)
			}
			assert.Contains(t, names, "Current URL")
			assert.Contains(t, names, "Page Source")
			assert.Contains(t, names, "Browser Console Logs")
		case seenFailure:
			assert.Equal(t, entities.StepStatusSkipped, step.Status, step.Name)
		default:
			assert.Equal(t, entities.StepStatusPassed, step.Status, step.Name)
		}
	}
	assert.Empty(t, result.Attachments)
	assert.Empty(t, f.shop.Orders())
	assert.Equal(t, 1, f.closed)
}

func TestScenarioWrongPasswordIsBroken(t *testing.T) {
	f := newFixture(toolshop.Options{Email: "alice@example.com", Password: "other"})

	result := f.scenario().Run(context.Background(), 0, row())

	assert.Equal(t, entities.StepStatusBroken, result.Status)
	assert.Equal(t, "Verify menu is displayed", result.FailedStep)
	assert.Equal(t, 1, f.closed)

	var source string
	for _, step := range f.recorder.Steps(result.Ref.ID) {
		for _, a := range step.Attachments {
			if a.Name == "Page Source" {
				source = string(a.Body)
			}
			assert.NotContains(t, string(a.Body), row().Password, a.Name)
		}
	}
	assert.Contains(t, source, `value="******"`)
}

func TestScenarioSessionFailure(t *testing.T) {
	recorder := report.NewRecorder()
	logs := logging.NewScoped(logging.New(io.Discard, "info", "text"))
	failing := func(context.Context) (interfaces.Driver, error) {
		return nil, errors.New("chromedriver not found")
	}

	result := checkout.NewScenario(failing, recorder, logs, checkout.Options{}).Run(context.Background(), 2, row())

	assert.Equal(t, entities.StepStatusBroken, result.Status)
	assert.Contains(t, result.Error, "chromedriver not found")
	assert.Equal(t, "Navigate to the shop", result.FailedStep)
	assert.Equal(t, "Checkout row #3", result.Ref.Name)
	assert.Len(t, recorder.Scenarios(), 1)

	names := checkout.StepNames()
	require.Len(t, result.Steps, len(names))
	for i, step := range result.Steps {
		assert.Equal(t, names[i], step.Name)
		if i == 0 {
			assert.Equal(t, entities.StepStatusBroken, step.Status)
			continue
		}
		assert.Equal(t, entities.StepStatusSkipped, step.Status, step.Name)
	}
	assert.Len(t, recorder.Steps(result.Ref.ID), len(names))
}

type noImplicitWait struct {
	interfaces.Driver
}

func (noImplicitWait) SetImplicitWait(context.Context, time.Duration) error {
	return errors.New("implicit wait unsupported")
}

func TestScenarioImplicitWaitFailureBreaksRow(t *testing.T) {
	f := newFixture(toolshop.Options{})
	newDriver := func(ctx context.Context) (interfaces.Driver, error) {
		d, err := f.newDriver(ctx)
		return noImplicitWait{Driver: d}, err
	}
	opts := checkout.Options{Waits: fastWaits, ImplicitWait: time.Second}

	result := checkout.NewScenario(newDriver, f.recorder, f.logs, opts).Run(context.Background(), 0, row())

	assert.Equal(t, entities.StepStatusBroken, result.Status)
	assert.Equal(t, "Navigate to the shop", result.FailedStep)
	assert.Contains(t, result.Error, "implicit wait unsupported")
	require.Len(t, result.Steps, len(checkout.StepNames()))
	assert.Equal(t, entities.StepStatusSkipped, result.Steps[1].Status)
	assert.Equal(t, 1, f.closed)
}

func TestSuiteRowsStartSignedOut(t *testing.T) {
	f := newFixture(toolshop.Options{})

	suite := checkout.NewSuite(f.scenario()).Run(context.Background(), []entities.ScenarioRow{row(), row()})

	require.Len(t, suite.Scenarios, 2)
	for _, sc := range suite.Scenarios {
		assert.True(t, sc.Passed(), "%s %s at %q: %s", sc.Ref.Name, sc.Status, sc.FailedStep, sc.Error)
	}
	assert.Equal(t, 2, f.sessions)
	assert.Len(t, f.shop.Orders(), 2)
}

func TestSuiteLogMasksPasswords(t *testing.T) {
	f := newFixture(toolshop.Options{})
	leaky := row()
	leaky.Password = leaky.Username

	checkout.NewSuite(f.scenario()).Run(context.Background(), []entities.ScenarioRow{leaky})

	suites := f.recorder.Suites()
	require.Len(t, suites, 1)
	log := string(suites[0].Log.Body)
	assert.NotContains(t, log, leaky.Username)
	assert.Contains(t, log, `Typed \"******\" into id=email`)
}

func TestSuiteRunsEveryRow(t *testing.T) {
	f := newFixture(toolshop.Options{})
	bad := row()
	bad.ExpectedInvoiceFragment = "Invoice #"

	suite := checkout.NewSuite(f.scenario()).Run(context.Background(), []entities.ScenarioRow{bad, row()})

	require.Len(t, suite.Scenarios, 2)
	assert.Equal(t, entities.StepStatusFailed, suite.Scenarios[0].Status)
	assert.Equal(t, "Verify order confirmation", suite.Scenarios[0].FailedStep)
	assert.True(t, suite.Scenarios[1].Passed())
	assert.Equal(t, 1, suite.Failed())
	assert.NotEqual(t, suite.Scenarios[0].Ref.ID, suite.Scenarios[1].Ref.ID)

	assert.Equal(t, "Test Execution Logs", suite.Log.Name)
	assert.Contains(t, string(suite.Log.Body), "Checkout row #1")
	assert.Contains(t, string(suite.Log.Body), "Checkout row #2")
	assert.Len(t, f.recorder.Suites(), 1)
	assert.Len(t, f.shop.Orders(), 2)
}
