// Package checkout runs the checkout journey once per scenario row.
package checkout

import (
	"context"
	"fmt"
	"time"

	"checkout_automation/application/pages"
	"checkout_automation/application/steps"
	"checkout_automation/application/verify"
	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
	"checkout_automation/infrastructure/element"
	"checkout_automation/infrastructure/logging"
	"checkout_automation/infrastructure/security"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SuiteName labels checkout results in reports
const SuiteName = "checkout"

// Options configures a Scenario
type Options struct {
	Waits         element.Options
	ImplicitWait  time.Duration
	PaymentMethod entities.PaymentMethod
}

// Scenario executes the checkout journey. Each Run owns its session.
type Scenario struct {
	newDriver interfaces.DriverFactory
	reporter  interfaces.Reporter
	logs      *logging.Scoped
	opts      Options
}

// NewScenario - creates a scenario opening sessions with newDriver
func NewScenario(newDriver interfaces.DriverFactory, reporter interfaces.Reporter, logs *logging.Scoped, opts Options) *Scenario {
	if opts.PaymentMethod == "" {
		opts.PaymentMethod = entities.PaymentCashOnDelivery
	}
	return &Scenario{
		newDriver: newDriver,
		reporter:  reporter,
		logs:      logs,
		opts:      opts,
	}
}

// journey is the state threaded through the steps of one row
type journey struct {
	row      entities.ScenarioRow
	method   entities.PaymentMethod
	driver   interfaces.Driver
	ui       *element.Interactor
	home     pages.HomePage
	login    pages.LoginPage
	product  pages.ProductPage
	checkout pages.CheckoutPage
	payment  string
	order    string
}

type stepDef struct {
	name string
	run  func(ctx context.Context, j *journey, s *steps.Step) error
}

// journeySteps is the declared, fixed order of the checkout journey
var journeySteps = []stepDef{
	{"Navigate to the shop", func(ctx context.Context, j *journey, _ *steps.Step) error {
		return j.driver.Navigate(ctx, j.row.URL)
	}},
	{"Open sign in", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.home = pages.NewHomePage(j.ui)
		j.login = j.home.ClickSignIn(ctx)
		return j.login.Err()
	}},
	{"Enter email address", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.login = j.login.EnterEmail(ctx, j.row.Username)
		return j.login.Err()
	}},
	{"Enter password", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.login = j.login.EnterPassword(ctx, j.row.Password)
		return j.login.Err()
	}},
	{"Submit login", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.login = j.login.Submit(ctx)
		return j.login.Err()
	}},
	{"Verify menu is displayed", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.home = j.login.Home().AssertMenuDisplayed(ctx)
		return j.home.Err()
	}},
	{"Return to home page", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.home = j.home.ReturnHome(ctx)
		return j.home.Err()
	}},
	{"Open product", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.product = j.home.ClickProduct(ctx)
		return j.product.Err()
	}},
	{"Add product to cart", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.product = j.product.AddToCart(ctx)
		return j.product.Err()
	}},
	{"Verify product is added to cart", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.product = j.product.AssertProductAdded(ctx)
		return j.product.Err()
	}},
	{"Return to home page again", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.home = j.product.Home().ReturnHome(ctx)
		return j.home.Err()
	}},
	{"Open cart", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.checkout = j.home.ClickCart(ctx)
		return j.checkout.Err()
	}},
	{"Proceed from cart", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.checkout = j.checkout.ProceedFromCart(ctx)
		return j.checkout.Err()
	}},
	{"Proceed from sign in", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.checkout = j.checkout.ProceedFromSignIn(ctx)
		return j.checkout.Err()
	}},
	{"Fill billing address", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.checkout = j.checkout.FillBilling(ctx, j.row.Address())
		return j.checkout.Err()
	}},
	{"Proceed from billing", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.checkout = j.checkout.ProceedFromBilling(ctx)
		return j.checkout.Err()
	}},
	{"Choose payment method", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.checkout = j.checkout.ChoosePaymentMethod(ctx, j.method)
		return j.checkout.Err()
	}},
	{"Finalize order", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.checkout = j.checkout.Finalize(ctx)
		return j.checkout.Err()
	}},
	{"Read payment confirmation", func(ctx context.Context, j *journey, s *steps.Step) error {
		msg, err := j.checkout.PaymentConfirmationMessage(ctx)
		if err != nil {
			return err
		}
		j.payment = msg
		s.Attach(entities.TextAttachment("Payment confirmation", msg))
		return nil
	}},
	{"Verify payment confirmation", func(_ context.Context, j *journey, _ *steps.Step) error {
		return verify.Equal("payment confirmation message", j.row.ExpectedPaymentMessage, j.payment)
	}},
	{"Finalize order again", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.checkout = j.checkout.Finalize(ctx)
		return j.checkout.Err()
	}},
	{"Read order confirmation", func(ctx context.Context, j *journey, s *steps.Step) error {
		msg, err := j.checkout.OrderConfirmationMessage(ctx)
		if err != nil {
			return err
		}
		j.order = msg
		s.Attach(entities.TextAttachment("Order confirmation", msg))
		return nil
	}},
	{"Verify order confirmation", func(_ context.Context, j *journey, _ *steps.Step) error {
		return verify.Contains("order confirmation message", j.row.ExpectedInvoiceFragment, j.order)
	}},
	{"Verify cart is not displayed", func(ctx context.Context, j *journey, _ *steps.Step) error {
		j.home = j.checkout.Home().AssertCartNotDisplayed(ctx)
		return j.home.Err()
	}},
}

// StepNames returns the journey steps in execution order
func StepNames() []string {
	names := make([]string, 0, len(journeySteps))
	for _, s := range journeySteps {
		names = append(names, s.name)
	}
	return names
}

// NewRef - creates the identity of one row execution
func NewRef(index int) entities.ScenarioRef {
	return entities.ScenarioRef{
		ID:    uuid.NewString(),
		Name:  fmt.Sprintf("Checkout row #%d", index+1),
		Suite: SuiteName,
		Row:   index,
	}
}

// Run executes the journey for row. The session is closed before Run
// returns, whatever the outcome.
func (s *Scenario) Run(ctx context.Context, index int, row entities.ScenarioRow) entities.ScenarioResult {
	ref := NewRef(index)
	logger, capture := s.logs.ForScenario(ref)
	start := time.Now()
	reporter := security.NewReporter(s.reporter, row.Password)

	result := s.run(ctx, ref, row, reporter, logger, capture, start)
	if result.Passed() {
		logger.Infof("Scenario passed in %s", result.Stop.Sub(result.Start).Round(time.Millisecond))
	} else {
		logger.Errorf("Scenario %s at step %q: %s", result.Status, result.FailedStep, result.Error)
	}

	if err := reporter.ReportScenario(ctx, result); err != nil {
		logger.Warnf("Failed to report scenario: %v", err)
	}
	return result
}

func (s *Scenario) run(ctx context.Context, ref entities.ScenarioRef, row entities.ScenarioRow, reporter interfaces.Reporter, logger *logrus.Entry, capture *logging.Capture, start time.Time) entities.ScenarioResult {
	var opts []steps.Option
	driver, setupErr := s.newDriver(ctx)
	if setupErr != nil {
		setupErr = fmt.Errorf("failed to open browser session: %w", setupErr)
	} else {
		defer func() {
			if err := driver.Close(); err != nil {
				logger.Warnf("Failed to close browser session: %v", err)
			}
		}()
		opts = append(opts, steps.WithScreenshots(driver), steps.WithFailureEvidence(driver))
	}
	runner := steps.NewRunner(ref, reporter, logger, capture, opts...)

	j := &journey{
		row:    row,
		method: s.opts.PaymentMethod,
		driver: driver,
	}
	if setupErr == nil {
		j.ui = element.NewInteractor(driver, s.opts.Waits, logger)
		if s.opts.ImplicitWait > 0 {
			if err := j.ui.SetImplicitWait(ctx, s.opts.ImplicitWait); err != nil {
				setupErr = fmt.Errorf("failed to apply implicit wait: %w", err)
			}
		}
	}

	// a setup failure breaks the first step; the runner skips the rest
	for _, def := range journeySteps {
		body := func(ctx context.Context, step *steps.Step) error {
			return def.run(ctx, j, step)
		}
		if setupErr != nil {
			body = func(context.Context, *steps.Step) error { return setupErr }
		}
		_ = runner.Run(ctx, def.name, body)
	}

	result := runner.Result(start, row.Parameters())
	if result.Passed() {
		if png, err := driver.TakeScreenshot(ctx); err == nil {
			result.Attachments = append(result.Attachments, entities.ScreenshotAttachment("Scenario passed", png))
		}
	}
	return result
}
