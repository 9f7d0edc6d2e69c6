package element

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
	"checkout_automation/infrastructure/security"
	"checkout_automation/infrastructure/wait"

	"github.com/sirupsen/logrus"
)

const scriptClick = "arguments[0].click();"

// Interactor performs safe find, click and type operations on one session.
// Every operation waits before it acts.
type Interactor struct {
	driver  interfaces.Driver
	bounded *wait.Waiter
	fluent  *wait.Waiter
	logger  *logrus.Entry
}

// Options configures both wait families of an Interactor
type Options struct {
	Bounded wait.Options
	Fluent  wait.Options
}

// NewInteractor - creates an interactor bound to driver
func NewInteractor(driver interfaces.Driver, opts Options, logger *logrus.Entry) *Interactor {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Interactor{
		driver:  driver,
		bounded: wait.NewBounded(driver, opts.Bounded),
		fluent:  wait.NewFluent(driver, opts.Fluent),
		logger:  logger,
	}
}

// Driver returns the underlying session
func (i *Interactor) Driver() interfaces.Driver {
	return i.driver
}

// Logger returns the scenario logger
func (i *Interactor) Logger() *logrus.Entry {
	return i.logger
}

// WaitFor blocks on the bounded wait
func (i *Interactor) WaitFor(ctx context.Context, locator entities.Locator, cond entities.Condition) ([]interfaces.Element, error) {
	i.logger.Debugf("Waiting for %s to be %s", locator, cond)
	return i.bounded.Until(ctx, locator, cond)
}

// WaitFluently blocks on the fluent wait
func (i *Interactor) WaitFluently(ctx context.Context, locator entities.Locator, cond entities.Condition) ([]interfaces.Element, error) {
	i.logger.Debugf("Fluently waiting for %s to be %s", locator, cond)
	return i.fluent.Until(ctx, locator, cond)
}

// Find waits for locator to be visible and returns the first match
func (i *Interactor) Find(ctx context.Context, locator entities.Locator) (interfaces.Element, error) {
	if _, err := i.WaitFor(ctx, locator, entities.ConditionVisible); err != nil {
		return nil, err
	}

	el, err := i.driver.FindElement(ctx, locator)
	if err != nil {
		if errors.Is(err, entities.ErrNoSuchElement) || entities.IsRetryable(err) {
			return nil, &entities.ElementNotFoundError{Locator: locator, Action: "find", Cause: err}
		}
		return nil, fmt.Errorf("failed to find %s: %w", locator, err)
	}
	return el, nil
}

// FindAll waits until locator matches at least once and snapshots the matches
func (i *Interactor) FindAll(ctx context.Context, locator entities.Locator) (*Matches, error) {
	if _, err := i.WaitFor(ctx, locator, entities.ConditionAllPresent); err != nil {
		return nil, err
	}

	elements, err := i.driver.FindElements(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("failed to find all %s: %w", locator, err)
	}
	return newMatches(locator, elements), nil
}

// IsDisplayed reports whether locator currently matches a displayed
// element. It does not wait and never fails: a missing or detached
// element is reported as not displayed.
func (i *Interactor) IsDisplayed(ctx context.Context, locator entities.Locator) bool {
	el, err := i.driver.FindElement(ctx, locator)
	if err != nil {
		i.logger.Debugf("%s not displayed: %v", locator, err)
		return false
	}
	shown, err := el.IsDisplayed()
	if err != nil {
		i.logger.Debugf("%s not displayed: %v", locator, err)
		return false
	}
	return shown
}

// Click waits for locator to be present and clickable, then clicks it
func (i *Interactor) Click(ctx context.Context, locator entities.Locator) error {
	if _, err := i.WaitFor(ctx, locator, entities.ConditionAllPresent); err != nil {
		return err
	}
	elements, err := i.WaitFor(ctx, locator, entities.ConditionClickable)
	if err != nil {
		return err
	}

	i.logger.Infof("Clicking %s", locator)
	if err := elements[0].Click(); err != nil {
		return fmt.Errorf("failed to click %s: %w", locator, err)
	}
	return nil
}

// ClickViaScript clicks locator through the page script bridge. It
// reaches elements covered by overlays that reject a native click.
func (i *Interactor) ClickViaScript(ctx context.Context, locator entities.Locator) error {
	el, err := i.Find(ctx, locator)
	if err != nil {
		return err
	}

	i.logger.Infof("Clicking %s via script", locator)
	if _, err := i.driver.ExecuteScript(ctx, scriptClick, el); err != nil {
		return fmt.Errorf("failed to click %s via script: %w", locator, err)
	}
	return nil
}

// Type clears the field at locator and types text into it
func (i *Interactor) Type(ctx context.Context, locator entities.Locator, text string) error {
	el, err := i.Find(ctx, locator)
	if err != nil {
		return err
	}
	if err := el.Clear(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", locator, err)
	}
	if err := el.SendKeys(text); err != nil {
		return fmt.Errorf("failed to type into %s: %w", locator, err)
	}
	shown := text
	if security.IsSensitive(locator.Selector) {
		shown = security.Mask
	}
	i.logger.Infof("Typed %q into %s", shown, locator)
	return nil
}

// Text returns the visible text of locator
func (i *Interactor) Text(ctx context.Context, locator entities.Locator) (string, error) {
	el, err := i.Find(ctx, locator)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", locator, err)
	}
	return text, nil
}

// SelectByValue chooses the option with value in the select at locator
func (i *Interactor) SelectByValue(ctx context.Context, locator entities.Locator, value string) error {
	el, err := i.Find(ctx, locator)
	if err != nil {
		return err
	}
	if err := el.SelectByValue(value); err != nil {
		return fmt.Errorf("failed to select %q in %s: %w", value, locator, err)
	}
	i.logger.Infof("Selected %q in %s", value, locator)
	return nil
}

// Reload refreshes the current document. Handles obtained before the
// reload are stale afterwards.
func (i *Interactor) Reload(ctx context.Context) error {
	i.logger.Info("Reloading page")
	if err := i.driver.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to reload page: %w", err)
	}
	return nil
}

// SetImplicitWait changes the session-wide default wait of raw lookups.
// It affects every later lookup on this session.
func (i *Interactor) SetImplicitWait(ctx context.Context, d time.Duration) error {
	i.logger.Infof("Setting implicit wait to %s", d)
	if err := i.driver.SetImplicitWait(ctx, d); err != nil {
		return fmt.Errorf("failed to set implicit wait: %w", err)
	}
	return nil
}
