package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// PlaywrightOptions configures a Playwright session
type PlaywrightOptions struct {
	Headless bool

	// ActionTimeout bounds single element actions; the wait layer owns
	// everything longer
	ActionTimeout time.Duration
}

type playwrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logrus.Entry

	mu       sync.Mutex
	console  []entities.ConsoleEntry
	implicit time.Duration
}

// NewPlaywrightDriver - launches Chromium and opens one page
func NewPlaywrightDriver(ctx context.Context, opts PlaywrightOptions, logger *logrus.Entry) (interfaces.Driver, error) {
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = 5 * time.Second
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1920,
			Height: 1080,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.ActionTimeout.Milliseconds()))

	d := &playwrightDriver{
		pw:      pw,
		browser: browser,
		context: bctx,
		page:    page,
		logger:  logger,
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		d.mu.Lock()
		d.console = append(d.console, entities.ConsoleEntry{
			Time:    time.Now(),
			Level:   msg.Type(),
			Message: msg.Text(),
		})
		d.mu.Unlock()
	})

	return d, nil
}

// playwrightSelector translates a locator into a Playwright selector
func playwrightSelector(locator entities.Locator) (string, error) {
	switch locator.Strategy {
	case entities.StrategyID:
		return fmt.Sprintf("css=[id=%q]", locator.Selector), nil
	case entities.StrategyCSS:
		return "css=" + locator.Selector, nil
	case entities.StrategyXPath:
		return "xpath=" + locator.Selector, nil
	case entities.StrategyName:
		return fmt.Sprintf("css=[name=%q]", locator.Selector), nil
	case entities.StrategyLinkText:
		return fmt.Sprintf("xpath=//a[normalize-space(.)=%s]", xpathLiteral(locator.Selector)), nil
	case entities.StrategyPartialLinkText:
		return fmt.Sprintf("xpath=//a[contains(normalize-space(.), %s)]", xpathLiteral(locator.Selector)), nil
	}
	return "", fmt.Errorf("%w: %s", entities.ErrUnsupportedLocator, locator.Strategy)
}

func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}

// translate maps Playwright failures onto the driver sentinels
func translate(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not attached to the DOM"), strings.Contains(msg, "Element is detached"):
		return fmt.Errorf("%w: %v", entities.ErrStaleElement, err)
	case strings.Contains(msg, "Target closed"), strings.Contains(msg, "has been closed"):
		return fmt.Errorf("%w: %v", entities.ErrSessionClosed, err)
	case errors.Is(err, playwright.ErrTimeout):
		return fmt.Errorf("%w: %v", entities.ErrNotInteractable, err)
	}
	return err
}

func (d *playwrightDriver) Navigate(ctx context.Context, url string) error {
	d.logger.Infof("Navigating to: %s", url)
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(30000),
	})
	return translate(err)
}

func (d *playwrightDriver) locate(locator entities.Locator) (playwright.Locator, int, error) {
	selector, err := playwrightSelector(locator)
	if err != nil {
		return nil, 0, err
	}
	loc := d.page.Locator(selector)
	count, err := loc.Count()
	if err != nil {
		return nil, 0, translate(err)
	}

	d.mu.Lock()
	implicit := d.implicit
	d.mu.Unlock()
	if count == 0 && implicit > 0 {
		waitErr := loc.First().WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: playwright.Float(float64(implicit.Milliseconds())),
		})
		if waitErr == nil {
			count, err = loc.Count()
			if err != nil {
				return nil, 0, translate(err)
			}
		}
	}
	return loc, count, nil
}

func (d *playwrightDriver) FindElement(ctx context.Context, locator entities.Locator) (interfaces.Element, error) {
	loc, count, err := d.locate(locator)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoSuchElement, locator)
	}
	return &playwrightElement{loc: loc.First()}, nil
}

func (d *playwrightDriver) FindElements(ctx context.Context, locator entities.Locator) ([]interfaces.Element, error) {
	loc, count, err := d.locate(locator)
	if err != nil {
		return nil, err
	}
	out := make([]interfaces.Element, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, &playwrightElement{loc: loc.Nth(i)})
	}
	return out, nil
}

// ExecuteScript runs a WebDriver-style script body. Element arguments are
// passed as handles and reachable through arguments[i].
func (d *playwrightDriver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	native := make([]interface{}, 0, len(args))
	for _, arg := range args {
		el, ok := arg.(*playwrightElement)
		if !ok {
			native = append(native, arg)
			continue
		}
		handle, err := el.loc.ElementHandle()
		if err != nil {
			return nil, translate(err)
		}
		defer handle.Dispose()
		native = append(native, handle)
	}

	expression := "args => (function() {\n" + script + "\n}).apply(null, args)"
	result, err := d.page.Evaluate(expression, native)
	return result, translate(err)
}

func (d *playwrightDriver) Refresh(ctx context.Context) error {
	_, err := d.page.Reload()
	return translate(err)
}

// SetImplicitWait makes raw lookups wait up to d for a first match
func (d *playwrightDriver) SetImplicitWait(ctx context.Context, wait time.Duration) error {
	d.mu.Lock()
	d.implicit = wait
	d.mu.Unlock()
	return nil
}

func (d *playwrightDriver) TakeScreenshot(ctx context.Context) ([]byte, error) {
	png, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	return png, translate(err)
}

func (d *playwrightDriver) PageSource(ctx context.Context) (string, error) {
	src, err := d.page.Content()
	return src, translate(err)
}

func (d *playwrightDriver) ConsoleLogs(ctx context.Context) ([]entities.ConsoleEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.console
	d.console = nil
	return out, nil
}

func (d *playwrightDriver) GetCurrentURL(ctx context.Context) (string, error) {
	return d.page.URL(), nil
}

// Close - closes the context and browser and stops the driver process
func (d *playwrightDriver) Close() error {
	var errs []error
	if d.context != nil {
		if err := d.context.Close(); err != nil && !closedAlready(err) {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
		d.context = nil
	}
	if d.browser != nil {
		if err := d.browser.Close(); err != nil && !closedAlready(err) {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		d.browser = nil
	}
	if d.pw != nil {
		if err := d.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		d.pw = nil
	}
	return errors.Join(errs...)
}

func closedAlready(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "closed") || strings.Contains(msg, "target closed")
}

type playwrightElement struct {
	loc playwright.Locator
}

func (e *playwrightElement) IsDisplayed() (bool, error) {
	shown, err := e.loc.IsVisible()
	return shown, translate(err)
}

func (e *playwrightElement) IsEnabled() (bool, error) {
	enabled, err := e.loc.IsEnabled()
	return enabled, translate(err)
}

func (e *playwrightElement) Text() (string, error) {
	text, err := e.loc.InnerText()
	return text, translate(err)
}

func (e *playwrightElement) Click() error {
	return translate(e.loc.Click())
}

func (e *playwrightElement) Clear() error {
	return translate(e.loc.Clear())
}

func (e *playwrightElement) SendKeys(text string) error {
	return translate(e.loc.PressSequentially(text))
}

func (e *playwrightElement) SelectByValue(value string) error {
	_, err := e.loc.SelectOption(playwright.SelectOptionValues{
		Values: playwright.StringSlice(value),
	})
	return translate(err)
}
