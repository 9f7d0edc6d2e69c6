package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	slog "github.com/tebeka/selenium/log"
)

// DefaultSeleniumPort is the port chromedriver listens on
const DefaultSeleniumPort = 9515

// SeleniumOptions configures a WebDriver session
type SeleniumOptions struct {
	// DriverPath is the chromedriver executable; found on PATH when empty
	DriverPath string

	// ChromeBinary is the browser executable; chromedriver decides when empty
	ChromeBinary string

	Port     int
	Headless bool
}

type seleniumDriver struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Entry
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	for _, path := range []string{configured, os.Getenv("BROWSER_DRIVER_PATH")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}
	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("chromedriver not found. Please install it or set selenium.chromedriver")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if path := os.Getenv("CHROME_BINARY_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// NewSeleniumDriver - starts chromedriver and opens a maximised Chrome session
func NewSeleniumDriver(ctx context.Context, opts SeleniumOptions, logger *logrus.Entry) (interfaces.Driver, error) {
	driverPath, err := findChromeDriver(opts.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	if opts.Port == 0 {
		opts.Port = DefaultSeleniumPort
	}
	logger.Debugf("Using ChromeDriver at: %s", driverPath)

	service, err := selenium.NewChromeDriverService(driverPath, opts.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}
	chromeCaps := chrome.Capabilities{
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--remote-allow-origins=*",
		},
	}
	if opts.Headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless=new", "--window-size=1920,1080")
	}
	if binary := findChromeBinary(opts.ChromeBinary); binary != "" {
		chromeCaps.Path = binary
	}
	caps.AddChrome(chromeCaps)
	caps.SetLogLevel(slog.Browser, slog.All)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", opts.Port))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	if !opts.Headless {
		if err := wd.MaximizeWindow(""); err != nil {
			logger.Warnf("Failed to maximise window: %v", err)
		}
	}

	return &seleniumDriver{wd: wd, service: service, logger: logger}, nil
}

func seleniumBy(locator entities.Locator) (string, string, error) {
	switch locator.Strategy {
	case entities.StrategyID:
		return selenium.ByID, locator.Selector, nil
	case entities.StrategyCSS:
		return selenium.ByCSSSelector, locator.Selector, nil
	case entities.StrategyXPath:
		return selenium.ByXPATH, locator.Selector, nil
	case entities.StrategyName:
		return selenium.ByName, locator.Selector, nil
	case entities.StrategyLinkText:
		return selenium.ByLinkText, locator.Selector, nil
	case entities.StrategyPartialLinkText:
		return selenium.ByPartialLinkText, locator.Selector, nil
	}
	return "", "", fmt.Errorf("%w: %s", entities.ErrUnsupportedLocator, locator.Strategy)
}

// classify maps W3C error codes onto the driver sentinels
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *selenium.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Err {
	case "no such element":
		return fmt.Errorf("%w: %s", entities.ErrNoSuchElement, se.Message)
	case "stale element reference":
		return fmt.Errorf("%w: %s", entities.ErrStaleElement, se.Message)
	case "element not interactable", "element click intercepted":
		return fmt.Errorf("%w: %s", entities.ErrNotInteractable, se.Message)
	case "invalid session id", "no such window":
		return fmt.Errorf("%w: %s", entities.ErrSessionClosed, se.Message)
	}
	return err
}

// Navigate - navigates browser to specified URL
func (s *seleniumDriver) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	return classify(s.wd.Get(url))
}

func (s *seleniumDriver) FindElement(ctx context.Context, locator entities.Locator) (interfaces.Element, error) {
	by, value, err := seleniumBy(locator)
	if err != nil {
		return nil, err
	}
	we, err := s.wd.FindElement(by, value)
	if err != nil {
		return nil, classify(err)
	}
	return &seleniumElement{we: we}, nil
}

func (s *seleniumDriver) FindElements(ctx context.Context, locator entities.Locator) ([]interfaces.Element, error) {
	by, value, err := seleniumBy(locator)
	if err != nil {
		return nil, err
	}
	found, err := s.wd.FindElements(by, value)
	if err != nil {
		err = classify(err)
		if errors.Is(err, entities.ErrNoSuchElement) {
			return []interfaces.Element{}, nil
		}
		return nil, err
	}
	out := make([]interfaces.Element, 0, len(found))
	for _, we := range found {
		out = append(out, &seleniumElement{we: we})
	}
	return out, nil
}

func (s *seleniumDriver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	native := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if el, ok := arg.(*seleniumElement); ok {
			native = append(native, el.we)
			continue
		}
		native = append(native, arg)
	}
	result, err := s.wd.ExecuteScript(script, native)
	return result, classify(err)
}

func (s *seleniumDriver) Refresh(ctx context.Context) error {
	return classify(s.wd.Refresh())
}

func (s *seleniumDriver) SetImplicitWait(ctx context.Context, d time.Duration) error {
	return classify(s.wd.SetImplicitWaitTimeout(d))
}

// TakeScreenshot - takes screenshot of current page
func (s *seleniumDriver) TakeScreenshot(ctx context.Context) ([]byte, error) {
	png, err := s.wd.Screenshot()
	return png, classify(err)
}

func (s *seleniumDriver) PageSource(ctx context.Context) (string, error) {
	src, err := s.wd.PageSource()
	return src, classify(err)
}

func (s *seleniumDriver) ConsoleLogs(ctx context.Context) ([]entities.ConsoleEntry, error) {
	messages, err := s.wd.Log(slog.Browser)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]entities.ConsoleEntry, 0, len(messages))
	for _, m := range messages {
		out = append(out, entities.ConsoleEntry{
			Time:    m.Timestamp,
			Level:   string(m.Level),
			Message: m.Message,
		})
	}
	return out, nil
}

// GetCurrentURL - returns current page URL
func (s *seleniumDriver) GetCurrentURL(ctx context.Context) (string, error) {
	url, err := s.wd.CurrentURL()
	return url, classify(err)
}

// Close - closes browser and stops ChromeDriver service
func (s *seleniumDriver) Close() error {
	var errs []error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			errs = append(errs, fmt.Errorf("failed to quit webdriver: %w", err))
		}
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop chromedriver: %w", err))
		}
	}
	return errors.Join(errs...)
}

type seleniumElement struct {
	we selenium.WebElement
}

func (e *seleniumElement) IsDisplayed() (bool, error) {
	shown, err := e.we.IsDisplayed()
	return shown, classify(err)
}

func (e *seleniumElement) IsEnabled() (bool, error) {
	enabled, err := e.we.IsEnabled()
	return enabled, classify(err)
}

func (e *seleniumElement) Text() (string, error) {
	text, err := e.we.Text()
	return text, classify(err)
}

func (e *seleniumElement) Click() error {
	return classify(e.we.Click())
}

func (e *seleniumElement) Clear() error {
	return classify(e.we.Clear())
}

func (e *seleniumElement) SendKeys(text string) error {
	return classify(e.we.SendKeys(text))
}

// SelectByValue clicks the option of a select whose value attribute matches
func (e *seleniumElement) SelectByValue(value string) error {
	option, err := e.we.FindElement(selenium.ByCSSSelector, fmt.Sprintf("option[value=%q]", value))
	if err != nil {
		return fmt.Errorf("no option with value %q: %w", value, classify(err))
	}
	return classify(option.Click())
}
