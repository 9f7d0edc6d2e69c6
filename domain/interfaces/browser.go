package interfaces

import (
	"context"
	"time"

	"checkout_automation/domain/entities"
)

// Driver is one live browser session
type Driver interface {
	// Navigate loads a URL in the current tab
	Navigate(ctx context.Context, url string) error

	// FindElement returns the first match or an error wrapping entities.ErrNoSuchElement
	FindElement(ctx context.Context, locator entities.Locator) (Element, error)

	// FindElements returns every current match; no match is an empty slice
	FindElements(ctx context.Context, locator entities.Locator) ([]Element, error)

	// ExecuteScript runs script in the page. Elements in args are exposed to
	// the script as arguments[i].
	ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error)

	// Refresh reloads the current document
	Refresh(ctx context.Context) error

	// SetImplicitWait sets the default wait applied to raw lookups
	SetImplicitWait(ctx context.Context, d time.Duration) error

	// TakeScreenshot captures the full page as PNG
	TakeScreenshot(ctx context.Context) ([]byte, error)

	// PageSource returns the rendered document
	PageSource(ctx context.Context) (string, error)

	// ConsoleLogs returns console entries accumulated since the last call
	ConsoleLogs(ctx context.Context) ([]entities.ConsoleEntry, error)

	// GetCurrentURL returns the current page URL
	GetCurrentURL(ctx context.Context) (string, error)

	// Close ends the session
	Close() error
}

// Element is a handle to one element of the current document. Handles
// go stale when the document is replaced.
type Element interface {
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	Text() (string, error)
	Click() error
	Clear() error
	SendKeys(text string) error
	SelectByValue(value string) error
}

// DriverFactory opens a new browser session
type DriverFactory func(ctx context.Context) (Driver, error)
