// Package browser opens driver sessions for the scenarios
package browser

import (
	"context"
	"fmt"
	"strings"

	"checkout_automation/domain/interfaces"
	"checkout_automation/infrastructure/browser/memory"

	"github.com/sirupsen/logrus"
)

// Kind selects the driver backend
type Kind string

const (
	KindPlaywright Kind = "playwright"
	KindSelenium   Kind = "selenium"
	KindMemory     Kind = "memory"
)

// ParseKind - parses a backend name, case-insensitively
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPlaywright, KindSelenium, KindMemory:
		return k, nil
	case "", "chrome":
		return KindSelenium, nil
	}
	return "", fmt.Errorf("unknown browser %q (want playwright, selenium or memory)", s)
}

// FactoryOptions configures the sessions a factory opens
type FactoryOptions struct {
	Kind       Kind
	Selenium   SeleniumOptions
	Playwright PlaywrightOptions

	// Sites backs memory sessions, one Site per session
	Sites memory.Sessions
}

// NewFactory - returns a DriverFactory opening one session per call
func NewFactory(opts FactoryOptions, logger *logrus.Entry) (interfaces.DriverFactory, error) {
	switch opts.Kind {
	case KindSelenium:
		return func(ctx context.Context) (interfaces.Driver, error) {
			return NewSeleniumDriver(ctx, opts.Selenium, logger)
		}, nil
	case KindPlaywright:
		return func(ctx context.Context) (interfaces.Driver, error) {
			return NewPlaywrightDriver(ctx, opts.Playwright, logger)
		}, nil
	case KindMemory:
		if opts.Sites == nil {
			return nil, fmt.Errorf("memory browser needs a site")
		}
		return func(ctx context.Context) (interfaces.Driver, error) {
			return memory.NewDriver(opts.Sites.OpenSession()), nil
		}, nil
	}
	return nil, fmt.Errorf("unknown browser %q", opts.Kind)
}
