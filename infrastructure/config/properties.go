// Package config reads flat key=value properties with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"checkout_automation/domain/interfaces"

	"github.com/joho/godotenv"
)

// Keys read by the harness
const (
	KeyBaseURL        = "base.url"
	KeyAPIKey         = "api.key"
	KeyBrowser        = "browser"
	KeyHeadless       = "browser.headless"
	KeyImplicitWait   = "browser.implicit_wait"
	KeyChromeDriver   = "selenium.chromedriver"
	KeySeleniumPort   = "selenium.port"
	KeyWaitTimeout    = "wait.timeout"
	KeyWaitInterval   = "wait.interval"
	KeyFluentTimeout  = "wait.fluent.timeout"
	KeyFluentInterval = "wait.fluent.interval"
	KeyResultsDir     = "allure.results"
	KeyMetricsFile    = "metrics.file"
	KeyCheckoutData   = "data.checkout"
	KeyUserData       = "data.user"
)

// DefaultAPIKey is the public key reqres accepts
const DefaultAPIKey = "reqres-free-v1"

// Properties is a read-only key/value view. Environment variables win
// over file values: base.url is overridden by BASE_URL.
type Properties struct {
	values map[string]string
	lookup func(string) (string, bool)
}

var _ interfaces.Config = (*Properties)(nil)

// Load reads the given files in order, later files overriding earlier
// ones. Missing files are skipped.
func Load(paths ...string) (*Properties, error) {
	values := make(map[string]string)
	for _, path := range paths {
		if path == "" {
			continue
		}
		read, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for k, v := range read {
			values[k] = v
		}
	}
	return &Properties{values: values, lookup: os.LookupEnv}, nil
}

// FromMap - creates properties from fixed values, ignoring the environment
func FromMap(values map[string]string) *Properties {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Properties{values: copied, lookup: func(string) (string, bool) { return "", false }}
}

// EnvName maps a property key to its environment variable
func EnvName(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// Get returns the value of key, or "" when it is not set anywhere
func (p *Properties) Get(key string) string {
	v, _ := p.lookupKey(key)
	return v
}

func (p *Properties) lookupKey(key string) (string, bool) {
	if v, ok := p.lookup(EnvName(key)); ok {
		return v, true
	}
	v, ok := p.values[key]
	return v, ok
}

// GetOr returns the value of key or def when it is unset or empty
func (p *Properties) GetOr(key, def string) string {
	if v := p.Get(key); v != "" {
		return v
	}
	return def
}

// Bool parses key as a boolean, returning def when unset or invalid
func (p *Properties) Bool(key string, def bool) bool {
	v := p.Get(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Duration parses key as a duration. A bare number is taken as seconds.
func (p *Properties) Duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.Get(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Set overrides key for the rest of the run. Flags use it to take
// precedence over the environment and files.
func (p *Properties) Set(key, value string) {
	p.values[key] = value
	prev := p.lookup
	p.lookup = func(name string) (string, bool) {
		if name == EnvName(key) {
			return "", false
		}
		return prev(name)
	}
}
