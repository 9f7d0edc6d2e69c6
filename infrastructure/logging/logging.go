package logging

import (
	"io"
	"strings"

	"checkout_automation/domain/entities"

	"github.com/sirupsen/logrus"
)

// New - creates the process logger. format is "text" or "json"; an
// unknown level falls back to info.
func New(out io.Writer, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logger.SetLevel(logrus.InfoLevel)
	if level == "" {
		return logger
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to 'info'", level)
		return logger
	}
	logger.SetLevel(parsed)
	return logger
}

// Scoped hands out one logger per scenario execution. Every scenario
// logger also feeds the suite capture.
type Scoped struct {
	base  *logrus.Logger
	suite *Capture
}

// NewScoped - creates scenario loggers derived from base
func NewScoped(base *logrus.Logger) *Scoped {
	return &Scoped{base: base, suite: NewCapture()}
}

// ForScenario returns a logger tagged with the scenario identity and the
// capture holding only that scenario's lines
func (s *Scoped) ForScenario(ref entities.ScenarioRef) (*logrus.Entry, *Capture) {
	logger := logrus.New()
	logger.SetOutput(s.base.Out)
	logger.SetFormatter(s.base.Formatter)
	logger.SetLevel(s.base.GetLevel())

	capture := NewCapture()
	logger.AddHook(capture)
	logger.AddHook(s.suite)

	return logger.WithFields(logrus.Fields{
		"scenario":    ref.Name,
		"scenario_id": ref.ID,
	}), capture
}

// Base returns the process logger
func (s *Scoped) Base() *logrus.Logger {
	return s.base
}

// SuiteLog returns every line logged by any scenario so far
func (s *Scoped) SuiteLog() string {
	return s.suite.String()
}
