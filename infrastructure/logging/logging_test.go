package logging

import (
	"bytes"
	"io"
	"testing"

	"checkout_automation/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, "debug", "json")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger = New(&buf, "loud", "text")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
	assert.Contains(t, buf.String(), "Invalid log level 'loud'")
}

func TestCaptureSince(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	capture := NewCapture()
	logger.AddHook(capture)

	logger.Info("before")
	mark := capture.Mark()
	logger.Info("during one")
	logger.Warn("during two")

	excerpt := capture.Since(mark)
	assert.NotContains(t, excerpt, "before")
	assert.Contains(t, excerpt, "msg=\"during one\"")
	assert.Contains(t, excerpt, "level=warning")
	assert.Contains(t, capture.String(), "before")

	assert.Equal(t, capture.String(), capture.Since(99))
}

func TestScopedKeepsScenariosApart(t *testing.T) {
	base := New(io.Discard, "info", "text")
	scoped := NewScoped(base)

	first, firstLog := scoped.ForScenario(entities.ScenarioRef{ID: "a", Name: "Checkout #1"})
	second, secondLog := scoped.ForScenario(entities.ScenarioRef{ID: "b", Name: "Checkout #2"})

	first.Info("first row")
	second.Info("second row")

	require.Contains(t, firstLog.String(), "first row")
	assert.NotContains(t, firstLog.String(), "second row")
	assert.Contains(t, firstLog.String(), "scenario_id=a")
	assert.NotContains(t, secondLog.String(), "first row")

	suite := scoped.SuiteLog()
	assert.Contains(t, suite, "first row")
	assert.Contains(t, suite, "second row")
}
