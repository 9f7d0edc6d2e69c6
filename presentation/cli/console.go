package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"checkout_automation/domain/entities"
)

// consoleReporter prints one line per step and scenario
type consoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out}
}

var statusMarks = map[entities.StepStatus]string{
	entities.StepStatusPassed:  "ok  ",
	entities.StepStatusFailed:  "FAIL",
	entities.StepStatusBroken:  "BRKN",
	entities.StepStatusSkipped: "skip",
}

func (c *consoleReporter) ReportStep(_ context.Context, scenario entities.ScenarioRef, step entities.StepRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "  [%s] %s (%s)\n", statusMarks[step.Status], step.Name, step.Duration().Round(time.Millisecond))
	return err
}

func (c *consoleReporter) ReportScenario(_ context.Context, result entities.ScenarioResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "%s: %s\n", result.Ref.Name, result.Status)
	return err
}

func (c *consoleReporter) ReportSuite(context.Context, entities.SuiteResult) error {
	return nil
}
