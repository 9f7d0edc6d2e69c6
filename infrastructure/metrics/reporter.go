// Package metrics counts reported steps and scenarios in a Prometheus
// registry
package metrics

import (
	"context"
	"fmt"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "checkout_automation"

// Reporter decorates another reporter with step and scenario metrics. At
// suite end the registry is written to a node-exporter textfile when a
// path is configured.
type Reporter struct {
	next     interfaces.Reporter
	registry *prometheus.Registry
	textfile string

	steps     *prometheus.CounterVec
	scenarios *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	suiteRuns *prometheus.GaugeVec
}

var _ interfaces.Reporter = (*Reporter)(nil)

// NewReporter - wraps next. next may be nil.
func NewReporter(next interfaces.Reporter, textfile string) *Reporter {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Reporter{
		next:     next,
		registry: reg,
		textfile: textfile,
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Number of reported steps by suite and status.",
		}, []string{"suite", "status"}),
		scenarios: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Number of reported scenarios by suite and status.",
		}, []string{"suite", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Wall time of executed steps.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"suite"}),
		suiteRuns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "suite_failed_scenarios",
			Help:      "Failed scenarios of the last run of each suite.",
		}, []string{"suite"}),
	}
}

// Registry exposes the underlying registry
func (r *Reporter) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Reporter) ReportStep(ctx context.Context, scenario entities.ScenarioRef, step entities.StepRecord) error {
	r.steps.WithLabelValues(scenario.Suite, step.Status.String()).Inc()
	if step.Status != entities.StepStatusSkipped {
		r.duration.WithLabelValues(scenario.Suite).Observe(step.Duration().Seconds())
	}
	if r.next == nil {
		return nil
	}
	return r.next.ReportStep(ctx, scenario, step)
}

func (r *Reporter) ReportScenario(ctx context.Context, result entities.ScenarioResult) error {
	r.scenarios.WithLabelValues(result.Ref.Suite, result.Status.String()).Inc()
	if r.next == nil {
		return nil
	}
	return r.next.ReportScenario(ctx, result)
}

func (r *Reporter) ReportSuite(ctx context.Context, suite entities.SuiteResult) error {
	r.suiteRuns.WithLabelValues(suite.Name).Set(float64(suite.Failed()))

	var nextErr error
	if r.next != nil {
		nextErr = r.next.ReportSuite(ctx, suite)
	}
	if r.textfile == "" {
		return nextErr
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nextErr
}
