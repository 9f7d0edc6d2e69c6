// Package security keeps credentials out of logs and report evidence
package security

import (
	"context"
	"strings"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
)

// Mask replaces every redacted value
const Mask = "******"

// minSecretLen guards against masking single letters all over a page
const minSecretLen = 3

var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token",
	"api-key", "apikey", "api_key",
	"card", "cvv",
}

// IsSensitive reports whether a field or locator name suggests a credential
func IsSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Redactor replaces known secret values with Mask
type Redactor struct {
	replacer *strings.Replacer
}

// NewRedactor - creates a redactor for secrets. Empty and very short
// values are ignored.
func NewRedactor(secrets ...string) *Redactor {
	var pairs []string
	for _, s := range secrets {
		if len(s) < minSecretLen {
			continue
		}
		pairs = append(pairs, s, Mask)
	}
	if len(pairs) == 0 {
		return &Redactor{}
	}
	return &Redactor{replacer: strings.NewReplacer(pairs...)}
}

// Redact masks every secret in s
func (r *Redactor) Redact(s string) string {
	if r == nil || r.replacer == nil {
		return s
	}
	return r.replacer.Replace(s)
}

// Attachment masks text bodies. Screenshots pass through.
func (r *Redactor) Attachment(a entities.Attachment) entities.Attachment {
	if a.ContentType == entities.ContentTypePNG {
		return a
	}
	a.Body = []byte(r.Redact(string(a.Body)))
	return a
}

func (r *Redactor) attachments(in []entities.Attachment) []entities.Attachment {
	if in == nil {
		return nil
	}
	out := make([]entities.Attachment, len(in))
	for i, a := range in {
		out[i] = r.Attachment(a)
	}
	return out
}

// Reporter redacts everything it forwards to next
type Reporter struct {
	next     interfaces.Reporter
	redactor *Redactor
}

// NewReporter - wraps next so secrets never reach it
func NewReporter(next interfaces.Reporter, secrets ...string) *Reporter {
	return &Reporter{next: next, redactor: NewRedactor(secrets...)}
}

func (r *Reporter) ReportStep(ctx context.Context, scenario entities.ScenarioRef, step entities.StepRecord) error {
	if r.next == nil {
		return nil
	}
	step.Error = r.redactor.Redact(step.Error)
	step.Attachments = r.redactor.attachments(step.Attachments)
	return r.next.ReportStep(ctx, scenario, step)
}

func (r *Reporter) ReportScenario(ctx context.Context, result entities.ScenarioResult) error {
	if r.next == nil {
		return nil
	}
	result.Error = r.redactor.Redact(result.Error)
	result.Attachments = r.redactor.attachments(result.Attachments)

	steps := make([]entities.StepRecord, len(result.Steps))
	for i, step := range result.Steps {
		step.Error = r.redactor.Redact(step.Error)
		step.Attachments = r.redactor.attachments(step.Attachments)
		steps[i] = step
	}
	result.Steps = steps
	return r.next.ReportScenario(ctx, result)
}

func (r *Reporter) ReportSuite(ctx context.Context, suite entities.SuiteResult) error {
	if r.next == nil {
		return nil
	}
	suite.Log = r.redactor.Attachment(suite.Log)
	return r.next.ReportSuite(ctx, suite)
}

var _ interfaces.Reporter = (*Reporter)(nil)
