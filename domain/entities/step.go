package entities

import (
	"time"
)

// StepStatus is the outcome of a step or scenario
type StepStatus string

const (
	StepStatusPassed  StepStatus = "passed"
	StepStatusFailed  StepStatus = "failed"
	StepStatusBroken  StepStatus = "broken"
	StepStatusSkipped StepStatus = "skipped"
)

func (s StepStatus) String() string {
	return string(s)
}

// IsSuccess reports whether the status counts as a pass
func (s StepStatus) IsSuccess() bool {
	return s == StepStatusPassed
}

// StatusFor maps a step error to its status. Assertion mismatches are
// failures of the product, everything else is a broken test.
func StatusFor(err error) StepStatus {
	if err == nil {
		return StepStatusPassed
	}
	if IsAssertion(err) {
		return StepStatusFailed
	}
	return StepStatusBroken
}

// Content types used for attachments
const (
	ContentTypePNG  = "image/png"
	ContentTypeText = "text/plain"
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html"
)

// Attachment is a named piece of evidence
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"type"`
	Body        []byte `json:"-"`
}

// TextAttachment - creates a text/plain attachment
func TextAttachment(name, text string) Attachment {
	return Attachment{Name: name, ContentType: ContentTypeText, Body: []byte(text)}
}

// ScreenshotAttachment - creates an image/png attachment
func ScreenshotAttachment(name string, png []byte) Attachment {
	return Attachment{Name: name, ContentType: ContentTypePNG, Body: png}
}

// JSONAttachment - creates an application/json attachment
func JSONAttachment(name string, body []byte) Attachment {
	return Attachment{Name: name, ContentType: ContentTypeJSON, Body: body}
}

// HTMLAttachment - creates a text/html attachment
func HTMLAttachment(name, html string) Attachment {
	return Attachment{Name: name, ContentType: ContentTypeHTML, Body: []byte(html)}
}

// StepRecord is one named unit of orchestrated work and its evidence
type StepRecord struct {
	Name        string       `json:"name"`
	Status      StepStatus   `json:"status"`
	Start       time.Time    `json:"start"`
	Stop        time.Time    `json:"stop"`
	Error       string       `json:"error,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Duration returns how long the step ran
func (r StepRecord) Duration() time.Duration {
	return r.Stop.Sub(r.Start)
}

// ScenarioRef identifies one scenario execution. Every attachment
// produced by the execution is tagged with it.
type ScenarioRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Suite string `json:"suite"`
	Row   int    `json:"row"`
}

// ScenarioResult is the outcome of one scenario execution
type ScenarioResult struct {
	Ref         ScenarioRef
	Status      StepStatus
	Start       time.Time
	Stop        time.Time
	Steps       []StepRecord
	Parameters  []Parameter
	Attachments []Attachment
	Error       string
	FailedStep  string
}

// Passed reports whether the scenario passed
func (r ScenarioResult) Passed() bool {
	return r.Status.IsSuccess()
}

// SuiteResult aggregates every scenario of a run
type SuiteResult struct {
	ID        string
	Name      string
	Start     time.Time
	Stop      time.Time
	Scenarios []ScenarioResult
	Log       Attachment
}

// Failed counts the scenarios that did not pass
func (s SuiteResult) Failed() int {
	n := 0
	for _, sc := range s.Scenarios {
		if !sc.Passed() {
			n++
		}
	}
	return n
}

// Status returns passed only when every scenario passed. A failed
// scenario outranks a broken one.
func (s SuiteResult) Status() StepStatus {
	status := StepStatusPassed
	for _, sc := range s.Scenarios {
		switch sc.Status {
		case StepStatusFailed:
			return StepStatusFailed
		case StepStatusBroken:
			status = StepStatusBroken
		}
	}
	return status
}
