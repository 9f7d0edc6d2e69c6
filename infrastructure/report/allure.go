package report

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Allure result schema types.

// AllureResult represents a single test result in Allure format.
type AllureResult struct {
	UUID          string              `json:"uuid"`
	HistoryID     string              `json:"historyId"`
	FullName      string              `json:"fullName"`
	Name          string              `json:"name"`
	Status        string              `json:"status"`
	Stage         string              `json:"stage"`
	Start         int64               `json:"start"`
	Stop          int64               `json:"stop"`
	Labels        []AllureLabel       `json:"labels"`
	Parameters    []AllureParameter   `json:"parameters"`
	StatusDetails AllureStatusDetails `json:"statusDetails"`
	Steps         []AllureStep        `json:"steps"`
	Attachments   []AllureAttachment  `json:"attachments"`
}

// AllureStep represents a step within a test result.
type AllureStep struct {
	Name          string               `json:"name"`
	Status        string               `json:"status"`
	Stage         string               `json:"stage"`
	Start         int64                `json:"start"`
	Stop          int64                `json:"stop"`
	StatusDetails *AllureStatusDetails `json:"statusDetails,omitempty"`
	Steps         []AllureStep         `json:"steps"`
	Attachments   []AllureAttachment   `json:"attachments"`
}

// AllureAttachment represents a file attachment.
type AllureAttachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

// AllureLabel represents a label on a test result.
type AllureLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AllureParameter is one scenario input shown on the result page.
type AllureParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Mode  string `json:"mode,omitempty"`
}

// AllureStatusDetails holds failure message and trace.
type AllureStatusDetails struct {
	Message string `json:"message"`
	Trace   string `json:"trace"`
}

// AllureContainer groups the results of one suite and carries its fixtures.
type AllureContainer struct {
	UUID     string          `json:"uuid"`
	Name     string          `json:"name"`
	Children []string        `json:"children"`
	Befores  []AllureFixture `json:"befores"`
	Afters   []AllureFixture `json:"afters"`
	Start    int64           `json:"start"`
	Stop     int64           `json:"stop"`
}

// AllureFixture is a setup or teardown entry of a container.
type AllureFixture struct {
	Name        string             `json:"name"`
	Status      string             `json:"status"`
	Stage       string             `json:"stage"`
	Start       int64              `json:"start"`
	Stop        int64              `json:"stop"`
	Steps       []AllureStep       `json:"steps"`
	Attachments []AllureAttachment `json:"attachments"`
}

// AllureCategory defines a failure category with regex matching.
type AllureCategory struct {
	Name            string   `json:"name"`
	MatchedStatuses []string `json:"matchedStatuses"`
	MessageRegex    string   `json:"messageRegex"`
}

// AllureExecutor holds executor branding info.
type AllureExecutor struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	BuildName  string `json:"buildName"`
	ReportName string `json:"reportName"`
}

// AllureWriter is a Reporter writing an allure-results directory as the
// run progresses. Attachments are written when their step is reported.
type AllureWriter struct {
	dir         string
	environment map[string]string

	mu      sync.Mutex
	pending map[string][]AllureStep
}

// NewAllureWriter - creates dir and a writer filling it
func NewAllureWriter(dir string, environment map[string]string) (*AllureWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create allure-results dir: %w", err)
	}
	return &AllureWriter{
		dir:         dir,
		environment: environment,
		pending:     make(map[string][]AllureStep),
	}, nil
}

// Dir returns the results directory
func (w *AllureWriter) Dir() string {
	return w.dir
}

// ReportStep writes the step attachments and queues the step for its scenario
func (w *AllureWriter) ReportStep(_ context.Context, scenario entities.ScenarioRef, step entities.StepRecord) error {
	attachments, err := w.writeAttachments(step.Attachments)
	if err != nil {
		return fmt.Errorf("write attachments of step %q: %w", step.Name, err)
	}

	as := AllureStep{
		Name:        step.Name,
		Status:      mapAllureStatus(step.Status),
		Stage:       "finished",
		Start:       step.Start.UnixMilli(),
		Stop:        step.Stop.UnixMilli(),
		Steps:       []AllureStep{},
		Attachments: attachments,
	}
	if step.Error != "" {
		as.StatusDetails = &AllureStatusDetails{Message: step.Error}
	}

	w.mu.Lock()
	w.pending[scenario.ID] = append(w.pending[scenario.ID], as)
	w.mu.Unlock()
	return nil
}

// ReportScenario writes <uuid>-result.json with the queued steps
func (w *AllureWriter) ReportScenario(_ context.Context, result entities.ScenarioResult) error {
	attachments, err := w.writeAttachments(result.Attachments)
	if err != nil {
		return fmt.Errorf("write attachments of %q: %w", result.Ref.Name, err)
	}

	w.mu.Lock()
	steps := w.pending[result.Ref.ID]
	delete(w.pending, result.Ref.ID)
	w.mu.Unlock()
	if steps == nil {
		steps = []AllureStep{}
	}

	params := make([]AllureParameter, 0, len(result.Parameters))
	for _, p := range result.Parameters {
		ap := AllureParameter{Name: p.Name, Value: p.Value}
		if p.Masked {
			ap.Mode = "masked"
		}
		params = append(params, ap)
	}

	suite := result.Ref.Suite
	if suite == "" {
		suite = "default"
	}
	labels := []AllureLabel{
		{Name: "suite", Value: suite},
		{Name: "framework", Value: "checkout_automation"},
		{Name: "language", Value: "go"},
		{Name: "severity", Value: "normal"},
	}
	if host, err := os.Hostname(); err == nil {
		labels = append(labels, AllureLabel{Name: "host", Value: host})
	}

	ar := AllureResult{
		UUID:          result.Ref.ID,
		HistoryID:     fnv32aHash(suite + ":" + result.Ref.Name),
		FullName:      suite + "." + result.Ref.Name,
		Name:          result.Ref.Name,
		Status:        mapAllureStatus(result.Status),
		Stage:         "finished",
		Start:         result.Start.UnixMilli(),
		Stop:          result.Stop.UnixMilli(),
		Labels:        labels,
		Parameters:    params,
		StatusDetails: AllureStatusDetails{Message: result.Error},
		Steps:         steps,
		Attachments:   attachments,
	}
	if result.FailedStep != "" {
		ar.StatusDetails.Trace = "failed step: " + result.FailedStep
	}

	return w.writeJSON(result.Ref.ID+"-result.json", ar)
}

// ReportSuite writes the suite container with the consolidated log and
// the report metadata files
func (w *AllureWriter) ReportSuite(_ context.Context, suite entities.SuiteResult) error {
	var attachments []AllureAttachment
	if suite.Log.Name != "" {
		var err error
		attachments, err = w.writeAttachments([]entities.Attachment{suite.Log})
		if err != nil {
			return fmt.Errorf("write suite log: %w", err)
		}
	}

	id := suite.ID
	if id == "" {
		id = uuid.NewString()
	}
	children := make([]string, 0, len(suite.Scenarios))
	for _, sc := range suite.Scenarios {
		children = append(children, sc.Ref.ID)
	}

	container := AllureContainer{
		UUID:     id,
		Name:     suite.Name,
		Children: children,
		Befores:  []AllureFixture{},
		Afters: []AllureFixture{{
			Name:        "Test Execution Logs",
			Status:      "passed",
			Stage:       "finished",
			Start:       suite.Stop.UnixMilli(),
			Stop:        suite.Stop.UnixMilli(),
			Steps:       []AllureStep{},
			Attachments: attachments,
		}},
		Start: suite.Start.UnixMilli(),
		Stop:  suite.Stop.UnixMilli(),
	}
	if err := w.writeJSON(id+"-container.json", container); err != nil {
		return err
	}

	if err := w.writeCategories(); err != nil {
		return err
	}
	if err := w.writeEnvironment(); err != nil {
		return err
	}
	return w.writeJSON("executor.json", AllureExecutor{
		Name:       "checkout_automation",
		Type:       "local",
		BuildName:  suite.Name,
		ReportName: "Checkout automation",
	})
}

func (w *AllureWriter) writeAttachments(in []entities.Attachment) ([]AllureAttachment, error) {
	out := make([]AllureAttachment, 0, len(in))
	for _, a := range in {
		source := uuid.NewString() + "-attachment" + extension(a.ContentType)
		if err := os.WriteFile(filepath.Join(w.dir, source), a.Body, 0o644); err != nil {
			return nil, fmt.Errorf("write attachment %s: %w", a.Name, err)
		}
		out = append(out, AllureAttachment{Name: a.Name, Source: source, Type: a.ContentType})
	}
	return out, nil
}

func (w *AllureWriter) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// writeCategories writes categories.json for failure categorization.
func (w *AllureWriter) writeCategories() error {
	return w.writeJSON("categories.json", []AllureCategory{
		{Name: "Assertion Failed", MatchedStatuses: []string{"failed"}, MessageRegex: "(?s).*assertion failed.*"},
		{Name: "Timeout", MatchedStatuses: []string{"broken"}, MessageRegex: "(?s).*timed out.*"},
		{Name: "Element Not Found", MatchedStatuses: []string{"broken"}, MessageRegex: "(?s).*element not found.*"},
		{Name: "Checkout Out Of Order", MatchedStatuses: []string{"broken"}, MessageRegex: "(?s).*checkout cannot.*"},
		{Name: "Session Error", MatchedStatuses: []string{"broken"}, MessageRegex: "(?s).*(session|browser).*"},
		{Name: "Connection Error", MatchedStatuses: []string{"broken"}, MessageRegex: "(?s).*(connection|network|dial).*"},
	})
}

// writeEnvironment writes environment.properties sorted by key.
func (w *AllureWriter) writeEnvironment() error {
	keys := make([]string, 0, len(w.environment))
	for k := range w.environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, w.environment[k])
	}
	if err := os.WriteFile(filepath.Join(w.dir, "environment.properties"), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write environment.properties: %w", err)
	}
	return nil
}

func extension(contentType string) string {
	switch contentType {
	case entities.ContentTypePNG:
		return ".png"
	case entities.ContentTypeJSON:
		return ".json"
	case entities.ContentTypeHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// mapAllureStatus maps a step status to the Allure status string.
func mapAllureStatus(s entities.StepStatus) string {
	switch s {
	case entities.StepStatusPassed, entities.StepStatusFailed, entities.StepStatusBroken, entities.StepStatusSkipped:
		return string(s)
	default:
		return "unknown"
	}
}

// fnv32aHash returns a hex-encoded FNV-32a hash of the input string.
func fnv32aHash(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}

var _ interfaces.Reporter = (*AllureWriter)(nil)
