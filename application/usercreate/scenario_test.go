package usercreate_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"checkout_automation/application/usercreate"
	"checkout_automation/domain/entities"
	"checkout_automation/infrastructure/api"
	"checkout_automation/infrastructure/logging"
	"checkout_automation/infrastructure/report"
	"checkout_automation/infrastructure/twin"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var morpheus = entities.UserRecord{Name: "morpheus", Job: "leader"}

func run(t *testing.T, opts twin.Options, clientKey string) (entities.ScenarioResult, *report.Recorder) {
	t.Helper()

	twinLogger, _ := test.NewNullLogger()
	srv := httptest.NewServer(twin.New(opts, twinLogger))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Options{BaseURL: srv.URL, APIKey: clientKey})
	require.NoError(t, err)

	recorder := report.NewRecorder()
	logs := logging.NewScoped(logging.New(io.Discard, "info", "text"))
	return usercreate.NewScenario(client, recorder, logs).Run(context.Background(), morpheus), recorder
}

func statuses(steps []entities.StepRecord) []entities.StepStatus {
	out := make([]entities.StepStatus, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.Status)
	}
	return out
}

func TestCreateUserPasses(t *testing.T) {
	result, recorder := run(t, twin.Options{APIKey: "reqres-free-v1"}, "reqres-free-v1")

	require.True(t, result.Passed(), "failed at %q: %s", result.FailedStep, result.Error)
	require.Len(t, result.Steps, len(usercreate.StepNames()))

	request := result.Steps[0].Attachments[0]
	assert.Equal(t, "Request", request.Name)
	assert.Equal(t, entities.ContentTypeJSON, request.ContentType)
	assert.JSONEq(t, `{"name":"morpheus","job":"leader"}`, string(request.Body))

	response := result.Steps[1].Attachments[0]
	assert.Equal(t, "Response", response.Name)
	assert.Contains(t, string(response.Body), `"id"`)

	for _, step := range result.Steps {
		last := step.Attachments[len(step.Attachments)-1]
		assert.Equal(t, step.Name+" Logs", last.Name)
		for _, a := range step.Attachments {
			assert.NotEqual(t, entities.ContentTypePNG, a.ContentType)
		}
	}
	assert.Len(t, recorder.Scenarios(), 1)
}

func TestOverriddenJobFailsBodyCheckOnly(t *testing.T) {
	result, _ := run(t, twin.Options{Override: map[string]string{"job": "Manager"}}, "")

	assert.Equal(t, entities.StepStatusFailed, result.Status)
	assert.Equal(t, "Verify response body", result.FailedStep)
	assert.Contains(t, result.Error, "Manager")
	assert.Equal(t, []entities.StepStatus{
		entities.StepStatusPassed,
		entities.StepStatusPassed,
		entities.StepStatusPassed,
		entities.StepStatusPassed,
		entities.StepStatusFailed,
	}, statuses(result.Steps))
}

func TestMissingKeyFailsStatusCheck(t *testing.T) {
	result, _ := run(t, twin.Options{APIKey: "reqres-free-v1"}, "")

	assert.Equal(t, entities.StepStatusFailed, result.Status)
	assert.Equal(t, "Verify status code", result.FailedStep)
	assert.Equal(t, entities.StepStatusSkipped, result.Steps[3].Status)
	assert.Equal(t, entities.StepStatusSkipped, result.Steps[4].Status)
}

func TestSlowResponseFailsTimeCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("slow")
	}
	result, _ := run(t, twin.Options{Latency: usercreate.MaxResponseTime + 100*time.Millisecond}, "")

	assert.Equal(t, "Verify response time", result.FailedStep)
	assert.Equal(t, entities.StepStatusFailed, result.Status)
}

func TestUnreachableServerIsBroken(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	client, err := api.NewClient(api.Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)
	logs := logging.NewScoped(logging.New(io.Discard, "info", "text"))

	result := usercreate.NewScenario(client, nil, logs).Run(context.Background(), morpheus)

	assert.Equal(t, entities.StepStatusBroken, result.Status)
	assert.Equal(t, "Send POST /api/users", result.FailedStep)
}
