package twin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTwin(opts Options) *Reqres {
	logger, _ := test.NewNullLogger()
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	}
	return New(opts, logger)
}

func post(t *testing.T, h http.Handler, body, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateUserEchoesBody(t *testing.T) {
	twin := newTwin(Options{APIKey: "k"})

	rec := post(t, twin, `{"name":"morpheus","job":"leader"}`, "k")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"name":"morpheus","job":"leader","id":"1","createdAt":"2026-01-02T03:04:05.000Z"}`, rec.Body.String())
	assert.Equal(t, []User{{ID: "1", Name: "morpheus", Job: "leader", CreatedAt: "2026-01-02T03:04:05.000Z"}}, twin.Users())
}

func TestCreateUserRequiresKey(t *testing.T) {
	twin := newTwin(Options{APIKey: "k"})

	tests := []struct {
		name string
		key  string
	}{
		{"missing", ""},
		{"wrong", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, twin, `{"name":"a"}`, tt.key)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
	assert.Empty(t, twin.Users())
}

func TestCreateUserRejectsInvalidJSON(t *testing.T) {
	rec := post(t, newTwin(Options{}), `{"name":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOverrideReplacesFields(t *testing.T) {
	twin := newTwin(Options{Override: map[string]string{"job": "Manager"}})

	rec := post(t, twin, `{"name":"morpheus","job":"leader"}`, "")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"job":"Manager"`)
	assert.Contains(t, rec.Body.String(), `"name":"morpheus"`)
}

func TestGetUser(t *testing.T) {
	twin := newTwin(Options{})
	post(t, twin, `{"name":"neo","job":"the one"}`, "")

	rec := httptest.NewRecorder()
	twin.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"neo"`)

	rec = httptest.NewRecorder()
	twin.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
