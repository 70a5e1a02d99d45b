//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"meeting-room-booking/internal/handler/httperr"

	"github.com/stretchr/testify/assert"
)

// AssertSuccessResponse checks the status and, for 2xx, decodes the body into target.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, status int, target any) bool {
	t.Helper()

	if !assert.Equal(t, status, w.Code, "unexpected status, body: %s", w.Body.String()) {
		return false
	}
	if target == nil || status < 200 || status >= 300 {
		return true
	}
	return assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "body is not valid JSON: %s", w.Body.String())
}

// AssertErrorResponse checks the status and that the error envelope message contains msg.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()

	assert.Equal(t, status, w.Code, "unexpected status, body: %s", w.Body.String())

	var resp httperr.Response
	if !assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "error body is not valid JSON: %s", w.Body.String()) {
		return
	}
	if msg != "" {
		assert.Contains(t, resp.Error.Message, msg)
	}
}

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s", k)
	}
}

// AssertRateLimited checks a drained bucket: 429, nothing remaining, a retry hint.
func AssertRateLimited(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()

	AssertErrorResponse(t, w, http.StatusTooManyRequests, "")
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
