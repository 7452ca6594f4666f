package protocol

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defi-strategy-agent/internal/common/logger"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhook_DispatchesSignedEvent(t *testing.T) {
	var gotJob Job
	var gotEvent PhaseEvent
	webhook := NewWebhook("test-key", func(_ *http.Request, job Job, event PhaseEvent) {
		gotJob = job
		gotEvent = event
	}, logger.NewNoOpLogger())

	body := []byte(`{"job":{"id":42,"phase":0},"event":{"status":"pending","nextPhase":1}}`)
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set("X-Memo-Signature", signBody("test-key", body))
	rec := httptest.NewRecorder()

	webhook.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, int64(42), gotJob.ID)
	assert.Equal(t, PhaseNegotiation, gotEvent.NextPhase)
	assert.Equal(t, StatusPending, gotEvent.Status)
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	called := false
	webhook := NewWebhook("test-key", func(*http.Request, Job, PhaseEvent) {
		called = true
	}, logger.NewNoOpLogger())

	body := []byte(`{"job":{"id":1},"event":{"nextPhase":1}}`)
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set("X-Memo-Signature", "deadbeef")
	rec := httptest.NewRecorder()

	webhook.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestWebhook_RejectsMalformedBody(t *testing.T) {
	webhook := NewWebhook("test-key", func(*http.Request, Job, PhaseEvent) {}, logger.NewNoOpLogger())

	body := []byte(`not json`)
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set("X-Memo-Signature", signBody("test-key", body))
	rec := httptest.NewRecorder()

	webhook.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_RejectsNonPost(t *testing.T) {
	webhook := NewWebhook("test-key", func(*http.Request, Job, PhaseEvent) {}, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()

	webhook.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
