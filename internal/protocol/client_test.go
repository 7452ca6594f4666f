package protocol

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, gatewayURL string) *Client {
	c, err := NewClient(&ClientConfig{
		GatewayURL:       gatewayURL,
		AgentAddress:     "0xagent",
		WalletPrivateKey: "test-signing-key",
		RequestTimeout:   2 * time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
		},
	})
	require.NoError(t, err)
	return c
}

func TestClient_RespondSignsMemo(t *testing.T) {
	var gotPath, gotSig string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSig = r.Header.Get("X-Memo-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	err := c.Respond(context.Background(), 42, true, "offer accepted")
	require.NoError(t, err)

	assert.Equal(t, "/jobs/42/respond", gotPath)

	mac := hmac.New(sha256.New, []byte("test-signing-key"))
	mac.Write(gotBody)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSig)

	var memo respondMemo
	require.NoError(t, json.Unmarshal(gotBody, &memo))
	assert.True(t, memo.Accepted)
	assert.Equal(t, "offer accepted", memo.Reason)
	assert.Equal(t, "0xagent", memo.Agent)
	assert.NotEmpty(t, memo.RequestID)
}

func TestClient_DeliverRetriesOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	err := c.Deliver(context.Background(), 7, map[string]interface{}{"job_name": "unknown"})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestClient_DeliverGivesUpOnClientError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	err := c.Deliver(context.Background(), 7, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "4xx responses must not be retried")
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(&ClientConfig{GatewayURL: "http://localhost"})
	assert.Error(t, err)

	_, err = NewClient(&ClientConfig{WalletPrivateKey: "key"})
	assert.Error(t, err)
}
