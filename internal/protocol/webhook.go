package protocol

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"defi-strategy-agent/internal/common/logger"
)

// EventHandler consumes one inbound phase event. The gateway serializes
// events per job, so implementations need no per-job locking.
type EventHandler func(r *http.Request, job Job, event PhaseEvent)

// Webhook is the inbound half of the gateway protocol: the gateway POSTs
// phase-change notifications here, signed the same way the agent signs its
// outbound memos.
type Webhook struct {
	secret  string
	handler EventHandler
	log     logger.Logger
}

func NewWebhook(walletPrivateKey string, handler EventHandler, log logger.Logger) *Webhook {
	return &Webhook{secret: walletPrivateKey, handler: handler, log: log}
}

type eventEnvelope struct {
	Job   Job        `json:"job"`
	Event PhaseEvent `json:"event"`
}

func (w *Webhook) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(rw, "unreadable body", http.StatusBadRequest)
		return
	}

	if !w.verify(body, r.Header.Get("X-Memo-Signature")) {
		w.log.Warn("rejected phase event with bad signature", map[string]interface{}{
			"remote": r.RemoteAddr,
		})
		http.Error(rw, "invalid signature", http.StatusUnauthorized)
		return
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		http.Error(rw, "malformed event", http.StatusBadRequest)
		return
	}

	w.handler(r, envelope.Job, envelope.Event)
	rw.WriteHeader(http.StatusAccepted)
}

func (w *Webhook) verify(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(w.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
