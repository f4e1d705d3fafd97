package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lojasmm/rbm/internal/metrics"
)

const (
	signatureHeader = "X-Goog-Signature"
	maxBodyBytes    = 1 << 20
)

// EventHandler is called once for each decoded notification.
type EventHandler func(ctx context.Context, ev Event)

type Handler struct {
	clientToken string
	onEvent     EventHandler
	logger      zerolog.Logger
}

func NewHandler(clientToken string, onEvent EventHandler, logger zerolog.Logger) *Handler {
	return &Handler{
		clientToken: clientToken,
		onEvent:     onEvent,
		logger:      logger.With().Str("component", "webhook").Logger(),
	}
}

// ServeHTTP handles both the one-time verification request and push notifications.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var verify verificationRequest
	if json.Unmarshal(body, &verify) == nil && verify.ClientToken != "" {
		h.handleVerification(w, verify)
		return
	}

	var envelope pushEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.logger.Warn().Err(err).Msg("failed to decode push envelope")
		metrics.WebhookRejectedTotal.WithLabelValues("decode").Inc()
		// Acknowledge so the platform does not redeliver a payload we can never parse.
		w.WriteHeader(http.StatusOK)
		return
	}

	data, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
	if err != nil {
		h.logger.Warn().Err(err).Str("push_id", envelope.Message.MessageID).Msg("failed to decode message data")
		metrics.WebhookRejectedTotal.WithLabelValues("decode").Inc()
		w.WriteHeader(http.StatusOK)
		return
	}

	if !h.verifySignature(data, r.Header.Get(signatureHeader)) {
		h.logger.Warn().Str("push_id", envelope.Message.MessageID).Msg("invalid signature")
		metrics.WebhookRejectedTotal.WithLabelValues("signature").Inc()
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var n notification
	if err := json.Unmarshal(data, &n); err != nil {
		h.logger.Warn().Err(err).Str("push_id", envelope.Message.MessageID).Msg("failed to decode notification")
		metrics.WebhookRejectedTotal.WithLabelValues("decode").Inc()
		w.WriteHeader(http.StatusOK)
		return
	}

	ev := n.event()
	metrics.WebhookEventsTotal.WithLabelValues(string(ev.Kind)).Inc()
	h.logger.Debug().
		Str("kind", string(ev.Kind)).
		Str("msisdn", ev.MSISDN).
		Str("message_id", ev.MessageID).
		Msg("notification received")

	// Processing is synchronous; the platform waits for the 200.
	h.onEvent(r.Context(), ev)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleVerification(w http.ResponseWriter, req verificationRequest) {
	if !hmac.Equal([]byte(req.ClientToken), []byte(h.clientToken)) {
		h.logger.Warn().Msg("webhook verification failed: client token mismatch")
		metrics.WebhookRejectedTotal.WithLabelValues("verification").Inc()
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	h.logger.Info().Msg("webhook verified")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"secret": req.Secret})
}

// verifySignature checks the base64 HMAC-SHA512 of the decoded data keyed by the client token.
func (h *Handler) verifySignature(data []byte, signature string) bool {
	if h.clientToken == "" {
		return true
	}
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil || len(got) == 0 {
		return false
	}
	return hmac.Equal(got, Sign(h.clientToken, data))
}

// Sign computes the raw signature the platform sends for data.
func Sign(clientToken string, data []byte) []byte {
	mac := hmac.New(sha512.New, []byte(clientToken))
	mac.Write(data)
	return mac.Sum(nil)
}

// Envelope wraps a notification the way the platform delivers it. It is used
// by tests and local tooling to replay notifications.
func Envelope(notificationJSON []byte, pushID string) []byte {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(pushEnvelope{
		Message: pushMessage{
			Data:      base64.StdEncoding.EncodeToString(notificationJSON),
			MessageID: pushID,
		},
		Subscription: "projects/rbm/subscriptions/agent",
	})
	return buf.Bytes()
}
