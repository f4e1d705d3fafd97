package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lojasmm/rbm/internal/webhook"
)

func newTestServer(t *testing.T) (*httptest.Server, *[]webhook.Event) {
	t.Helper()
	var events []webhook.Event
	wh := webhook.NewHandler("token", func(ctx context.Context, ev webhook.Event) {
		events = append(events, ev)
	}, zerolog.Nop())

	srv := httptest.NewServer(NewRouter(zerolog.Nop(), wh))
	t.Cleanup(srv.Close)
	return srv, &events
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestWebhookRoute(t *testing.T) {
	srv, events := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"clientToken": "token", "secret": "abc"})
	resp, err := http.Post(srv.URL+"/webhook", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["secret"] != "abc" {
		t.Fatalf("verification response = %v", got)
	}

	notification := []byte(`{"senderPhoneNumber":"+15551234567","messageId":"m1","text":"hi"}`)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/webhook", bytes.NewReader(webhook.Envelope(notification, "p1")))
	req.Header.Set("X-Goog-Signature", base64Sig("token", notification))
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK || len(*events) != 1 {
		t.Fatalf("status = %d, events = %d", resp2.StatusCode, len(*events))
	}
}

func TestWebhookRejectsGet(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/webhook")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	if resp, err := http.Get(srv.URL + "/health"); err == nil {
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), `rbm_agent_http_requests_total{method="GET",route="/health",status="200"}`) {
		t.Fatal("expected the health request to be counted")
	}
}

func base64Sig(token string, data []byte) string {
	return base64.StdEncoding.EncodeToString(webhook.Sign(token, data))
}
