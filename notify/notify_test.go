package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nijaru/autocaption/errors"
)

func TestSend(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"success":true,"messageId":"<id@example.com>"}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, server.Client()).Send(context.Background(), "user@example.com", "https://x/y.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.MessageID != "<id@example.com>" {
		t.Errorf("expected message id, got '%s'", resp.MessageID)
	}
	if got.Email != "user@example.com" || got.DownloadURL != "https://x/y.mp4" {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestSendFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"not configured", http.StatusInternalServerError, `{"success":false,"error":"email transport is not configured"}`, "email transport is not configured"},
		{"missing fields", http.StatusBadRequest, `{"success":false,"error":"Missing required fields"}`, "Missing required fields"},
		{"success false", http.StatusOK, `{"success":false}`, "notification relay rejected the request"},
		{"not json", http.StatusBadGateway, `<html>`, "notification relay returned an unreadable response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, server.Client()).Send(context.Background(), "user@example.com", "https://x/y.mp4")
			if !errors.Is(err, errors.KindNotificationFailed) {
				t.Fatalf("expected notification failure, got %v", err)
			}
			if got := errors.Message(err); got != tt.wantMsg {
				t.Errorf("expected '%s', got '%s'", tt.wantMsg, got)
			}
		})
	}
}

func TestSendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url, nil).Send(context.Background(), "user@example.com", "https://x/y.mp4")
	if !errors.Is(err, errors.KindNotificationFailed) {
		t.Fatalf("expected notification failure, got %v", err)
	}
}
