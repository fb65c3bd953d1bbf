package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nijaru/autocaption/config"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/mailer"
	"github.com/nijaru/autocaption/models"
	"github.com/nijaru/autocaption/storage"
)

type fakeSender struct {
	sent atomic.Int32
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, downloadURL string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	n := f.sent.Add(1)
	return fmt.Sprintf("<msg-%d@example.com>", n), nil
}

type fakePresigner struct{}

func (fakePresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{
		URL:    "https://bucket.example.com/" + aws.ToString(params.Key) + "?X-Amz-Signature=sig",
		Method: http.MethodPut,
	}, nil
}

func testConfig(limit int) *config.Config {
	return &config.Config{
		RateLimit:         limit,
		RateLimitInterval: 1 * time.Second,
	}
}

func postEmail(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	http.HandlerFunc(EmailHandler).ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestEmailHandler(t *testing.T) {
	InitHandlers(testConfig(5), &fakeSender{}, nil)

	rr := postEmail(`{"email":"user@example.com","downloadUrl":"https://x/y.mp4"}`)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	body := decodeResponse(t, rr)
	if body["success"] != true || body["messageId"] != "<msg-1@example.com>" {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestEmailHandler_MissingFields(t *testing.T) {
	InitHandlers(testConfig(5), &fakeSender{}, nil)

	for _, payload := range []string{`{"email":"user@example.com"}`, `{"downloadUrl":"https://x/y.mp4"}`, `{}`} {
		rr := postEmail(payload)
		if status := rr.Code; status != http.StatusBadRequest {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
		}
		expected := `{"success":false,"error":"Missing required fields"}`
		if strings.TrimSpace(rr.Body.String()) != expected {
			t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
		}
	}
}

func TestEmailHandler_InvalidEmail(t *testing.T) {
	InitHandlers(testConfig(5), &fakeSender{}, nil)

	rr := postEmail(`{"email":"not-an-address","downloadUrl":"https://x/y.mp4"}`)
	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
}

func TestEmailHandler_TransportNotConfigured(t *testing.T) {
	InitHandlers(testConfig(5), mailer.New(mailer.Config{}), nil)

	rr := postEmail(`{"email":"user@example.com","downloadUrl":"https://x/y.mp4"}`)
	if status := rr.Code; status != http.StatusInternalServerError {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
	}
	expected := `{"success":false,"error":"email transport is not configured"}`
	if strings.TrimSpace(rr.Body.String()) != expected {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}

func TestEmailHandler_SendFailure(t *testing.T) {
	sendErr := errors.E(errors.KindNotificationFailed, "mailer.Send", nil, "failed to send email")
	InitHandlers(testConfig(5), &fakeSender{err: sendErr}, nil)

	rr := postEmail(`{"email":"user@example.com","downloadUrl":"https://x/y.mp4"}`)
	if status := rr.Code; status != http.StatusInternalServerError {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
	}
	if body := decodeResponse(t, rr); body["error"] != "failed to send email" {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestEmailHandler_Method(t *testing.T) {
	InitHandlers(testConfig(5), &fakeSender{}, nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(EmailHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/api/email", nil))
	if status := rr.Code; status != http.StatusMethodNotAllowed {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusMethodNotAllowed)
	}
}

func TestEmailHandler_RateLimit(t *testing.T) {
	InitHandlers(testConfig(1), &fakeSender{}, nil)

	payload := `{"email":"user@example.com","downloadUrl":"https://x/y.mp4"}`

	// First request should pass
	if status := postEmail(payload).Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	// Second request should be rate limited
	rr := postEmail(payload)
	if status := rr.Code; status != http.StatusTooManyRequests {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusTooManyRequests)
	}
	expected := `{"success":false,"error":"Rate limit exceeded"}`
	if strings.TrimSpace(rr.Body.String()) != expected {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}

func TestConcurrentEmails(t *testing.T) {
	sender := &fakeSender{}
	InitHandlers(testConfig(10), sender, nil)

	var wg sync.WaitGroup
	errCh := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := postEmail(`{"email":"user@example.com","downloadUrl":"https://x/y.mp4"}`)
			if status := rr.Code; status != http.StatusOK {
				errCh <- fmt.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
			}
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}
	if n := sender.sent.Load(); n != 10 {
		t.Errorf("expected 10 emails, got %d", n)
	}
}

func TestPresignHandler(t *testing.T) {
	InitHandlers(testConfig(5), &fakeSender{}, storage.NewWithPresigner(fakePresigner{}, storage.Config{Bucket: "videos"}))

	rr := httptest.NewRecorder()
	http.HandlerFunc(PresignHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/presigned?filename=clip.mp4", nil))

	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var target models.PresignedUploadTarget
	if err := json.Unmarshal(rr.Body.Bytes(), &target); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(target.URL, "https://bucket.example.com/uploads/") || !strings.HasSuffix(strings.Split(target.URL, "?")[0], ".mp4") {
		t.Errorf("unexpected upload URL %s", target.URL)
	}
	if target.ExpiresIn != 300 {
		t.Errorf("expected expires_in 300, got %d", target.ExpiresIn)
	}
}

func TestPresignHandler_Errors(t *testing.T) {
	configured := storage.NewWithPresigner(fakePresigner{}, storage.Config{Bucket: "videos"})

	tests := []struct {
		name    string
		issuer  UploadIssuer
		query   string
		status  int
		message string
	}{
		{"missing filename", configured, "", http.StatusBadRequest, "Filename is required"},
		{"bad extension", configured, "?filename=notes.txt", http.StatusBadRequest, "Invalid file extension. Allowed: .mp4, .avi, .mov, .mkv, .flv, .wmv"},
		{"path in filename", configured, "?filename=..%2Fclip.mp4", http.StatusBadRequest, "filename must not contain a path"},
		{"storage not configured", nil, "?filename=clip.mp4", http.StatusServiceUnavailable, "upload storage is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitHandlers(testConfig(5), &fakeSender{}, tt.issuer)

			rr := httptest.NewRecorder()
			http.HandlerFunc(PresignHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/presigned"+tt.query, nil))

			if status := rr.Code; status != tt.status {
				t.Errorf("handler returned wrong status code: got %v want %v", status, tt.status)
			}
			if body := decodeResponse(t, rr); body["error"] != tt.message {
				t.Errorf("expected '%s', got '%v'", tt.message, body["error"])
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	http.HandlerFunc(HealthHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	expected := `{"status":"ok"}`
	if strings.TrimSpace(rr.Body.String()) != expected {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}
