package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/models"
)

type roundTripperFunc func(req *http.Request) *http.Response

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestEncodeFilename(t *testing.T) {
	tests := map[string]string{
		"clip.mp4":         "clip.mp4",
		"my clip.mp4":      "my%20clip.mp4",
		"a&b=c+d.mov":      "a%26b%3Dc%2Bd.mov",
		"vidéo d'été.mkv":  "vid%C3%A9o%20d%27%C3%A9t%C3%A9.mkv",
		"what?#frag.mp4":   "what%3F%23frag.mp4",
	}
	for in, want := range tests {
		if got := EncodeFilename(in); got != want {
			t.Errorf("EncodeFilename(%q): expected '%s', got '%s'", in, want, got)
		}
	}
}

func TestPresignResponseShapes(t *testing.T) {
	signed := "https://bucket.s3.amazonaws.com/uploads/a.mp4?X-Amz-Signature=abc&X-Amz-Expires=300"

	tests := []struct {
		name string
		body string
	}{
		{"plain text", signed},
		{"quoted text", `"` + signed + `"`},
		{"snake case json", `{"upload_url":"` + signed + `","expires_in":300}`},
		{"camel case json", `{"uploadUrl":"` + signed + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			client := NewClient("https://api.example.com/", &http.Client{
				Transport: roundTripperFunc(func(req *http.Request) *http.Response {
					gotQuery = req.URL.RawQuery
					return textResponse(http.StatusOK, tt.body)
				}),
			})

			target, err := client.Presign(context.Background(), "my clip.mp4")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target.URL != signed {
				t.Errorf("expected signed URL to be kept verbatim, got '%s'", target.URL)
			}
			if gotQuery != "filename=my%20clip.mp4" {
				t.Errorf("unexpected query '%s'", gotQuery)
			}
		})
	}
}

func TestPresignFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   errors.Kind
	}{
		{"forbidden", http.StatusForbidden, "AccessDenied", errors.KindPresignedAcquisitionFailed},
		{"server error", http.StatusInternalServerError, "boom", errors.KindPresignedAcquisitionFailed},
		{"empty body", http.StatusOK, "", errors.KindMalformedResponse},
		{"json without url", http.StatusOK, `{"expires_in":300}`, errors.KindMalformedResponse},
		{"relative url", http.StatusOK, "/uploads/a.mp4", errors.KindMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient("https://api.example.com", &http.Client{
				Transport: roundTripperFunc(func(req *http.Request) *http.Response {
					return textResponse(tt.status, tt.body)
				}),
			})

			_, err := client.Presign(context.Background(), "a.mp4")
			if got := errors.KindOf(err); got != tt.kind {
				t.Fatalf("expected kind %s, got %s (%v)", tt.kind, got, err)
			}
			if tt.kind == errors.KindPresignedAcquisitionFailed {
				e, _ := errors.As(err)
				if e.StatusCode != tt.status || e.Body != tt.body {
					t.Errorf("expected upstream %d/%q echoed, got %d/%q", tt.status, tt.body, e.StatusCode, e.Body)
				}
			}
		})
	}
}

func TestUploadSendsRawBytesWithContentType(t *testing.T) {
	var (
		gotMethod, gotType, gotBody, gotQuery string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	target := models.PresignedUploadTarget{URL: server.URL + "/uploads/a.mov?X-Amz-Signature=sig"}

	err := client.Upload(context.Background(), target, models.SourceFile{
		Name:     "a.mov",
		Size:     5,
		MIMEType: "video/quicktime",
		Body:     strings.NewReader("bytes"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPut || gotType != "video/quicktime" || gotBody != "bytes" {
		t.Errorf("unexpected upload %s %s %q", gotMethod, gotType, gotBody)
	}
	if gotQuery != "X-Amz-Signature=sig" {
		t.Errorf("signature was not preserved: %q", gotQuery)
	}
}

func TestUploadDefaultsContentType(t *testing.T) {
	var gotType string
	client := NewClient("https://api.example.com", &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) *http.Response {
			gotType = req.Header.Get("Content-Type")
			return textResponse(http.StatusOK, "")
		}),
	})

	err := client.Upload(context.Background(), models.PresignedUploadTarget{URL: "https://bucket/a"}, models.SourceFile{
		Name: "a",
		Body: strings.NewReader("x"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotType != models.DefaultVideoMIMEType {
		t.Errorf("expected '%s', got '%s'", models.DefaultVideoMIMEType, gotType)
	}
}

func TestUploadFailure(t *testing.T) {
	client := NewClient("https://api.example.com", &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) *http.Response {
			return textResponse(http.StatusForbidden, "<Error>SignatureDoesNotMatch</Error>")
		}),
	})

	err := client.Upload(context.Background(), models.PresignedUploadTarget{URL: "https://bucket/a"}, models.SourceFile{
		Body: strings.NewReader("x"),
	})
	if !errors.Is(err, errors.KindTransferFailed) {
		t.Fatalf("expected transfer failure, got %v", err)
	}
}

func TestSubmitCaption(t *testing.T) {
	var got models.CaptionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/caption" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"job_id":"abc123"}`))
	}))
	defer server.Close()

	opts := models.DefaultCaptionOptions()
	opts.ConvertTo = "fr"
	resp, err := NewClient(server.URL, server.Client()).SubmitCaption(context.Background(),
		models.NewCaptionRequest("https://bucket/uploads/a.mp4", opts, "user@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.JobID != "abc123" {
		t.Errorf("expected job id 'abc123', got '%s'", resp.JobID)
	}
	if got.UploadURL != "https://bucket/uploads/a.mp4" || got.ConvertTo != "fr" || got.Email != "user@example.com" {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestSubmitCaptionFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`},
		{"unparseable", http.StatusOK, "<html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient("https://api.example.com", &http.Client{
				Transport: roundTripperFunc(func(req *http.Request) *http.Response {
					return textResponse(tt.status, tt.body)
				}),
			})
			_, err := client.SubmitCaption(context.Background(), models.CaptionRequest{})
			if !errors.Is(err, errors.KindSubmissionFailed) {
				t.Fatalf("expected submission failure, got %v", err)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	var gotQuery string
	client := NewClient("https://api.example.com", &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) *http.Response {
			gotQuery = req.URL.RawQuery
			return textResponse(http.StatusOK, `{"job_id":"abc123","status":"COMPLETED","output_url":"https://x/y.mp4"}`)
		}),
	})

	record, err := client.Status(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "job_id=abc123" {
		t.Errorf("unexpected query '%s'", gotQuery)
	}
	if record.Status != models.JobStateCompleted || record.OutputURL != "https://x/y.mp4" {
		t.Errorf("unexpected record %+v", record)
	}
}

func TestStatusFailureIsPollFailed(t *testing.T) {
	client := NewClient("https://api.example.com", &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) *http.Response {
			return textResponse(http.StatusBadGateway, "upstream down")
		}),
	})

	if _, err := client.Status(context.Background(), "abc123"); !errors.Is(err, errors.KindPollFailed) {
		t.Fatalf("expected poll failure, got %v", err)
	}
}

func TestDeadlineBecomesTimedOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL, server.Client()).Presign(ctx, "a.mp4")
	if !errors.Is(err, errors.KindTimedOut) {
		t.Fatalf("expected timed out, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
		}
	}))
	defer healthy.Close()

	if err := NewClient(healthy.URL, healthy.Client()).Health(context.Background()); err != nil {
		t.Errorf("expected healthy backend, got %v", err)
	}

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	err := NewClient(unhealthy.URL, unhealthy.Client()).Health(context.Background())
	if !errors.Is(err, errors.KindUnavailable) {
		t.Errorf("expected unavailable, got %v", err)
	}
}

func TestCleanURL(t *testing.T) {
	got, err := CleanURL("https://bucket.s3.amazonaws.com/uploads/a.mp4?X-Amz-Signature=abc#frag")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://bucket.s3.amazonaws.com/uploads/a.mp4" {
		t.Errorf("unexpected clean URL '%s'", got)
	}
}
