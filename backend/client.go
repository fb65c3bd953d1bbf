package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/models"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// maxResponseBody bounds how much of a response body is read.
const maxResponseBody = 1 << 20

// Client talks to the remote captioning backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client rooted at apiRoot. A nil httpClient uses a
// client with a 30 second timeout; per-step deadlines come from ctx.
func NewClient(apiRoot string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(apiRoot, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// EncodeFilename percent-encodes a file name for use in a query string.
// Spaces become %20 rather than '+'.
func EncodeFilename(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

// Presign asks the backend for a write-capable URL for filename. The
// returned URL is kept verbatim, signing parameters included.
func (c *Client) Presign(ctx context.Context, filename string) (models.PresignedUploadTarget, error) {
	const op = "backend.Presign"

	endpoint := c.baseURL + "/presigned?filename=" + EncodeFilename(filename)
	status, body, err := c.do(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return models.PresignedUploadTarget{}, errors.E(errors.KindPresignedAcquisitionFailed, op, err, "failed to request upload URL")
	}
	if !isSuccess(status) {
		return models.PresignedUploadTarget{}, errors.Upstream(errors.KindPresignedAcquisitionFailed, op, status, string(body), "failed to get upload URL")
	}

	target, err := parsePresignBody(body)
	if err != nil {
		return models.PresignedUploadTarget{}, errors.E(errors.KindMalformedResponse, op, err, "upload URL response is malformed")
	}

	logrus.WithFields(logrus.Fields{
		"filename": filename,
		"host":     hostOf(target.URL),
	}).Debug("Acquired upload URL")
	return target, nil
}

// parsePresignBody accepts either a bare URL (optionally JSON-quoted) or
// an object carrying upload_url or uploadUrl.
func parsePresignBody(body []byte) (models.PresignedUploadTarget, error) {
	text := strings.TrimSpace(string(body))

	var target models.PresignedUploadTarget
	if strings.HasPrefix(text, "{") {
		var payload struct {
			UploadURL      string `json:"upload_url"`
			UploadURLCamel string `json:"uploadUrl"`
			ExpiresIn      int    `json:"expires_in"`
		}
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			return target, pkgerrors.Wrap(err, "decoding upload URL object")
		}
		target.URL = payload.UploadURL
		if target.URL == "" {
			target.URL = payload.UploadURLCamel
		}
		target.ExpiresIn = payload.ExpiresIn
	} else {
		target.URL = strings.Trim(text, `"`)
	}

	if target.URL == "" {
		return target, pkgerrors.New("response carries no upload URL")
	}
	u, err := url.Parse(target.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return target, pkgerrors.Errorf("upload URL %q is not an absolute http(s) URL", target.URL)
	}
	return target, nil
}

// Upload writes the file bytes to the presigned target in a single PUT.
func (c *Client) Upload(ctx context.Context, target models.PresignedUploadTarget, file models.SourceFile) error {
	const op = "backend.Upload"

	if file.Body == nil {
		return errors.InvalidInput(op, nil, "file has no content")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.URL, file.Body)
	if err != nil {
		return errors.E(errors.KindTransferFailed, op, pkgerrors.Wrap(err, "creating request"), "failed to upload file")
	}
	req.Header.Set("Content-Type", file.ContentType())
	if file.Size > 0 {
		req.ContentLength = file.Size
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.E(errors.KindTransferFailed, op, pkgerrors.Wrap(scrub(err), "sending request"), "failed to upload file")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if !isSuccess(resp.StatusCode) {
		return errors.Upstream(errors.KindTransferFailed, op, resp.StatusCode, string(body), "failed to upload file")
	}

	logrus.WithFields(logrus.Fields{
		"filename": file.Name,
		"size":     file.Size,
		"duration": time.Since(start),
	}).Debug("Uploaded file")
	return nil
}

// SubmitCaption posts a captioning job. Both result fields are decoded;
// which one is required depends on the deployment's contract.
func (c *Client) SubmitCaption(ctx context.Context, payload models.CaptionRequest) (models.CaptionResponse, error) {
	const op = "backend.SubmitCaption"

	data, err := json.Marshal(payload)
	if err != nil {
		return models.CaptionResponse{}, errors.Internal(op, err, "failed to encode caption request")
	}

	status, body, err := c.do(ctx, http.MethodPost, c.baseURL+"/caption", bytes.NewReader(data), "application/json")
	if err != nil {
		return models.CaptionResponse{}, errors.E(errors.KindSubmissionFailed, op, err, "failed to submit captioning job")
	}
	if !isSuccess(status) {
		return models.CaptionResponse{}, errors.Upstream(errors.KindSubmissionFailed, op, status, string(body), "failed to submit captioning job")
	}

	var decoded struct {
		DownloadURL      string `json:"download_url"`
		DownloadURLCamel string `json:"downloadUrl"`
		JobID            string `json:"job_id"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		e := errors.Upstream(errors.KindSubmissionFailed, op, status, string(body), "captioning job response is not valid JSON")
		e.Err = err
		return models.CaptionResponse{}, e
	}

	resp := models.CaptionResponse{
		DownloadURL: decoded.DownloadURL,
		JobID:       decoded.JobID,
	}
	if resp.DownloadURL == "" {
		resp.DownloadURL = decoded.DownloadURLCamel
	}
	return resp, nil
}

// Status fetches one snapshot of a job. Transport failures, non-success
// responses and undecodable bodies are all reported as KindPollFailed.
func (c *Client) Status(ctx context.Context, jobID string) (models.JobStatusRecord, error) {
	const op = "backend.Status"

	endpoint := c.baseURL + "/caption/status?job_id=" + url.QueryEscape(jobID)
	status, body, err := c.do(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return models.JobStatusRecord{}, errors.E(errors.KindPollFailed, op, err, "failed to query job status")
	}
	if !isSuccess(status) {
		return models.JobStatusRecord{}, errors.Upstream(errors.KindPollFailed, op, status, string(body), "failed to query job status")
	}

	var record models.JobStatusRecord
	if err := json.Unmarshal(body, &record); err != nil {
		e := errors.Upstream(errors.KindPollFailed, op, status, string(body), "job status response is not valid JSON")
		e.Err = err
		return models.JobStatusRecord{}, e
	}
	if record.JobID == "" {
		record.JobID = jobID
	}
	return record, nil
}

// Health reports whether the backend answers GET /health with a 2xx.
func (c *Client) Health(ctx context.Context) error {
	const op = "backend.Health"

	status, body, err := c.do(ctx, http.MethodGet, c.baseURL+"/health", nil, "")
	if err != nil {
		return errors.Unavailable(op, err, "backend is unreachable")
	}
	if !isSuccess(status) {
		return errors.Upstream(errors.KindUnavailable, op, status, string(body), "backend is unhealthy")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(err, "creating request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, pkgerrors.Wrapf(scrub(err), "%s %s", method, redact(endpoint))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, nil, pkgerrors.Wrap(err, "reading response body")
	}
	return resp.StatusCode, data, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// redact drops the query string so signatures never reach the logs.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// scrub removes the query string from the URL a transport error reports.
func scrub(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return &url.Error{Op: ue.Op, URL: redact(ue.URL), Err: ue.Err}
	}
	return err
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// CleanURL strips the query string and fragment, leaving the canonical
// object location.
func CleanURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "parsing %s", redact(raw))
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}
