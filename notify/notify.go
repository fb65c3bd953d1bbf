package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/nijaru/autocaption/errors"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Request is the body of POST /api/email.
type Request struct {
	Email       string `json:"email"`
	DownloadURL string `json:"downloadUrl"`
}

// Response is the relay's answer.
type Response struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Client posts download links to the notification relay.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Send asks the relay to email downloadURL to email. Every failure is
// KindNotificationFailed; the captioning result is unaffected by it.
func (c *Client) Send(ctx context.Context, email, downloadURL string) (Response, error) {
	const op = "notify.Send"

	data, err := json.Marshal(Request{Email: email, DownloadURL: downloadURL})
	if err != nil {
		return Response{}, errors.E(errors.KindNotificationFailed, op, err, "failed to encode notification")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return Response{}, errors.E(errors.KindNotificationFailed, op, pkgerrors.Wrap(err, "creating request"), "failed to send notification")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, errors.E(errors.KindNotificationFailed, op, pkgerrors.Wrap(err, "sending request"), "failed to send notification")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		e := errors.Upstream(errors.KindNotificationFailed, op, resp.StatusCode, string(body), "notification relay returned an unreadable response")
		e.Err = err
		return Response{}, e
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "notification relay rejected the request"
		}
		return out, errors.Upstream(errors.KindNotificationFailed, op, resp.StatusCode, string(body), msg)
	}

	logrus.WithFields(logrus.Fields{
		"email":     email,
		"messageId": out.MessageID,
	}).Info("Download link sent")
	return out, nil
}
