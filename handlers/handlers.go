package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/nijaru/autocaption/config"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/middleware"
	"github.com/nijaru/autocaption/models"
	"github.com/nijaru/autocaption/notify"
	"github.com/nijaru/autocaption/utils"
	"github.com/nijaru/autocaption/validation"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Sender delivers a download link by email and returns the Message-ID.
type Sender interface {
	Send(ctx context.Context, to, downloadURL string) (string, error)
}

// UploadIssuer issues presigned upload URLs.
type UploadIssuer interface {
	PresignUpload(ctx context.Context, filename string) (models.PresignedUploadTarget, error)
}

var (
	cfg         *config.Config
	rateLimiter *rate.Limiter
	sender      Sender
	uploads     UploadIssuer
)

// InitHandlers wires the handlers. A nil issuer means upload storage is
// not configured and /presigned answers 503.
func InitHandlers(c *config.Config, s Sender, u UploadIssuer) {
	cfg = c
	rateLimiter = rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimit)
	sender = s
	uploads = u
}

// EmailHandler is the notification relay: POST {email, downloadUrl}.
func EmailHandler(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	if r.Method != http.MethodPost {
		utils.WriteJSON(w, http.StatusMethodNotAllowed, notify.Response{Error: "Invalid request method"})
		return
	}

	if !rateLimiter.Allow() {
		utils.WriteJSON(w, http.StatusTooManyRequests, notify.Response{Error: "Rate limit exceeded"})
		logger.Warn("Rate limit exceeded for email relay")
		return
	}

	var req notify.Request
	if err := utils.DecodeJSON(r.Body, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, notify.Response{Error: "Invalid request body"})
		logger.WithError(err).Warn("Invalid email request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.DownloadURL = strings.TrimSpace(req.DownloadURL)
	if req.Email == "" || req.DownloadURL == "" {
		utils.WriteJSON(w, http.StatusBadRequest, notify.Response{Error: "Missing required fields"})
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, notify.Response{Error: errors.Message(err)})
		return
	}
	if err := validation.ValidateURL(req.DownloadURL); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, notify.Response{Error: errors.Message(err)})
		return
	}

	messageID, err := sender.Send(r.Context(), req.Email, req.DownloadURL)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, notify.Response{Error: errors.Message(err)})
		logger.WithError(err).WithField("to", req.Email).Error("Failed to send email")
		return
	}

	logger.WithFields(logrus.Fields{
		"to":        req.Email,
		"messageId": messageID,
	}).Info("Email sent")
	utils.WriteJSON(w, http.StatusOK, notify.Response{Success: true, MessageID: messageID})
}

// PresignHandler answers GET /presigned?filename= with a PUT URL.
func PresignHandler(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	if r.Method != http.MethodGet {
		utils.HandleError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	filename := r.URL.Query().Get("filename")
	if strings.TrimSpace(filename) == "" {
		utils.HandleError(w, "Filename is required", http.StatusBadRequest)
		return
	}
	if uploads == nil {
		utils.HandleError(w, "upload storage is not configured", http.StatusServiceUnavailable)
		logger.Warn("Presign requested without storage configured")
		return
	}

	target, err := uploads.PresignUpload(r.Context(), filename)
	if err != nil {
		status := errors.HTTPStatus(err)
		utils.HandleError(w, errors.Message(err), status)
		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithField("filename", filename).Error("Failed to presign upload")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, target)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
