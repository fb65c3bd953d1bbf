package models

import (
	"fmt"
	"io"
	"time"
)

type Status string

const (
	StatusUnstarted Status = "UNSTARTED"
	StatusUploading Status = "UPLOADING"
	StatusSubmitted Status = "SUBMITTED"
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// IsTerminal reports whether no further transitions are expected.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// DefaultVideoMIMEType is used when a source file declares no MIME type.
const DefaultVideoMIMEType = "video/mp4"

// SourceFile is the video blob selected by the user.
type SourceFile struct {
	Name     string
	Size     int64
	MIMEType string
	Body     io.Reader
}

// ContentType returns the declared MIME type or the generic video type.
func (f SourceFile) ContentType() string {
	if f.MIMEType == "" {
		return DefaultVideoMIMEType
	}
	return f.MIMEType
}

// UploadJob tracks one submission from file selection to a terminal state.
type UploadJob struct {
	ID          string         `json:"id"`
	Source      SourceFile     `json:"-"`
	Options     CaptionOptions `json:"options"`
	Email       string         `json:"email,omitempty"`
	JobID       string         `json:"job_id,omitempty"`
	Status      Status         `json:"status"`
	DownloadURL string         `json:"download_url,omitempty"`
	Message     string         `json:"message,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewUploadJob creates a job in the UNSTARTED state.
func NewUploadJob(id string, source SourceFile, options CaptionOptions, email string) *UploadJob {
	now := time.Now()
	return &UploadJob{
		ID:        id,
		Source:    source,
		Options:   options,
		Email:     email,
		Status:    StatusUnstarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition validates and applies a status change.
func (j *UploadJob) Transition(to Status) error {
	if !isValidTransition(j.Status, to) {
		return fmt.Errorf("invalid transition: %s -> %s", j.Status, to)
	}
	j.Status = to
	j.UpdatedAt = time.Now()
	return nil
}

// Fail moves a non-terminal job to FAILED and records the reason.
func (j *UploadJob) Fail(message string) error {
	if err := j.Transition(StatusFailed); err != nil {
		return err
	}
	j.Message = message
	return nil
}

// Reset discards everything produced by a previous submission.
func (j *UploadJob) Reset() {
	j.JobID = ""
	j.DownloadURL = ""
	j.Message = ""
	j.Status = StatusUnstarted
	j.UpdatedAt = time.Now()
}

func isValidTransition(from, to Status) bool {
	switch from {
	case StatusUnstarted:
		return to == StatusUploading
	case StatusUploading:
		return to == StatusSubmitted || to == StatusFailed
	case StatusSubmitted:
		return to == StatusPending || to == StatusCompleted || to == StatusFailed
	case StatusPending:
		return to == StatusPending || to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}
