package models

// PresignedUploadTarget is a write-capable URL issued for one upload.
// URL is kept verbatim, signing query parameters included.
type PresignedUploadTarget struct {
	URL       string `json:"upload_url"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}

// CaptionRequest is the POST /caption payload.
type CaptionRequest struct {
	UploadURL     string   `json:"upload_url"`
	CaptionColor  string   `json:"caption_color"`
	FontSize      int      `json:"font_size"`
	StrokeWidth   int      `json:"stroke_width"`
	ConvertTo     string   `json:"convert_to"`
	ExplicitLangs []string `json:"explicit_langs"`
	Email         string   `json:"email,omitempty"`
}

// NewCaptionRequest combines the object location, options and email.
func NewCaptionRequest(uploadURL string, opts CaptionOptions, email string) CaptionRequest {
	langs := opts.ExplicitLanguages
	if langs == nil {
		langs = []string{}
	}
	return CaptionRequest{
		UploadURL:     uploadURL,
		CaptionColor:  opts.CaptionColor,
		FontSize:      opts.FontSize,
		StrokeWidth:   opts.StrokeWidth,
		ConvertTo:     opts.ConvertTo,
		ExplicitLangs: langs,
		Email:         email,
	}
}

// CaptionResponse is the decoded POST /caption body. Which field is
// expected depends on the backend contract in use.
type CaptionResponse struct {
	DownloadURL string
	JobID       string
}

type JobState string

const (
	JobStatePending     JobState = "PENDING"
	JobStateCompleted   JobState = "COMPLETED"
	JobStateFailed      JobState = "FAILED"
	JobStateUninitiated JobState = "UNINITIATED"
)

// Valid reports whether s belongs to the backend's status vocabulary.
func (s JobState) Valid() bool {
	switch s {
	case JobStatePending, JobStateCompleted, JobStateFailed, JobStateUninitiated:
		return true
	}
	return false
}

func (s JobState) IsTerminal() bool {
	return s == JobStateCompleted || s == JobStateFailed
}

// JobStatus maps a backend state onto the presentation status. Unstarted
// backend jobs still count as pending.
func (s JobState) JobStatus() Status {
	switch s {
	case JobStateCompleted:
		return StatusCompleted
	case JobStateFailed:
		return StatusFailed
	default:
		return StatusPending
	}
}

// JobStatusRecord is one snapshot returned by GET /caption/status.
type JobStatusRecord struct {
	JobID     string   `json:"job_id"`
	Status    JobState `json:"status"`
	Message   string   `json:"message,omitempty"`
	OutputURL string   `json:"output_url,omitempty"`
}
