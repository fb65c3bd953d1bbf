package models

// Result is the outcome of a successful submission. It is either
// Completed (synchronous contract) or Pending (asynchronous contract).
type Result interface {
	Status() Status
	isResult()
}

// Completed carries a ready-to-use download URL.
type Completed struct {
	DownloadURL string `json:"download_url"`
}

func (Completed) Status() Status { return StatusCompleted }
func (Completed) isResult()      {}

// Pending carries the job identifier to poll.
type Pending struct {
	JobID string `json:"job_id"`
}

func (Pending) Status() Status { return StatusPending }
func (Pending) isResult()      {}
