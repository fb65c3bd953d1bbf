package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nijaru/autocaption/backend"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/models"
	"github.com/nijaru/autocaption/validation"
	"github.com/sirupsen/logrus"
)

// Contract selects which result shape the backend returns from POST /caption.
type Contract string

const (
	// ContractSync backends answer with a ready download URL.
	ContractSync Contract = "sync"
	// ContractAsync backends answer with a job id to poll.
	ContractAsync Contract = "async"
)

func ParseContract(s string) (Contract, error) {
	switch Contract(strings.ToLower(strings.TrimSpace(s))) {
	case ContractSync:
		return ContractSync, nil
	case ContractAsync:
		return ContractAsync, nil
	default:
		return "", errors.InvalidInput("ParseContract", nil, "backend contract must be sync or async")
	}
}

// Backend is the remote side of a submission.
type Backend interface {
	Presign(ctx context.Context, filename string) (models.PresignedUploadTarget, error)
	Upload(ctx context.Context, target models.PresignedUploadTarget, file models.SourceFile) error
	SubmitCaption(ctx context.Context, req models.CaptionRequest) (models.CaptionResponse, error)
}

type Config struct {
	Contract Contract
	// SubmitSignedURL sends the full signed URL as upload_url instead of
	// the clean object location.
	SubmitSignedURL bool
	// StepTimeout bounds each remote step. Zero means no per-step deadline.
	StepTimeout time.Duration
}

// Orchestrator drives one submission through presign, transfer and job
// submission. Steps run strictly in order; a failed step halts the run.
// An object uploaded before a failed submission is left in storage.
type Orchestrator struct {
	backend Backend
	cfg     Config
}

func New(b Backend, cfg Config) *Orchestrator {
	if cfg.Contract == "" {
		cfg.Contract = ContractAsync
	}
	return &Orchestrator{backend: b, cfg: cfg}
}

func (o *Orchestrator) Contract() Contract {
	return o.cfg.Contract
}

// Submit validates the options and runs a fresh job for file.
func (o *Orchestrator) Submit(ctx context.Context, file models.SourceFile, opts models.CaptionOptions, email string) (models.Result, error) {
	job := models.NewUploadJob(uuid.NewString(), file, opts, email)
	return o.Run(ctx, job)
}

// Run drives job from UNSTARTED to SUBMITTED and then to PENDING or
// COMPLETED depending on the contract. On failure the job ends FAILED
// with the error message recorded.
func (o *Orchestrator) Run(ctx context.Context, job *models.UploadJob) (models.Result, error) {
	log := logrus.WithFields(logrus.Fields{
		"job":      job.ID,
		"filename": job.Source.Name,
		"contract": o.cfg.Contract,
	})

	opts, err := validation.ValidateOptions(job.Options)
	if err != nil {
		return nil, err
	}
	if job.Email != "" {
		if err := validation.ValidateEmail(job.Email); err != nil {
			return nil, err
		}
	}
	job.Options = opts

	if err := job.Transition(models.StatusUploading); err != nil {
		return nil, errors.Internal("orchestrator.Run", err, "job is not ready for submission")
	}

	target, err := o.presign(ctx, job.Source.Name)
	if err != nil {
		return nil, o.fail(log, job, err, "Failed to acquire upload URL")
	}

	if err := o.upload(ctx, target, job.Source); err != nil {
		return nil, o.fail(log, job, err, "Failed to upload file")
	}
	if err := job.Transition(models.StatusSubmitted); err != nil {
		return nil, errors.Internal("orchestrator.Run", err, "unexpected job state")
	}

	location, err := o.objectLocation(target)
	if err != nil {
		return nil, o.fail(log, job, err, "Failed to derive object location")
	}

	resp, err := o.submit(ctx, models.NewCaptionRequest(location, opts, job.Email))
	if err != nil {
		log.WithField("object", location).Warn("Uploaded object is left in storage after failed submission")
		return nil, o.fail(log, job, err, "Failed to submit captioning job")
	}

	result, err := o.shape(resp)
	if err != nil {
		return nil, o.fail(log, job, err, "Captioning job response is malformed")
	}

	switch r := result.(type) {
	case models.Completed:
		job.DownloadURL = r.DownloadURL
	case models.Pending:
		job.JobID = r.JobID
	}
	if err := job.Transition(result.Status()); err != nil {
		return nil, errors.Internal("orchestrator.Run", err, "unexpected job state")
	}

	log.WithField("status", job.Status).Info("Captioning job submitted")
	return result, nil
}

func (o *Orchestrator) presign(ctx context.Context, filename string) (models.PresignedUploadTarget, error) {
	ctx, cancel := o.step(ctx)
	defer cancel()
	return o.backend.Presign(ctx, filename)
}

func (o *Orchestrator) upload(ctx context.Context, target models.PresignedUploadTarget, file models.SourceFile) error {
	ctx, cancel := o.step(ctx)
	defer cancel()
	return o.backend.Upload(ctx, target, file)
}

func (o *Orchestrator) submit(ctx context.Context, req models.CaptionRequest) (models.CaptionResponse, error) {
	ctx, cancel := o.step(ctx)
	defer cancel()
	return o.backend.SubmitCaption(ctx, req)
}

func (o *Orchestrator) step(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.StepTimeout > 0 {
		return context.WithTimeout(ctx, o.cfg.StepTimeout)
	}
	return context.WithCancel(ctx)
}

func (o *Orchestrator) objectLocation(target models.PresignedUploadTarget) (string, error) {
	if o.cfg.SubmitSignedURL {
		return target.URL, nil
	}
	clean, err := backend.CleanURL(target.URL)
	if err != nil {
		return "", errors.E(errors.KindMalformedResponse, "orchestrator.objectLocation", err, "upload URL cannot be parsed")
	}
	return clean, nil
}

// shape turns a submission response into the result the contract promises.
func (o *Orchestrator) shape(resp models.CaptionResponse) (models.Result, error) {
	const op = "orchestrator.shape"

	switch o.cfg.Contract {
	case ContractSync:
		if resp.DownloadURL == "" {
			return nil, errors.E(errors.KindMalformedResponse, op, nil, "No download URL received from server")
		}
		return models.Completed{DownloadURL: resp.DownloadURL}, nil
	default:
		if resp.JobID == "" {
			return nil, errors.E(errors.KindMalformedResponse, op, nil, "No job id received from server")
		}
		return models.Pending{JobID: resp.JobID}, nil
	}
}

func (o *Orchestrator) fail(log *logrus.Entry, job *models.UploadJob, err error, msg string) error {
	log.WithError(err).WithField("kind", errors.KindOf(err)).Error(msg)
	if ferr := job.Fail(errors.Message(err)); ferr != nil {
		log.WithError(ferr).Warn("Could not mark job as failed")
	}
	return err
}
