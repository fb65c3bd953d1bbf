package poller

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// StatusSource issues a single status request for a job.
type StatusSource interface {
	Status(ctx context.Context, jobID string) (models.JobStatusRecord, error)
}

type Config struct {
	// Interval between status requests in Watch.
	Interval time.Duration
	// Timeout bounds a whole Watch. Zero means no limit beyond ctx.
	Timeout time.Duration
	// MaxFailures is how many consecutive failed polls Watch tolerates.
	MaxFailures    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval:       5 * time.Second,
		Timeout:        30 * time.Minute,
		MaxFailures:    3,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

type Poller struct {
	source StatusSource
	cfg    Config
}

func New(source StatusSource, cfg Config) *Poller {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.MaxFailures < 0 {
		cfg.MaxFailures = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	return &Poller{source: source, cfg: cfg}
}

// Poll issues one status request and checks the record against the
// backend's status vocabulary. Transport failures are KindPollFailed and
// may be retried by the caller; unexpected shapes are KindMalformedResponse.
func (p *Poller) Poll(ctx context.Context, jobID string) (models.JobStatusRecord, error) {
	const op = "poller.Poll"

	if jobID == "" {
		return models.JobStatusRecord{}, errors.InvalidInput(op, nil, "job id is required")
	}

	record, err := p.source.Status(ctx, jobID)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return models.JobStatusRecord{}, err
		}
		return models.JobStatusRecord{}, errors.E(errors.KindPollFailed, op, err, "failed to query job status")
	}

	if !record.Status.Valid() {
		return record, errors.E(errors.KindMalformedResponse, op, nil, "unknown job status "+string(record.Status))
	}
	if record.Status == models.JobStateCompleted && record.OutputURL == "" {
		return record, errors.E(errors.KindMalformedResponse, op, nil, "completed job carries no output URL")
	}
	return record, nil
}

// Watch polls jobID at the configured interval until the job reaches a
// terminal state, reporting every decoded record to onUpdate. Consecutive
// poll failures back off exponentially with jitter; after MaxFailures of
// them the last error is returned.
func (p *Poller) Watch(ctx context.Context, jobID string, onUpdate func(models.JobStatusRecord)) (models.JobStatusRecord, error) {
	const op = "poller.Watch"

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	log := logrus.WithField("job_id", jobID)
	limiter := rate.NewLimiter(rate.Every(p.cfg.Interval), 1)

	var (
		last     models.JobStatusRecord
		failures int
	)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return last, stopped(ctx, op, err)
		}

		record, err := p.Poll(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return last, stopped(ctx, op, err)
			}
			if !errors.Is(err, errors.KindPollFailed) && !errors.Is(err, errors.KindTimedOut) {
				return last, err
			}

			failures++
			log.WithError(err).WithFields(logrus.Fields{
				"attempt":     failures,
				"maxFailures": p.cfg.MaxFailures,
			}).Warn("Status poll failed")
			if failures > p.cfg.MaxFailures {
				return last, err
			}

			select {
			case <-time.After(p.backoff(failures)):
			case <-ctx.Done():
				return last, stopped(ctx, op, ctx.Err())
			}
			continue
		}

		failures = 0
		last = record
		if onUpdate != nil {
			onUpdate(record)
		}
		if record.Status.IsTerminal() {
			log.WithField("status", record.Status).Info("Job reached terminal state")
			return record, nil
		}
	}
}

func (p *Poller) backoff(attempt int) time.Duration {
	backoff := time.Duration(float64(p.cfg.InitialBackoff) * math.Pow(2, float64(attempt-1)))
	if backoff > p.cfg.MaxBackoff {
		backoff = p.cfg.MaxBackoff
	}
	if half := int64(backoff / 2); half > 0 {
		backoff += time.Duration(rand.Int63n(half))
	}
	return backoff
}

// stopped converts the end of ctx into an error. rate.Limiter reports a
// wait that would outlive the deadline before the deadline passes, so any
// stop that is not a cancellation counts as a timeout.
func stopped(ctx context.Context, op string, err error) error {
	if ctx.Err() == context.Canceled {
		return errors.E(errors.KindPollFailed, op, ctx.Err(), "watch cancelled")
	}
	return errors.E(errors.KindTimedOut, op, err, "job did not finish in time")
}

// Apply moves job to the state a status record reports.
func Apply(job *models.UploadJob, record models.JobStatusRecord) error {
	switch record.Status {
	case models.JobStatePending, models.JobStateUninitiated:
		return job.Transition(models.StatusPending)
	case models.JobStateCompleted:
		if err := job.Transition(models.StatusCompleted); err != nil {
			return err
		}
		job.DownloadURL = record.OutputURL
		job.Message = record.Message
		return nil
	case models.JobStateFailed:
		msg := record.Message
		if msg == "" {
			msg = "Captioning failed"
		}
		return job.Fail(msg)
	default:
		return errors.E(errors.KindMalformedResponse, "poller.Apply", nil, "unknown job status "+string(record.Status))
	}
}
