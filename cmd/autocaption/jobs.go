package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/models"
	"github.com/nijaru/autocaption/poller"
	"github.com/nijaru/autocaption/tui"
	"github.com/sirupsen/logrus"
)

func cmdStatus(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.InvalidInput("status", nil, "expected a job id")
	}
	jobID := fs.Arg(0)

	pollCtx, cancel := context.WithTimeout(ctx, a.cfg.StepTimeout)
	defer cancel()

	record, err := poller.New(a.backend, a.cfg.Poll).Poll(pollCtx, jobID)
	if err != nil {
		return err
	}
	a.updateLedger(ctx, record)
	printRecord(a, record)
	return nil
}

func cmdWatch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(a.out)
	plain := fs.Bool("plain", false, "print updates as lines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.InvalidInput("watch", nil, "expected a job id")
	}
	jobID := fs.Arg(0)

	var filename string
	if store, err := a.ledger(); err == nil {
		if rec, err := store.GetByJobID(ctx, jobID); err == nil {
			filename = rec.Filename
		}
	}

	record, err := a.follow(ctx, jobID, filename, *plain)
	if err != nil {
		return err
	}
	a.updateLedger(ctx, record)
	printRecord(a, record)
	if record.Status == models.JobStateCompleted {
		if store, err := a.ledger(); err == nil {
			if rec, err := store.GetByJobID(ctx, jobID); err == nil && rec.Email != "" {
				a.notify(ctx, rec.Email, record.OutputURL)
			}
		}
	}
	return nil
}

// updateLedger stores the latest status for a job the ledger knows about.
func (a *app) updateLedger(ctx context.Context, record models.JobStatusRecord) {
	store, err := a.ledger()
	if err != nil {
		logrus.WithError(err).Warn("Job ledger unavailable")
		return
	}
	message := record.Message
	if record.Status == models.JobStateFailed && message == "" {
		message = "Captioning failed"
	}
	if err := store.UpdateStatus(ctx, record.JobID, record.Status.JobStatus(), record.OutputURL, message); err != nil {
		logrus.WithError(err).WithField("job_id", record.JobID).Warn("Failed to update job ledger")
	}
}

func printRecord(a *app, record models.JobStatusRecord) {
	status := record.Status.JobStatus()
	fmt.Fprintf(a.out, "Job %s: %s\n", record.JobID, tui.StatusStyle(status).Render(string(record.Status)))
	switch {
	case record.OutputURL != "":
		printCompleted(a, record.OutputURL)
	case record.Message != "":
		fmt.Fprintln(a.out, tui.InfoStyle.Render(record.Message))
	}
}

func cmdHistory(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(a.out)
	limit := fs.Int("n", 20, "number of entries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := a.ledger()
	if err != nil {
		return errors.Internal("history", err, "job ledger unavailable")
	}
	records, err := store.List(ctx, *limit)
	if err != nil {
		return errors.Internal("history", err, "failed to read job ledger")
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No submissions yet.")
		return nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("SUBMITTED", "FILE", "SIZE", "JOB", "STATUS", "RESULT")
	for _, r := range records {
		result := r.DownloadURL
		if result == "" {
			result = r.Message
		}
		t.Row(
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Filename,
			strconv.FormatFloat(float64(r.Size)/(1024*1024), 'f', 1, 64)+" MB",
			r.JobID,
			string(r.Status),
			result,
		)
	}
	fmt.Fprintln(a.out, t.String())
	return nil
}

func cmdHealth(ctx context.Context, a *app, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.StepTimeout)
	defer cancel()

	if err := a.backend.Health(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, tui.SuccessStyle.Render("Backend reachable at "+a.backend.BaseURL()))
	return nil
}
