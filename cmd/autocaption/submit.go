package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/nijaru/autocaption/db"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/models"
	"github.com/nijaru/autocaption/notify"
	"github.com/nijaru/autocaption/orchestrator"
	"github.com/nijaru/autocaption/poller"
	"github.com/nijaru/autocaption/storage"
	"github.com/nijaru/autocaption/tui"
	"github.com/sirupsen/logrus"
)

func cmdSubmit(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(a.out)
	color := fs.String("color", models.DefaultCaptionColor, "caption color as #RRGGBB")
	fontSize := fs.Int("font-size", models.DefaultFontSize, "caption font size (12-120)")
	stroke := fs.Int("stroke", models.DefaultStrokeWidth, "caption stroke width (0-20)")
	convertTo := fs.String("convert-to", "", "translate captions into this language code")
	langs := fs.String("langs", "", "comma separated spoken language codes")
	email := fs.String("email", "", "send the download link to this address when done")
	length := fs.Duration("duration", 0, "video length, used for the time estimate")
	watch := fs.Bool("watch", false, "follow the job until it finishes")
	plain := fs.Bool("plain", false, "print watch updates as lines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.InvalidInput("submit", nil, "expected exactly one video file")
	}

	contract, err := orchestrator.ParseContract(a.cfg.Contract)
	if err != nil {
		return err
	}

	source, closeSource, err := openSource(fs.Arg(0))
	if err != nil {
		return err
	}
	defer closeSource()

	opts := models.CaptionOptions{
		CaptionColor:      *color,
		FontSize:          *fontSize,
		StrokeWidth:       *stroke,
		ConvertTo:         *convertTo,
		ExplicitLanguages: splitList(*langs),
	}
	job := models.NewUploadJob(uuid.NewString(), source, opts, strings.TrimSpace(*email))

	minutes := orchestrator.EstimateProcessingTime(orchestrator.SizeMB(source.Size), *length)
	fmt.Fprintf(a.out, "Uploading %s (%.1f MB, about %.0f min to process)\n", source.Name, orchestrator.SizeMB(source.Size), minutes)

	orch := orchestrator.New(a.backend, orchestrator.Config{
		Contract:        contract,
		SubmitSignedURL: a.cfg.SubmitSignedURL,
		StepTimeout:     a.cfg.StepTimeout,
	})
	result, runErr := orch.Run(ctx, job)
	if job.Status != models.StatusUnstarted {
		a.record(ctx, job)
	}
	if runErr != nil {
		return runErr
	}

	switch r := result.(type) {
	case models.Completed:
		printCompleted(a, r.DownloadURL)
	case models.Pending:
		fmt.Fprintf(a.out, "Job submitted: %s\n", tui.PendingStyle.Render(r.JobID))
		if !*watch {
			fmt.Fprintf(a.out, "Run `autocaption watch %s` to follow it.\n", r.JobID)
			return nil
		}
		record, err := a.follow(ctx, r.JobID, source.Name, *plain)
		if err != nil {
			return err
		}
		if err := poller.Apply(job, record); err != nil {
			return err
		}
		a.record(ctx, job)
		if job.Status == models.StatusFailed {
			return errors.E(errors.KindSubmissionFailed, "submit", nil, job.Message)
		}
		printCompleted(a, job.DownloadURL)
	}

	if job.Email != "" && job.DownloadURL != "" {
		a.notify(ctx, job.Email, job.DownloadURL)
	}
	return nil
}

// openSource opens path and works out the content type it is uploaded with.
// The extension decides first since presigned URLs are signed for it.
func openSource(path string) (models.SourceFile, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return models.SourceFile{}, nil, errors.InvalidInput("openSource", err, fmt.Sprintf("cannot open %s", path))
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return models.SourceFile{}, nil, errors.Internal("openSource", err, "cannot stat source file")
	}
	if info.IsDir() {
		f.Close()
		return models.SourceFile{}, nil, errors.InvalidInput("openSource", nil, fmt.Sprintf("%s is a directory", path))
	}

	return models.SourceFile{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: detectMIME(path),
		Body:     f,
	}, func() { f.Close() }, nil
}

func detectMIME(path string) string {
	if ct, ok := storage.ContentTypeFor(filepath.Ext(path)); ok {
		return ct
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil || mt.Is("application/octet-stream") {
		return models.DefaultVideoMIMEType
	}
	return mt.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// record writes job to the ledger. Ledger failures never fail a command.
func (a *app) record(ctx context.Context, job *models.UploadJob) {
	store, err := a.ledger()
	if err == nil {
		err = store.Save(ctx, db.FromJob(job))
	}
	if err != nil {
		logrus.WithError(err).WithField("job", job.ID).Warn("Failed to record job in ledger")
	}
}

// follow watches jobID, interactively unless plain is set.
func (a *app) follow(ctx context.Context, jobID, filename string, plain bool) (models.JobStatusRecord, error) {
	p := poller.New(a.backend, a.cfg.Poll)
	if plain {
		return p.Watch(ctx, jobID, func(r models.JobStatusRecord) {
			fmt.Fprintf(a.out, "%s  %s\n", time.Now().Format("15:04:05"), tui.StatusStyle(r.Status.JobStatus()).Render(string(r.Status)))
		})
	}

	final, err := tea.NewProgram(tui.NewModel(ctx, p, jobID, filename), tea.WithOutput(a.out), tea.WithContext(ctx)).Run()
	if err != nil {
		return models.JobStatusRecord{}, errors.Internal("follow", err, "watch view failed")
	}
	m := final.(tui.Model)
	if !m.Done {
		return m.Record, errors.E(errors.KindPollFailed, "follow", context.Canceled, "watch cancelled")
	}
	return m.Record, m.Err
}

// notify asks the relay to email the download link. A failed notification
// is reported but does not change the captioning result.
func (a *app) notify(ctx context.Context, email, downloadURL string) {
	resp, err := notify.NewClient(a.cfg.NotifyURL, nil).Send(ctx, email, downloadURL)
	if err != nil {
		fmt.Fprintln(a.out, tui.PendingStyle.Render("Warning: could not send email: "+errors.Message(err)))
		return
	}
	fmt.Fprintf(a.out, "Download link sent to %s (%s)\n", email, resp.MessageID)
}

func printCompleted(a *app, downloadURL string) {
	fmt.Fprintln(a.out, tui.SuccessStyle.Render("Captioned video ready: "+downloadURL))
}
