package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/models"
)

// Watcher follows a job until it reaches a terminal state.
type Watcher interface {
	Watch(ctx context.Context, jobID string, onUpdate func(models.JobStatusRecord)) (models.JobStatusRecord, error)
}

// StatusUpdateMsg carries one decoded poll result.
type StatusUpdateMsg struct {
	Record models.JobStatusRecord
}

// WatchDoneMsg is sent once the watch loop returns.
type WatchDoneMsg struct {
	Record models.JobStatusRecord
	Err    error
}

type TickMsg struct {
	Time time.Time
}

// Model renders a live view of one captioning job.
type Model struct {
	JobID    string
	Filename string
	Status   models.Status
	Record   models.JobStatusRecord
	Polls    int
	Started  time.Time
	Elapsed  time.Duration
	Err      error
	Done     bool

	watcher Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	events  chan tea.Msg
}

func NewModel(ctx context.Context, w Watcher, jobID, filename string) Model {
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		JobID:    jobID,
		Filename: filename,
		Status:   models.StatusPending,
		Started:  time.Now(),
		watcher:  w,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan tea.Msg, 16),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.watchCmd(), waitForEvent(m.events), tickCmd())
}

func (m Model) watchCmd() tea.Cmd {
	return func() tea.Msg {
		record, err := m.watcher.Watch(m.ctx, m.JobID, func(r models.JobStatusRecord) {
			select {
			case m.events <- StatusUpdateMsg{Record: r}:
			case <-m.ctx.Done():
			}
		})
		return WatchDoneMsg{Record: record, Err: err}
	}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancel()
			return m, tea.Quit
		}
	case StatusUpdateMsg:
		m.Polls++
		m.Record = msg.Record
		m.Status = msg.Record.Status.JobStatus()
		return m, waitForEvent(m.events)
	case WatchDoneMsg:
		m.Done = true
		m.Err = msg.Err
		if msg.Err == nil {
			m.Record = msg.Record
			m.Status = msg.Record.Status.JobStatus()
		}
		m.Elapsed = time.Since(m.Started)
		m.cancel()
		return m, tea.Quit
	case TickMsg:
		if m.Done {
			return m, nil
		}
		m.Elapsed = msg.Time.Sub(m.Started)
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Auto Caption"))
	b.WriteString("\n")
	if m.Filename != "" {
		fmt.Fprintf(&b, "File:    %s\n", m.Filename)
	}
	fmt.Fprintf(&b, "Job:     %s\n", m.JobID)
	fmt.Fprintf(&b, "Status:  %s\n", StatusStyle(m.Status).Render(string(m.Status)))
	fmt.Fprintf(&b, "Elapsed: %s (%d polls)\n", m.Elapsed.Truncate(time.Second), m.Polls)

	switch {
	case m.Err != nil:
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("Error: " + errors.Message(m.Err)))
	case m.Status == models.StatusCompleted:
		b.WriteString("\n")
		b.WriteString(SuccessStyle.Render("Download: " + m.Record.OutputURL))
	case m.Status == models.StatusFailed:
		msg := m.Record.Message
		if msg == "" {
			msg = "Captioning failed"
		}
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(msg))
	default:
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("Press q to stop watching"))
	}

	return BoxStyle.Render(b.String()) + "\n"
}
