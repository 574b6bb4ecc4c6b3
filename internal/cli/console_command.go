package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-shellwords"
	"github.com/sirupsen/logrus"

	"recruit-console/internal/actions"
	"recruit-console/internal/apiclient"
	"recruit-console/internal/jsontree"
	"recruit-console/internal/model"
	"recruit-console/internal/upload"
)

type consoleMode int

const (
	consoleModeBrowse consoleMode = iota
	consoleModeThreshold
	consoleModeUpload
)

const consoleLogFile = "console.log"

// consoleBackend is the part of *apiclient.Client the console needs.
type consoleBackend interface {
	ListJobs(ctx context.Context) ([]model.Job, error)
	GetJob(ctx context.Context, jobID string) (model.Job, error)
	ListApplications(ctx context.Context, jobID string) ([]model.Application, error)
	Post(ctx context.Context, path string, query url.Values) (apiclient.Result, error)
	UploadFile(ctx context.Context, path, filePath string) (apiclient.Result, error)
}

type consoleModel struct {
	backend  consoleBackend
	dispatch *actions.Dispatcher
	uploader *upload.Aggregator
	log      *logrus.Logger

	jobs   []model.Job
	cursor int
	width  int
	height int
	mode   consoleMode
	input  textinput.Model
	spin   spinner.Model

	gate *triggerGate

	feedback    actions.Feedback
	uploadLines []string

	detail     *jsontree.Display
	detailJob  model.Job
	detailApps []model.Application
	fatalErr   error
}

type consoleJobsMsg struct {
	jobs []model.Job
	err  error
}

type consoleActionMsg struct {
	outcome actions.Outcome
	err     error
	token   uint64
}

type consoleUploadMsg struct {
	report model.BatchReport
	err    error
	token  uint64
}

type consoleDetailMsg struct {
	job  model.Job
	apps []model.Application
	err  error
}

var (
	consoleTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	consoleMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	consoleErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	consoleWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	consoleOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	consolePanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	consoleSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

func runConsole(args []string) error {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	rf := addRuntimeFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *rf.jsonOut {
		return errors.New("console does not support --json")
	}
	if !stdinIsTTY() {
		return errors.New("console requires an interactive terminal (TTY)")
	}

	rt, err := rf.load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(rt.settings.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state directory %s: %w", rt.settings.StateDir, err)
	}
	logPath := filepath.Join(rt.settings.StateDir, consoleLogFile)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open console log %s: %w", logPath, err)
	}
	defer logFile.Close()
	// The alt screen owns stderr while the program runs.
	rt.log.SetOutput(logFile)

	m := newConsoleModel(rt.client, rt.log, rt.settings.UploadWorkers)
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("console requires an interactive terminal (TTY)")
		}
		return err
	}
	if fm, ok := finalModel.(consoleModel); ok {
		return fm.fatalErr
	}
	return nil
}

func newConsoleModel(backend consoleBackend, log *logrus.Logger, uploadWorkers int) consoleModel {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 4096
	input.Width = 60

	return consoleModel{
		backend:  backend,
		dispatch: actions.NewDispatcher(backend, actions.WithLogger(log)),
		uploader: upload.NewAggregator(backend, apiclient.PathUploadCV, upload.WithLimit(uploadWorkers), upload.WithLogger(log)),
		log:      log,
		mode:     consoleModeBrowse,
		input:    input,
		spin:     spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		gate:     &triggerGate{},
	}
}

func (m consoleModel) Init() tea.Cmd {
	return loadJobsCmd(m.backend)
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = clampInt(m.width-8, 20, 120)
		if m.detail != nil {
			m.detail.SetWidth(m.detailWidth())
		}
		return m, nil
	case spinner.TickMsg:
		if !m.animating() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case consoleJobsMsg:
		if msg.err != nil {
			m.feedback = actions.Feedback{Level: actions.LevelError, Message: "error: could not load jobs: " + msg.err.Error()}
			return m, nil
		}
		m.jobs = msg.jobs
		if m.cursor > len(m.jobs)-1 {
			m.cursor = maxInt(len(m.jobs)-1, 0)
		}
		if m.animating() {
			return m, m.spin.Tick
		}
		return m, nil
	case consoleActionMsg:
		m.gate.release(msg.token)
		m.feedback = msg.outcome.Feedback
		if msg.outcome.Status != "" {
			m.applyJobStatus(msg.outcome.Request.JobID, msg.outcome.Status)
		}
		if m.animating() {
			return m, m.spin.Tick
		}
		return m, nil
	case consoleUploadMsg:
		m.gate.release(msg.token)
		if msg.err != nil {
			m.feedback = actions.Feedback{Level: actions.LevelWarning, Message: msg.err.Error()}
			return m, nil
		}
		m.uploadLines = append([]string{
			"Upload Complete",
			fmt.Sprintf("Success: %d, Errors: %d", msg.report.SuccessCount, msg.report.ErrorCount),
		}, msg.report.Lines...)
		level := actions.LevelSuccess
		if msg.report.ErrorCount > 0 {
			level = actions.LevelWarning
		}
		m.feedback = actions.Feedback{Level: level, Message: fmt.Sprintf("CV Upload finished. Success: %d, Errors: %d.", msg.report.SuccessCount, msg.report.ErrorCount)}
		return m, nil
	case consoleDetailMsg:
		if msg.err != nil {
			m.feedback = actions.Feedback{Level: actions.LevelError, Message: "error: " + msg.err.Error()}
			return m, nil
		}
		m.detailJob = msg.job
		m.detailApps = msg.apps
		m.detail = jsontree.NewDisplay("summary-display", m.detailWidth(), m.log)
		m.detail.Apply(msg.job.SummaryJSON)
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case consoleModeThreshold:
		return m.updateThreshold(keyMsg)
	case consoleModeUpload:
		return m.updateUploadInput(keyMsg)
	default:
		return m.updateBrowse(keyMsg)
	}
}

func (m consoleModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.jobs)-1 {
			m.cursor++
		}
		return m, nil
	case "r":
		return m, loadJobsCmd(m.backend)
	case "enter":
		job, ok := m.selectedJob()
		if !ok {
			return m, nil
		}
		return m, loadDetailCmd(m.backend, job.ID)
	case "s":
		return m.startAction(actions.KindSummarize, "")
	case "m":
		return m.startAction(actions.KindMatchAll, "")
	case "i":
		return m.startAction(actions.KindSendInvites, "")
	case "l":
		if !m.canTrigger(true) {
			return m, nil
		}
		m.mode = consoleModeThreshold
		m.input.Placeholder = ""
		m.input.SetValue(actions.DefaultThreshold)
		m.input.CursorEnd()
		m.input.Focus()
		return m, nil
	case "u":
		if !m.canTrigger(false) {
			return m, nil
		}
		m.mode = consoleModeUpload
		m.input.Placeholder = "cv-one.pdf cv-two.pdf"
		m.input.SetValue("")
		m.input.Focus()
		return m, nil
	}
	return m, nil
}

func (m consoleModel) updateThreshold(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.mode = consoleModeBrowse
		m.input.Blur()
		m.feedback = actions.Feedback{Level: actions.LevelInfo, Message: "shortlist cancelled"}
		return m, nil
	case "enter":
		m.mode = consoleModeBrowse
		m.input.Blur()
		return m.startAction(actions.KindShortlist, m.input.Value())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m consoleModel) updateUploadInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.mode = consoleModeBrowse
		m.input.Blur()
		m.feedback = actions.Feedback{Level: actions.LevelInfo, Message: "upload cancelled"}
		return m, nil
	case "enter":
		m.mode = consoleModeBrowse
		m.input.Blur()
		files, err := shellwords.Parse(m.input.Value())
		if err != nil {
			m.feedback = actions.Feedback{Level: actions.LevelWarning, Message: "unreadable file list: " + err.Error()}
			return m, nil
		}
		if len(files) == 0 {
			m.feedback = actions.Feedback{Level: actions.LevelWarning, Message: upload.ErrNoFiles.Error()}
			return m, nil
		}
		if !m.canTrigger(false) {
			return m, nil
		}
		ctrl, ok := m.gate.claim("upload", 0)
		if !ok {
			m.canTrigger(false)
			return m, nil
		}
		m.uploadLines = nil
		m.feedback = actions.Feedback{Level: actions.LevelInfo, Message: fmt.Sprintf("Uploading %d file(s)...", len(files))}
		return m, tea.Batch(uploadCmd(m.uploader, files, ctrl), m.spin.Tick)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// canTrigger reports whether a new request may start, setting a warning when
// it may not.
func (m *consoleModel) canTrigger(needsJob bool) bool {
	if busy, _ := m.gate.held(); busy != "" {
		m.feedback = actions.Feedback{Level: actions.LevelWarning, Message: fmt.Sprintf("%s is still running; wait for it to finish.", busy)}
		return false
	}
	if needsJob {
		if _, ok := m.selectedJob(); !ok {
			m.feedback = actions.Feedback{Level: actions.LevelWarning, Message: "no job selected"}
			return false
		}
	}
	return true
}

func (m consoleModel) startAction(kind actions.Kind, threshold string) (tea.Model, tea.Cmd) {
	if !m.canTrigger(true) {
		return m, nil
	}
	job, _ := m.selectedJob()
	if kind == actions.KindSummarize && !actions.BadgeFor(job.Status).ShowSummarize {
		m.feedback = actions.Feedback{Level: actions.LevelWarning, Message: fmt.Sprintf("Job %d is %s; summarize is offered for NEW or ERROR jobs only.", job.ID, defaultIfEmpty(job.Status, "UNKNOWN"))}
		return m, nil
	}
	jobID := fmt.Sprint(job.ID)
	if kind == actions.KindShortlist {
		if _, err := actions.ParseThreshold(threshold); err != nil {
			m.feedback = actions.Feedback{Level: actions.LevelWarning, Message: err.Error()}
			return m, nil
		}
	}
	req, err := actions.Build(kind, jobID, strings.TrimSpace(threshold))
	if err != nil {
		m.feedback = actions.Feedback{Level: actions.LevelError, Message: "error: " + err.Error()}
		return m, nil
	}

	ctrl, ok := m.gate.claim(string(kind), job.ID)
	if !ok {
		m.canTrigger(true)
		return m, nil
	}
	m.feedback = actions.Feedback{Level: actions.LevelInfo, Message: req.InFlight}
	trigger := actions.Trigger{Markers: []string{kind.Marker()}, JobID: jobID, Threshold: threshold}
	return m, tea.Batch(actionCmd(m.dispatch, trigger, ctrl), m.spin.Tick)
}

func (m *consoleModel) applyJobStatus(jobID, status string) {
	for i := range m.jobs {
		if fmt.Sprint(m.jobs[i].ID) != jobID {
			continue
		}
		if err := model.TransitionJobStatus(&m.jobs[i], status); err != nil {
			m.log.WithError(err).Warn("backend reported an unexpected job status")
			m.jobs[i].Status = status
		}
		if m.detailJob.ID == m.jobs[i].ID {
			m.detailJob.Status = status
		}
		return
	}
}

func (m consoleModel) selectedJob() (model.Job, bool) {
	if m.cursor < 0 || m.cursor >= len(m.jobs) {
		return model.Job{}, false
	}
	return m.jobs[m.cursor], true
}

func (m consoleModel) animating() bool {
	if busy, _ := m.gate.held(); busy != "" {
		return true
	}
	for _, j := range m.jobs {
		if j.Status == model.JobStatusSummarizing {
			return true
		}
	}
	return false
}

func (m consoleModel) detailWidth() int {
	if m.width < 90 {
		return maxInt(m.width-8, 20)
	}
	leftW := clampInt(m.width/2, 34, 56)
	return maxInt(m.width-leftW-9, 20)
}

func loadJobsCmd(backend consoleBackend) tea.Cmd {
	return func() tea.Msg {
		jobs, err := backend.ListJobs(context.Background())
		return consoleJobsMsg{jobs: jobs, err: err}
	}
}

func loadDetailCmd(backend consoleBackend, jobID int64) tea.Cmd {
	return func() tea.Msg {
		id := fmt.Sprint(jobID)
		job, err := backend.GetJob(context.Background(), id)
		if err != nil {
			return consoleDetailMsg{err: err}
		}
		apps, err := backend.ListApplications(context.Background(), id)
		if err != nil {
			return consoleDetailMsg{job: job}
		}
		return consoleDetailMsg{job: job, apps: apps}
	}
}

func actionCmd(d *actions.Dispatcher, t actions.Trigger, ctrl gateControl) tea.Cmd {
	return func() tea.Msg {
		out, err := d.Dispatch(context.Background(), t, ctrl)
		return consoleActionMsg{outcome: out, err: err, token: ctrl.token}
	}
}

func uploadCmd(agg *upload.Aggregator, files []string, ctrl gateControl) tea.Cmd {
	return func() tea.Msg {
		report, err := agg.UploadAll(context.Background(), files, ctrl)
		return consoleUploadMsg{report: report, err: err, token: ctrl.token}
	}
}
