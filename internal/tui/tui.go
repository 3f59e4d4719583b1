package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vsupload/internal/clip"
	"vsupload/internal/fspaths"
	"vsupload/internal/report"
	"vsupload/internal/upload"
)

// Params configures one interactive run.
type Params struct {
	Paths       []string
	Expand      fspaths.Options
	Request     upload.Request
	Coordinator *upload.Coordinator
	JSONOut     string
	MDOut       string
}

type fileScannedMsg struct{ path string }
type scanDoneMsg struct {
	files []string
	err   error
}
type progressMsg struct{ completed, total int }
type runDoneMsg struct {
	res *upload.Result
	err error
}
type eventsClosedMsg struct{}

type model struct {
	params Params

	events chan tea.Msg
	ctx    context.Context
	cancel context.CancelFunc

	started    time.Time
	finishedAt time.Time
	scanDone   bool
	done       bool

	spin spinner.Model
	prog progress.Model
	vp   viewport.Model

	lines []string

	files        []string
	filesScanned int
	completed    int
	total        int

	result   *upload.Result
	err      error
	copied   string
	copyErr  error
	jsonPath string
	mdPath   string
	// reportErrs holds report write failures for the summary.
	reportErrs []string

	copyFn func(string) error
}

// Run expands the selected paths and uploads them while rendering progress.
// The program stays open after the run so the vector store id can be copied.
func Run(p Params) error {
	m := newModel(p)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	m.cancel()
	return err
}

func newModel(p Params) *model {
	ctx, cancel := context.WithCancel(context.Background())
	m := &model{params: p, ctx: ctx, cancel: cancel, copyFn: clip.Copy}
	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	m.prog = progress.New(progress.WithDefaultGradient())
	return m
}

func (m *model) Init() tea.Cmd {
	m.started = time.Now()
	m.events = make(chan tea.Msg, 256)

	m.startRun()
	return tea.Batch(m.spin.Tick, m.waitForEvent())
}

// startRun performs the scan and the upload on one goroutine and reports
// back through m.events only.
func (m *model) startRun() {
	events := m.events
	ctx := m.ctx
	send := func(msg tea.Msg) bool {
		select {
		case events <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(events)

		opts := m.params.Expand
		opts.OnFile = func(p string) { send(fileScannedMsg{path: p}) }
		files, err := expandPaths(m.params.Paths, opts)
		if !send(scanDoneMsg{files: files, err: err}) || err != nil {
			return
		}

		req := m.params.Request
		req.Files = files
		res, err := m.params.Coordinator.Run(ctx, req, func(completed, total int) {
			send(progressMsg{completed: completed, total: total})
		})
		send(runDoneMsg{res: res, err: err})
	}()
}

func (m *model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return msg
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		case "c":
			if m.done && m.result != nil {
				if err := m.copyFn(m.result.CollectionID); err != nil {
					m.copyErr = err
					m.lines = append(m.lines, fmt.Sprintf("❌ Copy failed: %v", err))
				} else {
					m.copied = m.result.CollectionID
					m.copyErr = nil
					m.lines = append(m.lines, "📋 Vector store id copied to clipboard")
				}
				m.refreshViewport()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		// Reserve space for header (1), stats (1), progress (1), spacer (1), footer (1)
		reserved := 5
		if m.vp.Width == 0 {
			m.vp = viewport.New(msg.Width, max(msg.Height-reserved, 3))
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = max(msg.Height-reserved, 3)
		}
		m.prog.Width = max(msg.Width-4, 10)
		m.refreshViewport()
		return m, nil
	case fileScannedMsg:
		m.filesScanned++
		m.lines = append(m.lines, fmt.Sprintf("📄 %s", msg.path))
		m.refreshViewport()
		return m, m.waitForEvent()
	case scanDoneMsg:
		m.scanDone = true
		m.files = msg.files
		if msg.err != nil {
			m.finish(nil, msg.err)
			return m, m.waitForEvent()
		}
		m.lines = append(m.lines, fmt.Sprintf("✅ File scanning complete: %d files", len(msg.files)))
		m.refreshViewport()
		return m, m.waitForEvent()
	case progressMsg:
		m.completed = msg.completed
		m.total = msg.total
		if msg.completed == 0 {
			m.lines = append(m.lines, fmt.Sprintf("⬆️  Uploading %d files...", msg.total))
		} else if msg.completed <= len(m.files) {
			m.lines = append(m.lines, fmt.Sprintf("✅ %d/%d %s", msg.completed, msg.total, filepath.Base(m.files[msg.completed-1])))
		}
		m.refreshViewport()
		return m, m.waitForEvent()
	case runDoneMsg:
		m.finish(msg.res, msg.err)
		return m, m.waitForEvent()
	case eventsClosedMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

// finish records the outcome and writes any requested reports.
func (m *model) finish(res *upload.Result, err error) {
	m.done = true
	m.finishedAt = time.Now()
	m.result = res
	m.err = err

	switch {
	case upload.IsNothingToDo(err):
		m.lines = append(m.lines, "ℹ️  No files found in the selected files or folders.")
	case err != nil:
		m.lines = append(m.lines, fmt.Sprintf("❌ %v", err))
	default:
		m.lines = append(m.lines, fmt.Sprintf("🎉 Files uploaded and attached to vector store %s", res.CollectionID))
	}

	if !upload.IsNothingToDo(err) {
		m.writeReports()
	}
	m.refreshViewport()
}

func (m *model) writeReports() {
	s := report.Summary{
		Roots:      m.params.Paths,
		StartedAt:  m.started,
		FinishedAt: m.finishedAt,
		Files:      m.files,
		Result:     m.result,
		Err:        m.err,
	}
	if m.params.JSONOut != "" {
		if p, err := report.WriteJSON(m.params.JSONOut, s); err == nil {
			m.jsonPath = p
		} else {
			m.reportErrs = append(m.reportErrs, fmt.Sprintf("JSON report: %v", err))
			m.lines = append(m.lines, fmt.Sprintf("❌ JSON report: %v", err))
		}
	}
	if m.params.MDOut != "" {
		if p, err := report.WriteMarkdown(m.params.MDOut, s); err == nil {
			m.mdPath = p
		} else {
			m.reportErrs = append(m.reportErrs, fmt.Sprintf("Markdown report: %v", err))
			m.lines = append(m.lines, fmt.Sprintf("❌ Markdown report: %v", err))
		}
	}
}

func (m *model) refreshViewport() {
	m.vp.SetContent(strings.Join(m.lines, "\n"))
	m.vp.GotoBottom()
}

func (m *model) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(" Upload to vector store ")
	container := lipgloss.NewStyle().Padding(1)

	if m.done {
		dur := m.finishedAt.Sub(m.started)
		summary := []string{
			fmt.Sprintf("Duration: %s", dur.Truncate(time.Millisecond)),
			fmt.Sprintf("Files: %d  Uploaded: %d", len(m.files), m.completed),
		}
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		switch {
		case m.result != nil:
			summary = append(summary, lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Vector Store ID: %s", m.result.CollectionID)))
		case upload.IsNothingToDo(m.err):
			summary = append(summary, "No files found in the selected files or folders.")
		case m.err != nil:
			summary = append(summary, errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}
		if m.copyErr != nil {
			summary = append(summary, errStyle.Render(fmt.Sprintf("Copy failed: %v", m.copyErr)))
		} else if m.copied != "" {
			summary = append(summary, "Copied to clipboard.")
		}
		for _, e := range m.reportErrs {
			summary = append(summary, errStyle.Render(e))
		}
		if m.jsonPath != "" {
			summary = append(summary, fmt.Sprintf("JSON: %s", m.jsonPath))
		}
		if m.mdPath != "" {
			summary = append(summary, fmt.Sprintf("Markdown: %s", m.mdPath))
		}
		footerText := "Controls: [q] quit"
		if m.result != nil {
			footerText = "Controls: [c] copy id  [q] quit"
		}
		footer := lipgloss.NewStyle().Faint(true).Render(footerText)
		return container.Render(strings.Join(append([]string{header}, append(summary, footer)...), "\n"))
	}

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.completed) / float64(m.total)
	}
	phase := "scanning"
	if m.scanDone {
		phase = "uploading"
	}
	stats := fmt.Sprintf("%s  %s  files:%d  uploaded:%d/%d", m.spin.View(), phase, m.filesScanned, m.completed, m.total)
	footer := lipgloss.NewStyle().Faint(true).Render("Controls: [q] quit")
	return container.Render(strings.Join([]string{header, stats, m.prog.ViewAs(percent), "", m.vp.View(), footer}, "\n"))
}
