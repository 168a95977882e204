// Package tui implements the alto terminal user interface.
package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alto-ai/alto-console/pkg/logstream"
)

// Colour per log level, matching the platform dashboard's palette.
var levelStyles = map[string]lipgloss.Style{
	logstream.LevelDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
	logstream.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#d1d5db")),
	logstream.LevelWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24")),
	logstream.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24")),
	logstream.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9fafb"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	headerStyle = lipgloss.NewStyle().Padding(0, 1)
)

var statusColors = map[logstream.State]lipgloss.Color{
	logstream.StateConnecting:   lipgloss.Color("#6b7280"),
	logstream.StateConnected:    lipgloss.Color("#4ade80"),
	logstream.StateReconnecting: lipgloss.Color("#fbbf24"),
}

var statusLabels = map[logstream.State]string{
	logstream.StateConnecting:   "Connecting...",
	logstream.StateConnected:    "Connected",
	logstream.StateReconnecting: "Reconnecting...",
}

// LogsConfig configures the live log viewer.
type LogsConfig struct {
	// StreamURL is the full log stream endpoint.
	StreamURL string

	// Tokens supplies the access credential for each (re)connection.
	Tokens logstream.TokenSource
}

type recordMsg logstream.Record

type stateMsg logstream.State

type authErrMsg struct{ err error }

// RunLogs opens the live log viewer and blocks until the user quits.
func RunLogs(cfg LogsConfig) error {
	var program *tea.Program

	session := logstream.New(logstream.Config{
		URL:    cfg.StreamURL,
		Tokens: cfg.Tokens,
		OnRecord: func(rec logstream.Record) {
			if program != nil {
				program.Send(recordMsg(rec))
			}
		},
		OnState: func(st logstream.State) {
			if program != nil {
				program.Send(stateMsg(st))
			}
		},
		OnAuthError: func(err error) {
			if program != nil {
				program.Send(authErrMsg{err: err})
			}
		},
	})

	model := newLogsModel(session)
	program = tea.NewProgram(model, tea.WithAltScreen())

	session.Start()
	defer session.Close()

	_, err := program.Run()
	return err
}

// row is one renderable line: multi-line records are split into rows that
// share the record's level.
type row struct {
	text  string
	level string
}

type logsModel struct {
	session *logstream.Session

	rows    []row
	count   int // decoded records, not rows
	state   logstream.State
	authErr error

	follow bool
	offset int // rows scrolled up from the bottom when not following
	width  int
	height int
}

func newLogsModel(session *logstream.Session) logsModel {
	return logsModel{
		session: session,
		state:   logstream.StateConnecting,
		follow:  true,
	}
}

func (m logsModel) Init() tea.Cmd { return nil }

func (m logsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case recordMsg:
		rec := logstream.Record(msg)
		for _, line := range strings.Split(rec.Display, "\n") {
			m.rows = append(m.rows, row{text: line, level: rec.Level})
		}
		m.count++
		// Keep the row window bounded like the session's record buffer.
		if maxRows := logstream.DefaultCapacity * 2; len(m.rows) > maxRows {
			m.rows = m.rows[len(m.rows)-maxRows:]
		}

	case stateMsg:
		m.state = logstream.State(msg)

	case authErrMsg:
		m.authErr = msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "c":
			m.session.ClearRecords()
			m.rows = nil
			m.count = 0
			m.offset = 0
		case "up", "k":
			m.follow = false
			if m.offset < len(m.rows) {
				m.offset++
			}
		case "down", "j":
			if m.offset > 0 {
				m.offset--
			}
			if m.offset == 0 {
				m.follow = true
			}
		case "G", "end":
			m.offset = 0
			m.follow = true
		}
	}

	return m, nil
}

func (m logsModel) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteByte('\n')

	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	if len(m.rows) == 0 {
		if m.authErr != nil {
			b.WriteString(dimStyle.Render("Not authenticated. Run `alto login` and reopen."))
		} else if m.state == logstream.StateConnected {
			b.WriteString(dimStyle.Render("No log lines yet. Waiting for output..."))
		} else {
			b.WriteString(dimStyle.Render("Connecting to log stream..."))
		}
		return b.String()
	}

	end := len(m.rows) - m.offset
	if end < 0 {
		end = 0
	}
	start := end - bodyHeight
	if start < 0 {
		start = 0
	}

	for _, r := range m.rows[start:end] {
		style, ok := levelStyles[strings.ToUpper(r.level)]
		if !ok {
			style = levelStyles[logstream.LevelInfo]
		}
		b.WriteString(style.Render(r.text))
		b.WriteByte('\n')
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m logsModel) headerView() string {
	color := statusColors[m.state]
	dot := lipgloss.NewStyle().Foreground(color).Render("●")

	parts := []string{
		titleStyle.Render("Alto Live Logs"),
		dot + " " + statusLabels[m.state],
		dimStyle.Render(pluralize(m.count, "line")),
	}
	if !m.follow {
		parts = append(parts, dimStyle.Render("scrolled (G to follow)"))
	}
	parts = append(parts, dimStyle.Render("c clear · q quit"))

	return headerStyle.Render(strings.Join(parts, "   "))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
