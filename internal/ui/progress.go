package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/drivesweep/internal/notify"
)

// maxLogLines is how many recent log lines stay on screen.
const maxLogLines = 6

// ─── Messages ────────────────────────────────────────────────────────────────

type eventMsg notify.Event

type streamClosedMsg struct{}

func waitForEvent(events <-chan notify.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(e)
	}
}

// ─── Model ───────────────────────────────────────────────────────────────────

// ProgressModel renders engine events until the event stream closes.
type ProgressModel struct {
	title   string
	events  <-chan notify.Event
	cancel  func()
	bar     progress.Model
	spinner spinner.Model

	current   string
	fraction  float64
	logs      []string
	width     int
	cancelled bool
	finished  bool
}

// NewProgressModel creates a model consuming events. cancel is invoked when
// the operator presses q or ctrl+c.
func NewProgressModel(title string, events <-chan notify.Event, cancel func()) ProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return ProgressModel{
		title:   title,
		events:  events,
		cancel:  cancel,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner: sp,
		width:   80,
	}
}

// Cancelled reports whether the operator asked to stop.
func (m ProgressModel) Cancelled() bool {
	return m.cancelled
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(20, min(60, msg.Width-20))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if !m.cancelled {
				m.cancelled = true
				if m.cancel != nil {
					m.cancel()
				}
			}
		}
		return m, nil

	case eventMsg:
		m.apply(notify.Event(msg))
		return m, waitForEvent(m.events)

	case streamClosedMsg:
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		updated, cmd := m.bar.Update(msg)
		if bar, ok := updated.(progress.Model); ok {
			m.bar = bar
		}
		return m, cmd
	}

	return m, nil
}

func (m *ProgressModel) apply(e notify.Event) {
	switch e.Kind {
	case notify.ScanProgress, notify.CleanProgress:
		m.current = e.Category
		m.fraction = e.Fraction()
	case notify.Log:
		m.logs = append(m.logs, e.Message)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
	}
}

func (m ProgressModel) View() string {
	if m.finished {
		return ""
	}

	var s strings.Builder
	s.WriteString(TitleStyle.Render("  " + IconDiamond + " " + m.title))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("  %s %s  %s\n",
		m.spinner.View(),
		m.bar.ViewAs(m.fraction),
		DimStyle.Render(fmt.Sprintf("%3.0f%%", m.fraction*100)),
	))
	if m.current != "" {
		s.WriteString(DimStyle.Render("  " + IconChevron + " " + m.current))
		s.WriteString("\n")
	}

	if len(m.logs) > 0 {
		s.WriteString("\n")
		for _, line := range m.logs {
			s.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Render("  " + line))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	if m.cancelled {
		s.WriteString(TagWarningStyle.Render("  Stopping after the current entry…"))
	} else {
		s.WriteString(HintBarStyle.Render("  q / ctrl+c to cancel"))
	}
	s.WriteString("\n")
	return s.String()
}

// RunProgress shows the progress view on out until events is closed. It
// returns whether the operator cancelled.
func RunProgress(out io.Writer, title string, events <-chan notify.Event, cancel func()) (bool, error) {
	p := tea.NewProgram(NewProgressModel(title, events, cancel), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, _ := final.(ProgressModel)
	return m.Cancelled(), nil
}
