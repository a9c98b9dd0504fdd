package monitor

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase is where the dashboard loop currently is.
type Phase int

const (
	// PhaseInit fetches host identity and the first counter baseline.
	PhaseInit Phase = iota
	// PhaseRunning samples and redraws once per interval.
	PhaseRunning
	// PhaseShuttingDown has been asked to quit; the program restores the terminal.
	PhaseShuttingDown
)

// String returns a human-readable label for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseRunning:
		return "running"
	case PhaseShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

// Model is the Bubble Tea model for the dashboard.
// The engine is only touched from commands, and a new command is issued only
// after the previous one reported back, so samples never overlap.
type Model struct {
	ctx      context.Context
	engine   *Engine
	interval time.Duration
	widths   Widths

	identity *HostIdentity
	snapshot *Snapshot
	frame    Frame
	samples  int

	width  int
	height int

	spinner  spinner.Model
	keys     keyMap
	phase    Phase
	quitting bool
}

// identityMsg carries the static host identity once the baseline is captured.
type identityMsg HostIdentity

// tickMsg triggers the next sample.
type tickMsg time.Time

// snapshotMsg carries a freshly assembled Snapshot.
type snapshotMsg Snapshot

// NewModel creates a dashboard model sampling the engine every interval.
func NewModel(ctx context.Context, engine *Engine, interval time.Duration) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if interval <= 0 {
		interval = time.Second
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorGraph)

	return Model{
		ctx:      ctx,
		engine:   engine,
		interval: interval,
		widths:   DefaultWidths,
		spinner:  s,
		keys:     defaultKeyMap(),
		phase:    PhaseInit,
	}
}

// Init starts the spinner and fetches identity plus the first baseline.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCmd())
}

// Update handles messages and returns the updated model and command.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			if m.quitting {
				m.phase = PhaseShuttingDown
			}
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.repaint()
		return m, nil

	case identityMsg:
		id := HostIdentity(msg)
		m.identity = &id
		m.phase = PhaseRunning
		return m, m.tickCmd()

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, m.collectCmd()

	case snapshotMsg:
		snap := Snapshot(msg)
		m.snapshot = &snap
		m.samples++
		m.repaint()
		return m, m.tickCmd()

	case spinner.TickMsg:
		if m.snapshot != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.snapshot == nil {
		return m.waitingView()
	}

	var b strings.Builder
	for i, line := range m.frame.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(styleLine(line, *m.snapshot))
	}
	if m.ShowFooter() {
		b.WriteString("\n\n")
		b.WriteString(FooterStyle.Render(m.FooterHelp()))
	}
	return b.String()
}

func (m Model) waitingView() string {
	text := " " + m.spinner.View() + " Collecting first sample..."
	if m.identity != nil {
		title := Render(Snapshot{Identity: *m.identity}, Layout{Slots: []Slot{{Kind: RowTitle}}, Height: 1}, m.width, 0)
		return styleLine(title.Lines[0], Snapshot{}) + "\n\n" + text
	}
	return text
}

// repaint rebuilds the layout and frame for the latest snapshot and the
// current terminal size.
func (m *Model) repaint() {
	if m.snapshot == nil {
		return
	}
	layout := NewLayout(*m.snapshot, m.widths)
	m.frame = Render(*m.snapshot, layout, m.width, m.height)
}

// ShowFooter returns true when the key hint fits below the dashboard.
func (m Model) ShowFooter() bool {
	if m.height <= 0 {
		return false
	}
	return m.frame.Overflow == nil && len(m.frame.Lines)+2 <= m.height
}

// Phase reports where the loop is.
func (m Model) Phase() Phase {
	return m.phase
}

// Snapshot returns the most recent snapshot, if any.
func (m Model) Snapshot() (Snapshot, bool) {
	if m.snapshot == nil {
		return Snapshot{}, false
	}
	return *m.snapshot, true
}

// Frame returns the most recently painted frame.
func (m Model) Frame() Frame {
	return m.frame
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

// startCmd fetches the identity and captures the counter baseline.
func (m Model) startCmd() tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		id := engine.Identity(ctx)
		engine.Baseline(ctx)
		return identityMsg(id)
	}
}

// tickCmd waits one interval; the wait doubles as the rate-measurement window.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// collectCmd captures the "after" counters and assembles a Snapshot.
func (m Model) collectCmd() tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		return snapshotMsg(engine.Sample(ctx))
	}
}

// Samples is the number of snapshots received so far.
func (m Model) Samples() int {
	return m.samples
}
