package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cadenzr/go-timeline-engine/internal/core/timeline"
	"github.com/cadenzr/go-timeline-engine/internal/util"
)

const (
	frameInterval = time.Second / 30
	maxLogLines   = 8
	seekStep      = 1.0
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	curveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type keyMap struct {
	PlayPause key.Binding
	Reverse   key.Binding
	Loop      key.Binding
	Stop      key.Binding
	SeekBack  key.Binding
	SeekFwd   key.Binding
	Home      key.Binding
	End       key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
	Reverse:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
	Loop:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "loop")),
	Stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
	SeekBack:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "seek -1s")),
	SeekFwd:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "seek +1s")),
	Home:      key.NewBinding(key.WithKeys("home", "0"), key.WithHelp("0", "seek start")),
	End:       key.NewBinding(key.WithKeys("end", "$"), key.WithHelp("$", "seek end")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type frameMsg time.Time

// Model is the bubbletea program state for the interactive transport.
// It owns the tick driver role: every frame message advances the
// timeline by the elapsed wall time, and an internal observer collects
// notifications for the on-screen log.
type Model struct {
	tl        *timeline.Timeline
	bar       progress.Model
	lastFrame time.Time
	eventLog  []string
	samples   map[string]float64
	curveIDs  []string
	width     int
}

// New builds the transport model around a timeline.
func New(tl *timeline.Timeline) *Model {
	m := &Model{
		tl:      tl,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		samples: make(map[string]float64),
		width:   80,
	}
	for _, fc := range tl.Curves() {
		m.curveIDs = append(m.curveIDs, fc.ID)
	}
	tl.Subscribe(m)
	return m
}

// OnEvent implements timeline.Observer.
func (m *Model) OnEvent(n timeline.EventNotification) {
	line := fmt.Sprintf("%s  %s/%s", util.FormatSeconds(n.Event.Time), n.TrackID, n.Event.ID)
	m.eventLog = append(m.eventLog, line)
	if len(m.eventLog) > maxLogLines {
		m.eventLog = m.eventLog[len(m.eventLog)-maxLogLines:]
	}
}

// OnCurve implements timeline.Observer.
func (m *Model) OnCurve(n timeline.CurveNotification) {
	m.samples[n.CurveID] = n.Value
}

func (m *Model) Init() tea.Cmd {
	m.lastFrame = time.Now()
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 4
		return m, nil

	case frameMsg:
		now := time.Time(msg)
		dt := now.Sub(m.lastFrame).Seconds()
		m.lastFrame = now
		m.tl.Advance(dt)
		return m, frameTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.PlayPause):
			if m.tl.IsPlaying() {
				m.tl.Pause()
			} else if m.tl.IsReversed() {
				m.tl.PlayReverse()
			} else {
				m.tl.Play()
			}
		case key.Matches(msg, keys.Reverse):
			m.tl.ToggleDirection()
		case key.Matches(msg, keys.Loop):
			m.tl.Loop = !m.tl.Loop
		case key.Matches(msg, keys.Stop):
			m.tl.Stop()
		case key.Matches(msg, keys.SeekBack):
			m.tl.Seek(m.tl.CurrentTime() - seekStep)
		case key.Matches(msg, keys.SeekFwd):
			m.tl.Seek(m.tl.CurrentTime() + seekStep)
		case key.Matches(msg, keys.Home):
			m.tl.Seek(0)
		case key.Matches(msg, keys.End):
			m.tl.Seek(m.tl.Duration)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	name := m.tl.Owner
	if name == "" {
		name = "timeline"
	}
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n\n")

	ratio := 0.0
	if m.tl.Duration > 0 {
		ratio = m.tl.CurrentTime() / m.tl.Duration
	}
	b.WriteString("  " + m.bar.ViewAs(ratio) + "\n")

	status := "▶ playing"
	style := statusStyle
	switch {
	case !m.tl.IsPlaying():
		status = "⏸ paused"
		style = pausedStyle
	case m.tl.IsReversed():
		status = "◀ reverse"
	}
	loop := ""
	if m.tl.Loop {
		loop = "  loop"
	}
	b.WriteString(fmt.Sprintf("  %s  %s / %s  %s%s\n\n",
		style.Render(status),
		util.FormatSeconds(m.tl.CurrentTime()),
		util.FormatSeconds(m.tl.Duration),
		util.FormatSpeed(m.tl.Speed()),
		loop))

	if len(m.curveIDs) > 0 {
		b.WriteString(curveStyle.Render("  curves") + "\n")
		for _, id := range m.curveIDs {
			b.WriteString(fmt.Sprintf("    %-16s %s\n", id, util.FormatValue(m.samples[id])))
		}
		b.WriteString("\n")
	}

	b.WriteString(eventStyle.Render("  events") + "\n")
	if len(m.eventLog) == 0 {
		b.WriteString("    (none fired yet)\n")
	}
	for _, line := range m.eventLog {
		b.WriteString("    " + line + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(
		"  space play/pause · r reverse · l loop · s stop · ←/→ seek · 0/$ jump · q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the interactive transport and blocks until quit.
func Run(tl *timeline.Timeline) error {
	p := tea.NewProgram(New(tl))
	_, err := p.Run()
	return err
}
