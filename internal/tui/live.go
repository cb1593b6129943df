// Package tui is the live run viewer: a bubbletea program fed by an
// observer while the integration runs in the background.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/config"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	border = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")).
		Padding(1, 2)
)

// Sample is one live reading pushed from the run.
type Sample struct {
	Time   float64
	Omega  float64
	TInf   float64
	Sample int
}

// Feed bridges the engine's observer interface to the viewer. Samples are
// decimated to every nth notification and dropped when the viewer lags, so
// the run never blocks on rendering.
type Feed struct {
	engine.NopObserver
	C      chan Sample
	Done   chan finishMsg
	EveryN int
}

func NewFeed(everyN int) *Feed {
	if everyN <= 0 {
		everyN = 1
	}
	return &Feed{
		C:      make(chan Sample, 256),
		Done:   make(chan finishMsg, 1),
		EveryN: everyN,
	}
}

func (f *Feed) OnSample(info engine.SampleInfo, state *engine.Registry, _ *engine.Context) error {
	if info.Sample%f.EveryN != 0 {
		return nil
	}
	s := Sample{Time: info.Time, Sample: info.Sample}
	if b, err := state.Get(engine.Spin); err == nil && b.Size() > 0 {
		s.Omega = b.Data()[0]
	}
	if b, err := state.Get(engine.Thermal); err == nil && b.Size() > 0 {
		s.TInf = b.Data()[0]
	}
	select {
	case f.C <- s:
	default:
	}
	return nil
}

func (f *Feed) OnFinish(info engine.FinishInfo, _ *engine.Registry, _ *engine.Context) error {
	f.Done <- finishMsg{success: info.Success, message: info.Message}
	return nil
}

type sampleMsg Sample

type finishMsg struct {
	success bool
	message string
}

type model struct {
	feed    *Feed
	runID   string
	latest  Sample
	history []float64
	done    bool
	success bool
	message string
	width   int
}

// NewProgram wraps the viewer in a ready-to-run tea program.
func NewProgram(feed *Feed, runID string) *tea.Program {
	return tea.NewProgram(&model{feed: feed, runID: runID, width: 80})
}

func (m *model) Init() tea.Cmd {
	return m.wait()
}

// wait blocks on the next feed event as a tea command.
func (m *model) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.feed.C:
			return sampleMsg(s)
		case f := <-m.feed.Done:
			return f
		}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case sampleMsg:
		m.latest = Sample(msg)
		m.history = append(m.history, m.latest.Omega)
		if len(m.history) > 512 {
			m.history = m.history[1:]
		}
		return m, m.wait()
	case finishMsg:
		m.done = true
		m.success = msg.success
		m.message = msg.message
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render("compactstar live") + dim.Render("  ["+m.runID+"]"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n",
		dim.Render("t:"),
		white.Render(fmt.Sprintf("%.5g yr", m.latest.Time/config.SecondsPerYear))))
	b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		dim.Render("omega:"),
		white.Render(fmt.Sprintf("%.6g rad/s", m.latest.Omega)),
		dim.Render("T:"),
		white.Render(fmt.Sprintf("%.4g K", m.latest.TInf))))

	if len(m.history) > 1 {
		b.WriteString("\n")
		b.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(min(m.width-12, 100)),
			asciigraph.Caption("omega"),
		))
		b.WriteString("\n")
	}

	if m.done {
		if m.success {
			b.WriteString("\n" + green.Render("finished: "+m.message))
		} else {
			b.WriteString("\n" + red.Render("stopped: "+m.message))
		}
	} else {
		b.WriteString("\n" + dim.Render("q to quit"))
	}

	return border.Render(b.String())
}
