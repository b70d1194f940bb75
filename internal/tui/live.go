// Package tui provides the CLI's interactive surfaces: a live event
// counter shown while `record` is running, and lipgloss-styled table
// rendering for `list`. Grounded on the teacher's bubbletea usage
// pattern in internal/ui (a model driven by an external tick/event
// channel via tea.Cmd), adapted here to drive off the recorder's
// streaming bus subscription instead of KVM connection state.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/louis030195/bigbrother/internal/bus"
	"github.com/louis030195/bigbrother/internal/event"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type eventMsg event.Event

type tickMsg time.Time

// liveModel is the bubbletea model for `record`'s live view.
type liveModel struct {
	sessionName string
	sub         *bus.Subscription
	counts      map[event.Tag]int
	total       int
	last        event.Event
	quitting    bool
	spin        spinner.Model
}

// RunLive drives the live event-count display until the user presses q
// or ctrl-c, or stop is invoked externally by closing the subscription.
func RunLive(sessionName string, sub *bus.Subscription) error {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = countStyle

	m := liveModel{sessionName: sessionName, sub: sub, counts: make(map[event.Tag]int), spin: sp}
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

func (m liveModel) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.sub), tick(), m.spin.Tick)
}

func waitForEvent(sub *bus.Subscription) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-sub.C
		if !ok {
			return tea.QuitMsg{}
		}
		return eventMsg(e)
	}
}

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case eventMsg:
		e := event.Event(msg)
		m.counts[e.Tag]++
		m.total++
		m.last = e
		return m, waitForEvent(m.sub)
	case tickMsg:
		return m, tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m liveModel) View() string {
	if m.quitting {
		return ""
	}

	s := m.spin.View() + " " + titleStyle.Render(fmt.Sprintf("recording %q", m.sessionName)) + "\n\n"
	s += countStyle.Render(fmt.Sprintf("%d events", m.total)) + "\n"
	if m.total > 0 {
		s += tagStyle.Render(fmt.Sprintf("last: %s at %dms", m.last.Tag, m.last.T)) + "\n"
	}
	s += "\n" + hintStyle.Render("press q to stop recording") + "\n"
	return s
}
