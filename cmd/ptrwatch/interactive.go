package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/shared-ptr/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	liveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	expiredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type watchModel struct {
	err      error
	reg      *registry.Registry
	work     *workload
	cancel   context.CancelFunc
	wg       *sync.WaitGroup
	input    textinput.Model
	snapshot []registry.Entry
	stats    registry.Stats
	objects  int
	capacity int
	workers  int
	paused   bool
	state    watchState
}

type watchState int

const (
	stateConfigure watchState = iota
	stateRunning
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func newWatchModel(objects, capacity int) *watchModel {
	ti := textinput.New()
	ti.Placeholder = "8"
	ti.Prompt = "workers: "
	ti.Width = 10
	ti.Focus()

	return &watchModel{
		input:    ti,
		objects:  objects,
		capacity: capacity,
		state:    stateConfigure,
	}
}

func (m *watchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *watchModel) start() error {
	workers := 8
	if v, err := strconv.Atoi(strings.TrimSpace(m.input.Value())); err == nil && v > 0 {
		workers = v
	}
	m.workers = workers

	m.reg = registry.NewWithCapacity(m.capacity)
	work, err := newWorkload(m.reg, m.objects)
	if err != nil {
		return err
	}
	m.work = work

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg = &sync.WaitGroup{}
	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(seed int64) {
			defer m.wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for ctx.Err() == nil {
				m.work.step(rng)
			}
		}(int64(i) + 1)
	}
	return nil
}

func (m *watchModel) shutdown() {
	if m.cancel != nil {
		m.cancel()
		m.wg.Wait()
		m.work.stop()
	}
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.shutdown()
			return m, tea.Quit

		case "enter":
			if m.state == stateConfigure {
				if err := m.start(); err != nil {
					m.err = err
					return m, tea.Quit
				}
				m.state = stateRunning
				return m, tick()
			}

		case " ":
			if m.state == stateRunning {
				m.paused = !m.paused
			}
		}

	case tickMsg:
		if m.state == stateRunning {
			if !m.paused {
				m.snapshot = m.reg.Snapshot()
				m.stats = m.reg.Stats()
			}
			return m, tick()
		}
	}

	if m.state == stateConfigure {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *watchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ptrwatch"))
	b.WriteString("\n\n")

	switch m.state {
	case stateConfigure:
		fmt.Fprintf(&b, "Churn %d shared objects. How many workers?\n\n", m.objects)
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter start • q quit"))

	case stateRunning:
		fmt.Fprintf(&b, "%d workers over %d objects\n\n", m.workers, m.objects)

		b.WriteString(headerStyle.Render(fmt.Sprintf("%-8s %-24s %8s %8s", "BLOCK", "PAYLOAD", "STRONG", "WEAK")))
		b.WriteString("\n")
		rows := m.snapshot
		if len(rows) > 16 {
			rows = rows[:16]
		}
		for _, e := range rows {
			line := fmt.Sprintf("%-8d %-24s %8d %8d", e.ID, e.PayloadType, e.Strong, e.Weak)
			if e.Strong > 0 {
				b.WriteString(liveStyle.Render(line))
			} else {
				b.WriteString(expiredStyle.Render(line))
			}
			b.WriteString("\n")
		}
		if len(m.snapshot) > len(rows) {
			fmt.Fprintf(&b, "… %d more\n", len(m.snapshot)-len(rows))
		}

		b.WriteString("\n")
		b.WriteString(statStyle.Render(fmt.Sprintf(
			"live %d (peak %d) • created %d • payloads freed %d • blocks freed %d",
			m.stats.Live, m.stats.PeakLive, m.stats.Created,
			m.stats.PayloadsFreed, m.stats.BlocksFreed)))
		b.WriteString("\n\n")
		if m.paused {
			b.WriteString(helpStyle.Render("space resume • q quit"))
		} else {
			b.WriteString(helpStyle.Render("space pause • q quit"))
		}
	}

	return b.String()
}

func runInteractive(objects, capacity int) error {
	m := newWatchModel(objects, capacity)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.err
}
