package anim

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Init starts the spinner and the frame chain.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tickFrame())
}

// tickFrame schedules the next simulation step.
func (m Model) tickFrame() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg{at: t}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.phase = PhaseQuitting
			return m, tea.Quit
		}
		if msg.String() == "q" {
			m.phase = PhaseQuitting
			return m, tea.Quit
		}
		// Any other key skips the boot screen.
		if m.phase == PhaseIntro {
			m.phase = PhaseRain
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		fieldH := m.height - hudHeight
		if fieldH < 1 {
			fieldH = 1
		}
		m.field.Resize(m.width, fieldH)
		m.ready = m.width > 0 && m.height > hudHeight
		return m, nil

	case spinner.TickMsg:
		if m.phase != PhaseIntro {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		return m.stepFrame()

	case themeReloadedMsg:
		if msg.theme != nil {
			m.th = msg.theme
			m.field.SetTheme(msg.theme)
			m.log.Debug("theme reloaded", zap.String("title", msg.theme.Title))
		}
		return m, nil
	}

	return m, nil
}

// stepFrame advances the animation by one fixed step and schedules the next.
func (m Model) stepFrame() (tea.Model, tea.Cmd) {
	if m.phase == PhaseQuitting {
		return m, nil
	}

	m.elapsed += m.frame
	m.frames++

	if m.deadline > 0 && m.elapsed >= m.deadline {
		m.phase = PhaseQuitting
		return m, tea.Quit
	}

	switch m.phase {
	case PhaseIntro:
		m.introElapsed += m.frame
		for m.introElapsed >= m.nextIntroMsg {
			m.introMsgIndex++
			m.nextIntroMsg += introMsgEvery
		}
		if m.introElapsed >= m.introFor {
			m.phase = PhaseRain
		}

	case PhaseRain:
		if m.ready {
			m.field.Step(m.frame)
		}
		m.rainElapsed += m.frame
		if m.rainElapsed >= m.nextMsg {
			m.rotateMessage()
		}
	}

	return m, m.tickFrame()
}

// rotateMessage picks the next HUD message and spaces the one after it
// slightly randomly.
func (m *Model) rotateMessage() {
	if len(m.th.Messages) == 0 {
		m.message = ""
		return
	}
	m.message = m.th.Messages[m.rng.Intn(len(m.th.Messages))]

	jitter := msgDelay + time.Duration(m.rng.Float64()*float64(msgJitter))
	m.nextMsg = m.rainElapsed + msgHold + jitter
}
