package anim

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"heartrain/cmd/heartrain/ui"
	"heartrain/internal/rain"
)

// skipCell marks a column covered by the wide glyph to its left.
const skipCell = "\x00"

func (m Model) View() string {
	if m.phase == PhaseQuitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.phase == PhaseIntro {
		return m.viewIntro()
	}
	return m.viewRain()
}

// viewIntro draws the boot screen: the heart logo, the current boot message
// with a dot loader, and the exit hint.
func (m Model) viewIntro() string {
	dots := strings.Repeat(".", int(m.introElapsed.Seconds()*3)%4)

	msg := ""
	if len(m.th.Messages) > 0 {
		msg = m.th.Messages[m.introMsgIndex%len(m.th.Messages)]
	}
	line := m.spinner.View() + " " + m.styles.BootText.Render(msg+dots)

	content := lipgloss.JoinVertical(lipgloss.Center,
		ui.Logo(m.styles),
		"",
		line,
		"",
		m.styles.Hint.Render("Press Ctrl+C to exit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// viewRain composites the HUD and every live heart into a cell buffer, then
// joins the buffer into one frame.
func (m Model) viewRain() string {
	fieldW, fieldH := m.field.Dimensions()

	buf := make([][]string, fieldH)
	for r := range buf {
		buf[r] = make([]string, fieldW)
	}
	for _, h := range m.field.Hearts() {
		m.blit(buf, h)
	}

	rows := make([]string, 0, fieldH+hudHeight)
	rows = append(rows, m.hudLine(), m.messageLine())
	for r := 0; r < fieldH; r++ {
		var sb strings.Builder
		for c := 0; c < fieldW; c++ {
			switch buf[r][c] {
			case "":
				sb.WriteByte(' ')
			case skipCell:
				// covered by the wide glyph to the left
			default:
				sb.WriteString(buf[r][c])
			}
		}
		rows = append(rows, strings.TrimRight(sb.String(), " "))
	}
	return strings.Join(rows, "\n")
}

// blit writes one heart's sprite into the buffer. Blank sprite cells are
// skipped so hearts passing behind stay visible.
func (m Model) blit(buf [][]string, h *rain.Heart) {
	st := ui.GlyphStyle(h.Color, glyphPhase(h.Twinkle))
	left := h.X - h.W/2
	top := int(h.Y)

	for r, rowStr := range h.Sprite {
		sr := top + r
		if sr < 0 || sr >= len(buf) {
			continue
		}
		c := 0
		for _, ch := range rowStr {
			w := runewidth.RuneWidth(ch)
			if w < 1 {
				w = 1
			}
			if ch != ' ' {
				sc := left + c
				if sc >= 0 && sc+w <= len(buf[sr]) {
					buf[sr][sc] = st.Render(string(ch))
					for k := 1; k < w; k++ {
						buf[sr][sc+k] = skipCell
					}
				}
			}
			c += w
		}
	}
}

func glyphPhase(p rain.TwinklePhase) ui.GlyphPhase {
	switch p {
	case rain.TwinkleBright:
		return ui.GlyphBright
	case rain.TwinkleFaint:
		return ui.GlyphFaint
	default:
		return ui.GlyphNormal
	}
}

// hudLine renders the title row, shrinking to just the hint on narrow
// terminals.
func (m Model) hudLine() string {
	const hint = "Press Ctrl+C to exit"

	full := m.styles.Title.Render(m.th.Title) + m.styles.Hint.Render("  |  "+hint)
	if lipgloss.Width(full) > m.width {
		return m.styles.Hint.Render(runewidth.Truncate(hint, m.width, ""))
	}
	return full
}

// messageLine centers the rotating status message.
func (m Model) messageLine() string {
	if m.message == "" {
		return ""
	}
	styled := m.styles.Message.Render(m.message)
	if lipgloss.Width(styled) > m.width {
		return m.styles.Message.Render(runewidth.Truncate(m.message, m.width, ""))
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styled)
}
