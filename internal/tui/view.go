package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	orchestration "github.com/koscakluka/ema-translate/core"
	"github.com/koscakluka/ema-translate/core/messages"
)

func (m Model) View() string {
	sections := []string{m.headerView()}

	if len(m.popups) > 0 {
		sections = append(sections, m.popupView(m.popups[0]))
	} else {
		sections = append(sections, paneStyle.Render(m.viewport.View()))
	}

	sections = append(sections,
		m.statusView(),
		m.noticeView(),
		m.input.View(),
		m.help.View(m.keys),
	)
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) headerView() string {
	title := titleStyle.Render("ema-translate")
	session, ok := m.port.Session()
	if !ok {
		return title + mutedStyle.Render("  "+languagePair(m.request.UserLanguage, m.request.TargetLanguage))
	}
	objective := session.Objective
	if m.width > 0 {
		objective = truncate(objective, m.width/2)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		title,
		mutedStyle.Render("  "+languagePair(session.UserLanguage, session.TargetLanguage)+"  "),
		objective,
	)
}

func (m Model) statusView() string {
	var parts []string
	switch m.port.RecordingState() {
	case orchestration.RecordingCapturing:
		parts = append(parts, badgeStyle.Render("REC"))
	case orchestration.RecordingProcessing:
		parts = append(parts, m.spinner.View()+" processing audio")
	}
	switch m.port.State() {
	case orchestration.StateBootstrapping:
		parts = append(parts, m.spinner.View()+" setting objective")
	case orchestration.StateTurnInFlight:
		parts = append(parts, m.spinner.View()+" waiting for reply")
	}
	if m.speaking {
		parts = append(parts, hotStyle.Render("♪")+" speaking")
	}
	if len(parts) == 0 {
		return mutedStyle.Render(m.port.State().String())
	}
	return strings.Join(parts, "  ")
}

func (m Model) noticeView() string {
	if m.notice == nil {
		return ""
	}
	return noticeStyle(m.notice.Severity).Render(m.notice.Text)
}

func (m Model) popupView(p popup) string {
	title := "Summary"
	if p.kind == popupCaution {
		title = "Caution"
	}
	width := max(m.viewport.Width-8, 20)
	body := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle(kindOf(p.kind)).Render(title),
		"",
		wordwrap.String(p.text, width),
		"",
		mutedStyle.Render("esc to close"),
	)
	box := popupBorder(p.kind).Render(body)
	return lipgloss.Place(m.viewport.Width+4, m.viewport.Height+2, lipgloss.Center, lipgloss.Center, box)
}

func kindOf(kind popupKind) messages.Kind {
	if kind == popupCaution {
		return messages.KindCaution
	}
	return messages.KindSummary
}

// renderHistory lays out history as labelled, wrapped blocks.
func renderHistory(history []messages.Message, width int) string {
	if len(history) == 0 {
		return mutedStyle.Render("No messages yet.")
	}
	wrap := max(width-2, 10)

	var b strings.Builder
	for i, message := range history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(labelStyle(message.Kind).Render(message.Label()))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(message.Text, wrap))
	}
	return b.String()
}

// languagePair renders e.g. "English → Spanish". Codes that do not parse are
// shown as given.
func languagePair(user, target string) string {
	return fmt.Sprintf("%s → %s", languageName(user), languageName(target))
}

func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 1 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
