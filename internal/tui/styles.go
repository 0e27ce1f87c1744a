package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/koscakluka/ema-translate/core/events"
	"github.com/koscakluka/ema-translate/core/messages"
)

var (
	colorBase     = lipgloss.Color("#1e1e2e")
	colorSurface  = lipgloss.Color("#45475a")
	colorText     = lipgloss.Color("#cdd6f4")
	colorSubtext  = lipgloss.Color("#a6adc8")
	colorLavender = lipgloss.Color("#b4befe")
	colorSapphire = lipgloss.Color("#74c7ec")
	colorGreen    = lipgloss.Color("#a6e3a1")
	colorYellow   = lipgloss.Color("#f9e2af")
	colorPeach    = lipgloss.Color("#fab387")
	colorRed      = lipgloss.Color("#f38ba8")

	appStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface).
		Padding(0, 1)

	popupStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		Padding(1, 2)

	titleStyle = lipgloss.NewStyle().Foreground(colorSapphire).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	hotStyle   = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)
	badgeStyle = lipgloss.NewStyle().Foreground(colorBase).Background(colorRed).Padding(0, 1)
)

func labelStyle(kind messages.Kind) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch kind {
	case messages.KindUser:
		return style.Foreground(colorLavender)
	case messages.KindTarget:
		return style.Foreground(colorGreen)
	case messages.KindCaution:
		return style.Foreground(colorRed)
	case messages.KindSummary:
		return style.Foreground(colorYellow)
	case messages.KindSystem:
		return style.Foreground(colorSubtext)
	default:
		return style.Foreground(colorSapphire)
	}
}

func noticeStyle(severity events.Severity) lipgloss.Style {
	switch severity {
	case events.SeveritySuccess:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case events.SeverityWarning:
		return lipgloss.NewStyle().Foreground(colorYellow)
	case events.SeverityError:
		return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorSapphire)
	}
}

func popupBorder(kind popupKind) lipgloss.Style {
	if kind == popupCaution {
		return popupStyle.BorderForeground(colorRed)
	}
	return popupStyle.BorderForeground(colorYellow)
}
