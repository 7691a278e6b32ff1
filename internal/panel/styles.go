package panel

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/deespe/fhem-HOMEMODE/internal/ui"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ui.AccentColor).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(ui.DimColor).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(ui.FgColor).
			Background(ui.AccentColor).
			Bold(true).
			Padding(0, 1)

	deviceStyle = lipgloss.NewStyle().
			Foreground(ui.FgColor).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(ui.DimColor).
			Width(36)

	valueStyle = lipgloss.NewStyle().
			Foreground(ui.FgColor)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(ui.DimColor).
				Italic(true)

	previewStyle = lipgloss.NewStyle().
			Foreground(ui.OKColor)

	cursorStyle = lipgloss.NewStyle().
			Foreground(ui.AccentColor).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(ui.DimColor)

	errorStatusStyle = lipgloss.NewStyle().
				Foreground(ui.AlarmColor)

	infoBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.DimColor).
			Padding(0, 1)
)

// renderModal centers content over the panel
func renderModal(content string, width, height int) string {
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}
