package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Colors by role. The panel and the command output share them so a state
// looks the same in both: OK for committed values, Alarm for failures,
// Dialog for the blocking messages FHEMWEB shows as okDialog.
var (
	AccentColor = lipgloss.Color("#4A90D9")
	OKColor     = lipgloss.Color("#3FB950")
	AlarmColor  = lipgloss.Color("#F85149")
	DialogColor = lipgloss.Color("#D29922")
	DimColor    = lipgloss.Color("#6E7681")
	FgColor     = lipgloss.Color("#E6EDF3")
)

const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Command header: what is about to be sent and to which device
var (
	TitleStyle      = fg(FgColor).Bold(true).PaddingLeft(2)
	CommandStyle    = fg(DimColor).PaddingLeft(2)
	ParamKeyStyle   = fg(DimColor).PaddingLeft(2)
	ParamValueStyle = fg(FgColor)
)

// Results: the outcome of a commit or query, one detail per line
var (
	OKTitleStyle   = fg(OKColor).Bold(true)
	FailTitleStyle = fg(AlarmColor).Bold(true)
	FailTextStyle  = fg(AlarmColor)

	// DetailKeyStyle fits detail keys up to HomeBatteryLowPercentage
	DetailKeyStyle   = fg(DimColor).Width(26)
	DetailValueStyle = fg(FgColor)

	HintTitleStyle = fg(DimColor).Bold(true)
	HintItemStyle  = fg(DimColor)
)

// Listings of sensors, servers, rules and panel state
var (
	TableHeaderStyle = fg(AccentColor).Bold(true)
	TableCellStyle   = fg(FgColor)
	DimStyle         = fg(DimColor)
)

const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
)

// GetTerminalWidth returns the width of stdout clamped to the supported range
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// IsTerminal reports whether stdout is an interactive terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// box frames content of the given outer width; inset is subtracted for
// boxes nested in another box
func box(border lipgloss.Border, color lipgloss.Color, width, inset, padding int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Width(width-inset).
		Padding(0, padding)
}

// HeaderBox frames a command header
func HeaderBox(width int) lipgloss.Style {
	return box(lipgloss.RoundedBorder(), AccentColor, width, 2, 0)
}

// OKBox frames a successful result
func OKBox(width int) lipgloss.Style {
	return box(lipgloss.DoubleBorder(), OKColor, width, 2, 2)
}

// FailBox frames a failed result
func FailBox(width int) lipgloss.Style {
	return box(lipgloss.DoubleBorder(), AlarmColor, width, 2, 2)
}

// DialogBox frames a message that has to be acknowledged
func DialogBox(width int) lipgloss.Style {
	return box(lipgloss.DoubleBorder(), DialogColor, width, 2, 2)
}

// HintBox frames troubleshooting hints inside a FailBox
func HintBox(width int) lipgloss.Style {
	return box(lipgloss.RoundedBorder(), DimColor, width, 8, 1)
}
