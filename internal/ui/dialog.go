package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderDialog renders a message box with an OK button, the way validation
// and not-set messages are shown to the user.
func RenderDialog(title, message string, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	titleLine := lipgloss.NewStyle().
		Foreground(DialogColor).
		Bold(true).
		Render(fmt.Sprintf("%s  %s", WarningMarker, title))

	body := lipgloss.NewStyle().
		Foreground(FgColor).
		Width(width - 8).
		Render(message)

	button := lipgloss.NewStyle().
		Foreground(FgColor).
		Background(AccentColor).
		Padding(0, 2).
		Render("OK")

	content := strings.Join([]string{"", titleLine, "", body, "", button, ""}, "\n")
	return DialogBox(width).Render(content)
}

// Confirm asks a yes/no question on out and reads the answer from in.
// Anything but "y" or "yes" is a no.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	prompt := lipgloss.NewStyle().
		Foreground(DialogColor).
		Bold(true).
		Render(question + " [y/N]: ")
	_, _ = fmt.Fprint(out, prompt)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		_, _ = fmt.Fprintln(out, DimStyle.Render("  Cancelled."))
		return false
	}
}
