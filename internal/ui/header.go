package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header is the banner printed before a command talks to FHEM
type Header struct {
	Title   string            // e.g., "SET ATTRIBUTE"
	Command string            // e.g., "attr door.sensor HomeAlarmDelay 30"
	Params  map[string]string // e.g., {"Server": "http://fhem:8083/fhem"}
	Width   int
}

// NewHeader creates a new header with the given values
func NewHeader(title, command string, params map[string]string) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	titleLine := TitleStyle.Render(strings.ToUpper(h.Title))
	top := titleLine
	if h.Command != "" {
		top = lipgloss.JoinVertical(lipgloss.Left, titleLine, CommandStyle.Render(h.Command))
	}
	if len(h.Params) == 0 {
		return HeaderBox(width).Render(top)
	}

	dividerWidth := width - 6 // Account for border and padding
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().
		Foreground(AccentColor).
		Render(strings.Repeat("─", dividerWidth))

	keys := make([]string, 0, len(h.Params))
	for k := range h.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var paramLines []string
	for _, key := range keys {
		paramLines = append(paramLines,
			ParamKeyStyle.Render(key+":")+" "+ParamValueStyle.Render(h.Params[key]))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, top, divider, strings.Join(paramLines, "\n"))
	return HeaderBox(width).Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
