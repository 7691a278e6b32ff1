package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/deespe/fhem-HOMEMODE/internal/attrsync"
	"github.com/deespe/fhem-HOMEMODE/internal/ui"
)

// chrome is the number of lines around the row list
const chrome = 12

// View renders the panel
func (m Model) View() string {
	if m.dialog != "" {
		return renderModal(ui.RenderDialog(m.dialogTitle, m.dialog, ui.MinTerminalWidth), m.Width, m.Height)
	}
	if m.showHelp {
		box := infoBoxStyle.Render(titleStyle.Render("Keys") + "\n\n" + m.Help.FullHelpView(m.Keys.FullHelp()))
		return renderModal(box, m.Width, m.Height)
	}

	sections := []string{
		titleStyle.Render("HOMEMODE  " + m.engine.HostDevice()),
		m.renderInfoBox(),
		m.renderTabs(),
		m.renderRows(),
		m.renderStatus(),
		m.Help.ShortHelpView(m.Keys.ShortHelp()),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderInfoBox() string {
	width := m.Width - 4
	if width < 20 {
		width = 20
	}
	if m.infoReading == "" || m.snapshot == nil || m.snapshot.Host == nil {
		return infoBoxStyle.Width(width).Render(statusStyle.Render("press i to show a reading of " + m.engine.HostDevice()))
	}
	value := attrsync.PreviewSentinel
	if r, ok := m.snapshot.Host.Reading(m.infoReading); ok {
		value = r.Value
	}
	return infoBoxStyle.Width(width).Render(deviceStyle.Render(m.infoReading) + "\n" + valueStyle.Render(value))
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		n := 0
		if m.snapshot != nil {
			n = len(m.snapshot.Sensors[tab.Type])
		}
		label := fmt.Sprintf("%d %s (%d)", i+1, tab.Type, n)
		if i == m.Active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(m.Width).Render(strings.Join(parts, " "))
}

func (m Model) renderRows() string {
	if m.Active < 0 {
		return statusStyle.Render("\n  no panel open, press 1-9 or tab\n")
	}
	rows := m.activeRows()
	if len(rows) == 0 {
		return statusStyle.Render(fmt.Sprintf("\n  no sensors in %s, press a to add some\n", m.tabs[m.Active].Attr()))
	}

	var lines []string
	cursorLine := 0
	for i, r := range rows {
		if !r.visible() {
			continue
		}
		if i == m.Cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, m.renderRow(r, i == m.Cursor))
	}

	// keep the cursor in view
	height := m.Height - chrome
	if height < 3 {
		height = 3
	}
	if len(lines) > height {
		start := cursorLine - height/2
		if start < 0 {
			start = 0
		}
		if start+height > len(lines) {
			start = len(lines) - height
		}
		lines = lines[start : start+height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r *row, selected bool) string {
	marker := "  "
	if selected {
		marker = cursorStyle.Render("> ")
	}

	if r.kind == rowDevice {
		box := "[ ]"
		if m.disabled[r.device] {
			box = "[x]"
		}
		line := marker + box + " " + deviceStyle.Render(r.device)
		if !m.internalsHidden {
			line += "  " + statusStyle.Render(m.internals(r.device))
		}
		return line
	}

	label := labelStyle.Render("    " + r.spec.Name)
	switch r.spec.Kind {
	case KindText:
		if selected && m.mode == modeEdit {
			return marker + label + m.input.View()
		}
		value := r.binding.DisplayedValue()
		shown := valueStyle.Render(value)
		if value == "" {
			shown = placeholderStyle.Render(r.spec.Placeholder)
		}
		if r.binding.Preview != nil {
			shown += "  " + previewStyle.Render("→ "+r.binding.Preview.Text())
		}
		return marker + label + shown

	case KindToggle:
		box := "[ ]"
		if r.value == "1" {
			box = "[x]"
		}
		return marker + label + valueStyle.Render(box)

	case KindDropdown:
		value := r.value
		if value == "" {
			return marker + label + placeholderStyle.Render("("+strings.Join(r.spec.Options, "/")+")")
		}
		return marker + label + valueStyle.Render("< "+value+" >")

	case KindCheckboxes:
		checked := make(map[string]bool)
		for _, v := range splitAlternation(r.value) {
			checked[v] = true
		}
		choosing := selected && m.mode == modeChoose
		if choosing {
			checked = m.checks
		}
		var opts []string
		for i, opt := range r.spec.Options {
			box := "[ ]"
			if checked[opt] {
				box = "[x]"
			}
			item := box + " " + opt
			if choosing && i == m.choice {
				item = cursorStyle.Render(item)
			}
			opts = append(opts, item)
		}
		return marker + label + strings.Join(opts, " ")
	}
	return marker + label
}

// internals summarizes internals and readings of a sensor
func (m Model) internals(device string) string {
	if m.snapshot == nil || m.Active < 0 {
		return ""
	}
	for _, d := range m.snapshot.Sensors[m.tabs[m.Active].Type] {
		if d.Name != device {
			continue
		}
		parts := []string{d.Internals["TYPE"]}
		if state, ok := d.Reading("state"); ok {
			parts = append(parts, "state: "+state.Value)
		}
		parts = append(parts, fmt.Sprintf("%d readings", len(d.Readings)))
		return strings.Join(parts, "  ")
	}
	return ""
}

func (m Model) renderStatus() string {
	internalsLabel := attrsync.Message(m.engine.Language(), attrsync.MsgHideInternals)
	if m.internalsHidden {
		internalsLabel = attrsync.Message(m.engine.Language(), attrsync.MsgShowInternals)
	}

	var line string
	switch {
	case m.mode == modeAdd:
		line = fmt.Sprintf("Add sensor %s: %s", strings.ToLower(m.tabs[m.Active].Type), m.input.View())
	case m.pending > 0:
		line = m.spinner.View() + " " + statusStyle.Render("sending...")
	case m.statusErr:
		line = errorStatusStyle.Render(ui.FailureMarker + " " + m.status)
	case m.status != "":
		line = statusStyle.Render(ui.SuccessMarker + " " + m.status)
	}
	return "\n" + line + "\n" + statusStyle.Render("x: "+internalsLabel)
}
