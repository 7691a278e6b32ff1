package panel

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deespe/fhem-HOMEMODE/internal/attrsync"
)

func commitCmd(ctx context.Context, engine *attrsync.Engine, r *row, value string) tea.Cmd {
	return func() tea.Msg {
		result, err := engine.Commit(ctx, r.binding, value)
		return commitDoneMsg{row: r, result: result, err: err}
	}
}

func clearCmd(ctx context.Context, engine *attrsync.Engine, r *row) tea.Cmd {
	return func() tea.Msg {
		return commitDoneMsg{row: r, err: engine.Clear(ctx, r.binding)}
	}
}

func deleteCmd(ctx context.Context, engine *attrsync.Engine, r *row) tea.Cmd {
	return func() tea.Msg {
		return controlDoneMsg{row: r, err: engine.DeleteIfSet(ctx, r.device, r.spec.Name)}
	}
}

func toggleCmd(ctx context.Context, engine *attrsync.Engine, r *row, on bool) tea.Cmd {
	return func() tea.Msg {
		value := ""
		if on {
			value = "1"
		}
		return controlDoneMsg{row: r, value: value, err: engine.SetToggle(ctx, r.device, r.spec.Name, on)}
	}
}

func dropdownCmd(ctx context.Context, engine *attrsync.Engine, r *row, choice string) tea.Cmd {
	return func() tea.Msg {
		return controlDoneMsg{row: r, value: choice, err: engine.SelectOption(ctx, r.device, r.spec.Name, choice)}
	}
}

func checkboxCmd(ctx context.Context, engine *attrsync.Engine, r *row, checked []string) tea.Cmd {
	return func() tea.Msg {
		value, err := engine.SetCheckboxGroup(ctx, r.device, r.spec.Name, checked)
		return controlDoneMsg{row: r, value: value, err: err}
	}
}

func deviceCmd(ctx context.Context, engine *attrsync.Engine, device string, disable bool) tea.Cmd {
	return func() tea.Msg {
		return deviceToggledMsg{device: device, disabled: disable, err: engine.SetDeviceDisabled(ctx, device, disable)}
	}
}

func reloadCmd(ctx context.Context, src Source, host string, tabs []Tab, status string) tea.Cmd {
	return func() tea.Msg {
		snap, err := Load(ctx, src, host, tabs)
		return reloadedMsg{snapshot: snap, status: status, err: err}
	}
}

func addSensorsCmd(ctx context.Context, engine *attrsync.Engine, src Source, tabs []Tab, sensorType, names string) tea.Cmd {
	return func() tea.Msg {
		value, err := engine.AddSensors(ctx, sensorType, names)
		if err != nil {
			return reloadedMsg{err: err}
		}
		snap, err := Load(ctx, src, engine.HostDevice(), tabs)
		return reloadedMsg{
			snapshot: snap,
			status:   fmt.Sprintf("%s = %s", attrsync.SensorAttr(sensorType), value),
			err:      err,
		}
	}
}

func splitAlternation(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, "|")
}
