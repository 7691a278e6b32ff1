package panel

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deespe/fhem-HOMEMODE/internal/attrsync"
	"github.com/deespe/fhem-HOMEMODE/internal/config"
	"github.com/deespe/fhem-HOMEMODE/internal/fhem"
	"github.com/deespe/fhem-HOMEMODE/internal/inform"
)

// fakeFHEM serves jsonlist2 from fixed devices and records commands
type fakeFHEM struct {
	mu       sync.Mutex
	devices  map[string]*fhem.DeviceInfo
	commands []string
}

func newFakeFHEM() *fakeFHEM {
	host := &fhem.DeviceInfo{
		Name:      "homeMode",
		Internals: map[string]string{"TYPE": "HOMEMODE"},
		Readings: map[string]fhem.Reading{
			"mode":         {Value: "day"},
			"contactsOpen": {Value: "0"},
		},
		Attributes: map[string]string{
			"HomeSensorsContact": "door.sensor",
			"HomeSensorsBattery": "door.sensor",
		},
	}
	door := &fhem.DeviceInfo{
		Name:      "door.sensor",
		Internals: map[string]string{"TYPE": "HUEDevice"},
		Readings: map[string]fhem.Reading{
			"state":   {Value: "closed"},
			"battery": {Value: "87"},
		},
		Attributes: map[string]string{"HomeContactType": "doormain"},
	}
	return &fakeFHEM{devices: map[string]*fhem.DeviceInfo{"homeMode": host, "door.sensor": door}}
}

func (f *fakeFHEM) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

func (f *fakeFHEM) exec(cmd string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeFHEM) JSONList2(_ context.Context, devspec string, _ ...string) (*fhem.QueryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := &fhem.QueryResult{Arg: "jsonlist2 " + devspec}
	for _, name := range strings.Split(devspec, ",") {
		if d, ok := f.devices[name]; ok {
			q.Devices = append(q.Devices, d)
		}
	}
	q.TotalResults = len(q.Devices)
	return q, nil
}

func (f *fakeFHEM) SetAttr(_ context.Context, device, name, value string) error {
	return f.exec(fmt.Sprintf("attr %s %s %s", device, name, value))
}

func (f *fakeFHEM) DeleteAttr(_ context.Context, device, name string) error {
	return f.exec(fmt.Sprintf("deleteattr %s %s", device, name))
}

func (f *fakeFHEM) Set(_ context.Context, device string, args ...string) error {
	return f.exec("set " + device + " " + strings.Join(args, " "))
}

func (f *fakeFHEM) Reading(_ context.Context, device, reading string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[device]
	if !ok {
		return "", false, nil
	}
	r, ok := d.Reading(reading)
	return r.Value, ok, nil
}

func (f *fakeFHEM) Attribute(_ context.Context, device, attr string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[device]
	if !ok {
		return "", false, nil
	}
	v, ok := d.Attribute(attr)
	return v, ok, nil
}

func (f *fakeFHEM) DeviceCount(_ context.Context, devspec string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.devices[devspec]; ok {
		return 1, nil
	}
	return 0, nil
}

func newTestModel(t *testing.T, state *config.PanelState) (Model, *fakeFHEM) {
	t.Helper()
	f := newFakeFHEM()
	ctx := context.Background()
	snap, err := Load(ctx, f, "homeMode", DefaultTabs)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	engine := attrsync.NewEngine(f, "homeMode", attrsync.LanguageEN)
	return New(ctx, engine, f, state, snap), f
}

// press feeds msg to the model and drops the returned command
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// run feeds msg to the model, executes the FHEM command it starts and
// feeds the result back
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("%v did not start a command", msg)
	}
	next, _ = m.Update(cmd())
	return next.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestLoad(t *testing.T) {
	f := newFakeFHEM()
	snap, err := Load(context.Background(), f, "homeMode", DefaultTabs)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.Sensors["Contact"]) != 1 || len(snap.Sensors["Battery"]) != 1 {
		t.Errorf("sensors = %v", snap.Sensors)
	}
	if len(snap.Sensors["Motion"]) != 0 {
		t.Error("Motion has no HomeSensorsMotion attribute and should be empty")
	}
	if got := snap.Devices(); len(got) != 1 || got[0] != "door.sensor" {
		t.Errorf("Devices() = %v", got)
	}

	if _, err := Load(context.Background(), f, "door.sensor", DefaultTabs); err == nil {
		t.Error("Load() of a non-HOMEMODE device should fail")
	}
	if _, err := Load(context.Background(), f, "ghost", DefaultTabs); err == nil {
		t.Error("Load() of an undefined device should fail")
	}
}

func TestModel_RestoresState(t *testing.T) {
	store := config.NewMemoryStateStore()
	state := config.NewPanelState(store, "homeMode")
	_ = state.SetActivePanel("Battery")
	_ = state.SetInternalsHidden(true)
	_ = state.SetLastInfo("mode")

	m, _ := newTestModel(t, state)
	if m.Active != FindTab(DefaultTabs, "Battery") {
		t.Errorf("Active = %d, want Battery tab", m.Active)
	}
	if !m.internalsHidden || m.infoReading != "mode" {
		t.Errorf("internalsHidden = %v, infoReading = %q", m.internalsHidden, m.infoReading)
	}
	if !strings.Contains(m.View(), "day") {
		t.Error("info box should show the mode reading")
	}
}

func TestModel_ToggleTabPersists(t *testing.T) {
	state := config.NewPanelState(config.NewMemoryStateStore(), "homeMode")
	m, _ := newTestModel(t, state)

	m = press(t, m, keyRunes("2"))
	if m.Active != 1 || state.ActivePanel() != "Motion" {
		t.Errorf("Active = %d, panel = %q", m.Active, state.ActivePanel())
	}
	m = press(t, m, keyRunes("2"))
	if m.Active != -1 || state.ActivePanel() != "" {
		t.Errorf("second press should close: Active = %d, panel = %q", m.Active, state.ActivePanel())
	}
}

func TestModel_CommitTextField(t *testing.T) {
	m, f := newTestModel(t, nil)
	m = press(t, m, keyRunes("1"))

	// row 0 is the device, row 1 HomeReadingContact
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, enter)
	if m.mode != modeEdit {
		t.Fatalf("mode = %v, want edit", m.mode)
	}
	m = press(t, m, keyRunes("battery"))
	m = run(t, m, enter)

	want := "attr door.sensor HomeReadingContact battery"
	if cmds := f.Commands(); len(cmds) != 1 || cmds[0] != want {
		t.Fatalf("commands = %v, want [%s]", cmds, want)
	}
	r := m.currentRow()
	if r.binding.Preview.Text() != "87" {
		t.Errorf("preview = %q, want 87", r.binding.Preview.Text())
	}
	if r.binding.Preview.SourceID() != "homeMode-door.sensor.battery" {
		t.Errorf("source id = %q", r.binding.Preview.SourceID())
	}
}

func TestModel_ValidationDialog(t *testing.T) {
	m, f := newTestModel(t, nil)
	m = press(t, m, keyRunes("1"))

	// move to HomeOpenMaxTrigger
	for m.currentRow() == nil || m.currentRow().spec.Name != attrsync.FieldOpenMaxTrigger {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = press(t, m, enter)
	m = press(t, m, keyRunes("123"))
	m = run(t, m, enter)

	if m.dialog == "" || !strings.Contains(m.dialog, "maximum number") {
		t.Fatalf("dialog = %q, want the open max trigger message", m.dialog)
	}
	if n := len(f.Commands()); n != 0 {
		t.Errorf("sent %d commands for an invalid value", n)
	}
	if r := m.currentRow(); r.binding.DisplayedValue() != "" {
		t.Errorf("row shows %q after a rejected edit, want the unset value", r.binding.DisplayedValue())
	}

	m = press(t, m, enter)
	if m.dialog != "" {
		t.Error("enter should close the dialog")
	}
}

func TestModel_DeviceToggle(t *testing.T) {
	m, f := newTestModel(t, nil)
	m = press(t, m, keyRunes("1"))
	m = run(t, m, enter)

	if !m.Disabled("door.sensor") {
		t.Error("door.sensor should be disabled")
	}
	if cmds := f.Commands(); len(cmds) != 1 || cmds[0] != "set homeMode deviceDisable door.sensor" {
		t.Errorf("commands = %v", cmds)
	}

	// the battery tab shows the same device
	m = press(t, m, keyRunes("3"))
	if !strings.Contains(m.View(), "[x] ") {
		t.Error("battery tab should show door.sensor as disabled")
	}
}

func TestModel_BatteryThresholdRow(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, keyRunes("3"))

	rows := m.activeRows()
	var threshold *row
	for _, r := range rows {
		if r.spec.Name == attrsync.FieldBatteryLowPercent {
			threshold = r
		}
	}
	if threshold == nil || !threshold.visible() {
		t.Fatal("threshold row should be visible for a numeric battery reading")
	}

	m = press(t, m, InformMsg{Event: inform.Event{ID: "homeMode-door.sensor.battery", Value: "low"}})
	if threshold.visible() {
		t.Error("threshold row should hide after a non-numeric update")
	}
}

func TestModel_InternalsToggle(t *testing.T) {
	state := config.NewPanelState(config.NewMemoryStateStore(), "homeMode")
	m, _ := newTestModel(t, state)

	m = press(t, m, keyRunes("x"))
	if !state.InternalsHidden() {
		t.Error("internals hidden should be persisted")
	}
	if !strings.Contains(m.View(), "show internals and readings") {
		t.Error("label should offer to show internals")
	}
	m = press(t, m, keyRunes("x"))
	if state.InternalsHidden() {
		t.Error("internals shown should remove the key")
	}
}

func TestModel_CheckboxGroup(t *testing.T) {
	m, f := newTestModel(t, nil)
	m = press(t, m, keyRunes("1"))
	for m.currentRow() == nil || m.currentRow().spec.Name != attrsync.FieldModeAlarmActive {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}

	m = press(t, m, enter)
	m = press(t, m, keyRunes(" "))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(t, m, keyRunes(" "))
	m = run(t, m, enter)

	want := "attr door.sensor HomeModeAlarmActive armaway|armnight"
	if cmds := f.Commands(); len(cmds) != 1 || cmds[0] != want {
		t.Errorf("commands = %v, want [%s]", cmds, want)
	}
	if m.currentRow().value != "armaway|armnight" {
		t.Errorf("row value = %q", m.currentRow().value)
	}
}

func TestModel_NextInfo(t *testing.T) {
	state := config.NewPanelState(config.NewMemoryStateStore(), "homeMode")
	m, _ := newTestModel(t, state)

	m = press(t, m, keyRunes("i"))
	if m.infoReading != "contactsOpen" || state.LastInfo() != "contactsOpen" {
		t.Errorf("info = %q, persisted %q", m.infoReading, state.LastInfo())
	}
	m = press(t, m, keyRunes("i"))
	if m.infoReading != "mode" {
		t.Errorf("info = %q, want mode", m.infoReading)
	}

	m = press(t, m, InformMsg{Event: inform.Event{ID: "homeMode-mode", Value: "evening"}})
	if !strings.Contains(m.View(), "evening") {
		t.Error("info box should follow inform updates")
	}
}

func TestPlaceholderFor(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"HomeReadingContact", "state"},
		{attrsync.FieldReadingBattery, "battery"},
		{attrsync.FieldOpenMaxTrigger, ""},
		{"HomeUnknown", ""},
	}
	for _, tt := range tests {
		if got := PlaceholderFor(DefaultTabs, tt.field); got != tt.want {
			t.Errorf("PlaceholderFor(%s) = %q, want %q", tt.field, got, tt.want)
		}
	}
}
