package panel

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/deespe/fhem-HOMEMODE/internal/attrsync"
	"github.com/deespe/fhem-HOMEMODE/internal/config"
	"github.com/deespe/fhem-HOMEMODE/internal/fhem"
	"github.com/deespe/fhem-HOMEMODE/internal/inform"
	"github.com/deespe/fhem-HOMEMODE/internal/logging"
)

type mode int

const (
	modeNormal mode = iota
	modeEdit
	modeChoose
	modeAdd
)

type rowKind int

const (
	rowDevice rowKind = iota
	rowField
)

// row is one line of a sensor panel
type row struct {
	kind   rowKind
	device string
	spec   FieldSpec

	// binding backs text fields
	binding *attrsync.FieldBinding

	// value holds the state of toggles, dropdowns and checkbox groups
	value string

	// dependsOn hides the row while the dependent field is invisible
	dependsOn *attrsync.DependentField
}

func (r *row) visible() bool {
	return r.dependsOn == nil || r.dependsOn.Visible()
}

// Messages for async operations
type commitDoneMsg struct {
	row    *row
	result *attrsync.CommitResult
	err    error
}

type controlDoneMsg struct {
	row   *row
	value string
	err   error
}

type deviceToggledMsg struct {
	device   string
	disabled bool
	err      error
}

type reloadedMsg struct {
	snapshot *Snapshot
	status   string
	err      error
}

// InformMsg carries a FHEMWEB update into the panel
type InformMsg struct {
	Event inform.Event
}

// InformClosedMsg reports that the inform stream ended
type InformClosedMsg struct {
	Err error
}

// Model is the HOMEMODE sensor panel
type Model struct {
	ctx      context.Context
	engine   *attrsync.Engine
	source   Source
	state    *config.PanelState
	tabs     []Tab
	snapshot *Snapshot

	rows     map[string][]*row
	previews *inform.Previews
	disabled map[string]bool

	// Active is the open tab, -1 when every panel is closed
	Active int
	Cursor int

	mode   mode
	input  textinput.Model
	choice int
	checks map[string]bool

	dialogTitle string
	dialog      string
	status      string
	statusErr   bool
	pending     int
	spinner     spinner.Model

	internalsHidden bool
	infoReading     string

	showHelp bool
	Width    int
	Height   int
	Help     help.Model
	Keys     keyMap
}

// New creates the panel for snapshot. state may be nil to disable persistence.
func New(ctx context.Context, engine *attrsync.Engine, source Source, state *config.PanelState, snapshot *Snapshot) Model {
	input := textinput.New()
	input.CharLimit = 256
	input.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cursorStyle

	m := Model{
		ctx:      ctx,
		engine:   engine,
		source:   source,
		state:    state,
		tabs:     DefaultTabs,
		Active:   -1,
		disabled: make(map[string]bool),
		input:    input,
		spinner:  sp,
		Help:     help.New(),
		Keys:     newKeyMap(),
		Width:    80,
		Height:   24,
	}
	m.setSnapshot(snapshot)

	if state != nil {
		m.internalsHidden = state.InternalsHidden()
		m.infoReading = state.LastInfo()
		if i := FindTab(m.tabs, state.ActivePanel()); i >= 0 {
			m.Active = i
		}
	}
	m.Cursor = m.firstRow()
	return m
}

// setSnapshot rebuilds rows and previews from snapshot
func (m *Model) setSnapshot(snapshot *Snapshot) {
	m.snapshot = snapshot
	m.rows = make(map[string][]*row)
	m.previews = inform.NewPreviews()
	if snapshot == nil {
		return
	}

	bindings := make(map[string]*attrsync.FieldBinding)
	for _, tab := range m.tabs {
		var rows []*row
		for _, dev := range snapshot.Sensors[tab.Type] {
			rows = append(rows, &row{kind: rowDevice, device: dev.Name})

			var dependent *attrsync.DependentField
			for _, spec := range tab.Fields {
				current, _ := dev.Attribute(spec.Name)
				r := &row{kind: rowField, device: dev.Name, spec: spec, value: current}

				if spec.Kind == KindText {
					id := dev.Name + "|" + spec.Name
					b, ok := bindings[id]
					if !ok {
						b = attrsync.NewFieldBinding(dev.Name, spec.Name, current, spec.Placeholder)
						m.initPreview(b, dev)
						bindings[id] = b
						m.previews.Add(b)
					}
					r.binding = b
					if b.Dependent != nil {
						dependent = b.Dependent
					}
				}
				if spec.Name == attrsync.FieldBatteryLowPercent {
					r.dependsOn = dependent
				}
				rows = append(rows, r)
			}
		}
		m.rows[tab.Type] = rows
	}
}

// initPreview shows the reading a binding points at from already loaded data
func (m *Model) initPreview(b *attrsync.FieldBinding, dev *fhem.DeviceInfo) {
	if b.Preview == nil {
		return
	}
	reading := b.PreviewReading(b.DisplayedValue())
	r, found := dev.Reading(reading)
	if found && reading != "" {
		b.Preview.Bind(r.Value, m.engine.SourceID(dev.Name, reading))
	} else {
		b.Preview.Bind(attrsync.PreviewSentinel, "")
	}
	if b.Dependent != nil {
		b.Dependent.SetVisible(found && attrsync.ShowsBatteryThreshold(r.Value))
	}
}

// Init initializes the panel
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commitDoneMsg:
		return m.handleCommitDone(msg)

	case controlDoneMsg:
		m.pending--
		if msg.err != nil {
			return m.showError(msg.err), nil
		}
		m.syncRows(msg.row.device, msg.row.spec.Name, msg.value)
		m.setStatus(fmt.Sprintf("%s saved on %s", msg.row.spec.Name, msg.row.device), false)
		return m, nil

	case deviceToggledMsg:
		m.pending--
		if msg.err != nil {
			return m.showError(msg.err), nil
		}
		m.disabled[msg.device] = msg.disabled
		state := "enabled"
		if msg.disabled {
			state = "disabled"
		}
		m.setStatus(fmt.Sprintf("%s %s", msg.device, state), false)
		return m, nil

	case reloadedMsg:
		m.pending--
		if msg.err != nil {
			return m.showError(msg.err), nil
		}
		m.setSnapshot(msg.snapshot)
		m.Cursor = m.clampCursor(m.Cursor)
		m.setStatus(msg.status, false)
		return m, nil

	case InformMsg:
		m.applyInform(msg.Event)
		return m, nil

	case InformClosedMsg:
		if msg.Err != nil {
			m.setStatus("live updates stopped: "+fhem.GetShortErrorMessage(msg.Err), true)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.dialog != "" {
			switch msg.String() {
			case "enter", "esc", " ":
				m.dialog, m.dialogTitle = "", ""
			}
			return m, nil
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		switch m.mode {
		case modeEdit:
			return m.updateEditor(msg)
		case modeAdd:
			return m.updateAddSensors(msg)
		case modeChoose:
			return m.updateChooser(msg)
		}
		return m.updateNormalMode(msg)
	}
	return m, nil
}

// updateNormalMode handles navigation when nothing is being edited
func (m Model) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		m.Cursor = m.moveCursor(-1)

	case key.Matches(msg, m.Keys.Down):
		m.Cursor = m.moveCursor(1)

	case key.Matches(msg, m.Keys.NextTab):
		m.selectTab(m.Active + 1)

	case key.Matches(msg, m.Keys.PrevTab):
		m.selectTab(m.Active - 1)

	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9':
		m.toggleTab(int(msg.Runes[0] - '1'))

	case key.Matches(msg, m.Keys.Enter):
		return m.activateRow()

	case key.Matches(msg, m.Keys.Delete):
		return m.deleteRow()

	case key.Matches(msg, m.Keys.Add):
		if m.Active < 0 {
			return m, nil
		}
		m.mode = modeAdd
		m.input.Placeholder = "comma separated list"
		m.input.SetValue("")
		m.input.Focus()

	case key.Matches(msg, m.Keys.Info):
		m.nextInfo()

	case key.Matches(msg, m.Keys.Internals):
		m.internalsHidden = !m.internalsHidden
		if m.state != nil {
			m.persist(m.state.SetInternalsHidden(m.internalsHidden))
		}

	case key.Matches(msg, m.Keys.Reload):
		m.pending++
		return m, reloadCmd(m.ctx, m.source, m.engine.HostDevice(), m.tabs, "reloaded")

	case key.Matches(msg, m.Keys.Help):
		m.showHelp = true
	}
	return m, nil
}

// updateEditor handles input while a text field is being edited
func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		r := m.currentRow()
		m.mode = modeNormal
		m.input.Blur()
		if r == nil || r.binding == nil {
			return m, nil
		}
		m.pending++
		return m, commitCmd(m.ctx, m.engine, r, m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateAddSensors handles input of the add sensors prompt
func (m Model) updateAddSensors(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		m.mode = modeNormal
		m.input.Blur()
		m.pending++
		return m, addSensorsCmd(m.ctx, m.engine, m.source, m.tabs, m.tabs[m.Active].Type, m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateChooser handles the checkbox group editor
func (m Model) updateChooser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.currentRow()
	if r == nil {
		m.mode = modeNormal
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.mode = modeNormal
	case "left", "h":
		if m.choice > 0 {
			m.choice--
		}
	case "right", "l":
		if m.choice < len(r.spec.Options)-1 {
			m.choice++
		}
	case " ", "x":
		opt := r.spec.Options[m.choice]
		m.checks[opt] = !m.checks[opt]
	case "enter":
		m.mode = modeNormal
		var checked []string
		for _, opt := range r.spec.Options {
			if m.checks[opt] {
				checked = append(checked, opt)
			}
		}
		m.pending++
		return m, checkboxCmd(m.ctx, m.engine, r, checked)
	}
	return m, nil
}

// activateRow edits or toggles the control under the cursor
func (m Model) activateRow() (tea.Model, tea.Cmd) {
	r := m.currentRow()
	if r == nil {
		return m, nil
	}

	if r.kind == rowDevice {
		m.pending++
		return m, deviceCmd(m.ctx, m.engine, r.device, !m.disabled[r.device])
	}

	switch r.spec.Kind {
	case KindText:
		m.mode = modeEdit
		m.input.Placeholder = r.spec.Placeholder
		m.input.SetValue(r.binding.DisplayedValue())
		m.input.CursorEnd()
		m.input.Focus()
		return m, textinput.Blink

	case KindToggle:
		m.pending++
		return m, toggleCmd(m.ctx, m.engine, r, r.value != "1")

	case KindDropdown:
		if len(r.spec.Options) == 0 {
			return m, nil
		}
		next := r.spec.Options[0]
		for i, opt := range r.spec.Options {
			if opt == r.value {
				next = r.spec.Options[(i+1)%len(r.spec.Options)]
				break
			}
		}
		m.pending++
		return m, dropdownCmd(m.ctx, m.engine, r, next)

	case KindCheckboxes:
		m.mode = modeChoose
		m.choice = 0
		m.checks = make(map[string]bool)
		for _, v := range splitAlternation(r.value) {
			m.checks[v] = true
		}
	}
	return m, nil
}

// deleteRow deletes the attribute under the cursor if it is set
func (m Model) deleteRow() (tea.Model, tea.Cmd) {
	r := m.currentRow()
	if r == nil || r.kind == rowDevice {
		return m, nil
	}
	m.pending++
	if r.binding != nil {
		return m, clearCmd(m.ctx, m.engine, r)
	}
	return m, deleteCmd(m.ctx, m.engine, r)
}

func (m Model) handleCommitDone(msg commitDoneMsg) (tea.Model, tea.Cmd) {
	m.pending--
	if msg.err != nil {
		return m.showError(msg.err), nil
	}
	b := msg.row.binding
	switch {
	case msg.result == nil:
		m.setStatus(fmt.Sprintf("%s cleared on %s", b.FieldName, b.DeviceName), false)
	case msg.result.Action == attrsync.ActionNone:
		m.setStatus("nothing to save", false)
	default:
		m.setStatus(fmt.Sprintf("%s %s on %s", b.FieldName, msg.result.Action, b.DeviceName), false)
	}
	m.Cursor = m.clampCursor(m.Cursor)
	return m, nil
}

// showError opens the blocking dialog for user-facing errors and puts
// transport errors in the status line
func (m Model) showError(err error) Model {
	var verr *attrsync.ValidationError
	var notSet *attrsync.NotSetError
	var unknown *attrsync.UnknownDeviceError
	switch {
	case errors.As(err, &verr), errors.As(err, &notSet), errors.As(err, &unknown),
		errors.Is(err, attrsync.ErrAllSensorsApplied):
		m.dialogTitle = "HOMEMODE"
		m.dialog = attrsync.DialogText(err)
	default:
		m.setStatus(fhem.GetShortErrorMessage(err), true)
		logging.Warn("Panel action failed", zap.Error(err))
	}
	return m
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) persist(err error) {
	if err != nil {
		logging.Warn("Failed to persist panel state", zap.Error(err))
	}
}

// syncRows sets the value of every row showing field of device
func (m *Model) syncRows(device, field, value string) {
	for _, rows := range m.rows {
		for _, r := range rows {
			if r.device == device && r.spec.Name == field && r.binding == nil {
				r.value = value
			}
		}
	}
}

// applyInform routes an update to the previews and the info box
func (m *Model) applyInform(ev inform.Event) {
	m.previews.Apply(ev)

	if m.snapshot == nil || m.snapshot.Host == nil {
		return
	}
	prefix := m.engine.HostDevice() + "-"
	if len(ev.ID) > len(prefix) && ev.ID[:len(prefix)] == prefix {
		name := ev.ID[len(prefix):]
		if _, ok := m.snapshot.Host.Readings[name]; ok {
			r := m.snapshot.Host.Readings[name]
			r.Value = ev.Value
			m.snapshot.Host.Readings[name] = r
		}
	}
}

// selectTab opens tab i (wrapping) and persists it
func (m *Model) selectTab(i int) {
	if len(m.tabs) == 0 {
		return
	}
	i = (i + len(m.tabs)) % len(m.tabs)
	m.Active = i
	m.Cursor = m.firstRow()
	if m.state != nil {
		m.persist(m.state.SetActivePanel(m.tabs[i].Type))
	}
}

// toggleTab opens tab i, or closes it if it is already open
func (m *Model) toggleTab(i int) {
	if i < 0 || i >= len(m.tabs) {
		return
	}
	if m.Active == i {
		m.Active = -1
		m.Cursor = 0
		if m.state != nil {
			m.persist(m.state.SetActivePanel(""))
		}
		return
	}
	m.selectTab(i)
}

// nextInfo shows the next host reading in the info box
func (m *Model) nextInfo() {
	if m.snapshot == nil {
		return
	}
	readings := m.snapshot.HostReadings()
	if len(readings) == 0 {
		return
	}
	next := readings[0]
	for i, r := range readings {
		if r == m.infoReading && i+1 < len(readings) {
			next = readings[i+1]
			break
		}
	}
	m.infoReading = next
	if m.state != nil {
		m.persist(m.state.SetLastInfo(next))
	}
}

func (m Model) activeRows() []*row {
	if m.Active < 0 || m.Active >= len(m.tabs) {
		return nil
	}
	return m.rows[m.tabs[m.Active].Type]
}

func (m Model) currentRow() *row {
	rows := m.activeRows()
	if m.Cursor < 0 || m.Cursor >= len(rows) || !rows[m.Cursor].visible() {
		return nil
	}
	return rows[m.Cursor]
}

func (m Model) firstRow() int {
	return m.clampCursor(0)
}

// clampCursor moves the cursor to the nearest visible row
func (m Model) clampCursor(c int) int {
	rows := m.activeRows()
	if len(rows) == 0 {
		return 0
	}
	if c >= len(rows) {
		c = len(rows) - 1
	}
	if c < 0 {
		c = 0
	}
	for i := c; i < len(rows); i++ {
		if rows[i].visible() {
			return i
		}
	}
	for i := c; i >= 0; i-- {
		if rows[i].visible() {
			return i
		}
	}
	return 0
}

// moveCursor steps over hidden rows, wrapping around
func (m Model) moveCursor(delta int) int {
	rows := m.activeRows()
	n := len(rows)
	if n == 0 {
		return 0
	}
	c := m.Cursor
	for i := 0; i < n; i++ {
		c = (c + delta + n) % n
		if rows[c].visible() {
			return c
		}
	}
	return m.Cursor
}

// Disabled reports whether device was disabled from the panel
func (m Model) Disabled(device string) bool {
	return m.disabled[device]
}

// Previews returns the preview router of the current snapshot
func (m Model) Previews() *inform.Previews {
	return m.previews
}
