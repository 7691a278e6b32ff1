package panel

import "github.com/deespe/fhem-HOMEMODE/internal/attrsync"

// FieldKind selects the control used for an attribute
type FieldKind int

const (
	KindText FieldKind = iota
	KindToggle
	KindDropdown
	KindCheckboxes
)

// FieldSpec describes one attribute control of a sensor
type FieldSpec struct {
	Name        string
	Placeholder string
	Kind        FieldKind
	Options     []string
}

// Tab is one sensor type panel
type Tab struct {
	// Type is the suffix of the host's HomeSensors<Type> attribute
	Type   string
	Fields []FieldSpec
}

// Attr returns the host attribute listing the sensors of the tab
func (t Tab) Attr() string {
	return attrsync.SensorAttr(t.Type)
}

var (
	alarmModes    = []string{"armaway", "armhome", "armnight"}
	presenceModes = []string{"absent", "asleep", "awoken", "gone", "gotosleep", "home"}
)

func text(name, placeholder string) FieldSpec {
	return FieldSpec{Name: name, Placeholder: placeholder, Kind: KindText}
}

func toggle(name string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindToggle}
}

func dropdown(name string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindDropdown, Options: attrsync.DropdownOptions[name]}
}

func checkboxes(name string, options []string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindCheckboxes, Options: options}
}

// DefaultTabs are the sensor panels of a HOMEMODE device with the readings
// HOMEMODE falls back to when an attribute is not set.
var DefaultTabs = []Tab{
	{Type: "Contact", Fields: []FieldSpec{
		text("HomeReadingContact", "state"),
		text("HomeValueContact", "open|tilted|on"),
		dropdown(attrsync.FieldContactType),
		dropdown(attrsync.FieldSensorLocation),
		text(attrsync.FieldOpenMaxTrigger, ""),
		text(attrsync.FieldOpenTimes, ""),
		text(attrsync.FieldOpenTimeDividers, ""),
		checkboxes(attrsync.FieldModeAlarmActive, alarmModes),
		checkboxes(attrsync.FieldOpenDontTriggerModes, presenceModes),
		checkboxes(attrsync.FieldOpenDontTriggerModesResidents, presenceModes),
	}},
	{Type: "Motion", Fields: []FieldSpec{
		text("HomeReadingMotion", "motion"),
		text("HomeValueMotion", "on|motion|open"),
		dropdown(attrsync.FieldSensorLocation),
		checkboxes(attrsync.FieldModeAlarmActive, alarmModes),
	}},
	{Type: "Battery", Fields: []FieldSpec{
		text(attrsync.FieldReadingBattery, "battery"),
		text(attrsync.FieldBatteryLowPercent, ""),
	}},
	{Type: "Energy", Fields: []FieldSpec{
		text("HomeReadingEnergy", "energy"),
		text("HomeDividerEnergy", ""),
		toggle(attrsync.FieldAllowNegativeEnergy),
	}},
	{Type: "Power", Fields: []FieldSpec{
		text("HomeReadingPower", "power"),
		text("HomeDividerPower", ""),
		toggle(attrsync.FieldAllowNegativePower),
	}},
	{Type: "Luminance", Fields: []FieldSpec{
		text("HomeReadingLuminance", "luminance"),
		text("HomeDividerLuminance", ""),
	}},
	{Type: "Smoke", Fields: []FieldSpec{
		text("HomeReadingSmoke", "smoke"),
		text("HomeValueSmoke", "on"),
	}},
	{Type: "Tamper", Fields: []FieldSpec{
		text("HomeReadingTamper", "tamper"),
		text("HomeValueTamper", "on|open"),
	}},
	{Type: "Water", Fields: []FieldSpec{
		text("HomeReadingWater", "water"),
		text("HomeValueWater", "on"),
	}},
}

// FindTab returns the index of the tab with the given type, or -1
func FindTab(tabs []Tab, sensorType string) int {
	for i, t := range tabs {
		if t.Type == sensorType {
			return i
		}
	}
	return -1
}

// PlaceholderFor returns the placeholder of field in tabs, or "" if no tab shows it
func PlaceholderFor(tabs []Tab, field string) string {
	for _, t := range tabs {
		for _, f := range t.Fields {
			if f.Name == field {
				return f.Placeholder
			}
		}
	}
	return ""
}
