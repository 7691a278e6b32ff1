package attrsync

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/deespe/fhem-HOMEMODE/internal/logging"
)

// Checkbox group, toggle and dropdown attributes of the panel
const (
	FieldModeAlarmActive               = "HomeModeAlarmActive"
	FieldOpenDontTriggerModes          = "HomeOpenDontTriggerModes"
	FieldOpenDontTriggerModesResidents = "HomeOpenDontTriggerModesResidents"
	FieldAllowNegativeEnergy           = "HomeAllowNegativeEnergy"
	FieldAllowNegativePower            = "HomeAllowNegativePower"
	FieldSensorLocation                = "HomeSensorLocation"
	FieldContactType                   = "HomeContactType"
)

// CheckboxGroups lists the attributes edited as a set of checkboxes
var CheckboxGroups = []string{
	FieldModeAlarmActive,
	FieldOpenDontTriggerModes,
	FieldOpenDontTriggerModesResidents,
}

// Toggles lists the attributes edited as an on/off switch
var Toggles = []string{
	FieldAllowNegativeEnergy,
	FieldAllowNegativePower,
}

// DropdownOptions lists the accepted choices per dropdown attribute
var DropdownOptions = map[string][]string{
	FieldSensorLocation: {"inside", "outside"},
	FieldContactType:    {"doorinside", "dooroutside", "doormain", "window"},
}

// SetCheckboxGroup stores the checked values of a checkbox group joined by "|".
// With nothing checked the attribute is deleted. It returns the stored value.
func (e *Engine) SetCheckboxGroup(ctx context.Context, device, field string, checked []string) (string, error) {
	values := make([]string, 0, len(checked))
	for _, v := range checked {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	if len(values) == 0 {
		if err := e.backend.DeleteAttr(ctx, device, field); err != nil {
			return "", fmt.Errorf("delete %s of %s: %w", field, device, err)
		}
		logging.LogCommit(device, field, ActionDelete.String(), "", nil)
		return "", nil
	}

	value := strings.Join(values, "|")
	if err := e.backend.SetAttr(ctx, device, field, value); err != nil {
		return "", fmt.Errorf("set %s of %s: %w", field, device, err)
	}
	logging.LogCommit(device, field, ActionSet.String(), value, nil)
	return value, nil
}

// SetToggle sets a flag attribute to 1, or deletes it when switched off
func (e *Engine) SetToggle(ctx context.Context, device, field string, on bool) error {
	if !on {
		if err := e.backend.DeleteAttr(ctx, device, field); err != nil {
			return fmt.Errorf("delete %s of %s: %w", field, device, err)
		}
		logging.LogCommit(device, field, ActionDelete.String(), "", nil)
		return nil
	}
	if err := e.backend.SetAttr(ctx, device, field, "1"); err != nil {
		return fmt.Errorf("set %s of %s: %w", field, device, err)
	}
	logging.LogCommit(device, field, ActionSet.String(), "1", nil)
	return nil
}

// SelectOption sets a dropdown attribute. Choices of known dropdowns are
// checked against DropdownOptions.
func (e *Engine) SelectOption(ctx context.Context, device, field, choice string) error {
	if options, ok := DropdownOptions[field]; ok && !contains(options, choice) {
		return &ValidationError{
			Field:   field,
			Value:   choice,
			Rule:    "option",
			Message: fmt.Sprintf("%s must be one of: %s", field, strings.Join(options, ", ")),
		}
	}
	if err := e.backend.SetAttr(ctx, device, field, choice); err != nil {
		return fmt.Errorf("set %s of %s: %w", field, device, err)
	}
	logging.LogCommit(device, field, ActionSet.String(), choice, nil)
	return nil
}

// SetDeviceDisabled disables or re-enables a sensor device in the HOMEMODE host.
func (e *Engine) SetDeviceDisabled(ctx context.Context, device string, disabled bool) error {
	action := "deviceEnable"
	if disabled {
		action = "deviceDisable"
	}
	if err := e.backend.Set(ctx, e.host, action, device); err != nil {
		return fmt.Errorf("%s %s: %w", action, device, err)
	}
	logging.LogCommit(device, "HomeActive", action, "", nil)
	return nil
}

// DeleteIfSet deletes attr of device only if it is currently set.
// An unset attribute yields a *NotSetError and no deleteattr is sent.
func (e *Engine) DeleteIfSet(ctx context.Context, device, attr string) error {
	_, ok, err := e.backend.Attribute(ctx, device, attr)
	if err != nil {
		return fmt.Errorf("query %s of %s: %w", attr, device, err)
	}
	if !ok {
		return &NotSetError{
			Device:  device,
			Attr:    attr,
			Message: Message(e.lang, MsgAttrNotSet),
		}
	}
	if err := e.backend.DeleteAttr(ctx, device, attr); err != nil {
		return fmt.Errorf("delete %s of %s: %w", attr, device, err)
	}
	logging.LogCommit(device, attr, ActionDelete.String(), "", nil)
	return nil
}

// DropdownFields returns the dropdown attribute names in sorted order
func DropdownFields() []string {
	fields := make([]string, 0, len(DropdownOptions))
	for f := range DropdownOptions {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Clear deletes the attribute behind a text binding if it is set and resets
// the field. The preview falls back to the placeholder reading.
func (e *Engine) Clear(ctx context.Context, b *FieldBinding) error {
	b.commitMu.Lock()
	defer b.commitMu.Unlock()

	if err := e.DeleteIfSet(ctx, b.DeviceName, b.FieldName); err != nil {
		return err
	}
	b.setPreviousValue("")
	b.SetDisplayedValue("")
	return e.RefreshPreview(ctx, b)
}
