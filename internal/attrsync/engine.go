package attrsync

import (
	"context"
	"fmt"

	"github.com/deespe/fhem-HOMEMODE/internal/logging"
)

// Backend is the part of the FHEMWEB client the engine needs.
// *fhem.Client satisfies it.
type Backend interface {
	SetAttr(ctx context.Context, device, name, value string) error
	DeleteAttr(ctx context.Context, device, name string) error
	Set(ctx context.Context, device string, args ...string) error
	Reading(ctx context.Context, device, reading string) (string, bool, error)
	Attribute(ctx context.Context, device, attr string) (string, bool, error)
	DeviceCount(ctx context.Context, devspec string) (int, error)
}

// Action is what a commit sent to FHEM
type Action int

const (
	// ActionNone means nothing had to be sent
	ActionNone Action = iota
	// ActionSet means an attr command was sent
	ActionSet
	// ActionDelete means a deleteattr command was sent
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionSet:
		return "set"
	case ActionDelete:
		return "delete"
	default:
		return "none"
	}
}

// CommitResult describes a successful commit
type CommitResult struct {
	Action Action

	// Value is the field's displayed value after the commit
	Value string

	// PreviewText and PreviewSourceID mirror the refreshed preview, if any
	PreviewText     string
	PreviewSourceID string

	// ThresholdVisible is the battery threshold visibility after the commit.
	// Only meaningful for the battery reading field.
	ThresholdVisible bool
}

// Engine commits edited attribute fields to a HOMEMODE device's sensors
type Engine struct {
	backend Backend
	host    string
	lang    Language
}

// NewEngine creates an engine for the HOMEMODE device hostDevice
func NewEngine(backend Backend, hostDevice string, lang Language) *Engine {
	return &Engine{
		backend: backend,
		host:    hostDevice,
		lang:    lang,
	}
}

// HostDevice returns the name of the HOMEMODE device
func (e *Engine) HostDevice() string {
	return e.host
}

// Language returns the message language
func (e *Engine) Language() Language {
	return e.lang
}

// SourceID returns the FHEMWEB informid of a reading as seen by the host device
func (e *Engine) SourceID(device, reading string) string {
	return e.host + "-" + device + "." + reading
}

// Commit validates newValue and synchronizes it with FHEM.
//
// A non-empty value other than the placeholder is validated and set. An empty
// value deletes a previously set attribute, as does entering the placeholder.
// Reading fields then refresh their preview. Commits of the same binding are
// serialized; PreviousValue only changes after FHEM accepted the command.
func (e *Engine) Commit(ctx context.Context, b *FieldBinding, newValue string) (*CommitResult, error) {
	b.commitMu.Lock()
	defer b.commitMu.Unlock()

	value := NormalizeValue(b.FieldName, newValue)

	placeholder := b.PlaceholderValue
	isPlaceholder := placeholder != "" && value == placeholder
	result := &CommitResult{Value: value}

	switch {
	case value != "" && !isPlaceholder:
		if rule := b.Rule(); !rule.Valid(value) {
			err := &ValidationError{
				Field:   b.FieldName,
				Value:   value,
				Rule:    rule.Name,
				Message: Message(e.lang, rule.MessageKey),
			}
			logging.LogCommit(b.DeviceName, b.FieldName, "reject", value, err)
			return nil, err
		}
		b.SetDisplayedValue(value)
		if err := e.backend.SetAttr(ctx, b.DeviceName, b.FieldName, value); err != nil {
			logging.LogCommit(b.DeviceName, b.FieldName, ActionSet.String(), value, err)
			return nil, fmt.Errorf("set %s of %s: %w", b.FieldName, b.DeviceName, err)
		}
		b.setPreviousValue(value)
		result.Action = ActionSet

	case (b.PreviousValue() != "" && value == "") || isPlaceholder:
		b.SetDisplayedValue(value)
		if err := e.backend.DeleteAttr(ctx, b.DeviceName, b.FieldName); err != nil {
			logging.LogCommit(b.DeviceName, b.FieldName, ActionDelete.String(), value, err)
			return nil, fmt.Errorf("delete %s of %s: %w", b.FieldName, b.DeviceName, err)
		}
		b.setPreviousValue("")
		if isPlaceholder {
			b.SetDisplayedValue("")
			result.Value = ""
		}
		result.Action = ActionDelete

	default:
		b.SetDisplayedValue(value)
	}

	logging.LogCommit(b.DeviceName, b.FieldName, result.Action.String(), value, nil)

	if b.Preview != nil {
		if err := e.RefreshPreview(ctx, b); err != nil {
			return result, err
		}
		result.PreviewText = b.Preview.Text()
		result.PreviewSourceID = b.Preview.SourceID()
	}
	if b.Dependent != nil {
		result.ThresholdVisible = b.Dependent.Visible()
	}

	return result, nil
}

// RefreshPreview queries the reading named by the binding's displayed value
// (or its placeholder) and updates the preview and the dependent field.
// A missing reading shows the sentinel and unbinds the preview.
func (e *Engine) RefreshPreview(ctx context.Context, b *FieldBinding) error {
	if b.Preview == nil {
		return nil
	}

	reading := b.PreviewReading(b.DisplayedValue())
	value, found := "", false
	if reading != "" {
		var err error
		value, found, err = e.backend.Reading(ctx, b.DeviceName, reading)
		if err != nil {
			return fmt.Errorf("refresh preview of %s: %w", b.FieldName, err)
		}
	}

	if found {
		b.Preview.Bind(value, e.SourceID(b.DeviceName, reading))
	} else {
		b.Preview.Bind(PreviewSentinel, "")
	}
	logging.LogPreview(e.SourceID(b.DeviceName, reading), b.Preview.Text(), found)

	if b.Dependent != nil {
		b.Dependent.SetVisible(found && ShowsBatteryThreshold(value))
	}
	return nil
}
