package attrsync

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a value does not match its field's rule.
// No request has been sent when it is returned.
type ValidationError struct {
	Field   string
	Value   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for %s (%s)", e.Value, e.Field, e.Rule)
}

// NotSetError is returned by DeleteIfSet when the attribute has no value.
type NotSetError struct {
	Device  string
	Attr    string
	Message string
}

func (e *NotSetError) Error() string {
	return fmt.Sprintf("attribute %s of %s is not set", e.Attr, e.Device)
}

// UnknownDeviceError is returned by AddSensors for names that do not resolve
// to exactly one FHEM device.
type UnknownDeviceError struct {
	Name string
}

func (e *UnknownDeviceError) Error() string {
	return fmt.Sprintf("Device %s is not defined", e.Name)
}

// ErrAllSensorsApplied is returned by AddSensors when the sensor attribute
// already matches every device.
var ErrAllSensorsApplied = errors.New("No need to add more sensors because you already applied all device")

// IsValidationError checks if err is (or wraps) a *ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotSetError checks if err is (or wraps) a *NotSetError
func IsNotSetError(err error) bool {
	var v *NotSetError
	return errors.As(err, &v)
}

// DialogText returns the text a blocking dialog should show for err.
// Validation and not-set errors carry a localized message; everything else
// falls back to err.Error().
func DialogText(err error) string {
	var v *ValidationError
	if errors.As(err, &v) && v.Message != "" {
		return v.Message
	}
	var n *NotSetError
	if errors.As(err, &n) && n.Message != "" {
		return n.Message
	}
	return err.Error()
}
