package attrsync

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/deespe/fhem-HOMEMODE/internal/logging"
)

const sensorsAttrPrefix = "HomeSensors"

var (
	sensorNamesPattern = regexp.MustCompile(`(?i)^[a-z0-9._]+(,[a-z0-9._]+)*$`)
	allSensorsPattern  = regexp.MustCompile(`^\.[*+]$`)
)

// SensorAttr returns the host attribute holding the devspec of a sensor type
// ("Contact" becomes "HomeSensorsContact").
func SensorAttr(sensorType string) string {
	if strings.HasPrefix(sensorType, sensorsAttrPrefix) {
		return sensorType
	}
	return sensorsAttrPrefix + sensorType
}

// AddSensors appends comma separated device names to the host's sensor
// devspec for sensorType. Every name must resolve to exactly one device.
// Names already listed are skipped. It returns the new attribute value.
func (e *Engine) AddSensors(ctx context.Context, sensorType, names string) (string, error) {
	attr := SensorAttr(sensorType)
	names = strings.TrimSpace(names)

	if !sensorNamesPattern.MatchString(names) {
		return "", &ValidationError{
			Field:   attr,
			Value:   names,
			Rule:    "device-names",
			Message: Message(e.lang, MsgIllegalNames),
		}
	}

	current, _, err := e.backend.Attribute(ctx, e.host, attr)
	if err != nil {
		return "", fmt.Errorf("query %s of %s: %w", attr, e.host, err)
	}
	if allSensorsPattern.MatchString(current) {
		return "", ErrAllSensorsApplied
	}

	existing := make(map[string]bool)
	for _, n := range strings.Split(current, ",") {
		if n != "" {
			existing[n] = true
		}
	}

	var added []string
	for _, name := range strings.Split(names, ",") {
		n, err := e.backend.DeviceCount(ctx, name)
		if err != nil {
			return "", fmt.Errorf("look up device %s: %w", name, err)
		}
		if n != 1 {
			return "", &UnknownDeviceError{Name: name}
		}
		if !existing[name] {
			existing[name] = true
			added = append(added, name)
		}
	}

	if len(added) == 0 {
		return current, nil
	}

	value := strings.Join(added, ",")
	if current != "" {
		value = current + "," + value
	}
	if err := e.backend.SetAttr(ctx, e.host, attr, value); err != nil {
		return "", fmt.Errorf("set %s of %s: %w", attr, e.host, err)
	}
	logging.LogCommit(e.host, attr, ActionSet.String(), value, nil)
	return value, nil
}
