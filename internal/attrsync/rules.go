package attrsync

import (
	"regexp"
	"strconv"
	"strings"
)

// Field names with special handling
const (
	FieldAlarmDelay        = "HomeAlarmDelay"
	FieldOpenMaxTrigger    = "HomeOpenMaxTrigger"
	FieldOpenTimes         = "HomeOpenTimes"
	FieldOpenTimeDividers  = "HomeOpenTimeDividers"
	FieldBatteryLowPercent = "HomeBatteryLowPercentage"
	FieldReadingBattery    = "HomeReadingBattery"

	readingPrefix = "HomeReading"
	valuePrefix   = "HomeValue"

	minBatteryLowPercent = 5
)

// Rule validates the values of one or more attribute fields
type Rule struct {
	// Name is a short identifier used in logs and errors
	Name string

	// Pattern must match the whole value
	Pattern *regexp.Regexp

	// MessageKey is shown when the value is rejected
	MessageKey MessageKey

	// Check is an optional extra constraint applied after Pattern matched
	Check func(value string) bool
}

// Valid reports whether value satisfies the rule
func (r *Rule) Valid(value string) bool {
	if r == nil {
		return true
	}
	if !r.Pattern.MatchString(value) {
		return false
	}
	if r.Check != nil && !r.Check(value) {
		return false
	}
	return true
}

var (
	ruleAlarmDelay = &Rule{
		Name:       "alarm-delay",
		Pattern:    regexp.MustCompile(`^\d{1,3}((\s\d{1,3}){2})?$`),
		MessageKey: MsgAlarmDelay,
	}
	ruleOpenMaxTrigger = &Rule{
		Name:       "open-max-trigger",
		Pattern:    regexp.MustCompile(`^\d{1,2}$`),
		MessageKey: MsgOpenMaxTrigger,
	}
	ruleOpenTimes = &Rule{
		Name:       "open-times",
		Pattern:    regexp.MustCompile(`^\d{1,4}(\.\d)?(\s\d{1,4}(\.\d)?)*$`),
		MessageKey: MsgOpenTimes,
	}
	ruleOpenTimeDividers = &Rule{
		Name:       "open-time-dividers",
		Pattern:    regexp.MustCompile(`^\d{1,2}(\.\d{1,3})?(\s\d{1,2}(\.\d{1,3})?)*$`),
		MessageKey: MsgOpenTimeDividers,
	}
	ruleReading = &Rule{
		Name:       "reading-name",
		Pattern:    regexp.MustCompile(`^[\w\-.]+$`),
		MessageKey: MsgSingleWord,
	}
	ruleValue = &Rule{
		Name:       "value-alternation",
		Pattern:    regexp.MustCompile(`^\w+(\|\w+)*$`),
		MessageKey: MsgValueRegex,
	}
	// RE2 has no lookahead, so "not zero" is a leading non-zero digit
	ruleDivider = &Rule{
		Name:       "divider",
		Pattern:    regexp.MustCompile(`^[1-9]\d*(\.\d+)?$`),
		MessageKey: MsgDivider,
	}
	ruleBatteryLow = &Rule{
		Name:       "battery-low-percentage",
		Pattern:    regexp.MustCompile(`^[1-9]?\d$`),
		MessageKey: MsgBatteryLow,
		Check: func(value string) bool {
			n, err := strconv.Atoi(value)
			return err == nil && n >= minBatteryLowPercent
		},
	}

	dividerFields = map[string]bool{
		"HomeDividerEnergy":    true,
		"HomeDividerPower":     true,
		"HomeDividerLuminance": true,
	}

	batteryPercentPrefix = regexp.MustCompile(`^\d{1,3}`)
)

// RuleFor returns the validation rule for field, or nil if the field accepts any value.
func RuleFor(field string) *Rule {
	switch {
	case field == FieldAlarmDelay:
		return ruleAlarmDelay
	case field == FieldOpenMaxTrigger:
		return ruleOpenMaxTrigger
	case field == FieldOpenTimes:
		return ruleOpenTimes
	case field == FieldOpenTimeDividers:
		return ruleOpenTimeDividers
	case field == FieldBatteryLowPercent:
		return ruleBatteryLow
	case dividerFields[field]:
		return ruleDivider
	case strings.HasPrefix(field, readingPrefix):
		return ruleReading
	case strings.HasPrefix(field, valuePrefix):
		return ruleValue
	}
	return nil
}

// Rules lists every field pattern with its rule, in lookup order
func Rules() []struct {
	Field string
	Rule  *Rule
} {
	return []struct {
		Field string
		Rule  *Rule
	}{
		{FieldAlarmDelay, ruleAlarmDelay},
		{FieldOpenMaxTrigger, ruleOpenMaxTrigger},
		{FieldOpenTimes, ruleOpenTimes},
		{FieldOpenTimeDividers, ruleOpenTimeDividers},
		{FieldBatteryLowPercent, ruleBatteryLow},
		{"HomeDividerEnergy|Power|Luminance", ruleDivider},
		{readingPrefix + "*", ruleReading},
		{valuePrefix + "*", ruleValue},
	}
}

// IsReadingField reports whether field names a reading of its device.
// Reading fields get a live preview of the named reading.
func IsReadingField(field string) bool {
	return strings.HasPrefix(field, readingPrefix)
}

// NormalizeValue applies per-field value rewriting before validation.
// Battery thresholds with leading zeros are reduced to their integer
// value ("05" becomes "5"); trailing non-digits are dropped with them.
func NormalizeValue(field, value string) string {
	if field != FieldBatteryLowPercent || !strings.HasPrefix(value, "0") {
		return value
	}
	end := 0
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return value
	}
	return strconv.Itoa(n)
}

// ShowsBatteryThreshold reports whether a battery reading value looks like a
// percentage, which makes the threshold field relevant.
func ShowsBatteryThreshold(readingValue string) bool {
	return batteryPercentPrefix.MatchString(readingValue)
}
