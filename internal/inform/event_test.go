package inform

import (
	"reflect"
	"testing"
)

func TestParseMessage(t *testing.T) {
	data := []byte(`["homeMode-door.sensor.battery","80","<div>80</div>"]
["door.sensor","open"]

not json
["door.sensor-state","closed","closed"]
`)

	events, err := ParseMessage(data)
	if err == nil {
		t.Error("expected error for the malformed line")
	}

	want := []Event{
		{ID: "homeMode-door.sensor.battery", Value: "80", HTML: "<div>80</div>"},
		{ID: "door.sensor", Value: "open"},
		{ID: "door.sensor-state", Value: "closed", HTML: "closed"},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestParseMessage_Malformed(t *testing.T) {
	tests := []string{
		`{"id":"x"}`,
		`["only-id"]`,
		`["","value"]`,
	}
	for _, in := range tests {
		events, err := ParseMessage([]byte(in))
		if err == nil || len(events) != 0 {
			t.Errorf("ParseMessage(%s) = %v, %v; want no events and an error", in, events, err)
		}
	}
}

func TestParseMessage_Empty(t *testing.T) {
	events, err := ParseMessage([]byte("\n\n"))
	if err != nil || len(events) != 0 {
		t.Errorf("ParseMessage(empty) = %v, %v", events, err)
	}
}
