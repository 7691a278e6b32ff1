package fhem

import "testing"

func TestParseJSONList2(t *testing.T) {
	body := `{
  "Arg":"jsonlist2 room.sensor",
  "Results": [
  {
    "Name":"room.sensor",
    "Internals": { "NAME": "room.sensor" },
    "Readings": {
      "battery": { "Value":"low", "Time":"2022-12-07 21:19:57" },
      "temperature.max": { "Value":"23.5", "Time":"2022-12-07 21:19:57" }
    },
    "Attributes": { "room": "Bath", "HomeValueContact": "open|tilted" }
  }  ],
  "totalResultsReturned":1
}`

	q, err := ParseJSONList2([]byte(body))
	if err != nil {
		t.Fatalf("ParseJSONList2() error = %v", err)
	}
	if q.TotalResults != 1 || len(q.Devices) != 1 {
		t.Fatalf("TotalResults = %d, devices = %d", q.TotalResults, len(q.Devices))
	}

	dev := q.First()
	if dev.Name != "room.sensor" {
		t.Errorf("Name = %s", dev.Name)
	}
	if r, ok := dev.Reading("temperature.max"); !ok || r.Value != "23.5" {
		t.Errorf("Reading(temperature.max) = %+v, %v", r, ok)
	}
	if v, ok := dev.Attribute("HomeValueContact"); !ok || v != "open|tilted" {
		t.Errorf("Attribute(HomeValueContact) = %q, %v", v, ok)
	}
	if _, ok := dev.Attribute("HomeAlarmDelay"); ok {
		t.Error("HomeAlarmDelay should not be set")
	}
}

func TestParseJSONList2_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not json", "Unknown command jsonlist3"},
		{"no results", `{"Arg":"x"}`},
		{"results not array", `{"Results":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSONList2([]byte(tt.body)); err == nil {
				t.Errorf("ParseJSONList2(%q) should fail", tt.body)
			}
		})
	}
}

func TestParseJSONList2_MissingTotal(t *testing.T) {
	q, err := ParseJSONList2([]byte(`{"Results":[{"Name":"a"},{"Name":"b"}]}`))
	if err != nil {
		t.Fatalf("ParseJSONList2() error = %v", err)
	}
	if q.TotalResults != 2 {
		t.Errorf("TotalResults = %d, want 2", q.TotalResults)
	}
}

func TestDeviceInfo_NilSafe(t *testing.T) {
	var q *QueryResult
	dev := q.First()
	if dev != nil {
		t.Fatal("First() on nil result should be nil")
	}
	if _, ok := dev.Reading("battery"); ok {
		t.Error("Reading on nil device should not exist")
	}
	if _, ok := dev.Attribute("room"); ok {
		t.Error("Attribute on nil device should not exist")
	}
}
