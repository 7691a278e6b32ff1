package fhem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const mockJSONList2 = `{
  "Arg":"jsonlist2 door.sensor battery",
  "Results": [
  {
    "Name":"door.sensor",
    "PossibleSets":"",
    "PossibleAttrs":"",
    "Internals": { "NAME": "door.sensor", "TYPE": "HUEDevice" },
    "Readings": { "battery": { "Value":"87", "Time":"2022-12-07 21:19:57" } },
    "Attributes": { "HomeReadingBattery": "battery" }
  }  ],
  "totalResultsReturned":1
}`

// fakeFHEM records the commands it receives and answers like FHEMWEB
type fakeFHEM struct {
	mu       sync.Mutex
	token    string
	commands []string
	methods  []string
	reply    func(cmd string) (int, string)
}

func (f *fakeFHEM) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fhem" {
			t.Errorf("path = %s, want /fhem", r.URL.Path)
		}
		f.mu.Lock()
		token := f.token
		f.mu.Unlock()
		w.Header().Set(CSRFHeader, token)

		cmd := r.URL.Query().Get("cmd")
		if cmd == "" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if token != "" && r.URL.Query().Get("fwcsrf") != token {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.commands = append(f.commands, cmd)
		f.methods = append(f.methods, r.Method)
		f.mu.Unlock()

		status, body := http.StatusOK, ""
		if f.reply != nil {
			status, body = f.reply(cmd)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newFakeServer(t *testing.T, f *fakeFHEM) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)
	return server, NewClientWithURL(server.URL + "/fhem")
}

func TestNewClient(t *testing.T) {
	client := NewClient("192.168.1.10", DefaultPort)

	if client.BaseURL != "http://192.168.1.10:8083" {
		t.Errorf("BaseURL = %s, want http://192.168.1.10:8083", client.BaseURL)
	}
	if client.WebName != DefaultWebName {
		t.Errorf("WebName = %s, want %s", client.WebName, DefaultWebName)
	}
	if client.HTTPClient == nil {
		t.Error("HTTPClient should not be nil")
	}
}

func TestNewClientWithURL_SplitsWebName(t *testing.T) {
	tests := []struct {
		in       string
		wantBase string
		wantWeb  string
	}{
		{"http://fhem.local:8083", "http://fhem.local:8083", "fhem"},
		{"http://fhem.local:8083/", "http://fhem.local:8083", "fhem"},
		{"http://fhem.local:8083/fhem", "http://fhem.local:8083", "fhem"},
		{"https://fhem.local:8084/tablet/", "https://fhem.local:8084", "tablet"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := NewClientWithURL(tt.in)
			if c.BaseURL != tt.wantBase {
				t.Errorf("BaseURL = %s, want %s", c.BaseURL, tt.wantBase)
			}
			if c.WebName != tt.wantWeb {
				t.Errorf("WebName = %s, want %s", c.WebName, tt.wantWeb)
			}
		})
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("192.168.1.10", DefaultPort)
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestSetAttr_SendsCommandWithCSRF(t *testing.T) {
	f := &fakeFHEM{token: "csrf_123"}
	_, client := newFakeServer(t, f)

	if err := client.SetAttr(context.Background(), "door.sensor", "HomeAlarmDelay", "30 45 60"); err != nil {
		t.Fatalf("SetAttr() error = %v", err)
	}

	if len(f.commands) != 1 {
		t.Fatalf("commands = %v, want 1", f.commands)
	}
	if f.commands[0] != "attr door.sensor HomeAlarmDelay 30 45 60" {
		t.Errorf("command = %q", f.commands[0])
	}
	if f.methods[0] != http.MethodPost {
		t.Errorf("method = %s, want POST", f.methods[0])
	}
}

func TestDeleteAttr(t *testing.T) {
	f := &fakeFHEM{}
	_, client := newFakeServer(t, f)

	if err := client.DeleteAttr(context.Background(), "door.sensor", "HomeAlarmDelay"); err != nil {
		t.Fatalf("DeleteAttr() error = %v", err)
	}
	if f.commands[0] != "deleteattr door.sensor HomeAlarmDelay" {
		t.Errorf("command = %q", f.commands[0])
	}
}

func TestSet(t *testing.T) {
	f := &fakeFHEM{}
	_, client := newFakeServer(t, f)

	if err := client.Set(context.Background(), "homeMode", "deviceDisable", "door.sensor"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if f.commands[0] != "set homeMode deviceDisable door.sensor" {
		t.Errorf("command = %q", f.commands[0])
	}
}

func TestExec_OutputIsCommandError(t *testing.T) {
	f := &fakeFHEM{reply: func(cmd string) (int, string) {
		return http.StatusOK, "Please define nosuch first\n"
	}}
	_, client := newFakeServer(t, f)

	err := client.SetAttr(context.Background(), "nosuch", "room", "x")
	if !IsCommandError(err) {
		t.Fatalf("error = %v, want command error", err)
	}
	if !strings.Contains(err.Error(), "Please define nosuch first") {
		t.Errorf("error = %v, should carry FHEM output", err)
	}
}

func TestCommand_ReloadsStaleCSRF(t *testing.T) {
	f := &fakeFHEM{token: "old"}
	_, client := newFakeServer(t, f)

	if _, err := client.CSRFToken(context.Background()); err != nil {
		t.Fatalf("CSRFToken() error = %v", err)
	}

	// FHEM restarted with a new token
	f.mu.Lock()
	f.token = "new"
	f.mu.Unlock()

	if err := client.SetAttr(context.Background(), "dev", "room", "x"); err != nil {
		t.Fatalf("SetAttr() error = %v", err)
	}
	if len(f.commands) != 1 {
		t.Errorf("commands = %v, want exactly one accepted command", f.commands)
	}
}

func TestCommand_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	err := client.SetAttr(context.Background(), "dev", "room", "x")
	if !IsAuthError(err) {
		t.Errorf("error = %v, want auth error", err)
	}

	client.SetAuth("admin", "secret")
	if err := client.SetAttr(context.Background(), "dev", "room", "x"); err != nil {
		t.Errorf("with auth: error = %v", err)
	}
}

func TestCommand_HTTPError(t *testing.T) {
	f := &fakeFHEM{reply: func(cmd string) (int, string) {
		return http.StatusInternalServerError, "boom"
	}}
	_, client := newFakeServer(t, f)

	err := client.DeleteAttr(context.Background(), "dev", "room")
	if !IsHTTPError(err) {
		t.Errorf("error = %v, want HTTP error", err)
	}
}

func TestCommand_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClientWithURL(url)
	client.SetTimeout(500 * time.Millisecond)

	err := client.Ping(context.Background())
	if !IsNetworkError(err) {
		t.Errorf("error = %v, want network error", err)
	}
}

func TestReading(t *testing.T) {
	f := &fakeFHEM{reply: func(cmd string) (int, string) {
		return http.StatusOK, mockJSONList2
	}}
	_, client := newFakeServer(t, f)

	value, ok, err := client.Reading(context.Background(), "door.sensor", "battery")
	if err != nil {
		t.Fatalf("Reading() error = %v", err)
	}
	if !ok || value != "87" {
		t.Errorf("Reading() = %q, %v; want 87, true", value, ok)
	}
	if f.commands[0] != "jsonlist2 door.sensor battery" {
		t.Errorf("command = %q", f.commands[0])
	}
	if f.methods[0] != http.MethodGet {
		t.Errorf("method = %s, want GET", f.methods[0])
	}

	_, ok, err = client.Reading(context.Background(), "door.sensor", "humidity")
	if err != nil {
		t.Fatalf("Reading() error = %v", err)
	}
	if ok {
		t.Error("Reading(humidity) should not exist")
	}
}

func TestAttribute(t *testing.T) {
	f := &fakeFHEM{reply: func(cmd string) (int, string) {
		return http.StatusOK, mockJSONList2
	}}
	_, client := newFakeServer(t, f)

	value, ok, err := client.Attribute(context.Background(), "door.sensor", "HomeReadingBattery")
	if err != nil || !ok || value != "battery" {
		t.Errorf("Attribute() = %q, %v, %v", value, ok, err)
	}

	_, ok, _ = client.Attribute(context.Background(), "door.sensor", "HomeAlarmDelay")
	if ok {
		t.Error("HomeAlarmDelay should not be set")
	}
}

func TestJSONList2_ParseError(t *testing.T) {
	f := &fakeFHEM{reply: func(cmd string) (int, string) {
		return http.StatusOK, "<html>not json</html>"
	}}
	_, client := newFakeServer(t, f)

	_, err := client.JSONList2(context.Background(), "dev")
	if !IsParseError(err) {
		t.Errorf("error = %v, want parse error", err)
	}
}

func TestDeviceCount(t *testing.T) {
	f := &fakeFHEM{reply: func(cmd string) (int, string) {
		if strings.Contains(cmd, "ghost") {
			return http.StatusOK, `{"Arg":"jsonlist2 ghost NAME","Results":[],"totalResultsReturned":0}`
		}
		return http.StatusOK, mockJSONList2
	}}
	_, client := newFakeServer(t, f)

	n, err := client.DeviceCount(context.Background(), "door.sensor")
	if err != nil || n != 1 {
		t.Errorf("DeviceCount(door.sensor) = %d, %v", n, err)
	}
	n, err = client.DeviceCount(context.Background(), "ghost")
	if err != nil || n != 0 {
		t.Errorf("DeviceCount(ghost) = %d, %v", n, err)
	}
}
