package inform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/deespe/fhem-HOMEMODE/internal/fhem"
)

// fakeInformServer answers the csrf request and streams lines over websocket
func fakeInformServer(t *testing.T, lines string) (*httptest.Server, chan string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	queries := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("inform") == "" {
			w.Header().Set(fhem.CSRFHeader, "csrf_1")
			w.WriteHeader(http.StatusOK)
			return
		}
		queries <- r.URL.RawQuery

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade() error = %v", err)
			return
		}
		defer func() { _ = conn.Close() }()

		_ = conn.WriteMessage(websocket.TextMessage, []byte(lines))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		// drain until the client answers the close
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server, queries
}

func TestURL(t *testing.T) {
	client := fhem.NewClientWithURL("https://fhem.local:8084/tablet")
	got, err := URL(client, "tok", "homeMode,door.sensor")
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}
	if !strings.HasPrefix(got, "wss://fhem.local:8084/tablet?") {
		t.Errorf("URL = %s, want wss scheme and webname path", got)
	}
	for _, part := range []string{"XHR=1", "fwcsrf=tok", "fmt%3DJSON", "filter%3DhomeMode%2Cdoor.sensor"} {
		if !strings.Contains(got, part) {
			t.Errorf("URL = %s, missing %s", got, part)
		}
	}
}

func TestStream_Listen(t *testing.T) {
	server, queries := fakeInformServer(t, "[\"homeMode-door.sensor.battery\",\"80\",\"\"]\n[\"door.sensor\",\"open\",\"\"]\n")
	client := fhem.NewClientWithURL(server.URL + "/fhem")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := Dial(ctx, client, DevspecFor("homeMode", "door.sensor"))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if q := <-queries; !strings.Contains(q, "fwcsrf=csrf_1") {
		t.Errorf("inform query = %s, missing csrf token", q)
	}

	var got []Event
	if err := stream.Listen(ctx, func(ev Event) { got = append(got, ev) }); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("events = %+v, want 2", got)
	}
	if got[0].ID != "homeMode-door.sensor.battery" || got[0].Value != "80" {
		t.Errorf("first event = %+v", got[0])
	}
}

func TestDial_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := fhem.NewClientWithURL(url)
	client.SetTimeout(500 * time.Millisecond)

	if _, err := Dial(context.Background(), client, "homeMode"); !fhem.IsNetworkError(err) {
		t.Errorf("Dial() error = %v, want network error", err)
	}
}

func TestDevspecFor(t *testing.T) {
	if got := DevspecFor("homeMode", "a", "b"); got != "homeMode,a,b" {
		t.Errorf("DevspecFor() = %s", got)
	}
}
