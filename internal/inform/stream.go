package inform

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/deespe/fhem-HOMEMODE/internal/fhem"
	"github.com/deespe/fhem-HOMEMODE/internal/logging"
)

const (
	// Time allowed to write a message to FHEMWEB
	writeWait = 10 * time.Second

	// FHEMWEB sends nothing while devices are quiet, so pings keep the
	// connection and the read deadline alive
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from FHEMWEB
	maxMessageSize = 1 << 20
)

// Stream is a websocket subscription to FHEMWEB status updates
type Stream struct {
	conn   *websocket.Conn
	filter string
}

// URL builds the websocket inform URL of client for devices matching filter
func URL(client *fhem.Client, csrfToken, filter string) (string, error) {
	u, err := url.Parse(client.Endpoint())
	if err != nil {
		return "", fmt.Errorf("invalid FHEMWEB endpoint: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	// FHEMWEB reads inform parameters from a single ;-separated value
	inform := "type=status;filter=" + filter + ";fmt=JSON"
	q := url.Values{}
	q.Set("XHR", "1")
	q.Set("inform", inform)
	q.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	if csrfToken != "" {
		q.Set("fwcsrf", csrfToken)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dial opens an inform stream for devices matching filter (a FHEM devspec)
func Dial(ctx context.Context, client *fhem.Client, filter string) (*Stream, error) {
	token, err := client.CSRFToken(ctx)
	if err != nil {
		return nil, err
	}
	target, err := URL(client, token, filter)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if client.Username != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(client.Username + ":" + client.Password))
		header.Set("Authorization", "Basic "+creds)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: client.HTTPClient.Timeout,
		Proxy:            http.ProxyFromEnvironment,
	}
	conn, resp, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fhem.NewAuthError("inform connection rejected (check credentials)")
		}
		if resp != nil {
			return nil, fhem.NewHTTPError(resp.StatusCode, fmt.Sprintf("inform handshake failed: %v", err))
		}
		return nil, fhem.NewNetworkError("inform connection failed", err)
	}

	logging.Info("Inform stream connected",
		zap.String("endpoint", client.Endpoint()),
		zap.String("filter", filter),
	)

	return &Stream{conn: conn, filter: filter}, nil
}

// Listen reads updates until ctx is cancelled or the connection fails and
// calls handle for every event. It closes the stream before returning.
// A cancelled context returns nil.
func (s *Stream) Listen(ctx context.Context, handle func(Event)) error {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	defer func() { _ = s.conn.Close() }()
	done := make(chan struct{})
	defer close(done)
	go s.keepAlive(ctx, done)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Inform stream closed by FHEMWEB", zap.String("filter", s.filter))
				return nil
			}
			return fhem.NewNetworkError("inform stream interrupted", err)
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		events, err := ParseMessage(data)
		if err != nil {
			logging.Debug("Ignoring malformed inform data",
				zap.Error(err),
				zap.Int("length", len(data)),
			)
		}
		for _, ev := range events {
			logging.LogInformEvent(ev.ID, ev.Value)
			handle(ev)
		}
	}
}

// keepAlive pings FHEMWEB and closes the connection once ctx is done
func (s *Stream) keepAlive(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			_ = s.conn.Close()
			return
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			_ = s.conn.Close()
			return
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					logging.Debug("Inform ping failed", zap.Error(err))
				}
				return
			}
		}
	}
}

// Close closes the underlying connection
func (s *Stream) Close() error {
	return s.conn.Close()
}

// Filter returns the devspec the stream is subscribed to
func (s *Stream) Filter() string {
	return s.filter
}

// DevspecFor builds a devspec matching the host device and its sensors
func DevspecFor(host string, devices ...string) string {
	all := append([]string{host}, devices...)
	return strings.Join(all, ",")
}
