package fhem

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/deespe/fhem-HOMEMODE/internal/logging"
)

const (
	// DefaultPort is the port of the default FHEMWEB instance ("WEB")
	DefaultPort = 8083

	// DefaultWebName is the FHEMWEB webname attribute default
	DefaultWebName = "fhem"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// CSRFHeader is the response header carrying the FHEMWEB csrf token
	CSRFHeader = "X-FHEM-csrfToken"
)

// Client talks to a FHEMWEB instance: plain-text commands and jsonlist2 queries
type Client struct {
	// BaseURL is the scheme and host of the FHEMWEB instance (e.g., "http://192.168.1.10:8083")
	BaseURL string

	// WebName is the FHEMWEB path prefix (default: "fhem")
	WebName string

	// Username for HTTP Basic Auth (empty disables auth)
	Username string

	// Password for HTTP Basic Auth
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	csrfToken  string
	csrfLoaded bool
	csrfMutex  sync.Mutex
}

// NewClient creates a client for the FHEMWEB instance at host:port
func NewClient(host string, port int) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s:%d", host, port))
}

// NewClientWithURL creates a new client with a full base URL.
// A trailing webname ("http://host:8083/fhem") is split off into WebName.
func NewClientWithURL(baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	webName := DefaultWebName

	if u, err := url.Parse(baseURL); err == nil && u.Path != "" && u.Path != "/" {
		webName = strings.Trim(u.Path, "/")
		u.Path = ""
		baseURL = u.String()
	}

	return &Client{
		BaseURL:    baseURL,
		WebName:    webName,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetAuth sets HTTP Basic Auth credentials
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
}

// Endpoint returns the FHEMWEB endpoint URL (e.g., "http://host:8083/fhem")
func (c *Client) Endpoint() string {
	return c.BaseURL + "/" + c.WebName
}

// Ping checks that the FHEMWEB instance answers, loading the csrf token on the way
func (c *Client) Ping(ctx context.Context) error {
	c.InvalidateCSRF()
	_, err := c.csrf(ctx)
	return err
}

// CSRFToken returns the current csrf token, fetching it if needed.
// An empty token means csrf protection is disabled on the FHEMWEB device.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	return c.csrf(ctx)
}

// InvalidateCSRF forces the next request to fetch a fresh csrf token
func (c *Client) InvalidateCSRF() {
	c.csrfMutex.Lock()
	defer c.csrfMutex.Unlock()
	c.csrfToken = ""
	c.csrfLoaded = false
}

func (c *Client) csrf(ctx context.Context) (string, error) {
	c.csrfMutex.Lock()
	defer c.csrfMutex.Unlock()

	if c.csrfLoaded {
		return c.csrfToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint()+"?XHR=1", nil)
	if err != nil {
		return "", NewNetworkError("failed to create csrf request", err)
	}
	c.authorize(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", NewNetworkError("FHEMWEB unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return "", NewAuthError("authentication failed (check credentials)")
	}
	if resp.StatusCode != http.StatusOK {
		return "", NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	c.csrfToken = resp.Header.Get(CSRFHeader)
	c.csrfLoaded = true

	logging.Debug("Loaded FHEMWEB csrf token",
		zap.String("endpoint", c.Endpoint()),
		zap.Bool("csrf_enabled", c.csrfToken != ""),
	)

	return c.csrfToken, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
}

// Command sends a plain-text FHEM command and returns its output.
// A stale csrf token is refreshed once; failed commands are not retried.
func (c *Client) Command(ctx context.Context, cmd string) (string, error) {
	out, err := c.commandAttempt(ctx, http.MethodPost, cmd)
	if err != nil && IsCSRFError(err) {
		logging.Debug("csrf token rejected, reloading", zap.String("cmd", cmd))
		c.InvalidateCSRF()
		out, err = c.commandAttempt(ctx, http.MethodPost, cmd)
	}
	return out, err
}

func (c *Client) commandAttempt(ctx context.Context, method, cmd string) (string, error) {
	token, err := c.csrf(ctx)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("cmd", cmd)
	params.Set("XHR", "1")
	if token != "" {
		params.Set("fwcsrf", token)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Endpoint()+"?"+params.Encode(), nil)
	if err != nil {
		return "", NewNetworkError("failed to create command request", err)
	}
	c.authorize(req)

	logging.Debug("Sending FHEM command",
		zap.String("method", method),
		zap.String("cmd", cmd),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", NewNetworkError("command request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewNetworkError("failed to read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", NewAuthError("authentication failed (check credentials)")
	case resp.StatusCode == http.StatusBadRequest && token != "":
		return "", NewCSRFError("csrf token rejected")
	case resp.StatusCode != http.StatusOK:
		return "", NewHTTPError(resp.StatusCode, fmt.Sprintf("command failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	return string(body), nil
}

// Exec sends a command that is expected to produce no output.
// Any output is treated as the FHEM error text for the command.
func (c *Client) Exec(ctx context.Context, cmd string) error {
	out, err := c.Command(ctx, cmd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) != "" {
		return NewCommandError(cmd, out)
	}
	return nil
}

// SetAttr sends "attr <device> <name> <value>"
func (c *Client) SetAttr(ctx context.Context, device, name, value string) error {
	return c.Exec(ctx, fmt.Sprintf("attr %s %s %s", device, name, value))
}

// DeleteAttr sends "deleteattr <device> <name>"
func (c *Client) DeleteAttr(ctx context.Context, device, name string) error {
	return c.Exec(ctx, fmt.Sprintf("deleteattr %s %s", device, name))
}

// Set sends "set <device> <args...>"
func (c *Client) Set(ctx context.Context, device string, args ...string) error {
	return c.Exec(ctx, strings.TrimSpace("set "+device+" "+strings.Join(args, " ")))
}

// JSONList2 queries "jsonlist2 <devspec> [names...]".
// Names restrict the returned readings, attributes and internals.
func (c *Client) JSONList2(ctx context.Context, devspec string, names ...string) (*QueryResult, error) {
	cmd := strings.TrimSpace("jsonlist2 " + devspec + " " + strings.Join(names, " "))

	out, err := c.commandAttempt(ctx, http.MethodGet, cmd)
	if err != nil && IsCSRFError(err) {
		c.InvalidateCSRF()
		out, err = c.commandAttempt(ctx, http.MethodGet, cmd)
	}
	if err != nil {
		return nil, err
	}

	result, err := ParseJSONList2([]byte(out))
	if err != nil {
		return nil, NewParseError("failed to parse jsonlist2 response", err)
	}
	return result, nil
}

// Reading returns the value of a single reading. ok is false if the device
// or the reading does not exist.
func (c *Client) Reading(ctx context.Context, device, reading string) (value string, ok bool, err error) {
	result, err := c.JSONList2(ctx, device, reading)
	if err != nil {
		return "", false, err
	}
	r, ok := result.First().Reading(reading)
	return r.Value, ok, nil
}

// Attribute returns the value of a single attribute. ok is false if it is not set.
func (c *Client) Attribute(ctx context.Context, device, attr string) (value string, ok bool, err error) {
	result, err := c.JSONList2(ctx, device, attr)
	if err != nil {
		return "", false, err
	}
	value, ok = result.First().Attribute(attr)
	return value, ok, nil
}

// DeviceCount returns how many devices match devspec
func (c *Client) DeviceCount(ctx context.Context, devspec string) (int, error) {
	result, err := c.JSONList2(ctx, devspec, "NAME")
	if err != nil {
		return 0, err
	}
	return result.TotalResults, nil
}
