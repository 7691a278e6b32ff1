package fhem

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/deespe/fhem-HOMEMODE/internal/urls"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection reset, unreachable host, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates the FHEMWEB instance rejected our credentials
	ErrTypeAuth
	// ErrTypeHTTP indicates a non-200 status code
	ErrTypeHTTP
	// ErrTypeParse indicates a jsonlist2 response we could not read
	ErrTypeParse
	// ErrTypeCommand indicates FHEM accepted the request but the command itself failed
	ErrTypeCommand
	// ErrTypeCSRF indicates the csrf token was missing or rejected
	ErrTypeCSRF
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening on the FHEMWEB port
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeCommand:
		return "Command Error"
	case ErrTypeCSRF:
		return "CSRF Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ServerError is returned by every Client call that fails
type ServerError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Command    string    // FHEM command that was being sent (if any)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *ServerError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Command != "" {
		msg += fmt.Sprintf(" [cmd: %s]", e.Command)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *ServerError) Unwrap() error {
	return e.Err
}

// classifyNetworkError analyzes a transport error and returns a more specific error
func classifyNetworkError(message string, err error) *ServerError {
	if os.IsTimeout(err) {
		return &ServerError{Type: ErrTypeTimeout, Message: message, Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ServerError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("%s: cannot resolve %s", message, dnsErr.Name),
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &ServerError{Type: ErrTypeConnectionRefused, Message: message, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return classifyNetworkError(message, urlErr.Err)
	}

	return &ServerError{Type: ErrTypeNetwork, Message: message, Err: err}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *ServerError {
	if err == nil {
		return &ServerError{Type: ErrTypeNetwork, Message: message}
	}
	return classifyNetworkError(message, err)
}

// NewAuthError creates an authentication error
func NewAuthError(message string) *ServerError {
	return &ServerError{
		Type:       ErrTypeAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *ServerError {
	return &ServerError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *ServerError {
	return &ServerError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewCommandError creates an error for a command FHEM answered with an error text
func NewCommandError(cmd, output string) *ServerError {
	return &ServerError{
		Type:    ErrTypeCommand,
		Message: strings.TrimSpace(output),
		Command: cmd,
	}
}

// NewCSRFError creates a csrf token error
func NewCSRFError(message string) *ServerError {
	return &ServerError{
		Type:       ErrTypeCSRF,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func errorType(err error) (ErrorType, bool) {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Type, true
	}
	return 0, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeConnectionRefused || t == ErrTypeDNS)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeAuth
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeHTTP
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeParse
}

// IsCommandError checks if FHEM rejected the command itself
func IsCommandError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeCommand
}

// IsCSRFError checks if an error is a csrf token error
func IsCSRFError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeCSRF
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) []string {
	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		return nil
	}

	switch srvErr.Type {
	case ErrTypeTimeout:
		return []string{
			"FHEM did not respond in time",
			"Check that the FHEM process is running and not blocked",
			"Try increasing --timeout",
		}
	case ErrTypeConnectionRefused:
		return []string{
			"Nothing is listening on the FHEMWEB port",
			"Check the FHEMWEB device port (default 8083)",
			"Verify the --url flag or the url setting in config.yaml",
		}
	case ErrTypeDNS:
		return []string{
			"Could not resolve the FHEM hostname",
			"Use the IP address instead of the hostname",
		}
	case ErrTypeAuth:
		return []string{
			"FHEMWEB rejected the credentials",
			"Check the basicAuth attribute of your FHEMWEB device",
			"Set the password with HMPANEL_PASSWORD",
			urls.Hint("FHEMWEB reference", urls.FHEMWEB),
		}
	case ErrTypeCSRF:
		return []string{
			"FHEMWEB rejected the csrf token",
			"Check the csrfToken attribute of your FHEMWEB device",
			urls.Hint("FHEMWEB reference", urls.FHEMWEB),
		}
	case ErrTypeCommand:
		return []string{
			"FHEM rejected the command",
			"Check that the device and attribute names exist",
			urls.Hint("HOMEMODE attributes", urls.HOMEMODE),
		}
	case ErrTypeHTTP:
		return []string{
			fmt.Sprintf("FHEMWEB answered with HTTP %d", srvErr.StatusCode),
		}
	case ErrTypeParse:
		return []string{
			"Failed to parse the jsonlist2 response",
			"Check that the URL points at a FHEMWEB instance",
		}
	default:
		return []string{
			"Check your network connection",
			"Verify FHEM is running",
		}
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		return err.Error()
	}

	switch srvErr.Type {
	case ErrTypeTimeout:
		return "FHEM not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "FHEMWEB refused connection"
	case ErrTypeDNS:
		return "Cannot resolve FHEM hostname"
	case ErrTypeAuth:
		return "Authentication failed - check credentials"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("FHEMWEB error (HTTP %d)", srvErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse FHEM response"
	case ErrTypeCSRF:
		return "csrf token rejected"
	default:
		return srvErr.Message
	}
}
