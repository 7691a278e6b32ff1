package fhem

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeAuth, "Authentication Error"},
		{ErrTypeCommand, "Command Error"},
		{ErrTypeCSRF, "CSRF Error"},
		{ErrorType(99), "ErrorType(99)"},
	}
	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewNetworkError_Classifies(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	if err := NewNetworkError("dial", refused); err.Type != ErrTypeConnectionRefused {
		t.Errorf("Type = %v, want connection refused", err.Type)
	}

	dnsErr := &net.DNSError{Name: "fhem.invalid", Err: "no such host"}
	if err := NewNetworkError("dial", dnsErr); err.Type != ErrTypeDNS {
		t.Errorf("Type = %v, want DNS", err.Type)
	}

	if err := NewNetworkError("dial", errors.New("reset")); err.Type != ErrTypeNetwork {
		t.Errorf("Type = %v, want network", err.Type)
	}
}

func TestIsHelpers_Wrapped(t *testing.T) {
	err := fmt.Errorf("commit: %w", NewCommandError("attr x y z", "Please define x first"))

	if !IsCommandError(err) {
		t.Error("IsCommandError should see through wrapping")
	}
	if IsNetworkError(err) || IsAuthError(err) || IsParseError(err) {
		t.Error("command error misclassified")
	}
	if IsCommandError(errors.New("plain")) {
		t.Error("plain error should not be a command error")
	}
}

func TestServerError_Message(t *testing.T) {
	err := NewCommandError("attr x y z", "Please define x first\n")
	want := "Command Error: Please define x first [cmd: attr x y z]"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	if hints := GetTroubleshootingHint(NewAuthError("no")); len(hints) == 0 {
		t.Error("auth error should have hints")
	}
	if hints := GetTroubleshootingHint(errors.New("plain")); hints != nil {
		t.Errorf("plain error hints = %v, want nil", hints)
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	if got := GetShortErrorMessage(NewHTTPError(503, "x")); got != "FHEMWEB error (HTTP 503)" {
		t.Errorf("got %q", got)
	}
	if got := GetShortErrorMessage(errors.New("plain")); got != "plain" {
		t.Errorf("got %q", got)
	}
}
