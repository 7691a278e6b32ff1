package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/deespe/fhem-HOMEMODE/internal/attrsync"
	"github.com/deespe/fhem-HOMEMODE/internal/config"
	"github.com/deespe/fhem-HOMEMODE/internal/fhem"
	"github.com/deespe/fhem-HOMEMODE/internal/logging"
	"github.com/deespe/fhem-HOMEMODE/internal/ui"
)

const defaultHostDevice = "homeMode"

// session is a resolved server with a client and a commit engine for it
type session struct {
	registry *config.Registry
	name     string // registry name, "" for --url only
	url      string
	host     string
	client   *fhem.Client
	engine   *attrsync.Engine
	printer  *ui.Printer
}

// openSession resolves the target server from flags and config.yaml.
// Flags win over the configured server.
func openSession() (*session, error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Failed to load config, using defaults", zap.Error(err))
		registry = config.NewRegistry()
	}

	s := &session{registry: registry, printer: ui.NewPrinter(os.Stdout)}

	server := registry.GetServer(serverName)
	if serverName != "" && server == nil {
		return nil, fmt.Errorf("server %q is not configured (see 'hmpanel servers list')", serverName)
	}
	if server != nil {
		s.name = serverName
		if s.name == "" && registry.Preferences != nil {
			s.name = registry.Preferences.DefaultServer
		}
	}

	user := username
	s.url, s.host = serverURL, hostDevice
	if server != nil {
		if s.url == "" {
			s.url = server.URL
		}
		if s.host == "" {
			s.host = server.HostDevice
		}
		if user == "" {
			user = server.Username
		}
	}
	if s.url == "" {
		return nil, fmt.Errorf("no FHEMWEB server configured: use --url, 'hmpanel servers add' or 'hmpanel scan --save'")
	}
	if s.host == "" {
		s.host = defaultHostDevice
	}

	lang := language
	if lang == "" {
		lang = registry.LanguageFor(server)
	}

	s.client = fhem.NewClientWithURL(s.url)
	s.client.SetTimeout(timeout)
	if user != "" {
		s.client.SetAuth(user, os.Getenv(PasswordEnvVar))
	}
	s.engine = attrsync.NewEngine(s.client, s.host, attrsync.ParseLanguage(lang))

	logging.Debug("Session opened",
		zap.String("server", s.name),
		zap.String("url", s.url),
		zap.String("host_device", s.host),
		zap.String("lang", lang),
	)
	return s, nil
}

// connect checks that FHEMWEB answers and records the server as seen
func (s *session) connect(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return s.fail("Cannot reach FHEMWEB", err)
	}
	if s.name != "" {
		s.registry.MarkSeen(s.name)
		if err := s.registry.Save(); err != nil {
			logging.Warn("Failed to save config", zap.Error(err))
		}
	}
	return nil
}

// fail prints err the way the panel would show it and returns errReported.
// Validation errors open a dialog, everything else a failure box.
func (s *session) fail(title string, err error) error {
	if isUserError(err) {
		s.printer.PrintDialog("HOMEMODE", attrsync.DialogText(err))
		return errReported
	}
	s.printer.PrintError(title, err, fhem.GetTroubleshootingHint(err))
	return errReported
}

func isUserError(err error) bool {
	var unknown *attrsync.UnknownDeviceError
	return attrsync.IsValidationError(err) ||
		attrsync.IsNotSetError(err) ||
		errors.As(err, &unknown) ||
		errors.Is(err, attrsync.ErrAllSensorsApplied)
}
