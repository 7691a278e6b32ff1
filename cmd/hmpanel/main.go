// Hmpanel is a terminal panel for the sensors of a FHEM HOMEMODE device.
//
// It edits the Home* attributes HOMEMODE reads from its sensors, shows live
// previews of the readings they point at and keeps the panel layout between
// runs. Every change is sent to FHEMWEB immediately.
//
// Usage:
//
//	hmpanel [command] [flags]
//
// Running without arguments opens the panel of the configured server.
// See 'hmpanel --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deespe/fhem-HOMEMODE/internal/fhem"
	"github.com/deespe/fhem-HOMEMODE/internal/logging"
	"github.com/deespe/fhem-HOMEMODE/internal/version"
)

// PasswordEnvVar holds the FHEMWEB basic auth password
const PasswordEnvVar = "HMPANEL_PASSWORD"

// errReported is returned by commands that already printed their failure
var errReported = errors.New("command failed")

// Global flags
var (
	serverURL  string
	serverName string
	hostDevice string
	language   string
	username   string
	logLevel   string
	timeout    time.Duration
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hmpanel",
	Short: "HOMEMODE sensor panel for FHEM",
	Long: `A terminal panel for the sensors of a FHEM HOMEMODE device.

Edits the HomeReading*, HomeValue*, HomeOpen* and related attributes of the
sensors a HOMEMODE device watches, validates them like the FHEMWEB panel and
shows live previews of the readings they point at.

If no command is specified, the panel opens automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPanel(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "", "FHEMWEB URL, e.g. http://192.168.1.10:8083/fhem")
	rootCmd.PersistentFlags().StringVar(&serverName, "server", "", "Name of a server from config.yaml")
	rootCmd.PersistentFlags().StringVar(&hostDevice, "host-device", "", "HOMEMODE device name (default from config, or homeMode)")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "Message language (EN, DE)")
	rootCmd.PersistentFlags().StringVar(&username, "user", "", "FHEMWEB basic auth user (password from "+PasswordEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", fhem.DefaultTimeout, "FHEMWEB request timeout")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hmpanel %s\n", version.Full())
	},
}
