package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deespe/fhem-HOMEMODE/internal/config"
	"github.com/deespe/fhem-HOMEMODE/internal/discovery"
	"github.com/deespe/fhem-HOMEMODE/internal/ui"
	"github.com/deespe/fhem-HOMEMODE/internal/urls"
)

// Scan flags
var (
	scanWait time.Duration
	scanSave string
	scanPick int
	scanFind string
)

func init() {
	scanCmd.Flags().DurationVar(&scanWait, "wait", 0, "How long to listen for announcements (default from config, 5s)")
	scanCmd.Flags().StringVar(&scanSave, "save", "", "Save the found instance to config.yaml under this name")
	scanCmd.Flags().IntVar(&scanPick, "pick", 0, "Instance to save when several are found (1-based)")
	scanCmd.Flags().StringVar(&scanFind, "find", "", "Wait for one instance by mDNS name or hostname")

	serversCmd.AddCommand(serversListCmd)
	serversCmd.AddCommand(serversAddCmd)
	stateCmd.AddCommand(stateListCmd)
	stateCmd.AddCommand(stateClearCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(serversCmd)
	rootCmd.AddCommand(stateCmd)
}

// scanCmd discovers FHEMWEB instances on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for FHEMWEB instances on the network",
	Long: `Scan for FHEMWEB instances using mDNS/DNS-SD discovery.

FHEM announces FHEMWEB through its mdns module as an _http._tcp service.
Found instances can be saved to config.yaml with --save.`,
	Example: `  # Scan for 5 seconds
  hmpanel scan

  # Save the only instance found as "home"
  hmpanel scan --save home

  # Wait for a known host
  hmpanel scan --find fhem.local --save home`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		registry = config.NewRegistry()
	}
	printer := ui.NewPrinter(os.Stdout)

	scanner := discovery.NewScanner()
	switch {
	case scanWait > 0:
		scanner.Timeout = scanWait
	case registry.Preferences != nil && registry.Preferences.DiscoverTimeout > 0:
		scanner.Timeout = time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	}

	var instances []*discovery.Instance
	if scanFind != "" {
		printer.Println(fmt.Sprintf("Waiting for %s (timeout: %s)...", scanFind, scanner.Timeout))
		inst, err := scanner.WaitFor(cmd.Context(), scanFind)
		if err != nil {
			printer.PrintError("Instance not found", err, scanHints)
			return errReported
		}
		instances = []*discovery.Instance{inst}
	} else {
		printer.Println(fmt.Sprintf("Scanning for FHEMWEB instances (timeout: %s)...", scanner.Timeout))
		instances, err = scanner.Scan(cmd.Context())
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
	}

	if len(instances) == 0 {
		printer.PrintError("No FHEMWEB instances found", nil, scanHints)
		return nil
	}

	rows := make([][]string, 0, len(instances))
	for i, inst := range instances {
		rows = append(rows, []string{fmt.Sprint(i + 1), inst.Name, inst.URL()})
	}
	printer.PrintTable([]string{"#", "Name", "URL"}, rows)

	if scanSave == "" {
		printer.Newline()
		printer.Println("Use 'hmpanel scan --save <name>' to store an instance")
		return nil
	}

	pick := scanPick
	if pick == 0 && len(instances) == 1 {
		pick = 1
	}
	if pick < 1 || pick > len(instances) {
		return fmt.Errorf("%d instances found: use --pick to choose which one to save", len(instances))
	}
	inst := instances[pick-1]

	host := hostDevice
	if host == "" {
		host = defaultHostDevice
	}
	registry.SetServer(scanSave, inst.URL(), host, username)
	registry.MarkSeen(scanSave)
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	printer.PrintSuccess("Server saved",
		ui.Detail{Key: "Name", Value: scanSave},
		ui.Detail{Key: "URL", Value: inst.URL()},
		ui.Detail{Key: "HOMEMODE", Value: host},
		ui.Detail{Key: "Config", Value: registry.Path()},
	)
	return nil
}

var scanHints = []string{
	"Check that the mdns module of FHEM announces FHEMWEB",
	"Verify this computer is on the same network as FHEM",
	"Try a longer --wait",
	"Use --url to connect without discovery",
	urls.Hint("Setup guide", urls.HOMEMODEWiki),
}

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "Manage the FHEMWEB servers in config.yaml",
}

var serversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		printer := ui.NewPrinter(os.Stdout)
		if len(registry.Servers) == 0 {
			printer.Println("No servers configured. Use 'hmpanel servers add' or 'hmpanel scan --save'.")
			return nil
		}

		def := ""
		if registry.Preferences != nil {
			def = registry.Preferences.DefaultServer
		}
		names := make([]string, 0, len(registry.Servers))
		for name := range registry.Servers {
			names = append(names, name)
		}
		sort.Strings(names)

		rows := make([][]string, 0, len(names))
		for _, name := range names {
			srv := registry.Servers[name]
			seen := "never"
			if !srv.LastSeen.IsZero() {
				seen = srv.LastSeen.Format(time.DateTime)
			}
			marker := ""
			if name == def {
				marker = ui.SuccessMarker
			}
			rows = append(rows, []string{marker, name, srv.URL, srv.HostDevice, registry.LanguageFor(srv), seen})
		}
		printer.PrintTable([]string{"", "Name", "URL", "HOMEMODE", "Lang", "Last seen"}, rows)
		return nil
	},
}

var serversAddCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Add or replace a server (uses --url, --host-device, --user, --lang)",
	Example: `  hmpanel servers add home --url http://192.168.1.10:8083/fhem --host-device homeMode`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if serverURL == "" {
			return fmt.Errorf("--url is required")
		}
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		host := hostDevice
		if host == "" {
			host = defaultHostDevice
		}
		srv := registry.SetServer(args[0], serverURL, host, username)
		if language != "" {
			srv.Language = strings.ToUpper(language)
		}
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		ui.NewPrinter(os.Stdout).PrintSuccess("Server saved",
			ui.Detail{Key: "Name", Value: args[0]},
			ui.Detail{Key: "URL", Value: serverURL},
			ui.Detail{Key: "HOMEMODE", Value: host},
		)
		return nil
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show or reset the persisted panel state",
}

var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the persisted panel state",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.OpenDefaultStateStore()
		if err != nil {
			return err
		}
		printer := ui.NewPrinter(os.Stdout)
		keys := store.Keys()
		if len(keys) == 0 {
			printer.Println("No panel state stored.")
			return nil
		}
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			v, _ := store.Get(k)
			rows = append(rows, []string{k, v})
		}
		printer.PrintTable([]string{"Key", "Value"}, rows)
		return nil
	},
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the panel state of the HOMEMODE device",
	RunE: func(cmd *cobra.Command, args []string) error {
		host := hostDevice
		if host == "" {
			registry, err := config.LoadRegistry()
			if err == nil {
				if srv := registry.GetServer(serverName); srv != nil {
					host = srv.HostDevice
				}
			}
		}
		if host == "" {
			host = defaultHostDevice
		}

		store, err := config.OpenDefaultStateStore()
		if err != nil {
			return err
		}
		if err := config.NewPanelState(store, host).Clear(); err != nil {
			return fmt.Errorf("failed to clear state: %w", err)
		}
		ui.NewPrinter(os.Stdout).PrintSuccess("Panel state cleared", ui.Detail{Key: "HOMEMODE", Value: host})
		return nil
	},
}
