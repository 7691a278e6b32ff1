package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deespe/fhem-HOMEMODE/internal/config"
	"github.com/deespe/fhem-HOMEMODE/internal/inform"
	"github.com/deespe/fhem-HOMEMODE/internal/logging"
	"github.com/deespe/fhem-HOMEMODE/internal/panel"
)

var noInform bool

func init() {
	panelCmd.Flags().BoolVar(&noInform, "no-inform", false, "Do not subscribe to live updates")
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(watchCmd)
}

// panelCmd opens the interactive panel
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive sensor panel",
	Long: `Open the interactive panel of the HOMEMODE device.

One tab per sensor type lists the sensors of its HomeSensors attribute with
their Home* attributes. Changes are validated and sent to FHEM when a field
is committed. Readings update live through the FHEMWEB inform stream.

The open tab, the info box reading and the internals toggle are kept
between runs.`,
	Example: `  # Panel of the default server
  hmpanel
  hmpanel panel

  # Another HOMEMODE device on an ad-hoc server
  hmpanel panel --url http://fhem.local:8083/fhem --host-device homeMode2`,
	RunE: runPanel,
}

func runPanel(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := s.connect(ctx); err != nil {
		return err
	}

	snap, err := panel.Load(ctx, s.client, s.host, panel.DefaultTabs)
	if err != nil {
		return s.fail("Failed to load "+s.host, err)
	}

	var state *config.PanelState
	store, err := config.OpenDefaultStateStore()
	if err != nil {
		logging.Warn("Panel state is not persisted", zap.Error(err))
	} else {
		state = config.NewPanelState(store, s.host)
	}

	p := tea.NewProgram(panel.New(ctx, s.engine, s.client, state, snap), tea.WithAltScreen(), tea.WithContext(ctx))

	if !noInform {
		go func() {
			err := listen(ctx, s, inform.DevspecFor(s.host, snap.Devices()...), func(ev inform.Event) {
				p.Send(panel.InformMsg{Event: ev})
			})
			p.Send(panel.InformClosedMsg{Err: err})
		}()
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("panel error: %w", err)
	}
	return nil
}

// listen streams inform events of filter to handle until ctx is done
func listen(ctx context.Context, s *session, filter string, handle func(inform.Event)) error {
	stream, err := inform.Dial(ctx, s.client, filter)
	if err != nil {
		return err
	}
	logging.Info("Inform stream connected", zap.String("filter", stream.Filter()))
	return stream.Listen(ctx, handle)
}

var watchCmd = &cobra.Command{
	Use:   "watch [devspec]",
	Short: "Print live updates of the HOMEMODE device and its sensors",
	Long: `Subscribe to the FHEMWEB inform stream and print every update.

Without a devspec the HOMEMODE device and all its sensors are watched. Each
line shows the inform id the panel previews are bound to.`,
	Example: `  hmpanel watch
  hmpanel watch door.sensor`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		filter := ""
		if len(args) == 1 {
			filter = args[0]
		} else {
			snap, err := panel.Load(ctx, s.client, s.host, panel.DefaultTabs)
			if err != nil {
				return s.fail("Failed to load "+s.host, err)
			}
			filter = inform.DevspecFor(s.host, snap.Devices()...)
		}

		s.printer.PrintHeader("Watching", "hmpanel watch", map[string]string{
			"Server": s.url,
			"Filter": filter,
		})
		err = listen(ctx, s, filter, func(ev inform.Event) {
			s.printer.Println(fmt.Sprintf("%-40s %s", ev.ID, ev.Value))
		})
		if err != nil {
			return s.fail("Inform stream failed", err)
		}
		return nil
	},
}
