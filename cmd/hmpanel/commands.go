package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deespe/fhem-HOMEMODE/internal/attrsync"
	"github.com/deespe/fhem-HOMEMODE/internal/panel"
	"github.com/deespe/fhem-HOMEMODE/internal/ui"
)

var assumeYes bool

func init() {
	attrCmd.AddCommand(attrSetCmd)
	attrCmd.AddCommand(attrDeleteCmd)
	sensorsCmd.AddCommand(sensorsAddCmd)
	sensorsCmd.AddCommand(sensorsListCmd)
	deviceCmd.AddCommand(deviceEnableCmd)
	deviceCmd.AddCommand(deviceDisableCmd)

	deviceCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	rootCmd.AddCommand(attrCmd)
	rootCmd.AddCommand(readingCmd)
	rootCmd.AddCommand(sensorsCmd)
	rootCmd.AddCommand(deviceCmd)
	rootCmd.AddCommand(rulesCmd)
}

var attrCmd = &cobra.Command{
	Use:   "attr",
	Short: "Set or delete a sensor attribute",
}

// attrSetCmd commits one attribute the way the panel does
var attrSetCmd = &cobra.Command{
	Use:   "set <device> <attribute> [value...]",
	Short: "Validate and set a sensor attribute",
	Long: `Validate a value and set it as attribute of a sensor.

The value goes through the same rules as in the panel. An empty value, or
the attribute's placeholder, deletes the attribute instead. For HomeReading*
attributes the reading it points at is shown afterwards.`,
	Example: `  # Use the reading "battery" for the battery level
  hmpanel attr set door.sensor HomeReadingBattery battery

  # Alarm delay per mode (armaway armhome armnight)
  hmpanel attr set door.sensor HomeAlarmDelay 30 45 60

  # Back to the default reading
  hmpanel attr set door.sensor HomeReadingContact state`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAttrSet,
}

func runAttrSet(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	device, field := args[0], args[1]
	value := strings.Join(args[2:], " ")

	current, _, err := s.client.Attribute(ctx, device, field)
	if err != nil {
		return s.fail("Failed to read "+field, err)
	}

	b := attrsync.NewFieldBinding(device, field, current, panel.PlaceholderFor(panel.DefaultTabs, field))
	result, err := s.engine.Commit(ctx, b, value)
	if err != nil {
		return s.fail("Failed to commit "+field, err)
	}

	details := []ui.Detail{
		{Key: "Device", Value: device},
		{Key: "Attribute", Value: field},
		{Key: "Action", Value: result.Action.String()},
		{Key: "Value", Value: display(result.Value)},
	}
	if b.Preview != nil {
		details = append(details, ui.Detail{Key: "Reading", Value: result.PreviewText})
		if result.PreviewSourceID != "" {
			details = append(details, ui.Detail{Key: "Inform ID", Value: result.PreviewSourceID})
		}
	}
	if b.Dependent != nil {
		details = append(details, ui.Detail{Key: b.Dependent.Name, Value: visibility(result.ThresholdVisible)})
	}
	s.printer.PrintSuccess("Attribute committed", details...)
	return nil
}

var attrDeleteCmd = &cobra.Command{
	Use:   "delete <device> <attribute>",
	Short: "Delete a sensor attribute",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.engine.DeleteIfSet(cmd.Context(), args[0], args[1]); err != nil {
			return s.fail("Failed to delete "+args[1], err)
		}
		s.printer.PrintSuccess("Attribute deleted",
			ui.Detail{Key: "Device", Value: args[0]},
			ui.Detail{Key: "Attribute", Value: args[1]},
		)
		return nil
	},
}

var readingCmd = &cobra.Command{
	Use:     "reading <device> <reading>",
	Short:   "Show the value of a reading",
	Example: `  hmpanel reading door.sensor battery`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		value, ok, err := s.client.Reading(cmd.Context(), args[0], args[1])
		if err != nil {
			return s.fail("Failed to query reading", err)
		}
		if !ok {
			value = attrsync.PreviewSentinel
		}
		s.printer.PrintSuccess(args[0],
			ui.Detail{Key: args[1], Value: value},
			ui.Detail{Key: "Inform ID", Value: s.engine.SourceID(args[0], args[1])},
		)
		return nil
	},
}

var sensorsCmd = &cobra.Command{
	Use:   "sensors",
	Short: "List or add sensors of the HOMEMODE device",
}

var sensorsAddCmd = &cobra.Command{
	Use:   "add <type> <device[,device...]>",
	Short: "Add sensors to a HomeSensors attribute",
	Long: `Add comma separated devices to the HomeSensors<type> attribute of the
HOMEMODE device. Every device must exist in FHEM. Devices already listed are
skipped.`,
	Example: `  hmpanel sensors add Contact door.sensor,window.sensor
  hmpanel sensors add Battery door.sensor`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		value, err := s.engine.AddSensors(cmd.Context(), args[0], args[1])
		if err != nil {
			return s.fail("Failed to add sensors", err)
		}
		s.printer.PrintSuccess("Sensors updated",
			ui.Detail{Key: "Device", Value: s.host},
			ui.Detail{Key: attrsync.SensorAttr(args[0]), Value: value},
		)
		return nil
	},
}

var sensorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the sensors of every panel",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		snap, err := panel.Load(cmd.Context(), s.client, s.host, panel.DefaultTabs)
		if err != nil {
			return s.fail("Failed to load "+s.host, err)
		}

		var rows [][]string
		for _, tab := range panel.DefaultTabs {
			for _, d := range snap.Sensors[tab.Type] {
				state := attrsync.PreviewSentinel
				if r, ok := d.Reading("state"); ok {
					state = r.Value
				}
				rows = append(rows, []string{tab.Type, d.Name, d.Internals["TYPE"], state})
			}
		}
		if len(rows) == 0 {
			s.printer.Println(fmt.Sprintf("%s has no sensors. Use 'hmpanel sensors add' to add some.", s.host))
			return nil
		}
		s.printer.PrintTable([]string{"Type", "Device", "Module", "State"}, rows)
		return nil
	},
}

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Enable or disable a sensor in HOMEMODE",
}

var deviceEnableCmd = &cobra.Command{
	Use:   "enable <device>",
	Short: "Let HOMEMODE evaluate a sensor again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeviceToggle(cmd, args[0], false)
	},
}

var deviceDisableCmd = &cobra.Command{
	Use:   "disable <device>",
	Short: "Make HOMEMODE ignore a sensor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeviceToggle(cmd, args[0], true)
	},
}

func runDeviceToggle(cmd *cobra.Command, device string, disable bool) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	verb := "enable"
	if disable {
		verb = "disable"
	}
	if !assumeYes && !ui.Confirm(os.Stdin, os.Stdout, fmt.Sprintf("%s %s in %s?", verb, device, s.host)) {
		s.printer.Println("Aborted.")
		return nil
	}
	if err := s.engine.SetDeviceDisabled(cmd.Context(), device, disable); err != nil {
		return s.fail("Failed to "+verb+" "+device, err)
	}
	s.printer.PrintSuccess("Sensor "+verb+"d",
		ui.Detail{Key: "Device", Value: device},
		ui.Detail{Key: "HOMEMODE", Value: s.host},
	)
	return nil
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the validation rules",
	Run: func(cmd *cobra.Command, args []string) {
		lang := attrsync.ParseLanguage(language)
		var rows [][]string
		for _, r := range attrsync.Rules() {
			msg := strings.SplitN(attrsync.Message(lang, r.Rule.MessageKey), "\n", 2)
			hint := msg[0]
			if len(msg) > 1 {
				hint = msg[1]
			}
			rows = append(rows, []string{r.Field, r.Rule.Pattern.String(), hint})
		}
		ui.NewPrinter(os.Stdout).PrintTable([]string{"Attribute", "Pattern", "Meaning"}, rows)
	},
}

func display(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func visibility(visible bool) string {
	if visible {
		return "shown"
	}
	return "hidden"
}
