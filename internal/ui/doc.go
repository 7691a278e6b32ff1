// Package ui provides terminal output components for the hmpanel CLI.
//
// Commands print a Header before they talk to FHEM and a Result box after.
// Validation and not-set messages are shown with RenderDialog, the terminal
// counterpart of the panel's OK dialog. Listings use RenderTable.
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Set attribute", "attr door.sensor HomeAlarmDelay 30", nil)
//	p.PrintSuccess("Attribute set", ui.Detail{Key: "Value", Value: "30"})
//
// Logging is controlled via HMPANEL_LOG_LEVEL. When unset, zap stays silent
// and only this package's output is shown.
package ui
