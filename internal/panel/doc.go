// Package panel implements the HOMEMODE sensor panel as a Bubble Tea program.
//
// Each sensor type of the HOMEMODE device (HomeSensorsContact,
// HomeSensorsMotion, ...) gets a tab listing its sensors and their HOMEMODE
// attributes. Text fields commit through attrsync.Engine when Enter is
// pressed; toggles, dropdowns and checkbox groups save immediately. Reading
// fields show a live preview which follows FHEMWEB updates delivered as
// InformMsg.
//
// The open tab, the info box reading and the internals toggle are kept in a
// config.PanelState between runs.
package panel
