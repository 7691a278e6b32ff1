// Package config provides user configuration and persisted panel state for hmpanel.
//
// Two YAML files live in the configuration directory:
//
//   - config.yaml: the FHEMWEB servers hmpanel knows about (URL, HOMEMODE
//     device, basic auth user) and preferences such as the panel language.
//   - state.yaml: small bits of UI state that survive restarts: the last
//     opened info box, whether internals are hidden and which panel is open.
//     Keys are namespaced by the HOMEMODE device name ("homeMode-panel").
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/hmpanel or $HOME/.config/hmpanel
//   - macOS: $HOME/.config/hmpanel
//   - Windows: %LOCALAPPDATA%\hmpanel
//
// HMPANEL_CONFIG_DIR overrides the location.
//
// # Security
//
// Basic auth passwords are never written to disk. They are read from the
// HMPANEL_PASSWORD environment variable when needed.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.SetServer("home", "http://192.168.1.10:8083/fhem", "homeMode", "")
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
//	store, _ := config.OpenDefaultStateStore()
//	state := config.NewPanelState(store, "homeMode")
//	_ = state.SetActivePanel("HOMEMODE-contact")
//
// # Thread Safety
//
// File writes are serialized by a package mutex and are atomic (temp file
// plus rename). StateStore is safe for concurrent use.
package config
