package config

import (
	"path/filepath"
	"testing"
)

func TestStateStore_SetGetRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	store, err := OpenStateStore(path)
	if err != nil {
		t.Fatalf("OpenStateStore() error = %v", err)
	}

	if _, ok := store.Get("homeMode-panel"); ok {
		t.Error("new store should be empty")
	}

	if err := store.Set("homeMode-panel", "HOMEMODE-contact"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, ok := store.Get("homeMode-panel"); !ok || v != "HOMEMODE-contact" {
		t.Errorf("Get() = %q, %v", v, ok)
	}

	reopened, err := OpenStateStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if v, _ := reopened.Get("homeMode-panel"); v != "HOMEMODE-contact" {
		t.Errorf("persisted value = %q", v)
	}

	if err := reopened.Remove("homeMode-panel"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := reopened.Remove("homeMode-panel"); err != nil {
		t.Errorf("Remove(missing) error = %v", err)
	}

	again, _ := OpenStateStore(path)
	if _, ok := again.Get("homeMode-panel"); ok {
		t.Error("removed key should stay removed")
	}
}

func TestPanelState_Namespaced(t *testing.T) {
	store := NewMemoryStateStore()
	home := NewPanelState(store, "homeMode")
	cabin := NewPanelState(store, "hmCabin")

	if err := home.SetActivePanel("HOMEMODE-motion"); err != nil {
		t.Fatal(err)
	}
	if err := home.SetInternalsHidden(true); err != nil {
		t.Fatal(err)
	}
	if err := home.SetLastInfo("modeAlarm"); err != nil {
		t.Fatal(err)
	}

	if cabin.ActivePanel() != "" || cabin.InternalsHidden() || cabin.LastInfo() != "" {
		t.Error("state leaked between HOMEMODE devices")
	}

	if home.ActivePanel() != "HOMEMODE-motion" {
		t.Errorf("ActivePanel() = %q", home.ActivePanel())
	}
	if !home.InternalsHidden() {
		t.Error("InternalsHidden() should be true")
	}
	if home.LastInfo() != "modeAlarm" {
		t.Errorf("LastInfo() = %q", home.LastInfo())
	}

	wantKeys := []string{"homeMode-internalsHide", "homeMode-lastInfo", "homeMode-panel"}
	keys := store.Keys()
	if len(keys) != len(wantKeys) {
		t.Fatalf("Keys() = %v, want %v", keys, wantKeys)
	}
	for i := range wantKeys {
		if keys[i] != wantKeys[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], wantKeys[i])
		}
	}
}

func TestPanelState_ClearAndToggle(t *testing.T) {
	store := NewMemoryStateStore()
	state := NewPanelState(store, "homeMode")

	_ = state.SetInternalsHidden(true)
	_ = state.SetInternalsHidden(false)
	if state.InternalsHidden() {
		t.Error("internals toggle should be removed when shown")
	}

	_ = state.SetActivePanel("HOMEMODE-smoke")
	_ = state.SetActivePanel("")
	if state.ActivePanel() != "" {
		t.Error("empty panel should close all panels")
	}

	_ = state.SetLastInfo("")
	if state.LastInfo() != "" {
		t.Error("empty last info should be ignored")
	}

	_ = state.SetLastInfo("presence")
	if err := state.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if len(store.Keys()) != 0 {
		t.Errorf("Keys() after Clear = %v", store.Keys())
	}
}
