package config

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// StateStore is a flat, persisted key/value store for client-side UI state.
// Every Set and Remove is written through to disk, the way a browser cookie
// outlives the page that set it.
type StateStore struct {
	path   string
	values map[string]string
	mu     sync.RWMutex
}

type stateFileData struct {
	Values map[string]string `yaml:"values"`
}

// OpenStateStore loads the store at path. A missing file is an empty store.
func OpenStateStore(path string) (*StateStore, error) {
	s := &StateStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var file stateFileData
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	for k, v := range file.Values {
		s.values[k] = v
	}

	return s, nil
}

// OpenDefaultStateStore opens the store in the configuration directory.
func OpenDefaultStateStore() (*StateStore, error) {
	path, err := GetStatePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get state path: %w", err)
	}
	return OpenStateStore(path)
}

// NewMemoryStateStore returns a store that is never written to disk.
func NewMemoryStateStore() *StateStore {
	return &StateStore{values: make(map[string]string)}
}

// Get returns the value for key and whether it is set.
func (s *StateStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and persists the store.
func (s *StateStore) Set(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return s.save()
}

// Remove deletes key and persists the store. Removing a missing key is not an error.
func (s *StateStore) Remove(key string) error {
	s.mu.Lock()
	_, existed := s.values[key]
	delete(s.values, key)
	s.mu.Unlock()

	if !existed {
		return nil
	}
	return s.save()
}

// Keys returns all keys in sorted order.
func (s *StateStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *StateStore) save() error {
	if s.path == "" {
		return nil
	}

	s.mu.RLock()
	data, err := yaml.Marshal(stateFileData{Values: s.values})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	return writeFileAtomic(s.path, data)
}

// Panel state keys, namespaced per HOMEMODE device as "<device>-<key>"
const (
	KeyLastInfo      = "lastInfo"
	KeyInternalsHide = "internalsHide"
	KeyPanel         = "panel"
)

// PanelState is the persisted UI state of one HOMEMODE panel.
type PanelState struct {
	store  *StateStore
	prefix string
}

// NewPanelState returns the panel state of hostDevice backed by store.
func NewPanelState(store *StateStore, hostDevice string) *PanelState {
	return &PanelState{store: store, prefix: hostDevice + "-"}
}

func (p *PanelState) key(name string) string {
	return p.prefix + name
}

// LastInfo returns the identifier of the last info box the user opened.
func (p *PanelState) LastInfo() string {
	v, _ := p.store.Get(p.key(KeyLastInfo))
	return v
}

// SetLastInfo remembers the last opened info box. Empty identifiers are ignored.
func (p *PanelState) SetLastInfo(id string) error {
	if id == "" {
		return nil
	}
	return p.store.Set(p.key(KeyLastInfo), id)
}

// InternalsHidden reports whether internals and readings are hidden.
func (p *PanelState) InternalsHidden() bool {
	_, ok := p.store.Get(p.key(KeyInternalsHide))
	return ok
}

// SetInternalsHidden persists the internals toggle.
func (p *PanelState) SetInternalsHidden(hidden bool) error {
	if hidden {
		return p.store.Set(p.key(KeyInternalsHide), "1")
	}
	return p.store.Remove(p.key(KeyInternalsHide))
}

// ActivePanel returns the open panel, or "" if all are closed.
func (p *PanelState) ActivePanel() string {
	v, _ := p.store.Get(p.key(KeyPanel))
	return v
}

// SetActivePanel persists the open panel. An empty id closes all panels.
func (p *PanelState) SetActivePanel(id string) error {
	if id == "" {
		return p.store.Remove(p.key(KeyPanel))
	}
	return p.store.Set(p.key(KeyPanel), id)
}

// Clear removes all state of this panel.
func (p *PanelState) Clear() error {
	for _, name := range []string{KeyLastInfo, KeyInternalsHide, KeyPanel} {
		if err := p.store.Remove(p.key(name)); err != nil {
			return err
		}
	}
	return nil
}
