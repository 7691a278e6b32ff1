package config

import "time"

// Registry represents the entire user configuration file.
// It stores the FHEMWEB servers hmpanel knows about and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Servers     map[string]*Server `yaml:"servers,omitempty"` // Keyed by a user-chosen name
	Preferences *Preferences       `yaml:"preferences,omitempty"`

	// path is where Save writes to (not serialized)
	path string
}

// Server describes one FHEMWEB instance and the HOMEMODE device the panel shows.
type Server struct {
	URL        string    `yaml:"url"`                 // e.g. "http://192.168.1.10:8083/fhem"
	HostDevice string    `yaml:"host_device"`         // HOMEMODE device name, e.g. "homeMode"
	Username   string    `yaml:"username,omitempty"`  // Basic auth user; the password is never stored
	Language   string    `yaml:"language,omitempty"`  // Overrides Preferences.Language ("EN" or "DE")
	LastSeen   time.Time `yaml:"last_seen,omitempty"` // Last successful connection
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultServer   string `yaml:"default_server,omitempty"` // Server used when --server is not given
	Language        string `yaml:"language"`                 // "EN" or "DE"
	DiscoverTimeout int    `yaml:"discover_timeout"`         // mDNS discovery timeout in seconds
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Servers: make(map[string]*Server),
		Preferences: &Preferences{
			Language:        "EN",
			DiscoverTimeout: 5,
		},
	}
}

// GetServer retrieves a server by name. An empty name selects the default
// server, or the only server if exactly one is configured.
// Returns nil if no server matches.
func (r *Registry) GetServer(name string) *Server {
	if name == "" && r.Preferences != nil {
		name = r.Preferences.DefaultServer
	}
	if name == "" && len(r.Servers) == 1 {
		for _, s := range r.Servers {
			return s
		}
	}
	return r.Servers[name]
}

// EnsureServer ensures a server entry exists in the registry.
func (r *Registry) EnsureServer(name string) *Server {
	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}

	if server, exists := r.Servers[name]; exists {
		return server
	}

	server := &Server{HostDevice: "homeMode"}
	r.Servers[name] = server
	return server
}

// SetServer adds or replaces a server and makes it the default if none is set.
func (r *Registry) SetServer(name, url, hostDevice, username string) *Server {
	server := r.EnsureServer(name)
	server.URL = url
	server.HostDevice = hostDevice
	server.Username = username

	if r.Preferences == nil {
		r.Preferences = NewRegistry().Preferences
	}
	if r.Preferences.DefaultServer == "" {
		r.Preferences.DefaultServer = name
	}
	return server
}

// MarkSeen updates the last seen timestamp of a server.
func (r *Registry) MarkSeen(name string) {
	if server, ok := r.Servers[name]; ok {
		server.LastSeen = time.Now()
	}
}

// LanguageFor returns the panel language for a server, falling back to the preference.
func (r *Registry) LanguageFor(server *Server) string {
	if server != nil && server.Language != "" {
		return server.Language
	}
	if r.Preferences != nil && r.Preferences.Language != "" {
		return r.Preferences.Language
	}
	return "EN"
}
