package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Instance represents a FHEMWEB instance found on the network
type Instance struct {
	// Name is the advertised mDNS instance name (e.g., "FHEM on pi")
	Name string

	// Hostname is the mDNS hostname (e.g., "fhem.local.")
	Hostname string

	// IP is the IPv4 address, or IPv6 if the host has none
	IP string

	// Port is the FHEMWEB port (typically 8083)
	Port int

	// Metadata contains the mDNS TXT record data
	// Common fields: "path=/fhem"
	Metadata map[string]string

	// DiscoveredAt is when the instance was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the instance
func (i *Instance) String() string {
	return fmt.Sprintf("%s (%s) at %s", i.Name, strings.TrimSuffix(i.Hostname, "."), i.URL())
}

// WebName returns the FHEMWEB path advertised in the TXT records
func (i *Instance) WebName() string {
	if p := strings.Trim(i.GetMetadata("path"), "/"); p != "" {
		return p
	}
	return DefaultWebName
}

// URL returns the FHEMWEB endpoint of the instance (e.g., "http://192.168.1.10:8083/fhem")
func (i *Instance) URL() string {
	scheme := "http"
	if i.GetMetadata("tls") == "1" || i.GetMetadata("https") == "1" {
		scheme = "https"
	}
	host := net.JoinHostPort(i.IP, strconv.Itoa(i.Port))
	return fmt.Sprintf("%s://%s/%s", scheme, host, i.WebName())
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (i *Instance) GetMetadata(key string) string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata[key]
}
