package panel

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/deespe/fhem-HOMEMODE/internal/fhem"
	"github.com/deespe/fhem-HOMEMODE/internal/logging"
)

// Source answers jsonlist2 queries. *fhem.Client satisfies it.
type Source interface {
	JSONList2(ctx context.Context, devspec string, names ...string) (*fhem.QueryResult, error)
}

// Snapshot is the state of a HOMEMODE device and its sensors
type Snapshot struct {
	Host    *fhem.DeviceInfo
	Sensors map[string][]*fhem.DeviceInfo // keyed by tab type
}

// Devices returns the names of every sensor in the snapshot, sorted
func (s *Snapshot) Devices() []string {
	seen := make(map[string]bool)
	var names []string
	for _, devs := range s.Sensors {
		for _, d := range devs {
			if !seen[d.Name] {
				seen[d.Name] = true
				names = append(names, d.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// HostReadings returns the host reading names, sorted
func (s *Snapshot) HostReadings() []string {
	if s.Host == nil {
		return nil
	}
	names := make([]string, 0, len(s.Host.Readings))
	for n := range s.Host.Readings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load queries the host device and the sensors of every tab
func Load(ctx context.Context, src Source, host string, tabs []Tab) (*Snapshot, error) {
	hostResult, err := src.JSONList2(ctx, host)
	if err != nil {
		return nil, err
	}
	hostInfo := hostResult.First()
	if hostInfo == nil {
		return nil, fmt.Errorf("device %s is not defined", host)
	}
	if t := hostInfo.Internals["TYPE"]; t != "" && t != "HOMEMODE" {
		return nil, fmt.Errorf("device %s is a %s, not a HOMEMODE device", host, t)
	}

	snap := &Snapshot{
		Host:    hostInfo,
		Sensors: make(map[string][]*fhem.DeviceInfo),
	}

	for _, tab := range tabs {
		devspec, ok := hostInfo.Attribute(tab.Attr())
		if !ok || devspec == "" {
			continue
		}
		result, err := src.JSONList2(ctx, devspec)
		if err != nil {
			return nil, fmt.Errorf("load %s sensors: %w", tab.Type, err)
		}
		snap.Sensors[tab.Type] = result.Devices
		logging.Debug("Loaded sensors",
			zap.String("type", tab.Type),
			zap.String("devspec", devspec),
			zap.Int("count", len(result.Devices)),
		)
	}

	return snap, nil
}
