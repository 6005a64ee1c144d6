package planner

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// defaultTopologyYAML describes the LIRR/Amtrak network pair joined at
// New York Penn. It ships embedded so the binaries run without any config
// file; NETWORKS_CONFIG points at an override.
//
//go:embed networks.yml
var defaultTopologyYAML []byte

// NetworkConfig is the per-network planning configuration. Hub lists, alias
// tables, and dwell constants are data here, not code paths: both networks run
// through the same engine.
type NetworkConfig struct {
	Tag  string `yaml:"tag" validate:"required"`
	Role string `yaml:"role" validate:"required,oneof=commuter intercity"`

	// Aliases maps a logical station code to the physical platform ids that
	// represent it. Constant for the process lifetime.
	Aliases map[string][]string `yaml:"aliases"`

	// StationCodes are the user-facing codes that belong to this network.
	// Codes outside every network's list default to the commuter side.
	StationCodes []string `yaml:"station_codes"`

	// Hubs are the stop ids eligible as same-network transfer points,
	// searched in order.
	Hubs []string `yaml:"hubs"`

	TransferMinDwell int `yaml:"transfer_min_dwell"`
	TransferMaxDwell int `yaml:"transfer_max_dwell"`

	MaxResults int `yaml:"max_results"`

	// DedupBy selects the key that collapses feed duplicates: "departure"
	// (same clock departure = same physical train) or "trip".
	DedupBy string `yaml:"dedup_by" validate:"omitempty,oneof=departure trip"`

	// RankBy selects the sort key in depart_by mode: "arrival" or
	// "departure". arrive_by mode always ranks latest departure first.
	RankBy string `yaml:"rank_by" validate:"omitempty,oneof=arrival departure"`

	// LookupByRoute widens trip-detail lookups to accept route ids.
	LookupByRoute bool `yaml:"lookup_by_route"`

	// DefaultStatus, when set, is stamped on every leg of this network.
	DefaultStatus string `yaml:"default_status"`
}

// Resolve maps a user-facing station code to its canonical stop ids. Unknown
// codes pass through unchanged: the downstream query simply matches nothing.
func (n *NetworkConfig) Resolve(code string) []string {
	if ids, ok := n.Aliases[code]; ok {
		return ids
	}
	return []string{code}
}

// HasStation reports whether code is one of this network's own station codes.
func (n *NetworkConfig) HasStation(code string) bool {
	for _, c := range n.StationCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Topology is the full two-network layout around one shared terminal.
type Topology struct {
	// Terminal is the logical code of the station both networks serve.
	Terminal string          `yaml:"terminal" validate:"required"`
	Networks []NetworkConfig `yaml:"networks" validate:"required,len=2,dive"`
}

// Commuter returns the commuter-role network config.
func (t *Topology) Commuter() *NetworkConfig {
	return t.byRole("commuter")
}

// Intercity returns the intercity-role network config.
func (t *Topology) Intercity() *NetworkConfig {
	return t.byRole("intercity")
}

func (t *Topology) byRole(role string) *NetworkConfig {
	for i := range t.Networks {
		if t.Networks[i].Role == role {
			return &t.Networks[i]
		}
	}
	return nil
}

// LoadTopology reads and validates a topology file, falling back to the
// embedded default when path is empty.
func LoadTopology(path string) (*Topology, error) {
	data := defaultTopologyYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read topology config: %w", err)
		}
		data = b
	}

	var topo Topology
	if err := yaml.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("failed to parse topology config: %w", err)
	}

	v := validator.New()
	if err := v.Struct(&topo); err != nil {
		return nil, fmt.Errorf("invalid topology config: %w", err)
	}
	if topo.Commuter() == nil || topo.Intercity() == nil {
		return nil, fmt.Errorf("topology config must define one commuter and one intercity network")
	}

	return &topo, nil
}
