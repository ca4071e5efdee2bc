// Package catalog holds the static table of regions to render.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

// DefaultBufferDeg is the outward fetch buffer in degrees, roughly 2 km
// at Mexican latitudes. Wide enough to catch roads that weave across the
// border; everything outside the true boundary is clipped away later.
const DefaultBufferDeg = 0.02

// Region is one first-level administrative division.
type Region struct {
	Code  string `yaml:"code"`
	Name  string `yaml:"name"`
	Query string `yaml:"query"`

	// BufferDeg overrides DefaultBufferDeg when > 0. Jalisco and
	// Tabasco need 0.1 or edge roads get truncated.
	BufferDeg float64 `yaml:"buffer_deg"`

	// KeepLargest reduces the boundary to its largest polygon before
	// clipping, dropping tiny offshore islets (Colima).
	KeepLargest bool `yaml:"keep_largest"`
}

// FetchBuffer returns the effective fetch buffer for the region.
func (r Region) FetchBuffer() float64 {
	if r.BufferDeg > 0 {
		return r.BufferDeg
	}
	return DefaultBufferDeg
}

// Load parses the embedded region table. The table is read-only; callers
// iterate it in order.
func Load() ([]Region, error) {
	var doc struct {
		Regions []Region `yaml:"regions"`
	}
	if err := yaml.Unmarshal(regionsYAML, &doc); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if len(doc.Regions) == 0 {
		return nil, fmt.Errorf("catalog: no regions defined")
	}
	seen := make(map[string]bool, len(doc.Regions))
	for _, r := range doc.Regions {
		if r.Code == "" || r.Name == "" || r.Query == "" {
			return nil, fmt.Errorf("catalog: incomplete entry %+v", r)
		}
		if seen[r.Code] {
			return nil, fmt.Errorf("catalog: duplicate code %s", r.Code)
		}
		seen[r.Code] = true
	}
	return doc.Regions, nil
}
