// Package cache provides content-addressed caching for pipeline stages.
//
// # Overview
//
// Every stage of the line planning pipeline is a pure function of its
// input, so results can be cached by a hash of that input:
//
//   - Operations: normalized bulletin, keyed by the grid hash
//   - Layouts: balanced floor plan, keyed by operations hash and parameters
//   - Artifacts: rendered files, keyed by layout hash and format
//
// The [Cache] interface stores opaque bytes. Backends:
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching
//
// Key construction lives behind [Keyer] so that servers can namespace keys
// with [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values by key.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default time-to-live per stage.
const (
	TTLOperations = 7 * 24 * time.Hour
	TTLLayout     = 7 * 24 * time.Hour
	TTLArtifact   = 24 * time.Hour
)

// Keyer builds cache keys for pipeline stages.
type Keyer interface {
	// OperationsKey addresses the operations normalized from a grid.
	OperationsKey(gridHash string) string
	// LayoutKey addresses the layout generated from operations.
	LayoutKey(opsHash string, opts LayoutKeyOpts) string
	// ArtifactKey addresses a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout parameters that influence the result.
type LayoutKeyOpts struct {
	TargetOutput     int     `json:"target_output"`
	WorkingHours     float64 `json:"working_hours"`
	UnitTemplates    bool    `json:"unit_templates,omitempty"`
	TemplatesHash    string  `json:"templates_hash"`
}

// ArtifactKeyOpts are the render parameters that influence the result.
type ArtifactKeyOpts struct {
	Format         string  `json:"format"`
	Section        string  `json:"section,omitempty"`
	Detailed       bool    `json:"detailed,omitempty"`
	Scale          float64 `json:"scale,omitempty"`
	PixelsPerMeter float64 `json:"pixels_per_meter,omitempty"`
	NoLabels       bool    `json:"no_labels,omitempty"`
	Compact        bool    `json:"compact,omitempty"`
}

// DefaultKeyer hashes key options into stable keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// OperationsKey returns "ops:<grid hash>".
func (DefaultKeyer) OperationsKey(gridHash string) string {
	return "ops:" + gridHash
}

// LayoutKey hashes the operations hash together with the parameters.
func (DefaultKeyer) LayoutKey(opsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", opsHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
