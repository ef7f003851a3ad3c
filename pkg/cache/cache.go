// Package cache provides content-addressed caching for pipeline stages.
//
// Each stage of the visualization pipeline (resolve, layout, render) can
// cache its output keyed by a hash of its inputs. The key schema lives in
// Keyer so every backend shares the same addressing.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of zero means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per pipeline stage. Resolution is cheap and deterministic,
// so its entries live shortest; rendered artifacts are the most expensive
// to recompute.
const (
	GraphTTL    = 24 * time.Hour
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// LayoutKeyOpts are the layout parameters that affect cache identity.
type LayoutKeyOpts struct {
	CharWidth      float64 `json:"char_width"`
	Padding        float64 `json:"padding"`
	Margin         float64 `json:"margin"`
	AlignThreshold float64 `json:"align_threshold"`
}

// ArtifactKeyOpts are the render parameters that affect cache identity.
type ArtifactKeyOpts struct {
	VizType string `json:"viz_type"`
	Format  string `json:"format"`
}

// Keyer generates cache keys for pipeline outputs.
type Keyer interface {
	// GraphKey keys a resolved graph by the hash of its source text.
	GraphKey(sourceHash string) string

	// LayoutKey keys a computed layout by graph hash and layout options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by layout hash and render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer implements the standard key schema.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for resolved-graph caching.
func (k *DefaultKeyer) GraphKey(sourceHash string) string {
	return hashKey("graph", sourceHash)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
