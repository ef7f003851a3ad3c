// Package pipeline provides the core visualization pipeline for memviz.
//
// The pipeline turns declaration source text into rendered diagrams in
// three stages:
//
//  1. Resolve: parse declarations into a typed memory-object graph
//  2. Layout: compute a position for every object
//  3. Render: generate output in various formats (SVG, PNG, DOT, JSON)
//
// The same Runner serves the CLI and the HTTP service, so caching and
// stage semantics stay consistent across entry points. Each stage can be
// run on its own or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "int x = 42; int* p = &x;",
//	    VizType: "boxes",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pkranz/memviz/pkg/cache"
	"github.com/pkranz/memviz/pkg/errors"
	"github.com/pkranz/memviz/pkg/layout"
	"github.com/pkranz/memviz/pkg/memory"
)

// Visualization types.
const (
	VizTypeBoxes    = "boxes"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is used when no visualization type is requested.
const DefaultVizType = VizTypeBoxes

// Output format constants.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeBoxes:    true,
	VizTypeNodelink: true,
}

// Options contains all configuration for the visualization pipeline.
// The struct supports JSON serialization for API requests.
type Options struct {
	// Resolve options
	Source  string `json:"source"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	CharWidth      float64 `json:"char_width,omitempty"`
	Padding        float64 `json:"padding,omitempty"`
	Margin         float64 `json:"margin,omitempty"`
	AlignThreshold float64 `json:"align_threshold,omitempty"`

	// Render options
	VizType string   `json:"viz_type,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the resolved memory-object graph.
	Graph *memory.Graph

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// Layout maps each object address to its position.
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ObjectCount int
	EdgeCount   int
	ResolveTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ResolveHit bool // whether the resolved graph came from cache
	LayoutHit  bool // whether the layout came from cache
	RenderHit  bool // whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType,
			"invalid viz_type: %q (must be one of: boxes, nodelink)", vizType)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForResolve(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForResolve checks required fields for resolution.
func (o *Options) ValidateForResolve() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults fills in layout defaults. Zero fields keep the layout
// engine's own defaults, so only the logger needs attention here.
func (o *Options) SetLayoutDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults fills in render defaults.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// ApplyDefaults fills unset layout and render fields from d. Values that
// are already set (flags, request fields) win over the defaults.
func (o *Options) ApplyDefaults(d Options) {
	if o.CharWidth == 0 {
		o.CharWidth = d.CharWidth
	}
	if o.Padding == 0 {
		o.Padding = d.Padding
	}
	if o.Margin == 0 {
		o.Margin = d.Margin
	}
	if o.AlignThreshold == 0 {
		o.AlignThreshold = d.AlignThreshold
	}
	if o.VizType == "" {
		o.VizType = d.VizType
	}
	if len(o.Formats) == 0 && len(d.Formats) > 0 {
		o.Formats = append([]string(nil), d.Formats...)
	}
}

// LayoutOptions converts the layout fields to engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		CharWidth:      o.CharWidth,
		Padding:        o.Padding,
		Margin:         o.Margin,
		AlignThreshold: o.AlignThreshold,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	resolved := o.LayoutOptions()
	return cache.LayoutKeyOpts{
		CharWidth:      resolved.CharWidth,
		Padding:        resolved.Padding,
		Margin:         resolved.Margin,
		AlignThreshold: resolved.AlignThreshold,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		VizType: o.VizType,
		Format:  format,
	}
}
