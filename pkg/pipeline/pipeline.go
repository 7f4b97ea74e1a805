// Package pipeline provides the core diagram pipeline for the schema
// viewer.
//
// This package implements the complete fetch → graph → layout → render
// pipeline shared by the CLI and API components. By centralizing this
// logic, both entry points behave identically and caching happens in one
// place.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Fetch: Describe the selected objects against the org (with caching)
//  2. Graph: Derive diagram nodes and edges from the describes
//  3. Layout: Estimate box sizes, position boxes via Graphviz, reserve
//     height for edge anchors
//  4. Render: Generate output artifacts (SVG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Jaganpro/sf-schema-viewer/pkg/cache"
	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/errors"
	"github.com/Jaganpro/sf-schema-viewer/pkg/schema"
)

// Limits and defaults shared by CLI and API.
const (
	// MaxObjects bounds one diagram request; describing hundreds of
	// objects per request would hammer the org's API limits.
	MaxObjects = 50
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Fetch options
	Objects    []string `json:"objects"`
	APIVersion string   `json:"api_version,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`

	// Render options
	Formats           []string `json:"formats,omitempty"`
	ShowFields        bool     `json:"show_fields,omitempty"`
	ShowLabels        bool     `json:"show_labels,omitempty"`
	ShowCardinalities bool     `json:"show_cardinalities,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Describes holds the fetched object metadata, including per-object
	// errors for objects that could not be described.
	Describes *schema.BatchResult

	// Nodes and Edges are the positioned diagram model.
	Nodes []*diagram.Node
	Edges []*diagram.Edge

	// GraphHash is the content hash of the diagram model, used for cache
	// keys and change detection.
	GraphHash string

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
	FetchTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the positioned layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.Objects) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one object is required")
	}
	if len(o.Objects) > MaxObjects {
		return errors.New(errors.ErrCodeInvalidInput,
			"too many objects: %d (limit %d)", len(o.Objects), MaxObjects)
	}
	for _, name := range o.Objects {
		if err := errors.ValidateObjectName(name); err != nil {
			return err
		}
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  renderStyle(o),
	}
}

// renderStyle folds the render toggles into a cache key component.
func renderStyle(o *Options) string {
	s := ""
	if o.ShowFields {
		s += "f"
	}
	if o.ShowLabels {
		s += "l"
	}
	if o.ShowCardinalities {
		s += "c"
	}
	return s
}
