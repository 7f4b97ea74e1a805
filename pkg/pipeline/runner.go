package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Jaganpro/sf-schema-viewer/pkg/cache"
	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram/route"
	"github.com/Jaganpro/sf-schema-viewer/pkg/layout"
	"github.com/Jaganpro/sf-schema-viewer/pkg/observability"
	"github.com/Jaganpro/sf-schema-viewer/pkg/render"
	"github.com/Jaganpro/sf-schema-viewer/pkg/schema"
)

// Describer fetches object metadata. *salesforce.Client satisfies this;
// tests substitute a fixture-backed implementation.
type Describer interface {
	DescribeObjects(ctx context.Context, names []string) (*schema.BatchResult, error)
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete fetch → graph → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, d Describer, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Fetch
	fetchStart := time.Now()
	observability.Pipeline().OnFetchStart(ctx, opts.Objects)
	describes, err := d.DescribeObjects(ctx, opts.Objects)
	observability.Pipeline().OnFetchComplete(ctx, opts.Objects, time.Since(fetchStart), err)
	if err != nil {
		return nil, fmt.Errorf("fetch describes: %w", err)
	}
	result.Describes = describes
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.ObjectCount = len(describes.Results)

	r.Logger.Info("fetched describes",
		"objects", len(describes.Results),
		"errors", len(describes.Errors),
		"duration", result.Stats.FetchTime)

	// Stage 2: Graph
	nodes, edges := schema.BuildDiagram(describes.Results)
	result.Stats.EdgeCount = len(edges)

	// Stage 3: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(nodes), len(edges))
	nodes, layoutHit, err := r.layoutWithCache(ctx, nodes, edges, opts)
	observability.Pipeline().OnLayoutComplete(ctx, time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Nodes = nodes
	result.Edges = edges
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit
	result.GraphHash = graphHash(nodes, edges)

	r.Logger.Info("computed layout",
		"nodes", len(nodes),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.renderWithCache(ctx, nodes, edges, result.GraphHash, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout estimates sizes, positions boxes, and reserves anchor height.
// Exposed for callers that already hold describes (the API's diagram
// endpoint re-layouts after client-side selection changes).
func (r *Runner) Layout(ctx context.Context, nodes []*diagram.Node, edges []*diagram.Edge) error {
	layout.EstimateAll(nodes)
	if err := layout.Compute(ctx, nodes, edges); err != nil {
		return err
	}
	reserveAnchorHeight(nodes, edges)
	return nil
}

// layoutWithCache positions nodes, consulting the cache first. The cache
// key derives from the unpositioned graph, so an identical object
// selection reuses the previous layout.
func (r *Runner) layoutWithCache(ctx context.Context, nodes []*diagram.Node, edges []*diagram.Edge, opts Options) ([]*diagram.Node, bool, error) {
	key := r.Keyer.LayoutKey(graphHash(nodes, edges), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached []*diagram.Node
			if err := json.Unmarshal(data, &cached); err == nil && len(cached) == len(nodes) {
				return cached, true, nil
			}
		}
	}

	if err := r.Layout(ctx, nodes, edges); err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(nodes); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLLayout)
	}
	return nodes, false, nil
}

// renderWithCache renders the requested formats, consulting the cache
// per format.
func (r *Runner) renderWithCache(ctx context.Context, nodes []*diagram.Node, edges []*diagram.Edge, hash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte)
	allCached := true

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		allCached = false

		data, err := r.renderFormat(nodes, edges, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	}

	return artifacts, allCached, nil
}

func (r *Runner) renderFormat(nodes []*diagram.Node, edges []*diagram.Edge, format string, opts Options) ([]byte, error) {
	repo := diagram.NewSnapshot(nodes, edges)
	switch format {
	case FormatSVG:
		var svgOpts []render.SVGOption
		if opts.ShowFields {
			svgOpts = append(svgOpts, render.WithFields())
		}
		if opts.ShowLabels {
			svgOpts = append(svgOpts, render.WithLabels())
		}
		if opts.ShowCardinalities {
			svgOpts = append(svgOpts, render.WithCardinalities())
		}
		return render.RenderSVG(repo, svgOpts...), nil
	case FormatJSON:
		return render.RenderJSON(repo)
	case FormatDOT:
		return []byte(layout.ToDOT(nodes, edges)), nil
	default:
		return nil, ValidateFormat(format)
	}
}

// reserveAnchorHeight grows each node to the minimum height its edge
// load requires, so anchors on a loaded side stay spaced apart.
func reserveAnchorHeight(nodes []*diagram.Node, edges []*diagram.Edge) {
	repo := diagram.NewSnapshot(nodes, edges)
	for _, n := range nodes {
		if !n.Measured() {
			continue
		}
		min := route.MinHeight(route.CountSides(n.ID, repo))
		if n.Size.Height < min {
			n.Size.Height = min
		}
	}
}

// graphHash derives a stable content hash of the diagram model. Snapshot
// ordering makes the serialization independent of input order.
func graphHash(nodes []*diagram.Node, edges []*diagram.Edge) string {
	repo := diagram.NewSnapshot(nodes, edges)
	payload := struct {
		Nodes []*diagram.Node `json:"nodes"`
		Edges []*diagram.Edge `json:"edges"`
	}{repo.Nodes(), repo.Edges()}

	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
