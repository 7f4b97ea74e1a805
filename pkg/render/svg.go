// Package render turns a routed diagram into output artifacts: an SVG
// document for display and a JSON layout for frontend interchange.
//
// Rendering is a pure function of the diagram snapshot plus the edge
// geometry computed by [github.com/Jaganpro/sf-schema-viewer/pkg/diagram/route];
// nothing here mutates the diagram.
package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram/route"
)

const margin = 40.0

const diagramCSS = `
    .entity { fill: #ffffff; stroke: #2b2d42; stroke-width: 1.5; }
    .entity-header { fill: #2b2d42; }
    .entity-title { fill: #ffffff; font-weight: 600; }
    .entity-field { fill: #40414f; }
    .edge-lookup { fill: none; stroke: #7d8597; stroke-width: 1.5; }
    .edge-cascading { fill: none; stroke: #2b2d42; stroke-width: 2.5; }
    .edge-label { fill: #40414f; font-style: italic; }
    .cardinality { fill: #7d8597; font-weight: 600; }
    text { font-family: ui-sans-serif, system-ui, sans-serif; font-size: 12px; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	showFields        bool
	showLabels        bool
	showCardinalities bool
}

// WithFields includes field rows inside entity boxes.
func WithFields() SVGOption { return func(r *svgRenderer) { r.showFields = true } }

// WithLabels includes relationship field names at curve midpoints.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.showLabels = true } }

// WithCardinalities includes cardinality markers near each endpoint.
// Self-referential edges never get markers regardless of this option.
func WithCardinalities() SVGOption { return func(r *svgRenderer) { r.showCardinalities = true } }

// RenderSVG renders the diagram to an SVG document. Unmeasured nodes are
// drawn without edges (their geometry is absent); fully dangling edges are
// skipped silently.
func RenderSVG(repo diagram.Repository, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	geometries := route.ComputeAll(repo)
	width, height := frameSize(repo)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", diagramCSS)

	// Edges under nodes so box borders stay crisp.
	for _, e := range repo.Edges() {
		g, ok := geometries[e.ID]
		if !ok || g == nil {
			continue
		}
		r.renderEdge(&buf, e, g)
	}
	for _, n := range repo.Nodes() {
		r.renderNode(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// frameSize computes the drawing bounds from measured nodes plus a margin.
func frameSize(repo diagram.Repository) (w, h float64) {
	for _, n := range repo.Nodes() {
		if !n.Measured() {
			continue
		}
		rect := n.Rect()
		if right := rect.Position.X + rect.Size.Width; right > w {
			w = right
		}
		if bottom := rect.Position.Y + rect.Size.Height; bottom > h {
			h = bottom
		}
	}
	return w + margin, h + margin
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n *diagram.Node) {
	if !n.Measured() {
		return
	}
	rect := n.Rect()
	x, y := rect.Position.X, rect.Position.Y
	w, h := rect.Size.Width, rect.Size.Height

	fmt.Fprintf(buf, `  <g id="entity-%s">`+"\n", html.EscapeString(n.ID))
	fmt.Fprintf(buf, `    <rect class="entity" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4"/>`+"\n", x, y, w, h)
	fmt.Fprintf(buf, `    <rect class="entity-header" x="%.1f" y="%.1f" width="%.1f" height="24" rx="4"/>`+"\n", x, y, w)
	fmt.Fprintf(buf, `    <text class="entity-title" x="%.1f" y="%.1f">%s</text>`+"\n",
		x+8, y+16, html.EscapeString(n.DisplayLabel()))

	if r.showFields {
		rowY := y + 40
		for _, f := range n.Fields {
			if rowY > y+h-6 {
				break
			}
			fmt.Fprintf(buf, `    <text class="entity-field" x="%.1f" y="%.1f">%s</text>`+"\n",
				x+8, rowY, html.EscapeString(f))
			rowY += 18
		}
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderEdge(buf *bytes.Buffer, e *diagram.Edge, g *route.Geometry) {
	class := "edge-lookup"
	if e.Kind == diagram.KindCascading {
		class = "edge-cascading"
	}
	fmt.Fprintf(buf, `  <path id="edge-%s" class="%s" d="%s"/>`+"\n",
		html.EscapeString(e.ID), class, g.Path())

	if r.showLabels && e.FieldName != "" {
		fmt.Fprintf(buf, `  <text class="edge-label" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
			g.LabelAnchor.X, g.LabelAnchor.Y-4, html.EscapeString(e.FieldName))
	}

	// Cardinality markers never apply to self-references; both ends sit on
	// the same box and the markers would overlap it.
	if r.showCardinalities && !e.IsSelfReference() {
		if e.SourceCardinality != "" {
			fmt.Fprintf(buf, `  <text class="cardinality" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
				g.SourceCardinalityAnchor.X, g.SourceCardinalityAnchor.Y, html.EscapeString(e.SourceCardinality))
		}
		if e.TargetCardinality != "" {
			fmt.Fprintf(buf, `  <text class="cardinality" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
				g.TargetCardinalityAnchor.X, g.TargetCardinalityAnchor.Y, html.EscapeString(e.TargetCardinality))
		}
	}
}
