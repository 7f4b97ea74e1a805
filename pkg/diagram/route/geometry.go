package route

import (
	"fmt"
	"math"

	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

const (
	// cardinalityOffset is how far cardinality labels sit outside the
	// node boundary, along the anchor's facing direction.
	cardinalityOffset = 25.0

	// controlScale sets the bezier control point distance as a fraction
	// of the anchor-to-anchor distance.
	controlScale = 0.4

	// minControl keeps short edges (and self-references) visibly curved.
	minControl = 30.0
)

// Anchor is the point where an edge touches a node boundary, together
// with the side it emerges from.
type Anchor struct {
	Point geo.Point `json:"point" bson:"point"`
	Side  geo.Side  `json:"-" bson:"-"`
}

// Geometry is the full routed shape of one edge: the two anchors, the
// cubic bezier control points between them, and the label positions.
type Geometry struct {
	Source   Anchor    `json:"source" bson:"source"`
	Target   Anchor    `json:"target" bson:"target"`
	Control1 geo.Point `json:"control1" bson:"control1"`
	Control2 geo.Point `json:"control2" bson:"control2"`

	// LabelAnchor is the curve midpoint, where the field name is drawn.
	LabelAnchor geo.Point `json:"label_anchor" bson:"label_anchor"`

	// Cardinality anchors sit cardinalityOffset units outside each
	// connection point. Renderers suppress them for self-references.
	SourceCardinalityAnchor geo.Point `json:"source_cardinality_anchor" bson:"source_cardinality_anchor"`
	TargetCardinalityAnchor geo.Point `json:"target_cardinality_anchor" bson:"target_cardinality_anchor"`
}

// Path returns the geometry as an SVG cubic bezier path.
func (g *Geometry) Path() string {
	return fmt.Sprintf("M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f",
		g.Source.Point.X, g.Source.Point.Y,
		g.Control1.X, g.Control1.Y,
		g.Control2.X, g.Control2.Y,
		g.Target.Point.X, g.Target.Point.Y)
}

// Compute routes a single edge against the current snapshot. It returns
// nil when either endpoint is unknown or not yet measured; that is the
// normal state before the rendering layer reports sizes, so callers
// skip the edge for this pass rather than treating it as an error.
//
// The result is a pure function of (edge, repo): no state is kept
// between calls, and shuffling the snapshot's edge order does not
// change any coordinate.
func Compute(e *diagram.Edge, repo diagram.Repository) *Geometry {
	src, ok := repo.Node(e.SourceID)
	if !ok || !src.Measured() {
		return nil
	}
	dst, ok := repo.Node(e.TargetID)
	if !ok || !dst.Measured() {
		return nil
	}

	sourceSide, targetSide := Sides(src.Rect(), dst.Rect())

	g := &Geometry{
		Source: Anchor{
			Point: anchorFor(e, src, sourceSide, RoleSource, repo),
			Side:  sourceSide,
		},
		Target: Anchor{
			Point: anchorFor(e, dst, targetSide, RoleTarget, repo),
			Side:  targetSide,
		},
	}

	ctrl := controlDistance(g.Source.Point, g.Target.Point)
	g.Control1 = offsetAlong(g.Source.Point, sourceSide, ctrl)
	g.Control2 = offsetAlong(g.Target.Point, targetSide, ctrl)
	g.LabelAnchor = g.pointAt(0.5)
	g.SourceCardinalityAnchor = offsetAlong(g.Source.Point, sourceSide, cardinalityOffset)
	g.TargetCardinalityAnchor = offsetAlong(g.Target.Point, targetSide, cardinalityOffset)

	return g
}

// ComputeAll routes every edge in the snapshot, keyed by edge ID. Edges
// with unmeasured endpoints are absent from the result.
func ComputeAll(repo diagram.Repository) map[string]*Geometry {
	out := make(map[string]*Geometry, len(repo.Edges()))
	for _, e := range repo.Edges() {
		if g := Compute(e, repo); g != nil {
			out[e.ID] = g
		}
	}
	return out
}

// pointAt evaluates the cubic bezier at parameter t in [0, 1].
func (g *Geometry) pointAt(t float64) geo.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return geo.Point{
		X: a*g.Source.Point.X + b*g.Control1.X + c*g.Control2.X + d*g.Target.Point.X,
		Y: a*g.Source.Point.Y + b*g.Control1.Y + c*g.Control2.Y + d*g.Target.Point.Y,
	}
}

// controlDistance scales the control point reach with the anchor
// distance, clamped so short edges still bow outward.
func controlDistance(a, b geo.Point) float64 {
	d := math.Hypot(b.X-a.X, b.Y-a.Y) * controlScale
	return math.Max(d, minControl)
}

// offsetAlong moves a point outward from the node along a side's facing
// direction: right-facing +x, left-facing -x, top-facing -y,
// bottom-facing +y.
func offsetAlong(p geo.Point, side geo.Side, dist float64) geo.Point {
	switch side {
	case geo.Left:
		return geo.Point{X: p.X - dist, Y: p.Y}
	case geo.Right:
		return geo.Point{X: p.X + dist, Y: p.Y}
	case geo.Top:
		return geo.Point{X: p.X, Y: p.Y - dist}
	default:
		return geo.Point{X: p.X, Y: p.Y + dist}
	}
}
