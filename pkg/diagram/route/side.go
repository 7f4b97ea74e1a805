// Package route computes edge geometry for entity-relationship diagrams:
// which side of each node an edge attaches to, where along that side it
// attaches when several edges share it, the bezier path between the two
// anchor points, and the minimum node height needed to keep a side's
// anchors inside the node.
//
// Every function here is a pure function of a [diagram.Repository]
// snapshot. Nothing is cached or mutated, so results are deterministic
// for a fixed snapshot and safe to recompute from scratch after any
// drag, resize, or topology change.
package route

import (
	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

// Role distinguishes which end of an edge a node plays when grouping
// edges on a side. Source-side and target-side groups of the same
// (node, side) pair are distributed independently.
type Role int

// Edge endpoint roles.
const (
	RoleSource Role = iota
	RoleTarget
)

// Sides resolves the attachment sides for an edge between two measured
// rectangles. The source side is the side of src facing dst; the target
// side is the opposite side of dst, facing back at src.
func Sides(src, dst geo.Rect) (sourceSide, targetSide geo.Side) {
	sourceSide = geo.DirectionBetween(src, dst)
	return sourceSide, sourceSide.Opposite()
}

// sideFor classifies the attachment side of an edge from the given
// node's perspective. Unmeasured endpoints fall back to geo.Left, the
// "geometry not ready" placeholder; callers computing real geometry
// must check Measured first.
func sideFor(e *diagram.Edge, role Role, repo diagram.Repository) geo.Side {
	src, okS := repo.Node(e.SourceID)
	dst, okT := repo.Node(e.TargetID)
	if !okS || !okT || !src.Measured() || !dst.Measured() {
		return geo.Left
	}
	sourceSide, targetSide := Sides(src.Rect(), dst.Rect())
	if role == RoleSource {
		return sourceSide
	}
	return targetSide
}

// SideCounts records how many edges attach to each side of a node.
type SideCounts struct {
	Left   int `json:"left" bson:"left"`
	Right  int `json:"right" bson:"right"`
	Top    int `json:"top" bson:"top"`
	Bottom int `json:"bottom" bson:"bottom"`
}

func (c *SideCounts) add(s geo.Side) {
	switch s {
	case geo.Left:
		c.Left++
	case geo.Right:
		c.Right++
	case geo.Top:
		c.Top++
	default:
		c.Bottom++
	}
}

// CountSides derives per-side incident edge counts for a node by
// classifying every connected edge from that node's perspective. A
// self-referential edge contributes once per role, since it occupies an
// anchor on both of its sides.
func CountSides(nodeID string, repo diagram.Repository) SideCounts {
	var counts SideCounts
	for _, e := range repo.Edges() {
		if e.SourceID == nodeID {
			counts.add(sideFor(e, RoleSource, repo))
		}
		if e.TargetID == nodeID {
			counts.add(sideFor(e, RoleTarget, repo))
		}
	}
	return counts
}
