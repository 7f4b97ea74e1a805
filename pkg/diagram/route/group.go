package route

import (
	"cmp"
	"slices"

	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

// Distribute returns the edges that attach to the given side of a node
// in the given role, in their stable visual order. The order is a total
// order over (other endpoint ID, field name, edge ID), so the result is
// identical no matter how the snapshot's edge slice happens to be
// ordered and no matter when each edge was created.
func Distribute(repo diagram.Repository, nodeID string, side geo.Side, role Role) []*diagram.Edge {
	var group []*diagram.Edge
	for _, e := range repo.Edges() {
		if endpointID(e, role) != nodeID {
			continue
		}
		if sideFor(e, role, repo) != side {
			continue
		}
		group = append(group, e)
	}

	slices.SortFunc(group, func(a, b *diagram.Edge) int {
		if c := cmp.Compare(otherEndpointID(a, role), otherEndpointID(b, role)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.FieldName, b.FieldName); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return group
}

// anchorFor computes the point where an edge touches the node boundary.
// A lone edge keeps the side midpoint. A group of N edges is spread at
// offsets L/(N+1)*(i+1) along the side, which never touches a corner
// and spaces the anchors evenly regardless of N.
func anchorFor(e *diagram.Edge, node *diagram.Node, side geo.Side, role Role, repo diagram.Repository) geo.Point {
	rect := node.Rect()
	group := Distribute(repo, node.ID, side, role)
	if len(group) <= 1 {
		return rect.SideMidpoint(side)
	}

	idx := slices.IndexFunc(group, func(g *diagram.Edge) bool { return g.ID == e.ID })
	if idx < 0 {
		return rect.SideMidpoint(side)
	}

	step := rect.SideLength(side) / float64(len(group)+1)
	return rect.PointOnSide(side, step*float64(idx+1))
}

func endpointID(e *diagram.Edge, role Role) string {
	if role == RoleSource {
		return e.SourceID
	}
	return e.TargetID
}

func otherEndpointID(e *diagram.Edge, role Role) string {
	if role == RoleSource {
		return e.TargetID
	}
	return e.SourceID
}
