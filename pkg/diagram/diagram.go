// Package diagram defines the entity-relationship diagram model: nodes
// (positioned entity boxes), edges (relationships between them), and the
// read-only snapshot repository that geometry computation consumes.
//
// The model is deliberately passive. Nodes and edges are created and
// destroyed by whoever owns the diagram (the API layer, the pipeline, or
// an interactive frontend); this package only describes their current
// state. Geometry derived from a snapshot is computed by
// [github.com/Jaganpro/sf-schema-viewer/pkg/diagram/route].
package diagram

import (
	"cmp"
	"slices"

	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

// Relationship kinds. Cascading relationships (master-detail) differ from
// lookups only in rendering style, never in geometry.
const (
	KindLookup    = "lookup"
	KindCascading = "cascading"
)

// Node is a single entity box on the diagram. Size is nil until the
// rendering layer has measured the box; an unmeasured node must not
// participate in geometry computation.
type Node struct {
	ID       string    `json:"id" bson:"id"`
	Label    string    `json:"label,omitempty" bson:"label,omitempty"`
	Position geo.Point `json:"position" bson:"position"`
	Size     *geo.Size `json:"size,omitempty" bson:"size,omitempty"`
	Fields   []string  `json:"fields,omitempty" bson:"fields,omitempty"`
}

// Measured reports whether the node has a rendered size.
func (n *Node) Measured() bool { return n != nil && n.Size != nil }

// Rect returns the node's rectangle. Only valid for measured nodes.
func (n *Node) Rect() geo.Rect {
	r := geo.Rect{Position: n.Position}
	if n.Size != nil {
		r.Size = *n.Size
	}
	return r
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed relationship between two nodes. FieldName is the
// reference field the relationship originates from; the cardinality
// strings annotate each end ("1", "n").
type Edge struct {
	ID                string `json:"id" bson:"id"`
	SourceID          string `json:"source_id" bson:"source_id"`
	TargetID          string `json:"target_id" bson:"target_id"`
	Kind              string `json:"kind" bson:"kind"`
	FieldName         string `json:"field_name,omitempty" bson:"field_name,omitempty"`
	SourceCardinality string `json:"source_cardinality,omitempty" bson:"source_cardinality,omitempty"`
	TargetCardinality string `json:"target_cardinality,omitempty" bson:"target_cardinality,omitempty"`
}

// IsSelfReference reports whether the edge connects a node to itself.
// Self-referential edges receive full geometry but renderers suppress
// their cardinality labels.
func (e *Edge) IsSelfReference() bool { return e.SourceID == e.TargetID }

// Repository is a read-only view of a diagram at one instant. Geometry
// functions take a Repository instead of reaching into live application
// state, so a computation sees one consistent snapshot even while the
// owning store mutates nodes between calls.
type Repository interface {
	// Node returns the node with the given ID, or false if unknown.
	Node(id string) (*Node, bool)

	// Nodes returns all nodes in the snapshot.
	Nodes() []*Node

	// Edges returns all edges in the snapshot.
	Edges() []*Edge
}

// Snapshot is the standard Repository implementation, built once from
// node and edge slices and immutable afterwards.
type Snapshot struct {
	nodes []*Node
	edges []*Edge
	byID  map[string]*Node
}

// NewSnapshot builds a snapshot from the given nodes and edges. The
// slices are copied and sorted by ID so two snapshots of the same
// diagram are structurally identical regardless of input order.
func NewSnapshot(nodes []*Node, edges []*Edge) *Snapshot {
	s := &Snapshot{
		nodes: slices.Clone(nodes),
		edges: slices.Clone(edges),
		byID:  make(map[string]*Node, len(nodes)),
	}
	slices.SortFunc(s.nodes, func(a, b *Node) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(s.edges, func(a, b *Edge) int { return cmp.Compare(a.ID, b.ID) })
	for _, n := range s.nodes {
		s.byID[n.ID] = n
	}
	return s
}

// Node returns the node with the given ID.
func (s *Snapshot) Node(id string) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Nodes returns all nodes sorted by ID.
func (s *Snapshot) Nodes() []*Node { return s.nodes }

// Edges returns all edges sorted by ID.
func (s *Snapshot) Edges() []*Edge { return s.edges }

// Ensure Snapshot implements Repository.
var _ Repository = (*Snapshot)(nil)
