package schema

import (
	"fmt"
	"sort"

	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
)

// Cardinality labels for relationship ends. The object holding the
// reference field is the "many" side; the referenced object is the "one"
// side.
const (
	CardinalityOne  = "1"
	CardinalityMany = "n"
)

// BuildDiagram converts object describes into diagram nodes and edges.
//
// One node is created per describe. One edge is created per reference
// field whose target is also among the describes; references to objects
// outside the set are dropped, so partial selections never produce
// dangling edges. Polymorphic references (referenceTo with multiple
// targets) produce one edge per in-set target.
//
// Self-lookups (an object referencing itself, like Account.ParentId) are
// preserved as self-referential edges.
//
// Edge kind is cascading when the field is master-detail or the parent
// reports cascadeDelete for the child relationship; otherwise lookup.
func BuildDiagram(describes []ObjectDescribe) ([]*diagram.Node, []*diagram.Edge) {
	byName := make(map[string]*ObjectDescribe, len(describes))
	for i := range describes {
		byName[describes[i].Name] = &describes[i]
	}

	nodes := make([]*diagram.Node, 0, len(describes))
	var edges []*diagram.Edge

	for i := range describes {
		d := &describes[i]
		nodes = append(nodes, &diagram.Node{
			ID:     d.Name,
			Label:  d.Label,
			Fields: fieldSummaries(d),
		})

		for j := range d.Fields {
			f := &d.Fields[j]
			if !f.IsReference() {
				continue
			}
			for _, target := range f.ReferenceTo {
				parent, ok := byName[target]
				if !ok {
					continue
				}
				edges = append(edges, &diagram.Edge{
					ID:                fmt.Sprintf("%s.%s->%s", d.Name, f.Name, target),
					SourceID:          d.Name,
					TargetID:          target,
					Kind:              edgeKind(f, parent, d.Name),
					FieldName:         f.Name,
					SourceCardinality: CardinalityMany,
					TargetCardinality: CardinalityOne,
				})
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return nodes, edges
}

// edgeKind classifies a reference field. The field's relationshipOrder is
// authoritative; the parent's child-relationship cascadeDelete flag covers
// standard objects where the describe omits the order.
func edgeKind(f *FieldInfo, parent *ObjectDescribe, childName string) string {
	if f.IsMasterDetail() {
		return diagram.KindCascading
	}
	for i := range parent.ChildRelationships {
		rel := &parent.ChildRelationships[i]
		if rel.ChildObject == childName && rel.Field == f.Name && rel.CascadeDelete {
			return diagram.KindCascading
		}
	}
	return diagram.KindLookup
}

// fieldSummaries formats the field list shown inside a node box.
func fieldSummaries(d *ObjectDescribe) []string {
	out := make([]string, 0, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		out = append(out, fmt.Sprintf("%s: %s", f.Name, f.Type))
	}
	return out
}
