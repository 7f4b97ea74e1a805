package render

import (
	"encoding/json"

	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram/route"
	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

// jsonOutput is the layout interchange document consumed by the frontend:
// positioned nodes plus fully routed edge geometry, so the client can draw
// without recomputing anything.
type jsonOutput struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Nodes  []jsonNode `json:"nodes"`
	Edges  []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Position geo.Point `json:"position"`
	Size     *geo.Size `json:"size,omitempty"`
	Fields   []string  `json:"fields,omitempty"`
}

type jsonEdge struct {
	ID                string          `json:"id"`
	SourceID          string          `json:"source_id"`
	TargetID          string          `json:"target_id"`
	Kind              string          `json:"kind"`
	FieldName         string          `json:"field_name,omitempty"`
	SourceCardinality string          `json:"source_cardinality,omitempty"`
	TargetCardinality string          `json:"target_cardinality,omitempty"`
	SelfReference     bool            `json:"self_reference,omitempty"`
	Geometry          *route.Geometry `json:"geometry,omitempty"`
	Path              string          `json:"path,omitempty"`
}

// RenderJSON exports the diagram and its routed geometry as a
// pretty-printed JSON document. Edges whose geometry could not be computed
// (dangling or unmeasured endpoints) are included without a geometry so the
// frontend can still list the relationship.
func RenderJSON(repo diagram.Repository) ([]byte, error) {
	geometries := route.ComputeAll(repo)
	width, height := frameSize(repo)

	out := jsonOutput{
		Width:  width,
		Height: height,
		Nodes:  make([]jsonNode, 0, len(repo.Nodes())),
		Edges:  make([]jsonEdge, 0, len(repo.Edges())),
	}

	for _, n := range repo.Nodes() {
		out.Nodes = append(out.Nodes, jsonNode{
			ID:       n.ID,
			Label:    n.DisplayLabel(),
			Position: n.Position,
			Size:     n.Size,
			Fields:   n.Fields,
		})
	}

	for _, e := range repo.Edges() {
		je := jsonEdge{
			ID:                e.ID,
			SourceID:          e.SourceID,
			TargetID:          e.TargetID,
			Kind:              e.Kind,
			FieldName:         e.FieldName,
			SourceCardinality: e.SourceCardinality,
			TargetCardinality: e.TargetCardinality,
			SelfReference:     e.IsSelfReference(),
		}
		if g, ok := geometries[e.ID]; ok && g != nil {
			je.Geometry = g
			je.Path = g.Path()
		}
		out.Edges = append(out.Edges, je)
	}

	return json.MarshalIndent(out, "", "  ")
}
