package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

func testRepo() *diagram.Snapshot {
	size := geo.Size{Width: 100, Height: 80}
	nodes := []*diagram.Node{
		{ID: "Account", Label: "Account", Position: geo.Point{X: 0, Y: 0}, Size: &size,
			Fields: []string{"Id: id", "Name: string"}},
		{ID: "Contact", Label: "Contact", Position: geo.Point{X: 300, Y: 0}, Size: &size},
	}
	edges := []*diagram.Edge{
		{ID: "Contact.AccountId->Account", SourceID: "Contact", TargetID: "Account",
			Kind: diagram.KindLookup, FieldName: "AccountId",
			SourceCardinality: "n", TargetCardinality: "1"},
	}
	return diagram.NewSnapshot(nodes, edges)
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testRepo(), WithFields(), WithLabels(), WithCardinalities()))

	for _, want := range []string{
		"<svg xmlns",
		`id="entity-Account"`,
		`id="entity-Contact"`,
		`id="edge-Contact.AccountId-&gt;Account"`,
		"edge-lookup",
		"AccountId",
		`>n</text>`,
		`>1</text>`,
		"Name: string",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRenderSVG_CascadingClass(t *testing.T) {
	size := geo.Size{Width: 100, Height: 80}
	repo := diagram.NewSnapshot(
		[]*diagram.Node{
			{ID: "A", Position: geo.Point{X: 0, Y: 0}, Size: &size},
			{ID: "B", Position: geo.Point{X: 300, Y: 0}, Size: &size},
		},
		[]*diagram.Edge{
			{ID: "e1", SourceID: "B", TargetID: "A", Kind: diagram.KindCascading},
		},
	)
	svg := string(RenderSVG(repo))
	if !strings.Contains(svg, "edge-cascading") {
		t.Error("cascading edge should use the cascading class")
	}
}

func TestRenderSVG_SelfReferenceSuppressesCardinality(t *testing.T) {
	size := geo.Size{Width: 100, Height: 80}
	repo := diagram.NewSnapshot(
		[]*diagram.Node{{ID: "Account", Position: geo.Point{X: 0, Y: 0}, Size: &size}},
		[]*diagram.Edge{
			{ID: "self", SourceID: "Account", TargetID: "Account",
				Kind: diagram.KindLookup, SourceCardinality: "n", TargetCardinality: "1"},
		},
	)
	svg := string(RenderSVG(repo, WithCardinalities()))

	if !strings.Contains(svg, `id="edge-self"`) {
		t.Error("self-reference edge should still be drawn")
	}
	if strings.Contains(svg, `class="cardinality"`) {
		t.Error("self-reference cardinality markers should be suppressed")
	}
}

func TestRenderSVG_UnmeasuredNodeSkipped(t *testing.T) {
	size := geo.Size{Width: 100, Height: 80}
	repo := diagram.NewSnapshot(
		[]*diagram.Node{
			{ID: "A", Position: geo.Point{X: 0, Y: 0}, Size: &size},
			{ID: "B"}, // never measured
		},
		[]*diagram.Edge{{ID: "e1", SourceID: "B", TargetID: "A", Kind: diagram.KindLookup}},
	)
	svg := string(RenderSVG(repo))

	if strings.Contains(svg, `id="entity-B"`) {
		t.Error("unmeasured node should not be drawn")
	}
	if strings.Contains(svg, `id="edge-e1"`) {
		t.Error("edge with unmeasured endpoint should not be drawn")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testRepo())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Nodes  []struct {
			ID string `json:"id"`
		} `json:"nodes"`
		Edges []struct {
			ID       string          `json:"id"`
			Path     string          `json:"path"`
			Geometry json.RawMessage `json:"geometry"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(out.Nodes) != 2 || len(out.Edges) != 1 {
		t.Fatalf("nodes=%d edges=%d", len(out.Nodes), len(out.Edges))
	}
	if out.Edges[0].Geometry == nil {
		t.Error("routed edge should carry geometry")
	}
	if !strings.HasPrefix(out.Edges[0].Path, "M ") {
		t.Errorf("Path = %q, want SVG path", out.Edges[0].Path)
	}
	if out.Width <= 0 || out.Height <= 0 {
		t.Errorf("frame = %v x %v", out.Width, out.Height)
	}
}

func TestRenderJSON_DanglingEdgeWithoutGeometry(t *testing.T) {
	size := geo.Size{Width: 100, Height: 80}
	repo := diagram.NewSnapshot(
		[]*diagram.Node{{ID: "A", Position: geo.Point{X: 0, Y: 0}, Size: &size}},
		[]*diagram.Edge{{ID: "e1", SourceID: "A", TargetID: "Missing", Kind: diagram.KindLookup}},
	)
	data, err := RenderJSON(repo)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out struct {
		Edges []struct {
			ID       string          `json:"id"`
			Geometry json.RawMessage `json:"geometry"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Edges) != 1 {
		t.Fatalf("got %d edges, want 1 (dangling edges stay listed)", len(out.Edges))
	}
	if out.Edges[0].Geometry != nil {
		t.Error("dangling edge must not carry geometry")
	}
}
