package layout

import (
	"context"
	"strings"
	"testing"

	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

func TestEstimateSize(t *testing.T) {
	n := &diagram.Node{
		ID:     "Account",
		Label:  "Account",
		Fields: []string{"Id: id", "Name: string", "ParentId: reference"},
	}
	size := EstimateSize(n)
	if size.Width < minBoxWidth || size.Width > maxBoxWidth {
		t.Errorf("Width = %v, want within [%v, %v]", size.Width, minBoxWidth, maxBoxWidth)
	}
	want := headerHeight + 3*fieldRow
	if size.Height != want {
		t.Errorf("Height = %v, want %v", size.Height, want)
	}
}

func TestEstimateSize_CapsFieldRows(t *testing.T) {
	fields := make([]string, 50)
	for i := range fields {
		fields[i] = "Field__c: string"
	}
	size := EstimateSize(&diagram.Node{ID: "Big__c", Fields: fields})
	want := headerHeight + maxFieldRows*fieldRow
	if size.Height != want {
		t.Errorf("Height = %v, want capped at %v", size.Height, want)
	}
}

func TestEstimateAll_SkipsMeasured(t *testing.T) {
	measured := &diagram.Node{ID: "A", Size: &geo.Size{Width: 111, Height: 222}}
	fresh := &diagram.Node{ID: "B"}
	EstimateAll([]*diagram.Node{measured, fresh})

	if measured.Size.Width != 111 {
		t.Error("measured node size should be untouched")
	}
	if fresh.Size == nil {
		t.Error("unmeasured node should receive an estimate")
	}
}

func TestToDOT(t *testing.T) {
	nodes := []*diagram.Node{
		{ID: "Account", Label: "Account", Size: &geo.Size{Width: 180, Height: 72}},
		{ID: "Contact", Label: "Contact", Size: &geo.Size{Width: 180, Height: 72}},
	}
	edges := []*diagram.Edge{
		{ID: "e1", SourceID: "Contact", TargetID: "Account"},
		{ID: "e2", SourceID: "Account", TargetID: "Account"},
	}

	dot := ToDOT(nodes, edges)
	if !strings.Contains(dot, `"Account" [label="Account"`) {
		t.Errorf("DOT missing Account node:\n%s", dot)
	}
	if !strings.Contains(dot, `"Contact" -> "Account";`) {
		t.Errorf("DOT missing edge:\n%s", dot)
	}
	if strings.Contains(dot, `"Account" -> "Account"`) {
		t.Errorf("self-loops should be excluded from DOT:\n%s", dot)
	}
}

func TestParsePositions(t *testing.T) {
	out := []byte(`digraph schema {
	graph [bb="0,0,400,300"];
	node [shape=box];
	Account	[height=1,
		label=Account,
		pos="100,250",
		width=2.5];
	Contact	[height=1,
		label=Contact,
		pos="300,50",
		width=2.5];
	Contact -> Account	[pos="e,200,100 150,80 170,90 180,95 200,100"];
}
`)
	positions := parsePositions(out)
	if len(positions) != 2 {
		t.Fatalf("got %d positions, want 2: %v", len(positions), positions)
	}
	// y flips: bb height 300, graphviz y 250 -> screen y 50.
	if got := positions["Account"]; got.X != 100 || got.Y != 50 {
		t.Errorf("Account = %v, want (100, 50)", got)
	}
	if got := positions["Contact"]; got.X != 300 || got.Y != 250 {
		t.Errorf("Contact = %v, want (300, 250)", got)
	}
}

func TestCompute(t *testing.T) {
	nodes := []*diagram.Node{
		{ID: "Account", Label: "Account"},
		{ID: "Contact", Label: "Contact"},
		{ID: "Opportunity", Label: "Opportunity"},
	}
	edges := []*diagram.Edge{
		{ID: "e1", SourceID: "Contact", TargetID: "Account"},
		{ID: "e2", SourceID: "Opportunity", TargetID: "Account"},
	}
	EstimateAll(nodes)

	if err := Compute(context.Background(), nodes, edges); err != nil {
		t.Fatalf("Compute: %v", err)
	}

	seen := map[geo.Point]bool{}
	for _, n := range nodes {
		if seen[n.Position] {
			t.Errorf("nodes share position %v", n.Position)
		}
		seen[n.Position] = true
	}
}

func TestCompute_EmptyGraph(t *testing.T) {
	if err := Compute(context.Background(), nil, nil); err != nil {
		t.Errorf("Compute on empty graph: %v", err)
	}
}
