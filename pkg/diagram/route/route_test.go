package route

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

func measuredNode(id string, x, y, w, h float64) *diagram.Node {
	return &diagram.Node{
		ID:       id,
		Position: geo.Point{X: x, Y: y},
		Size:     &geo.Size{Width: w, Height: h},
	}
}

func TestCompute_HorizontalPair(t *testing.T) {
	// Rectangle A at (0,0) 100x80, B at (300,0) 100x80, one edge A→B.
	repo := diagram.NewSnapshot(
		[]*diagram.Node{
			measuredNode("A", 0, 0, 100, 80),
			measuredNode("B", 300, 0, 100, 80),
		},
		[]*diagram.Edge{{ID: "e1", SourceID: "A", TargetID: "B", Kind: diagram.KindLookup}},
	)

	g := Compute(repo.Edges()[0], repo)
	if g == nil {
		t.Fatal("Compute() = nil, want geometry")
	}

	if g.Source.Side != geo.Right {
		t.Errorf("source side = %v, want Right", g.Source.Side)
	}
	if g.Target.Side != geo.Left {
		t.Errorf("target side = %v, want Left", g.Target.Side)
	}
	if g.Source.Point.X != 100 || g.Source.Point.Y != 40 {
		t.Errorf("source anchor = %+v, want (100, 40)", g.Source.Point)
	}
	if g.Target.Point.X != 300 || g.Target.Point.Y != 40 {
		t.Errorf("target anchor = %+v, want (300, 40)", g.Target.Point)
	}
}

func TestCompute_UnmeasuredIsAbsent(t *testing.T) {
	unmeasured := &diagram.Node{ID: "A", Position: geo.Point{X: 0, Y: 0}}
	repo := diagram.NewSnapshot(
		[]*diagram.Node{unmeasured, measuredNode("B", 300, 0, 100, 80)},
		[]*diagram.Edge{{ID: "e1", SourceID: "A", TargetID: "B"}},
	)

	if g := Compute(repo.Edges()[0], repo); g != nil {
		t.Errorf("Compute() with unmeasured source = %+v, want nil", g)
	}
}

func TestCompute_DanglingEdgeIsAbsent(t *testing.T) {
	repo := diagram.NewSnapshot(
		[]*diagram.Node{measuredNode("A", 0, 0, 100, 80)},
		[]*diagram.Edge{{ID: "e1", SourceID: "A", TargetID: "Missing"}},
	)

	if g := Compute(repo.Edges()[0], repo); g != nil {
		t.Errorf("Compute() with dangling target = %+v, want nil", g)
	}
}

func TestCompute_SelfReference(t *testing.T) {
	repo := diagram.NewSnapshot(
		[]*diagram.Node{measuredNode("A", 0, 0, 100, 80)},
		[]*diagram.Edge{{ID: "e1", SourceID: "A", TargetID: "A", FieldName: "ParentId"}},
	)

	g := Compute(repo.Edges()[0], repo)
	if g == nil {
		t.Fatal("Compute() for self-reference = nil, want geometry")
	}
	if g.Path() == "" {
		t.Error("self-reference geometry has empty path")
	}
	if g.LabelAnchor == (geo.Point{}) {
		t.Error("self-reference geometry has zero label anchor")
	}
}

// Three edges from A's right side to three targets: with A 100x90, the
// anchors sit at y = 90/4, 90/4*2, 90/4*3, ordered by target ID.
func TestDistribute_ThreeEdgeOffsets(t *testing.T) {
	nodes := []*diagram.Node{
		measuredNode("A", 0, 0, 100, 90),
		measuredNode("T1", 300, 0, 100, 80),
		measuredNode("T2", 300, 100, 100, 80),
		measuredNode("T3", 300, -100, 100, 80),
	}
	edges := []*diagram.Edge{
		{ID: "e3", SourceID: "A", TargetID: "T3"},
		{ID: "e1", SourceID: "A", TargetID: "T1"},
		{ID: "e2", SourceID: "A", TargetID: "T2"},
	}
	repo := diagram.NewSnapshot(nodes, edges)

	group := Distribute(repo, "A", geo.Right, RoleSource)
	if len(group) != 3 {
		t.Fatalf("Distribute() returned %d edges, want 3", len(group))
	}
	wantOrder := []string{"T1", "T2", "T3"}
	for i, e := range group {
		if e.TargetID != wantOrder[i] {
			t.Errorf("group[%d].TargetID = %s, want %s", i, e.TargetID, wantOrder[i])
		}
	}

	wantY := []float64{22.5, 45, 67.5}
	for i, e := range group {
		g := Compute(e, repo)
		if g == nil {
			t.Fatalf("Compute(%s) = nil", e.ID)
		}
		if g.Source.Point.X != 100 {
			t.Errorf("edge %s source X = %v, want 100", e.ID, g.Source.Point.X)
		}
		if g.Source.Point.Y != wantY[i] {
			t.Errorf("edge %s source Y = %v, want %v", e.ID, g.Source.Point.Y, wantY[i])
		}
	}
}

func TestDistribute_SingleEdgeKeepsMidpoint(t *testing.T) {
	repo := diagram.NewSnapshot(
		[]*diagram.Node{
			measuredNode("A", 0, 0, 100, 90),
			measuredNode("B", 300, 0, 100, 80),
		},
		[]*diagram.Edge{{ID: "e1", SourceID: "A", TargetID: "B"}},
	)

	g := Compute(repo.Edges()[0], repo)
	if g.Source.Point.Y != 45 {
		t.Errorf("lone edge source Y = %v, want midpoint 45", g.Source.Point.Y)
	}
}

// Anchors on a shared side must be strictly increasing and equally
// spaced for group sizes up to 10.
func TestDistribute_NonOverlap(t *testing.T) {
	for n := 2; n <= 10; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			height := MinHeight(SideCounts{Right: n})
			nodes := []*diagram.Node{measuredNode("A", 0, 0, 100, height)}
			var edges []*diagram.Edge
			for i := 0; i < n; i++ {
				id := fmt.Sprintf("T%02d", i)
				nodes = append(nodes, measuredNode(id, 300, float64(i*10), 100, 80))
				edges = append(edges, &diagram.Edge{
					ID: fmt.Sprintf("e%02d", i), SourceID: "A", TargetID: id,
				})
			}
			repo := diagram.NewSnapshot(nodes, edges)

			group := Distribute(repo, "A", geo.Right, RoleSource)
			if len(group) != n {
				t.Fatalf("group size = %d, want %d", len(group), n)
			}

			var prev float64 = -1
			var gap float64
			for i, e := range group {
				g := Compute(e, repo)
				y := g.Source.Point.Y
				if y <= prev {
					t.Fatalf("anchor %d at y=%v not strictly above previous %v", i, y, prev)
				}
				if i == 1 {
					gap = y - prev
				} else if i > 1 && math.Abs((y-prev)-gap) > 1e-9 {
					t.Fatalf("anchor %d gap %v differs from %v", i, y-prev, gap)
				}
				if y <= 0 || y >= height {
					t.Fatalf("anchor %d at y=%v escapes side of length %v", i, y, height)
				}
				prev = y
			}
		})
	}
}

// Routing twice over the same snapshot must be bit-for-bit identical,
// and shuffling the input edge order must not move any anchor.
func TestCompute_DeterminismAndOrderIndependence(t *testing.T) {
	nodes := []*diagram.Node{
		measuredNode("Account", 0, 0, 180, 120),
		measuredNode("Contact", 400, 0, 180, 120),
		measuredNode("Case", 400, 300, 180, 120),
		measuredNode("User", 0, 300, 180, 120),
	}
	edges := []*diagram.Edge{
		{ID: "e1", SourceID: "Contact", TargetID: "Account", FieldName: "AccountId"},
		{ID: "e2", SourceID: "Case", TargetID: "Account", FieldName: "AccountId"},
		{ID: "e3", SourceID: "Case", TargetID: "Contact", FieldName: "ContactId"},
		{ID: "e4", SourceID: "User", TargetID: "Account", FieldName: "OwnerId"},
		{ID: "e5", SourceID: "Contact", TargetID: "User", FieldName: "OwnerId"},
	}

	base := ComputeAll(diagram.NewSnapshot(nodes, edges))
	if len(base) != len(edges) {
		t.Fatalf("ComputeAll routed %d edges, want %d", len(base), len(edges))
	}

	again := ComputeAll(diagram.NewSnapshot(nodes, edges))
	if !reflect.DeepEqual(base, again) {
		t.Error("repeated ComputeAll over identical snapshot differs")
	}

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		shuffledNodes := append([]*diagram.Node(nil), nodes...)
		shuffledEdges := append([]*diagram.Edge(nil), edges...)
		rng.Shuffle(len(shuffledNodes), func(i, j int) {
			shuffledNodes[i], shuffledNodes[j] = shuffledNodes[j], shuffledNodes[i]
		})
		rng.Shuffle(len(shuffledEdges), func(i, j int) {
			shuffledEdges[i], shuffledEdges[j] = shuffledEdges[j], shuffledEdges[i]
		})

		shuffled := ComputeAll(diagram.NewSnapshot(shuffledNodes, shuffledEdges))
		if !reflect.DeepEqual(base, shuffled) {
			t.Fatalf("trial %d: shuffled edge order changed geometry", trial)
		}
	}
}

func TestCompute_CardinalityAnchors(t *testing.T) {
	repo := diagram.NewSnapshot(
		[]*diagram.Node{
			measuredNode("A", 0, 0, 100, 80),
			measuredNode("B", 300, 0, 100, 80),
		},
		[]*diagram.Edge{{ID: "e1", SourceID: "A", TargetID: "B"}},
	)

	g := Compute(repo.Edges()[0], repo)

	// Right-facing source offsets +x, left-facing target offsets -x.
	if want := (geo.Point{X: 125, Y: 40}); g.SourceCardinalityAnchor != want {
		t.Errorf("source cardinality anchor = %+v, want %+v", g.SourceCardinalityAnchor, want)
	}
	if want := (geo.Point{X: 275, Y: 40}); g.TargetCardinalityAnchor != want {
		t.Errorf("target cardinality anchor = %+v, want %+v", g.TargetCardinalityAnchor, want)
	}
}

func TestCompute_VerticalCardinalityAnchors(t *testing.T) {
	repo := diagram.NewSnapshot(
		[]*diagram.Node{
			measuredNode("A", 0, 0, 100, 80),
			measuredNode("B", 0, 400, 100, 80),
		},
		[]*diagram.Edge{{ID: "e1", SourceID: "A", TargetID: "B"}},
	)

	g := Compute(repo.Edges()[0], repo)
	if g.Source.Side != geo.Bottom || g.Target.Side != geo.Top {
		t.Fatalf("sides = %v/%v, want Bottom/Top", g.Source.Side, g.Target.Side)
	}
	// Bottom-facing offsets +y, top-facing offsets -y.
	if want := (geo.Point{X: 50, Y: 105}); g.SourceCardinalityAnchor != want {
		t.Errorf("source cardinality anchor = %+v, want %+v", g.SourceCardinalityAnchor, want)
	}
	if want := (geo.Point{X: 50, Y: 375}); g.TargetCardinalityAnchor != want {
		t.Errorf("target cardinality anchor = %+v, want %+v", g.TargetCardinalityAnchor, want)
	}
}

func TestCompute_LabelAnchorOnCurve(t *testing.T) {
	repo := diagram.NewSnapshot(
		[]*diagram.Node{
			measuredNode("A", 0, 0, 100, 80),
			measuredNode("B", 300, 0, 100, 80),
		},
		[]*diagram.Edge{{ID: "e1", SourceID: "A", TargetID: "B"}},
	)

	g := Compute(repo.Edges()[0], repo)
	// Symmetric horizontal curve: midpoint is centered between anchors.
	if g.LabelAnchor.X != 200 || g.LabelAnchor.Y != 40 {
		t.Errorf("label anchor = %+v, want (200, 40)", g.LabelAnchor)
	}
}

func TestMinHeight(t *testing.T) {
	tests := []struct {
		counts SideCounts
		want   float64
	}{
		{SideCounts{}, BaseHeight},
		{SideCounts{Left: 1}, BaseHeight},
		{SideCounts{Right: 2}, 90},
		{SideCounts{Left: 3, Right: 1}, 120},
		{SideCounts{Left: 2, Right: 5}, 180},
		{SideCounts{Top: 9, Bottom: 9}, BaseHeight}, // horizontal sides don't constrain height
	}
	for _, tt := range tests {
		if got := MinHeight(tt.counts); got != tt.want {
			t.Errorf("MinHeight(%+v) = %v, want %v", tt.counts, got, tt.want)
		}
	}
}

// Height sufficiency: for k edges on the most loaded vertical side,
// MinHeight must reserve at least (k+1)*EdgeSpacing.
func TestMinHeight_Sufficiency(t *testing.T) {
	for k := 0; k <= 12; k++ {
		h := MinHeight(SideCounts{Left: k})
		if min := float64(k+1) * EdgeSpacing; h < min {
			t.Errorf("MinHeight(left=%d) = %v, want >= %v", k, h, min)
		}
	}
}

func TestCountSides(t *testing.T) {
	nodes := []*diagram.Node{
		measuredNode("A", 0, 0, 100, 80),
		measuredNode("East", 300, 0, 100, 80),
		measuredNode("West", -300, 0, 100, 80),
		measuredNode("South", 0, 400, 100, 80),
	}
	edges := []*diagram.Edge{
		{ID: "e1", SourceID: "A", TargetID: "East"},
		{ID: "e2", SourceID: "West", TargetID: "A"},
		{ID: "e3", SourceID: "A", TargetID: "South"},
	}
	repo := diagram.NewSnapshot(nodes, edges)

	counts := CountSides("A", repo)
	want := SideCounts{Left: 1, Right: 1, Bottom: 1}
	if counts != want {
		t.Errorf("CountSides(A) = %+v, want %+v", counts, want)
	}
}

func TestCountSides_SelfReferenceCountsBothRoles(t *testing.T) {
	repo := diagram.NewSnapshot(
		[]*diagram.Node{measuredNode("A", 0, 0, 100, 80)},
		[]*diagram.Edge{{ID: "e1", SourceID: "A", TargetID: "A"}},
	)

	counts := CountSides("A", repo)
	if got := counts.Left + counts.Right + counts.Top + counts.Bottom; got != 2 {
		t.Errorf("self-reference contributed %d side slots, want 2", got)
	}
}
