package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

// Compute lays out the diagram with Graphviz and writes the resulting
// top-left positions into the nodes in place. Nodes must carry sizes
// (estimated or measured) before calling; positions come back in the same
// unit space as the sizes.
func Compute(ctx context.Context, nodes []*diagram.Node, edges []*diagram.Edge) error {
	if len(nodes) == 0 {
		return nil
	}

	dot := ToDOT(nodes, edges)
	positions, err := runGraphviz(ctx, dot)
	if err != nil {
		return fmt.Errorf("graphviz layout: %w", err)
	}

	for _, n := range nodes {
		center, ok := positions[n.ID]
		if !ok {
			continue
		}
		var size geo.Size
		if n.Size != nil {
			size = *n.Size
		}
		n.Position = geo.Point{
			X: center.X - size.Width/2,
			Y: center.Y - size.Height/2,
		}
	}
	return nil
}

var (
	// Node statements in laid-out DOT: name followed by a bracketed
	// attribute list, possibly spanning lines.
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*"?([A-Za-z0-9_]+)"?\s*\[((?s:[^\]]*))\]`)
	posAttrRe  = regexp.MustCompile(`\bpos="(-?[0-9.]+),(-?[0-9.]+)"`)
	bbAttrRe   = regexp.MustCompile(`\bbb="0,0,([0-9.]+),([0-9.]+)"`)
)

// runGraphviz renders the DOT through the dot engine and parses node
// centers back out of the annotated output. Graphviz reports positions in
// points with the y axis pointing up; they are flipped here so callers get
// screen coordinates.
func runGraphviz(ctx context.Context, dot string) (map[string]geo.Point, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return parsePositions(buf.Bytes()), nil
}

// parsePositions extracts node centers from laid-out DOT output.
func parsePositions(out []byte) map[string]geo.Point {
	height := 0.0
	if m := bbAttrRe.FindSubmatch(out); m != nil {
		height, _ = strconv.ParseFloat(string(m[2]), 64)
	}

	positions := make(map[string]geo.Point)
	for _, m := range nodeStmtRe.FindAllSubmatch(out, -1) {
		name := string(m[1])
		if name == "graph" || name == "node" || name == "edge" || name == "digraph" {
			continue
		}
		pos := posAttrRe.FindSubmatch(m[2])
		if pos == nil {
			continue
		}
		x, errX := strconv.ParseFloat(string(pos[1]), 64)
		y, errY := strconv.ParseFloat(string(pos[2]), 64)
		if errX != nil || errY != nil {
			continue
		}
		positions[name] = geo.Point{X: x, Y: height - y}
	}
	return positions
}
