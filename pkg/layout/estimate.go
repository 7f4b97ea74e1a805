// Package layout assigns initial positions to diagram nodes. It renders
// the diagram graph through Graphviz (dot engine) and reads the computed
// node centers back, so entities start out untangled before any manual
// dragging or edge routing happens.
package layout

import (
	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
	"github.com/Jaganpro/sf-schema-viewer/pkg/geo"
)

// Box metrics used when no browser measurement is available. Derived from
// the frontend's rendered entity boxes: a header row plus one row per
// visible field.
const (
	headerHeight = 36.0
	fieldRow     = 22.0
	charWidth    = 7.5
	boxPadding   = 24.0
	minBoxWidth  = 180.0
	maxBoxWidth  = 320.0
	maxFieldRows = 12
)

// EstimateSize predicts a node's rendered size from its content. Server-side
// rendering has no DOM to measure, so box dimensions are derived from label
// and field text lengths using fixed font metrics.
func EstimateSize(n *diagram.Node) geo.Size {
	longest := len(n.DisplayLabel())
	for _, f := range n.Fields {
		if len(f) > longest {
			longest = len(f)
		}
	}

	width := float64(longest)*charWidth + boxPadding
	if width < minBoxWidth {
		width = minBoxWidth
	}
	if width > maxBoxWidth {
		width = maxBoxWidth
	}

	rows := len(n.Fields)
	if rows > maxFieldRows {
		rows = maxFieldRows
	}
	height := headerHeight + float64(rows)*fieldRow

	return geo.Size{Width: width, Height: height}
}

// EstimateAll fills in Size for every unmeasured node in place. Nodes that
// already carry a measured size are left alone.
func EstimateAll(nodes []*diagram.Node) {
	for _, n := range nodes {
		if n.Measured() {
			continue
		}
		size := EstimateSize(n)
		n.Size = &size
	}
}
