package layout

import (
	"bytes"
	"fmt"

	"github.com/Jaganpro/sf-schema-viewer/pkg/diagram"
)

// pointsPerInch converts our pixel-ish units to Graphviz inches.
const pointsPerInch = 72.0

// ToDOT converts diagram nodes and edges to Graphviz DOT. Node sizes are
// fixed (width/height in inches with fixedsize) so Graphviz spaces boxes
// exactly as the frontend will draw them.
func ToDOT(nodes []*diagram.Node, edges []*diagram.Edge) string {
	var buf bytes.Buffer
	buf.WriteString("digraph schema {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, fixedsize=true];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.6;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		w, h := 2.5, 1.0
		if n.Size != nil {
			w = n.Size.Width / pointsPerInch
			h = n.Size.Height / pointsPerInch
		}
		fmt.Fprintf(&buf, "  %q [label=%q, width=%.3f, height=%.3f];\n",
			n.ID, n.DisplayLabel(), w, h)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if e.IsSelfReference() {
			// Self-loops distort dot's ranking without improving placement.
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.SourceID, e.TargetID)
	}

	buf.WriteString("}\n")
	return buf.String()
}
