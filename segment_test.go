package taxiguide

import (
	"math"
	"testing"
)

func TestSegmentEndpoints(t *testing.T) {
	graph := buildTestAirport(t)
	for _, seg := range graph.Segments() {
		forward, backward := seg.HeadingFrom(seg.StartNode), seg.HeadingFrom(seg.EndNode)
		if diff := math.Abs(HeadingDifference(forward, backward)); math.Abs(diff-180) > 1e-6 {
			t.Errorf("Headings from endpoints of segment %d must differ by %f, but got %f", seg.ID, 180.0, diff)
		}
		if math.Abs(HeadingDifference(seg.HeadingTo(seg.EndNode), forward)) > 1e-6 {
			t.Errorf("Heading to end of segment %d must be %f, but got %f", seg.ID, forward, seg.HeadingTo(seg.EndNode))
		}
		for _, node := range []NodeID{seg.StartNode, seg.EndNode} {
			if back := seg.OtherNode(seg.OtherNode(node)); back != node {
				t.Errorf("Other node of other node of %d on segment %d must be %d, but got %d", node, seg.ID, node, back)
			}
		}
		if seg.OtherNode(NoNode) != NoNode {
			t.Errorf("Other node of foreign node on segment %d must be %d", seg.ID, NoNode)
		}
	}
}
