package taxiguide

// SegmentID is stable index of segment in graph's arena
type SegmentID int

// NoSegment marks absence of segment
const NoSegment = SegmentID(-1)

// TaxiwaySegment is an edge of taxiway graph between two nodes.
// Heading and LengthFeet are evaluated once by graph builder.
type TaxiwaySegment struct {
	ID         SegmentID
	StartNode  NodeID
	EndNode    NodeID
	Name       string
	WidthFeet  float64
	Surface    string
	Heading    float64
	LengthFeet float64
}

// IsConnector returns true for unnamed segments
func (seg *TaxiwaySegment) IsConnector() bool {
	return seg.Name == ""
}

// HasNode checks if node is one of segment's endpoints
func (seg *TaxiwaySegment) HasNode(id NodeID) bool {
	return seg.StartNode == id || seg.EndNode == id
}

// OtherNode returns opposite endpoint. NoNode is returned when given node is not an endpoint
func (seg *TaxiwaySegment) OtherNode(id NodeID) NodeID {
	switch id {
	case seg.StartNode:
		return seg.EndNode
	case seg.EndNode:
		return seg.StartNode
	default:
		return NoNode
	}
}

// HeadingFrom returns heading of segment when travelling away from given endpoint
func (seg *TaxiwaySegment) HeadingFrom(id NodeID) float64 {
	if id == seg.EndNode {
		return ReciprocalHeading(seg.Heading)
	}
	return seg.Heading
}

// HeadingTo returns heading of segment when travelling towards given endpoint
func (seg *TaxiwaySegment) HeadingTo(id NodeID) float64 {
	if id == seg.StartNode {
		return ReciprocalHeading(seg.Heading)
	}
	return seg.Heading
}

// SharedNode returns endpoint common for both segments or NoNode
func (seg *TaxiwaySegment) SharedNode(other *TaxiwaySegment) NodeID {
	if other.HasNode(seg.StartNode) {
		return seg.StartNode
	}
	if other.HasNode(seg.EndNode) {
		return seg.EndNode
	}
	return NoNode
}
