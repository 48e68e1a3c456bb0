package taxiguide

import (
	"github.com/paulmach/orb"
)

// NodeID is stable index of node in graph's arena
type NodeID int

// NoNode marks absence of node
const NoNode = NodeID(-1)

// NodeType is classification of taxiway graph node
type NodeType uint16

// Ordering matters: node type could be upgraded only to a higher value
const (
	NODE_NORMAL = NodeType(iota + 1)
	NODE_PARKING
	NODE_HOLD_SHORT
)

func (iotaIdx NodeType) String() string {
	return [...]string{"normal", "parking", "hold_short"}[iotaIdx-1]
}

// nodeTypeByCode maps raw database type codes to node types. Unknown codes mean NODE_NORMAL
var nodeTypeByCode = map[string]NodeType{
	"HSND": NODE_HOLD_SHORT,
	"P":    NODE_PARKING,
}

func nodeTypeFromCode(code string) NodeType {
	if t, ok := nodeTypeByCode[code]; ok {
		return t
	}
	return NODE_NORMAL
}

// TaxiwayNode is a point of taxiway graph: intersection, hold-short point, parking spot or just a bend
type TaxiwayNode struct {
	ID       NodeID
	Point    orb.Point
	Type     NodeType
	Segments []SegmentID

	// Filled for NODE_HOLD_SHORT only
	HoldShortRunway string

	// Filled for NODE_PARKING only
	ParkingName string
	HasJetway   bool
}

// Lat returns latitude of node
func (node *TaxiwayNode) Lat() float64 {
	return node.Point.Lat()
}

// Lon returns longitude of node
func (node *TaxiwayNode) Lon() float64 {
	return node.Point.Lon()
}

// IsJunction returns true if three or more segments meet at node
func (node *TaxiwayNode) IsJunction() bool {
	return len(node.Segments) >= 3
}

// IsDeadEnd returns true if only one segment is incident to node
func (node *TaxiwayNode) IsDeadEnd() bool {
	return len(node.Segments) == 1
}

// upgradeType sets stronger classification. Weaker ones are ignored
func (node *TaxiwayNode) upgradeType(t NodeType) {
	if t > node.Type {
		node.Type = t
	}
}

func (node *TaxiwayNode) addSegment(id SegmentID) {
	for _, existing := range node.Segments {
		if existing == id {
			return
		}
	}
	node.Segments = append(node.Segments, id)
}
