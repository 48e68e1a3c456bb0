package taxiguide

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// RelativeBearing is classification of option's heading relative to aircraft's heading
type RelativeBearing uint16

const (
	RELATIVE_AHEAD = RelativeBearing(iota + 1)
	RELATIVE_AHEAD_LEFT
	RELATIVE_AHEAD_RIGHT
	RELATIVE_LEFT
	RELATIVE_RIGHT
	RELATIVE_BEHIND
)

func (iotaIdx RelativeBearing) String() string {
	return [...]string{"ahead", "ahead left", "ahead right", "to your left", "to your right", "behind"}[iotaIdx-1]
}

// rank gives sorting order: ahead first, behind last
func (iotaIdx RelativeBearing) rank() int {
	switch iotaIdx {
	case RELATIVE_AHEAD:
		return 0
	case RELATIVE_AHEAD_LEFT, RELATIVE_AHEAD_RIGHT:
		return 1
	case RELATIVE_LEFT, RELATIVE_RIGHT:
		return 2
	default:
		return 3
	}
}

// classifyRelativeBearing classifies signed angle from aircraft's heading to option's heading
func classifyRelativeBearing(angle float64) RelativeBearing {
	abs := math.Abs(angle)
	switch {
	case abs <= 30:
		return RELATIVE_AHEAD
	case abs <= 75:
		if angle < 0 {
			return RELATIVE_AHEAD_LEFT
		}
		return RELATIVE_AHEAD_RIGHT
	case abs <= 135:
		if angle < 0 {
			return RELATIVE_LEFT
		}
		return RELATIVE_RIGHT
	default:
		return RELATIVE_BEHIND
	}
}

// SegmentOption is a segment with chosen direction of travel offered for selection
type SegmentOption struct {
	SegmentID      SegmentID
	FromNode       NodeID
	TargetNode     NodeID
	TaxiwayName    string
	HeadingDegrees float64
	DistanceFeet   float64
	Relative       RelativeBearing
	// TurnAngle is signed angle from current heading (or arriving segment) to option's heading
	TurnAngle float64
}

func (opt SegmentOption) sameAs(other SegmentOption) bool {
	return opt.SegmentID == other.SegmentID && opt.TargetNode == other.TargetNode
}

func makeOption(seg *TaxiwaySegment, from NodeID, referenceHeading, distance float64) SegmentOption {
	heading := seg.HeadingFrom(from)
	turn := HeadingDifference(referenceHeading, heading)
	return SegmentOption{
		SegmentID:      seg.ID,
		FromNode:       from,
		TargetNode:     seg.OtherNode(from),
		TaxiwayName:    seg.Name,
		HeadingDegrees: heading,
		DistanceFeet:   distance,
		Relative:       classifyRelativeBearing(turn),
		TurnAngle:      turn,
	}
}

// segmentOptions returns ranked options for initial lock.
// Close to a junction every segment of junction is offered, otherwise both directions of the nearest segment.
func segmentOptions(graph *TaxiwayGraph, pos orb.Point, heading float64, params GuidanceParams) []SegmentOption {
	matches := graph.SegmentsWithin(pos, params.SearchRadiusFeet)
	if len(matches) == 0 {
		return nil
	}
	options := []SegmentOption{}
	junction, junctionDist := graph.NearestNode(pos, func(node *TaxiwayNode) bool { return node.IsJunction() })
	if junction != NoNode && junctionDist <= params.JunctionProximityFeet {
		for _, segID := range graph.nodes[junction].Segments {
			seg := graph.segments[segID]
			options = append(options, makeOption(seg, junction, heading, graph.DistanceToSegment(pos, segID)))
		}
	} else {
		seg := graph.segments[matches[0].ID]
		options = append(options,
			makeOption(seg, seg.StartNode, heading, matches[0].DistanceFeet),
			makeOption(seg, seg.EndNode, heading, matches[0].DistanceFeet),
		)
	}
	sort.SliceStable(options, func(i, j int) bool {
		ri, rj := options[i].Relative.rank(), options[j].Relative.rank()
		if ri != rj {
			return ri < rj
		}
		if options[i].DistanceFeet != options[j].DistanceFeet {
			return options[i].DistanceFeet < options[j].DistanceFeet
		}
		return math.Abs(options[i].TurnAngle) < math.Abs(options[j].TurnAngle)
	})
	return options
}

// junctionOptions returns branches leaving node (excluding arriving segment) sorted from leftmost to rightmost
func junctionOptions(graph *TaxiwayGraph, node NodeID, arriving SegmentID, arrivingHeading float64) []SegmentOption {
	n := graph.Node(node)
	if n == nil {
		return nil
	}
	options := []SegmentOption{}
	for _, segID := range n.Segments {
		if segID == arriving {
			continue
		}
		options = append(options, makeOption(graph.segments[segID], node, arrivingHeading, 0))
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].TurnAngle < options[j].TurnAngle
	})
	return options
}

// straightestOption returns index of option with the smallest turn. -1 for empty options
func straightestOption(options []SegmentOption) int {
	best := -1
	bestTurn := math.Inf(1)
	for i, opt := range options {
		if turn := math.Abs(opt.TurnAngle); turn < bestTurn {
			bestTurn = turn
			best = i
		}
	}
	return best
}

// continuation returns the only way forward through a node with exactly two segments
func continuation(graph *TaxiwayGraph, node NodeID, arriving SegmentID) (SegmentOption, bool) {
	n := graph.Node(node)
	if n == nil || len(n.Segments) != 2 {
		return SegmentOption{}, false
	}
	for _, segID := range n.Segments {
		if segID == arriving {
			continue
		}
		seg := graph.segments[segID]
		arrivingHeading := graph.segments[arriving].HeadingTo(node)
		return makeOption(seg, node, arrivingHeading, 0), true
	}
	return SegmentOption{}, false
}
