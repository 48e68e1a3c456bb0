package taxiguide

import (
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/vatsimnerd/util/set"
)

// TaxiwayGraph is routable representation of airport surface.
// It is immutable after GraphBuilder has produced it and could be shared for read-only queries.
type TaxiwayGraph struct {
	airportID int
	icao      string

	nodes    []*TaxiwayNode
	segments []*TaxiwaySegment

	runwayEnds   []RunwayEndRecord
	parkingSpots []ParkingSpotRecord
	centerlines  []runwayCenterline

	taxiways       *set.Set[string]
	taxiwayNames   []string
	segmentsByName map[string][]SegmentID

	pathfinder *Pathfinder
}

// SegmentMatch is a segment found by spatial query
type SegmentMatch struct {
	ID           SegmentID
	DistanceFeet float64
}

// NormalizeTaxiwayName brings taxiway (or runway) name to the form used as key in graph
func NormalizeTaxiwayName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// AirportID returns database identifier of airport
func (graph *TaxiwayGraph) AirportID() int {
	return graph.airportID
}

// ICAO returns airport code the graph has been built for
func (graph *TaxiwayGraph) ICAO() string {
	return graph.icao
}

// Node returns node by its ID or nil
func (graph *TaxiwayGraph) Node(id NodeID) *TaxiwayNode {
	if id < 0 || int(id) >= len(graph.nodes) {
		return nil
	}
	return graph.nodes[id]
}

// Segment returns segment by its ID or nil
func (graph *TaxiwayGraph) Segment(id SegmentID) *TaxiwaySegment {
	if id < 0 || int(id) >= len(graph.segments) {
		return nil
	}
	return graph.segments[id]
}

// Nodes returns all nodes
func (graph *TaxiwayGraph) Nodes() []*TaxiwayNode {
	return graph.nodes
}

// Segments returns all segments
func (graph *TaxiwayGraph) Segments() []*TaxiwaySegment {
	return graph.segments
}

// NodeCount returns number of nodes
func (graph *TaxiwayGraph) NodeCount() int {
	return len(graph.nodes)
}

// SegmentCount returns number of segments
func (graph *TaxiwayGraph) SegmentCount() int {
	return len(graph.segments)
}

// Pathfinder returns shortest path engine over whole graph
func (graph *TaxiwayGraph) Pathfinder() *Pathfinder {
	return graph.pathfinder
}

// HasTaxiway checks if there is at least one segment with given name
func (graph *TaxiwayGraph) HasTaxiway(name string) bool {
	return graph.taxiways.Has(NormalizeTaxiwayName(name))
}

// TaxiwayNames returns sorted list of taxiway names
func (graph *TaxiwayGraph) TaxiwayNames() []string {
	names := make([]string, len(graph.taxiwayNames))
	copy(names, graph.taxiwayNames)
	return names
}

// SegmentsByName returns segments of given taxiway
func (graph *TaxiwayGraph) SegmentsByName(name string) []SegmentID {
	return graph.segmentsByName[NormalizeTaxiwayName(name)]
}

// NodesOnTaxiway returns unique nodes touched by segments of given taxiway (sorted by ID)
func (graph *TaxiwayGraph) NodesOnTaxiway(name string) []NodeID {
	seen := make(map[NodeID]struct{})
	nodes := []NodeID{}
	for _, segID := range graph.SegmentsByName(name) {
		seg := graph.segments[segID]
		for _, nodeID := range []NodeID{seg.StartNode, seg.EndNode} {
			if _, ok := seen[nodeID]; ok {
				continue
			}
			seen[nodeID] = struct{}{}
			nodes = append(nodes, nodeID)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// NodeOnTaxiway checks if node is touched by any segment of given taxiway
func (graph *TaxiwayGraph) NodeOnTaxiway(id NodeID, name string) bool {
	node := graph.Node(id)
	if node == nil {
		return false
	}
	name = NormalizeTaxiwayName(name)
	for _, segID := range node.Segments {
		if graph.segments[segID].Name == name {
			return true
		}
	}
	return false
}

// segmentEndpoints returns coordinates of both segment endpoints
func (graph *TaxiwayGraph) segmentEndpoints(seg *TaxiwaySegment) (orb.Point, orb.Point) {
	return graph.nodes[seg.StartNode].Point, graph.nodes[seg.EndNode].Point
}

// DistanceToSegment returns distance (feet) from point to the finite segment
func (graph *TaxiwayGraph) DistanceToSegment(p orb.Point, id SegmentID) float64 {
	seg := graph.Segment(id)
	if seg == nil {
		return math.Inf(1)
	}
	start, end := graph.segmentEndpoints(seg)
	return DistanceToSegmentFeet(p, start, end)
}

// NearestSegment returns segment closest to given point. NoSegment is returned for empty graph
func (graph *TaxiwayGraph) NearestSegment(p orb.Point) (SegmentID, float64) {
	best := NoSegment
	bestDist := math.Inf(1)
	for _, seg := range graph.segments {
		start, end := graph.segmentEndpoints(seg)
		d := DistanceToSegmentFeet(p, start, end)
		if d < bestDist {
			bestDist = d
			best = seg.ID
		}
	}
	return best, bestDist
}

// SegmentsWithin returns segments not farther than radius (feet) sorted by distance
func (graph *TaxiwayGraph) SegmentsWithin(p orb.Point, radiusFeet float64) []SegmentMatch {
	matches := []SegmentMatch{}
	for _, seg := range graph.segments {
		start, end := graph.segmentEndpoints(seg)
		d := DistanceToSegmentFeet(p, start, end)
		if d <= radiusFeet {
			matches = append(matches, SegmentMatch{ID: seg.ID, DistanceFeet: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceFeet < matches[j].DistanceFeet
	})
	return matches
}

// NearestNode returns closest node satisfying filter (nil filter accepts every node)
func (graph *TaxiwayGraph) NearestNode(p orb.Point, filter func(*TaxiwayNode) bool) (NodeID, float64) {
	best := NoNode
	bestDist := math.Inf(1)
	for _, node := range graph.nodes {
		if filter != nil && !filter(node) {
			continue
		}
		d := DistanceFeet(p, node.Point)
		if d < bestDist {
			bestDist = d
			best = node.ID
		}
	}
	return best, bestDist
}

// RunwayEnd returns runway threshold by its name
func (graph *TaxiwayGraph) RunwayEnd(name string) (RunwayEndRecord, bool) {
	name = NormalizeTaxiwayName(name)
	for _, rwy := range graph.runwayEnds {
		if NormalizeTaxiwayName(rwy.Name) == name {
			return rwy, true
		}
	}
	return RunwayEndRecord{}, false
}

// RunwayNames returns names of runway thresholds known for airport
func (graph *TaxiwayGraph) RunwayNames() []string {
	names := make([]string, 0, len(graph.runwayEnds))
	for _, rwy := range graph.runwayEnds {
		names = append(names, NormalizeTaxiwayName(rwy.Name))
	}
	sort.Strings(names)
	return names
}

// HoldShortNodes returns hold-short nodes associated with given runway
func (graph *TaxiwayGraph) HoldShortNodes(runway string) []NodeID {
	runway = NormalizeTaxiwayName(runway)
	nodes := []NodeID{}
	for _, node := range graph.nodes {
		if node.Type == NODE_HOLD_SHORT && node.HoldShortRunway == runway {
			nodes = append(nodes, node.ID)
		}
	}
	return nodes
}

// FindHoldShortNode returns hold-short node of given runway closest to the runway's threshold.
//
// When threshold coordinates are unknown the node nearest to `near` is used instead.
// That fallback is an approximation: airports with several hold-short points for one runway could be mis-assigned.
func (graph *TaxiwayGraph) FindHoldShortNode(runway string, near orb.Point) NodeID {
	candidates := graph.HoldShortNodes(runway)
	if len(candidates) == 0 {
		return NoNode
	}
	reference := near
	if rwy, ok := graph.RunwayEnd(runway); ok {
		reference = rwy.Point
	} else {
		log.WithField("runway", runway).Debug("threshold is unknown, using nearest hold-short node to given position")
	}
	best := NoNode
	bestDist := math.Inf(1)
	for _, id := range candidates {
		d := DistanceFeet(reference, graph.nodes[id].Point)
		if d < bestDist {
			bestDist = d
			best = id
		}
	}
	return best
}

// ParkingNode returns node associated with given parking spot name
func (graph *TaxiwayGraph) ParkingNode(name string) NodeID {
	name = NormalizeTaxiwayName(name)
	for _, node := range graph.nodes {
		if node.Type == NODE_PARKING && NormalizeTaxiwayName(node.ParkingName) == name && name != "" {
			return node.ID
		}
	}
	return NoNode
}

// ParkingSpots returns raw parking spots records
func (graph *TaxiwayGraph) ParkingSpots() []ParkingSpotRecord {
	return graph.parkingSpots
}
