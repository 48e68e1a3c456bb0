package taxiguide

import (
	"math"
	"sync"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// Pathfinder is shortest path search over taxiway graph (Dijkstra by cumulative segment length).
// Optional segment filter restricts search to a subgraph, e.g. a single taxiway.
type Pathfinder struct {
	graph       *TaxiwayGraph
	filter      func(*TaxiwaySegment) bool
	contraction bool

	// Queries against ch.Graph are serialized
	sync.Mutex
	engine   *ch.Graph
	vertices map[NodeID]struct{}
	edges    map[nodePair]SegmentID
}

type nodePair struct {
	from NodeID
	to   NodeID
}

// PathResult is a found path with its target node and total length
type PathResult struct {
	Target     NodeID
	Segments   []SegmentID
	LengthFeet float64
}

// WithSegmentFilter restricts pathfinder to segments for which filter returns true
func WithSegmentFilter(filter func(*TaxiwaySegment) bool) func(*Pathfinder) {
	return func(pf *Pathfinder) {
		pf.filter = filter
	}
}

// WithContraction enables contraction hierarchies (bidirectional search) instead of vanilla Dijkstra
func WithContraction(contraction bool) func(*Pathfinder) {
	return func(pf *Pathfinder) {
		pf.contraction = contraction
	}
}

// WithTaxiwayOnly restricts pathfinder to segments of given taxiway
func WithTaxiwayOnly(name string) func(*Pathfinder) {
	name = NormalizeTaxiwayName(name)
	return WithSegmentFilter(func(seg *TaxiwaySegment) bool {
		return seg.Name == name
	})
}

// NewPathfinder prepares search engine for given graph
func NewPathfinder(graph *TaxiwayGraph, options ...func(*Pathfinder)) (*Pathfinder, error) {
	pf := &Pathfinder{
		graph:    graph,
		engine:   &ch.Graph{},
		vertices: make(map[NodeID]struct{}),
		edges:    make(map[nodePair]SegmentID),
	}
	for _, option := range options {
		option(pf)
	}

	// Parallel segments between the same pair of nodes: keep the shortest one
	for _, seg := range graph.segments {
		if pf.filter != nil && !pf.filter(seg) {
			continue
		}
		for _, pair := range []nodePair{{seg.StartNode, seg.EndNode}, {seg.EndNode, seg.StartNode}} {
			if existing, ok := pf.edges[pair]; ok && graph.segments[existing].LengthFeet <= seg.LengthFeet {
				continue
			}
			pf.edges[pair] = seg.ID
		}
	}

	for pair := range pf.edges {
		for _, id := range []NodeID{pair.from, pair.to} {
			if _, ok := pf.vertices[id]; ok {
				continue
			}
			err := pf.engine.CreateVertex(int64(id))
			if err != nil {
				return nil, errors.Wrap(err, "Can not create vertex")
			}
			pf.vertices[id] = struct{}{}
		}
	}
	for pair, segID := range pf.edges {
		err := pf.engine.AddEdge(int64(pair.from), int64(pair.to), graph.segments[segID].LengthFeet)
		if err != nil {
			return nil, errors.Wrap(err, "Can not wrap Source and Target vertices as Edge")
		}
	}
	if pf.contraction && len(pf.vertices) > 0 {
		pf.engine.PrepareContractionHierarchies()
	}
	return pf, nil
}

// Contains checks if node is a part of searchable (sub)graph
func (pf *Pathfinder) Contains(id NodeID) bool {
	_, ok := pf.vertices[id]
	return ok
}

// FindPath returns ordered segments from start to end. Second value is false when there is no route.
// Same start and end give empty path.
func (pf *Pathfinder) FindPath(start, end NodeID) ([]SegmentID, bool) {
	if start == end {
		return []SegmentID{}, true
	}
	if !pf.Contains(start) || !pf.Contains(end) {
		return nil, false
	}
	pf.Lock()
	var cost float64
	var vertices []int64
	if pf.contraction {
		cost, vertices = pf.engine.ShortestPath(int64(start), int64(end))
	} else {
		cost, vertices = pf.engine.VanillaShortestPath(int64(start), int64(end))
	}
	pf.Unlock()
	if cost < 0 || math.IsInf(cost, 0) || math.IsNaN(cost) || len(vertices) < 2 {
		return nil, false
	}
	path := make([]SegmentID, 0, len(vertices)-1)
	for i := 1; i < len(vertices); i++ {
		segID, ok := pf.edges[nodePair{NodeID(vertices[i-1]), NodeID(vertices[i])}]
		if !ok {
			return nil, false
		}
		path = append(path, segID)
	}
	return path, true
}

// FindPathToAny returns the shortest among paths from start to each of targets
func (pf *Pathfinder) FindPathToAny(start NodeID, targets []NodeID) (PathResult, bool) {
	best := PathResult{Target: NoNode, LengthFeet: math.Inf(1)}
	found := false
	for _, target := range targets {
		path, ok := pf.FindPath(start, target)
		if !ok {
			continue
		}
		length := pf.graph.PathLength(path)
		if length < best.LengthFeet {
			best = PathResult{Target: target, Segments: path, LengthFeet: length}
			found = true
		}
	}
	return best, found
}

// PathLength returns total length (feet) of given segments
func (graph *TaxiwayGraph) PathLength(path []SegmentID) float64 {
	total := 0.0
	for _, segID := range path {
		if seg := graph.Segment(segID); seg != nil {
			total += seg.LengthFeet
		}
	}
	return total
}
