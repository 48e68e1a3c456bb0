package taxiguide

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/vatsimnerd/util/set"
)

// RouteRequest describes what route should be built
type RouteRequest struct {
	Position    orb.Point
	Heading     float64 // true heading, degrees
	Taxiways    []string
	Destination Destination
}

// RouteBuilder converts taxiway names plus destination into TaxiRoute.
// It caches per-taxiway pathfinders, so one builder should not be used from several goroutines at once.
type RouteBuilder struct {
	graph      *TaxiwayGraph
	perTaxiway map[string]*Pathfinder
}

// orientedSpan is a segment with known direction of travel
type orientedSpan struct {
	segment SegmentID
	from    NodeID
	to      NodeID
}

// NewRouteBuilder returns builder for given graph
func NewRouteBuilder(graph *TaxiwayGraph) *RouteBuilder {
	return &RouteBuilder{
		graph:      graph,
		perTaxiway: make(map[string]*Pathfinder),
	}
}

// taxiwayPathfinder returns pathfinder restricted to the segments of single taxiway
func (rb *RouteBuilder) taxiwayPathfinder(name string) *Pathfinder {
	if pf, ok := rb.perTaxiway[name]; ok {
		return pf
	}
	pf, err := NewPathfinder(rb.graph, WithTaxiwayOnly(name))
	if err != nil {
		log.WithError(err).WithField("taxiway", name).Warn("Can't prepare taxiway pathfinder")
		pf = nil
	}
	rb.perTaxiway[name] = pf
	return pf
}

// pathAlongOrAcross tries to stay on taxiway first and falls back to the whole graph
func (rb *RouteBuilder) pathAlongOrAcross(taxiway string, from NodeID, targets []NodeID) (PathResult, bool) {
	if taxiway != "" {
		if pf := rb.taxiwayPathfinder(taxiway); pf != nil && pf.Contains(from) {
			if res, ok := pf.FindPathToAny(from, targets); ok {
				return res, true
			}
		}
	}
	return rb.graph.pathfinder.FindPathToAny(from, targets)
}

// destinationNodes returns candidate target nodes for destination
func (rb *RouteBuilder) destinationNodes(dest Destination) []NodeID {
	switch dest.Kind {
	case DESTINATION_RUNWAY:
		return rb.graph.HoldShortNodes(dest.Name)
	case DESTINATION_PARKING:
		if id := rb.graph.ParkingNode(dest.Name); id != NoNode {
			return []NodeID{id}
		}
	}
	return nil
}

// BuildRoute produces route or *RouteError
func (rb *RouteBuilder) BuildRoute(req RouteRequest) (*TaxiRoute, error) {
	if rb.graph == nil {
		return nil, ErrNoGraph
	}
	taxiways := make([]string, 0, len(req.Taxiways))
	for _, name := range req.Taxiways {
		name = NormalizeTaxiwayName(name)
		if name == "" {
			continue
		}
		taxiways = append(taxiways, name)
	}

	/* 1. All taxiways must exist */
	for _, name := range taxiways {
		if !rb.graph.HasTaxiway(name) {
			return nil, &RouteError{Kind: ROUTE_ERR_TAXIWAY_NOT_FOUND, Taxiway: name}
		}
	}
	req.Destination.Name = NormalizeTaxiwayName(req.Destination.Name)
	targets := rb.destinationNodes(req.Destination)
	if len(targets) == 0 {
		return nil, &RouteError{Kind: ROUTE_ERR_DESTINATION_NOT_FOUND, Destination: req.Destination}
	}

	/* 2. Aircraft's segment */
	current, _ := rb.graph.NearestSegment(req.Position)
	if current == NoSegment {
		return nil, ErrNoNearbyTaxiway
	}
	seg := rb.graph.segments[current]
	ahead, behind := seg.EndNode, seg.StartNode
	if math.Abs(HeadingDifference(req.Heading, seg.Heading)) > 90 {
		ahead, behind = behind, ahead
	}

	/* 3-4. Try to leave current segment via the node ahead, then via the node behind */
	var bestSpans []orientedSpan
	var firstErr error
	bestCost := math.Inf(1)
	for _, exit := range []NodeID{ahead, behind} {
		body, err := rb.buildBody(exit, taxiways, targets, req.Destination)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		cost := DistanceFeet(req.Position, rb.graph.nodes[exit].Point) + rb.graph.PathLength(body)
		if cost >= bestCost {
			continue
		}
		spans, err := rb.orient(current, exit, body)
		if err != nil {
			continue
		}
		bestCost = cost
		bestSpans = spans
	}
	if bestSpans == nil {
		return nil, firstErr
	}

	/* 5. Leading waypoint from aircraft's segment */
	synthetic := len(taxiways) == 0 || seg.Name != taxiways[0]
	if bestSpans[0].segment != current {
		synthetic = true
	}
	return rb.makeRoute(req, taxiways, bestSpans, current, synthetic), nil
}

// buildBody returns unoriented segments starting at node `start`, following taxiways in order and ending at one of targets
func (rb *RouteBuilder) buildBody(start NodeID, taxiways []string, targets []NodeID, dest Destination) ([]SegmentID, error) {
	cur := start
	body := []SegmentID{}

	if len(taxiways) > 0 && !rb.graph.NodeOnTaxiway(cur, taxiways[0]) {
		res, ok := rb.graph.pathfinder.FindPathToAny(cur, rb.graph.NodesOnTaxiway(taxiways[0]))
		if !ok {
			return nil, &RouteError{Kind: ROUTE_ERR_NO_PATH_TO_FIRST, Taxiway: taxiways[0]}
		}
		body = append(body, res.Segments...)
		cur = res.Target
	}

	for i := 0; i+1 < len(taxiways); i++ {
		from, to := taxiways[i], taxiways[i+1]
		if from == to {
			continue
		}
		var res PathResult
		var ok bool
		if crossings := rb.intersections(from, to); len(crossings) > 0 {
			res, ok = rb.pathAlongOrAcross(from, cur, crossings)
		} else {
			res, ok = rb.graph.pathfinder.FindPathToAny(cur, rb.graph.NodesOnTaxiway(to))
		}
		if !ok {
			return nil, &RouteError{Kind: ROUTE_ERR_NO_CONNECTION, From: from, To: to}
		}
		body = append(body, res.Segments...)
		cur = res.Target
	}

	last := ""
	if len(taxiways) > 0 {
		last = taxiways[len(taxiways)-1]
	}
	res, ok := rb.pathAlongOrAcross(last, cur, targets)
	if !ok {
		return nil, &RouteError{Kind: ROUTE_ERR_CANNOT_REACH_DESTINATION, Destination: dest}
	}
	body = append(body, res.Segments...)
	return body, nil
}

// intersections returns nodes shared by both taxiways
func (rb *RouteBuilder) intersections(a, b string) []NodeID {
	onB := set.New[NodeID]()
	for _, id := range rb.graph.NodesOnTaxiway(b) {
		onB.Add(id)
	}
	shared := []NodeID{}
	for _, id := range rb.graph.NodesOnTaxiway(a) {
		if onB.Has(id) {
			shared = append(shared, id)
		}
	}
	return shared
}

// orient walks body from `exit` node, prepends aircraft's segment and drops immediate back-tracking
func (rb *RouteBuilder) orient(current SegmentID, exit NodeID, body []SegmentID) ([]orientedSpan, error) {
	seg := rb.graph.segments[current]
	spans := []orientedSpan{{segment: current, from: seg.OtherNode(exit), to: exit}}
	cur := exit
	for _, segID := range body {
		next := rb.graph.segments[segID].OtherNode(cur)
		if next == NoNode {
			return nil, ErrCannotReachDestination
		}
		span := orientedSpan{segment: segID, from: cur, to: next}
		if n := len(spans); n > 0 && spans[n-1].segment == span.segment && spans[n-1].to == span.from {
			// U-turn over the same segment
			spans = spans[:n-1]
		} else {
			spans = append(spans, span)
		}
		cur = next
	}
	if len(spans) == 0 {
		// Destination is the far endpoint of aircraft's own segment
		spans = append(spans, orientedSpan{segment: current, from: seg.OtherNode(cur), to: cur})
	} else if spans[0].segment != current {
		spans = append([]orientedSpan{{segment: current, from: seg.OtherNode(spans[0].from), to: spans[0].from}}, spans...)
	}
	return spans, nil
}

// makeRoute converts oriented spans into waypoints
func (rb *RouteBuilder) makeRoute(req RouteRequest, taxiways []string, spans []orientedSpan, current SegmentID, leadingSynthetic bool) *TaxiRoute {
	route := &TaxiRoute{
		Waypoints:   make([]TaxiRouteWaypoint, 0, len(spans)),
		Taxiways:    taxiways,
		Destination: req.Destination,
	}
	prevHeading := NormalizeHeading(req.Heading)
	prevName := ""
	for i, span := range spans {
		seg := rb.graph.segments[span.segment]
		target := rb.graph.nodes[span.to]
		heading := seg.HeadingFrom(span.from)
		turnAngle := HeadingDifference(prevHeading, heading)
		wp := TaxiRouteWaypoint{
			Index:                    i,
			SegmentID:                seg.ID,
			FromNode:                 span.from,
			TargetNode:               span.to,
			FromPoint:                rb.graph.nodes[span.from].Point,
			TargetPoint:              target.Point,
			TaxiwayName:              seg.Name,
			WidthFeet:                seg.WidthFeet,
			Type:                     WAYPOINT_NORMAL,
			Turn:                     classifyTurn(turnAngle),
			TurnAngle:                turnAngle,
			HeadingDegrees:           heading,
			DistanceFromPreviousFeet: seg.LengthFeet,
		}
		if target.Type == NODE_HOLD_SHORT {
			wp.HoldShortRunway = target.HoldShortRunway
		}
		switch {
		case i == len(spans)-1:
			wp.Type = WAYPOINT_DESTINATION
		case target.Type == NODE_HOLD_SHORT:
			wp.Type = WAYPOINT_HOLD_SHORT
		case i > 0 && seg.Name != "" && seg.Name != prevName:
			wp.Type = WAYPOINT_TAXIWAY_CHANGE
		}
		if i == 0 && span.segment == current {
			wp.Synthetic = leadingSynthetic
		}
		wp.ApproachAnnouncement = ApproachAnnouncement(&wp, req.Destination)
		wp.PassAnnouncement = PassAnnouncement(&wp, req.Destination)

		route.TotalDistanceFeet += wp.DistanceFromPreviousFeet
		route.Waypoints = append(route.Waypoints, wp)
		prevHeading = heading
		prevName = seg.Name
	}
	return route
}
