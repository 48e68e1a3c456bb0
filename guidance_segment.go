package taxiguide

import (
	"math"
)

const maxChainedLegs = 4

// tickSegment handles position update in free guidance: aircraft follows locked segment toward target node
func (e *Engine) tickSegment() {
	seg := e.graph.Segment(e.locked)
	target := e.graph.Node(e.targetNode)
	from := e.graph.Node(e.fromNode)
	if seg == nil || target == nil || from == nil {
		e.stop()
		return
	}

	xt := CrossTrackFeet(e.position, from.Point, target.Point)
	if math.Abs(xt) > e.params.SearchRadiusFeet {
		e.relock()
		return
	}
	along := AlongTrackFeet(e.position, from.Point, target.Point)
	dist := DistanceFeet(e.position, target.Point)

	if dist <= e.params.NodeReachedFeet || along > seg.LengthFeet+e.params.AlongTrackToleranceFeet {
		if e.arriveAtNode(seg, target) {
			return
		}
		// Guidance has moved onto next segment
		e.steerOnLegs(e.segmentLegs(), false)
		return
	}

	if target.Type == NODE_HOLD_SHORT {
		e.checkHoldShort(target, dist)
	}
	// Guidance never continues past hold-short node
	stop := target.IsDeadEnd() || target.Type == NODE_HOLD_SHORT
	if stop && dist <= e.params.ArrivalFeet {
		e.arrive(target)
		return
	}
	if target.IsJunction() && !stop {
		e.checkJunction(seg, target, dist)
	}

	e.steerOnLegs(e.segmentLegs(), false)
}

// relock asks for segment selection again when aircraft has left locked segment
func (e *Engine) relock() {
	options := segmentOptions(e.graph, e.position, e.heading, e.params)
	log.WithField("segment", e.locked).Info("aircraft has left locked segment")
	e.stopTone()
	e.recovery = nil
	e.pending = nil
	e.options = options
	if len(options) == 0 {
		e.announce("No taxiway nearby")
		e.stop()
		return
	}
	e.announce("Off taxiway, select segment")
	e.setState(STATE_AWAITING_SEGMENT_SELECTION)
	e.emit(Event{Kind: EVENT_SEGMENT_SELECTION_REQUIRED, Options: options, Position: e.position})
}

// arriveAtNode moves guidance across target node. Returns true when guidance stops there (hold-short, dead end or no way forward)
func (e *Engine) arriveAtNode(seg *TaxiwaySegment, target *TaxiwayNode) bool {
	var next *SegmentOption
	switch {
	case target.Type == NODE_HOLD_SHORT:
		e.arrive(target)
		return true
	case e.pending != nil:
		next = e.pending
	case target.IsDeadEnd():
		e.arrive(target)
		return true
	case target.IsJunction():
		options := junctionOptions(e.graph, target.ID, seg.ID, seg.HeadingTo(target.ID))
		if idx := straightestOption(options); idx >= 0 {
			next = &options[idx]
		}
	default:
		if opt, ok := continuation(e.graph, target.ID, seg.ID); ok {
			next = &opt
		}
	}
	if next == nil {
		e.arrive(target)
		return true
	}
	opt := *next
	prevName := seg.Name
	e.lockTo(opt)
	if opt.TaxiwayName != prevName {
		e.announce(TaxiwayText(opt.TaxiwayName))
	}
	return false
}

// arrive finishes free guidance at node
func (e *Engine) arrive(node *TaxiwayNode) {
	text := "Arrived, end of taxiway"
	switch node.Type {
	case NODE_PARKING:
		if node.ParkingName != "" {
			text = "Arrived at parking " + node.ParkingName
		} else {
			text = "Arrived at parking"
		}
	case NODE_HOLD_SHORT:
		text = "Hold short"
		if node.HoldShortRunway != "" {
			text = "Hold short of runway " + node.HoldShortRunway
		}
	}
	e.stopTone()
	e.recovery = nil
	e.announce(text)
	e.setState(STATE_AT_DESTINATION)
	e.emit(Event{Kind: EVENT_ARRIVED, Node: node.ID, Text: text, Position: node.Point})
}

func (e *Engine) checkHoldShort(target *TaxiwayNode, dist float64) {
	if dist <= e.params.HoldShortNearFeet && !e.holdShortNear {
		e.holdShortNear = true
		e.holdShortFar = true
	} else if dist <= e.params.HoldShortFarFeet && !e.holdShortFar {
		e.holdShortFar = true
	} else {
		return
	}
	text := HoldShortText(target.HoldShortRunway, dist)
	e.announce(text)
	e.emit(Event{Kind: EVENT_HOLD_SHORT_DETECTED, Node: target.ID, DistanceFeet: dist, Text: text})
}

// checkJunction runs two-stage detection: warning first, then selection request
func (e *Engine) checkJunction(seg *TaxiwaySegment, target *TaxiwayNode, dist float64) {
	if e.pending != nil {
		return
	}
	if e.state == STATE_AWAITING_JUNCTION_SELECTION {
		if !e.selectionDeadline.IsZero() && !e.now().Before(e.selectionDeadline) {
			log.WithField("node", target.ID).Debug("junction selection timed out")
			e.autoSelectJunction()
		}
		return
	}
	if dist <= e.params.JunctionWarningFeet && !e.junctionWarned {
		e.junctionWarned = true
		e.announce(JunctionWarningText(len(target.Segments)-1, dist))
		e.setState(STATE_APPROACHING_JUNCTION)
	}
	if dist <= e.params.JunctionSelectionFeet && !e.junctionRequested {
		e.junctionRequested = true
		options := junctionOptions(e.graph, target.ID, seg.ID, seg.HeadingTo(target.ID))
		if len(options) <= 1 {
			if len(options) == 1 {
				e.commitJunction(options[0])
			}
			return
		}
		e.options = options
		e.selectionDeadline = e.now().Add(e.params.JunctionSelectionTimeout)
		e.setState(STATE_AWAITING_JUNCTION_SELECTION)
		e.emit(Event{Kind: EVENT_JUNCTION_DETECTED, Node: target.ID, Options: options, DistanceFeet: dist})
	}
}

// segmentLegs returns locked segment followed by known continuation (pending choice or two-segment nodes)
func (e *Engine) segmentLegs() []pathLeg {
	from := e.graph.nodes[e.fromNode]
	target := e.graph.nodes[e.targetNode]
	seg := e.graph.segments[e.locked]
	legs := []pathLeg{newPathLeg(0, from.Point, target.Point, seg.WidthFeet)}

	arriving := seg.ID
	node := target.ID
	next := e.pending
	for len(legs) < maxChainedLegs {
		if e.graph.nodes[node].Type == NODE_HOLD_SHORT {
			break
		}
		if next == nil {
			opt, ok := continuation(e.graph, node, arriving)
			if !ok {
				break
			}
			next = &opt
		}
		nextSeg := e.graph.segments[next.SegmentID]
		legs = append(legs, newPathLeg(len(legs), e.graph.nodes[next.FromNode].Point, e.graph.nodes[next.TargetNode].Point, nextSeg.WidthFeet))
		arriving = nextSeg.ID
		node = next.TargetNode
		next = nil
	}
	return legs
}
