package taxiguide

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// tickRoute handles position update in route mode
func (e *Engine) tickRoute() {
	route := e.route
	wp := route.CurrentWaypoint()
	if wp == nil {
		e.finishRoute(route.FinalWaypoint())
		return
	}
	length := DistanceFeet(wp.FromPoint, wp.TargetPoint)
	xt := CrossTrackFeet(e.position, wp.FromPoint, wp.TargetPoint)
	along := AlongTrackFeet(e.position, wp.FromPoint, wp.TargetPoint)
	dist := DistanceFeet(e.position, wp.TargetPoint)
	e.out.CrossTrackFeet = xt

	if !e.routeStarted {
		e.routeStarted = true
		switch {
		case math.Abs(xt) > e.params.AlignEnterFeet:
			e.setState(STATE_ALIGNING_TO_SEGMENT)
		case along < -e.params.AlignBehindFeet && math.Abs(xt) >= e.params.AlignCaptureFeet:
			e.setState(STATE_ALIGNING_TO_SEGMENT)
		case along < -e.params.AlignBehindFeet:
			e.setState(STATE_ALIGNING_ALONG_SEGMENT)
		}
	}

	switch e.state {
	case STATE_ALIGNING_TO_SEGMENT:
		if math.Abs(xt) >= e.params.AlignCaptureFeet {
			e.steerToIntercept(wp)
			return
		}
		if along < 0 {
			e.setState(STATE_ALIGNING_ALONG_SEGMENT)
		} else {
			e.setState(STATE_FOLLOWING_ROUTE)
		}
	case STATE_DEVIATED:
		// Missed turn keeps route deviated until the route is rebuilt or aircraft comes back
		if math.Abs(xt) >= e.params.RecoveredCrossTrackFeet || e.deviated(route.CurrentWaypointIndex, 0, dist, length) {
			e.steerToIntercept(wp)
			return
		}
		log.WithField("waypoint", route.CurrentWaypointIndex).Info("aircraft is back on route")
		e.announce("Back on route")
		e.resetProgress(dist)
		e.setState(STATE_FOLLOWING_ROUTE)
	}
	if e.state == STATE_ALIGNING_ALONG_SEGMENT {
		switch {
		case math.Abs(xt) > e.params.AlignEnterFeet:
			e.setState(STATE_ALIGNING_TO_SEGMENT)
			e.steerToIntercept(wp)
			return
		case along < 0:
			e.applyCorrection(headingCorrection(e.heading, wp.HeadingDegrees, e.params.MaxCorrection))
			return
		}
		e.setState(STATE_FOLLOWING_ROUTE)
	}

	if e.shouldAdvance(dist, along, length) {
		if e.advance() {
			return
		}
		wp = route.CurrentWaypoint()
		dist = DistanceFeet(e.position, wp.TargetPoint)
		length = DistanceFeet(wp.FromPoint, wp.TargetPoint)
		xt = CrossTrackFeet(e.position, wp.FromPoint, wp.TargetPoint)
	}

	if e.deviated(route.CurrentWaypointIndex, xt, dist, length) {
		log.WithFields(logrus.Fields{"waypoint": route.CurrentWaypointIndex, "cross_track": xt, "distance": dist}).Info("route deviation")
		text := DeviationText(wp, route.Destination)
		e.recovery = nil
		e.setState(STATE_DEVIATED)
		e.announce(text)
		e.emit(Event{Kind: EVENT_ROUTE_DEVIATION, Text: text, DistanceFeet: dist, Position: e.position})
		e.steerToIntercept(wp)
		return
	}

	e.announceAhead(route, wp, dist)
	e.steerOnLegs(legsFromRoute(route, route.CurrentWaypointIndex), true)
}

// shouldAdvance checks whether current waypoint's target node has been reached or passed
func (e *Engine) shouldAdvance(dist, along, length float64) bool {
	if dist <= e.params.NodeReachedFeet {
		return true
	}
	if along > length+e.params.AlongTrackToleranceFeet {
		return true
	}
	// Distance has been growing for a while although aircraft is already on the segment.
	// Progress must exceed node radius: right after a sharp turn the distance grows legitimately.
	now := e.now()
	diverging := along > e.params.NodeReachedFeet && e.lastTargetDist > 0 && dist > e.lastTargetDist
	e.lastTargetDist = dist
	if !diverging {
		e.divergingSince = time.Time{}
		return false
	}
	if e.divergingSince.IsZero() {
		e.divergingSince = now
		return false
	}
	return now.Sub(e.divergingSince) >= e.params.DivergingDuration
}

// advance moves route cursor. Returns true when route has been completed
func (e *Engine) advance() bool {
	route := e.route
	passed := route.CurrentWaypoint()
	if route.IsLastWaypoint() {
		route.Advance()
		e.finishRoute(passed)
		return true
	}
	if passed.Type == WAYPOINT_HOLD_SHORT {
		e.announce(passed.PassAnnouncement)
		e.emit(Event{Kind: EVENT_HOLD_SHORT_DETECTED, Node: passed.TargetNode, Text: passed.PassAnnouncement, Position: passed.TargetPoint})
	}
	route.Advance()
	current := route.CurrentWaypoint()
	if current.Type == WAYPOINT_TAXIWAY_CHANGE {
		e.announce(current.PassAnnouncement)
	}
	e.locked, e.fromNode, e.targetNode = current.SegmentID, current.FromNode, current.TargetNode
	e.resetProgress(DistanceFeet(e.position, current.TargetPoint))
	e.recovery = nil
	e.setState(STATE_FOLLOWING_ROUTE)
	return false
}

func (e *Engine) resetProgress(dist float64) {
	e.lastTargetDist = dist
	e.divergingSince = time.Time{}
}

func (e *Engine) finishRoute(final *TaxiRouteWaypoint) {
	text := ""
	if final != nil {
		text = final.PassAnnouncement
	}
	e.stopTone()
	e.recovery = nil
	e.announce(text)
	e.setState(STATE_AT_DESTINATION)
	evt := Event{Kind: EVENT_ARRIVED, Text: text, Node: NoNode, Position: e.position}
	if final != nil {
		evt.Node = final.TargetNode
	}
	e.emit(evt)
}

// deviated checks missed turn or large cross-track. The distance check is skipped on the very first waypoint.
// "More than 3x segment length or 500 ft" is read as the larger of both thresholds, so short segments are not flagged early.
func (e *Engine) deviated(index int, xt, dist, length float64) bool {
	if math.Abs(xt) > e.params.DeviationCrossTrackFeet {
		return true
	}
	if index == 0 {
		return false
	}
	return dist > math.Max(e.params.DeviationLengthFactor*length, e.params.DeviationMinDistanceFeet)
}

// announceAhead speaks approach texts and turn anticipation once per waypoint
func (e *Engine) announceAhead(route *TaxiRoute, wp *TaxiRouteWaypoint, dist float64) {
	idx := route.CurrentWaypointIndex
	next := route.NextWaypoint()
	if dist <= e.params.WaypointAnnounceFeet {
		e.setState(STATE_APPROACHING_WAYPOINT)
		if e.approachAnnounce != idx {
			e.approachAnnounce = idx
			switch {
			case wp.Type == WAYPOINT_HOLD_SHORT || wp.Type == WAYPOINT_DESTINATION:
				e.announce(wp.ApproachAnnouncement)
			case next != nil && next.Type == WAYPOINT_TAXIWAY_CHANGE:
				e.announce(next.ApproachAnnouncement)
			}
		}
	} else {
		e.setState(STATE_FOLLOWING_ROUTE)
	}
	if next == nil || e.turnAnnounce == idx {
		return
	}
	angle := math.Abs(next.TurnAngle)
	if angle > e.params.TurnAnticipationAngle && dist < math.Max(e.params.TurnAnticipationMinFeet, e.params.TurnAnticipationFactor*angle) {
		e.turnAnnounce = idx
		e.announce(BeginTurnText(next.Turn))
	}
}

// steerToIntercept aims aircraft at the perpendicular foot on infinite centerline of waypoint
func (e *Engine) steerToIntercept(wp *TaxiRouteWaypoint) {
	foot := ProjectOntoLine(e.position, wp.FromPoint, wp.TargetPoint)
	carrot := carrotFromAircraft(CarrotPosition{
		Point:          foot,
		HeadingDegrees: wp.HeadingDegrees,
		WaypointIndex:  wp.Index,
	}, e.position)
	e.out.Carrot = &carrot
	e.out.CrossTrackFeet = CrossTrackFeet(e.position, wp.FromPoint, wp.TargetPoint)
	e.applyCorrection(steeringCorrection(e.heading, carrot.BearingDegrees, e.params.MaxCorrection))
}
