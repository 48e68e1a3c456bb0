package taxiguide

import (
	"github.com/paulmach/orb"
)

// CarrotPosition is pursuit target ahead of aircraft. It is recomputed on every position update
type CarrotPosition struct {
	Point          orb.Point
	HeadingDegrees float64
	// Bearing and distance from aircraft
	BearingDegrees float64
	DistanceFeet   float64
	// WaypointIndex is index of leg (route waypoint) carrot lies on
	WaypointIndex int
	IsDestination bool
	OnArc         bool
	OnRecovery    bool
}

// pathLeg is a straight piece of intended path: route waypoint or locked segment
type pathLeg struct {
	index   int
	start   orb.Point
	end     orb.Point
	heading float64
	length  float64
	width   float64
}

func newPathLeg(index int, start, end orb.Point, width float64) pathLeg {
	return pathLeg{
		index:   index,
		start:   start,
		end:     end,
		heading: BearingDegrees(start, end),
		length:  DistanceFeet(start, end),
		width:   width,
	}
}

// legsFromRoute converts waypoints starting from given index to legs
func legsFromRoute(route *TaxiRoute, from int) []pathLeg {
	legs := make([]pathLeg, 0, len(route.Waypoints)-from)
	for i := from; i < len(route.Waypoints); i++ {
		wp := &route.Waypoints[i]
		legs = append(legs, newPathLeg(i, wp.FromPoint, wp.TargetPoint, wp.WidthFeet))
	}
	return legs
}

// turnArcs returns arcs between consecutive legs. arcs[k] joins legs[k] and legs[k+1], nil means sharp corner or no turn
func turnArcs(legs []pathLeg, params GuidanceParams) []*TurnArc {
	arcs := make([]*TurnArc, len(legs))
	for k := 0; k+1 < len(legs); k++ {
		width := legs[k+1].width
		if width <= 0 {
			width = legs[k].width
		}
		arcs[k] = NewTurnArc(legs[k].end, legs[k].heading, legs[k+1].heading, width, legs[k].length, legs[k+1].length, params)
	}
	return arcs
}

// projectCarrot walks lookAhead feet forward from along-track position on legs[0].
// Each leg is consumed as {straight part, arc to next leg}. Past the final leg carrot stays on its end.
func projectCarrot(legs []pathLeg, arcs []*TurnArc, along, lookAhead float64, endIsDestination bool) CarrotPosition {
	if len(legs) == 0 {
		return CarrotPosition{}
	}
	entry := func(k int) float64 {
		if k > 0 && arcs[k-1] != nil {
			return arcs[k-1].TangentFeet
		}
		return 0
	}
	exit := func(k int) float64 {
		if arcs[k] != nil {
			return legs[k].length - arcs[k].TangentFeet
		}
		return legs[k].length
	}
	onArc := func(k int, progress float64) CarrotPosition {
		pt, heading := arcs[k].PointAt(progress)
		return CarrotPosition{Point: pt, HeadingDegrees: heading, WaypointIndex: legs[k].index, OnArc: true}
	}
	onLeg := func(k int, s float64) CarrotPosition {
		return CarrotPosition{Point: pointOnSegment(legs[k].start, legs[k].end, s), HeadingDegrees: legs[k].heading, WaypointIndex: legs[k].index}
	}

	k := 0
	s := along
	remaining := lookAhead
	arcProgress := -1.0

	// Aircraft could already be inside an arc. Tangent span [-T; T] around node maps linearly onto arc length
	if arcs[0] != nil && s > exit(0) {
		t := arcs[0].TangentFeet
		arcProgress = clamp(arcs[0].LengthFeet/2*(1+(s-legs[0].length)/t), 0, arcs[0].LengthFeet)
	}
	if s < 0 {
		s = 0
	}

	for {
		if arcProgress < 0 {
			left := exit(k) - s
			if left < 0 {
				left = 0
			}
			if remaining <= left {
				return onLeg(k, s+remaining)
			}
			remaining -= left
			if arcs[k] == nil {
				if k == len(legs)-1 {
					return CarrotPosition{Point: legs[k].end, HeadingDegrees: legs[k].heading, WaypointIndex: legs[k].index, IsDestination: endIsDestination}
				}
				k++
				s = entry(k)
				continue
			}
			arcProgress = 0
		}
		left := arcs[k].LengthFeet - arcProgress
		if remaining <= left {
			return onArc(k, arcProgress+remaining)
		}
		remaining -= left
		arcProgress = -1
		k++
		s = entry(k)
	}
}

// carrotFromAircraft fills bearing and distance fields
func carrotFromAircraft(c CarrotPosition, pos orb.Point) CarrotPosition {
	c.BearingDegrees = BearingDegrees(pos, c.Point)
	c.DistanceFeet = DistanceFeet(pos, c.Point)
	return c
}

// projectRecoveryCarrot puts carrot on recovery path. Look-ahead left after intercept point is projected along legs
func projectRecoveryCarrot(arc *RecoveryArc, legs []pathLeg, arcs []*TurnArc, pos orb.Point, lookAhead float64, endIsDestination bool) CarrotPosition {
	s := arc.Progress(pos) + lookAhead
	pt, heading, onPath := arc.PointAt(s)
	if len(legs) == 0 {
		return CarrotPosition{Point: pt, HeadingDegrees: heading, OnRecovery: true}
	}
	if onPath {
		return CarrotPosition{Point: pt, HeadingDegrees: heading, WaypointIndex: legs[0].index, OnRecovery: true}
	}
	along := AlongTrackFeet(arc.InterceptPoint, legs[0].start, legs[0].end)
	c := projectCarrot(legs, arcs, along, s-arc.TotalFeet(), endIsDestination)
	c.OnRecovery = true
	return c
}
