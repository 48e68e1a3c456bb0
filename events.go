package taxiguide

import (
	"github.com/paulmach/orb"
)

// GuidanceState is state of guidance engine
type GuidanceState uint16

const (
	STATE_IDLE = GuidanceState(iota + 1)
	STATE_AWAITING_SEGMENT_SELECTION
	STATE_SEGMENT_LOCKED
	STATE_APPROACHING_JUNCTION
	STATE_AWAITING_JUNCTION_SELECTION
	STATE_AT_DESTINATION
	STATE_FOLLOWING_ROUTE
	STATE_APPROACHING_WAYPOINT
	STATE_DEVIATED
	STATE_ALIGNING_TO_SEGMENT
	STATE_ALIGNING_ALONG_SEGMENT
)

func (iotaIdx GuidanceState) String() string {
	return [...]string{
		"idle",
		"awaiting_segment_selection",
		"segment_locked",
		"approaching_junction",
		"awaiting_junction_selection",
		"at_destination",
		"following_route",
		"approaching_waypoint",
		"deviated",
		"aligning_to_segment",
		"aligning_along_segment",
	}[iotaIdx-1]
}

// IsRouteMode checks if state belongs to route following
func (iotaIdx GuidanceState) IsRouteMode() bool {
	switch iotaIdx {
	case STATE_FOLLOWING_ROUTE, STATE_APPROACHING_WAYPOINT, STATE_DEVIATED, STATE_ALIGNING_TO_SEGMENT, STATE_ALIGNING_ALONG_SEGMENT:
		return true
	default:
		return false
	}
}

// IsSegmentMode checks if state belongs to free (segment by segment) guidance
func (iotaIdx GuidanceState) IsSegmentMode() bool {
	switch iotaIdx {
	case STATE_SEGMENT_LOCKED, STATE_APPROACHING_JUNCTION, STATE_AWAITING_JUNCTION_SELECTION:
		return true
	default:
		return false
	}
}

// EventKind is type of outward message of guidance engine
type EventKind uint16

const (
	EVENT_GUIDANCE_ACTIVE_CHANGED = EventKind(iota + 1)
	EVENT_JUNCTION_DETECTED
	EVENT_HOLD_SHORT_DETECTED
	EVENT_SEGMENT_SELECTION_REQUIRED
	EVENT_STATE_CHANGED
	EVENT_ROUTE_DEVIATION
	EVENT_ARRIVED
)

func (iotaIdx EventKind) String() string {
	return [...]string{"guidance_active_changed", "junction_detected", "hold_short_detected", "segment_selection_required", "state_changed", "route_deviation", "arrived"}[iotaIdx-1]
}

// Event is a message for host (UI). Only fields relevant to Kind are filled
type Event struct {
	Kind         EventKind
	Active       bool
	State        GuidanceState
	Node         NodeID
	Options      []SegmentOption
	DistanceFeet float64
	Text         string
	Position     orb.Point
}

// GuidanceOutput is the result of a single position update
type GuidanceOutput struct {
	State  GuidanceState
	Active bool

	CorrectionDegrees float64
	Pan               float64
	CrossTrackFeet    float64
	Recovering        bool
	Carrot            *CarrotPosition

	LockedSegment SegmentID
	TargetNode    NodeID
	WaypointIndex int

	Announcements []string
	Events        []Event
}
