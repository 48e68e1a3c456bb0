package taxiguide

import (
	"github.com/paulmach/orb"
)

// TurnDirection is classification of turn between consecutive waypoints
type TurnDirection uint16

const (
	TURN_STRAIGHT = TurnDirection(iota + 1)
	TURN_LEFT
	TURN_RIGHT
)

func (iotaIdx TurnDirection) String() string {
	return [...]string{"straight", "left", "right"}[iotaIdx-1]
}

// straightTurnThreshold is the largest turn angle (degrees) still considered as straight
const straightTurnThreshold = 30.0

// classifyTurn returns turn direction for signed turn angle (positive is right)
func classifyTurn(angle float64) TurnDirection {
	switch {
	case angle <= -straightTurnThreshold:
		return TURN_LEFT
	case angle >= straightTurnThreshold:
		return TURN_RIGHT
	default:
		return TURN_STRAIGHT
	}
}

// WaypointType is role of waypoint in route
type WaypointType uint16

const (
	WAYPOINT_NORMAL = WaypointType(iota + 1)
	WAYPOINT_TAXIWAY_CHANGE
	WAYPOINT_HOLD_SHORT
	WAYPOINT_DESTINATION
)

func (iotaIdx WaypointType) String() string {
	return [...]string{"normal", "taxiway_change", "hold_short", "destination"}[iotaIdx-1]
}

// DestinationKind tells what route leads to
type DestinationKind uint16

const (
	DESTINATION_RUNWAY = DestinationKind(iota + 1)
	DESTINATION_PARKING
)

func (iotaIdx DestinationKind) String() string {
	return [...]string{"runway", "parking"}[iotaIdx-1]
}

// Destination is either runway hold-short or parking spot
type Destination struct {
	Kind DestinationKind
	Name string
}

// TaxiRouteWaypoint is one segment of route which should be traversed towards TargetNode
type TaxiRouteWaypoint struct {
	Index       int
	SegmentID   SegmentID
	FromNode    NodeID
	TargetNode  NodeID
	FromPoint   orb.Point
	TargetPoint orb.Point
	TaxiwayName string
	WidthFeet   float64

	Type                     WaypointType
	Turn                     TurnDirection
	TurnAngle                float64
	HeadingDegrees           float64
	DistanceFromPreviousFeet float64

	ApproachAnnouncement string
	PassAnnouncement     string

	// HoldShortRunway is filled when TargetNode is a hold-short node
	HoldShortRunway string
	// Synthetic waypoint leads from aircraft's segment to the official start of route
	Synthetic bool
}

// TaxiRoute is ordered list of waypoints with a cursor pointing to the waypoint being flown
type TaxiRoute struct {
	Waypoints            []TaxiRouteWaypoint
	CurrentWaypointIndex int
	Taxiways             []string
	Destination          Destination
	TotalDistanceFeet    float64
}

// CurrentWaypoint returns waypoint being flown or nil when route has been completed
func (route *TaxiRoute) CurrentWaypoint() *TaxiRouteWaypoint {
	return route.waypointAt(route.CurrentWaypointIndex)
}

// NextWaypoint returns waypoint after current one or nil
func (route *TaxiRoute) NextWaypoint() *TaxiRouteWaypoint {
	return route.waypointAt(route.CurrentWaypointIndex + 1)
}

// PreviousWaypoint returns waypoint before current one or nil
func (route *TaxiRoute) PreviousWaypoint() *TaxiRouteWaypoint {
	return route.waypointAt(route.CurrentWaypointIndex - 1)
}

func (route *TaxiRoute) waypointAt(idx int) *TaxiRouteWaypoint {
	if route == nil || idx < 0 || idx >= len(route.Waypoints) {
		return nil
	}
	return &route.Waypoints[idx]
}

// IsLastWaypoint checks if cursor points to the final waypoint
func (route *TaxiRoute) IsLastWaypoint() bool {
	return route.CurrentWaypointIndex == len(route.Waypoints)-1
}

// IsComplete checks if cursor has passed all waypoints
func (route *TaxiRoute) IsComplete() bool {
	return route.CurrentWaypointIndex >= len(route.Waypoints)
}

// Advance moves cursor to the next waypoint. Returns false when route has already been completed
func (route *TaxiRoute) Advance() bool {
	if route.IsComplete() {
		return false
	}
	route.CurrentWaypointIndex++
	return true
}

// RemainingDistanceFeet returns distance from given position to current waypoint's target plus lengths of all following waypoints
func (route *TaxiRoute) RemainingDistanceFeet(pos orb.Point) float64 {
	current := route.CurrentWaypoint()
	if current == nil {
		return 0
	}
	total := DistanceFeet(pos, current.TargetPoint)
	for i := route.CurrentWaypointIndex + 1; i < len(route.Waypoints); i++ {
		total += route.Waypoints[i].DistanceFromPreviousFeet
	}
	return total
}

// FinalWaypoint returns the last waypoint or nil
func (route *TaxiRoute) FinalWaypoint() *TaxiRouteWaypoint {
	return route.waypointAt(len(route.Waypoints) - 1)
}

// LineString returns route geometry from the first waypoint's origin to destination
func (route *TaxiRoute) LineString() orb.LineString {
	line := make(orb.LineString, 0, len(route.Waypoints)+1)
	for i, wp := range route.Waypoints {
		if i == 0 {
			line = append(line, wp.FromPoint)
		}
		line = append(line, wp.TargetPoint)
	}
	return line
}
