package taxiguide

import (
	"fmt"
	"math"
	"strings"
)

// Presentation helpers. Domain types never format themselves for speech, these functions do.

// DestinationText returns spoken form of destination, e.g. "runway 27" or "parking G12"
func DestinationText(dest Destination) string {
	switch dest.Kind {
	case DESTINATION_RUNWAY:
		return "runway " + dest.Name
	case DESTINATION_PARKING:
		return "parking " + dest.Name
	default:
		return dest.Name
	}
}

// TaxiwayText returns spoken name of segment's taxiway. Unnamed segments are connectors
func TaxiwayText(name string) string {
	if name == "" {
		return "connector"
	}
	return "taxiway " + name
}

// TurnText returns "turn left", "turn right" or "continue straight"
func TurnText(turn TurnDirection) string {
	switch turn {
	case TURN_LEFT:
		return "turn left"
	case TURN_RIGHT:
		return "turn right"
	default:
		return "continue straight"
	}
}

// ApproachAnnouncement returns text spoken when aircraft is approaching target node of waypoint
func ApproachAnnouncement(wp *TaxiRouteWaypoint, dest Destination) string {
	switch wp.Type {
	case WAYPOINT_DESTINATION:
		if dest.Kind == DESTINATION_RUNWAY {
			return "Approaching hold short, " + DestinationText(dest)
		}
		return "Approaching " + DestinationText(dest)
	case WAYPOINT_HOLD_SHORT:
		if wp.HoldShortRunway != "" {
			return "Approaching hold short, runway " + wp.HoldShortRunway
		}
		return "Approaching hold short"
	case WAYPOINT_TAXIWAY_CHANGE:
		return fmt.Sprintf("Approaching %s, %s", TaxiwayText(wp.TaxiwayName), TurnText(wp.Turn))
	default:
		return ""
	}
}

// PassAnnouncement returns text spoken when waypoint becomes current (or, for destination, reached)
func PassAnnouncement(wp *TaxiRouteWaypoint, dest Destination) string {
	switch wp.Type {
	case WAYPOINT_DESTINATION:
		if dest.Kind == DESTINATION_RUNWAY {
			return "Hold short of " + DestinationText(dest)
		}
		return "Arrived at " + DestinationText(dest)
	case WAYPOINT_HOLD_SHORT:
		if wp.HoldShortRunway != "" {
			return "Hold short of runway " + wp.HoldShortRunway
		}
		return "Hold short"
	case WAYPOINT_TAXIWAY_CHANGE:
		if wp.Turn == TURN_STRAIGHT {
			return "Continue onto " + TaxiwayText(wp.TaxiwayName)
		}
		return fmt.Sprintf("%s onto %s", capitalize(TurnText(wp.Turn)), TaxiwayText(wp.TaxiwayName))
	default:
		return ""
	}
}

// RouteSummary returns text describing route, e.g. "Route via A, B to runway 27, 2400 feet"
func RouteSummary(route *TaxiRoute) string {
	via := strings.Join(route.Taxiways, ", ")
	if via == "" {
		via = "connectors"
	}
	return fmt.Sprintf("Route via %s to %s, %s", via, DestinationText(route.Destination), DistanceText(route.TotalDistanceFeet))
}

// DistanceText rounds distance for speech: tens of feet below 1000 ft, hundreds above
func DistanceText(feet float64) string {
	switch {
	case feet < 1000:
		return fmt.Sprintf("%d feet", int(math.Round(feet/10)*10))
	default:
		return fmt.Sprintf("%d feet", int(math.Round(feet/100)*100))
	}
}

// CorrectionText returns "on track" or "N left"/"N right" for steering correction (degrees, positive is right)
func CorrectionText(correction, onTrackDeg float64) string {
	if math.Abs(correction) < onTrackDeg {
		return "on track"
	}
	deg := int(math.Round(math.Abs(correction)))
	if correction < 0 {
		return fmt.Sprintf("%d left", deg)
	}
	return fmt.Sprintf("%d right", deg)
}

// BeginTurnText is spoken shortly before turn at waypoint's node
func BeginTurnText(turn TurnDirection) string {
	switch turn {
	case TURN_LEFT:
		return "Begin turn left"
	case TURN_RIGHT:
		return "Begin turn right"
	default:
		return ""
	}
}

// HeadingText returns three-digit heading, e.g. "090"
func HeadingText(heading float64) string {
	h := int(math.Round(NormalizeHeading(heading))) % 360
	if h == 0 {
		h = 360
	}
	return fmt.Sprintf("%03d", h)
}

// SegmentOptionText describes segment option for selection UI
func SegmentOptionText(opt SegmentOption) string {
	return fmt.Sprintf("%s, %s, heading %s, %s", TaxiwayText(opt.TaxiwayName), opt.Relative.String(), HeadingText(opt.HeadingDegrees), DistanceText(opt.DistanceFeet))
}

// JunctionOptionText describes junction branch for selection UI
func JunctionOptionText(opt SegmentOption) string {
	turn := classifyTurn(opt.TurnAngle)
	return fmt.Sprintf("%s, %s", TaxiwayText(opt.TaxiwayName), TurnText(turn))
}

// JunctionWarningText is spoken at first warning distance from a junction
func JunctionWarningText(branches int, distanceFeet float64) string {
	return fmt.Sprintf("Junction ahead in %s, %d options", DistanceText(distanceFeet), branches)
}

// HoldShortText is spoken when approaching hold-short node
func HoldShortText(runway string, distanceFeet float64) string {
	if runway == "" {
		return fmt.Sprintf("Hold short in %s", DistanceText(distanceFeet))
	}
	return fmt.Sprintf("Hold short runway %s in %s", runway, DistanceText(distanceFeet))
}

// DeviationText suggests how to recover after missed turn
func DeviationText(wp *TaxiRouteWaypoint, dest Destination) string {
	if wp == nil {
		return "Off route, rebuild route to " + DestinationText(dest)
	}
	return fmt.Sprintf("Off route, missed %s. Rebuild route to %s", TaxiwayText(wp.TaxiwayName), DestinationText(dest))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
