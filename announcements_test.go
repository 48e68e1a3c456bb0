package taxiguide

import (
	"testing"
)

func TestDistanceText(t *testing.T) {
	cases := map[float64]string{
		144:  "140 feet",
		145:  "150 feet",
		2345: "2300 feet",
		0:    "0 feet",
	}
	for feet, expected := range cases {
		if res := DistanceText(feet); res != expected {
			t.Errorf("Text for %f ft must be '%s', but got '%s'", feet, expected, res)
		}
	}
}

func TestHeadingText(t *testing.T) {
	cases := map[float64]string{
		0:     "360",
		90.4:  "090",
		359.7: "360",
		271:   "271",
	}
	for heading, expected := range cases {
		if res := HeadingText(heading); res != expected {
			t.Errorf("Text for heading %f must be '%s', but got '%s'", heading, expected, res)
		}
	}
}

func TestCorrectionText(t *testing.T) {
	cases := []struct {
		corr float64
		text string
	}{
		{1, "on track"},
		{-2.9, "on track"},
		{-5.2, "5 left"},
		{7.6, "8 right"},
	}
	for _, c := range cases {
		if res := CorrectionText(c.corr, 3); res != c.text {
			t.Errorf("Text for correction %f must be '%s', but got '%s'", c.corr, c.text, res)
		}
	}
}

func TestWaypointTexts(t *testing.T) {
	dest := Destination{Kind: DESTINATION_RUNWAY, Name: "27"}
	change := &TaxiRouteWaypoint{Type: WAYPOINT_TAXIWAY_CHANGE, Turn: TURN_LEFT, TaxiwayName: "B"}
	if res := ApproachAnnouncement(change, dest); res != "Approaching taxiway B, turn left" {
		t.Errorf("Approach text must be '%s', but got '%s'", "Approaching taxiway B, turn left", res)
	}
	if res := PassAnnouncement(change, dest); res != "Turn left onto taxiway B" {
		t.Errorf("Pass text must be '%s', but got '%s'", "Turn left onto taxiway B", res)
	}
	straight := &TaxiRouteWaypoint{Type: WAYPOINT_TAXIWAY_CHANGE, Turn: TURN_STRAIGHT}
	if res := PassAnnouncement(straight, dest); res != "Continue onto connector" {
		t.Errorf("Pass text must be '%s', but got '%s'", "Continue onto connector", res)
	}
	holdShort := &TaxiRouteWaypoint{Type: WAYPOINT_HOLD_SHORT, HoldShortRunway: "09"}
	if res := PassAnnouncement(holdShort, dest); res != "Hold short of runway 09" {
		t.Errorf("Pass text must be '%s', but got '%s'", "Hold short of runway 09", res)
	}
	parking := &TaxiRouteWaypoint{Type: WAYPOINT_DESTINATION}
	parkingDest := Destination{Kind: DESTINATION_PARKING, Name: "G12"}
	if res := ApproachAnnouncement(parking, parkingDest); res != "Approaching parking G12" {
		t.Errorf("Approach text must be '%s', but got '%s'", "Approaching parking G12", res)
	}
	if res := ApproachAnnouncement(&TaxiRouteWaypoint{Type: WAYPOINT_NORMAL}, dest); res != "" {
		t.Errorf("Approach text of normal waypoint must be empty, but got '%s'", res)
	}
}

func TestRouteSummary(t *testing.T) {
	route := &TaxiRoute{
		Taxiways:          []string{"A", "B"},
		Destination:       Destination{Kind: DESTINATION_RUNWAY, Name: "27"},
		TotalDistanceFeet: 2351,
	}
	expected := "Route via A, B to runway 27, 2400 feet"
	if res := RouteSummary(route); res != expected {
		t.Errorf("Summary must be '%s', but got '%s'", expected, res)
	}
}
