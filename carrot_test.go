package taxiguide

import (
	"math"
	"testing"
)

func testLegs() []pathLeg {
	corner := DestinationPoint(testOrigin, 0, 1000)
	end := DestinationPoint(corner, 90, 1000)
	return []pathLeg{
		newPathLeg(0, testOrigin, corner, 60),
		newPathLeg(1, corner, end, 60),
	}
}

func TestCarrotOnStraightLeg(t *testing.T) {
	params := DefaultGuidanceParams()
	legs := testLegs()[:1]
	arcs := turnArcs(legs, params)
	carrot := projectCarrot(legs, arcs, 100, 50, false)
	if d := DistanceFeet(testOrigin, carrot.Point); math.Abs(d-150) > 0.1 {
		t.Errorf("Carrot must be %f ft from leg start, but got %f", 150.0, d)
	}
	if carrot.OnArc || carrot.IsDestination || carrot.WaypointIndex != 0 {
		t.Errorf("Carrot must be on leg 0 straight part, but got %+v", carrot)
	}

	// Aircraft behind the leg start: carrot starts at leg start
	carrot = projectCarrot(legs, arcs, -100, 50, false)
	if d := DistanceFeet(testOrigin, carrot.Point); math.Abs(d-50) > 0.1 {
		t.Errorf("Carrot must be %f ft from leg start, but got %f", 50.0, d)
	}
}

func TestCarrotPastDestination(t *testing.T) {
	params := DefaultGuidanceParams()
	legs := testLegs()[:1]
	carrot := projectCarrot(legs, turnArcs(legs, params), 990, 50, true)
	if !carrot.IsDestination {
		t.Errorf("Carrot beyond final leg must be flagged as destination")
	}
	if d := DistanceFeet(legs[0].end, carrot.Point); d > 0.01 {
		t.Errorf("Carrot must stay at leg end, but got %f ft from it", d)
	}
}

func TestCarrotOnTurnArc(t *testing.T) {
	params := DefaultGuidanceParams()
	legs := testLegs()
	arcs := turnArcs(legs, params)
	if arcs[0] == nil || arcs[1] != nil {
		t.Fatalf("Only the first corner must have an arc, but got %v", arcs)
	}
	carrot := projectCarrot(legs, arcs, 960, 30, false)
	if !carrot.OnArc {
		t.Errorf("Carrot must be on turn arc, but got %+v", carrot)
	}
	if carrot.HeadingDegrees <= 0 || carrot.HeadingDegrees >= 90 {
		t.Errorf("Carrot heading on arc must be between %f and %f, but got %f", 0.0, 90.0, carrot.HeadingDegrees)
	}

	carrot = projectCarrot(legs, arcs, 960, 200, false)
	if carrot.OnArc || carrot.WaypointIndex != 1 {
		t.Errorf("Carrot must be on the second leg, but got %+v", carrot)
	}

	carrot = projectCarrot(legs, arcs, 100, 5000, true)
	if !carrot.IsDestination || carrot.WaypointIndex != 1 {
		t.Errorf("Carrot must stop at the end of the last leg, but got %+v", carrot)
	}
}

func TestCarrotBearing(t *testing.T) {
	pt := DestinationPoint(testOrigin, 45, 100)
	carrot := carrotFromAircraft(CarrotPosition{Point: pt}, testOrigin)
	if math.Abs(HeadingDifference(45, carrot.BearingDegrees)) > 0.01 {
		t.Errorf("Bearing to carrot must be %f, but got %f", 45.0, carrot.BearingDegrees)
	}
	if math.Abs(carrot.DistanceFeet-100) > 0.01 {
		t.Errorf("Distance to carrot must be %f, but got %f", 100.0, carrot.DistanceFeet)
	}
}

func TestRecoveryCarrot(t *testing.T) {
	params := DefaultGuidanceParams()
	legs := testLegs()
	arcs := turnArcs(legs, params)
	pos := DestinationPoint(DestinationPoint(testOrigin, 0, 100), 90, 50)
	recovery := NewRecoveryArc(pos, 0, legs[0].start, legs[0].end, params)
	if recovery == nil {
		t.Fatal("Recovery arc must exist")
	}
	carrot := projectRecoveryCarrot(recovery, legs, arcs, pos, 30, false)
	if !carrot.OnRecovery {
		t.Errorf("Carrot must be on recovery path")
	}
	corr := steeringCorrection(0, BearingDegrees(pos, carrot.Point), params.MaxCorrection)
	if corr >= 0 {
		t.Errorf("Correction towards centerline on the left must be negative, but got %f", corr)
	}

	// Look-ahead beyond intercept point continues along the leg
	carrot = projectRecoveryCarrot(recovery, legs, arcs, pos, recovery.TotalFeet()+100, false)
	if xt := CrossTrackFeet(carrot.Point, legs[0].start, legs[0].end); math.Abs(xt) > 0.5 {
		t.Errorf("Carrot beyond recovery path must be on centerline, but got cross-track %f", xt)
	}
}
