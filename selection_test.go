package taxiguide

import (
	"math"
	"testing"
)

func TestClassifyRelativeBearing(t *testing.T) {
	cases := []struct {
		angle    float64
		relative RelativeBearing
	}{
		{0, RELATIVE_AHEAD},
		{-30, RELATIVE_AHEAD},
		{-45, RELATIVE_AHEAD_LEFT},
		{60, RELATIVE_AHEAD_RIGHT},
		{-90, RELATIVE_LEFT},
		{120, RELATIVE_RIGHT},
		{150, RELATIVE_BEHIND},
		{180, RELATIVE_BEHIND},
	}
	for _, c := range cases {
		if res := classifyRelativeBearing(c.angle); res != c.relative {
			t.Errorf("Relative bearing for %f must be %s, but got %s", c.angle, c.relative, res)
		}
	}
}

func TestSegmentOptionsOnSegment(t *testing.T) {
	graph := buildTestAirport(t)
	options := segmentOptions(graph, testPoint(500, -600), 90, DefaultGuidanceParams())
	if len(options) != 2 {
		t.Fatalf("Options count must be %d, but got %d", 2, len(options))
	}
	if options[0].SegmentID != testSegA0 || options[0].TargetNode != testNodeA1 {
		t.Errorf("First option must lead along %d to %d, but got %d to %d", testSegA0, testNodeA1, options[0].SegmentID, options[0].TargetNode)
	}
	if options[0].Relative != RELATIVE_AHEAD {
		t.Errorf("First option must be %s, but got %s", RELATIVE_AHEAD, options[0].Relative)
	}
	if options[1].Relative != RELATIVE_BEHIND || options[1].TargetNode != testNodeA0 {
		t.Errorf("Second option must be behind towards %d, but got %s towards %d", testNodeA0, options[1].Relative, options[1].TargetNode)
	}
}

func TestSegmentOptionsNearJunction(t *testing.T) {
	graph := buildTestAirport(t)
	options := segmentOptions(graph, testPoint(990, -600), 90, DefaultGuidanceParams())
	if len(options) != 3 {
		t.Fatalf("Options count must be %d, but got %d", 3, len(options))
	}
	expected := []SegmentID{testSegA1, testSegC, testSegA0}
	for i, opt := range options {
		if opt.SegmentID != expected[i] {
			t.Errorf("Option #%d must be segment %d, but got %d", i, expected[i], opt.SegmentID)
		}
		if opt.FromNode != testNodeA1 {
			t.Errorf("Option #%d must start at junction %d, but got %d", i, testNodeA1, opt.FromNode)
		}
	}
	if options[1].Relative != RELATIVE_LEFT {
		t.Errorf("Taxiway C must be %s, but got %s", RELATIVE_LEFT, options[1].Relative)
	}
}

func TestSegmentOptionsFarAway(t *testing.T) {
	graph := buildTestAirport(t)
	if options := segmentOptions(graph, testPoint(1500, 2000), 90, DefaultGuidanceParams()); len(options) != 0 {
		t.Errorf("There must be no options far from taxiways, but got %d", len(options))
	}
}

func TestJunctionOptions(t *testing.T) {
	graph := buildTestAirport(t)
	arriving := graph.Segment(testSegA0)
	options := junctionOptions(graph, testNodeA1, testSegA0, arriving.HeadingTo(testNodeA1))
	if len(options) != 2 {
		t.Fatalf("Options count must be %d, but got %d", 2, len(options))
	}
	// Leftmost first
	if options[0].SegmentID != testSegC || options[1].SegmentID != testSegA1 {
		t.Errorf("Options must be [%d %d], but got [%d %d]", testSegC, testSegA1, options[0].SegmentID, options[1].SegmentID)
	}
	if math.Abs(options[0].TurnAngle+90) > 0.5 {
		t.Errorf("Turn onto C must be %f, but got %f", -90.0, options[0].TurnAngle)
	}
	if idx := straightestOption(options); idx != 1 {
		t.Errorf("Straightest option must be %d, but got %d", 1, idx)
	}
	if text := JunctionOptionText(options[0]); text != "taxiway C, turn left" {
		t.Errorf("Option text must be '%s', but got '%s'", "taxiway C, turn left", text)
	}
	if idx := straightestOption(nil); idx != -1 {
		t.Errorf("Straightest option of empty list must be %d, but got %d", -1, idx)
	}
}

func TestContinuation(t *testing.T) {
	graph := buildTestAirport(t)
	opt, ok := continuation(graph, testNodeA0, testSegA0)
	if !ok {
		t.Fatalf("Continuation through two-segment node must exist")
	}
	if opt.SegmentID != testSegD || opt.TargetNode != testNodeD {
		t.Errorf("Continuation must lead along %d to %d, but got %d to %d", testSegD, testNodeD, opt.SegmentID, opt.TargetNode)
	}
	if _, ok := continuation(graph, testNodeA1, testSegA0); ok {
		t.Errorf("Junction must have no single continuation")
	}
}
