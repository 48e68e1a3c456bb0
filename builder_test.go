package taxiguide

import (
	"errors"
	"math"
	"testing"
)

func TestBuildGraph(t *testing.T) {
	graph := buildTestAirport(t)
	if graph.NodeCount() != 9 {
		t.Errorf("Nodes count must be %d, but got %d", 9, graph.NodeCount())
	}
	if graph.SegmentCount() != 7 {
		t.Errorf("Segments count must be %d, but got %d", 7, graph.SegmentCount())
	}
	if graph.ICAO() != "EGLL" {
		t.Errorf("ICAO must be %s, but got %s", "EGLL", graph.ICAO())
	}

	names := graph.TaxiwayNames()
	expectedNames := []string{"A", "B", "C", "D", "E"}
	if len(names) != len(expectedNames) {
		t.Fatalf("Taxiways count must be %d, but got %d", len(expectedNames), len(names))
	}
	for i := range names {
		if names[i] != expectedNames[i] {
			t.Errorf("Taxiway #%d must be %s, but got %s", i, expectedNames[i], names[i])
		}
	}

	junctions := map[NodeID]bool{
		testNodeA0: false,
		testNodeA1: true,
		testNodeA2: true,
		testNodeA3: false,
	}
	for id, expected := range junctions {
		if graph.Node(id).IsJunction() != expected {
			t.Errorf("Junction flag of node %d must be %t, but got %t", id, expected, graph.Node(id).IsJunction())
		}
	}
	if !graph.Node(testNodeA3).IsDeadEnd() {
		t.Errorf("Node %d must be dead end", testNodeA3)
	}

	for _, segID := range graph.SegmentsByName("a") {
		seg := graph.Segment(segID)
		if math.Abs(seg.LengthFeet-1000) > 1 {
			t.Errorf("Length of segment %d must be %f, but got %f", segID, 1000.0, seg.LengthFeet)
		}
		if math.Abs(HeadingDifference(seg.Heading, 90)) > 0.5 {
			t.Errorf("Heading of segment %d must be %f, but got %f", segID, 90.0, seg.Heading)
		}
	}
	if seg := graph.Segment(testSegB); seg.StartNode != testNodeA2 || seg.EndNode != testNodeB {
		t.Errorf("Segment B must connect %d and %d, but got %d and %d", testNodeA2, testNodeB, seg.StartNode, seg.EndNode)
	}
}

func TestBuildGraphAssociations(t *testing.T) {
	graph := buildTestAirport(t)

	holdShorts := map[NodeID]string{
		testNodeB: "27",
		testNodeC: "09",
	}
	for id, runway := range holdShorts {
		node := graph.Node(id)
		if node.Type != NODE_HOLD_SHORT {
			t.Errorf("Type of node %d must be %s, but got %s", id, NODE_HOLD_SHORT, node.Type)
		}
		if node.HoldShortRunway != runway {
			t.Errorf("Runway of hold-short node %d must be %s, but got %s", id, runway, node.HoldShortRunway)
		}
	}

	parking := graph.Node(testNodeD)
	if parking.Type != NODE_PARKING {
		t.Errorf("Type of node %d must be %s, but got %s", testNodeD, NODE_PARKING, parking.Type)
	}
	if parking.ParkingName != "G12" || !parking.HasJetway {
		t.Errorf("Parking node must be G12 with jetway, but got %s (jetway %t)", parking.ParkingName, parking.HasJetway)
	}
	if id := graph.ParkingNode("g12"); id != testNodeD {
		t.Errorf("Parking node for G12 must be %d, but got %d", testNodeD, id)
	}
	if id := graph.ParkingNode("Z99"); id != NoNode {
		t.Errorf("Parking node for unknown spot must be %d, but got %d", NoNode, id)
	}

	nodes := graph.HoldShortNodes("27")
	if len(nodes) != 1 || nodes[0] != testNodeB {
		t.Errorf("Hold-short nodes of 27 must be %v, but got %v", []NodeID{testNodeB}, nodes)
	}
	if id := graph.FindHoldShortNode("09", testPoint(3000, -600)); id != testNodeC {
		t.Errorf("Hold-short node of 09 must be %d, but got %d", testNodeC, id)
	}
	if id := graph.FindHoldShortNode("18", testOrigin); id != NoNode {
		t.Errorf("Hold-short node of unknown runway must be %d, but got %d", NoNode, id)
	}
}

func TestBuildGraphEmpty(t *testing.T) {
	_, err := NewGraphBuilder().Build(1, "XXXX", nil, nil, nil)
	if !errors.Is(err, ErrNoGraph) {
		t.Errorf("Error must be %v, but got %v", ErrNoGraph, err)
	}
	// Both endpoints collapse into one node
	pt := testPoint(0, 0)
	_, err = NewGraphBuilder().Build(1, "XXXX", []TaxiPathRecord{{Start: pt, End: pt, Name: "A"}}, nil, nil)
	if !errors.Is(err, ErrNoGraph) {
		t.Errorf("Error for degenerate paths must be %v, but got %v", ErrNoGraph, err)
	}
}

func TestNodeTypeUpgrade(t *testing.T) {
	start, middle, end := testPoint(0, 0), testPoint(500, 0), testPoint(1000, 0)
	paths := []TaxiPathRecord{
		{Start: start, End: middle, StartType: "N", EndType: "N", Name: "A"},
		{Start: middle, End: end, StartType: "HSND", EndType: "P", Name: "A"},
		{Start: end, End: start, StartType: "N", EndType: "N", Name: "B"},
	}
	graph, err := NewGraphBuilder().Build(1, "XXXX", paths, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if graph.NodeCount() != 3 {
		t.Errorf("Nodes count must be %d, but got %d", 3, graph.NodeCount())
	}
	expected := []NodeType{NODE_NORMAL, NODE_HOLD_SHORT, NODE_PARKING}
	for i, nodeType := range expected {
		if graph.Node(NodeID(i)).Type != nodeType {
			t.Errorf("Type of node %d must be %s, but got %s", i, nodeType, graph.Node(NodeID(i)).Type)
		}
	}

	node := &TaxiwayNode{Type: NODE_HOLD_SHORT}
	node.upgradeType(NODE_PARKING)
	if node.Type != NODE_HOLD_SHORT {
		t.Errorf("Type must stay %s, but got %s", NODE_HOLD_SHORT, node.Type)
	}
}

func TestHoldShortParallelRunways(t *testing.T) {
	north09, north27 := testPoint(0, 1000), testPoint(3000, 1000)
	south09, south27 := testPoint(0, 0), testPoint(3000, 0)
	runways := []RunwayEndRecord{
		{Name: "09L", Point: north09, Heading: BearingDegrees(north09, north27)},
		{Name: "09R", Point: south09, Heading: BearingDegrees(south09, south27)},
		{Name: "27L", Point: south27, Heading: BearingDegrees(south27, south09)},
		{Name: "27R", Point: north27, Heading: BearingDegrees(north27, north09)},
	}
	paths := []TaxiPathRecord{
		{Start: testPoint(500, -600), End: testPoint(500, -50), StartType: "N", EndType: "HSND", Name: "A"},
		{Start: testPoint(2500, 1500), End: testPoint(2500, 1050), StartType: "N", EndType: "HSND", Name: "B"},
	}
	graph, err := NewGraphBuilder().Build(1, "XXXX", paths, runways, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(graph.centerlines) != 2 {
		t.Fatalf("Centerlines count must be %d, but got %d", 2, len(graph.centerlines))
	}
	for _, cl := range graph.centerlines {
		pair := cl.first.Name + "/" + cl.second.Name
		if pair != "09L/27R" && pair != "09R/27L" {
			t.Errorf("Runway ends must be paired with the opposite end of the same runway, but got %s", pair)
		}
	}
	if name := graph.Node(1).HoldShortRunway; name != "09R" {
		t.Errorf("Runway of southern hold-short must be %s, but got %s", "09R", name)
	}
	if name := graph.Node(3).HoldShortRunway; name != "27R" {
		t.Errorf("Runway of northern hold-short must be %s, but got %s", "27R", name)
	}
}

func TestHoldShortTooFar(t *testing.T) {
	rwy09, rwy27 := testPoint(0, 0), testPoint(3000, 0)
	runways := []RunwayEndRecord{
		{Name: "09", Point: rwy09, Heading: BearingDegrees(rwy09, rwy27)},
		{Name: "27", Point: rwy27, Heading: BearingDegrees(rwy27, rwy09)},
	}
	paths := []TaxiPathRecord{
		{Start: testPoint(500, -1500), End: testPoint(500, -800), StartType: "N", EndType: "HSND", Name: "A"},
	}
	graph, err := NewGraphBuilder(WithHoldShortMaxDistance(500)).Build(1, "XXXX", paths, runways, nil)
	if err != nil {
		t.Fatal(err)
	}
	if name := graph.Node(1).HoldShortRunway; name != "" {
		t.Errorf("Hold-short node beyond max distance must have no runway, but got %s", name)
	}
}
