package taxiguide

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func TestCSVProvider(t *testing.T) {
	dir := writeTestAirportCSV(t)
	provider, err := NewCSVProvider(dir)
	if err != nil {
		t.Fatal(err)
	}

	id, err := provider.GetAirportID("egll")
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Errorf("Airport ID must be %d, but got %d", 1, id)
	}
	if _, err := provider.GetAirportID("ZZZZ"); !errors.Is(err, ErrAirportNotFound) {
		t.Errorf("Error for unknown airport must be %v, but got %v", ErrAirportNotFound, err)
	}

	paths, err := provider.GetTaxiPaths(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != len(testAirportPaths) {
		t.Errorf("Taxi paths count must be %d (malformed line skipped), but got %d", len(testAirportPaths), len(paths))
	}
	if paths[3].Name != "B" || paths[3].EndType != "HSND" {
		t.Errorf("Path #3 must be taxiway %s ending with %s, but got %s ending with %s", "B", "HSND", paths[3].Name, paths[3].EndType)
	}
	if paths[0].WidthFeet != 60 {
		t.Errorf("Width must be %f, but got %f", 60.0, paths[0].WidthFeet)
	}
	other, _ := provider.GetTaxiPaths(2)
	if len(other) != 0 {
		t.Errorf("Airport without paths must give %d paths, but got %d", 0, len(other))
	}

	runways, _ := provider.GetRunwayEnds(id)
	if len(runways) != 2 {
		t.Fatalf("Runway ends count must be %d, but got %d", 2, len(runways))
	}
	if runways[0].Name != "09" || math.Abs(HeadingDifference(runways[0].Heading, 90)) > 1 {
		t.Errorf("Runway end #0 must be %s heading about %f, but got %s heading %f", "09", 90.0, runways[0].Name, runways[0].Heading)
	}

	spots, _ := provider.GetParkingSpots(id)
	if len(spots) != 2 {
		t.Fatalf("Parking spots count must be %d, but got %d", 2, len(spots))
	}
	if spots[0].Name != "G12" || !spots[0].HasJetway {
		t.Errorf("Parking #0 must be %s with jetway, but got %+v", "G12", spots[0])
	}
	if spots[1].HasJetway {
		t.Errorf("Parking %s must have no jetway", spots[1].Name)
	}
}

func TestCSVProviderBuild(t *testing.T) {
	provider, err := OpenProvider(writeTestAirportCSV(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := provider.(*CSVProvider); !ok {
		t.Errorf("Directory must be opened as CSV database, but got %T", provider)
	}
	graph, err := NewGraphBuilder().BuildFromProvider(provider, "EGLL")
	if err != nil {
		t.Fatal(err)
	}
	if graph.NodeCount() != 9 {
		t.Errorf("Nodes count must be %d, but got %d", 9, graph.NodeCount())
	}
	if graph.SegmentCount() != 7 {
		t.Errorf("Segments count must be %d, but got %d", 7, graph.SegmentCount())
	}
	if graph.ICAO() != "EGLL" || graph.AirportID() != 1 {
		t.Errorf("Graph must belong to %s (%d), but got %s (%d)", "EGLL", 1, graph.ICAO(), graph.AirportID())
	}
	if node := graph.Node(graph.ParkingNode("G12")); node == nil || !node.HasJetway {
		t.Errorf("Parking G12 must be associated with jetway")
	}

	if _, err := NewGraphBuilder().BuildFromProvider(provider, "LFPG"); !errors.Is(err, ErrNoGraph) {
		t.Errorf("Error for airport without taxi paths must be %v, but got %v", ErrNoGraph, err)
	}
	if _, err := NewGraphBuilder().BuildFromProvider(provider, "ZZZZ"); !errors.Is(err, ErrAirportNotFound) {
		t.Errorf("Error for unknown airport must be %v, but got %v", ErrAirportNotFound, err)
	}
}

func TestOpenProviderErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := OpenProvider(filepath.Join(dir, "missing")); err == nil {
		t.Errorf("Missing database must give an error")
	}
	if _, err := OpenProvider(dir); err == nil {
		t.Errorf("Directory without airports file must give an error")
	}
}
