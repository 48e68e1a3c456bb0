package taxiguide

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

// Synthetic airport used across tests. Offsets are feet east/north of testOrigin.
//
//	runway 09/27 along north = 0 from east = 0 to east = 3000
//	taxiway A along north = -600 with nodes at east = 0, 1000, 2000, 3000
//	taxiway C from A (1000) north to hold-short of 09 at north = -250
//	taxiway B from A (2000) north to hold-short of 27 at north = -250
//	taxiway D from A (0) south to parking G12 at north = -1000
//	taxiway E is isolated, far east, ending at parking H1
var testOrigin = orb.Point{-0.45, 51.47}

func testPoint(east, north float64) orb.Point {
	return DestinationPoint(DestinationPoint(testOrigin, 0, north), 90, east)
}

type testPath struct {
	name     string
	from     [2]float64
	to       [2]float64
	fromType string
	toType   string
}

var testAirportPaths = []testPath{
	{"A", [2]float64{0, -600}, [2]float64{1000, -600}, "N", "N"},
	{"A", [2]float64{1000, -600}, [2]float64{2000, -600}, "N", "N"},
	{"A", [2]float64{2000, -600}, [2]float64{3000, -600}, "N", "N"},
	{"B", [2]float64{2000, -600}, [2]float64{2000, -250}, "N", "HSND"},
	{"C", [2]float64{1000, -600}, [2]float64{1000, -250}, "N", "HSND"},
	{"D", [2]float64{0, -600}, [2]float64{0, -1000}, "N", "P"},
	{"E", [2]float64{5000, -600}, [2]float64{5000, -1000}, "N", "P"},
}

// Node and segment IDs follow insertion order of testAirportPaths
const (
	testNodeA0 = NodeID(0)
	testNodeA1 = NodeID(1)
	testNodeA2 = NodeID(2)
	testNodeA3 = NodeID(3)
	testNodeB  = NodeID(4) // hold-short 27
	testNodeC  = NodeID(5) // hold-short 09
	testNodeD  = NodeID(6) // parking G12
	testNodeE0 = NodeID(7)
	testNodeE1 = NodeID(8) // parking H1

	testSegA0 = SegmentID(0)
	testSegA1 = SegmentID(1)
	testSegA2 = SegmentID(2)
	testSegB  = SegmentID(3)
	testSegC  = SegmentID(4)
	testSegD  = SegmentID(5)
	testSegE  = SegmentID(6)
)

func testAirportRecords() ([]TaxiPathRecord, []RunwayEndRecord, []ParkingSpotRecord) {
	paths := make([]TaxiPathRecord, 0, len(testAirportPaths))
	for _, p := range testAirportPaths {
		paths = append(paths, TaxiPathRecord{
			Start:     testPoint(p.from[0], p.from[1]),
			End:       testPoint(p.to[0], p.to[1]),
			StartType: p.fromType,
			EndType:   p.toType,
			Name:      p.name,
			WidthFeet: 60,
			Surface:   "asphalt",
			PathType:  "taxiway",
		})
	}
	rwy09, rwy27 := testPoint(0, 0), testPoint(3000, 0)
	runways := []RunwayEndRecord{
		{Name: "09", Point: rwy09, Heading: BearingDegrees(rwy09, rwy27)},
		{Name: "27", Point: rwy27, Heading: BearingDegrees(rwy27, rwy09)},
	}
	parking := []ParkingSpotRecord{
		{Name: "G12", Point: testPoint(0, -1010), HasJetway: true},
		{Name: "H1", Point: testPoint(5000, -1005), HasJetway: false},
	}
	return paths, runways, parking
}

func buildTestAirport(t *testing.T) *TaxiwayGraph {
	t.Helper()
	paths, runways, parking := testAirportRecords()
	graph, err := NewGraphBuilder().Build(1, "EGLL", paths, runways, parking)
	if err != nil {
		t.Fatalf("Can't build test airport: %v", err)
	}
	return graph
}

// writeTestAirportCSV stores test airport as CSV database and returns its directory
func writeTestAirportCSV(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	paths, runways, parking := testAirportRecords()

	airports := "id;icao;name\n1;EGLL;Test airport\n2;LFPG;Another airport\n"

	taxiPaths := "airport_id;start_lat;start_lon;start_type;end_lat;end_lon;end_type;name;width_ft;surface;type\n"
	for _, p := range paths {
		taxiPaths += fmt.Sprintf("1;%.9f;%.9f;%s;%.9f;%.9f;%s;%s;%.1f;%s;%s\n",
			p.Start.Lat(), p.Start.Lon(), p.StartType, p.End.Lat(), p.End.Lon(), p.EndType, p.Name, p.WidthFeet, p.Surface, p.PathType)
	}
	taxiPaths += "1;not-a-number;0;N;0;0;N;Z;0;;\n"

	runwayEnds := "airport_id;name;lat;lon;heading\n"
	for _, r := range runways {
		runwayEnds += fmt.Sprintf("1;%s;%.9f;%.9f;%.4f\n", r.Name, r.Point.Lat(), r.Point.Lon(), r.Heading)
	}

	parkingSpots := "airport_id;name;lat;lon;jetway\n"
	for _, s := range parking {
		jetway := "0"
		if s.HasJetway {
			jetway = "1"
		}
		parkingSpots += fmt.Sprintf("1;%s;%.9f;%.9f;%s\n", s.Name, s.Point.Lat(), s.Point.Lon(), jetway)
	}

	files := map[string]string{
		csvAirportsFile:   airports,
		csvTaxiPathsFile:  taxiPaths,
		csvRunwayEndsFile: runwayEnds,
		csvParkingFile:    parkingSpots,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Can't write %s: %v", name, err)
		}
	}
	return dir
}
