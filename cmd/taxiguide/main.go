package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oasis1701/msfs-blind-assist-sub000"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	dbPath     = flag.String("db", "airports", "Airport database: directory with CSV files or OSM extract (*.osm, *.xml, *.osm.pbf)")
	icao       = flag.String("icao", "", "ICAO code of airport")
	out        = flag.String("out", "", "Filename of CSV file for graph export. E.g.: if file name is 'graph.csv' then 'graph_nodes.csv' and 'graph_segments.csv' will be produced")
	geomFormat = flag.String("geomf", "wkt", "Format of output geometry. Expected values: wkt / geojson")
	routeStr   = flag.String("route", "", "Taxiways of route (separated by commas), e.g. A,B")
	destStr    = flag.String("dest", "", "Destination of route: runway:27 or parking:G12")
	simulate   = flag.Bool("simulate", false, "Drive guidance engine along built route and print its output")
	verbose    = flag.Bool("verbose", false, "Enable debug logging")
)

// simulationStepFeet is distance between consecutive simulated positions
const simulationStepFeet = 10.0

// simulationStepTime is simulated time between consecutive positions
const simulationStepTime = 500 * time.Millisecond

type printAnnouncer struct{}

func (printAnnouncer) AnnounceImmediate(text string) {
	if text == "" {
		return
	}
	fmt.Printf(">> %s\n", text)
}

func main() {

	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if *icao == "" {
		fmt.Println("ICAO code should be provided with -icao flag")
		os.Exit(1)
	}

	clock := time.Now()
	nav := taxiguide.NewNavigator(
		taxiguide.WithEngineOptions(
			taxiguide.WithAnnouncer(printAnnouncer{}),
			taxiguide.WithClock(func() time.Time { return clock }),
		),
	)
	if !nav.LoadAirport(*dbPath, *icao) {
		fmt.Println(nav.DatabaseStatus().LastError)
		os.Exit(1)
	}
	status := nav.DatabaseStatus()
	fmt.Printf("Airport %s (id %d): %d nodes, %d segments, loaded in %v\n", status.ICAO, status.AirportID, status.NodeCount, status.SegmentCount, status.LoadDuration)

	format := taxiguide.ParseGeometryFormat(*geomFormat)
	if *out != "" {
		st := time.Now()
		err := nav.Graph().ExportToCSV(*out, format)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Done graph export in %v\n", time.Since(st))
	}

	if *destStr == "" {
		return
	}
	dest, err := parseDestination(*destStr)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	taxiways := []string{}
	if *routeStr != "" {
		taxiways = strings.Split(*routeStr, ",")
	}
	route, err := buildRoute(nav, taxiways, dest)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println(taxiguide.RouteSummary(route))
	for _, wp := range route.Waypoints {
		fmt.Printf("%3d %-10s %-15s %-8s %6.0f ft  %s\n", wp.Index, taxiguide.TaxiwayText(wp.TaxiwayName), wp.Type, wp.Turn, wp.DistanceFromPreviousFeet, wp.PassAnnouncement)
	}
	if *out != "" {
		fnameRoute := strings.Split(*out, ".csv")[0] + "_route.csv"
		err = route.ExportToCSV(fnameRoute, format)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	if !*simulate {
		return
	}
	st := time.Now()
	samples := make(chan taxiguide.PositionSample)
	go func() {
		defer close(samples)
		for _, sample := range routeSamples(route) {
			samples <- sample
		}
	}()
	engine := nav.Engine()
	if err := engine.StartRouteGuidance(route); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	prevState := engine.State()
	err = engine.Drive(context.Background(), samples, func(output taxiguide.GuidanceOutput) {
		clock = clock.Add(simulationStepTime)
		if output.State != prevState {
			fmt.Printf("   state: %s -> %s\n", prevState, output.State)
			prevState = output.State
		}
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("Done simulation in %v, final state: %s\n", time.Since(st), engine.State())
}

// parseDestination parses "runway:27" or "parking:G12"
func parseDestination(text string) (taxiguide.Destination, error) {
	parts := strings.SplitN(text, ":", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return taxiguide.Destination{}, fmt.Errorf("Destination '%s' should look like runway:27 or parking:G12", text)
	}
	name := strings.TrimSpace(parts[1])
	switch strings.ToLower(strings.TrimSpace(parts[0])) {
	case "runway", "rwy":
		return taxiguide.Destination{Kind: taxiguide.DESTINATION_RUNWAY, Name: name}, nil
	case "parking", "gate":
		return taxiguide.Destination{Kind: taxiguide.DESTINATION_PARKING, Name: name}, nil
	default:
		return taxiguide.Destination{}, fmt.Errorf("Unknown destination kind '%s'", parts[0])
	}
}

// buildRoute starts route at the first segment of the first taxiway, aircraft is assumed to be heading along it
func buildRoute(nav *taxiguide.Navigator, taxiways []string, dest taxiguide.Destination) (*taxiguide.TaxiRoute, error) {
	graph := nav.Graph()
	if len(taxiways) == 0 {
		return nil, fmt.Errorf("At least one taxiway should be provided with -route flag")
	}
	ids := graph.SegmentsByName(taxiways[0])
	if len(ids) == 0 {
		return nil, fmt.Errorf("Taxiway '%s' not found", taxiways[0])
	}
	seg := graph.Segment(ids[0])
	start, end := graph.Node(seg.StartNode), graph.Node(seg.EndNode)
	pos := taxiguide.DestinationPoint(start.Point, seg.Heading, seg.LengthFeet/2)
	route, err := nav.BuildRoute(taxiguide.RouteRequest{
		Position:    pos,
		Heading:     taxiguide.BearingDegrees(start.Point, end.Point),
		Taxiways:    taxiways,
		Destination: dest,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Can't build route")
	}
	return route, nil
}

// routeSamples returns positions along route centerline
func routeSamples(route *taxiguide.TaxiRoute) []taxiguide.PositionSample {
	samples := []taxiguide.PositionSample{}
	for _, wp := range route.Waypoints {
		length := taxiguide.DistanceFeet(wp.FromPoint, wp.TargetPoint)
		for d := 0.0; d < length; d += simulationStepFeet {
			pt := taxiguide.DestinationPoint(wp.FromPoint, wp.HeadingDegrees, d)
			samples = append(samples, taxiguide.PositionSample{Lat: pt.Lat(), Lon: pt.Lon(), Heading: wp.HeadingDegrees, SpeedKnots: 10})
		}
	}
	final := route.FinalWaypoint()
	if final != nil {
		samples = append(samples, taxiguide.PositionSample{Lat: final.TargetPoint.Lat(), Lon: final.TargetPoint.Lon(), Heading: final.HeadingDegrees, SpeedKnots: 0})
	}
	return samples
}
