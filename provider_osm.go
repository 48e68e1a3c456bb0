package taxiguide

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// OSMScanner is common interface of XML and PBF scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// osmSingleAirportID is used for extracts without aerodrome tagged by ICAO code
const osmSingleAirportID = 1

// OSMProvider extracts airport records from an OpenStreetMap extract (.osm, .xml or .pbf):
// aeroway=taxiway|taxilane ways are taxi paths, aeroway=runway ways give runway ends,
// aeroway=holding_position nodes are hold-short points, aeroway=parking_position|gate nodes are parking spots.
type OSMProvider struct {
	fname    string
	airports map[string]int
	paths    []TaxiPathRecord
	runways  []RunwayEndRecord
	parking  []ParkingSpotRecord
}

type osmWay struct {
	kind  string
	name  string
	width float64
	nodes []osm.NodeID
}

type osmPoint struct {
	pt       orb.Point
	aeroway  string
	hasPoint bool
}

func newOSMScanner(ctx context.Context, fname string, file io.Reader) (OSMScanner, error) {
	ext := filepath.Ext(fname)
	switch ext {
	case ".osm", ".xml":
		return osmxml.New(ctx, file), nil
	case ".pbf":
		return osmpbf.New(ctx, file, 4), nil
	default:
		return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, fname)
	}
}

// NewOSMProvider reads file in two passes: ways first, then nodes referenced by them
func NewOSMProvider(fname string) (*OSMProvider, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	l := log.WithField("file", fname)

	/* Process ways */
	st := time.Now()
	ways := []osmWay{}
	airports := make(map[string]int)
	points := make(map[osm.NodeID]*osmPoint)
	{
		scanner, err := newOSMScanner(context.Background(), fname, file)
		if err != nil {
			return nil, err
		}
		for scanner.Scan() {
			way, ok := scanner.Object().(*osm.Way)
			if !ok {
				continue
			}
			aeroway := way.Tags.Find("aeroway")
			switch aeroway {
			case "aerodrome":
				registerAerodrome(airports, way.Tags)
				continue
			case "taxiway", "taxilane", "runway":
			default:
				continue
			}
			prepared := osmWay{
				kind:  aeroway,
				name:  osmName(way.Tags),
				width: osmWidthFeet(way.Tags.Find("width")),
				nodes: make([]osm.NodeID, 0, len(way.Nodes)),
			}
			for _, node := range way.Nodes {
				prepared.nodes = append(prepared.nodes, node.ID)
				if _, ok := points[node.ID]; !ok {
					points[node.ID] = &osmPoint{}
				}
			}
			ways = append(ways, prepared)
		}
		err = scanner.Err()
		scanner.Close()
		if err != nil {
			return nil, errors.Wrap(err, "Can't scan ways")
		}
	}
	l.WithField("ways", len(ways)).Debugf("Ways processed in %v", time.Since(st))

	// Seek file to start
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking after ways scanning")
	}

	/* Process nodes */
	st = time.Now()
	spots := []ParkingSpotRecord{}
	{
		scanner, err := newOSMScanner(context.Background(), fname, file)
		if err != nil {
			return nil, err
		}
		for scanner.Scan() {
			node, ok := scanner.Object().(*osm.Node)
			if !ok {
				continue
			}
			aeroway := node.Tags.Find("aeroway")
			if aeroway == "aerodrome" {
				registerAerodrome(airports, node.Tags)
			}
			pt := orb.Point{node.Lon, node.Lat}
			if aeroway == "parking_position" || aeroway == "gate" {
				if name := osmName(node.Tags); name != "" {
					spots = append(spots, ParkingSpotRecord{
						Name:      name,
						Point:     pt,
						HasJetway: node.Tags.Find("aerobridge") == "yes",
					})
				}
			}
			known, ok := points[node.ID]
			if !ok {
				continue
			}
			known.pt = pt
			known.hasPoint = true
			known.aeroway = aeroway
		}
		err = scanner.Err()
		scanner.Close()
		if err != nil {
			return nil, errors.Wrap(err, "Can't scan nodes")
		}
	}
	l.WithField("nodes", len(points)).Debugf("Nodes processed in %v", time.Since(st))

	provider := &OSMProvider{
		fname:    fname,
		airports: airports,
		parking:  spots,
	}
	for _, way := range ways {
		switch way.kind {
		case "runway":
			provider.runways = append(provider.runways, runwayEndsFromWay(way, points)...)
		default:
			provider.paths = append(provider.paths, taxiPathsFromWay(way, points)...)
		}
	}
	l.WithField("paths", len(provider.paths)).
		WithField("runway_ends", len(provider.runways)).
		WithField("parking", len(provider.parking)).
		Info("OSM extract loaded")
	return provider, nil
}

func registerAerodrome(airports map[string]int, tags osm.Tags) {
	icao := NormalizeTaxiwayName(tags.Find("icao"))
	if icao == "" {
		return
	}
	if _, ok := airports[icao]; !ok {
		airports[icao] = len(airports) + 1
	}
}

func osmName(tags osm.Tags) string {
	if ref := tags.Find("ref"); ref != "" {
		return ref
	}
	return tags.Find("name")
}

// osmWidthFeet parses width tag (metres by default, "ft" suffix is respected)
func osmWidthFeet(text string) float64 {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return 0
	}
	factor := feetPerMeter
	switch {
	case strings.HasSuffix(text, "ft"):
		text = strings.TrimSpace(strings.TrimSuffix(text, "ft"))
		factor = 1
	case strings.HasSuffix(text, "m"):
		text = strings.TrimSpace(strings.TrimSuffix(text, "m"))
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v * factor
}

func osmTypeCode(p *osmPoint) string {
	switch p.aeroway {
	case "holding_position":
		return "HSND"
	case "parking_position", "gate":
		return "P"
	default:
		return "N"
	}
}

func taxiPathsFromWay(way osmWay, points map[osm.NodeID]*osmPoint) []TaxiPathRecord {
	paths := make([]TaxiPathRecord, 0, len(way.nodes))
	for i := 1; i < len(way.nodes); i++ {
		start, end := points[way.nodes[i-1]], points[way.nodes[i]]
		if start == nil || end == nil || !start.hasPoint || !end.hasPoint {
			continue
		}
		paths = append(paths, TaxiPathRecord{
			Start:     start.pt,
			End:       end.pt,
			StartType: osmTypeCode(start),
			EndType:   osmTypeCode(end),
			Name:      way.name,
			WidthFeet: way.width,
			PathType:  way.kind,
		})
	}
	return paths
}

// runwayDesignatorHeading returns nominal heading of designator like "09L"
func runwayDesignatorHeading(designator string) (float64, bool) {
	digits := strings.TrimRight(strings.TrimSpace(designator), "LRCGlrcg")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 36 {
		return 0, false
	}
	return float64(n * 10), true
}

// runwayEndsFromWay turns runway way with ref like "09/27" into two thresholds
func runwayEndsFromWay(way osmWay, points map[osm.NodeID]*osmPoint) []RunwayEndRecord {
	if len(way.nodes) < 2 {
		return nil
	}
	first, last := points[way.nodes[0]], points[way.nodes[len(way.nodes)-1]]
	if first == nil || last == nil || !first.hasPoint || !last.hasPoint {
		return nil
	}
	heading := BearingDegrees(first.pt, last.pt)
	names := strings.Split(way.name, "/")
	if len(names) != 2 {
		return nil
	}
	a, b := strings.TrimSpace(names[0]), strings.TrimSpace(names[1])
	// Way direction is arbitrary: name of the first node's end should match bearing to the last node
	if ha, ok := runwayDesignatorHeading(a); ok {
		if math.Abs(HeadingDifference(heading, ha)) > 90 {
			a, b = b, a
		}
	}
	return []RunwayEndRecord{
		{Name: a, Point: first.pt, Heading: heading},
		{Name: b, Point: last.pt, Heading: ReciprocalHeading(heading)},
	}
}

// GetAirportID resolves ICAO code. Extract without tagged aerodromes is treated as a single airport
func (provider *OSMProvider) GetAirportID(icao string) (int, error) {
	if len(provider.airports) == 0 {
		return osmSingleAirportID, nil
	}
	id, ok := provider.airports[NormalizeTaxiwayName(icao)]
	if !ok {
		return 0, ErrAirportNotFound
	}
	return id, nil
}

// GetTaxiPaths returns every taxi path of extract. Extract is expected to cover one airport
func (provider *OSMProvider) GetTaxiPaths(airportID int) ([]TaxiPathRecord, error) {
	return provider.paths, nil
}

func (provider *OSMProvider) GetRunwayEnds(airportID int) ([]RunwayEndRecord, error) {
	return provider.runways, nil
}

func (provider *OSMProvider) GetParkingSpots(airportID int) ([]ParkingSpotRecord, error) {
	return provider.parking, nil
}

// OpenProvider chooses provider by path: directory means CSV files, .osm/.xml/.pbf means OSM extract
func OpenProvider(dbPath string) (DatabaseProvider, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open database '%s'", dbPath)
	}
	if info.IsDir() {
		provider, err := NewCSVProvider(dbPath)
		if err != nil {
			return nil, err
		}
		return provider, nil
	}
	switch filepath.Ext(dbPath) {
	case ".osm", ".xml", ".pbf":
		provider, err := NewOSMProvider(dbPath)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("Database '%s' is neither directory nor OSM extract", dbPath)
	}
}
