package taxiguide

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/vatsimnerd/util/set"
)

const (
	defaultNodePrecisionMeters      = 0.5
	defaultHoldShortMaxDistanceFeet = 500.0
	defaultParkingRadiusFeet        = 100.0
	defaultRunwayHeadingTolerance   = 10.0
	defaultRunwayLengthBufferFeet   = 150.0

	metersPerDegreeLat = 111320.0
)

// GraphBuilder constructs TaxiwayGraph from raw database records
type GraphBuilder struct {
	nodePrecisionMeters      float64
	holdShortMaxDistanceFeet float64
	parkingRadiusFeet        float64
	runwayHeadingTolerance   float64
	runwayLengthBufferFeet   float64
	contraction              bool
}

func (builder *GraphBuilder) String() string {
	return fmt.Sprintf(`
Graph builder parameters:
	node_precision_meters: %f
	hold_short_max_distance_feet: %f
	parking_radius_feet: %f
	runway_heading_tolerance: %f
	runway_length_buffer_feet: %f
	contraction: %t
	`,
		builder.nodePrecisionMeters,
		builder.holdShortMaxDistanceFeet,
		builder.parkingRadiusFeet,
		builder.runwayHeadingTolerance,
		builder.runwayLengthBufferFeet,
		builder.contraction,
	)
}

// NewGraphBuilder returns builder with default parameters overridden by options
func NewGraphBuilder(options ...func(*GraphBuilder)) *GraphBuilder {
	builder := &GraphBuilder{
		nodePrecisionMeters:      defaultNodePrecisionMeters,
		holdShortMaxDistanceFeet: defaultHoldShortMaxDistanceFeet,
		parkingRadiusFeet:        defaultParkingRadiusFeet,
		runwayHeadingTolerance:   defaultRunwayHeadingTolerance,
		runwayLengthBufferFeet:   defaultRunwayLengthBufferFeet,
	}
	for _, option := range options {
		option(builder)
	}
	return builder
}

// WithNodePrecision sets grid size (metres) coincident endpoints are merged on
func WithNodePrecision(meters float64) func(*GraphBuilder) {
	return func(builder *GraphBuilder) {
		if meters > 0 {
			builder.nodePrecisionMeters = meters
		}
	}
}

// WithHoldShortMaxDistance sets how far (feet) hold-short node may be from runway centerline to be associated with it
func WithHoldShortMaxDistance(feet float64) func(*GraphBuilder) {
	return func(builder *GraphBuilder) {
		builder.holdShortMaxDistanceFeet = feet
	}
}

// WithParkingRadius sets how far (feet) parking spot may be from parking node
func WithParkingRadius(feet float64) func(*GraphBuilder) {
	return func(builder *GraphBuilder) {
		builder.parkingRadiusFeet = feet
	}
}

// WithRunwayHeadingTolerance sets max deviation (degrees) from reciprocal headings for runway ends to be paired
func WithRunwayHeadingTolerance(degrees float64) func(*GraphBuilder) {
	return func(builder *GraphBuilder) {
		builder.runwayHeadingTolerance = degrees
	}
}

// WithRunwayLengthBuffer sets how far (feet) beyond runway ends hold-short nodes are still considered
func WithRunwayLengthBuffer(feet float64) func(*GraphBuilder) {
	return func(builder *GraphBuilder) {
		builder.runwayLengthBufferFeet = feet
	}
}

// WithGraphContraction makes builder prepare contraction hierarchies for graph's pathfinder
func WithGraphContraction(contraction bool) func(*GraphBuilder) {
	return func(builder *GraphBuilder) {
		builder.contraction = contraction
	}
}

// nodeKey is rounded coordinates used to merge coincident endpoints
type nodeKey struct {
	lat int64
	lon int64
}

func (builder *GraphBuilder) keyFor(pt orb.Point) nodeKey {
	grid := builder.nodePrecisionMeters / metersPerDegreeLat
	return nodeKey{
		lat: int64(math.Round(pt.Lat() / grid)),
		lon: int64(math.Round(pt.Lon() / grid)),
	}
}

// BuildFromProvider queries provider for all records of airport and builds graph
func (builder *GraphBuilder) BuildFromProvider(provider DatabaseProvider, icao string) (*TaxiwayGraph, error) {
	airportID, err := provider.GetAirportID(icao)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't find airport '%s'", icao)
	}
	paths, err := provider.GetTaxiPaths(airportID)
	if err != nil {
		return nil, errors.Wrap(err, "Can't get taxi paths")
	}
	runways, err := provider.GetRunwayEnds(airportID)
	if err != nil {
		return nil, errors.Wrap(err, "Can't get runway ends")
	}
	parking, err := provider.GetParkingSpots(airportID)
	if err != nil {
		return nil, errors.Wrap(err, "Can't get parking spots")
	}
	graph, err := builder.Build(airportID, icao, paths, runways, parking)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't build graph for '%s'", icao)
	}
	return graph, nil
}

// Build constructs graph. ErrNoGraph is returned when there are no usable taxi paths
func (builder *GraphBuilder) Build(airportID int, icao string, paths []TaxiPathRecord, runways []RunwayEndRecord, parking []ParkingSpotRecord) (*TaxiwayGraph, error) {
	l := log.WithField("icao", icao).WithField("func", "Build")
	if len(paths) == 0 {
		return nil, ErrNoGraph
	}
	st := time.Now()

	graph := &TaxiwayGraph{
		airportID:      airportID,
		icao:           NormalizeTaxiwayName(icao),
		nodes:          make([]*TaxiwayNode, 0, len(paths)),
		segments:       make([]*TaxiwaySegment, 0, len(paths)),
		runwayEnds:     make([]RunwayEndRecord, len(runways)),
		parkingSpots:   make([]ParkingSpotRecord, len(parking)),
		taxiways:       set.New[string](),
		segmentsByName: make(map[string][]SegmentID),
	}
	copy(graph.runwayEnds, runways)
	copy(graph.parkingSpots, parking)

	/* Nodes and segments */
	nodeIndex := make(map[nodeKey]NodeID, len(paths)*2)
	resolveNode := func(pt orb.Point, code string) NodeID {
		key := builder.keyFor(pt)
		if id, ok := nodeIndex[key]; ok {
			graph.nodes[id].upgradeType(nodeTypeFromCode(code))
			return id
		}
		id := NodeID(len(graph.nodes))
		graph.nodes = append(graph.nodes, &TaxiwayNode{
			ID:       id,
			Point:    pt,
			Type:     nodeTypeFromCode(code),
			Segments: make([]SegmentID, 0, 2),
		})
		nodeIndex[key] = id
		return id
	}

	skipped := 0
	for _, path := range paths {
		startID := resolveNode(path.Start, path.StartType)
		endID := resolveNode(path.End, path.EndType)
		if startID == endID {
			// Both endpoints collapsed into one node
			skipped++
			continue
		}
		start := graph.nodes[startID].Point
		end := graph.nodes[endID].Point
		seg := &TaxiwaySegment{
			ID:         SegmentID(len(graph.segments)),
			StartNode:  startID,
			EndNode:    endID,
			Name:       NormalizeTaxiwayName(path.Name),
			WidthFeet:  path.WidthFeet,
			Surface:    path.Surface,
			Heading:    BearingDegrees(start, end),
			LengthFeet: DistanceFeet(start, end),
		}
		graph.segments = append(graph.segments, seg)
		graph.nodes[startID].addSegment(seg.ID)
		graph.nodes[endID].addSegment(seg.ID)
		if seg.Name != "" {
			if !graph.taxiways.Has(seg.Name) {
				graph.taxiways.Add(seg.Name)
				graph.taxiwayNames = append(graph.taxiwayNames, seg.Name)
			}
			graph.segmentsByName[seg.Name] = append(graph.segmentsByName[seg.Name], seg.ID)
		}
	}
	if skipped > 0 {
		l.WithField("skipped", skipped).Debug("degenerate taxi paths have been skipped")
	}
	if len(graph.segments) == 0 {
		return nil, ErrNoGraph
	}
	sort.Strings(graph.taxiwayNames)

	/* Hold-short and parking association */
	graph.centerlines = pairRunwayEnds(graph.runwayEnds, builder.runwayHeadingTolerance)
	builder.associateHoldShorts(graph)
	builder.associateParking(graph)

	pathfinder, err := NewPathfinder(graph, WithContraction(builder.contraction))
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare pathfinder")
	}
	graph.pathfinder = pathfinder

	l.WithField("nodes", len(graph.nodes)).
		WithField("segments", len(graph.segments)).
		WithField("taxiways", graph.taxiways.Size()).
		WithField("centerlines", len(graph.centerlines)).
		Debugf("Done in %v", time.Since(st))
	return graph, nil
}
