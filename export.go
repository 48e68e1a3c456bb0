package taxiguide

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// GeometryFormat is representation of geometry column in exported files
type GeometryFormat uint16

const (
	GEOMETRY_WKT = GeometryFormat(iota + 1)
	GEOMETRY_GEOJSON
)

func (iotaIdx GeometryFormat) String() string {
	return [...]string{"wkt", "geojson"}[iotaIdx-1]
}

// ParseGeometryFormat returns GEOMETRY_WKT for anything except "geojson"
func ParseGeometryFormat(text string) GeometryFormat {
	if strings.ToLower(strings.TrimSpace(text)) == "geojson" {
		return GEOMETRY_GEOJSON
	}
	return GEOMETRY_WKT
}

func (format GeometryFormat) line(line orb.LineString) string {
	if format == GEOMETRY_GEOJSON {
		return PrepareGeoJSONLinestring(line)
	}
	return PrepareWKTLinestring(line)
}

func (format GeometryFormat) point(pt orb.Point) string {
	if format == GEOMETRY_GEOJSON {
		return PrepareGeoJSONPoint(pt)
	}
	return PrepareWKTPoint(pt)
}

// ExportToCSV writes nodes and segments of graph into two files: <name>_nodes.csv and <name>_segments.csv
func (graph *TaxiwayGraph) ExportToCSV(fname string, format GeometryFormat) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameNodes := fnameParts[0] + "_nodes.csv"
	fnameSegments := fnameParts[0] + "_segments.csv"

	err := graph.exportNodesToCSV(fnameNodes, format)
	if err != nil {
		return errors.Wrap(err, "Can't export nodes")
	}

	err = graph.exportSegmentsToCSV(fnameSegments, format)
	if err != nil {
		return errors.Wrap(err, "Can't export segments")
	}
	return nil
}

func (graph *TaxiwayGraph) exportNodesToCSV(fname string, format GeometryFormat) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "node_type", "segments", "is_junction", "runway", "parking", "jetway", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, node := range graph.nodes {
		err = writer.Write([]string{
			fmt.Sprintf("%d", node.ID),
			node.Type.String(),
			fmt.Sprintf("%d", len(node.Segments)),
			fmt.Sprintf("%t", node.IsJunction()),
			node.HoldShortRunway,
			node.ParkingName,
			fmt.Sprintf("%t", node.HasJetway),
			format.point(node.Point),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write node")
		}
	}
	return nil
}

func (graph *TaxiwayGraph) exportSegmentsToCSV(fname string, format GeometryFormat) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "start_node", "end_node", "name", "width_ft", "surface", "heading", "length_ft", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, seg := range graph.segments {
		start, end := graph.segmentEndpoints(seg)
		err = writer.Write([]string{
			fmt.Sprintf("%d", seg.ID),
			fmt.Sprintf("%d", seg.StartNode),
			fmt.Sprintf("%d", seg.EndNode),
			seg.Name,
			fmt.Sprintf("%f", seg.WidthFeet),
			seg.Surface,
			fmt.Sprintf("%f", seg.Heading),
			fmt.Sprintf("%f", seg.LengthFeet),
			format.line(orb.LineString{start, end}),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write segment")
		}
	}
	return nil
}

// ExportToCSV writes waypoints of route into single file
func (route *TaxiRoute) ExportToCSV(fname string, format GeometryFormat) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"index", "segment", "from_node", "target_node", "taxiway", "waypoint_type", "turn", "turn_angle", "heading", "distance_ft", "synthetic", "approach", "pass", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, wp := range route.Waypoints {
		err = writer.Write([]string{
			fmt.Sprintf("%d", wp.Index),
			fmt.Sprintf("%d", wp.SegmentID),
			fmt.Sprintf("%d", wp.FromNode),
			fmt.Sprintf("%d", wp.TargetNode),
			wp.TaxiwayName,
			wp.Type.String(),
			wp.Turn.String(),
			fmt.Sprintf("%f", wp.TurnAngle),
			fmt.Sprintf("%f", wp.HeadingDegrees),
			fmt.Sprintf("%f", wp.DistanceFromPreviousFeet),
			fmt.Sprintf("%t", wp.Synthetic),
			wp.ApproachAnnouncement,
			wp.PassAnnouncement,
			format.line(orb.LineString{wp.FromPoint, wp.TargetPoint}),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write waypoint")
		}
	}
	return nil
}
