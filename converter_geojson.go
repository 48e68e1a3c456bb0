package taxiguide

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
)

func lineStringCoordinates(line orb.LineString) [][]float64 {
	pts2d := make([][]float64, len(line))
	for i := range line {
		pts2d[i] = []float64{line[i].Lon(), line[i].Lat()}
	}
	return pts2d
}

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(line orb.LineString) string {
	b, err := geojson.NewLineStringGeometry(lineStringCoordinates(line)).MarshalJSON()
	if err != nil {
		log.WithError(err).Warn("Can not convert geometry to geojson format")
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of Point
func PrepareGeoJSONPoint(pt orb.Point) string {
	b, err := geojson.NewPointGeometry([]float64{pt.Lon(), pt.Lat()}).MarshalJSON()
	if err != nil {
		log.WithError(err).Warn("Can not convert geometry to geojson format")
		return ""
	}
	return string(b)
}

// GraphToGeoJSON returns feature collection with every segment (as LineString) and every non-normal node (as Point)
func GraphToGeoJSON(graph *TaxiwayGraph) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, seg := range graph.segments {
		start, end := graph.segmentEndpoints(seg)
		f := geojson.NewLineStringFeature(lineStringCoordinates(orb.LineString{start, end}))
		f.SetProperty("id", int(seg.ID))
		f.SetProperty("name", seg.Name)
		f.SetProperty("width_ft", seg.WidthFeet)
		f.SetProperty("length_ft", seg.LengthFeet)
		f.SetProperty("heading", seg.Heading)
		fc.AddFeature(f)
	}
	for _, node := range graph.nodes {
		if node.Type == NODE_NORMAL && !node.IsJunction() {
			continue
		}
		f := geojson.NewPointFeature([]float64{node.Lon(), node.Lat()})
		f.SetProperty("id", int(node.ID))
		f.SetProperty("type", node.Type.String())
		f.SetProperty("junction", node.IsJunction())
		if node.HoldShortRunway != "" {
			f.SetProperty("runway", node.HoldShortRunway)
		}
		if node.ParkingName != "" {
			f.SetProperty("parking", node.ParkingName)
			f.SetProperty("jetway", node.HasJetway)
		}
		fc.AddFeature(f)
	}
	return fc.MarshalJSON()
}

// RouteToGeoJSON returns feature collection with one LineString feature per waypoint
func RouteToGeoJSON(route *TaxiRoute) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, wp := range route.Waypoints {
		f := geojson.NewLineStringFeature(lineStringCoordinates(orb.LineString{wp.FromPoint, wp.TargetPoint}))
		f.SetProperty("index", wp.Index)
		f.SetProperty("segment", int(wp.SegmentID))
		f.SetProperty("taxiway", wp.TaxiwayName)
		f.SetProperty("type", wp.Type.String())
		f.SetProperty("turn", wp.Turn.String())
		f.SetProperty("turn_angle", wp.TurnAngle)
		f.SetProperty("heading", wp.HeadingDegrees)
		f.SetProperty("distance_ft", wp.DistanceFromPreviousFeet)
		if wp.ApproachAnnouncement != "" {
			f.SetProperty("approach", wp.ApproachAnnouncement)
		}
		if wp.PassAnnouncement != "" {
			f.SetProperty("pass", wp.PassAnnouncement)
		}
		fc.AddFeature(f)
	}
	return fc.MarshalJSON()
}
