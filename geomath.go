package taxiguide

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	feetPerMeter  = 3.280839895
	knotsToFeetPS = 1.68780986
	pi180         = math.Pi / 180.0
	pi180Rev      = 180.0 / math.Pi

	// minLineLengthFeet is the shortest line used as a reference for
	// cross-track and along-track math. Anything shorter is a point.
	minLineLengthFeet = 0.5
)

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// radiansTodegrees r = deg  * 180 / pi
func radiansTodegrees(d float64) float64 {
	return d * pi180Rev
}

// NormalizeHeading returns heading in [0, 360)
func NormalizeHeading(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

// HeadingDifference returns signed angle (degrees) for turning from heading `from` to heading `to`.
// Result is in (-180, 180]: positive values mean turn right, negative values mean turn left.
func HeadingDifference(from, to float64) float64 {
	d := NormalizeHeading(to) - NormalizeHeading(from)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// ReciprocalHeading returns heading + 180
func ReciprocalHeading(h float64) float64 {
	return NormalizeHeading(h + 180)
}

// DistanceFeet returns great circle distance between two points (feet)
func DistanceFeet(p, q orb.Point) float64 {
	return geo.Distance(p, q) * feetPerMeter
}

// BearingDegrees returns initial bearing from p to q in [0, 360)
func BearingDegrees(p, q orb.Point) float64 {
	if p == q {
		return 0
	}
	return NormalizeHeading(geo.Bearing(p, q))
}

// DestinationPoint returns point located at given distance (feet) and bearing from p
func DestinationPoint(p orb.Point, bearing, distanceFeet float64) orb.Point {
	if distanceFeet == 0 {
		return p
	}
	return geo.PointAtBearingAndDistance(p, NormalizeHeading(bearing), distanceFeet/feetPerMeter)
}

// CrossTrackFeet returns signed perpendicular distance (feet) from p to the great circle going through start and end.
// Positive value means p is on the right side of the line (looking from start to end).
// Degenerate lines (shorter than minLineLengthFeet) give zero.
func CrossTrackFeet(p, start, end orb.Point) float64 {
	if DistanceFeet(start, end) < minLineLengthFeet {
		return 0
	}
	d13 := geo.Distance(start, p) / orb.EarthRadius
	if d13 == 0 {
		return 0
	}
	theta13 := degreesToRadians(BearingDegrees(start, p))
	theta12 := degreesToRadians(BearingDegrees(start, end))
	x := math.Sin(d13) * math.Sin(theta13-theta12)
	x = math.Max(-1, math.Min(1, x))
	return math.Asin(x) * orb.EarthRadius * feetPerMeter
}

// AlongTrackFeet returns signed distance (feet) from start to the projection of p onto the line start-end.
// Negative value means projection falls behind start.
func AlongTrackFeet(p, start, end orb.Point) float64 {
	if DistanceFeet(start, end) < minLineLengthFeet {
		return 0
	}
	d13 := geo.Distance(start, p) / orb.EarthRadius
	if d13 == 0 {
		return 0
	}
	theta13 := degreesToRadians(BearingDegrees(start, p))
	theta12 := degreesToRadians(BearingDegrees(start, end))
	dxt := math.Asin(math.Max(-1, math.Min(1, math.Sin(d13)*math.Sin(theta13-theta12))))
	c := math.Cos(dxt)
	if c == 0 {
		return 0
	}
	ratio := math.Max(-1, math.Min(1, math.Cos(d13)/c))
	dat := math.Acos(ratio) * orb.EarthRadius * feetPerMeter
	if math.Cos(theta13-theta12) < 0 {
		return -dat
	}
	return dat
}

// DistanceToSegmentFeet returns distance (feet) from p to the finite segment start-end
func DistanceToSegmentFeet(p, start, end orb.Point) float64 {
	length := DistanceFeet(start, end)
	if length < minLineLengthFeet {
		return DistanceFeet(p, start)
	}
	at := AlongTrackFeet(p, start, end)
	if at <= 0 {
		return DistanceFeet(p, start)
	}
	if at >= length {
		return DistanceFeet(p, end)
	}
	return math.Abs(CrossTrackFeet(p, start, end))
}

// ProjectOntoLine returns point of the (infinite) line start-end nearest to p
func ProjectOntoLine(p, start, end orb.Point) orb.Point {
	if DistanceFeet(start, end) < minLineLengthFeet {
		return start
	}
	at := AlongTrackFeet(p, start, end)
	return DestinationPoint(start, BearingDegrees(start, end), at)
}

// pointOnSegment returns a point on given segment using distance (feet) from start
func pointOnSegment(start, end orb.Point, distanceFeet float64) orb.Point {
	return DestinationPoint(start, BearingDegrees(start, end), distanceFeet)
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// knotsToFeetPerSecond converts ground speed
func knotsToFeetPerSecond(kt float64) float64 {
	return kt * knotsToFeetPS
}
