package taxiguide

import (
	"math"

	"github.com/paulmach/orb"
)

// TurnArc is a circular arc tangent to both incoming and outgoing legs at a node
type TurnArc struct {
	Center     orb.Point
	RadiusFeet float64
	LengthFeet float64
	// StartAngle is bearing (degrees) from center to the arc's first point
	StartAngle float64
	// Sweep is signed turn angle (degrees), positive for right turns
	Sweep float64
	// TangentFeet is distance from node to the arc's endpoints along each leg
	TangentFeet float64

	Start      orb.Point
	End        orb.Point
	InHeading  float64
	OutHeading float64
}

// NewTurnArc builds arc for turn at node from inHeading to outHeading.
// Radius is width/(2*tan(turn/2)) bounded by params, tangent length never exceeds a half of either adjacent leg.
// Nil is returned for turns below params.TurnArcMinAngle, near U-turns and degenerate legs.
func NewTurnArc(node orb.Point, inHeading, outHeading, widthFeet, inLegFeet, outLegFeet float64, params GuidanceParams) *TurnArc {
	delta := HeadingDifference(inHeading, outHeading)
	if math.Abs(delta) < params.TurnArcMinAngle || math.Abs(delta) > 175 {
		return nil
	}
	if widthFeet <= 0 {
		widthFeet = params.DefaultWidthFeet
	}
	half := degreesToRadians(math.Abs(delta)) / 2.0
	tanHalf := math.Tan(half)
	radius := clamp(widthFeet/(2*tanHalf), params.MinTurnRadiusFeet, params.MaxTurnRadiusFeet)
	tangent := radius * tanHalf
	maxTangent := 0.5 * math.Min(inLegFeet, outLegFeet)
	if tangent > maxTangent {
		tangent = maxTangent
		radius = tangent / tanHalf
	}
	if tangent < minLineLengthFeet || radius < minLineLengthFeet {
		return nil
	}
	k := sign(delta)
	start := DestinationPoint(node, ReciprocalHeading(inHeading), tangent)
	arc := &TurnArc{
		Center:      DestinationPoint(start, inHeading+k*90, radius),
		RadiusFeet:  radius,
		LengthFeet:  radius * degreesToRadians(math.Abs(delta)),
		StartAngle:  NormalizeHeading(inHeading - k*90),
		Sweep:       delta,
		TangentFeet: tangent,
		Start:       start,
		InHeading:   NormalizeHeading(inHeading),
		OutHeading:  NormalizeHeading(outHeading),
	}
	arc.End, _ = arc.PointAt(arc.LengthFeet)
	return arc
}

// PointAt returns point and heading at given distance (feet) along the arc
func (arc *TurnArc) PointAt(distanceFeet float64) (orb.Point, float64) {
	distanceFeet = clamp(distanceFeet, 0, arc.LengthFeet)
	k := sign(arc.Sweep)
	swept := radiansTodegrees(distanceFeet / arc.RadiusFeet)
	return DestinationPoint(arc.Center, arc.StartAngle+k*swept, arc.RadiusFeet), NormalizeHeading(arc.InHeading + k*swept)
}

// RecoveryArc brings aircraft back to centerline: an arc tangent to aircraft's heading which ends
// on the merge heading, followed by a straight intercept leg (possibly of zero length) ending on centerline.
type RecoveryArc struct {
	Center     orb.Point
	RadiusFeet float64
	LengthFeet float64
	StartAngle float64
	Sweep      float64

	Start        orb.Point
	End          orb.Point
	StartHeading float64
	// MergeHeading is heading of intercept leg
	MergeHeading float64

	InterceptFeet  float64
	InterceptPoint orb.Point

	// Centerline being recovered to
	LineStart orb.Point
	LineEnd   orb.Point
}

// NewRecoveryArc builds recovery path from aircraft position and heading to the line lineStart-lineEnd.
//
// With aircraft at lateral offset y0 and angle psi0 relative to the line, an arc of radius r
// turning (k = +1 right, -1 left) to merge angle psi1 ends at lateral offset
// y0 + (r/k)*(cos psi0 - cos psi1). Radius is chosen to make that zero, i.e. for parallel heading
// r = crossTrack/(1-cos merge). When bounds on radius prevent the arc from reaching centerline the
// intercept leg closes the remaining offset.
func NewRecoveryArc(pos orb.Point, heading float64, lineStart, lineEnd orb.Point, params GuidanceParams) *RecoveryArc {
	if DistanceFeet(lineStart, lineEnd) < minLineLengthFeet {
		return nil
	}
	lineHeading := BearingDegrees(lineStart, lineEnd)
	y0 := CrossTrackFeet(pos, lineStart, lineEnd)
	if y0 == 0 {
		return nil
	}
	merge := NormalizeHeading(lineHeading - sign(y0)*params.RecoveryMergeAngle)
	delta := HeadingDifference(heading, merge)

	arc := &RecoveryArc{
		Start:        pos,
		StartHeading: NormalizeHeading(heading),
		MergeHeading: merge,
		Sweep:        delta,
		LineStart:    lineStart,
		LineEnd:      lineEnd,
	}
	if math.Abs(delta) > 0.01 {
		k := sign(delta)
		psi0 := degreesToRadians(HeadingDifference(lineHeading, heading))
		psi1 := degreesToRadians(HeadingDifference(lineHeading, merge))
		radius := k * y0 / (math.Cos(psi1) - math.Cos(psi0))
		if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
			radius = params.MinRecoveryRadiusFeet
		}
		radius = clamp(radius, params.MinRecoveryRadiusFeet, params.MaxRecoveryRadiusFeet)
		arc.RadiusFeet = radius
		arc.LengthFeet = radius * degreesToRadians(math.Abs(delta))
		arc.Center = DestinationPoint(pos, heading+k*90, radius)
		arc.StartAngle = NormalizeHeading(heading - k*90)
		arc.End, _, _ = arc.PointAt(arc.LengthFeet)
	} else {
		arc.End = pos
	}

	yEnd := CrossTrackFeet(arc.End, lineStart, lineEnd)
	remaining := yEnd * sign(y0)
	if remaining > 0 {
		arc.InterceptFeet = remaining / math.Sin(degreesToRadians(params.RecoveryMergeAngle))
	}
	arc.InterceptPoint = DestinationPoint(arc.End, merge, arc.InterceptFeet)
	return arc
}

// TotalFeet returns length of arc plus intercept leg
func (arc *RecoveryArc) TotalFeet() float64 {
	return arc.LengthFeet + arc.InterceptFeet
}

// PointAt returns point and heading at given distance along recovery path.
// Bool is false when distance is beyond the intercept point (InterceptPoint is returned then).
func (arc *RecoveryArc) PointAt(distanceFeet float64) (orb.Point, float64, bool) {
	if distanceFeet < 0 {
		distanceFeet = 0
	}
	if distanceFeet <= arc.LengthFeet && arc.LengthFeet > 0 {
		k := sign(arc.Sweep)
		swept := radiansTodegrees(distanceFeet / arc.RadiusFeet)
		return DestinationPoint(arc.Center, arc.StartAngle+k*swept, arc.RadiusFeet), NormalizeHeading(arc.StartHeading + k*swept), true
	}
	if distanceFeet <= arc.TotalFeet() {
		return DestinationPoint(arc.End, arc.MergeHeading, distanceFeet-arc.LengthFeet), arc.MergeHeading, true
	}
	return arc.InterceptPoint, arc.MergeHeading, false
}

// Progress returns distance along recovery path of aircraft's projection onto it.
// On the arc it is derived from bearing of aircraft as seen from arc's center.
func (arc *RecoveryArc) Progress(pos orb.Point) float64 {
	if arc.LengthFeet > 0 {
		swept := sign(arc.Sweep) * HeadingDifference(arc.StartAngle, BearingDegrees(arc.Center, pos))
		if swept < math.Abs(arc.Sweep) {
			return math.Max(0, arc.RadiusFeet*degreesToRadians(swept))
		}
	}
	if arc.InterceptFeet < minLineLengthFeet {
		return arc.LengthFeet
	}
	return arc.LengthFeet + clamp(AlongTrackFeet(pos, arc.End, arc.InterceptPoint), 0, arc.InterceptFeet)
}

// Completed checks if aircraft has travelled the whole recovery path
func (arc *RecoveryArc) Completed(pos orb.Point) bool {
	return arc.Progress(pos) >= arc.TotalFeet()-minLineLengthFeet
}
