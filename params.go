package taxiguide

import (
	"fmt"
	"time"
)

// GuidanceParams holds every tunable threshold of guidance engine. Distances are in feet, angles in degrees
type GuidanceParams struct {
	// Segment selection
	SearchRadiusFeet      float64
	JunctionProximityFeet float64

	// Junctions, hold-short points and dead ends in segment mode
	JunctionWarningFeet      float64
	JunctionSelectionFeet    float64
	JunctionSelectionTimeout time.Duration
	NodeReachedFeet          float64
	HoldShortFarFeet         float64
	HoldShortNearFeet        float64
	ArrivalFeet              float64

	// Carrot pursuit
	LookAheadSeconds float64
	MinLookAheadFeet float64
	MaxLookAheadFeet float64
	MaxCorrection    float64
	OnTrackAngle     float64

	// Turn arcs
	TurnArcMinAngle   float64
	MinTurnRadiusFeet float64
	MaxTurnRadiusFeet float64
	DefaultWidthFeet  float64

	// Recovery arcs
	RecoveryEnterFeet     float64
	RecoveryExitFeet      float64
	RecoveryMergeAngle    float64
	MinRecoveryRadiusFeet float64
	MaxRecoveryRadiusFeet float64

	// Announcements rate limiting
	AnnouncementInterval time.Duration
	SafetyInterval       time.Duration
	DriftRatio           float64
	OffTaxiwayMarginFeet float64

	// Route mode
	AlongTrackToleranceFeet  float64
	DivergingDuration        time.Duration
	DeviationCrossTrackFeet  float64
	DeviationMinDistanceFeet float64
	DeviationLengthFactor    float64
	RecoveredCrossTrackFeet  float64
	TurnAnticipationAngle    float64
	TurnAnticipationMinFeet  float64
	TurnAnticipationFactor   float64
	WaypointAnnounceFeet     float64

	// Alignment sub-states
	AlignEnterFeet   float64
	AlignCaptureFeet float64
	AlignBehindFeet  float64

	ToneVolume float64
}

// DefaultGuidanceParams returns values guidance has been tuned with
func DefaultGuidanceParams() GuidanceParams {
	return GuidanceParams{
		SearchRadiusFeet:      200,
		JunctionProximityFeet: 75,

		JunctionWarningFeet:      150,
		JunctionSelectionFeet:    50,
		JunctionSelectionTimeout: 10 * time.Second,
		NodeReachedFeet:          30,
		HoldShortFarFeet:         200,
		HoldShortNearFeet:        50,
		ArrivalFeet:              50,

		LookAheadSeconds: 2.0,
		MinLookAheadFeet: 30,
		MaxLookAheadFeet: 150,
		MaxCorrection:    10,
		OnTrackAngle:     3,

		TurnArcMinAngle:   20,
		MinTurnRadiusFeet: 30,
		MaxTurnRadiusFeet: 500,
		DefaultWidthFeet:  50,

		RecoveryEnterFeet:     20,
		RecoveryExitFeet:      10,
		RecoveryMergeAngle:    20,
		MinRecoveryRadiusFeet: 50,
		MaxRecoveryRadiusFeet: 500,

		AnnouncementInterval: 500 * time.Millisecond,
		SafetyInterval:       5 * time.Second,
		DriftRatio:           0.8,
		OffTaxiwayMarginFeet: 15,

		AlongTrackToleranceFeet:  10,
		DivergingDuration:        time.Second,
		DeviationCrossTrackFeet:  100,
		DeviationMinDistanceFeet: 500,
		DeviationLengthFactor:    3,
		RecoveredCrossTrackFeet:  50,
		TurnAnticipationAngle:    30,
		TurnAnticipationMinFeet:  40,
		TurnAnticipationFactor:   0.6,
		WaypointAnnounceFeet:     150,

		AlignEnterFeet:   100,
		AlignCaptureFeet: 25,
		AlignBehindFeet:  30,

		ToneVolume: 0.5,
	}
}

// lookAheadFeet returns carrot distance for ground speed (knots)
func (params GuidanceParams) lookAheadFeet(speedKnots float64) float64 {
	return clamp(knotsToFeetPerSecond(speedKnots)*params.LookAheadSeconds, params.MinLookAheadFeet, params.MaxLookAheadFeet)
}

func (params GuidanceParams) String() string {
	return fmt.Sprintf(`
	Search radius: %.0f ft
	Look-ahead: %.1f s within [%.0f; %.0f] ft
	Recovery: enter %.0f ft, exit %.0f ft, merge %.0f deg
	Max correction: %.0f deg
	Junction: warning %.0f ft, selection %.0f ft, timeout %v
	Deviation: %.0f ft cross-track, max(%.0fx length, %.0f ft)
	`,
		params.SearchRadiusFeet,
		params.LookAheadSeconds, params.MinLookAheadFeet, params.MaxLookAheadFeet,
		params.RecoveryEnterFeet, params.RecoveryExitFeet, params.RecoveryMergeAngle,
		params.MaxCorrection,
		params.JunctionWarningFeet, params.JunctionSelectionFeet, params.JunctionSelectionTimeout,
		params.DeviationCrossTrackFeet, params.DeviationLengthFactor, params.DeviationMinDistanceFeet,
	)
}
