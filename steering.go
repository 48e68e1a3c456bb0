package taxiguide

import (
	"math"
	"time"
)

// steeringCorrection returns bounded bearing-pursuit correction (degrees, positive is right)
func steeringCorrection(heading, bearingToCarrot, maxCorrection float64) float64 {
	return clamp(HeadingDifference(heading, bearingToCarrot), -maxCorrection, maxCorrection)
}

// headingCorrection returns bounded correction for flying along given heading
func headingCorrection(heading, desired, maxCorrection float64) float64 {
	return clamp(HeadingDifference(heading, desired), -maxCorrection, maxCorrection)
}

// panForCorrection maps correction to audio pan in [-1; 1]. Negative pan means steer left
func panForCorrection(correction, maxCorrection float64) float64 {
	if maxCorrection <= 0 {
		return 0
	}
	return clamp(correction/maxCorrection, -1, 1)
}

// announcementLimiter lets text through only when it differs from previous one and interval has passed
type announcementLimiter struct {
	interval time.Duration
	lastText string
	lastTime time.Time
}

func (limiter *announcementLimiter) allow(text string, now time.Time) bool {
	if text == "" || text == limiter.lastText {
		return false
	}
	if !limiter.lastTime.IsZero() && now.Sub(limiter.lastTime) < limiter.interval {
		return false
	}
	limiter.lastText = text
	limiter.lastTime = now
	return true
}

func (limiter *announcementLimiter) reset() {
	limiter.lastText = ""
	limiter.lastTime = time.Time{}
}

// safetyLimiter lets through at most one warning per interval. Repeating the same warning is allowed
type safetyLimiter struct {
	interval time.Duration
	lastTime time.Time
}

func (limiter *safetyLimiter) allow(now time.Time) bool {
	if !limiter.lastTime.IsZero() && now.Sub(limiter.lastTime) < limiter.interval {
		return false
	}
	limiter.lastTime = now
	return true
}

// safetyWarning returns width-relative warning for signed cross-track (positive is right of centerline).
// It is independent of steering law.
func safetyWarning(crossTrackFeet, widthFeet float64, params GuidanceParams) string {
	if widthFeet <= 0 {
		widthFeet = params.DefaultWidthFeet
	}
	half := widthFeet / 2
	xt := math.Abs(crossTrackFeet)
	switch {
	case xt > half+params.OffTaxiwayMarginFeet:
		return "Off taxiway"
	case xt > params.DriftRatio*half:
		if crossTrackFeet > 0 {
			return "Drifting right"
		}
		return "Drifting left"
	default:
		return ""
	}
}
