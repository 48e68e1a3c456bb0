package taxiguide

import (
	"math"

	"github.com/paulmach/orb"
)

// runwayCenterline is a pair of opposite runway thresholds
type runwayCenterline struct {
	first      RunwayEndRecord
	second     RunwayEndRecord
	lengthFeet float64
}

// pairRunwayEnds matches runway ends with near-opposite headings into centerlines.
// When several candidates are available (e.g. parallel runways) the one lying closest
// to the extended centerline of the first end wins.
func pairRunwayEnds(ends []RunwayEndRecord, toleranceDeg float64) []runwayCenterline {
	paired := make([]bool, len(ends))
	centerlines := []runwayCenterline{}
	for i := range ends {
		if paired[i] {
			continue
		}
		best := -1
		bestOffset := math.Inf(1)
		for j := i + 1; j < len(ends); j++ {
			if paired[j] {
				continue
			}
			diff := math.Abs(HeadingDifference(ends[i].Heading, ReciprocalHeading(ends[j].Heading)))
			if diff > toleranceDeg {
				continue
			}
			length := DistanceFeet(ends[i].Point, ends[j].Point)
			if length < minLineLengthFeet {
				continue
			}
			// Lateral offset of the candidate from the extended centerline of i
			ahead := DestinationPoint(ends[i].Point, ends[i].Heading, length)
			offset := math.Abs(CrossTrackFeet(ends[j].Point, ends[i].Point, ahead))
			if offset < bestOffset {
				bestOffset = offset
				best = j
			}
		}
		if best < 0 {
			continue
		}
		paired[i] = true
		paired[best] = true
		centerlines = append(centerlines, runwayCenterline{
			first:      ends[i],
			second:     ends[best],
			lengthFeet: DistanceFeet(ends[i].Point, ends[best].Point),
		})
	}
	return centerlines
}

// nearestRunway returns name of threshold nearest to the point among centerlines located within maxDistance.
// Empty string means no match.
func nearestRunway(centerlines []runwayCenterline, pt orb.Point, maxDistanceFeet, bufferFeet float64) string {
	bestName := ""
	bestDist := math.Inf(1)
	for _, cl := range centerlines {
		if cl.lengthFeet < minLineLengthFeet {
			continue
		}
		xt := math.Abs(CrossTrackFeet(pt, cl.first.Point, cl.second.Point))
		if xt >= maxDistanceFeet {
			continue
		}
		at := AlongTrackFeet(pt, cl.first.Point, cl.second.Point)
		if at < -bufferFeet || at > cl.lengthFeet+bufferFeet {
			continue
		}
		if xt < bestDist {
			bestDist = xt
			if DistanceFeet(pt, cl.first.Point) <= DistanceFeet(pt, cl.second.Point) {
				bestName = cl.first.Name
			} else {
				bestName = cl.second.Name
			}
		}
	}
	return NormalizeTaxiwayName(bestName)
}

func (builder *GraphBuilder) associateHoldShorts(graph *TaxiwayGraph) {
	if len(graph.centerlines) == 0 {
		return
	}
	unmatched := 0
	for _, node := range graph.nodes {
		if node.Type != NODE_HOLD_SHORT {
			continue
		}
		node.HoldShortRunway = nearestRunway(graph.centerlines, node.Point, builder.holdShortMaxDistanceFeet, builder.runwayLengthBufferFeet)
		if node.HoldShortRunway == "" {
			unmatched++
		}
	}
	if unmatched > 0 {
		log.WithField("icao", graph.icao).WithField("unmatched", unmatched).Debug("hold-short nodes without runway")
	}
}
