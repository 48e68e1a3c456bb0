package taxiguide

import (
	"math"
)

// associateParking copies name and jetway flag of the nearest parking spot onto every parking node
func (builder *GraphBuilder) associateParking(graph *TaxiwayGraph) {
	if len(graph.parkingSpots) == 0 {
		return
	}
	for _, node := range graph.nodes {
		if node.Type != NODE_PARKING {
			continue
		}
		bestIdx := -1
		bestDist := math.Inf(1)
		for i, spot := range graph.parkingSpots {
			d := DistanceFeet(node.Point, spot.Point)
			if d <= builder.parkingRadiusFeet && d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			continue
		}
		node.ParkingName = graph.parkingSpots[bestIdx].Name
		node.HasJetway = graph.parkingSpots[bestIdx].HasJetway
	}
}
