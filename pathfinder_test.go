package taxiguide

import (
	"math"
	"testing"
)

// floydWarshall returns lengths of shortest paths between all pairs of nodes
func floydWarshall(graph *TaxiwayGraph) [][]float64 {
	n := graph.NodeCount()
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i != j {
				dist[i][j] = math.Inf(1)
			}
		}
	}
	for _, seg := range graph.Segments() {
		s, e := int(seg.StartNode), int(seg.EndNode)
		if seg.LengthFeet < dist[s][e] {
			dist[s][e] = seg.LengthFeet
			dist[e][s] = seg.LengthFeet
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if dist[i][k]+dist[k][j] < dist[i][j] {
					dist[i][j] = dist[i][k] + dist[k][j]
				}
			}
		}
	}
	return dist
}

func TestFindPath(t *testing.T) {
	graph := buildTestAirport(t)
	pf := graph.Pathfinder()

	path, ok := pf.FindPath(testNodeA0, testNodeB)
	if !ok {
		t.Fatalf("Path from %d to %d must exist", testNodeA0, testNodeB)
	}
	expected := []SegmentID{testSegA0, testSegA1, testSegB}
	if len(path) != len(expected) {
		t.Fatalf("Path length must be %d segments, but got %d", len(expected), len(path))
	}
	for i := range path {
		if path[i] != expected[i] {
			t.Errorf("Segment #%d of path must be %d, but got %d", i, expected[i], path[i])
		}
	}

	path, ok = pf.FindPath(testNodeA1, testNodeA1)
	if !ok || len(path) != 0 {
		t.Errorf("Path to the same node must be empty, but got %v (%t)", path, ok)
	}

	if _, ok = pf.FindPath(testNodeA0, testNodeE1); ok {
		t.Errorf("Path to isolated taxiway must not exist")
	}
}

func TestFindPathBruteForce(t *testing.T) {
	graph := buildTestAirport(t)
	dist := floydWarshall(graph)
	contracted, err := NewPathfinder(graph, WithContraction(true))
	if err != nil {
		t.Fatal(err)
	}
	for _, pf := range []*Pathfinder{graph.Pathfinder(), contracted} {
		for i := 0; i < graph.NodeCount(); i++ {
			for j := 0; j < graph.NodeCount(); j++ {
				path, ok := pf.FindPath(NodeID(i), NodeID(j))
				if math.IsInf(dist[i][j], 1) {
					if ok {
						t.Errorf("Path from %d to %d must not exist, but got %v", i, j, path)
					}
					continue
				}
				if !ok {
					t.Errorf("Path from %d to %d must exist", i, j)
					continue
				}
				length := graph.PathLength(path)
				if Round(length, 0.01) != Round(dist[i][j], 0.01) {
					t.Errorf("Path length from %d to %d must be %f, but got %f (contraction: %t)", i, j, dist[i][j], length, pf.contraction)
				}
			}
		}
	}
}

func TestFindPathToAny(t *testing.T) {
	graph := buildTestAirport(t)
	res, ok := graph.Pathfinder().FindPathToAny(testNodeA0, []NodeID{testNodeB, testNodeC})
	if !ok {
		t.Fatalf("Path must exist")
	}
	if res.Target != testNodeC {
		t.Errorf("Nearest target must be %d, but got %d", testNodeC, res.Target)
	}
	if Round(res.LengthFeet, 0.01) != Round(graph.PathLength(res.Segments), 0.01) {
		t.Errorf("Length of result must be %f, but got %f", graph.PathLength(res.Segments), res.LengthFeet)
	}
	if _, ok := graph.Pathfinder().FindPathToAny(testNodeA0, []NodeID{testNodeE0, testNodeE1}); ok {
		t.Errorf("Path to isolated nodes must not exist")
	}
}

func TestTaxiwayOnlyPathfinder(t *testing.T) {
	graph := buildTestAirport(t)
	pf, err := NewPathfinder(graph, WithTaxiwayOnly("a"))
	if err != nil {
		t.Fatal(err)
	}
	if pf.Contains(testNodeB) {
		t.Errorf("Node %d must not be a part of taxiway A subgraph", testNodeB)
	}
	path, ok := pf.FindPath(testNodeA0, testNodeA3)
	if !ok || len(path) != 3 {
		t.Fatalf("Path along taxiway A must have %d segments, but got %v (%t)", 3, path, ok)
	}
	for _, segID := range path {
		if graph.Segment(segID).Name != "A" {
			t.Errorf("Segment %d must belong to taxiway A, but got %s", segID, graph.Segment(segID).Name)
		}
	}
	if _, ok := pf.FindPath(testNodeA0, testNodeC); ok {
		t.Errorf("Path leaving taxiway A must not exist")
	}
}
