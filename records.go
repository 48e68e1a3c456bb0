package taxiguide

import (
	"github.com/paulmach/orb"
)

// TaxiPathRecord is a raw taxi path as it is stored in airport database
type TaxiPathRecord struct {
	Start     orb.Point
	End       orb.Point
	StartType string // HSND, P, N, etc.
	EndType   string
	Name      string
	WidthFeet float64
	Surface   string
	PathType  string
}

// RunwayEndRecord is a single runway threshold
type RunwayEndRecord struct {
	Name    string
	Point   orb.Point
	Heading float64
}

// ParkingSpotRecord is a named parking spot or gate
type ParkingSpotRecord struct {
	Name      string
	Point     orb.Point
	HasJetway bool
}

// DatabaseProvider gives already parsed airport records. Implementations must not keep live connections for graph
type DatabaseProvider interface {
	GetAirportID(icao string) (int, error)
	GetTaxiPaths(airportID int) ([]TaxiPathRecord, error)
	GetRunwayEnds(airportID int) ([]RunwayEndRecord, error)
	GetParkingSpots(airportID int) ([]ParkingSpotRecord, error)
}
