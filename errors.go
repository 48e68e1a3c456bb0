package taxiguide

import (
	"github.com/pkg/errors"
)

var (
	// ErrNoGraph is returned when airport has no taxi paths. Guidance is unavailable, it is not fatal
	ErrNoGraph = errors.New("no taxiway graph for airport")
	// ErrAirportNotFound is returned by providers for unknown ICAO codes
	ErrAirportNotFound = errors.New("airport not found")
	// ErrNoNearbyTaxiway is returned when there is no taxiway segment within search radius
	ErrNoNearbyTaxiway = errors.New("no taxiway nearby")
	// ErrNotActive is returned for actions which need certain guidance state
	ErrNotActive = errors.New("guidance is not in appropriate state")
	// ErrInvalidOption is returned when selected option has not been offered
	ErrInvalidOption = errors.New("option has not been offered")
	// ErrEmptyRoute is returned when guidance is asked to follow a route without waypoints
	ErrEmptyRoute = errors.New("route has no waypoints")
)
