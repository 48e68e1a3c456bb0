package taxiguide

import (
	"fmt"

	"github.com/pkg/errors"
)

// RouteErrorKind is category of route building failure
type RouteErrorKind uint16

const (
	ROUTE_ERR_TAXIWAY_NOT_FOUND = RouteErrorKind(iota + 1)
	ROUTE_ERR_NO_PATH_TO_FIRST
	ROUTE_ERR_NO_CONNECTION
	ROUTE_ERR_DESTINATION_NOT_FOUND
	ROUTE_ERR_CANNOT_REACH_DESTINATION
)

func (iotaIdx RouteErrorKind) String() string {
	return [...]string{"taxiway_not_found", "no_path_to_first_taxiway", "no_connection", "destination_not_found", "cannot_reach_destination"}[iotaIdx-1]
}

var (
	ErrTaxiwayNotFound        = errors.New("taxiway not found")
	ErrNoPathToFirstTaxiway   = errors.New("no path to first taxiway")
	ErrNoConnection           = errors.New("no connection between taxiways")
	ErrDestinationNotFound    = errors.New("destination not found")
	ErrCannotReachDestination = errors.New("cannot reach destination")
)

var sentinelByRouteErrorKind = map[RouteErrorKind]error{
	ROUTE_ERR_TAXIWAY_NOT_FOUND:        ErrTaxiwayNotFound,
	ROUTE_ERR_NO_PATH_TO_FIRST:         ErrNoPathToFirstTaxiway,
	ROUTE_ERR_NO_CONNECTION:            ErrNoConnection,
	ROUTE_ERR_DESTINATION_NOT_FOUND:    ErrDestinationNotFound,
	ROUTE_ERR_CANNOT_REACH_DESTINATION: ErrCannotReachDestination,
}

// RouteError is typed failure of RouteBuilder. It matches corresponding sentinel error via errors.Is
type RouteError struct {
	Kind        RouteErrorKind
	Taxiway     string
	From        string
	To          string
	Destination Destination
}

func (e *RouteError) Error() string {
	switch e.Kind {
	case ROUTE_ERR_TAXIWAY_NOT_FOUND:
		return fmt.Sprintf("taxiway %s not found", e.Taxiway)
	case ROUTE_ERR_NO_PATH_TO_FIRST:
		return fmt.Sprintf("no path to first taxiway %s", e.Taxiway)
	case ROUTE_ERR_NO_CONNECTION:
		return fmt.Sprintf("no connection between taxiway %s and %s", e.From, e.To)
	case ROUTE_ERR_DESTINATION_NOT_FOUND:
		return fmt.Sprintf("destination %s not found", DestinationText(e.Destination))
	case ROUTE_ERR_CANNOT_REACH_DESTINATION:
		return fmt.Sprintf("cannot reach destination %s", DestinationText(e.Destination))
	default:
		return "route error"
	}
}

// Unwrap makes RouteError comparable with sentinel errors
func (e *RouteError) Unwrap() error {
	return sentinelByRouteErrorKind[e.Kind]
}
