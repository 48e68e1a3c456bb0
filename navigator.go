package taxiguide

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DatabaseStatus describes the last airport load
type DatabaseStatus struct {
	Path         string
	ICAO         string
	AirportID    int
	NodeCount    int
	SegmentCount int
	LoadedAt     time.Time
	LoadDuration time.Duration
	LastError    error
}

// Navigator owns graph of the current airport together with guidance engine built over it
type Navigator struct {
	sync.RWMutex

	builderOptions []func(*GraphBuilder)
	engineOptions  []func(*Engine)

	graph        *TaxiwayGraph
	engine       *Engine
	routeBuilder *RouteBuilder
	status       DatabaseStatus
}

// WithBuilderOptions sets options used for every graph build
func WithBuilderOptions(options ...func(*GraphBuilder)) func(*Navigator) {
	return func(nav *Navigator) {
		nav.builderOptions = append(nav.builderOptions, options...)
	}
}

// WithEngineOptions sets options passed to every new engine
func WithEngineOptions(options ...func(*Engine)) func(*Navigator) {
	return func(nav *Navigator) {
		nav.engineOptions = append(nav.engineOptions, options...)
	}
}

// NewNavigator returns navigator without airport. Engine is idle and has no graph
func NewNavigator(options ...func(*Navigator)) *Navigator {
	nav := &Navigator{}
	for _, o := range options {
		o(nav)
	}
	nav.engine = NewEngine(nil, nav.engineOptions...)
	return nav
}

// LoadAirport builds graph for ICAO code from database at given path.
// On failure previous graph and engine stay in place, error is kept in status.
func (nav *Navigator) LoadAirport(dbPath, icao string) bool {
	st := time.Now()
	l := log.WithFields(logrus.Fields{"db": dbPath, "icao": icao})
	graph, err := nav.load(dbPath, icao)

	nav.Lock()
	defer nav.Unlock()
	nav.status.Path = dbPath
	nav.status.ICAO = NormalizeTaxiwayName(icao)
	nav.status.LastError = err
	if err != nil {
		l.WithError(err).Warn("Can't load airport")
		return false
	}
	if nav.engine != nil {
		nav.engine.StopGuidance()
	}
	nav.graph = graph
	nav.engine = NewEngine(graph, nav.engineOptions...)
	nav.routeBuilder = NewRouteBuilder(graph)
	nav.status.AirportID = graph.AirportID()
	nav.status.NodeCount = graph.NodeCount()
	nav.status.SegmentCount = graph.SegmentCount()
	nav.status.LoadedAt = time.Now()
	nav.status.LoadDuration = time.Since(st)
	l.WithFields(logrus.Fields{"nodes": graph.NodeCount(), "segments": graph.SegmentCount()}).Infof("Airport loaded in %v", nav.status.LoadDuration)
	return true
}

func (nav *Navigator) load(dbPath, icao string) (*TaxiwayGraph, error) {
	provider, err := OpenProvider(dbPath)
	if err != nil {
		return nil, err
	}
	return NewGraphBuilder(nav.builderOptions...).BuildFromProvider(provider, icao)
}

// DatabaseStatus returns copy of the last load status
func (nav *Navigator) DatabaseStatus() DatabaseStatus {
	nav.RLock()
	defer nav.RUnlock()
	return nav.status
}

// Graph returns current graph or nil
func (nav *Navigator) Graph() *TaxiwayGraph {
	nav.RLock()
	defer nav.RUnlock()
	return nav.graph
}

// Engine returns current guidance engine. It is replaced on every successful load
func (nav *Navigator) Engine() *Engine {
	nav.RLock()
	defer nav.RUnlock()
	return nav.engine
}

// BuildRoute builds route over current graph. Engine is not touched
func (nav *Navigator) BuildRoute(req RouteRequest) (*TaxiRoute, error) {
	// Route builder caches pathfinders, exclusive lock is needed
	nav.Lock()
	defer nav.Unlock()
	if nav.routeBuilder == nil {
		return nil, ErrNoGraph
	}
	return nav.routeBuilder.BuildRoute(req)
}
