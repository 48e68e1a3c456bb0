package taxiguide

import (
	"context"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

// Announcer speaks text. Calls must not block guidance
type Announcer interface {
	AnnounceImmediate(text string)
}

// Waveform is shape of guidance tone
type Waveform uint16

const (
	WAVEFORM_SINE = Waveform(iota + 1)
	WAVEFORM_TRIANGLE
	WAVEFORM_SQUARE
)

func (iotaIdx Waveform) String() string {
	return [...]string{"sine", "triangle", "square"}[iotaIdx-1]
}

// ToneGenerator plays continuous steering tone. Pan updates are "latest value wins"
type ToneGenerator interface {
	Start(waveform Waveform, volume float64)
	SetPan(pan float64)
	Stop()
}

// PositionSample is single telemetry reading. Heading is magnetic
type PositionSample struct {
	Lat        float64
	Lon        float64
	Heading    float64
	SpeedKnots float64
}

type nopAnnouncer struct{}

func (nopAnnouncer) AnnounceImmediate(string) {}

type nopTone struct{}

func (nopTone) Start(Waveform, float64) {}
func (nopTone) SetPan(float64)          {}
func (nopTone) Stop()                   {}

// Engine is guidance state machine. Every method is safe for concurrent use,
// but it is expected that position updates come from a single telemetry loop.
type Engine struct {
	sync.Mutex

	graph     *TaxiwayGraph
	announcer Announcer
	tone      ToneGenerator
	now       func() time.Time
	magVar    float64
	params    GuidanceParams
	waveform  Waveform

	state  GuidanceState
	queued []Event

	// Output being assembled by current call
	out *GuidanceOutput

	position    orb.Point
	heading     float64
	speed       float64
	hasPosition bool
	toneOn      bool

	// Segment mode
	options           []SegmentOption
	locked            SegmentID
	fromNode          NodeID
	targetNode        NodeID
	pending           *SegmentOption
	junctionWarned    bool
	junctionRequested bool
	selectionDeadline time.Time
	holdShortFar      bool
	holdShortNear     bool

	// Route mode
	route            *TaxiRoute
	routeStarted     bool
	lastTargetDist   float64
	divergingSince   time.Time
	approachAnnounce int
	turnAnnounce     int

	recovery    *RecoveryArc
	recoveryLeg int

	correction announcementLimiter
	safety     safetyLimiter
}

// WithAnnouncer sets speech collaborator
func WithAnnouncer(announcer Announcer) func(*Engine) {
	return func(e *Engine) {
		e.announcer = announcer
	}
}

// WithToneGenerator sets audio tone collaborator
func WithToneGenerator(tone ToneGenerator) func(*Engine) {
	return func(e *Engine) {
		e.tone = tone
	}
}

// WithClock replaces time source (useful for replaying telemetry)
func WithClock(now func() time.Time) func(*Engine) {
	return func(e *Engine) {
		e.now = now
	}
}

// WithMagneticVariation sets variation (degrees, east positive) used to convert magnetic headings to true ones
func WithMagneticVariation(degrees float64) func(*Engine) {
	return func(e *Engine) {
		e.magVar = degrees
	}
}

// WithJunctionSelectionTimeout sets how long junction choice is awaited before straightest branch is taken
func WithJunctionSelectionTimeout(timeout time.Duration) func(*Engine) {
	return func(e *Engine) {
		e.params.JunctionSelectionTimeout = timeout
	}
}

// WithGuidanceParams replaces all tunable thresholds
func WithGuidanceParams(params GuidanceParams) func(*Engine) {
	return func(e *Engine) {
		timeout := e.params.JunctionSelectionTimeout
		e.params = params
		if params.JunctionSelectionTimeout == 0 {
			e.params.JunctionSelectionTimeout = timeout
		}
	}
}

// WithWaveform sets waveform of steering tone
func WithWaveform(waveform Waveform) func(*Engine) {
	return func(e *Engine) {
		e.waveform = waveform
	}
}

// NewEngine returns idle engine for given graph
func NewEngine(graph *TaxiwayGraph, options ...func(*Engine)) *Engine {
	e := &Engine{
		graph:      graph,
		announcer:  nopAnnouncer{},
		tone:       nopTone{},
		now:        time.Now,
		params:     DefaultGuidanceParams(),
		waveform:   WAVEFORM_SINE,
		state:      STATE_IDLE,
		locked:     NoSegment,
		fromNode:   NoNode,
		targetNode: NoNode,
	}
	for _, option := range options {
		option(e)
	}
	e.correction.interval = e.params.AnnouncementInterval
	e.safety.interval = e.params.SafetyInterval
	return e
}

// State returns current state
func (e *Engine) State() GuidanceState {
	e.Lock()
	defer e.Unlock()
	return e.state
}

// Active checks if guidance is running (any state except idle)
func (e *Engine) Active() bool {
	e.Lock()
	defer e.Unlock()
	return e.state != STATE_IDLE
}

// Params returns thresholds engine works with
func (e *Engine) Params() GuidanceParams {
	return e.params
}

// Route returns route being followed or nil
func (e *Engine) Route() *TaxiRoute {
	e.Lock()
	defer e.Unlock()
	return e.route
}

// LockedSegment returns segment guidance is locked to and node aircraft is heading toward
func (e *Engine) LockedSegment() (SegmentID, NodeID) {
	e.Lock()
	defer e.Unlock()
	return e.locked, e.targetNode
}

// PendingOptions returns options awaiting selection
func (e *Engine) PendingOptions() []SegmentOption {
	e.Lock()
	defer e.Unlock()
	opts := make([]SegmentOption, len(e.options))
	copy(opts, e.options)
	return opts
}

// DrainEvents returns and clears events not yet delivered through GuidanceOutput
func (e *Engine) DrainEvents() []Event {
	e.Lock()
	defer e.Unlock()
	events := e.queued
	e.queued = nil
	return events
}

func (e *Engine) trueHeading(magnetic float64) float64 {
	return NormalizeHeading(magnetic + e.magVar)
}

// emit adds event to current output or to the queue when called outside of position update
func (e *Engine) emit(evt Event) {
	if e.out != nil {
		e.out.Events = append(e.out.Events, evt)
		return
	}
	e.queued = append(e.queued, evt)
}

func (e *Engine) announce(text string) {
	if text == "" {
		return
	}
	e.announcer.AnnounceImmediate(text)
	if e.out != nil {
		e.out.Announcements = append(e.out.Announcements, text)
	}
}

func (e *Engine) setState(state GuidanceState) {
	if e.state == state {
		return
	}
	log.WithFields(logrus.Fields{"from": e.state.String(), "to": state.String()}).Debug("guidance state changed")
	wasActive := e.state != STATE_IDLE
	e.state = state
	e.emit(Event{Kind: EVENT_STATE_CHANGED, State: state})
	if isActive := state != STATE_IDLE; isActive != wasActive {
		e.emit(Event{Kind: EVENT_GUIDANCE_ACTIVE_CHANGED, Active: isActive})
	}
}

func (e *Engine) startTone() {
	if e.toneOn {
		return
	}
	e.tone.Start(e.waveform, e.params.ToneVolume)
	e.toneOn = true
}

func (e *Engine) stopTone() {
	if !e.toneOn {
		return
	}
	e.tone.Stop()
	e.toneOn = false
}

// resetTracking forgets per-segment and per-route progress
func (e *Engine) resetTracking() {
	e.options = nil
	e.pending = nil
	e.junctionWarned = false
	e.junctionRequested = false
	e.selectionDeadline = time.Time{}
	e.holdShortFar = false
	e.holdShortNear = false
	e.route = nil
	e.routeStarted = false
	e.lastTargetDist = 0
	e.divergingSince = time.Time{}
	e.approachAnnounce = -1
	e.turnAnnounce = -1
	e.recovery = nil
	e.recoveryLeg = -1
	e.correction.reset()
}

// StartGuidance begins free guidance: nearby segments are ranked and EVENT_SEGMENT_SELECTION_REQUIRED is queued.
// Heading is magnetic.
func (e *Engine) StartGuidance(lat, lon, heading float64) ([]SegmentOption, error) {
	e.Lock()
	defer e.Unlock()
	if e.graph == nil {
		return nil, ErrNoGraph
	}
	pos := orb.Point{lon, lat}
	trueHdg := e.trueHeading(heading)
	options := segmentOptions(e.graph, pos, trueHdg, e.params)
	if len(options) == 0 {
		return nil, ErrNoNearbyTaxiway
	}
	e.stopTone()
	e.resetTracking()
	e.locked, e.fromNode, e.targetNode = NoSegment, NoNode, NoNode
	e.position, e.heading, e.hasPosition = pos, trueHdg, true
	e.options = options
	e.setState(STATE_AWAITING_SEGMENT_SELECTION)
	e.emit(Event{Kind: EVENT_SEGMENT_SELECTION_REQUIRED, Options: options, Position: pos})
	return options, nil
}

// LockToSegment commits one of offered segment options
func (e *Engine) LockToSegment(opt SegmentOption) error {
	e.Lock()
	defer e.Unlock()
	if e.state != STATE_AWAITING_SEGMENT_SELECTION {
		return ErrNotActive
	}
	found := false
	for _, offered := range e.options {
		if offered.sameAs(opt) {
			opt = offered
			found = true
			break
		}
	}
	if !found {
		return ErrInvalidOption
	}
	e.lockTo(opt)
	e.announce("Locked on " + TaxiwayText(opt.TaxiwayName) + ", heading " + HeadingText(opt.HeadingDegrees))
	e.startTone()
	return nil
}

// lockTo switches guidance onto given segment and direction
func (e *Engine) lockTo(opt SegmentOption) {
	e.options = nil
	e.pending = nil
	e.locked = opt.SegmentID
	e.fromNode = opt.FromNode
	e.targetNode = opt.TargetNode
	e.junctionWarned = false
	e.junctionRequested = false
	e.selectionDeadline = time.Time{}
	e.holdShortFar = false
	e.holdShortNear = false
	e.recovery = nil
	e.setState(STATE_SEGMENT_LOCKED)
}

// SelectJunctionOption commits branch to take at approaching junction
func (e *Engine) SelectJunctionOption(opt SegmentOption) error {
	e.Lock()
	defer e.Unlock()
	if e.state != STATE_AWAITING_JUNCTION_SELECTION {
		return ErrNotActive
	}
	for _, offered := range e.options {
		if offered.sameAs(opt) {
			e.commitJunction(offered)
			return nil
		}
	}
	return ErrInvalidOption
}

func (e *Engine) commitJunction(opt SegmentOption) {
	selected := opt
	e.pending = &selected
	e.options = nil
	e.selectionDeadline = time.Time{}
	e.setState(STATE_SEGMENT_LOCKED)
	e.announce(JunctionOptionText(opt))
}

// CancelSelection declines pending choice. At junction the straightest branch is taken, during initial selection guidance stops
func (e *Engine) CancelSelection() {
	e.Lock()
	defer e.Unlock()
	switch e.state {
	case STATE_AWAITING_JUNCTION_SELECTION:
		e.autoSelectJunction()
	case STATE_AWAITING_SEGMENT_SELECTION:
		e.stop()
	}
}

func (e *Engine) autoSelectJunction() {
	if idx := straightestOption(e.options); idx >= 0 {
		e.commitJunction(e.options[idx])
		return
	}
	e.options = nil
	e.setState(STATE_SEGMENT_LOCKED)
}

// StartRouteGuidance begins following route. Alignment is evaluated on the next position update
func (e *Engine) StartRouteGuidance(route *TaxiRoute) error {
	e.Lock()
	defer e.Unlock()
	if route == nil || len(route.Waypoints) == 0 {
		return ErrEmptyRoute
	}
	e.stopTone()
	e.resetTracking()
	e.route = route
	if route.IsComplete() {
		route.CurrentWaypointIndex = 0
	}
	wp := route.CurrentWaypoint()
	e.locked, e.fromNode, e.targetNode = wp.SegmentID, wp.FromNode, wp.TargetNode
	e.setState(STATE_FOLLOWING_ROUTE)
	e.announce(RouteSummary(route))
	e.startTone()
	return nil
}

// StopGuidance returns engine to idle
func (e *Engine) StopGuidance() {
	e.Lock()
	defer e.Unlock()
	e.stop()
}

func (e *Engine) stop() {
	e.stopTone()
	e.resetTracking()
	e.locked, e.fromNode, e.targetNode = NoSegment, NoNode, NoNode
	e.setState(STATE_IDLE)
}

// ProcessPositionUpdate advances state machine. Heading is magnetic, speed is ground speed in knots
func (e *Engine) ProcessPositionUpdate(lat, lon, heading, speed float64) GuidanceOutput {
	e.Lock()
	defer e.Unlock()

	out := &GuidanceOutput{
		LockedSegment: NoSegment,
		TargetNode:    NoNode,
		WaypointIndex: -1,
		Events:        e.queued,
	}
	e.queued = nil
	e.out = out
	defer func() { e.out = nil }()

	e.position = orb.Point{lon, lat}
	e.heading = e.trueHeading(heading)
	e.speed = speed
	e.hasPosition = true

	switch {
	case e.state.IsSegmentMode():
		e.tickSegment()
	case e.state.IsRouteMode():
		e.tickRoute()
	}

	out.State = e.state
	out.Active = e.state != STATE_IDLE
	out.LockedSegment = e.locked
	out.TargetNode = e.targetNode
	if e.route != nil {
		out.WaypointIndex = e.route.CurrentWaypointIndex
	}
	if e.toneOn {
		e.tone.SetPan(out.Pan)
	}
	return *out
}

// Drive feeds samples to ProcessPositionUpdate until context is done or channel is closed.
// handle (if not nil) receives every output.
func (e *Engine) Drive(ctx context.Context, samples <-chan PositionSample, handle func(GuidanceOutput)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sample, ok := <-samples:
			if !ok {
				return nil
			}
			out := e.ProcessPositionUpdate(sample.Lat, sample.Lon, sample.Heading, sample.SpeedKnots)
			if handle != nil {
				handle(out)
			}
		}
	}
}

// steerOnLegs runs carrot pursuit (with recovery when needed) along legs and fills output.
// legs[0] is leg aircraft is on.
func (e *Engine) steerOnLegs(legs []pathLeg, endIsDestination bool) {
	if len(legs) == 0 {
		return
	}
	leg := legs[0]
	xt := CrossTrackFeet(e.position, leg.start, leg.end)
	along := AlongTrackFeet(e.position, leg.start, leg.end)
	lookAhead := e.params.lookAheadFeet(e.speed)
	arcs := turnArcs(legs, e.params)
	e.out.CrossTrackFeet = xt

	e.updateRecovery(leg, xt)
	var carrot CarrotPosition
	if e.recovery != nil {
		carrot = projectRecoveryCarrot(e.recovery, legs, arcs, e.position, lookAhead, endIsDestination)
		e.out.Recovering = true
	} else {
		carrot = projectCarrot(legs, arcs, along, lookAhead, endIsDestination)
	}
	carrot = carrotFromAircraft(carrot, e.position)
	e.out.Carrot = &carrot
	e.applyCorrection(steeringCorrection(e.heading, carrot.BearingDegrees, e.params.MaxCorrection))
	e.checkSafety(xt, leg.width)
}

// updateRecovery enters, keeps or leaves recovery arc for given leg
func (e *Engine) updateRecovery(leg pathLeg, xt float64) {
	abs := xt
	if abs < 0 {
		abs = -abs
	}
	if e.recovery != nil {
		switch {
		case e.recoveryLeg != leg.index, abs < e.params.RecoveryExitFeet:
			e.recovery = nil
		case e.recovery.Completed(e.position):
			e.recovery = nil
		}
	}
	if e.recovery == nil && abs > e.params.RecoveryEnterFeet {
		e.recovery = NewRecoveryArc(e.position, e.heading, leg.start, leg.end, e.params)
		e.recoveryLeg = leg.index
		if e.recovery != nil {
			log.WithField("cross_track", xt).WithField("radius", e.recovery.RadiusFeet).Debug("recovery arc entered")
		}
	}
}

// applyCorrection publishes correction through output and rate-limited speech
func (e *Engine) applyCorrection(correction float64) {
	e.out.CorrectionDegrees = correction
	e.out.Pan = panForCorrection(correction, e.params.MaxCorrection)
	if text := CorrectionText(correction, e.params.OnTrackAngle); e.correction.allow(text, e.now()) {
		e.announce(text)
	}
}

func (e *Engine) checkSafety(xt, width float64) {
	warning := safetyWarning(xt, width, e.params)
	if warning != "" && e.safety.allow(e.now()) {
		e.announce(warning)
	}
}
