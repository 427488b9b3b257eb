// README: Booking session: leg state ownership and debounced fare recalculation.
package booking

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"towncar/internal/modules/distance"
	"towncar/internal/modules/fare"
	"towncar/internal/modules/transfer"
	"towncar/internal/modules/trip"
	"towncar/internal/types"
)

// State is the recalculation state of one booking session.
type State string

const (
	StateIdle          State = "idle"
	StatePendingFetch  State = "pending_fetch"
	StateFetchInFlight State = "fetch_in_flight"
	StateFetchFailed   State = "fetch_failed"
)

// EndpointSide selects the pickup or dropoff end of a leg in setters.
type EndpointSide string

const (
	SidePickup  EndpointSide = "pickup"
	SideDropoff EndpointSide = "dropoff"
)

// RateProvider is the remote pricing collaborator.
type RateProvider interface {
	GetRates(ctx context.Context, req fare.QuoteRequest) (*fare.Quote, error)
}

// Session owns the leg state for one active booking flow. All mutation goes
// through its setters; each setter re-derives the full validation set and,
// when the mutation affects pricing, schedules a debounced rate refetch.
//
// Fetches are stamped with a strictly increasing generation number at issue
// time and checked at acceptance time: a result that is not from the latest
// issued generation is discarded, so a slow early response can never
// overwrite a newer one.
type Session struct {
	ID types.ID

	mu       sync.Mutex
	outbound trip.Leg
	ret      *trip.Leg

	vehicleClass    string
	vehicleRates    fare.VehicleRates
	hasVehicleRates bool

	ready     bool
	state     State
	gen       uint64
	quote     *fare.Quote
	breakdown fare.Breakdown
	lastErr   error

	rates     RateProvider
	distances *distance.Cache
	debounce  time.Duration
	timer     *time.Timer

	// base context for fetches issued by this session's flow
	ctx context.Context

	// editID is set in the edit flow; submit updates instead of creating.
	editID types.ID

	onFare func(fare.Breakdown)
}

type sessionDeps struct {
	rates      RateProvider
	directions distance.Directions
	debounce   time.Duration
	onFare     func(fare.Breakdown)
}

func newSession(ctx context.Context, deps sessionDeps) *Session {
	return &Session{
		ID:  types.ID(uuid.NewString()),
		ctx: ctx,
		outbound: trip.Leg{
			Role:         trip.RoleOutbound,
			Service:      trip.ServiceOneWay,
			TransferType: "City to City",
			Pickup:       trip.Endpoint{Kind: transfer.KindCity, Address: &trip.AddressDetail{}},
			Dropoff:      trip.Endpoint{Kind: transfer.KindCity, Address: &trip.AddressDetail{}},
			Vehicles:     1,
			Passengers:   1,
		},
		state:     StateIdle,
		rates:     deps.rates,
		distances: distance.NewCache(deps.directions),
		debounce:  deps.debounce,
		onFare:    deps.onFare,
	}
}

// CompleteSetup marks initial data load (profile, edit or repeat fetch) as
// done. Triggers before this point are suppressed; the first recalculation is
// scheduled here.
func (s *Session) CompleteSetup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return
	}
	s.ready = true
	s.scheduleLocked()
}

// ---- accessors -------------------------------------------------------------

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ValidationState re-derives the combined failure set for both legs.
func (s *Session) ValidationState() trip.Failures {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validationLocked()
}

func (s *Session) validationLocked() trip.Failures {
	out := trip.Validate(s.outbound)
	if s.outbound.Service == trip.ServiceRoundTrip && s.ret != nil {
		for k, v := range trip.Validate(*s.ret) {
			out[k] = v
		}
	}
	return out
}

func (s *Session) FareBreakdown() fare.Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breakdown
}

func (s *Session) Quote() *fare.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote
}

// VehicleClass returns the selected vehicle class name.
func (s *Session) VehicleClass() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vehicleClass
}

// EditTarget returns the reservation being edited, or empty for a new booking.
func (s *Session) EditTarget() types.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editID
}

func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Legs returns a snapshot of the outbound and return legs.
func (s *Session) Legs() (trip.Leg, *trip.Leg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.outbound
	var ret *trip.Leg
	if s.ret != nil {
		r := *s.ret
		ret = &r
	}
	return out, ret
}

// Route returns the last resolved distance for a leg role, if any.
func (s *Session) Route(role trip.LegRole) (distance.Route, bool) {
	return s.distances.Cached(role)
}

// ---- setters ---------------------------------------------------------------

// mutate applies fn under the lock and schedules a refetch when the mutation
// is price-affecting and setup has completed.
func (s *Session) mutate(priceAffecting bool, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	if priceAffecting && s.ready {
		s.scheduleLocked()
	}
}

func (s *Session) legFor(role trip.LegRole) *trip.Leg {
	if role == trip.RoleReturn {
		return s.ret
	}
	return &s.outbound
}

// SetServiceType switches the service type, creating or discarding the return
// leg as needed. The return leg's transfer type defaults to the reverse of
// the outbound leg's.
func (s *Session) SetServiceType(t trip.ServiceType) {
	s.mutate(true, func() {
		s.outbound.Service = t
		switch t {
		case trip.ServiceRoundTrip:
			if s.ret == nil {
				label, err := transfer.Reverse(s.outbound.TransferType)
				if err != nil {
					label = s.outbound.TransferType
				}
				ret := trip.Leg{
					Role:         trip.RoleReturn,
					Service:      t,
					TransferType: label,
				}
				if pickupKind, dropoffKind, err := transfer.Resolve(label); err == nil {
					ret.Pickup = retagEndpoint(ret.Pickup, pickupKind)
					ret.Dropoff = retagEndpoint(ret.Dropoff, dropoffKind)
				}
				s.ret = &ret
			} else {
				s.ret.Service = t
			}
		default:
			s.ret = nil
		}
	})
}

// SetTransferType changes a leg's transfer type. Unknown labels are a
// contract violation: log and keep the previous valid value, never fail the
// flow.
func (s *Session) SetTransferType(role trip.LegRole, label string) {
	s.mutate(true, func() {
		leg := s.legFor(role)
		if leg == nil {
			return
		}
		pickupKind, dropoffKind, err := transfer.Resolve(label)
		if err != nil {
			log.Printf("booking: ignoring unknown transfer type %q", label)
			return
		}
		leg.TransferType = label
		leg.Pickup = retagEndpoint(leg.Pickup, pickupKind)
		leg.Dropoff = retagEndpoint(leg.Dropoff, dropoffKind)
	})
}

// retagEndpoint switches an endpoint's kind, keeping the existing detail when
// the kind is unchanged and starting an empty variant otherwise.
func retagEndpoint(e trip.Endpoint, kind transfer.EndpointKind) trip.Endpoint {
	if e.Kind == kind {
		return e
	}
	out := trip.Endpoint{Kind: kind}
	switch kind {
	case transfer.KindCity:
		out.Address = &trip.AddressDetail{}
	case transfer.KindAirport:
		out.Airport = &trip.AirportDetail{}
	case transfer.KindCruisePort:
		out.Cruise = &trip.CruiseDetail{}
	}
	return out
}

// SetPickupAt sets the leg's pickup date/time.
func (s *Session) SetPickupAt(role trip.LegRole, t time.Time) {
	s.mutate(true, func() {
		if leg := s.legFor(role); leg != nil {
			leg.PickupAt = t
		}
	})
}

// SetAddress sets the street address for a city endpoint, or the street
// address carried by a cruise pickup.
func (s *Session) SetAddress(role trip.LegRole, side EndpointSide, text string, coord *types.Point) {
	s.mutate(true, func() {
		leg := s.legFor(role)
		if leg == nil {
			return
		}
		e := endpointFor(leg, side)
		detail := &trip.AddressDetail{Text: text, Coordinate: coord}
		switch e.Kind {
		case transfer.KindCruisePort:
			if side == SidePickup {
				if e.Cruise == nil {
					e.Cruise = &trip.CruiseDetail{}
				}
				e.Cruise.Address = detail
			}
		default:
			e.Address = detail
		}
	})
}

// SetAirport records the airport selection for an airport endpoint.
func (s *Session) SetAirport(role trip.LegRole, side EndpointSide, airport string) {
	s.mutate(true, func() {
		if d := s.airportDetail(role, side); d != nil {
			d.Airport = airport
		}
	})
}

// SetAirline records the airline selection for an airport endpoint.
func (s *Session) SetAirline(role trip.LegRole, side EndpointSide, airline string) {
	s.mutate(true, func() {
		if d := s.airportDetail(role, side); d != nil {
			d.Airline = airline
		}
	})
}

// SetFlightNumber sets the flight number; not price-affecting.
func (s *Session) SetFlightNumber(role trip.LegRole, side EndpointSide, flight string) {
	s.mutate(false, func() {
		if d := s.airportDetail(role, side); d != nil {
			d.FlightNumber = flight
		}
	})
}

// SetOriginCity sets the inbound flight's origin city on the pickup side.
func (s *Session) SetOriginCity(role trip.LegRole, city string) {
	s.mutate(false, func() {
		if d := s.airportDetail(role, SidePickup); d != nil {
			d.OriginCity = city
		}
	})
}

// SetCruise sets the cruise fields for a cruise-port endpoint; not
// price-affecting.
func (s *Session) SetCruise(role trip.LegRole, side EndpointSide, port, ship string, arrival time.Time) {
	s.mutate(false, func() {
		leg := s.legFor(role)
		if leg == nil {
			return
		}
		e := endpointFor(leg, side)
		if e.Kind != transfer.KindCruisePort {
			return
		}
		if e.Cruise == nil {
			e.Cruise = &trip.CruiseDetail{}
		}
		e.Cruise.Port = port
		e.Cruise.Ship = ship
		e.Cruise.ArrivalTime = arrival
	})
}

// SetCharterHours sets the charter hour count. Non-positive values are a
// contract violation and are ignored.
func (s *Session) SetCharterHours(hours int) {
	if hours < 1 {
		log.Printf("booking: ignoring non-positive charter hours %d", hours)
		return
	}
	s.mutate(true, func() {
		s.outbound.CharterHours = hours
	})
}

// SetVehicleCount rescales the fare locally against the cached quote. It
// never triggers a remote fetch. Counts below one are ignored.
func (s *Session) SetVehicleCount(n int) {
	if n < 1 {
		log.Printf("booking: ignoring invalid vehicle count %d", n)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbound.Vehicles = n
	if s.ret != nil {
		s.ret.Vehicles = n
	}
	s.recomputeLocked()
	if s.onFare != nil {
		s.onFare(s.breakdown)
	}
}

// SetVehicle selects the vehicle class and carries its static advertised
// rates for the degraded no-quote mode.
func (s *Session) SetVehicle(class string, rates fare.VehicleRates) {
	s.mutate(true, func() {
		s.vehicleClass = class
		s.vehicleRates = rates
		s.hasVehicleRates = true
		if s.quote == nil {
			s.recomputeLocked()
		}
	})
}

func (s *Session) SetPassengerCount(n int) {
	if n < 1 {
		return
	}
	s.mutate(false, func() { s.outbound.Passengers = n })
}

func (s *Session) SetLuggageCount(n int) {
	if n < 0 {
		return
	}
	s.mutate(false, func() { s.outbound.Luggage = n })
}

func (s *Session) SetContact(c trip.Contact) {
	s.mutate(false, func() { s.outbound.Contact = c })
}

func (s *Session) SetMeetAndGreet(role trip.LegRole, choice string) {
	s.mutate(false, func() {
		if leg := s.legFor(role); leg != nil {
			leg.MeetAndGreet = choice
		}
	})
}

func (s *Session) SetInstructions(role trip.LegRole, text string) {
	s.mutate(false, func() {
		if leg := s.legFor(role); leg != nil {
			leg.Instructions = text
		}
	})
}

// AddStop appends an extra stop to a leg.
func (s *Session) AddStop(role trip.LegRole, stop trip.ExtraStop) {
	s.mutate(true, func() {
		if leg := s.legFor(role); leg != nil {
			leg.Stops = append(leg.Stops, stop)
		}
	})
}

// RemoveStop deletes the stop at index i.
func (s *Session) RemoveStop(role trip.LegRole, i int) {
	s.mutate(true, func() {
		leg := s.legFor(role)
		if leg == nil || i < 0 || i >= len(leg.Stops) {
			return
		}
		leg.Stops = append(leg.Stops[:i], leg.Stops[i+1:]...)
	})
}

// ConfirmStop marks a stop's location as confirmed with its coordinate, which
// is when it starts contributing to distance calculation.
func (s *Session) ConfirmStop(role trip.LegRole, i int, coord types.Point) {
	s.mutate(true, func() {
		leg := s.legFor(role)
		if leg == nil || i < 0 || i >= len(leg.Stops) {
			return
		}
		leg.Stops[i].Coordinate = &coord
		leg.Stops[i].Confirmed = true
	})
}

func (s *Session) airportDetail(role trip.LegRole, side EndpointSide) *trip.AirportDetail {
	leg := s.legFor(role)
	if leg == nil {
		return nil
	}
	e := endpointFor(leg, side)
	if e.Kind != transfer.KindAirport {
		return nil
	}
	if e.Airport == nil {
		e.Airport = &trip.AirportDetail{}
	}
	return e.Airport
}

func endpointFor(leg *trip.Leg, side EndpointSide) *trip.Endpoint {
	if side == SideDropoff {
		return &leg.Dropoff
	}
	return &leg.Pickup
}

// ---- recalculation ---------------------------------------------------------

// scheduleLocked moves the session to PendingFetch and (re)arms the debounce
// timer; a burst of edits collapses into one fetch.
func (s *Session) scheduleLocked() {
	s.state = StatePendingFetch
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.issueFetch)
}

type fetchSnapshot struct {
	service      trip.ServiceType
	vehicleClass string
	hours        int
	roundTrip    bool

	outPickup, outDropoff *types.Point
	outStops              []types.Point
	retPickup, retDropoff *types.Point
	retStops              []types.Point
}

// issueFetch snapshots current leg state, stamps it with the next generation,
// and resolves geometry plus rates off the lock.
func (s *Session) issueFetch() {
	s.mu.Lock()
	if s.state != StatePendingFetch {
		s.mu.Unlock()
		return
	}
	s.state = StateFetchInFlight
	s.gen++
	n := s.gen
	snap := s.snapshotLocked()
	s.mu.Unlock()

	go s.fetch(n, snap)
}

func (s *Session) snapshotLocked() fetchSnapshot {
	snap := fetchSnapshot{
		service:      s.outbound.Service,
		vehicleClass: s.vehicleClass,
		hours:        s.outbound.CharterHours,
		roundTrip:    s.outbound.Service == trip.ServiceRoundTrip && s.ret != nil,
		outPickup:    copyPoint(s.outbound.Pickup.Coordinate()),
		outDropoff:   copyPoint(s.outbound.Dropoff.Coordinate()),
		outStops:     s.outbound.ConfirmedStopCoordinates(),
	}
	if snap.roundTrip {
		snap.retPickup = copyPoint(s.ret.Pickup.Coordinate())
		snap.retDropoff = copyPoint(s.ret.Dropoff.Coordinate())
		snap.retStops = s.ret.ConfirmedStopCoordinates()
	}
	return snap
}

func (s *Session) fetch(n uint64, snap fetchSnapshot) {
	req := fare.QuoteRequest{
		Service:      snap.service,
		VehicleClass: snap.vehicleClass,
		CharterHours: snap.hours,
		RoundTrip:    snap.roundTrip,
	}

	// Geometry is best effort: airport and cruise endpoints have no client
	// coordinate, and a failed lookup keeps its stale cache entry.
	if r, err := s.distances.RouteFor(s.ctx, trip.RoleOutbound, snap.outPickup, snap.outDropoff, snap.outStops); err == nil {
		req.OutboundMiles = miles(r.Meters)
	}
	if snap.roundTrip {
		if r, err := s.distances.RouteFor(s.ctx, trip.RoleReturn, snap.retPickup, snap.retDropoff, snap.retStops); err == nil {
			req.ReturnMiles = miles(r.Meters)
		}
	}

	q, err := s.rates.GetRates(s.ctx, req)
	s.accept(n, q, err)
}

// accept is the single result-acceptance boundary: anything not from the
// latest issued generation is discarded unchanged.
func (s *Session) accept(n uint64, q *fare.Quote, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n != s.gen {
		return
	}
	if err != nil {
		// Previous quote stays available for display.
		s.lastErr = err
		if s.state == StateFetchInFlight {
			s.state = StateFetchFailed
		}
		return
	}
	s.quote = q
	s.lastErr = nil
	s.recomputeLocked()
	if s.state == StateFetchInFlight {
		s.state = StateIdle
	}
	if s.onFare != nil {
		s.onFare(s.breakdown)
	}
}

func (s *Session) recomputeLocked() {
	switch {
	case s.quote != nil:
		s.breakdown = fare.Compute(s.quote, s.outbound.Service, s.outbound.CharterHours, s.outbound.Vehicles)
	case s.hasVehicleRates:
		s.breakdown = fare.ComputeStatic(s.vehicleRates, s.outbound.Service, s.outbound.CharterHours, s.outbound.Vehicles)
	default:
		s.breakdown = fare.Breakdown{}
	}
}

func copyPoint(p *types.Point) *types.Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func miles(meters int) float64 {
	return float64(meters) / 1609.344
}
