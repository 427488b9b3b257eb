// README: Booking service: session lifecycle (fresh/edit/repeat) and submission.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"towncar/internal/modules/distance"
	"towncar/internal/modules/transfer"
	"towncar/internal/modules/trip"
	"towncar/internal/types"
)

var ErrSessionNotFound = errors.New("booking session not found")

// ReservationStore persists reservations and feeds the edit/repeat flows.
type ReservationStore interface {
	Create(ctx context.Context, req Request) (Reservation, error)
	Update(ctx context.Context, id types.ID, req Request) (Reservation, error)
	Get(ctx context.Context, id types.ID) (Reservation, error)
}

type Config struct {
	RecalcDebounce time.Duration
}

// Service owns the active booking sessions, one per flow.
type Service struct {
	store      ReservationStore
	rates      RateProvider
	directions distance.Directions
	cfg        Config

	mu       sync.Mutex
	sessions map[types.ID]*Session
}

func NewService(store ReservationStore, rates RateProvider, directions distance.Directions, cfg Config) *Service {
	return &Service{
		store:      store,
		rates:      rates,
		directions: directions,
		cfg:        cfg,
		sessions:   make(map[types.ID]*Session),
	}
}

func (s *Service) newSession(ctx context.Context) *Session {
	sess := newSession(ctx, sessionDeps{
		rates:      s.rates,
		directions: s.directions,
		debounce:   s.cfg.RecalcDebounce,
	})
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// StartFresh opens a blank booking flow. The caller completes setup once the
// host finishes its initial data load.
func (s *Service) StartFresh(ctx context.Context) *Session {
	return s.newSession(ctx)
}

// StartEdit opens a flow seeded from a stored reservation; submitting it
// updates that reservation in place.
func (s *Service) StartEdit(ctx context.Context, id types.ID) (*Session, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess := s.newSession(ctx)
	seedSession(sess, res.Payload, false)
	sess.mu.Lock()
	sess.editID = res.ID
	sess.mu.Unlock()
	return sess, nil
}

// StartRepeat opens a flow copying a stored reservation into a new booking.
// Date/time and flight fields are cleared: they belong to the old trip.
func (s *Service) StartRepeat(ctx context.Context, id types.ID) (*Session, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess := s.newSession(ctx)
	seedSession(sess, res.Payload, true)
	return sess, nil
}

// Get returns an active session.
func (s *Service) Get(id types.ID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, ErrSessionNotFound
}

// Abandon drops a session without submitting. Quotes and distance entries are
// pure caches, so nothing else needs cleaning up.
func (s *Service) Abandon(id types.ID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Submit assembles the validated legs into the canonical payload and persists
// it, updating in the edit flow and creating otherwise. The session is
// released only on success; on failure the leg state stays editable.
func (s *Service) Submit(ctx context.Context, id types.ID) (Reservation, error) {
	sess, err := s.Get(id)
	if err != nil {
		return Reservation{}, err
	}
	outbound, ret := sess.Legs()
	req, err := Assemble(outbound, ret)
	if err != nil {
		return Reservation{}, err
	}
	req.VehicleClass = sess.VehicleClass()

	var res Reservation
	if editID := sess.EditTarget(); editID != "" {
		res, err = s.store.Update(ctx, editID, req)
	} else {
		res, err = s.store.Create(ctx, req)
	}
	if err != nil {
		return Reservation{}, fmt.Errorf("submit reservation: %w", err)
	}
	s.Abandon(id)
	return res, nil
}

// seedSession replays a stored payload into a fresh session's legs. When
// repeat is true the pickup times and flight numbers are cleared.
func seedSession(sess *Session, req Request, repeat bool) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	service := trip.ServiceType(req.ServiceType)
	sess.vehicleClass = req.VehicleClass
	sess.outbound = legFromPayload(req.Outbound, trip.RoleOutbound, service, repeat)
	sess.outbound.Vehicles = max(req.Vehicles, 1)
	sess.outbound.Passengers = max(req.Passengers, 1)
	sess.outbound.Luggage = req.Luggage
	sess.outbound.CharterHours = req.CharterHours
	sess.outbound.Contact = trip.Contact{
		Name:   req.PassengerName,
		Email:  req.PassengerEmail,
		Mobile: req.PassengerMobile,
	}
	if service == trip.ServiceRoundTrip && req.Return != nil {
		ret := legFromPayload(*req.Return, trip.RoleReturn, service, repeat)
		ret.Vehicles = sess.outbound.Vehicles
		sess.ret = &ret
	}
}

func legFromPayload(p LegPayload, role trip.LegRole, service trip.ServiceType, repeat bool) trip.Leg {
	leg := trip.Leg{
		Role:         role,
		Service:      service,
		TransferType: p.TransferType,
		Instructions: p.Instructions,
		MeetAndGreet: p.MeetAndGreet,
	}
	if !repeat {
		leg.PickupAt = p.PickupAt
	}

	pickupKind, dropoffKind, err := transfer.Resolve(p.TransferType)
	if err != nil {
		pickupKind, dropoffKind = transfer.KindCity, transfer.KindCity
		leg.TransferType = "City to City"
	}

	leg.Pickup = endpointFromPayload(pickupKind, SidePickup, p, repeat)
	leg.Dropoff = endpointFromPayload(dropoffKind, SideDropoff, p, repeat)

	for _, sp := range p.Stops {
		stop := trip.ExtraStop{
			Address:      sp.Address,
			Confirmed:    sp.Confirmed,
			Instructions: sp.Instructions,
		}
		if sp.Confirmed {
			stop.Coordinate = &types.Point{Lat: sp.Lat, Lng: sp.Lng}
		}
		leg.Stops = append(leg.Stops, stop)
	}
	return leg
}

func endpointFromPayload(kind transfer.EndpointKind, side EndpointSide, p LegPayload, repeat bool) trip.Endpoint {
	address := func(text string, lat, lng *float64) *trip.AddressDetail {
		d := &trip.AddressDetail{Text: text}
		if lat != nil && lng != nil {
			d.Coordinate = &types.Point{Lat: *lat, Lng: *lng}
		}
		return d
	}

	switch kind {
	case transfer.KindAirport:
		d := trip.AirportDetail{}
		if side == SidePickup {
			d.Airport, d.Airline, d.OriginCity = p.PickupAirport, p.PickupAirline, p.PickupOriginCity
			if !repeat {
				d.FlightNumber = p.PickupFlightNumber
			}
		} else {
			d.Airport, d.Airline = p.DropoffAirport, p.DropoffAirline
			if !repeat {
				d.FlightNumber = p.DropoffFlightNumber
			}
		}
		return trip.AirportEndpoint(d)
	case transfer.KindCruisePort:
		d := trip.CruiseDetail{}
		if side == SidePickup {
			d.Port, d.Ship = p.PickupCruisePort, p.PickupCruiseShip
			if p.PickupCruiseTime != nil && !repeat {
				d.ArrivalTime = *p.PickupCruiseTime
			}
			d.Address = address(p.PickupAddress, p.PickupLat, p.PickupLng)
		} else {
			d.Port, d.Ship = p.DropoffCruisePort, p.DropoffCruiseShip
			if p.DropoffCruiseTime != nil && !repeat {
				d.ArrivalTime = *p.DropoffCruiseTime
			}
		}
		return trip.CruiseEndpoint(d)
	default:
		if side == SidePickup {
			return trip.Endpoint{Kind: kind, Address: address(p.PickupAddress, p.PickupLat, p.PickupLng)}
		}
		return trip.Endpoint{Kind: kind, Address: address(p.DropoffAddress, p.DropoffLat, p.DropoffLng)}
	}
}
