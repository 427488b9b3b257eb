// README: Booking request assembler: merges validated legs into one payload.
package booking

import (
	"errors"
	"fmt"
	"sort"

	"towncar/internal/modules/transfer"
	"towncar/internal/modules/trip"
)

// ErrIncompleteBooking wraps the validation failures that block assembly.
var ErrIncompleteBooking = errors.New("incomplete booking")

// Assemble merges the outbound leg and, for round trips, the return leg into
// the canonical reservation payload. It fails when either leg still has
// validation failures; beyond that it only normalizes already-validated data.
func Assemble(outbound trip.Leg, ret *trip.Leg) (Request, error) {
	if fails := trip.Validate(outbound); !fails.Empty() {
		return Request{}, incompleteErr(fails)
	}
	if outbound.Service == trip.ServiceRoundTrip {
		if ret == nil {
			return Request{}, fmt.Errorf("%w: missing return leg", ErrIncompleteBooking)
		}
		if fails := trip.Validate(*ret); !fails.Empty() {
			return Request{}, incompleteErr(fails)
		}
	}

	req := Request{
		ServiceType:     string(outbound.Service),
		Vehicles:        outbound.Vehicles,
		Passengers:      outbound.Passengers,
		Luggage:         outbound.Luggage,
		PassengerName:   outbound.Contact.Name,
		PassengerEmail:  outbound.Contact.Email,
		PassengerMobile: outbound.Contact.Mobile,
		Outbound:        legPayload(outbound),
	}
	if outbound.Service == trip.ServiceCharterTour {
		req.CharterHours = outbound.CharterHours
	}
	if outbound.Service == trip.ServiceRoundTrip && ret != nil {
		p := legPayload(*ret)
		req.Return = &p
	}
	return req, nil
}

func incompleteErr(fails trip.Failures) error {
	keys := fails.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return fmt.Errorf("%w: %v", ErrIncompleteBooking, keys)
}

func fptr(v float64) *float64 { return &v }

func legPayload(leg trip.Leg) LegPayload {
	p := LegPayload{
		TransferType: canonicalLabel(leg.TransferType),
		PickupAt:     leg.PickupAt,
		Instructions: leg.Instructions,
		MeetAndGreet: leg.MeetAndGreet,
	}

	switch leg.Pickup.Kind {
	case transfer.KindCity:
		if a := leg.Pickup.Address; a != nil {
			p.PickupAddress = a.Text
			if a.Coordinate != nil {
				p.PickupLat, p.PickupLng = fptr(a.Coordinate.Lat), fptr(a.Coordinate.Lng)
			}
		}
	case transfer.KindAirport:
		if ap := leg.Pickup.Airport; ap != nil {
			p.PickupAirport = ap.Airport
			p.PickupAirline = ap.Airline
			p.PickupFlightNumber = ap.FlightNumber
			p.PickupOriginCity = ap.OriginCity
		}
	case transfer.KindCruisePort:
		if c := leg.Pickup.Cruise; c != nil {
			p.PickupCruisePort = c.Port
			p.PickupCruiseShip = c.Ship
			t := c.ArrivalTime
			p.PickupCruiseTime = &t
			if c.Address != nil {
				p.PickupAddress = c.Address.Text
				if c.Address.Coordinate != nil {
					p.PickupLat, p.PickupLng = fptr(c.Address.Coordinate.Lat), fptr(c.Address.Coordinate.Lng)
				}
			}
		}
	}

	switch leg.Dropoff.Kind {
	case transfer.KindCity:
		if a := leg.Dropoff.Address; a != nil {
			p.DropoffAddress = a.Text
			if a.Coordinate != nil {
				p.DropoffLat, p.DropoffLng = fptr(a.Coordinate.Lat), fptr(a.Coordinate.Lng)
			}
		}
	case transfer.KindAirport:
		if ap := leg.Dropoff.Airport; ap != nil {
			p.DropoffAirport = ap.Airport
			p.DropoffAirline = ap.Airline
			p.DropoffFlightNumber = ap.FlightNumber
		}
	case transfer.KindCruisePort:
		if c := leg.Dropoff.Cruise; c != nil {
			p.DropoffCruisePort = c.Port
			p.DropoffCruiseShip = c.Ship
			t := c.ArrivalTime
			p.DropoffCruiseTime = &t
		}
	}

	for _, s := range leg.Stops {
		sp := StopPayload{
			Address:      s.Address,
			Confirmed:    s.Confirmed,
			Instructions: s.Instructions,
		}
		if s.Coordinate != nil {
			sp.Lat, sp.Lng = s.Coordinate.Lat, s.Coordinate.Lng
		}
		p.Stops = append(p.Stops, sp)
	}
	return p
}

// canonicalLabel round-trips the label through the resolver so the payload
// always carries the canonical rendering.
func canonicalLabel(label string) string {
	pickup, dropoff, err := transfer.Resolve(label)
	if err != nil {
		return label
	}
	out, err := transfer.Label(pickup, dropoff)
	if err != nil {
		return label
	}
	return out
}
