// README: Field requirement engine: derives mandatory fields per transfer type and validates legs.
package trip

import (
	"regexp"
	"strings"

	"towncar/internal/modules/transfer"
)

// FieldID names one mandatory input field. Return-leg fields carry a "return_" prefix.
type FieldID string

const (
	FieldTransferType FieldID = "transfer_type"

	FieldPickupLocation     FieldID = "pickup_location"
	FieldPickupAirport      FieldID = "pickup_airport"
	FieldPickupAirline      FieldID = "pickup_airline"
	FieldPickupFlightNumber FieldID = "pickup_flight_number"
	FieldPickupOriginCity   FieldID = "pickup_origin_city"
	FieldPickupCruisePort   FieldID = "pickup_cruise_port"
	FieldPickupCruiseShip   FieldID = "pickup_cruise_ship"
	FieldPickupCruiseTime   FieldID = "pickup_cruise_arrival"

	FieldDropoffLocation     FieldID = "dropoff_location"
	FieldDropoffAirport      FieldID = "dropoff_airport"
	FieldDropoffAirline      FieldID = "dropoff_airline"
	FieldDropoffFlightNumber FieldID = "dropoff_flight_number"
	FieldDropoffCruisePort   FieldID = "dropoff_cruise_port"
	FieldDropoffCruiseShip   FieldID = "dropoff_cruise_ship"
	FieldDropoffCruiseTime   FieldID = "dropoff_cruise_arrival"

	FieldCharterHours FieldID = "charter_hours"

	FieldPassengerName   FieldID = "passenger_name"
	FieldPassengerEmail  FieldID = "passenger_email"
	FieldPassengerMobile FieldID = "passenger_mobile"
)

// Failures maps a failed field to a human-readable message. An empty set means
// the leg is submittable.
type Failures map[FieldID]string

func (f Failures) Has(id FieldID) bool { _, ok := f[id]; return ok }
func (f Failures) Empty() bool         { return len(f) == 0 }

// Keys returns the failure keys, unordered.
func (f Failures) Keys() []FieldID {
	out := make([]FieldID, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	return out
}

var (
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	mobilePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{6,}$`)
)

// RequiredFields derives the mandatory field set for one leg. The rules depend
// only on (service type, transfer type, leg role); leg values never influence
// which fields are required.
func RequiredFields(service ServiceType, transferType string, role LegRole) (map[FieldID]struct{}, error) {
	pickupKind, dropoffKind, err := transfer.Resolve(transferType)
	if err != nil {
		return nil, err
	}

	req := make(map[FieldID]struct{})
	add := func(id FieldID) { req[prefixed(id, role)] = struct{}{} }

	switch pickupKind {
	case transfer.KindCity:
		add(FieldPickupLocation)
	case transfer.KindAirport:
		add(FieldPickupAirport)
		add(FieldPickupAirline)
		add(FieldPickupFlightNumber)
		add(FieldPickupOriginCity)
	case transfer.KindCruisePort:
		add(FieldPickupCruisePort)
		add(FieldPickupCruiseShip)
		add(FieldPickupCruiseTime)
		// Cruise pickups still need a confirmed street address for the chauffeur.
		add(FieldPickupLocation)
	}

	switch dropoffKind {
	case transfer.KindCity:
		add(FieldDropoffLocation)
	case transfer.KindAirport:
		add(FieldDropoffAirport)
		add(FieldDropoffAirline)
		add(FieldDropoffFlightNumber)
	case transfer.KindCruisePort:
		add(FieldDropoffCruisePort)
		add(FieldDropoffCruiseShip)
		add(FieldDropoffCruiseTime)
	}

	if role == RoleOutbound {
		if service == ServiceCharterTour {
			req[FieldCharterHours] = struct{}{}
		}
		req[FieldPassengerName] = struct{}{}
		req[FieldPassengerEmail] = struct{}{}
		req[FieldPassengerMobile] = struct{}{}
	}
	return req, nil
}

// Validate re-derives the full failure set from current leg state. Total and
// synchronous: no incremental patching, so a fixed field can never leave a
// stale failure behind.
func Validate(leg Leg) Failures {
	out := Failures{}

	req, err := RequiredFields(leg.Service, leg.TransferType, leg.Role)
	if err != nil {
		out[prefixed(FieldTransferType, leg.Role)] = "select a transfer type"
		req = map[FieldID]struct{}{}
	}

	check := func(id FieldID, ok bool, msg string) {
		pid := prefixed(id, leg.Role)
		if _, required := req[pid]; required && !ok {
			out[pid] = msg
		}
	}

	check(FieldPickupLocation, pickupAddressConfirmed(leg.Pickup), "confirm the pickup address")
	if ap := leg.Pickup.Airport; ap != nil {
		check(FieldPickupAirport, ap.Airport != "", "select a pickup airport")
		check(FieldPickupAirline, ap.Airline != "", "select an airline")
		check(FieldPickupFlightNumber, ap.FlightNumber != "", "enter the flight number")
		check(FieldPickupOriginCity, strings.TrimSpace(ap.OriginCity) != "", "enter the origin city")
	} else {
		check(FieldPickupAirport, false, "select a pickup airport")
		check(FieldPickupAirline, false, "select an airline")
		check(FieldPickupFlightNumber, false, "enter the flight number")
		check(FieldPickupOriginCity, false, "enter the origin city")
	}
	if cr := leg.Pickup.Cruise; cr != nil {
		check(FieldPickupCruisePort, cr.Port != "", "select a cruise port")
		check(FieldPickupCruiseShip, cr.Ship != "", "enter the ship name")
		check(FieldPickupCruiseTime, !cr.ArrivalTime.IsZero(), "enter the ship arrival time")
	} else {
		check(FieldPickupCruisePort, false, "select a cruise port")
		check(FieldPickupCruiseShip, false, "enter the ship name")
		check(FieldPickupCruiseTime, false, "enter the ship arrival time")
	}

	check(FieldDropoffLocation, leg.Dropoff.Address != nil && leg.Dropoff.Address.Coordinate != nil, "confirm the dropoff address")
	if ap := leg.Dropoff.Airport; ap != nil {
		check(FieldDropoffAirport, ap.Airport != "", "select a dropoff airport")
		check(FieldDropoffAirline, ap.Airline != "", "select an airline")
		check(FieldDropoffFlightNumber, ap.FlightNumber != "", "enter the flight number")
	} else {
		check(FieldDropoffAirport, false, "select a dropoff airport")
		check(FieldDropoffAirline, false, "select an airline")
		check(FieldDropoffFlightNumber, false, "enter the flight number")
	}
	if cr := leg.Dropoff.Cruise; cr != nil {
		check(FieldDropoffCruisePort, cr.Port != "", "select a cruise port")
		check(FieldDropoffCruiseShip, cr.Ship != "", "enter the ship name")
		check(FieldDropoffCruiseTime, !cr.ArrivalTime.IsZero(), "enter the ship arrival time")
	} else {
		check(FieldDropoffCruisePort, false, "select a cruise port")
		check(FieldDropoffCruiseShip, false, "enter the ship name")
		check(FieldDropoffCruiseTime, false, "enter the ship arrival time")
	}

	if leg.Role == RoleOutbound {
		if _, ok := req[FieldCharterHours]; ok && leg.CharterHours < 1 {
			out[FieldCharterHours] = "enter the number of charter hours"
		}
		if strings.TrimSpace(leg.Contact.Name) == "" {
			out[FieldPassengerName] = "enter the passenger name"
		}
		if !emailPattern.MatchString(leg.Contact.Email) {
			out[FieldPassengerEmail] = "enter a valid email address"
		}
		if !mobilePattern.MatchString(leg.Contact.Mobile) {
			out[FieldPassengerMobile] = "enter a valid mobile number"
		}
	}
	return out
}

// pickupAddressConfirmed covers both the city variant and the street address
// carried by a cruise pickup.
func pickupAddressConfirmed(e Endpoint) bool {
	switch e.Kind {
	case transfer.KindCruisePort:
		return e.Cruise != nil && e.Cruise.Address != nil && e.Cruise.Address.Coordinate != nil
	default:
		return e.Address != nil && e.Address.Coordinate != nil
	}
}

func prefixed(id FieldID, role LegRole) FieldID {
	if role == RoleReturn {
		return "return_" + id
	}
	return id
}
