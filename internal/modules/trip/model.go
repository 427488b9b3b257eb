// README: Trip leg aggregate: endpoints, stops, and passenger details.
package trip

import (
	"time"

	"towncar/internal/modules/transfer"
	"towncar/internal/types"
)

type ServiceType string

const (
	ServiceOneWay      ServiceType = "one_way"
	ServiceRoundTrip   ServiceType = "round_trip"
	ServiceCharterTour ServiceType = "charter_tour"
)

type LegRole string

const (
	RoleOutbound LegRole = "outbound"
	RoleReturn   LegRole = "return"
)

// AddressDetail is the city-endpoint variant: free text plus a resolved coordinate.
type AddressDetail struct {
	Text       string
	Coordinate *types.Point
}

// AirportDetail is the airport-endpoint variant. OriginCity is only meaningful
// on the pickup side (the city the inbound flight departs from).
type AirportDetail struct {
	Airport      string
	Airline      string
	FlightNumber string
	OriginCity   string
}

// CruiseDetail is the cruise-port-endpoint variant. Address is only meaningful
// on the pickup side, where a confirmed street address is still required.
type CruiseDetail struct {
	Port        string
	Ship        string
	ArrivalTime time.Time
	Address     *AddressDetail
}

// Endpoint is a tagged union keyed by Kind: exactly one of the detail variants
// is populated for a well-formed endpoint. Validation treats a mismatch between
// Kind and the populated variant the same as a missing field.
type Endpoint struct {
	Kind    transfer.EndpointKind
	Address *AddressDetail
	Airport *AirportDetail
	Cruise  *CruiseDetail
}

// CityEndpoint builds an address endpoint.
func CityEndpoint(text string, coord *types.Point) Endpoint {
	return Endpoint{Kind: transfer.KindCity, Address: &AddressDetail{Text: text, Coordinate: coord}}
}

// AirportEndpoint builds an airport endpoint.
func AirportEndpoint(d AirportDetail) Endpoint {
	return Endpoint{Kind: transfer.KindAirport, Airport: &d}
}

// CruiseEndpoint builds a cruise-port endpoint.
func CruiseEndpoint(d CruiseDetail) Endpoint {
	return Endpoint{Kind: transfer.KindCruisePort, Cruise: &d}
}

// Coordinate returns the routable coordinate for the endpoint, if any.
func (e Endpoint) Coordinate() *types.Point {
	switch e.Kind {
	case transfer.KindCity:
		if e.Address != nil {
			return e.Address.Coordinate
		}
	case transfer.KindCruisePort:
		if e.Cruise != nil && e.Cruise.Address != nil {
			return e.Cruise.Address.Coordinate
		}
	}
	return nil
}

// ExtraStop is an intermediate waypoint. A stop contributes to distance
// calculation only once its coordinate is confirmed.
type ExtraStop struct {
	Address      string
	Coordinate   *types.Point
	Confirmed    bool
	Instructions string
}

// Contact holds the passenger-identity fields, always required regardless of
// transfer type. Carried on the outbound leg only.
type Contact struct {
	Name   string
	Email  string
	Mobile string
}

// Leg is one directional journey segment.
type Leg struct {
	Role         LegRole
	Service      ServiceType
	TransferType string // canonical label, see transfer.Labels
	Pickup       Endpoint
	Dropoff      Endpoint
	PickupAt     time.Time
	CharterHours int
	Vehicles     int
	Passengers   int
	Luggage      int
	Stops        []ExtraStop
	Instructions string
	MeetAndGreet string
	Contact      Contact
}

// ConfirmedStopCoordinates returns the coordinates of confirmed stops in order.
func (l Leg) ConfirmedStopCoordinates() []types.Point {
	var pts []types.Point
	for _, s := range l.Stops {
		if s.Confirmed && s.Coordinate != nil {
			pts = append(pts, *s.Coordinate)
		}
	}
	return pts
}
