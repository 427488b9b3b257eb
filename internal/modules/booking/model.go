// README: Booking request payload and reservation aggregate.
package booking

import (
	"time"

	"towncar/internal/types"
)

// StopPayload is one extra stop with its resolved coordinate.
type StopPayload struct {
	Address      string  `json:"address"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Confirmed    bool    `json:"confirmed"`
	Instructions string  `json:"instructions,omitempty"`
}

// LegPayload is the flattened wire shape for one leg. Only the fields for the
// leg's endpoint kinds are populated; the rest stay at their zero values.
type LegPayload struct {
	TransferType string    `json:"transfer_type"`
	PickupAt     time.Time `json:"pickup_at"`

	PickupAddress      string     `json:"pickup_address,omitempty"`
	PickupLat          *float64   `json:"pickup_lat,omitempty"`
	PickupLng          *float64   `json:"pickup_lng,omitempty"`
	PickupAirport      string     `json:"pickup_airport,omitempty"`
	PickupAirline      string     `json:"pickup_airline,omitempty"`
	PickupFlightNumber string     `json:"pickup_flight_number,omitempty"`
	PickupOriginCity   string     `json:"pickup_origin_city,omitempty"`
	PickupCruisePort   string     `json:"pickup_cruise_port,omitempty"`
	PickupCruiseShip   string     `json:"pickup_cruise_ship,omitempty"`
	PickupCruiseTime   *time.Time `json:"pickup_cruise_arrival,omitempty"`

	DropoffAddress      string     `json:"dropoff_address,omitempty"`
	DropoffLat          *float64   `json:"dropoff_lat,omitempty"`
	DropoffLng          *float64   `json:"dropoff_lng,omitempty"`
	DropoffAirport      string     `json:"dropoff_airport,omitempty"`
	DropoffAirline      string     `json:"dropoff_airline,omitempty"`
	DropoffFlightNumber string     `json:"dropoff_flight_number,omitempty"`
	DropoffCruisePort   string     `json:"dropoff_cruise_port,omitempty"`
	DropoffCruiseShip   string     `json:"dropoff_cruise_ship,omitempty"`
	DropoffCruiseTime   *time.Time `json:"dropoff_cruise_arrival,omitempty"`

	Stops        []StopPayload `json:"stops,omitempty"`
	Instructions string        `json:"instructions,omitempty"`
	MeetAndGreet string        `json:"meet_and_greet,omitempty"`
}

// Request is the canonical create/update-reservation payload. Assemble is the
// only place outbound and return leg state are combined into one artifact.
type Request struct {
	ServiceType  string `json:"service_type"`
	VehicleClass string `json:"vehicle_class"`
	Vehicles     int    `json:"vehicles"`
	Passengers   int    `json:"passengers"`
	Luggage      int    `json:"luggage"`

	PassengerName   string `json:"passenger_name"`
	PassengerEmail  string `json:"passenger_email"`
	PassengerMobile string `json:"passenger_mobile"`

	CharterHours int `json:"charter_hours,omitempty"`

	Outbound LegPayload  `json:"outbound"`
	Return   *LegPayload `json:"return,omitempty"`
}

// Reservation is a stored booking.
type Reservation struct {
	ID        types.ID  `json:"id"`
	Status    string    `json:"status"`
	Payload   Request   `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
