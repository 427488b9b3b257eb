// README: Booking session handlers: lifecycle, field mutation, submit.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"towncar/internal/modules/booking"
	"towncar/internal/modules/distance"
	"towncar/internal/modules/fare"
	"towncar/internal/modules/trip"
	"towncar/internal/types"
)

// VehicleRatesSource looks up a vehicle class's static rates when the client
// selects a vehicle.
type VehicleRatesSource interface {
	VehicleRatesFor(ctx context.Context, vehicleClass string) (fare.VehicleRates, error)
}

type BookingHandler struct {
	booking *booking.Service
	rates   VehicleRatesSource
}

func NewBookingHandler(svc *booking.Service, rates VehicleRatesSource) *BookingHandler {
	return &BookingHandler{booking: svc, rates: rates}
}

type startSessionReq struct {
	Mode          string `json:"mode"` // fresh | edit | repeat
	ReservationID string `json:"reservation_id,omitempty"`
}

func (h *BookingHandler) Start(c *gin.Context) {
	var req startSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	var (
		sess *booking.Session
		err  error
	)
	switch req.Mode {
	case "", "fresh":
		sess = h.booking.StartFresh(context.WithoutCancel(c.Request.Context()))
	case "edit":
		sess, err = h.booking.StartEdit(context.WithoutCancel(c.Request.Context()), types.ID(req.ReservationID))
	case "repeat":
		sess, err = h.booking.StartRepeat(context.WithoutCancel(c.Request.Context()), types.ID(req.ReservationID))
	default:
		writeError(c, http.StatusBadRequest, "unknown mode")
		return
	}
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, h.sessionView(sess))
}

func (h *BookingHandler) Get(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, h.sessionView(sess))
}

type updateSessionReq struct {
	Leg string `json:"leg,omitempty"` // outbound (default) | return

	ServiceType  *string    `json:"service_type,omitempty"`
	TransferType *string    `json:"transfer_type,omitempty"`
	PickupAt     *time.Time `json:"pickup_at,omitempty"`

	PickupAddress *string  `json:"pickup_address,omitempty"`
	PickupLat     *float64 `json:"pickup_lat,omitempty"`
	PickupLng     *float64 `json:"pickup_lng,omitempty"`

	DropoffAddress *string  `json:"dropoff_address,omitempty"`
	DropoffLat     *float64 `json:"dropoff_lat,omitempty"`
	DropoffLng     *float64 `json:"dropoff_lng,omitempty"`

	PickupAirport      *string `json:"pickup_airport,omitempty"`
	PickupAirline      *string `json:"pickup_airline,omitempty"`
	PickupFlightNumber *string `json:"pickup_flight_number,omitempty"`
	PickupOriginCity   *string `json:"pickup_origin_city,omitempty"`

	DropoffAirport      *string `json:"dropoff_airport,omitempty"`
	DropoffAirline      *string `json:"dropoff_airline,omitempty"`
	DropoffFlightNumber *string `json:"dropoff_flight_number,omitempty"`

	PickupCruisePort *string    `json:"pickup_cruise_port,omitempty"`
	PickupCruiseShip *string    `json:"pickup_cruise_ship,omitempty"`
	PickupCruiseTime *time.Time `json:"pickup_cruise_arrival,omitempty"`

	DropoffCruisePort *string    `json:"dropoff_cruise_port,omitempty"`
	DropoffCruiseShip *string    `json:"dropoff_cruise_ship,omitempty"`
	DropoffCruiseTime *time.Time `json:"dropoff_cruise_arrival,omitempty"`

	CharterHours *int    `json:"charter_hours,omitempty"`
	Vehicles     *int    `json:"vehicles,omitempty"`
	VehicleClass *string `json:"vehicle_class,omitempty"`
	Passengers   *int    `json:"passengers,omitempty"`
	Luggage      *int    `json:"luggage,omitempty"`

	PassengerName   *string `json:"passenger_name,omitempty"`
	PassengerEmail  *string `json:"passenger_email,omitempty"`
	PassengerMobile *string `json:"passenger_mobile,omitempty"`

	MeetAndGreet *string `json:"meet_and_greet,omitempty"`
	Instructions *string `json:"instructions,omitempty"`

	SetupComplete *bool `json:"setup_complete,omitempty"`
}

// Update applies a partial mutation document; every present field goes through
// the corresponding session setter so validation and recalculation follow the
// session's own rules.
func (h *BookingHandler) Update(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req updateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	role := trip.RoleOutbound
	if req.Leg == "return" {
		role = trip.RoleReturn
	}

	if req.ServiceType != nil {
		sess.SetServiceType(trip.ServiceType(*req.ServiceType))
	}
	if req.TransferType != nil {
		sess.SetTransferType(role, *req.TransferType)
	}
	if req.PickupAt != nil {
		sess.SetPickupAt(role, *req.PickupAt)
	}
	if req.PickupAddress != nil {
		sess.SetAddress(role, booking.SidePickup, *req.PickupAddress, point(req.PickupLat, req.PickupLng))
	}
	if req.DropoffAddress != nil {
		sess.SetAddress(role, booking.SideDropoff, *req.DropoffAddress, point(req.DropoffLat, req.DropoffLng))
	}
	if req.PickupAirport != nil {
		sess.SetAirport(role, booking.SidePickup, *req.PickupAirport)
	}
	if req.PickupAirline != nil {
		sess.SetAirline(role, booking.SidePickup, *req.PickupAirline)
	}
	if req.PickupFlightNumber != nil {
		sess.SetFlightNumber(role, booking.SidePickup, *req.PickupFlightNumber)
	}
	if req.PickupOriginCity != nil {
		sess.SetOriginCity(role, *req.PickupOriginCity)
	}
	if req.DropoffAirport != nil {
		sess.SetAirport(role, booking.SideDropoff, *req.DropoffAirport)
	}
	if req.DropoffAirline != nil {
		sess.SetAirline(role, booking.SideDropoff, *req.DropoffAirline)
	}
	if req.DropoffFlightNumber != nil {
		sess.SetFlightNumber(role, booking.SideDropoff, *req.DropoffFlightNumber)
	}
	if req.PickupCruisePort != nil || req.PickupCruiseShip != nil || req.PickupCruiseTime != nil {
		port, ship, arrival := cruiseFields(sess, role, booking.SidePickup)
		sess.SetCruise(role, booking.SidePickup,
			override(port, req.PickupCruisePort), override(ship, req.PickupCruiseShip), overrideTime(arrival, req.PickupCruiseTime))
	}
	if req.DropoffCruisePort != nil || req.DropoffCruiseShip != nil || req.DropoffCruiseTime != nil {
		port, ship, arrival := cruiseFields(sess, role, booking.SideDropoff)
		sess.SetCruise(role, booking.SideDropoff,
			override(port, req.DropoffCruisePort), override(ship, req.DropoffCruiseShip), overrideTime(arrival, req.DropoffCruiseTime))
	}
	if req.CharterHours != nil {
		sess.SetCharterHours(*req.CharterHours)
	}
	if req.Vehicles != nil {
		sess.SetVehicleCount(*req.Vehicles)
	}
	if req.VehicleClass != nil {
		rates, err := h.rates.VehicleRatesFor(c.Request.Context(), *req.VehicleClass)
		if err != nil {
			rates = fare.VehicleRates{}
		}
		sess.SetVehicle(*req.VehicleClass, rates)
	}
	if req.Passengers != nil {
		sess.SetPassengerCount(*req.Passengers)
	}
	if req.Luggage != nil {
		sess.SetLuggageCount(*req.Luggage)
	}
	if req.PassengerName != nil || req.PassengerEmail != nil || req.PassengerMobile != nil {
		out, _ := sess.Legs()
		contact := out.Contact
		if req.PassengerName != nil {
			contact.Name = *req.PassengerName
		}
		if req.PassengerEmail != nil {
			contact.Email = *req.PassengerEmail
		}
		if req.PassengerMobile != nil {
			contact.Mobile = *req.PassengerMobile
		}
		sess.SetContact(contact)
	}
	if req.MeetAndGreet != nil {
		sess.SetMeetAndGreet(role, *req.MeetAndGreet)
	}
	if req.Instructions != nil {
		sess.SetInstructions(role, *req.Instructions)
	}
	if req.SetupComplete != nil && *req.SetupComplete {
		sess.CompleteSetup()
	}

	writeJSON(c, http.StatusOK, h.sessionView(sess))
}

type stopReq struct {
	Leg          string   `json:"leg,omitempty"`
	Address      string   `json:"address"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}

func (h *BookingHandler) AddStop(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req stopReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	sess.AddStop(legRole(req.Leg), trip.ExtraStop{
		Address:      req.Address,
		Coordinate:   point(req.Lat, req.Lng),
		Instructions: req.Instructions,
	})
	writeJSON(c, http.StatusOK, h.sessionView(sess))
}

func (h *BookingHandler) RemoveStop(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid stop index")
		return
	}
	sess.RemoveStop(legRole(c.Query("leg")), i)
	writeJSON(c, http.StatusOK, h.sessionView(sess))
}

type confirmStopReq struct {
	Leg string  `json:"leg,omitempty"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *BookingHandler) ConfirmStop(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid stop index")
		return
	}
	var req confirmStopReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	sess.ConfirmStop(legRole(req.Leg), i, types.Point{Lat: req.Lat, Lng: req.Lng})
	writeJSON(c, http.StatusOK, h.sessionView(sess))
}

func (h *BookingHandler) Submit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	res, err := h.booking.Submit(c.Request.Context(), sess.ID)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, res)
}

func (h *BookingHandler) Abandon(c *gin.Context) {
	h.booking.Abandon(types.ID(c.Param("id")))
	c.Status(http.StatusNoContent)
}

// ---- views -----------------------------------------------------------------

type fareView struct {
	Subtotal         string `json:"subtotal"`
	GrandTotal       string `json:"grand_total"`
	ReturnSubtotal   string `json:"return_subtotal,omitempty"`
	ReturnGrandTotal string `json:"return_grand_total,omitempty"`
	Combined         string `json:"combined"`
}

type routeView struct {
	Distance string `json:"distance"`
	Duration string `json:"duration"`
}

type sessionView struct {
	ID         string            `json:"id"`
	State      string            `json:"state"`
	Validation map[string]string `json:"validation"`
	Fare       fareView          `json:"fare"`
	Outbound   *routeView        `json:"outbound_route,omitempty"`
	Return     *routeView        `json:"return_route,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func (h *BookingHandler) sessionView(sess *booking.Session) sessionView {
	b := sess.FareBreakdown()
	v := sessionView{
		ID:         string(sess.ID),
		State:      string(sess.State()),
		Validation: map[string]string{},
		Fare: fareView{
			Subtotal:   fare.FormatAmount(b.Subtotal),
			GrandTotal: fare.FormatAmount(b.GrandTotal),
			Combined:   fare.FormatAmount(b.Combined()),
		},
	}
	if b.ReturnGrandTotal != 0 {
		v.Fare.ReturnSubtotal = fare.FormatAmount(b.ReturnSubtotal)
		v.Fare.ReturnGrandTotal = fare.FormatAmount(b.ReturnGrandTotal)
	}
	for k, msg := range sess.ValidationState() {
		v.Validation[string(k)] = msg
	}
	if r, ok := sess.Route(trip.RoleOutbound); ok {
		v.Outbound = &routeView{Distance: distance.FormatDistance(r.Meters), Duration: distance.FormatDuration(r.Seconds)}
	}
	if r, ok := sess.Route(trip.RoleReturn); ok {
		v.Return = &routeView{Distance: distance.FormatDistance(r.Meters), Duration: distance.FormatDuration(r.Seconds)}
	}
	if err := sess.LastError(); err != nil {
		v.Error = err.Error()
	}
	return v
}

// ---- helpers ---------------------------------------------------------------

func (h *BookingHandler) session(c *gin.Context) (*booking.Session, bool) {
	sess, err := h.booking.Get(types.ID(c.Param("id")))
	if err != nil {
		writeBookingError(c, err)
		return nil, false
	}
	return sess, true
}

func legRole(leg string) trip.LegRole {
	if leg == "return" {
		return trip.RoleReturn
	}
	return trip.RoleOutbound
}

func point(lat, lng *float64) *types.Point {
	if lat == nil || lng == nil {
		return nil
	}
	return &types.Point{Lat: *lat, Lng: *lng}
}

// cruiseFields reads the current cruise values so a partial patch keeps the
// fields it does not mention.
func cruiseFields(sess *booking.Session, role trip.LegRole, side booking.EndpointSide) (port, ship string, arrival time.Time) {
	out, ret := sess.Legs()
	leg := out
	if role == trip.RoleReturn {
		if ret == nil {
			return "", "", time.Time{}
		}
		leg = *ret
	}
	e := leg.Pickup
	if side == booking.SideDropoff {
		e = leg.Dropoff
	}
	if e.Cruise == nil {
		return "", "", time.Time{}
	}
	return e.Cruise.Port, e.Cruise.Ship, e.Cruise.ArrivalTime
}

func override(cur string, v *string) string {
	if v != nil {
		return *v
	}
	return cur
}

func overrideTime(cur time.Time, v *time.Time) time.Time {
	if v != nil {
		return *v
	}
	return cur
}
