package trip

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"towncar/internal/types"
)

func coord(lat, lng float64) *types.Point {
	return &types.Point{Lat: lat, Lng: lng}
}

func validContact() Contact {
	return Contact{Name: "Ada Lovelace", Email: "ada@example.com", Mobile: "+1 212 555 0147"}
}

func validCityLeg() Leg {
	return Leg{
		Role:         RoleOutbound,
		Service:      ServiceOneWay,
		TransferType: "City to City",
		Pickup:       CityEndpoint("350 5th Ave, New York", coord(40.748, -73.985)),
		Dropoff:      CityEndpoint("1 World Trade Center", coord(40.713, -74.013)),
		PickupAt:     time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC),
		Vehicles:     1,
		Passengers:   2,
		Contact:      validContact(),
	}
}

func TestRequiredFields_Coverage(t *testing.T) {
	identity := []FieldID{FieldPassengerName, FieldPassengerEmail, FieldPassengerMobile}

	tests := []struct {
		label string
		want  []FieldID
	}{
		{"City to City", []FieldID{FieldPickupLocation, FieldDropoffLocation}},
		{"City to Airport", []FieldID{FieldPickupLocation, FieldDropoffAirport, FieldDropoffAirline, FieldDropoffFlightNumber}},
		{"Airport to City", []FieldID{FieldPickupAirport, FieldPickupAirline, FieldPickupFlightNumber, FieldPickupOriginCity, FieldDropoffLocation}},
		{"Airport to Airport", []FieldID{FieldPickupAirport, FieldPickupAirline, FieldPickupFlightNumber, FieldPickupOriginCity, FieldDropoffAirport, FieldDropoffAirline, FieldDropoffFlightNumber}},
		{"City to Cruise Port", []FieldID{FieldPickupLocation, FieldDropoffCruisePort, FieldDropoffCruiseShip, FieldDropoffCruiseTime}},
		{"Cruise Port to City", []FieldID{FieldPickupCruisePort, FieldPickupCruiseShip, FieldPickupCruiseTime, FieldPickupLocation, FieldDropoffLocation}},
		{"Airport to Cruise Port", []FieldID{FieldPickupAirport, FieldPickupAirline, FieldPickupFlightNumber, FieldPickupOriginCity, FieldDropoffCruisePort, FieldDropoffCruiseShip, FieldDropoffCruiseTime}},
		{"Cruise Port to Airport", []FieldID{FieldPickupCruisePort, FieldPickupCruiseShip, FieldPickupCruiseTime, FieldPickupLocation, FieldDropoffAirport, FieldDropoffAirline, FieldDropoffFlightNumber}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := RequiredFields(ServiceOneWay, tt.label, RoleOutbound)
			if err != nil {
				t.Fatalf("RequiredFields error: %v", err)
			}
			want := append(append([]FieldID{}, tt.want...), identity...)
			assertFieldSet(t, got, want)
		})
	}
}

func TestRequiredFields_CharterHours(t *testing.T) {
	got, err := RequiredFields(ServiceCharterTour, "City to City", RoleOutbound)
	if err != nil {
		t.Fatalf("RequiredFields error: %v", err)
	}
	if _, ok := got[FieldCharterHours]; !ok {
		t.Error("charter tour must require charter_hours")
	}

	got, err = RequiredFields(ServiceOneWay, "City to City", RoleOutbound)
	if err != nil {
		t.Fatalf("RequiredFields error: %v", err)
	}
	if _, ok := got[FieldCharterHours]; ok {
		t.Error("one way must not require charter_hours")
	}
}

func TestRequiredFields_ReturnRolePrefixesKeys(t *testing.T) {
	got, err := RequiredFields(ServiceRoundTrip, "Airport to City", RoleReturn)
	if err != nil {
		t.Fatalf("RequiredFields error: %v", err)
	}
	assertFieldSet(t, got, []FieldID{
		"return_pickup_airport", "return_pickup_airline",
		"return_pickup_flight_number", "return_pickup_origin_city",
		"return_dropoff_location",
	})
}

func TestRequiredFields_UnknownTransferType(t *testing.T) {
	if _, err := RequiredFields(ServiceOneWay, "Moon to Mars", RoleOutbound); err == nil {
		t.Fatal("expected error for unknown transfer type")
	}
}

func TestValidate_CompleteCityLeg(t *testing.T) {
	fails := Validate(validCityLeg())
	if !fails.Empty() {
		t.Errorf("expected no failures, got %v", fails.Keys())
	}
}

func TestValidate_Idempotent(t *testing.T) {
	leg := validCityLeg()
	leg.Dropoff = CityEndpoint("somewhere", nil) // one failure

	first := Validate(leg)
	second := Validate(leg)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("validation not idempotent: %v vs %v", first, second)
	}
	if !first.Has(FieldDropoffLocation) {
		t.Errorf("expected dropoff_location failure, got %v", first.Keys())
	}
}

func TestValidate_MissingCoordinateFailsLocation(t *testing.T) {
	leg := validCityLeg()
	leg.Pickup = CityEndpoint("typed but never selected", nil)

	fails := Validate(leg)
	if !fails.Has(FieldPickupLocation) {
		t.Errorf("expected pickup_location failure, got %v", fails.Keys())
	}
}

func TestValidate_AirportPickup(t *testing.T) {
	leg := validCityLeg()
	leg.TransferType = "Airport to City"
	leg.Pickup = AirportEndpoint(AirportDetail{})

	fails := Validate(leg)
	for _, want := range []FieldID{FieldPickupAirport, FieldPickupAirline, FieldPickupFlightNumber, FieldPickupOriginCity} {
		if !fails.Has(want) {
			t.Errorf("missing failure %s in %v", want, fails.Keys())
		}
	}

	leg.Pickup = AirportEndpoint(AirportDetail{
		Airport:      "JFK",
		Airline:      "Delta",
		FlightNumber: "DL123",
		OriginCity:   "Atlanta",
	})
	if fails := Validate(leg); !fails.Empty() {
		t.Errorf("expected no failures, got %v", fails.Keys())
	}
}

func TestValidate_AirportDropoffNeedsNoOriginCity(t *testing.T) {
	leg := validCityLeg()
	leg.TransferType = "City to Airport"
	leg.Dropoff = AirportEndpoint(AirportDetail{
		Airport:      "EWR",
		Airline:      "United",
		FlightNumber: "UA88",
	})
	if fails := Validate(leg); !fails.Empty() {
		t.Errorf("expected no failures, got %v", fails.Keys())
	}
}

func TestValidate_CruisePickupNeedsConfirmedAddress(t *testing.T) {
	arrival := time.Date(2026, 10, 2, 7, 30, 0, 0, time.UTC)
	leg := validCityLeg()
	leg.TransferType = "Cruise Port to City"
	leg.Pickup = CruiseEndpoint(CruiseDetail{Port: "Brooklyn Cruise Terminal", Ship: "Queen Mary 2", ArrivalTime: arrival})

	fails := Validate(leg)
	if !fails.Has(FieldPickupLocation) {
		t.Errorf("cruise pickup without address must fail pickup_location, got %v", fails.Keys())
	}

	leg.Pickup = CruiseEndpoint(CruiseDetail{
		Port:        "Brooklyn Cruise Terminal",
		Ship:        "Queen Mary 2",
		ArrivalTime: arrival,
		Address:     &AddressDetail{Text: "72 Bowne St, Brooklyn", Coordinate: coord(40.682, -74.001)},
	})
	if fails := Validate(leg); !fails.Empty() {
		t.Errorf("expected no failures, got %v", fails.Keys())
	}
}

func TestValidate_CruiseDropoffNeedsNoAddress(t *testing.T) {
	leg := validCityLeg()
	leg.TransferType = "City to Cruise Port"
	leg.Dropoff = CruiseEndpoint(CruiseDetail{
		Port:        "Port Everglades",
		Ship:        "Harmony of the Seas",
		ArrivalTime: time.Date(2026, 11, 20, 6, 0, 0, 0, time.UTC),
	})
	if fails := Validate(leg); !fails.Empty() {
		t.Errorf("expected no failures, got %v", fails.Keys())
	}
}

func TestValidate_CharterHours(t *testing.T) {
	leg := validCityLeg()
	leg.Service = ServiceCharterTour

	if fails := Validate(leg); !fails.Has(FieldCharterHours) {
		t.Errorf("expected charter_hours failure, got %v", fails.Keys())
	}
	leg.CharterHours = 4
	if fails := Validate(leg); fails.Has(FieldCharterHours) {
		t.Error("charter_hours failure should clear once hours are set")
	}
}

func TestValidate_ContactShapes(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		want    FieldID
	}{
		{"missing name", Contact{Email: "a@b.co", Mobile: "+12125550147"}, FieldPassengerName},
		{"bad email", Contact{Name: "A", Email: "not-an-email", Mobile: "+12125550147"}, FieldPassengerEmail},
		{"bad mobile", Contact{Name: "A", Email: "a@b.co", Mobile: "abc"}, FieldPassengerMobile},
		{"short mobile", Contact{Name: "A", Email: "a@b.co", Mobile: "12345"}, FieldPassengerMobile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leg := validCityLeg()
			leg.Contact = tt.contact
			if fails := Validate(leg); !fails.Has(tt.want) {
				t.Errorf("expected %s failure, got %v", tt.want, fails.Keys())
			}
		})
	}
}

func TestValidate_ReturnLegSkipsIdentity(t *testing.T) {
	leg := Leg{
		Role:         RoleReturn,
		Service:      ServiceRoundTrip,
		TransferType: "City to City",
	}
	fails := Validate(leg)
	for _, id := range []FieldID{FieldPassengerName, FieldPassengerEmail, FieldPassengerMobile} {
		if fails.Has(id) {
			t.Errorf("return leg must not re-check %s", id)
		}
	}
	if !fails.Has("return_pickup_location") || !fails.Has("return_dropoff_location") {
		t.Errorf("expected prefixed location failures, got %v", fails.Keys())
	}
}

func TestValidate_UnknownTransferType(t *testing.T) {
	leg := validCityLeg()
	leg.TransferType = "Moon to Mars"
	fails := Validate(leg)
	if !fails.Has(FieldTransferType) {
		t.Errorf("expected transfer_type failure, got %v", fails.Keys())
	}
}

func assertFieldSet(t *testing.T, got map[FieldID]struct{}, want []FieldID) {
	t.Helper()
	gotKeys := make([]string, 0, len(got))
	for k := range got {
		gotKeys = append(gotKeys, string(k))
	}
	wantKeys := make([]string, 0, len(want))
	for _, k := range want {
		wantKeys = append(wantKeys, string(k))
	}
	sort.Strings(gotKeys)
	sort.Strings(wantKeys)
	if !reflect.DeepEqual(gotKeys, wantKeys) {
		t.Errorf("field set mismatch:\n got  %v\n want %v", gotKeys, wantKeys)
	}
}
