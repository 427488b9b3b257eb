package transfer

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		label       string
		wantPickup  EndpointKind
		wantDropoff EndpointKind
	}{
		{"City to City", KindCity, KindCity},
		{"City to Airport", KindCity, KindAirport},
		{"Airport to City", KindAirport, KindCity},
		{"Airport to Airport", KindAirport, KindAirport},
		{"City to Cruise Port", KindCity, KindCruisePort},
		{"Cruise Port to City", KindCruisePort, KindCity},
		{"Airport to Cruise Port", KindAirport, KindCruisePort},
		{"Cruise Port to Airport", KindCruisePort, KindAirport},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			pickup, dropoff, err := Resolve(tt.label)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.label, err)
			}
			if pickup != tt.wantPickup || dropoff != tt.wantDropoff {
				t.Errorf("Resolve(%q) = (%s, %s), want (%s, %s)",
					tt.label, pickup, dropoff, tt.wantPickup, tt.wantDropoff)
			}
		})
	}
}

func TestResolve_TrimsWhitespace(t *testing.T) {
	pickup, dropoff, err := Resolve("  City to Airport ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pickup != KindCity || dropoff != KindAirport {
		t.Errorf("got (%s, %s)", pickup, dropoff)
	}
}

func TestResolve_Unknown(t *testing.T) {
	for _, label := range []string{"", "Moon to Mars", "City", "Cruise Port to Cruise Port"} {
		if _, _, err := Resolve(label); !errors.Is(err, ErrUnknownTransferType) {
			t.Errorf("Resolve(%q) error = %v, want ErrUnknownTransferType", label, err)
		}
	}
}

func TestReverse(t *testing.T) {
	got, err := Reverse("Airport to City")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "City to Airport" {
		t.Errorf("Reverse(Airport to City) = %q", got)
	}
}

func TestReverse_Involution(t *testing.T) {
	for _, label := range Labels() {
		once, err := Reverse(label)
		if err != nil {
			t.Fatalf("Reverse(%q) error: %v", label, err)
		}
		twice, err := Reverse(once)
		if err != nil {
			t.Fatalf("Reverse(%q) error: %v", once, err)
		}
		if twice != label {
			t.Errorf("Reverse(Reverse(%q)) = %q", label, twice)
		}
	}
}

func TestLabels_AllResolvable(t *testing.T) {
	labels := Labels()
	if len(labels) != 8 {
		t.Fatalf("len(Labels()) = %d, want 8", len(labels))
	}
	for _, label := range labels {
		pickup, dropoff, err := Resolve(label)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", label, err)
		}
		rendered, err := Label(pickup, dropoff)
		if err != nil || rendered != label {
			t.Errorf("Label(%s, %s) = %q, %v; want %q", pickup, dropoff, rendered, err, label)
		}
	}
}
