// README: Transfer type vocabulary and label resolution.
package transfer

import (
	"errors"
	"strings"
)

// EndpointKind classifies one end of a trip leg.
type EndpointKind string

const (
	KindCity       EndpointKind = "city"
	KindAirport    EndpointKind = "airport"
	KindCruisePort EndpointKind = "cruise_port"
)

var ErrUnknownTransferType = errors.New("unknown transfer type")

var kindNames = map[EndpointKind]string{
	KindCity:       "City",
	KindAirport:    "Airport",
	KindCruisePort: "Cruise Port",
}

// labelOrder is the canonical ordering of the eight valid transfer types.
// Cruise Port to Cruise Port is not a bookable combination.
var labelOrder = [][2]EndpointKind{
	{KindCity, KindCity},
	{KindCity, KindAirport},
	{KindAirport, KindCity},
	{KindAirport, KindAirport},
	{KindCity, KindCruisePort},
	{KindCruisePort, KindCity},
	{KindAirport, KindCruisePort},
	{KindCruisePort, KindAirport},
}

// Resolve maps a transfer-type label onto its (pickup, dropoff) endpoint kinds.
func Resolve(label string) (EndpointKind, EndpointKind, error) {
	label = strings.TrimSpace(label)
	for _, pair := range labelOrder {
		if label == kindNames[pair[0]]+" to "+kindNames[pair[1]] {
			return pair[0], pair[1], nil
		}
	}
	return "", "", ErrUnknownTransferType
}

// Label renders the canonical label for a (pickup, dropoff) kind pair.
func Label(pickup, dropoff EndpointKind) (string, error) {
	for _, pair := range labelOrder {
		if pair[0] == pickup && pair[1] == dropoff {
			return kindNames[pickup] + " to " + kindNames[dropoff], nil
		}
	}
	return "", ErrUnknownTransferType
}

// Reverse swaps pickup and dropoff kinds and re-renders the canonical label.
// Used to default a return leg's transfer type from the outbound leg.
func Reverse(label string) (string, error) {
	pickup, dropoff, err := Resolve(label)
	if err != nil {
		return "", err
	}
	return Label(dropoff, pickup)
}

// Labels returns the eight valid transfer-type labels in canonical order.
func Labels() []string {
	out := make([]string, 0, len(labelOrder))
	for _, pair := range labelOrder {
		out = append(out, kindNames[pair[0]]+" to "+kindNames[pair[1]])
	}
	return out
}
