package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"towncar/internal/types"
)

// ResolvedAddress is a simplified geocoding result.
type ResolvedAddress struct {
	FormattedAddress string
	Coordinate       types.Point
}

// GeocodeService resolves free-text addresses to coordinates so that a typed
// pickup or dropoff can participate in routing and validation.
type GeocodeService struct {
	client *maps.Client
}

// NewGeocodeService creates a new GeocodeService with the given API key.
func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client}, nil
}

// Resolve geocodes the address text and returns the best match.
func (s *GeocodeService) Resolve(ctx context.Context, address string) (ResolvedAddress, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return ResolvedAddress{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return ResolvedAddress{}, fmt.Errorf("no match for %q", address)
	}
	best := results[0]
	return ResolvedAddress{
		FormattedAddress: best.FormattedAddress,
		Coordinate: types.Point{
			Lat: best.Geometry.Location.Lat,
			Lng: best.Geometry.Location.Lng,
		},
	}, nil
}
