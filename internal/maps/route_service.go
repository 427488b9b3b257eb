package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"towncar/internal/types"
)

// ErrNoRoute means the Directions API returned no drivable route.
var ErrNoRoute = errors.New("no route found")

// RouteService handles interactions with the Google Maps Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// GetRoute returns total distance in meters and duration in seconds for a
// drive from origin to dest through the given waypoints, in order.
func (s *RouteService) GetRoute(ctx context.Context, origin, dest types.Point, waypoints []types.Point) (int, int, error) {
	r := &maps.DirectionsRequest{
		Origin:      latLng(origin),
		Destination: latLng(dest),
		Mode:        maps.TravelModeDriving,
	}
	for _, w := range waypoints {
		r.Waypoints = append(r.Waypoints, latLng(w))
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, 0, ErrNoRoute
	}

	var meters, seconds int
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
		seconds += int(leg.Duration.Seconds())
	}
	return meters, seconds, nil
}

func latLng(p types.Point) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}
