// README: Distance/duration cache keyed by coordinate and waypoint sets.
package distance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"towncar/internal/modules/trip"
	"towncar/internal/types"
)

// ErrUnavailable means no route can be resolved yet (a coordinate is missing).
var ErrUnavailable = errors.New("distance unavailable")

// Directions is the external routing collaborator.
type Directions interface {
	GetRoute(ctx context.Context, origin, dest types.Point, waypoints []types.Point) (meters, seconds int, err error)
}

// Route is one resolved distance/duration pair.
type Route struct {
	Meters  int
	Seconds int
}

type entry struct {
	key   string
	route Route
}

// Cache memoizes routing lookups per leg role. An entry is recomputed only
// when its (pickup, dropoff, ordered waypoints) key changes; on collaborator
// failure the previous value stays in place.
type Cache struct {
	directions Directions

	mu      sync.Mutex
	entries map[trip.LegRole]*entry
}

func NewCache(directions Directions) *Cache {
	return &Cache{
		directions: directions,
		entries:    make(map[trip.LegRole]*entry),
	}
}

// RouteFor resolves the route for one leg role. When the collaborator fails
// and a previous value exists, that stale value is returned alongside the
// error so the caller can keep displaying it.
func (c *Cache) RouteFor(ctx context.Context, role trip.LegRole, pickup, dropoff *types.Point, waypoints []types.Point) (Route, error) {
	if pickup == nil || dropoff == nil {
		return Route{}, ErrUnavailable
	}

	key := cacheKey(*pickup, *dropoff, waypoints)

	c.mu.Lock()
	if e, ok := c.entries[role]; ok && e.key == key {
		r := e.route
		c.mu.Unlock()
		return r, nil
	}
	c.mu.Unlock()

	meters, seconds, err := c.directions.GetRoute(ctx, *pickup, *dropoff, waypoints)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if e, ok := c.entries[role]; ok {
			return e.route, fmt.Errorf("route lookup failed, showing previous estimate: %w", err)
		}
		return Route{}, err
	}

	r := Route{Meters: meters, Seconds: seconds}
	c.mu.Lock()
	c.entries[role] = &entry{key: key, route: r}
	c.mu.Unlock()
	return r, nil
}

// Cached returns the last resolved route for a role without any lookup.
func (c *Cache) Cached(role trip.LegRole) (Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[role]; ok {
		return e.route, true
	}
	return Route{}, false
}

// cacheKey encodes the inputs that make two routes distinct. Waypoint order
// matters: reordering stops is a different route.
func cacheKey(pickup, dropoff types.Point, waypoints []types.Point) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.6f,%.6f|%.6f,%.6f", pickup.Lat, pickup.Lng, dropoff.Lat, dropoff.Lng)
	for _, w := range waypoints {
		fmt.Fprintf(&b, "|%.6f,%.6f", w.Lat, w.Lng)
	}
	return b.String()
}
