// README: Rate store backed by PostgreSQL; the concrete rate quote provider.
package fare

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"towncar/internal/modules/trip"
)

var ErrNoRates = errors.New("no rates for vehicle class")

// QuoteRequest describes one priced leg pair.
type QuoteRequest struct {
	Service       trip.ServiceType
	VehicleClass  string
	CharterHours  int
	OutboundMiles float64
	ReturnMiles   float64
	RoundTrip     bool
}

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// GetRates loads the rate tables for the requested vehicle class and service
// type and assembles a quote snapshot. Round-trip requests get an independent
// return quote priced over the return mileage.
func (s *Store) GetRates(ctx context.Context, req QuoteRequest) (*Quote, error) {
	q, err := s.legQuote(ctx, req, req.OutboundMiles)
	if err != nil {
		return nil, err
	}
	if req.RoundTrip {
		ret, err := s.legQuote(ctx, req, req.ReturnMiles)
		if err != nil {
			return nil, err
		}
		q.Return = ret
	}
	return q, nil
}

func (s *Store) legQuote(ctx context.Context, req QuoteRequest, miles float64) (*Quote, error) {
	rows, err := s.db.Query(ctx, `
		SELECT name, category, base_rate, per_mile
		FROM rate_line_items
		WHERE vehicle_class = $1 AND service_type = $2`,
		req.VehicleClass, string(req.Service))
	if err != nil {
		return nil, fmt.Errorf("query rate line items: %w", err)
	}
	defer rows.Close()

	q := &Quote{
		AllInclusive: map[string]float64{},
		Amenities:    map[string]float64{},
		Taxes:        map[string]float64{},
		Misc:         map[string]float64{},
	}
	found := false
	for rows.Next() {
		var name, category string
		var baseRate, perMile float64
		if err := rows.Scan(&name, &category, &baseRate, &perMile); err != nil {
			return nil, fmt.Errorf("scan rate line item: %w", err)
		}
		found = true
		amount := baseRate + perMile*miles
		switch category {
		case "all_inclusive":
			q.AllInclusive[name] = amount
		case "amenity":
			q.Amenities[name] = amount
		case "tax":
			q.Taxes[name] = amount
		default:
			q.Misc[name] = amount
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rate line items: %w", err)
	}
	if !found {
		return nil, ErrNoRates
	}

	// A minimum-charge floor suppresses the hourly multiplier for charter tours.
	if req.Service == trip.ServiceCharterTour {
		var floor float64
		err := s.db.QueryRow(ctx, `
			SELECT min_charge
			FROM min_rate_floors
			WHERE vehicle_class = $1 AND service_type = $2`,
			req.VehicleClass, string(req.Service)).Scan(&floor)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// no floor configured
		case err != nil:
			return nil, fmt.Errorf("query min rate floor: %w", err)
		default:
			hourly := q.AllInclusive[BaseRateItem] * float64(max(req.CharterHours, 1))
			if hourly < floor {
				q.AllInclusive[BaseRateItem] = floor
				q.MinRateInvolved = true
			}
		}
	}
	return q, nil
}

// VehicleRatesFor returns a vehicle class's static advertised rates, the
// degraded-mode fallback when quote fetching fails.
func (s *Store) VehicleRatesFor(ctx context.Context, vehicleClass string) (VehicleRates, error) {
	var r VehicleRates
	err := s.db.QueryRow(ctx, `
		SELECT one_way_rate, round_trip_rate, charter_hourly_rate
		FROM vehicle_classes
		WHERE name = $1`, vehicleClass).Scan(&r.OneWay, &r.RoundTrip, &r.CharterHourly)
	if errors.Is(err, pgx.ErrNoRows) {
		return VehicleRates{}, ErrNoRates
	}
	if err != nil {
		return VehicleRates{}, fmt.Errorf("query vehicle rates: %w", err)
	}
	return r, nil
}
