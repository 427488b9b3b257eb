// README: Rate quote snapshot and fare breakdown types.
package fare

// Quote is an immutable snapshot from the pricing backend for one leg.
// Quotes are replaced wholesale on each successful fetch, never merged.
type Quote struct {
	// AllInclusive maps rate line-item names to base rates. The item named
	// BaseRateItem is the only one subject to the charter-hour multiplier.
	AllInclusive map[string]float64
	Amenities    map[string]float64
	Taxes        map[string]float64
	Misc         map[string]float64

	// MinRateInvolved is true when a minimum-charge floor overrides the
	// hourly computation for charter tours.
	MinRateInvolved bool

	// Return carries the return-leg quote for round trips, when priced.
	Return *Quote
}

// Breakdown is derived, never stored. Return totals are zero for anything
// other than a round trip.
type Breakdown struct {
	Subtotal         float64
	GrandTotal       float64
	ReturnSubtotal   float64
	ReturnGrandTotal float64
}

// Combined is the total surfaced for booking: outbound plus return grand totals.
func (b Breakdown) Combined() float64 {
	return b.GrandTotal + b.ReturnGrandTotal
}

// VehicleRates are a vehicle class's static advertised rates, used as the
// degraded-mode fallback when no quote is available.
type VehicleRates struct {
	OneWay        float64
	RoundTrip     float64
	CharterHourly float64
}
