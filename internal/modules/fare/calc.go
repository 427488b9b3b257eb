// README: Pure fare computation from a rate quote.
package fare

import (
	"fmt"

	"towncar/internal/modules/trip"
)

// BaseRateItem is the one all-inclusive line item scaled by charter hours.
const BaseRateItem = "Base_Rate"

// allInclusiveUplift is the fixed surcharge applied to the all-inclusive base.
const allInclusiveUplift = 0.25

// Compute turns a quote plus trip parameters into a fare breakdown.
//
// Per leg: the all-inclusive base is the sum of all-inclusive line items, with
// Base_Rate multiplied by charterHours first — but only for charter tours with
// no minimum-rate floor involved. Amenities, taxes, and misc items are added
// unscaled, the base earns a 25% uplift, and the subtotal scales by vehicle
// count into the grand total. Round trips repeat the same computation against
// the return quote with identical parameters.
//
// All arithmetic stays in float64; rounding happens only at format time.
func Compute(q *Quote, service trip.ServiceType, charterHours, vehicleCount int) Breakdown {
	if q == nil {
		return Breakdown{}
	}
	var b Breakdown
	b.Subtotal = legSubtotal(q, service, charterHours, q.MinRateInvolved)
	b.GrandTotal = b.Subtotal * float64(vehicleCount)

	if service == trip.ServiceRoundTrip && q.Return != nil {
		// The return leg reuses the outbound quote's min-rate flag and hours.
		b.ReturnSubtotal = legSubtotal(q.Return, service, charterHours, q.MinRateInvolved)
		b.ReturnGrandTotal = b.ReturnSubtotal * float64(vehicleCount)
	}
	return b
}

// ComputeStatic is the explicit degraded mode used when no quote is available:
// the vehicle's own advertised rate for the service type, scaled by vehicle
// count, with no uplift logic.
func ComputeStatic(rates VehicleRates, service trip.ServiceType, charterHours, vehicleCount int) Breakdown {
	var total float64
	switch service {
	case trip.ServiceRoundTrip:
		total = rates.RoundTrip
	case trip.ServiceCharterTour:
		total = rates.CharterHourly * float64(max(charterHours, 1))
	default:
		total = rates.OneWay
	}
	return Breakdown{
		Subtotal:   total,
		GrandTotal: total * float64(vehicleCount),
	}
}

func legSubtotal(q *Quote, service trip.ServiceType, charterHours int, minRateInvolved bool) float64 {
	var base float64
	for name, rate := range q.AllInclusive {
		if name == BaseRateItem && service == trip.ServiceCharterTour && !minRateInvolved {
			base += rate * float64(charterHours)
			continue
		}
		base += rate
	}

	total := base
	for _, v := range q.Amenities {
		total += v
	}
	for _, v := range q.Taxes {
		total += v
	}
	for _, v := range q.Misc {
		total += v
	}
	return total + base*allInclusiveUplift
}

// FormatAmount renders a monetary value for display, rounded to two decimals.
// This is the only place rounding is allowed to happen.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
