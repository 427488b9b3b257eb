// README: Common value types shared across modules.
package types

// ID identifies reservations, sessions, and reference-data rows.
type ID string

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}
