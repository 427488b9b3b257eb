// README: Address geocoding handler.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"towncar/internal/maps"
)

// Geocoder resolves free-text addresses; satisfied by maps.GeocodeService.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (maps.ResolvedAddress, error)
}

type GeocodeHandler struct {
	geocoder Geocoder
}

func NewGeocodeHandler(geocoder Geocoder) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

func (h *GeocodeHandler) Resolve(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		writeError(c, http.StatusBadRequest, "missing address")
		return
	}
	resolved, err := h.geocoder.Resolve(c.Request.Context(), address)
	if err != nil {
		writeError(c, http.StatusBadGateway, "address lookup failed")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"address": resolved.FormattedAddress,
		"lat":     resolved.Coordinate.Lat,
		"lng":     resolved.Coordinate.Lng,
	})
}
