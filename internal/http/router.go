// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"towncar/internal/http/handlers"
	"towncar/internal/http/middleware"
	"towncar/internal/modules/booking"
	"towncar/internal/modules/refdata"
)

type RouterDeps struct {
	Booking  *booking.Service
	Rates    handlers.VehicleRatesSource
	Refdata  *refdata.Service
	Geocoder handlers.Geocoder
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	bookingHandler := handlers.NewBookingHandler(deps.Booking, deps.Rates)
	r.POST("/api/bookings/sessions", bookingHandler.Start)
	r.GET("/api/bookings/sessions/:id", bookingHandler.Get)
	r.PATCH("/api/bookings/sessions/:id", bookingHandler.Update)
	r.POST("/api/bookings/sessions/:id/stops", bookingHandler.AddStop)
	r.DELETE("/api/bookings/sessions/:id/stops/:index", bookingHandler.RemoveStop)
	r.POST("/api/bookings/sessions/:id/stops/:index/confirm", bookingHandler.ConfirmStop)
	r.POST("/api/bookings/sessions/:id/submit", bookingHandler.Submit)
	r.DELETE("/api/bookings/sessions/:id", bookingHandler.Abandon)

	refdataHandler := handlers.NewRefdataHandler(deps.Refdata)
	r.GET("/api/refdata/airports", refdataHandler.Airports)
	r.GET("/api/refdata/airlines", refdataHandler.Airlines)
	r.GET("/api/refdata/meet-greet", refdataHandler.MeetGreetOptions)

	if deps.Geocoder != nil {
		geocodeHandler := handlers.NewGeocodeHandler(deps.Geocoder)
		r.GET("/api/geocode", geocodeHandler.Resolve)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
