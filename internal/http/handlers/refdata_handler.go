// README: Reference data handlers: airports, airlines, meet-and-greet.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"towncar/internal/modules/refdata"
)

type RefdataHandler struct {
	refdata *refdata.Service
}

func NewRefdataHandler(svc *refdata.Service) *RefdataHandler {
	return &RefdataHandler{refdata: svc}
}

func (h *RefdataHandler) Airports(c *gin.Context) {
	page, size := pageParams(c)
	airports, err := h.refdata.SearchAirports(c.Request.Context(), c.Query("search"), page, size)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"airports": airports})
}

func (h *RefdataHandler) Airlines(c *gin.Context) {
	page, size := pageParams(c)
	airlines, err := h.refdata.SearchAirlines(c.Request.Context(), c.Query("search"), page, size)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"airlines": airlines})
}

func (h *RefdataHandler) MeetGreetOptions(c *gin.Context) {
	options, err := h.refdata.MeetGreetOptions(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"options": options})
}

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))
	return page, size
}
