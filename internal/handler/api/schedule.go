package api

import (
	"net/http"

	"studio-scheduler/internal/domain/booking"
	resdto "studio-scheduler/internal/handler/dto/response"
	"studio-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	queries queries.BookingQueries
}

func NewScheduleHandler(queries queries.BookingQueries) *ScheduleHandler {
	return &ScheduleHandler{queries: queries}
}

// GetDaySchedule returns the occupied hours, the startable free slots and the
// bookings of one day.
func (h *ScheduleHandler) GetDaySchedule(c *gin.Context) {
	day, err := booking.ParseDay(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format",
		})
		return
	}

	view, err := h.queries.DaySchedule(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromDayScheduleView(view))
}

// GetFreeSlots returns only the hours a booking may start at on one day.
func (h *ScheduleHandler) GetFreeSlots(c *gin.Context) {
	day, err := booking.ParseDay(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format",
		})
		return
	}

	slots, err := h.queries.FreeSlots(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":       day.String(),
		"free_slots": slots,
	})
}
