package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/domain/identity"
	reqdto "studio-scheduler/internal/handler/dto/request"
	resdto "studio-scheduler/internal/handler/dto/response"
	"studio-scheduler/internal/handler/middleware"
	"studio-scheduler/internal/pkg/errs"
	"studio-scheduler/internal/usecase/commands"
	"studio-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(commands commands.BookingCommands, queries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		commands: commands,
		queries:  queries,
	}
}

// CreateBooking places a client request for a slot; it is created pending and
// waits for the administrator's decision.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	day, err := req.ParseDate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format",
		})
		return
	}

	view, err := h.commands.CreateRequest(c.Request.Context(), actor, day, req.StartHour, req.DurationHours)
	if err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// CreateWalkIn records an admin-entered booking directly as confirmed.
func (h *BookingHandler) CreateWalkIn(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateWalkInRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	day, err := req.ParseDate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format",
		})
		return
	}

	view, err := h.commands.CreateWalkIn(
		c.Request.Context(), actor, day, req.StartHour, req.DurationHours, req.ClientName, req.ClientContact,
	)
	if err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := parseBookingID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// ListBookings returns the actor's own bookings. An administrator instead
// gets bookings filtered by status; with no filter it lists the pending
// requests awaiting a decision.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var (
		views []*queries.BookingView
		err   error
	)
	if actor.Role == identity.RoleAdmin {
		status := booking.Status(c.DefaultQuery("status", string(booking.StatusPending)))
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown booking status",
			})
			return
		}
		views, err = h.queries.ListByStatus(c.Request.Context(), status)
	} else {
		views, err = h.queries.ListByClient(c.Request.Context(), actor.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.transition(c, h.commands.Confirm)
}

func (h *BookingHandler) RejectBooking(c *gin.Context) {
	h.transition(c, h.commands.Reject)
}

// CancelBooking cancels the caller's own booking; an administrator calling it
// frees the slot on the studio's initiative instead.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := parseBookingID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	if actor.Role == identity.RoleAdmin {
		err = h.commands.CancelByAdmin(c.Request.Context(), actor, id)
	} else {
		err = h.commands.Cancel(c.Request.Context(), actor, id)
	}
	if err != nil {
		respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, actor identity.Actor, id int64) error) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := parseBookingID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	if err := op(c.Request.Context(), actor, id); err != nil {
		respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseBookingID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, errs.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Requested slot is no longer available",
		})
	case errors.Is(err, errs.ErrOutsideHours), errors.Is(err, errs.ErrInvalidDuration):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Requested slot is outside operating hours",
		})
	case errors.Is(err, errs.ErrDateInPast), errors.Is(err, errs.ErrDateTooFar):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Requested date is outside the booking window",
		})
	case errors.Is(err, errs.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking has already been resolved",
		})
	case errors.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Domain validation failed",
		})
	case errors.Is(err, errs.ErrNotAdmin):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Administrator role required",
		})
	case errors.Is(err, errs.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Booking belongs to another client",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
