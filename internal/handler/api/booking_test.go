//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studio-scheduler/internal/domain/booking"
	"studio-scheduler/internal/domain/identity"
	"studio-scheduler/internal/domain/schedule"
	"studio-scheduler/internal/handler/api"
	"studio-scheduler/internal/handler/middleware"
	"studio-scheduler/internal/infra/memstore"
	"studio-scheduler/internal/pkg/clock"
	"studio-scheduler/internal/pkg/jwt"
	"studio-scheduler/internal/usecase/commands"
	"studio-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type nullNotifier struct{}

func (nullNotifier) NotifyAdmin(context.Context, commands.NotifyEvent, *booking.Booking) {}
func (nullNotifier) NotifyClient(context.Context, uuid.UUID, commands.NotifyEvent, *booking.Booking) {
}

type nullReminders struct{}

func (nullReminders) ArmNag(int64)                        {}
func (nullReminders) CancelNag(int64)                     {}
func (nullReminders) ArmClientReminders(int64, time.Time) {}
func (nullReminders) CancelAll(int64)                     {}

type BookingHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	tokens *jwt.Service
	store  *memstore.BookingStore

	adminToken  string
	clientToken string
	clientID    uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.store = memstore.NewBookingStore()
	clk := clock.NewMockClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	engine := schedule.NewEngine(schedule.DefaultHours())
	policy := identity.NewRolePolicy()

	q := queries.NewBookingQueries(s.store, engine, policy, clk)
	c := commands.NewBookingCommands(s.store, engine, policy, nullNotifier{}, nullReminders{}, clk, 90)

	s.tokens = jwt.NewService("test-secret", time.Hour)
	authMw := middleware.NewAuthMiddleware(s.tokens, policy)

	bookingHandler := api.NewBookingHandler(c, q)
	scheduleHandler := api.NewScheduleHandler(q)

	apiGroup := s.router.Group("/api")
	apiGroup.Use(authMw.RequireAuth())
	apiGroup.GET("/schedule/:date", scheduleHandler.GetDaySchedule)
	apiGroup.POST("/bookings", bookingHandler.CreateBooking)
	apiGroup.GET("/bookings", bookingHandler.ListBookings)
	apiGroup.GET("/bookings/:id", bookingHandler.GetBooking)
	apiGroup.POST("/bookings/:id/cancel", bookingHandler.CancelBooking)
	apiGroup.POST("/bookings/walkin", authMw.RequireAdmin(), bookingHandler.CreateWalkIn)
	apiGroup.POST("/bookings/:id/confirm", authMw.RequireAdmin(), bookingHandler.ConfirmBooking)
	apiGroup.POST("/bookings/:id/reject", authMw.RequireAdmin(), bookingHandler.RejectBooking)

	s.clientID = uuid.New()
	var err error
	s.adminToken, err = s.tokens.GenerateToken(uuid.New(), identity.RoleAdmin, "Admin")
	s.Require().NoError(err)
	s.clientToken, err = s.tokens.GenerateToken(s.clientID, identity.RoleClient, "Alice")
	s.Require().NoError(err)
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) do(method, url, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *BookingHandlerTestSuite) createBooking() int64 {
	w := s.do(http.MethodPost, "/api/bookings", s.clientToken, map[string]any{
		"date": "2025-06-15", "start_hour": 10, "duration_hours": 2,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID int64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	w := s.do(http.MethodPost, "/api/bookings", s.clientToken, map[string]any{
		"date": "2025-06-15", "start_hour": 10, "duration_hours": 2,
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("pending", resp["status"])
	s.Equal("2025-06-15", resp["date"])
	s.Equal("Alice", resp["displayName"])
}

func (s *BookingHandlerTestSuite) TestCreateBooking_Validation() {
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/api/bookings", "", nil).Code)

	w := s.do(http.MethodPost, "/api/bookings", s.clientToken, map[string]any{"date": "2025-06-15"})
	s.Equal(http.StatusBadRequest, w.Code, "missing duration")

	w = s.do(http.MethodPost, "/api/bookings", s.clientToken, map[string]any{
		"date": "June 15th", "start_hour": 10, "duration_hours": 1,
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/bookings", s.clientToken, map[string]any{
		"date": "2025-06-15", "start_hour": 7, "duration_hours": 1,
	})
	s.Equal(http.StatusBadRequest, w.Code, "outside the operating window")

	w = s.do(http.MethodPost, "/api/bookings", s.clientToken, map[string]any{
		"date": "2025-06-09", "start_hour": 10, "duration_hours": 1,
	})
	s.Equal(http.StatusBadRequest, w.Code, "date already past")
}

func (s *BookingHandlerTestSuite) TestCreateBooking_Conflict() {
	s.createBooking()

	w := s.do(http.MethodPost, "/api/bookings", s.clientToken, map[string]any{
		"date": "2025-06-15", "start_hour": 11, "duration_hours": 1,
	})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *BookingHandlerTestSuite) TestConfirmFlow() {
	id := s.createBooking()

	s.Equal(http.StatusForbidden,
		s.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/confirm", id), s.clientToken, nil).Code)

	s.Equal(http.StatusNoContent,
		s.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/confirm", id), s.adminToken, nil).Code)

	s.Equal(http.StatusConflict,
		s.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/reject", id), s.adminToken, nil).Code,
		"already resolved")

	s.Equal(http.StatusNotFound,
		s.do(http.MethodPost, "/api/bookings/999/confirm", s.adminToken, nil).Code)
}

func (s *BookingHandlerTestSuite) TestCancel() {
	id := s.createBooking()

	otherToken, err := s.tokens.GenerateToken(uuid.New(), identity.RoleClient, "Bob")
	s.Require().NoError(err)
	s.Equal(http.StatusForbidden,
		s.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", id), otherToken, nil).Code)

	s.Equal(http.StatusNoContent,
		s.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", id), s.clientToken, nil).Code)

	s.Equal(http.StatusConflict,
		s.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", id), s.clientToken, nil).Code)
}

func (s *BookingHandlerTestSuite) TestWalkIn() {
	s.Equal(http.StatusForbidden,
		s.do(http.MethodPost, "/api/bookings/walkin", s.clientToken, map[string]any{
			"date": "2025-06-15", "start_hour": 18, "duration_hours": 1, "client_name": "Bob",
		}).Code)

	w := s.do(http.MethodPost, "/api/bookings/walkin", s.adminToken, map[string]any{
		"date": "15.06.2025", "start_hour": 18, "duration_hours": 2,
		"client_name": "Bob", "client_contact": "+7 900",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("confirmed", resp["status"])
	s.Equal(true, resp["createdByAdmin"])
}

func (s *BookingHandlerTestSuite) TestGetAndList() {
	id := s.createBooking()

	w := s.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d", id), s.clientToken, nil)
	s.Equal(http.StatusOK, w.Code)

	otherToken, err := s.tokens.GenerateToken(uuid.New(), identity.RoleClient, "Bob")
	s.Require().NoError(err)
	s.Equal(http.StatusNotFound,
		s.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d", id), otherToken, nil).Code,
		"foreign bookings read as absent")

	var mine []map[string]any
	w = s.do(http.MethodGet, "/api/bookings", s.clientToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &mine))
	s.Len(mine, 1)

	// Admin default listing is the pending queue.
	var pending []map[string]any
	w = s.do(http.MethodGet, "/api/bookings", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &pending))
	s.Len(pending, 1)

	s.Equal(http.StatusBadRequest,
		s.do(http.MethodGet, "/api/bookings?status=bogus", s.adminToken, nil).Code)
}

func (s *BookingHandlerTestSuite) TestDaySchedule() {
	s.createBooking()

	w := s.do(http.MethodGet, "/api/schedule/2025-06-15", s.clientToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Date      string `json:"date"`
		BusyHours []int  `json:"busyHours"`
		FreeSlots []int  `json:"freeSlots"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("2025-06-15", resp.Date)
	s.Equal([]int{10, 11}, resp.BusyHours)
	s.NotContains(resp.FreeSlots, 10)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/schedule/soon", s.clientToken, nil).Code)
}
