package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"studio-scheduler/internal/handler/api"
	"studio-scheduler/internal/handler/middleware"
	"studio-scheduler/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *slog.Logger,
	bookingHandler *api.BookingHandler,
	scheduleHandler *api.ScheduleHandler,
	dialogHandler *api.DialogHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, bookingHandler, scheduleHandler, dialogHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	bookingHandler *api.BookingHandler,
	scheduleHandler *api.ScheduleHandler,
	dialogHandler *api.DialogHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		schedule := apiGroup.Group("/schedule")
		{
			addRoutes(schedule, []route{
				{Method: http.MethodGet, Path: "/:date", Handler: scheduleHandler.GetDaySchedule},
				{Method: http.MethodGet, Path: "/:date/free", Handler: scheduleHandler.GetFreeSlots},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			adminOnly := []gin.HandlerFunc{authMiddleware.RequireAdmin()}
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.ListBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.CancelBooking},
				{Method: http.MethodPost, Path: "/walkin", Handler: bookingHandler.CreateWalkIn, Mw: adminOnly},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: bookingHandler.ConfirmBooking, Mw: adminOnly},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: bookingHandler.RejectBooking, Mw: adminOnly},
			})
		}

		dialogGroup := apiGroup.Group("/dialog")
		{
			addRoutes(dialogGroup, []route{
				{Method: http.MethodPost, Path: "", Handler: dialogHandler.Step},
				{Method: http.MethodDelete, Path: "", Handler: dialogHandler.Abandon},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
