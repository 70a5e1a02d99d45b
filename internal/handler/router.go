package handler

import (
	"log/slog"
	"net/http"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/handler/api"
	"meeting-room-booking/internal/handler/middleware"
	"meeting-room-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Booking *api.BookingHandler
	Access  *api.AccessHandler
	Lock    *api.LockHandler
}

func NewHandlers(booking *api.BookingHandler, access *api.AccessHandler, lock *api.LockHandler) Handlers {
	return Handlers{Booking: booking, Access: access, Lock: lock}
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireCap := authMiddleware.RequireCapability

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		addRoutes(bookings, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Booking.Create, Mw: []gin.HandlerFunc{authMiddleware.RequireActiveAccount()}},
			{Method: http.MethodGet, Path: "", Handler: h.Booking.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel},
			{Method: http.MethodPost, Path: "/:id/decision", Handler: h.Booking.Decide, Mw: []gin.HandlerFunc{requireCap(auth.CapApproveBookings)}},
		})

		// The door panel holds no employee token; the secret is the credential.
		access := apiGroup.Group("/access")
		addRoutes(access, []route{
			{Method: http.MethodPost, Path: "/verify", Handler: h.Access.Verify},
			{Method: http.MethodGet, Path: "/unused", Handler: h.Access.Unused, Mw: []gin.HandlerFunc{authMiddleware.RequireAuth(), requireCap(auth.CapViewAllBookings)}},
		})

		locks := apiGroup.Group("")
		locks.Use(authMiddleware.RequireAuth())
		addRoutes(locks, []route{
			{Method: http.MethodPost, Path: "/locks/auto-check", Handler: h.Lock.AutoCheck, Mw: []gin.HandlerFunc{requireCap(auth.CapManageLocks)}},
			{Method: http.MethodPost, Path: "/employees/:id/lock", Handler: h.Lock.Lock},
			{Method: http.MethodPost, Path: "/employees/:id/unlock", Handler: h.Lock.Unlock},
			{Method: http.MethodGet, Path: "/employees/:id/lock-history", Handler: h.Lock.History},
			{Method: http.MethodGet, Path: "/unlock-requests/pending", Handler: h.Lock.Pending},
			{Method: http.MethodPost, Path: "/unlock-requests/:id/reject", Handler: h.Lock.RejectRequest},
		})
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
