package middleware

import (
	"log/slog"
	"slices"

	"meeting-room-booking/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// headers set by this API that browser clients need to read
var apiExposedHeaders = []string{
	"Location",
	headerRequestID,
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"Retry-After",
}

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	exposed := slices.Clone(cfg.ExposeHeaders)
	for _, h := range apiExposedHeaders {
		if !slices.Contains(exposed, h) {
			exposed = append(exposed, h)
		}
	}

	slog.Info("CORS configured", "allow_origins", cfg.AllowOrigins, "expose_headers", exposed)
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     append(slices.Clone(cfg.AllowHeaders), headerRequestID, headerIdempotencyKey),
		ExposeHeaders:    exposed,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
