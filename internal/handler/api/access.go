package api

import (
	"net/http"

	reqdto "meeting-room-booking/internal/handler/dto/request"
	resdto "meeting-room-booking/internal/handler/dto/response"
	"meeting-room-booking/internal/handler/httperr"
	"meeting-room-booking/internal/handler/middleware"
	"meeting-room-booking/internal/infra/ratelimit"
	"meeting-room-booking/internal/usecase/commands"
	"meeting-room-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AccessHandler struct {
	cmds    commands.AccessCommands
	limiter ratelimit.Limiter
}

func NewAccessHandler(cmds commands.AccessCommands, limiter ratelimit.Limiter) *AccessHandler {
	return &AccessHandler{cmds: cmds, limiter: limiter}
}

// Verify is called by the door panel. A wrong secret is a normal 200 with
// granted=false; a right secret outside its window is an error.
// @Summary Verify a door secret
// @Tags access
// @Accept json
// @Produce json
// @Param request body reqdto.VerifyAccessRequest true "Booking and secret"
// @Success 200 {object} resdto.AccessResponse
// @Failure 403 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /api/access/verify [post]
func (h *AccessHandler) Verify(c *gin.Context) {
	var req reqdto.VerifyAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if !middleware.AllowRequest(c, h.limiter, req.BookingID.String()+":"+c.ClientIP()) {
		return
	}

	granted, err := h.cmds.VerifyAndRecord(c.Request.Context(), req.BookingID, req.Secret)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.AccessResponse{Granted: granted})
}

// Unused lists approved bookings that ended without anyone entering.
func (h *AccessHandler) Unused(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	unused, err := h.cmds.CheckUnusedBookings(c.Request.Context())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	views := make([]*queries.BookingView, len(unused))
	for i, b := range unused {
		views[i] = queries.NewBookingView(b, nil, actor.Owns(b.EmployeeID()))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": resdto.FromBookingViews(views)})
}
