package api

import (
	"net/http"
	"time"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/domain/booking"
	reqdto "meeting-room-booking/internal/handler/dto/request"
	resdto "meeting-room-booking/internal/handler/dto/response"
	"meeting-room-booking/internal/handler/httperr"
	"meeting-room-booking/internal/pkg/clock"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/commands"
	"meeting-room-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errStartInPast = errs.New("booking start is in the past")

type BookingHandler struct {
	cmds  commands.BookingCommands
	q     queries.BookingQueries
	clock clock.Clock
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries, clk clock.Clock) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q, clock: clk}
}

// Create books a room for the caller. The response carries the door secret.
// @Summary Create booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID; a retry with the same key returns the first booking"
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	idempotencyKey, err := idempotencyKeyOf(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Idempotency-Key must be a UUID", nil)
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	// the core takes intervals as given; past dates stop here
	if now := h.clock.Now(); req.StartTime.Before(now) {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, errStartInPast,
			"Start time must not be in the past", gin.H{"now": now.UTC().Format(time.RFC3339)})
		return
	}

	params := req.ToParams()
	params.IdempotencyKey = idempotencyKey
	created, err := h.cmds.CreateBooking(c.Request.Context(), actor, params)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), actor, created.ID())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booking", nil)
		return
	}

	c.Header("Location", "/api/bookings/"+created.ID().String())
	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// idempotencyKeyOf returns uuid.Nil when the header is absent.
func idempotencyKeyOf(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader("Idempotency-Key")
	if raw == "" {
		return uuid.Nil, nil
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "invalid idempotency key")
	}
	return key, nil
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// List returns the caller's bookings, or another employee's with
// ?employee_id= when the caller may view all bookings.
func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var query reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	employeeID := actor.EmployeeID()
	if query.EmployeeID != "" {
		employeeID = uuid.MustParse(query.EmployeeID)
	}

	views, err := h.q.ListByEmployee(c.Request.Context(), actor, employeeID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": resdto.FromBookingViews(views)})
}

// @Summary Cancel booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest true "Cancellation reason"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	cancelled, err := h.cmds.CancelBooking(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	respondWithBooking(c, actor, cancelled)
}

// @Summary Approve or reject a pending booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.DecisionRequest true "Decision"
// @Success 200 {object} resdto.BookingResponse
// @Failure 409 {object} map[string]string
// @Router /api/bookings/{id}/decision [post]
func (h *BookingHandler) Decide(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	decided, err := h.cmds.ApproveBooking(c.Request.Context(), actor, id, *req.Approved, req.Reason)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	respondWithBooking(c, actor, decided)
}

// respondWithBooking renders the state a command returned, so an approver
// without read access to the booking still sees the outcome.
func respondWithBooking(c *gin.Context, actor auth.Actor, b *booking.Booking) {
	view := queries.NewBookingView(b, nil, actor.Owns(b.EmployeeID()))
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}
