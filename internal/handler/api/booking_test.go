//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/domain/booking"
	"meeting-room-booking/internal/handler/api"
	resdto "meeting-room-booking/internal/handler/dto/response"
	"meeting-room-booking/internal/pkg/clock"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/queries"
	"meeting-room-booking/tests/common/builder"
	"meeting-room-booking/tests/common/httptest"
	"meeting-room-booking/tests/common/testutil"
	commandsmock "meeting-room-booking/tests/mock/commands"
	queriesmock "meeting-room-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakeAuth stands in for the JWT middleware: any bearer token authenticates
// as the given actor.
func fakeAuth(actor *auth.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("actor", *actor)
		c.Next()
	}
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	clock        *clock.MockClock
	actor        auth.Actor
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.clock = clock.NewMockClock(time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC))
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries, s.clock)
	s.actor = auth.NewActor(uuid.New())

	authMiddleware := fakeAuth(&s.actor)
	s.router.POST("/bookings", authMiddleware, s.handler.Create)
	s.router.GET("/bookings", authMiddleware, s.handler.List)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.Get)
	s.router.POST("/bookings/:id/cancel", authMiddleware, s.handler.Cancel)
	s.router.POST("/bookings/:id/decision", authMiddleware, s.handler.Decide)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     testutil.Mutation
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"

	b := builder.NewBookingBuilder().WithEmployeeID(s.actor.EmployeeID()).WithStatus(booking.StatusApproved)
	reqBody := b.BuildCreateRequestDTO()
	created := b.Build()
	view := b.BuildView(true)

	s.Run("success: returns 201 Created with the secret", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.actor, reqBody.ToParams()).
			Return(created, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, created.ID()).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(created.ID().String(), body.ID)
		s.Equal("approved", body.Status)
		s.Require().NotNil(body.Secret)
		s.Equal("A1B2C3D4", *body.Secret)
		s.Equal("2024-02-01T10:00:00Z", body.StartTime)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/bookings/" + created.ID().String()})
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseBooking{
			{name: "missing field: room_id", mutate: testutil.Drop("room_id"), expectCode: http.StatusBadRequest},
			{name: "missing field: start_time", mutate: testutil.Drop("start_time"), expectCode: http.StatusBadRequest},
			{name: "missing field: end_time", mutate: testutil.Drop("end_time"), expectCode: http.StatusBadRequest},
			{name: "malformed start_time", mutate: testutil.Set("start_time", "tomorrow at nine"), expectCode: http.StatusBadRequest},
			{name: "malformed room_id", mutate: testutil.Set("room_id", "room-1"), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.RequestBody(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: 422 Unprocessable Entity when the slot starts in the past", func() {
		s.clock.Set(time.Date(2024, 2, 1, 10, 0, 1, 0, time.UTC))
		defer s.clock.Set(time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Start time must not be in the past")
	})

	s.Run("success: a slot starting exactly now is accepted", func() {
		s.clock.Set(time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC))
		defer s.clock.Set(time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC))

		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.actor, reqBody.ToParams()).
			Return(created, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, created.ID()).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("success: Idempotency-Key is passed to the command", func() {
		key := uuid.New()
		params := reqBody.ToParams()
		params.IdempotencyKey = key
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.actor, params).
			Return(created, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, created.ID()).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			map[string]string{"Idempotency-Key": key.String()})
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("error: 400 Bad Request on a malformed Idempotency-Key", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			map[string]string{"Idempotency-Key": "retry-1"})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key must be a UUID")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "slot taken", commandsError: errs.ErrSlotUnavailable, expectedStatus: http.StatusConflict, expectedMsg: "Time slot is not available"},
			{name: "room disabled", commandsError: errs.ErrRoomUnavailable, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "Room is not available"},
			{name: "reversed slot", commandsError: errs.Mark(booking.ErrInvalidTimeSlot, errs.ErrInvalidTimeSlot), expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "Invalid time slot"},
			{name: "unknown room", commandsError: errs.ErrRoomNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "Room not found"},
			{name: "key reused for another slot", commandsError: errs.ErrIdempotencyKeyReused, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "Idempotency-Key was used for a different request"},
			{name: "key held by a concurrent request", commandsError: errs.ErrIdempotencyInProgress, expectedStatus: http.StatusConflict, expectedMsg: "in progress"},
			{name: "store failure", commandsError: errs.Mark(errors.New("connection refused"), errs.ErrDatabaseOperationFailed), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.actor, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet / TestList
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	view := builder.NewBookingBuilder().WithEmployeeID(uuid.New()).BuildView(false)
	url := "/bookings/" + view.ID.String()

	s.Run("success: returns 200 OK without the secret for non-owners", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID.String(), body.ID)
		s.Equal("pending", body.Status)
		s.Nil(body.Secret)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, view.ID).Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

func (s *BookingHandlerTestSuite) TestList() {
	views := []*queries.BookingView{
		builder.NewBookingBuilder().WithEmployeeID(s.actor.EmployeeID()).BuildView(true),
		builder.NewBookingBuilder().WithEmployeeID(s.actor.EmployeeID()).WithSlot(
			time.Date(2024, 2, 2, 9, 0, 0, 0, time.UTC), time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC),
		).BuildView(true),
	}

	s.Run("success: defaults to the caller", func() {
		s.mockQueries.EXPECT().ListByEmployee(gomock.Any(), s.actor, s.actor.EmployeeID()).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "bearer-token")

		var body struct {
			Bookings []resdto.BookingResponse `json:"bookings"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Bookings, 2)
	})

	s.Run("success: explicit employee_id", func() {
		other := uuid.New()
		s.mockQueries.EXPECT().ListByEmployee(gomock.Any(), s.actor, other).Return([]*queries.BookingView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?employee_id="+other.String(), nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request for malformed employee_id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?employee_id=nope", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})

	s.Run("error: 403 Forbidden without view rights", func() {
		s.mockQueries.EXPECT().ListByEmployee(gomock.Any(), s.actor, gomock.Any()).Return(nil, errs.ErrUnauthorized).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?employee_id="+uuid.NewString(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancel() {
	b := builder.NewBookingBuilder().WithEmployeeID(s.actor.EmployeeID()).WithStatus(booking.StatusCancelled)
	cancelled := b.Build()
	url := "/bookings/" + cancelled.ID().String() + "/cancel"

	s.Run("success: returns 200 OK with the cancelled booking", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), s.actor, cancelled.ID(), "plans changed").
			Return(cancelled, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "plans changed"}, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("cancelled", body.Status)
		s.NotNil(body.Secret, "owner keeps seeing the secret")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseBooking{
			{name: "missing reason", mutate: testutil.Drop("reason"), expectCode: http.StatusBadRequest},
			{name: "empty reason", mutate: testutil.Set("reason", ""), expectCode: http.StatusBadRequest},
			{name: "reason too long", mutate: testutil.Set("reason", strings.Repeat("a", 501)), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.RequestBody(s.T(), map[string]any{"reason": "x"}, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{name: "not cancellable", commandsError: errs.ErrInvalidStatus, expectedStatus: http.StatusConflict},
			{name: "not the owner", commandsError: errs.ErrUnauthorized, expectedStatus: http.StatusForbidden},
			{name: "unknown booking", commandsError: errs.ErrBookingNotFound, expectedStatus: http.StatusNotFound},
			{name: "blank reason", commandsError: booking.ErrCancellationReasonRequired, expectedStatus: http.StatusBadRequest},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CancelBooking(gomock.Any(), s.actor, cancelled.ID(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "x"}, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

// ================================================================================
// TestDecide
// ================================================================================

func (s *BookingHandlerTestSuite) TestDecide() {
	decided := builder.NewBookingBuilder().WithStatus(booking.StatusRejected).Build()
	url := "/bookings/" + decided.ID().String() + "/decision"

	s.Run("success: explicit false rejects", func() {
		s.mockCommands.EXPECT().ApproveBooking(gomock.Any(), s.actor, decided.ID(), false, "board only").
			Return(decided, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"approved": false, "reason": "board only"}, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("rejected", body.Status)
		s.Nil(body.Secret, "approvers never see the secret")
	})

	s.Run("error: 400 Bad Request when approved is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "?"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 409 Conflict when already decided", func() {
		s.mockCommands.EXPECT().ApproveBooking(gomock.Any(), s.actor, decided.ID(), true, "").
			Return(nil, errs.ErrNotPending).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"approved": true}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "not waiting for approval")
	})

	s.Run("error: 409 Conflict when the slot was taken meanwhile", func() {
		s.mockCommands.EXPECT().ApproveBooking(gomock.Any(), s.actor, decided.ID(), true, "").
			Return(nil, errs.ErrSlotUnavailable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"approved": true}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}
