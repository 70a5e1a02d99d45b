//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/domain/employee"
	"meeting-room-booking/internal/handler/api"
	resdto "meeting-room-booking/internal/handler/dto/response"
	"meeting-room-booking/internal/pkg/config"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/commands"
	"meeting-room-booking/internal/usecase/queries"
	"meeting-room-booking/tests/common/httptest"
	commandsmock "meeting-room-booking/tests/mock/commands"
	queriesmock "meeting-room-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LockHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockLockCommands
	mockQueries  *queriesmock.MockLockQueries
	actor        auth.Actor
}

func (s *LockHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockLockCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockLockQueries(s.mockCtrl)
	handler := api.NewLockHandler(s.mockCommands, s.mockQueries, config.NewTestConfig())
	s.actor = auth.NewActor(uuid.New(), auth.CapManageLocks)

	authMiddleware := fakeAuth(&s.actor)
	s.router.POST("/locks/auto-check", authMiddleware, handler.AutoCheck)
	s.router.POST("/employees/:id/lock", authMiddleware, handler.Lock)
	s.router.POST("/employees/:id/unlock", authMiddleware, handler.Unlock)
	s.router.GET("/employees/:id/lock-history", authMiddleware, handler.History)
	s.router.GET("/unlock-requests/pending", authMiddleware, handler.Pending)
	s.router.POST("/unlock-requests/:id/reject", authMiddleware, handler.RejectRequest)
}

func (s *LockHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLockHandlerSuite(t *testing.T) {
	suite.Run(t, new(LockHandlerTestSuite))
}

var lockTime = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

func (s *LockHandlerTestSuite) TestAutoCheck() {
	url := "/locks/auto-check"
	locked := employee.ReconstructEmployee(uuid.New(), "Ada", true, lockTime, lockTime)

	s.Run("success: empty body uses the configured defaults", func() {
		s.mockCommands.EXPECT().AutoCheckAndLock(gomock.Any(), commands.AutoLockParams{PeriodDays: 30, Threshold: 3}).
			Return([]*employee.Employee{locked}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.AutoCheckResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Locked, 1)
		s.Equal(locked.ID().String(), body.Locked[0].ID)
		s.True(body.Locked[0].IsLocked)
	})

	s.Run("success: body overrides the threshold only", func() {
		s.mockCommands.EXPECT().AutoCheckAndLock(gomock.Any(), commands.AutoLockParams{PeriodDays: 30, Threshold: 5}).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"threshold": 5}, "bearer-token")

		var body resdto.AutoCheckResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Locked)
	})

	s.Run("error: 400 Bad Request for an out of range period", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"period_days": 1000}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *LockHandlerTestSuite) TestLockAndUnlock() {
	employeeID := uuid.New()
	pending := employee.NewUnlockRequest(employeeID, "badge misuse", lockTime)
	resolved := employee.NewUnlockRequest(employeeID, "badge misuse", lockTime)
	s.Require().NoError(resolved.Approve(s.actor.EmployeeID(), "ok", lockTime.Add(time.Hour)))

	s.Run("success: lock returns 201 with the pending request", func() {
		s.mockCommands.EXPECT().LockEmployee(gomock.Any(), s.actor, employeeID, "badge misuse").Return(pending, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/employees/"+employeeID.String()+"/lock",
			map[string]any{"reason": "badge misuse"}, "bearer-token")

		var body resdto.UnlockRequestResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("pending", body.Status)
		s.Equal(employeeID.String(), body.EmployeeID)
		s.Nil(body.DecisionTime)
	})

	s.Run("error: lock requires a reason", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/employees/"+employeeID.String()+"/lock",
			map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 409 Conflict when already locked", func() {
		s.mockCommands.EXPECT().LockEmployee(gomock.Any(), s.actor, employeeID, "again").Return(nil, errs.ErrAlreadyLocked).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/employees/"+employeeID.String()+"/lock",
			map[string]any{"reason": "again"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already locked")
	})

	s.Run("success: unlock without a body", func() {
		s.mockCommands.EXPECT().UnlockEmployee(gomock.Any(), s.actor, employeeID, "").Return(resolved, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/employees/"+employeeID.String()+"/unlock", nil, "bearer-token")

		var body resdto.UnlockResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(employeeID.String(), body.EmployeeID)
		s.False(body.IsLocked)
		s.Require().NotNil(body.Request)
		s.Equal("approved", body.Request.Status)
		s.Require().NotNil(body.Request.DecisionTime)
		s.Equal(lockTime.Add(time.Hour).Unix(), *body.Request.DecisionTime)
	})

	s.Run("success: administrative unlock has no request", func() {
		s.mockCommands.EXPECT().UnlockEmployee(gomock.Any(), s.actor, employeeID, "served").Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/employees/"+employeeID.String()+"/unlock",
			map[string]any{"reason": "served"}, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(employeeID.String(), body["employee_id"])
		s.Equal(false, body["is_locked"])
		s.Contains(body, "request")
		s.Nil(body["request"])
	})

	s.Run("error: 409 Conflict when nothing is pending", func() {
		s.mockCommands.EXPECT().UnlockEmployee(gomock.Any(), s.actor, employeeID, "").Return(nil, errs.ErrNoPendingRequest).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/employees/"+employeeID.String()+"/unlock", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "No pending unlock request")
	})

	s.Run("error: 404 Not Found for an unknown request", func() {
		requestID := uuid.New()
		s.mockCommands.EXPECT().RejectUnlockRequest(gomock.Any(), s.actor, requestID, "").Return(nil, errs.ErrUnlockRequestNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/unlock-requests/"+requestID.String()+"/reject", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Unlock request not found")
	})
}

func (s *LockHandlerTestSuite) TestHistoryAndPending() {
	employeeID := uuid.New()
	views := []*queries.UnlockRequestView{
		queries.NewUnlockRequestView(employee.NewUnlockRequest(employeeID, "auto-locked: 3 no-shows in the last 30 days", lockTime)),
	}

	s.Run("success: history", func() {
		s.mockQueries.EXPECT().GetLockHistory(gomock.Any(), s.actor, employeeID).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/employees/"+employeeID.String()+"/lock-history", nil, "bearer-token")

		var body struct {
			Requests []resdto.UnlockRequestResponse `json:"requests"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Requests, 1)
		s.Equal(lockTime.Unix(), body.Requests[0].RequestTime)
	})

	s.Run("error: 403 Forbidden for someone else's history", func() {
		s.mockQueries.EXPECT().GetLockHistory(gomock.Any(), s.actor, employeeID).Return(nil, errs.ErrUnauthorized).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/employees/"+employeeID.String()+"/lock-history", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})

	s.Run("success: pending", func() {
		s.mockQueries.EXPECT().GetPendingUnlockRequests(gomock.Any(), s.actor).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/unlock-requests/pending", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}
