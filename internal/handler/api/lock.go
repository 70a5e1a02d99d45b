package api

import (
	"net/http"

	reqdto "meeting-room-booking/internal/handler/dto/request"
	resdto "meeting-room-booking/internal/handler/dto/response"
	"meeting-room-booking/internal/handler/httperr"
	"meeting-room-booking/internal/pkg/config"
	"meeting-room-booking/internal/usecase/commands"
	"meeting-room-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LockHandler struct {
	cmds     commands.LockCommands
	q        queries.LockQueries
	defaults commands.AutoLockParams
}

func NewLockHandler(cmds commands.LockCommands, q queries.LockQueries, cfg config.Config) *LockHandler {
	return &LockHandler{
		cmds: cmds,
		q:    q,
		defaults: commands.AutoLockParams{
			PeriodDays: cfg.Lock.PeriodDays,
			Threshold:  cfg.Lock.Threshold,
		},
	}
}

// AutoCheck runs the no-show sweep on demand. The body may override the
// configured period and threshold.
// @Summary Run the no-show sweep
// @Tags locks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AutoCheckRequest false "Period and threshold overrides"
// @Success 200 {object} resdto.AutoCheckResponse
// @Router /api/locks/auto-check [post]
func (h *LockHandler) AutoCheck(c *gin.Context) {
	var req reqdto.AutoCheckRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	locked, err := h.cmds.AutoCheckAndLock(c.Request.Context(), req.ToParams(h.defaults))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromLockedEmployees(locked))
}

func (h *LockHandler) Lock(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	employeeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.LockEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	pending, err := h.cmds.LockEmployee(c.Request.Context(), actor, employeeID, req.Reason)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromUnlockRequestView(queries.NewUnlockRequestView(pending)))
}

// @Summary Unlock an employee
// @Tags locks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} resdto.UnlockResponse
// @Failure 409 {object} httperr.Response
// @Router /api/employees/{id}/unlock [post]
func (h *LockHandler) Unlock(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	employeeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.ResolveUnlockRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resolved, err := h.cmds.UnlockEmployee(c.Request.Context(), actor, employeeID, req.Reason)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewUnlockResponse(employeeID, resolved))
}

func (h *LockHandler) RejectRequest(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.ResolveUnlockRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resolved, err := h.cmds.RejectUnlockRequest(c.Request.Context(), actor, requestID, req.Reason)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromUnlockRequestView(queries.NewUnlockRequestView(resolved)))
}

func (h *LockHandler) History(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	employeeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	views, err := h.q.GetLockHistory(c.Request.Context(), actor, employeeID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": resdto.FromUnlockRequestViews(views)})
}

func (h *LockHandler) Pending(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	views, err := h.q.GetPendingUnlockRequests(c.Request.Context(), actor)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": resdto.FromUnlockRequestViews(views)})
}
