package handler

import (
	"net/http"

	"github.com/dharashakti/backoffice/internal/common/dto"
	"github.com/dharashakti/backoffice/internal/i18n"

	"github.com/gin-gonic/gin"
)

// Login handles POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	res, err := h.svc.Auth.Login(c.Request.Context(), req.ID(), req.Secret())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Success:      true,
		Message:      i18n.TranslateMessage(c, i18n.MsgLoginSuccess, nil),
		User:         toEmployeeSummary(res.Employee),
		SessionToken: res.SessionToken,
		Token:        res.Token,
		LoginAt:      res.LoginAt,
	})
}

// Logout handles POST /api/logout
func (h *Handler) Logout(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	if err := h.svc.Auth.Logout(c.Request.Context(), a); err != nil {
		fail(c, err)
		return
	}
	i18n.RespondOK(c, i18n.MsgLogoutSuccess, nil)
}

// SessionCheck handles GET /api/users/session-check/:id, the endpoint the
// session watchdog polls
func (h *Handler) SessionCheck(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	status, err := h.svc.Auth.SessionStatus(c.Request.Context(), a, param(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	resp := dto.SessionCheckResponse{IsBlocked: status.IsBlocked}
	if status.ActiveSessionID != "" {
		resp.ActiveSessionID = &status.ActiveSessionID
	}
	c.JSON(http.StatusOK, resp)
}
