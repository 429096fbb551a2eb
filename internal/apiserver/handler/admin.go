package handler

import (
	"net/http"

	"github.com/dharashakti/backoffice/internal/apiserver/service"
	"github.com/dharashakti/backoffice/internal/common/dto"
	"github.com/dharashakti/backoffice/internal/i18n"

	"github.com/gin-gonic/gin"
)

// UpdateSystem handles PUT /api/admin/update-system
func (h *Handler) UpdateSystem(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req dto.UpdateSystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	err := h.svc.Admin.UpdateEmployeeField(c.Request.Context(), a, service.UpdateFieldCommand{
		TargetID:   req.Target(),
		Field:      req.Field,
		Value:      req.Value,
		AdminName:  req.AdminName,
		TargetName: req.TargetName,
	})
	if err != nil {
		fail(c, err)
		return
	}
	i18n.RespondOK(c, i18n.MsgEmployeeUpdated, nil)
}

// ResetPassword handles PUT /api/admin/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	if err := h.svc.Admin.ResetPassword(c.Request.Context(), a, req.EmpID, req.NewPass, req.AdminName); err != nil {
		fail(c, err)
		return
	}
	i18n.RespondOK(c, i18n.MsgPasswordReset, nil)
}

// ActivityLogs handles GET /api/logs
func (h *Handler) ActivityLogs(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	logs, err := h.svc.Admin.ListActivityLogs(c.Request.Context(), a)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toActivityLogs(logs))
}
