package handler

import (
	"net/http"

	"github.com/dharashakti/backoffice/internal/common/dto"
	"github.com/dharashakti/backoffice/internal/i18n"

	"github.com/gin-gonic/gin"
)

// RegisterAdmin handles POST /api/register-admin
func (h *Handler) RegisterAdmin(c *gin.Context) {
	var req dto.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	id, err := h.svc.Employees.RegisterAdmin(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	i18n.RespondCreated(c, i18n.MsgAdminRegistered, gin.H{"employeeId": id})
}

// RegisterEmployee handles POST /api/employees/register
func (h *Handler) RegisterEmployee(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req dto.RegisterEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	id, err := h.svc.Employees.Register(c.Request.Context(), a, &req)
	if err != nil {
		fail(c, err)
		return
	}
	i18n.RespondCreated(c, i18n.MsgEmployeeRegistered, gin.H{"employeeId": id})
}

func (h *Handler) ListEmployees(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	employees, err := h.svc.Employees.List(c.Request.Context(), a)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]dto.EmployeeSummary, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeSummary(e))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetEmployee(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	e, err := h.svc.Employees.Get(c.Request.Context(), a, param(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeSummary(e))
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	if err := h.svc.Employees.Delete(c.Request.Context(), a, param(c, "id")); err != nil {
		fail(c, err)
		return
	}
	i18n.RespondOK(c, i18n.MsgEmployeeDeleted, nil)
}
