package handler

import (
	"fmt"
	"net/http"

	"github.com/dharashakti/backoffice/internal/common/dto"
	"github.com/dharashakti/backoffice/internal/i18n"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RecordAdvance handles POST /api/salary/advance
func (h *Handler) RecordAdvance(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req dto.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	if err := h.svc.Payroll.RecordAdvance(c.Request.Context(), a, req.TargetID(), req.Amount, req.Type); err != nil {
		fail(c, err)
		return
	}
	i18n.RespondOK(c, i18n.MsgAdvanceRecorded, nil)
}

// Payments handles GET /api/salary/payments/:employeeId
func (h *Handler) Payments(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	payments, err := h.svc.Payroll.PaymentHistory(c.Request.Context(), a, param(c, "employeeId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toPayments(payments))
}

// Ledger handles GET /api/salary/ledger/:employeeId
func (h *Handler) Ledger(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	l, err := h.svc.Payroll.ComputeLedger(c.Request.Context(), a, param(c, "employeeId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toLedger(l))
}

// ExportLedger handles GET /api/salary/ledger/:employeeId/export
func (h *Handler) ExportLedger(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	employeeID := param(c, "employeeId")
	data, err := h.svc.Payroll.ExportLedger(c.Request.Context(), a, employeeID)
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("ledger-%s-%s.xlsx", employeeID, h.svc.Payroll.Today()[:7])
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
