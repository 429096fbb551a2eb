package handler

import (
	"net/http"

	"github.com/dharashakti/backoffice/internal/apiserver/service"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/dto"
	"github.com/dharashakti/backoffice/internal/common/errorx"
	"github.com/dharashakti/backoffice/internal/i18n"

	"github.com/gin-gonic/gin"
)

// MarkAttendance handles POST /api/attendance
func (h *Handler) MarkAttendance(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	if !h.allowFutureDates {
		// unparsable dates are reported by the service
		if d, err := service.ParseDate(req.Date); err == nil && d.Format(cnst.DateLayout) > h.svc.Payroll.Today() {
			fail(c, errorx.ErrFutureDate.Clone().WithDetail("date", req.Date))
			return
		}
	}

	if err := h.svc.Attendance.MarkAttendance(c.Request.Context(), a, req.TargetID(), req.Date, req.Status); err != nil {
		fail(c, err)
		return
	}
	i18n.RespondOK(c, i18n.MsgAttendanceMarked, nil)
}

// AttendanceForDate handles GET /api/attendance/:date
func (h *Handler) AttendanceForDate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	records, err := h.svc.Attendance.GetForDate(c.Request.Context(), a, param(c, "date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttendanceRecords(records))
}

// AttendanceHistory handles GET /api/attendance/history/:employeeId
func (h *Handler) AttendanceHistory(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	records, err := h.svc.Attendance.GetHistory(c.Request.Context(), a, param(c, "employeeId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttendanceRecords(records))
}
