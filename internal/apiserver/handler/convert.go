package handler

import (
	"github.com/dharashakti/backoffice/internal/apiserver/database"
	"github.com/dharashakti/backoffice/internal/apiserver/service"
	"github.com/dharashakti/backoffice/internal/common/dto"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func toEmployeeSummary(e *database.Employee) dto.EmployeeSummary {
	return dto.EmployeeSummary{
		EmployeeID:     e.EmployeeID,
		Name:           e.Name,
		FatherName:     e.FatherName,
		Email:          e.Email,
		Phone:          e.Phone,
		EmergencyPhone: e.EmergencyPhone,
		Address:        e.Address,
		Designation:    e.Designation,
		Role:           string(e.Role),
		IsBlocked:      e.IsBlocked,
		SalaryPerDay:   money(e.SalaryPerDay),
		JoiningDate:    e.JoiningDate,
		BankName:       e.BankName,
		AccountNo:      e.AccountNo,
		IFSCCode:       e.IFSCCode,
		Photo:          e.Photo,
	}
}

func toAttendanceRecords(records []service.AttendanceRecord) []dto.AttendanceRecord {
	out := make([]dto.AttendanceRecord, 0, len(records))
	for _, r := range records {
		out = append(out, dto.AttendanceRecord{
			EmployeeID: r.EmployeeID,
			Date:       r.Date,
			Status:     string(r.Status),
			MarkedBy:   r.MarkedBy,
		})
	}
	return out
}

func toPayments(payments []service.Payment) []dto.Payment {
	out := make([]dto.Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, dto.Payment{
			ID:         p.ID,
			EmployeeID: p.EmployeeID,
			Amount:     money(p.Amount),
			Date:       p.Date,
			Type:       p.Type,
			RecordedBy: p.RecordedBy,
		})
	}
	return out
}

func toLedger(l *service.Ledger) dto.Ledger {
	byDate := make(map[string]string, len(l.AttendanceByDate))
	for date, status := range l.AttendanceByDate {
		byDate[date] = string(status)
	}
	return dto.Ledger{
		EmployeeID:       l.EmployeeID,
		Name:             l.Name,
		Month:            l.Month,
		DailyRate:        money(l.DailyRate),
		PresentCount:     l.PresentCount,
		HalfDayCount:     l.HalfDayCount,
		AbsentCount:      l.AbsentCount,
		EarnedSalary:     money(l.EarnedSalary),
		AdvanceScope:     l.AdvanceScope,
		TotalAdvance:     money(l.TotalAdvance),
		NetPayable:       money(l.NetPayable),
		PaymentHistory:   toPayments(l.PaymentHistory),
		AttendanceByDate: byDate,
	}
}

func toActivityLogs(entries []service.ActivityLogEntry) []dto.ActivityLogEntry {
	out := make([]dto.ActivityLogEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ActivityLogEntry{
			ID:           e.ID,
			AdminName:    e.AdminName,
			ActionDetail: e.ActionDetail,
			TargetID:     e.TargetID,
			Field:        e.Field,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}
