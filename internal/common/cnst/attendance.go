package cnst

import "strings"

// AttendanceStatus is the mark for one employee on one day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
	StatusHalfDay AttendanceStatus = "Half-Day"
)

// ParseAttendanceStatus accepts the canonical spellings in any case, plus
// "halfday" and "half day".
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "present":
		return StatusPresent, true
	case "absent":
		return StatusAbsent, true
	case "half-day", "halfday", "half day", "half_day":
		return StatusHalfDay, true
	}
	return "", false
}
