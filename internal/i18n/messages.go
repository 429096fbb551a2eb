package i18n

// Message IDs of the embedded bundles
const (
	MsgLoginSuccess       = "success.login"
	MsgLogoutSuccess      = "success.logout"
	MsgAdminRegistered    = "success.admin_registered"
	MsgEmployeeRegistered = "success.employee_registered"
	MsgEmployeeDeleted    = "success.employee_deleted"
	MsgAttendanceMarked   = "success.attendance_marked"
	MsgAdvanceRecorded    = "success.advance_recorded"
	MsgEmployeeUpdated    = "success.employee_updated"
	MsgPasswordReset      = "success.password_reset"

	MsgErrInvalidRequest     = "error.invalid_request"
	MsgErrValidation         = "error.validation"
	MsgErrFutureDate         = "error.future_date"
	MsgErrInvalidCredentials = "error.invalid_credentials"
	MsgErrUnauthenticated    = "error.unauthenticated"
	MsgErrSessionEvicted     = "error.session_evicted"
	MsgErrAccountBlocked     = "error.account_blocked"
	MsgErrForbidden          = "error.forbidden"
	MsgErrNotFound           = "error.not_found"
	MsgErrRouteNotFound      = "error.route_not_found"
	MsgErrInternal           = "error.internal"
	MsgErrPanic              = "error.panic"
)
