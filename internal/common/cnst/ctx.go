package cnst

// gin context keys
const (
	CtxKeyClaims  = "claims"
	CtxKeyActor   = "actor"
	CtxKeyTraceID = "trace_id"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderTraceID       = "X-Trace-Id"
)
