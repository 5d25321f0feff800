package middlewares

const (
	CtxRequestID = "request_id"
	CtxCaller    = "identity.caller"
)
