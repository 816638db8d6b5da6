package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInvalidState        = "INVALID_STATE"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeOverlapConflict     = "OVERLAP_CONFLICT"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeNoBalanceRecord     = "NO_BALANCE_RECORD"
	CodeBalanceExhausted    = "BALANCE_EXHAUSTED"
	CodeAlreadyProcessed    = "ALREADY_PROCESSED"
	CodeAlreadyUsed         = "ALREADY_USED"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
