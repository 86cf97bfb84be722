package values

// Context keys.
type ContextKey string

const (
	ContextTracingKey ContextKey = "tracing-context"
)

// Request headers.
const (
	HeaderRequestID = "X-Request-Id"
)

// Response statuses. Each maps to an HTTP status code in util.StatusCode.
const (
	Success        = "success"
	Created        = "created"
	Error          = "internal-error"
	BadRequestBody = "bad-request"
	NotFound       = "not-found"
	Unprocessable  = "unprocessable"
	Conflict       = "conflict"
	NotAllowed     = "not-allowed"
)
