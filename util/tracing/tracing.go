package tracing

// Context carries per-request identifiers through handler and helper calls.
type Context struct {
	RequestID string
}
