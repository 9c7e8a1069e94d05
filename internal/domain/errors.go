package domain

// ErrorKind categorizes engine failures. Insufficient data and
// degenerate margins degrade to fallback results inside the engine and
// never surface as fatal errors from batch entry points.
type ErrorKind string

const (
	ErrKindInsufficientData      ErrorKind = "insufficient_data"
	ErrKindInvalidClassification ErrorKind = "invalid_classification"
	ErrKindDegenerateMargin      ErrorKind = "degenerate_margin"
)

// EngineError carries the failing operation alongside its cause so
// callers can unwrap and branch on Kind.
type EngineError struct {
	Kind    ErrorKind
	Op      string
	Message string
	Cause   error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return e.Op + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Op + ": " + e.Message
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// DiagnosticKind tags reporting-only conditions attached to results.
type DiagnosticKind string

const (
	DiagnosticDegenerateMargin   DiagnosticKind = "degenerate_margin"
	DiagnosticIntegrityViolation DiagnosticKind = "integrity_violation"
)

// Diagnostic is a structured warning emitted next to a best-effort
// result. It is never an error: the engine returns the result anyway
// and lets the caller decide how to surface the condition.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
}
