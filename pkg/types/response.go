package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope carries the top-level message the dashboard surfaces to
// operators plus a machine-readable code.
type ErrorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
