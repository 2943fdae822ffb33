package types

// SuccessEnvelope wraps every 2xx body; a degraded catalog browse also
// answers with it so the client can read the fetch status.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError carries a stable code plus a message safe to show shoppers.
// Details holds per-field validation messages when there are any.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
