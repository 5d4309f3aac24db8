package types

// SuccessEnvelope is the wire shape every successful endpoint returns.
// The frontend keys off the success flag before reading data.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}
