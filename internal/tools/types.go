// Package tools exposes the retrieval pipeline as Genkit tools for the
// store agent. Handlers return a structured Result; business failures live
// in Result.Error so the model can read and react to them, while transport
// boundaries decide how to render them.
package tools

// Status reports the outcome of a tool handler.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Error codes returned in Result.Error.
const (
	ErrCodeValidation = "validation"
	ErrCodeExecution  = "execution"
)

// Result is the envelope every tool handler returns.
type Result struct {
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *Error         `json:"error,omitempty"`
}

// Error carries a machine-readable code and a human-readable message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}
