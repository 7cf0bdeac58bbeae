package core

// Error codes for domain errors surfaced over the push channel.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotInRoom   = "not_in_room"
	ErrCodeInvalidRole = "invalid_role"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
