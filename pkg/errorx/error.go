package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// New creates a user-facing error. The message is returned to the client
// as-is, so keep internal details out of it and log them instead.
func New(code Code, format string, a ...any) error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}
