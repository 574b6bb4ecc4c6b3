package model

// ValidationError is a user-input problem caught before any request is sent.
// It is reported at warning level rather than as a failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
