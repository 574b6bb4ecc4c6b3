package apiclient

import (
	"fmt"
	"net/http"
	"strings"
)

// TransportError means the request never produced a response: connection
// refused, DNS failure or timeout. A response whose body cannot be read is not
// a TransportError; Interpret turns it into a failed Result with the real
// status.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError is a reachable server answering with a non-2xx status.
type HTTPError struct {
	Status  int
	Message string
	URL     string
}

func (e *HTTPError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.URL, e.Status, msg)
}
