package parser

import "fmt"

// TransportError indicates the parser backend could not be reached at all
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("parser backend unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError indicates the backend answered with a non-success HTTP status
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("parser backend returned status %d", e.StatusCode)
}

// ParseFailure indicates a success status whose body lacked a usable parsed
// payload. The backend reports its own pipeline failures this way, with an
// error string in an otherwise 200 response.
type ParseFailure struct {
	Reason string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parser backend returned no parsed resume: %s", e.Reason)
}
