package backend

import "fmt"

// TransportError - the request did not get a response
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("can't call '%s': %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError - the backend responded with non 2xx code
type ProtocolError struct {
	Code int
	Body string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// MalformedResponseError - 2xx response is not a valid json
type MalformedResponseError struct {
	Body string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("invalid JSON response: %s", e.Body)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
