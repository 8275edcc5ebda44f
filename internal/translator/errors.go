package translator

import (
	"fmt"
)

// TransportError is returned when the request could not be completed or the
// endpoint answered with a non-2xx status. StatusCode is 0 when no response
// was received.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("translation request failed: %v", e.Err)
	}
	return fmt.Sprintf("translation API error: %d - %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResponseFormatError is returned when the reply does not have the
// [[[ [translated, ...], ... ]]] shape.
type ResponseFormatError struct {
	Reason string
	Body   string
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("unexpected API response format: %s", e.Reason)
}
