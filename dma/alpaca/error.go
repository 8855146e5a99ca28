package alpaca

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedErrorBody is returned for a non-2xx response whose body is not
// an [Error]. This is typically a proxy or infrastructure failure rather than
// a rejection by the service.
var ErrMalformedErrorBody = errors.New("malformed error body")

// Error is the body of any non-2xx response from the service.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (x *Error) Error() string {
	return fmt.Sprintf("(%d) %s", x.Code, x.Message)
}

// decodeError returns an [*Error] from the body, or [ErrMalformedErrorBody].
func decodeError(status int, body []byte) error {
	e := &Error{}
	if err := json.Unmarshal(body, e); err != nil || (e.Code == 0 && e.Message == "") {
		return fmt.Errorf("%w: status %d: %q", ErrMalformedErrorBody, status, snippet(body))
	}
	return e
}

func snippet(body []byte) string {
	const limit = 128
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
