package transport

import "fmt"

// Error reports an exchange-level failure: the request never completed.
type Error struct {
	Op  string
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusError reports a completed exchange whose status was outside the
// caller's expected set. The response body is kept for diagnostics.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, truncate(e.Body, 256))
}

// ValidateStatus checks the response status against the expected set.
// An empty expected set accepts any status.
func ValidateStatus(resp *Response, expected ...int) error {
	if len(expected) == 0 {
		return nil
	}
	for _, code := range expected {
		if resp.StatusCode == code {
			return nil
		}
	}
	return &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
}

func truncate(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
