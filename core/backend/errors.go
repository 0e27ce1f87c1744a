package backend

import (
	"fmt"
	"net/http"
)

// Error is returned by every failing Client call. StatusCode is zero when the
// request never produced a response.
type Error struct {
	Op         string
	StatusCode int
	// Detail is the backend's own error message, if it sent one.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Op + ": request failed"
}

func (e *Error) Unwrap() error {
	return e.Err
}
