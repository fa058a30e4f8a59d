package payment

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRefundAmount = errors.New("refund amount must be positive")
	ErrSandboxEndpoints    = errors.New("sandbox requires explicit api domain and gateway")
)

// TransportError reports a failed call to the gateway: either no response
// at all (StatusCode 0, Err set) or a non-2xx status with its body.
type TransportError struct {
	Op         string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("sqb %s request failed: %v", e.Op, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("sqb %s error: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("sqb %s error: status %d: %s", e.Op, e.StatusCode, string(e.Body))
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
