// Package apierr carries the error taxonomy shared by every platform
// client: transport failures and schema mismatches are different problems
// with different retry policies, so callers need to tell them apart.
package apierr

import (
	"errors"
	"fmt"
)

// NetworkError is a transport or HTTP-status failure. Status is zero when
// the request never produced a response.
type NetworkError struct {
	Platform string
	Status   int
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s network error (status %d): %v", e.Platform, e.Status, e.Err)
	}
	return fmt.Sprintf("%s network error: %v", e.Platform, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError is a payload that arrived but did not match the expected
// schema.
type DecodeError struct {
	Platform string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s decode error: %v", e.Platform, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
