// Package trash wraps the platform's trash / recycle-bin primitive behind a
// narrow capability so the scan and clean engines stay platform-neutral.
package trash

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no trash store exists on this system.
var ErrUnavailable = errors.New("trash unavailable")

// Info is the aggregate content of the trash.
type Info struct {
	Size  int64
	Items int64
}

// Status is the result class of an Empty call.
type Status int

const (
	StatusOK Status = iota
	StatusAlreadyEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAlreadyEmpty:
		return "already empty"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Outcome is returned by Empty. Code carries the platform status code
// (an HRESULT on Windows) when Status is StatusFailed.
type Outcome struct {
	Status Status
	Code   uint32
	Err    error
}

// String renders the outcome for error lists and logs.
func (o Outcome) String() string {
	if o.Status != StatusFailed {
		return o.Status.String()
	}
	switch {
	case o.Err != nil && o.Code != 0:
		return fmt.Sprintf("empty trash failed (code 0x%08x): %v", o.Code, o.Err)
	case o.Err != nil:
		return fmt.Sprintf("empty trash failed: %v", o.Err)
	default:
		return fmt.Sprintf("empty trash failed (code 0x%08x)", o.Code)
	}
}

// Failed builds a failure outcome.
func Failed(code uint32, err error) Outcome {
	return Outcome{Status: StatusFailed, Code: code, Err: err}
}

// Adapter is the trash capability consumed by the engines.
type Adapter interface {
	// Query reports total bytes and item count currently in the trash.
	Query(ctx context.Context) (Info, error)

	// Empty permanently removes everything in the trash.
	Empty(ctx context.Context) Outcome
}

// Default returns the adapter for the running platform.
func Default() Adapter {
	return newPlatformAdapter()
}
