package fourc

import (
	"errors"
	"fmt"
	"syscall"
)

// Error represents a structured go-4c error with enough context to log or
// match against programmatically via errors.Is/As.
type Error struct {
	Op     string        // operation that failed, e.g. "open-device", "allocate"
	Device string        // device path, empty if not applicable
	Code   ErrorCode     // high-level error category
	Errno  syscall.Errno // kernel errno, 0 if not applicable
	Msg    string        // human-readable message
	Inner  error         // wrapped error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	switch {
	case e.Device != "" && e.Errno != 0:
		return fmt.Sprintf("4c: %s: %s (device=%s errno=%d)", e.Op, msg, e.Device, e.Errno)
	case e.Device != "":
		return fmt.Sprintf("4c: %s: %s (device=%s)", e.Op, msg, e.Device)
	case e.Errno != 0:
		return fmt.Sprintf("4c: %s: %s (errno=%d)", e.Op, msg, e.Errno)
	default:
		return fmt.Sprintf("4c: %s: %s", e.Op, msg)
	}
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Inner }

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// ErrorCode is a high-level error category, used for programmatic matching
// and for deciding whether a failure is fatal (stops the whole run) or a
// per-operation failure (counted and skipped).
type ErrorCode string

const (
	ErrCodeNoDevices         ErrorCode = "no devices specified"
	ErrCodeZeroSizeDevice    ErrorCode = "device reports zero size"
	ErrCodeInvalidParameters ErrorCode = "invalid parameters"
	ErrCodeOpenFailed        ErrorCode = "failed to open device"
	ErrCodeSizeQueryFailed   ErrorCode = "failed to query device size"
	ErrCodeAllocationFailed  ErrorCode = "buffer allocation failed"
	ErrCodeReportWriteFailed ErrorCode = "failed to write report"
	ErrCodeIOError           ErrorCode = "I/O error"
	ErrCodeUnsupported       ErrorCode = "unsupported platform"
)

// NewError creates a structured error with no device/errno context.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewDeviceError creates a structured error scoped to a specific device.
func NewDeviceError(op, device string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Device: device, Code: code, Msg: msg}
}

// WrapErrno wraps a raw syscall error with device context and a mapped code.
func WrapErrno(op, device string, err error) *Error {
	if err == nil {
		return nil
	}
	if errno, ok := err.(syscall.Errno); ok {
		return &Error{
			Op:     op,
			Device: device,
			Code:   mapErrnoToCode(errno),
			Errno:  errno,
			Msg:    errno.Error(),
			Inner:  err,
		}
	}
	return &Error{Op: op, Device: device, Code: ErrCodeIOError, Msg: err.Error(), Inner: err}
}

func mapErrnoToCode(errno syscall.Errno) ErrorCode {
	switch errno {
	case syscall.EINVAL, syscall.E2BIG:
		return ErrCodeInvalidParameters
	case syscall.ENOMEM:
		return ErrCodeAllocationFailed
	case syscall.ENOENT, syscall.EACCES, syscall.EPERM, syscall.EBUSY, syscall.ENODEV:
		return ErrCodeOpenFailed
	default:
		return ErrCodeIOError
	}
}

// IsCode reports whether err is, or wraps, an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
