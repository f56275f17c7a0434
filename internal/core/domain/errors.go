package domain

import "fmt"

// DomainError is an error with a stable code of the form GM-<AREA>-<NNNN>.
// Two DomainErrors match under errors.Is when their codes are equal, so
// the package-level values below work as sentinels even after
// WithDetails or WithCause.
type DomainError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DomainError) Unwrap() error { return e.Cause }

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// NewDomainError creates a DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy of e carrying details.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy of e wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// Configuration errors (CFG)
var (
	ErrConfigNotFound = NewDomainError("GM-CFG-4040", "configuration not found")
	ErrConfigInvalid  = NewDomainError("GM-CFG-4000", "invalid configuration definition")
	ErrConfigConflict = NewDomainError("GM-CFG-4090", "configuration already registered")
)

// Configuration mode errors (MODE)
var (
	// ErrCfgModeInvalid is an unknown cfg mode name or an out-of-range value.
	ErrCfgModeInvalid = NewDomainError("GM-MODE-4000", "invalid cfg mode")
	// ErrCfgModeReserved is a value in the reserved 8..11 range.
	ErrCfgModeReserved = NewDomainError("GM-MODE-4001", "reserved cfg mode value")
	// ErrCfgModeUnset means the definition does not declare cfg_mode.
	ErrCfgModeUnset = NewDomainError("GM-MODE-4040", "cfg mode not configured")
)

// Argument errors (ARG)
var (
	ErrInvalidArgument = NewDomainError("GM-ARG-1001", "invalid argument")
	ErrMissingArgument = NewDomainError("GM-ARG-1002", "missing required argument")
	// ErrKeyNotFound is a rename table lacking the requested key.
	ErrKeyNotFound = NewDomainError("GM-ARG-4040", "key not found in mapping")
)
