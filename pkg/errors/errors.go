package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfiguration represents missing or invalid startup configuration
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeTransport represents fetch-layer failures (DNS, connect, read)
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeRemoteStatus represents non-success HTTP responses
	ErrorTypeRemoteStatus ErrorType = "remote_status"
	// ErrorTypeRateLimit represents rate limiting responses and active cooldowns
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeExtraction represents listing pages that could not be turned into ads
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeTimeParse represents unrecognized publish time texts
	ErrorTypeTimeParse ErrorType = "time_parse"
	// ErrorTypePublisher represents notification sink failures
	ErrorTypePublisher ErrorType = "publisher"
)

// Error is the error value used across the watcher. Source names the
// component or URL the error belongs to, Fields lists the offending
// parameters or ad fields when there are any.
type Error struct {
	Type    ErrorType
	Source  string
	Message string
	Fields  []string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.Type)
	if e.Source != "" {
		fmt.Fprintf(&b, " %s:", e.Source)
	}
	fmt.Fprintf(&b, " %s", e.Message)
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " %v", e.Fields)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " - %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the error must stop the process instead of the
// current cycle only.
func (e *Error) IsFatal() bool {
	return e.Type == ErrorTypeConfiguration
}

// TypeOf returns the ErrorType of the first *Error in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return "", false
}

// IsType reports whether err's chain contains an *Error of the given type.
func IsType(err error, t ErrorType) bool {
	got, ok := TypeOf(err)
	return ok && got == t
}

// New creates a new Error
func New(errType ErrorType, source, message string, err error) *Error {
	return &Error{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewConfiguration creates a configuration error listing the offending parameters
func NewConfiguration(message string, params ...string) *Error {
	e := New(ErrorTypeConfiguration, "", message, nil)
	e.Fields = params
	return e
}

// NewTransport creates a new transport error
func NewTransport(source, message string, err error) *Error {
	return New(ErrorTypeTransport, source, message, err)
}

// NewRemoteStatus creates an error for a non-success response status
func NewRemoteStatus(source string, status int) *Error {
	return New(ErrorTypeRemoteStatus, source, fmt.Sprintf("unexpected status code: %d", status), nil)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *Error {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewExtraction creates an extraction error naming the missing ad fields
func NewExtraction(source, message string, fields ...string) *Error {
	e := New(ErrorTypeExtraction, source, message, nil)
	e.Fields = fields
	return e
}

// NewTimeParse creates a new time parse error for the given raw text
func NewTimeParse(raw string, err error) *Error {
	return New(ErrorTypeTimeParse, "", fmt.Sprintf("unrecognized publish time %q", raw), err)
}

// NewPublisher creates a new publisher error
func NewPublisher(source, message string, err error) *Error {
	return New(ErrorTypePublisher, source, message, err)
}
