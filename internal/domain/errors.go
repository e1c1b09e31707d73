package domain

import (
	"encoding/json"
	"fmt"
)


// Kind classifies a translation failure.
type Kind string

// Error kinds.
const (
	KindInvalidMethod       Kind = "InvalidMethod"
	KindMissingField        Kind = "MissingField"
	KindTranslationFailed   Kind = "TranslationFailed"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrInvalidMethod       = &Error{Kind: KindInvalidMethod}
	ErrMissingField        = &Error{Kind: KindMissingField}
	ErrTranslationFailed   = &Error{Kind: KindTranslationFailed}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable}
)

// Error is the tagged error returned by the translation core.
// ErrorCode is only set for TranslationFailed. Details carries the upstream
// payload or body when one exists.
type Error struct {
	Kind      Kind
	Message   string
	ErrorCode string
	Details   []byte
	Err       error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.ErrorCode != "" {
		msg += fmt.Sprintf(" (errorCode %s)", e.ErrorCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Detail returns the most useful human-readable detail: the upstream body
// when present, otherwise the wrapped error message.
func (e *Error) Detail() string {
	if len(e.Details) > 0 {
		return string(e.Details)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// MissingField reports an absent required request field.
func MissingField(field string) *Error {
	return &Error{Kind: KindMissingField, Message: fmt.Sprintf("missing %q parameter", field)}
}

// InvalidMethod reports an unsupported HTTP verb.
func InvalidMethod(method string) *Error {
	return &Error{Kind: KindInvalidMethod, Message: fmt.Sprintf("method %s not allowed", method)}
}

// TranslationFailed reports a non-zero upstream errorCode.
func TranslationFailed(code string, raw json.RawMessage) *Error {
	return &Error{Kind: KindTranslationFailed, Message: "upstream rejected translation", ErrorCode: code, Details: raw}
}

// UpstreamUnavailable reports a transport-level failure.
func UpstreamUnavailable(err error, body []byte) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Message: "upstream request failed", Details: body, Err: err}
}
