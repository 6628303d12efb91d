package monmarche

import (
	"errors"

	"github.com/monmarche/monmarche-cli/internal/common/apperrors"
)

var (
	// ErrMissingCredentials is returned when login is attempted without both
	// an email and a password. No call is made.
	ErrMissingCredentials apperrors.Error = apperrors.New("email or password not set").SetCode("missing_credentials")

	// ErrNotAuthenticated is returned by every authenticated operation while no
	// session credential is persisted. No call is made.
	ErrNotAuthenticated apperrors.Error = apperrors.New("not authenticated").SetCode("not_authenticated")

	// ErrRemoteCall is returned when a call could not be completed or its body
	// could not be decoded. The underlying cause is kept as detail.
	ErrRemoteCall apperrors.Error = apperrors.New("remote call failed").SetCode("remote_call_failure")

	// ErrApplication is returned when the backend answered but the body itself
	// reports a domain error.
	ErrApplication apperrors.Error = apperrors.New("backend rejected the request").SetCode("application_error")

	// ErrShapeMismatch is returned when a decoded body lacks a field the
	// operation cannot do without.
	ErrShapeMismatch apperrors.Error = apperrors.New("unexpected response shape").SetCode("shape_mismatch")

	// ErrInvalidInput is returned when arguments fail validation.
	ErrInvalidInput apperrors.Error = apperrors.New("invalid input").SetCode("invalid_input")
)

// ApplicationError carries the error reported inside a backend response body.
type ApplicationError struct {
	Reason  string // the body's "error" field
	Message string // the body's optional "message" field
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.Message
}

// ErrorRecord is the {error, message?, details?} record handed to callers
// in place of a success payload.
type ErrorRecord struct {
	Code    string `json:"code,omitempty"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// ToErrorRecord converts any operation error into an ErrorRecord.
func ToErrorRecord(err error) ErrorRecord {
	if err == nil {
		return ErrorRecord{}
	}
	rec := ErrorRecord{Error: err.Error()}
	if ae, ok := apperrors.As(err); ok {
		rec.Code = ae.Code()
		rec.Details = ae.Details()
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		rec.Error = appErr.Reason
		rec.Message = appErr.Message
		rec.Details = ""
	}
	return rec
}

func remoteFailure(msg string, err error) error {
	return ErrRemoteCall.MsgErr(msg, err)
}
