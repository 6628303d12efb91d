package apperrors

import (
	"errors"
	"strings"
)

// appError is the concrete Error. base links to the template the error was
// derived from; extra holds causes attached through Err or MsgErr.
type appError struct {
	msg    string
	code   string
	base   error
	extra  []error
	prefix string
}

func (e *appError) Error() string {
	if e.prefix != "" {
		return e.prefix + ": " + e.msg
	}
	return e.msg
}

// Details joins the messages of the attached causes. Templates in the chain
// are not repeated.
func (e *appError) Details() string {
	parts := make([]string, 0, len(e.extra))
	for _, err := range e.extra {
		if err == nil {
			continue
		}
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

func (e *appError) ErrorAll() string {
	d := e.Details()
	if d == "" {
		return e.Error()
	}
	return e.Error() + ": " + d
}

func (e *appError) Unwrap() error {
	return e.base
}

func (e *appError) UnwrapAll() []error {
	all := make([]error, 0, len(e.extra)+1)
	if e.base != nil {
		all = append(all, e.base)
	}
	return append(all, e.extra...)
}

// New creates a fresh error using the current error as a template.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:  msg,
		code: e.code,
		base: e,
	}
}

// Msg replaces the message and keeps the causes already attached.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:   msg,
		code:  e.code,
		base:  e,
		extra: append([]error(nil), e.extra...),
	}
}

func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:   msg,
		code:  e.code,
		base:  e,
		extra: append(append([]error(nil), e.extra...), errs...),
	}
}

func (e *appError) Err(errs ...error) Error {
	return &appError{
		msg:   e.msg,
		code:  e.code,
		base:  e,
		extra: append(append([]error(nil), e.extra...), errs...),
	}
}

// SetCode returns a shallow copy with an updated code.
func (e *appError) SetCode(code string) Error {
	cp := *e
	cp.code = code
	return &cp
}

func (e *appError) Code() string {
	return e.code
}

// Prefix returns a shallow copy with an updated prefix.
func (e *appError) Prefix(p string) Error {
	cp := *e
	cp.prefix = p
	return &cp
}

// New creates a root-level error with the given message.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

// Is reports whether target is this error's template chain or one of the
// attached causes.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.extra {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// As lets errors.As reach the attached causes, which Unwrap does not expose.
func (e *appError) As(target any) bool {
	for _, err := range e.extra {
		if err != nil && errors.As(err, target) {
			return true
		}
	}
	return false
}

// As returns the first Error found in err's chain.
func As(err error) (Error, bool) {
	var ae Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
