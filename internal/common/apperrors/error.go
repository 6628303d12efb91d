// Package apperrors provides chained error values that carry a stable,
// machine-readable code next to the human message. Errors declared as
// package-level templates can be specialized with New, Msg or MsgErr while
// staying matchable with errors.Is against every ancestor.
package apperrors

// Error extends the standard error interface with chaining helpers and a code.
// All methods return Error so calls can be chained.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // creates a new error using current as template
	Msg(msg string) Error                  // creates a new error with message and wraps original
	MsgErr(msg string, err ...error) Error // creates error with message and wraps extra errors
	Err(err ...error) Error                // attaches additional errors to current error
	SetCode(code string) Error             // sets the machine-readable code
	Code() string                          // returns the code, inherited from the template
	Prefix(string) Error                   // adds a prefix to the error message
	Details() string                       // messages of the attached non-template errors
	ErrorAll() string                      // message followed by Details
	UnwrapAll() []error                    // returns all wrapped errors
}
