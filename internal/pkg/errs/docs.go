// Package errs provides the validation and lookup error types shared by the domain
// model, the command handlers and the HTTP adapter.
//
// Each type pairs a sentinel (ErrValueIsRequired, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrObjectNotFound) with a struct carrying the details:
//   - constructors with and without a cause
//   - Error() formats the details
//   - Unwrap() exposes the sentinel, so callers classify with errors.Is
package errs
