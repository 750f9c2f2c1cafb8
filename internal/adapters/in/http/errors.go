package http

import (
	"errors"
	"net/http"

	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/generated/servers"
	"pickup/internal/pkg/errs"
)

// ErrUnauthenticated is returned when a request carries no usable bearer token.
var ErrUnauthenticated = errors.New("unauthenticated")

type errorClass struct {
	target error
	status int
	kind   servers.ErrorKind
}

// errorClasses is ordered from the most specific sentinel to the most generic one.
// ErrAlreadyPickedUp wraps ErrTokenAlreadyConsumed on redemption, so it comes first.
var errorClasses = []errorClass{
	{order.ErrAlreadyPickedUp, http.StatusConflict, servers.ALREADYPICKEDUP},
	{pickup.ErrTokenAlreadyConsumed, http.StatusConflict, servers.TOKENALREADYCONSUMED},
	{pickup.ErrTokenAlreadyIssued, http.StatusConflict, servers.TOKENALREADYISSUED},
	{order.ErrInvalidTransition, http.StatusConflict, servers.INVALIDTRANSITION},
	{pickup.ErrTokenInvalidOrExpired, http.StatusUnprocessableEntity, servers.TOKENINVALIDOREXPIRED},
	{pickup.ErrBranchMismatch, http.StatusForbidden, servers.BRANCHMISMATCH},
	{ErrUnauthenticated, http.StatusUnauthorized, servers.UNAUTHORIZED},
	{order.ErrUnauthorized, http.StatusForbidden, servers.UNAUTHORIZED},
	{errs.ErrObjectNotFound, http.StatusNotFound, servers.ORDERNOTFOUND},
	{errs.ErrValueIsRequired, http.StatusBadRequest, servers.VALIDATIONFAILED},
	{errs.ErrValueIsInvalid, http.StatusBadRequest, servers.VALIDATIONFAILED},
	{errs.ErrValueIsOutOfRange, http.StatusBadRequest, servers.VALIDATIONFAILED},
}

// classify maps an application error to its HTTP status and stable error kind.
func classify(err error) (int, servers.ErrorKind) {
	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			return class.status, class.kind
		}
	}
	return http.StatusInternalServerError, servers.INTERNAL
}

// kindForStatus picks the error kind for failures raised by echo itself, such as
// malformed path parameters or unknown routes.
func kindForStatus(status int) servers.ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return servers.UNAUTHORIZED
	case status >= http.StatusInternalServerError:
		return servers.INTERNAL
	default:
		return servers.VALIDATIONFAILED
	}
}
