// Package errs defines the error taxonomy the core raises. Failures the
// taxonomy names are returned as an Error carrying one of the Kind values
// below so the HTTP collaborator can map it to a status code without
// inspecting error strings. Errors from collaborators (repositories, the
// session store, the random source) are in several places passed through
// unwrapped.
package errs

import "fmt"

// Kind is a coarse classification of a failure, not a concrete error type.
type Kind string

const (
	// UnsupportedGrantType is raised when a client requests a grant this
	// core does not implement (anything but client_credentials).
	UnsupportedGrantType Kind = "unsupported_grant_type"

	// InvalidCredentials is raised when a password or client secret does
	// not match, or the subject does not exist. It MUST NOT distinguish
	// "unknown subject" from "wrong secret" to the caller.
	InvalidCredentials Kind = "invalid_credentials"

	// Unauthorized is raised for a missing/invalid token or a missing
	// session.
	Unauthorized Kind = "unauthorized"

	// NotEnabled is raised for a disabled client/realm or a banned user.
	NotEnabled Kind = "not_enabled"

	// PermissionDenied is raised when scope intersection is empty or the
	// target realm of a switch is disabled.
	PermissionDenied Kind = "permission_denied"

	// InvalidToken is raised internally by the token service on decode or
	// signature failure. Callers outside the token service observe this
	// as Unauthorized.
	InvalidToken Kind = "invalid_token"

	// NotFound is raised when an identity provider is not registered or a
	// user is not linked to a provider.
	NotFound Kind = "not_found"

	// AlreadyExists is raised on a unique-constraint violation during
	// create (e.g. duplicate email).
	AlreadyExists Kind = "already_exists"

	// BadRequest is raised for a consumed/missing PKCE state or a
	// malformed argument.
	BadRequest Kind = "bad_request"
)

// DefaultHTTPStatus is a convenience mapping for the HTTP collaborator;
// the core itself never imports net/http.
func (k Kind) DefaultHTTPStatus() int {
	switch k {
	case UnsupportedGrantType, BadRequest:
		return 400
	case InvalidCredentials, Unauthorized, InvalidToken:
		return 401
	case NotEnabled, PermissionDenied:
		return 403
	case NotFound:
		return 404
	case AlreadyExists:
		return 409
	default:
		return 500
	}
}

// Error is the carrier type exported core methods return for the failures
// the taxonomy names.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error that carries an underlying cause for logging, while
// keeping the message shown to the caller independent of it.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}
