package auth

// Kind identifies a class of authentication or authorization failure.
// The set is closed: every failure surfaced by this package carries
// exactly one of these values.
type Kind string

const (
	KindMissingToken     Kind = "missing_token"
	KindExpired          Kind = "expired"
	KindInvalidSignature Kind = "invalid_signature"
	KindInvalidFormat    Kind = "invalid_format"
	KindInvalidClaims    Kind = "invalid_claims"
	// KindRevoked is reserved: no revocation store exists, so the codec
	// never produces it, but the slot and its gate mapping are kept for
	// forward compatibility.
	KindRevoked          Kind = "revoked"
	KindUnknown          Kind = "unknown"
	KindMissingUser      Kind = "missing_user"
	KindPermissionDenied Kind = "permission_denied"
	KindNotFound         Kind = "not_found"
)

// Error is a classified authentication/authorization failure.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// NewError creates a classified auth error
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
