package identity

import (
	"errors"
	"fmt"
)

// Kind classifies provider failures so call sites can switch on them.
type Kind int

const (
	KindUnknown Kind = iota
	KindVerificationFailed
	KindRefreshFailed
	KindProviderUnavailable
	KindRevocationFailed
	KindLinkRejected
	KindSignInFailed
)

func (k Kind) String() string {
	switch k {
	case KindVerificationFailed:
		return "verification_failed"
	case KindRefreshFailed:
		return "refresh_failed"
	case KindProviderUnavailable:
		return "provider_unavailable"
	case KindRevocationFailed:
		return "revocation_failed"
	case KindLinkRejected:
		return "link_rejected"
	case KindSignInFailed:
		return "sign_in_failed"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Any *Error of the matching kind is Is-equal to
// its sentinel.
var (
	ErrVerificationFailed  = errors.New("identity: verification failed")
	ErrRefreshFailed       = errors.New("identity: refresh failed")
	ErrProviderUnavailable = errors.New("identity: provider unavailable")
	ErrRevocationFailed    = errors.New("identity: revocation failed")
	ErrLinkRejected        = errors.New("identity: sign-in link rejected")
	ErrSignInFailed        = errors.New("identity: sign-in failed")
)

var sentinels = map[Kind]error{
	KindVerificationFailed:  ErrVerificationFailed,
	KindRefreshFailed:       ErrRefreshFailed,
	KindProviderUnavailable: ErrProviderUnavailable,
	KindRevocationFailed:    ErrRevocationFailed,
	KindLinkRejected:        ErrLinkRejected,
	KindSignInFailed:        ErrSignInFailed,
}

// Error is a provider failure of a given Kind. Op names the provider call,
// Code carries the provider's own error code when there is one.
type Error struct {
	Kind Kind
	Op   string
	Code string
	Err  error
}

func (e *Error) Error() string {
	msg := "identity: " + e.Op + ": " + e.Kind.String()
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// Errorf builds an *Error wrapping a formatted cause.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap builds an *Error around err. A nil err still yields an error.
func Wrap(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for k, s := range sentinels {
		if errors.Is(err, s) {
			return k
		}
	}
	return KindUnknown
}
