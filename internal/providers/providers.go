// Package providers holds what the external AI vendors have in common: the
// error taxonomy services translate into user-facing failures.
package providers

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Kind int

const (
	KindUpstream Kind = iota
	KindUnconfigured
	KindQuota
	KindRateLimit
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindUnconfigured:
		return "unconfigured"
	case KindQuota:
		return "quota"
	case KindRateLimit:
		return "rate_limit"
	case KindAuth:
		return "auth"
	default:
		return "upstream"
	}
}

// Error is a classified vendor failure.
type Error struct {
	Provider   string
	StatusCode int    // HTTP status, 0 for gRPC or local failures
	Code       string // vendor error code, ex: "insufficient_quota"
	Message    string
	Kind       Kind
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Unconfigured reports a provider that cannot be called because a credential
// or feature switch is missing.
func Unconfigured(provider, msg string) error {
	return &Error{Provider: provider, Kind: KindUnconfigured, Message: msg}
}

// quotaCodes are vendor error codes that mean the account ran out of credit.
var quotaCodes = map[string]bool{
	"insufficient_quota": true,
	"quota_exceeded":     true,
}

// FromHTTP classifies a non-2xx vendor response.
func FromHTTP(provider string, statusCode int, code, msg string) error {
	e := &Error{Provider: provider, StatusCode: statusCode, Code: code, Message: msg}
	switch {
	case quotaCodes[code]:
		e.Kind = KindQuota
	case statusCode == http.StatusTooManyRequests:
		e.Kind = KindRateLimit
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Kind = KindAuth
	default:
		e.Kind = KindUpstream
	}
	return e
}

// FromGRPC classifies an error returned by a Google Cloud client.
// Errors that carry no gRPC status are kept as upstream failures.
func FromGRPC(provider string, err error) error {
	if err == nil {
		return nil
	}
	e := &Error{Provider: provider, Kind: KindUpstream, Err: err}
	st, ok := status.FromError(err)
	if !ok {
		return e
	}
	e.Code = st.Code().String()
	e.Message = st.Message()
	switch st.Code() {
	case codes.ResourceExhausted:
		e.Kind = KindQuota
	case codes.Unauthenticated, codes.PermissionDenied:
		e.Kind = KindAuth
	}
	return e
}

// KindOf returns the classification of err, or KindUpstream when err is not a
// provider error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUpstream
}

// NameOf returns the provider that produced err, if any.
func NameOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Provider
	}
	return ""
}
