package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotLoggedIn is returned without contacting the server when a task
	// call is made with no session.
	ErrNotLoggedIn = errors.New("you must log in first")

	// ErrSessionExpired is returned after the server rejected the session
	// token and the session was cleared.
	ErrSessionExpired = errors.New("your session has expired, please log in again")

	ErrNothingToUndo = errors.New("nothing to undo")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Message
}

// TransportError means no HTTP response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "cannot reach the server: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is input rejected locally before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindServer
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// KindOf classifies err into the error taxonomy shared with the server.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrNotLoggedIn) || errors.Is(err, ErrSessionExpired) {
		return KindAuth
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}
	var terr *TransportError
	if errors.As(err, &terr) {
		return KindTransport
	}
	var aerr *APIError
	if errors.As(err, &aerr) {
		switch {
		case aerr.Status == http.StatusUnauthorized, aerr.Status == http.StatusForbidden:
			return KindAuth
		case aerr.Status == http.StatusNotFound:
			return KindNotFound
		case aerr.Status >= 500:
			return KindServer
		case aerr.Status >= 400:
			return KindValidation
		}
	}
	return KindUnknown
}
