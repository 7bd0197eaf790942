package llm

import (
	"errors"
	"fmt"

	"github.com/umputun/bookmarker/pkg/domain"
)

// ErrorKind classifies provider failures
type ErrorKind string

// provider failure kinds
const (
	KindTimeout       ErrorKind = "timeout"
	KindHTTP          ErrorKind = "http"
	KindMalformed     ErrorKind = "malformed_response"
	KindConfiguration ErrorKind = "configuration"
)

// sentinel errors matching ProviderError by kind with errors.Is
var (
	ErrTimeout       = errors.New("provider timeout")
	ErrHTTP          = errors.New("provider http error")
	ErrMalformed     = errors.New("malformed provider response")
	ErrConfiguration = errors.New("provider configuration error")
)

// ProviderError is returned by Client.Classify and by provider adapters
type ProviderError struct {
	Kind       ErrorKind
	Provider   domain.ProviderID
	StatusCode int // set for http errors with a response
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s error: status %d: %s", e.Provider, e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s error: %s", e.Provider, e.Kind, msg)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is matches kind sentinels
func (e *ProviderError) Is(target error) bool {
	switch e.Kind {
	case KindTimeout:
		return target == ErrTimeout
	case KindHTTP:
		return target == ErrHTTP
	case KindMalformed:
		return target == ErrMalformed
	case KindConfiguration:
		return target == ErrConfiguration
	}
	return false
}

func configError(id domain.ProviderID, format string, args ...any) *ProviderError {
	return &ProviderError{Kind: KindConfiguration, Provider: id, Message: fmt.Sprintf(format, args...)}
}

func malformedError(id domain.ProviderID, format string, args ...any) *ProviderError {
	return &ProviderError{Kind: KindMalformed, Provider: id, Message: fmt.Sprintf(format, args...)}
}
