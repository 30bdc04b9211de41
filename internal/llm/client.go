package llm

import (
	"context"
	"errors"
	"fmt"
)

// Completer turns a prompt into a completion. Implementations must be safe
// for concurrent use.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindTimeout   ErrorKind = "timeout"
	KindRejected  ErrorKind = "rejected"
	KindEmpty     ErrorKind = "empty"
	KindMalformed ErrorKind = "malformed"
	KindCancelled ErrorKind = "cancelled"
)

// CompletionError is the failure of a single completion call.
type CompletionError struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s completion %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("completion %s: %v", e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// AsCompletionError returns err as a *CompletionError, classifying plain
// errors by their context state.
func AsCompletionError(provider string, err error) *CompletionError {
	if err == nil {
		return nil
	}
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce
	}
	kind := KindTransport
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.Is(err, context.Canceled):
		kind = KindCancelled
	}
	return &CompletionError{Kind: kind, Provider: provider, Err: err}
}

var ErrEmptyCompletion = errors.New("model returned no text")
