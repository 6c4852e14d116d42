package domain

import "errors"

// Result holds either a value or the error that prevented producing it
type Result[T any] struct {
	value T
	err   error
}

// Success wraps a value
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure wraps an error. A nil error is replaced with ErrUnknown so the
// result stays a failure.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = ErrUnknown
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether the result carries a value
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Get returns the value and error in the usual Go shape
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// Err returns the failure, or nil on success
func (r Result[T]) Err() error {
	return r.err
}

// Message returns the failure's human-readable text, or fallback when the
// failure carries none. It returns "" for a success.
func (r Result[T]) Message(fallback string) string {
	if r.err == nil {
		return ""
	}
	if errors.Is(r.err, ErrUnknown) {
		return fallback
	}
	if msg := r.err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// Fold calls exactly one of onSuccess or onFailure
func (r Result[T]) Fold(onSuccess func(T), onFailure func(error)) {
	if r.err != nil {
		onFailure(r.err)
		return
	}
	onSuccess(r.value)
}
