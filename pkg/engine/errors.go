package engine

import (
	apperrors "github.com/MBatuhanOzer/filter/pkg/errors"
)

// The engine surfaces the five error kinds named in the design's error
// taxonomy as *apperrors.AppError, so CLI/server callers can test error
// identity with apperrors.Is(err, apperrors.UnsupportedKindError) without
// caring that the error originated inside the engine.

func ErrUnsupportedKind(k Kind) error {
	return apperrors.ErrUnsupportedKind(k)
}

func ErrShapeMismatch(reason string) error {
	return apperrors.ErrShapeMismatch(reason)
}

func ErrQueueFull() error {
	return apperrors.ErrQueueFull()
}

func ErrResourceExhausted(cause error) error {
	return apperrors.ErrResourceExhausted(cause)
}

func ErrShutdown() error {
	return apperrors.ErrShutdown()
}
