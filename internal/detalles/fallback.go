package detalles

import (
	"go.uber.org/zap"
)

// Result is the outcome of a best-effort remote call. When the call fails
// Value holds the empty fallback, Degraded is set and Err keeps the cause.
type Result[T any] struct {
	Value    T
	Err      error
	Degraded bool
}

// Fallback runs fn and collapses every failure into a successful Result
// carrying empty. The failure is logged and never returned to the caller.
func Fallback[T any](logger *zap.Logger, op string, empty T, fn func() (T, error)) Result[T] {
	v, err := fn()
	if err != nil {
		logger.Warn("detalle-ventas call failed, using fallback",
			zap.String("op", op),
			zap.Error(err),
		)
		return Result[T]{Value: empty, Err: err, Degraded: true}
	}
	return Result[T]{Value: v}
}
