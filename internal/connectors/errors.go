package connectors

import (
	"fmt"
	"time"
)

// ThrottleError сигнализирует, что платформа попросила подождать
// (считанный Retry-After). Клиент ингестии знаний использует его
// для умного расчета задержки между попытками.
type ThrottleError struct {
	RetryAfter time.Duration
	Cause      error
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("throttled: retry after %v (cause: %v)", e.RetryAfter, e.Cause)
}

func (e *ThrottleError) Unwrap() error { return e.Cause }
