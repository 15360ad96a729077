package connectors

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Guard оборачивает шлюз предохранителем и лимитером. Повторных попыток
// здесь нет намеренно: отказ шага виден оператору, и решение о повторе
// принимает он, а не инфраструктура.
type Guard struct {
	next    Gateway
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewGuard(next Gateway) *Guard {
	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "agent-gateway",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Если более 5 ошибок подряд — открываемся (блокируем трафик)
			return counts.ConsecutiveFailures > 5
		},
	})

	// Лимитер: 20 вызовов агентов в секунду с запасом на всплеск
	limiter := rate.NewLimiter(rate.Limit(20), 10)

	return &Guard{
		next:    next,
		cb:      cb,
		limiter: limiter,
	}
}

func (g *Guard) Invoke(ctx context.Context, prompt, agentID string) (*InvokeResult, error) {
	// 1. Rate Limiter
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	// 2. Circuit Breaker
	cbResult, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.Invoke(ctx, prompt, agentID)
	})
	if err != nil {
		return nil, err
	}

	return cbResult.(*InvokeResult), nil
}
