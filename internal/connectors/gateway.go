package connectors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xela07ax/askrindo-ai-console/internal/normalize"
	"go.uber.org/zap"
)

// Response — полезная нагрузка успешного (или мягко отказавшего) вызова агента.
type Response struct {
	Result  normalize.Result `json:"result,omitempty"`
	Message string           `json:"message,omitempty"`
}

// InvokeResult — конверт ответа агентской платформы.
// Единственный успешный путь для движка: Success == true И Response.Result != nil.
// Любая другая форма (включая success без result) — мягкий отказ, не ошибка транспорта.
type InvokeResult struct {
	Success  bool      `json:"success"`
	Response *Response `json:"response,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Ok сообщает, пришел ли полноценный результат.
func (r *InvokeResult) Ok() bool {
	return r != nil && r.Success && r.Response != nil && r.Response.Result != nil
}

// FailureMessage выбирает строку для показа оператору при мягком отказе:
// сначала собственная ошибка шлюза, затем message ответа.
func (r *InvokeResult) FailureMessage() string {
	if r == nil {
		return ""
	}
	if r.Error != "" {
		return r.Error
	}
	if r.Response != nil {
		return r.Response.Message
	}
	return ""
}

// Gateway — контракт вызова внешнего AI-агента. promptText — свободный текст,
// agentID — непрозрачный маршрутный ключ, ядром не разбирается.
type Gateway interface {
	Invoke(ctx context.Context, prompt, agentID string) (*InvokeResult, error)
}

// HTTPGateway — клиент агентской платформы поверх HTTP/JSON.
type HTTPGateway struct {
	endpoint string
	hc       *http.Client
	timeout  time.Duration
	logger   *zap.Logger
}

func NewHTTPGateway(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPGateway {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPGateway{
		endpoint: endpoint,
		hc:       &http.Client{Timeout: timeout},
		timeout:  timeout,
		logger:   logger.Named("agent-gateway"),
	}
}

type invokeRequest struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
}

// Invoke отправляет промпт агенту и декодирует конверт ответа.
// Транспортные проблемы возвращаются ошибкой; success:false и отсутствие
// result отдаются как есть — их таксономия принадлежит вызывающему.
func (g *HTTPGateway) Invoke(ctx context.Context, prompt, agentID string) (*InvokeResult, error) {
	body, err := json.Marshal(invokeRequest{Message: prompt, AgentID: agentID})
	if err != nil {
		return nil, fmt.Errorf("gateway: marshal request: %w", err)
	}

	// Защитный таймаут на уровне вызова, даже если контекст выше без дедлайна
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &ThrottleError{
			RetryAfter: retryAfter(resp),
			Cause:      fmt.Errorf("agent platform throttled request"),
		}
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("gateway: agent platform returned %d", resp.StatusCode)
	}

	var out InvokeResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gateway: decode response: %w", err)
	}

	g.logger.Debug("agent invoked",
		zap.String("agent_id", agentID),
		zap.Bool("success", out.Success),
		zap.Duration("took", time.Since(start)))
	return &out, nil
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 2 * time.Second
}
