// Package knowledge загружает документы в базу знаний агентской платформы
// (обучение RAG-индекса продуктового чат-бота).
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/xela07ax/askrindo-ai-console/internal/connectors"
	"go.uber.org/zap"
)

type Options struct {
	Attempts uint          // 0 -> 3
	Delay    time.Duration // базовая задержка бэкоффа, 0 -> 1s
	Timeout  time.Duration // на одну попытку, 0 -> 60s
}

// Client — клиент ингестии. В отличие от вызовов агентов здесь повторные
// попытки уместны: загрузка идемпотентна и оператор ждет итог, а не шаг.
type Client struct {
	endpoint string
	baseID   string
	hc       *http.Client
	attempts uint
	delay    time.Duration
	logger   *zap.Logger
}

func NewClient(endpoint, baseID string, opts Options, logger *zap.Logger) *Client {
	if opts.Attempts == 0 {
		opts.Attempts = 3
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		baseID:   baseID,
		hc:       &http.Client{Timeout: opts.Timeout},
		attempts: opts.Attempts,
		delay:    opts.Delay,
		logger:   logger.Named("knowledge"),
	}
}

type ingestEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Ingest отправляет документ на обучение. Тело читается один раз,
// каждая попытка собирает multipart заново из буфера.
func (c *Client) Ingest(ctx context.Context, filename string, doc io.Reader) error {
	payload, err := io.ReadAll(doc)
	if err != nil {
		return fmt.Errorf("knowledge: read document: %w", err)
	}

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		// Умный расчет задержки
		retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
			// Платформа сама сказала, сколько ждать
			var tErr *connectors.ThrottleError
			if errors.As(err, &tErr) {
				return tErr.RetryAfter
			}

			// В остальных случаях (сетевой лаг, 500-ка) — стандартный экспоненциальный бэкофф
			return retry.BackOffDelay(n, err, config)
		}),
	)

	err = r.Do(func() error {
		return c.upload(ctx, filename, payload)
	})
	if err != nil {
		return err
	}

	c.logger.Info("document ingested",
		zap.String("file", filename),
		zap.String("knowledge_base", c.baseID),
		zap.Int("bytes", len(payload)))
	return nil
}

func (c *Client) upload(ctx context.Context, filename string, payload []byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("knowledge_base_id", c.baseID); err != nil {
		return retry.Unrecoverable(fmt.Errorf("knowledge: build form: %w", err))
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("knowledge: build form: %w", err))
	}
	if _, err := part.Write(payload); err != nil {
		return retry.Unrecoverable(fmt.Errorf("knowledge: build form: %w", err))
	}
	if err := mw.Close(); err != nil {
		return retry.Unrecoverable(fmt.Errorf("knowledge: build form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("knowledge: build request: %w", err))
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("knowledge: upload failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &connectors.ThrottleError{
			RetryAfter: retryAfter(resp),
			Cause:      fmt.Errorf("knowledge base throttled upload"),
		}
	case resp.StatusCode >= 500:
		return fmt.Errorf("knowledge: platform returned %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		// Клиентская ошибка не лечится повтором
		return retry.Unrecoverable(fmt.Errorf("knowledge: platform rejected upload with %d", resp.StatusCode))
	}

	var env ingestEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("knowledge: decode response: %w", err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "training failed"
		}
		return retry.Unrecoverable(fmt.Errorf("knowledge: %s", msg))
	}
	return nil
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		var secs int
		if _, err := fmt.Sscanf(v, "%d", &secs); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 2 * time.Second
}
