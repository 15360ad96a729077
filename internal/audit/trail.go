package audit

/*
Trail — асинхронный конвейер доставки записей аудита во внешние приемники
(Postgres, Redis-фид). Леджер остается источником истины в памяти, Trail
лишь зеркалирует записи наружу, не влияя на Response Time горячего пути.

- Non-blocking: Record пишет в буферизованный канал; при переполнении
  включается Load Shedding — запись уходит в обычный лог, а не блокирует поток.
- Batching: события копятся и сбрасываются пачкой по лимиту или по таймеру.
- Drain Pattern: Stop закрывает входной канал и дожидается, пока воркер
  вычитает остатки и сделает финальный flush — записи не теряются на перезапуске.
*/

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// BatchSink — куда физически уходят записи (пачкой за один вызов).
type BatchSink interface {
	WriteBatch(ctx context.Context, entries []Entry) error
}

// TrailOptions — настройки конвейера. Нулевые значения заменяются дефолтами.
type TrailOptions struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
	BufferFill    prometheus.Gauge // опционально: заполненность буфера
}

type Trail struct {
	ch     chan Entry
	sink   BatchSink
	logger *zap.Logger
	wg     sync.WaitGroup
	opts   TrailOptions

	// Атомарный флаг (0 - открыт, 1 - закрыт): защита от Record после Stop
	isClosed int32
}

func NewTrail(sink BatchSink, logger *zap.Logger, opts TrailOptions) *Trail {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 500 * time.Millisecond
	}
	return &Trail{
		ch:     make(chan Entry, opts.BufferSize),
		sink:   sink,
		logger: logger.Named("audit-trail"),
		opts:   opts,
	}
}

func (t *Trail) Start() {
	t.wg.Add(1)
	go t.worker()
}

// Stop «запирает» вход и ждет финального flush.
func (t *Trail) Stop() {
	atomic.StoreInt32(&t.isClosed, 1)

	// Крошечная пауза, чтобы конкурирующие Record успели проскочить до close
	time.Sleep(10 * time.Millisecond)

	t.logger.Info("stopping audit trail: draining buffer...")
	close(t.ch)
	t.wg.Wait()
	t.logger.Info("audit trail stopped gracefully")
}

// Record реализует Recorder: неблокирующая передача записи воркеру.
func (t *Trail) Record(e Entry) {
	if atomic.LoadInt32(&t.isClosed) == 1 {
		t.logger.Warn("audit entry dropped: trail is stopping", zap.String("id", e.ID))
		return
	}

	select {
	case t.ch <- e:
		if t.opts.BufferFill != nil {
			t.opts.BufferFill.Set(float64(len(t.ch)))
		}
	default:
		// Backpressure: буфер полон, не теряем данные молча
		t.logger.Error("audit_buffer_overflow",
			zap.String("id", e.ID),
			zap.String("module", string(e.Module)),
		)
	}
}

func (t *Trail) worker() {
	defer t.wg.Done()

	batch := make([]Entry, 0, t.opts.BatchSize)
	ticker := time.NewTicker(t.opts.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Background: основной контекст может быть уже закрыт при shutdown
		if err := t.sink.WriteBatch(context.Background(), batch); err != nil {
			t.logger.Error("audit flush failed", zap.Int("batch", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-t.ch:
			if !ok {
				// Канал закрыт в Stop: воркер сначала вычитал остатки,
				// теперь финальный сброс и выход.
				flush()
				t.logger.Info("audit trail worker finished")
				return
			}
			batch = append(batch, e)
			if t.opts.BufferFill != nil {
				t.opts.BufferFill.Set(float64(len(t.ch)))
			}
			if len(batch) >= t.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
