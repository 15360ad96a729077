package audit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"go.uber.org/zap"
)

type captureSink struct {
	mu      sync.Mutex
	batches [][]Entry
}

func (s *captureSink) WriteBatch(_ context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := make([]Entry, len(entries))
	copy(batch, entries)
	s.batches = append(s.batches, batch)
	return nil
}

func (s *captureSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func TestTrailDrainsOnStop(t *testing.T) {
	sink := &captureSink{}
	trail := NewTrail(sink, zap.NewNop(), TrailOptions{
		BufferSize:    64,
		BatchSize:     100,              // заведомо больше, чем запишем
		FlushInterval: 10 * time.Second, // таймер не должен успеть
	})
	trail.Start()

	const n = 7
	for i := 0; i < n; i++ {
		trail.Record(Entry{ID: fmt.Sprintf("e%d", i), Module: domain.ModuleClaims})
	}
	trail.Stop()

	if got := sink.total(); got != n {
		t.Errorf("sink received %d entries after Stop, want %d", got, n)
	}
}

func TestTrailFlushesFullBatch(t *testing.T) {
	sink := &captureSink{}
	trail := NewTrail(sink, zap.NewNop(), TrailOptions{
		BufferSize:    64,
		BatchSize:     3,
		FlushInterval: 10 * time.Second,
	})
	trail.Start()
	defer trail.Stop()

	for i := 0; i < 3; i++ {
		trail.Record(Entry{ID: fmt.Sprintf("b%d", i)})
	}

	deadline := time.Now().Add(2 * time.Second)
	for sink.total() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := sink.total(); got != 3 {
		t.Errorf("batch flush delivered %d entries, want 3", got)
	}
}

func TestTrailRecordAfterStopIsDropped(t *testing.T) {
	sink := &captureSink{}
	trail := NewTrail(sink, zap.NewNop(), TrailOptions{})
	trail.Start()
	trail.Stop()

	// Не должно паниковать и не должно дойти до синка
	trail.Record(Entry{ID: "late"})
	if got := sink.total(); got != 0 {
		t.Errorf("late record leaked into sink: %d entries", got)
	}
}
