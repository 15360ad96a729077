package audit

import (
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"go.uber.org/zap"
)

// Recorder получает копию каждой записи после фиксации в леджере.
// Реализации (персистентный Trail, Redis-фид) обязаны не блокировать
// вызывающего: Append стоит на горячем пути всех workflow.
type Recorder interface {
	Record(e Entry)
}

// Ledger — единый процессный журнал аудита: append-only, без правок
// и удалений в течение сессии. Один экземпляр на процесс, передается
// по ссылке каждому workflow и чату.
type Ledger struct {
	mu      sync.RWMutex
	entries []Entry
	sinks   []Recorder
	logger  *zap.Logger
}

func NewLedger(logger *zap.Logger, sinks ...Recorder) *Ledger {
	return &Ledger{
		logger: logger.Named("audit-ledger"),
		sinks:  sinks,
	}
}

// Append фиксирует запись и возвращает ее финальную форму.
// Пустые служебные поля дозаполняются; Details копируются, чтобы
// вызывающий не смог изменить уже записанный payload.
func (l *Ledger) Append(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Status == "" {
		e.Status = StatusCompleted
	}
	if e.Details != nil {
		e.Details = maps.Clone(e.Details)
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()

	l.logger.Debug("audit entry appended",
		zap.String("id", e.ID),
		zap.String("module", string(e.Module)),
		zap.String("action", e.Action),
		zap.String("decision", e.Decision))

	for _, sink := range l.sinks {
		sink.Record(e)
	}
	return e
}

// Seed загружает стартовые записи как есть (id и таймстемпы сохраняются).
// Используется демо-режимом консоли; в синки записи не ретранслируются.
func (l *Ledger) Seed(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entries...)
}

// List возвращает записи модуля (ModuleAll или пустая строка — все),
// отсортированные от новых к старым. При равных таймстемпах первой
// идет позже вставленная запись.
func (l *Ledger) List(module domain.Module) []Entry {
	l.mu.RLock()
	out := make([]Entry, 0, len(l.entries))
	// Обходим с конца: обратный порядок вставки и есть tie-break
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if module != "" && module != domain.ModuleAll && e.Module != module {
			continue
		}
		out = append(out, e)
	}
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Get ищет запись по id для раскрытия детального payload'а.
func (l *Ledger) Get(id string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := range l.entries {
		if l.entries[i].ID == id {
			return l.entries[i], true
		}
	}
	return Entry{}, false
}

// Len — текущее число записей.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
