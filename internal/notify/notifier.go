// Package notify carries the transient notices shown after user actions.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Notice struct {
	Kind    Kind
	Message string
}

type Sink interface {
	Notify(n Notice)
}

func Success(s Sink, message string) {
	s.Notify(Notice{Kind: KindSuccess, Message: message})
}

func Error(s Sink, message string) {
	s.Notify(Notice{Kind: KindError, Message: message})
}

func Info(s Sink, message string) {
	s.Notify(Notice{Kind: KindInfo, Message: message})
}

// Banner shows at most one notice. A new notice replaces the current one and
// every notice dismisses itself after ttl.
type Banner struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notice
	timer   *time.Timer
	// bumped on every Notify so a stale timer cannot clear a newer notice
	generation uint64
}

func NewBanner(ttl time.Duration) *Banner {
	return &Banner{ttl: ttl}
}

func (b *Banner) Notify(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}

	b.generation++
	gen := b.generation
	b.current = &n

	if b.ttl > 0 {
		b.timer = time.AfterFunc(b.ttl, func() { b.expire(gen) })
	}
}

func (b *Banner) expire(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.generation == gen {
		b.current = nil
		b.timer = nil
	}
}

func (b *Banner) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Notice{}, false
	}

	return *b.current, true
}

func (b *Banner) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}

	b.generation++
	b.current = nil
}

// LogSink mirrors notices into the structured log.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(n Notice) {
	if n.Kind == KindError {
		s.logger.Warn("Notice shown", slog.String("kind", string(n.Kind)), slog.String("message", n.Message))
		return
	}

	s.logger.Info("Notice shown", slog.String("kind", string(n.Kind)), slog.String("message", n.Message))
}

type Fanout []Sink

func (f Fanout) Notify(n Notice) {
	for _, s := range f {
		s.Notify(n)
	}
}
