package logger

import (
	"context"
	"log/slog"
	"math/rand"
	"regexp"
	"sync"
)

// AsyncHandler buffers records on a channel and hands them to next
// from a single background goroutine, so callers never block on the
// underlying writer.
type AsyncHandler struct {
	next    slog.Handler
	records chan asyncRecord
	once    sync.Once
	dropOld bool
}

type asyncRecord struct {
	ctx context.Context
	r   slog.Record
}

// NewAsyncHandler wraps next with a buffer of size capacity. When the
// buffer is full, dropOld controls whether the oldest queued record is
// discarded to make room (true) or the newest one is dropped instead
// (false); either way Handle never blocks the caller.
func NewAsyncHandler(next slog.Handler, capacity int, dropOld bool) *AsyncHandler {
	h := &AsyncHandler{
		next:    next,
		records: make(chan asyncRecord, capacity),
		dropOld: dropOld,
	}
	go h.run()
	return h
}

func (h *AsyncHandler) run() {
	for rec := range h.records {
		_ = h.next.Handle(rec.ctx, rec.r)
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := asyncRecord{ctx: ctx, r: r}
	select {
	case h.records <- rec:
	default:
		if h.dropOld {
			select {
			case <-h.records:
			default:
			}
			select {
			case h.records <- rec:
			default:
			}
		}
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), records: h.records, dropOld: h.dropOld}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), records: h.records, dropOld: h.dropOld}
}

// SamplingHandler passes through a random fraction of records, so high
// volume DEBUG/INFO logging can be thinned without losing structure.
type SamplingHandler struct {
	next slog.Handler
	rate float64
}

func NewSamplingHandler(next slog.Handler, rate float64) *SamplingHandler {
	return &SamplingHandler{next: next, rate: rate}
}

func (h *SamplingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SamplingHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn || rand.Float64() < h.rate {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *SamplingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SamplingHandler{next: h.next.WithAttrs(attrs), rate: h.rate}
}

func (h *SamplingHandler) WithGroup(name string) slog.Handler {
	return &SamplingHandler{next: h.next.WithGroup(name), rate: h.rate}
}

// RedactHandler scrubs attribute values that look like an email
// address or a payment card number before they reach the next
// handler.
type RedactHandler struct {
	next slog.Handler
}

func NewRedactHandler(next slog.Handler) *RedactHandler {
	return &RedactHandler{next: next}
}

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	cardPattern  = regexp.MustCompile(`\b(?:\d[ -]?){13,19}\b`)
)

func redactString(s string) string {
	s = emailPattern.ReplaceAllString(s, "[REDACTED_EMAIL]")
	s = cardPattern.ReplaceAllString(s, "[REDACTED_CARD]")
	return s
}

func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, redacted)
}

func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, redactString(a.Value.String()))
	}
	return a
}

func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RedactHandler{next: h.next.WithAttrs(attrs)}
}

func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{next: h.next.WithGroup(name)}
}
