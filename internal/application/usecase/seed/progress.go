package seed

import (
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// ProgressFunc receives a snapshot of every collection's progress, ordered by
// first appearance. It is called synchronously once per record and once more
// when a collection reaches a terminal status.
type ProgressFunc func(snapshot []content.UploadProgress)

type progressTracker struct {
	mu      sync.Mutex
	entries []content.UploadProgress
	notify  ProgressFunc
}

func newProgressTracker(fn ProgressFunc) *progressTracker {
	return &progressTracker{notify: fn}
}

func (t *progressTracker) reset() {
	t.mu.Lock()
	t.entries = nil
	t.mu.Unlock()
}

// register records entries without notifying.
func (t *progressTracker) register(p content.UploadProgress) {
	t.mu.Lock()
	t.upsert(p)
	t.mu.Unlock()
}

func (t *progressTracker) update(p content.UploadProgress) {
	t.mu.Lock()
	t.upsert(p)
	snapshot := append([]content.UploadProgress(nil), t.entries...)
	t.mu.Unlock()

	if t.notify != nil {
		t.notify(snapshot)
	}
}

func (t *progressTracker) flush() {
	t.mu.Lock()
	snapshot := append([]content.UploadProgress(nil), t.entries...)
	t.mu.Unlock()

	if t.notify != nil {
		t.notify(snapshot)
	}
}

func (t *progressTracker) upsert(p content.UploadProgress) {
	for i := range t.entries {
		if t.entries[i].Collection == p.Collection {
			t.entries[i] = p
			return
		}
	}
	t.entries = append(t.entries, p)
}

// MultiProgress fans one update out to several sinks, in order.
func MultiProgress(fns ...ProgressFunc) ProgressFunc {
	return func(snapshot []content.UploadProgress) {
		for _, fn := range fns {
			if fn != nil {
				fn(snapshot)
			}
		}
	}
}

// ProgressChannel adapts the callback to a single-consumer channel. Sends
// block when the buffer is full so no update is dropped; the consumer must
// drain until closeFn is called.
func ProgressChannel(buf int) (ProgressFunc, <-chan []content.UploadProgress, func()) {
	ch := make(chan []content.UploadProgress, buf)
	var once sync.Once
	fn := func(snapshot []content.UploadProgress) {
		ch <- snapshot
	}
	return fn, ch, func() { once.Do(func() { close(ch) }) }
}

// LogProgress writes status transitions at Info and per-record steps at Warn
// only when a record failed. Intended for console runs.
func LogProgress(log logger.Logger) ProgressFunc {
	var mu sync.Mutex
	last := make(map[string]content.UploadProgress)

	return func(snapshot []content.UploadProgress) {
		mu.Lock()
		defer mu.Unlock()

		for _, p := range snapshot {
			prev, seen := last[p.Collection]
			if seen && prev == p {
				continue
			}
			last[p.Collection] = p

			fields := []zap.Field{
				zap.String("collection", p.Collection),
				zap.Int("current", p.Current),
				zap.Int("total", p.Total),
				zap.String("status", string(p.Status)),
			}
			switch {
			case p.Status == content.StatusError:
				log.Warn("Collection finished with errors", append(fields, zap.String("error", p.Error))...)
			case p.Status == content.StatusCompleted:
				log.Info("Collection completed", fields...)
			case !seen || prev.Status != p.Status:
				log.Info("Collection progress", fields...)
			}
		}
	}
}
