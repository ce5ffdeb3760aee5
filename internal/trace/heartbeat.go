package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat periodically emits heartbeat events during long batch builds.
// The detail carries whatever the status func reports (e.g. "3/10 units").
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	status   func() string
	stopCh   chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// StartHeartbeat creates and starts a new heartbeat goroutine.
// status may be nil.
func StartHeartbeat(tracer Tracer, interval time.Duration, status func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}

	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		status:   status,
		stopCh:   make(chan struct{}),
	}

	h.wg.Add(1)
	go h.run()

	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	seq := uint64(0)
	for {
		select {
		case <-ticker.C:
			seq++
			detail := fmt.Sprintf("#%d", seq)
			if h.status != nil {
				detail += " " + h.status()
			}
			h.tracer.Emit(&Event{
				Time:   time.Now(),
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: detail,
			})
		case <-h.stopCh:
			return
		}
	}
}

// Stop stops the heartbeat goroutine and waits for it to finish.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		close(h.stopCh)
	})
	h.wg.Wait()
}
