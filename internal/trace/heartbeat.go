package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat records a liveness event at a fixed interval. Two heartbeats with
// no file span ending between them usually mean one file is stuck in a
// pathological pattern.
type Heartbeat struct {
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// StartHeartbeat starts ticking into tracer. It returns nil when tracing is
// off or interval is not positive; Stop accepts a nil receiver.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{done: make(chan struct{})}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for n := 1; ; n++ {
			select {
			case <-h.done:
				return
			case <-tick.C:
				tracer.Emit(point(KindHeartbeat, ScopeDriver, "heartbeat", "#"+strconv.Itoa(n)))
			}
		}
	}()
	return h
}

// Stop ends the ticker and waits for the goroutine. It is safe to call twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	h.wg.Wait()
}
