package metrics

import "sync"

// histogram keeps the most recent samples in a ring of at most capacity
// entries. Storage grows with use; once full, each new sample overwrites the
// oldest one.
type histogram struct {
	mu       sync.Mutex
	samples  []float64
	capacity int
	next     int
}

func newHistogram(capacity int) *histogram {
	return &histogram{capacity: capacity}
}

func (h *histogram) add(v float64) {
	h.mu.Lock()
	if len(h.samples) < h.capacity {
		h.samples = append(h.samples, v)
	} else {
		h.samples[h.next] = v
		h.next = (h.next + 1) % h.capacity
	}
	h.mu.Unlock()
}

// values returns a copy of the samples, oldest first
func (h *histogram) values() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]float64, len(h.samples))
	n := copy(out, h.samples[h.next:])
	copy(out[n:], h.samples[:h.next])
	return out
}
