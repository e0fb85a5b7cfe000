package vault

import "sync"

// HistoryCapacity bounds the per-client order history. When full, the
// oldest ciphertext is evicted on insert.
const HistoryCapacity = 100

// history is a fixed-capacity FIFO ring of ciphertext blobs in arrival order.
// Each client id owns exactly one history; it has its own lock so clients
// never contend with each other.
type history struct {
	mu    sync.Mutex
	buf   [][]byte
	start int
	count int
}

func newHistory() *history {
	return &history{buf: make([][]byte, HistoryCapacity)}
}

// append stores a ciphertext, evicting the oldest entry when at capacity
func (h *history) append(ciphertext []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == HistoryCapacity {
		h.buf[h.start] = ciphertext
		h.start = (h.start + 1) % HistoryCapacity
		return
	}
	h.buf[(h.start+h.count)%HistoryCapacity] = ciphertext
	h.count++
}

// snapshot returns the ciphertexts oldest first
func (h *history) snapshot() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([][]byte, h.count)
	for i := 0; i < h.count; i++ {
		out[i] = h.buf[(h.start+i)%HistoryCapacity]
	}
	return out
}

func (h *history) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}
