package server

import "sync"

// Notification is one event pushed to every connected stream client
type Notification struct {
	Type        string `json:"type"`
	Version     string `json:"version,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// hub fans notifications out to all subscribed SSE connections. Slow
// clients drop events instead of blocking the broadcaster.
type hub struct {
	mu   sync.Mutex
	subs map[chan Notification]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[chan Notification]struct{})}
}

func (h *hub) subscribe() chan Notification {
	ch := make(chan Notification, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(ch chan Notification) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *hub) broadcast(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}
