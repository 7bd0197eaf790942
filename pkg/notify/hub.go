// Package notify delivers status notifications to the surfaces which triggered classification.
package notify

import (
	"errors"
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/bookmarker/pkg/domain"
)

// ErrNoSubscriber is returned when nobody listens on the surface
var ErrNoSubscriber = errors.New("no subscriber for surface")

const subscriberBuffer = 16

// Hub fans notifications out to subscribers. Subscribers with empty surface get everything.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan domain.Notification
	nextID int
}

// NewHub makes an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan domain.Notification)}
}

// Subscribe returns a channel of notifications for surface and a cancel func closing it
func (h *Hub) Subscribe(surface string) (<-chan domain.Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan domain.Notification, subscriberBuffer)
	if h.subs[surface] == nil {
		h.subs[surface] = make(map[int]chan domain.Notification)
	}
	h.subs[surface][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[surface], id)
			if len(h.subs[surface]) == 0 {
				delete(h.subs, surface)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Notify sends n to subscribers of surface and to catch-all subscribers without blocking.
// A full subscriber misses the notification.
func (h *Hub) Notify(surface string, n domain.Notification) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	send := func(subs map[int]chan domain.Notification) {
		for _, ch := range subs {
			select {
			case ch <- n:
				delivered++
			default:
				lgr.Printf("[WARN] notification for %q dropped, subscriber is slow", surface)
			}
		}
	}
	if surface != "" {
		send(h.subs[surface])
	}
	send(h.subs[""])

	if delivered == 0 {
		return ErrNoSubscriber
	}
	return nil
}

// Subscribers returns the number of active subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	res := 0
	for _, subs := range h.subs {
		res += len(subs)
	}
	return res
}
