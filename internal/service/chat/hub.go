package chat

import (
	"sync"

	"grimoires/internal/domain/models/chat"
)

// subscriberBuffer is how many messages a slow subscriber may lag behind
// before new messages are dropped for it.
const subscriberBuffer = 32

// Hub fans chat messages out to the live subscribers of each game.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*room
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*room)}
}

type subscriber struct {
	ch chan chat.Message
}

type room struct {
	subscribers map[*subscriber]struct{}
}

// Subscribe registers a listener on a game. The returned cancel function
// unregisters it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(gameID string) (<-chan chat.Message, func()) {
	sub := &subscriber{ch: make(chan chat.Message, subscriberBuffer)}

	h.mu.Lock()
	r, ok := h.rooms[gameID]
	if !ok {
		r = &room{subscribers: make(map[*subscriber]struct{})}
		h.rooms[gameID] = r
	}
	r.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(r.subscribers, sub)
			if len(r.subscribers) == 0 && h.rooms[gameID] == r {
				delete(h.rooms, gameID)
			}
			close(sub.ch)
			h.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

// Publish delivers msg to every subscriber of its game and returns how many
// subscribers missed it because their buffer was full.
func (h *Hub) Publish(msg chat.Message) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[msg.GameID]
	if !ok {
		return 0
	}
	dropped := 0
	for sub := range r.subscribers {
		select {
		case sub.ch <- msg:
		default:
			dropped++
		}
	}
	return dropped
}

// Subscribers returns the number of listeners on a game
func (h *Hub) Subscribers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[gameID]; ok {
		return len(r.subscribers)
	}
	return 0
}
