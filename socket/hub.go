package socket

import (
	"context"
	"sync"

	"unveil_server/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// subscriptionBuffer is how many events a connection may fall behind
// before it is dropped. A dropped client reconnects and catches up by
// ordinal, so the buffer only needs to absorb bursts.
const subscriptionBuffer = 32

// Subscription is one live event stream for one connection. Every
// connection gets its own — two devices of the same user each receive
// every event independently.
type Subscription struct {
	ID      string
	MatchID string
	UserID  string
	Events  chan models.DomainEvent
}

// Hub is the subscription registry, keyed (matchId, connectionId).
// It implements services.EventSink: published events are routed only to
// subscribers of their match, never across matches.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[string]*Subscription
	log  *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		subs: make(map[string]map[string]*Subscription),
		log:  log,
	}
}

// Subscribe registers a new stream for a match. The caller has already
// verified the user participates in the match.
func (h *Hub) Subscribe(matchID, userID string) *Subscription {
	sub := &Subscription{
		ID:      uuid.NewString(),
		MatchID: matchID,
		UserID:  userID,
		Events:  make(chan models.DomainEvent, subscriptionBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[matchID] == nil {
		h.subs[matchID] = make(map[string]*Subscription)
	}
	h.subs[matchID][sub.ID] = sub

	h.log.Debugw("subscription opened", "matchId", matchID, "subId", sub.ID)
	return sub
}

// Unsubscribe removes one stream and closes its channel. Safe to call
// for a stream the hub already dropped.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *Subscription) {
	matchSubs, ok := h.subs[sub.MatchID]
	if !ok {
		return
	}
	if _, ok := matchSubs[sub.ID]; !ok {
		return
	}
	delete(matchSubs, sub.ID)
	if len(matchSubs) == 0 {
		delete(h.subs, sub.MatchID)
	}
	close(sub.Events)
	h.log.Debugw("subscription closed", "matchId", sub.MatchID, "subId", sub.ID)
}

// Consume implements services.EventSink. Delivery per subscription is
// non-blocking: a full buffer means the consumer is too slow, and its
// stream is dropped rather than allowed to stall the publisher or
// reorder events. All sends happen under the hub lock, so a channel is
// never written after it is closed.
func (h *Hub) Consume(_ context.Context, evt models.DomainEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs[evt.MatchID] {
		select {
		case sub.Events <- evt:
		default:
			h.log.Warnw("dropping slow subscriber", "matchId", sub.MatchID, "subId", sub.ID)
			h.removeLocked(sub)
		}
	}
}

// SubscriberCount reports live streams for a match (health/debug).
func (h *Hub) SubscriberCount(matchID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[matchID])
}
