package services

import (
	"context"
	"sort"
	"sync"

	"unveil_server/apperrors"
	"unveil_server/models"
	"unveil_server/utils"

	"go.uber.org/zap"
)

// memoryStore is an in-memory stand-in for DynamoStore used across the
// service tests.
type memoryStore struct {
	mu       sync.Mutex
	matches  map[string]models.Match
	channels map[string]models.Channel
	messages map[string][]models.Message
	profiles map[string]models.UserProfile
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		matches:  make(map[string]models.Match),
		channels: make(map[string]models.Channel),
		messages: make(map[string][]models.Message),
		profiles: make(map[string]models.UserProfile),
	}
}

func (s *memoryStore) PutMatch(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.MatchID] = *m
	return nil
}

func (s *memoryStore) GetMatch(_ context.Context, matchID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, apperrors.ErrMatchNotFound
	}
	return &m, nil
}

func (s *memoryStore) FindActiveByPair(_ context.Context, pairKey string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.PairKey == pairKey && !m.IsArchived {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) PutChannel(_ context.Context, ch *models.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[ch.MatchID] = *ch
	return nil
}

func (s *memoryStore) GetChannel(_ context.Context, matchID string) (*models.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[matchID]
	if !ok {
		return nil, nil
	}
	return &ch, nil
}

func (s *memoryStore) SetReadCursor(_ context.Context, matchID string, participantA bool, upto int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := s.channels[matchID]
	if participantA {
		ch.ReadA = upto
	} else {
		ch.ReadB = upto
	}
	ch.MatchID = matchID
	s.channels[matchID] = ch
	return nil
}

func (s *memoryStore) CommitAppend(_ context.Context, msg *models.Message, ch *models.Channel, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.MatchID] = append(s.messages[msg.MatchID], *msg)
	s.channels[ch.MatchID] = *ch
	s.matches[m.MatchID] = *m
	return nil
}

func (s *memoryStore) ListMessagesSince(_ context.Context, matchID string, after int64, limit int32) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Message
	for _, msg := range s.messages[matchID] {
		if msg.Ordinal > after {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryStore) PutProfile(_ context.Context, p *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = *p
	return nil
}

func (s *memoryStore) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return &p, nil
}

func (s *memoryStore) DeleteProfile(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
	return nil
}

// recordedEvents captures everything published through the sinks.
type recordedEvents struct {
	mu     sync.Mutex
	events []models.DomainEvent
}

func (r *recordedEvents) Consume(_ context.Context, evt models.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordedEvents) all() []models.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recordedEvents) countOf(typ models.EventType) int {
	n := 0
	for _, evt := range r.all() {
		if evt.Type == typ {
			n++
		}
	}
	return n
}

// stubMeter is a UsageMeter with scripted behavior.
type stubMeter struct {
	aiErr     error
	aiCalls   int
	days      int
	milestone bool
}

func (s *stubMeter) ConsumeAISuggestion(context.Context, string) error {
	s.aiCalls++
	return s.aiErr
}

func (s *stubMeter) TouchStreak(context.Context, string) (int, bool, error) {
	return s.days, s.milestone, nil
}

func newTestServices(threshold int) (*MatchService, *ChatService, *memoryStore, *recordedEvents, *stubMeter) {
	store := newMemoryStore()
	events := &recordedEvents{}
	meter := &stubMeter{}
	locks := utils.NewKeyedMutex()
	log := zap.NewNop().Sugar()

	matchService := &MatchService{
		Store:    store,
		Channels: store,
		Policy:   UnlockPolicy{Threshold: threshold},
		Locks:    locks,
		Sinks:    []EventSink{events},
		Log:      log,
	}
	chatService := &ChatService{
		Ledger:   matchService,
		Channels: store,
		Usage:    meter,
		Locks:    locks,
		Sinks:    []EventSink{events},
		Log:      log,
	}
	return matchService, chatService, store, events, meter
}
