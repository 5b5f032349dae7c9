package services

import (
	"context"

	"unveil_server/apperrors"
	"unveil_server/models"
	"unveil_server/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchService is the match ledger: it exclusively owns Match rows and
// the post-unlock rating pair, and is the only code that moves a match
// through the unlock state machine. All mutations run inside the
// per-match critical section.
type MatchService struct {
	Store    MatchStore
	Channels ChannelStore
	Policy   UnlockPolicy
	Locks    *utils.KeyedMutex
	Sinks    []EventSink
	Log      *zap.SugaredLogger
}

// CreateMatch records a new match for a mutually-liked pair and seeds
// its chat channel. The pairing decision itself is made upstream; this
// is the boundary where it enters the ledger.
func (s *MatchService) CreateMatch(ctx context.Context, a, b string, score float64) (*models.Match, error) {
	if a == "" || b == "" {
		return nil, apperrors.InvalidArg("both participant ids are required")
	}
	if a == b {
		return nil, apperrors.ErrSelfMatch
	}
	if b < a {
		a, b = b, a
	}
	pairKey := models.PairKeyFor(a, b)

	unlock := s.Locks.Lock("pair#" + pairKey)
	defer unlock()

	existing, err := s.Store.FindActiveByPair(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateMatch
	}

	m := &models.Match{
		MatchID:      uuid.NewString(),
		PairKey:      pairKey,
		ParticipantA: a,
		ParticipantB: b,
		Score:        score,
		CreatedAt:    nowRFC3339(),
	}
	if err := s.Store.PutMatch(ctx, m); err != nil {
		return nil, err
	}
	if err := s.Channels.PutChannel(ctx, &models.Channel{MatchID: m.MatchID}); err != nil {
		return nil, err
	}

	s.Log.Infow("match created", "matchId", m.MatchID, "score", score)
	publish(ctx, s.Sinks, models.DomainEvent{
		Type:       models.EventMatchCreated,
		MatchID:    m.MatchID,
		Unlock:     s.Policy.Snapshot(m),
		Recipients: []string{a, b},
	})
	return m, nil
}

// GetMatchFor loads a match on behalf of a participant, with the
// derived unlock view. Non-participants get ErrNotParticipant.
func (s *MatchService) GetMatchFor(ctx context.Context, matchID, userID string) (*models.Match, *models.UnlockSnapshot, error) {
	m, err := s.Store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	if !m.HasParticipant(userID) {
		return nil, nil, apperrors.ErrNotParticipant
	}
	return m, s.Policy.Snapshot(m), nil
}

// RecordMessageSent bumps the sender's message counter on the in-memory
// row. The chat service calls it while holding the match lock and
// persists the row in the same commit as the message — callers must not
// invoke it twice for one message.
func (s *MatchService) RecordMessageSent(m *models.Match, senderID string) models.MatchCounters {
	m.IncrementCount(senderID)
	return models.MatchCounters{
		MessageCountA: m.MessageCountA,
		MessageCountB: m.MessageCountB,
	}
}

// RequestUnlock opens (or, when the counterpart already has one
// pending, accepts) a photo-unlock request.
func (s *MatchService) RequestUnlock(ctx context.Context, matchID, requesterID string) (*models.Match, error) {
	unlock := s.Locks.Lock(matchID)
	defer unlock()

	m, err := s.Store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.HasParticipant(requesterID) {
		return nil, apperrors.ErrNotParticipant
	}
	if m.Terminal() || m.IsUnlocked {
		return nil, apperrors.ErrNotEligible
	}
	if !s.Policy.Eligible(m) {
		return nil, apperrors.ErrNotEligible
	}
	if m.UnlockRequestedBy == requesterID {
		return nil, apperrors.ErrAlreadyRequested
	}

	// A request from the other side while one is pending is acceptance.
	if m.UnlockRequestedBy != "" {
		if err := s.acceptLocked(ctx, m); err != nil {
			return nil, err
		}
		return m, nil
	}

	m.UnlockRequestedBy = requesterID
	m.UnlockRequestedAt = nowRFC3339()
	if err := s.Store.PutMatch(ctx, m); err != nil {
		return nil, err
	}

	s.Log.Infow("unlock requested", "matchId", m.MatchID)
	publish(ctx, s.Sinks, models.DomainEvent{
		Type:       models.EventUnlockRequested,
		MatchID:    m.MatchID,
		ActorID:    requesterID,
		Unlock:     s.Policy.Snapshot(m),
		Recipients: []string{m.Other(requesterID)},
	})
	return m, nil
}

// RespondToUnlock resolves a pending unlock request. Accept unlocks the
// photos; reject clears the request and the match stays eligible, so a
// fresh request is allowed.
func (s *MatchService) RespondToUnlock(ctx context.Context, matchID, responderID string, accept bool) (*models.Match, error) {
	unlock := s.Locks.Lock(matchID)
	defer unlock()

	m, err := s.Store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.HasParticipant(responderID) {
		return nil, apperrors.ErrNotParticipant
	}
	if m.UnlockRequestedBy == "" {
		return nil, apperrors.ErrNoPendingRequest
	}
	if m.UnlockRequestedBy == responderID {
		return nil, apperrors.ErrSelfResponse
	}

	if !accept {
		m.UnlockRequestedBy = ""
		m.UnlockRequestedAt = ""
		if err := s.Store.PutMatch(ctx, m); err != nil {
			return nil, err
		}
		s.Log.Infow("unlock rejected", "matchId", m.MatchID)
		return m, nil
	}

	if err := s.acceptLocked(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// acceptLocked finalizes an unlock. Caller holds the match lock and has
// verified a pending request from the counterpart exists, so the
// Unlocked event fires exactly once.
func (s *MatchService) acceptLocked(ctx context.Context, m *models.Match) error {
	requester := m.UnlockRequestedBy
	m.IsUnlocked = true
	m.UnlockAcceptedAt = nowRFC3339()
	m.UnlockRequestedBy = ""
	m.UnlockRequestedAt = ""
	if err := s.Store.PutMatch(ctx, m); err != nil {
		return err
	}

	s.Log.Infow("photos unlocked", "matchId", m.MatchID)
	publish(ctx, s.Sinks, models.DomainEvent{
		Type:       models.EventUnlocked,
		MatchID:    m.MatchID,
		ActorID:    m.Other(requester),
		Unlock:     s.Policy.Snapshot(m),
		Recipients: []string{m.ParticipantA, m.ParticipantB},
	})
	return nil
}

// SubmitRating records a participant's post-unlock rating. Ratings are
// write-once and invisible to the counterpart. When the second rating
// lands the match resolves: both ≥ 8 is a date, anything else archives.
func (s *MatchService) SubmitRating(ctx context.Context, matchID, userID string, value int) (*models.RatingOutcome, error) {
	if value < 0 || value > 10 {
		return nil, apperrors.ErrInvalidRating
	}

	unlock := s.Locks.Lock(matchID)
	defer unlock()

	m, err := s.Store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.HasParticipant(userID) {
		return nil, apperrors.ErrNotParticipant
	}
	if !m.IsUnlocked {
		return nil, apperrors.ErrNotUnlocked
	}
	if m.RatingFor(userID) != nil {
		return nil, apperrors.ErrAlreadyRated
	}

	m.SetRating(userID, value)

	var resolved models.EventType
	if m.RatingA != nil && m.RatingB != nil {
		if *m.RatingA >= 8 && *m.RatingB >= 8 {
			m.IsDate = true
			resolved = models.EventDateFormed
		} else {
			m.IsArchived = true
			resolved = models.EventMatchArchived
		}
	}

	if err := s.Store.PutMatch(ctx, m); err != nil {
		return nil, err
	}

	if resolved != "" {
		s.Log.Infow("match resolved", "matchId", m.MatchID, "state", s.Policy.StateOf(m))
		publish(ctx, s.Sinks, models.DomainEvent{
			Type:       resolved,
			MatchID:    m.MatchID,
			Unlock:     s.Policy.Snapshot(m),
			Recipients: []string{m.ParticipantA, m.ParticipantB},
		})
	}

	return &models.RatingOutcome{
		State: s.Policy.StateOf(m),
		Final: m.Terminal(),
	}, nil
}
