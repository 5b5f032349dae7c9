package services

import (
	"context"
	"strings"

	"unveil_server/apperrors"
	"unveil_server/models"
	"unveil_server/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
	maxContentLen   = 2000
)

// UsageMeter is the daily-usage surface the chat path consumes: the
// AI-suggestion quota gate and per-match streak tracking.
type UsageMeter interface {
	ConsumeAISuggestion(ctx context.Context, userID string) error
	TouchStreak(ctx context.Context, matchID string) (days int, milestone bool, err error)
}

// ChatService owns the per-match message log and read cursors. Ordinal
// assignment is serialized per match through the shared keyed mutex;
// ordinals start at 1 and have no gaps or duplicates.
type ChatService struct {
	Ledger   *MatchService
	Channels ChannelStore
	Usage    UsageMeter
	Locks    *utils.KeyedMutex
	Sinks    []EventSink
	Log      *zap.SugaredLogger
}

// AppendMessage validates, assigns the next ordinal, and commits the
// message together with the channel row and the sender's counter. The
// committed message is published to subscribers before returning.
func (s *ChatService) AppendMessage(ctx context.Context, matchID, senderID, content string, aiSuggested bool) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ErrEmptyMessage
	}
	if len(content) > maxContentLen {
		return nil, apperrors.InvalidArg("message content exceeds maximum length")
	}

	unlock := s.Locks.Lock(matchID)
	defer unlock()

	m, err := s.Ledger.Store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.HasParticipant(senderID) {
		return nil, apperrors.ErrNotParticipant
	}
	if m.IsArchived {
		return nil, apperrors.ErrChannelArchived
	}

	if aiSuggested {
		if err := s.Usage.ConsumeAISuggestion(ctx, senderID); err != nil {
			return nil, err
		}
	}

	ch, err := s.Channels.GetChannel(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		ch = &models.Channel{MatchID: matchID}
	}

	msg := &models.Message{
		MatchID:     matchID,
		Ordinal:     ch.LastOrdinal + 1,
		MessageID:   uuid.NewString(),
		SenderID:    senderID,
		Content:     content,
		AISuggested: aiSuggested,
		CreatedAt:   nowRFC3339(),
	}

	ch.LastOrdinal = msg.Ordinal
	ch.AdvanceCursor(m, senderID, msg.Ordinal)
	s.Ledger.RecordMessageSent(m, senderID)

	if err := s.Channels.CommitAppend(ctx, msg, ch, m); err != nil {
		return nil, err
	}

	days, milestone, err := s.Usage.TouchStreak(ctx, matchID)
	if err != nil {
		// Streak bookkeeping must never fail a send.
		s.Log.Warnw("streak update failed", "matchId", matchID, "error", err)
	}

	publish(ctx, s.Sinks, models.DomainEvent{
		Type:       models.EventMessageAppended,
		MatchID:    matchID,
		ActorID:    senderID,
		Message:    msg,
		Unlock:     s.Ledger.Policy.Snapshot(m),
		Recipients: []string{m.Other(senderID)},
	})
	if milestone {
		publish(ctx, s.Sinks, models.DomainEvent{
			Type:       models.EventStreakMilestone,
			MatchID:    matchID,
			StreakDays: days,
			Recipients: []string{m.ParticipantA, m.ParticipantB},
		})
	}

	return msg, nil
}

// GetMessagesSince returns a restartable ascending page of messages
// with ordinal > after. Archived channels stay readable.
func (s *ChatService) GetMessagesSince(ctx context.Context, matchID, userID string, after int64, limit int) (*models.MessagePage, error) {
	m, err := s.Ledger.Store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.HasParticipant(userID) {
		return nil, apperrors.ErrNotParticipant
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	messages, err := s.Channels.ListMessagesSince(ctx, matchID, after, int32(limit+1))
	if err != nil {
		return nil, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return &models.MessagePage{Messages: messages, HasMore: hasMore}, nil
}

// MarkRead advances userID's read cursor to uptoOrdinal. Cursors never
// regress — a lower value is a no-op, not an error.
func (s *ChatService) MarkRead(ctx context.Context, matchID, userID string, uptoOrdinal int64) error {
	unlock := s.Locks.Lock(matchID)
	defer unlock()

	m, err := s.Ledger.Store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if !m.HasParticipant(userID) {
		return apperrors.ErrNotParticipant
	}

	ch, err := s.Channels.GetChannel(ctx, matchID)
	if err != nil {
		return err
	}
	if ch == nil {
		return nil
	}
	if uptoOrdinal > ch.LastOrdinal {
		uptoOrdinal = ch.LastOrdinal
	}
	if !ch.AdvanceCursor(m, userID, uptoOrdinal) {
		return nil
	}

	if err := s.Channels.SetReadCursor(ctx, matchID, userID == m.ParticipantA, uptoOrdinal); err != nil {
		return err
	}

	publish(ctx, s.Sinks, models.DomainEvent{
		Type:       models.EventMessageSeen,
		MatchID:    matchID,
		ActorID:    userID,
		ReadUpto:   uptoOrdinal,
		Recipients: []string{m.Other(userID)},
	})
	return nil
}
