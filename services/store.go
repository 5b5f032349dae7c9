package services

import (
	"context"

	"unveil_server/models"
)

// MatchStore persists Match rows. Writers must hold the per-match lock;
// the store itself does not serialize.
type MatchStore interface {
	PutMatch(ctx context.Context, m *models.Match) error
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	// FindActiveByPair returns the non-archived match for a pair key, or
	// nil when none exists.
	FindActiveByPair(ctx context.Context, pairKey string) (*models.Match, error)
}

// ChannelStore persists channel rows and the message log.
type ChannelStore interface {
	PutChannel(ctx context.Context, ch *models.Channel) error
	// GetChannel returns (nil, nil) when no channel row exists yet.
	GetChannel(ctx context.Context, matchID string) (*models.Channel, error)
	SetReadCursor(ctx context.Context, matchID string, participantA bool, upto int64) error
	// CommitAppend writes the message, the advanced channel row, and the
	// match counters as one atomic commit.
	CommitAppend(ctx context.Context, msg *models.Message, ch *models.Channel, m *models.Match) error
	// ListMessagesSince returns up to limit messages with ordinal > after,
	// in ascending ordinal order.
	ListMessagesSince(ctx context.Context, matchID string, after int64, limit int32) ([]models.Message, error)
}

// ProfileStore persists the profile slice this core reads.
type ProfileStore interface {
	PutProfile(ctx context.Context, p *models.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	DeleteProfile(ctx context.Context, userID string) error
}
