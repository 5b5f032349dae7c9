package services

import (
	"context"
	"testing"

	"unveil_server/apperrors"
	"unveil_server/models"

	"github.com/stretchr/testify/require"
)

func TestCreateMatchNormalizesPairOrder(t *testing.T) {
	matchService, _, _, events, _ := newTestServices(20)
	ctx := context.Background()

	m, err := matchService.CreateMatch(ctx, "zoe", "adam", 87.5)
	require.NoError(t, err)
	require.Equal(t, "adam", m.ParticipantA)
	require.Equal(t, "zoe", m.ParticipantB)
	require.Equal(t, "adam#zoe", m.PairKey)
	require.Equal(t, 1, events.countOf(models.EventMatchCreated))

	// A channel is seeded alongside the match.
	ch, err := matchService.Channels.GetChannel(ctx, m.MatchID)
	require.NoError(t, err)
	require.NotNil(t, ch)
	require.Equal(t, int64(0), ch.LastOrdinal)
}

func TestCreateMatchRejectsDuplicatePair(t *testing.T) {
	matchService, _, _, _, _ := newTestServices(20)
	ctx := context.Background()

	_, err := matchService.CreateMatch(ctx, "alice", "bob", 90)
	require.NoError(t, err)

	// Reversed order maps to the same pair.
	_, err = matchService.CreateMatch(ctx, "bob", "alice", 75)
	require.ErrorIs(t, err, apperrors.ErrDuplicateMatch)
}

func TestCreateMatchRejectsSelfPair(t *testing.T) {
	matchService, _, _, _, _ := newTestServices(20)

	_, err := matchService.CreateMatch(context.Background(), "alice", "alice", 50)
	require.ErrorIs(t, err, apperrors.ErrSelfMatch)
}

func TestCreateMatchAllowsRematchAfterArchive(t *testing.T) {
	matchService, _, store, _, _ := newTestServices(0)
	ctx := context.Background()

	m, err := matchService.CreateMatch(ctx, "alice", "bob", 90)
	require.NoError(t, err)

	m.IsArchived = true
	require.NoError(t, store.PutMatch(ctx, m))

	again, err := matchService.CreateMatch(ctx, "alice", "bob", 60)
	require.NoError(t, err)
	require.NotEqual(t, m.MatchID, again.MatchID)
}

func TestGetMatchForRejectsOutsider(t *testing.T) {
	matchService, _, _, _, _ := newTestServices(20)
	ctx := context.Background()

	m, err := matchService.CreateMatch(ctx, "alice", "bob", 90)
	require.NoError(t, err)

	_, _, err = matchService.GetMatchFor(ctx, m.MatchID, "mallory")
	require.ErrorIs(t, err, apperrors.ErrNotParticipant)

	_, snap, err := matchService.GetMatchFor(ctx, m.MatchID, "alice")
	require.NoError(t, err)
	require.Equal(t, models.StateLocked, snap.State)
}

func TestRequestUnlockBelowThreshold(t *testing.T) {
	matchService, chatService, _, _, _ := newTestServices(2)
	ctx := context.Background()

	m, err := matchService.CreateMatch(ctx, "alice", "bob", 90)
	require.NoError(t, err)

	// Only one side has messaged; the other counter is still short.
	_, err = chatService.AppendMessage(ctx, m.MatchID, "alice", "hey", false)
	require.NoError(t, err)
	_, err = chatService.AppendMessage(ctx, m.MatchID, "alice", "hello?", false)
	require.NoError(t, err)

	_, err = matchService.RequestUnlock(ctx, m.MatchID, "alice")
	require.ErrorIs(t, err, apperrors.ErrNotEligible)
}

// seedEligibleMatch creates a match and exchanges enough messages for
// both sides to clear the configured threshold.
func seedEligibleMatch(t *testing.T, matchService *MatchService, chatService *ChatService, threshold int) *models.Match {
	t.Helper()
	ctx := context.Background()

	m, err := matchService.CreateMatch(ctx, "alice", "bob", 90)
	require.NoError(t, err)
	for i := 0; i < threshold; i++ {
		_, err = chatService.AppendMessage(ctx, m.MatchID, "alice", "ping", false)
		require.NoError(t, err)
		_, err = chatService.AppendMessage(ctx, m.MatchID, "bob", "pong", false)
		require.NoError(t, err)
	}
	return m
}

func TestUnlockRequestAndAccept(t *testing.T) {
	matchService, chatService, _, events, _ := newTestServices(3)
	ctx := context.Background()
	m := seedEligibleMatch(t, matchService, chatService, 3)

	updated, err := matchService.RequestUnlock(ctx, m.MatchID, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", updated.UnlockRequestedBy)
	require.Equal(t, 1, events.countOf(models.EventUnlockRequested))

	// Same requester cannot pile on.
	_, err = matchService.RequestUnlock(ctx, m.MatchID, "alice")
	require.ErrorIs(t, err, apperrors.ErrAlreadyRequested)

	// The requester cannot answer their own request.
	_, err = matchService.RespondToUnlock(ctx, m.MatchID, "alice", true)
	require.ErrorIs(t, err, apperrors.ErrSelfResponse)

	accepted, err := matchService.RespondToUnlock(ctx, m.MatchID, "bob", true)
	require.NoError(t, err)
	require.True(t, accepted.IsUnlocked)
	require.Empty(t, accepted.UnlockRequestedBy)
	require.NotEmpty(t, accepted.UnlockAcceptedAt)
	require.Equal(t, 1, events.countOf(models.EventUnlocked))

	// Once unlocked, a fresh request makes no sense.
	_, err = matchService.RequestUnlock(ctx, m.MatchID, "bob")
	require.ErrorIs(t, err, apperrors.ErrNotEligible)
}

func TestCounterRequestActsAsAcceptance(t *testing.T) {
	matchService, chatService, _, events, _ := newTestServices(2)
	ctx := context.Background()
	m := seedEligibleMatch(t, matchService, chatService, 2)

	_, err := matchService.RequestUnlock(ctx, m.MatchID, "alice")
	require.NoError(t, err)

	updated, err := matchService.RequestUnlock(ctx, m.MatchID, "bob")
	require.NoError(t, err)
	require.True(t, updated.IsUnlocked)
	require.Equal(t, 1, events.countOf(models.EventUnlocked), "unlocked fires exactly once")
}

func TestRejectReturnsMatchToEligible(t *testing.T) {
	matchService, chatService, _, events, _ := newTestServices(2)
	ctx := context.Background()
	m := seedEligibleMatch(t, matchService, chatService, 2)

	_, err := matchService.RequestUnlock(ctx, m.MatchID, "alice")
	require.NoError(t, err)

	rejected, err := matchService.RespondToUnlock(ctx, m.MatchID, "bob", false)
	require.NoError(t, err)
	require.False(t, rejected.IsUnlocked)
	require.Empty(t, rejected.UnlockRequestedBy)
	require.Equal(t, models.StateEligible, matchService.Policy.StateOf(rejected))

	// A rejected requester may try again later.
	again, err := matchService.RequestUnlock(ctx, m.MatchID, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", again.UnlockRequestedBy)
	require.Zero(t, events.countOf(models.EventUnlocked))
}

func TestRespondWithoutPendingRequest(t *testing.T) {
	matchService, chatService, _, _, _ := newTestServices(2)
	ctx := context.Background()
	m := seedEligibleMatch(t, matchService, chatService, 2)

	_, err := matchService.RespondToUnlock(ctx, m.MatchID, "bob", true)
	require.ErrorIs(t, err, apperrors.ErrNoPendingRequest)
}

// unlockMatch walks a seeded match through request and acceptance.
func unlockMatch(t *testing.T, matchService *MatchService, matchID string) {
	t.Helper()
	ctx := context.Background()
	_, err := matchService.RequestUnlock(ctx, matchID, "alice")
	require.NoError(t, err)
	_, err = matchService.RespondToUnlock(ctx, matchID, "bob", true)
	require.NoError(t, err)
}

func TestSubmitRatingFormsDate(t *testing.T) {
	matchService, chatService, store, events, _ := newTestServices(1)
	ctx := context.Background()
	m := seedEligibleMatch(t, matchService, chatService, 1)
	unlockMatch(t, matchService, m.MatchID)

	first, err := matchService.SubmitRating(ctx, m.MatchID, "alice", 9)
	require.NoError(t, err)
	require.False(t, first.Final)
	require.Equal(t, models.StateUnlocked, first.State)

	second, err := matchService.SubmitRating(ctx, m.MatchID, "bob", 8)
	require.NoError(t, err)
	require.True(t, second.Final)
	require.Equal(t, models.StateDated, second.State)
	require.Equal(t, 1, events.countOf(models.EventDateFormed))

	resolved, err := store.GetMatch(ctx, m.MatchID)
	require.NoError(t, err)
	require.True(t, resolved.IsDate)
	require.False(t, resolved.IsArchived, "terminal flags are mutually exclusive")
}

func TestSubmitRatingArchivesOnLowScore(t *testing.T) {
	matchService, chatService, store, events, _ := newTestServices(1)
	ctx := context.Background()
	m := seedEligibleMatch(t, matchService, chatService, 1)
	unlockMatch(t, matchService, m.MatchID)

	_, err := matchService.SubmitRating(ctx, m.MatchID, "alice", 9)
	require.NoError(t, err)
	outcome, err := matchService.SubmitRating(ctx, m.MatchID, "bob", 5)
	require.NoError(t, err)
	require.True(t, outcome.Final)
	require.Equal(t, models.StateArchived, outcome.State)
	require.Equal(t, 1, events.countOf(models.EventMatchArchived))

	resolved, err := store.GetMatch(ctx, m.MatchID)
	require.NoError(t, err)
	require.True(t, resolved.IsArchived)
	require.False(t, resolved.IsDate)

	// Archived channels reject new messages.
	_, err = chatService.AppendMessage(ctx, m.MatchID, "alice", "wait", false)
	require.ErrorIs(t, err, apperrors.ErrChannelArchived)
}

func TestSubmitRatingGuards(t *testing.T) {
	matchService, chatService, _, _, _ := newTestServices(1)
	ctx := context.Background()
	m := seedEligibleMatch(t, matchService, chatService, 1)

	_, err := matchService.SubmitRating(ctx, m.MatchID, "alice", 11)
	require.ErrorIs(t, err, apperrors.ErrInvalidRating)

	_, err = matchService.SubmitRating(ctx, m.MatchID, "alice", 7)
	require.ErrorIs(t, err, apperrors.ErrNotUnlocked)

	unlockMatch(t, matchService, m.MatchID)

	_, err = matchService.SubmitRating(ctx, m.MatchID, "mallory", 7)
	require.ErrorIs(t, err, apperrors.ErrNotParticipant)

	_, err = matchService.SubmitRating(ctx, m.MatchID, "alice", 7)
	require.NoError(t, err)
	_, err = matchService.SubmitRating(ctx, m.MatchID, "alice", 10)
	require.ErrorIs(t, err, apperrors.ErrAlreadyRated)
}

func TestRatingsStayPrivatePerParticipant(t *testing.T) {
	matchService, chatService, store, _, _ := newTestServices(1)
	ctx := context.Background()
	m := seedEligibleMatch(t, matchService, chatService, 1)
	unlockMatch(t, matchService, m.MatchID)

	_, err := matchService.SubmitRating(ctx, m.MatchID, "bob", 6)
	require.NoError(t, err)

	stored, err := store.GetMatch(ctx, m.MatchID)
	require.NoError(t, err)
	require.Nil(t, stored.RatingFor("alice"))
	require.NotNil(t, stored.RatingFor("bob"))
	require.Equal(t, 6, *stored.RatingFor("bob"))
}
