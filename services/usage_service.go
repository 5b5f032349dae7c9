package services

import (
	"context"
	"fmt"
	"time"

	"unveil_server/apperrors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// streakMilestones are the day counts worth a push.
var streakMilestones = map[int]bool{3: true, 7: true, 14: true, 30: true}

const usageTTL = 72 * time.Hour

// UsageService keeps daily usage records in Redis. Resets are lazy: the
// stored day is compared against the current UTC day on access, so no
// batch job ever has to zero counters.
type UsageService struct {
	RDB   *redis.Client
	Quota int
	Log   *zap.SugaredLogger
}

func NewUsageService(rdb *redis.Client, quota int, log *zap.SugaredLogger) *UsageService {
	return &UsageService{RDB: rdb, Quota: quota, Log: log}
}

func utcDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ConsumeAISuggestion spends one unit of the user's daily AI-reply
// quota, resetting the record when the stored day is stale.
func (s *UsageService) ConsumeAISuggestion(ctx context.Context, userID string) error {
	key := "usage:ai:" + userID
	today := utcDay(time.Now())

	day, err := s.RDB.HGet(ctx, key, "day").Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read usage record: %w", err)
	}
	if day != today {
		if err := s.RDB.HSet(ctx, key, "day", today, "count", 0).Err(); err != nil {
			return fmt.Errorf("failed to reset usage record: %w", err)
		}
		s.RDB.Expire(ctx, key, usageTTL)
	}

	count, err := s.RDB.HIncrBy(ctx, key, "count", 1).Result()
	if err != nil {
		return fmt.Errorf("failed to increment usage record: %w", err)
	}
	if count > int64(s.Quota) {
		return apperrors.ErrAIQuotaExhausted
	}
	return nil
}

// TouchStreak records chat activity for a match today and returns the
// current consecutive-day streak. A gap of more than a day resets it.
func (s *UsageService) TouchStreak(ctx context.Context, matchID string) (int, bool, error) {
	key := "streak:" + matchID
	now := time.Now()
	today := utcDay(now)
	yesterday := utcDay(now.AddDate(0, 0, -1))

	fields, err := s.RDB.HGetAll(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read streak record: %w", err)
	}

	days := 1
	switch fields["day"] {
	case today:
		// Already counted today; length unchanged, no new milestone.
		fmt.Sscanf(fields["len"], "%d", &days)
		return days, false, nil
	case yesterday:
		fmt.Sscanf(fields["len"], "%d", &days)
		days++
	}

	if err := s.RDB.HSet(ctx, key, "day", today, "len", days).Err(); err != nil {
		return 0, false, fmt.Errorf("failed to write streak record: %w", err)
	}
	s.RDB.Expire(ctx, key, usageTTL)

	return days, streakMilestones[days], nil
}
