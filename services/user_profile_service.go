package services

import (
	"context"

	"unveil_server/models"

	"go.uber.org/zap"
)

// UserProfileService maintains the profile slice the chat core needs
// (display name and photo keys). Full profile management is the
// external product surface's job.
type UserProfileService struct {
	Store ProfileStore
	Log   *zap.SugaredLogger
}

func (s *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.Store.GetProfile(ctx, userID)
}

// UpsertProfile creates or replaces the caller's profile slice.
func (s *UserProfileService) UpsertProfile(ctx context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	now := nowRFC3339()
	existing, err := s.Store.GetProfile(ctx, p.UserID)
	if err == nil && existing != nil {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := s.Store.PutProfile(ctx, p); err != nil {
		return nil, err
	}
	s.Log.Debugw("profile upserted", "hasPhotos", len(p.PhotoKeys) > 0)
	return p, nil
}

func (s *UserProfileService) DeleteProfile(ctx context.Context, userID string) error {
	return s.Store.DeleteProfile(ctx, userID)
}
