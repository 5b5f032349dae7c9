package services

import (
	"context"
	"fmt"
	"time"

	"unveil_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignTTL = 5 * time.Minute

// PhotoReveal is what a participant sees of the counterpart's photos:
// before unlock only how many exist, after unlock resolvable URLs.
type PhotoReveal struct {
	Unlocked   bool     `json:"unlocked"`
	PhotoCount int      `json:"photoCount"`
	PhotoURLs  []string `json:"photoUrls,omitempty"`
}

// MediaService resolves photo storage keys to short-lived URLs. The
// bytes live in S3 and are never interpreted here; this service only
// gates visibility by unlock state.
type MediaService struct {
	Presigner *s3.PresignClient
	Bucket    string
	Profiles  ProfileStore
}

func NewMediaService(client *s3.Client, bucket string, profiles ProfileStore) *MediaService {
	return &MediaService{
		Presigner: s3.NewPresignClient(client),
		Bucket:    bucket,
		Profiles:  profiles,
	}
}

// CounterpartPhotos returns the viewer's gated view of the other
// participant's photos. The caller has already verified the viewer is a
// participant of m.
func (s *MediaService) CounterpartPhotos(ctx context.Context, m *models.Match, viewerID string) (*PhotoReveal, error) {
	profile, err := s.Profiles.GetProfile(ctx, m.Other(viewerID))
	if err != nil {
		return nil, err
	}

	reveal := &PhotoReveal{
		Unlocked:   m.IsUnlocked,
		PhotoCount: len(profile.PhotoKeys),
	}
	if !m.IsUnlocked {
		return reveal, nil
	}

	for _, key := range profile.PhotoKeys {
		presigned, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.Bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(presignTTL))
		if err != nil {
			return nil, fmt.Errorf("failed to presign photo %s: %w", key, err)
		}
		reveal.PhotoURLs = append(reveal.PhotoURLs, presigned.URL)
	}
	return reveal, nil
}

// GenerateUploadURL presigns a PUT for a new profile photo and returns
// the URL together with the storage key to save on the profile.
func (s *MediaService) GenerateUploadURL(ctx context.Context, userID, fileName, fileType string) (string, string, error) {
	key := fmt.Sprintf("profile-photos/%s/%s-%s", userID, time.Now().UTC().Format("20060102150405"), fileName)

	presigned, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return presigned.URL, key, nil
}
