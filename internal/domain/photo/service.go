package photo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/profile"
	"github.com/matcha/matcha-api/internal/pkg/imaging"
	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/storage"
)

// Sanitizer re-encodes uploaded images.
type Sanitizer interface {
	Sanitize(data []byte, contentType string) (*imaging.Result, error)
}

// CompletenessRefresher is told when a user's photo set changed.
type CompletenessRefresher interface {
	RefreshCompleteness(ctx context.Context, userID uuid.UUID) error
}

// File is one uploaded file as received by the handler.
type File struct {
	Name   string
	Reader io.Reader
}

// Service handles photo business logic
type Service struct {
	repo      Repository
	storage   storage.Storage
	sanitizer Sanitizer
	profiles  CompletenessRefresher
	maxPhotos int
}

// NewService creates photo service
func NewService(repo Repository, store storage.Storage, sanitizer Sanitizer, profiles CompletenessRefresher) *Service {
	return &Service{
		repo:      repo,
		storage:   store,
		sanitizer: sanitizer,
		profiles:  profiles,
		maxPhotos: profile.MaxPhotoPerUser,
	}
}

// Upload stores each file and returns the caller's full photo list. The first
// photo of an empty set becomes the profile picture.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, files []File) ([]*Photo, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	existing, err := s.repo.ListByProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	if len(existing)+len(files) > s.maxPhotos {
		return nil, ErrPhotoLimitReached
	}

	nextOrder := 0
	if n := len(existing); n > 0 {
		nextOrder = existing[n-1].SortOrder + 1
	}
	needsPicture := ProfilePicture(existing) == nil

	for i, f := range files {
		photo, err := s.store(ctx, userID, f)
		if err != nil {
			return nil, err
		}
		photo.SortOrder = nextOrder + i
		photo.IsProfilePicture = needsPicture && i == 0

		if err := s.repo.Create(ctx, photo); err != nil {
			s.deleteObject(ctx, photo.Key)
			return nil, fmt.Errorf("create photo: %w", err)
		}
		logger.LogInfo(ctx, "Photo uploaded", "user_id", userID, "photo_id", photo.ID, "size", photo.SizeBytes)
	}

	s.refresh(ctx, userID)
	return s.repo.ListByProfile(ctx, userID)
}

func (s *Service) store(ctx context.Context, userID uuid.UUID, f File) (*Photo, error) {
	data, mimeType, err := storage.ValidatePhoto(f.Reader, storage.MaxPhotoSize)
	if err != nil {
		return nil, err
	}

	clean, err := s.sanitizer.Sanitize(data, mimeType)
	if err != nil {
		// Sniffed as an image but does not decode.
		return nil, storage.ErrInvalidMimeType
	}

	id := uuid.New()
	key := fmt.Sprintf("photos/%s/%s%s", userID, id, storage.ExtensionForMime(clean.ContentType))
	if err := s.storage.Put(ctx, key, bytes.NewReader(clean.Data), clean.ContentType); err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	return &Photo{
		ID:        id,
		ProfileID: userID,
		Key:       key,
		URL:       s.storage.GetURL(key),
		Filename:  f.Name,
		MimeType:  clean.ContentType,
		SizeBytes: int64(len(clean.Data)),
		CreatedAt: time.Now(),
	}, nil
}

// ListMine returns the caller's photos ordered by sort_order, healing the
// profile picture flag if the stored set lost it.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]*Photo, error) {
	photos, err := s.repo.ListByProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.heal(ctx, userID, photos)
}

// Delete removes a photo and its object, promoting the first remaining photo
// when the profile picture was deleted.
func (s *Service) Delete(ctx context.Context, userID, photoID uuid.UUID) ([]*Photo, error) {
	photo, err := s.owned(ctx, userID, photoID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, photoID); err != nil {
		return nil, fmt.Errorf("delete photo: %w", err)
	}
	s.deleteObject(ctx, photo.Key)

	remaining, err := s.repo.ListByProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	healed, err := s.heal(ctx, userID, remaining)
	if err != nil {
		return nil, err
	}

	s.refresh(ctx, userID)
	return healed, nil
}

// SetProfilePicture flags one photo and clears every other flag.
func (s *Service) SetProfilePicture(ctx context.Context, userID, photoID uuid.UUID) ([]*Photo, error) {
	if _, err := s.owned(ctx, userID, photoID); err != nil {
		return nil, err
	}
	if err := s.repo.SetProfilePicture(ctx, userID, photoID); err != nil {
		return nil, err
	}
	return s.repo.ListByProfile(ctx, userID)
}

// Reorder assigns sort_order from the position of each id. The list must be a
// permutation of the caller's photos.
func (s *Service) Reorder(ctx context.Context, userID uuid.UUID, photoIDs []uuid.UUID) ([]*Photo, error) {
	current, err := s.repo.ListByProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(current) != len(photoIDs) {
		return nil, ErrInvalidOrder
	}

	owned := make(map[uuid.UUID]bool, len(current))
	for _, p := range current {
		owned[p.ID] = true
	}
	for _, id := range photoIDs {
		if !owned[id] {
			return nil, ErrInvalidOrder
		}
		delete(owned, id)
	}

	if err := s.repo.Reorder(ctx, userID, photoIDs); err != nil {
		return nil, fmt.Errorf("reorder photos: %w", err)
	}
	return s.repo.ListByProfile(ctx, userID)
}

// HasProfilePicture reports whether the user has a flagged photo.
func (s *Service) HasProfilePicture(ctx context.Context, userID uuid.UUID) (bool, error) {
	photos, err := s.ListMine(ctx, userID)
	if err != nil {
		return false, err
	}
	return ProfilePicture(photos) != nil, nil
}

func (s *Service) owned(ctx context.Context, userID, photoID uuid.UUID) (*Photo, error) {
	photo, err := s.repo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, ErrPhotoNotFound
	}
	if photo.ProfileID != userID {
		return nil, ErrNotPhotoOwner
	}
	return photo, nil
}

func (s *Service) heal(ctx context.Context, userID uuid.UUID, photos []*Photo) ([]*Photo, error) {
	healed := EnsureSingleProfilePicture(photos)
	want := ProfilePicture(healed)
	if want == nil {
		return healed, nil
	}
	if have := ProfilePicture(photos); have != nil && have.ID == want.ID {
		if countFlagged(photos) == 1 {
			return healed, nil
		}
	}

	if err := s.repo.SetProfilePicture(ctx, userID, want.ID); err != nil {
		return nil, fmt.Errorf("promote profile picture: %w", err)
	}
	logger.LogInfo(ctx, "Profile picture promoted", "user_id", userID, "photo_id", want.ID)
	return healed, nil
}

func countFlagged(photos []*Photo) int {
	n := 0
	for _, p := range photos {
		if p.IsProfilePicture {
			n++
		}
	}
	return n
}

func (s *Service) deleteObject(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.LogWarn(ctx, "Failed to delete stored photo", "key", key, "error", err.Error())
	}
}

func (s *Service) refresh(ctx context.Context, userID uuid.UUID) {
	if s.profiles == nil {
		return
	}
	if err := s.profiles.RefreshCompleteness(ctx, userID); err != nil {
		logger.LogError(ctx, err, "Failed to refresh profile completeness", "user_id", userID)
	}
}
