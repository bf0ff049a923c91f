package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/pkg/logger"
)

// VisitRecorder is notified when a user opens someone else's profile.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, visitorID, visitedID uuid.UUID) error
}

// BlockChecker reports whether either user blocked the other.
type BlockChecker interface {
	IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// Service handles profile business logic
type Service struct {
	repo   Repository
	visits VisitRecorder
	blocks BlockChecker
}

func NewService(repo Repository, visits VisitRecorder, blocks BlockChecker) *Service {
	return &Service{repo: repo, visits: visits, blocks: blocks}
}

// GetMine returns the caller's profile.
func (s *Service) GetMine(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// View returns another user's profile and records the visit. Blocked pairs see nothing.
func (s *Service) View(ctx context.Context, viewerID, targetID uuid.UUID) (*Profile, error) {
	if viewerID != targetID && s.blocks != nil {
		blocked, err := s.blocks.IsBlockedEitherWay(ctx, viewerID, targetID)
		if err != nil {
			return nil, fmt.Errorf("check block: %w", err)
		}
		if blocked {
			return nil, ErrProfileBlocked
		}
	}

	p, err := s.GetMine(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if viewerID != targetID && s.visits != nil {
		if err := s.visits.RecordVisit(ctx, viewerID, targetID); err != nil {
			logger.LogWarn(ctx, "Failed to record profile visit", "visitor_id", viewerID, "visited_id", targetID, "error", err.Error())
		}
	}
	return p, nil
}

// Update merges changes into the caller's profile and refreshes is_complete.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, changes Changes) (*Profile, error) {
	p, err := s.GetMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes.ApplyTo(p)
	return p, s.save(ctx, p)
}

// SaveDraft persists a fully merged profile, as produced by onboarding.
func (s *Service) SaveDraft(ctx context.Context, draft *Profile) error {
	current, err := s.GetMine(ctx, draft.UserID)
	if err != nil {
		return err
	}

	current.Age = draft.Age
	current.Gender = draft.Gender
	current.SexualOrientation = draft.SexualOrientation
	current.Biography = draft.Biography
	current.Interests = draft.Interests
	current.City = draft.City
	current.Latitude = draft.Latitude
	current.Longitude = draft.Longitude
	return s.save(ctx, current)
}

func (s *Service) save(ctx context.Context, p *Profile) error {
	p.IsComplete = EvaluateCompleteness(p).IsComplete
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// Completeness never fails: a missing or unreadable profile counts as empty.
func (s *Service) Completeness(ctx context.Context, userID uuid.UUID) CompletionStatus {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		logger.LogError(ctx, err, "Failed to load profile for completeness", "user_id", userID)
		return EvaluateCompleteness(nil)
	}
	return EvaluateCompleteness(p)
}

// IsProfileComplete evaluates the stored profile. Photos can change without a
// profile write, so the flag column is not trusted here.
func (s *Service) IsProfileComplete(ctx context.Context, userID uuid.UUID) (bool, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return EvaluateCompleteness(p).IsComplete, nil
}

// RefreshCompleteness re-evaluates and stores is_complete, used after photo changes.
func (s *Service) RefreshCompleteness(ctx context.Context, userID uuid.UUID) error {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil || p == nil {
		return err
	}
	complete := EvaluateCompleteness(p).IsComplete
	if complete == p.IsComplete {
		return nil
	}
	return s.save(ctx, p)
}

// SetLocation stores a resolved location.
func (s *Service) SetLocation(ctx context.Context, userID uuid.UUID, city string, lat, lon *float64) error {
	if err := s.repo.UpdateLocation(ctx, userID, city, lat, lon); err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}
