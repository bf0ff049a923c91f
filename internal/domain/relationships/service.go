package relationships

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matcha/matcha-api/internal/domain/user"
	"github.com/matcha/matcha-api/internal/pkg/logger"
)

const historyLimit = 100

// UserLookup resolves accounts.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// PhotoChecker reports whether a user has a profile picture.
type PhotoChecker interface {
	HasProfilePicture(ctx context.Context, userID uuid.UUID) (bool, error)
}

// FameWriter stores recomputed fame ratings.
type FameWriter interface {
	UpdateFameRating(ctx context.Context, userID uuid.UUID, fame int) error
}

// Notifier delivers relationship events to the affected user.
type Notifier interface {
	NotifyLike(ctx context.Context, userID, actorID uuid.UUID, actorName string)
	NotifyVisit(ctx context.Context, userID, actorID uuid.UUID, actorName string)
	NotifyMatch(ctx context.Context, userID, actorID uuid.UUID, actorName string)
	NotifyUnmatch(ctx context.Context, userID, actorID uuid.UUID, actorName string)
}

// Service handles user relationships business logic
type Service struct {
	repo     Repository
	users    UserLookup
	photos   PhotoChecker
	fame     FameWriter
	notifier Notifier
}

// NewService creates new relationships service
func NewService(repo Repository, users UserLookup, photos PhotoChecker, fame FameWriter, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		photos:   photos,
		fame:     fame,
		notifier: notifier,
	}
}

// Like records likerID liking targetID. A like returned by the target is a match.
func (s *Service) Like(ctx context.Context, likerID, targetID uuid.UUID) (*LikeResult, error) {
	if likerID == targetID {
		return nil, ErrCannotLikeSelf
	}
	liker, err := s.reachable(ctx, likerID, targetID)
	if err != nil {
		return nil, err
	}

	hasPicture, err := s.photos.HasProfilePicture(ctx, likerID)
	if err != nil {
		return nil, fmt.Errorf("check profile picture: %w", err)
	}
	if !hasPicture {
		return nil, ErrProfilePictureRequired
	}

	created, err := s.repo.CreateLike(ctx, likerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("create like: %w", err)
	}
	matched, err := s.repo.HasLiked(ctx, targetID, likerID)
	if err != nil {
		return nil, fmt.Errorf("check like back: %w", err)
	}
	if !created {
		return &LikeResult{Matched: matched}, nil
	}

	s.recomputeFame(ctx, targetID)

	if matched {
		s.notifyMatch(ctx, liker, targetID)
	} else if s.notifier != nil {
		s.notifier.NotifyLike(ctx, targetID, likerID, liker.Username)
	}
	logger.LogInfo(ctx, "User liked", "liker_id", likerID, "liked_id", targetID, "matched", matched)
	return &LikeResult{Matched: matched}, nil
}

func (s *Service) notifyMatch(ctx context.Context, liker *user.User, targetID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyMatch(ctx, targetID, liker.ID, liker.Username)

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil || target == nil {
		logger.LogWarn(ctx, "Match counterpart lookup failed", "user_id", targetID)
		return
	}
	s.notifier.NotifyMatch(ctx, liker.ID, target.ID, target.Username)
}

// Unlike removes a like. Undoing one side of a match notifies the other user.
func (s *Service) Unlike(ctx context.Context, likerID, targetID uuid.UUID) error {
	wasMatch, err := s.repo.HasLiked(ctx, targetID, likerID)
	if err != nil {
		return fmt.Errorf("check like back: %w", err)
	}

	deleted, err := s.repo.DeleteLike(ctx, likerID, targetID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if !deleted {
		return ErrLikeNotFound
	}

	s.recomputeFame(ctx, targetID)

	if wasMatch && s.notifier != nil {
		if liker, err := s.users.GetByID(ctx, likerID); err == nil && liker != nil {
			s.notifier.NotifyUnmatch(ctx, targetID, likerID, liker.Username)
		}
	}
	return nil
}

// BlockUser blocks a user and drops likes in both directions.
func (s *Service) BlockUser(ctx context.Context, blockerID, targetID uuid.UUID) error {
	if blockerID == targetID {
		return ErrCannotBlockSelf
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if target == nil {
		return ErrUserNotFound
	}

	block := &BlockRelation{
		ID:            uuid.New(),
		BlockerUserID: blockerID,
		BlockedUserID: targetID,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.CreateBlock(ctx, block); err != nil {
		return fmt.Errorf("create block: %w", err)
	}

	s.recomputeFame(ctx, blockerID)
	s.recomputeFame(ctx, targetID)
	logger.LogInfo(ctx, "User blocked", "blocker_id", blockerID, "blocked_id", targetID)
	return nil
}

// UnblockUser unblocks a user
func (s *Service) UnblockUser(ctx context.Context, blockerID, targetID uuid.UUID) error {
	deleted, err := s.repo.DeleteBlock(ctx, blockerID, targetID)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	if !deleted {
		return ErrBlockNotFound
	}

	s.recomputeFame(ctx, blockerID)
	s.recomputeFame(ctx, targetID)
	return nil
}

// ListMyBlocks returns all users blocked by the given user
func (s *Service) ListMyBlocks(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	return s.repo.ListBlocks(ctx, userID)
}

// IsBlockedEitherWay reports whether a or b blocked the other.
func (s *Service) IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.repo.IsBlockedEitherWay(ctx, a, b)
}

// RecordVisit stores a profile view. Self views and blocked pairs are ignored.
func (s *Service) RecordVisit(ctx context.Context, visitorID, visitedID uuid.UUID) error {
	if visitorID == visitedID {
		return nil
	}
	visitor, err := s.reachable(ctx, visitorID, visitedID)
	if err != nil {
		if errors.Is(err, ErrUserBlocked) {
			return nil
		}
		return err
	}

	visit := &Visit{ID: uuid.New(), VisitorID: visitorID, VisitedID: visitedID, CreatedAt: time.Now()}
	if err := s.repo.CreateVisit(ctx, visit); err != nil {
		return fmt.Errorf("create visit: %w", err)
	}

	s.recomputeFame(ctx, visitedID)
	if s.notifier != nil {
		s.notifier.NotifyVisit(ctx, visitedID, visitorID, visitor.Username)
	}
	return nil
}

// History loads received likes and visits concurrently.
func (s *Service) History(ctx context.Context, userID uuid.UUID) (*History, error) {
	var history History

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		likes, err := s.repo.ListLikesReceived(gctx, userID, historyLimit)
		if err != nil {
			return fmt.Errorf("list likes: %w", err)
		}
		history.Likes = likes
		return nil
	})
	g.Go(func() error {
		visits, err := s.repo.ListVisitsReceived(gctx, userID, historyLimit)
		if err != nil {
			return fmt.Errorf("list visits: %w", err)
		}
		history.Visits = visits
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &history, nil
}

// LikesReceived lists users who liked userID, newest first.
func (s *Service) LikesReceived(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	return s.repo.ListLikesReceived(ctx, userID, historyLimit)
}

// VisitsReceived lists users who viewed userID, newest first.
func (s *Service) VisitsReceived(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	return s.repo.ListVisitsReceived(ctx, userID, historyLimit)
}

// Matches lists users with a mutual like.
func (s *Service) Matches(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	return s.repo.ListMatches(ctx, userID)
}

// reachable loads the actor and fails when the target is missing or the pair is blocked.
func (s *Service) reachable(ctx context.Context, actorID, targetID uuid.UUID) (*user.User, error) {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	blocked, err := s.repo.IsBlockedEitherWay(ctx, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("check block: %w", err)
	}
	if blocked {
		return nil, ErrUserBlocked
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if actor == nil {
		return nil, ErrUserNotFound
	}
	return actor, nil
}

func (s *Service) recomputeFame(ctx context.Context, userID uuid.UUID) {
	if s.fame == nil {
		return
	}
	likes, visits, err := s.repo.CountReceived(ctx, userID)
	if err != nil {
		logger.LogError(ctx, err, "Failed to count received interactions", "user_id", userID)
		return
	}
	if err := s.fame.UpdateFameRating(ctx, userID, FameRating(likes, visits)); err != nil {
		logger.LogError(ctx, err, "Failed to update fame rating", "user_id", userID)
	}
}
