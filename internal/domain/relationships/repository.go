package relationships

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines relationships data access interface
type Repository interface {
	// Block also removes likes in both directions.
	CreateBlock(ctx context.Context, block *BlockRelation) error
	DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
	IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListBlocks(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error)

	CreateLike(ctx context.Context, likerID, likedID uuid.UUID) (bool, error)
	DeleteLike(ctx context.Context, likerID, likedID uuid.UUID) (bool, error)
	HasLiked(ctx context.Context, likerID, likedID uuid.UUID) (bool, error)

	CreateVisit(ctx context.Context, visit *Visit) error

	// CountReceived returns likes and visits received, ignoring blocked users.
	CountReceived(ctx context.Context, userID uuid.UUID) (likes, visits int, err error)
	ListLikesReceived(ctx context.Context, userID uuid.UUID, limit int) ([]*Counterpart, error)
	ListVisitsReceived(ctx context.Context, userID uuid.UUID, limit int) ([]*Counterpart, error)
	ListMatches(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error)
}
