package relationships

import (
	"time"

	"github.com/google/uuid"
)

// BlockRelation represents a user-to-user block
type BlockRelation struct {
	ID            uuid.UUID `db:"id" json:"id"`
	BlockerUserID uuid.UUID `db:"blocker_user_id" json:"blocker_user_id"`
	BlockedUserID uuid.UUID `db:"blocked_user_id" json:"blocked_user_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Visit is one profile view.
type Visit struct {
	ID        uuid.UUID `db:"id"`
	VisitorID uuid.UUID `db:"visitor_id"`
	VisitedID uuid.UUID `db:"visited_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Counterpart is the other user of a like, visit, match or block, as listed in history.
type Counterpart struct {
	UserID            uuid.UUID `db:"user_id"`
	Username          string    `db:"username"`
	FirstName         string    `db:"first_name"`
	ProfilePictureURL *string   `db:"profile_picture_url"`
	At                time.Time `db:"at"`
}

// LikeResult is the state after a like.
type LikeResult struct {
	Matched bool `json:"matched"`
}

// History groups what others did to a user.
type History struct {
	Likes  []*Counterpart
	Visits []*Counterpart
}

const (
	likeWeight = 5
	maxFame    = 100
)

// FameRating derives popularity from received likes and visits. Two visits
// weigh as much as a tenth of a like.
func FameRating(likesReceived, visitsReceived int) int {
	fame := likeWeight*likesReceived + visitsReceived/2
	if fame > maxFame {
		return maxFame
	}
	if fame < 0 {
		return 0
	}
	return fame
}
