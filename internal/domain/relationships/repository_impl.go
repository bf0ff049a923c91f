package relationships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new relationships repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// counterpartColumns selects the other user's identity and primary photo.
// $1 is always the current user, "other" the joined users row.
const counterpartColumns = `
	other.id AS user_id, other.username, other.first_name,
	(SELECT ph.url FROM photos ph WHERE ph.profile_id = other.id AND ph.is_profile_picture LIMIT 1) AS profile_picture_url`

const notBlocked = `
	NOT EXISTS (
		SELECT 1 FROM user_blocks b
		WHERE (b.blocker_user_id = $1 AND b.blocked_user_id = other.id)
		   OR (b.blocker_user_id = other.id AND b.blocked_user_id = $1))`

func (r *repository) CreateBlock(ctx context.Context, block *BlockRelation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_blocks (id, blocker_user_id, blocked_user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (blocker_user_id, blocked_user_id) DO NOTHING`,
		block.ID, block.BlockerUserID, block.BlockedUserID, block.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert block: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM likes
		WHERE (liker_id = $1 AND liked_id = $2) OR (liker_id = $2 AND liked_id = $1)`,
		block.BlockerUserID, block.BlockedUserID)
	if err != nil {
		return fmt.Errorf("delete likes: %w", err)
	}

	return tx.Commit()
}

func (r *repository) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	query := `DELETE FROM user_blocks WHERE blocker_user_id = $1 AND blocked_user_id = $2`
	res, err := r.db.ExecContext(ctx, query, blockerID, blockedID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM user_blocks
			WHERE (blocker_user_id = $1 AND blocked_user_id = $2)
			   OR (blocker_user_id = $2 AND blocked_user_id = $1))`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, a, b)
	return exists, err
}

func (r *repository) ListBlocks(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	query := `
		SELECT ` + counterpartColumns + `, b.created_at AS at
		FROM user_blocks b
		JOIN users other ON other.id = b.blocked_user_id
		WHERE b.blocker_user_id = $1
		ORDER BY b.created_at DESC`
	var items []*Counterpart
	err := r.db.SelectContext(ctx, &items, query, userID)
	return items, err
}

func (r *repository) CreateLike(ctx context.Context, likerID, likedID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO likes (liker_id, liked_id) VALUES ($1, $2)
		ON CONFLICT (liker_id, liked_id) DO NOTHING`, likerID, likedID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) DeleteLike(ctx context.Context, likerID, likedID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE liker_id = $1 AND liked_id = $2`, likerID, likedID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) HasLiked(ctx context.Context, likerID, likedID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE liker_id = $1 AND liked_id = $2)`, likerID, likedID)
	return exists, err
}

func (r *repository) CreateVisit(ctx context.Context, visit *Visit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO visits (id, visitor_id, visited_id, created_at) VALUES ($1, $2, $3, $4)`,
		visit.ID, visit.VisitorID, visit.VisitedID, visit.CreatedAt)
	return err
}

func (r *repository) CountReceived(ctx context.Context, userID uuid.UUID) (int, int, error) {
	var counts struct {
		Likes  int `db:"likes"`
		Visits int `db:"visits"`
	}
	query := `
		SELECT
			(SELECT COUNT(*) FROM likes l JOIN users other ON other.id = l.liker_id
			 WHERE l.liked_id = $1 AND ` + notBlocked + `) AS likes,
			(SELECT COUNT(*) FROM visits v JOIN users other ON other.id = v.visitor_id
			 WHERE v.visited_id = $1 AND ` + notBlocked + `) AS visits`
	if err := r.db.GetContext(ctx, &counts, query, userID); err != nil {
		return 0, 0, err
	}
	return counts.Likes, counts.Visits, nil
}

func (r *repository) ListLikesReceived(ctx context.Context, userID uuid.UUID, limit int) ([]*Counterpart, error) {
	query := `
		SELECT ` + counterpartColumns + `, l.created_at AS at
		FROM likes l
		JOIN users other ON other.id = l.liker_id
		WHERE l.liked_id = $1 AND ` + notBlocked + `
		ORDER BY l.created_at DESC
		LIMIT $2`
	var items []*Counterpart
	err := r.db.SelectContext(ctx, &items, query, userID, limit)
	return items, err
}

// ListVisitsReceived keeps only the latest visit of each visitor.
func (r *repository) ListVisitsReceived(ctx context.Context, userID uuid.UUID, limit int) ([]*Counterpart, error) {
	query := `
		SELECT ` + counterpartColumns + `, v.at
		FROM (
			SELECT visitor_id, MAX(created_at) AS at
			FROM visits WHERE visited_id = $1
			GROUP BY visitor_id
		) v
		JOIN users other ON other.id = v.visitor_id
		WHERE ` + notBlocked + `
		ORDER BY v.at DESC
		LIMIT $2`
	var items []*Counterpart
	err := r.db.SelectContext(ctx, &items, query, userID, limit)
	return items, err
}

func (r *repository) ListMatches(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	query := `
		SELECT ` + counterpartColumns + `, GREATEST(mine.created_at, theirs.created_at) AS at
		FROM likes mine
		JOIN likes theirs ON theirs.liker_id = mine.liked_id AND theirs.liked_id = mine.liker_id
		JOIN users other ON other.id = mine.liked_id
		WHERE mine.liker_id = $1 AND ` + notBlocked + `
		ORDER BY at DESC`
	var items []*Counterpart
	err := r.db.SelectContext(ctx, &items, query, userID)
	return items, err
}
