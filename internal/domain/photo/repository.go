package photo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines photo data access interface
type Repository interface {
	Create(ctx context.Context, photo *Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*Photo, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*Photo, error)
	CountByProfile(ctx context.Context, profileID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetProfilePicture(ctx context.Context, profileID, photoID uuid.UUID) error
	Reorder(ctx context.Context, profileID uuid.UUID, photoIDs []uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new photo repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const photoColumns = `id, profile_id, key, url, filename, mime_type, size_bytes, is_profile_picture, sort_order, created_at`

func (r *repository) Create(ctx context.Context, photo *Photo) error {
	query := `
		INSERT INTO photos (` + photoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		photo.ID,
		photo.ProfileID,
		photo.Key,
		photo.URL,
		photo.Filename,
		photo.MimeType,
		photo.SizeBytes,
		photo.IsProfilePicture,
		photo.SortOrder,
		photo.CreatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Photo, error) {
	var photo Photo
	err := r.db.GetContext(ctx, &photo, `SELECT `+photoColumns+` FROM photos WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}

func (r *repository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE profile_id = $1 ORDER BY sort_order, created_at`
	var photos []*Photo
	err := r.db.SelectContext(ctx, &photos, query, profileID)
	return photos, err
}

func (r *repository) CountByProfile(ctx context.Context, profileID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM photos WHERE profile_id = $1`, profileID)
	return count, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	return err
}

// SetProfilePicture clears the old flag before setting the new one, in one
// transaction, so the one-picture-per-profile index never sees two.
func (r *repository) SetProfilePicture(ctx context.Context, profileID, photoID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE photos SET is_profile_picture = false WHERE profile_id = $1 AND is_profile_picture AND id <> $2`,
		profileID, photoID)
	if err != nil {
		return fmt.Errorf("clear profile picture: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE photos SET is_profile_picture = true WHERE id = $1 AND profile_id = $2`,
		photoID, profileID)
	if err != nil {
		return fmt.Errorf("set profile picture: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPhotoNotFound
	}

	return tx.Commit()
}

func (r *repository) Reorder(ctx context.Context, profileID uuid.UUID, photoIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, id := range photoIDs {
		_, err = tx.ExecContext(ctx,
			`UPDATE photos SET sort_order = $3 WHERE id = $1 AND profile_id = $2`, id, profileID, i)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
