package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// CandidateQuery is the coarse SQL pre-filter for browsing. Fine filtering and
// ordering happen in the matching engine.
type CandidateQuery struct {
	ViewerID  uuid.UUID
	Genders   []string // empty means any
	AgeMin    *int
	AgeMax    *int
	FameMin   *int
	FameMax   *int
	City      string   // case-insensitive substring
	Interests []string // any tag containing any of these
	Limit     int
}

// Repository defines profile data access interface
type Repository interface {
	Create(ctx context.Context, userID uuid.UUID) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	UpdateLocation(ctx context.Context, userID uuid.UUID, city string, lat, lon *float64) error
	UpdateFameRating(ctx context.Context, userID uuid.UUID, fame int) error
	ListCandidates(ctx context.Context, q CandidateQuery) ([]*Profile, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const selectProfile = `
	SELECT p.user_id, u.username, u.first_name, u.last_name,
	       p.age, p.gender, p.sexual_orientation, p.biography, p.interests,
	       p.city, p.latitude, p.longitude, p.fame_rating, p.is_complete,
	       p.created_at, p.updated_at
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

func (r *repository) Create(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("profile repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	if err := r.db.GetContext(ctx, &p, selectProfile+` WHERE p.user_id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	photos, err := r.loadPhotos(ctx, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	p.Photos = photos[userID]
	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Profile) error {
	q := `UPDATE profiles SET
		age = $2, gender = $3, sexual_orientation = $4, biography = $5, interests = $6,
		city = $7, latitude = $8, longitude = $9, is_complete = $10, updated_at = NOW()
	WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, q,
		p.UserID, p.Age, p.Gender, p.SexualOrientation, p.Biography, pq.Array([]string(p.Interests)),
		p.City, p.Latitude, p.Longitude, p.IsComplete,
	)
	if err != nil {
		return fmt.Errorf("profile repository update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *repository) UpdateLocation(ctx context.Context, userID uuid.UUID, city string, lat, lon *float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET city = $2, latitude = $3, longitude = $4, updated_at = NOW() WHERE user_id = $1`,
		userID, city, lat, lon)
	return err
}

func (r *repository) UpdateFameRating(ctx context.Context, userID uuid.UUID, fame int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET fame_rating = $2 WHERE user_id = $1`, userID, fame)
	return err
}

func (r *repository) ListCandidates(ctx context.Context, q CandidateQuery) ([]*Profile, error) {
	conditions := []string{
		"p.is_complete = true",
		"p.user_id <> $1",
		`NOT EXISTS (
			SELECT 1 FROM user_blocks b
			WHERE (b.blocker_user_id = $1 AND b.blocked_user_id = p.user_id)
			   OR (b.blocker_user_id = p.user_id AND b.blocked_user_id = $1))`,
	}
	args := []interface{}{q.ViewerID}
	argIndex := 2

	if len(q.Genders) > 0 {
		conditions = append(conditions, fmt.Sprintf("p.gender = ANY($%d)", argIndex))
		args = append(args, pq.Array(q.Genders))
		argIndex++
	}
	// Missing ages pass the age bounds.
	if q.AgeMin != nil {
		conditions = append(conditions, fmt.Sprintf("(p.age IS NULL OR p.age >= $%d)", argIndex))
		args = append(args, *q.AgeMin)
		argIndex++
	}
	if q.AgeMax != nil {
		conditions = append(conditions, fmt.Sprintf("(p.age IS NULL OR p.age <= $%d)", argIndex))
		args = append(args, *q.AgeMax)
		argIndex++
	}
	if q.FameMin != nil {
		conditions = append(conditions, fmt.Sprintf("p.fame_rating >= $%d", argIndex))
		args = append(args, *q.FameMin)
		argIndex++
	}
	if q.FameMax != nil {
		conditions = append(conditions, fmt.Sprintf("p.fame_rating <= $%d", argIndex))
		args = append(args, *q.FameMax)
		argIndex++
	}

	if city := strings.TrimSpace(q.City); city != "" {
		conditions = append(conditions, fmt.Sprintf("p.city ILIKE $%d", argIndex))
		args = append(args, likePattern(city))
		argIndex++
	}
	if patterns := interestPatterns(q.Interests); len(patterns) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM unnest(p.interests) AS t(tag) WHERE t.tag ILIKE ANY($%d))`, argIndex))
		args = append(args, pq.Array(patterns))
		argIndex++
	}

	limit := q.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	query := fmt.Sprintf(`%s WHERE %s ORDER BY p.updated_at DESC LIMIT $%d`,
		selectProfile, strings.Join(conditions, " AND "), argIndex)
	args = append(args, limit)

	var profiles []*Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("profile repository list candidates: %w", err)
	}
	if len(profiles) == 0 {
		return profiles, nil
	}

	ids := make([]uuid.UUID, len(profiles))
	for i, p := range profiles {
		ids[i] = p.UserID
	}
	photos, err := r.loadPhotos(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		p.Photos = photos[p.UserID]
	}
	return profiles, nil
}

// Backslash is the default LIKE escape in Postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a contains pattern with LIKE wildcards escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func interestPatterns(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, likePattern(t))
		}
	}
	return out
}

func (r *repository) loadPhotos(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID][]PhotoRef, error) {
	ids := make([]string, len(profileIDs))
	for i, id := range profileIDs {
		ids[i] = id.String()
	}

	var rows []struct {
		ProfileID uuid.UUID `db:"profile_id"`
		PhotoRef
	}
	q := `SELECT profile_id, id, url, is_profile_picture, sort_order
		FROM photos WHERE profile_id = ANY($1::uuid[])
		ORDER BY profile_id, sort_order, created_at`
	if err := r.db.SelectContext(ctx, &rows, q, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("profile repository load photos: %w", err)
	}

	out := make(map[uuid.UUID][]PhotoRef, len(profileIDs))
	for _, row := range rows {
		out[row.ProfileID] = append(out[row.ProfileID], row.PhotoRef)
	}
	return out, nil
}
