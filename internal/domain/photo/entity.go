package photo

import (
	"time"

	"github.com/google/uuid"
)

// Photo is a stored profile photo. ProfileID is the owner's user id.
type Photo struct {
	ID               uuid.UUID `db:"id" json:"id"`
	ProfileID        uuid.UUID `db:"profile_id" json:"profile_id"`
	Key              string    `db:"key" json:"key"` // storage object key
	URL              string    `db:"url" json:"url"`
	Filename         string    `db:"filename" json:"filename"`
	MimeType         string    `db:"mime_type" json:"mime_type"`
	SizeBytes        int64     `db:"size_bytes" json:"size_bytes"`
	IsProfilePicture bool      `db:"is_profile_picture" json:"is_profile_picture"`
	SortOrder        int       `db:"sort_order" json:"sort_order"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// EnsureSingleProfilePicture returns a copy of photos in which exactly one photo
// is the profile picture: the first flagged one, or the first photo when none is.
// An empty input yields an empty result.
func EnsureSingleProfilePicture(photos []*Photo) []*Photo {
	out := make([]*Photo, len(photos))
	chosen := -1
	for i, p := range photos {
		cp := *p
		out[i] = &cp
		if cp.IsProfilePicture && chosen == -1 {
			chosen = i
		}
	}
	if len(out) == 0 {
		return out
	}
	if chosen == -1 {
		chosen = 0
	}
	for i := range out {
		out[i].IsProfilePicture = i == chosen
	}
	return out
}

// Without drops the photo with the given id and re-establishes the single
// profile picture over what remains.
func Without(photos []*Photo, id uuid.UUID) []*Photo {
	rest := make([]*Photo, 0, len(photos))
	for _, p := range photos {
		if p.ID != id {
			rest = append(rest, p)
		}
	}
	return EnsureSingleProfilePicture(rest)
}

// ProfilePicture returns the flagged photo, or nil.
func ProfilePicture(photos []*Photo) *Photo {
	for _, p := range photos {
		if p.IsProfilePicture {
			return p
		}
	}
	return nil
}
