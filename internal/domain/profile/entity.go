package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"

	OrientationHetero = "hetero"
	OrientationHomo   = "homo"
	OrientationBi     = "bi"

	MinAge          = 18
	MaxAge          = 100
	MaxBiography    = 500
	MinBiography    = 10
	MaxInterests    = 10
	MaxFameRating   = 100
	MaxPhotoPerUser = 5
)

// Profile is the dating profile owned by one user. Username and names are
// joined from users and read-only here.
type Profile struct {
	UserID    uuid.UUID `db:"user_id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`

	Age               *int           `db:"age"`
	Gender            string         `db:"gender"`
	SexualOrientation string         `db:"sexual_orientation"`
	Biography         string         `db:"biography"`
	Interests         pq.StringArray `db:"interests"`

	City      string   `db:"city"`
	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`

	// Server computed, never written by clients.
	FameRating int  `db:"fame_rating"`
	IsComplete bool `db:"is_complete"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Loaded separately from the photos table, ordered by sort_order.
	Photos []PhotoRef `db:"-"`
}

// PhotoRef is the read side of a stored photo.
type PhotoRef struct {
	ID               uuid.UUID `db:"id" json:"id"`
	URL              string    `db:"url" json:"url"`
	IsProfilePicture bool      `db:"is_profile_picture" json:"is_profile_picture"`
	SortOrder        int       `db:"sort_order" json:"sort_order"`
}

// HasCoordinates reports whether both coordinates are set.
func (p *Profile) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// ProfilePictureURL returns the URL of the flagged photo, or "".
func (p *Profile) ProfilePictureURL() string {
	for _, ph := range p.Photos {
		if ph.IsProfilePicture {
			return ph.URL
		}
	}
	return ""
}

// DisplayName is the first name, falling back to the username.
func (p *Profile) DisplayName() string {
	if strings.TrimSpace(p.FirstName) != "" {
		return p.FirstName
	}
	return p.Username
}
