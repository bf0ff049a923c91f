package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Changes is a partial update. Nil fields are left untouched.
type Changes struct {
	Age               *int     `json:"age" validate:"omitempty,gte=18,lte=100"`
	Gender            *string  `json:"gender" validate:"omitempty,gender"`
	SexualOrientation *string  `json:"sexual_orientation" validate:"omitempty,orientation"`
	Biography         *string  `json:"biography" validate:"omitempty,max=500"`
	Interests         []string `json:"interests" validate:"omitempty,interests"`
	City              *string  `json:"city" validate:"omitempty,max=100"`
	Latitude          *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude         *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// UpdateProfileRequest for PATCH /profiles/me
type UpdateProfileRequest struct {
	Changes
}

// ApplyTo merges the set fields into p. Interests are trimmed and deduplicated
// case-insensitively, keeping the first spelling.
func (c Changes) ApplyTo(p *Profile) {
	if c.Age != nil {
		age := *c.Age
		p.Age = &age
	}
	if c.Gender != nil {
		p.Gender = *c.Gender
	}
	if c.SexualOrientation != nil {
		p.SexualOrientation = *c.SexualOrientation
	}
	if c.Biography != nil {
		p.Biography = strings.TrimSpace(*c.Biography)
	}
	if c.Interests != nil {
		p.Interests = NormalizeInterests(c.Interests)
	}
	if c.City != nil {
		p.City = strings.TrimSpace(*c.City)
	}
	if c.Latitude != nil && c.Longitude != nil {
		lat, lon := *c.Latitude, *c.Longitude
		p.Latitude, p.Longitude = &lat, &lon
	}
}

// IsEmpty reports whether no field is set.
func (c Changes) IsEmpty() bool {
	return c.Age == nil && c.Gender == nil && c.SexualOrientation == nil && c.Biography == nil &&
		c.Interests == nil && c.City == nil && c.Latitude == nil && c.Longitude == nil
}

func NormalizeInterests(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		key := strings.ToLower(t)
		if t == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ProfileResponse is the owner's view of a profile.
type ProfileResponse struct {
	UserID            uuid.UUID  `json:"user_id"`
	Username          string     `json:"username"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Age               *int       `json:"age,omitempty"`
	Gender            string     `json:"gender"`
	SexualOrientation string     `json:"sexual_orientation"`
	Biography         string     `json:"biography"`
	Interests         []string   `json:"interests"`
	City              string     `json:"city"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
	FameRating        int        `json:"fame_rating"`
	IsComplete        bool       `json:"is_complete"`
	IsOnline          bool       `json:"is_online"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
	Photos            []PhotoRef `json:"photos"`
	CreatedAt         string     `json:"created_at"`
	UpdatedAt         string     `json:"updated_at"`
}

// ProfileResponseFromEntity builds the owner view.
func ProfileResponseFromEntity(p *Profile) *ProfileResponse {
	interests := []string(p.Interests)
	if interests == nil {
		interests = []string{}
	}
	photos := p.Photos
	if photos == nil {
		photos = []PhotoRef{}
	}
	return &ProfileResponse{
		UserID:            p.UserID,
		Username:          p.Username,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Age:               p.Age,
		Gender:            p.Gender,
		SexualOrientation: p.SexualOrientation,
		Biography:         p.Biography,
		Interests:         interests,
		City:              p.City,
		Latitude:          p.Latitude,
		Longitude:         p.Longitude,
		FameRating:        p.FameRating,
		IsComplete:        p.IsComplete,
		ProfilePictureURL: p.ProfilePictureURL(),
		Photos:            photos,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}

// PublicProfileResponseFromEntity hides exact coordinates from other users.
func PublicProfileResponseFromEntity(p *Profile) *ProfileResponse {
	resp := ProfileResponseFromEntity(p)
	resp.Latitude = nil
	resp.Longitude = nil
	return resp
}
