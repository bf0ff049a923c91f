package wizard

import (
	"time"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/profile"
)

// Flow selects the step sequence.
type Flow string

const (
	FlowStreamlined Flow = "streamlined" // details, photos, location
	FlowExtended    Flow = "extended"    // personal info first
)

// ParseFlow defaults to the streamlined flow.
func ParseFlow(s string) Flow {
	if Flow(s) == FlowExtended {
		return FlowExtended
	}
	return FlowStreamlined
}

// Draft is the working copy edited by the wizard. Nothing in it reaches the
// profile until Finish succeeds.
type Draft struct {
	UserID            uuid.UUID          `json:"user_id"`
	FirstName         string             `json:"first_name"`
	LastName          string             `json:"last_name"`
	Age               *int               `json:"age,omitempty"`
	Gender            string             `json:"gender"`
	SexualOrientation string             `json:"sexual_orientation"`
	Biography         string             `json:"biography"`
	Interests         []string           `json:"interests"`
	City              string             `json:"city"`
	Latitude          *float64           `json:"latitude,omitempty"`
	Longitude         *float64           `json:"longitude,omitempty"`
	Photos            []profile.PhotoRef `json:"photos"`
}

// DraftFromProfile seeds a draft from what is already stored.
func DraftFromProfile(p *profile.Profile) *Draft {
	return &Draft{
		UserID:            p.UserID,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Age:               p.Age,
		Gender:            p.Gender,
		SexualOrientation: p.SexualOrientation,
		Biography:         p.Biography,
		Interests:         append([]string(nil), p.Interests...),
		City:              p.City,
		Latitude:          p.Latitude,
		Longitude:         p.Longitude,
		Photos:            append([]profile.PhotoRef(nil), p.Photos...),
	}
}

// Profile returns the draft as a profile for evaluation and persistence.
func (d *Draft) Profile() *profile.Profile {
	return &profile.Profile{
		UserID:            d.UserID,
		FirstName:         d.FirstName,
		LastName:          d.LastName,
		Age:               d.Age,
		Gender:            d.Gender,
		SexualOrientation: d.SexualOrientation,
		Biography:         d.Biography,
		Interests:         append([]string(nil), d.Interests...),
		City:              d.City,
		Latitude:          d.Latitude,
		Longitude:         d.Longitude,
		Photos:            append([]profile.PhotoRef(nil), d.Photos...),
	}
}

// Session is the persisted wizard state of one user.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Flow      Flow      `json:"flow"`
	Step      int       `json:"step"`
	Done      bool      `json:"done"`
	Draft     *Draft    `json:"draft"`
	UpdatedAt time.Time `json:"updated_at"`
}
