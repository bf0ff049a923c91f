package wizard

import (
	"strings"

	"github.com/matcha/matcha-api/internal/domain/profile"
)

// StepInput is merged into the draft before the current step saves. Only
// fields present in the body change.
type StepInput struct {
	profile.Changes
	FirstName *string `json:"first_name" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
}

// ApplyTo merges the input with the same rules as a profile update.
func (in *StepInput) ApplyTo(d *Draft) {
	p := d.Profile()
	in.Changes.ApplyTo(p)

	d.Age = p.Age
	d.Gender = p.Gender
	d.SexualOrientation = p.SexualOrientation
	d.Biography = p.Biography
	d.Interests = p.Interests
	d.City = p.City
	d.Latitude = p.Latitude
	d.Longitude = p.Longitude

	if in.FirstName != nil {
		d.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		d.LastName = strings.TrimSpace(*in.LastName)
	}
}

// StateResponse is returned by every onboarding endpoint. Errors and
// MissingFields explain why the wizard did not move.
type StateResponse struct {
	Flow          Flow                     `json:"flow"`
	Step          int                      `json:"step"`
	StepName      string                   `json:"step_name"`
	Steps         []string                 `json:"steps"`
	Optional      bool                     `json:"optional"`
	Done          bool                     `json:"done"`
	Draft         *Draft                   `json:"draft"`
	Completion    profile.CompletionStatus `json:"completion"`
	Errors        map[string]string        `json:"errors,omitempty"`
	MissingFields []string                 `json:"missing_fields,omitempty"`
}

func stateFrom(c *Controller, out Outcome) *StateResponse {
	session := c.Session()
	current := c.Current()
	return &StateResponse{
		Flow:          session.Flow,
		Step:          session.Step,
		StepName:      current.Name(),
		Steps:         c.Steps(),
		Optional:      current.Optional(),
		Done:          session.Done,
		Draft:         session.Draft,
		Completion:    profile.EvaluateCompleteness(session.Draft.Profile()),
		Errors:        out.Fields,
		MissingFields: out.MissingFields,
	}
}
