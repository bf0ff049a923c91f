package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/photo"
	"github.com/matcha/matcha-api/internal/domain/profile"
)

// Result is the outcome of a step save. Fields holds per-field messages; Err a
// collaborator failure.
type Result struct {
	Fields map[string]string
	Err    error
}

// OK reports a successful save.
func (r Result) OK() bool {
	return len(r.Fields) == 0 && r.Err == nil
}

func invalid(field, message string) Result {
	return Result{Fields: map[string]string{field: message}}
}

// Field messages use the same language as the completeness labels.
const (
	msgRequired         = "Ce champ est obligatoire"
	msgInterestRequired = "Ajoutez au moins un centre d'intérêt"
	msgPhotoRequired    = "Ajoutez au moins une photo"
	msgLocationRequired = "Indiquez une ville ou partagez votre position"
)

func msgAgeRange() string {
	return fmt.Sprintf("L'âge doit être compris entre %d et %d ans", profile.MinAge, profile.MaxAge)
}

func msgBiographyLength() string {
	return fmt.Sprintf("La biographie doit contenir au moins %d caractères", profile.MinBiography)
}

// Step is one screen of the wizard.
type Step interface {
	Name() string
	Optional() bool
	ValidateAndSave(ctx context.Context, d *Draft) Result
}

// NameSaver stores account names.
type NameSaver interface {
	SetNames(ctx context.Context, userID uuid.UUID, firstName, lastName string) error
}

// PhotoLister returns a user's stored photos.
type PhotoLister interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]*photo.Photo, error)
}

// personalStep collects the account names and age.
type personalStep struct {
	names NameSaver
}

func (s personalStep) Name() string   { return "personal" }
func (s personalStep) Optional() bool { return false }

func (s personalStep) ValidateAndSave(ctx context.Context, d *Draft) Result {
	fields := map[string]string{}
	if strings.TrimSpace(d.FirstName) == "" {
		fields["first_name"] = msgRequired
	}
	if strings.TrimSpace(d.LastName) == "" {
		fields["last_name"] = msgRequired
	}
	if d.Age != nil && !profile.HasValidAge(d.Age) {
		fields["age"] = msgAgeRange()
	}
	if len(fields) > 0 {
		return Result{Fields: fields}
	}

	if err := s.names.SetNames(ctx, d.UserID, strings.TrimSpace(d.FirstName), strings.TrimSpace(d.LastName)); err != nil {
		return Result{Err: fmt.Errorf("save names: %w", err)}
	}
	return Result{}
}

// detailsStep checks the required profile fields with the completeness predicates.
type detailsStep struct{}

func (detailsStep) Name() string   { return "details" }
func (detailsStep) Optional() bool { return false }

func (detailsStep) ValidateAndSave(ctx context.Context, d *Draft) Result {
	fields := map[string]string{}
	if !profile.HasGender(d.Gender) {
		fields["gender"] = msgRequired
	}
	if !profile.HasOrientation(d.SexualOrientation) {
		fields["sexual_orientation"] = msgRequired
	}
	if !profile.HasBiography(d.Biography) {
		fields["biography"] = msgBiographyLength()
	}
	if !profile.HasInterests(d.Interests) {
		fields["interests"] = msgInterestRequired
	}
	if d.Age != nil && !profile.HasValidAge(d.Age) {
		fields["age"] = msgAgeRange()
	}
	if len(fields) > 0 {
		return Result{Fields: fields}
	}
	return Result{}
}

// photosStep pulls the photos uploaded through the photo endpoints into the draft.
type photosStep struct {
	photos PhotoLister
}

func (s photosStep) Name() string   { return "photos" }
func (s photosStep) Optional() bool { return false }

func (s photosStep) ValidateAndSave(ctx context.Context, d *Draft) Result {
	if err := loadPhotos(ctx, s.photos, d); err != nil {
		return Result{Err: err}
	}
	if len(d.Photos) == 0 {
		return invalid("photos", msgPhotoRequired)
	}
	return Result{}
}

// loadPhotos replaces the draft's photo list with the stored one.
func loadPhotos(ctx context.Context, lister PhotoLister, d *Draft) error {
	stored, err := lister.ListMine(ctx, d.UserID)
	if err != nil {
		return fmt.Errorf("list photos: %w", err)
	}

	refs := make([]profile.PhotoRef, 0, len(stored))
	for _, p := range stored {
		refs = append(refs, profile.PhotoRef{
			ID:               p.ID,
			URL:              p.URL,
			IsProfilePicture: p.IsProfilePicture,
			SortOrder:        p.SortOrder,
		})
	}
	d.Photos = refs
	return nil
}

// locationStep accepts a city or a coordinate pair. It can be skipped.
type locationStep struct{}

func (locationStep) Name() string   { return "location" }
func (locationStep) Optional() bool { return true }

func (locationStep) ValidateAndSave(ctx context.Context, d *Draft) Result {
	if !profile.HasLocation(d.City, d.Latitude, d.Longitude) {
		return invalid("location", msgLocationRequired)
	}
	return Result{}
}

// Steps builds the step sequence of a flow.
func Steps(flow Flow, names NameSaver, photos PhotoLister) []Step {
	steps := []Step{detailsStep{}, photosStep{photos: photos}, locationStep{}}
	if flow == FlowExtended {
		steps = append([]Step{personalStep{names: names}}, steps...)
	}
	return steps
}
