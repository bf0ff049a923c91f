package profile

import (
	"math"
	"strings"
	"unicode/utf8"
)

// CompletionStatus is derived on every call and never stored.
type CompletionStatus struct {
	IsComplete           bool     `json:"is_complete"`
	CompletionPercentage int      `json:"completion_percentage"`
	MissingFields        []string `json:"missing_fields"`
}

// MissingProfileLabel is the single entry reported when there is no profile at all.
const MissingProfileLabel = "Profil complet"

type completenessField struct {
	Label    string
	Required bool
	Passes   func(p *Profile) bool
}

// completenessSchema is evaluated in declaration order. Step validation in the
// onboarding wizard uses the same predicates.
var completenessSchema = []completenessField{
	{"Genre", true, func(p *Profile) bool { return HasGender(p.Gender) }},
	{"Orientation sexuelle", true, func(p *Profile) bool { return HasOrientation(p.SexualOrientation) }},
	{"Biographie (10 caractères minimum)", true, func(p *Profile) bool { return HasBiography(p.Biography) }},
	{"Centres d'intérêt", true, func(p *Profile) bool { return HasInterests(p.Interests) }},
	{"Photos", true, func(p *Profile) bool { return len(p.Photos) > 0 }},
	{"Âge", false, func(p *Profile) bool { return HasValidAge(p.Age) }},
	{"Localisation", false, func(p *Profile) bool { return HasLocation(p.City, p.Latitude, p.Longitude) }},
}

func HasGender(g string) bool { return strings.TrimSpace(g) != "" }

func HasOrientation(o string) bool { return strings.TrimSpace(o) != "" }

// HasBiography is the one biography rule: at least MinBiography runes once trimmed.
func HasBiography(bio string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(bio)) >= MinBiography
}

// HasInterests reports at least one non-blank tag.
func HasInterests(tags []string) bool {
	for _, t := range tags {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}

func HasValidAge(age *int) bool {
	return age != nil && *age >= MinAge && *age <= MaxAge
}

// HasLocation is satisfied by a city or by both coordinates.
func HasLocation(city string, lat, lon *float64) bool {
	return strings.TrimSpace(city) != "" || (lat != nil && lon != nil)
}

// EvaluateCompleteness scores p against the fixed schema. A nil profile is fully incomplete.
func EvaluateCompleteness(p *Profile) CompletionStatus {
	if p == nil {
		return CompletionStatus{
			IsComplete:           false,
			CompletionPercentage: 0,
			MissingFields:        []string{MissingProfileLabel},
		}
	}

	completed := 0
	missing := []string{}
	for _, f := range completenessSchema {
		if f.Passes(p) {
			completed++
			continue
		}
		if f.Required {
			missing = append(missing, f.Label)
		}
	}

	return CompletionStatus{
		IsComplete:           len(missing) == 0,
		CompletionPercentage: int(math.Round(100 * float64(completed) / float64(len(completenessSchema)))),
		MissingFields:        missing,
	}
}
