// Package matching decides which profiles a viewer may see and in which order.
//
// Everything in engine.go is pure: no I/O, no clock, no errors. Malformed but
// present data (unknown genders, nil interests, missing ages) is tolerated.
package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/profile"
)

// SortMode names a candidate ordering.
type SortMode string

const (
	SortRecommended     SortMode = "recommended"
	SortAge             SortMode = "age"
	SortFameRating      SortMode = "fame_rating"
	SortName            SortMode = "name"
	SortDistance        SortMode = "distance"
	SortCommonInterests SortMode = "common_interests"
)

// Order optionally overrides a sort mode's natural direction.
type Order string

const (
	OrderDefault Order = ""
	OrderAsc     Order = "asc"
	OrderDesc    Order = "desc"
)

// Score weights.
const (
	fameWeight     = 0.3
	interestWeight = 10.0
	sameCityBonus  = 30.0
	richnessBonus  = 20.0
	richPhotoCount = 2 // strictly more photos than this
	earthRadiusKm  = 6371.0
)

// Candidate is another user's profile as seen by a viewer.
type Candidate struct {
	Profile             *profile.Profile
	CommonInterestCount int
	Score               float64
	DistanceKm          *float64
}

// Filters narrow the compatible set. Nil bounds and empty strings are ignored.
type Filters struct {
	AgeMin        *int
	AgeMax        *int
	FameMin       *int
	FameMax       *int
	Location      string
	Interests     []string
	MaxDistanceKm *float64
}

func normalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "male", "man", "homme", "m":
		return profile.GenderMale
	case "female", "woman", "femme", "f":
		return profile.GenderFemale
	}
	return ""
}

func normalizeOrientation(o string) string {
	switch strings.ToLower(strings.TrimSpace(o)) {
	case "hetero", "heterosexual", "hétéro", "hétérosexuel":
		return profile.OrientationHetero
	case "homo", "homosexual", "homosexuel", "gay":
		return profile.OrientationHomo
	}
	return profile.OrientationBi
}

func opposite(gender string) string {
	if gender == profile.GenderMale {
		return profile.GenderFemale
	}
	return profile.GenderMale
}

// CompatibleGenders lists the candidate genders a viewer may see. Nil means any.
func CompatibleGenders(viewer *profile.Profile) []string {
	if viewer == nil {
		return nil
	}
	g := normalizeGender(viewer.Gender)
	if g == "" {
		return nil
	}
	switch normalizeOrientation(viewer.SexualOrientation) {
	case profile.OrientationHetero:
		return []string{opposite(g)}
	case profile.OrientationHomo:
		return []string{g}
	}
	return nil
}

// Compatible applies the viewer's orientation: hetero sees the opposite gender,
// homo the same gender, bi or unspecified everyone. A viewer whose own gender
// is unknown is unrestricted.
func Compatible(viewer, candidate *profile.Profile) bool {
	if candidate == nil {
		return false
	}
	allowed := CompatibleGenders(viewer)
	if allowed == nil {
		return true
	}
	return normalizeGender(candidate.Gender) == allowed[0]
}

func tagKey(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// CommonInterestCount counts distinct tags present in both lists, ignoring case.
func CommonInterestCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		if k := tagKey(t); k != "" {
			set[k] = struct{}{}
		}
	}
	n := 0
	for _, t := range b {
		k := tagKey(t)
		if _, ok := set[k]; ok {
			n++
			delete(set, k)
		}
	}
	return n
}

// Score is 0.3×fame + 10×common interests + 30 for the same city + 20 when the
// candidate has a biography and more than two photos.
func Score(viewer, candidate *profile.Profile) float64 {
	if candidate == nil {
		return 0
	}
	s := fameWeight * float64(candidate.FameRating)
	if viewer != nil {
		s += interestWeight * float64(CommonInterestCount(viewer.Interests, candidate.Interests))
		if sameCity(viewer.City, candidate.City) {
			s += sameCityBonus
		}
	}
	if strings.TrimSpace(candidate.Biography) != "" && len(candidate.Photos) > richPhotoCount {
		s += richnessBonus
	}
	return s
}

func sameCity(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && b != "" && strings.EqualFold(a, b)
}

// DistanceKm is the haversine distance, or nil unless both sides have coordinates.
func DistanceKm(a, b *profile.Profile) *float64 {
	if a == nil || b == nil || !a.HasCoordinates() || !b.HasCoordinates() {
		return nil
	}
	d := haversine(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
	return &d
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Matches reports whether c passes every set filter.
func (f Filters) Matches(c Candidate) bool {
	p := c.Profile
	if p.Age != nil {
		if f.AgeMin != nil && *p.Age < *f.AgeMin {
			return false
		}
		if f.AgeMax != nil && *p.Age > *f.AgeMax {
			return false
		}
	}
	if f.FameMin != nil && p.FameRating < *f.FameMin {
		return false
	}
	if f.FameMax != nil && p.FameRating > *f.FameMax {
		return false
	}
	if loc := tagKey(f.Location); loc != "" && !strings.Contains(strings.ToLower(p.City), loc) {
		return false
	}
	if !anyTagContains(p.Interests, f.Interests) {
		return false
	}
	// Without a viewer position the distance filter cannot apply.
	if f.MaxDistanceKm != nil && c.DistanceKm != nil && *c.DistanceKm > *f.MaxDistanceKm {
		return false
	}
	return true
}

// anyTagContains is true when no filter tags are given, or when some candidate
// tag contains some filter tag as a case-insensitive substring.
func anyTagContains(tags, wanted []string) bool {
	needles := make([]string, 0, len(wanted))
	for _, w := range wanted {
		if k := tagKey(w); k != "" {
			needles = append(needles, k)
		}
	}
	if len(needles) == 0 {
		return true
	}
	for _, t := range tags {
		hay := strings.ToLower(t)
		for _, n := range needles {
			if strings.Contains(hay, n) {
				return true
			}
		}
	}
	return false
}

// Rank filters candidates for viewer and sorts them. Order of operations:
// compatibility, secondary filters, de-duplication by user id, self exclusion,
// then a stable sort.
func Rank(viewer *profile.Profile, candidates []*profile.Profile, filters Filters, mode SortMode, order Order) []Candidate {
	var viewerID uuid.UUID
	if viewer != nil {
		viewerID = viewer.UserID
	}

	out := make([]Candidate, 0, len(candidates))
	seen := make(map[uuid.UUID]struct{}, len(candidates))
	for _, p := range candidates {
		if !Compatible(viewer, p) {
			continue
		}

		c := Candidate{Profile: p, DistanceKm: DistanceKm(viewer, p)}
		if viewer != nil {
			c.CommonInterestCount = CommonInterestCount(viewer.Interests, p.Interests)
		}
		c.Score = Score(viewer, p)

		if !filters.Matches(c) {
			continue
		}
		if _, dup := seen[p.UserID]; dup {
			continue
		}
		seen[p.UserID] = struct{}{}
		if viewer != nil && p.UserID == viewerID {
			continue
		}
		out = append(out, c)
	}

	Sort(out, mode, order)
	return out
}

// Sort orders candidates in place. Ties keep their input order.
func Sort(cs []Candidate, mode SortMode, order Order) {
	less, natural := lessFor(mode)
	if order != OrderDefault && order != natural {
		asc := less
		less = func(a, b Candidate) bool { return asc(b, a) }
	}
	sort.SliceStable(cs, func(i, j int) bool { return less(cs[i], cs[j]) })
}

// lessFor returns the comparator for mode and the direction it sorts in.
func lessFor(mode SortMode) (func(a, b Candidate) bool, Order) {
	switch mode {
	case SortAge:
		return func(a, b Candidate) bool {
			// Unknown ages sort last.
			if a.Profile.Age == nil || b.Profile.Age == nil {
				return a.Profile.Age != nil && b.Profile.Age == nil
			}
			return *a.Profile.Age < *b.Profile.Age
		}, OrderAsc
	case SortFameRating:
		return func(a, b Candidate) bool {
			return a.Profile.FameRating > b.Profile.FameRating
		}, OrderDesc
	case SortName:
		return func(a, b Candidate) bool {
			return strings.ToLower(a.Profile.DisplayName()) < strings.ToLower(b.Profile.DisplayName())
		}, OrderAsc
	case SortDistance:
		return func(a, b Candidate) bool {
			ka, kb := distanceRank(a), distanceRank(b)
			if ka != kb {
				return ka < kb
			}
			if a.DistanceKm != nil {
				return *a.DistanceKm < *b.DistanceKm
			}
			return strings.ToLower(a.Profile.City) < strings.ToLower(b.Profile.City)
		}, OrderAsc
	case SortCommonInterests:
		return func(a, b Candidate) bool {
			return a.CommonInterestCount > b.CommonInterestCount
		}, OrderDesc
	default:
		return func(a, b Candidate) bool {
			return a.Score > b.Score
		}, OrderDesc
	}
}

// distanceRank puts measurable distances before city-name fallbacks.
func distanceRank(c Candidate) int {
	if c.DistanceKm != nil {
		return 0
	}
	return 1
}

// ParseSortMode maps an unknown or empty value to recommended.
func ParseSortMode(s string) SortMode {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SortAge, SortFameRating, SortName, SortDistance, SortCommonInterests:
		return m
	}
	return SortRecommended
}

// ParseOrder maps anything but asc/desc to the natural direction.
func ParseOrder(s string) Order {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderAsc, OrderDesc:
		return o
	}
	return OrderDefault
}
