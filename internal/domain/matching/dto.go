package matching

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matcha/matcha-api/internal/domain/profile"
)

// BrowseRequest is GET /browse query string.
type BrowseRequest struct {
	AgeMin        *int     `json:"age_min" validate:"omitempty,gte=18,lte=100"`
	AgeMax        *int     `json:"age_max" validate:"omitempty,gte=18,lte=100"`
	FameMin       *int     `json:"fame_min" validate:"omitempty,gte=0,lte=100"`
	FameMax       *int     `json:"fame_max" validate:"omitempty,gte=0,lte=100"`
	Location      string   `json:"location" validate:"omitempty,max=100"`
	Tags          []string `json:"tags" validate:"omitempty,interests"`
	MaxDistanceKm *float64 `json:"max_distance_km" validate:"omitempty,gt=0"`
	Sort          string   `json:"sort" validate:"omitempty,sort_mode"`
	Order         string   `json:"order" validate:"omitempty,oneof=asc desc"`
	Page          int      `json:"page" validate:"gte=1"`
	Limit         int      `json:"limit" validate:"gte=1,lte=100"`
}

// ParseBrowseRequest reads the query string. Malformed numbers are reported by
// field name so they render like validation errors.
func ParseBrowseRequest(q url.Values) (*BrowseRequest, map[string]string) {
	req := &BrowseRequest{
		Location: strings.TrimSpace(q.Get("location")),
		Sort:     strings.ToLower(q.Get("sort")),
		Order:    strings.ToLower(q.Get("order")),
		Page:     1,
		Limit:    20,
	}
	errs := map[string]string{}

	ints := map[string]**int{"age_min": &req.AgeMin, "age_max": &req.AgeMax, "fame_min": &req.FameMin, "fame_max": &req.FameMax}
	for name, dst := range ints {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				errs[name] = "Must be an integer"
				continue
			}
			*dst = &v
		}
	}
	if raw := q.Get("max_distance_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs["max_distance_km"] = "Must be a number"
		} else {
			req.MaxDistanceKm = &v
		}
	}
	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			req.Page = v
		} else {
			errs["page"] = "Must be an integer"
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			req.Limit = v
		} else {
			errs["limit"] = "Must be an integer"
		}
	}

	// tags=a,b and tags=a&tags=b are both accepted.
	for _, v := range q["tags"] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				req.Tags = append(req.Tags, t)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return req, nil
}

// Filters converts the request into engine filters.
func (r *BrowseRequest) Filters() Filters {
	return Filters{
		AgeMin:        r.AgeMin,
		AgeMax:        r.AgeMax,
		FameMin:       r.FameMin,
		FameMax:       r.FameMax,
		Location:      r.Location,
		Interests:     r.Tags,
		MaxDistanceKm: r.MaxDistanceKm,
	}
}

// CandidateResponse is one browse result.
type CandidateResponse struct {
	*profile.ProfileResponse
	CommonInterestCount int      `json:"common_interest_count"`
	Score               float64  `json:"score"`
	DistanceKm          *float64 `json:"distance_km,omitempty"`
}

func CandidateResponseFromCandidate(c Candidate) *CandidateResponse {
	return &CandidateResponse{
		ProfileResponse:     profile.PublicProfileResponseFromEntity(c.Profile),
		CommonInterestCount: c.CommonInterestCount,
		Score:               c.Score,
		DistanceKm:          c.DistanceKm,
	}
}
