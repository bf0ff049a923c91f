package matching

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/profile"
)

// candidatePoolSize bounds how many rows the SQL pre-filter hands to the engine.
// Every filter except distance runs in SQL, so the cap only trims the most
// stale profiles of a very large matching set.
const candidatePoolSize = 1000

// ProfileSource loads the viewer and the coarse candidate pool.
type ProfileSource interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	ListCandidates(ctx context.Context, q profile.CandidateQuery) ([]*profile.Profile, error)
}

// Service serves browse results.
type Service struct {
	profiles ProfileSource
}

func NewService(profiles ProfileSource) *Service {
	return &Service{profiles: profiles}
}

// Page is one window of ranked candidates.
type Page struct {
	Items []Candidate
	Total int
	Page  int
	Limit int
}

// Browse ranks every visible candidate for viewerID and returns the requested page.
// Blocked users and incomplete profiles are removed by the repository.
func (s *Service) Browse(ctx context.Context, viewerID uuid.UUID, req *BrowseRequest) (*Page, error) {
	viewer, err := s.profiles.GetByUserID(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load viewer: %w", err)
	}
	if viewer == nil {
		return nil, profile.ErrProfileNotFound
	}

	pool, err := s.profiles.ListCandidates(ctx, profile.CandidateQuery{
		ViewerID:  viewerID,
		Genders:   CompatibleGenders(viewer),
		AgeMin:    req.AgeMin,
		AgeMax:    req.AgeMax,
		FameMin:   req.FameMin,
		FameMax:   req.FameMax,
		City:      req.Location,
		Interests: req.Tags,
		Limit:     candidatePoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	ranked := Rank(viewer, pool, req.Filters(), ParseSortMode(req.Sort), ParseOrder(req.Order))

	start := (req.Page - 1) * req.Limit
	if start > len(ranked) {
		start = len(ranked)
	}
	end := start + req.Limit
	if end > len(ranked) {
		end = len(ranked)
	}

	return &Page{
		Items: ranked[start:end],
		Total: len(ranked),
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}
