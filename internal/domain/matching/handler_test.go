package matching

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/profile"
	"github.com/matcha/matcha-api/internal/middleware"
)

type fakeProfileSource struct {
	viewer    *profile.Profile
	pool      []*profile.Profile
	lastQuery profile.CandidateQuery
}

func (f *fakeProfileSource) GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	if f.viewer != nil && f.viewer.UserID == userID {
		return f.viewer, nil
	}
	return nil, nil
}

func (f *fakeProfileSource) ListCandidates(ctx context.Context, q profile.CandidateQuery) ([]*profile.Profile, error) {
	f.lastQuery = q
	return f.pool, nil
}

type browseEnvelope struct {
	Success bool `json:"success"`
	Data    []struct {
		UserID              uuid.UUID `json:"user_id"`
		FirstName           string    `json:"first_name"`
		CommonInterestCount int       `json:"common_interest_count"`
		Latitude            *float64  `json:"latitude"`
	} `json:"data"`
	Meta struct {
		Total   int  `json:"total"`
		Page    int  `json:"page"`
		HasNext bool `json:"has_next"`
	} `json:"meta"`
}

func serveBrowse(t *testing.T, src *fakeProfileSource, viewerID uuid.UUID, query string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(NewService(src))
	req := httptest.NewRequest(http.MethodGet, "/browse?"+query, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), viewerID))
	rec := httptest.NewRecorder()
	h.Browse(rec, req)
	return rec
}

func TestBrowse_PaginatesRankedResults(t *testing.T) {
	viewer := person("v", "male", "hetero")
	src := &fakeProfileSource{viewer: viewer}
	for _, n := range []string{"d", "a", "c", "b", "e"} {
		p := person(n, "female", "")
		p.Latitude, p.Longitude = floatPtr(1), floatPtr(1)
		src.pool = append(src.pool, p)
	}
	src.pool = append(src.pool, person("m", "male", ""))

	rec := serveBrowse(t, src, viewer.UserID, "sort=name&page=2&limit=2")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var env browseEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Meta.Total != 5 || env.Meta.Page != 2 || !env.Meta.HasNext {
		t.Fatalf("unexpected meta %+v", env.Meta)
	}
	if len(env.Data) != 2 || env.Data[0].FirstName != "c" || env.Data[1].FirstName != "d" {
		t.Fatalf("unexpected page %+v", env.Data)
	}
	if env.Data[0].Latitude != nil {
		t.Fatalf("coordinates leaked in browse results")
	}
	if len(src.lastQuery.Genders) != 1 || src.lastQuery.Genders[0] != profile.GenderFemale {
		t.Fatalf("expected SQL pre-filter on female, got %v", src.lastQuery.Genders)
	}
}

func TestBrowse_TagsFilter(t *testing.T) {
	viewer := person("v", "female", "bi")
	viewer.Interests = []string{"jazz"}
	hiker := person("hiker", "male", "")
	hiker.Interests = []string{"Hiking"}
	jazzy := person("jazzy", "male", "")
	jazzy.Interests = []string{"Jazz"}
	src := &fakeProfileSource{viewer: viewer, pool: []*profile.Profile{hiker, jazzy}}

	rec := serveBrowse(t, src, viewer.UserID, "tags=JAZ,%20opera")

	var env browseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if len(env.Data) != 1 || env.Data[0].FirstName != "jazzy" || env.Data[0].CommonInterestCount != 1 {
		t.Fatalf("unexpected results %+v", env.Data)
	}
	if len(src.lastQuery.Interests) != 2 {
		t.Fatalf("expected tags in the SQL pre-filter, got %v", src.lastQuery.Interests)
	}
}

func TestBrowse_LocationReachesPreFilter(t *testing.T) {
	viewer := person("v", "male", "hetero")
	lyon := person("lyon", "female", "")
	lyon.City = "Lyon"
	src := &fakeProfileSource{viewer: viewer, pool: []*profile.Profile{lyon}}

	rec := serveBrowse(t, src, viewer.UserID, "location=%20lyo%20")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if src.lastQuery.City != "lyo" {
		t.Fatalf("expected city pre-filter, got %q", src.lastQuery.City)
	}
	if src.lastQuery.Limit != candidatePoolSize {
		t.Fatalf("limit = %d", src.lastQuery.Limit)
	}
}

func TestBrowse_InvalidQuery(t *testing.T) {
	viewer := person("v", "male", "")
	src := &fakeProfileSource{viewer: viewer}

	for _, q := range []string{"age_min=abc", "age_min=12", "sort=random", "order=up", "limit=500"} {
		t.Run(q, func(t *testing.T) {
			rec := serveBrowse(t, src, viewer.UserID, q)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rec.Code)
			}
		})
	}
}

func TestBrowse_UnknownViewer(t *testing.T) {
	rec := serveBrowse(t, &fakeProfileSource{}, uuid.New(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
