package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matcha/matcha-api/internal/domain/auth"
	"github.com/matcha/matcha-api/internal/domain/matching"
	"github.com/matcha/matcha-api/internal/domain/photo"
	"github.com/matcha/matcha-api/internal/domain/profile"
	"github.com/matcha/matcha-api/internal/domain/relationships"
	"github.com/matcha/matcha-api/internal/pkg/errorhandler"
	"github.com/matcha/matcha-api/internal/pkg/response"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api/v1")
}

func TestLoginKeepsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, auth.AuthResponse{Tokens: auth.TokensResponse{AccessToken: "access-1", RefreshToken: "refresh-1"}})
	})
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			response.Unauthorized(w, "Missing token")
			return
		}
		response.OK(w, auth.UserResponse{Username: "alice"})
	})
	c := newTestClient(t, mux)

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, errorhandler.KindPermissionDenied, errorhandler.KindOf(err))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))

	resp, err := c.Login(context.Background(), "alice@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", resp.Tokens.RefreshToken)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestErrorClassification(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/profiles/me", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Profile not found")
	})
	mux.HandleFunc("PATCH /api/v1/profiles/me", func(w http.ResponseWriter, r *http.Request) {
		response.ValidationError(w, map[string]string{"age": "Must be at least 18"})
	})
	mux.HandleFunc("GET /api/v1/location/ip", func(w http.ResponseWriter, r *http.Request) {
		response.ServiceUnavailable(w, "upstream service unavailable", 5)
	})
	c := newTestClient(t, mux)

	_, err := c.MyProfile(context.Background())
	assert.Equal(t, errorhandler.KindNotFound, errorhandler.KindOf(err))
	assert.Contains(t, err.Error(), "Profile not found")

	_, err = c.UpdateProfile(context.Background(), profileChangesWithAge(12))
	var e *errorhandler.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errorhandler.KindValidation, e.Kind)
	assert.Equal(t, "Must be at least 18", e.Fields["age"])

	_, err = c.LocationFromIP(context.Background())
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errorhandler.KindNetwork, e.Kind)
	assert.True(t, e.Retryable)
}

func TestTransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Me(context.Background())
	var e *errorhandler.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errorhandler.KindNetwork, e.Kind)
	assert.True(t, e.Retryable)
}

func TestFetchHistoryLoadsBothLists(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/history/likes", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		response.OK(w, []relationships.UserSummaryResponse{{Username: "bob"}})
	})
	mux.HandleFunc("GET /api/v1/history/visits", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		response.OK(w, []relationships.UserSummaryResponse{{Username: "carol"}, {Username: "dave"}})
	})
	c := newTestClient(t, mux)

	h, err := c.FetchHistory(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
	require.Len(t, h.Likes, 1)
	assert.Equal(t, "bob", h.Likes[0].Username)
	assert.Len(t, h.Visits, 2)
}

func TestFetchHistoryFailsWhenOneListFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/history/likes", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, []relationships.UserSummaryResponse{})
	})
	mux.HandleFunc("GET /api/v1/history/visits", func(w http.ResponseWriter, r *http.Request) {
		response.InternalError(w)
	})
	c := newTestClient(t, mux)

	_, err := c.FetchHistory(context.Background())
	require.Error(t, err)
	assert.Equal(t, errorhandler.KindInternal, errorhandler.KindOf(err))
}

func TestBrowseEncodesQueryAndMeta(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/browse", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "25", q.Get("age_min"))
		assert.Equal(t, "music,travel", q.Get("tags"))
		assert.Equal(t, "fame_rating", q.Get("sort"))
		assert.Empty(t, q.Get("fame_max"))
		response.WithMeta(w, []*matching.CandidateResponse{{Score: 65}}, response.NewMeta(41, 2, 20))
	})
	c := newTestClient(t, mux)

	age := 25
	page, err := c.Browse(context.Background(), matching.BrowseRequest{
		AgeMin: &age,
		Tags:   []string{"music", "travel"},
		Sort:   "fame_rating",
		Page:   2,
		Limit:  20,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 65.0, page.Items[0].Score)
	assert.Equal(t, 3, page.Meta.Pages)
	assert.True(t, page.Meta.HasNext)
}

func TestLikeReportsMatch(t *testing.T) {
	target := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, target.String(), r.PathValue("id"))
		response.OK(w, relationships.LikeResult{Matched: true})
	})
	mux.HandleFunc("DELETE /api/v1/users/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		response.NoContent(w)
	})
	c := newTestClient(t, mux)

	matched, err := c.Like(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, matched)
	require.NoError(t, c.Unlike(context.Background(), target))
}

type countingPreview struct{ released int }

func (p *countingPreview) Release() { p.released++ }

func TestAlbumLifecycle(t *testing.T) {
	stored := uuid.New()
	var uploadedParts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/photos", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		uploadedParts.Store(int32(len(r.MultipartForm.File["photos"])))
		response.Created(w, []*photo.PhotoResponse{
			{ID: stored, URL: "/uploads/a.jpg", IsProfilePicture: true},
			{ID: uuid.New(), URL: "/uploads/b.jpg"},
		})
	})
	c := newTestClient(t, mux)

	album := NewAlbum([]Persisted{{ID: stored, URL: "/uploads/a.jpg", IsProfilePicture: true}})
	kept, dropped := &countingPreview{}, &countingPreview{}
	album.Add("b.jpg", []byte("b"), kept)
	album.Add("c.jpg", []byte("c"), dropped)

	removed, err := album.Discard(2)
	require.NoError(t, err)
	assert.IsType(t, &Pending{}, removed)
	assert.Equal(t, 1, dropped.released)
	assert.Len(t, album.Snapshot(), 1, "pending photos do not survive a reload")

	require.NoError(t, c.SyncAlbum(context.Background(), album))
	assert.EqualValues(t, 1, uploadedParts.Load())
	assert.Equal(t, 1, kept.released)

	items := album.Items()
	require.Len(t, items, 2)
	for _, it := range items {
		assert.IsType(t, &Persisted{}, it)
	}
	assert.True(t, album.Snapshot()[0].IsProfilePicture)

	_, err = album.Discard(5)
	assert.ErrorIs(t, err, ErrPhotoIndex)
}

func TestSyncAlbumFailureKeepsPending(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/photos", func(w http.ResponseWriter, r *http.Request) {
		response.BadRequest(w, "Maximum 5 photos")
	})
	c := newTestClient(t, mux)

	preview := &countingPreview{}
	album := NewAlbum(nil)
	album.Add("a.jpg", []byte("a"), preview)

	err := c.SyncAlbum(context.Background(), album)
	assert.Equal(t, errorhandler.KindValidation, errorhandler.KindOf(err))
	assert.Zero(t, preview.released)
	assert.IsType(t, &Pending{}, album.Items()[0])
}

func profileChangesWithAge(age int) profile.Changes {
	return profile.Changes{Age: &age}
}
