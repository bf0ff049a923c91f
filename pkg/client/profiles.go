package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/location"
	"github.com/matcha/matcha-api/internal/domain/matching"
	"github.com/matcha/matcha-api/internal/domain/profile"
	"github.com/matcha/matcha-api/internal/pkg/response"
)

func (c *Client) MyProfile(ctx context.Context) (*profile.ProfileResponse, error) {
	var out profile.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/profiles/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches another user's profile. The server records a visit.
func (c *Client) Profile(ctx context.Context, userID uuid.UUID) (*profile.ProfileResponse, error) {
	var out profile.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/profiles/"+userID.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends a partial update. Nil fields are left unchanged.
func (c *Client) UpdateProfile(ctx context.Context, changes profile.Changes) (*profile.ProfileResponse, error) {
	var out profile.ProfileResponse
	if err := c.do(ctx, http.MethodPatch, "/profiles/me", profile.UpdateProfileRequest{Changes: changes}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Completeness(ctx context.Context) (*profile.CompletionStatus, error) {
	var out profile.CompletionStatus
	if err := c.do(ctx, http.MethodGet, "/profiles/me/completeness", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BrowsePage is one page of ranked candidates.
type BrowsePage struct {
	Items []*matching.CandidateResponse
	Meta  response.Meta
}

// Browse lists candidates. Zero fields of q are omitted from the query.
func (c *Client) Browse(ctx context.Context, q matching.BrowseRequest) (*BrowsePage, error) {
	var items []*matching.CandidateResponse
	meta, err := c.send(ctx, request{method: http.MethodGet, path: "/browse?" + browseQuery(q).Encode()}, &items)
	if err != nil {
		return nil, err
	}
	page := &BrowsePage{Items: items}
	if meta != nil {
		page.Meta = *meta
	}
	return page, nil
}

func browseQuery(q matching.BrowseRequest) url.Values {
	v := url.Values{}
	setInt := func(name string, p *int) {
		if p != nil {
			v.Set(name, strconv.Itoa(*p))
		}
	}
	setInt("age_min", q.AgeMin)
	setInt("age_max", q.AgeMax)
	setInt("fame_min", q.FameMin)
	setInt("fame_max", q.FameMax)
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if len(q.Tags) > 0 {
		v.Set("tags", strings.Join(q.Tags, ","))
	}
	if q.MaxDistanceKm != nil {
		v.Set("max_distance_km", strconv.FormatFloat(*q.MaxDistanceKm, 'f', -1, 64))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// UpdateLocation posts device coordinates, a manual city, or nothing to
// let the server fall back to IP lookup.
func (c *Client) UpdateLocation(ctx context.Context, req location.UpdateLocationRequest) (*location.Result, error) {
	var out location.Result
	if err := c.do(ctx, http.MethodPost, "/location", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LocationFromIP(ctx context.Context) (*location.Result, error) {
	var out location.Result
	if err := c.do(ctx, http.MethodGet, "/location/ip", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
