package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matcha/matcha-api/internal/domain/moderation"
	"github.com/matcha/matcha-api/internal/domain/relationships"
)

func userPath(id uuid.UUID, action string) string {
	return "/users/" + id.String() + "/" + action
}

// Like returns whether the like created a match.
func (c *Client) Like(ctx context.Context, userID uuid.UUID) (bool, error) {
	var out relationships.LikeResult
	if err := c.do(ctx, http.MethodPost, userPath(userID, "like"), nil, &out); err != nil {
		return false, err
	}
	return out.Matched, nil
}

func (c *Client) Unlike(ctx context.Context, userID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, userPath(userID, "like"), nil, nil)
}

func (c *Client) Block(ctx context.Context, userID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, userPath(userID, "block"), nil, nil)
}

func (c *Client) Unblock(ctx context.Context, userID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, userPath(userID, "block"), nil, nil)
}

func (c *Client) Blocked(ctx context.Context) ([]*relationships.UserSummaryResponse, error) {
	return c.summaries(ctx, "/users/me/blocked")
}

// Report files a moderation report against userID.
func (c *Client) Report(ctx context.Context, userID uuid.UUID, reason moderation.ReportReason, description string) (*moderation.ReportResponse, error) {
	req := moderation.CreateReportRequest{Reason: reason, Description: description}
	var out moderation.ReportResponse
	if err := c.do(ctx, http.MethodPost, userPath(userID, "report"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LikesReceived(ctx context.Context) ([]*relationships.UserSummaryResponse, error) {
	return c.summaries(ctx, "/history/likes")
}

func (c *Client) VisitsReceived(ctx context.Context) ([]*relationships.UserSummaryResponse, error) {
	return c.summaries(ctx, "/history/visits")
}

func (c *Client) Matches(ctx context.Context) ([]*relationships.UserSummaryResponse, error) {
	return c.summaries(ctx, "/matches")
}

// FetchHistory loads likes and visits received in parallel. The first
// failure cancels the other request.
func (c *Client) FetchHistory(ctx context.Context) (*relationships.HistoryResponse, error) {
	var out relationships.HistoryResponse
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Likes, err = c.LikesReceived(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Visits, err = c.VisitsReceived(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) summaries(ctx context.Context, path string) ([]*relationships.UserSummaryResponse, error) {
	out := []*relationships.UserSummaryResponse{}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
