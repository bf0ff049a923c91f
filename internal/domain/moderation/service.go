package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/user"
	"github.com/matcha/matcha-api/internal/pkg/logger"
)

// UserLookup resolves accounts.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Service handles moderation business logic
type Service struct {
	repo  Repository
	users UserLookup
}

// NewService creates moderation service
func NewService(repo Repository, users UserLookup) *Service {
	return &Service{repo: repo, users: users}
}

// CreateReport files a report against another user. Only one pending report
// per reporter and target is kept.
func (s *Service) CreateReport(ctx context.Context, reporterID, reportedID uuid.UUID, req *CreateReportRequest) (*UserReport, error) {
	if reporterID == reportedID {
		return nil, ErrCannotReportSelf
	}

	reported, err := s.users.GetByID(ctx, reportedID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if reported == nil {
		return nil, ErrUserNotFound
	}

	pending, err := s.repo.HasPendingReport(ctx, reporterID, reportedID)
	if err != nil {
		return nil, fmt.Errorf("check pending report: %w", err)
	}
	if pending {
		return nil, ErrDuplicateReport
	}

	report := &UserReport{
		ID:             uuid.New(),
		ReporterID:     reporterID,
		ReportedUserID: reportedID,
		Reason:         req.Reason,
		Description:    req.Description,
		Status:         ReportStatusPending,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	logger.LogInfo(ctx, "User reported",
		"reporter_id", reporterID,
		"reported_id", reportedID,
		"reason", string(req.Reason),
	)
	return report, nil
}

// ListMyReports returns reports created by the user
func (s *Service) ListMyReports(ctx context.Context, userID uuid.UUID) ([]*UserReport, error) {
	return s.repo.ListReportsByReporter(ctx, userID)
}
