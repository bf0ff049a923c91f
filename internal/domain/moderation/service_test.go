package moderation

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/user"
	"github.com/matcha/matcha-api/internal/middleware"
)

type fakeRepo struct {
	reports []*UserReport
}

func (r *fakeRepo) CreateReport(ctx context.Context, report *UserReport) error {
	r.reports = append(r.reports, report)
	return nil
}

func (r *fakeRepo) HasPendingReport(ctx context.Context, reporterID, reportedID uuid.UUID) (bool, error) {
	for _, rep := range r.reports {
		if rep.ReporterID == reporterID && rep.ReportedUserID == reportedID && rep.Status == ReportStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListReportsByReporter(ctx context.Context, reporterID uuid.UUID) ([]*UserReport, error) {
	var out []*UserReport
	for _, rep := range r.reports {
		if rep.ReporterID == reporterID {
			out = append(out, rep)
		}
	}
	return out, nil
}

type fakeUsers map[uuid.UUID]*user.User

func (f fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f[id], nil
}

func TestService_CreateReport(t *testing.T) {
	reporter, target := uuid.New(), uuid.New()
	repo := &fakeRepo{}
	svc := NewService(repo, fakeUsers{target: {ID: target}})
	ctx := context.Background()
	req := &CreateReportRequest{Reason: ReportReasonFakeAccount}

	report, err := svc.CreateReport(ctx, reporter, target, req)
	if err != nil {
		t.Fatalf("CreateReport() error = %v", err)
	}
	if report.Status != ReportStatusPending || report.Reason != ReportReasonFakeAccount {
		t.Fatalf("unexpected report %+v", report)
	}

	if _, err := svc.CreateReport(ctx, reporter, target, req); !errors.Is(err, ErrDuplicateReport) {
		t.Fatalf("duplicate: got %v", err)
	}

	repo.reports[0].Status = ReportStatusDismissed
	if _, err := svc.CreateReport(ctx, reporter, target, req); err != nil {
		t.Fatalf("report after dismissal: %v", err)
	}

	if _, err := svc.CreateReport(ctx, reporter, reporter, req); !errors.Is(err, ErrCannotReportSelf) {
		t.Fatalf("self report: got %v", err)
	}
	if _, err := svc.CreateReport(ctx, reporter, uuid.New(), req); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user: got %v", err)
	}
}

func TestHandler_CreateReport(t *testing.T) {
	reporter, target := uuid.New(), uuid.New()
	h := NewHandler(NewService(&fakeRepo{}, fakeUsers{target: {ID: target}}))

	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), reporter)))
			})
		})
		h.UserRoutes(r)
	})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"created", `{"reason":"fake_account"}`, http.StatusCreated},
		{"duplicate", `{"reason":"spam"}`, http.StatusConflict},
		{"bad reason", `{"reason":"boring"}`, http.StatusUnprocessableEntity},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users/"+target.String()+"/report", bytes.NewBufferString(tt.body))
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
