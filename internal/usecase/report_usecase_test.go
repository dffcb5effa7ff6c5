package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusx/internal/domain/entity"
	"campusx/pkg/errors"
)

type memReportRepo struct {
	mu      sync.Mutex
	reports map[string]*entity.Report
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{reports: make(map[string]*entity.Report)}
}

func (r *memReportRepo) Create(ctx context.Context, report *entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now
	r.reports[report.ID] = report
	return nil
}

func (r *memReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, errors.NotFound("Report", nil)
	}
	return report, nil
}

func (r *memReportRepo) List(ctx context.Context, limit int) ([]*entity.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reports []*entity.Report
	for _, report := range r.reports {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func (r *memReportRepo) Update(ctx context.Context, report *entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[report.ID]; !ok {
		return errors.NotFound("Report", nil)
	}
	report.UpdatedAt = time.Now()
	r.reports[report.ID] = report
	return nil
}

func newReportFixture() (*ReportUseCase, *memListingRepo, *memUserRepo) {
	userRepo := newMemUserRepo(
		&entity.User{ID: "reporter", Email: "reporter@campus.edu", Status: "active"},
		&entity.User{ID: "offender", Email: "offender@campus.edu", Status: "active"},
	)
	listingRepo := newMemListingRepo(&entity.Listing{
		ID:       "bike-1",
		Title:    "Used bicycle",
		SellerID: "offender",
		Status:   entity.ListingStatusActive,
	})

	return NewReportUseCase(newMemReportRepo(), listingRepo, userRepo), listingRepo, userRepo
}

func TestCreateAndListReports(t *testing.T) {
	uc, _, _ := newReportFixture()
	ctx := context.Background()

	report, err := uc.CreateReport(ctx, "reporter", "listing", "bike-1", "counterfeit")
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusOpen, report.Status)
	assert.Equal(t, "reporter", report.ReporterID)

	_, err = uc.CreateReport(ctx, "reporter", "campus", "c-1", "nonsense")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	reports, err := uc.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, report.ID, reports[0].ID)
}

func TestHandleReportActions(t *testing.T) {
	uc, listingRepo, userRepo := newReportFixture()
	ctx := context.Background()

	listingReport, err := uc.CreateReport(ctx, "reporter", "listing", "bike-1", "counterfeit")
	require.NoError(t, err)

	handled, err := uc.HandleReport(ctx, listingReport.ID, "removeListing")
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusResolved, handled.Status)
	assert.Equal(t, entity.ListingStatusRemoved, listingRepo.status("bike-1"))

	userReport, err := uc.CreateReport(ctx, "reporter", "user", "offender", "spam")
	require.NoError(t, err)

	handled, err = uc.HandleReport(ctx, userReport.ID, "suspendUser")
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusResolved, handled.Status)

	offender, err := userRepo.GetByID(ctx, "offender")
	require.NoError(t, err)
	assert.Equal(t, "suspended", offender.Status)

	dismissed, err := uc.CreateReport(ctx, "reporter", "user", "offender", "dup")
	require.NoError(t, err)
	handled, err = uc.HandleReport(ctx, dismissed.ID, "dismiss")
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusDismissed, handled.Status)

	_, err = uc.HandleReport(ctx, dismissed.ID, "obliterate")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.HandleReport(ctx, "no-such-report", "resolve")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}
