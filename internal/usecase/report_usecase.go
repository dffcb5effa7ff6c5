package usecase

import (
	"context"
	"log"

	"campusx/internal/domain/entity"
	"campusx/internal/domain/repository"
	"campusx/pkg/errors"
)

const maxReportList = 200

type ReportUseCase struct {
	reportRepo  repository.ReportRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
}

func NewReportUseCase(
	reportRepo repository.ReportRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
) *ReportUseCase {
	return &ReportUseCase{
		reportRepo:  reportRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
	}
}

func (uc *ReportUseCase) CreateReport(ctx context.Context, reporterID, targetType, targetID, reason string) (*entity.Report, error) {
	if targetType != "listing" && targetType != "user" {
		return nil, errors.BadRequest("Unknown report target type", nil)
	}

	report := &entity.Report{
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Status:     entity.ReportStatusOpen,
	}

	if err := uc.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

func (uc *ReportUseCase) ListReports(ctx context.Context) ([]*entity.Report, error) {
	return uc.reportRepo.List(ctx, maxReportList)
}

// HandleReport applies an admin action to an open report.
// action ∈ {resolve, dismiss, removeListing, suspendUser}.
func (uc *ReportUseCase) HandleReport(ctx context.Context, reportID, action string) (*entity.Report, error) {
	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	switch action {
	case "resolve":
		report.Status = entity.ReportStatusResolved

	case "dismiss":
		report.Status = entity.ReportStatusDismissed

	case "removeListing":
		if err := uc.listingRepo.SetStatus(ctx, report.TargetID, entity.ListingStatusRemoved); err != nil {
			log.Printf("HandleReport: failed to remove listing %s: %v", report.TargetID, err)
			return nil, err
		}
		report.Status = entity.ReportStatusResolved

	case "suspendUser":
		if err := uc.userRepo.SetStatus(ctx, report.TargetID, "suspended"); err != nil {
			log.Printf("HandleReport: failed to suspend user %s: %v", report.TargetID, err)
			return nil, err
		}
		report.Status = entity.ReportStatusResolved

	default:
		return nil, errors.BadRequest("Unknown report action", nil)
	}

	if err := uc.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}
