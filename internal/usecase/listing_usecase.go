package usecase

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"campusx/internal/domain/entity"
	"campusx/internal/domain/repository"
	"campusx/pkg/errors"
)

const maxListingImages = 6

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	uploader    FileUploader
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	uploader FileUploader,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		uploader:    uploader,
	}
}

// ImageUpload is one multipart file destined for blob storage.
type ImageUpload struct {
	File        io.Reader
	Filename    string
	ContentType string
}

type CreateListingInput struct {
	Title       string
	Description string
	Category    string
	Condition   string
	Price       float64
	Currency    string
	CampusID    string
	Tags        string // comma separated, as submitted by the form
	Images      []ImageUpload
}

type UpdateListingInput struct {
	Title       *string
	Description *string
	Category    *string
	Condition   *string
	Price       *float64
	Status      *string
	Tags        *string
	CampusID    *string
	Images      []ImageUpload
}

type ListListingsInput struct {
	CampusID  string
	Category  string
	Condition string
	MinPrice  float64
	MaxPrice  float64
	Query     string
	Sort      string
	Limit     int
	Offset    int
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (uc *ListingUseCase) uploadImages(ctx context.Context, uploads []ImageUpload) ([]entity.ListingImage, error) {
	if len(uploads) > maxListingImages {
		return nil, errors.BadRequest("Too many images", nil)
	}

	images := make([]entity.ListingImage, 0, len(uploads))
	for _, upload := range uploads {
		url, path, err := uc.uploader.UploadFile(ctx, upload.File, upload.Filename, upload.ContentType, "listings")
		if err != nil {
			log.Printf("Failed to upload listing image %s: %v", upload.Filename, err)
			return nil, errors.Internal("Failed to upload image", err)
		}
		images = append(images, entity.ListingImage{URL: url, Path: path})
	}
	return images, nil
}

func (uc *ListingUseCase) Create(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	if input.Title == "" {
		return nil, errors.BadRequest("Title is required", nil)
	}
	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be positive", nil)
	}
	if input.Condition == "" {
		input.Condition = "used"
	}
	if input.Currency == "" {
		input.Currency = "INR"
	}

	images, err := uc.uploadImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []entity.ListingImage{}
	}

	listing := &entity.Listing{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Condition:   input.Condition,
		Price:       input.Price,
		Currency:    input.Currency,
		Images:      images,
		CampusID:    input.CampusID,
		SellerID:    sellerID,
		Status:      entity.ListingStatusActive,
		Tags:        splitTags(input.Tags),
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) List(ctx context.Context, input ListListingsInput) ([]*entity.Listing, int64, error) {
	filter := repository.ListingFilter{
		CampusID:  input.CampusID,
		Category:  input.Category,
		Condition: input.Condition,
		MinPrice:  input.MinPrice,
		MaxPrice:  input.MaxPrice,
		Query:     input.Query,
		Status:    entity.ListingStatusActive,
	}

	return uc.listingRepo.List(ctx, filter, input.Sort, input.Limit, input.Offset)
}

// GetByID loads a listing and bumps its view counter.
func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.listingRepo.IncrementViews(ctx, id); err != nil {
		log.Printf("Failed to increment views for listing %s: %v", id, err)
	}
	listing.ViewsCount++

	return listing, nil
}

func (uc *ListingUseCase) Update(ctx context.Context, userID, listingID string, input UpdateListingInput) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != userID {
		return nil, errors.Forbidden("Only the seller may update this listing", nil)
	}

	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Category != nil {
		listing.Category = *input.Category
	}
	if input.Condition != nil {
		listing.Condition = *input.Condition
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, errors.BadRequest("Price must be positive", nil)
		}
		listing.Price = *input.Price
	}
	if input.Status != nil {
		listing.Status = *input.Status
	}
	if input.Tags != nil {
		listing.Tags = splitTags(*input.Tags)
	}
	if input.CampusID != nil {
		listing.CampusID = *input.CampusID
	}

	if len(input.Images) > 0 {
		images, err := uc.uploadImages(ctx, input.Images)
		if err != nil {
			return nil, err
		}
		listing.Images = append(listing.Images, images...)
	}

	listing.UpdatedAt = time.Now()
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// Delete soft-removes the listing. Sellers may remove their own; admins any.
func (uc *ListingUseCase) Delete(ctx context.Context, userID, listingID string) error {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}

	if listing.SellerID != userID {
		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil || user.Role != "admin" {
			return errors.Forbidden("Only the seller or an admin may remove this listing", nil)
		}
	}

	return uc.listingRepo.SetStatus(ctx, listingID, entity.ListingStatusRemoved)
}
