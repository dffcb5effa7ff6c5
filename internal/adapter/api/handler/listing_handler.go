package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"campusx/internal/usecase"
	"campusx/pkg/errors"
	"campusx/pkg/response"
	"campusx/pkg/utils"
)

const maxImageSize = 5 * 1024 * 1024

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

func isAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}

// collectImageUploads opens every "images" part of the multipart form. The
// returned closer must be called after the usecase consumed the readers.
func collectImageUploads(form *multipart.Form) ([]usecase.ImageUpload, func(), error) {
	files := form.File["images"]

	uploads := make([]usecase.ImageUpload, 0, len(files))
	opened := make([]multipart.File, 0, len(files))
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, fh := range files {
		if fh.Size > maxImageSize {
			closeAll()
			return nil, nil, errors.BadRequest("Image exceeds the 5MB limit", nil)
		}
		contentType := fh.Header.Get("Content-Type")
		if !isAllowedImageType(contentType) {
			closeAll()
			return nil, nil, errors.BadRequest("Image type not supported", nil)
		}

		src, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, errors.Internal("Unable to read image", err)
		}
		opened = append(opened, src)
		uploads = append(uploads, usecase.ImageUpload{
			File:        src,
			Filename:    fh.Filename,
			ContentType: contentType,
		})
	}

	return uploads, closeAll, nil
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	userID := c.Get("uid").(string)

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return response.Error(c, errors.BadRequest("Price must be a number", err))
	}

	input := usecase.CreateListingInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Condition:   c.FormValue("condition"),
		Price:       price,
		Currency:    c.FormValue("currency"),
		CampusID:    c.FormValue("campus_id"),
		Tags:        c.FormValue("tags"),
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		uploads, closeAll, err := collectImageUploads(form)
		if err != nil {
			return response.Error(c, err)
		}
		defer closeAll()
		input.Images = uploads
	}

	listing, err := h.listingUseCase.Create(c.Request().Context(), userID, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	minPrice, _ := strconv.ParseFloat(c.QueryParam("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.QueryParam("max_price"), 64)

	listings, total, err := h.listingUseCase.List(c.Request().Context(), usecase.ListListingsInput{
		CampusID:  c.QueryParam("campus_id"),
		Category:  c.QueryParam("category"),
		Condition: c.QueryParam("condition"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		Query:     c.QueryParam("q"),
		Sort:      c.QueryParam("sort"),
		Limit:     params.PageSize,
		Offset:    params.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, params.Page, params.PageSize)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	userID := c.Get("uid").(string)
	listingID := c.Param("id")

	var input usecase.UpdateListingInput

	setIfPresent := func(name string, dst **string) {
		if v := c.FormValue(name); v != "" {
			*dst = &v
		}
	}
	setIfPresent("title", &input.Title)
	setIfPresent("description", &input.Description)
	setIfPresent("category", &input.Category)
	setIfPresent("condition", &input.Condition)
	setIfPresent("status", &input.Status)
	setIfPresent("tags", &input.Tags)
	setIfPresent("campus_id", &input.CampusID)

	if priceStr := c.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			return response.Error(c, errors.BadRequest("Price must be a number", err))
		}
		input.Price = &price
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		uploads, closeAll, err := collectImageUploads(form)
		if err != nil {
			return response.Error(c, err)
		}
		defer closeAll()
		input.Images = uploads
	}

	listing, err := h.listingUseCase.Update(c.Request().Context(), userID, listingID, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.listingUseCase.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
