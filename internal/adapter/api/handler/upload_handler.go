package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"campusx/internal/usecase"
	"campusx/pkg/errors"
	"campusx/pkg/logger"
	"campusx/pkg/response"
)

const maxUploadSize = 5 * 1024 * 1024

type UploadHandler struct {
	uploader usecase.FileUploader
}

func NewUploadHandler(uploader usecase.FileUploader) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
	}
}

func sanitizeFolderName(folder string) string {
	folder = strings.ReplaceAll(folder, "..", "")
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return "uploads"
	}
	return folder
}

// UploadFile stores a single multipart file and returns its public URL.
func (h *UploadHandler) UploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > maxUploadSize {
		return response.Error(c, errors.BadRequest("File exceeds the 5MB limit", nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !isAllowedImageType(contentType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	folder := sanitizeFolderName(c.FormValue("folder"))

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	url, path, err := h.uploader.UploadFile(c.Request().Context(), src, file.Filename, contentType, folder)
	if err != nil {
		logger.Error("Upload failed for %s: %v", file.Filename, err)
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}

	return response.Created(c, map[string]string{
		"url":  url,
		"path": path,
	})
}
