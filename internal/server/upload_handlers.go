package server

import (
	"io"

	"tourdiary/internal/models"
	"tourdiary/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Upload handles POST /api/upload
// @Summary Upload media files
// @Description Accepts multipart files, stores them on disk, and returns picture
// @Description and video URLs. Pictures get a WebP thumbnail.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param userID formData string true "Uploading user"
// @Param file formData file true "Files to upload"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Router /upload [post]
func (s *Server) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid multipart form"))
	}

	userID := c.FormValue("userID")
	if userID == "" {
		return models.RespondWithError(c,
			models.NewValidationError("User ID is required"))
	}

	pictures := []*service.UploadedMedia{}
	videos := []*service.UploadedMedia{}

	for _, headers := range form.File {
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				return models.RespondWithError(c, models.NewInternalError(err))
			}
			content, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				return models.RespondWithError(c, models.NewInternalError(err))
			}

			media, err := s.mediaService.Upload(service.UploadMediaInput{
				UserID:   userID,
				Filename: header.Filename,
				Content:  content,
			})
			if err != nil {
				return models.RespondWithError(c, err)
			}
			if media.Kind == service.MediaKindPicture {
				pictures = append(pictures, media)
			} else {
				videos = append(videos, media)
			}
		}
	}

	if len(pictures) == 0 && len(videos) == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("No file uploaded"))
	}

	return models.RespondOK(c, fiber.StatusOK, "Upload successful", fiber.Map{
		"pictures": pictures,
		"videos":   videos,
	})
}
