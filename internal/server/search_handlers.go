package server

import (
	"tourdiary/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchReleases handles GET and POST /api/releases/search
// @Summary Search releases by author name and/or title
// @Description Runs both match strategies and merges the results. GET reads query
// @Description parameters; POST reads a JSON body with the same field names.
// @Tags releases
// @Accept json
// @Produce json
// @Param userName query string false "Author name substring"
// @Param title query string false "Title substring"
// @Param state query string false "Moderation state (default resolve)"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Router /releases/search [get]
func (s *Server) SearchReleases(c *fiber.Ctx) error {
	userName := c.Query("userName")
	title := c.Query("title")
	state := c.Query("state")

	if c.Method() == fiber.MethodPost {
		var req struct {
			UserName string `json:"userName"`
			Title    string `json:"title"`
			State    string `json:"state"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c,
				models.NewValidationError("Invalid request body"))
		}
		userName, title, state = req.UserName, req.Title, req.State
	}

	result, err := s.searchService.Search(c.Context(), userName, title, state)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Search completed", result)
}
