package server

import (
	"tourdiary/internal/models"
	"tourdiary/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetReleases handles GET /api/releases
// @Summary List releases
// @Description Returns visible releases in the given moderation state, newest first
// @Tags releases
// @Produce json
// @Param limit query int false "Page size (1-100, default 50)"
// @Param offset query int false "Offset (default 0)"
// @Param state query string false "Moderation state (wait/resolve/reject, default resolve)"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Router /releases [get]
func (s *Server) GetReleases(c *fiber.Ctx) error {
	p := parsePagination(c, 0)
	releases, err := s.releaseService.ListReleases(c.Context(), p.Limit, p.Offset, c.Query("state"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Releases retrieved", releases)
}

// GetDeletedReleases handles GET /api/releases/deleted
// @Summary List soft-deleted releases
// @Tags releases
// @Produce json
// @Param limit query int false "Page size (1-100, default 50)"
// @Param offset query int false "Offset (default 0)"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Router /releases/deleted [get]
func (s *Server) GetDeletedReleases(c *fiber.Ctx) error {
	p := parsePagination(c, 0)
	releases, err := s.releaseService.ListDeleted(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Deleted releases retrieved", releases)
}

// GetRelease handles GET /api/release/:releaseID
// @Summary Get one release
// @Description Soft-deleted releases read as missing
// @Tags releases
// @Produce json
// @Param releaseID path string true "Release ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /release/{releaseID} [get]
func (s *Server) GetRelease(c *fiber.Ctx) error {
	release, err := s.releaseService.GetRelease(c.Context(), c.Params("releaseID"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Release retrieved", release)
}

// CreateRelease handles POST /api/release
// @Summary Create a release
// @Description Submits a new diary entry; it enters moderation in the wait state
// @Tags releases
// @Accept json
// @Produce json
// @Param request body object{userID=string,title=string,playTime=int,money=number,personNum=int,content=string,pictures=[]string,videos=[]string,cover=string,location=string} true "New release"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /release [post]
func (s *Server) CreateRelease(c *fiber.Ctx) error {
	var req struct {
		UserID    string   `json:"userID"`
		Title     string   `json:"title"`
		PlayTime  *int     `json:"playTime"`
		Money     *float64 `json:"money"`
		PersonNum *int     `json:"personNum"`
		Content   string   `json:"content"`
		Pictures  []string `json:"pictures"`
		Videos    []string `json:"videos"`
		Cover     string   `json:"cover"`
		Location  string   `json:"location"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == "" {
		return models.RespondWithError(c,
			models.NewValidationError("User ID is required"))
	}
	if req.PlayTime == nil {
		return models.RespondWithError(c,
			models.NewValidationError("Play time is required"))
	}
	if req.Money == nil {
		return models.RespondWithError(c,
			models.NewValidationError("Money is required"))
	}
	if req.PersonNum == nil {
		return models.RespondWithError(c,
			models.NewValidationError("Person number is required"))
	}

	release, err := s.releaseService.CreateRelease(c.Context(), service.CreateReleaseInput{
		UserID:    req.UserID,
		Title:     req.Title,
		PlayTime:  *req.PlayTime,
		Money:     *req.Money,
		PersonNum: *req.PersonNum,
		Content:   req.Content,
		Pictures:  req.Pictures,
		Videos:    req.Videos,
		Cover:     req.Cover,
		Location:  req.Location,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusCreated, "Release created", release)
}

// UpdateRelease handles PUT /api/release/:releaseID
// @Summary Edit a release
// @Description Author-only edit; any change sends the entry back to moderation
// @Tags releases
// @Accept json
// @Produce json
// @Param releaseID path string true "Release ID"
// @Param request body object{userID=string,title=string,playTime=int,money=number,personNum=int,content=string,pictures=[]string,videos=[]string,cover=string,location=string} true "Fields to update"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /release/{releaseID} [put]
func (s *Server) UpdateRelease(c *fiber.Ctx) error {
	var req struct {
		UserID    string   `json:"userID"`
		Title     *string  `json:"title"`
		PlayTime  *int     `json:"playTime"`
		Money     *float64 `json:"money"`
		PersonNum *int     `json:"personNum"`
		Content   *string  `json:"content"`
		Pictures  []string `json:"pictures"`
		Videos    []string `json:"videos"`
		Cover     *string  `json:"cover"`
		Location  *string  `json:"location"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == "" {
		return models.RespondWithError(c,
			models.NewValidationError("User ID is required"))
	}

	release, err := s.releaseService.UpdateRelease(c.Context(), c.Params("releaseID"), req.UserID, service.UpdateReleaseInput{
		Title:     req.Title,
		PlayTime:  req.PlayTime,
		Money:     req.Money,
		PersonNum: req.PersonNum,
		Content:   req.Content,
		Pictures:  req.Pictures,
		Videos:    req.Videos,
		Cover:     req.Cover,
		Location:  req.Location,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Release updated", release)
}

// SetReleaseState handles PUT /api/release/:releaseID/state
// @Summary Moderate a release
// @Description Admin-only; rejecting requires a reason, approving clears it unless one is supplied
// @Tags releases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param releaseID path string true "Release ID"
// @Param request body object{state=string,reason=string} true "Moderation decision"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /release/{releaseID}/state [put]
func (s *Server) SetReleaseState(c *fiber.Ctx) error {
	var req struct {
		State  string `json:"state"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	release, err := s.releaseService.SetModerationState(c.Context(), c.Params("releaseID"), req.State, req.Reason)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Release state updated", release)
}

// SetReleaseDeleteStatus handles PUT /api/release/:releaseID/delete-status
// @Summary Soft-delete or restore a release
// @Tags releases
// @Accept json
// @Produce json
// @Param releaseID path string true "Release ID"
// @Param request body object{deleteStatus=int} true "1 restores, 0 soft-deletes"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /release/{releaseID}/delete-status [put]
func (s *Server) SetReleaseDeleteStatus(c *fiber.Ctx) error {
	var req struct {
		DeleteStatus *int `json:"deleteStatus"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.DeleteStatus == nil {
		return models.RespondWithError(c,
			models.NewValidationError("Delete status is required"))
	}

	release, err := s.releaseService.SetDeleteStatus(c.Context(), c.Params("releaseID"), *req.DeleteStatus)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Release delete status updated", release)
}

// DeleteRelease handles DELETE /api/release/:releaseID
// @Summary Permanently delete a release
// @Description Author-only physical delete
// @Tags releases
// @Accept json
// @Produce json
// @Param releaseID path string true "Release ID"
// @Param request body object{userID=string} true "Requesting user"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /release/{releaseID} [delete]
func (s *Server) DeleteRelease(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"userID"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == "" {
		return models.RespondWithError(c,
			models.NewValidationError("User ID is required"))
	}

	if err := s.releaseService.DeleteRelease(c.Context(), c.Params("releaseID"), req.UserID); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Release deleted", nil)
}
