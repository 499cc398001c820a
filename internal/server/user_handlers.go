package server

import (
	"tourdiary/internal/models"
	"tourdiary/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUser handles GET /api/user/:userID
// @Summary Get user profile
// @Description Returns a user with their authored, liked and followed ID lists
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /user/{userID} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.Context(), c.Params("userID"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "User retrieved", user)
}

// UpdateUser handles PUT /api/user/:userID
// @Summary Update user profile
// @Description Updates username and/or avatar
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body object{userName=string,avatar=string} true "Fields to update"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /user/{userID} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req struct {
		UserName *string `json:"userName"`
		Avatar   *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), c.Params("userID"), service.UpdateUserInput{
		UserName: req.UserName,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "User updated", user)
}

// GetUserReleases handles GET /api/user/:userID/releases
// @Summary Get a user's releases
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /user/{userID}/releases [get]
func (s *Server) GetUserReleases(c *fiber.Ctx) error {
	releases, err := s.releaseService.GetUserReleases(c.Context(), c.Params("userID"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Releases retrieved", releases)
}

// GetLiked handles GET /api/user/:userID/liked
// @Summary Get a user's liked releases
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /user/{userID}/liked [get]
func (s *Server) GetLiked(c *fiber.Ctx) error {
	releases, err := s.userService.GetLiked(c.Context(), c.Params("userID"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Liked releases retrieved", releases)
}

// AddLiked handles POST /api/user/:userID/liked
// @Summary Like a release
// @Description Adds a release to the user's liked list; liking twice is a no-op
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body object{releaseID=string} true "Release to like"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /user/{userID}/liked [post]
func (s *Server) AddLiked(c *fiber.Ctx) error {
	var req struct {
		ReleaseID string `json:"releaseID"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.AddLiked(c.Context(), c.Params("userID"), req.ReleaseID); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Release liked", nil)
}

// RemoveLiked handles DELETE /api/user/:userID/liked/:releaseID
// @Summary Unlike a release
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Param releaseID path string true "Release ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /user/{userID}/liked/{releaseID} [delete]
func (s *Server) RemoveLiked(c *fiber.Ctx) error {
	if err := s.userService.RemoveLiked(c.Context(), c.Params("userID"), c.Params("releaseID")); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Release unliked", nil)
}

// FollowUser handles POST /api/user/:userID/follow
// @Summary Follow a user
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "Follower user ID"
// @Param request body object{followUserID=string} true "User to follow"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /user/{userID}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	var req struct {
		FollowUserID string `json:"followUserID"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.FollowUser(c.Context(), c.Params("userID"), req.FollowUserID); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "User followed", nil)
}

// UnfollowUser handles DELETE /api/user/:userID/follow/:followUserID
// @Summary Unfollow a user
// @Tags users
// @Produce json
// @Param userID path string true "Follower user ID"
// @Param followUserID path string true "User to unfollow"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /user/{userID}/follow/{followUserID} [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	if err := s.userService.UnfollowUser(c.Context(), c.Params("userID"), c.Params("followUserID")); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "User unfollowed", nil)
}

// GetFollowing handles GET /api/user/:userID/following
// @Summary Get the feed of followed users
// @Description Returns approved releases from every user the given user follows
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /user/{userID}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	releases, err := s.userService.GetFollowing(c.Context(), c.Params("userID"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondOK(c, fiber.StatusOK, "Following feed retrieved", releases)
}
