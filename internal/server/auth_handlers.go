package server

import (
	"tourdiary/internal/middleware"
	"tourdiary/internal/models"
	"tourdiary/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CheckLogin handles POST /api/checkLogin
// @Summary User login
// @Description Authenticate with username and password, returns the account and a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{userName=string,password=string} true "Login credentials"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /checkLogin [post]
func (s *Server) CheckLogin(c *fiber.Ctx) error {
	var req struct {
		UserName string `json:"userName"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Login(c.Context(), req.UserName, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	token, err := middleware.IssueToken(user.UserID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return models.RespondOK(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// SignUp handles POST /api/signUp
// @Summary User registration
// @Description Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{userName=string,password=string,avatar=string} true "Signup request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /signUp [post]
func (s *Server) SignUp(c *fiber.Ctx) error {
	var req struct {
		UserName string `json:"userName"`
		Password string `json:"password"`
		Avatar   string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.SignUp(c.Context(), service.SignUpInput{
		UserName: req.UserName,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondOK(c, fiber.StatusCreated, "Signup successful", fiber.Map{
		"user": user,
	})
}
