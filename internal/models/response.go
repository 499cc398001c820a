package models

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Response is the envelope returned by every JSON endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondOK writes a success envelope.
func RespondOK(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError writes a failure envelope with the status derived from the
// error's code. Internal error details are not exposed to clients.
func RespondWithError(c *fiber.Ctx, err error) error {
	message := "Internal server error"
	code := ErrCodeInternal

	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		code = appErr.Code
	}

	return c.Status(StatusForError(err)).JSON(Response{
		Success: false,
		Message: message,
		Error:   code,
	})
}
