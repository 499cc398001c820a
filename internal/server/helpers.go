package server

import (
	"context"

	"tourdiary/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination extracts limit and offset query parameters. Bounds are
// validated by the service layer so out-of-range values surface as 400s.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	return Pagination{
		Limit:  c.QueryInt("limit", defaultLimit),
		Offset: c.QueryInt("offset", 0),
	}
}

// isAdminByUserID checks whether the given user has admin privileges.
func (s *Server) isAdminByUserID(ctx context.Context, userID string) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Select("is_admin").
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}
