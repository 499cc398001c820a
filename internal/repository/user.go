// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"tourdiary/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	SearchByName(ctx context.Context, name string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Like(ctx context.Context, userID, releaseID string) error
	Unlike(ctx context.Context, userID, releaseID string) error
	GetLikedReleaseIDs(ctx context.Context, userID string) ([]string, error)
	IsLiked(ctx context.Context, userID, releaseID string) (bool, error)
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	GetFollowedUserIDs(ctx context.Context, userID string) ([]string, error)
}

// userRepository implements UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("user_name = ?", userName).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SearchByName(ctx context.Context, name string) ([]*models.User, error) {
	var users []*models.User
	like := "%" + name + "%"
	err := r.db.WithContext(ctx).
		Where("user_name LIKE ?", like).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Like(ctx context.Context, userID, releaseID string) error {
	// INSERT ... ON CONFLICT DO NOTHING keeps the operation idempotent and
	// race-free without a prior existence read.
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, release_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, release_id) DO NOTHING`,
		userID, releaseID,
	).Error
}

func (r *userRepository) Unlike(ctx context.Context, userID, releaseID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND release_id = ?", userID, releaseID).
		Delete(&models.Like{}).Error
}

func (r *userRepository) GetLikedReleaseIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("release_id", &ids).Error
	return ids, err
}

func (r *userRepository) IsLiked(ctx context.Context, userID, releaseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND release_id = ?", userID, releaseID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, followee_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID,
	).Error
}

func (r *userRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}

func (r *userRepository) GetFollowedUserIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Order("created_at ASC").
		Pluck("followee_id", &ids).Error
	return ids, err
}
