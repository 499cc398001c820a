package repository

import (
	"context"

	"tourdiary/internal/cache"
	"tourdiary/internal/models"

	"gorm.io/gorm"
)

// ReleaseRepository defines the interface for release data operations.
// Standard queries are scoped to visible rows (delete_status = 1); the Any
// variants and ListDeleted see through the soft-delete flag.
type ReleaseRepository interface {
	Create(ctx context.Context, release *models.Release) error
	GetByReleaseID(ctx context.Context, releaseID string) (*models.Release, error)
	GetByReleaseIDAny(ctx context.Context, releaseID string) (*models.Release, error)
	List(ctx context.Context, limit, offset int, state string) ([]*models.Release, error)
	ListDeleted(ctx context.Context, limit, offset int) ([]*models.Release, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.Release, error)
	GetByUserIDs(ctx context.Context, userIDs []string, state string) ([]*models.Release, error)
	GetByReleaseIDs(ctx context.Context, releaseIDs []string) ([]*models.Release, error)
	SearchByTitle(ctx context.Context, title, state string) ([]*models.Release, error)
	Update(ctx context.Context, release *models.Release) error
	UpdateState(ctx context.Context, releaseID, state, reason string) error
	UpdateDeleteStatus(ctx context.Context, releaseID string, status int) error
	Delete(ctx context.Context, releaseID string) error
}

// releaseRepository implements ReleaseRepository.
type releaseRepository struct {
	db *gorm.DB
}

// NewReleaseRepository creates a new release repository.
func NewReleaseRepository(db *gorm.DB) ReleaseRepository {
	return &releaseRepository{db: db}
}

// visible scopes a query to rows that are not soft-deleted.
func (r *releaseRepository) visible(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("delete_status = ?", models.DeleteStatusVisible)
}

func flattenAll(releases []*models.Release) {
	for _, rel := range releases {
		rel.FlattenUser()
	}
}

func (r *releaseRepository) Create(ctx context.Context, release *models.Release) error {
	err := r.db.WithContext(ctx).Create(release).Error
	if err == nil {
		cache.InvalidateReleaseLists(ctx)
	}
	return err
}

func (r *releaseRepository) GetByReleaseID(ctx context.Context, releaseID string) (*models.Release, error) {
	var release models.Release
	err := cache.Aside(ctx, cache.ReleaseKey(releaseID), &release, cache.ReleaseTTL, func() error {
		return r.visible(ctx).
			Preload("User").
			Where("release_id = ?", releaseID).
			First(&release).Error
	})
	if err != nil {
		return nil, err
	}
	release.FlattenUser()
	return &release, nil
}

func (r *releaseRepository) GetByReleaseIDAny(ctx context.Context, releaseID string) (*models.Release, error) {
	var release models.Release
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("release_id = ?", releaseID).
		First(&release).Error
	if err != nil {
		return nil, err
	}
	release.FlattenUser()
	return &release, nil
}

func (r *releaseRepository) List(ctx context.Context, limit, offset int, state string) ([]*models.Release, error) {
	var releases []*models.Release
	err := r.visible(ctx).
		Preload("User").
		Where("state = ?", state).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&releases).Error
	if err != nil {
		return nil, err
	}
	flattenAll(releases)
	return releases, nil
}

func (r *releaseRepository) ListDeleted(ctx context.Context, limit, offset int) ([]*models.Release, error) {
	var releases []*models.Release
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("delete_status = ?", models.DeleteStatusDeleted).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&releases).Error
	if err != nil {
		return nil, err
	}
	flattenAll(releases)
	return releases, nil
}

func (r *releaseRepository) GetByUserID(ctx context.Context, userID string) ([]*models.Release, error) {
	var releases []*models.Release
	err := r.visible(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&releases).Error
	if err != nil {
		return nil, err
	}
	flattenAll(releases)
	return releases, nil
}

func (r *releaseRepository) GetByUserIDs(ctx context.Context, userIDs []string, state string) ([]*models.Release, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var releases []*models.Release
	err := r.visible(ctx).
		Preload("User").
		Where("user_id IN ? AND state = ?", userIDs, state).
		Order("created_at DESC").
		Find(&releases).Error
	if err != nil {
		return nil, err
	}
	flattenAll(releases)
	return releases, nil
}

func (r *releaseRepository) GetByReleaseIDs(ctx context.Context, releaseIDs []string) ([]*models.Release, error) {
	if len(releaseIDs) == 0 {
		return nil, nil
	}
	var releases []*models.Release
	err := r.visible(ctx).
		Preload("User").
		Where("release_id IN ?", releaseIDs).
		Order("created_at DESC").
		Find(&releases).Error
	if err != nil {
		return nil, err
	}
	flattenAll(releases)
	return releases, nil
}

func (r *releaseRepository) SearchByTitle(ctx context.Context, title, state string) ([]*models.Release, error) {
	var releases []*models.Release
	like := "%" + title + "%"
	err := r.visible(ctx).
		Preload("User").
		Where("title LIKE ? AND state = ?", like, state).
		Order("created_at DESC").
		Find(&releases).Error
	if err != nil {
		return nil, err
	}
	flattenAll(releases)
	return releases, nil
}

func (r *releaseRepository) Update(ctx context.Context, release *models.Release) error {
	if err := r.db.WithContext(ctx).Save(release).Error; err != nil {
		return err
	}
	cache.InvalidateRelease(ctx, release.ReleaseID)
	cache.InvalidateReleaseLists(ctx)
	return nil
}

func (r *releaseRepository) UpdateState(ctx context.Context, releaseID, state, reason string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Release{}).
		Where("release_id = ?", releaseID).
		Updates(map[string]interface{}{"state": state, "reason": reason}).Error
	if err != nil {
		return err
	}
	cache.InvalidateRelease(ctx, releaseID)
	cache.InvalidateReleaseLists(ctx)
	return nil
}

func (r *releaseRepository) UpdateDeleteStatus(ctx context.Context, releaseID string, status int) error {
	err := r.db.WithContext(ctx).
		Model(&models.Release{}).
		Where("release_id = ?", releaseID).
		Update("delete_status", status).Error
	if err != nil {
		return err
	}
	cache.InvalidateRelease(ctx, releaseID)
	cache.InvalidateReleaseLists(ctx)
	return nil
}

func (r *releaseRepository) Delete(ctx context.Context, releaseID string) error {
	err := r.db.WithContext(ctx).
		Where("release_id = ?", releaseID).
		Delete(&models.Release{}).Error
	if err != nil {
		return err
	}
	cache.InvalidateRelease(ctx, releaseID)
	cache.InvalidateReleaseLists(ctx)
	return nil
}
