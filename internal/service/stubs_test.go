package service

import (
	"context"
	"errors"
	"testing"

	"tourdiary/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn             func(context.Context, *models.User) error
	getByUserIDFn        func(context.Context, string) (*models.User, error)
	getByUserNameFn      func(context.Context, string) (*models.User, error)
	searchByNameFn       func(context.Context, string) ([]*models.User, error)
	updateFn             func(context.Context, *models.User) error
	likeFn               func(context.Context, string, string) error
	unlikeFn             func(context.Context, string, string) error
	getLikedReleaseIDsFn func(context.Context, string) ([]string, error)
	isLikedFn            func(context.Context, string, string) (bool, error)
	followFn             func(context.Context, string, string) error
	unfollowFn           func(context.Context, string, string) error
	getFollowedUserIDsFn func(context.Context, string) ([]string, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *userRepoStub) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return s.getByUserNameFn(ctx, userName)
}
func (s *userRepoStub) SearchByName(ctx context.Context, name string) ([]*models.User, error) {
	return s.searchByNameFn(ctx, name)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Like(ctx context.Context, userID, releaseID string) error {
	return s.likeFn(ctx, userID, releaseID)
}
func (s *userRepoStub) Unlike(ctx context.Context, userID, releaseID string) error {
	return s.unlikeFn(ctx, userID, releaseID)
}
func (s *userRepoStub) GetLikedReleaseIDs(ctx context.Context, userID string) ([]string, error) {
	return s.getLikedReleaseIDsFn(ctx, userID)
}
func (s *userRepoStub) IsLiked(ctx context.Context, userID, releaseID string) (bool, error) {
	return s.isLikedFn(ctx, userID, releaseID)
}
func (s *userRepoStub) Follow(ctx context.Context, followerID, followeeID string) error {
	return s.followFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.unfollowFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) GetFollowedUserIDs(ctx context.Context, userID string) ([]string, error) {
	return s.getFollowedUserIDsFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByUserIDFn: func(_ context.Context, userID string) (*models.User, error) {
			return &models.User{UserID: userID, UserName: "traveler"}, nil
		},
		getByUserNameFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		searchByNameFn:       func(_ context.Context, _ string) ([]*models.User, error) { return nil, nil },
		updateFn:             func(_ context.Context, _ *models.User) error { return nil },
		likeFn:               func(_ context.Context, _, _ string) error { return nil },
		unlikeFn:             func(_ context.Context, _, _ string) error { return nil },
		getLikedReleaseIDsFn: func(_ context.Context, _ string) ([]string, error) { return nil, nil },
		isLikedFn:            func(_ context.Context, _, _ string) (bool, error) { return false, nil },
		followFn:             func(_ context.Context, _, _ string) error { return nil },
		unfollowFn:           func(_ context.Context, _, _ string) error { return nil },
		getFollowedUserIDsFn: func(_ context.Context, _ string) ([]string, error) { return nil, nil },
	}
}

// releaseRepoStub is a stub for repository.ReleaseRepository.
type releaseRepoStub struct {
	createFn             func(context.Context, *models.Release) error
	getByReleaseIDFn     func(context.Context, string) (*models.Release, error)
	getByReleaseIDAnyFn  func(context.Context, string) (*models.Release, error)
	listFn               func(context.Context, int, int, string) ([]*models.Release, error)
	listDeletedFn        func(context.Context, int, int) ([]*models.Release, error)
	getByUserIDFn        func(context.Context, string) ([]*models.Release, error)
	getByUserIDsFn       func(context.Context, []string, string) ([]*models.Release, error)
	getByReleaseIDsFn    func(context.Context, []string) ([]*models.Release, error)
	searchByTitleFn      func(context.Context, string, string) ([]*models.Release, error)
	updateFn             func(context.Context, *models.Release) error
	updateStateFn        func(context.Context, string, string, string) error
	updateDeleteStatusFn func(context.Context, string, int) error
	deleteFn             func(context.Context, string) error
}

func (s *releaseRepoStub) Create(ctx context.Context, release *models.Release) error {
	return s.createFn(ctx, release)
}
func (s *releaseRepoStub) GetByReleaseID(ctx context.Context, releaseID string) (*models.Release, error) {
	return s.getByReleaseIDFn(ctx, releaseID)
}
func (s *releaseRepoStub) GetByReleaseIDAny(ctx context.Context, releaseID string) (*models.Release, error) {
	return s.getByReleaseIDAnyFn(ctx, releaseID)
}
func (s *releaseRepoStub) List(ctx context.Context, limit, offset int, state string) ([]*models.Release, error) {
	return s.listFn(ctx, limit, offset, state)
}
func (s *releaseRepoStub) ListDeleted(ctx context.Context, limit, offset int) ([]*models.Release, error) {
	return s.listDeletedFn(ctx, limit, offset)
}
func (s *releaseRepoStub) GetByUserID(ctx context.Context, userID string) ([]*models.Release, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *releaseRepoStub) GetByUserIDs(ctx context.Context, userIDs []string, state string) ([]*models.Release, error) {
	return s.getByUserIDsFn(ctx, userIDs, state)
}
func (s *releaseRepoStub) GetByReleaseIDs(ctx context.Context, releaseIDs []string) ([]*models.Release, error) {
	return s.getByReleaseIDsFn(ctx, releaseIDs)
}
func (s *releaseRepoStub) SearchByTitle(ctx context.Context, title, state string) ([]*models.Release, error) {
	return s.searchByTitleFn(ctx, title, state)
}
func (s *releaseRepoStub) Update(ctx context.Context, release *models.Release) error {
	return s.updateFn(ctx, release)
}
func (s *releaseRepoStub) UpdateState(ctx context.Context, releaseID, state, reason string) error {
	return s.updateStateFn(ctx, releaseID, state, reason)
}
func (s *releaseRepoStub) UpdateDeleteStatus(ctx context.Context, releaseID string, status int) error {
	return s.updateDeleteStatusFn(ctx, releaseID, status)
}
func (s *releaseRepoStub) Delete(ctx context.Context, releaseID string) error {
	return s.deleteFn(ctx, releaseID)
}

func noopReleaseRepo() *releaseRepoStub {
	return &releaseRepoStub{
		createFn: func(_ context.Context, _ *models.Release) error { return nil },
		getByReleaseIDFn: func(_ context.Context, releaseID string) (*models.Release, error) {
			return &models.Release{ReleaseID: releaseID}, nil
		},
		getByReleaseIDAnyFn: func(_ context.Context, releaseID string) (*models.Release, error) {
			return &models.Release{ReleaseID: releaseID}, nil
		},
		listFn:               func(_ context.Context, _, _ int, _ string) ([]*models.Release, error) { return nil, nil },
		listDeletedFn:        func(_ context.Context, _, _ int) ([]*models.Release, error) { return nil, nil },
		getByUserIDFn:        func(_ context.Context, _ string) ([]*models.Release, error) { return nil, nil },
		getByUserIDsFn:       func(_ context.Context, _ []string, _ string) ([]*models.Release, error) { return nil, nil },
		getByReleaseIDsFn:    func(_ context.Context, _ []string) ([]*models.Release, error) { return nil, nil },
		searchByTitleFn:      func(_ context.Context, _, _ string) ([]*models.Release, error) { return nil, nil },
		updateFn:             func(_ context.Context, _ *models.Release) error { return nil },
		updateStateFn:        func(_ context.Context, _, _, _ string) error { return nil },
		updateDeleteStatusFn: func(_ context.Context, _ string, _ int) error { return nil },
		deleteFn:             func(_ context.Context, _ string) error { return nil },
	}
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
