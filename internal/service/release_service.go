package service

import (
	"context"
	"fmt"
	"strings"

	"tourdiary/internal/cache"
	"tourdiary/internal/models"
	"tourdiary/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// ReleaseService handles diary release lifecycle and moderation.
type ReleaseService struct {
	releaseRepo repository.ReleaseRepository
	userRepo    repository.UserRepository
}

// NewReleaseService creates a new release service.
func NewReleaseService(releaseRepo repository.ReleaseRepository, userRepo repository.UserRepository) *ReleaseService {
	return &ReleaseService{releaseRepo: releaseRepo, userRepo: userRepo}
}

// CreateReleaseInput carries the author-supplied fields of a new release.
type CreateReleaseInput struct {
	UserID    string
	Title     string
	PlayTime  int
	Money     float64
	PersonNum int
	Content   string
	Pictures  []string
	Videos    []string
	Cover     string
	Location  string
}

// UpdateReleaseInput carries editable fields; nil means "keep current value".
type UpdateReleaseInput struct {
	Title     *string
	PlayTime  *int
	Money     *float64
	PersonNum *int
	Content   *string
	Pictures  []string
	Videos    []string
	Cover     *string
	Location  *string
}

func (in UpdateReleaseInput) empty() bool {
	return in.Title == nil && in.PlayTime == nil && in.Money == nil &&
		in.PersonNum == nil && in.Content == nil && in.Pictures == nil &&
		in.Videos == nil && in.Cover == nil && in.Location == nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len([]rune(title)) > 100 {
		return models.NewValidationError("Title must be at most 100 characters")
	}
	return nil
}

// CreateRelease submits a new diary entry. Every new entry enters the
// moderation queue in the wait state with a placeholder reason.
func (s *ReleaseService) CreateRelease(ctx context.Context, in CreateReleaseInput) (*models.Release, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, models.NewValidationError("User ID is required")
	}
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, models.NewValidationError("Location is required")
	}
	if in.PlayTime < 0 {
		return nil, models.NewValidationError("Play time must not be negative")
	}
	if in.Money < 0 {
		return nil, models.NewValidationError("Money must not be negative")
	}
	if in.PersonNum < 1 {
		return nil, models.NewValidationError("Person number must be at least 1")
	}

	if _, err := s.userRepo.GetByUserID(ctx, in.UserID); err != nil {
		return nil, orNotFound(err, "User not found")
	}

	release := &models.Release{
		ReleaseID:    uuid.NewString(),
		UserID:       in.UserID,
		Title:        strings.TrimSpace(in.Title),
		PlayTime:     in.PlayTime,
		Money:        in.Money,
		PersonNum:    in.PersonNum,
		Content:      in.Content,
		Pictures:     models.StringList(in.Pictures),
		Videos:       models.StringList(in.Videos),
		Cover:        in.Cover,
		Location:     in.Location,
		State:        models.StateWait,
		Reason:       models.ReasonPendingReview,
		DeleteStatus: models.DeleteStatusVisible,
	}
	if err := s.releaseRepo.Create(ctx, release); err != nil {
		return nil, models.NewInternalError(err)
	}

	created, err := s.releaseRepo.GetByReleaseID(ctx, release.ReleaseID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return created, nil
}

// GetRelease returns a visible release; soft-deleted entries read as missing.
func (s *ReleaseService) GetRelease(ctx context.Context, releaseID string) (*models.Release, error) {
	release, err := s.releaseRepo.GetByReleaseID(ctx, releaseID)
	if err != nil {
		return nil, orNotFound(err, "Release not found")
	}
	return release, nil
}

// ListReleases returns a page of visible releases in the given moderation
// state, newest first. The first default-sized page is served cache-aside.
func (s *ReleaseService) ListReleases(ctx context.Context, limit, offset int, state string) ([]*models.Release, error) {
	limit, offset, state, err := normalizeListArgs(limit, offset, state)
	if err != nil {
		return nil, err
	}

	var releases []*models.Release
	if offset == 0 {
		err = cache.Aside(ctx, cache.ReleaseListKey(state, limit, offset), &releases, cache.ReleaseListTTL, func() error {
			var ferr error
			releases, ferr = s.releaseRepo.List(ctx, limit, offset, state)
			return ferr
		})
	} else {
		releases, err = s.releaseRepo.List(ctx, limit, offset, state)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if releases == nil {
		releases = []*models.Release{}
	}
	return releases, nil
}

// ListDeleted returns soft-deleted releases for the recycle view.
func (s *ReleaseService) ListDeleted(ctx context.Context, limit, offset int) ([]*models.Release, error) {
	limit, offset, _, err := normalizeListArgs(limit, offset, models.StateResolve)
	if err != nil {
		return nil, err
	}
	releases, err := s.releaseRepo.ListDeleted(ctx, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if releases == nil {
		releases = []*models.Release{}
	}
	return releases, nil
}

func normalizeListArgs(limit, offset int, state string) (int, int, string, error) {
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit < 1 || limit > maxListLimit {
		return 0, 0, "", models.NewValidationError(fmt.Sprintf("Limit must be between 1 and %d", maxListLimit))
	}
	if offset < 0 {
		return 0, 0, "", models.NewValidationError("Offset must not be negative")
	}
	if state == "" {
		state = models.StateResolve
	}
	if !models.ValidState(state) {
		return 0, 0, "", models.NewValidationError("State must be one of wait, resolve, reject")
	}
	return limit, offset, state, nil
}

// GetUserReleases returns the visible releases authored by a user.
func (s *ReleaseService) GetUserReleases(ctx context.Context, userID string) ([]*models.Release, error) {
	if _, err := s.userRepo.GetByUserID(ctx, userID); err != nil {
		return nil, orNotFound(err, "User not found")
	}
	releases, err := s.releaseRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if releases == nil {
		releases = []*models.Release{}
	}
	return releases, nil
}

// UpdateRelease lets the author edit an entry. Any successful edit sends the
// entry back to the moderation queue.
func (s *ReleaseService) UpdateRelease(ctx context.Context, releaseID, editorID string, in UpdateReleaseInput) (*models.Release, error) {
	if in.empty() {
		return nil, models.NewValidationError("At least one field must be provided")
	}

	release, err := s.releaseRepo.GetByReleaseID(ctx, releaseID)
	if err != nil {
		return nil, orNotFound(err, "Release not found")
	}
	if release.UserID != editorID {
		return nil, models.NewForbiddenError("Only the author can edit this release")
	}

	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
		release.Title = strings.TrimSpace(*in.Title)
	}
	if in.PlayTime != nil {
		if *in.PlayTime < 0 {
			return nil, models.NewValidationError("Play time must not be negative")
		}
		release.PlayTime = *in.PlayTime
	}
	if in.Money != nil {
		if *in.Money < 0 {
			return nil, models.NewValidationError("Money must not be negative")
		}
		release.Money = *in.Money
	}
	if in.PersonNum != nil {
		if *in.PersonNum < 1 {
			return nil, models.NewValidationError("Person number must be at least 1")
		}
		release.PersonNum = *in.PersonNum
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("Content must not be empty")
		}
		release.Content = *in.Content
	}
	if in.Pictures != nil {
		release.Pictures = models.StringList(in.Pictures)
	}
	if in.Videos != nil {
		release.Videos = models.StringList(in.Videos)
	}
	if in.Cover != nil {
		release.Cover = *in.Cover
	}
	if in.Location != nil {
		if strings.TrimSpace(*in.Location) == "" {
			return nil, models.NewValidationError("Location must not be empty")
		}
		release.Location = *in.Location
	}

	// Edited content is unreviewed content.
	release.State = models.StateWait
	release.Reason = models.ReasonPendingReview
	release.User = nil

	if err := s.releaseRepo.Update(ctx, release); err != nil {
		return nil, models.NewInternalError(err)
	}
	updated, err := s.releaseRepo.GetByReleaseID(ctx, releaseID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return updated, nil
}

// SetModerationState moves a release through the review workflow.
// Rejection requires a non-empty reason; approval clears the reason unless
// the moderator supplies a note.
func (s *ReleaseService) SetModerationState(ctx context.Context, releaseID, state, reason string) (*models.Release, error) {
	if !models.ValidState(state) {
		return nil, models.NewValidationError("State must be one of wait, resolve, reject")
	}

	reason = strings.TrimSpace(reason)
	switch state {
	case models.StateReject:
		if reason == "" {
			return nil, models.NewValidationError("A reason is required when rejecting")
		}
	case models.StateWait:
		// Requeued entries always carry the placeholder, whatever was sent.
		reason = models.ReasonPendingReview
	}

	if _, err := s.releaseRepo.GetByReleaseIDAny(ctx, releaseID); err != nil {
		return nil, orNotFound(err, "Release not found")
	}
	if err := s.releaseRepo.UpdateState(ctx, releaseID, state, reason); err != nil {
		return nil, models.NewInternalError(err)
	}

	updated, err := s.releaseRepo.GetByReleaseIDAny(ctx, releaseID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return updated, nil
}

// SetDeleteStatus flips the visibility flag: 1 restores, 0 soft-deletes.
func (s *ReleaseService) SetDeleteStatus(ctx context.Context, releaseID string, status int) (*models.Release, error) {
	if status != models.DeleteStatusVisible && status != models.DeleteStatusDeleted {
		return nil, models.NewValidationError("Delete status must be 0 or 1")
	}
	if _, err := s.releaseRepo.GetByReleaseIDAny(ctx, releaseID); err != nil {
		return nil, orNotFound(err, "Release not found")
	}
	if err := s.releaseRepo.UpdateDeleteStatus(ctx, releaseID, status); err != nil {
		return nil, models.NewInternalError(err)
	}

	updated, err := s.releaseRepo.GetByReleaseIDAny(ctx, releaseID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return updated, nil
}

// DeleteRelease permanently removes an entry. Only the author may do this.
func (s *ReleaseService) DeleteRelease(ctx context.Context, releaseID, requesterID string) error {
	release, err := s.releaseRepo.GetByReleaseIDAny(ctx, releaseID)
	if err != nil {
		return orNotFound(err, "Release not found")
	}
	if release.UserID != requesterID {
		return models.NewForbiddenError("Only the author can delete this release")
	}
	if err := s.releaseRepo.Delete(ctx, releaseID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
