package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"tourdiary/internal/models"
	"tourdiary/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// userNameRe allows Han characters, Latin letters and digits, 2-20 runes.
var userNameRe = regexp.MustCompile(`^[\p{Han}A-Za-z0-9]{2,20}$`)

// passwordCharsRe constrains passwords to 6-20 letters and digits. The
// letter+digit requirement is checked separately because RE2 has no lookahead.
var passwordCharsRe = regexp.MustCompile(`^[A-Za-z0-9]{6,20}$`)

// UserService handles accounts, likes and follows.
type UserService struct {
	userRepo    repository.UserRepository
	releaseRepo repository.ReleaseRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, releaseRepo repository.ReleaseRepository) *UserService {
	return &UserService{userRepo: userRepo, releaseRepo: releaseRepo}
}

// SignUpInput carries registration fields.
type SignUpInput struct {
	UserName string
	Password string
	Avatar   string
}

// UpdateUserInput carries profile update fields; nil means "not provided".
type UpdateUserInput struct {
	UserName *string
	Avatar   *string
}

func validPassword(password string) bool {
	if !passwordCharsRe.MatchString(password) {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// SignUp registers a new account and returns it with the password cleared.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	if in.UserName == "" || in.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}
	if !userNameRe.MatchString(in.UserName) {
		return nil, models.NewValidationError("Username must be 2-20 characters of letters, digits or Han characters")
	}
	if !validPassword(in.Password) {
		return nil, models.NewValidationError("Password must be 6-20 characters and contain both letters and digits")
	}

	if _, err := s.userRepo.GetByUserName(ctx, in.UserName); err == nil {
		return nil, models.NewConflictError("Username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		UserID:   uuid.NewString(),
		UserName: in.UserName,
		Password: string(hash),
		Avatar:   in.Avatar,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}

	out := user.Sanitized()
	out.ReleaseIDs = []string{}
	out.LikedIDs = []string{}
	out.FollowIDs = []string{}
	return &out, nil
}

// Login verifies credentials and returns the account with membership views.
func (s *UserService) Login(ctx context.Context, userName, password string) (*models.User, error) {
	if userName == "" || password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.userRepo.GetByUserName(ctx, userName)
	if err != nil {
		return nil, orNotFound(err, "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthenticatedError("Incorrect password")
	}

	return s.withMemberships(ctx, user)
}

// GetProfile returns a user with authored/liked/followed views populated.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, orNotFound(err, "User not found")
	}
	return s.withMemberships(ctx, user)
}

func (s *UserService) withMemberships(ctx context.Context, user *models.User) (*models.User, error) {
	authored, err := s.releaseRepo.GetByUserID(ctx, user.UserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	releaseIDs := make([]string, 0, len(authored))
	// GetByUserID returns newest first; the authored view keeps publish order.
	for i := len(authored) - 1; i >= 0; i-- {
		releaseIDs = append(releaseIDs, authored[i].ReleaseID)
	}

	liked, err := s.userRepo.GetLikedReleaseIDs(ctx, user.UserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	follows, err := s.userRepo.GetFollowedUserIDs(ctx, user.UserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	out := user.Sanitized()
	out.ReleaseIDs = releaseIDs
	if liked == nil {
		liked = []string{}
	}
	if follows == nil {
		follows = []string{}
	}
	out.LikedIDs = liked
	out.FollowIDs = follows
	return &out, nil
}

// UpdateProfile changes the username and/or avatar of an account.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateUserInput) (*models.User, error) {
	if in.UserName == nil && in.Avatar == nil {
		return nil, models.NewValidationError("At least one field must be provided")
	}

	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, orNotFound(err, "User not found")
	}

	if in.UserName != nil {
		name := strings.TrimSpace(*in.UserName)
		if !userNameRe.MatchString(name) {
			return nil, models.NewValidationError("Username must be 2-20 characters of letters, digits or Han characters")
		}
		if name != user.UserName {
			if other, err := s.userRepo.GetByUserName(ctx, name); err == nil && other.UserID != userID {
				return nil, models.NewConflictError("Username already exists")
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewInternalError(err)
			}
			user.UserName = name
		}
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.withMemberships(ctx, user)
}

// AddLiked favorites a release for a user. Adding the same release twice is a
// no-op thanks to the unique association row.
func (s *UserService) AddLiked(ctx context.Context, userID, releaseID string) error {
	if releaseID == "" {
		return models.NewValidationError("Release ID is required")
	}
	if _, err := s.userRepo.GetByUserID(ctx, userID); err != nil {
		return orNotFound(err, "User not found")
	}
	if _, err := s.releaseRepo.GetByReleaseID(ctx, releaseID); err != nil {
		return orNotFound(err, "Release not found")
	}
	if err := s.userRepo.Like(ctx, userID, releaseID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RemoveLiked removes a favorite.
func (s *UserService) RemoveLiked(ctx context.Context, userID, releaseID string) error {
	if _, err := s.userRepo.GetByUserID(ctx, userID); err != nil {
		return orNotFound(err, "User not found")
	}
	if err := s.userRepo.Unlike(ctx, userID, releaseID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetLiked returns the releases a user has favorited.
func (s *UserService) GetLiked(ctx context.Context, userID string) ([]*models.Release, error) {
	if _, err := s.userRepo.GetByUserID(ctx, userID); err != nil {
		return nil, orNotFound(err, "User not found")
	}
	ids, err := s.userRepo.GetLikedReleaseIDs(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	releases, err := s.releaseRepo.GetByReleaseIDs(ctx, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if releases == nil {
		releases = []*models.Release{}
	}
	return releases, nil
}

// FollowUser subscribes userID to followUserID's releases.
func (s *UserService) FollowUser(ctx context.Context, userID, followUserID string) error {
	if followUserID == "" {
		return models.NewValidationError("Follow user ID is required")
	}
	if userID == followUserID {
		return models.NewValidationError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetByUserID(ctx, userID); err != nil {
		return orNotFound(err, "User not found")
	}
	if _, err := s.userRepo.GetByUserID(ctx, followUserID); err != nil {
		return orNotFound(err, "User to follow not found")
	}
	if err := s.userRepo.Follow(ctx, userID, followUserID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// UnfollowUser removes a follow edge.
func (s *UserService) UnfollowUser(ctx context.Context, userID, followUserID string) error {
	if _, err := s.userRepo.GetByUserID(ctx, userID); err != nil {
		return orNotFound(err, "User not found")
	}
	if err := s.userRepo.Unfollow(ctx, userID, followUserID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetFollowing returns the approved releases of everyone the user follows.
func (s *UserService) GetFollowing(ctx context.Context, userID string) ([]*models.Release, error) {
	if _, err := s.userRepo.GetByUserID(ctx, userID); err != nil {
		return nil, orNotFound(err, "User not found")
	}
	followed, err := s.userRepo.GetFollowedUserIDs(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	releases, err := s.releaseRepo.GetByUserIDs(ctx, followed, models.StateResolve)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if releases == nil {
		releases = []*models.Release{}
	}
	return releases, nil
}
