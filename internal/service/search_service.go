package service

import (
	"context"
	"strings"

	"tourdiary/internal/models"
	"tourdiary/internal/repository"
)

// Match source tags attached to search results.
const (
	MatchUserName = "userName"
	MatchTitle    = "title"
)

// SearchResult groups the matches of a combined search. ByBoth counts the
// releases present in both result sets; Total counts the deduplicated union.
type SearchResult struct {
	ByUserName []*models.Release `json:"byUserName"`
	ByTitle    []*models.Release `json:"byTitle"`
	ByBoth     int               `json:"byBoth"`
	Total      int               `json:"total"`
}

// SearchService resolves combined author-name and title searches.
type SearchService struct {
	userRepo    repository.UserRepository
	releaseRepo repository.ReleaseRepository
}

// NewSearchService creates a new search service.
func NewSearchService(userRepo repository.UserRepository, releaseRepo repository.ReleaseRepository) *SearchService {
	return &SearchService{userRepo: userRepo, releaseRepo: releaseRepo}
}

// Search runs both match strategies and merges the results.
//
// Set A holds the releases of users whose name contains userName; set B holds
// releases whose title contains title. A release found by both strategies is
// tagged with both sources and counted once in the union, with the set A
// instance winning the dedup.
func (s *SearchService) Search(ctx context.Context, userName, title, state string) (*SearchResult, error) {
	userName = strings.TrimSpace(userName)
	title = strings.TrimSpace(title)
	if userName == "" && title == "" {
		return nil, models.NewValidationError("A user name or title keyword is required")
	}
	if state == "" {
		state = models.StateResolve
	}
	if !models.ValidState(state) {
		return nil, models.NewValidationError("State must be one of wait, resolve, reject")
	}

	byUser := []*models.Release{}
	if userName != "" {
		users, err := s.userRepo.SearchByName(ctx, userName)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if len(users) > 0 {
			userIDs := make([]string, 0, len(users))
			for _, u := range users {
				userIDs = append(userIDs, u.UserID)
			}
			byUser, err = s.releaseRepo.GetByUserIDs(ctx, userIDs, state)
			if err != nil {
				return nil, models.NewInternalError(err)
			}
		}
	}

	byTitle := []*models.Release{}
	if title != "" {
		var err error
		byTitle, err = s.releaseRepo.SearchByTitle(ctx, title, state)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	inUser := make(map[string]*models.Release, len(byUser))
	for _, rel := range byUser {
		rel.MatchSource = []string{MatchUserName}
		inUser[rel.ReleaseID] = rel
	}

	both := 0
	for _, rel := range byTitle {
		if hit, ok := inUser[rel.ReleaseID]; ok {
			both++
			hit.MatchSource = []string{MatchUserName, MatchTitle}
			rel.MatchSource = []string{MatchUserName, MatchTitle}
		} else {
			rel.MatchSource = []string{MatchTitle}
		}
	}

	if byUser == nil {
		byUser = []*models.Release{}
	}
	if byTitle == nil {
		byTitle = []*models.Release{}
	}
	return &SearchResult{
		ByUserName: byUser,
		ByTitle:    byTitle,
		ByBoth:     both,
		Total:      len(byUser) + len(byTitle) - both,
	}, nil
}
