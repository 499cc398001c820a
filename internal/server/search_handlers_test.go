package server

import (
	"testing"

	"tourdiary/internal/models"
	"tourdiary/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedApprovedRelease(t *testing.T, env *testEnv, userID, title string) models.Release {
	t.Helper()
	body := newReleaseBody(userID)
	body["title"] = title
	status, resp := env.request(t, "POST", "/api/release", body, "")
	require.Equal(t, fiber.StatusCreated, status)

	var release models.Release
	resp.into(t, &release)

	require.NoError(t, env.db.Model(&models.Release{}).
		Where("release_id = ?", release.ReleaseID).
		Update("state", models.StateResolve).Error)
	return release
}

func TestSearchReleasesEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	mingID := env.signupUser(t, "xiaoming")
	otherID := env.signupUser(t, "stranger")

	byAuthor := seedApprovedRelease(t, env, mingID, "Lakeside camping")
	byTitle := seedApprovedRelease(t, env, otherID, "Guilin rafting")
	both := seedApprovedRelease(t, env, mingID, "Guilin on a budget")

	t.Run("Keyword Required", func(t *testing.T) {
		status, resp := env.request(t, "GET", "/api/releases/search", nil, "")
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, models.ErrCodeValidation, resp.Error)
	})

	t.Run("By Author Name", func(t *testing.T) {
		status, resp := env.request(t, "GET", "/api/releases/search?userName=ming", nil, "")
		require.Equal(t, fiber.StatusOK, status)

		var result service.SearchResult
		resp.into(t, &result)
		assert.Len(t, result.ByUserName, 2)
		assert.Empty(t, result.ByTitle)
		assert.Equal(t, 2, result.Total)
	})

	t.Run("By Title", func(t *testing.T) {
		status, resp := env.request(t, "GET", "/api/releases/search?title=Guilin", nil, "")
		require.Equal(t, fiber.StatusOK, status)

		var result service.SearchResult
		resp.into(t, &result)
		require.Len(t, result.ByTitle, 2)
		ids := []string{result.ByTitle[0].ReleaseID, result.ByTitle[1].ReleaseID}
		assert.Contains(t, ids, byTitle.ReleaseID)
		assert.Contains(t, ids, both.ReleaseID)
	})

	t.Run("Combined Search Tags Matches", func(t *testing.T) {
		status, resp := env.request(t, "POST", "/api/releases/search",
			fiber.Map{"userName": "ming", "title": "Guilin"}, "")
		require.Equal(t, fiber.StatusOK, status)

		var result service.SearchResult
		resp.into(t, &result)
		assert.Equal(t, 1, result.ByBoth)
		assert.Equal(t, 3, result.Total)

		sources := map[string][]string{}
		for _, rel := range result.ByUserName {
			sources[rel.ReleaseID] = rel.MatchSource
		}
		assert.Equal(t, []string{service.MatchUserName, service.MatchTitle}, sources[both.ReleaseID])
		assert.Equal(t, []string{service.MatchUserName}, sources[byAuthor.ReleaseID])
	})

	t.Run("State Filter", func(t *testing.T) {
		status, resp := env.request(t, "GET", "/api/releases/search?title=Guilin&state=wait", nil, "")
		require.Equal(t, fiber.StatusOK, status)

		var result service.SearchResult
		resp.into(t, &result)
		assert.Empty(t, result.ByTitle, "all seeded releases were approved")
	})
}
