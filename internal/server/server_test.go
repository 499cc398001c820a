package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"tourdiary/internal/config"
	"tourdiary/internal/database"
	"tourdiary/internal/middleware"
	"tourdiary/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// envelope mirrors models.Response with raw data for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (e envelope) into(t *testing.T, dest any) {
	t.Helper()
	require.NotEmpty(t, e.Data)
	require.NoError(t, json.Unmarshal(e.Data, dest))
}

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	srv *Server
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := &config.Config{
		Port:            "3000",
		Env:             "test",
		JWTSecret:       "handler-test-secret-handler-test",
		UploadDir:       t.TempDir(),
		UploadBaseURL:   "/uploads",
		MaxUploadSizeMB: 5,
	}
	middleware.InitMiddleware(cfg)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
	srv.SetupRoutes(app)

	return &testEnv{app: app, db: db, srv: srv}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, token string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp.StatusCode, env
}

// signupUser registers an account through the API and returns its userId.
func (e *testEnv) signupUser(t *testing.T, name string) string {
	t.Helper()

	status, env := e.request(t, "POST", "/api/signUp",
		fiber.Map{"userName": name, "password": "demo1234"}, "")
	require.Equal(t, fiber.StatusCreated, status, "signup failed: %s", env.Message)

	var data struct {
		User models.User `json:"user"`
	}
	env.into(t, &data)
	require.NotEmpty(t, data.User.UserID)
	return data.User.UserID
}

// userToken issues a JWT for an existing regular account.
func (e *testEnv) userToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.IssueToken(userID)
	require.NoError(t, err)
	return token
}

// adminToken seeds an admin account directly and returns a JWT for it.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	admin := models.User{UserID: "admin-1", UserName: "siteadmin", Password: "x", IsAdmin: true}
	require.NoError(t, e.db.Create(&admin).Error)

	token, err := middleware.IssueToken(admin.UserID)
	require.NoError(t, err)
	return token
}

func TestHealthEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	status, _ := env.request(t, "GET", "/health/live", nil, "")
	assert.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest("GET", "/health/ready", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
			Redis    string `json:"redis"`
		} `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks.Database)
	assert.Equal(t, "unavailable", body.Checks.Redis, "missing Redis degrades but stays ready")
}

func TestChatSocketRequiresUpgrade(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest("GET", "/ws", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestErrorEnvelopeShape(t *testing.T) {
	env := setupTestEnv(t)

	status, resp := env.request(t, "GET", "/api/user/no-such-user", nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, models.ErrCodeNotFound, resp.Error)
}
