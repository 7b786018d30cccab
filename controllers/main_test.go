package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"promptdeck/config"
	"promptdeck/models"
	"promptdeck/routes"
	"promptdeck/utils"
)

// setupTestDB opens a fresh in-memory database, migrates the schema and
// installs it as the process-wide connection the handlers use.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))

	config.DB = db
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.Redis.Enabled = false

	return db
}

func newTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	app := fiber.New()
	routes.SetupRoutes(app, db)
	return app
}

func createUser(t *testing.T, db *gorm.DB, email, role string) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		TokenVersion: 1,
	}
	require.NoError(t, db.Create(user).Error)

	accessToken, _, err := utils.GenerateJWTToken(user, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	return user, accessToken
}

func createTeamWithOwner(t *testing.T, db *gorm.DB, name string, owner *models.User) *models.Team {
	t.Helper()

	team := &models.Team{Name: name, CreatedBy: owner.ID}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID: team.ID,
		UserID: owner.ID,
		Role:   models.TeamRoleOwner,
	}).Error)

	return team
}

func addMembership(t *testing.T, db *gorm.DB, team *models.Team, user *models.User, role string) *models.TeamMember {
	t.Helper()

	membership := &models.TeamMember{TeamID: team.ID, UserID: user.ID, Role: role}
	require.NoError(t, db.Create(membership).Error)
	return membership
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// envelope mirrors the response wrapper the handlers emit.
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response, data interface{}) envelope {
	t.Helper()

	var env envelope
	decodeBody(t, resp, &env)
	if data != nil && env.Data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// withOpenAIStub points the improvement client at a local stand-in for
// the provider API and restores the previous settings afterwards.
func withOpenAIStub(t *testing.T, handler http.HandlerFunc) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	prev := config.AppConfig.OpenAI
	config.AppConfig.OpenAI = config.OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1",
		Model:      "gpt-4o-mini",
		Timeout:    5 * time.Second,
		MaxRetries: 1,
	}
	t.Cleanup(func() { config.AppConfig.OpenAI = prev })
}
