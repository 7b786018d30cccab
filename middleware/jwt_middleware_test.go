package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"promptdeck/config"
	"promptdeck/middleware"
	"promptdeck/models"
	"promptdeck/utils"
)

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

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", middleware.Protected(), func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		return c.JSON(fiber.Map{"email": user.Email})
	})
	app.Get("/admin", middleware.Protected(), middleware.AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func issueToken(t *testing.T, db *gorm.DB, email, role string) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "irrelevant",
		Role:         role,
		IsActive:     true,
		TokenVersion: 1,
	}
	require.NoError(t, db.Create(user).Error)

	token, _, err := utils.GenerateJWTToken(user, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	return user, token
}

func get(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestProtectedRejectsMissingToken(t *testing.T) {
	setupTestDB(t)
	app := newProtectedApp()

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/protected", ""))
}

func TestProtectedRejectsMalformedHeader(t *testing.T) {
	setupTestDB(t)
	app := newProtectedApp()

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRejectsGarbageToken(t *testing.T) {
	setupTestDB(t)
	app := newProtectedApp()

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/protected", "not-a-jwt"))
}

func TestProtectedAcceptsValidToken(t *testing.T) {
	db := setupTestDB(t)
	app := newProtectedApp()

	_, token := issueToken(t, db, "user@example.com", models.RoleMember)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/protected", token))
}

func TestProtectedAcceptsCookieToken(t *testing.T) {
	db := setupTestDB(t)
	app := newProtectedApp()

	_, token := issueToken(t, db, "user@example.com", models.RoleMember)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRejectsInactiveAccount(t *testing.T) {
	db := setupTestDB(t)
	app := newProtectedApp()

	user, token := issueToken(t, db, "user@example.com", models.RoleMember)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/protected", token))
}

func TestProtectedRejectsStaleTokenVersion(t *testing.T) {
	db := setupTestDB(t)
	app := newProtectedApp()

	user, token := issueToken(t, db, "user@example.com", models.RoleMember)

	// Bumping the version invalidates every token issued before it
	require.NoError(t, db.Model(user).Update("token_version", user.TokenVersion+1).Error)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/protected", token))
}

func TestAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	app := newProtectedApp()

	_, memberToken := issueToken(t, db, "member@example.com", models.RoleMember)
	_, adminToken := issueToken(t, db, "admin@example.com", models.RoleAdmin)

	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", memberToken))
	assert.Equal(t, fiber.StatusOK, get(t, app, "/admin", adminToken))
}
