package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func signToken(t *testing.T, claims *domain.AccessClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func userClaims(userID string, roles []string, expiresIn time.Duration) *domain.AccessClaims {
	return &domain.AccessClaims{
		UserID: userID,
		Email:  userID + "@example.com",
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
}

func setupAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", VerifyAccessToken(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": GetUserID(c)})
	})
	app.Get("/admin", VerifyAccessToken(testJWTSecret), AuthorizeRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func TestVerifyAccessToken(t *testing.T) {
	app := setupAuthApp()

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid bearer token",
			authHeader: "Bearer " + signToken(t, userClaims("user-1", []string{domain.RoleUser}, time.Hour), testJWTSecret),
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "raw token without bearer prefix",
			authHeader: signToken(t, userClaims("user-1", []string{domain.RoleUser}, time.Hour), testJWTSecret),
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + signToken(t, userClaims("user-1", []string{domain.RoleUser}, -time.Hour), testJWTSecret),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			authHeader: "Bearer " + signToken(t, userClaims("user-1", []string{domain.RoleUser}, time.Hour), "other-secret"),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.jwt",
			wantStatus: fiber.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestAuthorizeRole(t *testing.T) {
	app := setupAuthApp()

	tests := []struct {
		name       string
		roles      []string
		wantStatus int
	}{
		{name: "admin allowed", roles: []string{domain.RoleAdmin}, wantStatus: fiber.StatusOK},
		{name: "admin among other roles", roles: []string{domain.RoleUser, domain.RoleAdmin}, wantStatus: fiber.StatusOK},
		{name: "plain user rejected", roles: []string{domain.RoleUser}, wantStatus: fiber.StatusForbidden},
		{name: "no roles rejected", roles: nil, wantStatus: fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, userClaims("user-1", tt.roles, time.Hour), testJWTSecret))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
