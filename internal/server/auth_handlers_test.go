package server

import (
	"net/http"
	"testing"

	"ovra/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	app, _ := newTestApp(t)

	resp := jsonRequest(t, app, http.MethodPost, "/api/register", "", fiber.Map{
		"username": "ada",
		"email":    "ada@example.com",
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	out := decodeBody[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](t, resp)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "ada", out.User.Username)
	assert.Equal(t, "ada", out.User.DisplayName)
	assert.Empty(t, out.User.Password)
}

func TestRegister_Validation(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"missing password", fiber.Map{"username": "ada"}},
		{"short username", fiber.Map{"username": "ab", "password": testPassword}},
		{"weak password", fiber.Map{"username": "ada", "password": "short"}},
		{"bad email", fiber.Map{"username": "ada", "email": "not-an-email", "password": testPassword}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := jsonRequest(t, app, http.MethodPost, "/api/register", "", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	app, _ := newTestApp(t)
	registerUser(t, app, "ada")

	resp := jsonRequest(t, app, http.MethodPost, "/api/register", "", fiber.Map{
		"username": "ada",
		"password": testPassword,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app, _ := newTestApp(t)
	registerUser(t, app, "ada")

	resp := jsonRequest(t, app, http.MethodPost, "/api/login", "", fiber.Map{
		"username": "ada",
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decodeBody[map[string]any](t, resp)
	assert.NotEmpty(t, out["token"])

	// Wrong password and unknown user respond identically.
	resp = jsonRequest(t, app, http.MethodPost, "/api/login", "", fiber.Map{
		"username": "ada",
		"password": "WrongPassword1!",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodPost, "/api/login", "", fiber.Map{
		"username": "nobody",
		"password": testPassword,
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCurrentUser(t *testing.T) {
	app, _ := newTestApp(t)
	token, user := registerUser(t, app, "ada")

	resp := jsonRequest(t, app, http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeBody[struct {
		User  models.User      `json:"user"`
		Stats models.UserStats `json:"stats"`
	}](t, resp)
	assert.Equal(t, user.ID, out.User.ID)
	assert.Zero(t, out.Stats.PostsCount)
}

func TestAuthRequired_RejectsBadTokens(t *testing.T) {
	app, _ := newTestApp(t)

	resp := jsonRequest(t, app, http.MethodGet, "/api/auth/user", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodGet, "/api/auth/user", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_RejectsForeignSignature(t *testing.T) {
	app, _ := newTestApp(t)

	// A token minted with a different secret must not validate.
	other := &Server{config: testConfigWithSecret("some-other-secret")}
	token, err := other.generateToken(1, "ada")
	require.NoError(t, err)

	resp := jsonRequest(t, app, http.MethodGet, "/api/auth/user", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
