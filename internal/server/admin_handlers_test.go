package server

import (
	"net/http"
	"testing"

	"ovra/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "ada")

	resp := jsonRequest(t, app, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminListUsersAndPosts(t *testing.T) {
	app, s := newTestApp(t)
	admin, adminUser := registerUser(t, app, "admin")
	promoteToAdmin(t, s, adminUser.ID)
	member, _ := registerUser(t, app, "member")
	createPost(t, app, member, fiber.Map{"content": "visible to admins"})

	resp := jsonRequest(t, app, http.MethodGet, "/api/admin/users", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	users := decodeBody[[]models.User](t, resp)
	assert.Len(t, users, 2)

	resp = jsonRequest(t, app, http.MethodGet, "/api/admin/posts", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	posts := decodeBody[[]models.Post](t, resp)
	require.Len(t, posts, 1)
}

func TestAdminDeletePost(t *testing.T) {
	app, s := newTestApp(t)
	admin, adminUser := registerUser(t, app, "admin")
	promoteToAdmin(t, s, adminUser.ID)
	member, _ := registerUser(t, app, "member")
	post := createPost(t, app, member, fiber.Map{"content": "about to go"})

	resp := jsonRequest(t, app, http.MethodDelete, "/api/admin/posts/"+itoa(post.ID), admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodGet, "/api/posts/"+itoa(post.ID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminUpdateUserRole(t *testing.T) {
	app, s := newTestApp(t)
	admin, adminUser := registerUser(t, app, "admin")
	promoteToAdmin(t, s, adminUser.ID)
	_, memberUser := registerUser(t, app, "member")

	resp := jsonRequest(t, app, http.MethodPatch, "/api/admin/users/"+itoa(memberUser.ID)+"/role", admin, fiber.Map{"role": "admin"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decodeBody[models.User](t, resp)
	assert.Equal(t, models.UserRoleAdmin, updated.Role)

	resp = jsonRequest(t, app, http.MethodPatch, "/api/admin/users/"+itoa(memberUser.ID)+"/role", admin, fiber.Map{"role": "overlord"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
