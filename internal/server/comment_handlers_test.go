package server

import (
	"net/http"
	"testing"

	"ovra/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListComments(t *testing.T) {
	app, _ := newTestApp(t)
	adaToken, _ := registerUser(t, app, "ada")
	bobToken, _ := registerUser(t, app, "bob")
	post := createPost(t, app, adaToken, fiber.Map{"content": "original take"})

	resp := jsonRequest(t, app, http.MethodPost, "/api/posts/"+itoa(post.ID)+"/comments", bobToken,
		map[string]string{"content": "first!"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[models.Comment](t, resp)
	assert.Equal(t, "first!", created.Content)
	assert.Equal(t, "bob", created.Author.Username)

	resp = jsonRequest(t, app, http.MethodPost, "/api/posts/"+itoa(post.ID)+"/comments", adaToken,
		map[string]string{"content": "thanks"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Comments come back oldest first.
	resp = jsonRequest(t, app, http.MethodGet, "/api/posts/"+itoa(post.ID)+"/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := decodeBody[[]models.Comment](t, resp)
	require.Len(t, comments, 2)
	assert.Equal(t, "first!", comments[0].Content)
	assert.Equal(t, "thanks", comments[1].Content)
}

func TestCreateComment_Validation(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "ada")
	post := createPost(t, app, token, fiber.Map{"content": "hello"})

	resp := jsonRequest(t, app, http.MethodPost, "/api/posts/"+itoa(post.ID)+"/comments", token,
		map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodPost, "/api/posts/99999/comments", token,
		map[string]string{"content": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodPost, "/api/posts/"+itoa(post.ID)+"/comments", "",
		map[string]string{"content": "anon"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDeleteComment(t *testing.T) {
	app, _ := newTestApp(t)
	adaToken, _ := registerUser(t, app, "ada")
	bobToken, _ := registerUser(t, app, "bob")
	eveToken, _ := registerUser(t, app, "eve")
	post := createPost(t, app, adaToken, fiber.Map{"content": "discuss"})

	resp := jsonRequest(t, app, http.MethodPost, "/api/posts/"+itoa(post.ID)+"/comments", bobToken,
		map[string]string{"content": "hot take"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment := decodeBody[models.Comment](t, resp)

	// Bystanders may not delete.
	resp = jsonRequest(t, app, http.MethodDelete, "/api/comments/"+itoa(comment.ID), eveToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The post author may delete comments on their own post.
	resp = jsonRequest(t, app, http.MethodDelete, "/api/comments/"+itoa(comment.ID), adaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodGet, "/api/posts/"+itoa(post.ID)+"/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := decodeBody[[]models.Comment](t, resp)
	assert.Empty(t, comments)
}
