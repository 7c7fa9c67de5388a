package server

import (
	"net/http"
	"testing"

	"ovra/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendFriendRequest(t *testing.T, app *fiber.App, token string, targetID uint) models.FriendRequest {
	t.Helper()
	resp := jsonRequest(t, app, http.MethodPost, "/api/friend-requests", token, fiber.Map{"targetId": targetID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decodeBody[models.FriendRequest](t, resp)
}

func TestSendFriendRequest(t *testing.T) {
	app, _ := newTestApp(t)
	ada, adaUser := registerUser(t, app, "ada")
	_, bobUser := registerUser(t, app, "bob")

	request := sendFriendRequest(t, app, ada, bobUser.ID)
	assert.Equal(t, models.FriendRequestStatusPending, request.Status)
	assert.Equal(t, adaUser.ID, request.RequesterID)

	// Duplicate in either direction conflicts.
	resp := jsonRequest(t, app, http.MethodPost, "/api/friend-requests", ada, fiber.Map{"targetId": bobUser.ID})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Self and missing targets are rejected.
	resp = jsonRequest(t, app, http.MethodPost, "/api/friend-requests", ada, fiber.Map{"targetId": adaUser.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodPost, "/api/friend-requests", ada, fiber.Map{"targetId": 9999})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestFriendRequestLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	ada, _ := registerUser(t, app, "ada")
	bob, bobUser := registerUser(t, app, "bob")

	request := sendFriendRequest(t, app, ada, bobUser.ID)

	// Bob sees the pending request; ada sees it under ?type=sent.
	resp := jsonRequest(t, app, http.MethodGet, "/api/friend-requests", bob, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	received := decodeBody[[]models.FriendRequest](t, resp)
	require.Len(t, received, 1)
	assert.Equal(t, "ada", received[0].Requester.Username)

	resp = jsonRequest(t, app, http.MethodGet, "/api/friend-requests?type=sent", ada, nil)
	sent := decodeBody[[]models.FriendRequest](t, resp)
	require.Len(t, sent, 1)

	// Only the target may respond.
	resp = jsonRequest(t, app, http.MethodPut, "/api/friend-requests/"+itoa(request.ID), ada, fiber.Map{"status": "accepted"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodPut, "/api/friend-requests/"+itoa(request.ID), bob, fiber.Map{"status": "maybe"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodPut, "/api/friend-requests/"+itoa(request.ID), bob, fiber.Map{"status": "accepted"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	accepted := decodeBody[models.FriendRequest](t, resp)
	assert.Equal(t, models.FriendRequestStatusAccepted, accepted.Status)

	// Both sides now list each other as friends.
	resp = jsonRequest(t, app, http.MethodGet, "/api/friends", ada, nil)
	friends := decodeBody[[]models.User](t, resp)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)

	resp = jsonRequest(t, app, http.MethodGet, "/api/friends", bob, nil)
	friends = decodeBody[[]models.User](t, resp)
	require.Len(t, friends, 1)
	assert.Equal(t, "ada", friends[0].Username)
}

func TestRemoveFriend(t *testing.T) {
	app, _ := newTestApp(t)
	ada, adaUser := registerUser(t, app, "ada")
	bob, bobUser := registerUser(t, app, "bob")

	request := sendFriendRequest(t, app, ada, bobUser.ID)
	resp := jsonRequest(t, app, http.MethodPut, "/api/friend-requests/"+itoa(request.ID), bob, fiber.Map{"status": "accepted"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodDelete, "/api/friends/"+itoa(bobUser.ID), ada, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodGet, "/api/friends", bob, nil)
	friends := decodeBody[[]models.User](t, resp)
	assert.Empty(t, friends)

	// After removal a new request can be sent again.
	resp = jsonRequest(t, app, http.MethodPost, "/api/friend-requests", bob, fiber.Map{"targetId": adaUser.ID})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestRespondToFriendRequest_Rejected(t *testing.T) {
	app, _ := newTestApp(t)
	ada, _ := registerUser(t, app, "ada")
	bob, bobUser := registerUser(t, app, "bob")

	request := sendFriendRequest(t, app, ada, bobUser.ID)
	resp := jsonRequest(t, app, http.MethodPut, "/api/friend-requests/"+itoa(request.ID), bob, fiber.Map{"status": "rejected"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodGet, "/api/friends", ada, nil)
	friends := decodeBody[[]models.User](t, resp)
	assert.Empty(t, friends)
}
