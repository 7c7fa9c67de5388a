package server

import (
	"net/http"
	"testing"

	"ovra/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Direct messages need the Postgres backend; over the file store the write
// endpoints report a validation error and reads come back empty.
func TestMessages_FileBackendUnsupported(t *testing.T) {
	app, _ := newTestApp(t)
	ada, _ := registerUser(t, app, "ada")
	_, bobUser := registerUser(t, app, "bob")

	resp := jsonRequest(t, app, http.MethodPost, "/api/messages", ada, fiber.Map{
		"receiverId": bobUser.ID,
		"content":    "hey",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodGet, "/api/messages/conversations", ada, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	conversations := decodeBody[[]models.Conversation](t, resp)
	assert.Empty(t, conversations)
}

func TestSendMessage_Validation(t *testing.T) {
	app, _ := newTestApp(t)
	ada, adaUser := registerUser(t, app, "ada")

	// Self-messaging fails before any storage access.
	resp := jsonRequest(t, app, http.MethodPost, "/api/messages", ada, fiber.Map{
		"receiverId": adaUser.ID,
		"content":    "note to self",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = jsonRequest(t, app, http.MethodPost, "/api/messages", ada, fiber.Map{
		"receiverId": 9999,
		"content":    "hello?",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
