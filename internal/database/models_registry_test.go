package database

import (
	"testing"

	"ovra/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_CoversSocialGraph(t *testing.T) {
	want := map[string]bool{}
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *models.User:
			want["user"] = true
		case *models.Post:
			want["post"] = true
		case *models.FriendRequest:
			want["friend_request"] = true
		case *models.Message:
			want["message"] = true
		case *models.Notification:
			want["notification"] = true
		}
	}
	for _, name := range []string{"user", "post", "friend_request", "message", "notification"} {
		require.True(t, want[name], "PersistentModels should include %s", name)
	}
}
