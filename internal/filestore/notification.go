package filestore

import (
	"context"
	"sort"
	"time"

	"ovra/internal/models"
	"ovra/internal/repository"
)

type notificationRecord struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	PostID    *uint     `json:"postId,omitempty"`
	AuthorID  uint      `json:"authorId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r notificationRecord) toModel() models.Notification {
	return models.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		PostID:    r.PostID,
		AuthorID:  r.AuthorID,
		Type:      r.Type,
		Title:     r.Title,
		Message:   r.Message,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}
}

type notificationStore struct {
	store *Store
}

// NewNotificationStore creates a file-backed notification repository.
func NewNotificationStore(store *Store) repository.NotificationRepository {
	return &notificationStore{store: store}
}

func (s *notificationStore) Create(ctx context.Context, notification *models.Notification) error {
	return s.CreateBatch(ctx, []models.Notification{*notification})
}

func (s *notificationStore) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[notificationRecord](s.store, "notifications")
	if err != nil {
		return err
	}
	id := nextID(records, func(r notificationRecord) uint { return r.ID })
	now := time.Now()
	for _, n := range notifications {
		records = append(records, notificationRecord{
			ID:        id,
			UserID:    n.UserID,
			PostID:    n.PostID,
			AuthorID:  n.AuthorID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			CreatedAt: now,
		})
		id++
	}
	return writeTable(s.store, "notifications", records)
}

func (s *notificationStore) GetForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[notificationRecord](s.store, "notifications")
	if err != nil {
		return nil, err
	}
	matched := make([]notificationRecord, 0)
	for _, r := range records {
		if r.UserID == userID {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	matched = paginate(matched, limit, offset)

	users, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u.toModel()
	}

	posts, err := readTable[postRecord](s.store, "posts")
	if err != nil {
		return nil, err
	}
	postByID := make(map[uint]postRecord, len(posts))
	for _, p := range posts {
		postByID[p.ID] = p
	}

	notifications := make([]models.Notification, 0, len(matched))
	for _, r := range matched {
		notification := r.toModel()
		notification.Author = byID[r.AuthorID]
		// The source post rides along when it still exists; deletion clears
		// the reference, so the post stays null from then on.
		if r.PostID != nil {
			if p, ok := postByID[*r.PostID]; ok {
				post := p.toModel()
				notification.Post = &post
			}
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

func (s *notificationStore) MarkRead(ctx context.Context, userID, notificationID uint) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[notificationRecord](s.store, "notifications")
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == notificationID && records[i].UserID == userID {
			records[i].IsRead = true
			return writeTable(s.store, "notifications", records)
		}
	}
	return models.NewNotFoundError("Notification", notificationID)
}

func (s *notificationStore) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[notificationRecord](s.store, "notifications")
	if err != nil {
		return 0, err
	}
	var updated int64
	for i := range records {
		if records[i].UserID == userID && !records[i].IsRead {
			records[i].IsRead = true
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	return updated, writeTable(s.store, "notifications", records)
}

func (s *notificationStore) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[notificationRecord](s.store, "notifications")
	if err != nil {
		return 0, err
	}
	var count int64
	for _, r := range records {
		if r.UserID == userID && !r.IsRead {
			count++
		}
	}
	return count, nil
}
