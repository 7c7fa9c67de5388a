package filestore

import (
	"context"
	"sort"
	"strings"
	"time"

	"ovra/internal/cache"
	"ovra/internal/models"
	"ovra/internal/repository"
)

// userRecord is the persisted form of a user. The password hash needs an
// explicit field because models.User never serializes it.
type userRecord struct {
	ID              uint            `json:"id"`
	Username        string          `json:"username"`
	Email           *string         `json:"email,omitempty"`
	PasswordHash    string          `json:"passwordHash"`
	DisplayName     string          `json:"displayName"`
	Bio             string          `json:"bio"`
	Location        string          `json:"location"`
	Website         string          `json:"website"`
	ProfileImageURL string          `json:"profileImageUrl"`
	Role            models.UserRole `json:"role"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (r userRecord) toModel() models.User {
	return models.User{
		ID:              r.ID,
		Username:        r.Username,
		Email:           r.Email,
		Password:        r.PasswordHash,
		DisplayName:     r.DisplayName,
		Bio:             r.Bio,
		Location:        r.Location,
		Website:         r.Website,
		ProfileImageURL: r.ProfileImageURL,
		Role:            r.Role,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func userToRecord(u *models.User) userRecord {
	return userRecord{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		PasswordHash:    u.Password,
		DisplayName:     u.DisplayName,
		Bio:             u.Bio,
		Location:        u.Location,
		Website:         u.Website,
		ProfileImageURL: u.ProfileImageURL,
		Role:            u.Role,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type userStore struct {
	store *Store
}

// NewUserStore creates a file-backed user repository.
func NewUserStore(store *Store) repository.UserRepository {
	return &userStore{store: store}
}

func (s *userStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.findUser(func(r userRecord) bool { return r.ID == id })
}

func (s *userStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.findUser(func(r userRecord) bool { return r.Username == username })
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.findUser(func(r userRecord) bool { return r.Email != nil && *r.Email == email })
}

func (s *userStore) findUser(match func(userRecord) bool) (*models.User, error) {
	records, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if match(r) {
			user := r.toModel()
			return &user, nil
		}
	}
	return nil, nil
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.Username == user.Username ||
			(user.Email != nil && r.Email != nil && *r.Email == *user.Email) {
			return models.NewConflictError("username or email already taken")
		}
	}

	now := time.Now()
	user.ID = nextID(records, func(r userRecord) uint { return r.ID })
	user.CreatedAt = now
	user.UpdatedAt = now
	records = append(records, userToRecord(user))
	return writeTable(s.store, "users", records)
}

func (s *userStore) Update(ctx context.Context, user *models.User) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return err
	}
	idx := -1
	for i, r := range records {
		if r.ID == user.ID {
			idx = i
			continue
		}
		if r.Username == user.Username ||
			(user.Email != nil && r.Email != nil && *r.Email == *user.Email) {
			return models.NewConflictError("username or email already taken")
		}
	}
	if idx < 0 {
		return models.NewNotFoundError("User", user.ID)
	}

	user.UpdatedAt = time.Now()
	records[idx] = userToRecord(user)
	if err := writeTable(s.store, "users", records); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Delete removes the user and everything hanging off them, mirroring the
// ON DELETE CASCADE graph of the Postgres schema.
func (s *userStore) Delete(ctx context.Context, id uint) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	users, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return err
	}
	users = deleteWhere(users, func(r userRecord) bool { return r.ID == id })
	if err := writeTable(s.store, "users", users); err != nil {
		return err
	}

	posts, err := readTable[postRecord](s.store, "posts")
	if err != nil {
		return err
	}
	ownPosts := make(map[uint]bool)
	for _, p := range posts {
		if p.AuthorID == id {
			ownPosts[p.ID] = true
		}
	}
	for i := range posts {
		if posts[i].QuotedPostID != nil && ownPosts[*posts[i].QuotedPostID] {
			posts[i].QuotedPostID = nil
		}
	}
	posts = deleteWhere(posts, func(r postRecord) bool { return r.AuthorID == id })
	if err := writeTable(s.store, "posts", posts); err != nil {
		return err
	}

	touchesUser := func(userID, postID uint) bool {
		return userID == id || ownPosts[postID]
	}

	likes, err := readTable[likeRecord](s.store, "likes")
	if err != nil {
		return err
	}
	likes = deleteWhere(likes, func(r likeRecord) bool { return touchesUser(r.UserID, r.PostID) })
	if err := writeTable(s.store, "likes", likes); err != nil {
		return err
	}

	bookmarks, err := readTable[bookmarkRecord](s.store, "bookmarks")
	if err != nil {
		return err
	}
	bookmarks = deleteWhere(bookmarks, func(r bookmarkRecord) bool { return touchesUser(r.UserID, r.PostID) })
	if err := writeTable(s.store, "bookmarks", bookmarks); err != nil {
		return err
	}

	comments, err := readTable[commentRecord](s.store, "comments")
	if err != nil {
		return err
	}
	comments = deleteWhere(comments, func(r commentRecord) bool { return touchesUser(r.AuthorID, r.PostID) })
	if err := writeTable(s.store, "comments", comments); err != nil {
		return err
	}

	follows, err := readTable[followRecord](s.store, "follows")
	if err != nil {
		return err
	}
	follows = deleteWhere(follows, func(r followRecord) bool {
		return r.FollowerID == id || r.FollowingID == id
	})
	if err := writeTable(s.store, "follows", follows); err != nil {
		return err
	}

	friends, err := readTable[friendRecord](s.store, "friend_requests")
	if err != nil {
		return err
	}
	friends = deleteWhere(friends, func(r friendRecord) bool {
		return r.RequesterID == id || r.TargetID == id
	})
	if err := writeTable(s.store, "friend_requests", friends); err != nil {
		return err
	}

	notifications, err := readTable[notificationRecord](s.store, "notifications")
	if err != nil {
		return err
	}
	notifications = deleteWhere(notifications, func(r notificationRecord) bool {
		return r.UserID == id || r.AuthorID == id
	})
	if err := writeTable(s.store, "notifications", notifications); err != nil {
		return err
	}

	cache.InvalidateUser(ctx, id)
	cache.InvalidateTrendingTags(ctx)
	return nil
}

func (s *userStore) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
	records = paginate(records, limit, offset)

	users := make([]models.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.toModel())
	}
	return users, nil
}

func (s *userStore) Search(ctx context.Context, query string, excludeID uint, limit int) ([]models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]userRecord, 0)
	for _, r := range records {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(r.Username), needle) ||
			strings.Contains(strings.ToLower(r.DisplayName), needle) {
			matches = append(matches, r)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Username < matches[j].Username })
	matches = paginate(matches, limit, 0)

	users := make([]models.User, 0, len(matches))
	for _, r := range matches {
		users = append(users, r.toModel())
	}
	return users, nil
}

func (s *userStore) UpdateRole(ctx context.Context, id uint, role models.UserRole) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == id {
			records[i].Role = role
			records[i].UpdatedAt = time.Now()
			if err := writeTable(s.store, "users", records); err != nil {
				return err
			}
			cache.InvalidateUser(ctx, id)
			return nil
		}
	}
	return models.NewNotFoundError("User", id)
}

func (s *userStore) Count(ctx context.Context) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

// deleteWhere removes every row the predicate matches.
func deleteWhere[T any](rows []T, match func(T) bool) []T {
	kept := rows[:0]
	for _, row := range rows {
		if !match(row) {
			kept = append(kept, row)
		}
	}
	return kept
}
