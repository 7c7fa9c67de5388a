package filestore

import (
	"context"
	"sort"
	"time"

	"ovra/internal/cache"
	"ovra/internal/models"
	"ovra/internal/repository"
)

type commentRecord struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"postId"`
	AuthorID  uint      `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r commentRecord) toModel() models.Comment {
	return models.Comment{
		ID:        r.ID,
		PostID:    r.PostID,
		AuthorID:  r.AuthorID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

type commentStore struct {
	store *Store
}

// NewCommentStore creates a file-backed comment repository.
func NewCommentStore(store *Store) repository.CommentRepository {
	return &commentStore{store: store}
}

func (s *commentStore) Create(ctx context.Context, comment *models.Comment) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[commentRecord](s.store, "comments")
	if err != nil {
		return err
	}
	comment.ID = nextID(records, func(r commentRecord) uint { return r.ID })
	comment.CreatedAt = time.Now()
	records = append(records, commentRecord{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	})
	if err := writeTable(s.store, "comments", records); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (s *commentStore) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[commentRecord](s.store, "comments")
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID == id {
			comment := r.toModel()
			if err := s.attachAuthor(&comment); err != nil {
				return nil, err
			}
			return &comment, nil
		}
	}
	return nil, nil
}

func (s *commentStore) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[commentRecord](s.store, "comments")
	if err != nil {
		return nil, err
	}
	matched := make([]commentRecord, 0)
	for _, r := range records {
		if r.PostID == postID {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	users, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u.toModel()
	}

	comments := make([]models.Comment, 0, len(matched))
	for _, r := range matched {
		comment := r.toModel()
		comment.Author = byID[r.AuthorID]
		comments = append(comments, comment)
	}
	return comments, nil
}

func (s *commentStore) Delete(ctx context.Context, id uint) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[commentRecord](s.store, "comments")
	if err != nil {
		return err
	}
	for i, r := range records {
		if r.ID == id {
			postID := r.PostID
			records = append(records[:i], records[i+1:]...)
			if err := writeTable(s.store, "comments", records); err != nil {
				return err
			}
			cache.InvalidatePost(ctx, postID)
			return nil
		}
	}
	return models.NewNotFoundError("Comment", id)
}

func (s *commentStore) CountByPost(ctx context.Context, postID uint) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[commentRecord](s.store, "comments")
	if err != nil {
		return 0, err
	}
	var count int64
	for _, r := range records {
		if r.PostID == postID {
			count++
		}
	}
	return count, nil
}

// attachAuthor fills the comment author. The caller must hold the store
// lock.
func (s *commentStore) attachAuthor(comment *models.Comment) error {
	users, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == comment.AuthorID {
			comment.Author = u.toModel()
			return nil
		}
	}
	return nil
}
