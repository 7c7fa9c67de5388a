package filestore

import (
	"context"
	"sort"
	"time"

	"ovra/internal/cache"
	"ovra/internal/models"
	"ovra/internal/repository"
)

type likeRecord struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	PostID    uint      `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

type bookmarkRecord struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	PostID    uint      `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

type engagementStore struct {
	store *Store
}

// NewEngagementStore creates a file-backed engagement repository.
func NewEngagementStore(store *Store) repository.EngagementRepository {
	return &engagementStore{store: store}
}

func (s *engagementStore) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[likeRecord](s.store, "likes")
	if err != nil {
		return false, err
	}

	for i, r := range records {
		if r.UserID == userID && r.PostID == postID {
			records = append(records[:i], records[i+1:]...)
			if err := writeTable(s.store, "likes", records); err != nil {
				return false, err
			}
			cache.InvalidatePost(ctx, postID)
			return false, nil
		}
	}

	records = append(records, likeRecord{
		ID:        nextID(records, func(r likeRecord) uint { return r.ID }),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	})
	if err := writeTable(s.store, "likes", records); err != nil {
		return false, err
	}
	cache.InvalidatePost(ctx, postID)
	return true, nil
}

func (s *engagementStore) ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[bookmarkRecord](s.store, "bookmarks")
	if err != nil {
		return false, err
	}

	for i, r := range records {
		if r.UserID == userID && r.PostID == postID {
			records = append(records[:i], records[i+1:]...)
			if err := writeTable(s.store, "bookmarks", records); err != nil {
				return false, err
			}
			return false, nil
		}
	}

	records = append(records, bookmarkRecord{
		ID:        nextID(records, func(r bookmarkRecord) uint { return r.ID }),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	})
	if err := writeTable(s.store, "bookmarks", records); err != nil {
		return false, err
	}
	return true, nil
}

func (s *engagementStore) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[likeRecord](s.store, "likes")
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.UserID == userID && r.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (s *engagementStore) IsBookmarked(ctx context.Context, userID, postID uint) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[bookmarkRecord](s.store, "bookmarks")
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.UserID == userID && r.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (s *engagementStore) GetLikedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[likeRecord](s.store, "likes")
	if err != nil {
		return nil, err
	}
	engaged := make([]engagedAt, 0)
	for _, r := range records {
		if r.UserID == userID {
			engaged = append(engaged, engagedAt{postID: r.PostID, at: r.CreatedAt, id: r.ID})
		}
	}
	return s.engagedPosts(engaged, userID, limit, offset)
}

func (s *engagementStore) GetBookmarkedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[bookmarkRecord](s.store, "bookmarks")
	if err != nil {
		return nil, err
	}
	engaged := make([]engagedAt, 0)
	for _, r := range records {
		if r.UserID == userID {
			engaged = append(engaged, engagedAt{postID: r.PostID, at: r.CreatedAt, id: r.ID})
		}
	}
	return s.engagedPosts(engaged, userID, limit, offset)
}

func (s *engagementStore) CountLikes(ctx context.Context, postID uint) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[likeRecord](s.store, "likes")
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

// engagedAt pairs a post with when the user engaged with it, so liked and
// bookmarked listings sort by engagement time rather than post age.
type engagedAt struct {
	postID uint
	at     time.Time
	id     uint
}

// engagedPosts decorates the engaged posts newest engagement first. The
// caller must hold the store lock.
func (s *engagementStore) engagedPosts(engaged []engagedAt, viewerID uint, limit, offset int) ([]models.Post, error) {
	sort.Slice(engaged, func(i, j int) bool {
		if !engaged[i].at.Equal(engaged[j].at) {
			return engaged[i].at.After(engaged[j].at)
		}
		return engaged[i].id > engaged[j].id
	})
	engaged = paginate(engaged, limit, offset)

	posts := &postStore{store: s.store}
	pc, err := posts.loadContext(viewerID)
	if err != nil {
		return nil, err
	}

	result := make([]models.Post, 0, len(engaged))
	for _, e := range engaged {
		if record, ok := pc.records[e.postID]; ok {
			result = append(result, pc.build(record, true))
		}
	}
	return result, nil
}
