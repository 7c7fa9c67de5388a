package filestore

import (
	"context"
	"sort"
	"time"

	"ovra/internal/cache"
	"ovra/internal/models"
	"ovra/internal/repository"
)

type followRecord struct {
	ID          uint      `json:"id"`
	FollowerID  uint      `json:"followerId"`
	FollowingID uint      `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type followStore struct {
	store *Store
}

// NewFollowStore creates a file-backed follow repository.
func NewFollowStore(store *Store) repository.FollowRepository {
	return &followStore{store: store}
}

func (s *followStore) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[followRecord](s.store, "follows")
	if err != nil {
		return false, err
	}

	for i, r := range records {
		if r.FollowerID == followerID && r.FollowingID == followingID {
			records = append(records[:i], records[i+1:]...)
			if err := writeTable(s.store, "follows", records); err != nil {
				return false, err
			}
			cache.InvalidateUser(ctx, followerID)
			cache.InvalidateUser(ctx, followingID)
			return false, nil
		}
	}

	records = append(records, followRecord{
		ID:          nextID(records, func(r followRecord) uint { return r.ID }),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	})
	if err := writeTable(s.store, "follows", records); err != nil {
		return false, err
	}
	cache.InvalidateUser(ctx, followerID)
	cache.InvalidateUser(ctx, followingID)
	return true, nil
}

func (s *followStore) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[followRecord](s.store, "follows")
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.FollowerID == followerID && r.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (s *followStore) GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.edgeUsers(userID, limit, offset,
		func(r followRecord) (bool, uint) { return r.FollowingID == userID, r.FollowerID })
}

func (s *followStore) GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.edgeUsers(userID, limit, offset,
		func(r followRecord) (bool, uint) { return r.FollowerID == userID, r.FollowingID })
}

// edgeUsers resolves the users on the far side of matching follow edges,
// newest edge first. The caller must hold the store lock.
func (s *followStore) edgeUsers(userID uint, limit, offset int, pick func(followRecord) (bool, uint)) ([]models.User, error) {
	records, err := readTable[followRecord](s.store, "follows")
	if err != nil {
		return nil, err
	}

	matched := make([]followRecord, 0)
	ids := make([]uint, 0)
	for _, r := range records {
		if ok, _ := pick(r); ok {
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
	for _, r := range matched {
		_, id := pick(r)
		ids = append(ids, id)
	}

	users, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u.toModel()
	}

	result := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func (s *followStore) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[followRecord](s.store, "follows")
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0)
	for _, r := range records {
		if r.FollowerID == userID {
			ids = append(ids, r.FollowingID)
		}
	}
	return ids, nil
}

func (s *followStore) GetFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[followRecord](s.store, "follows")
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0)
	for _, r := range records {
		if r.FollowingID == userID {
			ids = append(ids, r.FollowerID)
		}
	}
	return ids, nil
}

func (s *followStore) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	ids, err := s.GetFollowerIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (s *followStore) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	ids, err := s.GetFollowingIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}
