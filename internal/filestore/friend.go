package filestore

import (
	"context"
	"sort"
	"time"

	"ovra/internal/models"
	"ovra/internal/repository"
)

type friendRecord struct {
	ID          uint                       `json:"id"`
	RequesterID uint                       `json:"requesterId"`
	TargetID    uint                       `json:"targetId"`
	Status      models.FriendRequestStatus `json:"status"`
	CreatedAt   time.Time                  `json:"createdAt"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}

func (r friendRecord) toModel() models.FriendRequest {
	return models.FriendRequest{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		TargetID:    r.TargetID,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type friendStore struct {
	store *Store
}

// NewFriendStore creates a file-backed friend request repository.
func NewFriendStore(store *Store) repository.FriendRepository {
	return &friendStore{store: store}
}

func (s *friendStore) Create(ctx context.Context, request *models.FriendRequest) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[friendRecord](s.store, "friend_requests")
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.RequesterID == request.RequesterID && r.TargetID == request.TargetID {
			return models.NewConflictError("A friend request already exists between these users")
		}
	}

	now := time.Now()
	request.ID = nextID(records, func(r friendRecord) uint { return r.ID })
	request.CreatedAt = now
	request.UpdatedAt = now
	records = append(records, friendRecord{
		ID:          request.ID,
		RequesterID: request.RequesterID,
		TargetID:    request.TargetID,
		Status:      request.Status,
		CreatedAt:   request.CreatedAt,
		UpdatedAt:   request.UpdatedAt,
	})
	return writeTable(s.store, "friend_requests", records)
}

func (s *friendStore) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[friendRecord](s.store, "friend_requests")
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID == id {
			request := r.toModel()
			if err := s.attachUsers(&request); err != nil {
				return nil, err
			}
			return &request, nil
		}
	}
	return nil, models.NewNotFoundError("Friend request", id)
}

func (s *friendStore) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[friendRecord](s.store, "friend_requests")
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if (r.RequesterID == userID1 && r.TargetID == userID2) ||
			(r.RequesterID == userID2 && r.TargetID == userID1) {
			request := r.toModel()
			return &request, nil
		}
	}
	return nil, nil
}

func (s *friendStore) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[friendRecord](s.store, "friend_requests")
	if err != nil {
		return nil, err
	}
	friendIDs := make([]uint, 0)
	for _, r := range records {
		if r.Status != models.FriendRequestStatusAccepted {
			continue
		}
		switch userID {
		case r.RequesterID:
			friendIDs = append(friendIDs, r.TargetID)
		case r.TargetID:
			friendIDs = append(friendIDs, r.RequesterID)
		}
	}

	users, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u.toModel()
	}

	friends := make([]models.User, 0, len(friendIDs))
	for _, id := range friendIDs {
		if u, ok := byID[id]; ok {
			friends = append(friends, u)
		}
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].Username < friends[j].Username })
	return friends, nil
}

func (s *friendStore) GetPendingReceived(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.pending(func(r friendRecord) bool { return r.TargetID == userID })
}

func (s *friendStore) GetPendingSent(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.pending(func(r friendRecord) bool { return r.RequesterID == userID })
}

func (s *friendStore) pending(match func(friendRecord) bool) ([]models.FriendRequest, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[friendRecord](s.store, "friend_requests")
	if err != nil {
		return nil, err
	}
	matched := make([]friendRecord, 0)
	for _, r := range records {
		if r.Status == models.FriendRequestStatusPending && match(r) {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	requests := make([]models.FriendRequest, 0, len(matched))
	for _, r := range matched {
		request := r.toModel()
		if err := s.attachUsers(&request); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// attachUsers fills the Requester and Target users. The caller must hold
// the store lock.
func (s *friendStore) attachUsers(request *models.FriendRequest) error {
	users, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return err
	}
	for _, u := range users {
		switch u.ID {
		case request.RequesterID:
			request.Requester = u.toModel()
		case request.TargetID:
			request.Target = u.toModel()
		}
	}
	return nil
}

func (s *friendStore) UpdateStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[friendRecord](s.store, "friend_requests")
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == requestID {
			records[i].Status = status
			records[i].UpdatedAt = time.Now()
			return writeTable(s.store, "friend_requests", records)
		}
	}
	return models.NewNotFoundError("Friend request", requestID)
}

func (s *friendStore) RemoveFriendship(ctx context.Context, userID1, userID2 uint) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[friendRecord](s.store, "friend_requests")
	if err != nil {
		return err
	}
	records = deleteWhere(records, func(r friendRecord) bool {
		return (r.RequesterID == userID1 && r.TargetID == userID2) ||
			(r.RequesterID == userID2 && r.TargetID == userID1)
	})
	return writeTable(s.store, "friend_requests", records)
}

func (s *friendStore) CountFriends(ctx context.Context, userID uint) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[friendRecord](s.store, "friend_requests")
	if err != nil {
		return 0, err
	}
	var count int64
	for _, r := range records {
		if r.Status == models.FriendRequestStatusAccepted &&
			(r.RequesterID == userID || r.TargetID == userID) {
			count++
		}
	}
	return count, nil
}
