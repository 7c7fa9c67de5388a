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

// postRecord is the persisted form of a post. Engagement counters and
// viewer flags are computed at read time and never stored.
type postRecord struct {
	ID                  uint       `json:"id"`
	AuthorID            uint       `json:"authorId"`
	Content             string     `json:"content"`
	ImageURL            string     `json:"imageUrl,omitempty"`
	ImageURLs           []string   `json:"imageUrls,omitempty"`
	Tags                []string   `json:"tags,omitempty"`
	QuotedPostID        *uint      `json:"quotedPostId,omitempty"`
	SentimentScore      *int       `json:"sentimentScore,omitempty"`
	SentimentConfidence *int       `json:"sentimentConfidence,omitempty"`
	SentimentAnalyzedAt *time.Time `json:"sentimentAnalyzedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (r postRecord) toModel() models.Post {
	return models.Post{
		ID:                  r.ID,
		AuthorID:            r.AuthorID,
		Content:             r.Content,
		ImageURL:            r.ImageURL,
		ImageURLs:           models.StringArray(r.ImageURLs),
		Tags:                models.StringArray(r.Tags),
		QuotedPostID:        r.QuotedPostID,
		SentimentScore:      r.SentimentScore,
		SentimentConfidence: r.SentimentConfidence,
		SentimentAnalyzedAt: r.SentimentAnalyzedAt,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

type postStore struct {
	store *Store
}

// NewPostStore creates a file-backed post repository.
func NewPostStore(store *Store) repository.PostRepository {
	return &postStore{store: store}
}

// postContext carries the lookup tables needed to decorate posts with
// authors, counters, viewer flags and quoted posts.
type postContext struct {
	users        map[uint]models.User
	records      map[uint]postRecord
	likeCount    map[uint]int
	commentCount map[uint]int
	liked        map[uint]bool
	bookmarked   map[uint]bool
}

// loadContext reads every table a decorated post needs. The caller must
// hold the store lock.
func (s *postStore) loadContext(viewerID uint) (*postContext, error) {
	pc := &postContext{
		users:        make(map[uint]models.User),
		records:      make(map[uint]postRecord),
		likeCount:    make(map[uint]int),
		commentCount: make(map[uint]int),
		liked:        make(map[uint]bool),
		bookmarked:   make(map[uint]bool),
	}

	users, err := readTable[userRecord](s.store, "users")
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		pc.users[u.ID] = u.toModel()
	}

	records, err := readTable[postRecord](s.store, "posts")
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		pc.records[r.ID] = r
	}

	likes, err := readTable[likeRecord](s.store, "likes")
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		pc.likeCount[l.PostID]++
		if viewerID != 0 && l.UserID == viewerID {
			pc.liked[l.PostID] = true
		}
	}

	bookmarks, err := readTable[bookmarkRecord](s.store, "bookmarks")
	if err != nil {
		return nil, err
	}
	for _, b := range bookmarks {
		if viewerID != 0 && b.UserID == viewerID {
			pc.bookmarked[b.PostID] = true
		}
	}

	comments, err := readTable[commentRecord](s.store, "comments")
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		pc.commentCount[c.PostID]++
	}

	return pc, nil
}

// build decorates a record, resolving the quoted post one level deep.
func (pc *postContext) build(r postRecord, resolveQuote bool) models.Post {
	post := r.toModel()
	post.Author = pc.users[r.AuthorID]
	post.LikesCount = pc.likeCount[r.ID]
	post.CommentsCount = pc.commentCount[r.ID]
	post.IsLiked = pc.liked[r.ID]
	post.IsBookmarked = pc.bookmarked[r.ID]

	if resolveQuote && r.QuotedPostID != nil {
		if quoted, ok := pc.records[*r.QuotedPostID]; ok {
			q := pc.build(quoted, false)
			post.QuotedPost = &q
		}
	}
	return post
}

func (pc *postContext) buildAll(records []postRecord) []models.Post {
	posts := make([]models.Post, 0, len(records))
	for _, r := range records {
		posts = append(posts, pc.build(r, true))
	}
	return posts
}

func sortNewestFirst(records []postRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
}

// listPosts filters, sorts newest first, paginates and decorates. The
// caller must hold the store lock.
func (s *postStore) listPosts(viewerID uint, limit, offset int, match func(postRecord) bool) ([]models.Post, error) {
	pc, err := s.loadContext(viewerID)
	if err != nil {
		return nil, err
	}

	records := make([]postRecord, 0, len(pc.records))
	for _, r := range pc.records {
		if match == nil || match(r) {
			records = append(records, r)
		}
	}
	sortNewestFirst(records)
	records = paginate(records, limit, offset)
	return pc.buildAll(records), nil
}

func (s *postStore) Create(ctx context.Context, post *models.Post) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[postRecord](s.store, "posts")
	if err != nil {
		return err
	}

	now := time.Now()
	post.ID = nextID(records, func(r postRecord) uint { return r.ID })
	post.CreatedAt = now
	post.UpdatedAt = now
	records = append(records, postRecord{
		ID:           post.ID,
		AuthorID:     post.AuthorID,
		Content:      post.Content,
		ImageURL:     post.ImageURL,
		ImageURLs:    post.ImageURLs,
		Tags:         post.Tags,
		QuotedPostID: post.QuotedPostID,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	})
	if err := writeTable(s.store, "posts", records); err != nil {
		return err
	}
	cache.InvalidateTrendingTags(ctx)
	cache.InvalidateUser(ctx, post.AuthorID)
	return nil
}

func (s *postStore) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	pc, err := s.loadContext(viewerID)
	if err != nil {
		return nil, err
	}
	record, ok := pc.records[id]
	if !ok {
		return nil, nil
	}
	post := pc.build(record, true)
	return &post, nil
}

func (s *postStore) List(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.listPosts(viewerID, limit, offset, nil)
}

func (s *postStore) GetByTag(ctx context.Context, tag string, viewerID uint, limit, offset int) ([]models.Post, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.listPosts(viewerID, limit, offset, func(r postRecord) bool {
		for _, t := range r.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

func (s *postStore) GetByAuthor(ctx context.Context, authorID uint, viewerID uint, filter repository.QuoteFilter, limit, offset int) ([]models.Post, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.listPosts(viewerID, limit, offset, func(r postRecord) bool {
		if r.AuthorID != authorID {
			return false
		}
		switch filter {
		case repository.QuoteFilterQuotes:
			return r.QuotedPostID != nil
		case repository.QuoteFilterOriginal:
			return r.QuotedPostID == nil
		}
		return true
	})
}

func (s *postStore) GetByAuthors(ctx context.Context, authorIDs []uint, viewerID uint, limit, offset int) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	authors := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.listPosts(viewerID, limit, offset, func(r postRecord) bool {
		return authors[r.AuthorID]
	})
}

func (s *postStore) Search(ctx context.Context, query string, viewerID uint, limit, offset int) ([]models.Post, error) {
	needle := strings.ToLower(query)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.listPosts(viewerID, limit, offset, func(r postRecord) bool {
		if strings.Contains(strings.ToLower(r.Content), needle) {
			return true
		}
		for _, t := range r.Tags {
			if strings.Contains(strings.ToLower(t), needle) {
				return true
			}
		}
		return false
	})
}

func (s *postStore) Update(ctx context.Context, post *models.Post) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[postRecord](s.store, "posts")
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID != post.ID {
			continue
		}
		records[i].Content = post.Content
		records[i].ImageURL = post.ImageURL
		records[i].ImageURLs = post.ImageURLs
		records[i].Tags = post.Tags
		records[i].UpdatedAt = time.Now()
		if err := writeTable(s.store, "posts", records); err != nil {
			return err
		}
		cache.InvalidatePost(ctx, post.ID)
		cache.InvalidateTrendingTags(ctx)
		return nil
	}
	return models.NewNotFoundError("Post", post.ID)
}

// Delete removes the post, detaches quote reposts that reference it and
// keeps notifications alive with the post reference cleared.
func (s *postStore) Delete(ctx context.Context, id uint) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[postRecord](s.store, "posts")
	if err != nil {
		return err
	}
	var authorID uint
	for _, r := range records {
		if r.ID == id {
			authorID = r.AuthorID
		}
	}
	for i := range records {
		if records[i].QuotedPostID != nil && *records[i].QuotedPostID == id {
			records[i].QuotedPostID = nil
		}
	}
	records = deleteWhere(records, func(r postRecord) bool { return r.ID == id })
	if err := writeTable(s.store, "posts", records); err != nil {
		return err
	}

	likes, err := readTable[likeRecord](s.store, "likes")
	if err != nil {
		return err
	}
	likes = deleteWhere(likes, func(r likeRecord) bool { return r.PostID == id })
	if err := writeTable(s.store, "likes", likes); err != nil {
		return err
	}

	bookmarks, err := readTable[bookmarkRecord](s.store, "bookmarks")
	if err != nil {
		return err
	}
	bookmarks = deleteWhere(bookmarks, func(r bookmarkRecord) bool { return r.PostID == id })
	if err := writeTable(s.store, "bookmarks", bookmarks); err != nil {
		return err
	}

	comments, err := readTable[commentRecord](s.store, "comments")
	if err != nil {
		return err
	}
	comments = deleteWhere(comments, func(r commentRecord) bool { return r.PostID == id })
	if err := writeTable(s.store, "comments", comments); err != nil {
		return err
	}

	notifications, err := readTable[notificationRecord](s.store, "notifications")
	if err != nil {
		return err
	}
	for i := range notifications {
		if notifications[i].PostID != nil && *notifications[i].PostID == id {
			notifications[i].PostID = nil
		}
	}
	if err := writeTable(s.store, "notifications", notifications); err != nil {
		return err
	}

	cache.InvalidatePost(ctx, id)
	cache.InvalidateTrendingTags(ctx)
	if authorID != 0 {
		cache.InvalidateUser(ctx, authorID)
	}
	return nil
}

func (s *postStore) UpdateSentiment(ctx context.Context, id uint, score, confidence int) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[postRecord](s.store, "posts")
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID != id {
			continue
		}
		now := time.Now()
		records[i].SentimentScore = &score
		records[i].SentimentConfidence = &confidence
		records[i].SentimentAnalyzedAt = &now
		if err := writeTable(s.store, "posts", records); err != nil {
			return err
		}
		cache.InvalidatePost(ctx, id)
		return nil
	}
	return models.NewNotFoundError("Post", id)
}

func (s *postStore) TrendingTags(ctx context.Context, limit int) ([]models.TrendingTag, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[postRecord](s.store, "posts")
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, r := range records {
		for _, t := range r.Tags {
			counts[t]++
		}
	}

	tags := make([]models.TrendingTag, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, models.TrendingTag{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	return paginate(tags, limit, 0), nil
}

func (s *postStore) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records, err := readTable[postRecord](s.store, "posts")
	if err != nil {
		return 0, err
	}
	var count int64
	for _, r := range records {
		if r.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}
