// Package seed creates demo data for development and testing.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"ovra/internal/models"
	"ovra/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

var tagPool = []string{
	"retro", "synthwave", "vaporwave", "pixelart", "chiptune", "crt",
	"arcade", "demoscene", "vhs", "neon", "modding", "homebrew",
	"emulation", "keyboards", "zines",
}

// Factory builds domain entities and persists them through the repository
// layer, so it works against both the Postgres and file backends.
type Factory struct {
	repos *repository.Repositories
	opts  Options
	r     *rand.Rand

	// password hash shared by all seeded accounts
	passwordHash string
}

// NewFactory creates a Factory bound to the given repositories.
func NewFactory(repos *repository.Repositories, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)

	f := &Factory{
		repos: repos,
		opts:  opts,
		r:     rand.New(rand.NewSource(seed)),
	}

	if opts.SkipBcrypt {
		f.passwordHash = "password123"
	} else {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		f.passwordHash = string(hash)
	}
	return f
}

// CreateUser persists a generated user. Overrides run before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
	email := fmt.Sprintf("%s@example.com", username)

	user := &models.User{
		Username:        username,
		Email:           &email,
		Password:        f.passwordHash,
		DisplayName:     gofakeit.Name(),
		Bio:             gofakeit.Sentence(10),
		Location:        gofakeit.City(),
		Website:         gofakeit.URL(),
		ProfileImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		Role:            models.UserRoleUser,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.repos.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a generated post for the author. Roughly a third of
// posts carry an image and most carry one to three tags.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		AuthorID: author.ID,
		Content:  gofakeit.Paragraph(1, 3, 8, "\n"),
		Tags:     f.randomTags(),
	}
	if f.r.Float32() < 0.35 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.repos.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateQuote persists a quote repost of the given post.
func (f *Factory) CreateQuote(ctx context.Context, author *models.User, quoted *models.Post) (*models.Post, error) {
	return f.CreatePost(ctx, author, func(p *models.Post) {
		p.QuotedPostID = &quoted.ID
		p.Content = gofakeit.Sentence(8)
		p.ImageURL = ""
	})
}

// CreateComment persists a generated comment on the post.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Content:  gofakeit.Sentence(8),
	}
	if err := f.repos.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Like sets a like from the user on the post.
func (f *Factory) Like(ctx context.Context, user *models.User, post *models.Post) error {
	_, err := f.repos.Engagements.ToggleLike(ctx, user.ID, post.ID)
	return err
}

// Bookmark sets a bookmark from the user on the post.
func (f *Factory) Bookmark(ctx context.Context, user *models.User, post *models.Post) error {
	_, err := f.repos.Engagements.ToggleBookmark(ctx, user.ID, post.ID)
	return err
}

// Follow makes follower follow following.
func (f *Factory) Follow(ctx context.Context, follower, following *models.User) error {
	_, err := f.repos.Follows.ToggleFollow(ctx, follower.ID, following.ID)
	return err
}

// CreateFriendRequest persists a friend request with the given status.
func (f *Factory) CreateFriendRequest(ctx context.Context, requester, target *models.User, status models.FriendRequestStatus) error {
	request := &models.FriendRequest{
		RequesterID: requester.ID,
		TargetID:    target.ID,
		Status:      status,
	}
	return f.repos.Friends.Create(ctx, request)
}

func (f *Factory) randomTags() models.StringArray {
	count := f.r.Intn(4)
	if count == 0 {
		return nil
	}
	tags := make(models.StringArray, 0, count)
	seen := map[string]bool{}
	for len(tags) < count {
		tag := tagPool[f.r.Intn(len(tagPool))]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
