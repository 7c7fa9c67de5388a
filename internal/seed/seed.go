package seed

import (
	"context"
	"fmt"
	"log"

	"ovra/internal/models"
	"ovra/internal/repository"
)

// Options configures the seeder.
type Options struct {
	NumUsers int
	NumPosts int

	// SkipBcrypt stores the demo password in plain text. Seeded accounts
	// then cannot log in, but large seeds run much faster.
	SkipBcrypt bool

	// RandSeed fixes the random source for reproducible runs. Zero picks
	// a time-based seed.
	RandSeed int64
}

// Seed populates the store with demo users, a follow/friend mesh, posts
// with quotes and tags, and engagement. It expects an empty store.
func Seed(ctx context.Context, repos *repository.Repositories, opts Options) error {
	if opts.NumUsers < 2 {
		opts.NumUsers = 2
	}
	if opts.NumPosts < 1 {
		opts.NumPosts = 1
	}

	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	f := NewFactory(repos, opts)

	users, err := f.seedUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	if err := f.seedSocialMesh(ctx, users); err != nil {
		return fmt.Errorf("seed social mesh: %w", err)
	}

	posts, err := f.seedPosts(ctx, users)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	if err := f.seedEngagement(ctx, users, posts); err != nil {
		return fmt.Errorf("seed engagement: %w", err)
	}

	log.Println("Seeding completed")
	return nil
}

// seedUsers creates the demo accounts. The first account is a well-known
// admin so the admin surface is reachable out of the box.
func (f *Factory) seedUsers(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, f.opts.NumUsers)

	admin, err := f.CreateUser(ctx, func(u *models.User) {
		u.Username = "ovra-admin"
		u.DisplayName = "Ovra Admin"
		u.Role = models.UserRoleAdmin
	})
	if err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := len(users); i < f.opts.NumUsers; i++ {
		user, err := f.CreateUser(ctx)
		if err != nil {
			// Username collisions are rare; skip and continue.
			log.Printf("skipping user: %v", err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// seedSocialMesh wires follows and friendships between the users. Every
// user follows a handful of others; a smaller set become friends or have
// a pending request.
func (f *Factory) seedSocialMesh(ctx context.Context, users []*models.User) error {
	n := len(users)
	for i, user := range users {
		follows := f.r.Intn(n/3 + 1)
		for j := 0; j < follows; j++ {
			other := users[f.r.Intn(n)]
			if other.ID == user.ID {
				continue
			}
			if err := f.Follow(ctx, user, other); err != nil {
				return err
			}
		}

		// Friend requests only toward later users, so each unordered
		// pair is attempted at most once.
		if i+1 < n && f.r.Float32() < 0.5 {
			target := users[i+1+f.r.Intn(n-i-1)]
			status := models.FriendRequestStatusPending
			if f.r.Float32() < 0.6 {
				status = models.FriendRequestStatusAccepted
			}
			if err := f.CreateFriendRequest(ctx, user, target, status); err != nil {
				log.Printf("skipping friend request: %v", err)
			}
		}
	}
	return nil
}

func (f *Factory) seedPosts(ctx context.Context, users []*models.User) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, f.opts.NumPosts)
	for i := 0; i < f.opts.NumPosts; i++ {
		author := users[f.r.Intn(len(users))]

		// Some posts quote an earlier one.
		if len(posts) > 0 && f.r.Float32() < 0.15 {
			quoted := posts[f.r.Intn(len(posts))]
			quote, err := f.CreateQuote(ctx, author, quoted)
			if err != nil {
				return nil, err
			}
			posts = append(posts, quote)
			continue
		}

		post, err := f.CreatePost(ctx, author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (f *Factory) seedEngagement(ctx context.Context, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		likes := f.r.Intn(len(users)/2 + 1)
		for j := 0; j < likes; j++ {
			user := users[f.r.Intn(len(users))]
			if err := f.Like(ctx, user, post); err != nil {
				return err
			}
		}

		if f.r.Float32() < 0.4 {
			commenter := users[f.r.Intn(len(users))]
			if _, err := f.CreateComment(ctx, commenter, post); err != nil {
				return err
			}
		}
		if f.r.Float32() < 0.2 {
			user := users[f.r.Intn(len(users))]
			if err := f.Bookmark(ctx, user, post); err != nil {
				return err
			}
		}
	}
	return nil
}
