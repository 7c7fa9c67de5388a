// Command seed populates the configured storage backend with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"ovra/internal/config"
	"ovra/internal/database"
	"ovra/internal/filestore"
	"ovra/internal/repository"
	"ovra/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean the database before seeding (Postgres only)")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plain-text passwords for faster large seeds")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var repos *repository.Repositories
	if cfg.StorageBackend == "file" {
		repos, err = filestore.New(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open file store: %v", err)
		}
		log.Printf("Seeding file store at %s (use a fresh DATA_DIR for a clean seed)", cfg.DataDir)
	} else {
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if *shouldClean {
			sql := `TRUNCATE TABLE notifications, messages, friend_requests, follows,
				comments, bookmarks, likes, posts, users RESTART IDENTITY CASCADE;`
			if err := db.Exec(sql).Error; err != nil {
				log.Fatalf("Cleanup failed: %v", err)
			}
			log.Println("Existing data cleared")
		}
		repos = repository.New(db)
	}

	err = seed.Seed(context.Background(), repos, seed.Options{
		NumUsers:   *numUsers,
		NumPosts:   *numPosts,
		SkipBcrypt: *skipBcrypt,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All test users have the password: password123")
}
