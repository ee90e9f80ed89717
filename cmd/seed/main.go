// Command seed fills the configured database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"
)

func main() {
	users := flag.Int("users", 30, "Number of users to create")
	posts := flag.Int("posts", 200, "Number of posts to create")
	comments := flag.Int("comments", 400, "Number of comments to create")
	follows := flag.Int("follows", 120, "Number of follow edges to create")
	clean := flag.Bool("clean", false, "Remove all existing data before seeding")
	randSeed := flag.Int64("rand-seed", 0, "Seed for reproducible data (0 for random)")
	groupsFile := flag.String("groups", "", "YAML groups fixture (defaults to the built-in one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	var fixtures []seed.GroupFixture
	if *groupsFile != "" {
		data, err := os.ReadFile(*groupsFile)
		if err != nil {
			log.Fatalf("Failed to read groups fixture: %v", err)
		}
		if fixtures, err = seed.ParseGroups(data); err != nil {
			log.Fatalf("Invalid groups fixture: %v", err)
		}
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	res, err := seed.NewSeeder(db, seed.Options{
		Users:    *users,
		Posts:    *posts,
		Comments: *comments,
		Follows:  *follows,
		Clean:    *clean,
		RandSeed: *randSeed,
		Groups:   fixtures,
	}).Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d groups, %d users, %d posts, %d comments, %d follows",
		res.Groups, res.Users, res.Posts, res.Comments, res.Follows)
	log.Printf("All seeded users have the password: %s", seed.DemoPassword)
}
