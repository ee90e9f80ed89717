// Package seed fills a database with demo groups, users, posts, comments
// and follows. It is meant for development and tests only.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DemoPassword is the password of every seeded user.
	DemoPassword = "yatube-demo-2024"

	defaultMaxDays = 90
	batchSize      = 100
	// groupedShare is the fraction of posts placed in a group.
	groupedShare = 0.6
)

// Options sizes a seeding run.
type Options struct {
	Users    int
	Posts    int
	Comments int
	Follows  int
	// Clean empties every table first.
	Clean bool
	// RandSeed makes runs reproducible; zero picks a random seed.
	RandSeed int64
	MaxDays  int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// Groups defaults to the embedded fixture.
	Groups []GroupFixture
}

// Result counts what a run created.
type Result struct {
	Groups   int
	Users    int
	Posts    int
	Comments int
	Follows  int
}

// Seeder writes fake data through GORM.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder returns a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{
		db:      db,
		opts:    opts,
		factory: NewFactory(opts.RandSeed, opts.MaxDays),
	}
}

// Run seeds groups, then users, posts, comments and follows.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	db := s.db.WithContext(ctx)
	res := &Result{}

	if s.opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	fixtures := s.opts.Groups
	if fixtures == nil {
		var err error
		if fixtures, err = DefaultGroups(); err != nil {
			return nil, err
		}
	}
	groups, err := Groups(db, fixtures)
	if err != nil {
		return nil, err
	}
	res.Groups = len(groups)

	users, err := s.createUsers(db, s.opts.Users)
	if err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	res.Users = len(users)

	if len(users) == 0 {
		s.logResult(ctx, res)
		return res, nil
	}

	posts, err := s.createPosts(db, users, groups, s.opts.Posts)
	if err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}
	res.Posts = len(posts)

	if res.Comments, err = s.createComments(db, users, posts, s.opts.Comments); err != nil {
		return nil, fmt.Errorf("seed comments: %w", err)
	}
	if res.Follows, err = s.createFollows(db, users, s.opts.Follows); err != nil {
		return nil, fmt.Errorf("seed follows: %w", err)
	}

	s.logResult(ctx, res)
	return res, nil
}

func (s *Seeder) logResult(ctx context.Context, res *Result) {
	middleware.Logger.InfoContext(ctx, "database seeded",
		slog.Int("groups", res.Groups),
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
		slog.Int("follows", res.Follows),
	)
}

// ClearAll removes every row from the application tables.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	middleware.Logger.InfoContext(ctx, "clearing existing data")

	if db.Dialector.Name() == database.DriverPostgres {
		err := db.Exec(`TRUNCATE TABLE comments, follows, posts, groups, users RESTART IDENTITY CASCADE`).Error
		if err != nil {
			return fmt.Errorf("truncate tables: %w", err)
		}
		return nil
	}

	all := database.PersistentModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", all[i], err)
		}
	}
	return nil
}

func (s *Seeder) createUsers(db *gorm.DB, count int) ([]models.User, error) {
	if count <= 0 {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	var offset int64
	if err := db.Model(&models.User{}).Count(&offset).Error; err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, s.factory.BuildUser(int(offset)+i+1, string(hash)))
	}
	if err := db.CreateInBatches(&users, batchSize).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Seeder) createPosts(db *gorm.DB, users []models.User, groups []models.Group, count int) ([]models.Post, error) {
	if count <= 0 {
		return nil, nil
	}
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.factory.pick(len(users))]
		var group *models.Group
		if len(groups) > 0 && s.factory.chance(groupedShare) {
			group = &groups[s.factory.pick(len(groups))]
		}
		posts = append(posts, s.factory.BuildPost(author, group))
	}
	if err := db.CreateInBatches(&posts, batchSize).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Seeder) createComments(db *gorm.DB, users []models.User, posts []models.Post, count int) (int, error) {
	if count <= 0 || len(posts) == 0 {
		return 0, nil
	}
	comments := make([]models.Comment, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.factory.pick(len(users))]
		post := posts[s.factory.pick(len(posts))]
		comments = append(comments, s.factory.BuildComment(author, post))
	}
	if err := db.CreateInBatches(&comments, batchSize).Error; err != nil {
		return 0, err
	}
	return len(comments), nil
}

// createFollows adds up to count distinct edges between seeded users.
// Self-follows and pairs that already exist are skipped.
func (s *Seeder) createFollows(db *gorm.DB, users []models.User, count int) (int, error) {
	if count <= 0 || len(users) < 2 {
		return 0, nil
	}
	if most := len(users) * (len(users) - 1); count > most {
		count = most
	}

	created := 0
	for attempts := 0; created < count && attempts < count*10; attempts++ {
		user := users[s.factory.pick(len(users))]
		author := users[s.factory.pick(len(users))]
		if user.ID == author.ID {
			continue
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Follow{UserID: user.ID, AuthorID: author.ID})
		if res.Error != nil {
			return created, res.Error
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}
