package seed

import (
	"fmt"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds fake entities. It never touches the database, so the
// Seeder decides how they are persisted.
type Factory struct {
	faker   *gofakeit.Faker
	maxDays int
	now     func() time.Time
}

// NewFactory returns a Factory. A zero seed picks a random one.
func NewFactory(seed int64, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = defaultMaxDays
	}
	return &Factory{
		faker:   gofakeit.New(seed),
		maxDays: maxDays,
		now:     time.Now,
	}
}

// BuildUser returns an unsaved user. n keeps usernames unique within a run.
func (f *Factory) BuildUser(n int, passwordHash string) models.User {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	username := strings.ToLower(fmt.Sprintf("%s%d", f.faker.Username(), n))
	return models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: first,
		LastName:  last,
		Password:  passwordHash,
	}
}

// BuildPost returns an unsaved post by author with a pub date spread over
// the last maxDays. group may be nil.
func (f *Factory) BuildPost(author models.User, group *models.Group) models.Post {
	post := models.Post{
		Text:     f.faker.Paragraph(1, f.faker.Number(1, 4), f.faker.Number(6, 14), "\n"),
		AuthorID: author.ID,
		PubDate:  f.pastTime(),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	return post
}

// BuildComment returns an unsaved comment by author on post.
func (f *Factory) BuildComment(author models.User, post models.Post) models.Comment {
	created := f.pastTime()
	if created.Before(post.PubDate) {
		created = post.PubDate.Add(time.Duration(f.faker.Number(1, 600)) * time.Minute)
	}
	return models.Comment{
		Text:     f.faker.Sentence(f.faker.Number(3, 16)),
		PostID:   post.ID,
		AuthorID: author.ID,
		Created:  created,
	}
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays-1))*24*time.Hour +
		time.Duration(f.faker.Number(0, 23))*time.Hour +
		time.Duration(f.faker.Number(0, 59))*time.Minute
	return f.now().Add(-back).UTC()
}

// pick returns an index in [0, n).
func (f *Factory) pick(n int) int {
	return f.faker.Number(0, n-1)
}

// chance reports true with probability p.
func (f *Factory) chance(p float32) bool {
	return f.faker.Float32() < p
}
