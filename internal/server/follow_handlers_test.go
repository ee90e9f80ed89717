package server

import (
	"net/http"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestFollowAndUnfollow(t *testing.T) {
	env := newTestEnv(t)
	reader := testutil.CreateUser(t, env.db, "reader")
	author := testutil.CreateUser(t, env.db, "author")
	testutil.CreatePost(t, env.db, author, nil, "subscription post")
	cookie := env.cookieFor(t, reader)

	_, body := env.get(t, "/follow/", cookie)
	before := countPosts(body)
	assert.Zero(t, before)

	_, body = env.get(t, "/profile/author/", cookie)
	assert.Contains(t, body, "Subscribe")

	resp, _ := env.postForm(t, "/profile/author/follow/", nil, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/author/", resp.Header.Get("Location"))
	assert.Equal(t, int64(1), testutil.Count(t, env.db, &models.Follow{}))

	// Repeating the follow, even via GET, does not duplicate the edge.
	resp, _ = env.get(t, "/profile/author/follow/", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, int64(1), testutil.Count(t, env.db, &models.Follow{}))

	_, body = env.get(t, "/follow/", cookie)
	assert.Equal(t, 1, countPosts(body))
	assert.Contains(t, body, "subscription post")

	// Another user's subscription feed is unaffected.
	_, body = env.get(t, "/follow/", env.cookieFor(t, author))
	assert.Zero(t, countPosts(body))

	_, body = env.get(t, "/profile/author/", cookie)
	assert.Contains(t, body, "Unsubscribe")

	resp, _ = env.postForm(t, "/profile/author/unfollow/", nil, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/author/", resp.Header.Get("Location"))

	_, body = env.get(t, "/follow/", cookie)
	assert.Equal(t, before, countPosts(body))
}

func TestFollowSelfIsNoop(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "narcissus")

	resp, _ := env.postForm(t, "/profile/narcissus/follow/", nil, env.cookieFor(t, user))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Zero(t, testutil.Count(t, env.db, &models.Follow{}))
}

func TestFollowUnknownAuthor(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "reader")

	resp, _ := env.postForm(t, "/profile/ghost/follow/", nil, env.cookieFor(t, user))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
