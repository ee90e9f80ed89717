package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"yatube/internal/config"
	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	mr     *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Env:                  "test",
		Port:                 "0",
		JWTSecret:            "test-secret-that-is-long-enough-123",
		SessionCookie:        "yatube_session",
		MediaRoot:            t.TempDir(),
		ImageMaxUploadSizeMB: 5,
		PostsPerPage:         10,
		IndexCacheSeconds:    20,
	}
	db := testutil.NewTestDB(t)

	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	return &testEnv{server: s, app: s.App(), db: db, mr: mr}
}

// cookieFor returns a session cookie header value for user.
func (e *testEnv) cookieFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.server.sessions.Issue(user.ID, user.Username)
	require.NoError(t, err)
	return e.server.sessions.CookieName() + "=" + token
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookie string) (*http.Response, string) {
	t.Helper()
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func (e *testEnv) get(t *testing.T, target, cookie string) (*http.Response, string) {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil), cookie)
}

func (e *testEnv) postForm(t *testing.T, target string, form url.Values, cookie string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return e.do(t, req, cookie)
}

func (e *testEnv) postMultipart(t *testing.T, target string, fields map[string]string, fileField, fileName string, file []byte, cookie string) (*http.Response, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.do(t, req, cookie)
}

func countPosts(body string) int {
	return strings.Count(body, `<article class="post">`)
}
