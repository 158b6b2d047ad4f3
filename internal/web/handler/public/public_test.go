package public

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/config"
	newsctl "github.com/mf010/dynamic-website-sub000/internal/db/controller/news"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/security/ratelimit"
	"github.com/mf010/dynamic-website-sub000/internal/settings"
)

// testViews echoes the template name and any Error/Success message so
// handler output can be asserted without real templates.
type testViews struct{}

func (testViews) Load() error { return nil }

func (testViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	_, _ = io.WriteString(w, name)
	if m, ok := data.(fiber.Map); ok {
		for _, key := range []string{"Error", "Success"} {
			if v, exists := m[key]; exists && v != nil {
				_, _ = io.WriteString(w, "\n"+v.(string))
			}
		}
	}

	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Setting{}, &models.News{}, &models.Page{},
		&models.Service{}, &models.Slider{}, &models.Contact{},
	))

	return db
}

func newHandler(t *testing.T, db *gorm.DB, maxAttempts int) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{Views: testViews{}})

	cache := memory.New()
	t.Cleanup(func() { _ = cache.Close() })

	limiter, err := ratelimit.New(cache, maxAttempts, time.Minute, time.Minute)
	require.NoError(t, err)

	var s Service
	s.Init(app, &config.Config{}, db, settings.New(db, cache, time.Minute), limiter)

	return app
}

func seedArticle(t *testing.T, db *gorm.DB, slug string, published bool) *models.News {
	t.Helper()

	article := &models.News{Title: "Article " + slug, Slug: slug, Body: "body"}
	require.NoError(t, newsctl.Create(db, article))

	if published {
		_, err := newsctl.TogglePublish(db, article.ID)
		require.NoError(t, err)
	}

	return article
}

func get(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)

	return resp
}

func postForm(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestHome(t *testing.T) {
	db := newTestDB(t)
	app := newHandler(t, db, 5)

	resp := get(t, app, "/")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "public/home")
}

func TestNewsDetail_PublishedArticle(t *testing.T) {
	db := newTestDB(t)
	app := newHandler(t, db, 5)
	article := seedArticle(t, db, "hello-world", true)

	resp := get(t, app, "/news/hello-world")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the visit was counted
	got, err := newsctl.GetByID(db, article.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Views)
}

func TestNewsDetail_UnpublishedIsNotFound(t *testing.T) {
	db := newTestDB(t)
	app := newHandler(t, db, 5)
	article := seedArticle(t, db, "draft-article", false)

	resp := get(t, app, "/news/draft-article")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// a 404 never counts as a view
	got, err := newsctl.GetByID(db, article.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Views)
}

func TestNewsDetail_MissingSlugIsNotFound(t *testing.T) {
	db := newTestDB(t)
	app := newHandler(t, db, 5)

	resp := get(t, app, "/news/no-such-article")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPage_PublishedOnly(t *testing.T) {
	db := newTestDB(t)
	app := newHandler(t, db, 5)

	require.NoError(t, db.Create(&models.Page{Title: "About", Slug: "about", Published: true}).Error)
	require.NoError(t, db.Create(&models.Page{Title: "Hidden", Slug: "hidden"}).Error)

	resp := get(t, app, "/p/about")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, app, "/p/hidden")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContactSubmit_StoresMessage(t *testing.T) {
	db := newTestDB(t)
	app := newHandler(t, db, 5)

	resp := postForm(t, app, ContactPath, url.Values{
		"name":    {"Alice"},
		"email":   {"alice@example.com"},
		"message": {"Hello there"},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.Contact
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, "alice@example.com", stored.Email)
	assert.Nil(t, stored.ReadAt)
}

func TestContactSubmit_RejectsInvalidEmail(t *testing.T) {
	db := newTestDB(t)
	app := newHandler(t, db, 5)

	resp := postForm(t, app, ContactPath, url.Values{
		"name":    {"Alice"},
		"email":   {"not-an-email"},
		"message": {"Hello"},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestContactSubmit_RateLimited(t *testing.T) {
	db := newTestDB(t)
	app := newHandler(t, db, 2)

	form := url.Values{
		"name":    {"Bob"},
		"email":   {"bob@example.com"},
		"message": {"Hi"},
	}

	for range 2 {
		resp := postForm(t, app, ContactPath, form)
		resp.Body.Close()
	}

	resp := postForm(t, app, ContactPath, form)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
