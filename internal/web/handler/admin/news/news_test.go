package news

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	controller "github.com/mf010/dynamic-website-sub000/internal/db/controller/news"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/media"
	websess "github.com/mf010/dynamic-website-sub000/internal/web/session"
)

// noOpViews renders the template name so redirect/render outcomes can be
// told apart without real templates.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, _ interface{}, _ ...string) error {
	_, _ = io.WriteString(w, name)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Role{}, &models.Permission{}, &models.RolePermission{},
		&models.User{}, &models.News{},
	))

	return db
}

// loginAs seeds a user with the given permissions and returns its
// session cookie value.
func loginAs(t *testing.T, db *gorm.DB, permissions ...string) string {
	t.Helper()

	sessionStore := memory.New()
	t.Cleanup(func() { _ = sessionStore.Close() })
	websess.Init(sessionStore)

	role := models.Role{Name: "Editor"}
	require.NoError(t, db.Create(&role).Error)

	for _, name := range permissions {
		perm := models.Permission{Name: name}
		require.NoError(t, db.Create(&perm).Error)
		require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)
	}

	user, err := auth.NewLocalProvider(db).CreateUser("editor", "editor@example.com", "pass", "", "", role.ID)
	require.NoError(t, err)

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	data := websess.Data{User: *user}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return sessionID
}

func newHandler(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	store, err := media.NewStore(t.TempDir(), "/media", 1<<20)
	require.NoError(t, err)

	var s Service
	s.Init(app, &config.Config{}, db, auth.NewService(db), store)

	return app
}

func request(t *testing.T, app *fiber.App, method, target, sessionID string, form url.Values) *http.Response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestList_RequiresPermission(t *testing.T) {
	db := newTestDB(t)
	sessionID := loginAs(t, db) // no permissions
	app := newHandler(t, db)

	resp := request(t, app, http.MethodGet, Path, sessionID, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestList_RequiresSession(t *testing.T) {
	db := newTestDB(t)
	loginAs(t, db, auth.PermNewsManage)
	app := newHandler(t, db)

	resp := request(t, app, http.MethodGet, Path, "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreate_StoresArticleWithSlug(t *testing.T) {
	db := newTestDB(t)
	sessionID := loginAs(t, db, auth.PermNewsManage)
	app := newHandler(t, db)

	resp := request(t, app, http.MethodPost, Path+"/new", sessionID, url.Values{
		"title":   {"Grand Opening"},
		"excerpt": {"We are open"},
		"body":    {"Full story"},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)

	article, err := controller.GetBySlug(db, "grand-opening")
	require.NoError(t, err)
	assert.Equal(t, "Grand Opening", article.Title)
	assert.False(t, article.Published)
}

func TestCreate_EmptyTitleRejected(t *testing.T) {
	db := newTestDB(t)
	sessionID := loginAs(t, db, auth.PermNewsManage)
	app := newHandler(t, db)

	resp := request(t, app, http.MethodPost, Path+"/new", sessionID, url.Values{
		"body": {"no title"},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.News{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestToggle_KeepsFirstPublishTimestamp(t *testing.T) {
	db := newTestDB(t)
	sessionID := loginAs(t, db, auth.PermNewsManage)
	app := newHandler(t, db)

	article := &models.News{Title: "Toggle me", Slug: "toggle-me"}
	require.NoError(t, controller.Create(db, article))

	target := Path + "/" + strconv.FormatUint(article.ID, 10) + "/toggle"

	// publish
	resp := request(t, app, http.MethodPost, target, sessionID, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	published, err := controller.GetByID(db, article.ID)
	require.NoError(t, err)
	require.True(t, published.Published)
	require.NotNil(t, published.PublishedAt)
	firstPublished := *published.PublishedAt

	// unpublish, then publish again
	for range 2 {
		resp = request(t, app, http.MethodPost, target, sessionID, nil)
		resp.Body.Close()
	}

	republished, err := controller.GetByID(db, article.ID)
	require.NoError(t, err)
	assert.True(t, republished.Published)
	assert.Equal(t, firstPublished.Unix(), republished.PublishedAt.Unix())
}

func TestDelete_RemovesArticle(t *testing.T) {
	db := newTestDB(t)
	sessionID := loginAs(t, db, auth.PermNewsManage)
	app := newHandler(t, db)

	article := &models.News{Title: "Doomed", Slug: "doomed"}
	require.NoError(t, controller.Create(db, article))

	target := Path + "/" + strconv.FormatUint(article.ID, 10) + "/delete"
	resp := request(t, app, http.MethodPost, target, sessionID, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)

	_, err := controller.GetByID(db, article.ID)
	assert.ErrorIs(t, err, controller.ErrNewsNotFound)
}

func TestToggle_UnknownIDIsNotFound(t *testing.T) {
	db := newTestDB(t)
	sessionID := loginAs(t, db, auth.PermNewsManage)
	app := newHandler(t, db)

	resp := request(t, app, http.MethodPost, Path+"/9999/toggle", sessionID, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
