package upload

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
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
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/media"
	websess "github.com/mf010/dynamic-website-sub000/internal/web/session"
)

func pngData(size int) []byte {
	data := make([]byte, size)
	copy(data, "\x89PNG\r\n\x1a\n")

	return data
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Role{}, &models.Permission{}, &models.RolePermission{}, &models.User{},
	))

	return db
}

func newTestStore(t *testing.T) *media.Store {
	t.Helper()

	store, err := media.NewStore(t.TempDir(), "/media", 1<<20)
	require.NoError(t, err)

	return store
}

// loginAs seeds a user carrying the given permissions and returns a
// session cookie value for it.
func loginAs(t *testing.T, db *gorm.DB, permissions ...string) string {
	t.Helper()

	sessionStore := memory.New()
	t.Cleanup(func() { _ = sessionStore.Close() })
	websess.Init(sessionStore)

	role := models.Role{Name: "Uploader"}
	require.NoError(t, db.Create(&role).Error)

	for _, name := range permissions {
		perm := models.Permission{Name: name}
		require.NoError(t, db.Create(&perm).Error)
		require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)
	}

	user, err := auth.NewLocalProvider(db).CreateUser("uploader", "uploader@example.com", "pass", "", "", role.ID)
	require.NoError(t, err)

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	data := websess.Data{User: *user}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return sessionID
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func performUpload(t *testing.T, app *fiber.App, sessionID string, body *bytes.Buffer, contentType string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, body)
	req.Header.Set("Content-Type", contentType)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestPost_StoresFileAndReturnsJSON(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()
	store := newTestStore(t)
	sessionID := loginAs(t, db, auth.PermMediaUpload)

	var s Service
	s.Init(app, &config.Config{}, auth.NewService(db), store)

	body, contentType := multipartBody(t, "file", "photo.png", pngData(64))
	resp := performUpload(t, app, sessionID, body, contentType)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, "photo.png", got.Filename)
	assert.Equal(t, DefaultFolder, filepath.Dir(got.Path))
	assert.Equal(t, ".png", filepath.Ext(got.Path))
	assert.Equal(t, "/media/"+got.Path, got.URL)
	assert.True(t, store.Exists(got.Path))
}

func TestPost_RejectsDisallowedExtension(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()
	sessionID := loginAs(t, db, auth.PermMediaUpload)

	var s Service
	s.Init(app, &config.Config{}, auth.NewService(db), newTestStore(t))

	body, contentType := multipartBody(t, "file", "script.exe", pngData(64))
	resp := performUpload(t, app, sessionID, body, contentType)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPost_RejectsMismatchedContent(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()
	sessionID := loginAs(t, db, auth.PermMediaUpload)

	var s Service
	s.Init(app, &config.Config{}, auth.NewService(db), newTestStore(t))

	body, contentType := multipartBody(t, "file", "fake.png", []byte("plain text, not an image"))
	resp := performUpload(t, app, sessionID, body, contentType)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPost_MissingFileField(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()
	sessionID := loginAs(t, db, auth.PermMediaUpload)

	var s Service
	s.Init(app, &config.Config{}, auth.NewService(db), newTestStore(t))

	body, contentType := multipartBody(t, "attachment", "photo.png", pngData(64))
	resp := performUpload(t, app, sessionID, body, contentType)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPost_RequiresPermission(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()
	sessionID := loginAs(t, db) // no permissions

	var s Service
	s.Init(app, &config.Config{}, auth.NewService(db), newTestStore(t))

	body, contentType := multipartBody(t, "file", "photo.png", pngData(64))
	resp := performUpload(t, app, sessionID, body, contentType)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPost_RequiresSession(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()
	loginAs(t, db, auth.PermMediaUpload)

	var s Service
	s.Init(app, &config.Config{}, auth.NewService(db), newTestStore(t))

	body, contentType := multipartBody(t, "file", "photo.png", pngData(64))
	resp := performUpload(t, app, "", body, contentType)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
