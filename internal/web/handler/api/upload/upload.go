// Package upload provides the JSON endpoint for media uploads from the
// admin editor.
package upload

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	"github.com/mf010/dynamic-website-sub000/internal/media"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
)

const (
	// Path is the upload endpoint path.
	Path = handler.RootPath + "api/upload"

	// DefaultFolder is the media store folder used when the request
	// names none.
	DefaultFolder = "uploads"
)

// Response is the JSON body returned for a stored upload.
type Response struct {
	Path     string `json:"path"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Service is the upload API handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	store *media.Store
}

// Handler is the upload API handler.
var Handler = Service{}

// Init initializes the upload API handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service, store *media.Store) {
	if app == nil || cfg == nil || store == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.store = store

	app.Post(Path, auth.RequirePermission(authService, auth.PermMediaUpload), s.Post)
}

// Post stores a multipart file field named "file" and returns its path
// and public URL.
func (s *Service) Post(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "missing file field",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open uploaded file")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to read upload",
		})
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close uploaded file")
		}
	}()

	folder := media.SanitizeFolder(c.FormValue("folder", DefaultFolder))

	path, err := s.store.Save(folder, fileHeader.Filename, fileHeader.Size, f)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrExtNotAllowed),
			errors.Is(err, media.ErrFileTooLarge),
			errors.Is(err, media.ErrContentMismatch),
			errors.Is(err, media.ErrEmptyFile):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("failed to store upload")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to store upload",
		})
	}

	log.Info().Str("path", path).Msg("media file uploaded")

	return c.Status(fiber.StatusCreated).JSON(Response{
		Path:     path,
		URL:      s.store.URL(path),
		Filename: fileHeader.Filename,
	})
}
