// Package news provides the admin screens for managing news articles.
package news

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	controller "github.com/mf010/dynamic-website-sub000/internal/db/controller/news"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/media"
	"github.com/mf010/dynamic-website-sub000/internal/slug"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/dashboard"
	"github.com/mf010/dynamic-website-sub000/internal/web/navigation"
)

const (
	// Path is the path to the news admin pages.
	Path = handler.RootPath + "admin/news"

	// ListTemplate is the news list template.
	ListTemplate = "admin/news/list"

	// FormTemplate is the news create/edit form template.
	FormTemplate = "admin/news/form"

	// MediaFolder is the media store folder for news images.
	MediaFolder = "news"
)

// Form is the news create/edit form payload.
type Form struct {
	Title   string `form:"title"   validate:"required,max=255"`
	Excerpt string `form:"excerpt" validate:"max=500"`
	Body    string `form:"body"`
}

// Service is the news admin handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	store     *media.Store
	validator *validator.Validate
}

// Handler is the news admin handler.
var Handler = Service{}

// Init initializes the news admin handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store *media.Store) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.store = store
	s.validator = validator.New()

	manage := auth.RequirePermission(authService, auth.PermNewsManage)

	app.Get(Path, manage, s.List)
	app.Get(Path+"/new", manage, s.New)
	app.Post(Path+"/new", manage, s.Create)
	app.Get(Path+"/:id/edit", manage, s.Edit)
	app.Post(Path+"/:id/edit", manage, s.Update)
	app.Post(Path+"/:id/toggle", manage, s.Toggle)
	app.Post(Path+"/:id/delete", manage, s.Delete)
}

func (s *Service) nav(pageTitle string, active bool) *navigation.Context {
	nav := navigation.NewContext(pageTitle, "content", "news").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("News", Path, !active)
	if active {
		nav.AddBreadcrumb(pageTitle, "", true)
	}

	return nav
}

// List renders the news article listing.
func (s *Service) List(c *fiber.Ctx) error {
	articles, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list news articles")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load news")
	}

	return c.Render(ListTemplate, fiber.Map{
		"Navigation": s.nav("News", false),
		"Articles":   articles,
	}, handler.BaseLayout)
}

// New renders an empty article form.
func (s *Service) New(c *fiber.Ctx) error {
	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav("New Article", true),
		"Article":    &models.News{},
	}, handler.BaseLayout)
}

// Create handles the article creation form.
func (s *Service) Create(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, &models.News{}, "New Article", "Invalid form data", fiber.StatusBadRequest)
	}

	article := &models.News{
		Title:   form.Title,
		Excerpt: form.Excerpt,
		Body:    form.Body,
	}

	if msg := s.validate(form); msg != "" {
		return s.renderForm(c, article, "New Article", msg, fiber.StatusBadRequest)
	}

	article.Slug = slug.Unique(form.Title, func(candidate string) bool {
		_, err := controller.GetBySlug(s.db, candidate)
		return err == nil
	})

	imagePath, err := handler.SaveFormImage(c, s.store, "image", MediaFolder, "")
	if err != nil {
		return s.renderUploadError(c, article, "New Article", err)
	}
	article.Image = imagePath

	if err := controller.Create(s.db, article); err != nil {
		log.Error().Err(err).Msg("failed to create news article")

		// the image is already on disk, remove the orphan
		if _, delErr := s.store.Delete(article.Image); delErr != nil {
			log.Warn().Err(delErr).Str("path", article.Image).Msg("failed to remove orphaned image")
		}

		return s.renderForm(c, article, "New Article", "Failed to save article", fiber.StatusInternalServerError)
	}

	log.Info().Uint64("id", article.ID).Str("slug", article.Slug).Msg("news article created")

	return c.Redirect(Path)
}

// Edit renders the article edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	article, err := s.load(c)
	if article == nil {
		return err
	}

	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav("Edit Article", true),
		"Article":    article,
	}, handler.BaseLayout)
}

// Update handles the article edit form submission.
func (s *Service) Update(c *fiber.Ctx) error {
	article, err := s.load(c)
	if article == nil {
		return err
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, article, "Edit Article", "Invalid form data", fiber.StatusBadRequest)
	}

	if msg := s.validate(form); msg != "" {
		return s.renderForm(c, article, "Edit Article", msg, fiber.StatusBadRequest)
	}

	if form.Title != article.Title {
		article.Slug = slug.Unique(form.Title, func(candidate string) bool {
			existing, err := controller.GetBySlug(s.db, candidate)
			return err == nil && existing.ID != article.ID
		})
	}

	article.Title = form.Title
	article.Excerpt = form.Excerpt
	article.Body = form.Body

	imagePath, err := handler.SaveFormImage(c, s.store, "image", MediaFolder, article.Image)
	if err != nil {
		return s.renderUploadError(c, article, "Edit Article", err)
	}
	article.Image = imagePath

	if err := controller.Update(s.db, article); err != nil {
		log.Error().Err(err).Uint64("id", article.ID).Msg("failed to update news article")

		return s.renderForm(c, article, "Edit Article", "Failed to save article", fiber.StatusInternalServerError)
	}

	return c.Redirect(Path)
}

// Toggle flips the publish flag of an article.
func (s *Service) Toggle(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid article ID")
	}

	if _, err := controller.TogglePublish(s.db, id); err != nil {
		if errors.Is(err, controller.ErrNewsNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Article not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to toggle news article")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to update article")
	}

	return c.Redirect(Path)
}

// Delete removes an article and its image file.
func (s *Service) Delete(c *fiber.Ctx) error {
	article, err := s.load(c)
	if article == nil {
		return err
	}

	if err := controller.Delete(s.db, article.ID); err != nil {
		log.Error().Err(err).Uint64("id", article.ID).Msg("failed to delete news article")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete article")
	}

	// the row is gone, the file has no owner left
	if _, err := s.store.Delete(article.Image); err != nil {
		log.Warn().Err(err).Str("path", article.Image).Msg("failed to remove article image")
	}

	return c.Redirect(Path)
}

// load resolves the :id route parameter to an article.
func (s *Service) load(c *fiber.Ctx) (*models.News, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).SendString("Invalid article ID")
	}

	article, err := controller.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, controller.ErrNewsNotFound) {
			return nil, c.Status(fiber.StatusNotFound).SendString("Article not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to load news article")

		return nil, c.Status(fiber.StatusInternalServerError).SendString("Failed to load article")
	}

	return article, nil
}

// validate runs struct validation and formats the first failure.
func (s *Service) validate(form *Form) string {
	if err := s.validator.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			ve := validationErrors[0]
			return "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		return "Invalid form data"
	}

	return ""
}

func (s *Service) renderForm(c *fiber.Ctx, article *models.News, title, errMsg string, status int) error {
	return c.Status(status).Render(FormTemplate, fiber.Map{
		"Navigation": s.nav(title, true),
		"Article":    article,
		"Error":      errMsg,
	}, handler.BaseLayout)
}

// renderUploadError maps media validation failures to a form error.
func (s *Service) renderUploadError(c *fiber.Ctx, article *models.News, title string, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Failed to store image"

	switch {
	case errors.Is(err, media.ErrExtNotAllowed),
		errors.Is(err, media.ErrFileTooLarge),
		errors.Is(err, media.ErrContentMismatch),
		errors.Is(err, media.ErrEmptyFile):
		status = fiber.StatusUnprocessableEntity
		msg = err.Error()
	default:
		log.Error().Err(err).Msg("failed to store news image")
	}

	return s.renderForm(c, article, title, msg, status)
}
