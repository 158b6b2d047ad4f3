// Package slider provides the admin screens for managing homepage sliders.
package slider

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	controller "github.com/mf010/dynamic-website-sub000/internal/db/controller/slider"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/media"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/dashboard"
	"github.com/mf010/dynamic-website-sub000/internal/web/navigation"
)

const (
	// Path is the path to the sliders admin area.
	Path = handler.RootPath + "admin/sliders"

	// ListTemplate is the slider list template.
	ListTemplate = "admin/sliders/list"

	// FormTemplate is the slider create/edit form template.
	FormTemplate = "admin/sliders/form"

	// MediaFolder is the media store folder for slider images.
	MediaFolder = "sliders"
)

// Form is the slider create/edit form payload.
type Form struct {
	Title     string `form:"title"   validate:"required,max=255"`
	Caption   string `form:"caption" validate:"max=500"`
	LinkURL   string `form:"link_url" validate:"max=255"`
	SortOrder int    `form:"sort_order"`
}

// Service is the sliders admin handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	store     *media.Store
	validator *validator.Validate
}

// Handler is the sliders admin handler.
var Handler = Service{}

// Init initializes the sliders admin handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store *media.Store) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.store = store
	s.validator = validator.New()

	manage := auth.RequirePermission(authService, auth.PermSliderManage)

	app.Get(Path, manage, s.List)
	app.Get(Path+"/new", manage, s.New)
	app.Post(Path+"/new", manage, s.Create)
	app.Get(Path+"/:id/edit", manage, s.Edit)
	app.Post(Path+"/:id/edit", manage, s.Update)
	app.Post(Path+"/:id/toggle", manage, s.Toggle)
	app.Post(Path+"/:id/delete", manage, s.Delete)
}

func (s *Service) nav(pageTitle string, active bool) *navigation.Context {
	nav := navigation.NewContext(pageTitle, "content", "sliders").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Sliders", Path, !active)
	if active {
		nav.AddBreadcrumb(pageTitle, "", true)
	}

	return nav
}

// List renders the slider listing.
func (s *Service) List(c *fiber.Ctx) error {
	sliders, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list sliders")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load sliders")
	}

	return c.Render(ListTemplate, fiber.Map{
		"Navigation": s.nav("Sliders", false),
		"Sliders":    sliders,
	}, handler.BaseLayout)
}

// New renders an empty slider form.
func (s *Service) New(c *fiber.Ctx) error {
	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav("New Slider", true),
		"Item":       &models.Slider{},
	}, handler.BaseLayout)
}

// Create handles the slider creation form. A new slider must carry an image.
func (s *Service) Create(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, &models.Slider{}, "New Slider", "Invalid form data", fiber.StatusBadRequest)
	}

	item := &models.Slider{
		Title:     form.Title,
		Caption:   form.Caption,
		LinkURL:   form.LinkURL,
		SortOrder: form.SortOrder,
	}

	if msg := s.validate(form); msg != "" {
		return s.renderForm(c, item, "New Slider", msg, fiber.StatusBadRequest)
	}

	imagePath, err := handler.SaveFormImage(c, s.store, "image", MediaFolder, "")
	if err != nil {
		return s.renderUploadError(c, item, "New Slider", err)
	}
	if imagePath == "" {
		return s.renderForm(c, item, "New Slider", "A slider image is required", fiber.StatusBadRequest)
	}
	item.Image = imagePath

	if err := controller.Create(s.db, item); err != nil {
		log.Error().Err(err).Msg("failed to create slider")

		if _, delErr := s.store.Delete(item.Image); delErr != nil {
			log.Warn().Err(delErr).Str("path", item.Image).Msg("failed to remove orphaned image")
		}

		return s.renderForm(c, item, "New Slider", "Failed to save slider", fiber.StatusInternalServerError)
	}

	return c.Redirect(Path)
}

// Edit renders the slider edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	item, err := s.load(c)
	if item == nil {
		return err
	}

	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav("Edit Slider", true),
		"Item":       item,
	}, handler.BaseLayout)
}

// Update handles the slider edit form submission.
func (s *Service) Update(c *fiber.Ctx) error {
	item, err := s.load(c)
	if item == nil {
		return err
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, item, "Edit Slider", "Invalid form data", fiber.StatusBadRequest)
	}

	if msg := s.validate(form); msg != "" {
		return s.renderForm(c, item, "Edit Slider", msg, fiber.StatusBadRequest)
	}

	item.Title = form.Title
	item.Caption = form.Caption
	item.LinkURL = form.LinkURL
	item.SortOrder = form.SortOrder

	imagePath, err := handler.SaveFormImage(c, s.store, "image", MediaFolder, item.Image)
	if err != nil {
		return s.renderUploadError(c, item, "Edit Slider", err)
	}
	item.Image = imagePath

	if err := controller.Update(s.db, item); err != nil {
		log.Error().Err(err).Uint64("id", item.ID).Msg("failed to update slider")

		return s.renderForm(c, item, "Edit Slider", "Failed to save slider", fiber.StatusInternalServerError)
	}

	return c.Redirect(Path)
}

// Toggle flips the publish flag of a slider.
func (s *Service) Toggle(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid slider ID")
	}

	if _, err := controller.TogglePublish(s.db, id); err != nil {
		if errors.Is(err, controller.ErrSliderNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Slider not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to toggle slider")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to update slider")
	}

	return c.Redirect(Path)
}

// Delete removes a slider and its image file.
func (s *Service) Delete(c *fiber.Ctx) error {
	item, err := s.load(c)
	if item == nil {
		return err
	}

	if err := controller.Delete(s.db, item.ID); err != nil {
		log.Error().Err(err).Uint64("id", item.ID).Msg("failed to delete slider")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete slider")
	}

	if _, err := s.store.Delete(item.Image); err != nil {
		log.Warn().Err(err).Str("path", item.Image).Msg("failed to remove slider image")
	}

	return c.Redirect(Path)
}

// load resolves the :id route parameter to a slider.
func (s *Service) load(c *fiber.Ctx) (*models.Slider, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).SendString("Invalid slider ID")
	}

	item, err := controller.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, controller.ErrSliderNotFound) {
			return nil, c.Status(fiber.StatusNotFound).SendString("Slider not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to load slider")

		return nil, c.Status(fiber.StatusInternalServerError).SendString("Failed to load slider")
	}

	return item, nil
}

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

func (s *Service) renderForm(c *fiber.Ctx, item *models.Slider, title, errMsg string, status int) error {
	return c.Status(status).Render(FormTemplate, fiber.Map{
		"Navigation": s.nav(title, true),
		"Item":       item,
		"Error":      errMsg,
	}, handler.BaseLayout)
}

func (s *Service) renderUploadError(c *fiber.Ctx, item *models.Slider, title string, err error) error {
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
		log.Error().Err(err).Msg("failed to store slider image")
	}

	return s.renderForm(c, item, title, msg, status)
}
