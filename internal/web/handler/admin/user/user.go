// Package user provides the admin screens for managing user accounts.
package user

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	controller "github.com/mf010/dynamic-website-sub000/internal/db/controller/user"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/dashboard"
	"github.com/mf010/dynamic-website-sub000/internal/web/navigation"
)

const (
	// Path is the path to the users admin area.
	Path = handler.RootPath + "admin/users"

	// ListTemplate is the user list template.
	ListTemplate = "admin/users/list"

	// FormTemplate is the user create/edit form template.
	FormTemplate = "admin/users/form"
)

// Form is the user create/edit form payload. Password is required only
// on create; on edit an empty password keeps the current one.
type Form struct {
	Username  string `form:"username"   validate:"required,max=100"`
	Email     string `form:"email"      validate:"required,email,max=255"`
	Password  string `form:"password"`
	FirstName string `form:"first_name" validate:"max=100"`
	LastName  string `form:"last_name"  validate:"max=100"`
	RoleID    uint   `form:"role_id"    validate:"required"`
	Active    bool   `form:"active"`
}

// Service is the users admin handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	provider  *auth.LocalProvider
	validator *validator.Validate
}

// Handler is the users admin handler.
var Handler = Service{}

// Init initializes the users admin handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)
	s.validator = validator.New()

	manage := auth.RequirePermission(authService, auth.PermAdminUsers)

	app.Get(Path, manage, s.List)
	app.Get(Path+"/new", manage, s.New)
	app.Post(Path+"/new", manage, s.Create)
	app.Get(Path+"/:id/edit", manage, s.Edit)
	app.Post(Path+"/:id/edit", manage, s.Update)
	app.Post(Path+"/:id/toggle", manage, s.Toggle)
	app.Post(Path+"/:id/delete", manage, s.Delete)
}

func (s *Service) nav(pageTitle string, active bool) *navigation.Context {
	nav := navigation.NewContext(pageTitle, "admin", "users").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Users", Path, !active)
	if active {
		nav.AddBreadcrumb(pageTitle, "", true)
	}

	return nav
}

func (s *Service) roles() []models.Role {
	var roles []models.Role
	if err := s.db.Order("name").Find(&roles).Error; err != nil {
		log.Error().Err(err).Msg("failed to list roles")
	}

	return roles
}

// List renders the user listing.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load users")
	}

	return c.Render(ListTemplate, fiber.Map{
		"Navigation": s.nav("Users", false),
		"Users":      users,
	}, handler.BaseLayout)
}

// New renders an empty user form.
func (s *Service) New(c *fiber.Ctx) error {
	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav("New User", true),
		"User":       &models.User{Active: true},
		"Roles":      s.roles(),
	}, handler.BaseLayout)
}

// Create handles the user creation form.
func (s *Service) Create(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, &models.User{}, "New User", "Invalid form data", fiber.StatusBadRequest)
	}

	u := &models.User{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		RoleID:    form.RoleID,
		Active:    form.Active,
	}

	if msg := s.validate(form); msg != "" {
		return s.renderForm(c, u, "New User", msg, fiber.StatusBadRequest)
	}
	if form.Password == "" {
		return s.renderForm(c, u, "New User", "A password is required", fiber.StatusBadRequest)
	}

	created, err := s.provider.CreateUser(
		form.Username, form.Email, form.Password,
		form.FirstName, form.LastName, form.RoleID,
	)
	if err != nil {
		if errors.Is(err, auth.ErrUserNameOrEmailExists) {
			return s.renderForm(c, u, "New User", "Username or email already in use", fiber.StatusConflict)
		}

		log.Error().Err(err).Msg("failed to create user")

		return s.renderForm(c, u, "New User", "Failed to save user", fiber.StatusInternalServerError)
	}

	if !form.Active {
		if err := controller.SetActive(s.db, created.ID, false); err != nil {
			log.Error().Err(err).Uint64("id", created.ID).Msg("failed to deactivate new user")
		}
	}

	log.Info().Uint64("id", created.ID).Str("username", created.Username).Msg("user created")

	return c.Redirect(Path)
}

// Edit renders the user edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	u, err := s.load(c)
	if u == nil {
		return err
	}

	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav("Edit User", true),
		"User":       u,
		"Roles":      s.roles(),
	}, handler.BaseLayout)
}

// Update handles the user edit form submission.
func (s *Service) Update(c *fiber.Ctx) error {
	u, err := s.load(c)
	if u == nil {
		return err
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, u, "Edit User", "Invalid form data", fiber.StatusBadRequest)
	}

	if msg := s.validate(form); msg != "" {
		return s.renderForm(c, u, "Edit User", msg, fiber.StatusBadRequest)
	}

	u.Username = form.Username
	u.Email = form.Email
	u.FirstName = form.FirstName
	u.LastName = form.LastName
	u.RoleID = form.RoleID
	u.Active = form.Active

	if err := controller.Update(s.db, u, form.Password); err != nil {
		log.Error().Err(err).Uint64("id", u.ID).Msg("failed to update user")

		return s.renderForm(c, u, "Edit User", "Failed to save user", fiber.StatusInternalServerError)
	}

	return c.Redirect(Path)
}

// Toggle enables or disables a user account. Users cannot disable
// their own account.
func (s *Service) Toggle(c *fiber.Ctx) error {
	u, err := s.load(c)
	if u == nil {
		return err
	}

	if current, ok := c.Locals("CurrentUser").(models.User); ok && current.ID == u.ID {
		return c.Status(fiber.StatusForbidden).SendString("You cannot disable your own account")
	}

	if err := controller.SetActive(s.db, u.ID, !u.Active); err != nil {
		log.Error().Err(err).Uint64("id", u.ID).Msg("failed to toggle user")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to update user")
	}

	return c.Redirect(Path)
}

// Delete removes a user account. Users cannot delete their own account.
func (s *Service) Delete(c *fiber.Ctx) error {
	u, err := s.load(c)
	if u == nil {
		return err
	}

	if current, ok := c.Locals("CurrentUser").(models.User); ok && current.ID == u.ID {
		return c.Status(fiber.StatusForbidden).SendString("You cannot delete your own account")
	}

	if err := controller.Delete(s.db, u.ID); err != nil {
		log.Error().Err(err).Uint64("id", u.ID).Msg("failed to delete user")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete user")
	}

	return c.Redirect(Path)
}

// load resolves the :id route parameter to a user.
func (s *Service) load(c *fiber.Ctx) (*models.User, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).SendString("Invalid user ID")
	}

	u, err := controller.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, controller.ErrUserNotFound) {
			return nil, c.Status(fiber.StatusNotFound).SendString("User not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to load user")

		return nil, c.Status(fiber.StatusInternalServerError).SendString("Failed to load user")
	}

	return u, nil
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

func (s *Service) renderForm(c *fiber.Ctx, u *models.User, title, errMsg string, status int) error {
	return c.Status(status).Render(FormTemplate, fiber.Map{
		"Navigation": s.nav(title, true),
		"User":       u,
		"Roles":      s.roles(),
		"Error":      errMsg,
	}, handler.BaseLayout)
}
