// Package public serves the visitor-facing site: home page, news,
// static pages, services and the contact form. Only published content
// is reachable here.
package public

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/config"
	contactctl "github.com/mf010/dynamic-website-sub000/internal/db/controller/contact"
	newsctl "github.com/mf010/dynamic-website-sub000/internal/db/controller/news"
	pagectl "github.com/mf010/dynamic-website-sub000/internal/db/controller/page"
	servicectl "github.com/mf010/dynamic-website-sub000/internal/db/controller/service"
	sliderctl "github.com/mf010/dynamic-website-sub000/internal/db/controller/slider"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/security/ratelimit"
	"github.com/mf010/dynamic-website-sub000/internal/settings"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
)

const (
	// HomePath is the public home page path.
	HomePath = handler.RootPath

	// NewsPath is the public news listing path.
	NewsPath = handler.RootPath + "news"

	// ServicesPath is the public services listing path.
	ServicesPath = handler.RootPath + "services"

	// ContactPath is the public contact form path.
	ContactPath = handler.RootPath + "contact"

	// RateLimitAction is the rate limiter action key for contact
	// form submissions.
	RateLimitAction = "contact"

	// homeNewsLimit is how many recent articles the home page shows.
	homeNewsLimit = 3
)

// ErrTooManyMessages is shown when an IP exceeds the contact form rate limit.
var ErrTooManyMessages = errors.New("too many messages, please try again later")

// ContactForm is the public contact form payload.
type ContactForm struct {
	Name    string `form:"name"    validate:"required,max=255"`
	Email   string `form:"email"   validate:"required,email,max=255"`
	Phone   string `form:"phone"   validate:"max=50"`
	Subject string `form:"subject" validate:"max=255"`
	Message string `form:"message" validate:"required,max=5000"`
}

// Service is the public site handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	settings  *settings.Service
	limiter   *ratelimit.Limiter
	validator *validator.Validate
}

// Handler is the public site handler.
var Handler = Service{}

// Init initializes the public site handler.
func (s *Service) Init(
	app *fiber.App, cfg *config.Config, db *gorm.DB,
	settingsService *settings.Service, limiter *ratelimit.Limiter,
) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.settings = settingsService
	s.limiter = limiter
	s.validator = validator.New()

	app.Get(HomePath, s.Home)
	app.Get(NewsPath, s.NewsList)
	app.Get(NewsPath+"/:slug", s.NewsDetail)
	app.Get(ServicesPath, s.ServicesList)
	app.Get(ContactPath, s.ContactShow)
	app.Post(ContactPath, s.ContactSubmit)
	app.Get(handler.RootPath+"p/:slug", s.Page)
}

// site builds the render data every public template shares.
func (s *Service) site(data fiber.Map) fiber.Map {
	data["SiteName"] = s.settings.Get("site_name", "Dynamic Website")
	data["SiteDescription"] = s.settings.Get("site_description", "")

	pages, err := pagectl.GetPublished(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load menu pages")
	}
	data["MenuPages"] = pages

	return data
}

// Home renders the landing page with sliders, services and recent news.
func (s *Service) Home(c *fiber.Ctx) error {
	sliders, err := sliderctl.GetPublished(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load sliders")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load page")
	}

	services, err := servicectl.GetPublished(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load services")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load page")
	}

	articles, err := newsctl.GetPublished(s.db, homeNewsLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load news")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load page")
	}

	return c.Render("public/home", s.site(fiber.Map{
		"Sliders":  sliders,
		"Services": services,
		"Articles": articles,
	}), handler.PublicLayout)
}

// NewsList renders all published articles, newest first.
func (s *Service) NewsList(c *fiber.Ctx) error {
	articles, err := newsctl.GetPublished(s.db, 0)
	if err != nil {
		log.Error().Err(err).Msg("failed to load news")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load page")
	}

	return c.Render("public/news/list", s.site(fiber.Map{
		"Articles": articles,
	}), handler.PublicLayout)
}

// NewsDetail renders a single published article and counts the view.
// Unpublished articles are indistinguishable from missing ones.
func (s *Service) NewsDetail(c *fiber.Ctx) error {
	article, err := newsctl.GetBySlug(s.db, c.Params("slug"))
	if err != nil {
		if errors.Is(err, newsctl.ErrNewsNotFound) {
			return c.Status(fiber.StatusNotFound).Render("public/404", s.site(fiber.Map{}), handler.PublicLayout)
		}

		log.Error().Err(err).Str("slug", c.Params("slug")).Msg("failed to load article")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load page")
	}

	if !article.Published {
		return c.Status(fiber.StatusNotFound).Render("public/404", s.site(fiber.Map{}), handler.PublicLayout)
	}

	if err := newsctl.IncrementViews(s.db, article.ID); err != nil {
		log.Warn().Err(err).Uint64("id", article.ID).Msg("failed to count article view")
	}

	return c.Render("public/news/detail", s.site(fiber.Map{
		"Article": article,
	}), handler.PublicLayout)
}

// ServicesList renders all published services.
func (s *Service) ServicesList(c *fiber.Ctx) error {
	services, err := servicectl.GetPublished(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load services")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load page")
	}

	return c.Render("public/services", s.site(fiber.Map{
		"Services": services,
	}), handler.PublicLayout)
}

// Page renders a single published static page by slug.
func (s *Service) Page(c *fiber.Ctx) error {
	p, err := pagectl.GetBySlug(s.db, c.Params("slug"))
	if err != nil {
		if errors.Is(err, pagectl.ErrPageNotFound) {
			return c.Status(fiber.StatusNotFound).Render("public/404", s.site(fiber.Map{}), handler.PublicLayout)
		}

		log.Error().Err(err).Str("slug", c.Params("slug")).Msg("failed to load page")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load page")
	}

	if !p.Published {
		return c.Status(fiber.StatusNotFound).Render("public/404", s.site(fiber.Map{}), handler.PublicLayout)
	}

	return c.Render("public/page", s.site(fiber.Map{
		"Page": p,
	}), handler.PublicLayout)
}

// ContactShow renders the contact form.
func (s *Service) ContactShow(c *fiber.Ctx) error {
	return c.Render("public/contact", s.site(fiber.Map{}), handler.PublicLayout)
}

// ContactSubmit stores a contact form submission. Submissions are rate
// limited per IP to keep the inbox usable.
func (s *Service) ContactSubmit(c *fiber.Ctx) error {
	if s.limiter != nil && s.limiter.IsBlocked(c.IP()) {
		return s.renderContact(c, ErrTooManyMessages.Error(), fiber.StatusTooManyRequests)
	}

	form := new(ContactForm)
	if err := c.BodyParser(form); err != nil {
		return s.renderContact(c, "Invalid form data", fiber.StatusBadRequest)
	}

	if err := s.validator.Struct(form); err != nil {
		return s.renderContact(c, "Please fill in your name, a valid email address and a message", fiber.StatusBadRequest)
	}

	msg := &models.Contact{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Subject: form.Subject,
		Message: form.Message,
	}

	if err := contactctl.Create(s.db, msg); err != nil {
		log.Error().Err(err).Msg("failed to store contact message")

		return s.renderContact(c, "Failed to send your message, please try again", fiber.StatusInternalServerError)
	}

	if s.limiter != nil {
		if _, err := s.limiter.RecordFailure(RateLimitAction, c.IP()); err != nil {
			log.Warn().Err(err).Msg("failed to record contact submission")
		}
	}

	return c.Render("public/contact", s.site(fiber.Map{
		"Success": "Thank you, your message has been sent",
	}), handler.PublicLayout)
}

func (s *Service) renderContact(c *fiber.Ctx, errMsg string, status int) error {
	return c.Status(status).Render("public/contact", s.site(fiber.Map{
		"Error": errMsg,
	}), handler.PublicLayout)
}
