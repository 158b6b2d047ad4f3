// Package login provides the admin login page and form handling.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	"github.com/mf010/dynamic-website-sub000/internal/security/ratelimit"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
	"github.com/mf010/dynamic-website-sub000/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// RateLimitAction scopes the failed attempt counter for logins.
	RateLimitAction = "login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.LocalProvider
	limiter  *ratelimit.Limiter
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, limiter *ratelimit.Limiter) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg or db is nil")
	}

	s.db = db
	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)
	s.limiter = limiter

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{})
}

// renderError re-renders the login form with an error message.
func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	return c.Render("login", fiber.Map{
		"error": msg,
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	if s.limiter != nil && s.limiter.IsBlocked(c.IP()) {
		return s.renderError(c, ErrTooManyAttempts.Error())
	}

	var form struct {
		Username string `form:"username"`
		Password string `form:"password"`
	}

	if err := c.BodyParser(&form); err != nil {
		return s.renderError(c, ErrInvalidFormData.Error())
	}

	user, err := s.provider.Authenticate(form.Username, form.Password)
	if err != nil {
		if s.limiter != nil {
			if _, rlErr := s.limiter.RecordFailure(RateLimitAction, c.IP()); rlErr != nil {
				log.Error().Err(rlErr).Msg("failed to record login failure")
			}
		}

		if errors.Is(err, auth.ErrUserAccountDisabled) {
			return s.renderError(c, ErrAccountDisabled.Error())
		}

		return s.renderError(c, ErrInvalidCredentials.Error())
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(RateLimitAction, c.IP()); err != nil {
			log.Error().Err(err).Msg("failed to reset login failure counter")
		}
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return s.renderError(c, "Internal server error")
	}

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.renderError(c, "Internal server error")
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.Redirect("/dashboard")
}
