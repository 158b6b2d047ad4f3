// Package dashboard provides the admin dashboard with content statistics.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	"github.com/mf010/dynamic-website-sub000/internal/db/controller/contact"
	"github.com/mf010/dynamic-website-sub000/internal/db/controller/news"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
	"github.com/mf010/dynamic-website-sub000/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	recentLimit = 5
)

// Stats holds the content counters shown on the dashboard.
type Stats struct {
	NewsTotal      int64
	NewsPublished  int64
	Pages          int64
	Services       int64
	Sliders        int64
	Users          int64
	Messages       int64
	UnreadMessages int64
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	// register routes with permission checks
	app.Get(Path,
		auth.RequirePermission(authService, auth.PermDashboardView),
		s.Get,
	)
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	stats, err := s.collectStats()
	if err != nil {
		log.Error().Err(err).Msg("failed to collect dashboard statistics")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	}

	nav := navigation.NewContext("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true).
		WithUnread(stats.UnreadMessages)

	recentNews, err := news.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load recent news")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	}
	if len(recentNews) > recentLimit {
		recentNews = recentNews[:recentLimit]
	}

	recentMessages, err := contact.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load recent messages")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	}
	if len(recentMessages) > recentLimit {
		recentMessages = recentMessages[:recentLimit]
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation":     nav,
		"Stats":          stats,
		"RecentNews":     recentNews,
		"RecentMessages": recentMessages,
	}, handler.BaseLayout)
}

// collectStats counts content rows for the dashboard cards.
func (s *Service) collectStats() (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		dest  *int64
		model any
		where []any
	}{
		{&stats.NewsTotal, &models.News{}, nil},
		{&stats.NewsPublished, &models.News{}, []any{"published = ?", true}},
		{&stats.Pages, &models.Page{}, nil},
		{&stats.Services, &models.Service{}, nil},
		{&stats.Sliders, &models.Slider{}, nil},
		{&stats.Users, &models.User{}, nil},
		{&stats.Messages, &models.Contact{}, nil},
	}

	for _, count := range counts {
		query := s.db.Model(count.model)
		if count.where != nil {
			query = query.Where(count.where[0], count.where[1:]...)
		}
		if err := query.Count(count.dest).Error; err != nil {
			return nil, err
		}
	}

	unread, err := contact.CountUnread(s.db)
	if err != nil {
		return nil, err
	}
	stats.UnreadMessages = unread

	return stats, nil
}
