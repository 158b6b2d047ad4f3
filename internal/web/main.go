package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	accesslog "github.com/mf010/dynamic-website-sub000/internal/logger/adapter/fiber"
	"github.com/mf010/dynamic-website-sub000/internal/media"
	"github.com/mf010/dynamic-website-sub000/internal/security/ratelimit"
	"github.com/mf010/dynamic-website-sub000/internal/settings"
	admincontact "github.com/mf010/dynamic-website-sub000/internal/web/handler/admin/contact"
	adminnews "github.com/mf010/dynamic-website-sub000/internal/web/handler/admin/news"
	adminpage "github.com/mf010/dynamic-website-sub000/internal/web/handler/admin/page"
	adminservice "github.com/mf010/dynamic-website-sub000/internal/web/handler/admin/service"
	adminsettings "github.com/mf010/dynamic-website-sub000/internal/web/handler/admin/settings"
	adminslider "github.com/mf010/dynamic-website-sub000/internal/web/handler/admin/slider"
	adminuser "github.com/mf010/dynamic-website-sub000/internal/web/handler/admin/user"
	apiupload "github.com/mf010/dynamic-website-sub000/internal/web/handler/api/upload"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/dashboard"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/login"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/logout"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/public"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(
	cfg *config.Config, db *gorm.DB,
	settingsService *settings.Service, store *media.Store, limiter *ratelimit.Limiter,
) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// Add template helper functions
	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("mediaURL", store.URL)

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "dynamic-website",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
			BodyLimit:      int(cfg.Media.MaxUploadSize) + 1<<20,
		},
	)

	// access logging
	app.Use(accesslog.New(accesslog.Config{Config: cfg.Log}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	// serve uploaded media from the store root
	app.Static(cfg.Media.BaseURL, cfg.Media.Root)

	// basic auth middleware
	app.Use(AuthMiddleware)

	// Initialize auth service
	authService := auth.NewService(db)

	// Add permissions to fiber.Locals middleware (after auth)
	app.Use(auth.AddPermissionsToLocals(authService))

	// init web service
	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}

	// init handlers (they register their own routes with permission checks)
	if err := login.Handler.Init(app, cfg, db, limiter); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}
	logout.Handler.Init(app, cfg)
	dashboard.Handler.Init(app, cfg, db, authService)
	adminnews.Handler.Init(app, cfg, db, authService, store)
	adminpage.Handler.Init(app, cfg, db, authService, store)
	adminservice.Handler.Init(app, cfg, db, authService, store)
	adminslider.Handler.Init(app, cfg, db, authService, store)
	admincontact.Handler.Init(app, cfg, db, authService)
	adminuser.Handler.Init(app, cfg, db, authService)
	adminsettings.Handler.Init(app, cfg, db, authService, settingsService, store)
	apiupload.Handler.Init(app, cfg, authService, store)
	public.Handler.Init(app, cfg, db, settingsService, limiter)

	return service
}
