package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-video-drop/internal/application/notification"
	uploadapp "github.com/go-video-drop/internal/application/upload"
	"github.com/go-video-drop/internal/config"
	"github.com/go-video-drop/internal/logger"
	"github.com/go-video-drop/internal/transport/http/handler"
	appmiddleware "github.com/go-video-drop/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(appmiddleware.WithLogger(log))
	r.Use(appmiddleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	apiRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	notifSvc := notification.NewService(notification.ServiceDeps{
		Sender:    deps.EmailSender,
		Publisher: deps.Publisher,
		From:      cfg.Email.From,
		To:        cfg.Email.To,
		LinkTTL:   cfg.ViewURLTTL,
		Timeout:   cfg.Email.Timeout,
		Log:       log,
	})
	uploadSvc := uploadapp.NewService(uploadapp.ServiceDeps{
		Presigner:     deps.Store,
		Notifications: notifSvc,
		UploadTTL:     cfg.UploadURLTTL,
		ViewTTL:       cfg.ViewURLTTL,
		Log:           log,
	})

	healthH := handler.NewHealthHandler(deps.Store)
	uploadH := handler.NewUploadHandler(uploadSvc)

	r.Get("/health-check/{action}", healthH.Check)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(apiRL.Limit)

		r.Post("/presigned-upload", uploadH.PresignedUpload)
		r.Post("/notify", uploadH.Notify)
		r.Post("/presigned-url", uploadH.PresignedURL)
		r.Post("/upload", uploadH.LegacyUpload)
	})

	return r
}
