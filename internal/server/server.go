// Package server exposes the enrichment engine and the Apollo phone webhook
// over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/enrich"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/ledger"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/provider"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/webhook"
)

const (
	// maxUploadBytes caps spreadsheet uploads and webhook bodies.
	maxUploadBytes = 10 << 20
	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

// Provider is the Apollo surface the routes call.
type Provider interface {
	provider.Enricher
	FindEmail(ctx context.Context, params model.EnrichParams) (string, float64)
	ValidateKey(ctx context.Context) (provider.KeyStatus, error)
	GetOrganization(ctx context.Context, domain string) (*model.Organization, error)
	BatchEnrich(ctx context.Context, people []model.EnrichParams) []model.ProviderBatchItem
}

// ProviderFactory builds a Provider for a caller-supplied API key.
type ProviderFactory func(apiKey string) Provider

// Deps are the collaborators the server routes to.
type Deps struct {
	// Provider serves requests that carry no API key. May be nil when every
	// caller supplies its own key.
	Provider Provider
	// ProviderFor serves requests that carry an API key. May be nil.
	ProviderFor ProviderFactory

	Correlations *ledger.CorrelationStore
	Tracker      *ledger.RequestTracker
	Reconciler   *webhook.Reconciler
	Enrich       enrich.Config
	// Contacts backs contact phone enrichment. May be nil.
	Contacts enrich.ContactStore

	AllowedOrigins []string
}

// Server holds the HTTP handlers.
type Server struct {
	deps Deps
}

// New creates a server over d.
func New(d Deps) *Server {
	return &Server{deps: d}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/apollo", func(r chi.Router) {
		r.Post("/webhook/phone-numbers", s.handlePhoneWebhook)
		r.Get("/webhook/phone-numbers/{identifier}", s.handleGetPhoneNumbers)
		r.Post("/enrich-single", s.handleEnrichSingle)
		r.Post("/enrich-batch", s.handleEnrichBatch)
		r.Post("/upload-and-enrich", s.handleUploadAndEnrich)
		r.Post("/find-email", s.handleFindEmail)
		r.Post("/validate-key", s.handleValidateKey)
		r.Get("/organization/{domain}", s.handleOrganization)
	})
	r.Post("/api/contacts/enrich-phone-numbers", s.handleEnrichContactPhones)

	return r
}

// requestLogger logs each request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			zap.L().Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// providerFor picks the provider for a request key.
func (s *Server) providerFor(apiKey string) Provider {
	if apiKey != "" && s.deps.ProviderFor != nil {
		return s.deps.ProviderFor(apiKey)
	}
	return s.deps.Provider
}

func (s *Server) orchestrator(p Provider) *enrich.Orchestrator {
	return enrich.New(p, s.deps.Correlations, s.deps.Tracker, s.deps.Enrich)
}

// ListenAndServe serves the router on port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}
