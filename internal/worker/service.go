package worker

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/thebtf/surveyor/internal/config"
	dbgorm "github.com/thebtf/surveyor/internal/db/gorm"
	"github.com/thebtf/surveyor/internal/worker/sse"
	"github.com/thebtf/surveyor/pkg/normalize"
	"github.com/thebtf/surveyor/pkg/similarity"
)

// Service is the surveyor HTTP service: survey and response CRUD, processing
// triggers, grouping reads, and corrections.
type Service struct {
	version        string
	config         *config.Config
	store          *dbgorm.Store
	surveyStore    *dbgorm.SurveyStore
	responseStore  *dbgorm.ResponseStore
	groupingStore  *dbgorm.GroupingStore
	jobStore       *dbgorm.JobStore
	processor      *Processor
	sseBroadcaster *sse.Broadcaster
	router         chi.Router
	ctx            context.Context
	cancel         context.CancelFunc
	startTime      time.Time
	ready          atomic.Bool
}

// NewService wires stores, clusterer, processor, and routes.
func NewService(version string, cfg *config.Config, store *dbgorm.Store) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	surveyStore := dbgorm.NewSurveyStore(store)
	responseStore := dbgorm.NewResponseStore(store)
	groupingStore := dbgorm.NewGroupingStore(store)
	jobStore := dbgorm.NewJobStore(store)

	normalizer := normalize.New(cfg.StemAnswers)
	clusterer := similarity.NewClusterer(normalizer, cfg.SimilarityThreshold)
	broadcaster := sse.NewBroadcaster()
	processor := NewProcessor(responseStore, groupingStore, jobStore, clusterer, broadcaster, cfg.Workers)

	svc := &Service{
		version:        version,
		config:         cfg,
		store:          store,
		surveyStore:    surveyStore,
		responseStore:  responseStore,
		groupingStore:  groupingStore,
		jobStore:       jobStore,
		processor:      processor,
		sseBroadcaster: broadcaster,
		router:         chi.NewRouter(),
		ctx:            ctx,
		cancel:         cancel,
		startTime:      time.Now(),
	}

	svc.setupRoutes()
	return svc
}

// Router returns the service's HTTP router.
func (s *Service) Router() chi.Router {
	return s.router
}

// setupRoutes registers all HTTP routes.
func (s *Service) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/events", s.sseBroadcaster.HandleSSE)
		r.Get("/jobs/{jobID}", s.handleGetJob)

		r.Route("/surveys", func(r chi.Router) {
			r.Post("/", s.handleCreateSurvey)
			r.Get("/", s.handleListSurveys)

			r.Route("/{surveyID}", func(r chi.Router) {
				r.Get("/", s.handleGetSurvey)
				r.Put("/", s.handleUpdateSurvey)
				r.Delete("/", s.handleDeleteSurvey)

				r.Post("/responses", s.handleSubmitResponse)
				r.Get("/responses", s.handleListResponses)

				r.Post("/process", s.handleProcessSurvey)
				r.Get("/grouping", s.handleGetGrouping)
				r.Post("/grouping/rename", s.handleRenameGroup)
			})
		})
	})
}

// Run starts the worker pool and HTTP server and blocks until ctx is
// cancelled or the server fails.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.HTTPPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.processor.Start(ctx)
		if err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info().Int("port", s.config.HTTPPort).Str("version", s.version).Msg("HTTP server listening")
		s.ready.Store(true)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}

// Close releases service resources.
func (s *Service) Close() {
	s.cancel()
}
