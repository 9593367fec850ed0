package httpapi

import (
	"context"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/usecase/workshop"
)

// WorkshopService is the part of workshop.Service the REST adapter drives.
type WorkshopService interface {
	RegisterJob(ctx context.Context, input workshop.RegisterJobInput) (domain.Job, error)
	GetJob(ctx context.Context, jobID string) (domain.Job, error)
	RegisterTechnician(ctx context.Context, technicianID string, name string) error
	CreateIntakeStatus(ctx context.Context, input workshop.IntakeInput) (domain.EquipmentStatus, error)
	RecordTransition(ctx context.Context, input workshop.TransitionInput) (domain.EquipmentStatus, error)
	AllowedTransitions(ctx context.Context, jobID string) ([]domain.Status, error)
	GetStatus(ctx context.Context, jobID string) (domain.EquipmentStatus, error)
	GetHistory(ctx context.Context, jobID string) ([]domain.HistoryEntry, error)
	ClaimJob(ctx context.Context, input workshop.ClaimInput) (domain.Job, error)
	ReleaseJob(ctx context.Context, input workshop.ReleaseInput) (domain.Job, error)
	Queue(ctx context.Context, filter workshop.QueueFilter) (iter.Seq[domain.QueueEntry], error)
	GetMetrics(ctx context.Context, window domain.DateRange) (domain.Metrics, error)
	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (domain.Settings, error)
}

var _ WorkshopService = (*workshop.Service)(nil)

type handler struct {
	svc WorkshopService
}

// NewRouter mounts the workshop REST routes. baseCtx carries the logger and
// attrs every request log inherits.
func NewRouter(baseCtx context.Context, svc WorkshopService) http.Handler {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(baseCtx))

	r.Get("/healthz", h.handleHealth)

	r.Post("/technicians", h.handleRegisterTechnician)

	r.Route("/jobs", func(r chi.Router) {
		r.Post("/", h.handleRegisterJob)
		r.Route("/{jobID}", func(r chi.Router) {
			r.Get("/", h.handleGetJob)
			r.Post("/intake", h.handleIntake)
			r.Get("/status", h.handleGetStatus)
			r.Get("/history", h.handleGetHistory)
			r.Get("/transitions", h.handleAllowedTransitions)
			r.Post("/transitions", h.handleRecordTransition)
			r.Post("/claim", h.handleClaim)
			r.Post("/release", h.handleRelease)
		})
	})

	r.Get("/queue", h.handleQueue)
	r.Get("/metrics", h.handleMetrics)
	r.Get("/settings", h.handleGetSettings)
	r.Put("/settings", h.handleUpdateSettings)

	return r
}

// requestLogger threads the base logger into each request context, tagged
// with the chi request id, and logs one line per request.
func requestLogger(baseCtx context.Context) func(http.Handler) http.Handler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	base := logging.Logger(baseCtx)
	baseAttrs := logging.Attrs(baseCtx)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.WithLogger(r.Context(), base)
			ctx = logging.WithAttrs(ctx, baseAttrs...)
			ctx = logging.WithTelemetry(ctx, middleware.GetReqID(r.Context()), "")
			ctx = logging.WithAttrs(ctx, slog.String("component", "transport.http"))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			logging.Info(
				ctx,
				"http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("elapsed", time.Since(started)),
			)
		})
	}
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
