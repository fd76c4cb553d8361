package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"procurement/internal/api"
	"procurement/internal/board"
	"procurement/pkg/config"
)

type Dependencies struct {
	Cfg      config.Config
	Boards   *board.Registry
	Progress *board.ProgressTracker
	Log      *zap.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(api.RequestLogger(deps.Log))
	r.Use(api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins: deps.Cfg.CORSAllowedOrigins,
		MaxAgeSeconds:  600,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h := board.Handlers{Boards: deps.Boards, Progress: deps.Progress}

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Get("/orders/{id}/progress", h.OrderProgress)

		// User-scoped board state
		r.Group(func(r chi.Router) {
			r.Use(api.UserIdentity(deps.Cfg.AppEnv))

			r.Get("/board", h.Get)
			r.Patch("/board/page", h.PatchPage)
			r.Patch("/board/sort", h.PatchSort)
			r.Patch("/board/search", h.PatchSearch)

			r.Post("/board/filters/{key}/toggle", h.ToggleFilter)
			r.Put("/board/filters/{key}/selection", h.PutSelection)
			r.Put("/board/filters/{key}/range", h.PutRange)
			r.Delete("/board/filters", h.ResetFilters)

			r.Get("/board/presets", h.ListPresets)
			r.Post("/board/presets", h.SavePreset)
			r.Put("/board/presets/{key}", h.UpdatePreset)
			r.Delete("/board/presets/{key}", h.DeletePreset)
			r.Post("/board/presets/{key}/toggle", h.TogglePreset)

			r.Get("/board/columns", h.GetColumns)
			r.Put("/board/columns", h.PutColumns)

			r.Post("/board/candidates/reload", h.ReloadCandidates)
			r.Get("/board/notifications", h.Notifications)
		})
	})

	return r
}
