package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	gameHandler "github.com/maelik/dungeonmaster/internal/handler/game"
	"github.com/maelik/dungeonmaster/internal/middleware"
	gameService "github.com/maelik/dungeonmaster/internal/service/game"
	"github.com/maelik/dungeonmaster/web"
)

// NewRouter wires HTTP routes to the gateway and serves the embedded UI.
func NewRouter(gameSvc *gameService.Service, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	h := gameHandler.New(gameSvc, log)
	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Handle("/*", http.FileServer(http.FS(web.FS())))

	return r
}
