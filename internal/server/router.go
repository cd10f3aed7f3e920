package server

import (
	"net/http"
	"time"

	"movies-etl/internal/routes"
	"movies-etl/pkg/cache"
	"movies-etl/pkg/deps"
	"movies-etl/pkg/signer"
)

type Server struct {
	deps.ServerDeps
}

func New(r deps.Repo, runs deps.Runs, c cache.Cache, signer signer.Codec) *Server {
	return &Server{ServerDeps: deps.ServerDeps{
		Repo:      r,
		Runs:      runs,
		Cache:     c,
		Signer:    signer,
		Name:      "movies-etl",
		StartedAt: time.Now(),
	}}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	sd := s.ServerDeps

	// Endpoints declared here for easy scanning
	mux.HandleFunc("GET /health", routes.Health(sd))
	mux.HandleFunc("POST /runs", routes.TriggerRun(sd))
	mux.HandleFunc("GET /runs/{date}", routes.RunReport(sd))
	mux.HandleFunc("GET /languages", routes.Languages(sd))
	mux.HandleFunc("GET /movies", routes.Movies(sd))

	return withCorrelationID(withLogging(withSecurityHeaders(mux)))
}
