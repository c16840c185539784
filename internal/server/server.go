package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/XpoolX/vitalgym-sub000/internal/models"
	"github.com/XpoolX/vitalgym-sub000/internal/progress"
	"github.com/XpoolX/vitalgym-sub000/internal/storage"
	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"
)

// store is the slice of the storage layer the handlers use. *storage.DB
// satisfies it; tests substitute a fake.
type store interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	GetTrainingState(ctx context.Context, userID int) (*storage.TrainingState, error)
	GetRoutine(ctx context.Context, id int) (*models.Routine, error)
	RoutineAssignments(ctx context.Context, routineID int) ([]models.ExerciseAssignment, error)
	RecordSession(ctx context.Context, userID, day int, entries []progress.SessionEntry) (*storage.SessionResult, error)
	GetLastPerformance(ctx context.Context, userID, assignmentID int) (*storage.LastPerformance, error)
	SessionHistory(ctx context.Context, userID, limit int) ([]storage.SessionSummary, error)
	InsertImportedSession(ctx context.Context, session models.Session, exercises []models.SessionExercise) (bool, error)
}

// Compile-time check: *storage.DB satisfies store.
var _ store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     store
	log    *slog.Logger
	apiKey string
	ts     *local.Client
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale wires the tsnet local client used to resolve the calling
// member's identity. Without it, requests resolve to the local dev user.
func (s *Server) SetTailscale(lc *local.Client) {
	s.ts = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Member-facing training API. Identity comes from the transport layer
	// (tsnet whois, or the dev fallback).
	s.router.Route("/api/v1/training", func(r chi.Router) {
		r.Use(s.ResolveUser)
		r.Get("/day", s.handleCurrentDay)
		r.Get("/day/{day}/exercises", s.handleDayExercises)
		r.Post("/sessions", s.handleSubmitSession)
		r.Get("/exercises/{assignmentID}/last", s.handleLastPerformance)
		r.Get("/history", s.handleHistory)
	})

	// Legacy-system import endpoint (API key required).
	s.router.Route("/api/v1/import", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/sessions", s.handleImportSession)
	})

	s.router.With(s.ResolveUser).Get("/api/v1/me", s.handleMe)
}
