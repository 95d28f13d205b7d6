package host

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/yacobolo/cssbundle/internal/reload"
	"github.com/yacobolo/cssbundle/internal/report"
)

// Server is a development server: it serves the output directory, pushes
// change events to reload clients, and rebuilds when an external watcher
// posts the changed path.
type Server struct {
	cfg    Config
	hub    *reload.Hub
	logger *slog.Logger

	mu sync.Mutex
}

// NewServer returns a server for cfg.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{cfg: cfg, hub: reload.NewHub(logger), logger: logger}
}

// Hub returns the reload hub.
func (s *Server) Hub() *reload.Hub {
	return s.hub
}

// Rebuild runs a build triggered by changed. Builds never overlap.
func (s *Server) Rebuild(changed string) (report.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, err := Build(s.cfg, changed, s.hub)
	if err != nil {
		s.logger.Error("rebuild failed", "changed", changed, "error", err)
	} else {
		s.logger.Info("rebuilt", "changed", changed, "files", len(summary.Files), "duration", summary.Duration)
	}
	return summary, err
}

// Handler routes:
//
//	GET  /__reload                 websocket change events
//	POST /__rebuild?changed=<path> rebuild after <path> changed
//	GET  /...                      files from the output directory
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /__reload", s.hub)
	mux.HandleFunc("POST /__rebuild", s.handleRebuild)
	mux.Handle("GET /", http.FileServer(http.Dir(s.cfg.OutDir)))
	return mux
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Rebuild(r.URL.Query().Get("changed"))

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
	if err := report.WriteJSON(w, summary); err != nil {
		s.logger.Debug("write rebuild response failed", "error", err)
	}
}
