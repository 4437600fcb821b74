package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"orbis-relay/internal/assistant"
	"orbis-relay/internal/config"
	"orbis-relay/internal/fanout"
	"orbis-relay/internal/insights"
	"orbis-relay/internal/queue"
	"orbis-relay/internal/webhook"
	"orbis-relay/internal/ws"
)

type Server struct {
	Config     *config.Config
	logger     *slog.Logger
	queue      *queue.Queue
	normalizer *webhook.Normalizer
	insights   *insights.Service
	responder  assistant.Responder

	// Optional collaborators, set before Start. Nil disables the feature.
	Publisher *fanout.Publisher
	WSManager *ws.Manager
}

func NewServer(conf *config.Config, logger *slog.Logger, q *queue.Queue) *Server {
	return &Server{
		Config:     conf,
		logger:     logger,
		queue:      q,
		normalizer: webhook.NewNormalizer(),
		insights:   insights.NewService(),
		responder:  assistant.NewCanned(),
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate;")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("API server is started.")); err != nil {
		s.logger.Error(fmt.Sprintf("Error writing response: %v", err))
	}
}

// Router builds the full HTTP surface. Exposed so tests can drive the server
// through httptest without binding a port.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("/webhook-handler", s.handleWebhookIngress)
	mux.HandleFunc("/webhook-checker", s.handleWebhookChecker)
	mux.HandleFunc("/webhook-inject", s.handleWebhookInject)

	mux.HandleFunc("GET /api/kpis", s.handleKPIs)
	mux.HandleFunc("GET /api/occurrences", s.handleOccurrences)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("POST /api/assistant", s.assistantHandler())

	mux.HandleFunc("GET /ws", s.wsHandler())

	return s.cors(mux)
}

// cors keeps every response open to any origin and short-circuits preflight
// requests with an empty 200, matching the public webhook contract.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Action")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    net.JoinHostPort(s.Config.APIServerHost, s.Config.APIServerPort),
		Handler: s.Router(),
	}

	go func() {
		s.logger.Info("API server is running", "port", s.Config.APIServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("API server failed to listen and serve", "error", err)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("API server failed to shutdown", "error", err)
		}
	}()

	wg.Wait()
	return nil
}
