package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/matheodrd/httphelper/handler"

	"orbis-relay/internal/insights"
)

func (s *Server) handleKPIs(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.insights.KPIs())
}

func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	filter := insights.Filter{
		Type:   r.URL.Query().Get("type"),
		Region: r.URL.Query().Get("region"),
	}
	s.respondJSON(w, http.StatusOK, s.insights.Occurrences(filter))
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.insights.Regions())
}

func (s *Server) assistantHandler() http.HandlerFunc {
	return handler.Handler(func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return handler.NewErrWithStatus(http.StatusBadRequest, fmt.Errorf("decoding question: %w", err))
		}
		if req.Question == "" {
			return handler.NewErrWithStatus(http.StatusBadRequest, errors.New("missing question"))
		}

		answer, err := s.responder.Ask(r.Context(), req.Question)
		if err != nil {
			return handler.NewErrWithStatus(http.StatusInternalServerError, fmt.Errorf("assistant: %w", err))
		}
		s.respondJSON(w, http.StatusOK, answer)
		return nil
	})
}

func (s *Server) wsHandler() http.HandlerFunc {
	return handler.Handler(func(w http.ResponseWriter, r *http.Request) error {
		if s.WSManager == nil {
			return handler.NewErrWithStatus(http.StatusServiceUnavailable, errors.New("push channel disabled"))
		}

		clientID := r.URL.Query().Get("client_id")
		if clientID == "" {
			return handler.NewErrWithStatus(http.StatusBadRequest, errors.New("missing client_id"))
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return handler.NewErrWithStatus(http.StatusInternalServerError, fmt.Errorf("websocket accept: %w", err))
		}

		s.WSManager.HandleNewConnection(clientID, conn)
		return nil
	})
}
