package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"orbis-relay/internal/queue"
	"orbis-relay/internal/webhook"
	"orbis-relay/internal/ws"
)

// maxPayloadBytes bounds inbound webhook bodies; reports with photo
// references stay far under this.
const maxPayloadBytes = 1 << 20

// errBodyRead marks an I/O failure while reading the request body, which is
// the server's 500, not the caller's 400.
var errBodyRead = errors.New("failed to read request body")

// acceptIncident runs the shared ingress path: normalize, enqueue, then
// best-effort fan-out and push. Fan-out failures never fail the caller.
func (s *Server) acceptIncident(r *http.Request) (queue.Entry, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		return queue.Entry{}, fmt.Errorf("%w: %v", errBodyRead, err)
	}

	inc, err := s.normalizer.Normalize(body)
	if err != nil {
		return queue.Entry{}, err
	}

	entry := s.queue.Enqueue(inc)
	s.logger.Info("webhook accepted",
		"incident_id", entry.ID,
		"type", inc.CollectedData.Type,
		"urgency", inc.CollectedData.Urgency,
		"queue_length", s.queue.Len(),
	)

	if s.Publisher != nil {
		s.Publisher.Publish(r.Context(), inc)
	}
	if s.WSManager != nil {
		if payload, err := json.Marshal(entry); err == nil {
			s.WSManager.Broadcast(ws.Message{Type: "incident", Data: payload})
		}
	}
	return entry, nil
}

// respondIngressError maps normalization failures onto the 400 contract:
// unsupported shapes get the expected-format hint, anything else surfaces
// the parse error message.
func (s *Server) respondIngressError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyRead) {
		s.logger.Error("webhook body read failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if errors.Is(err, webhook.ErrUnsupportedPayload) {
		s.respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":            webhook.ErrUnsupportedPayload.Error(),
			"expected_formats": webhook.ExpectedFormats,
		})
		return
	}
	s.respondError(w, http.StatusBadRequest, err.Error())
}

// POST /webhook-handler: primary ingress, accepts both payload shapes.
func (s *Server) handleWebhookIngress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.")
		return
	}

	entry, err := s.acceptIncident(r)
	if err != nil {
		s.respondIngressError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Webhook processed successfully",
		"incident_id":  entry.IncidentID,
		"timestamp":    time.Now().Format(time.RFC3339),
		"status":       "received",
		"queue_length": s.queue.Len(),
	})
}

// /webhook-checker: legacy single-shot queue. GET drains everything it
// returns, so only a single consumer can use it safely.
func (s *Server) handleWebhookChecker(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		drained := s.queue.Drain()
		if drained == nil {
			drained = []queue.Entry{}
		}
		s.respondJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"webhooks":  drained,
			"count":     len(drained),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	case http.MethodPost:
		entry, err := s.acceptIncident(r)
		if err != nil {
			s.respondIngressError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"message":      "Webhook added to queue",
			"incident_id":  entry.IncidentID,
			"queue_length": s.queue.Len(),
		})
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// /webhook-inject: cursor-based queue, the canonical egress. GET never
// mutates entries; clients persist current_timestamp as their next cursor.
func (s *Server) handleWebhookInject(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		since, err := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
		if err != nil {
			since = 0
		}
		// The queue computes the cursor under the listing lock. Taking a
		// timestamp out here would let a concurrent enqueue land at or
		// below the cursor without appearing in this response.
		entries, cursor := s.queue.Poll(since)
		s.respondJSON(w, http.StatusOK, map[string]any{
			"success":           true,
			"webhooks":          entries,
			"count":             len(entries),
			"total_in_queue":    s.queue.Len(),
			"current_timestamp": cursor,
			"timestamp":         time.Now().Format(time.RFC3339),
		})
	case http.MethodPost:
		entry, err := s.acceptIncident(r)
		if err != nil {
			s.respondIngressError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"message":      "Webhook queued for injection",
			"incident_id":  entry.IncidentID,
			"queue_length": s.queue.Len(),
		})
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
