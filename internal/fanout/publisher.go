package fanout

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"orbis-relay/internal/webhook"
)

// Publisher pushes accepted incidents onto the shared incidents channel so
// sibling relay instances can mirror them into their own pending queues.
// Delivery is best-effort: a publish failure is logged and swallowed, never
// surfaced to the webhook caller.
type Publisher struct {
	logger *slog.Logger
	client *redis.Client
	topic  string
	origin string
}

func NewPublisher(logger *slog.Logger, client *redis.Client, topic, origin string) *Publisher {
	return &Publisher{
		logger: logger,
		client: client,
		topic:  topic,
		origin: origin,
	}
}

func (p *Publisher) Publish(ctx context.Context, inc *webhook.Incident) {
	msg := IncidentMessage{Data: *inc, Origin: p.origin}
	payload, err := json.Marshal(msg)
	if err != nil {
		p.logger.Warn("failed to marshal fan-out message (non-critical)", "error", err)
		return
	}
	if err := p.client.Publish(ctx, p.topic, payload).Err(); err != nil {
		p.logger.Warn("failed to publish incident (non-critical)", "incident_id", inc.IncidentID, "error", err)
	}
}
