package fanout

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"orbis-relay/internal/queue"
)

// Subscriber consumes the incidents channel and mirrors incidents accepted
// by other relay instances into the local pending queue.
type Subscriber struct {
	logger *slog.Logger
	client *redis.Client
	topic  string
	origin string
	queue  *queue.Queue
}

func NewSubscriber(logger *slog.Logger, client *redis.Client, topic, origin string, q *queue.Queue) *Subscriber {
	return &Subscriber{
		logger: logger,
		client: client,
		topic:  topic,
		origin: origin,
		queue:  q,
	}
}

func (s *Subscriber) Start(ctx context.Context) error {
	s.logger.Info("incident subscriber is running", "topic", s.topic)
	pubsub := s.client.Subscribe(ctx, s.topic)
	defer func() {
		if err := pubsub.Close(); err != nil {
			s.logger.Warn("failed to close pubsub", "error", err)
		}
	}()

	msgCh := pubsub.Channel()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				s.logger.Warn("pubsub channel closed by Redis")
				return nil
			}
			if err := s.handleMessage(msg); err != nil {
				s.logger.Error("error handling message", "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("shutting down incident subscriber")
			return nil
		}
	}
}

func (s *Subscriber) handleMessage(msg *redis.Message) error {
	var incident IncidentMessage
	if err := json.Unmarshal([]byte(msg.Payload), &incident); err != nil {
		return err
	}
	if incident.Origin == s.origin {
		// Our own publish coming back around; it is already queued locally.
		return nil
	}
	entry := s.queue.Enqueue(&incident.Data)
	s.logger.Debug("mirrored incident from sibling instance", "id", entry.ID, "origin", incident.Origin)
	return nil
}
