package fanout

import "orbis-relay/internal/webhook"

// IncidentMessage is the envelope published on the incidents channel.
// Origin identifies the relay instance that accepted the incident so an
// instance never re-enqueues its own publishes.
type IncidentMessage struct {
	Data   webhook.Incident `json:"data"`
	Origin string           `json:"origin"`
}
