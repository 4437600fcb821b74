package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Defaults applied when the simplified shape omits a field. Each default is
// applied independently of the others.
const (
	DefaultUserPhone  = "+5561000000000"
	DefaultUrgency    = UrgencyMedia
	DefaultConfidence = 85
	DefaultLat        = -15.7942
	DefaultLng        = -47.8822
)

// ErrUnsupportedPayload is returned when a payload matches neither accepted
// webhook shape.
var ErrUnsupportedPayload = errors.New("invalid webhook payload format")

// ExpectedFormats names the accepted shapes; it is surfaced to HTTP callers
// alongside a 400.
var ExpectedFormats = []string{
	"Format 1: {incident_id, collected_data, ai_analysis, ...}",
	"Format 2: {incident_id, type, location, description, ...}",
}

// rawPayload is the superset of both accepted shapes. The full shape nests
// everything under collected_data/ai_analysis; the simplified shape carries
// the same information flat.
type rawPayload struct {
	IncidentID    string         `json:"incident_id"`
	UserPhone     string         `json:"user_phone"`
	CollectedData *CollectedData `json:"collected_data"`
	AIAnalysis    *AIAnalysis    `json:"ai_analysis"`
	Timestamp     string         `json:"timestamp"`

	Type        string       `json:"type"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Urgency     string       `json:"urgency"`
	Photos      []string     `json:"photos"`
	Coordinates *Coordinates `json:"coordinates"`
	Confidence  *float64     `json:"confidence"`
}

// Normalizer converts either accepted webhook shape into an Incident.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewNormalizerWithClock injects the clock used for synthesized timestamps.
func NewNormalizerWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize classifies the JSON body and returns the canonical incident.
// A payload with a collected_data property is taken as the full shape; one
// with both incident_id and type as the simplified shape; anything else is
// rejected with ErrUnsupportedPayload.
func (n *Normalizer) Normalize(body []byte) (*Incident, error) {
	var raw rawPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing webhook payload: %w", err)
	}

	switch {
	case raw.CollectedData != nil:
		return n.fromFull(&raw), nil
	case raw.IncidentID != "" && raw.Type != "":
		return n.fromSimplified(&raw), nil
	default:
		return nil, ErrUnsupportedPayload
	}
}

func (n *Normalizer) fromFull(raw *rawPayload) *Incident {
	inc := &Incident{
		IncidentID:    raw.IncidentID,
		UserPhone:     raw.UserPhone,
		CollectedData: *raw.CollectedData,
		Timestamp:     raw.Timestamp,
	}
	if raw.AIAnalysis != nil {
		inc.AIAnalysis = *raw.AIAnalysis
	}
	if inc.CollectedData.Photos == nil {
		inc.CollectedData.Photos = []string{}
	}
	if inc.Timestamp == "" {
		inc.Timestamp = n.now().Format(time.RFC3339)
	}
	return inc
}

func (n *Normalizer) fromSimplified(raw *rawPayload) *Incident {
	inc := &Incident{
		IncidentID: raw.IncidentID,
		UserPhone:  raw.UserPhone,
		CollectedData: CollectedData{
			Type:        raw.Type,
			Description: raw.Description,
			Location:    raw.Location,
			Urgency:     raw.Urgency,
			Photos:      raw.Photos,
			Coordinates: Coordinates{Lat: DefaultLat, Lng: DefaultLng},
		},
		AIAnalysis: AIAnalysis{
			Confidence:     DefaultConfidence,
			Priority:       raw.Urgency,
			Classification: "validated",
		},
		Timestamp: n.now().Format(time.RFC3339),
	}

	if inc.UserPhone == "" {
		inc.UserPhone = DefaultUserPhone
	}
	if inc.CollectedData.Description == "" {
		inc.CollectedData.Description = fmt.Sprintf("Ocorrência do tipo %s reportada", raw.Type)
	}
	if inc.CollectedData.Urgency == "" {
		inc.CollectedData.Urgency = DefaultUrgency
		inc.AIAnalysis.Priority = DefaultUrgency
	}
	if inc.CollectedData.Photos == nil {
		inc.CollectedData.Photos = []string{}
	}
	if raw.Coordinates != nil {
		inc.CollectedData.Coordinates = *raw.Coordinates
	}
	if raw.Confidence != nil {
		inc.AIAnalysis.Confidence = *raw.Confidence
	}
	return inc
}
