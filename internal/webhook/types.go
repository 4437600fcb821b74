package webhook

// Coordinates is a WGS84 point as reported by the field channels.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CollectedData is what the reporting flow gathered from the citizen.
type CollectedData struct {
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Urgency     string      `json:"urgency"`
	Photos      []string    `json:"photos"`
	Coordinates Coordinates `json:"coordinates"`
}

// AIAnalysis carries the triage verdict attached upstream.
type AIAnalysis struct {
	Confidence     float64 `json:"confidence"`
	Priority       string  `json:"priority"`
	Classification string  `json:"classification"`
}

// Incident is the canonical incident representation every inbound payload is
// normalized to. It always matches the full webhook shape.
type Incident struct {
	IncidentID    string        `json:"incident_id"`
	UserPhone     string        `json:"user_phone"`
	CollectedData CollectedData `json:"collected_data"`
	AIAnalysis    AIAnalysis    `json:"ai_analysis"`
	Timestamp     string        `json:"timestamp"`
}

// Urgency levels accepted on inbound payloads.
const (
	UrgencyBaixa   = "baixa"
	UrgencyMedia   = "media"
	UrgencyAlta    = "alta"
	UrgencyCritica = "critica"
)
