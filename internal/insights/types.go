package insights

import "time"

// KPIMetric is a headline number with its month-over-month trend.
type KPIMetric struct {
	Value int `json:"value"`
	Trend int `json:"trend"`
}

// PredictionMetric is the forecast counter with model accuracy.
type PredictionMetric struct {
	Value    int `json:"value"`
	Accuracy int `json:"accuracy"`
}

type KPIData struct {
	Critical    KPIMetric        `json:"critical"`
	Monitoring  KPIMetric        `json:"monitoring"`
	Resolved    KPIMetric        `json:"resolved"`
	Predictions PredictionMetric `json:"predictions"`
}

// Occurrence is an aggregated disorder cluster shown on the map.
type Occurrence struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Count       int       `json:"count"`
	Priority    string    `json:"priority"`
	Region      string    `json:"region"`
	Description string    `json:"description"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Region struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Occurrences int     `json:"occurrences"`
	Status      string  `json:"status"`
}

// Filter narrows the occurrence listing. Type "critical" selects by
// priority instead of occurrence type; "all" and empty select everything.
type Filter struct {
	Type   string
	Region string
}
