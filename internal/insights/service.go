// Package insights serves the dashboard's aggregate panels. The dataset is a
// curated snapshot of the Distrito Federal disorder clusters; it is static
// until a real analytics backend replaces it.
package insights

import (
	"strings"
	"time"
)

type Service struct {
	kpis        KPIData
	occurrences []Occurrence
	regions     []Region
}

func NewService() *Service {
	return &Service{
		kpis:        seedKPIs,
		occurrences: seedOccurrences,
		regions:     seedRegions,
	}
}

func (s *Service) KPIs() KPIData {
	return s.kpis
}

// Occurrences lists map clusters, optionally filtered by type and region.
func (s *Service) Occurrences(filter Filter) []Occurrence {
	out := make([]Occurrence, 0, len(s.occurrences))
	for _, o := range s.occurrences {
		if !matchesType(o, filter.Type) {
			continue
		}
		if filter.Region != "" && !strings.Contains(strings.ToLower(o.Region), strings.ToLower(filter.Region)) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (s *Service) Regions() []Region {
	out := make([]Region, len(s.regions))
	copy(out, s.regions)
	return out
}

func matchesType(o Occurrence, typ string) bool {
	switch typ {
	case "", "all":
		return true
	case "critical":
		return o.Priority == "high"
	default:
		return o.Type == typ
	}
}

var seedKPIs = KPIData{
	Critical:    KPIMetric{Value: 47, Trend: 12},
	Monitoring:  KPIMetric{Value: 156, Trend: -8},
	Resolved:    KPIMetric{Value: 289, Trend: 24},
	Predictions: PredictionMetric{Value: 78, Accuracy: 92},
}

var seedOccurrences = []Occurrence{
	{
		ID:          "1",
		Type:        "lighting",
		Count:       45,
		Priority:    "high",
		Region:      "Taguatinga",
		Description: "Iluminação pública deficiente na região central",
		Lat:         -15.8386,
		Lng:         -48.0494,
		Status:      "pending",
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:          "2",
		Type:        "waste",
		Count:       32,
		Priority:    "medium",
		Region:      "Ceilândia",
		Description: "Acúmulo de lixo em pontos específicos",
		Lat:         -15.8159,
		Lng:         -48.1070,
		Status:      "in_progress",
		CreatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:          "3",
		Type:        "construction",
		Count:       28,
		Priority:    "high",
		Region:      "Sobradinho",
		Description: "Construções irregulares identificadas",
		Lat:         -15.6533,
		Lng:         -47.7869,
		Status:      "pending",
		CreatedAt:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:          "4",
		Type:        "degraded",
		Count:       18,
		Priority:    "low",
		Region:      "Plano Piloto",
		Description: "Áreas com degradação urbana",
		Lat:         -15.7801,
		Lng:         -47.9292,
		Status:      "resolved",
		CreatedAt:   time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC),
	},
}

var seedRegions = []Region{
	{ID: "1", Name: "Taguatinga", Lat: -15.8386, Lng: -48.0494, Occurrences: 45, Status: "critical"},
	{ID: "2", Name: "Ceilândia", Lat: -15.8159, Lng: -48.1070, Occurrences: 32, Status: "warning"},
	{ID: "3", Name: "Sobradinho", Lat: -15.6533, Lng: -47.7869, Occurrences: 28, Status: "warning"},
	{ID: "4", Name: "Plano Piloto", Lat: -15.7801, Lng: -47.9292, Occurrences: 18, Status: "normal"},
}
