package tasks

import (
	"time"

	"orbis-relay/internal/webhook"
)

var typeMapping = map[string]string{
	"lixo":       "trash",
	"iluminacao": "lighting",
	"crime":      "crime",
	"incendio":   "fire",
	"inundacao":  "flood",
}

var priorityMapping = map[string]string{
	"baixa":   "Baixa",
	"media":   "Média",
	"alta":    "Alta",
	"critica": "Crítica",
}

var titleMapping = map[string]string{
	"trash":    "Limpeza de resíduos reportada",
	"lighting": "Problema de iluminação reportado",
	"crime":    "Ocorrência criminal reportada",
	"fire":     "Risco de incêndio reportado",
	"flood":    "Risco de inundação reportado",
}

const defaultAssignee = "Aguardando atribuição"

// FromIncident projects a normalized incident onto a board task. The mapping
// is pure: the same incident always yields the same type, priority, title
// and status.
func FromIncident(inc *webhook.Incident) Task {
	mappedType, ok := typeMapping[inc.CollectedData.Type]
	if !ok {
		mappedType = "trash"
	}
	mappedPriority, ok := priorityMapping[inc.AIAnalysis.Priority]
	if !ok {
		mappedPriority = "Média"
	}

	createdAt, err := time.Parse(time.RFC3339, inc.Timestamp)
	if err != nil {
		createdAt = time.Now()
	}

	coords := inc.CollectedData.Coordinates
	return Task{
		ID:             inc.IncidentID,
		IncidentID:     inc.IncidentID,
		Source:         SourcePopulation,
		Title:          titleMapping[mappedType],
		Description:    inc.CollectedData.Description,
		Type:           mappedType,
		Priority:       mappedPriority,
		Status:         StatusTodo,
		Assignee:       defaultAssignee,
		Location:       inc.CollectedData.Location,
		Coordinates:    &coords,
		DueDate:        createdAt.AddDate(0, 0, 7).Format(time.DateOnly),
		CreatedAt:      createdAt.Format(time.DateOnly),
		AIConfidence:   inc.AIAnalysis.Confidence,
		UserPhone:      inc.UserPhone,
		Photos:         inc.CollectedData.Photos,
		Classification: inc.AIAnalysis.Classification,
	}
}
