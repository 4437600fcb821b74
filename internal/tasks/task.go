package tasks

import "orbis-relay/internal/webhook"

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Columns is the board column order.
var Columns = []Status{StatusTodo, StatusInProgress, StatusDone}

type Source string

const (
	// SourcePopulation marks tasks created from citizen webhook reports.
	SourcePopulation Source = "population"
	// SourceSatellite marks tasks created from satellite detection flows.
	SourceSatellite Source = "satellite"
)

// Task is the board-facing projection of an incident or a manual entry.
type Task struct {
	ID             string               `json:"id"`
	IncidentID     string               `json:"incident_id,omitempty"`
	Source         Source               `json:"source"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Type           string               `json:"type"`
	Priority       string               `json:"priority"`
	Status         Status               `json:"status"`
	Assignee       string               `json:"assignee"`
	Location       string               `json:"location"`
	Coordinates    *webhook.Coordinates `json:"coordinates,omitempty"`
	DueDate        string               `json:"dueDate"`
	CreatedAt      string               `json:"createdAt"`
	AIConfidence   float64              `json:"aiConfidence"`
	UserPhone      string               `json:"userPhone,omitempty"`
	Photos         []string             `json:"photos,omitempty"`
	Classification string               `json:"classification,omitempty"`
}
