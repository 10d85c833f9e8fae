package models

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusRegistered Status = "registered"
	StatusWaitlisted Status = "waitlisted"
	StatusCancelled  Status = "cancelled"
)

// Values written by older clients.
var legacyStatuses = map[string]Status{
	"inscrit":       StatusRegistered,
	"liste_attente": StatusWaitlisted,
	"annule":        StatusCancelled,
}

// ParseStatus normalises s into one of the known statuses.
func ParseStatus(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch Status(v) {
	case StatusRegistered, StatusWaitlisted, StatusCancelled:
		return Status(v), nil
	}
	if st, ok := legacyStatuses[v]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown registration status %q", s)
}

// Registration links a runner to a race ("inscription"). BibNumber is a
// snapshot of the runner's bib at registration time.
type Registration struct {
	ID           uint      `json:"idinscription" gorm:"column:idinscription;primaryKey"`
	RunnerID     uint      `json:"idcoureur" gorm:"column:idcoureur;uniqueIndex:idx_runner_race"`
	RaceID       uint      `json:"idcourse" gorm:"column:idcourse;uniqueIndex:idx_runner_race"`
	Status       Status    `json:"statut" gorm:"column:statut"`
	RegisteredAt time.Time `json:"dateinscription" gorm:"column:dateinscription;autoCreateTime"`
	BibNumber    *int      `json:"numerodossard" gorm:"column:numerodossard"`
}

func (Registration) TableName() string { return "inscriptions" }
