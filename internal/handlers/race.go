package handlers

import (
	"context"
	"time"

	"github.com/chrono-run/chrono-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type RaceHandler struct {
	db *gorm.DB
}

func NewRaceHandler(db *gorm.DB) *RaceHandler {
	return &RaceHandler{db: db}
}

type ListRacesOutput struct {
	Body []models.Race
}

func (h *RaceHandler) HandleList(ctx context.Context, input *struct{}) (*ListRacesOutput, error) {
	races := []models.Race{}
	if err := h.db.WithContext(ctx).Order("datecourse").Find(&races).Error; err != nil {
		return nil, storeError("list races", err)
	}
	return &ListRacesOutput{Body: races}, nil
}

type CreateRaceInput struct {
	Body struct {
		Name            string  `json:"nomcourse" minLength:"1"`
		Date            string  `json:"datecourse" format:"date" doc:"Race date (YYYY-MM-DD)"`
		Time            string  `json:"heurecourse,omitempty" doc:"Start time (HH:MM)"`
		Distance        float64 `json:"distance,omitempty" minimum:"0" doc:"Distance in km"`
		Description     string  `json:"description,omitempty"`
		Location        string  `json:"lieu,omitempty"`
		Price           float64 `json:"prix,omitempty" minimum:"0"`
		MaxParticipants *int    `json:"maxparticipants,omitempty" minimum:"0" doc:"Capacity; omit or 0 for unlimited"`
	}
}

type CreateRaceOutput struct {
	Body struct {
		Message string `json:"message"`
		RaceID  uint   `json:"idcourse"`
	}
}

func (h *RaceHandler) HandleCreate(ctx context.Context, input *CreateRaceInput) (*CreateRaceOutput, error) {
	b := input.Body
	race := models.Race{
		Name:            b.Name,
		Date:            b.Date,
		Time:            b.Time,
		Distance:        b.Distance,
		Description:     b.Description,
		Location:        b.Location,
		Price:           b.Price,
		MaxParticipants: b.MaxParticipants,
	}
	if err := h.db.WithContext(ctx).Create(&race).Error; err != nil {
		return nil, storeError("create race", err)
	}

	res := &CreateRaceOutput{}
	res.Body.Message = "Course créée avec succès"
	res.Body.RaceID = race.ID
	return res, nil
}

type RaceIDInput struct {
	ID uint `path:"id" doc:"Race id"`
}

// Participant is a runner registered for a race, with their bib if any.
type Participant struct {
	RunnerID     uint          `json:"idcoureur" gorm:"column:idcoureur"`
	LastName     string        `json:"nomcoureur" gorm:"column:nomcoureur"`
	FirstName    string        `json:"prenomcoureur" gorm:"column:prenomcoureur"`
	Email        string        `json:"email" gorm:"column:email"`
	Status       models.Status `json:"statut" gorm:"column:statut"`
	RegisteredAt time.Time     `json:"dateinscription" gorm:"column:dateinscription"`
	BibNumber    *int          `json:"numerodossard" gorm:"column:numerodossard"`
}

type ParticipantsOutput struct {
	Body []Participant
}

func (h *RaceHandler) HandleParticipants(ctx context.Context, input *RaceIDInput) (*ParticipantsOutput, error) {
	participants := []Participant{}
	err := h.db.WithContext(ctx).
		Table("coureurs AS cr").
		Select("cr.idcoureur, cr.nomcoureur, cr.prenomcoureur, cr.email, i.statut, i.dateinscription, d.numero AS numerodossard").
		Joins("INNER JOIN inscriptions i ON cr.idcoureur = i.idcoureur").
		Joins("LEFT JOIN dossards d ON cr.idcoureur = d.idcoureur").
		Where("i.idcourse = ?", input.ID).
		Order("cr.nomcoureur, cr.prenomcoureur").
		Scan(&participants).Error
	if err != nil {
		return nil, storeError("list race participants", err)
	}
	return &ParticipantsOutput{Body: participants}, nil
}

type RaceStats struct {
	Name            string `json:"nomcourse" gorm:"column:nomcourse"`
	MaxParticipants *int   `json:"maxparticipants" gorm:"column:maxparticipants"`
	Registered      int64  `json:"inscrits" gorm:"column:inscrits"`
	Waitlisted      int64  `json:"liste_attente" gorm:"column:liste_attente"`
	Cancelled       int64  `json:"annules" gorm:"column:annules"`
	Total           int64  `json:"total_inscriptions" gorm:"column:total_inscriptions"`
}

type RaceStatsOutput struct {
	Body RaceStats
}

const raceStatsQuery = `
SELECT
	c.nomcourse,
	c.maxparticipants,
	COUNT(CASE WHEN i.statut = ? THEN 1 END) AS inscrits,
	COUNT(CASE WHEN i.statut = ? THEN 1 END) AS liste_attente,
	COUNT(CASE WHEN i.statut = ? THEN 1 END) AS annules,
	COUNT(i.idinscription) AS total_inscriptions
FROM courses c
LEFT JOIN inscriptions i ON c.idcourse = i.idcourse
WHERE c.idcourse = ?
GROUP BY c.idcourse, c.nomcourse, c.maxparticipants`

func (h *RaceHandler) HandleStats(ctx context.Context, input *RaceIDInput) (*RaceStatsOutput, error) {
	var stats RaceStats
	res := h.db.WithContext(ctx).Raw(raceStatsQuery,
		string(models.StatusRegistered),
		string(models.StatusWaitlisted),
		string(models.StatusCancelled),
		input.ID,
	).Scan(&stats)
	if res.Error != nil {
		return nil, storeError("race stats", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Course non trouvée")
	}
	return &RaceStatsOutput{Body: stats}, nil
}
