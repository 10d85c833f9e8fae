package handlers

import (
	"context"
	"time"

	"github.com/chrono-run/chrono-api/internal/models"
	"gorm.io/gorm"
)

type RunnerHandler struct {
	db *gorm.DB
}

func NewRunnerHandler(db *gorm.DB) *RunnerHandler {
	return &RunnerHandler{db: db}
}

// RunnerWithBib is a runner row with the bib it holds, if any.
type RunnerWithBib struct {
	models.Runner
	BibID     *uint `json:"iddossard" gorm:"column:iddossard"`
	BibNumber *int  `json:"dossard" gorm:"column:dossard"`
}

type ListRunnersOutput struct {
	Body []RunnerWithBib
}

func (h *RunnerHandler) HandleList(ctx context.Context, input *struct{}) (*ListRunnersOutput, error) {
	runners := []RunnerWithBib{}
	err := h.db.WithContext(ctx).
		Table("coureurs AS c").
		Select("c.*, d.iddossard, d.numero AS dossard").
		Joins("LEFT JOIN dossards d ON d.idcoureur = c.idcoureur").
		Order("c.idcoureur").
		Scan(&runners).Error
	if err != nil {
		return nil, storeError("list runners", err)
	}
	return &ListRunnersOutput{Body: runners}, nil
}

type RunnerFields struct {
	LastName     string `json:"nomcoureur" doc:"Last name"`
	FirstName    string `json:"prenomcoureur" doc:"First name"`
	BirthDate    string `json:"datenaissance" format:"date" doc:"Birth date (YYYY-MM-DD)"`
	Email        string `json:"email"`
	Phone        string `json:"telephone"`
	PhotoConsent bool   `json:"accordphoto" doc:"Consent to appear in race photos"`
	Present      bool   `json:"present" doc:"Checked in on race day"`
}

func (f RunnerFields) columns() map[string]any {
	return map[string]any{
		"nomcoureur":    f.LastName,
		"prenomcoureur": f.FirstName,
		"datenaissance": f.BirthDate,
		"email":         f.Email,
		"telephone":     f.Phone,
		"accordphoto":   f.PhotoConsent,
		"present":       f.Present,
	}
}

type CreateRunnerInput struct {
	Body RunnerFields
}

type CreateRunnerOutput struct {
	Body struct {
		Message  string `json:"message"`
		RunnerID uint   `json:"idcoureur"`
	}
}

func (h *RunnerHandler) HandleCreate(ctx context.Context, input *CreateRunnerInput) (*CreateRunnerOutput, error) {
	f := input.Body
	runner := models.Runner{
		LastName:     f.LastName,
		FirstName:    f.FirstName,
		BirthDate:    f.BirthDate,
		Email:        f.Email,
		Phone:        f.Phone,
		PhotoConsent: f.PhotoConsent,
		Present:      f.Present,
	}
	if err := h.db.WithContext(ctx).Create(&runner).Error; err != nil {
		return nil, storeError("create runner", err)
	}

	res := &CreateRunnerOutput{}
	res.Body.Message = "Coureur créé avec succès"
	res.Body.RunnerID = runner.ID
	return res, nil
}

type UpdateRunnerInput struct {
	ID   uint `path:"id" doc:"Runner id"`
	Body RunnerFields
}

// HandleUpdate overwrites every field of the runner. An unknown id is not an
// error: the update simply matches no row.
func (h *RunnerHandler) HandleUpdate(ctx context.Context, input *UpdateRunnerInput) (*MessageOutput, error) {
	err := h.db.WithContext(ctx).
		Model(&models.Runner{}).
		Where("idcoureur = ?", input.ID).
		Updates(input.Body.columns()).Error
	if err != nil {
		return nil, storeError("update runner", err)
	}
	return message("Mise à jour réussie"), nil
}

// RunnerRace is one race a runner is registered for.
type RunnerRace struct {
	RaceID       uint          `json:"idcourse" gorm:"column:idcourse"`
	Name         string        `json:"nomcourse" gorm:"column:nomcourse"`
	Date         string        `json:"datecourse" gorm:"column:datecourse"`
	Time         string        `json:"heurecourse" gorm:"column:heurecourse"`
	Distance     float64       `json:"distance" gorm:"column:distance"`
	Location     string        `json:"lieu" gorm:"column:lieu"`
	Status       models.Status `json:"statut" gorm:"column:statut"`
	RegisteredAt time.Time     `json:"dateinscription" gorm:"column:dateinscription"`
	BibNumber    *int          `json:"numerodossard" gorm:"column:numerodossard"`
}

type RunnerIDInput struct {
	ID uint `path:"id" doc:"Runner id"`
}

type RunnerRacesOutput struct {
	Body []RunnerRace
}

func (h *RunnerHandler) HandleRaces(ctx context.Context, input *RunnerIDInput) (*RunnerRacesOutput, error) {
	races := []RunnerRace{}
	err := h.db.WithContext(ctx).
		Table("courses AS c").
		Select("c.idcourse, c.nomcourse, c.datecourse, c.heurecourse, c.distance, c.lieu, i.statut, i.dateinscription, i.numerodossard").
		Joins("INNER JOIN inscriptions i ON c.idcourse = i.idcourse").
		Where("i.idcoureur = ?", input.ID).
		Order("c.datecourse").
		Scan(&races).Error
	if err != nil {
		return nil, storeError("list runner races", err)
	}
	return &RunnerRacesOutput{Body: races}, nil
}
