package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/chrono-run/chrono-api/internal/models"
	"github.com/chrono-run/chrono-api/internal/notifier"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegistrationHandler struct {
	db       *gorm.DB
	notifier notifier.Notifier
}

// NewRegistrationHandler accepts a nil notifier.
func NewRegistrationHandler(db *gorm.DB, notifier notifier.Notifier) *RegistrationHandler {
	return &RegistrationHandler{db: db, notifier: notifier}
}

type RegistrationRequest struct {
	Body struct {
		RunnerID uint   `json:"idcoureur" doc:"Runner to register"`
		RaceID   uint   `json:"idcourse" doc:"Race to register for"`
		Status   string `json:"statut,omitempty" doc:"registered, waitlisted or cancelled (default registered)"`
	}
}

type RegistrationResponse struct {
	Body struct {
		Message        string        `json:"message"`
		RegistrationID uint          `json:"inscriptionId"`
		Status         models.Status `json:"statut"`
	}
}

// HandleRegister creates a registration. A race at capacity turns the entry
// into a waitlisted one whatever status was requested. Any existing row for
// the pair, cancelled included, is a conflict.
func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegistrationRequest) (*RegistrationResponse, error) {
	status := models.StatusRegistered
	if input.Body.Status != "" {
		s, err := models.ParseStatus(input.Body.Status)
		if err != nil {
			return nil, huma.Error400BadRequest(fmt.Sprintf("Statut invalide: %s", input.Body.Status))
		}
		status = s
	}

	var (
		runner       models.Runner
		race         models.Race
		registration models.Registration
	)
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.Registration{}).
			Where("idcoureur = ? AND idcourse = ?", input.Body.RunnerID, input.Body.RaceID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return errAlreadyRegistered
		}

		// Holding the race row serializes capacity checks for the same race.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&race, input.Body.RaceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRaceNotFound
			}
			return err
		}
		if err := tx.First(&runner, input.Body.RunnerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRunnerNotFound
			}
			return err
		}

		var registered int64
		err = tx.Model(&models.Registration{}).
			Where("idcourse = ? AND statut = ?", race.ID, string(models.StatusRegistered)).
			Count(&registered).Error
		if err != nil {
			return err
		}
		if race.IsFull(registered) {
			status = models.StatusWaitlisted
		}

		registration = models.Registration{
			RunnerID: runner.ID,
			RaceID:   race.ID,
			Status:   status,
		}

		var bib models.Bib
		res := tx.Where("idcoureur = ?", runner.ID).Limit(1).Find(&bib)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			number := bib.Number
			registration.BibNumber = &number
		}

		return tx.Create(&registration).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, errAlreadyRegistered), errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, huma.Error400BadRequest("Ce coureur est déjà inscrit à cette course")
		case errors.Is(err, errRaceNotFound):
			return nil, huma.Error404NotFound("Course non trouvée")
		case errors.Is(err, errRunnerNotFound):
			return nil, huma.Error404NotFound("Coureur non trouvé")
		default:
			return nil, storeError("register runner", err)
		}
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyRegistration(runner, race, registration); err != nil {
			log.Printf("Failed to send registration notification: %v", err)
		}
	}

	res := &RegistrationResponse{}
	res.Body.Message = fmt.Sprintf("Inscription réussie avec le statut: %s", registration.Status)
	res.Body.RegistrationID = registration.ID
	res.Body.Status = registration.Status
	return res, nil
}

type UpdateStatusRequest struct {
	ID   uint `path:"id" doc:"Registration id"`
	Body struct {
		Status string `json:"statut" doc:"registered, waitlisted or cancelled"`
	}
}

type UpdateStatusResponse struct {
	Body struct {
		Message      string              `json:"message"`
		Registration models.Registration `json:"inscription"`
	}
}

func (h *RegistrationHandler) HandleUpdateStatus(ctx context.Context, input *UpdateStatusRequest) (*UpdateStatusResponse, error) {
	status, err := models.ParseStatus(input.Body.Status)
	if err != nil {
		return nil, huma.Error400BadRequest(fmt.Sprintf("Statut invalide: %s", input.Body.Status))
	}

	db := h.db.WithContext(ctx)
	res := db.Model(&models.Registration{}).
		Where("idinscription = ?", input.ID).
		Update("statut", string(status))
	if res.Error != nil {
		return nil, storeError("update registration status", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Inscription non trouvée")
	}

	var registration models.Registration
	if err := db.First(&registration, input.ID).Error; err != nil {
		return nil, storeError("reload registration", err)
	}

	out := &UpdateStatusResponse{}
	out.Body.Message = "Statut mis à jour avec succès"
	out.Body.Registration = registration
	return out, nil
}

type UnregisterRequest struct {
	RunnerID uint `path:"idcoureur" doc:"Runner id"`
	RaceID   uint `path:"idcourse" doc:"Race id"`
}

// HandleUnregister removes the runner from the race. Waitlisted entries are
// not promoted.
func (h *RegistrationHandler) HandleUnregister(ctx context.Context, input *UnregisterRequest) (*MessageOutput, error) {
	res := h.db.WithContext(ctx).
		Where("idcoureur = ? AND idcourse = ?", input.RunnerID, input.RaceID).
		Delete(&models.Registration{})
	if res.Error != nil {
		return nil, storeError("unregister runner", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Inscription non trouvée")
	}
	return message("Désinscription réussie"), nil
}
