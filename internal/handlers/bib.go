package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrono-run/chrono-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type BibHandler struct {
	db *gorm.DB
}

func NewBibHandler(db *gorm.DB) *BibHandler {
	return &BibHandler{db: db}
}

type BibIDInput struct {
	ID uint `path:"id" doc:"Bib id"`
}

type BibOutput struct {
	Body models.Bib
}

type BibListOutput struct {
	Body []models.Bib
}

type MessageOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

func message(msg string) *MessageOutput {
	res := &MessageOutput{}
	res.Body.Message = msg
	return res
}

type ListBibsInput struct {
	Available bool `query:"disponible" doc:"Only return available bibs"`
}

func (h *BibHandler) HandleList(ctx context.Context, input *ListBibsInput) (*BibListOutput, error) {
	q := h.db.WithContext(ctx).Order("numero")
	if input.Available {
		q = q.Where("disponible = ?", true)
	}

	bibs := []models.Bib{}
	if err := q.Find(&bibs).Error; err != nil {
		return nil, storeError("list bibs", err)
	}
	return &BibListOutput{Body: bibs}, nil
}

func (h *BibHandler) HandleListAvailable(ctx context.Context, input *struct{}) (*BibListOutput, error) {
	return h.HandleList(ctx, &ListBibsInput{Available: true})
}

type CreateBibInput struct {
	Body struct {
		Number int `json:"numero" minimum:"1" doc:"Printed bib number"`
	}
}

func (h *BibHandler) HandleCreate(ctx context.Context, input *CreateBibInput) (*BibOutput, error) {
	bib := models.Bib{Number: input.Body.Number, Available: true}
	if err := h.db.WithContext(ctx).Create(&bib).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, huma.Error400BadRequest(fmt.Sprintf("Le dossard numéro %d existe déjà.", bib.Number))
		}
		return nil, storeError("create bib", err)
	}
	return &BibOutput{Body: bib}, nil
}

func (h *BibHandler) HandleGet(ctx context.Context, input *BibIDInput) (*BibOutput, error) {
	var bib models.Bib
	if err := h.db.WithContext(ctx).First(&bib, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Dossard non trouvé.")
		}
		return nil, storeError("get bib", err)
	}
	return &BibOutput{Body: bib}, nil
}

func (h *BibHandler) HandleFirstAvailable(ctx context.Context, input *struct{}) (*BibOutput, error) {
	var bib models.Bib
	err := h.db.WithContext(ctx).Where("disponible = ?", true).Order("numero").First(&bib).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Aucun dossard disponible.")
		}
		return nil, storeError("first available bib", err)
	}
	return &BibOutput{Body: bib}, nil
}

type BibByUIDInput struct {
	UID string `path:"uid" doc:"Owner UID"`
}

func (h *BibHandler) HandleGetByUID(ctx context.Context, input *BibByUIDInput) (*BibOutput, error) {
	var bib models.Bib
	if err := h.db.WithContext(ctx).Where("uid = ?", input.UID).First(&bib).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Aucun dossard trouvé pour cet UID.")
		}
		return nil, storeError("get bib by uid", err)
	}
	return &BibOutput{Body: bib}, nil
}

type AssignedBibOutput struct {
	Body struct {
		Message string     `json:"message"`
		Bib     models.Bib `json:"dossard"`
	}
}

type AssignBibInput struct {
	Body struct {
		BibID uint   `json:"iddossard" doc:"Bib to assign"`
		UID   string `json:"uid" minLength:"1" doc:"Owner UID"`
	}
}

func (h *BibHandler) HandleAssign(ctx context.Context, input *AssignBibInput) (*AssignedBibOutput, error) {
	owner := UIDOwner(input.Body.UID)
	bib, err := assignBib(h.db.WithContext(ctx), &input.Body.BibID, owner)
	if err != nil {
		return nil, assignmentError(err, owner)
	}

	res := &AssignedBibOutput{}
	res.Body.Message = "Dossard attribué avec succès."
	res.Body.Bib = bib
	return res, nil
}

type AutoAssignBibInput struct {
	Body struct {
		UID string `json:"uid" minLength:"1" doc:"Owner UID"`
	}
}

func (h *BibHandler) HandleAutoAssign(ctx context.Context, input *AutoAssignBibInput) (*AssignedBibOutput, error) {
	owner := UIDOwner(input.Body.UID)
	bib, err := assignBib(h.db.WithContext(ctx), nil, owner)
	if err != nil {
		return nil, assignmentError(err, owner)
	}

	res := &AssignedBibOutput{}
	res.Body.Message = fmt.Sprintf("Dossard numéro %d attribué avec succès", bib.Number)
	res.Body.Bib = bib
	return res, nil
}

type AssignBibToRunnerInput struct {
	Body struct {
		BibID    uint `json:"dossardId" doc:"Bib to assign"`
		RunnerID uint `json:"coureurId" doc:"Runner receiving the bib"`
	}
}

type AssignBibToRunnerOutput struct {
	Body struct {
		Message   string `json:"message"`
		BibNumber int    `json:"dossard"`
		RunnerID  uint   `json:"coureurId"`
	}
}

func (h *BibHandler) HandleAssignToRunner(ctx context.Context, input *AssignBibToRunnerInput) (*AssignBibToRunnerOutput, error) {
	owner := RunnerOwner(input.Body.RunnerID)
	bib, err := assignBib(h.db.WithContext(ctx), &input.Body.BibID, owner)
	if err != nil {
		return nil, assignmentError(err, owner)
	}

	res := &AssignBibToRunnerOutput{}
	res.Body.Message = fmt.Sprintf("Dossard numéro %d attribué avec succès au coureur ID %d", bib.Number, owner.RunnerID)
	res.Body.BibNumber = bib.Number
	res.Body.RunnerID = owner.RunnerID
	return res, nil
}

// assignmentError maps assignBib failures onto responses. Conflicts are 400
// to stay compatible with existing clients.
func assignmentError(err error, owner Owner) error {
	var held *ownerHasBibError
	switch {
	case errors.As(err, &held):
		if owner.isRunner() {
			return huma.Error400BadRequest(fmt.Sprintf("Ce coureur a déjà le dossard numéro %d", held.number))
		}
		return huma.Error400BadRequest(fmt.Sprintf("Cet UID a déjà le dossard numéro %d", held.number))
	case errors.Is(err, errBibTaken):
		if owner.isRunner() {
			return huma.Error400BadRequest("Dossard déjà attribué à un autre coureur.")
		}
		return huma.Error400BadRequest("Dossard déjà attribué.")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return huma.Error400BadRequest("Ce propriétaire a déjà un dossard.")
	case errors.Is(err, errBibNotFound):
		return huma.Error404NotFound("Dossard non trouvé.")
	case errors.Is(err, errNoBibAvailable):
		return huma.Error404NotFound("Aucun dossard disponible.")
	case errors.Is(err, errRunnerNotFound):
		return huma.Error404NotFound("Coureur non trouvé.")
	default:
		return storeError("assign bib to "+owner.String(), err)
	}
}

type ReleaseBibOutput struct {
	Body struct {
		Message string `json:"message"`
		Number  int    `json:"numero"`
	}
}

func (h *BibHandler) HandleRelease(ctx context.Context, input *BibIDInput) (*ReleaseBibOutput, error) {
	bib, err := releaseBib(h.db.WithContext(ctx), input.ID)
	if err != nil {
		if errors.Is(err, errBibNotFound) {
			return nil, huma.Error404NotFound("Dossard non trouvé.")
		}
		return nil, storeError("release bib", err)
	}

	res := &ReleaseBibOutput{}
	res.Body.Message = "Dossard libéré avec succès"
	res.Body.Number = bib.Number
	return res, nil
}

type AvailabilityInput struct {
	ID   uint `path:"id" doc:"Bib id"`
	Body struct {
		Available *bool `json:"disponible,omitempty" doc:"Desired availability"`
	}
}

type AvailabilityOutput struct {
	Body struct {
		Message   string `json:"message,omitempty"`
		Number    int    `json:"numero"`
		Available bool   `json:"disponible"`
	}
}

func availabilityLabel(available bool) string {
	if available {
		return "disponible"
	}
	return "indisponible"
}

func (h *BibHandler) HandleSetAvailability(ctx context.Context, input *AvailabilityInput) (*AvailabilityOutput, error) {
	if input.Body.Available == nil {
		return nil, huma.Error400BadRequest("La valeur de disponibilité (true/false) doit être fournie.")
	}
	want := *input.Body.Available

	bib, changed, err := setBibAvailability(h.db.WithContext(ctx), input.ID, want)
	if err != nil {
		if errors.Is(err, errBibNotFound) {
			return nil, huma.Error404NotFound("Dossard non trouvé.")
		}
		return nil, storeError("set bib availability", err)
	}

	res := &AvailabilityOutput{}
	if changed {
		res.Body.Message = fmt.Sprintf("Disponibilité du dossard numéro %d mise à jour avec succès.", bib.Number)
	} else {
		res.Body.Message = fmt.Sprintf("Le dossard numéro %d est déjà %s.", bib.Number, availabilityLabel(want))
	}
	res.Body.Number = bib.Number
	res.Body.Available = want
	return res, nil
}

func (h *BibHandler) HandleGetAvailability(ctx context.Context, input *BibIDInput) (*AvailabilityOutput, error) {
	var bib models.Bib
	err := h.db.WithContext(ctx).Select("iddossard", "numero", "disponible").First(&bib, input.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Dossard non trouvé.")
		}
		return nil, storeError("get bib availability", err)
	}

	res := &AvailabilityOutput{}
	res.Body.Number = bib.Number
	res.Body.Available = bib.Available
	return res, nil
}

// HandleUpdate is the PUT form of HandleSetAvailability.
func (h *BibHandler) HandleUpdate(ctx context.Context, input *AvailabilityInput) (*MessageOutput, error) {
	if _, err := h.HandleSetAvailability(ctx, input); err != nil {
		return nil, err
	}
	return message("Mise à jour réussie"), nil
}
