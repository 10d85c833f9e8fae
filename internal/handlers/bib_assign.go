package handlers

import (
	"errors"
	"fmt"

	"github.com/chrono-run/chrono-api/internal/models"
	"gorm.io/gorm"
)

type OwnerKind int

const (
	OwnerUID OwnerKind = iota
	OwnerRunner
)

// Owner identifies who holds a bib: an opaque UID (timing chip, badge) or a
// runner id. Each kind is stored in its own column.
type Owner struct {
	Kind     OwnerKind
	UID      string
	RunnerID uint
}

func UIDOwner(uid string) Owner { return Owner{Kind: OwnerUID, UID: uid} }
func RunnerOwner(id uint) Owner { return Owner{Kind: OwnerRunner, RunnerID: id} }
func (o Owner) isRunner() bool  { return o.Kind == OwnerRunner }
func (o Owner) String() string {
	if o.isRunner() {
		return fmt.Sprintf("runner %d", o.RunnerID)
	}
	return fmt.Sprintf("uid %q", o.UID)
}

func (o Owner) column() string {
	if o.isRunner() {
		return "idcoureur"
	}
	return "uid"
}

func (o Owner) value() any {
	if o.isRunner() {
		return o.RunnerID
	}
	return o.UID
}

// ownerHasBibError reports the bib an owner already holds.
type ownerHasBibError struct {
	owner  Owner
	number int
}

func (e *ownerHasBibError) Error() string {
	return fmt.Sprintf("%s already holds bib %d", e.owner, e.number)
}

// assignBib gives a bib to owner. With a nil bibID the smallest available
// number is picked. The whole sequence runs in one transaction and the final
// update only matches a still-available bib, so a concurrent assignment
// surfaces as errBibTaken rather than overwriting the other owner.
func assignBib(tx *gorm.DB, bibID *uint, owner Owner) (models.Bib, error) {
	var bib models.Bib
	err := tx.Transaction(func(tx *gorm.DB) error {
		if bibID != nil {
			if err := tx.First(&bib, *bibID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errBibNotFound
				}
				return err
			}
			if !bib.Available {
				return errBibTaken
			}
		}

		if owner.isRunner() {
			var runner models.Runner
			if err := tx.Select("idcoureur").First(&runner, owner.RunnerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errRunnerNotFound
				}
				return err
			}
		}

		var held models.Bib
		res := tx.Where(owner.column()+" = ?", owner.value()).Limit(1).Find(&held)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return &ownerHasBibError{owner: owner, number: held.Number}
		}

		if bibID == nil {
			if err := tx.Where("disponible = ?", true).Order("numero").First(&bib).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errNoBibAvailable
				}
				return err
			}
		}

		return claimBib(tx, &bib, owner)
	})
	return bib, err
}

// claimBib flips bib to assigned only if it is still available.
func claimBib(tx *gorm.DB, bib *models.Bib, owner Owner) error {
	res := tx.Model(&models.Bib{}).
		Where("iddossard = ? AND disponible = ?", bib.ID, true).
		Updates(map[string]any{"disponible": false, owner.column(): owner.value()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errBibTaken
	}

	bib.Available = false
	if owner.isRunner() {
		id := owner.RunnerID
		bib.RunnerID = &id
	} else {
		uid := owner.UID
		bib.UID = &uid
	}
	return nil
}

// releaseBib makes a bib available again and clears both owner columns.
func releaseBib(tx *gorm.DB, id uint) (models.Bib, error) {
	var bib models.Bib
	if err := tx.First(&bib, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bib, errBibNotFound
		}
		return bib, err
	}

	err := tx.Model(&models.Bib{}).Where("iddossard = ?", id).
		Updates(map[string]any{"disponible": true, "uid": nil, "idcoureur": nil}).Error
	if err != nil {
		return bib, err
	}

	bib.Available = true
	bib.UID = nil
	bib.RunnerID = nil
	return bib, nil
}

// setBibAvailability moves a bib to the requested state. Becoming available
// clears the owner; becoming unavailable leaves any owner untouched and does
// not require one. changed is false when the bib was already in that state.
// The update only matches the opposite state, so of two concurrent identical
// requests exactly one reports a change.
func setBibAvailability(tx *gorm.DB, id uint, available bool) (bib models.Bib, changed bool, err error) {
	err = tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bib, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errBibNotFound
			}
			return err
		}
		if bib.Available == available {
			return nil
		}

		updates := map[string]any{"disponible": available}
		if available {
			updates["uid"] = nil
			updates["idcoureur"] = nil
		}
		res := tx.Model(&models.Bib{}).
			Where("iddossard = ? AND disponible = ?", id, !available).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.First(&bib, id).Error
		}

		changed = true
		bib.Available = available
		if available {
			bib.UID = nil
			bib.RunnerID = nil
		}
		return nil
	})
	return bib, changed, err
}
