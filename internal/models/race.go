package models

// Race is a race event ("course"). A nil or zero MaxParticipants means the
// race has no capacity limit.
type Race struct {
	ID              uint    `json:"idcourse" gorm:"column:idcourse;primaryKey"`
	Name            string  `json:"nomcourse" gorm:"column:nomcourse"`
	Date            string  `json:"datecourse" gorm:"column:datecourse"`
	Time            string  `json:"heurecourse" gorm:"column:heurecourse"`
	Distance        float64 `json:"distance" gorm:"column:distance"`
	Description     string  `json:"description" gorm:"column:description"`
	Location        string  `json:"lieu" gorm:"column:lieu"`
	Price           float64 `json:"prix" gorm:"column:prix"`
	MaxParticipants *int    `json:"maxparticipants" gorm:"column:maxparticipants"`
}

func (Race) TableName() string { return "courses" }

// IsFull reports whether registered confirmed entries have reached capacity.
func (r Race) IsFull(registered int64) bool {
	if r.MaxParticipants == nil || *r.MaxParticipants <= 0 {
		return false
	}
	return registered >= int64(*r.MaxParticipants)
}
