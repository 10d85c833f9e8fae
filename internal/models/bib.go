package models

// Bib is a numbered race bib ("dossard"). An available bib has no owner; an
// assigned bib is owned either by an opaque UID or by a runner.
type Bib struct {
	ID        uint    `json:"iddossard" gorm:"column:iddossard;primaryKey"`
	Number    int     `json:"numero" gorm:"column:numero;uniqueIndex"`
	Available bool    `json:"disponible" gorm:"column:disponible"`
	UID       *string `json:"uid" gorm:"column:uid;uniqueIndex"`
	RunnerID  *uint   `json:"idcoureur" gorm:"column:idcoureur;uniqueIndex"`
}

func (Bib) TableName() string { return "dossards" }

// HasOwner reports whether either owner column is set.
func (b Bib) HasOwner() bool {
	return b.UID != nil || b.RunnerID != nil
}
