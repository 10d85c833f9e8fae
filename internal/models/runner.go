package models

// Runner is a participant ("coureur"). Column names follow the legacy schema.
type Runner struct {
	ID           uint   `json:"idcoureur" gorm:"column:idcoureur;primaryKey"`
	LastName     string `json:"nomcoureur" gorm:"column:nomcoureur"`
	FirstName    string `json:"prenomcoureur" gorm:"column:prenomcoureur"`
	BirthDate    string `json:"datenaissance" gorm:"column:datenaissance"`
	Email        string `json:"email" gorm:"column:email"`
	Phone        string `json:"telephone" gorm:"column:telephone"`
	PhotoConsent bool   `json:"accordphoto" gorm:"column:accordphoto"`
	Present      bool   `json:"present" gorm:"column:present"`
}

func (Runner) TableName() string { return "coureurs" }
