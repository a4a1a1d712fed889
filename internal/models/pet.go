package models

// Pet represents an animal patient. PetUID is the human-facing clinic
// identifier (PET-<year>-NNNN), distinct from the primary key.
type Pet struct {
	BaseModel
	OwnerID     string  `gorm:"size:36;index" json:"ownerId"`
	PetUID      string  `gorm:"size:20;uniqueIndex" json:"petUid"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Type        string  `gorm:"size:50" json:"type"`
	Birthday    string  `gorm:"size:10" json:"birthday"`
	Color       string  `gorm:"size:50" json:"color"`
	Sex         string  `gorm:"size:10" json:"sex"`
	Weight      float64 `json:"weight"`
	Temperature float64 `json:"temperature"`

	Owner Owner `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
