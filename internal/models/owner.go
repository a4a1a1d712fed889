package models

// Owner represents a pet owner registered with the clinic.
type Owner struct {
	BaseModel
	Name      string `gorm:"size:150;not null" json:"name"`
	Address   string `gorm:"size:255" json:"address"`
	Contact   string `gorm:"size:30" json:"contact"`
	CreatedBy string `gorm:"size:36" json:"createdBy,omitempty"`

	Pets []Pet `gorm:"foreignKey:OwnerID" json:"pets,omitempty"`
}
