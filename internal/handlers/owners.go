package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/middleware"
	"vetclinic-server/internal/models"
	"vetclinic-server/internal/utils"
)

// OwnerHandler handles owner and pet requests.
type OwnerHandler struct {
	DB *gorm.DB
}

// NewOwnerHandler creates a new OwnerHandler.
func NewOwnerHandler(db *gorm.DB) *OwnerHandler {
	return &OwnerHandler{DB: db}
}

// OwnerPayload is the owner part of a registration.
type OwnerPayload struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

// PetPayload is the pet part of a registration.
type PetPayload struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type"`
	Birthday    string  `json:"birthday"`
	Color       string  `json:"color"`
	Sex         string  `json:"sex"`
	Weight      float64 `json:"weight"`
	Temperature float64 `json:"temperature"`
}

// CreateOwnerRequest registers an owner together with their first pet.
type CreateOwnerRequest struct {
	Owner OwnerPayload `json:"owner" binding:"required"`
	Pet   PetPayload   `json:"pet" binding:"required"`
}

// CreateOwner registers an owner and their first pet in one transaction.
// The pet gets a human-facing UID of the form PET-<year>-NNNN.
func (h *OwnerHandler) CreateOwner(c *gin.Context) {
	var req CreateOwnerRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)

	owner := models.Owner{
		Name:      req.Owner.Name,
		Address:   req.Owner.Address,
		Contact:   req.Owner.Contact,
		CreatedBy: userID,
	}
	pet := models.Pet{
		Name:        req.Pet.Name,
		Type:        req.Pet.Type,
		Birthday:    req.Pet.Birthday,
		Color:       req.Pet.Color,
		Sex:         req.Pet.Sex,
		Weight:      req.Pet.Weight,
		Temperature: req.Pet.Temperature,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Pet{}).Count(&count).Error; err != nil {
			return err
		}
		pet.PetUID = fmt.Sprintf("PET-%d-%04d", time.Now().Year(), count+1)

		if err := tx.Create(&owner).Error; err != nil {
			return err
		}
		pet.OwnerID = owner.ID
		return tx.Create(&pet).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to register owner: "+err.Error())
		return
	}

	utils.Created(c, "Owner and pet registered successfully", gin.H{
		"ownerId": owner.ID,
		"petId":   pet.ID,
		"petUid":  pet.PetUID,
	})
}

// GetOwners lists all owners with their pets.
func (h *OwnerHandler) GetOwners(c *gin.Context) {
	var owners []models.Owner
	if err := h.DB.Preload("Pets").Find(&owners).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch owners: "+err.Error())
		return
	}
	utils.Success(c, "Owners fetched successfully", owners)
}

// UpdateOwnerRequest carries owner fields to change.
type UpdateOwnerRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Contact *string `json:"contact"`
}

// UpdateOwner updates an owner's contact details.
func (h *OwnerHandler) UpdateOwner(c *gin.Context) {
	var req UpdateOwnerRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var owner models.Owner
	if err := h.DB.First(&owner, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Owner not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Name != nil {
		owner.Name = *req.Name
	}
	if req.Address != nil {
		owner.Address = *req.Address
	}
	if req.Contact != nil {
		owner.Contact = *req.Contact
	}

	if err := h.DB.Save(&owner).Error; err != nil {
		utils.InternalServerError(c, "Failed to update owner: "+err.Error())
		return
	}
	utils.Success(c, "Owner updated successfully", owner)
}

// GetPets lists all pets with their owners.
func (h *OwnerHandler) GetPets(c *gin.Context) {
	var pets []models.Pet
	if err := h.DB.Preload("Owner").Find(&pets).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch pets: "+err.Error())
		return
	}
	utils.Success(c, "Pets fetched successfully", pets)
}

// UpdatePetRequest carries pet fields to change.
type UpdatePetRequest struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type"`
	Birthday    *string  `json:"birthday"`
	Color       *string  `json:"color"`
	Sex         *string  `json:"sex"`
	Weight      *float64 `json:"weight"`
	Temperature *float64 `json:"temperature"`
}

// UpdatePet updates a pet's record.
func (h *OwnerHandler) UpdatePet(c *gin.Context) {
	var req UpdatePetRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var pet models.Pet
	if err := h.DB.First(&pet, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Pet not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.Type != nil {
		pet.Type = *req.Type
	}
	if req.Birthday != nil {
		pet.Birthday = *req.Birthday
	}
	if req.Color != nil {
		pet.Color = *req.Color
	}
	if req.Sex != nil {
		pet.Sex = *req.Sex
	}
	if req.Weight != nil {
		pet.Weight = *req.Weight
	}
	if req.Temperature != nil {
		pet.Temperature = *req.Temperature
	}

	if err := h.DB.Save(&pet).Error; err != nil {
		utils.InternalServerError(c, "Failed to update pet: "+err.Error())
		return
	}
	utils.Success(c, "Pet updated successfully", pet)
}
