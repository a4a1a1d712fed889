package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vetclinic-server/internal/models"
	"vetclinic-server/internal/utils"
)

// InventoryHandler handles inventory requests.
type InventoryHandler struct {
	DB *gorm.DB
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(db *gorm.DB) *InventoryHandler {
	return &InventoryHandler{DB: db}
}

// InventoryItemRequest is the body for creating or replacing an item.
type InventoryItemRequest struct {
	Name       string          `json:"name" binding:"required"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity" binding:"min=0"`
	Price      decimal.Decimal `json:"price"`
	ExpiryDate string          `json:"expiry_date"`
}

// CreateItem stocks a new inventory item.
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req InventoryItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.Price.IsNegative() {
		utils.BadRequest(c, "price must not be negative")
		return
	}

	item := models.InventoryItem{
		Name:       req.Name,
		Category:   req.Category,
		Quantity:   req.Quantity,
		Price:      req.Price,
		ExpiryDate: req.ExpiryDate,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		utils.InternalServerError(c, "Failed to create inventory item: "+err.Error())
		return
	}
	utils.Created(c, "Inventory item created successfully", item)
}

// GetItems lists the full inventory.
func (h *InventoryHandler) GetItems(c *gin.Context) {
	var items []models.InventoryItem
	if err := h.DB.Order("name asc").Find(&items).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch inventory: "+err.Error())
		return
	}
	utils.Success(c, "Inventory fetched successfully", items)
}

// UpdateItem replaces an item's stocked fields. Existing bills are
// unaffected: they carry price snapshots.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	var req InventoryItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.Price.IsNegative() {
		utils.BadRequest(c, "price must not be negative")
		return
	}

	var item models.InventoryItem
	if err := h.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Inventory item not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	item.Name = req.Name
	item.Category = req.Category
	item.Quantity = req.Quantity
	item.Price = req.Price
	item.ExpiryDate = req.ExpiryDate

	if err := h.DB.Save(&item).Error; err != nil {
		utils.InternalServerError(c, "Failed to update inventory item: "+err.Error())
		return
	}
	utils.Success(c, "Inventory item updated successfully", item)
}

// DeleteItem removes an item from stock.
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	res := h.DB.Delete(&models.InventoryItem{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		utils.InternalServerError(c, "Failed to delete inventory item: "+res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Inventory item not found")
		return
	}
	utils.Success(c, "Inventory item deleted successfully", nil)
}
