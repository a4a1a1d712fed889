package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vetclinic-server/internal/billing"
	"vetclinic-server/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func newBillingRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewBillingHandler(billing.NewService(db, billing.NewEngine(db, false)))

	router := gin.New()
	router.POST("/billing", handler.CreateBill)
	router.GET("/billing", handler.GetBills)
	router.GET("/billing/:id", handler.GetBillByID)
	router.PUT("/billing/:id", handler.UpdateBillStatus)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBillingEndToEndOverHTTP(t *testing.T) {
	db := openTestDB(t)
	router := newBillingRouter(db)

	owner := models.Owner{Name: "Maria Santos", Contact: "09171234567"}
	require.NoError(t, db.Create(&owner).Error)
	pet := models.Pet{OwnerID: owner.ID, Name: "Bantay"}
	require.NoError(t, db.Create(&pet).Error)
	item := models.InventoryItem{Name: "Rabies vaccine", Price: decimal.RequireFromString("150.00"), Quantity: 10}
	require.NoError(t, db.Create(&item).Error)

	rec := doJSON(t, router, http.MethodPost, "/billing", gin.H{
		"pet_id":           pet.ID,
		"consultation_fee": "500.00",
		"items":            []gin.H{{"inventory_id": item.ID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID        string          `json:"id"`
			TotalCost decimal.Decimal `json:"totalCost"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "950.00", created.Data.TotalCost.StringFixed(2))

	rec = doJSON(t, router, http.MethodGet, "/billing/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unpaid"`)

	// markPaid, twice; the second is a no-op success
	rec = doJSON(t, router, http.MethodPut, "/billing/"+created.Data.ID, gin.H{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, router, http.MethodPut, "/billing/"+created.Data.ID, gin.H{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/billing/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"paid"`)
}

func TestCreateBillRejectsUnknownPet(t *testing.T) {
	db := openTestDB(t)
	router := newBillingRouter(db)

	rec := doJSON(t, router, http.MethodPost, "/billing", gin.H{
		"pet_id":           "ghost",
		"consultation_fee": "100.00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateBillStatusRejectsReopening(t *testing.T) {
	db := openTestDB(t)
	router := newBillingRouter(db)

	// The binding only accepts "paid"; there is no paid -> unpaid path.
	rec := doJSON(t, router, http.MethodPut, "/billing/some-id", gin.H{"status": "unpaid"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateBillStatusUnknownBill(t *testing.T) {
	db := openTestDB(t)
	router := newBillingRouter(db)

	rec := doJSON(t, router, http.MethodPut, "/billing/no-such-bill", gin.H{"status": "paid"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
