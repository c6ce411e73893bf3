package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Zaid3480/Real-Estate/internal/api/handlers"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/services"
)

func TestShareHandler_Create_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockShareSvc := new(MockShareService)
	handler := handlers.NewShareHandler(mockShareSvc)

	broker := &models.User{ID: primitive.NewObjectID(), Role: models.RoleBroker}
	r := gin.New()
	r.POST("/api/shareproperty/share", asUser(broker), handler.Create)

	customerID := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()
	share := &models.Share{
		ID:         primitive.NewObjectID(),
		UserID:     broker.ID,
		SharedWith: customerID,
		PropertyID: propertyID,
		Status:     models.SharePending,
	}
	mockShareSvc.On("Create", mock.Anything, broker.ID, customerID, propertyID).Return(share, nil)

	w := postJSON(t, r, "/api/shareproperty/share", gin.H{
		"sharedWith": customerID.Hex(),
		"propertyId": propertyID.Hex(),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := envelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, string(models.SharePending), data["status"])
	mockShareSvc.AssertExpectations(t)
}

func TestShareHandler_Create_Duplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockShareSvc := new(MockShareService)
	handler := handlers.NewShareHandler(mockShareSvc)

	broker := &models.User{ID: primitive.NewObjectID(), Role: models.RoleBroker}
	r := gin.New()
	r.POST("/api/shareproperty/share", asUser(broker), handler.Create)

	customerID := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()
	mockShareSvc.On("Create", mock.Anything, broker.ID, customerID, propertyID).
		Return(nil, services.ErrDuplicateShare)

	w := postJSON(t, r, "/api/shareproperty/share", gin.H{
		"sharedWith": customerID.Hex(),
		"propertyId": propertyID.Hex(),
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	mockShareSvc.AssertExpectations(t)
}

func TestShareHandler_Create_BadIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockShareSvc := new(MockShareService)
	handler := handlers.NewShareHandler(mockShareSvc)

	broker := &models.User{ID: primitive.NewObjectID(), Role: models.RoleBroker}
	r := gin.New()
	r.POST("/api/shareproperty/share", asUser(broker), handler.Create)

	w := postJSON(t, r, "/api/shareproperty/share", gin.H{
		"sharedWith": "garbage",
		"propertyId": primitive.NewObjectID().Hex(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockShareSvc.AssertNotCalled(t, "Create")
}

func TestShareHandler_ChangeStatus_InvalidValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockShareSvc := new(MockShareService)
	handler := handlers.NewShareHandler(mockShareSvc)

	r := gin.New()
	r.PATCH("/api/shareproperty/changestatus/:id", handler.ChangeStatus)

	id := primitive.NewObjectID()
	mockShareSvc.On("ChangeStatus", mock.Anything, id, models.ShareStatus("Maybe")).
		Return(nil, services.ErrInvalidShareStatus)

	payload, _ := json.Marshal(gin.H{"status": "Maybe"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/shareproperty/changestatus/"+id.Hex(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockShareSvc.AssertExpectations(t)
}

func TestShareHandler_ChangeStatus_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockShareSvc := new(MockShareService)
	handler := handlers.NewShareHandler(mockShareSvc)

	r := gin.New()
	r.PATCH("/api/shareproperty/changestatus/:id", handler.ChangeStatus)

	id := primitive.NewObjectID()
	updated := &models.Share{ID: id, Status: models.ShareInterested}
	mockShareSvc.On("ChangeStatus", mock.Anything, id, models.ShareInterested).Return(updated, nil)

	payload, _ := json.Marshal(gin.H{"status": "Interested"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/shareproperty/changestatus/"+id.Hex(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := envelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Interested", data["status"])
	mockShareSvc.AssertExpectations(t)
}

func TestShareHandler_SharedWithMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockShareSvc := new(MockShareService)
	handler := handlers.NewShareHandler(mockShareSvc)

	customer := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	r := gin.New()
	r.GET("/api/shareproperty/sharedwithme", asUser(customer), handler.SharedWithMe)

	view := &services.CustomerShareView{
		Properties: []models.SharedProperty{
			{
				ID:     primitive.NewObjectID(),
				Status: models.SharePending,
				Property: &models.Property{
					ID:    primitive.NewObjectID(),
					Title: "2BHK near Bodakdev",
				},
			},
		},
		Requirement: &models.Requirement{PropertyType: "Residential", Area: "Bodakdev"},
	}
	// The property-level query parameters must reach the service as-is.
	wantFilters := services.PropertyFilters{Category: "Rent", PriceRange: "30000", Search: "bodakdev"}
	mockShareSvc.On("SharedWithCustomer", mock.Anything, customer.ID, wantFilters).Return(view, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/shareproperty/sharedwithme?category=Rent&priceRange=30000&search=bodakdev", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := envelope(t, w)
	data := body["data"].(map[string]interface{})
	properties := data["properties"].([]interface{})
	first := properties[0].(map[string]interface{})
	property := first["property"].(map[string]interface{})
	assert.Equal(t, "2BHK near Bodakdev", property["title"])
	requirement := data["customerRequirement"].(map[string]interface{})
	assert.Equal(t, "Bodakdev", requirement["area"])
	mockShareSvc.AssertExpectations(t)
}

func TestShareHandler_SharedWithMe_EmptyIsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockShareSvc := new(MockShareService)
	handler := handlers.NewShareHandler(mockShareSvc)

	customer := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	r := gin.New()
	r.GET("/api/shareproperty/sharedwithme", asUser(customer), handler.SharedWithMe)

	empty := &services.CustomerShareView{Properties: []models.SharedProperty{}}
	mockShareSvc.On("SharedWithCustomer", mock.Anything, customer.ID, services.PropertyFilters{}).Return(empty, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/shareproperty/sharedwithme", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
