package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Zaid3480/Real-Estate/internal/api/middleware"
	"github.com/Zaid3480/Real-Estate/internal/api/response"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/services"
)

// ShareHandler exposes the property sharing workflow.
type ShareHandler struct {
	shareService services.IShareService
}

// NewShareHandler creates the sharing handler.
func NewShareHandler(shareService services.IShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

type createShareRequest struct {
	SharedWith string `json:"sharedWith" binding:"required"`
	PropertyID string `json:"propertyId" binding:"required"`
}

// Create shares a property with a customer. Broker only.
func (h *ShareHandler) Create(c *gin.Context) {
	var req createShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	sharedWith, err := primitive.ObjectIDFromHex(req.SharedWith)
	if err != nil {
		response.BadRequest(c, "Invalid sharedWith id")
		return
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		response.BadRequest(c, "Invalid propertyId")
		return
	}

	current := middleware.CurrentUser(c)
	share, err := h.shareService.Create(c.Request.Context(), current.ID, sharedWith, propertyID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateShare):
			response.Conflict(c, "Property already shared with this customer")
		case errors.Is(err, services.ErrUserNotFound):
			response.NotFound(c, "Customer not found")
		case errors.Is(err, services.ErrPropertyNotFound):
			response.NotFound(c, "Property not found")
		default:
			log.Printf("Create share failed: %v", err)
			response.Internal(c, "")
		}
		return
	}
	response.Created(c, "Property shared", share)
}

type changeShareStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus records the customer's reaction to a shared property.
func (h *ShareHandler) ChangeStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req changeShareStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	share, err := h.shareService.ChangeStatus(c.Request.Context(), id, models.ShareStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidShareStatus):
			response.BadRequest(c, "Status must be Pending, Interested or Not-Interested")
		case errors.Is(err, services.ErrShareNotFound):
			response.NotFound(c, "Share not found")
		default:
			log.Printf("Change share status failed: %v", err)
			response.Internal(c, "")
		}
		return
	}
	response.OK(c, "Share status updated", share)
}

// CustomersOfProperty lists the customers a broker shared one property
// with and their reactions.
func (h *ShareHandler) CustomersOfProperty(c *gin.Context) {
	propertyID, ok := objectIDParam(c, "propertyId")
	if !ok {
		return
	}

	current := middleware.CurrentUser(c)
	shares, err := h.shareService.CustomersOfProperty(c.Request.Context(), current.ID, propertyID)
	if err != nil {
		log.Printf("CustomersOfProperty failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Customers fetched", shares)
}

// GetByID fetches one share. Only the sharer, the recipient or an
// admin may see it.
func (h *ShareHandler) GetByID(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	share, err := h.shareService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			response.NotFound(c, "Share not found")
			return
		}
		log.Printf("Find share failed: %v", err)
		response.Internal(c, "")
		return
	}

	current := middleware.CurrentUser(c)
	if current.Role != models.RoleAdmin && share.UserID != current.ID && share.SharedWith != current.ID {
		response.Forbidden(c, "Not allowed to view this share")
		return
	}
	response.OK(c, "Share fetched", share)
}

// SharedWithMe lists everything shared with the authenticated customer,
// filtered on the property fields, with their saved requirement
// attached.
func (h *ShareHandler) SharedWithMe(c *gin.Context) {
	filters := services.PropertyFilters{
		Floor:      c.Query("floor"),
		Category:   c.Query("category"),
		Format:     c.Query("format"),
		Furnished:  c.Query("furnished"),
		Type:       c.Query("type"),
		PriceRange: c.Query("priceRange"),
		Search:     c.Query("search"),
	}

	current := middleware.CurrentUser(c)
	view, err := h.shareService.SharedWithCustomer(c.Request.Context(), current.ID, filters)
	if err != nil {
		log.Printf("SharedWithMe failed: %v", err)
		response.Internal(c, "")
		return
	}
	if len(view.Properties) == 0 && view.Requirement == nil {
		response.NotFound(c, "No shared properties or requirement found")
		return
	}
	response.OK(c, "Shared properties fetched", view)
}

// SharedByMe lists everything the authenticated broker has shared.
func (h *ShareHandler) SharedByMe(c *gin.Context) {
	current := middleware.CurrentUser(c)
	shares, err := h.shareService.SharedByBroker(c.Request.Context(), current.ID)
	if err != nil {
		log.Printf("SharedByMe failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Shared properties fetched", shares)
}
