package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Zaid3480/Real-Estate/internal/api/middleware"
	"github.com/Zaid3480/Real-Estate/internal/api/response"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/query"
	"github.com/Zaid3480/Real-Estate/internal/services"
)

// RequirementHandler exposes saved search templates and the
// requirement-driven property matching.
type RequirementHandler struct {
	requirementService services.IRequirementService
	propertyService    services.IPropertyService
}

// NewRequirementHandler creates the requirement handler.
func NewRequirementHandler(requirementService services.IRequirementService, propertyService services.IPropertyService) *RequirementHandler {
	return &RequirementHandler{requirementService: requirementService, propertyService: propertyService}
}

type createRequirementRequest struct {
	PropertyPurpose string `json:"propertyPurpose" binding:"required"`
	PropertyType    string `json:"propertyType" binding:"required"`
	Floor           string `json:"floor"`
	Furnished       string `json:"furnished"`
	Format          string `json:"format"`
	State           string `json:"state"`
	City            string `json:"city"`
	Area            string `json:"area" binding:"required"`
	Pincode         string `json:"pincode"`
	Size            string `json:"size"`
	PriceRange      string `json:"priceRange"`
}

// Create saves a requirement for the authenticated customer.
func (h *RequirementHandler) Create(c *gin.Context) {
	var req createRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	current := middleware.CurrentUser(c)
	requirement := &models.Requirement{
		PropertyPurpose: req.PropertyPurpose,
		PropertyType:    req.PropertyType,
		Floor:           req.Floor,
		Furnished:       req.Furnished,
		Format:          req.Format,
		State:           req.State,
		City:            req.City,
		Area:            req.Area,
		Pincode:         req.Pincode,
		Size:            req.Size,
		PriceRange:      req.PriceRange,
		UserDetails:     current.ID,
	}

	created, err := h.requirementService.Create(c.Request.Context(), requirement)
	if err != nil {
		log.Printf("Create requirement failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.Created(c, "Requirement saved", created)
}

// Update replaces one of the customer's saved requirements.
func (h *RequirementHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req createRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	current := middleware.CurrentUser(c)
	updated, err := h.requirementService.Update(c.Request.Context(), id, current.ID, &models.Requirement{
		PropertyPurpose: req.PropertyPurpose,
		PropertyType:    req.PropertyType,
		Floor:           req.Floor,
		Furnished:       req.Furnished,
		Format:          req.Format,
		State:           req.State,
		City:            req.City,
		Area:            req.Area,
		Pincode:         req.Pincode,
		Size:            req.Size,
		PriceRange:      req.PriceRange,
	})
	if err != nil {
		if errors.Is(err, services.ErrRequirementNotFound) {
			response.NotFound(c, "Requirement not found")
			return
		}
		log.Printf("Update requirement failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Requirement updated", updated)
}

// Mine lists the authenticated customer's requirements.
func (h *RequirementHandler) Mine(c *gin.Context) {
	current := middleware.CurrentUser(c)
	reqs, err := h.requirementService.ListByUser(c.Request.Context(), current.ID)
	if err != nil {
		log.Printf("List requirements failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Requirements fetched", reqs)
}

// All lists every requirement. Admin only.
func (h *RequirementHandler) All(c *gin.Context) {
	reqs, err := h.requirementService.ListAll(c.Request.Context())
	if err != nil {
		log.Printf("List all requirements failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Requirements fetched", reqs)
}

// Delete removes one of the customer's requirements.
func (h *RequirementHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	current := middleware.CurrentUser(c)
	if err := h.requirementService.Delete(c.Request.Context(), id, current.ID); err != nil {
		if errors.Is(err, services.ErrRequirementNotFound) {
			response.NotFound(c, "Requirement not found")
			return
		}
		log.Printf("Delete requirement failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Requirement deleted", nil)
}

// SuggestedProperties pages through listings matching a saved
// requirement, intersected with an optional free-text search.
func (h *RequirementHandler) SuggestedProperties(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	requirement, err := h.requirementService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRequirementNotFound) {
			response.NotFound(c, "Requirement not found")
			return
		}
		log.Printf("Load requirement failed: %v", err)
		response.Internal(c, "")
		return
	}

	page := query.ParsePage(c.Query("page"), c.Query("limit"))
	result, err := h.propertyService.FindByRequirement(c.Request.Context(), requirement, c.Query("search"), page)
	if err != nil {
		if errors.Is(err, services.ErrNoMatch) {
			response.NotFound(c, "No properties matched this requirement")
			return
		}
		log.Printf("FindByRequirement failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Suggested properties fetched", result)
}

// SuggestedCount reports how many listings a requirement currently
// matches.
func (h *RequirementHandler) SuggestedCount(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	requirement, err := h.requirementService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRequirementNotFound) {
			response.NotFound(c, "Requirement not found")
			return
		}
		log.Printf("Load requirement failed: %v", err)
		response.Internal(c, "")
		return
	}

	count, err := h.propertyService.CountByRequirement(c.Request.Context(), requirement)
	if err != nil {
		log.Printf("CountByRequirement failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Match count fetched", gin.H{"count": count})
}
