package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Zaid3480/Real-Estate/internal/api/response"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/query"
	"github.com/Zaid3480/Real-Estate/internal/services"
)

// AreaHandler exposes the serviced-area directory.
type AreaHandler struct {
	areaService services.IAreaService
}

// NewAreaHandler creates the area handler.
func NewAreaHandler(areaService services.IAreaService) *AreaHandler {
	return &AreaHandler{areaService: areaService}
}

type createAreaRequest struct {
	AreaName string `json:"areaName" binding:"required"`
	Pincode  int    `json:"pincode" binding:"required"`
}

// Create adds a serviced area. Admin only.
func (h *AreaHandler) Create(c *gin.Context) {
	var req createAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	area, err := h.areaService.Create(c.Request.Context(), &models.Area{
		AreaName: req.AreaName,
		Pincode:  req.Pincode,
	})
	if err != nil {
		log.Printf("Create area failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.Created(c, "Area created", area)
}

// List pages through active areas sorted by name, with an optional
// name search.
func (h *AreaHandler) List(c *gin.Context) {
	page := query.ParsePage(c.Query("page"), c.Query("limit"))
	result, err := h.areaService.List(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		log.Printf("List areas failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Areas fetched", result)
}

type setAreaActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetActive toggles an area's availability. Admin only.
func (h *AreaHandler) SetActive(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req setAreaActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	area, err := h.areaService.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		if errors.Is(err, services.ErrAreaNotFound) {
			response.NotFound(c, "Area not found")
			return
		}
		log.Printf("Update area failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Area updated", area)
}
