package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zaid3480/Real-Estate/internal/api/middleware"
	"github.com/Zaid3480/Real-Estate/internal/api/response"
	"github.com/Zaid3480/Real-Estate/internal/config"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/query"
	"github.com/Zaid3480/Real-Estate/internal/services"
	"github.com/Zaid3480/Real-Estate/internal/storage"
)

const mediaFolder = "properties"

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".webm": true, ".avi": true, ".mkv": true,
}

// PropertyHandler exposes listing endpoints.
type PropertyHandler struct {
	cfg             *config.Config
	propertyService services.IPropertyService
	store           storage.IStorage
}

// NewPropertyHandler creates the listing handler.
func NewPropertyHandler(cfg *config.Config, propertyService services.IPropertyService, store storage.IStorage) *PropertyHandler {
	return &PropertyHandler{cfg: cfg, propertyService: propertyService, store: store}
}

type createPropertyRequest struct {
	Title       string  `form:"title" binding:"required"`
	Price       float64 `form:"price" binding:"required"`
	Area        string  `form:"area" binding:"required"`
	Floor       string  `form:"floor"`
	Location    string  `form:"location"`
	Description string  `form:"description"`
	Type        string  `form:"type" binding:"required"`
	Category    string  `form:"category" binding:"required"`
	Format      string  `form:"format"`
	SizeType    string  `form:"sizeType"`
	Size        string  `form:"size"`
	Furnished   string  `form:"furnished"`
}

// Create adds a listing with its media files. Broker only.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	propType := models.PropertyType(req.Type)
	if !propType.Valid() {
		response.BadRequest(c, "Invalid property type")
		return
	}
	furnished := models.FurnishedState(req.Furnished)
	if req.Furnished == "" {
		furnished = models.Unfurnished
	} else if !furnished.Valid() {
		response.BadRequest(c, "Invalid furnished state")
		return
	}

	media, ok := h.saveUploads(c)
	if !ok {
		return
	}

	current := middleware.CurrentUser(c)
	prop := &models.Property{
		Title:       req.Title,
		Price:       req.Price,
		Area:        req.Area,
		Floor:       req.Floor,
		Location:    req.Location,
		Description: req.Description,
		Type:        propType,
		Category:    req.Category,
		Format:      req.Format,
		SizeType:    req.SizeType,
		Size:        req.Size,
		Furnished:   furnished,
		PostedBy:    current.ID,
		Media:       media,
	}

	created, err := h.propertyService.Create(c.Request.Context(), prop)
	if err != nil {
		log.Printf("Create property failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.Created(c, "Property created", created)
}

// GetAll pages through listings with the browse filters.
func (h *PropertyHandler) GetAll(c *gin.Context) {
	filters := services.PropertyFilters{
		Floor:      c.Query("floor"),
		Category:   c.Query("category"),
		Format:     c.Query("format"),
		Furnished:  c.Query("furnished"),
		Type:       c.Query("type"),
		PriceRange: c.Query("priceRange"),
		Search:     c.Query("search"),
	}
	page := query.ParsePage(c.Query("page"), c.Query("limit"))

	result, err := h.propertyService.GetAll(c.Request.Context(), filters, page)
	if err != nil {
		if errors.Is(err, services.ErrNoMatch) {
			response.NotFound(c, "No properties found")
			return
		}
		log.Printf("GetAll properties failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Properties fetched", result)
}

// GetByID returns one listing with owner contact details.
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	prop, err := h.propertyService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			response.NotFound(c, "Property not found")
			return
		}
		log.Printf("Get property failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Property fetched", prop)
}

// MyProperties pages through the authenticated broker's listings.
func (h *PropertyHandler) MyProperties(c *gin.Context) {
	current := middleware.CurrentUser(c)
	page := query.ParsePage(c.Query("page"), c.Query("limit"))

	result, err := h.propertyService.FindByBroker(c.Request.Context(), current.ID,
		models.PropertyStatus(c.Query("status")), page)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			response.BadRequest(c, "Invalid status filter")
			return
		}
		log.Printf("MyProperties failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Properties fetched", result)
}

type updatePropertyRequest struct {
	Title       *string  `form:"title"`
	Price       *float64 `form:"price"`
	Area        *string  `form:"area"`
	Floor       *string  `form:"floor"`
	Location    *string  `form:"location"`
	Description *string  `form:"description"`
	Category    *string  `form:"category"`
	Format      *string  `form:"format"`
	SizeType    *string  `form:"sizeType"`
	Size        *string  `form:"size"`
	Furnished   *string  `form:"furnished"`
}

// Update edits a listing and appends any newly uploaded media. Only
// the posting broker may update.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req updatePropertyRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	media, ok := h.saveUploads(c)
	if !ok {
		return
	}

	in := services.UpdatePropertyInput{
		Title:       req.Title,
		Price:       req.Price,
		Area:        req.Area,
		Floor:       req.Floor,
		Location:    req.Location,
		Description: req.Description,
		Category:    req.Category,
		Format:      req.Format,
		SizeType:    req.SizeType,
		Size:        req.Size,
		Media:       media,
	}
	if req.Furnished != nil {
		furnished := models.FurnishedState(*req.Furnished)
		if !furnished.Valid() {
			response.BadRequest(c, "Invalid furnished state")
			return
		}
		in.Furnished = &furnished
	}

	current := middleware.CurrentUser(c)
	prop, err := h.propertyService.Update(c.Request.Context(), id, current.ID, in)
	if err != nil {
		h.ownerError(c, err, "Update property")
		return
	}
	response.OK(c, "Property updated", prop)
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus moves a listing between Active and Deal-Closed.
func (h *PropertyHandler) ChangeStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	current := middleware.CurrentUser(c)
	prop, err := h.propertyService.ChangeStatus(c.Request.Context(), id, current.ID,
		models.PropertyStatus(req.Status))
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			response.BadRequest(c, "Status must be Active or Deal-Closed")
			return
		}
		h.ownerError(c, err, "Change property status")
		return
	}
	response.OK(c, "Property status updated", prop)
}

// Delete removes a listing. Only the posting broker may delete.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	current := middleware.CurrentUser(c)
	if err := h.propertyService.Delete(c.Request.Context(), id, current.ID); err != nil {
		h.ownerError(c, err, "Delete property")
		return
	}
	response.OK(c, "Property deleted", nil)
}

// Dashboard returns the authenticated broker's listing tallies.
func (h *PropertyHandler) Dashboard(c *gin.Context) {
	current := middleware.CurrentUser(c)
	stats, err := h.propertyService.BrokerDashboard(c.Request.Context(), current.ID)
	if err != nil {
		log.Printf("Broker dashboard failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Dashboard fetched", stats)
}

func (h *PropertyHandler) ownerError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrPropertyNotFound):
		response.NotFound(c, "Property not found")
	case errors.Is(err, services.ErrNotPropertyOwner):
		response.Forbidden(c, "Not the property owner")
	default:
		log.Printf("%s failed: %v", op, err)
		response.Internal(c, "")
	}
}

// saveUploads stores every file under the "media" form field and
// returns their items. Replies and returns false on oversized or
// unsupported files.
func (h *PropertyHandler) saveUploads(c *gin.Context) ([]models.MediaItem, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		// Not a multipart request; no media attached.
		return nil, true
	}

	files := form.File["media"]
	maxSize := int64(h.cfg.MaxUploadSizeMB) * 1024 * 1024
	media := make([]models.MediaItem, 0, len(files))

	for _, file := range files {
		if file.Size > maxSize {
			response.BadRequest(c, fmt.Sprintf("File %s exceeds the %dMB limit", file.Filename, h.cfg.MaxUploadSizeMB))
			return nil, false
		}

		kind, ok := mediaKind(file.Filename)
		if !ok {
			response.BadRequest(c, fmt.Sprintf("Unsupported file type: %s", file.Filename))
			return nil, false
		}

		storedPath, err := h.saveOne(c, file)
		if err != nil {
			log.Printf("Failed to store upload %s: %v", file.Filename, err)
			response.Internal(c, "")
			return nil, false
		}
		media = append(media, models.MediaItem{Type: kind, Path: storedPath})
	}
	return media, true
}

func (h *PropertyHandler) saveOne(c *gin.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.store.Save(c.Request.Context(), mediaFolder, file.Filename, src)
}

// mediaKind classifies an upload by extension.
func mediaKind(filename string) (models.MediaKind, bool) {
	ext := strings.ToLower(path.Ext(filename))
	if imageExtensions[ext] {
		return models.MediaImage, true
	}
	if videoExtensions[ext] {
		return models.MediaVideo, true
	}
	return "", false
}
