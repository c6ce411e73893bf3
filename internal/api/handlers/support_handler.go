package handlers

import (
	"errors"
	"log"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/Zaid3480/Real-Estate/internal/api/middleware"
	"github.com/Zaid3480/Real-Estate/internal/api/response"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/services"
	"github.com/Zaid3480/Real-Estate/internal/storage"
)

const supportFolder = "support"

// SupportHandler exposes support requests and admin replies.
type SupportHandler struct {
	supportService services.ISupportService
	store          storage.IStorage
}

// NewSupportHandler creates the support handler.
func NewSupportHandler(supportService services.ISupportService, store storage.IStorage) *SupportHandler {
	return &SupportHandler{supportService: supportService, store: store}
}

type createSupportRequest struct {
	Message     string `form:"message" binding:"required"`
	Description string `form:"description"`
}

// Create files a support request, optionally with a photo attachment.
func (h *SupportHandler) Create(c *gin.Context) {
	var req createSupportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	photoPath := ""
	if file, err := c.FormFile("photo"); err == nil {
		if photoPath, err = h.savePhoto(c, file); err != nil {
			log.Printf("Failed to store support photo: %v", err)
			response.Internal(c, "")
			return
		}
	}

	current := middleware.CurrentUser(c)
	support := &models.Support{
		UserID:      current.ID,
		Message:     req.Message,
		Description: req.Description,
		Photo:       photoPath,
	}

	created, err := h.supportService.Create(c.Request.Context(), support)
	if err != nil {
		log.Printf("Create support request failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.Created(c, "Support request created", created)
}

func (h *SupportHandler) savePhoto(c *gin.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.store.Save(c.Request.Context(), supportFolder, file.Filename, src)
}

// GetByID fetches one support request. Requesters see their own;
// admins see any.
func (h *SupportHandler) GetByID(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	support, err := h.supportService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSupportNotFound) {
			response.NotFound(c, "Support request not found")
			return
		}
		log.Printf("Find support request failed: %v", err)
		response.Internal(c, "")
		return
	}

	current := middleware.CurrentUser(c)
	if current.Role != models.RoleAdmin && support.UserID != current.ID {
		response.Forbidden(c, "Not allowed to view this support request")
		return
	}
	response.OK(c, "Support request fetched", support)
}

// Mine lists the authenticated user's support requests.
func (h *SupportHandler) Mine(c *gin.Context) {
	current := middleware.CurrentUser(c)
	reqs, err := h.supportService.ListByUser(c.Request.Context(), current.ID)
	if err != nil {
		log.Printf("List support requests failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Support requests fetched", reqs)
}

// All lists every support request with requester details. Admin only.
func (h *SupportHandler) All(c *gin.Context) {
	reqs, err := h.supportService.ListAll(c.Request.Context())
	if err != nil {
		log.Printf("List all support requests failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Support requests fetched", reqs)
}

type replyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// Reply answers a support request and closes it. Admin only.
func (h *SupportHandler) Reply(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	support, err := h.supportService.Reply(c.Request.Context(), id, req.Reply)
	if err != nil {
		if errors.Is(err, services.ErrSupportNotFound) {
			response.NotFound(c, "Support request not found")
			return
		}
		log.Printf("Reply to support request failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Reply sent", support)
}
