package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Zaid3480/Real-Estate/internal/api/middleware"
	"github.com/Zaid3480/Real-Estate/internal/api/response"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/services"
)

// SubscriptionHandler exposes paid subscriptions tied to requirements.
type SubscriptionHandler struct {
	subscriptionService services.ISubscriptionService
}

// NewSubscriptionHandler creates the subscription handler.
func NewSubscriptionHandler(subscriptionService services.ISubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

type createSubscriptionRequest struct {
	UserID          string    `json:"userId" binding:"required"`
	RequirementID   string    `json:"customerPropertyRequirementId" binding:"required"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate" binding:"required"`
	AmountPaid      float64   `json:"amountPaid"`
	RemainingAmount float64   `json:"remainingAmount"`
	EarnAmount      float64   `json:"earnAmount"`
}

// Create records a subscription. Admin only.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		response.BadRequest(c, "Invalid userId")
		return
	}
	requirementID, err := primitive.ObjectIDFromHex(req.RequirementID)
	if err != nil {
		response.BadRequest(c, "Invalid customerPropertyRequirementId")
		return
	}

	sub, err := h.subscriptionService.Create(c.Request.Context(), &models.Subscription{
		UserID:          userID,
		RequirementID:   requirementID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		AmountPaid:      req.AmountPaid,
		RemainingAmount: req.RemainingAmount,
		EarnAmount:      req.EarnAmount,
	})
	if err != nil {
		log.Printf("Create subscription failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.Created(c, "Subscription created", sub)
}

// Mine lists the authenticated user's subscriptions.
func (h *SubscriptionHandler) Mine(c *gin.Context) {
	current := middleware.CurrentUser(c)
	subs, err := h.subscriptionService.ListByUser(c.Request.Context(), current.ID)
	if err != nil {
		log.Printf("List subscriptions failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Subscriptions fetched", subs)
}

// All lists every subscription. Admin only.
func (h *SubscriptionHandler) All(c *gin.Context) {
	subs, err := h.subscriptionService.ListAll(c.Request.Context())
	if err != nil {
		log.Printf("List all subscriptions failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Subscriptions fetched", subs)
}

type refundRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// Refund marks a subscription refunded. Admin only.
func (h *SubscriptionHandler) Refund(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	sub, err := h.subscriptionService.Refund(c.Request.Context(), id, req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrSubscriptionNotFound) {
			response.NotFound(c, "Subscription not found")
			return
		}
		log.Printf("Refund subscription failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Subscription refunded", sub)
}
