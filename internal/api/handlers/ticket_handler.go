package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Zaid3480/Real-Estate/internal/api/response"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/services"
)

// TicketHandler exposes titled support tickets. Admin only.
type TicketHandler struct {
	ticketService services.ITicketService
}

// NewTicketHandler creates the ticket handler.
func NewTicketHandler(ticketService services.ITicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

type createTicketRequest struct {
	Title    string `json:"title" binding:"required"`
	Customer string `json:"customer" binding:"required"`
	Priority string `json:"priority"`
}

// Create raises a ticket for a customer.
func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	customer, err := primitive.ObjectIDFromHex(req.Customer)
	if err != nil {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	ticket, err := h.ticketService.Create(c.Request.Context(), &models.Ticket{
		Title:    req.Title,
		Customer: customer,
		Priority: models.TicketPriority(req.Priority),
	})
	if err != nil {
		log.Printf("Create ticket failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.Created(c, "Ticket created", ticket)
}

// All lists every ticket.
func (h *TicketHandler) All(c *gin.Context) {
	tickets, err := h.ticketService.ListAll(c.Request.Context())
	if err != nil {
		log.Printf("List tickets failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Tickets fetched", tickets)
}

type changeTicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus opens or closes a ticket.
func (h *TicketHandler) ChangeStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req changeTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	ticket, err := h.ticketService.ChangeStatus(c.Request.Context(), id, models.TicketStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTicketStatus):
			response.BadRequest(c, "Status must be Open or Closed")
		case errors.Is(err, services.ErrTicketNotFound):
			response.NotFound(c, "Ticket not found")
		default:
			log.Printf("Change ticket status failed: %v", err)
			response.Internal(c, "")
		}
		return
	}
	response.OK(c, "Ticket updated", ticket)
}
