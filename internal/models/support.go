package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SupportStatus is the lifecycle state of a support request.
type SupportStatus string

const (
	SupportOpen   SupportStatus = "open"
	SupportClosed SupportStatus = "closed"
)

// Support is a free-text request from a user, optionally with a photo,
// answered by an admin reply.
type Support struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Message     string             `bson:"message" json:"message"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Reply       string             `bson:"reply,omitempty" json:"reply,omitempty"`
	Photo       string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Status      SupportStatus      `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SupportWithUser is the expanded view with the requester's contact details.
type SupportWithUser struct {
	Support `bson:",inline"`
	User    *UserSummary `bson:"-" json:"user,omitempty"`
}

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen   TicketStatus = "Open"
	TicketClosed TicketStatus = "Closed"
)

// TicketPriority orders tickets for triage.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "Low"
	PriorityMedium TicketPriority = "Medium"
	PriorityHigh   TicketPriority = "High"
)

// Ticket is a titled support ticket raised for a customer.
type Ticket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Customer  primitive.ObjectID `bson:"customer" json:"customer"`
	Status    TicketStatus       `bson:"status" json:"status"`
	Priority  TicketPriority     `bson:"priority" json:"priority"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
