package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Zaid3480/Real-Estate/internal/models"
)

const ticketsCollection = "tickets"

var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrInvalidTicketStatus = errors.New("invalid ticket status")
)

// ITicketService manages titled support tickets.
type ITicketService interface {
	Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error)
	ListAll(ctx context.Context) ([]models.Ticket, error)
	ChangeStatus(ctx context.Context, id primitive.ObjectID, status models.TicketStatus) (*models.Ticket, error)
}

type ticketService struct {
	db *mongo.Database
}

// NewTicketService creates the ticket service.
func NewTicketService(database *mongo.Database) ITicketService {
	return &ticketService{db: database}
}

func (s *ticketService) Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	ticket.ID = primitive.NewObjectID()
	if ticket.Status == "" {
		ticket.Status = models.TicketOpen
	}
	if ticket.Priority == "" {
		ticket.Priority = models.PriorityLow
	}
	ticket.CreatedAt = time.Now().UTC()

	if _, err := s.db.Collection(ticketsCollection).InsertOne(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}
	return ticket, nil
}

func (s *ticketService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.db.Collection(ticketsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return &ticket, nil
}

func (s *ticketService) ListAll(ctx context.Context) ([]models.Ticket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(ticketsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer cursor.Close(ctx)

	var tickets []models.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("failed to decode tickets: %w", err)
	}
	return tickets, nil
}

func (s *ticketService) ChangeStatus(ctx context.Context, id primitive.ObjectID, status models.TicketStatus) (*models.Ticket, error) {
	if status != models.TicketOpen && status != models.TicketClosed {
		return nil, ErrInvalidTicketStatus
	}

	result, err := s.db.Collection(ticketsCollection).
		UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return nil, fmt.Errorf("failed to change ticket status: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrTicketNotFound
	}
	return s.FindByID(ctx, id)
}
