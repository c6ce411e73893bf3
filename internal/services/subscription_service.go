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

const subscriptionsCollection = "subscriptions"

var ErrSubscriptionNotFound = errors.New("subscription not found")

// ISubscriptionService manages paid subscriptions tied to requirements.
type ISubscriptionService interface {
	Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Subscription, error)
	ListAll(ctx context.Context) ([]models.Subscription, error)
	Refund(ctx context.Context, id primitive.ObjectID, amount float64) (*models.Subscription, error)
}

type subscriptionService struct {
	db *mongo.Database
}

// NewSubscriptionService creates the subscription service.
func NewSubscriptionService(database *mongo.Database) ISubscriptionService {
	return &subscriptionService{db: database}
}

func (s *subscriptionService) Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	now := time.Now().UTC()
	sub.ID = primitive.NewObjectID()
	if sub.StartDate.IsZero() {
		sub.StartDate = now
	}
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err := s.db.Collection(subscriptionsCollection).InsertOne(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to insert subscription: %w", err)
	}
	return sub, nil
}

func (s *subscriptionService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Collection(subscriptionsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return &sub, nil
}

func (s *subscriptionService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Subscription, error) {
	return s.list(ctx, bson.M{"userId": userID})
}

func (s *subscriptionService) ListAll(ctx context.Context) ([]models.Subscription, error) {
	return s.list(ctx, bson.M{})
}

func (s *subscriptionService) list(ctx context.Context, filter bson.M) ([]models.Subscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(subscriptionsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return subs, nil
}

// Refund marks a subscription refunded for the given amount.
func (s *subscriptionService) Refund(ctx context.Context, id primitive.ObjectID, amount float64) (*models.Subscription, error) {
	update := bson.M{"$set": bson.M{
		"isRefunded":   true,
		"refundAmount": amount,
		"updatedAt":    time.Now().UTC(),
	}}
	result, err := s.db.Collection(subscriptionsCollection).UpdateByID(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to refund subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrSubscriptionNotFound
	}
	return s.FindByID(ctx, id)
}
