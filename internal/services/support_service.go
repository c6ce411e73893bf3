package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Zaid3480/Real-Estate/internal/config"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/tasks"
)

const supportCollection = "supports"

var ErrSupportNotFound = errors.New("support request not found")

// ISupportService manages free-text support requests and admin replies.
type ISupportService interface {
	Create(ctx context.Context, req *models.Support) (*models.Support, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Support, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Support, error)
	ListAll(ctx context.Context) ([]models.SupportWithUser, error)
	Reply(ctx context.Context, id primitive.ObjectID, reply string) (*models.Support, error)
}

type supportService struct {
	db          *mongo.Database
	cfg         *config.Config
	userService IUserService
	taskClient  *asynq.Client
}

// NewSupportService creates the support service. taskClient may be nil
// in tests; reply notification emails are then skipped.
func NewSupportService(database *mongo.Database, cfg *config.Config, userService IUserService, taskClient *asynq.Client) ISupportService {
	return &supportService{db: database, cfg: cfg, userService: userService, taskClient: taskClient}
}

func (s *supportService) Create(ctx context.Context, req *models.Support) (*models.Support, error) {
	now := time.Now().UTC()
	req.ID = primitive.NewObjectID()
	req.Status = models.SupportOpen
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := s.db.Collection(supportCollection).InsertOne(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to insert support request: %w", err)
	}
	return req, nil
}

func (s *supportService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Support, error) {
	var req models.Support
	err := s.db.Collection(supportCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSupportNotFound
		}
		return nil, fmt.Errorf("failed to find support request: %w", err)
	}
	return &req, nil
}

func (s *supportService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Support, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(supportCollection).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list support requests: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.Support
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode support requests: %w", err)
	}
	return reqs, nil
}

// ListAll returns every support request with the requester's contact
// details, for the admin queue.
func (s *supportService) ListAll(ctx context.Context) ([]models.SupportWithUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(supportCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list support requests: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.Support
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode support requests: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.UserID)
	}
	summaries, err := s.userService.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.SupportWithUser, len(reqs))
	for i, r := range reqs {
		out[i] = models.SupportWithUser{Support: r}
		if sum, ok := summaries[r.UserID]; ok {
			sumCopy := sum
			out[i].User = &sumCopy
		}
	}
	return out, nil
}

// Reply records the admin's answer, closes the request and emails the
// requester.
func (s *supportService) Reply(ctx context.Context, id primitive.ObjectID, reply string) (*models.Support, error) {
	update := bson.M{"$set": bson.M{
		"reply":     reply,
		"status":    models.SupportClosed,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := s.db.Collection(supportCollection).UpdateByID(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to reply to support request: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrSupportNotFound
	}

	req, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyReply(ctx, req)
	return req, nil
}

func (s *supportService) notifyReply(ctx context.Context, req *models.Support) {
	if s.taskClient == nil {
		return
	}
	user, err := s.userService.FindByID(ctx, req.UserID)
	if err != nil {
		log.Printf("Support reply notification skipped, user lookup failed: %v", err)
		return
	}

	subject := fmt.Sprintf("%s Support Reply", s.cfg.AppName)
	body := fmt.Sprintf("Hello %s,\r\n\r\nYour support request has been answered:\r\n\r\n%s\r\n", user.FullName, req.Reply)
	task, err := tasks.NewEmailDeliveryTask(user.Email, subject, body)
	if err != nil {
		log.Printf("Failed to build support reply email task: %v", err)
		return
	}
	if _, err := s.taskClient.EnqueueContext(ctx, task); err != nil {
		log.Printf("Failed to enqueue support reply email: %v", err)
	}
}
