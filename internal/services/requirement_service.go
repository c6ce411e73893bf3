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

const requirementsCollection = "customerpropertyrequirements"

var ErrRequirementNotFound = errors.New("requirement not found")

// IRequirementService manages customers' saved search templates.
type IRequirementService interface {
	Create(ctx context.Context, req *models.Requirement) (*models.Requirement, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Requirement, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Requirement, error)
	ListAll(ctx context.Context) ([]models.Requirement, error)
	Update(ctx context.Context, id, ownerID primitive.ObjectID, req *models.Requirement) (*models.Requirement, error)
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
}

type requirementService struct {
	db *mongo.Database
}

// NewRequirementService creates the requirement service.
func NewRequirementService(database *mongo.Database) IRequirementService {
	return &requirementService{db: database}
}

func (s *requirementService) Create(ctx context.Context, req *models.Requirement) (*models.Requirement, error) {
	now := time.Now().UTC()
	req.ID = primitive.NewObjectID()
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := s.db.Collection(requirementsCollection).InsertOne(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to insert requirement: %w", err)
	}
	return req, nil
}

func (s *requirementService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Requirement, error) {
	var req models.Requirement
	err := s.db.Collection(requirementsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("failed to find requirement: %w", err)
	}
	return &req, nil
}

func (s *requirementService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Requirement, error) {
	return s.list(ctx, bson.M{"userDetails": userID})
}

func (s *requirementService) ListAll(ctx context.Context) ([]models.Requirement, error) {
	return s.list(ctx, bson.M{})
}

func (s *requirementService) list(ctx context.Context, filter bson.M) ([]models.Requirement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(requirementsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.Requirement
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode requirements: %w", err)
	}
	return reqs, nil
}

// Update replaces the search attributes of one of the owner's
// requirements.
func (s *requirementService) Update(ctx context.Context, id, ownerID primitive.ObjectID, req *models.Requirement) (*models.Requirement, error) {
	set := bson.M{
		"propertyPurpose": req.PropertyPurpose,
		"propertyType":    req.PropertyType,
		"floor":           req.Floor,
		"furnished":       req.Furnished,
		"format":          req.Format,
		"state":           req.State,
		"city":            req.City,
		"area":            req.Area,
		"pincode":         req.Pincode,
		"size":            req.Size,
		"priceRange":      req.PriceRange,
		"updatedAt":       time.Now().UTC(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Requirement
	err := s.db.Collection(requirementsCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id, "userDetails": ownerID}, bson.M{"$set": set}, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("failed to update requirement: %w", err)
	}
	return &updated, nil
}

func (s *requirementService) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := s.db.Collection(requirementsCollection).
		DeleteOne(ctx, bson.M{"_id": id, "userDetails": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete requirement: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrRequirementNotFound
	}
	return nil
}
