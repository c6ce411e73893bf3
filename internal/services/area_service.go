package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/query"
)

const areasCollection = "areas"

var ErrAreaNotFound = errors.New("area not found")

// AreaPage is a page of the serviced-area directory.
type AreaPage struct {
	Areas      []models.Area    `json:"areas"`
	Pagination query.Pagination `json:"pagination"`
}

// IAreaService manages the serviced-area directory.
type IAreaService interface {
	Create(ctx context.Context, area *models.Area) (*models.Area, error)
	List(ctx context.Context, search string, page query.Page) (*AreaPage, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*models.Area, error)
}

type areaService struct {
	db *mongo.Database
}

// NewAreaService creates the area directory service.
func NewAreaService(database *mongo.Database) IAreaService {
	return &areaService{db: database}
}

func (s *areaService) Create(ctx context.Context, area *models.Area) (*models.Area, error) {
	area.ID = primitive.NewObjectID()
	area.IsActive = true

	if _, err := s.db.Collection(areasCollection).InsertOne(ctx, area); err != nil {
		return nil, fmt.Errorf("failed to insert area: %w", err)
	}
	return area, nil
}

// List pages through active areas sorted by name, with an optional
// name search.
func (s *areaService) List(ctx context.Context, search string, page query.Page) (*AreaPage, error) {
	filter := bson.M{"isActive": true}
	if search != "" {
		filter["areaName"] = query.Substring(search)
	}

	collection := s.db.Collection(areasCollection)
	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count areas: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "areaName", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit64())
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	defer cursor.Close(ctx)

	var areas []models.Area
	if err := cursor.All(ctx, &areas); err != nil {
		return nil, fmt.Errorf("failed to decode areas: %w", err)
	}

	return &AreaPage{Areas: areas, Pagination: page.PageInfo(total)}, nil
}

func (s *areaService) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*models.Area, error) {
	result, err := s.db.Collection(areasCollection).
		UpdateByID(ctx, id, bson.M{"$set": bson.M{"isActive": active}})
	if err != nil {
		return nil, fmt.Errorf("failed to update area: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrAreaNotFound
	}

	var area models.Area
	if err := s.db.Collection(areasCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&area); err != nil {
		return nil, fmt.Errorf("failed to reload area: %w", err)
	}
	return &area, nil
}
