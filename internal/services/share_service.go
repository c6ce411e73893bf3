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

	"github.com/Zaid3480/Real-Estate/internal/db"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/query"
)

const sharesCollection = "shareproperties"

var (
	ErrDuplicateShare     = errors.New("property already shared with this customer")
	ErrShareNotFound      = errors.New("share not found")
	ErrInvalidShareStatus = errors.New("invalid share status")
)

// CustomerShareView pairs a customer's shared properties, filtered on
// the property fields, with the customer's saved requirement.
type CustomerShareView struct {
	Properties  []models.SharedProperty `json:"properties"`
	Requirement *models.Requirement     `json:"customerRequirement"`
}

// IShareService defines the sharing workflow between brokers and
// customers.
type IShareService interface {
	Create(ctx context.Context, sharerID, sharedWithID, propertyID primitive.ObjectID) (*models.Share, error)
	ChangeStatus(ctx context.Context, shareID primitive.ObjectID, status models.ShareStatus) (*models.Share, error)
	FindByID(ctx context.Context, shareID primitive.ObjectID) (*models.Share, error)
	CustomersOfProperty(ctx context.Context, sharerID, propertyID primitive.ObjectID) ([]models.SharedProperty, error)
	SharedWithCustomer(ctx context.Context, customerID primitive.ObjectID, filters PropertyFilters) (*CustomerShareView, error)
	SharedByBroker(ctx context.Context, sharerID primitive.ObjectID) ([]models.SharedProperty, error)
}

type shareService struct {
	db          *mongo.Database
	userService IUserService
}

// NewShareService creates the sharing service.
func NewShareService(database *mongo.Database, userService IUserService) IShareService {
	return &shareService{db: database, userService: userService}
}

// Create records that sharer exposed propertyID to sharedWithID. The
// unique index on the triple rejects a repeat share.
func (s *shareService) Create(ctx context.Context, sharerID, sharedWithID, propertyID primitive.ObjectID) (*models.Share, error) {
	// Both ends of the share must exist.
	if _, err := s.userService.FindByID(ctx, sharedWithID); err != nil {
		return nil, err
	}
	count, err := s.db.Collection(propertiesCollection).CountDocuments(ctx, bson.M{"_id": propertyID})
	if err != nil {
		return nil, fmt.Errorf("failed to check property existence: %w", err)
	}
	if count == 0 {
		return nil, ErrPropertyNotFound
	}

	now := time.Now().UTC()
	share := &models.Share{
		ID:         primitive.NewObjectID(),
		UserID:     sharerID,
		SharedWith: sharedWithID,
		PropertyID: propertyID,
		Status:     models.SharePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = db.Try(func() error {
		_, insertErr := s.db.Collection(sharesCollection).InsertOne(ctx, share)
		return insertErr
	})
	if err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateShare
		}
		return nil, fmt.Errorf("failed to insert share: %w", err)
	}
	return share, nil
}

// ChangeStatus records the customer's reaction to a shared property.
func (s *shareService) ChangeStatus(ctx context.Context, shareID primitive.ObjectID, status models.ShareStatus) (*models.Share, error) {
	if !status.Valid() {
		return nil, ErrInvalidShareStatus
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := s.db.Collection(sharesCollection).UpdateByID(ctx, shareID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to change share status: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrShareNotFound
	}
	return s.FindByID(ctx, shareID)
}

func (s *shareService) FindByID(ctx context.Context, shareID primitive.ObjectID) (*models.Share, error) {
	var share models.Share
	err := s.db.Collection(sharesCollection).FindOne(ctx, bson.M{"_id": shareID}).Decode(&share)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrShareNotFound
		}
		return nil, fmt.Errorf("failed to find share: %w", err)
	}
	return &share, nil
}

// CustomersOfProperty lists who a broker shared one property with and
// where each customer stands.
func (s *shareService) CustomersOfProperty(ctx context.Context, sharerID, propertyID primitive.ObjectID) ([]models.SharedProperty, error) {
	return s.expand(ctx, bson.M{"userId": sharerID, "propertyId": propertyID}, true, false, nil)
}

// SharedWithCustomer lists what was shared with one customer, keeping
// only shares whose property matches the browse filters, and attaches
// the customer's saved requirement when one exists.
func (s *shareService) SharedWithCustomer(ctx context.Context, customerID primitive.ObjectID, filters PropertyFilters) (*CustomerShareView, error) {
	propertyFilter := query.New().
		Eq("floor", filters.Floor).
		Eq("category", filters.Category).
		Eq("format", filters.Format).
		Eq("furnished", filters.Furnished).
		Eq("type", filters.Type).
		PriceMax("price", filters.PriceRange).
		Search(filters.Search, "title", "description").
		Build()

	shares, err := s.expand(ctx, bson.M{"sharedWith": customerID}, false, true, propertyFilter)
	if err != nil {
		return nil, err
	}

	view := &CustomerShareView{Properties: shares}
	var requirement models.Requirement
	err = s.db.Collection(requirementsCollection).
		FindOne(ctx, bson.M{"userDetails": customerID}).
		Decode(&requirement)
	if err == nil {
		view.Requirement = &requirement
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to load customer requirement: %w", err)
	}
	return view, nil
}

// SharedByBroker lists everything one broker has shared, with both the
// recipient contact and the property.
func (s *shareService) SharedByBroker(ctx context.Context, sharerID primitive.ObjectID) ([]models.SharedProperty, error) {
	return s.expand(ctx, bson.M{"userId": sharerID}, true, true, nil)
}

// expand loads shares for a filter and attaches recipient and property
// documents with one $in query each. A non-nil propertyFilter narrows
// the property load; shares whose property fails it are dropped, the
// same way a populate-with-match join behaves.
func (s *shareService) expand(ctx context.Context, filter bson.M, withRecipient, withProperty bool, propertyFilter bson.M) ([]models.SharedProperty, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(sharesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer cursor.Close(ctx)

	var shares []models.Share
	if err := cursor.All(ctx, &shares); err != nil {
		return nil, fmt.Errorf("failed to decode shares: %w", err)
	}

	var summaries map[primitive.ObjectID]models.UserSummary
	if withRecipient {
		ids := make([]primitive.ObjectID, 0, len(shares))
		for _, share := range shares {
			ids = append(ids, share.SharedWith)
		}
		if summaries, err = s.userService.Summaries(ctx, ids); err != nil {
			return nil, err
		}
	}

	properties := make(map[primitive.ObjectID]models.Property)
	if withProperty && len(shares) > 0 {
		ids := make([]primitive.ObjectID, 0, len(shares))
		for _, share := range shares {
			ids = append(ids, share.PropertyID)
		}
		propQuery := bson.M{"_id": bson.M{"$in": ids}}
		for key, value := range propertyFilter {
			propQuery[key] = value
		}
		propCursor, err := s.db.Collection(propertiesCollection).Find(ctx, propQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to load shared properties: %w", err)
		}
		defer propCursor.Close(ctx)

		var props []models.Property
		if err := propCursor.All(ctx, &props); err != nil {
			return nil, fmt.Errorf("failed to decode shared properties: %w", err)
		}
		for _, p := range props {
			properties[p.ID] = p
		}
	}

	out := make([]models.SharedProperty, 0, len(shares))
	for _, share := range shares {
		item := models.SharedProperty{
			ID:       share.ID,
			SharedAt: share.CreatedAt,
			Status:   share.Status,
		}
		if withRecipient {
			if sum, ok := summaries[share.SharedWith]; ok {
				sumCopy := sum
				item.SharedWith = &sumCopy
			}
		}
		if withProperty {
			prop, ok := properties[share.PropertyID]
			if !ok && propertyFilter != nil {
				continue
			}
			if ok {
				propCopy := prop
				item.Property = &propCopy
			}
		}
		out = append(out, item)
	}
	return out, nil
}
