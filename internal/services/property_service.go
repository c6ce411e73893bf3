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

	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/query"
	"github.com/Zaid3480/Real-Estate/internal/tasks"
)

const propertiesCollection = "properties"

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrNoMatch          = errors.New("no properties matched")
	ErrInvalidStatus    = errors.New("invalid property status")
	ErrNotPropertyOwner = errors.New("not the property owner")
)

// PropertyFilters carries the optional browse filters, raw from the
// query string.
type PropertyFilters struct {
	Floor      string
	Category   string
	Format     string
	Furnished  string
	Type       string
	PriceRange string
	Search     string
}

// PropertyPage is a page of listings with owner contact expansion.
type PropertyPage struct {
	Properties []models.PropertyWithBroker `json:"properties"`
	Pagination query.Pagination            `json:"pagination"`
}

// UpdatePropertyInput holds the mutable listing fields. Nil means
// unchanged; Media is appended, never replaced.
type UpdatePropertyInput struct {
	Title       *string
	Price       *float64
	Area        *string
	Floor       *string
	Location    *string
	Description *string
	Category    *string
	Format      *string
	SizeType    *string
	Size        *string
	Furnished   *models.FurnishedState
	Media       []models.MediaItem
}

// DashboardStats is the broker dashboard tally.
type DashboardStats struct {
	TotalProperties int64 `json:"totalProperties"`
	Active          int64 `json:"activeProperties"`
	DealClosed      int64 `json:"dealClosedProperties"`
	TotalShares     int64 `json:"totalShares"`
}

// IPropertyService defines listing operations.
type IPropertyService interface {
	Create(ctx context.Context, p *models.Property) (*models.Property, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PropertyWithBroker, error)
	FindByBroker(ctx context.Context, brokerID primitive.ObjectID, status models.PropertyStatus, page query.Page) (*PropertyPage, error)
	GetAll(ctx context.Context, filters PropertyFilters, page query.Page) (*PropertyPage, error)
	FindByRequirement(ctx context.Context, req *models.Requirement, search string, page query.Page) (*PropertyPage, error)
	CountByRequirement(ctx context.Context, req *models.Requirement) (int64, error)
	Update(ctx context.Context, id, ownerID primitive.ObjectID, in UpdatePropertyInput) (*models.Property, error)
	ChangeStatus(ctx context.Context, id, ownerID primitive.ObjectID, status models.PropertyStatus) (*models.Property, error)
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
	BrokerDashboard(ctx context.Context, brokerID primitive.ObjectID) (*DashboardStats, error)
}

type propertyService struct {
	db          *mongo.Database
	userService IUserService
	taskClient  *asynq.Client
}

// NewPropertyService creates the listing service. taskClient may be nil
// in tests; image normalization is then skipped.
func NewPropertyService(database *mongo.Database, userService IUserService, taskClient *asynq.Client) IPropertyService {
	return &propertyService{db: database, userService: userService, taskClient: taskClient}
}

// Create inserts a new listing and queues normalization for its images.
func (s *propertyService) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Status = models.PropertyActive
	if p.Furnished == "" {
		p.Furnished = models.Unfurnished
	}
	if p.Media == nil {
		p.Media = []models.MediaItem{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.db.Collection(propertiesCollection).InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to insert property: %w", err)
	}

	s.enqueueImageTasks(ctx, p.ID, p.Media)
	return p, nil
}

func (s *propertyService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PropertyWithBroker, error) {
	var prop models.Property
	err := s.db.Collection(propertiesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&prop)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	expanded, err := s.expandBrokers(ctx, []models.Property{prop})
	if err != nil {
		return nil, err
	}
	return &expanded[0], nil
}

// FindByBroker pages through one broker's listings, optionally filtered
// by status.
func (s *propertyService) FindByBroker(ctx context.Context, brokerID primitive.ObjectID, status models.PropertyStatus, page query.Page) (*PropertyPage, error) {
	filter := bson.M{"postedBy": brokerID}
	if status != "" {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		filter["status"] = status
	}
	return s.findPage(ctx, filter, page)
}

// GetAll pages through listings matching the browse filters. An empty
// result reports ErrNoMatch.
func (s *propertyService) GetAll(ctx context.Context, filters PropertyFilters, page query.Page) (*PropertyPage, error) {
	filter := query.New().
		Eq("floor", filters.Floor).
		Eq("category", filters.Category).
		Eq("format", filters.Format).
		Eq("furnished", filters.Furnished).
		Eq("type", filters.Type).
		PriceMax("price", filters.PriceRange).
		Search(filters.Search, "title", "location", "area").
		Build()

	result, err := s.findPage(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	if result.Pagination.Total == 0 {
		return nil, ErrNoMatch
	}
	return result, nil
}

// requirementFilter turns a saved requirement into the disjunctive
// attribute predicate.
func requirementFilter(req *models.Requirement, search string) *query.Filter {
	return query.New().
		OrEq("type", req.PropertyType).
		OrEq("floor", req.Floor).
		OrEq("furnished", req.Furnished).
		OrEq("format", req.Format).
		OrEq("size", req.Size).
		OrSubstring("area", req.Area).
		OrSubstring("location", req.City).
		OrSubstring("location", req.State).
		OrPriceMax("price", req.PriceRange).
		Search(search, "title", "location", "area")
}

// FindByRequirement matches listings where any requirement attribute
// holds, intersected with an optional free-text search. A requirement
// with no usable attributes matches nothing.
func (s *propertyService) FindByRequirement(ctx context.Context, req *models.Requirement, search string, page query.Page) (*PropertyPage, error) {
	f := requirementFilter(req, search)
	if f.OrCount() == 0 {
		return nil, ErrNoMatch
	}

	result, err := s.findPage(ctx, f.Build(), page)
	if err != nil {
		return nil, err
	}
	if result.Pagination.Total == 0 {
		return nil, ErrNoMatch
	}
	return result, nil
}

// CountByRequirement reports how many listings a requirement currently
// matches without loading them.
func (s *propertyService) CountByRequirement(ctx context.Context, req *models.Requirement) (int64, error) {
	f := requirementFilter(req, "")
	if f.OrCount() == 0 {
		return 0, nil
	}
	count, err := s.db.Collection(propertiesCollection).CountDocuments(ctx, f.Build())
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

// Update applies the non-nil fields and appends any new media. Only the
// posting broker may update a listing.
func (s *propertyService) Update(ctx context.Context, id, ownerID primitive.ObjectID, in UpdatePropertyInput) (*models.Property, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if in.Area != nil {
		set["area"] = *in.Area
	}
	if in.Floor != nil {
		set["floor"] = *in.Floor
	}
	if in.Location != nil {
		set["location"] = *in.Location
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.Format != nil {
		set["format"] = *in.Format
	}
	if in.SizeType != nil {
		set["sizeType"] = *in.SizeType
	}
	if in.Size != nil {
		set["size"] = *in.Size
	}
	if in.Furnished != nil {
		set["furnished"] = *in.Furnished
	}

	update := bson.M{"$set": set}
	if len(in.Media) > 0 {
		update["$push"] = bson.M{"media": bson.M{"$each": in.Media}}
	}

	result, err := s.db.Collection(propertiesCollection).
		UpdateOne(ctx, bson.M{"_id": id, "postedBy": ownerID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, s.notFoundOrForbidden(ctx, id)
	}

	s.enqueueImageTasks(ctx, id, in.Media)

	var prop models.Property
	if err := s.db.Collection(propertiesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&prop); err != nil {
		return nil, fmt.Errorf("failed to reload property: %w", err)
	}
	return &prop, nil
}

// ChangeStatus moves a listing between Active and Deal-Closed.
func (s *propertyService) ChangeStatus(ctx context.Context, id, ownerID primitive.ObjectID, status models.PropertyStatus) (*models.Property, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := s.db.Collection(propertiesCollection).
		UpdateOne(ctx, bson.M{"_id": id, "postedBy": ownerID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to change property status: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, s.notFoundOrForbidden(ctx, id)
	}

	var prop models.Property
	if err := s.db.Collection(propertiesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&prop); err != nil {
		return nil, fmt.Errorf("failed to reload property: %w", err)
	}
	return &prop, nil
}

// Delete removes a listing. Only the posting broker may delete it.
func (s *propertyService) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := s.db.Collection(propertiesCollection).
		DeleteOne(ctx, bson.M{"_id": id, "postedBy": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if result.DeletedCount == 0 {
		return s.notFoundOrForbidden(ctx, id)
	}
	return nil
}

// BrokerDashboard tallies a broker's listings and outstanding shares.
func (s *propertyService) BrokerDashboard(ctx context.Context, brokerID primitive.ObjectID) (*DashboardStats, error) {
	properties := s.db.Collection(propertiesCollection)

	total, err := properties.CountDocuments(ctx, bson.M{"postedBy": brokerID})
	if err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}
	active, err := properties.CountDocuments(ctx, bson.M{"postedBy": brokerID, "status": models.PropertyActive})
	if err != nil {
		return nil, fmt.Errorf("failed to count active properties: %w", err)
	}
	shares, err := s.db.Collection(sharesCollection).CountDocuments(ctx, bson.M{"userId": brokerID})
	if err != nil {
		return nil, fmt.Errorf("failed to count shares: %w", err)
	}

	return &DashboardStats{
		TotalProperties: total,
		Active:          active,
		DealClosed:      total - active,
		TotalShares:     shares,
	}, nil
}

// findPage runs the count+find pair for a filter and expands broker
// contacts.
func (s *propertyService) findPage(ctx context.Context, filter bson.M, page query.Page) (*PropertyPage, error) {
	collection := s.db.Collection(propertiesCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit64())
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer cursor.Close(ctx)

	var props []models.Property
	if err := cursor.All(ctx, &props); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}

	expanded, err := s.expandBrokers(ctx, props)
	if err != nil {
		return nil, err
	}
	return &PropertyPage{Properties: expanded, Pagination: page.PageInfo(total)}, nil
}

// expandBrokers attaches the owner's contact view to each listing with
// a single $in lookup.
func (s *propertyService) expandBrokers(ctx context.Context, props []models.Property) ([]models.PropertyWithBroker, error) {
	ids := make([]primitive.ObjectID, 0, len(props))
	seen := make(map[primitive.ObjectID]bool, len(props))
	for _, p := range props {
		if !seen[p.PostedBy] {
			seen[p.PostedBy] = true
			ids = append(ids, p.PostedBy)
		}
	}

	summaries, err := s.userService.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PropertyWithBroker, len(props))
	for i, p := range props {
		out[i] = models.PropertyWithBroker{Property: p}
		if sum, ok := summaries[p.PostedBy]; ok {
			sumCopy := sum
			out[i].Broker = &sumCopy
		}
	}
	return out, nil
}

// notFoundOrForbidden distinguishes a missing listing from one owned by
// somebody else.
func (s *propertyService) notFoundOrForbidden(ctx context.Context, id primitive.ObjectID) error {
	count, err := s.db.Collection(propertiesCollection).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to check property existence: %w", err)
	}
	if count == 0 {
		return ErrPropertyNotFound
	}
	return ErrNotPropertyOwner
}

// enqueueImageTasks queues downscaling for freshly uploaded images.
func (s *propertyService) enqueueImageTasks(ctx context.Context, propertyID primitive.ObjectID, media []models.MediaItem) {
	if s.taskClient == nil {
		return
	}
	for _, item := range media {
		if item.Type != models.MediaImage {
			continue
		}
		task, err := tasks.NewImageProcessTask(item.Path, propertyID.Hex())
		if err != nil {
			log.Printf("Failed to build image task for %s: %v", item.Path, err)
			continue
		}
		if _, err := s.taskClient.EnqueueContext(ctx, task); err != nil {
			log.Printf("Failed to enqueue image task for %s: %v", item.Path, err)
		}
	}
}
