package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/query"
)

func seedProperty(t *testing.T, svc IPropertyService, brokerID primitive.ObjectID, title, location string, price float64, propType models.PropertyType) *models.Property {
	t.Helper()
	created, err := svc.Create(context.Background(), &models.Property{
		Title:     title,
		Price:     price,
		Area:      "Bodakdev",
		Floor:     "2",
		Location:  location,
		Type:      propType,
		Category:  "Rent",
		Format:    "2BHK",
		Furnished: models.FurnishedSemi,
		PostedBy:  brokerID,
	})
	require.NoError(t, err)
	return created
}

func TestPropertyService_CreateAndFindByID(t *testing.T) {
	database := setupTestDB(t, "realestate_property_test")
	users := NewUserService(database, testServiceConfig(), nil)
	svc := NewPropertyService(database, users, nil)

	broker := registerTestUser(t, users, models.RoleBroker, "9810000001", "broker1@example.com")
	created := seedProperty(t, svc, broker.ID, "Lake View Flat", "Ahmedabad", 25000, models.PropertyResidential)
	assert.Equal(t, models.PropertyActive, created.Status)

	found, err := svc.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lake View Flat", found.Title)
	require.NotNil(t, found.Broker, "owner contact should be expanded")
	assert.Equal(t, broker.FullName, found.Broker.FullName)

	_, err = svc.FindByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestPropertyService_GetAll_FiltersAndSearch(t *testing.T) {
	database := setupTestDB(t, "realestate_property_test")
	users := NewUserService(database, testServiceConfig(), nil)
	svc := NewPropertyService(database, users, nil)
	ctx := context.Background()

	broker := registerTestUser(t, users, models.RoleBroker, "9810000002", "broker2@example.com")
	seedProperty(t, svc, broker.ID, "Lake View Flat", "Ahmedabad", 25000, models.PropertyResidential)
	seedProperty(t, svc, broker.ID, "Corner Office", "Gandhinagar", 90000, models.PropertyCommercial)
	seedProperty(t, svc, broker.ID, "Compact Flat", "Ahmedabad", 12000, models.PropertyResidential)

	page, err := svc.GetAll(ctx, PropertyFilters{Type: "Residential"}, query.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)

	// Price ceiling keeps only the cheaper listing.
	page, err = svc.GetAll(ctx, PropertyFilters{Type: "Residential", PriceRange: "15000"}, query.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Properties, 1)
	assert.Equal(t, "Compact Flat", page.Properties[0].Title)

	// Free-text search matches location too, case-insensitively.
	page, err = svc.GetAll(ctx, PropertyFilters{Search: "gandhinagar"}, query.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Properties, 1)
	assert.Equal(t, "Corner Office", page.Properties[0].Title)

	_, err = svc.GetAll(ctx, PropertyFilters{Search: "no such place"}, query.Page{Number: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestPropertyService_GetAll_Pagination(t *testing.T) {
	database := setupTestDB(t, "realestate_property_test")
	users := NewUserService(database, testServiceConfig(), nil)
	svc := NewPropertyService(database, users, nil)
	ctx := context.Background()

	broker := registerTestUser(t, users, models.RoleBroker, "9810000003", "broker3@example.com")
	for i := 0; i < 7; i++ {
		seedProperty(t, svc, broker.ID, fmt.Sprintf("Listing %d", i), "Ahmedabad", 10000, models.PropertyResidential)
	}

	page, err := svc.GetAll(ctx, PropertyFilters{}, query.Page{Number: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, int64(3), page.Pagination.TotalPages)
	assert.Len(t, page.Properties, 3)
}

func TestRequirementFilter_AllAttributesContribute(t *testing.T) {
	req := &models.Requirement{
		PropertyType: "Commercial",
		Floor:        "3",
		Furnished:    "Fully",
		Format:       "2BHK",
		Size:         "1200",
		State:        "Gujarat",
		City:         "Ahmedabad",
		Area:         "Bodakdev",
		PriceRange:   "50000",
	}
	assert.Equal(t, 9, requirementFilter(req, "").OrCount())

	// size and state alone are enough to match.
	assert.Equal(t, 2, requirementFilter(&models.Requirement{Size: "1200", State: "Gujarat"}, "").OrCount())
	assert.Equal(t, 0, requirementFilter(&models.Requirement{}, "").OrCount())
}

func TestPropertyService_FindByRequirement(t *testing.T) {
	database := setupTestDB(t, "realestate_property_test")
	users := NewUserService(database, testServiceConfig(), nil)
	svc := NewPropertyService(database, users, nil)
	ctx := context.Background()

	broker := registerTestUser(t, users, models.RoleBroker, "9810000004", "broker4@example.com")
	seedProperty(t, svc, broker.ID, "Lake View Flat", "Ahmedabad", 25000, models.PropertyResidential)
	seedProperty(t, svc, broker.ID, "Corner Office", "Gandhinagar", 90000, models.PropertyCommercial)

	// Any present attribute matching is enough.
	req := &models.Requirement{PropertyType: "Commercial", City: "Ahmedabad"}
	page, err := svc.FindByRequirement(ctx, req, "", query.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)

	// A search term narrows the disjunctive match.
	page, err = svc.FindByRequirement(ctx, req, "office", query.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Properties, 1)
	assert.Equal(t, "Corner Office", page.Properties[0].Title)

	// A requirement with no usable attributes matches nothing.
	_, err = svc.FindByRequirement(ctx, &models.Requirement{}, "", query.Page{Number: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrNoMatch)

	count, err := svc.CountByRequirement(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPropertyService_OwnerScopedUpdates(t *testing.T) {
	database := setupTestDB(t, "realestate_property_test")
	users := NewUserService(database, testServiceConfig(), nil)
	svc := NewPropertyService(database, users, nil)
	ctx := context.Background()

	owner := registerTestUser(t, users, models.RoleBroker, "9810000005", "owner@example.com")
	intruder := registerTestUser(t, users, models.RoleBroker, "9810000006", "intruder@example.com")
	listing := seedProperty(t, svc, owner.ID, "Lake View Flat", "Ahmedabad", 25000, models.PropertyResidential)

	newTitle := "Lake View Flat (Renovated)"
	updated, err := svc.Update(ctx, listing.ID, owner.ID, UpdatePropertyInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	_, err = svc.Update(ctx, listing.ID, intruder.ID, UpdatePropertyInput{Title: &newTitle})
	assert.ErrorIs(t, err, ErrNotPropertyOwner)

	_, err = svc.Update(ctx, primitive.NewObjectID(), owner.ID, UpdatePropertyInput{Title: &newTitle})
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	_, err = svc.ChangeStatus(ctx, listing.ID, owner.ID, "Sold")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	closed, err := svc.ChangeStatus(ctx, listing.ID, owner.ID, models.PropertyDealClosed)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyDealClosed, closed.Status)

	err = svc.Delete(ctx, listing.ID, intruder.ID)
	assert.ErrorIs(t, err, ErrNotPropertyOwner)
	require.NoError(t, svc.Delete(ctx, listing.ID, owner.ID))

	_, err = svc.FindByID(ctx, listing.ID)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestPropertyService_BrokerDashboard(t *testing.T) {
	database := setupTestDB(t, "realestate_property_test")
	users := NewUserService(database, testServiceConfig(), nil)
	svc := NewPropertyService(database, users, nil)
	shares := NewShareService(database, users)
	ctx := context.Background()

	broker := registerTestUser(t, users, models.RoleBroker, "9810000007", "dash@example.com")
	customer := registerTestUser(t, users, models.RoleUser, "9810000008", "cust@example.com")

	active := seedProperty(t, svc, broker.ID, "Lake View Flat", "Ahmedabad", 25000, models.PropertyResidential)
	closedListing := seedProperty(t, svc, broker.ID, "Corner Office", "Gandhinagar", 90000, models.PropertyCommercial)
	_, err := svc.ChangeStatus(ctx, closedListing.ID, broker.ID, models.PropertyDealClosed)
	require.NoError(t, err)

	_, err = shares.Create(ctx, broker.ID, customer.ID, active.ID)
	require.NoError(t, err)

	stats, err := svc.BrokerDashboard(ctx, broker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProperties)
	assert.Equal(t, int64(1), stats.Active)
	assert.Equal(t, int64(1), stats.DealClosed)
	assert.Equal(t, int64(1), stats.TotalShares)
}
