package handlers_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/query"
	"github.com/Zaid3480/Real-Estate/internal/services"
)

// --- Mocks ---

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, mobileNo, password string) (*models.User, string, error) {
	args := m.Called(ctx, mobileNo, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockUserService) VerifyOTP(ctx context.Context, mobileNo, otp string) (*models.User, error) {
	args := m.Called(ctx, mobileNo, otp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ResendOTP(ctx context.Context, mobileNo string) error {
	args := m.Called(ctx, mobileNo)
	return args.Error(0)
}

func (m *MockUserService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByMobile(ctx context.Context, mobileNo string) (*models.User, error) {
	args := m.Called(ctx, mobileNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetAll(ctx context.Context, role models.Role) ([]models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Edit(ctx context.Context, id primitive.ObjectID, in services.EditUserInput) (*models.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) TotalCounts(ctx context.Context) (*services.UserCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UserCounts), args.Error(1)
}

func (m *MockUserService) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]models.UserSummary), args.Error(1)
}

// MockPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PropertyWithBroker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyWithBroker), args.Error(1)
}

func (m *MockPropertyService) FindByBroker(ctx context.Context, brokerID primitive.ObjectID, status models.PropertyStatus, page query.Page) (*services.PropertyPage, error) {
	args := m.Called(ctx, brokerID, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PropertyPage), args.Error(1)
}

func (m *MockPropertyService) GetAll(ctx context.Context, filters services.PropertyFilters, page query.Page) (*services.PropertyPage, error) {
	args := m.Called(ctx, filters, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PropertyPage), args.Error(1)
}

func (m *MockPropertyService) FindByRequirement(ctx context.Context, req *models.Requirement, search string, page query.Page) (*services.PropertyPage, error) {
	args := m.Called(ctx, req, search, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PropertyPage), args.Error(1)
}

func (m *MockPropertyService) CountByRequirement(ctx context.Context, req *models.Requirement) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyService) Update(ctx context.Context, id, ownerID primitive.ObjectID, in services.UpdatePropertyInput) (*models.Property, error) {
	args := m.Called(ctx, id, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) ChangeStatus(ctx context.Context, id, ownerID primitive.ObjectID, status models.PropertyStatus) (*models.Property, error) {
	args := m.Called(ctx, id, ownerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockPropertyService) BrokerDashboard(ctx context.Context, brokerID primitive.ObjectID) (*services.DashboardStats, error) {
	args := m.Called(ctx, brokerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DashboardStats), args.Error(1)
}

// MockShareService
type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) Create(ctx context.Context, sharerID, sharedWithID, propertyID primitive.ObjectID) (*models.Share, error) {
	args := m.Called(ctx, sharerID, sharedWithID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Share), args.Error(1)
}

func (m *MockShareService) ChangeStatus(ctx context.Context, shareID primitive.ObjectID, status models.ShareStatus) (*models.Share, error) {
	args := m.Called(ctx, shareID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Share), args.Error(1)
}

func (m *MockShareService) FindByID(ctx context.Context, shareID primitive.ObjectID) (*models.Share, error) {
	args := m.Called(ctx, shareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Share), args.Error(1)
}

func (m *MockShareService) CustomersOfProperty(ctx context.Context, sharerID, propertyID primitive.ObjectID) ([]models.SharedProperty, error) {
	args := m.Called(ctx, sharerID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SharedProperty), args.Error(1)
}

func (m *MockShareService) SharedWithCustomer(ctx context.Context, customerID primitive.ObjectID, filters services.PropertyFilters) (*services.CustomerShareView, error) {
	args := m.Called(ctx, customerID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CustomerShareView), args.Error(1)
}

func (m *MockShareService) SharedByBroker(ctx context.Context, sharerID primitive.ObjectID) ([]models.SharedProperty, error) {
	args := m.Called(ctx, sharerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SharedProperty), args.Error(1)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, folder, filename, r)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Open(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	args := m.Called(ctx, storedPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Put(ctx context.Context, storedPath string, r io.Reader) error {
	args := m.Called(ctx, storedPath, r)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, storedPath string) error {
	args := m.Called(ctx, storedPath)
	return args.Error(0)
}
