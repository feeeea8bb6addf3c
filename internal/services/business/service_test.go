package business

import (
	"context"
	"testing"

	"gatepass/internal/models"
	"gatepass/internal/repositories"
	"gatepass/internal/services/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBusinessRepo struct {
	mock.Mock
}

func (m *MockBusinessRepo) Create(business *models.Business) error {
	args := m.Called(business)
	return args.Error(0)
}

func (m *MockBusinessRepo) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Business), args.Error(1)
}

func (m *MockBusinessRepo) GetByOwnerUserID(ownerUserID uint) (*models.Business, error) {
	args := m.Called(ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Business), args.Error(1)
}

func (m *MockBusinessRepo) GetBySlug(slug string) (*models.Business, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Business), args.Error(1)
}

func (m *MockBusinessRepo) Update(ctx context.Context, business *models.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBusinessRepo) List(offset, limit int) ([]*models.Business, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]*models.Business), args.Get(1).(int64), args.Error(2)
}

type MockFeeConfigRepo struct {
	mock.Mock
}

func (m *MockFeeConfigRepo) GetDefault(ctx context.Context) (*models.FeeConfiguration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeConfiguration), args.Error(1)
}

func (m *MockFeeConfigRepo) GetOverride(ctx context.Context, businessID uint) (*models.FeeConfiguration, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeConfiguration), args.Error(1)
}

func (m *MockFeeConfigRepo) Upsert(ctx context.Context, cfg *models.FeeConfiguration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockFeeConfigRepo) DeleteOverride(ctx context.Context, businessID uint) error {
	args := m.Called(ctx, businessID)
	return args.Error(0)
}

type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) CreateEvent(event *models.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventRepo) GetEvent(id uint) (*models.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepo) UpdateEvent(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepo) ListByBusiness(businessID uint, offset, limit int) ([]*models.Event, int64, error) {
	args := m.Called(businessID, offset, limit)
	return args.Get(0).([]*models.Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventRepo) ListPublished(offset, limit int) ([]*models.Event, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]*models.Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventRepo) CreateTicketType(tt *models.TicketType) error {
	args := m.Called(tt)
	return args.Error(0)
}

func (m *MockEventRepo) GetTicketType(id uint) (*models.TicketType, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketType), args.Error(1)
}

func (m *MockEventRepo) UpdateTicketType(tt *models.TicketType) error {
	args := m.Called(tt)
	return args.Error(0)
}

func (m *MockEventRepo) MinTicketPrice(businessID uint) (float64, error) {
	args := m.Called(businessID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockEventRepo) ReserveTickets(ticketTypeID uint, quantity int) error {
	args := m.Called(ticketTypeID, quantity)
	return args.Error(0)
}

func (m *MockEventRepo) ReleaseTickets(ticketTypeID uint, quantity int) error {
	args := m.Called(ticketTypeID, quantity)
	return args.Error(0)
}

// newTestService wires the service against mocks and the real pricing
// engine, so fee validation runs the production math.
func newTestService(repo *MockBusinessRepo, feeRepo *MockFeeConfigRepo, eventRepo *MockEventRepo) Service {
	return NewService(repo, feeRepo, eventRepo, pricing.NewService(NewFeeConfigProvider(feeRepo)))
}

func TestRegister(t *testing.T) {
	t.Run("creates business with customer-pays defaults", func(t *testing.T) {
		repo := new(MockBusinessRepo)
		repo.On("GetByOwnerUserID", uint(7)).Return(nil, repositories.ErrBusinessNotFound)
		repo.On("Create", mock.AnythingOfType("*models.Business")).Return(nil)

		svc := newTestService(repo, new(MockFeeConfigRepo), new(MockEventRepo))
		created, err := svc.Register(context.Background(), 7, RegisterInput{
			Name:         "Velvet Room Presents",
			ContactEmail: "ops@velvetroom.test",
		})

		assert.NoError(t, err)
		assert.Equal(t, "velvet-room-presents", created.Slug)
		assert.Equal(t, models.FeePayerCustomer, created.StripeFeePayer)
		assert.Equal(t, models.FeePayerCustomer, created.PlatformFeePayer)
		assert.Equal(t, "pending", created.Status)
		repo.AssertExpectations(t)
	})

	t.Run("retries with suffixed slug on collision", func(t *testing.T) {
		repo := new(MockBusinessRepo)
		repo.On("GetByOwnerUserID", uint(7)).Return(nil, repositories.ErrBusinessNotFound)
		repo.On("Create", mock.AnythingOfType("*models.Business")).Return(repositories.ErrSlugTaken).Once()
		repo.On("Create", mock.AnythingOfType("*models.Business")).Return(nil).Once()

		svc := newTestService(repo, new(MockFeeConfigRepo), new(MockEventRepo))
		created, err := svc.Register(context.Background(), 7, RegisterInput{Name: "Velvet Room"})

		assert.NoError(t, err)
		assert.Regexp(t, `^velvet-room-[0-9a-f]{8}$`, created.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a second business for the same owner", func(t *testing.T) {
		repo := new(MockBusinessRepo)
		repo.On("GetByOwnerUserID", uint(7)).Return(&models.Business{ID: 1}, nil)

		svc := newTestService(repo, new(MockFeeConfigRepo), new(MockEventRepo))
		_, err := svc.Register(context.Background(), 7, RegisterInput{Name: "Second Stage"})

		assert.ErrorIs(t, err, ErrAlreadyExists)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestSetFeeOverride(t *testing.T) {
	business := &models.Business{
		ID:               3,
		StripeFeePayer:   models.FeePayerCustomer,
		PlatformFeePayer: models.FeePayerCustomer,
	}

	t.Run("persists a valid override", func(t *testing.T) {
		repo := new(MockBusinessRepo)
		repo.On("GetByID", mock.Anything, uint(3)).Return(business, nil)

		eventRepo := new(MockEventRepo)
		eventRepo.On("MinTicketPrice", uint(3)).Return(10.0, nil)

		feeRepo := new(MockFeeConfigRepo)
		feeRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(cfg *models.FeeConfiguration) bool {
			return cfg.BusinessID != nil && *cfg.BusinessID == 3 &&
				cfg.FeeType == models.FeeTypeHigherOfBoth && cfg.Active
		})).Return(nil)

		svc := newTestService(repo, feeRepo, eventRepo)
		err := svc.SetFeeOverride(context.Background(), 3, pricing.FeeConfiguration{
			FeeType:       pricing.FeeTypeHigherOfBoth,
			FlatFeeAmount: 1.00,
			PercentageFee: 5,
		})

		assert.NoError(t, err)
		feeRepo.AssertExpectations(t)
	})

	t.Run("rejects an override that puts the cheapest ticket underwater", func(t *testing.T) {
		absorbing := &models.Business{
			ID:               3,
			StripeFeePayer:   models.FeePayerBusiness,
			PlatformFeePayer: models.FeePayerBusiness,
		}
		repo := new(MockBusinessRepo)
		repo.On("GetByID", mock.Anything, uint(3)).Return(absorbing, nil)

		eventRepo := new(MockEventRepo)
		eventRepo.On("MinTicketPrice", uint(3)).Return(1.0, nil)

		feeRepo := new(MockFeeConfigRepo)

		svc := newTestService(repo, feeRepo, eventRepo)
		err := svc.SetFeeOverride(context.Background(), 3, pricing.FeeConfiguration{
			FeeType:       pricing.FeeTypeFlat,
			FlatFeeAmount: 1.00,
		})

		assert.ErrorIs(t, err, pricing.ErrNegativePayout)
		feeRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestUpdateFeePayers(t *testing.T) {
	t.Run("rejects unknown payer values", func(t *testing.T) {
		svc := newTestService(new(MockBusinessRepo), new(MockFeeConfigRepo), new(MockEventRepo))
		err := svc.UpdateFeePayers(context.Background(), 3, "someone-else", models.FeePayerCustomer)
		assert.ErrorIs(t, err, ErrInvalidFeePayer)
	})

	t.Run("rejects a switch that strands the current schedule", func(t *testing.T) {
		repo := new(MockBusinessRepo)
		repo.On("GetByID", mock.Anything, uint(3)).Return(&models.Business{
			ID:               3,
			StripeFeePayer:   models.FeePayerCustomer,
			PlatformFeePayer: models.FeePayerCustomer,
		}, nil)

		feeRepo := new(MockFeeConfigRepo)
		feeRepo.On("GetOverride", mock.Anything, uint(3)).Return(&models.FeeConfiguration{
			FeeType:       models.FeeTypeFlat,
			FlatFeeAmount: 1.00,
		}, nil)

		eventRepo := new(MockEventRepo)
		eventRepo.On("MinTicketPrice", uint(3)).Return(1.0, nil)

		svc := newTestService(repo, feeRepo, eventRepo)
		err := svc.UpdateFeePayers(context.Background(), 3, models.FeePayerBusiness, models.FeePayerBusiness)

		assert.ErrorIs(t, err, pricing.ErrNegativePayout)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("persists a valid switch", func(t *testing.T) {
		business := &models.Business{
			ID:               3,
			StripeFeePayer:   models.FeePayerCustomer,
			PlatformFeePayer: models.FeePayerCustomer,
		}
		repo := new(MockBusinessRepo)
		repo.On("GetByID", mock.Anything, uint(3)).Return(business, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(b *models.Business) bool {
			return b.StripeFeePayer == models.FeePayerBusiness && b.PlatformFeePayer == models.FeePayerCustomer
		})).Return(nil)

		feeRepo := new(MockFeeConfigRepo)
		feeRepo.On("GetOverride", mock.Anything, uint(3)).Return(nil, repositories.ErrFeeConfigNotFound)
		feeRepo.On("GetDefault", mock.Anything).Return(&models.FeeConfiguration{
			FeeType:       models.FeeTypePercentage,
			PercentageFee: 5,
		}, nil)

		eventRepo := new(MockEventRepo)
		eventRepo.On("MinTicketPrice", uint(3)).Return(25.0, nil)

		svc := newTestService(repo, feeRepo, eventRepo)
		err := svc.UpdateFeePayers(context.Background(), 3, models.FeePayerBusiness, models.FeePayerCustomer)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestRemoveFeeOverride(t *testing.T) {
	t.Run("treats a missing override as success", func(t *testing.T) {
		feeRepo := new(MockFeeConfigRepo)
		feeRepo.On("DeleteOverride", mock.Anything, uint(3)).Return(repositories.ErrFeeConfigNotFound)

		svc := newTestService(new(MockBusinessRepo), feeRepo, new(MockEventRepo))
		assert.NoError(t, svc.RemoveFeeOverride(context.Background(), 3))
	})
}
