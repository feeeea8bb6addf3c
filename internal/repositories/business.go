package repositories

import (
	"context"
	"errors"
	"log"

	"gatepass/internal/models"
	"gatepass/internal/repositories/cache"

	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrSlugTaken        = errors.New("business slug already taken")
)

// BusinessRepository defines the interface for business-related database operations
type BusinessRepository interface {
	Create(business *models.Business) error
	GetByID(ctx context.Context, id uint) (*models.Business, error)
	GetByOwnerUserID(ownerUserID uint) (*models.Business, error)
	GetBySlug(slug string) (*models.Business, error)
	Update(ctx context.Context, business *models.Business) error
	List(offset, limit int) ([]*models.Business, int64, error)
}

type businessRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewBusinessRepository creates a new instance of BusinessRepository
func NewBusinessRepository(db *gorm.DB, cache *cache.CacheService) BusinessRepository {
	return &businessRepository{
		db:    db,
		cache: cache,
	}
}

func (r *businessRepository) Create(business *models.Business) error {
	if err := r.db.Create(business).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *businessRepository) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	if business, err := r.cache.GetBusiness(ctx, id); err == nil {
		return business, nil
	}

	var business models.Business
	if err := r.db.First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, ErrDatabaseOperation
	}

	if err := r.cache.CacheBusiness(ctx, &business); err != nil {
		log.Printf("Failed to cache business %d: %v", business.ID, err)
	}
	return &business, nil
}

func (r *businessRepository) GetByOwnerUserID(ownerUserID uint) (*models.Business, error) {
	var business models.Business
	if err := r.db.Where("owner_user_id = ?", ownerUserID).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &business, nil
}

func (r *businessRepository) GetBySlug(slug string) (*models.Business, error) {
	var business models.Business
	if err := r.db.Where("slug = ?", slug).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &business, nil
}

func (r *businessRepository) Update(ctx context.Context, business *models.Business) error {
	if err := r.db.Save(business).Error; err != nil {
		return ErrDatabaseOperation
	}
	if err := r.cache.InvalidateBusiness(ctx, business.ID); err != nil {
		log.Printf("Failed to invalidate business %d cache: %v", business.ID, err)
	}
	return nil
}

func (r *businessRepository) List(offset, limit int) ([]*models.Business, int64, error) {
	var businesses []*models.Business
	var total int64

	if err := r.db.Model(&models.Business{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	if err := r.db.Offset(offset).Limit(limit).Order("id").Find(&businesses).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return businesses, total, nil
}
