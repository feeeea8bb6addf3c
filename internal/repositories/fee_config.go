package repositories

import (
	"context"
	"errors"
	"log"

	"gatepass/internal/models"
	"gatepass/internal/repositories/cache"

	"gorm.io/gorm"
)

var ErrFeeConfigNotFound = errors.New("fee configuration not found")

// FeeConfigRepository stores the platform default fee schedule and
// per-business overrides. Cache keys use business ID 0 for the default.
type FeeConfigRepository interface {
	// GetDefault returns the active platform-wide configuration.
	GetDefault(ctx context.Context) (*models.FeeConfiguration, error)

	// GetOverride returns the active override for a business, or
	// ErrFeeConfigNotFound when the business has none.
	GetOverride(ctx context.Context, businessID uint) (*models.FeeConfiguration, error)

	// Upsert creates or fully replaces a configuration row. An override is
	// never merged with the default; saving one replaces it wholesale.
	Upsert(ctx context.Context, cfg *models.FeeConfiguration) error

	// DeleteOverride removes a business override so the default applies again.
	DeleteOverride(ctx context.Context, businessID uint) error
}

type feeConfigRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewFeeConfigRepository creates a new instance of FeeConfigRepository
func NewFeeConfigRepository(db *gorm.DB, cache *cache.CacheService) FeeConfigRepository {
	return &feeConfigRepository{
		db:    db,
		cache: cache,
	}
}

func (r *feeConfigRepository) GetDefault(ctx context.Context) (*models.FeeConfiguration, error) {
	if cfg, err := r.cache.GetFeeConfig(ctx, 0); err == nil {
		return cfg, nil
	}

	var cfg models.FeeConfiguration
	err := r.db.Where("business_id IS NULL AND active = ?", true).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeConfigNotFound
		}
		return nil, ErrDatabaseOperation
	}

	if err := r.cache.CacheFeeConfig(ctx, 0, &cfg); err != nil {
		log.Printf("Failed to cache default fee config: %v", err)
	}
	return &cfg, nil
}

func (r *feeConfigRepository) GetOverride(ctx context.Context, businessID uint) (*models.FeeConfiguration, error) {
	if cfg, err := r.cache.GetFeeConfig(ctx, businessID); err == nil {
		return cfg, nil
	}

	var cfg models.FeeConfiguration
	err := r.db.Where("business_id = ? AND active = ?", businessID, true).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeConfigNotFound
		}
		return nil, ErrDatabaseOperation
	}

	if err := r.cache.CacheFeeConfig(ctx, businessID, &cfg); err != nil {
		log.Printf("Failed to cache fee config for business %d: %v", businessID, err)
	}
	return &cfg, nil
}

func (r *feeConfigRepository) Upsert(ctx context.Context, cfg *models.FeeConfiguration) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.FeeConfiguration{})
		if cfg.BusinessID == nil {
			query = query.Where("business_id IS NULL")
		} else {
			query = query.Where("business_id = ?", *cfg.BusinessID)
		}

		var existing models.FeeConfiguration
		if err := query.First(&existing).Error; err == nil {
			cfg.ID = existing.ID
			cfg.CreatedAt = existing.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Save(cfg).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}

	r.invalidate(ctx, cfg.BusinessID)
	return nil
}

func (r *feeConfigRepository) DeleteOverride(ctx context.Context, businessID uint) error {
	result := r.db.Where("business_id = ?", businessID).Delete(&models.FeeConfiguration{})
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrFeeConfigNotFound
	}

	r.invalidate(ctx, &businessID)
	return nil
}

func (r *feeConfigRepository) invalidate(ctx context.Context, businessID *uint) {
	id := uint(0)
	if businessID != nil {
		id = *businessID
	}
	if err := r.cache.InvalidateFeeConfig(ctx, id); err != nil {
		log.Printf("Failed to invalidate fee config cache for business %d: %v", id, err)
	}
}
