package universe

import (
	"context"

	"github.com/google/uuid"
	"github.com/joefazee/omen/models"
	"gorm.io/gorm"
)

type Repository interface {
	CreateUniverse(ctx context.Context, universe *models.Universe) error
	GetUniverseByID(ctx context.Context, id uuid.UUID) (*models.Universe, error)
	GetUniverses(ctx context.Context) ([]models.Universe, error)

	ContainsMarket(ctx context.Context, universeID, marketID uuid.UUID) (bool, error)
	ContainsShareToken(ctx context.Context, universeID, shareTokenID uuid.UUID) (bool, error)
	GetMarkets(ctx context.Context, universeID uuid.UUID, limit, offset int) ([]models.Market, error)

	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateUniverse(ctx context.Context, universe *models.Universe) error {
	if err := universe.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(universe).Error
}

func (r *repository) GetUniverseByID(ctx context.Context, id uuid.UUID) (*models.Universe, error) {
	var universe models.Universe
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&universe).Error
	if err != nil {
		return nil, err
	}
	return &universe, nil
}

func (r *repository) GetUniverses(ctx context.Context) ([]models.Universe, error) {
	var universes []models.Universe
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&universes).Error
	return universes, err
}

func (r *repository) ContainsMarket(ctx context.Context, universeID, marketID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Market{}).
		Where("id = ? AND universe_id = ?", marketID, universeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ContainsShareToken(ctx context.Context, universeID, shareTokenID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShareToken{}).
		Joins("JOIN markets ON markets.id = share_tokens.market_id").
		Where("share_tokens.id = ? AND markets.universe_id = ?", shareTokenID, universeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) GetMarkets(ctx context.Context, universeID uuid.UUID, limit, offset int) ([]models.Market, error) {
	var markets []models.Market
	err := r.db.WithContext(ctx).
		Where("universe_id = ?", universeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&markets).Error
	return markets, err
}
