package trading

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joefazee/omen/models"
)

// Repository covers every table a settlement operation touches so a single
// transaction can mint, burn, and move collateral atomically.
type Repository interface {
	GetMarketForUpdate(ctx context.Context, id uuid.UUID) (*models.Market, error)
	GetUniverseForUpdate(ctx context.Context, id uuid.UUID) (*models.Universe, error)
	UpdateUniverse(ctx context.Context, universe *models.Universe) error
	ContainsMarket(ctx context.Context, universeID, marketID uuid.UUID) (bool, error)

	GetShareTokens(ctx context.Context, marketID uuid.UUID) ([]models.ShareToken, error)
	UpdateShareToken(ctx context.Context, token *models.ShareToken) error
	GetPositionForUpdate(ctx context.Context, shareTokenID, accountID uuid.UUID) (*models.SharePosition, error)
	CreatePosition(ctx context.Context, position *models.SharePosition) error
	UpdatePosition(ctx context.Context, position *models.SharePosition) error

	GetAccountForUpdate(ctx context.Context, ownerID uuid.UUID, currency string) (*models.CollateralAccount, error)
	CreateAccount(ctx context.Context, account *models.CollateralAccount) error
	UpdateAccount(ctx context.Context, account *models.CollateralAccount) error
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	GetApproval(ctx context.Context, ownerID uuid.UUID, spender string) (*models.SpendApproval, error)

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

// GetMarketForUpdate takes a row lock on the market so settlement operations
// against the same market serialize.
func (r *repository) GetMarketForUpdate(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&market).Error
	if err != nil {
		return nil, err
	}
	return &market, nil
}

func (r *repository) GetUniverseForUpdate(ctx context.Context, id uuid.UUID) (*models.Universe, error) {
	var universe models.Universe
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&universe).Error
	if err != nil {
		return nil, err
	}
	return &universe, nil
}

func (r *repository) UpdateUniverse(ctx context.Context, universe *models.Universe) error {
	return r.db.WithContext(ctx).Save(universe).Error
}

func (r *repository) ContainsMarket(ctx context.Context, universeID, marketID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Market{}).
		Where("id = ? AND universe_id = ?", marketID, universeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) GetShareTokens(ctx context.Context, marketID uuid.UUID) ([]models.ShareToken, error) {
	var tokens []models.ShareToken
	err := r.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		Order("outcome ASC").
		Find(&tokens).Error
	return tokens, err
}

func (r *repository) UpdateShareToken(ctx context.Context, token *models.ShareToken) error {
	if err := token.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(token).Error
}

func (r *repository) GetPositionForUpdate(ctx context.Context, shareTokenID, accountID uuid.UUID) (*models.SharePosition, error) {
	var position models.SharePosition
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("share_token_id = ? AND account_id = ?", shareTokenID, accountID).
		First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *repository) CreatePosition(ctx context.Context, position *models.SharePosition) error {
	if err := position.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(position).Error
}

func (r *repository) UpdatePosition(ctx context.Context, position *models.SharePosition) error {
	if err := position.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(position).Error
}

func (r *repository) GetAccountForUpdate(ctx context.Context, ownerID uuid.UUID, currency string) (*models.CollateralAccount, error) {
	var account models.CollateralAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ? AND currency = ?", ownerID, currency).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) CreateAccount(ctx context.Context, account *models.CollateralAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) UpdateAccount(ctx context.Context, account *models.CollateralAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repository) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *repository) GetApproval(ctx context.Context, ownerID uuid.UUID, spender string) (*models.SpendApproval, error) {
	var approval models.SpendApproval
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND spender = ?", ownerID, spender).
		First(&approval).Error
	if err != nil {
		return nil, err
	}
	return &approval, nil
}
