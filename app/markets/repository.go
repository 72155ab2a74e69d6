package markets

import (
	"context"

	"github.com/google/uuid"
	"github.com/joefazee/omen/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateMarket(ctx context.Context, market *models.Market) error
	GetMarketByID(ctx context.Context, id uuid.UUID) (*models.Market, error)
	GetMarketForUpdate(ctx context.Context, id uuid.UUID) (*models.Market, error)
	UpdateMarket(ctx context.Context, market *models.Market) error

	CreateShareToken(ctx context.Context, token *models.ShareToken) error
	GetShareTokens(ctx context.Context, marketID uuid.UUID) ([]models.ShareToken, error)

	CreateMailbox(ctx context.Context, mailbox *models.Mailbox) error
	GetMailboxByMarketID(ctx context.Context, marketID uuid.UUID) (*models.Mailbox, error)
	UpdateMailbox(ctx context.Context, mailbox *models.Mailbox) error

	CreateAccount(ctx context.Context, account *models.CollateralAccount) error
	GetAccountForUpdate(ctx context.Context, ownerID uuid.UUID, currency string) (*models.CollateralAccount, error)
	UpdateAccount(ctx context.Context, account *models.CollateralAccount) error
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error

	CreateApproval(ctx context.Context, approval *models.SpendApproval) error

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

func (r *repository) CreateMarket(ctx context.Context, market *models.Market) error {
	if err := market.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(market).Error
}

func (r *repository) GetMarketByID(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&market).Error
	if err != nil {
		return nil, err
	}
	return &market, nil
}

// GetMarketForUpdate takes a row lock on the market so the one-shot resolve
// transition serializes with concurrent settlement operations.
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

func (r *repository) UpdateMarket(ctx context.Context, market *models.Market) error {
	return r.db.WithContext(ctx).Save(market).Error
}

func (r *repository) CreateShareToken(ctx context.Context, token *models.ShareToken) error {
	if err := token.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *repository) GetShareTokens(ctx context.Context, marketID uuid.UUID) ([]models.ShareToken, error) {
	var tokens []models.ShareToken
	err := r.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		Order("outcome ASC").
		Find(&tokens).Error
	return tokens, err
}

func (r *repository) CreateMailbox(ctx context.Context, mailbox *models.Mailbox) error {
	if err := mailbox.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(mailbox).Error
}

func (r *repository) GetMailboxByMarketID(ctx context.Context, marketID uuid.UUID) (*models.Mailbox, error) {
	var mailbox models.Mailbox
	err := r.db.WithContext(ctx).Where("market_id = ?", marketID).First(&mailbox).Error
	if err != nil {
		return nil, err
	}
	return &mailbox, nil
}

func (r *repository) UpdateMailbox(ctx context.Context, mailbox *models.Mailbox) error {
	if err := mailbox.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(mailbox).Error
}

func (r *repository) CreateAccount(ctx context.Context, account *models.CollateralAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(account).Error
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

func (r *repository) CreateApproval(ctx context.Context, approval *models.SpendApproval) error {
	if err := approval.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(approval).Error
}
