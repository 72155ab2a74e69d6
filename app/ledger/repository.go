package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/joefazee/omen/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateAccount(ctx context.Context, account *models.CollateralAccount) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (*models.CollateralAccount, error)
	GetAccountByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency string) (*models.CollateralAccount, error)
	GetAccountForUpdate(ctx context.Context, ownerID uuid.UUID, currency string) (*models.CollateralAccount, error)
	UpdateAccount(ctx context.Context, account *models.CollateralAccount) error

	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	GetAccountTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]models.Transaction, error)

	CreateApproval(ctx context.Context, approval *models.SpendApproval) error
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

func (r *repository) CreateAccount(ctx context.Context, account *models.CollateralAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.CollateralAccount, error) {
	var account models.CollateralAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) GetAccountByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency string) (*models.CollateralAccount, error) {
	var account models.CollateralAccount
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND currency = ?", ownerID, currency).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountForUpdate takes a row lock on the account so concurrent
// movements against the same balance serialize.
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

func (r *repository) GetAccountTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	return transactions, err
}

func (r *repository) CreateApproval(ctx context.Context, approval *models.SpendApproval) error {
	if err := approval.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(approval).Error
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
