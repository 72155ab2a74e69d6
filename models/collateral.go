package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CollateralAccount holds one identity's balance in one denomination token.
// Markets and mailboxes hold collateral through accounts of their own, keyed
// by their entity ID.
type CollateralAccount struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_collateral_owner_currency,unique" json:"owner_id"`
	Currency  string          `gorm:"type:varchar(12);not null;index:idx_collateral_owner_currency,unique" json:"currency"`
	Balance   decimal.Decimal `gorm:"type:decimal(30,10);not null;default:0;check:balance >= 0" json:"balance"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"-"`
}

// TableName specifies the table name for CollateralAccount model
func (*CollateralAccount) TableName() string {
	return "collateral_accounts"
}

// BeforeCreate sets up the model before creation
func (a *CollateralAccount) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// CanDebit checks if the account has sufficient balance for a debit
func (a *CollateralAccount) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Credit adds funds to the account
func (a *CollateralAccount) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Debit removes funds from the account
func (a *CollateralAccount) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}
	if !a.CanDebit(amount) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Validate performs validation on the collateral account model
func (a *CollateralAccount) Validate() error {
	if a.OwnerID == uuid.Nil {
		return ErrInvalidAccountID
	}
	if a.Currency == "" {
		return ErrInvalidCurrencyCode
	}
	if a.Balance.LessThan(decimal.Zero) {
		return ErrNegativeBalance
	}
	return nil
}
