package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShareToken is the outcome share ledger for one (market, outcome) pair.
// One token per outcome is allocated at market initialization and the set is
// immutable thereafter.
type ShareToken struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_share_tokens_market_outcome,unique" json:"market_id"`
	Outcome     int             `gorm:"not null;index:idx_share_tokens_market_outcome,unique" json:"outcome"`
	TotalSupply decimal.Decimal `gorm:"type:decimal(30,10);not null;default:0;check:total_supply >= 0" json:"total_supply"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Market    *Market         `gorm:"foreignKey:MarketID" json:"market,omitempty"`
	Positions []SharePosition `gorm:"foreignKey:ShareTokenID" json:"-"`
}

// TableName specifies the table name for ShareToken model
func (*ShareToken) TableName() string {
	return "share_tokens"
}

// BeforeCreate sets up the model before creation
func (st *ShareToken) BeforeCreate(_ *gorm.DB) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	return nil
}

// Validate performs validation on the share token model
func (st *ShareToken) Validate() error {
	if st.MarketID == uuid.Nil {
		return ErrInvalidMarketID
	}
	if st.Outcome < 0 || st.Outcome >= MaxOutcomes {
		return ErrInvalidOutcomeCount
	}
	if st.TotalSupply.LessThan(decimal.Zero) {
		return ErrNegativeBalance
	}
	return nil
}

// SharePosition tracks one account's balance in a share token.
type SharePosition struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ShareTokenID uuid.UUID       `gorm:"type:uuid;not null;index:idx_share_positions_token_account,unique" json:"share_token_id"`
	AccountID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_share_positions_token_account,unique" json:"account_id"`
	Balance      decimal.Decimal `gorm:"type:decimal(30,10);not null;default:0;check:balance >= 0" json:"balance"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	ShareToken *ShareToken `gorm:"foreignKey:ShareTokenID" json:"share_token,omitempty"`
}

// TableName specifies the table name for SharePosition model
func (*SharePosition) TableName() string {
	return "share_positions"
}

// BeforeCreate sets up the model before creation
func (sp *SharePosition) BeforeCreate(_ *gorm.DB) error {
	if sp.ID == uuid.Nil {
		sp.ID = uuid.New()
	}
	return nil
}

// Credit mints amount shares into the position.
func (sp *SharePosition) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	sp.Balance = sp.Balance.Add(amount)
	return nil
}

// Debit burns amount shares from the position.
func (sp *SharePosition) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if sp.Balance.LessThan(amount) {
		return ErrInsufficientShares
	}
	sp.Balance = sp.Balance.Sub(amount)
	return nil
}

// Validate performs validation on the share position model
func (sp *SharePosition) Validate() error {
	if sp.ShareTokenID == uuid.Nil {
		return ErrInvalidMarketID
	}
	if sp.AccountID == uuid.Nil {
		return ErrInvalidAccountID
	}
	if sp.Balance.LessThan(decimal.Zero) {
		return ErrNegativeBalance
	}
	return nil
}
