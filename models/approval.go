package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Spender names for the settlement engines. Markets grant these unlimited
// spend capability over their collateral accounts at initialization so the
// engines can move funds on the market's behalf without per-call consent.
const (
	SpenderCompleteSets    = "complete_sets"
	SpenderTradingProceeds = "trading_proceeds"
)

// SpendApproval is an explicit capability grant: spender may move collateral
// out of the owner's account in the given currency.
type SpendApproval struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_approvals_owner_spender,unique" json:"owner_id"`
	Spender   string    `gorm:"type:varchar(40);not null;index:idx_approvals_owner_spender,unique" json:"spender"`
	Currency  string    `gorm:"type:varchar(12);not null" json:"currency"`
	Unlimited bool      `gorm:"not null;default:true" json:"unlimited"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for SpendApproval model
func (*SpendApproval) TableName() string {
	return "spend_approvals"
}

// BeforeCreate sets up the model before creation
func (a *SpendApproval) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Validate performs validation on the approval model
func (a *SpendApproval) Validate() error {
	if a.OwnerID == uuid.Nil {
		return ErrInvalidAccountID
	}
	if a.Spender == "" {
		return ErrNoSpendApproval
	}
	if a.Currency == "" {
		return ErrInvalidCurrencyCode
	}
	return nil
}
