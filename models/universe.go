package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Universe is the market registry. Every market it creates settles in its
// single denomination token, and the universe tracks the aggregate
// collateral locked in outstanding complete sets.
type Universe struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DenominationToken string          `gorm:"type:varchar(12);not null" json:"denomination_token"`
	OpenInterest      decimal.Decimal `gorm:"type:decimal(30,10);not null;default:0;check:open_interest >= 0" json:"open_interest"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Markets []Market `gorm:"foreignKey:UniverseID" json:"-"`
}

// TableName specifies the table name for Universe model
func (*Universe) TableName() string {
	return "universes"
}

// BeforeCreate sets up the model before creation
func (u *Universe) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Validate performs validation on the universe model
func (u *Universe) Validate() error {
	if u.DenominationToken == "" {
		return ErrInvalidCurrencyCode
	}
	if u.OpenInterest.LessThan(decimal.Zero) {
		return ErrNegativeBalance
	}
	return nil
}

// IncreaseOpenInterest adds locked collateral to the running total.
func (u *Universe) IncreaseOpenInterest(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	u.OpenInterest = u.OpenInterest.Add(amount)
	return nil
}

// DecreaseOpenInterest releases locked collateral from the running total.
func (u *Universe) DecreaseOpenInterest(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if u.OpenInterest.LessThan(amount) {
		return ErrNegativeBalance
	}
	u.OpenInterest = u.OpenInterest.Sub(amount)
	return nil
}
