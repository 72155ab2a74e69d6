package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MarketType represents the type of market
type MarketType string

const (
	MarketTypeYesNo       MarketType = "yes_no"
	MarketTypeCategorical MarketType = "categorical"
	MarketTypeScalar      MarketType = "scalar"
)

// MarketStatus represents the current status of a market
type MarketStatus string

const (
	// MarketStatusTrading covers both the active phase and the reporting
	// window after end time; complete set operations are allowed until
	// resolution.
	MarketStatusTrading  MarketStatus = "trading"
	MarketStatusResolved MarketStatus = "resolved"
)

const (
	MinOutcomes = 2
	MaxOutcomes = 8

	// NoFeeDivisor is the documented "no fee" sentinel. A divisor of 1 is
	// always rejected since it would mean a 100% fee.
	NoFeeDivisor = 0

	MinFeeDivisor = 2
)

// PayoutNumerators is the per-outcome payout distribution, stored as JSONB.
type PayoutNumerators []int64

// Value implements driver.Valuer interface
func (p PayoutNumerators) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface
func (p *PayoutNumerators) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return nil
}

// Sum returns the total of all numerators.
func (p PayoutNumerators) Sum() int64 {
	var total int64
	for _, n := range p {
		total += n
	}
	return total
}

// EvenPayoutNumerators distributes numTicks as evenly as possible across
// numOutcomes. The integer remainder is assigned to outcome 0 so the
// distribution always sums to numTicks.
func EvenPayoutNumerators(numOutcomes int, numTicks int64) PayoutNumerators {
	numerators := make(PayoutNumerators, numOutcomes)
	share := numTicks / int64(numOutcomes)
	for i := range numerators {
		numerators[i] = share
	}
	numerators[0] += numTicks - share*int64(numOutcomes)
	return numerators
}

// Market represents a prediction market and its settlement state machine
type Market struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UniverseID        uuid.UUID        `gorm:"type:uuid;not null;index:idx_markets_universe" json:"universe_id"`
	Creator           uuid.UUID        `gorm:"type:uuid;not null;index" json:"creator"`
	Owner             uuid.UUID        `gorm:"type:uuid;not null" json:"owner"`
	Oracle            uuid.UUID        `gorm:"type:uuid;not null" json:"oracle"`
	Description       string           `gorm:"type:text;not null" json:"description"`
	MarketType        MarketType       `gorm:"type:varchar(20);not null;default:'yes_no'" json:"market_type"`
	Status            MarketStatus     `gorm:"type:varchar(20);not null;default:'trading';index" json:"status"`
	NumOutcomes       int              `gorm:"not null" json:"num_outcomes"`
	NumTicks          int64            `gorm:"not null" json:"num_ticks"`
	DenominationToken string           `gorm:"type:varchar(12);not null" json:"denomination_token"`
	FeeDivisor        int64            `gorm:"not null;default:0" json:"fee_divisor"`
	EndTime           time.Time        `gorm:"type:timestamptz;not null;index" json:"end_time"`
	ReportDueTime     time.Time        `gorm:"type:timestamptz;not null" json:"report_due_time"`
	ResolutionTime    *time.Time       `gorm:"type:timestamptz" json:"resolution_time"`
	PayoutNumerators  PayoutNumerators `gorm:"type:jsonb" json:"payout_numerators"`
	IsInvalid         bool             `gorm:"not null;default:false" json:"is_invalid"`
	MinPrice          *decimal.Decimal `gorm:"type:decimal(30,10)" json:"min_price,omitempty"`
	MaxPrice          *decimal.Decimal `gorm:"type:decimal(30,10)" json:"max_price,omitempty"`
	MailboxID         uuid.UUID        `gorm:"type:uuid;not null" json:"mailbox_id"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Universe    *Universe    `gorm:"foreignKey:UniverseID" json:"universe,omitempty"`
	Mailbox     *Mailbox     `gorm:"foreignKey:MailboxID" json:"mailbox,omitempty"`
	ShareTokens []ShareToken `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"share_tokens,omitempty"`
}

// TableName specifies the table name for Market model
func (*Market) TableName() string {
	return "markets"
}

// BeforeCreate sets up the model before creation
func (m *Market) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Validate checks the immutable market configuration. Every failure here is
// rejected before any state mutation.
func (m *Market) Validate() error {
	if m.NumOutcomes < MinOutcomes || m.NumOutcomes > MaxOutcomes {
		return ErrInvalidOutcomeCount
	}
	if m.FeeDivisor != NoFeeDivisor && m.FeeDivisor < MinFeeDivisor {
		return ErrInvalidFeeDivisor
	}
	if m.Creator == uuid.Nil || m.Oracle == uuid.Nil {
		return ErrZeroAddress
	}
	if m.DenominationToken == "" {
		return ErrDenominationMismatch
	}
	if m.NumTicks <= 0 {
		return ErrInvalidNumTicks
	}
	if m.MarketType == MarketTypeScalar {
		if m.MinPrice == nil || m.MaxPrice == nil {
			return ErrInvalidPriceRange
		}
		priceRange := m.MaxPrice.Sub(*m.MinPrice)
		if priceRange.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidPriceRange
		}
		if !priceRange.Mod(decimal.NewFromInt(m.NumTicks)).IsZero() {
			return ErrInvalidNumTicks
		}
	}
	return nil
}

// IsResolved checks if the market has been resolved
func (m *Market) IsResolved() bool {
	return m.Status == MarketStatusResolved && m.ResolutionTime != nil
}

// IsFinalized reports whether proceeds may be claimed. Resolution and
// finalization are a single transition: there is no dispute window.
func (m *Market) IsFinalized() bool {
	return m.IsResolved()
}

// IsOwnedBy reports whether caller currently owns the market. Ownership
// starts with the creator and transfers independently of the mailbox.
func (m *Market) IsOwnedBy(caller uuid.UUID) bool {
	return caller != uuid.Nil && caller == m.Owner
}

// TransferOwnership hands the market to a new owner.
func (m *Market) TransferOwnership(caller, newOwner uuid.UUID) error {
	if !m.IsOwnedBy(caller) {
		return ErrUnauthorized
	}
	if newOwner == uuid.Nil {
		return ErrZeroAddress
	}
	m.Owner = newOwner
	return nil
}

// CanResolveBy reports whether caller is authorized to submit the
// resolution. Only the designated oracle may report.
func (m *Market) CanResolveBy(caller uuid.UUID) bool {
	return caller != uuid.Nil && caller == m.Oracle
}

// Resolve applies the one-shot resolution transition. For invalid markets the
// submitted numerators are overridden with an even split of numTicks; for
// valid markets the numerators must sum to numTicks exactly.
func (m *Market) Resolve(numerators PayoutNumerators, isInvalid bool, now time.Time) error {
	if m.IsResolved() {
		return ErrAlreadyResolved
	}
	if now.Before(m.EndTime) {
		return ErrNotYetReportable
	}
	if len(numerators) != m.NumOutcomes {
		return ErrInvalidOutcomeCount
	}

	if isInvalid {
		numerators = EvenPayoutNumerators(m.NumOutcomes, m.NumTicks)
	} else if numerators.Sum() != m.NumTicks {
		return ErrPayoutMismatch
	}

	m.PayoutNumerators = numerators
	m.IsInvalid = isInvalid
	m.Status = MarketStatusResolved
	m.ResolutionTime = &now
	return nil
}

// CompleteSetCost returns the collateral required to mint amount complete
// sets: amount * numTicks.
func (m *Market) CompleteSetCost(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(m.NumTicks))
}

// CreatorFee returns floor(value / feeDivisor), or zero for the no-fee
// sentinel. Floor division is fixed policy; truncation dust stays with the
// market.
func (m *Market) CreatorFee(value decimal.Decimal) decimal.Decimal {
	if m.FeeDivisor == NoFeeDivisor {
		return decimal.Zero
	}
	return value.Div(decimal.NewFromInt(m.FeeDivisor)).Floor()
}
