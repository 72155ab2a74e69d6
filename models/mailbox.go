package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mailbox is the per-market creator fee sink. It is tied 1:1 to its market
// but its ownership transfers independently of market ownership. Collateral
// accumulated by the mailbox lives in a collateral account owned by the
// mailbox ID.
type Mailbox struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"market_id"`
	Owner     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Mailbox model
func (*Mailbox) TableName() string {
	return "mailboxes"
}

// BeforeCreate sets up the model before creation
func (m *Mailbox) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IsOwnedBy reports whether caller may withdraw from or transfer the mailbox.
func (m *Mailbox) IsOwnedBy(caller uuid.UUID) bool {
	return caller != uuid.Nil && caller == m.Owner
}

// TransferOwnership hands the mailbox to a new owner.
func (m *Mailbox) TransferOwnership(caller, newOwner uuid.UUID) error {
	if !m.IsOwnedBy(caller) {
		return ErrUnauthorized
	}
	if newOwner == uuid.Nil {
		return ErrZeroAddress
	}
	m.Owner = newOwner
	return nil
}

// Validate performs validation on the mailbox model
func (m *Mailbox) Validate() error {
	if m.MarketID == uuid.Nil {
		return ErrInvalidMarketID
	}
	if m.Owner == uuid.Nil {
		return ErrZeroAddress
	}
	return nil
}
