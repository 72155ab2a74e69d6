package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType represents the type of collateral ledger transaction
type TransactionType string

const (
	TransactionTypeDeposit         TransactionType = "deposit"
	TransactionTypeWithdrawal      TransactionType = "withdrawal"
	TransactionTypeCompleteSetBuy  TransactionType = "complete_set_buy"
	TransactionTypeCompleteSetSell TransactionType = "complete_set_sell"
	TransactionTypeProceeds        TransactionType = "proceeds"
	TransactionTypeCreatorFee      TransactionType = "creator_fee"
	TransactionTypeMailboxSweep    TransactionType = "mailbox_sweep"
	TransactionTypeTransfer        TransactionType = "transfer"
)

// Transaction represents a collateral movement (immutable ledger)
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_account" json:"account_id"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null" json:"transaction_type"`
	Amount          decimal.Decimal `gorm:"type:decimal(30,10);not null" json:"amount"`
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(30,10);not null" json:"balance_before"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(30,10);not null" json:"balance_after"`
	ReferenceType   string          `gorm:"type:varchar(20)" json:"reference_type"` // 'market', 'mailbox'
	ReferenceID     *uuid.UUID      `gorm:"type:uuid" json:"reference_id"`
	Description     string          `gorm:"type:text" json:"description"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index:idx_transactions_created_at" json:"created_at"`

	// Associations (Note: Transactions are immutable, no updates)
	Account *CollateralAccount `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// TableName specifies the table name for Transaction model
func (*Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate sets up the model before creation
func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsCredit checks if this is a credit transaction (positive amount)
func (t *Transaction) IsCredit() bool {
	return t.Amount.GreaterThan(decimal.Zero)
}

// IsDebit checks if this is a debit transaction (negative amount)
func (t *Transaction) IsDebit() bool {
	return t.Amount.LessThan(decimal.Zero)
}

// IsBalanceConsistent checks if the balance calculation is consistent
func (t *Transaction) IsBalanceConsistent() bool {
	return t.BalanceBefore.Add(t.Amount).Equal(t.BalanceAfter)
}

// Validate performs validation on the transaction model
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return ErrInvalidAccountID
	}
	if t.Amount.IsZero() {
		return ErrInvalidTransactionAmount
	}
	if !t.IsBalanceConsistent() {
		return ErrInvalidTransactionAmount
	}
	if t.BalanceAfter.LessThan(decimal.Zero) {
		return ErrNegativeBalance
	}
	return nil
}

// NewLedgerEntry builds an immutable ledger record for a balance movement
// that has already been applied to the account. Amount is signed: positive
// for credits, negative for debits.
func NewLedgerEntry(account *CollateralAccount,
	txType TransactionType,
	amount decimal.Decimal,
	refType string,
	refID *uuid.UUID,
	description string) *Transaction {
	return &Transaction{
		AccountID:       account.ID,
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   account.Balance.Sub(amount),
		BalanceAfter:    account.Balance,
		ReferenceType:   refType,
		ReferenceID:     refID,
		Description:     description,
	}
}
