package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/joefazee/omen/models"
	"github.com/shopspring/decimal"
)

// DepositRequest represents the request to deposit collateral
type DepositRequest struct {
	Currency    string          `json:"currency" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description,omitempty"`
}

// WithdrawRequest represents the request to withdraw collateral
type WithdrawRequest struct {
	Currency    string          `json:"currency" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description,omitempty"`
}

// TransferRequest represents the request to transfer collateral to another account
type TransferRequest struct {
	To          uuid.UUID       `json:"to" binding:"required"`
	Currency    string          `json:"currency" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description,omitempty"`
}

// TransferFromRequest represents an approval-backed transfer out of a third
// party's account
type TransferFromRequest struct {
	From        uuid.UUID       `json:"from" binding:"required"`
	To          uuid.UUID       `json:"to" binding:"required"`
	Spender     string          `json:"spender" binding:"required"`
	Currency    string          `json:"currency" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description,omitempty"`
}

// ApproveRequest represents the request to grant a spender unlimited access
type ApproveRequest struct {
	Spender  string `json:"spender" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

// AccountResponse represents a collateral account in API responses
type AccountResponse struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionResponse represents a ledger transaction in API responses
type TransactionResponse struct {
	ID              uuid.UUID              `json:"id"`
	AccountID       uuid.UUID              `json:"account_id"`
	TransactionType models.TransactionType `json:"transaction_type"`
	Amount          decimal.Decimal        `json:"amount"`
	BalanceBefore   decimal.Decimal        `json:"balance_before"`
	BalanceAfter    decimal.Decimal        `json:"balance_after"`
	ReferenceType   string                 `json:"reference_type"`
	ReferenceID     *uuid.UUID             `json:"reference_id"`
	Description     string                 `json:"description"`
	CreatedAt       time.Time              `json:"created_at"`
}

// OperationResponse represents the response for ledger operations
type OperationResponse struct {
	Account     *AccountResponse     `json:"account"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// ToAccountResponse converts a models.CollateralAccount to AccountResponse
func ToAccountResponse(account *models.CollateralAccount) *AccountResponse {
	return &AccountResponse{
		ID:        account.ID,
		OwnerID:   account.OwnerID,
		Currency:  account.Currency,
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

// ToTransactionResponse converts a models.Transaction to TransactionResponse
func ToTransactionResponse(transaction *models.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              transaction.ID,
		AccountID:       transaction.AccountID,
		TransactionType: transaction.TransactionType,
		Amount:          transaction.Amount,
		BalanceBefore:   transaction.BalanceBefore,
		BalanceAfter:    transaction.BalanceAfter,
		ReferenceType:   transaction.ReferenceType,
		ReferenceID:     transaction.ReferenceID,
		Description:     transaction.Description,
		CreatedAt:       transaction.CreatedAt,
	}
}
