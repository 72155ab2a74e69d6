package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/joefazee/omen/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	Deposit(ctx context.Context, owner uuid.UUID, req *DepositRequest) (*OperationResponse, error)
	Withdraw(ctx context.Context, owner uuid.UUID, req *WithdrawRequest) (*OperationResponse, error)
	Transfer(ctx context.Context, from uuid.UUID, req *TransferRequest) (*OperationResponse, error)
	TransferFrom(ctx context.Context, req *TransferFromRequest) (*OperationResponse, error)
	Approve(ctx context.Context, owner uuid.UUID, req *ApproveRequest) error
	BalanceOf(ctx context.Context, owner uuid.UUID, currency string) (*AccountResponse, error)
	GetAccountTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]TransactionResponse, error)
}

type service struct {
	repo Repository
	tx   TxManager
}

func NewService(repo Repository, tx TxManager) Service {
	return &service{
		repo: repo,
		tx:   tx,
	}
}

func (s *service) Deposit(ctx context.Context, owner uuid.UUID, req *DepositRequest) (*OperationResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.ErrInvalidAmount
	}

	return s.executeLedgerTransaction(func(txRepo Repository) (*OperationResponse, error) {
		account, err := getOrCreateAccount(ctx, txRepo, owner, req.Currency)
		if err != nil {
			return nil, err
		}

		if err := account.Credit(req.Amount); err != nil {
			return nil, err
		}
		if err := txRepo.UpdateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to update account: %w", err)
		}

		entry := models.NewLedgerEntry(account, models.TransactionTypeDeposit,
			req.Amount, "deposit", nil, req.Description)
		if err := txRepo.CreateTransaction(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to create transaction: %w", err)
		}

		return &OperationResponse{
			Account:     ToAccountResponse(account),
			Transaction: ToTransactionResponse(entry),
		}, nil
	})
}

func (s *service) Withdraw(ctx context.Context, owner uuid.UUID, req *WithdrawRequest) (*OperationResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.ErrInvalidAmount
	}

	return s.executeLedgerTransaction(func(txRepo Repository) (*OperationResponse, error) {
		account, err := txRepo.GetAccountForUpdate(ctx, owner, req.Currency)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrInsufficientFunds
			}
			return nil, fmt.Errorf("failed to get account: %w", err)
		}

		if err := account.Debit(req.Amount); err != nil {
			return nil, err
		}
		if err := txRepo.UpdateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to update account: %w", err)
		}

		entry := models.NewLedgerEntry(account, models.TransactionTypeWithdrawal,
			req.Amount.Neg(), "withdrawal", nil, req.Description)
		if err := txRepo.CreateTransaction(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to create transaction: %w", err)
		}

		return &OperationResponse{
			Account:     ToAccountResponse(account),
			Transaction: ToTransactionResponse(entry),
		}, nil
	})
}

func (s *service) Transfer(ctx context.Context, from uuid.UUID, req *TransferRequest) (*OperationResponse, error) {
	if req.To == uuid.Nil {
		return nil, models.ErrZeroAddress
	}

	return s.executeLedgerTransaction(func(txRepo Repository) (*OperationResponse, error) {
		return moveCollateral(ctx, txRepo, from, req.To, req.Currency, req.Amount,
			models.TransactionTypeTransfer, "transfer", nil, req.Description)
	})
}

// TransferFrom moves collateral out of a third party's account. The named
// spender must hold an unlimited approval from the source account owner.
func (s *service) TransferFrom(ctx context.Context, req *TransferFromRequest) (*OperationResponse, error) {
	if req.To == uuid.Nil {
		return nil, models.ErrZeroAddress
	}

	return s.executeLedgerTransaction(func(txRepo Repository) (*OperationResponse, error) {
		approval, err := txRepo.GetApproval(ctx, req.From, req.Spender)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrNoSpendApproval
			}
			return nil, fmt.Errorf("failed to check approval: %w", err)
		}
		if !approval.Unlimited || approval.Currency != req.Currency {
			return nil, models.ErrNoSpendApproval
		}

		return moveCollateral(ctx, txRepo, req.From, req.To, req.Currency, req.Amount,
			models.TransactionTypeTransfer, "transfer_from", nil, req.Description)
	})
}

func (s *service) Approve(ctx context.Context, owner uuid.UUID, req *ApproveRequest) error {
	existing, err := s.repo.GetApproval(ctx, owner, req.Spender)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing approval: %w", err)
	}
	if existing != nil {
		return nil
	}

	approval := &models.SpendApproval{
		OwnerID:   owner,
		Spender:   req.Spender,
		Currency:  req.Currency,
		Unlimited: true,
	}
	if err := s.repo.CreateApproval(ctx, approval); err != nil {
		return fmt.Errorf("failed to create approval: %w", err)
	}
	return nil
}

func (s *service) BalanceOf(ctx context.Context, owner uuid.UUID, currency string) (*AccountResponse, error) {
	account, err := s.repo.GetAccountByOwnerAndCurrency(ctx, owner, currency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// An account that was never funded reads as a zero balance.
			return &AccountResponse{
				OwnerID:  owner,
				Currency: currency,
				Balance:  decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return ToAccountResponse(account), nil
}

func (s *service) GetAccountTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]TransactionResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	transactions, err := s.repo.GetAccountTransactions(ctx, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get account transactions: %w", err)
	}

	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		transaction := transactions[i]
		responses[i] = *ToTransactionResponse(&transaction)
	}
	return responses, nil
}

// moveCollateral debits from and credits to inside the caller's transaction,
// writing a ledger entry on both sides. The destination account is created on
// first use.
func moveCollateral(ctx context.Context,
	txRepo Repository,
	from, to uuid.UUID,
	currency string,
	amount decimal.Decimal,
	txType models.TransactionType,
	refType string,
	refID *uuid.UUID,
	description string) (*OperationResponse, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.ErrInvalidAmount
	}

	source, err := txRepo.GetAccountForUpdate(ctx, from, currency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to get source account: %w", err)
	}

	dest, err := getOrCreateAccount(ctx, txRepo, to, currency)
	if err != nil {
		return nil, err
	}

	if err := source.Debit(amount); err != nil {
		return nil, err
	}
	if err := dest.Credit(amount); err != nil {
		return nil, err
	}

	if err := txRepo.UpdateAccount(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to update source account: %w", err)
	}
	if err := txRepo.UpdateAccount(ctx, dest); err != nil {
		return nil, fmt.Errorf("failed to update destination account: %w", err)
	}

	debitEntry := models.NewLedgerEntry(source, txType, amount.Neg(), refType, refID, description)
	if err := txRepo.CreateTransaction(ctx, debitEntry); err != nil {
		return nil, fmt.Errorf("failed to create debit transaction: %w", err)
	}

	creditEntry := models.NewLedgerEntry(dest, txType, amount, refType, refID, description)
	if err := txRepo.CreateTransaction(ctx, creditEntry); err != nil {
		return nil, fmt.Errorf("failed to create credit transaction: %w", err)
	}

	return &OperationResponse{
		Account:     ToAccountResponse(source),
		Transaction: ToTransactionResponse(debitEntry),
	}, nil
}

func getOrCreateAccount(ctx context.Context, txRepo Repository, owner uuid.UUID, currency string) (*models.CollateralAccount, error) {
	account, err := txRepo.GetAccountForUpdate(ctx, owner, currency)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account = &models.CollateralAccount{
		OwnerID:  owner,
		Currency: currency,
		Balance:  decimal.Zero,
	}
	if err := txRepo.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// executeLedgerTransaction executes a ledger operation within a database transaction
func (s *service) executeLedgerTransaction(operation func(Repository) (*OperationResponse, error)) (*OperationResponse, error) {
	var result *OperationResponse

	err := s.tx.RunInTx(func(txRepo Repository) error {
		var err error
		result, err = operation(txRepo)
		return err
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}
