package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/joefazee/omen/models"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateAccount(ctx context.Context, account *models.CollateralAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.CollateralAccount, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.CollateralAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) GetAccountByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency string) (*models.CollateralAccount, error) {
	args := m.Called(ctx, ownerID, currency)
	if a := args.Get(0); a != nil {
		return a.(*models.CollateralAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) GetAccountForUpdate(ctx context.Context, ownerID uuid.UUID, currency string) (*models.CollateralAccount, error) {
	args := m.Called(ctx, ownerID, currency)
	if a := args.Get(0); a != nil {
		return a.(*models.CollateralAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) UpdateAccount(ctx context.Context, account *models.CollateralAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockRepo) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	return m.Called(ctx, transaction).Error(0)
}

func (m *MockRepo) GetAccountTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if txs := args.Get(0); txs != nil {
		return txs.([]models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) CreateApproval(ctx context.Context, approval *models.SpendApproval) error {
	return m.Called(ctx, approval).Error(0)
}

func (m *MockRepo) GetApproval(ctx context.Context, ownerID uuid.UUID, spender string) (*models.SpendApproval, error) {
	args := m.Called(ctx, ownerID, spender)
	if a := args.Get(0); a != nil {
		return a.(*models.SpendApproval), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) WithTx(_ *gorm.DB) Repository {
	return m
}

// passthroughTx runs the operation against the mock repository without a
// real database transaction.
type passthroughTx struct {
	repo Repository
}

func (t *passthroughTx) RunInTx(fn func(Repository) error) error {
	return fn(t.repo)
}

func newTestService(repo *MockRepo) Service {
	return NewService(repo, &passthroughTx{repo: repo})
}

func account(owner uuid.UUID, currency string, balance int64) *models.CollateralAccount {
	return &models.CollateralAccount{
		ID:       uuid.New(),
		OwnerID:  owner,
		Currency: currency,
		Balance:  decimal.NewFromInt(balance),
	}
}

func TestService_Deposit(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("credits an existing account", func(t *testing.T) {
		repo := &MockRepo{}
		acct := account(owner, "USD", 100)

		repo.On("GetAccountForUpdate", ctx, owner, "USD").Return(acct, nil)
		repo.On("UpdateAccount", ctx, acct).Return(nil)
		repo.On("CreateTransaction", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

		result, err := newTestService(repo).Deposit(ctx, owner, &DepositRequest{
			Currency: "USD",
			Amount:   decimal.NewFromInt(50),
		})

		assert.NoError(t, err)
		assert.True(t, result.Account.Balance.Equal(decimal.NewFromInt(150)))
		assert.True(t, result.Transaction.Amount.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, models.TransactionTypeDeposit, result.Transaction.TransactionType)
		repo.AssertExpectations(t)
	})

	t.Run("creates the account on first deposit", func(t *testing.T) {
		repo := &MockRepo{}

		repo.On("GetAccountForUpdate", ctx, owner, "USD").Return(nil, gorm.ErrRecordNotFound)
		repo.On("CreateAccount", ctx, mock.AnythingOfType("*models.CollateralAccount")).Return(nil)
		repo.On("UpdateAccount", ctx, mock.AnythingOfType("*models.CollateralAccount")).Return(nil)
		repo.On("CreateTransaction", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

		result, err := newTestService(repo).Deposit(ctx, owner, &DepositRequest{
			Currency: "USD",
			Amount:   decimal.NewFromInt(25),
		})

		assert.NoError(t, err)
		assert.True(t, result.Account.Balance.Equal(decimal.NewFromInt(25)))
		repo.AssertExpectations(t)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		repo := &MockRepo{}

		_, err := newTestService(repo).Deposit(ctx, owner, &DepositRequest{
			Currency: "USD",
			Amount:   decimal.Zero,
		})

		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})
}

func TestService_Withdraw(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("debits the account", func(t *testing.T) {
		repo := &MockRepo{}
		acct := account(owner, "USD", 100)

		repo.On("GetAccountForUpdate", ctx, owner, "USD").Return(acct, nil)
		repo.On("UpdateAccount", ctx, acct).Return(nil)
		repo.On("CreateTransaction", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

		result, err := newTestService(repo).Withdraw(ctx, owner, &WithdrawRequest{
			Currency: "USD",
			Amount:   decimal.NewFromInt(40),
		})

		assert.NoError(t, err)
		assert.True(t, result.Account.Balance.Equal(decimal.NewFromInt(60)))
		assert.True(t, result.Transaction.Amount.Equal(decimal.NewFromInt(-40)))
		repo.AssertExpectations(t)
	})

	t.Run("rejects overdraw", func(t *testing.T) {
		repo := &MockRepo{}
		acct := account(owner, "USD", 10)

		repo.On("GetAccountForUpdate", ctx, owner, "USD").Return(acct, nil)

		_, err := newTestService(repo).Withdraw(ctx, owner, &WithdrawRequest{
			Currency: "USD",
			Amount:   decimal.NewFromInt(40),
		})

		assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	})

	t.Run("unknown account reads as insufficient funds", func(t *testing.T) {
		repo := &MockRepo{}

		repo.On("GetAccountForUpdate", ctx, owner, "USD").Return(nil, gorm.ErrRecordNotFound)

		_, err := newTestService(repo).Withdraw(ctx, owner, &WithdrawRequest{
			Currency: "USD",
			Amount:   decimal.NewFromInt(40),
		})

		assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	})
}

func TestService_Transfer(t *testing.T) {
	ctx := context.Background()
	from := uuid.New()
	to := uuid.New()

	t.Run("moves funds between accounts", func(t *testing.T) {
		repo := &MockRepo{}
		source := account(from, "USD", 100)
		dest := account(to, "USD", 5)

		repo.On("GetAccountForUpdate", ctx, from, "USD").Return(source, nil)
		repo.On("GetAccountForUpdate", ctx, to, "USD").Return(dest, nil)
		repo.On("UpdateAccount", ctx, mock.AnythingOfType("*models.CollateralAccount")).Return(nil)
		repo.On("CreateTransaction", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

		result, err := newTestService(repo).Transfer(ctx, from, &TransferRequest{
			To:       to,
			Currency: "USD",
			Amount:   decimal.NewFromInt(30),
		})

		assert.NoError(t, err)
		assert.True(t, source.Balance.Equal(decimal.NewFromInt(70)))
		assert.True(t, dest.Balance.Equal(decimal.NewFromInt(35)))
		assert.True(t, result.Transaction.Amount.Equal(decimal.NewFromInt(-30)))
		repo.AssertNumberOfCalls(t, "CreateTransaction", 2)
	})

	t.Run("rejects the null destination", func(t *testing.T) {
		repo := &MockRepo{}

		_, err := newTestService(repo).Transfer(ctx, from, &TransferRequest{
			To:       uuid.Nil,
			Currency: "USD",
			Amount:   decimal.NewFromInt(30),
		})

		assert.ErrorIs(t, err, models.ErrZeroAddress)
	})
}

func TestService_TransferFrom(t *testing.T) {
	ctx := context.Background()
	from := uuid.New()
	to := uuid.New()

	t.Run("requires an approval", func(t *testing.T) {
		repo := &MockRepo{}

		repo.On("GetApproval", ctx, from, models.SpenderCompleteSets).Return(nil, gorm.ErrRecordNotFound)

		_, err := newTestService(repo).TransferFrom(ctx, &TransferFromRequest{
			From:     from,
			To:       to,
			Spender:  models.SpenderCompleteSets,
			Currency: "USD",
			Amount:   decimal.NewFromInt(10),
		})

		assert.ErrorIs(t, err, models.ErrNoSpendApproval)
	})

	t.Run("approval must cover the currency", func(t *testing.T) {
		repo := &MockRepo{}

		repo.On("GetApproval", ctx, from, models.SpenderCompleteSets).Return(&models.SpendApproval{
			OwnerID:   from,
			Spender:   models.SpenderCompleteSets,
			Currency:  "EUR",
			Unlimited: true,
		}, nil)

		_, err := newTestService(repo).TransferFrom(ctx, &TransferFromRequest{
			From:     from,
			To:       to,
			Spender:  models.SpenderCompleteSets,
			Currency: "USD",
			Amount:   decimal.NewFromInt(10),
		})

		assert.ErrorIs(t, err, models.ErrNoSpendApproval)
	})

	t.Run("moves funds with a valid approval", func(t *testing.T) {
		repo := &MockRepo{}
		source := account(from, "USD", 100)
		dest := account(to, "USD", 0)

		repo.On("GetApproval", ctx, from, models.SpenderCompleteSets).Return(&models.SpendApproval{
			OwnerID:   from,
			Spender:   models.SpenderCompleteSets,
			Currency:  "USD",
			Unlimited: true,
		}, nil)
		repo.On("GetAccountForUpdate", ctx, from, "USD").Return(source, nil)
		repo.On("GetAccountForUpdate", ctx, to, "USD").Return(dest, nil)
		repo.On("UpdateAccount", ctx, mock.AnythingOfType("*models.CollateralAccount")).Return(nil)
		repo.On("CreateTransaction", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

		_, err := newTestService(repo).TransferFrom(ctx, &TransferFromRequest{
			From:     from,
			To:       to,
			Spender:  models.SpenderCompleteSets,
			Currency: "USD",
			Amount:   decimal.NewFromInt(10),
		})

		assert.NoError(t, err)
		assert.True(t, source.Balance.Equal(decimal.NewFromInt(90)))
		assert.True(t, dest.Balance.Equal(decimal.NewFromInt(10)))
	})
}

func TestService_Approve(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("creates the grant", func(t *testing.T) {
		repo := &MockRepo{}

		repo.On("GetApproval", ctx, owner, models.SpenderTradingProceeds).Return(nil, gorm.ErrRecordNotFound)
		repo.On("CreateApproval", ctx, mock.AnythingOfType("*models.SpendApproval")).Return(nil)

		err := newTestService(repo).Approve(ctx, owner, &ApproveRequest{
			Spender:  models.SpenderTradingProceeds,
			Currency: "USD",
		})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("is idempotent", func(t *testing.T) {
		repo := &MockRepo{}

		repo.On("GetApproval", ctx, owner, models.SpenderTradingProceeds).Return(&models.SpendApproval{
			OwnerID:   owner,
			Spender:   models.SpenderTradingProceeds,
			Currency:  "USD",
			Unlimited: true,
		}, nil)

		err := newTestService(repo).Approve(ctx, owner, &ApproveRequest{
			Spender:  models.SpenderTradingProceeds,
			Currency: "USD",
		})

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "CreateApproval")
	})
}

func TestService_BalanceOf(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("unfunded account reads as zero", func(t *testing.T) {
		repo := &MockRepo{}

		repo.On("GetAccountByOwnerAndCurrency", ctx, owner, "USD").Return(nil, gorm.ErrRecordNotFound)

		result, err := newTestService(repo).BalanceOf(ctx, owner, "USD")

		assert.NoError(t, err)
		assert.True(t, result.Balance.IsZero())
		assert.Equal(t, owner, result.OwnerID)
	})

	t.Run("returns the account balance", func(t *testing.T) {
		repo := &MockRepo{}
		acct := account(owner, "USD", 42)

		repo.On("GetAccountByOwnerAndCurrency", ctx, owner, "USD").Return(acct, nil)

		result, err := newTestService(repo).BalanceOf(ctx, owner, "USD")

		assert.NoError(t, err)
		assert.True(t, result.Balance.Equal(decimal.NewFromInt(42)))
	})
}
