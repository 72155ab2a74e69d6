package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestShareToken_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		st := &ShareToken{MarketID: uuid.New(), Outcome: 0}
		assert.NoError(t, st.Validate())
	})

	t.Run("missing market", func(t *testing.T) {
		st := &ShareToken{Outcome: 1}
		assert.ErrorIs(t, st.Validate(), ErrInvalidMarketID)
	})

	t.Run("outcome out of range", func(t *testing.T) {
		st := &ShareToken{MarketID: uuid.New(), Outcome: MaxOutcomes}
		assert.ErrorIs(t, st.Validate(), ErrInvalidOutcomeCount)

		st.Outcome = -1
		assert.ErrorIs(t, st.Validate(), ErrInvalidOutcomeCount)
	})

	t.Run("negative supply", func(t *testing.T) {
		st := &ShareToken{MarketID: uuid.New(), TotalSupply: decimal.NewFromInt(-1)}
		assert.ErrorIs(t, st.Validate(), ErrNegativeBalance)
	})
}

func TestSharePosition_CreditDebit(t *testing.T) {
	position := &SharePosition{
		ShareTokenID: uuid.New(),
		AccountID:    uuid.New(),
		Balance:      decimal.Zero,
	}

	assert.NoError(t, position.Credit(decimal.NewFromInt(10)))
	assert.True(t, position.Balance.Equal(decimal.NewFromInt(10)))

	assert.ErrorIs(t, position.Credit(decimal.Zero), ErrInvalidAmount)

	assert.NoError(t, position.Debit(decimal.NewFromInt(4)))
	assert.True(t, position.Balance.Equal(decimal.NewFromInt(6)))

	err := position.Debit(decimal.NewFromInt(7))
	assert.ErrorIs(t, err, ErrInsufficientShares)
	assert.True(t, position.Balance.Equal(decimal.NewFromInt(6)))
}

func TestSharePosition_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		position := &SharePosition{ShareTokenID: uuid.New(), AccountID: uuid.New()}
		assert.NoError(t, position.Validate())
	})

	t.Run("missing account", func(t *testing.T) {
		position := &SharePosition{ShareTokenID: uuid.New()}
		assert.ErrorIs(t, position.Validate(), ErrInvalidAccountID)
	})
}

func TestUniverse_OpenInterest(t *testing.T) {
	u := &Universe{DenominationToken: "CASH", OpenInterest: decimal.Zero}

	assert.NoError(t, u.IncreaseOpenInterest(decimal.NewFromInt(100000)))
	assert.True(t, u.OpenInterest.Equal(decimal.NewFromInt(100000)))

	assert.NoError(t, u.DecreaseOpenInterest(decimal.NewFromInt(40000)))
	assert.True(t, u.OpenInterest.Equal(decimal.NewFromInt(60000)))

	assert.ErrorIs(t, u.DecreaseOpenInterest(decimal.NewFromInt(70000)), ErrNegativeBalance)
	assert.ErrorIs(t, u.IncreaseOpenInterest(decimal.Zero), ErrInvalidAmount)
}

func TestMailbox_Ownership(t *testing.T) {
	owner := uuid.New()
	mailbox := &Mailbox{MarketID: uuid.New(), Owner: owner}

	assert.True(t, mailbox.IsOwnedBy(owner))
	assert.False(t, mailbox.IsOwnedBy(uuid.New()))
	assert.False(t, mailbox.IsOwnedBy(uuid.Nil))

	t.Run("transfer by non-owner", func(t *testing.T) {
		err := mailbox.TransferOwnership(uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, owner, mailbox.Owner)
	})

	t.Run("transfer to null identity", func(t *testing.T) {
		err := mailbox.TransferOwnership(owner, uuid.Nil)
		assert.ErrorIs(t, err, ErrZeroAddress)
	})

	t.Run("transfer", func(t *testing.T) {
		newOwner := uuid.New()
		assert.NoError(t, mailbox.TransferOwnership(owner, newOwner))
		assert.Equal(t, newOwner, mailbox.Owner)
	})
}

func TestErrorFamilies(t *testing.T) {
	assert.True(t, IsValidationError(ErrInvalidOutcomeCount))
	assert.True(t, IsValidationError(ErrPayoutMismatch))
	assert.False(t, IsValidationError(ErrUnauthorized))

	assert.True(t, IsIntegrityError(ErrUnknownMarket))
	assert.True(t, IsIntegrityError(ErrUnknownShareToken))
	assert.False(t, IsIntegrityError(ErrInsufficientFunds))
}
