package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validMarket() *Market {
	return &Market{
		ID:                uuid.New(),
		UniverseID:        uuid.New(),
		Creator:           uuid.New(),
		Oracle:            uuid.New(),
		Description:       "Will it rain tomorrow?",
		MarketType:        MarketTypeYesNo,
		Status:            MarketStatusTrading,
		NumOutcomes:       2,
		NumTicks:          10000,
		DenominationToken: "CASH",
		FeeDivisor:        100,
		EndTime:           time.Now().Add(72 * time.Hour),
		MailboxID:         uuid.New(),
	}
}

func TestPayoutNumerators(t *testing.T) {
	t.Run("Value and Scan", func(t *testing.T) {
		numerators := PayoutNumerators{0, 10000}

		value, err := numerators.Value()
		assert.NoError(t, err)

		var result PayoutNumerators
		assert.NoError(t, result.Scan(value))
		assert.Equal(t, numerators, result)

		assert.NoError(t, result.Scan(nil))

		bs, err := json.Marshal(numerators)
		assert.NoError(t, err)
		assert.NoError(t, result.Scan(string(bs)))
		assert.Equal(t, numerators, result)

		assert.NoError(t, result.Scan(12))
	})

	t.Run("Sum", func(t *testing.T) {
		assert.Equal(t, int64(10000), PayoutNumerators{2500, 2500, 5000}.Sum())
		assert.Equal(t, int64(0), PayoutNumerators{}.Sum())
	})
}

func TestEvenPayoutNumerators(t *testing.T) {
	t.Run("divides exactly", func(t *testing.T) {
		numerators := EvenPayoutNumerators(2, 10000)
		assert.Equal(t, PayoutNumerators{5000, 5000}, numerators)
	})

	t.Run("remainder goes to outcome zero", func(t *testing.T) {
		numerators := EvenPayoutNumerators(3, 10000)
		assert.Equal(t, PayoutNumerators{3334, 3333, 3333}, numerators)
		assert.Equal(t, int64(10000), numerators.Sum())
	})

	t.Run("sum always equals num ticks", func(t *testing.T) {
		for outcomes := MinOutcomes; outcomes <= MaxOutcomes; outcomes++ {
			numerators := EvenPayoutNumerators(outcomes, 9999)
			assert.Len(t, numerators, outcomes)
			assert.Equal(t, int64(9999), numerators.Sum())
		}
	})
}

func TestMarket_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validMarket().Validate())
	})

	t.Run("outcome count bounds", func(t *testing.T) {
		m := validMarket()
		m.NumOutcomes = 1
		assert.ErrorIs(t, m.Validate(), ErrInvalidOutcomeCount)

		m.NumOutcomes = 9
		assert.ErrorIs(t, m.Validate(), ErrInvalidOutcomeCount)
	})

	t.Run("fee divisor of one is a 100 percent fee", func(t *testing.T) {
		m := validMarket()
		m.FeeDivisor = 1
		assert.ErrorIs(t, m.Validate(), ErrInvalidFeeDivisor)
	})

	t.Run("fee divisor zero means no fee", func(t *testing.T) {
		m := validMarket()
		m.FeeDivisor = NoFeeDivisor
		assert.NoError(t, m.Validate())
		assert.True(t, m.CreatorFee(decimal.NewFromInt(10000)).IsZero())
	})

	t.Run("null identities", func(t *testing.T) {
		m := validMarket()
		m.Creator = uuid.Nil
		assert.ErrorIs(t, m.Validate(), ErrZeroAddress)

		m = validMarket()
		m.Oracle = uuid.Nil
		assert.ErrorIs(t, m.Validate(), ErrZeroAddress)
	})

	t.Run("missing denomination token", func(t *testing.T) {
		m := validMarket()
		m.DenominationToken = ""
		assert.ErrorIs(t, m.Validate(), ErrDenominationMismatch)
	})

	t.Run("zero num ticks", func(t *testing.T) {
		m := validMarket()
		m.NumTicks = 0
		assert.ErrorIs(t, m.Validate(), ErrInvalidNumTicks)
	})

	t.Run("scalar price range", func(t *testing.T) {
		m := validMarket()
		m.MarketType = MarketTypeScalar
		assert.ErrorIs(t, m.Validate(), ErrInvalidPriceRange)

		low := decimal.NewFromInt(40)
		high := decimal.NewFromInt(20)
		m.MinPrice = &low
		m.MaxPrice = &high
		assert.ErrorIs(t, m.Validate(), ErrInvalidPriceRange)

		high = decimal.NewFromInt(60)
		m.MaxPrice = &high
		m.NumTicks = 10000
		assert.ErrorIs(t, m.Validate(), ErrInvalidNumTicks)

		m.NumTicks = 20
		assert.NoError(t, m.Validate())
	})
}

func TestMarket_Resolve(t *testing.T) {
	t.Run("happy path finalizes immediately", func(t *testing.T) {
		m := validMarket()
		now := m.EndTime.Add(time.Second)

		err := m.Resolve(PayoutNumerators{0, 10000}, false, now)
		assert.NoError(t, err)
		assert.True(t, m.IsResolved())
		assert.True(t, m.IsFinalized())
		assert.False(t, m.IsInvalid)
		assert.Equal(t, PayoutNumerators{0, 10000}, m.PayoutNumerators)
		assert.Equal(t, now, *m.ResolutionTime)
	})

	t.Run("before end time", func(t *testing.T) {
		m := validMarket()
		err := m.Resolve(PayoutNumerators{0, 10000}, false, m.EndTime.Add(-time.Second))
		assert.ErrorIs(t, err, ErrNotYetReportable)
		assert.False(t, m.IsResolved())
	})

	t.Run("numerator length mismatch leaves state unchanged", func(t *testing.T) {
		m := validMarket()
		err := m.Resolve(PayoutNumerators{0, 0, 10000}, false, m.EndTime.Add(time.Second))
		assert.ErrorIs(t, err, ErrInvalidOutcomeCount)
		assert.False(t, m.IsResolved())
		assert.Nil(t, m.PayoutNumerators)
	})

	t.Run("payout sum mismatch", func(t *testing.T) {
		m := validMarket()
		err := m.Resolve(PayoutNumerators{1, 10000}, false, m.EndTime.Add(time.Second))
		assert.ErrorIs(t, err, ErrPayoutMismatch)
		assert.False(t, m.IsResolved())
	})

	t.Run("resolve is one shot", func(t *testing.T) {
		m := validMarket()
		now := m.EndTime.Add(time.Second)
		assert.NoError(t, m.Resolve(PayoutNumerators{0, 10000}, false, now))

		err := m.Resolve(PayoutNumerators{10000, 0}, false, now.Add(time.Hour))
		assert.ErrorIs(t, err, ErrAlreadyResolved)
		assert.Equal(t, PayoutNumerators{0, 10000}, m.PayoutNumerators)
	})

	t.Run("invalid market overrides numerators with even split", func(t *testing.T) {
		m := validMarket()
		m.NumOutcomes = 3
		m.MarketType = MarketTypeCategorical
		now := m.EndTime.Add(time.Second)

		err := m.Resolve(PayoutNumerators{9999, 1, 0}, true, now)
		assert.NoError(t, err)
		assert.True(t, m.IsInvalid)
		assert.Equal(t, PayoutNumerators{3334, 3333, 3333}, m.PayoutNumerators)
		assert.Equal(t, m.NumTicks, m.PayoutNumerators.Sum())
	})
}

func TestMarket_CompleteSetCost(t *testing.T) {
	m := validMarket()
	cost := m.CompleteSetCost(decimal.NewFromInt(10))
	assert.True(t, cost.Equal(decimal.NewFromInt(100000)))
}

func TestMarket_CreatorFee(t *testing.T) {
	t.Run("floor division", func(t *testing.T) {
		m := validMarket()
		m.FeeDivisor = 100
		fee := m.CreatorFee(decimal.NewFromInt(10000))
		assert.True(t, fee.Equal(decimal.NewFromInt(100)))

		// 99 / 100 truncates to zero
		fee = m.CreatorFee(decimal.NewFromInt(99))
		assert.True(t, fee.IsZero())
	})

	t.Run("fee plus remainder conserves value", func(t *testing.T) {
		m := validMarket()
		m.FeeDivisor = 3
		proceeds := decimal.NewFromInt(10001)
		fee := m.CreatorFee(proceeds)
		share := proceeds.Sub(fee)
		assert.True(t, fee.Add(share).Equal(proceeds))
	})
}

func TestMarket_CanResolveBy(t *testing.T) {
	m := validMarket()
	assert.True(t, m.CanResolveBy(m.Oracle))
	assert.False(t, m.CanResolveBy(m.Creator))
	assert.False(t, m.CanResolveBy(uuid.Nil))
}

func TestMarket_TransferOwnership(t *testing.T) {
	t.Run("owner can hand off", func(t *testing.T) {
		m := validMarket()
		m.Owner = m.Creator
		newOwner := uuid.New()

		assert.NoError(t, m.TransferOwnership(m.Creator, newOwner))
		assert.True(t, m.IsOwnedBy(newOwner))
		assert.False(t, m.IsOwnedBy(m.Creator))
	})

	t.Run("non-owner cannot hand off", func(t *testing.T) {
		m := validMarket()
		m.Owner = m.Creator

		err := m.TransferOwnership(uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("cannot hand off to the null account", func(t *testing.T) {
		m := validMarket()
		m.Owner = m.Creator

		err := m.TransferOwnership(m.Creator, uuid.Nil)
		assert.ErrorIs(t, err, ErrZeroAddress)
	})
}

func TestMarket_BeforeCreate(t *testing.T) {
	m := &Market{}
	assert.NoError(t, m.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, m.ID)
}
