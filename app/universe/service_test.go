package universe

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/joefazee/omen/internal/clock"
	"github.com/joefazee/omen/internal/events"
	"github.com/joefazee/omen/models"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateUniverse(ctx context.Context, universe *models.Universe) error {
	return m.Called(ctx, universe).Error(0)
}

func (m *MockRepo) GetUniverseByID(ctx context.Context, id uuid.UUID) (*models.Universe, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.Universe), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) GetUniverses(ctx context.Context) ([]models.Universe, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]models.Universe), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) ContainsMarket(ctx context.Context, universeID, marketID uuid.UUID) (bool, error) {
	args := m.Called(ctx, universeID, marketID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) ContainsShareToken(ctx context.Context, universeID, shareTokenID uuid.UUID) (bool, error) {
	args := m.Called(ctx, universeID, shareTokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) GetMarkets(ctx context.Context, universeID uuid.UUID, limit, offset int) ([]models.Market, error) {
	args := m.Called(ctx, universeID, limit, offset)
	if markets := args.Get(0); markets != nil {
		return markets.([]models.Market), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) WithTx(_ *gorm.DB) Repository {
	return m
}

type MockInitializer struct {
	mock.Mock
}

// Initialize echoes the market back with an ID assigned unless the
// expectation supplies a replacement or an error.
func (m *MockInitializer) Initialize(ctx context.Context, market *models.Market) (*models.Market, error) {
	args := m.Called(ctx, market)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if mk := args.Get(0); mk != nil {
		return mk.(*models.Market), nil
	}
	if market.ID == uuid.Nil {
		market.ID = uuid.New()
	}
	return market, nil
}

func testUniverse() *models.Universe {
	return &models.Universe{
		ID:                uuid.New(),
		DenominationToken: "USD",
		OpenInterest:      decimal.Zero,
	}
}

func newTestService(repo *MockRepo, init *MockInitializer, recorder *events.Recorder, now time.Time) Service {
	return NewService(repo, init, GetDefaultConfig(), clock.NewFake(now), recorder)
}

func TestService_CreateYesNoMarket(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	creator := uuid.New()
	oracle := uuid.New()

	validReq := func() *CreateYesNoMarketRequest {
		return &CreateYesNoMarketRequest{
			Description:       "Will it rain tomorrow?",
			DenominationToken: "USD",
			Oracle:            oracle,
			EndTime:           now.Add(24 * time.Hour),
			FeeDivisor:        100,
			ExtraInfo:         "weather",
		}
	}

	t.Run("creates a binary market with default ticks", func(t *testing.T) {
		repo := &MockRepo{}
		init := &MockInitializer{}
		recorder := events.NewRecorder()
		universe := testUniverse()

		repo.On("GetUniverseByID", ctx, universe.ID).Return(universe, nil)
		init.On("Initialize", ctx, mock.AnythingOfType("*models.Market")).Return(nil, nil)

		resp, err := newTestService(repo, init, recorder, now).
			CreateYesNoMarket(ctx, universe.ID, creator, validReq())

		assert.NoError(t, err)
		assert.Equal(t, models.MarketTypeYesNo, resp.MarketType)
		assert.Equal(t, 2, resp.NumOutcomes)
		assert.Equal(t, int64(10000), resp.NumTicks)
		assert.Equal(t, universe.ID, resp.UniverseID)
		assert.Equal(t, creator, resp.Creator)

		created := recorder.Named("MarketCreated")
		assert.Len(t, created, 1)
		assert.Equal(t, "weather", created[0].(events.MarketCreated).ExtraInfo)
	})

	t.Run("rejects an end time that is not in the future", func(t *testing.T) {
		repo := &MockRepo{}
		init := &MockInitializer{}
		universe := testUniverse()

		repo.On("GetUniverseByID", ctx, universe.ID).Return(universe, nil)

		req := validReq()
		req.EndTime = now

		_, err := newTestService(repo, init, events.NewRecorder(), now).
			CreateYesNoMarket(ctx, universe.ID, creator, req)

		assert.ErrorIs(t, err, models.ErrEndTimeInPast)
		init.AssertNotCalled(t, "Initialize")
	})

	t.Run("rejects a denomination mismatch", func(t *testing.T) {
		repo := &MockRepo{}
		init := &MockInitializer{}
		universe := testUniverse()

		repo.On("GetUniverseByID", ctx, universe.ID).Return(universe, nil)

		req := validReq()
		req.DenominationToken = "EUR"

		_, err := newTestService(repo, init, events.NewRecorder(), now).
			CreateYesNoMarket(ctx, universe.ID, creator, req)

		assert.ErrorIs(t, err, models.ErrDenominationMismatch)
	})

	t.Run("unknown universe is not found", func(t *testing.T) {
		repo := &MockRepo{}
		init := &MockInitializer{}
		missing := uuid.New()

		repo.On("GetUniverseByID", ctx, missing).Return(nil, gorm.ErrRecordNotFound)

		_, err := newTestService(repo, init, events.NewRecorder(), now).
			CreateYesNoMarket(ctx, missing, creator, validReq())

		assert.ErrorIs(t, err, models.ErrRecordNotFound)
	})
}

func TestService_CreateCategoricalMarket(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	creator := uuid.New()

	req := func(outcomes int) *CreateCategoricalMarketRequest {
		return &CreateCategoricalMarketRequest{
			Description:       "Who wins the cup?",
			DenominationToken: "USD",
			Oracle:            uuid.New(),
			EndTime:           now.Add(24 * time.Hour),
			NumOutcomes:       outcomes,
		}
	}

	t.Run("rejects fewer than three outcomes", func(t *testing.T) {
		svc := newTestService(&MockRepo{}, &MockInitializer{}, events.NewRecorder(), now)

		_, err := svc.CreateCategoricalMarket(ctx, uuid.New(), creator, req(2))

		assert.ErrorIs(t, err, models.ErrInvalidOutcomeCount)
	})

	t.Run("rejects more than eight outcomes", func(t *testing.T) {
		svc := newTestService(&MockRepo{}, &MockInitializer{}, events.NewRecorder(), now)

		_, err := svc.CreateCategoricalMarket(ctx, uuid.New(), creator, req(9))

		assert.ErrorIs(t, err, models.ErrInvalidOutcomeCount)
	})

	t.Run("creates a market with the requested outcomes", func(t *testing.T) {
		repo := &MockRepo{}
		init := &MockInitializer{}
		universe := testUniverse()

		repo.On("GetUniverseByID", ctx, universe.ID).Return(universe, nil)
		init.On("Initialize", ctx, mock.AnythingOfType("*models.Market")).Return(nil, nil)

		resp, err := newTestService(repo, init, events.NewRecorder(), now).
			CreateCategoricalMarket(ctx, universe.ID, creator, req(5))

		assert.NoError(t, err)
		assert.Equal(t, models.MarketTypeCategorical, resp.MarketType)
		assert.Equal(t, 5, resp.NumOutcomes)
	})
}

func TestService_CreateScalarMarket(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	creator := uuid.New()

	t.Run("carries the price range and tick count", func(t *testing.T) {
		repo := &MockRepo{}
		init := &MockInitializer{}
		universe := testUniverse()

		repo.On("GetUniverseByID", ctx, universe.ID).Return(universe, nil)
		init.On("Initialize", ctx, mock.AnythingOfType("*models.Market")).Return(nil, nil)

		resp, err := newTestService(repo, init, events.NewRecorder(), now).
			CreateScalarMarket(ctx, universe.ID, creator, &CreateScalarMarketRequest{
				Description:       "ETH price at end of year",
				DenominationToken: "USD",
				Oracle:            uuid.New(),
				EndTime:           now.Add(24 * time.Hour),
				MinPrice:          decimal.NewFromInt(0),
				MaxPrice:          decimal.NewFromInt(5000),
				NumTicks:          2500,
			})

		assert.NoError(t, err)
		assert.Equal(t, models.MarketTypeScalar, resp.MarketType)
		assert.Equal(t, int64(2500), resp.NumTicks)
		assert.True(t, resp.MaxPrice.Equal(decimal.NewFromInt(5000)))
	})
}

func TestService_Containment(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("null market ID is never contained", func(t *testing.T) {
		repo := &MockRepo{}
		svc := newTestService(repo, &MockInitializer{}, events.NewRecorder(), now)

		contains, err := svc.IsContainerForMarket(ctx, uuid.New(), uuid.Nil)

		assert.NoError(t, err)
		assert.False(t, contains)
		repo.AssertNotCalled(t, "ContainsMarket")
	})

	t.Run("delegates to the registry", func(t *testing.T) {
		repo := &MockRepo{}
		universeID := uuid.New()
		marketID := uuid.New()
		tokenID := uuid.New()

		repo.On("ContainsMarket", ctx, universeID, marketID).Return(true, nil)
		repo.On("ContainsShareToken", ctx, universeID, tokenID).Return(false, nil)

		svc := newTestService(repo, &MockInitializer{}, events.NewRecorder(), now)

		contains, err := svc.IsContainerForMarket(ctx, universeID, marketID)
		assert.NoError(t, err)
		assert.True(t, contains)

		contains, err = svc.IsContainerForShareToken(ctx, universeID, tokenID)
		assert.NoError(t, err)
		assert.False(t, contains)
	})
}
