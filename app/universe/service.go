package universe

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/joefazee/omen/internal/clock"
	"github.com/joefazee/omen/internal/events"
	"github.com/joefazee/omen/models"
	"gorm.io/gorm"
)

type Service interface {
	CreateUniverse(ctx context.Context, req *CreateUniverseRequest) (*Response, error)
	GetUniverse(ctx context.Context, id uuid.UUID) (*Response, error)
	ListUniverses(ctx context.Context) ([]Response, error)

	CreateYesNoMarket(ctx context.Context, universeID, creator uuid.UUID, req *CreateYesNoMarketRequest) (*MarketResponse, error)
	CreateCategoricalMarket(ctx context.Context, universeID, creator uuid.UUID, req *CreateCategoricalMarketRequest) (*MarketResponse, error)
	CreateScalarMarket(ctx context.Context, universeID, creator uuid.UUID, req *CreateScalarMarketRequest) (*MarketResponse, error)

	IsContainerForMarket(ctx context.Context, universeID, marketID uuid.UUID) (bool, error)
	IsContainerForShareToken(ctx context.Context, universeID, shareTokenID uuid.UUID) (bool, error)
	GetMarkets(ctx context.Context, universeID uuid.UUID, limit, offset int) ([]MarketResponse, error)
}

type service struct {
	repo        Repository
	initializer MarketInitializer
	config      *Config
	clock       clock.Clock
	emitter     events.Emitter
}

func NewService(repo Repository,
	initializer MarketInitializer,
	config *Config,
	clk clock.Clock,
	emitter events.Emitter) Service {
	return &service{
		repo:        repo,
		initializer: initializer,
		config:      config,
		clock:       clk,
		emitter:     emitter,
	}
}

func (s *service) CreateUniverse(ctx context.Context, req *CreateUniverseRequest) (*Response, error) {
	universe := &models.Universe{
		DenominationToken: req.DenominationToken,
	}
	if err := s.repo.CreateUniverse(ctx, universe); err != nil {
		return nil, fmt.Errorf("failed to create universe: %w", err)
	}
	return ToUniverseResponse(universe), nil
}

func (s *service) GetUniverse(ctx context.Context, id uuid.UUID) (*Response, error) {
	universe, err := s.repo.GetUniverseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get universe: %w", err)
	}
	return ToUniverseResponse(universe), nil
}

func (s *service) ListUniverses(ctx context.Context) ([]Response, error) {
	universes, err := s.repo.GetUniverses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list universes: %w", err)
	}

	responses := make([]Response, len(universes))
	for i := range universes {
		responses[i] = *ToUniverseResponse(&universes[i])
	}
	return responses, nil
}

func (s *service) CreateYesNoMarket(ctx context.Context, universeID, creator uuid.UUID, req *CreateYesNoMarketRequest) (*MarketResponse, error) {
	market := &models.Market{
		Creator:           creator,
		Oracle:            req.Oracle,
		Description:       req.Description,
		MarketType:        models.MarketTypeYesNo,
		NumOutcomes:       models.MinOutcomes,
		NumTicks:          s.config.DefaultNumTicks,
		DenominationToken: req.DenominationToken,
		FeeDivisor:        req.FeeDivisor,
		EndTime:           req.EndTime,
	}
	return s.createMarket(ctx, universeID, market, req.ExtraInfo)
}

func (s *service) CreateCategoricalMarket(ctx context.Context, universeID, creator uuid.UUID, req *CreateCategoricalMarketRequest) (*MarketResponse, error) {
	if req.NumOutcomes < 3 || req.NumOutcomes > models.MaxOutcomes {
		return nil, models.ErrInvalidOutcomeCount
	}

	market := &models.Market{
		Creator:           creator,
		Oracle:            req.Oracle,
		Description:       req.Description,
		MarketType:        models.MarketTypeCategorical,
		NumOutcomes:       req.NumOutcomes,
		NumTicks:          s.config.DefaultNumTicks,
		DenominationToken: req.DenominationToken,
		FeeDivisor:        req.FeeDivisor,
		EndTime:           req.EndTime,
	}
	return s.createMarket(ctx, universeID, market, req.ExtraInfo)
}

func (s *service) CreateScalarMarket(ctx context.Context, universeID, creator uuid.UUID, req *CreateScalarMarketRequest) (*MarketResponse, error) {
	minPrice := req.MinPrice
	maxPrice := req.MaxPrice

	market := &models.Market{
		Creator:           creator,
		Oracle:            req.Oracle,
		Description:       req.Description,
		MarketType:        models.MarketTypeScalar,
		NumOutcomes:       models.MinOutcomes,
		NumTicks:          req.NumTicks,
		DenominationToken: req.DenominationToken,
		FeeDivisor:        req.FeeDivisor,
		EndTime:           req.EndTime,
		MinPrice:          &minPrice,
		MaxPrice:          &maxPrice,
	}
	return s.createMarket(ctx, universeID, market, req.ExtraInfo)
}

// createMarket applies the universe-level creation rules, then hands the
// market to the initializer for its atomic setup.
func (s *service) createMarket(ctx context.Context, universeID uuid.UUID, market *models.Market, extraInfo string) (*MarketResponse, error) {
	universe, err := s.repo.GetUniverseByID(ctx, universeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get universe: %w", err)
	}

	if market.Description == "" {
		return nil, models.ErrDescriptionRequired
	}
	if !market.EndTime.After(s.clock.Now()) {
		return nil, models.ErrEndTimeInPast
	}
	if market.DenominationToken != universe.DenominationToken {
		return nil, models.ErrDenominationMismatch
	}

	market.UniverseID = universe.ID

	created, err := s.initializer.Initialize(ctx, market)
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(events.MarketCreated{
		Universe:      universe.ID,
		Market:        created.ID,
		MarketCreator: created.Creator,
		ExtraInfo:     extraInfo,
	})

	return ToMarketResponse(created), nil
}

func (s *service) IsContainerForMarket(ctx context.Context, universeID, marketID uuid.UUID) (bool, error) {
	if marketID == uuid.Nil {
		return false, nil
	}
	return s.repo.ContainsMarket(ctx, universeID, marketID)
}

func (s *service) IsContainerForShareToken(ctx context.Context, universeID, shareTokenID uuid.UUID) (bool, error) {
	if shareTokenID == uuid.Nil {
		return false, nil
	}
	return s.repo.ContainsShareToken(ctx, universeID, shareTokenID)
}

func (s *service) GetMarkets(ctx context.Context, universeID uuid.UUID, limit, offset int) ([]MarketResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > s.config.MaxMarketsPageSize {
		limit = s.config.MaxMarketsPageSize
	}

	markets, err := s.repo.GetMarkets(ctx, universeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get markets: %w", err)
	}

	responses := make([]MarketResponse, len(markets))
	for i := range markets {
		responses[i] = *ToMarketResponse(&markets[i])
	}
	return responses, nil
}
