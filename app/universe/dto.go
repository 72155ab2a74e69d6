package universe

import (
	"time"

	"github.com/google/uuid"
	"github.com/joefazee/omen/internal/validator"
	"github.com/joefazee/omen/models"
	"github.com/shopspring/decimal"
)

// CreateUniverseRequest represents the request to create a universe
type CreateUniverseRequest struct {
	DenominationToken string `json:"denomination_token" binding:"required"`
}

// CreateYesNoMarketRequest represents the request to create a binary market
type CreateYesNoMarketRequest struct {
	Description       string    `json:"description" binding:"required"`
	DenominationToken string    `json:"denomination_token" binding:"required"`
	Oracle            uuid.UUID `json:"oracle" binding:"required"`
	EndTime           time.Time `json:"end_time" binding:"required"`
	FeeDivisor        int64     `json:"fee_divisor"`
	ExtraInfo         string    `json:"extra_info,omitempty"`
}

func (r *CreateYesNoMarketRequest) Validate(v *validator.Validator) bool {
	validateCommonMarketFields(v, r.Description, r.Oracle, r.EndTime, r.FeeDivisor)
	return v.Valid()
}

// CreateCategoricalMarketRequest represents the request to create a market
// with three or more discrete outcomes
type CreateCategoricalMarketRequest struct {
	Description       string    `json:"description" binding:"required"`
	DenominationToken string    `json:"denomination_token" binding:"required"`
	Oracle            uuid.UUID `json:"oracle" binding:"required"`
	EndTime           time.Time `json:"end_time" binding:"required"`
	FeeDivisor        int64     `json:"fee_divisor"`
	NumOutcomes       int       `json:"num_outcomes" binding:"required"`
	ExtraInfo         string    `json:"extra_info,omitempty"`
}

func (r *CreateCategoricalMarketRequest) Validate(v *validator.Validator) bool {
	validateCommonMarketFields(v, r.Description, r.Oracle, r.EndTime, r.FeeDivisor)
	v.Check(validator.Between(r.NumOutcomes, 3, models.MaxOutcomes),
		"num_outcomes", "categorical markets need between 3 and 8 outcomes")
	return v.Valid()
}

// CreateScalarMarketRequest represents the request to create a market that
// settles over a numeric price range
type CreateScalarMarketRequest struct {
	Description       string          `json:"description" binding:"required"`
	DenominationToken string          `json:"denomination_token" binding:"required"`
	Oracle            uuid.UUID       `json:"oracle" binding:"required"`
	EndTime           time.Time       `json:"end_time" binding:"required"`
	FeeDivisor        int64           `json:"fee_divisor"`
	MinPrice          decimal.Decimal `json:"min_price"`
	MaxPrice          decimal.Decimal `json:"max_price"`
	NumTicks          int64           `json:"num_ticks" binding:"required"`
	ExtraInfo         string          `json:"extra_info,omitempty"`
}

func (r *CreateScalarMarketRequest) Validate(v *validator.Validator) bool {
	validateCommonMarketFields(v, r.Description, r.Oracle, r.EndTime, r.FeeDivisor)
	v.Check(r.MaxPrice.GreaterThan(r.MinPrice), "max_price", "max price must be greater than min price")
	v.Check(r.NumTicks > 0, "num_ticks", "num ticks must be greater than zero")
	return v.Valid()
}

func validateCommonMarketFields(v *validator.Validator,
	description string,
	oracle uuid.UUID,
	endTime time.Time,
	feeDivisor int64) {
	v.Check(validator.NotBlank(description), "description", "description is required")
	v.Check(oracle != uuid.Nil, "oracle", "oracle is required")
	v.Check(!endTime.IsZero(), "end_time", "end time is required")
	v.Check(feeDivisor == models.NoFeeDivisor || feeDivisor >= models.MinFeeDivisor,
		"fee_divisor", "fee divisor must be 0 or at least 2")
}

// Response represents a universe in API responses
type Response struct {
	ID                uuid.UUID       `json:"id"`
	DenominationToken string          `json:"denomination_token"`
	OpenInterest      decimal.Decimal `json:"open_interest"`
	CreatedAt         time.Time       `json:"created_at"`
}

// MarketResponse represents a market in API responses
type MarketResponse struct {
	ID                uuid.UUID               `json:"id"`
	UniverseID        uuid.UUID               `json:"universe_id"`
	Creator           uuid.UUID               `json:"creator"`
	Owner             uuid.UUID               `json:"owner"`
	Oracle            uuid.UUID               `json:"oracle"`
	Description       string                  `json:"description"`
	MarketType        models.MarketType       `json:"market_type"`
	Status            models.MarketStatus     `json:"status"`
	NumOutcomes       int                     `json:"num_outcomes"`
	NumTicks          int64                   `json:"num_ticks"`
	DenominationToken string                  `json:"denomination_token"`
	FeeDivisor        int64                   `json:"fee_divisor"`
	EndTime           time.Time               `json:"end_time"`
	ReportDueTime     time.Time               `json:"report_due_time"`
	ResolutionTime    *time.Time              `json:"resolution_time,omitempty"`
	PayoutNumerators  models.PayoutNumerators `json:"payout_numerators,omitempty"`
	IsInvalid         bool                    `json:"is_invalid"`
	MinPrice          *decimal.Decimal        `json:"min_price,omitempty"`
	MaxPrice          *decimal.Decimal        `json:"max_price,omitempty"`
	MailboxID         uuid.UUID               `json:"mailbox_id"`
	CreatedAt         time.Time               `json:"created_at"`
}

// ContainmentResponse reports whether the universe contains an entity
type ContainmentResponse struct {
	Contains bool `json:"contains"`
}

// ToUniverseResponse converts a models.Universe to Response
func ToUniverseResponse(universe *models.Universe) *Response {
	return &Response{
		ID:                universe.ID,
		DenominationToken: universe.DenominationToken,
		OpenInterest:      universe.OpenInterest,
		CreatedAt:         universe.CreatedAt,
	}
}

// ToMarketResponse converts a models.Market to MarketResponse
func ToMarketResponse(market *models.Market) *MarketResponse {
	return &MarketResponse{
		ID:                market.ID,
		UniverseID:        market.UniverseID,
		Creator:           market.Creator,
		Owner:             market.Owner,
		Oracle:            market.Oracle,
		Description:       market.Description,
		MarketType:        market.MarketType,
		Status:            market.Status,
		NumOutcomes:       market.NumOutcomes,
		NumTicks:          market.NumTicks,
		DenominationToken: market.DenominationToken,
		FeeDivisor:        market.FeeDivisor,
		EndTime:           market.EndTime,
		ReportDueTime:     market.ReportDueTime,
		ResolutionTime:    market.ResolutionTime,
		PayoutNumerators:  market.PayoutNumerators,
		IsInvalid:         market.IsInvalid,
		MinPrice:          market.MinPrice,
		MaxPrice:          market.MaxPrice,
		MailboxID:         market.MailboxID,
		CreatedAt:         market.CreatedAt,
	}
}
