package trading

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joefazee/omen/internal/validator"
)

// CompleteSetsRequest carries the number of complete sets to mint or redeem
type CompleteSetsRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (r *CompleteSetsRequest) Validate(v *validator.Validator) bool {
	v.Check(IsValidShareAmount(r.Amount), "amount", "amount must be a positive whole number of complete sets")
	return v.Valid()
}

// CompleteSetsResponse reports the outcome of a complete set operation
type CompleteSetsResponse struct {
	MarketID   uuid.UUID       `json:"market_id"`
	Account    uuid.UUID       `json:"account"`
	Amount     decimal.Decimal `json:"amount"`
	Collateral decimal.Decimal `json:"collateral"`
	CreatorFee decimal.Decimal `json:"creator_fee"`
}

// OutcomeClaimResponse reports the redemption of one outcome position
type OutcomeClaimResponse struct {
	Outcome  int             `json:"outcome"`
	Shares   decimal.Decimal `json:"shares"`
	Proceeds decimal.Decimal `json:"proceeds"`
	Fee      decimal.Decimal `json:"fee"`
	Payout   decimal.Decimal `json:"payout"`
}

// ClaimResponse reports the outcome of a trading proceeds claim
type ClaimResponse struct {
	MarketID      uuid.UUID              `json:"market_id"`
	Account       uuid.UUID              `json:"account"`
	TotalProceeds decimal.Decimal        `json:"total_proceeds"`
	TotalFees     decimal.Decimal        `json:"total_fees"`
	TotalPayout   decimal.Decimal        `json:"total_payout"`
	Outcomes      []OutcomeClaimResponse `json:"outcomes"`
}
