package markets

import (
	"time"

	"github.com/google/uuid"
	"github.com/joefazee/omen/internal/validator"
	"github.com/joefazee/omen/models"
	"github.com/shopspring/decimal"
)

// ResolveRequest represents the oracle's resolution report
type ResolveRequest struct {
	PayoutNumerators []int64 `json:"payout_numerators" binding:"required"`
	IsInvalid        bool    `json:"is_invalid"`
}

func (r *ResolveRequest) Validate(v *validator.Validator) bool {
	v.Check(len(r.PayoutNumerators) >= models.MinOutcomes && len(r.PayoutNumerators) <= models.MaxOutcomes,
		"payout_numerators", "payout numerators must cover between 2 and 8 outcomes")
	for _, n := range r.PayoutNumerators {
		if n < 0 {
			v.AddError("payout_numerators", "payout numerators cannot be negative")
			break
		}
	}
	return v.Valid()
}

// TransferOwnershipRequest represents a market or mailbox ownership handoff
type TransferOwnershipRequest struct {
	To uuid.UUID `json:"to" binding:"required"`
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
	MailboxID         uuid.UUID               `json:"mailbox_id"`
	ShareTokens       []ShareTokenResponse    `json:"share_tokens,omitempty"`
}

// ShareTokenResponse represents a share token in API responses
type ShareTokenResponse struct {
	ID          uuid.UUID       `json:"id"`
	MarketID    uuid.UUID       `json:"market_id"`
	Outcome     int             `json:"outcome"`
	TotalSupply decimal.Decimal `json:"total_supply"`
}

// MailboxResponse represents a market's fee mailbox in API responses
type MailboxResponse struct {
	ID       uuid.UUID `json:"id"`
	MarketID uuid.UUID `json:"market_id"`
	Owner    uuid.UUID `json:"owner"`
}

// WithdrawMailboxResponse reports the outcome of a mailbox sweep
type WithdrawMailboxResponse struct {
	Mailbox   *MailboxResponse `json:"mailbox"`
	Amount    decimal.Decimal  `json:"amount"`
	Recipient uuid.UUID        `json:"recipient"`
}

// ToMarketResponse converts a models.Market to MarketResponse
func ToMarketResponse(market *models.Market) *MarketResponse {
	resp := &MarketResponse{
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
		MailboxID:         market.MailboxID,
	}
	for i := range market.ShareTokens {
		resp.ShareTokens = append(resp.ShareTokens, *ToShareTokenResponse(&market.ShareTokens[i]))
	}
	return resp
}

// ToShareTokenResponse converts a models.ShareToken to ShareTokenResponse
func ToShareTokenResponse(token *models.ShareToken) *ShareTokenResponse {
	return &ShareTokenResponse{
		ID:          token.ID,
		MarketID:    token.MarketID,
		Outcome:     token.Outcome,
		TotalSupply: token.TotalSupply,
	}
}

// ToMailboxResponse converts a models.Mailbox to MailboxResponse
func ToMailboxResponse(mailbox *models.Mailbox) *MailboxResponse {
	return &MailboxResponse{
		ID:       mailbox.ID,
		MarketID: mailbox.MarketID,
		Owner:    mailbox.Owner,
	}
}
