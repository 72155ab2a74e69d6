package universe

import (
	"context"

	"github.com/joefazee/omen/models"
)

// MarketInitializer performs the atomic setup of a newly created market:
// persisting the market row, allocating one share token per outcome,
// creating the creator mailbox and granting the settlement engines spend
// approvals over the market's collateral.
type MarketInitializer interface {
	Initialize(ctx context.Context, market *models.Market) (*models.Market, error)
}
