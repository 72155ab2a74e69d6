package trading

import (
	"github.com/shopspring/decimal"

	"github.com/joefazee/omen/models"
)

// CalculateProceeds returns the collateral released by redeeming numShares of
// the given outcome: numShares * payoutNumerator. Losing outcomes carry a
// zero numerator and release nothing.
func CalculateProceeds(market *models.Market, outcome int, numShares decimal.Decimal) decimal.Decimal {
	if outcome < 0 || outcome >= len(market.PayoutNumerators) {
		return decimal.Zero
	}
	return numShares.Mul(decimal.NewFromInt(market.PayoutNumerators[outcome]))
}

// CalculateCreatorFee returns the creator's cut of a settlement amount.
func CalculateCreatorFee(market *models.Market, amount decimal.Decimal) decimal.Decimal {
	return market.CreatorFee(amount)
}

// DivideUpWinnings splits the proceeds of a redemption between the market
// creator and the shareholder. The creator fee is floored, so truncation dust
// always favors the shareholder.
func DivideUpWinnings(market *models.Market, outcome int, numShares decimal.Decimal) (proceeds, creatorFee, shareHolderShare decimal.Decimal) {
	proceeds = CalculateProceeds(market, outcome, numShares)
	creatorFee = CalculateCreatorFee(market, proceeds)
	shareHolderShare = proceeds.Sub(creatorFee)
	return proceeds, creatorFee, shareHolderShare
}

// IsValidShareAmount reports whether amount is a positive whole number of
// complete sets.
func IsValidShareAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.IsInteger()
}
