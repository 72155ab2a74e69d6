package models

import "errors"

var (
	ErrInvalidOutcomeCount  = errors.New("outcome count must be between 2 and 8")
	ErrInvalidFeeDivisor    = errors.New("fee divisor must be 0 or at least 2")
	ErrZeroAddress          = errors.New("identity cannot be the null account")
	ErrDenominationMismatch = errors.New("denomination token does not match universe denomination token")
	ErrInvalidNumTicks      = errors.New("num ticks must be greater than zero")
	ErrInvalidPriceRange    = errors.New("invalid scalar price range")
	ErrDescriptionRequired  = errors.New("market description is required")
	ErrEndTimeInPast        = errors.New("market end time must be in the future")

	ErrNotYetReportable  = errors.New("market cannot be reported on before its end time")
	ErrAlreadyResolved   = errors.New("market is already resolved")
	ErrPayoutMismatch    = errors.New("payout numerators do not sum to num ticks")
	ErrNotFinalized      = errors.New("market is not finalized")
	ErrMarketNotTrading  = errors.New("market is not accepting complete set operations")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUnknownMarket     = errors.New("market is not recognized by the universe")
	ErrUnknownShareToken = errors.New("share token is not recognized by the universe")

	ErrInvalidShareAmount  = errors.New("share amount must be a positive whole number")
	ErrInsufficientShares  = errors.New("insufficient share balance")
	ErrInsufficientFunds   = errors.New("insufficient collateral balance")
	ErrNoSpendApproval     = errors.New("spender has no approval for this account")
	ErrNegativeBalance     = errors.New("balance cannot be negative")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidCurrencyCode = errors.New("invalid currency code")

	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")
	ErrInvalidAccountID         = errors.New("invalid account ID")
	ErrInvalidMarketID          = errors.New("invalid market ID")
	ErrInvalidUniverseID        = errors.New("invalid universe ID")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")
	ErrInvalidGracePeriod              = errors.New("reporting grace period cannot be negative")

	ErrRecordNotFound = errors.New("record not found")
)

// IsValidationError reports whether err belongs to the parameter-validation
// family. Validation failures are rejected before any state mutation.
func IsValidationError(err error) bool {
	for _, e := range []error{
		ErrInvalidOutcomeCount, ErrInvalidFeeDivisor, ErrZeroAddress,
		ErrDenominationMismatch, ErrInvalidNumTicks, ErrInvalidPriceRange,
		ErrDescriptionRequired, ErrEndTimeInPast, ErrInvalidShareAmount,
		ErrInvalidAmount, ErrInvalidCurrencyCode, ErrPayoutMismatch,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsIntegrityError reports whether err indicates an untrusted reference to a
// market or share token the registry does not contain. These are logged
// distinctly from ordinary validation failures.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrUnknownMarket) || errors.Is(err, ErrUnknownShareToken)
}
