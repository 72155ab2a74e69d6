package trading

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/joefazee/omen/internal/events"
	"github.com/joefazee/omen/models"
)

type Service interface {
	BuyCompleteSets(ctx context.Context, marketID, caller uuid.UUID, req *CompleteSetsRequest) (*CompleteSetsResponse, error)
	SellCompleteSets(ctx context.Context, marketID, caller uuid.UUID, req *CompleteSetsRequest) (*CompleteSetsResponse, error)
	ClaimTradingProceeds(ctx context.Context, marketID, caller uuid.UUID) (*ClaimResponse, error)
}

type service struct {
	repo    Repository
	tx      TxManager
	emitter events.Emitter
}

func NewService(repo Repository, tx TxManager, emitter events.Emitter) Service {
	return &service{
		repo:    repo,
		tx:      tx,
		emitter: emitter,
	}
}

// BuyCompleteSets mints one share of every outcome per complete set, locking
// amount * numTicks of the buyer's collateral in the market's account.
func (s *service) BuyCompleteSets(ctx context.Context, marketID, caller uuid.UUID, req *CompleteSetsRequest) (*CompleteSetsResponse, error) {
	if !IsValidShareAmount(req.Amount) {
		return nil, models.ErrInvalidShareAmount
	}

	var resp *CompleteSetsResponse
	var universeID uuid.UUID

	err := s.tx.RunInTx(func(txRepo Repository) error {
		market, universe, err := s.lockMarketAndUniverse(ctx, txRepo, marketID)
		if err != nil {
			return err
		}
		universeID = universe.ID

		if market.Status != models.MarketStatusTrading {
			return models.ErrMarketNotTrading
		}

		cost := market.CompleteSetCost(req.Amount)

		buyer, err := txRepo.GetAccountForUpdate(ctx, caller, market.DenominationToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrInsufficientFunds
			}
			return fmt.Errorf("failed to get buyer account: %w", err)
		}

		escrow, err := txRepo.GetAccountForUpdate(ctx, market.ID, market.DenominationToken)
		if err != nil {
			return fmt.Errorf("failed to get market account: %w", err)
		}

		if err := s.moveCollateral(ctx, txRepo, buyer, escrow, cost,
			models.TransactionTypeCompleteSetBuy, market.ID, "complete set purchase"); err != nil {
			return err
		}

		tokens, err := txRepo.GetShareTokens(ctx, marketID)
		if err != nil {
			return fmt.Errorf("failed to get share tokens: %w", err)
		}

		for i := range tokens {
			token := &tokens[i]
			position, err := s.getOrCreatePosition(ctx, txRepo, token.ID, caller)
			if err != nil {
				return err
			}
			if err := position.Credit(req.Amount); err != nil {
				return err
			}
			if err := txRepo.UpdatePosition(ctx, position); err != nil {
				return fmt.Errorf("failed to update position: %w", err)
			}

			token.TotalSupply = token.TotalSupply.Add(req.Amount)
			if err := txRepo.UpdateShareToken(ctx, token); err != nil {
				return fmt.Errorf("failed to update share token: %w", err)
			}
		}

		if err := universe.IncreaseOpenInterest(cost); err != nil {
			return err
		}
		if err := txRepo.UpdateUniverse(ctx, universe); err != nil {
			return fmt.Errorf("failed to update universe: %w", err)
		}

		resp = &CompleteSetsResponse{
			MarketID:   market.ID,
			Account:    caller,
			Amount:     req.Amount,
			Collateral: cost,
			CreatorFee: decimal.Zero,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(events.CompleteSetsPurchased{
		Universe:        universeID,
		Market:          marketID,
		Account:         caller,
		NumCompleteSets: req.Amount,
	})

	return resp, nil
}

// SellCompleteSets burns one share of every outcome per complete set and
// releases amount * numTicks of collateral, minus the creator fee which goes
// to the market's mailbox.
func (s *service) SellCompleteSets(ctx context.Context, marketID, caller uuid.UUID, req *CompleteSetsRequest) (*CompleteSetsResponse, error) {
	if !IsValidShareAmount(req.Amount) {
		return nil, models.ErrInvalidShareAmount
	}

	var resp *CompleteSetsResponse
	var universeID uuid.UUID

	err := s.tx.RunInTx(func(txRepo Repository) error {
		market, universe, err := s.lockMarketAndUniverse(ctx, txRepo, marketID)
		if err != nil {
			return err
		}
		universeID = universe.ID

		tokens, err := txRepo.GetShareTokens(ctx, marketID)
		if err != nil {
			return fmt.Errorf("failed to get share tokens: %w", err)
		}

		for i := range tokens {
			token := &tokens[i]
			position, err := txRepo.GetPositionForUpdate(ctx, token.ID, caller)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrInsufficientShares
				}
				return fmt.Errorf("failed to get position: %w", err)
			}
			if err := position.Debit(req.Amount); err != nil {
				return err
			}
			if err := txRepo.UpdatePosition(ctx, position); err != nil {
				return fmt.Errorf("failed to update position: %w", err)
			}

			token.TotalSupply = token.TotalSupply.Sub(req.Amount)
			if err := txRepo.UpdateShareToken(ctx, token); err != nil {
				return fmt.Errorf("failed to update share token: %w", err)
			}
		}

		if err := s.checkApproval(ctx, txRepo, market, models.SpenderCompleteSets); err != nil {
			return err
		}

		gross := market.CompleteSetCost(req.Amount)
		fee := market.CreatorFee(gross)
		remainder := gross.Sub(fee)

		escrow, err := txRepo.GetAccountForUpdate(ctx, market.ID, market.DenominationToken)
		if err != nil {
			return fmt.Errorf("failed to get market account: %w", err)
		}
		if err := s.debitAccount(ctx, txRepo, escrow, gross,
			models.TransactionTypeCompleteSetSell, market.ID, "complete set redemption"); err != nil {
			return err
		}

		if fee.IsPositive() {
			if err := s.payMailbox(ctx, txRepo, market, fee); err != nil {
				return err
			}
		}

		seller, err := s.getOrCreateAccount(ctx, txRepo, caller, market.DenominationToken)
		if err != nil {
			return err
		}
		if err := s.creditAccount(ctx, txRepo, seller, remainder,
			models.TransactionTypeCompleteSetSell, market.ID, "complete set redemption"); err != nil {
			return err
		}

		if err := universe.DecreaseOpenInterest(gross); err != nil {
			return err
		}
		if err := txRepo.UpdateUniverse(ctx, universe); err != nil {
			return fmt.Errorf("failed to update universe: %w", err)
		}

		resp = &CompleteSetsResponse{
			MarketID:   market.ID,
			Account:    caller,
			Amount:     req.Amount,
			Collateral: remainder,
			CreatorFee: fee,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(events.CompleteSetsSold{
		Universe:        universeID,
		Market:          marketID,
		Account:         caller,
		NumCompleteSets: req.Amount,
	})

	return resp, nil
}

// ClaimTradingProceeds redeems every outcome position the caller holds in a
// resolved market. Each position is burned in full; outcomes with a zero
// payout numerator release nothing. Claiming twice is a no-op because the
// positions are already empty.
func (s *service) ClaimTradingProceeds(ctx context.Context, marketID, caller uuid.UUID) (*ClaimResponse, error) {
	var resp *ClaimResponse
	var claimed []events.TradingProceedsClaimed

	err := s.tx.RunInTx(func(txRepo Repository) error {
		market, universe, err := s.lockMarketAndUniverse(ctx, txRepo, marketID)
		if err != nil {
			return err
		}

		if !market.IsFinalized() {
			return models.ErrNotFinalized
		}

		if err := s.checkApproval(ctx, txRepo, market, models.SpenderTradingProceeds); err != nil {
			return err
		}

		tokens, err := txRepo.GetShareTokens(ctx, marketID)
		if err != nil {
			return fmt.Errorf("failed to get share tokens: %w", err)
		}

		// The holder's collateral account is locked once up front. It may
		// not exist yet; it is only created when a payout is actually due.
		holder, err := txRepo.GetAccountForUpdate(ctx, caller, market.DenominationToken)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to get holder account: %w", err)
			}
			holder = nil
		}

		totalProceeds := decimal.Zero
		totalFees := decimal.Zero
		totalPayout := decimal.Zero
		var outcomes []OutcomeClaimResponse

		for i := range tokens {
			token := &tokens[i]
			position, err := txRepo.GetPositionForUpdate(ctx, token.ID, caller)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("failed to get position: %w", err)
			}
			if position.Balance.IsZero() {
				continue
			}

			shares := position.Balance
			proceeds, fee, share := DivideUpWinnings(market, token.Outcome, shares)

			if err := position.Debit(shares); err != nil {
				return err
			}
			if err := txRepo.UpdatePosition(ctx, position); err != nil {
				return fmt.Errorf("failed to update position: %w", err)
			}

			token.TotalSupply = token.TotalSupply.Sub(shares)
			if err := txRepo.UpdateShareToken(ctx, token); err != nil {
				return fmt.Errorf("failed to update share token: %w", err)
			}

			if proceeds.IsPositive() {
				escrow, err := txRepo.GetAccountForUpdate(ctx, market.ID, market.DenominationToken)
				if err != nil {
					return fmt.Errorf("failed to get market account: %w", err)
				}
				if err := s.debitAccount(ctx, txRepo, escrow, proceeds,
					models.TransactionTypeProceeds, market.ID, "trading proceeds"); err != nil {
					return err
				}

				if fee.IsPositive() {
					if err := s.payMailbox(ctx, txRepo, market, fee); err != nil {
						return err
					}
				}

				if share.IsPositive() {
					if holder == nil {
						holder = &models.CollateralAccount{
							OwnerID:  caller,
							Currency: market.DenominationToken,
							Balance:  decimal.Zero,
						}
						if err := txRepo.CreateAccount(ctx, holder); err != nil {
							return fmt.Errorf("failed to create holder account: %w", err)
						}
					}
					if err := s.creditAccount(ctx, txRepo, holder, share,
						models.TransactionTypeProceeds, market.ID, "trading proceeds"); err != nil {
						return err
					}
				}
			}

			finalBalance := decimal.Zero
			if holder != nil {
				finalBalance = holder.Balance
			}

			totalProceeds = totalProceeds.Add(proceeds)
			totalFees = totalFees.Add(fee)
			totalPayout = totalPayout.Add(share)

			outcomes = append(outcomes, OutcomeClaimResponse{
				Outcome:  token.Outcome,
				Shares:   shares,
				Proceeds: proceeds,
				Fee:      fee,
				Payout:   share,
			})
			claimed = append(claimed, events.TradingProceedsClaimed{
				Market:            market.ID,
				ShareToken:        token.ID,
				Sender:            caller,
				NumShares:         shares,
				NumPayoutTokens:   share,
				FinalTokenBalance: finalBalance,
			})
		}

		if totalProceeds.IsPositive() {
			if err := universe.DecreaseOpenInterest(totalProceeds); err != nil {
				return err
			}
			if err := txRepo.UpdateUniverse(ctx, universe); err != nil {
				return fmt.Errorf("failed to update universe: %w", err)
			}
		}

		resp = &ClaimResponse{
			MarketID:      market.ID,
			Account:       caller,
			TotalProceeds: totalProceeds,
			TotalFees:     totalFees,
			TotalPayout:   totalPayout,
			Outcomes:      outcomes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, event := range claimed {
		s.emitter.Emit(event)
	}

	return resp, nil
}

// lockMarketAndUniverse locks the market and its universe and verifies the
// universe actually contains the market. References that fail the
// containment check are rejected before any mutation.
func (s *service) lockMarketAndUniverse(ctx context.Context, txRepo Repository, marketID uuid.UUID) (*models.Market, *models.Universe, error) {
	market, err := txRepo.GetMarketForUpdate(ctx, marketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.ErrRecordNotFound
		}
		return nil, nil, fmt.Errorf("failed to get market: %w", err)
	}

	universe, err := txRepo.GetUniverseForUpdate(ctx, market.UniverseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get universe: %w", err)
	}

	contains, err := txRepo.ContainsMarket(ctx, universe.ID, market.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check containment: %w", err)
	}
	if !contains {
		return nil, nil, models.ErrUnknownMarket
	}

	return market, universe, nil
}

func (s *service) checkApproval(ctx context.Context, txRepo Repository, market *models.Market, spender string) error {
	approval, err := txRepo.GetApproval(ctx, market.ID, spender)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNoSpendApproval
		}
		return fmt.Errorf("failed to get approval: %w", err)
	}
	if !approval.Unlimited || approval.Currency != market.DenominationToken {
		return models.ErrNoSpendApproval
	}
	return nil
}

func (s *service) getOrCreateAccount(ctx context.Context, txRepo Repository, ownerID uuid.UUID, currency string) (*models.CollateralAccount, error) {
	account, err := txRepo.GetAccountForUpdate(ctx, ownerID, currency)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account = &models.CollateralAccount{
		OwnerID:  ownerID,
		Currency: currency,
		Balance:  decimal.Zero,
	}
	if err := txRepo.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (s *service) getOrCreatePosition(ctx context.Context, txRepo Repository, shareTokenID, accountID uuid.UUID) (*models.SharePosition, error) {
	position, err := txRepo.GetPositionForUpdate(ctx, shareTokenID, accountID)
	if err == nil {
		return position, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	position = &models.SharePosition{
		ShareTokenID: shareTokenID,
		AccountID:    accountID,
		Balance:      decimal.Zero,
	}
	if err := txRepo.CreatePosition(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to create position: %w", err)
	}
	return position, nil
}

func (s *service) payMailbox(ctx context.Context, txRepo Repository, market *models.Market, fee decimal.Decimal) error {
	mailbox, err := s.getOrCreateAccount(ctx, txRepo, market.MailboxID, market.DenominationToken)
	if err != nil {
		return err
	}
	return s.creditAccount(ctx, txRepo, mailbox, fee,
		models.TransactionTypeCreatorFee, market.ID, "market creator fee")
}

func (s *service) creditAccount(ctx context.Context, txRepo Repository, account *models.CollateralAccount, amount decimal.Decimal, txType models.TransactionType, marketID uuid.UUID, description string) error {
	if err := account.Credit(amount); err != nil {
		return err
	}
	if err := txRepo.UpdateAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	entry := models.NewLedgerEntry(account, txType, amount, "market", &marketID, description)
	if err := txRepo.CreateTransaction(ctx, entry); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (s *service) debitAccount(ctx context.Context, txRepo Repository, account *models.CollateralAccount, amount decimal.Decimal, txType models.TransactionType, marketID uuid.UUID, description string) error {
	if err := account.Debit(amount); err != nil {
		return err
	}
	if err := txRepo.UpdateAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	entry := models.NewLedgerEntry(account, txType, amount.Neg(), "market", &marketID, description)
	if err := txRepo.CreateTransaction(ctx, entry); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (s *service) moveCollateral(ctx context.Context, txRepo Repository, from, to *models.CollateralAccount, amount decimal.Decimal, txType models.TransactionType, marketID uuid.UUID, description string) error {
	if err := s.debitAccount(ctx, txRepo, from, amount, txType, marketID, description); err != nil {
		return err
	}
	return s.creditAccount(ctx, txRepo, to, amount, txType, marketID, description)
}
