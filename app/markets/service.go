package markets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/joefazee/omen/internal/clock"
	"github.com/joefazee/omen/internal/events"
	"github.com/joefazee/omen/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	Initialize(ctx context.Context, market *models.Market) (*models.Market, error)
	GetMarket(ctx context.Context, id uuid.UUID) (*MarketResponse, error)
	Resolve(ctx context.Context, marketID, caller uuid.UUID, req *ResolveRequest) (*MarketResponse, error)
	TransferOwnership(ctx context.Context, marketID, caller uuid.UUID, req *TransferOwnershipRequest) (*MarketResponse, error)
	TransferMailbox(ctx context.Context, marketID, caller uuid.UUID, req *TransferOwnershipRequest) (*MailboxResponse, error)
	WithdrawMailbox(ctx context.Context, marketID, caller uuid.UUID) (*WithdrawMailboxResponse, error)
	GetMailbox(ctx context.Context, marketID uuid.UUID) (*MailboxResponse, error)
}

type service struct {
	repo    Repository
	tx      TxManager
	config  *Config
	clock   clock.Clock
	emitter events.Emitter
}

func NewService(repo Repository,
	tx TxManager,
	config *Config,
	clk clock.Clock,
	emitter events.Emitter) Service {
	return &service{
		repo:    repo,
		tx:      tx,
		config:  config,
		clock:   clk,
		emitter: emitter,
	}
}

// Initialize performs the atomic setup of a new market: the market row, one
// share token per outcome, the creator mailbox with its own collateral
// account, and unlimited spend approvals over the market's collateral for
// both settlement engines.
func (s *service) Initialize(ctx context.Context, market *models.Market) (*models.Market, error) {
	if market.ID == uuid.Nil {
		market.ID = uuid.New()
	}
	market.Owner = market.Creator
	market.Status = models.MarketStatusTrading
	market.ReportDueTime = market.EndTime.Add(s.config.ReportingGracePeriod)

	mailbox := &models.Mailbox{
		ID:       uuid.New(),
		MarketID: market.ID,
		Owner:    market.Creator,
	}
	market.MailboxID = mailbox.ID

	err := s.tx.RunInTx(func(txRepo Repository) error {
		if err := txRepo.CreateMailbox(ctx, mailbox); err != nil {
			return fmt.Errorf("failed to create mailbox: %w", err)
		}
		if err := txRepo.CreateMarket(ctx, market); err != nil {
			return err
		}

		for outcome := 0; outcome < market.NumOutcomes; outcome++ {
			token := &models.ShareToken{
				MarketID:    market.ID,
				Outcome:     outcome,
				TotalSupply: decimal.Zero,
			}
			if err := txRepo.CreateShareToken(ctx, token); err != nil {
				return fmt.Errorf("failed to create share token: %w", err)
			}
			market.ShareTokens = append(market.ShareTokens, *token)
		}

		for _, ownerID := range []uuid.UUID{market.ID, mailbox.ID} {
			account := &models.CollateralAccount{
				OwnerID:  ownerID,
				Currency: market.DenominationToken,
				Balance:  decimal.Zero,
			}
			if err := txRepo.CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to create collateral account: %w", err)
			}
		}

		for _, spender := range []string{models.SpenderCompleteSets, models.SpenderTradingProceeds} {
			approval := &models.SpendApproval{
				OwnerID:   market.ID,
				Spender:   spender,
				Currency:  market.DenominationToken,
				Unlimited: true,
			}
			if err := txRepo.CreateApproval(ctx, approval); err != nil {
				return fmt.Errorf("failed to create spend approval: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return market, nil
}

func (s *service) GetMarket(ctx context.Context, id uuid.UUID) (*MarketResponse, error) {
	market, err := s.repo.GetMarketByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get market: %w", err)
	}

	tokens, err := s.repo.GetShareTokens(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get share tokens: %w", err)
	}
	market.ShareTokens = tokens

	return ToMarketResponse(market), nil
}

// Resolve applies the oracle's report. The transition is one-shot: the row
// lock plus the re-check inside Market.Resolve make a second report fail
// with ErrAlreadyResolved even under concurrency.
func (s *service) Resolve(ctx context.Context, marketID, caller uuid.UUID, req *ResolveRequest) (*MarketResponse, error) {
	var market *models.Market

	err := s.tx.RunInTx(func(txRepo Repository) error {
		var err error
		market, err = txRepo.GetMarketForUpdate(ctx, marketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get market: %w", err)
		}

		if !market.CanResolveBy(caller) {
			return models.ErrUnauthorized
		}

		if err := market.Resolve(models.PayoutNumerators(req.PayoutNumerators), req.IsInvalid, s.clock.Now()); err != nil {
			return err
		}

		if err := txRepo.UpdateMarket(ctx, market); err != nil {
			return fmt.Errorf("failed to update market: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(events.MarketResolved{
		Universe: market.UniverseID,
		Market:   market.ID,
	})

	return ToMarketResponse(market), nil
}

func (s *service) TransferOwnership(ctx context.Context, marketID, caller uuid.UUID, req *TransferOwnershipRequest) (*MarketResponse, error) {
	var market *models.Market
	var from uuid.UUID

	err := s.tx.RunInTx(func(txRepo Repository) error {
		var err error
		market, err = txRepo.GetMarketForUpdate(ctx, marketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get market: %w", err)
		}

		from = market.Owner
		if err := market.TransferOwnership(caller, req.To); err != nil {
			return err
		}

		if err := txRepo.UpdateMarket(ctx, market); err != nil {
			return fmt.Errorf("failed to update market: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(events.MarketTransferred{
		Universe: market.UniverseID,
		Market:   market.ID,
		From:     from,
		To:       req.To,
	})

	return ToMarketResponse(market), nil
}

func (s *service) TransferMailbox(ctx context.Context, marketID, caller uuid.UUID, req *TransferOwnershipRequest) (*MailboxResponse, error) {
	var market *models.Market
	var mailbox *models.Mailbox
	var from uuid.UUID

	err := s.tx.RunInTx(func(txRepo Repository) error {
		var err error
		market, err = txRepo.GetMarketByID(ctx, marketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get market: %w", err)
		}

		mailbox, err = txRepo.GetMailboxByMarketID(ctx, marketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get mailbox: %w", err)
		}

		from = mailbox.Owner
		if err := mailbox.TransferOwnership(caller, req.To); err != nil {
			return err
		}

		if err := txRepo.UpdateMailbox(ctx, mailbox); err != nil {
			return fmt.Errorf("failed to update mailbox: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(events.MarketMailboxTransferred{
		Universe: market.UniverseID,
		Market:   market.ID,
		Mailbox:  mailbox.ID,
		From:     from,
		To:       req.To,
	})

	return ToMailboxResponse(mailbox), nil
}

// WithdrawMailbox sweeps the mailbox's accumulated fees to its owner's
// collateral account. Only the mailbox owner may sweep; an empty mailbox
// sweeps zero.
func (s *service) WithdrawMailbox(ctx context.Context, marketID, caller uuid.UUID) (*WithdrawMailboxResponse, error) {
	var result *WithdrawMailboxResponse

	err := s.tx.RunInTx(func(txRepo Repository) error {
		market, err := txRepo.GetMarketByID(ctx, marketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get market: %w", err)
		}

		mailbox, err := txRepo.GetMailboxByMarketID(ctx, marketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get mailbox: %w", err)
		}

		if !mailbox.IsOwnedBy(caller) {
			return models.ErrUnauthorized
		}

		source, err := txRepo.GetAccountForUpdate(ctx, mailbox.ID, market.DenominationToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = &WithdrawMailboxResponse{
					Mailbox:   ToMailboxResponse(mailbox),
					Amount:    decimal.Zero,
					Recipient: caller,
				}
				return nil
			}
			return fmt.Errorf("failed to get mailbox account: %w", err)
		}

		amount := source.Balance
		if amount.IsZero() {
			result = &WithdrawMailboxResponse{
				Mailbox:   ToMailboxResponse(mailbox),
				Amount:    decimal.Zero,
				Recipient: caller,
			}
			return nil
		}

		dest, err := txRepo.GetAccountForUpdate(ctx, caller, market.DenominationToken)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to get owner account: %w", err)
			}
			dest = &models.CollateralAccount{
				OwnerID:  caller,
				Currency: market.DenominationToken,
				Balance:  decimal.Zero,
			}
			if err := txRepo.CreateAccount(ctx, dest); err != nil {
				return fmt.Errorf("failed to create owner account: %w", err)
			}
		}

		if err := source.Debit(amount); err != nil {
			return err
		}
		if err := dest.Credit(amount); err != nil {
			return err
		}

		if err := txRepo.UpdateAccount(ctx, source); err != nil {
			return fmt.Errorf("failed to update mailbox account: %w", err)
		}
		if err := txRepo.UpdateAccount(ctx, dest); err != nil {
			return fmt.Errorf("failed to update owner account: %w", err)
		}

		mailboxID := mailbox.ID
		debit := models.NewLedgerEntry(source, models.TransactionTypeMailboxSweep,
			amount.Neg(), "mailbox", &mailboxID, "mailbox fee sweep")
		if err := txRepo.CreateTransaction(ctx, debit); err != nil {
			return fmt.Errorf("failed to create debit transaction: %w", err)
		}

		credit := models.NewLedgerEntry(dest, models.TransactionTypeMailboxSweep,
			amount, "mailbox", &mailboxID, "mailbox fee sweep")
		if err := txRepo.CreateTransaction(ctx, credit); err != nil {
			return fmt.Errorf("failed to create credit transaction: %w", err)
		}

		result = &WithdrawMailboxResponse{
			Mailbox:   ToMailboxResponse(mailbox),
			Amount:    amount,
			Recipient: caller,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *service) GetMailbox(ctx context.Context, marketID uuid.UUID) (*MailboxResponse, error) {
	mailbox, err := s.repo.GetMailboxByMarketID(ctx, marketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get mailbox: %w", err)
	}
	return ToMailboxResponse(mailbox), nil
}
