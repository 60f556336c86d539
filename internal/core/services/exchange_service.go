package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// rateLookup returns the rate of a currency in force on asOf.
type rateLookup func(ctx context.Context, currencyID string, asOf time.Time) (*domain.ExchangeRate, error)

type exchangeService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	currencyRepo    portsrepo.CurrencyRepositoryFacade
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	transactionRepo portsrepo.ExchangeTransactionRepositoryFacade
	now             func() time.Time
}

// NewExchangeService creates the service that prices exchanges and writes them to the ledger.
func NewExchangeService(
	txManager portsrepo.TransactionManager,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	rateRepo portsrepo.ExchangeRateRepositoryFacade,
	transactionRepo portsrepo.ExchangeTransactionRepositoryFacade,
) portssvc.ExchangeSvcFacade {
	return &exchangeService{
		txManager:       txManager,
		currencyRepo:    currencyRepo,
		rateRepo:        rateRepo,
		transactionRepo: transactionRepo,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ExchangeSvcFacade = (*exchangeService)(nil)

// QuoteExchange reads currencies and rates without locking, so the quote may be stale
// by the time the exchange is performed.
func (s *exchangeService) QuoteExchange(ctx context.Context, req dto.ExchangeRequest) ([]domain.ExchangeQuote, error) {
	if req.CurrencyFromID == req.CurrencyToID {
		return nil, apperrors.ErrSameCurrency
	}
	from, err := s.currencyRepo.FindCurrencyByID(ctx, req.CurrencyFromID)
	if err != nil {
		return nil, fmt.Errorf("failed to find currency to sell in service: %w", err)
	}
	to, err := s.currencyRepo.FindCurrencyByID(ctx, req.CurrencyToID)
	if err != nil {
		return nil, fmt.Errorf("failed to find currency to buy in service: %w", err)
	}
	base, err := s.findBaseCurrency(ctx)
	if err != nil {
		return nil, err
	}

	legs, err := s.price(ctx, *from, *to, *base, req, s.now(), s.rateRepo.FindEffectiveRate)
	if err != nil {
		return nil, err
	}
	if err := checkBaseCovers(*base, legs); err != nil {
		return nil, err
	}
	return legs, nil
}

// PerformExchange locks the tills involved, prices the exchange against the locked
// balances, then writes the ledger entries and till adjustments in one transaction.
func (s *exchangeService) PerformExchange(ctx context.Context, req dto.ExchangeRequest, operatorID string) (*domain.ExchangeResult, error) {
	if req.CurrencyFromID == req.CurrencyToID {
		return nil, apperrors.ErrSameCurrency
	}
	base, err := s.findBaseCurrency(ctx)
	if err != nil {
		return nil, err
	}

	var result *domain.ExchangeResult
	err = runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		// Lock both tills and the base till before reading balances
		locked, err := s.currencyRepo.FindCurrenciesByIDsForUpdate(ctx, tx, []string{req.CurrencyFromID, req.CurrencyToID, base.CurrencyID})
		if err != nil {
			return fmt.Errorf("failed to lock tills in service: %w", err)
		}
		from, to, lockedBase := locked[req.CurrencyFromID], locked[req.CurrencyToID], locked[base.CurrencyID]

		// Price against the locked balances and the rates visible in this transaction
		now := s.now()
		inTx := func(ctx context.Context, currencyID string, asOf time.Time) (*domain.ExchangeRate, error) {
			return s.rateRepo.FindEffectiveRateInTx(ctx, tx, currencyID, asOf)
		}
		quotes, err := s.price(ctx, from, to, lockedBase, req, now, inTx)
		if err != nil {
			return err
		}
		if err := checkBaseCovers(lockedBase, quotes); err != nil {
			return err
		}

		// Record the ledger entries, then move the cash
		legs, err := buildLegs(from, to, lockedBase, req.AmountSold, quotes, operatorID, now)
		if err != nil {
			return err
		}
		if err := s.transactionRepo.SaveExchangeTransactionsInTx(ctx, tx, legs); err != nil {
			return fmt.Errorf("failed to record exchange in service: %w", err)
		}

		deltas := tillDeltas(locked, legs)
		if err := s.currencyRepo.UpdateCurrencyBalancesInTx(ctx, tx, deltas, operatorID, now); err != nil {
			return fmt.Errorf("failed to update tills in service: %w", err)
		}

		// Reflect the adjustments in the returned currencies
		for id, delta := range deltas {
			c := locked[id]
			c.AmountInCash = c.AmountInCash.Add(delta)
			c.LastUpdatedAt = now
			c.LastUpdatedBy = operatorID
			locked[id] = c
		}

		last := legs[len(legs)-1]
		change := decimal.Zero
		for _, l := range legs {
			change = change.Add(l.ChangeInBase)
		}
		result = &domain.ExchangeResult{
			GroupID:         legs[0].GroupID,
			CurrencyFrom:    locked[from.CurrencyID],
			CurrencyTo:      locked[to.CurrencyID],
			AmountSold:      req.AmountSold,
			ExchangedAmount: last.ExchangedAmount,
			ChangeInBase:    change,
			Legs:            legs,
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Exchange failed",
			slog.String("currency_from_id", req.CurrencyFromID),
			slog.String("currency_to_id", req.CurrencyToID),
			slog.String("amount_sold", req.AmountSold.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Exchange recorded",
		slog.String("group_id", result.GroupID),
		slog.String("operator_id", operatorID),
		slog.Int("legs", len(result.Legs)),
		slog.String("exchanged_amount", result.ExchangedAmount.String()),
		slog.String("change_in_base", result.ChangeInBase.String()))
	return result, nil
}

func (s *exchangeService) findBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	base, err := s.currencyRepo.FindBaseCurrency(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("no base currency is configured")
		}
		return nil, fmt.Errorf("failed to find base currency in service: %w", err)
	}
	return base, nil
}

// price runs the calculator for a direct exchange, or for both legs of a
// cross-currency exchange routed through the base currency.
func (s *exchangeService) price(ctx context.Context, from, to, base domain.Currency, req dto.ExchangeRequest, now time.Time, lookup rateLookup) ([]domain.ExchangeQuote, error) {
	if !from.CanExchange() {
		return nil, fmt.Errorf("%s: %w", from.Name, apperrors.ErrCurrencyArchived)
	}
	if !to.CanExchange() {
		return nil, fmt.Errorf("%s: %w", to.Name, apperrors.ErrCurrencyArchived)
	}

	asOf := domain.DateOnly(now)
	rateOf := func(c domain.Currency) (*domain.ExchangeRate, error) {
		if c.IsBase {
			return nil, nil
		}
		rate, err := lookup(ctx, c.CurrencyID, asOf)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find effective rate in service: %w", err)
		}
		return rate, nil
	}
	rateFrom, err := rateOf(from)
	if err != nil {
		return nil, err
	}
	rateTo, err := rateOf(to)
	if err != nil {
		return nil, err
	}

	// Direct exchange: one side is the base currency
	if from.IsBase || to.IsBase {
		quote, err := accounting.CalculateExchange(accounting.ExchangeInput{
			From:        from,
			To:          to,
			RateFrom:    rateFrom,
			RateTo:      rateTo,
			AmountSold:  req.AmountSold,
			AmountToGet: req.AmountToGet,
		})
		if err != nil {
			return nil, err
		}
		return []domain.ExchangeQuote{quote}, nil
	}

	// Cross-currency: sell into base first, then buy the target with the proceeds
	first, err := accounting.CalculateExchange(accounting.ExchangeInput{
		From:       from,
		To:         base,
		RateFrom:   rateFrom,
		AmountSold: req.AmountSold,
	})
	if err != nil {
		return nil, err
	}
	if !first.ExchangedAmount.IsPositive() {
		return nil, apperrors.NewValidationError("amount sold is too small to exchange")
	}
	second, err := accounting.CalculateExchange(accounting.ExchangeInput{
		From:        base,
		To:          to,
		RateTo:      rateTo,
		AmountSold:  first.ExchangedAmount,
		AmountToGet: req.AmountToGet,
	})
	if err != nil {
		return nil, err
	}
	return []domain.ExchangeQuote{first, second}, nil
}

// checkBaseCovers fails when the base till cannot pay out the change of all legs.
func checkBaseCovers(base domain.Currency, legs []domain.ExchangeQuote) error {
	change := decimal.Zero
	for _, l := range legs {
		change = change.Add(l.ChangeInBase)
	}
	if change.GreaterThan(base.AmountInCash) {
		return apperrors.NewInsufficientTillError(base.Name, change, base.AmountInCash)
	}
	return nil
}

func buildLegs(from, to, base domain.Currency, amountSold decimal.Decimal, quotes []domain.ExchangeQuote, operatorID string, now time.Time) ([]domain.ExchangeTransaction, error) {
	groupID := uuid.NewString()
	pairs := [][2]domain.Currency{{from, to}}
	sold := []decimal.Decimal{amountSold}
	// Two quotes means the exchange was routed through base
	if len(quotes) == 2 {
		pairs = [][2]domain.Currency{{from, base}, {base, to}}
		sold = append(sold, quotes[0].ExchangedAmount)
	}

	legs := make([]domain.ExchangeTransaction, len(quotes))
	for i, q := range quotes {
		legs[i] = domain.ExchangeTransaction{
			TransactionID:   uuid.NewString(),
			GroupID:         groupID,
			LegNumber:       i + 1,
			OperatorID:      operatorID,
			CurrencyFromID:  pairs[i][0].CurrencyID,
			CurrencyToID:    pairs[i][1].CurrencyID,
			Amount:          sold[i],
			ExchangedAmount: q.ExchangedAmount,
			ChangeInBase:    q.ChangeInBase,
			RateFrom:        q.RateFrom,
			RateTo:          q.RateTo,
			CreatedAt:       now,
		}
		// Catch calculator bugs before they reach the ledger
		if err := legs[i].Validate(); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	return legs, nil
}

// tillDeltas turns ledger entries into till adjustments. Foreign tills take in the
// sold amount and pay out the exchanged amount; the base till only pays out change.
func tillDeltas(currencies map[string]domain.Currency, legs []domain.ExchangeTransaction) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal)
	add := func(id string, d decimal.Decimal) {
		if d.IsZero() {
			return
		}
		deltas[id] = deltas[id].Add(d)
	}
	var baseID string
	for id, c := range currencies {
		if c.IsBase {
			baseID = id
		}
	}
	for _, l := range legs {
		if !currencies[l.CurrencyFromID].IsBase {
			add(l.CurrencyFromID, l.Amount)
		}
		if !currencies[l.CurrencyToID].IsBase {
			add(l.CurrencyToID, l.ExchangedAmount.Neg())
		}
		if baseID != "" {
			add(baseID, l.ChangeInBase.Neg())
		}
	}
	return deltas
}
