package accounting

import (
	"fmt"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeInput describes one conversion to price.
// RateFrom and RateTo hold the effective rates of non-base currencies; a nil rate
// for a non-base currency means no effective rate exists.
type ExchangeInput struct {
	From        domain.Currency
	To          domain.Currency
	RateFrom    *domain.ExchangeRate
	RateTo      *domain.ExchangeRate
	AmountSold  decimal.Decimal
	AmountToGet *decimal.Decimal
}

// ResolveRate returns the rate to base for c: 1 for the base currency, otherwise the
// stored effective rate.
func ResolveRate(c domain.Currency, rate *domain.ExchangeRate) (decimal.Decimal, error) {
	if c.IsBase {
		return decimal.NewFromInt(1), nil
	}
	if rate == nil || !rate.RateToBase.IsPositive() {
		return decimal.Zero, fmt.Errorf("no effective rate for %s: %w", c.Name, apperrors.ErrRateNotFound)
	}
	return rate.RateToBase, nil
}

// HasMoneyPrecision reports whether d fits in MoneyPrecision decimal places.
func HasMoneyPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(domain.MoneyPrecision))
}

// CalculateExchange prices the sale of AmountSold units of From for units of To.
// In auto mode the customer gets the whole number of To units the sale buys; in fixed
// mode (AmountToGet set) exactly AmountToGet. The remainder is returned as change in
// base currency, or folded into the payout when To is the base currency.
// Till balances are read from the currencies passed in and are never modified.
func CalculateExchange(in ExchangeInput) (domain.ExchangeQuote, error) {
	if in.From.CurrencyID == in.To.CurrencyID {
		return domain.ExchangeQuote{}, apperrors.ErrSameCurrency
	}
	if !in.AmountSold.IsPositive() {
		return domain.ExchangeQuote{}, apperrors.NewValidationError("amount sold must be greater than zero")
	}
	if in.AmountToGet != nil && !in.AmountToGet.IsPositive() {
		return domain.ExchangeQuote{}, apperrors.NewValidationError("amount to get must be greater than zero")
	}
	// Amounts are stored with MoneyPrecision places; anything finer would be priced
	// on a value the ledger cannot hold.
	if !HasMoneyPrecision(in.AmountSold) {
		return domain.ExchangeQuote{}, apperrors.NewValidationError(
			fmt.Sprintf("amount sold must have at most %d decimal places", domain.MoneyPrecision))
	}
	if in.AmountToGet != nil && !HasMoneyPrecision(*in.AmountToGet) {
		return domain.ExchangeQuote{}, apperrors.NewValidationError(
			fmt.Sprintf("amount to get must have at most %d decimal places", domain.MoneyPrecision))
	}

	rateFrom, err := ResolveRate(in.From, in.RateFrom)
	if err != nil {
		return domain.ExchangeQuote{}, err
	}
	rateTo, err := ResolveRate(in.To, in.RateTo)
	if err != nil {
		return domain.ExchangeQuote{}, err
	}

	amountInBase := in.AmountSold.Mul(rateFrom)

	var exchanged decimal.Decimal
	if in.AmountToGet != nil {
		maxPossible := amountInBase.Div(rateTo)
		if !in.To.IsBase && in.AmountToGet.GreaterThan(in.To.AmountInCash) {
			return domain.ExchangeQuote{}, apperrors.NewInsufficientTillError(in.To.Name, *in.AmountToGet, in.To.AmountInCash)
		}
		if in.AmountToGet.Mul(rateTo).GreaterThan(amountInBase) {
			return domain.ExchangeQuote{}, fmt.Errorf("%s %s buys at most %s %s: %w",
				in.AmountSold, in.From.Code, maxPossible.RoundFloor(domain.MoneyPrecision), in.To.Code, apperrors.ErrAmountExceedsConvertible)
		}
		exchanged = *in.AmountToGet
	} else {
		exchanged = amountInBase.Div(rateTo).Floor()
	}
	change := amountInBase.Sub(exchanged.Mul(rateTo))

	if !in.To.IsBase && exchanged.GreaterThan(in.To.AmountInCash) {
		return domain.ExchangeQuote{}, apperrors.NewInsufficientTillError(in.To.Name, exchanged, in.To.AmountInCash)
	}

	if in.To.IsBase {
		exchanged = exchanged.Add(change)
		change = decimal.Zero
	}

	return domain.ExchangeQuote{
		RateFrom:        rateFrom,
		RateTo:          rateTo,
		AmountInBase:    amountInBase,
		ExchangedAmount: exchanged.RoundFloor(domain.MoneyPrecision),
		ChangeInBase:    change.RoundFloor(domain.MoneyPrecision),
	}, nil
}
